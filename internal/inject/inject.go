// Package inject splices doc comment blocks into a bindings file above the
// declarations they describe.
package inject

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/docscrape/internal/extract"
)

const (
	// InlinePrefix selects the inline function path.
	InlinePrefix = "json_"

	commentIndent = "    "
	commentMarker = "///"
	blockEnd      = "};"
)

// Resolver maps an identifier to the name of its container struct. An
// error aborts the whole run.
type Resolver interface {
	Resolve(identifier string) (string, error)
}

// WarningKind classifies a record that could not be placed.
type WarningKind int

const (
	StructNotFound WarningKind = iota + 1
	PropertyNotFound
)

// Warning describes one skipped record.
type Warning struct {
	Kind       WarningKind
	Identifier string
	Container  string
	Property   string
}

func (w Warning) String() string {
	switch w.Kind {
	case StructNotFound:
		return fmt.Sprintf("Struct %q not found for function name %q", w.Container, w.Identifier)
	case PropertyNotFound:
		return fmt.Sprintf("Property %q not found for struct %q", w.Property, w.Container)
	default:
		return fmt.Sprintf("unresolved record %q", w.Identifier)
	}
}

// Injector places records into a Buffer.
type Injector struct {
	Resolver Resolver
}

// Report summarizes an Apply call.
type Report struct {
	Injected int
	Skipped  int
	Warnings []Warning
}

// Apply inserts one comment block per record, in order, searching the
// buffer as modified by every earlier insertion. Running it twice on the
// same text duplicates the comments. Resolver errors stop processing and
// are returned as is; buf keeps the insertions made so far.
func (in Injector) Apply(records []extract.Record, buf *Buffer) (Report, error) {
	var rep Report
	for _, rec := range records {
		block := CommentBlock(rec.Description)

		if strings.HasPrefix(rec.Identifier, InlinePrefix) {
			at := buf.IndexContaining(-1, -1, "inline fn "+rec.Identifier+"(")
			if at < 0 {
				log.Debug().Str("name", rec.Identifier).Msg("inline function not found")
				rep.Skipped++
				continue
			}
			buf.Insert(at, block...)
			rep.Injected++
			continue
		}

		at, warn, err := in.locateProperty(rec.Identifier, buf)
		if err != nil {
			return rep, err
		}
		if warn != nil {
			rep.Warnings = append(rep.Warnings, *warn)
			rep.Skipped++
			continue
		}
		buf.Insert(at, block...)
		rep.Injected++
	}
	return rep, nil
}

func (in Injector) locateProperty(identifier string, buf *Buffer) (int, *Warning, error) {
	container, err := in.Resolver.Resolve(identifier)
	if err != nil {
		return -1, nil, err
	}
	property := PropertyName(identifier)

	start := buf.IndexContaining(-1, -1, " "+container+" =")
	if start < 0 {
		return -1, &Warning{Kind: StructNotFound, Identifier: identifier, Container: container, Property: property}, nil
	}
	end := buf.IndexContaining(start, -1, blockEnd)
	at := -1
	if end >= 0 {
		at = buf.IndexContaining(start, end, property+": ")
	}
	if at < 0 {
		return -1, &Warning{Kind: PropertyNotFound, Identifier: identifier, Container: container, Property: property}, nil
	}
	return at, nil, nil
}

// PropertyName returns the field name of identifier in its container,
// escaping the reserved word error.
func PropertyName(identifier string) string {
	name := identifier
	if i := strings.LastIndexByte(identifier, '.'); i >= 0 {
		name = identifier[i+1:]
	}
	if name == "error" {
		return `@"error"`
	}
	return name
}

// CommentBlock renders description as indented doc comment lines, one per
// "\n"-separated segment.
func CommentBlock(description string) []string {
	segments := strings.Split(description, "\n")
	out := make([]string, 0, len(segments))
	for _, s := range segments {
		out = append(out, strings.TrimRight(commentIndent+commentMarker+" "+s, " "))
	}
	return out
}
