package inject

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/hyperifyio/docscrape/internal/extract"
	"github.com/hyperifyio/docscrape/internal/namespace"
)

const bindings = `const std = @import("std");

pub const PlaydateSys = extern struct {
    realloc: *const fn (ptr: ?*anyopaque, size: usize) callconv(.C) ?*anyopaque,
    @"error": *const fn (fmt: [*c]const u8, ...) callconv(.C) void,
};

pub const PlaydateSound = extern struct {
    channel: *const PlaydateSoundChannel,
    setMicCallback: *const fn (callback: RecordCallback, context: ?*anyopaque, forceInternal: c_int) callconv(.C) void,
};

pub const PlaydateJSON = extern struct {
    decode: *const fn (functions: [*c]JSONDecoder, reader: JSONReader, outval: ?*JSONValue) callconv(.C) c_int,

    pub inline fn json_decode(foo: i32) void {
        _ = foo;
    }
};
`

func newInjector() Injector {
	return Injector{Resolver: namespace.Default()}
}

func indexOf(lines []string, s string) int {
	for i, l := range lines {
		if strings.Contains(l, s) {
			return i
		}
	}
	return -1
}

func TestCommentBlock_OneLinePerSegment(t *testing.T) {
	got := CommentBlock("Decodes JSON.\n\nhttp://x")
	want := []string{"    /// Decodes JSON.", "    ///", "    /// http://x"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestApply_InlineFunction(t *testing.T) {
	buf := NewBuffer("a\n  inline fn json_decode(foo: i32) void {\nb")
	recs := []extract.Record{{Identifier: "json_decode", Description: "Decodes JSON.\n\nhttp://x"}}
	rep, err := newInjector().Apply(recs, buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{
		"a",
		"    /// Decodes JSON.",
		"    ///",
		"    /// http://x",
		"  inline fn json_decode(foo: i32) void {",
		"b",
	}
	if !reflect.DeepEqual(buf.Lines(), want) {
		t.Fatalf("got %q\nwant %q", buf.Lines(), want)
	}
	if rep.Injected != 1 || len(rep.Warnings) != 0 {
		t.Fatalf("unexpected report: %+v", rep)
	}
}

func TestApply_InlineMissingIsSilent(t *testing.T) {
	buf := NewBuffer("nothing here")
	rep, err := newInjector().Apply([]extract.Record{{Identifier: "json_setTableEncoder", Description: "x"}}, buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buf.String() != "nothing here" {
		t.Fatalf("buffer changed: %q", buf.String())
	}
	if len(rep.Warnings) != 0 || rep.Skipped != 1 {
		t.Fatalf("unexpected report: %+v", rep)
	}
}

func TestApply_StructProperty(t *testing.T) {
	buf := NewBuffer(bindings)
	recs := []extract.Record{{Identifier: "sound.setMicCallback", Description: "Mic.\n\nhttps://doc"}}
	rep, err := newInjector().Apply(recs, buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lines := buf.Lines()
	at := indexOf(lines, "setMicCallback: ")
	if at < 3 {
		t.Fatalf("anchor not found in %q", lines)
	}
	got := lines[at-3 : at]
	want := []string{"    /// Mic.", "    ///", "    /// https://doc"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %q want %q", got, want)
	}
	if rep.Injected != 1 {
		t.Fatalf("unexpected report: %+v", rep)
	}
}

func TestApply_EscapesErrorProperty(t *testing.T) {
	buf := NewBuffer(bindings)
	recs := []extract.Record{{Identifier: "system.error", Description: "Calls the log function."}}
	if _, err := newInjector().Apply(recs, buf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lines := buf.Lines()
	at := indexOf(lines, `@"error": `)
	if at < 1 || lines[at-1] != "    /// Calls the log function." {
		t.Fatalf("comment not placed above error field: %q", lines)
	}
}

func TestApply_StructNotFoundWarnsOnce(t *testing.T) {
	text := "pub const PlaydateSoundChannel = extern struct {\n    setVolume: *const fn () void,\n};"
	buf := NewBuffer(text)
	recs := []extract.Record{{Identifier: "sound.setMicCallback", Description: "Mic."}}
	rep, err := newInjector().Apply(recs, buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buf.String() != text {
		t.Fatalf("buffer changed: %q", buf.String())
	}
	if len(rep.Warnings) != 1 {
		t.Fatalf("expected exactly one warning, got %+v", rep.Warnings)
	}
	w := rep.Warnings[0]
	if w.Kind != StructNotFound || w.Container != "PlaydateSound" {
		t.Fatalf("unexpected warning: %+v", w)
	}
	if !strings.Contains(w.String(), `"PlaydateSound"`) {
		t.Fatalf("unexpected warning text: %s", w)
	}
}

func TestApply_PropertyOutsideStructWarns(t *testing.T) {
	// getVolume lives in the next struct, past the closing "};".
	text := "pub const PlaydateSys = extern struct {\n    realloc: x,\n};\npub const Other = struct {\n    getVolume: y,\n};"
	buf := NewBuffer(text)
	rep, err := newInjector().Apply([]extract.Record{{Identifier: "system.getVolume", Description: "d"}}, buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buf.String() != text {
		t.Fatalf("buffer changed")
	}
	if len(rep.Warnings) != 1 || rep.Warnings[0].Kind != PropertyNotFound || rep.Warnings[0].Property != "getVolume" {
		t.Fatalf("unexpected warnings: %+v", rep.Warnings)
	}
}

func TestApply_UnterminatedStructWarns(t *testing.T) {
	buf := NewBuffer("pub const PlaydateSys = extern struct {\n    realloc: x,")
	rep, err := newInjector().Apply([]extract.Record{{Identifier: "system.realloc", Description: "d"}}, buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rep.Warnings) != 1 || rep.Warnings[0].Kind != PropertyNotFound {
		t.Fatalf("unexpected warnings: %+v", rep.Warnings)
	}
}

func TestApply_UnknownNamespaceIsFatal(t *testing.T) {
	buf := NewBuffer(bindings)
	recs := []extract.Record{
		{Identifier: "foobar.thing", Description: "x"},
		{Identifier: "sound.setMicCallback", Description: "never reached"},
	}
	_, err := newInjector().Apply(recs, buf)
	if !errors.Is(err, namespace.ErrUnknownNamespace) {
		t.Fatalf("expected ErrUnknownNamespace, got %v", err)
	}
	if buf.String() != bindings {
		t.Fatalf("buffer should be untouched")
	}
}

func TestApply_SequentialInsertionsUseLiveIndices(t *testing.T) {
	buf := NewBuffer(bindings)
	recs := []extract.Record{
		{Identifier: "system.realloc", Description: "Allocates."},
		{Identifier: "system.error", Description: "Errors."},
		{Identifier: "sound.setMicCallback", Description: "Mic."},
		{Identifier: "json_decode", Description: "Decodes."},
	}
	rep, err := newInjector().Apply(recs, buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rep.Injected != 4 {
		t.Fatalf("expected 4 injections, got %+v", rep)
	}
	lines := buf.Lines()
	for anchor, comment := range map[string]string{
		"realloc: ":              "    /// Allocates.",
		`@"error": `:             "    /// Errors.",
		"setMicCallback: ":       "    /// Mic.",
		"inline fn json_decode(": "    /// Decodes.",
	} {
		at := indexOf(lines, anchor)
		if at < 1 || lines[at-1] != comment {
			t.Fatalf("anchor %q: expected %q above, got %q", anchor, comment, lines)
		}
	}
	if got, want := buf.Len(), len(strings.Split(bindings, "\n"))+4; got != want {
		t.Fatalf("line count: got %d want %d", got, want)
	}
}

func TestApply_NotIdempotent(t *testing.T) {
	recs := []extract.Record{{Identifier: "sound.setMicCallback", Description: "Mic."}}
	buf := NewBuffer(bindings)
	if _, err := newInjector().Apply(recs, buf); err != nil {
		t.Fatalf("first apply: %v", err)
	}
	again := NewBuffer(buf.String())
	if _, err := newInjector().Apply(recs, again); err != nil {
		t.Fatalf("second apply: %v", err)
	}
	if n := strings.Count(again.String(), "    /// Mic."); n != 2 {
		t.Fatalf("expected duplicated comment, found %d", n)
	}
}

func TestBuffer_RoundTripAndInsertBounds(t *testing.T) {
	text := "one\ntwo\n"
	buf := NewBuffer(text)
	if buf.String() != text {
		t.Fatalf("round trip changed text: %q", buf.String())
	}
	buf.Insert(-1, "bad")
	buf.Insert(buf.Len()+1, "bad")
	if buf.String() != text {
		t.Fatalf("out of range insert modified buffer")
	}
	buf.Insert(0, "zero")
	if buf.String() != "zero\none\ntwo\n" {
		t.Fatalf("unexpected buffer: %q", buf.String())
	}
	if i := buf.IndexContaining(0, 2, "two"); i != -1 {
		t.Fatalf("expected exclusive upper bound, got %d", i)
	}
	if i := buf.IndexContaining(0, -1, "two"); i != 2 {
		t.Fatalf("expected 2, got %d", i)
	}
}

func TestApply_DuplicateIdentifiersStackAboveFirstMatch(t *testing.T) {
	text := "pub const PlaydateSys = extern struct {\n    realloc: x,\n};\n    pub inline fn json_a(v: i32) void {}"
	buf := NewBuffer(text)
	recs := []extract.Record{
		{Identifier: "system.realloc", Description: "one"},
		{Identifier: "system.realloc", Description: "two"},
		{Identifier: "json_a", Description: "A"},
		{Identifier: "json_a", Description: "B"},
	}
	rep, err := newInjector().Apply(recs, buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rep.Injected != 4 || len(rep.Warnings) != 0 {
		t.Fatalf("unexpected report: %+v", rep)
	}
	want := []string{
		"pub const PlaydateSys = extern struct {",
		"    /// one",
		"    /// two",
		"    realloc: x,",
		"};",
		"    /// A",
		"    /// B",
		"    pub inline fn json_a(v: i32) void {}",
	}
	if !reflect.DeepEqual(buf.Lines(), want) {
		t.Fatalf("got %q\nwant %q", buf.Lines(), want)
	}
}
