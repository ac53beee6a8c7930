package extract

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/text/unicode/norm"
)

const (
	// DefaultPrefix marks the id of every function documentation block.
	DefaultPrefix = "f-"
	// DefaultDocsBaseURL is the root of the hosted SDK documentation.
	DefaultDocsBaseURL = "https://sdk.play.date"

	docsPage     = "Inside%20Playdate%20with%20C.html"
	contentClass = "content"
)

// Record is a single function description scraped from the reference.
type Record struct {
	Identifier  string
	Description string
}

// Options control how records are built from the document.
type Options struct {
	SDKVersion  string
	Prefix      string
	DocsBaseURL string
}

func (o Options) withDefaults() Options {
	if o.Prefix == "" {
		o.Prefix = DefaultPrefix
	}
	if o.DocsBaseURL == "" {
		o.DocsBaseURL = DefaultDocsBaseURL
	}
	o.DocsBaseURL = strings.TrimRight(o.DocsBaseURL, "/")
	return o
}

// FromHTML returns one Record per element whose id starts with the function
// prefix, in document order. Elements without a content container fall back
// to a placeholder description; no element is ever dropped.
func FromHTML(input []byte, opts Options) ([]Record, error) {
	opts = opts.withDefaults()
	root, err := html.Parse(bytes.NewReader(input))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	var records []Record
	walk(root, func(n *html.Node) {
		id, ok := attr(n, "id")
		if !ok || !strings.HasPrefix(id, opts.Prefix) {
			return
		}
		desc := describe(n)
		if desc == "" {
			desc = Fallback(opts.SDKVersion)
		}
		desc += "\n\n" + DocsURL(opts.DocsBaseURL, opts.SDKVersion, id)
		records = append(records, Record{
			Identifier:  strings.TrimPrefix(id, opts.Prefix),
			Description: desc,
		})
	})
	return records, nil
}

// Fallback is the description used when a block carries no text.
func Fallback(sdkVersion string) string {
	return "No official documentation as of SDK version " + sdkVersion
}

// DocsURL links an element id to its anchor in the hosted reference.
func DocsURL(base, sdkVersion, id string) string {
	frag := (&url.URL{Fragment: id}).EscapedFragment()
	return strings.TrimRight(base, "/") + "/" + sdkVersion + "/" + docsPage + "#" + frag
}

// describe flattens the text of the first content container below n onto a
// single line. Nested boxes (code listings, titles) are flattened with it.
func describe(n *html.Node) string {
	content := findFirst(n, func(c *html.Node) bool {
		return c != n && hasClass(c, contentClass)
	})
	if content == nil {
		return ""
	}
	var b strings.Builder
	textContent(&b, content)
	text := strings.TrimSpace(b.String())
	text = strings.ReplaceAll(text, "\t", "")
	text = strings.ReplaceAll(text, "\n", " ")
	return norm.NFC.String(text)
}

// walk visits element nodes in document order.
func walk(n *html.Node, visit func(*html.Node)) {
	if n.Type == html.ElementNode {
		visit(n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, visit)
	}
}

func findFirst(n *html.Node, match func(*html.Node) bool) *html.Node {
	if n.Type == html.ElementNode && match(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if res := findFirst(c, match); res != nil {
			return res
		}
	}
	return nil
}

func textContent(b *strings.Builder, n *html.Node) {
	if n.Type == html.TextNode {
		b.WriteString(n.Data)
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		textContent(b, c)
	}
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && strings.EqualFold(a.Key, key) {
			return a.Val, true
		}
	}
	return "", false
}

func hasClass(n *html.Node, class string) bool {
	v, ok := attr(n, "class")
	if !ok {
		return false
	}
	for _, c := range strings.Fields(v) {
		if c == class {
			return true
		}
	}
	return false
}
