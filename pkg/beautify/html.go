package beautify

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/matzehuels/treemenu/pkg/errors"
)

// HTML is the default [Beautifier]. It parses the fragment with
// golang.org/x/net/html and writes it back one element per line.
type HTML struct{}

// Default is the package-level HTML beautifier.
var Default Beautifier = HTML{}

// inline elements are kept on the line of their parent.
var inline = map[atom.Atom]bool{
	atom.A:      true,
	atom.Span:   true,
	atom.B:      true,
	atom.Strong: true,
	atom.Em:     true,
	atom.I:      true,
	atom.Small:  true,
	atom.Img:    true,
	atom.Br:     true,
	atom.Code:   true,
}

// Beautify implements [Beautifier].
func (HTML) Beautify(src, directive string) (string, error) {
	style, err := ParseDirective(directive)
	if err != nil {
		return "", err
	}

	ctx := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(src), ctx)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "parse markup")
	}

	p := &printer{style: style}
	for _, n := range nodes {
		p.node(n, style.Level)
	}
	out := p.buf.String()
	if !style.Compact {
		out = strings.TrimSuffix(out, style.Newline)
	}
	return out, nil
}

type printer struct {
	style Style
	buf   bytes.Buffer
}

func (p *printer) node(n *html.Node, level int) {
	switch n.Type {
	case html.TextNode:
		text := strings.TrimSpace(n.Data)
		if text == "" {
			return
		}
		p.line(level, html.EscapeString(collapse(text)))
	case html.CommentNode:
		p.line(level, "<!--"+n.Data+"-->")
	case html.ElementNode:
		if isInline(n) {
			p.line(level, renderInline(n))
			return
		}
		p.line(level, openTag(n))
		if voidElements[n.Data] {
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			p.node(c, level+1)
		}
		p.line(level, "</"+n.Data+">")
	}
}

func (p *printer) line(level int, s string) {
	if p.style.Compact {
		p.buf.WriteString(s)
		return
	}
	p.buf.WriteString(strings.Repeat(p.style.Indent, level))
	p.buf.WriteString(s)
	p.buf.WriteString(p.style.Newline)
}

// isInline reports whether n and its whole subtree can stay on one line.
func isInline(n *html.Node) bool {
	if !inline[n.DataAtom] {
		return false
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && !isInline(c) {
			return false
		}
	}
	return true
}

func renderInline(n *html.Node) string {
	var b bytes.Buffer
	_ = html.Render(&b, n)
	return b.String()
}

func openTag(n *html.Node) string {
	var b strings.Builder
	b.WriteByte('<')
	b.WriteString(n.Data)
	for _, a := range n.Attr {
		b.WriteByte(' ')
		b.WriteString(a.Key)
		b.WriteString(`="`)
		b.WriteString(html.EscapeString(a.Val))
		b.WriteByte('"')
	}
	b.WriteByte('>')
	return b.String()
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"source": true, "track": true, "wbr": true,
}
