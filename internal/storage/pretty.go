package storage

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// indent is written once per nesting level
const indent = " "

// voidElements never have children or an end tag
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
}

// verbatimElements keep their content exactly as parsed
var verbatimElements = map[string]bool{
	"pre": true, "textarea": true, "script": true, "style": true,
}

// Text keeps quotes as typed; attribute values are always double-quoted
var (
	textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	attrEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")
)

// Prettify renders every node of sel with one node per line, indented by
// depth. Whitespace-only text is dropped and other text is trimmed.
func Prettify(sel *goquery.Selection) (string, error) {
	var b strings.Builder
	for _, n := range sel.Nodes {
		if err := renderPretty(&b, n, 0); err != nil {
			return "", err
		}
	}
	return b.String(), nil
}

func renderPretty(w io.Writer, n *html.Node, depth int) error {
	pad := strings.Repeat(indent, depth)

	switch n.Type {
	case html.DocumentNode:
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if err := renderPretty(w, c, depth); err != nil {
				return err
			}
		}
		return nil

	case html.TextNode:
		text := strings.TrimSpace(n.Data)
		if text == "" {
			return nil
		}
		_, err := fmt.Fprintf(w, "%s%s\n", pad, textEscaper.Replace(text))
		return err

	case html.ElementNode:
		if verbatimElements[n.Data] {
			if _, err := io.WriteString(w, pad); err != nil {
				return err
			}
			if err := html.Render(w, n); err != nil {
				return err
			}
			_, err := io.WriteString(w, "\n")
			return err
		}

		if _, err := fmt.Fprintf(w, "%s%s\n", pad, startTag(n)); err != nil {
			return err
		}
		if voidElements[n.Data] {
			return nil
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if err := renderPretty(w, c, depth+1); err != nil {
				return err
			}
		}
		_, err := fmt.Fprintf(w, "%s</%s>\n", pad, n.Data)
		return err

	default:
		// Doctype and comments render as parsed
		if _, err := io.WriteString(w, pad); err != nil {
			return err
		}
		if err := html.Render(w, n); err != nil {
			return err
		}
		_, err := io.WriteString(w, "\n")
		return err
	}
}

// startTag renders "<name attr="value" ...>"
func startTag(n *html.Node) string {
	var b strings.Builder
	b.WriteString("<")
	b.WriteString(n.Data)
	for _, a := range n.Attr {
		b.WriteString(" ")
		if a.Namespace != "" {
			b.WriteString(a.Namespace)
			b.WriteString(":")
		}
		b.WriteString(a.Key)
		b.WriteString(`="`)
		b.WriteString(attrEscaper.Replace(a.Val))
		b.WriteString(`"`)
	}
	b.WriteString(">")
	return b.String()
}
