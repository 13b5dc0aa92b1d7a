package marquee

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

func getAttr(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, name) {
			return a.Val
		}
	}
	return ""
}

func setAttr(n *html.Node, name, val string) {
	for i, a := range n.Attr {
		if strings.EqualFold(a.Key, name) {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: name, Val: val})
}

// GetAttr returns the value of attribute name on n, or "".
func GetAttr(n *html.Node, name string) string { return getAttr(n, name) }

func element(tag, class string, attrs ...html.Attribute) *html.Node {
	n := &html.Node{Type: html.ElementNode, Data: tag, DataAtom: atom.Lookup([]byte(tag))}
	if class != "" {
		n.Attr = append(n.Attr, html.Attribute{Key: "class", Val: class})
	}
	n.Attr = append(n.Attr, attrs...)
	return n
}

func textNode(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

// setClasses rewrites n's class list to base followed by each extra whose
// flag is on, keeping a stable order.
func setClasses(n *html.Node, base string, extras ...classFlag) {
	parts := []string{base}
	for _, e := range extras {
		if e.on {
			parts = append(parts, e.name)
		}
	}
	setAttr(n, "class", strings.Join(parts, " "))
}

type classFlag struct {
	name string
	on   bool
}

// setStyleProperty sets one declaration in n's inline style, replacing an
// existing declaration of the same property.
func setStyleProperty(n *html.Node, prop, val string) {
	var kept []string
	for _, decl := range strings.Split(getAttr(n, "style"), ";") {
		decl = strings.TrimSpace(decl)
		if decl == "" {
			continue
		}
		kv := strings.SplitN(decl, ":", 2)
		if strings.EqualFold(strings.TrimSpace(kv[0]), prop) {
			continue
		}
		kept = append(kept, decl)
	}
	kept = append(kept, prop+":"+val)
	setAttr(n, "style", strings.Join(kept, ";"))
}

// RenderHTML serializes n and its subtree.
func RenderHTML(n *html.Node) string {
	if n == nil {
		return ""
	}
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return ""
	}
	return buf.String()
}

// RenderChildren serializes the children of n without n itself.
func RenderChildren(n *html.Node) string {
	if n == nil {
		return ""
	}
	var buf bytes.Buffer
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return ""
		}
	}
	return buf.String()
}
