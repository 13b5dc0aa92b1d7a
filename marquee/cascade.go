package marquee

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/andybalholm/cascadia"
	cssast "github.com/aymerick/douceur/css"
	"github.com/aymerick/douceur/parser"
	"golang.org/x/net/html"
)

type propState struct {
	val       string
	spec      cascadia.Specificity
	order     int
	important bool
}

type cssDeclaration struct {
	property  string
	value     string
	important bool
}

type cssRule struct {
	selector     cascadia.Sel
	specificity  cascadia.Specificity
	declarations []cssDeclaration
	order        int
}

// Stylesheet is a parsed sheet ready for cascading onto nodes. Only
// qualified rules with selectors cascadia understands take part; at-rules
// other than @media and @supports are ignored.
type Stylesheet struct {
	rules     []cssRule
	keyframes []string
}

// Keyframes lists the names of the @keyframes blocks in the sheet.
func (ss *Stylesheet) Keyframes() []string {
	if ss == nil {
		return nil
	}
	return append([]string(nil), ss.keyframes...)
}

// ParseStylesheet parses css with douceur and compiles the selectors.
func ParseStylesheet(css string) (*Stylesheet, error) {
	sheet, err := parser.Parse(strings.TrimSpace(css))
	if err != nil {
		return nil, fmt.Errorf("parse stylesheet: %w", err)
	}
	ss := &Stylesheet{}
	order := 0

	var walk func([]*cssast.Rule)
	walk = func(list []*cssast.Rule) {
		for _, rule := range list {
			if rule == nil {
				continue
			}
			switch rule.Kind {
			case cssast.AtRule:
				switch strings.ToLower(strings.TrimSpace(rule.Name)) {
				case "@media", "@supports":
					walk(rule.Rules)
				case "@keyframes", "@-webkit-keyframes":
					ss.keyframes = append(ss.keyframes, strings.TrimSpace(rule.Prelude))
				}
			case cssast.QualifiedRule:
				decls := convertDeclarations(rule.Declarations)
				if len(decls) == 0 || len(rule.Selectors) == 0 {
					continue
				}
				group, err := cascadia.ParseGroup(strings.Join(rule.Selectors, ","))
				if err != nil {
					// :hover and friends have no static meaning here
					continue
				}
				for _, sel := range group {
					if sel == nil || sel.PseudoElement() != "" {
						continue
					}
					ss.rules = append(ss.rules, cssRule{selector: sel, specificity: sel.Specificity(), declarations: cloneDecls(decls), order: order})
					order++
				}
			}
		}
	}
	walk(sheet.Rules)
	return ss, nil
}

func cloneDecls(src []cssDeclaration) []cssDeclaration {
	out := make([]cssDeclaration, len(src))
	copy(out, src)
	return out
}

func convertDeclarations(list []*cssast.Declaration) []cssDeclaration {
	if len(list) == 0 {
		return nil
	}
	out := make([]cssDeclaration, 0, len(list))
	for _, decl := range list {
		if decl == nil {
			continue
		}
		prop := strings.ToLower(strings.TrimSpace(decl.Property))
		if prop == "" {
			continue
		}
		val := strings.TrimSpace(decl.Value)
		if val == "" {
			continue
		}
		out = append(out, cssDeclaration{property: prop, value: val, important: decl.Important})
	}
	return out
}

// ComputeStyle cascades ss and the inline style attribute onto n. Values are
// not inherited; callers walk ancestors for inherited properties.
func ComputeStyle(n *html.Node, ss *Stylesheet) map[string]string {
	if n == nil || n.Type != html.ElementNode {
		return nil
	}
	props := map[string]propState{}
	if ss != nil {
		for _, rule := range ss.rules {
			if rule.selector == nil || !rule.selector.Match(n) {
				continue
			}
			for _, decl := range rule.declarations {
				applyDeclaration(props, decl, rule.specificity, rule.order)
			}
		}
	}
	for i, decl := range inlineDeclarations(getAttr(n, "style")) {
		applyDeclaration(props, decl, cascadia.Specificity{1 << 12, 0, 0}, (1<<30)+i)
	}
	if len(props) == 0 {
		return nil
	}
	out := make(map[string]string, len(props))
	for k, st := range props {
		out[k] = st.val
	}
	return out
}

// inlineDeclarations parses a style attribute. douceur leaves the value of an
// unterminated last declaration empty, so the text always gets a closing ';'.
func inlineDeclarations(inline string) []cssDeclaration {
	inline = strings.TrimSpace(inline)
	if inline == "" {
		return nil
	}
	if !strings.HasSuffix(inline, ";") {
		inline += ";"
	}
	if decls, err := parser.ParseDeclarations(inline); err == nil {
		return convertDeclarations(decls)
	}
	var out []cssDeclaration
	for _, part := range strings.Split(inline, ";") {
		kv := strings.SplitN(part, ":", 2)
		if len(kv) != 2 {
			continue
		}
		value := strings.TrimSpace(kv[1])
		important := false
		if lower := strings.ToLower(value); strings.HasSuffix(lower, "!important") {
			important = true
			value = strings.TrimSpace(value[:len(value)-len("!important")])
		}
		out = append(out, cssDeclaration{
			property:  strings.ToLower(strings.TrimSpace(kv[0])),
			value:     value,
			important: important,
		})
	}
	return out
}

func applyDeclaration(store map[string]propState, decl cssDeclaration, spec cascadia.Specificity, order int) {
	prop := strings.ToLower(strings.TrimSpace(decl.property))
	if prop == "" {
		return
	}
	value := strings.TrimSpace(decl.value)
	if value == "" {
		return
	}
	entry := propState{val: value, spec: spec, order: order, important: decl.important}
	if prev, ok := store[prop]; ok {
		if prev.important && !decl.important {
			return
		}
		if decl.important && !prev.important {
			store[prop] = entry
			return
		}
		if prev.spec.Less(spec) {
			store[prop] = entry
			return
		}
		if spec.Less(prev.spec) {
			return
		}
		if order >= prev.order {
			store[prop] = entry
		}
		return
	}
	store[prop] = entry
}

// cssLengthToPx resolves px, %, em/rem and unitless lengths. base is the
// reference for percentages, fontSize for em.
func cssLengthToPx(val string, base, fontSize float64) (float64, bool) {
	v := strings.ToLower(strings.TrimSpace(val))
	if v == "" {
		return 0, false
	}
	num := func(s string) (float64, bool) {
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		return f, err == nil
	}
	switch {
	case strings.HasSuffix(v, "px"):
		return num(v[:len(v)-2])
	case strings.HasSuffix(v, "%"):
		if base <= 0 {
			return 0, false
		}
		f, ok := num(v[:len(v)-1])
		return base * f / 100.0, ok
	case strings.HasSuffix(v, "rem"):
		f, ok := num(v[:len(v)-3])
		return f * 16.0, ok
	case strings.HasSuffix(v, "em"):
		if fontSize <= 0 {
			fontSize = 16
		}
		f, ok := num(v[:len(v)-2])
		return f * fontSize, ok
	}
	return num(v)
}

// firstLength reads the first component of a shorthand like "20px 10px".
func firstLength(val string, base, fontSize float64) (float64, bool) {
	fields := strings.Fields(val)
	if len(fields) == 0 {
		return 0, false
	}
	return cssLengthToPx(fields[0], base, fontSize)
}
