package marquee

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

// Snapshot is a serialized copy of a mounted strip handed to a Measurer, so
// measuring never touches the live tree.
type Snapshot struct {
	ID string
	// Markup is the container subtree including its <style> element.
	Markup string
	// ReviewSelector matches the review blocks in document order.
	ReviewSelector string
	// CardHeight is a hint for measurers that need a viewport.
	CardHeight float64
}

// BoxMetrics is the rendered size of one review block.
type BoxMetrics struct {
	Height     float64 `json:"h"`
	LineHeight float64 `json:"lh"`
}

// Lines is how many whole lines of text fit in the box.
func (m BoxMetrics) Lines() int {
	if m.LineHeight <= 0 || m.Height <= 0 || math.IsNaN(m.Height) || math.IsNaN(m.LineHeight) {
		return 0
	}
	return int(math.Floor(m.Height/m.LineHeight + 1e-9))
}

// Measurer reports review box metrics once a strip has been laid out.
type Measurer interface {
	Measure(ctx context.Context, snap Snapshot) ([]BoxMetrics, error)
}

// applyClamp limits each review to the lines that fit. It returns how many
// reviews were clamped.
func applyClamp(reviews []*html.Node, metrics []BoxMetrics) int {
	n := 0
	for i, review := range reviews {
		if i >= len(metrics) {
			break
		}
		lines := metrics[i].Lines()
		if lines <= 0 {
			continue
		}
		setStyleProperty(review, "-webkit-line-clamp", strconv.Itoa(lines))
		n++
	}
	return n
}

// LayoutMeasurer computes metrics from the strip's own stylesheet with a
// static box model: fixed heights, padding, flex rows and columns, gaps and
// line heights. It needs no browser and is the default measurer.
type LayoutMeasurer struct{}

func (LayoutMeasurer) Measure(ctx context.Context, snap Snapshot) ([]BoxMetrics, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	doc, err := html.Parse(strings.NewReader(snap.Markup))
	if err != nil {
		return nil, fmt.Errorf("layout: parse markup: %w", err)
	}
	sel, err := cascadia.Compile(snap.ReviewSelector)
	if err != nil {
		return nil, fmt.Errorf("layout: review selector: %w", err)
	}
	var css strings.Builder
	for _, st := range cascadia.MustCompile("style").MatchAll(doc) {
		for c := st.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.TextNode {
				css.WriteString(c.Data)
				css.WriteByte('\n')
			}
		}
	}
	ss, err := ParseStylesheet(css.String())
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	l := &boxLayout{ss: ss, styles: map[*html.Node]map[string]string{}}
	reviews := sel.MatchAll(doc)
	out := make([]BoxMetrics, 0, len(reviews))
	for _, r := range reviews {
		out = append(out, BoxMetrics{Height: l.stretchedHeight(r), LineHeight: l.lineHeight(r)})
	}
	return out, nil
}

const defaultFontSize = 16

type boxLayout struct {
	ss     *Stylesheet
	styles map[*html.Node]map[string]string
}

func (l *boxLayout) style(n *html.Node) map[string]string {
	if st, ok := l.styles[n]; ok {
		return st
	}
	st := ComputeStyle(n, l.ss)
	if st == nil {
		st = map[string]string{}
	}
	l.styles[n] = st
	return st
}

// inherited walks up from n for the first declared value of prop.
func (l *boxLayout) inherited(n *html.Node, prop string) (string, *html.Node) {
	for p := n; p != nil; p = p.Parent {
		if p.Type != html.ElementNode {
			continue
		}
		if v, ok := l.style(p)[prop]; ok && v != "inherit" {
			return v, p
		}
	}
	return "", nil
}

func (l *boxLayout) fontSize(n *html.Node) float64 {
	v, at := l.inherited(n, "font-size")
	if at == nil {
		return defaultFontSize
	}
	parent := float64(defaultFontSize)
	if at.Parent != nil {
		parent = l.fontSize(at.Parent)
	}
	if f, ok := cssLengthToPx(v, parent, parent); ok && f > 0 {
		return f
	}
	return parent
}

func (l *boxLayout) lineHeight(n *html.Node) float64 {
	fs := l.fontSize(n)
	v, _ := l.inherited(n, "line-height")
	v = strings.ToLower(strings.TrimSpace(v))
	if v == "" || v == "normal" {
		return 1.2 * fs
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		return f * fs
	}
	if f, ok := cssLengthToPx(v, fs, fs); ok {
		return f
	}
	return 1.2 * fs
}

func (l *boxLayout) verticalPadding(n *html.Node) (top, bottom float64) {
	st := l.style(n)
	fs := l.fontSize(n)
	if fields := strings.Fields(st["padding"]); len(fields) > 0 {
		top, _ = cssLengthToPx(fields[0], 0, fs)
		bottom = top
		if len(fields) >= 3 {
			bottom, _ = cssLengthToPx(fields[2], 0, fs)
		}
	}
	if v, ok := st["padding-top"]; ok {
		top, _ = cssLengthToPx(v, 0, fs)
	}
	if v, ok := st["padding-bottom"]; ok {
		bottom, _ = cssLengthToPx(v, 0, fs)
	}
	return top, bottom
}

func (l *boxLayout) gap(n *html.Node) float64 {
	st := l.style(n)
	v, ok := st["row-gap"]
	if !ok {
		v = st["gap"]
	}
	g, _ := firstLength(v, 0, l.fontSize(n))
	return g
}

func (l *boxLayout) isFlex(n *html.Node) bool {
	d := strings.TrimSpace(l.style(n)["display"])
	return d == "flex" || d == "inline-flex"
}

func (l *boxLayout) isColumn(n *html.Node) bool {
	return strings.HasPrefix(strings.TrimSpace(l.style(n)["flex-direction"]), "column")
}

func (l *boxLayout) grows(n *html.Node) bool {
	st := l.style(n)
	if v, ok := st["flex-grow"]; ok {
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return err == nil && f > 0
	}
	fields := strings.Fields(st["flex"])
	if len(fields) == 0 {
		return false
	}
	f, err := strconv.ParseFloat(fields[0], 64)
	return err == nil && f > 0
}

// outerHeight is the border-box height of n.
func (l *boxLayout) outerHeight(n *html.Node) float64 {
	if h, ok := cssLengthToPx(l.style(n)["height"], 0, l.fontSize(n)); ok {
		return h
	}
	top, bottom := l.verticalPadding(n)
	return l.contentHeight(n) + top + bottom
}

func (l *boxLayout) contentHeight(n *html.Node) float64 {
	kids := elementChildren(n)
	if len(kids) == 0 || (!l.isFlex(n) && hasText(n)) {
		if !hasText(n) {
			return 0
		}
		return l.lineHeight(n) * float64(1+countBreaks(n))
	}
	if l.isFlex(n) && !l.isColumn(n) {
		h := 0.0
		for _, k := range kids {
			h = math.Max(h, l.outerHeight(k))
		}
		return h
	}
	sum := 0.0
	for _, k := range kids {
		sum += l.outerHeight(k)
	}
	if l.isFlex(n) {
		sum += l.gap(n) * float64(len(kids)-1)
	}
	return sum
}

// stretchedHeight is n's height after a column flex parent with a fixed
// height distributes its free space to growing children.
func (l *boxLayout) stretchedHeight(n *html.Node) float64 {
	parent := n.Parent
	if parent == nil || !l.grows(n) || !l.isFlex(parent) || !l.isColumn(parent) {
		return l.outerHeight(n)
	}
	ph, ok := cssLengthToPx(l.style(parent)["height"], 0, l.fontSize(parent))
	if !ok {
		return l.outerHeight(n)
	}
	top, bottom := l.verticalPadding(parent)
	free := ph - top - bottom
	kids := elementChildren(parent)
	free -= l.gap(parent) * float64(len(kids)-1)
	for _, k := range kids {
		if k != n {
			free -= l.outerHeight(k)
		}
	}
	return math.Max(0, free)
}

func elementChildren(n *html.Node) []*html.Node {
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data != "br" && c.Data != "style" {
			out = append(out, c)
		}
	}
	return out
}

func hasText(n *html.Node) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode && strings.TrimSpace(c.Data) != "" {
			return true
		}
		if c.Type == html.ElementNode && hasText(c) {
			return true
		}
	}
	return false
}

func countBreaks(n *html.Node) int {
	count := 0
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			if c.Data == "br" {
				count++
			}
			count += countBreaks(c)
		}
	}
	return count
}
