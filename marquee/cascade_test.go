package marquee

import (
	"strings"
	"testing"

	"github.com/andybalholm/cascadia"
	"github.com/google/go-cmp/cmp"
	"golang.org/x/net/html"
)

func parseBody(t *testing.T, markup string) *html.Node {
	t.Helper()
	doc, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		t.Fatalf("html.Parse: %v", err)
	}
	return doc
}

func TestComputeStyleCascade(t *testing.T) {
	t.Parallel()
	ss, err := ParseStylesheet(`
		p { color: black; margin: 0 }
		.note { color: red; font-size: 12px }
		#main { color: blue }
		p { color: green }
		.note { margin: 4px !important }
		#main { margin: 8px }
		@media (min-width: 10px) { .note { padding: 2px } }
		a:hover { color: pink }
	`)
	if err != nil {
		t.Fatalf("ParseStylesheet: %v", err)
	}
	doc := parseBody(t, `<p id="main" class="note" style="font-size: 20px">x</p><p>y</p>`)
	ps := cascadia.MustCompile("p").MatchAll(doc)

	got := ComputeStyle(ps[0], ss)
	want := map[string]string{"color": "blue", "margin": "4px", "font-size": "20px", "padding": "2px"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("ComputeStyle(#main) mismatch (-want +got):\n%s", diff)
	}

	got = ComputeStyle(ps[1], ss)
	want = map[string]string{"color": "green", "margin": "0"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("ComputeStyle(p) mismatch (-want +got):\n%s", diff)
	}
}

func TestComputeStyleNilInputs(t *testing.T) {
	t.Parallel()
	if got := ComputeStyle(nil, nil); got != nil {
		t.Fatalf("expected nil for nil node, got %v", got)
	}
	doc := parseBody(t, `<div style="color: red">x</div>`)
	div := cascadia.MustCompile("div").MatchFirst(doc)
	if got := ComputeStyle(div, nil); got["color"] != "red" {
		t.Fatalf("inline style without sheet = %v", got)
	}
}

func TestStylesheetKeyframes(t *testing.T) {
	t.Parallel()
	ss, err := ParseStylesheet(`@keyframes spin { from { opacity: 0 } to { opacity: 1 } } .a { color: red }`)
	if err != nil {
		t.Fatalf("ParseStylesheet: %v", err)
	}
	if diff := cmp.Diff([]string{"spin"}, ss.Keyframes()); diff != "" {
		t.Fatalf("Keyframes mismatch (-want +got):\n%s", diff)
	}
	var nilSheet *Stylesheet
	if nilSheet.Keyframes() != nil {
		t.Fatal("nil sheet should have no keyframes")
	}
}

func TestCSSLengthToPx(t *testing.T) {
	t.Parallel()
	tests := []struct {
		input    string
		base     float64
		fontSize float64
		expected float64
		ok       bool
	}{
		{"12px", 0, 16, 12, true},
		{" 50% ", 200, 16, 100, true},
		{"50%", 0, 16, 0, false},
		{"2rem", 0, 10, 32, true},
		{"1.5em", 0, 14, 21, true},
		{"2em", 0, 0, 32, true},
		{"7", 0, 16, 7, true},
		{"auto", 0, 16, 0, false},
		{"", 0, 16, 0, false},
	}
	for _, tc := range tests {
		got, ok := cssLengthToPx(tc.input, tc.base, tc.fontSize)
		if ok != tc.ok || (ok && got != tc.expected) {
			t.Fatalf("cssLengthToPx(%q, %v, %v) = (%v, %v), expected (%v, %v)", tc.input, tc.base, tc.fontSize, got, ok, tc.expected, tc.ok)
		}
	}
	if got, ok := firstLength("20px 10px", 0, 16); !ok || got != 20 {
		t.Fatalf("firstLength = (%v, %v)", got, ok)
	}
}

func TestInlineDeclarations(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		inline string
		want   []cssDeclaration
	}{
		{"empty", "  ", nil},
		{"unterminated_last", "a:1;b:2", []cssDeclaration{{property: "a", value: "1"}, {property: "b", value: "2"}}},
		{"terminated", "A: 1;", []cssDeclaration{{property: "a", value: "1"}}},
		{"single", "-webkit-line-clamp:4", []cssDeclaration{{property: "-webkit-line-clamp", value: "4"}}},
		{"important", "color: red !important", []cssDeclaration{{property: "color", value: "red", important: true}}},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := inlineDeclarations(tc.inline)
			if diff := cmp.Diff(tc.want, got, cmp.AllowUnexported(cssDeclaration{})); diff != "" {
				t.Fatalf("inlineDeclarations(%q) mismatch (-want +got):\n%s", tc.inline, diff)
			}
		})
	}
}
