package marquee

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func measureStrip(t *testing.T, p Properties, reviews ...string) []BoxMetrics {
	t.Helper()
	opts := FromProperties(p)
	g := DefaultGeometry()
	ts := make([]Testimonial, 0, len(reviews))
	for _, r := range reviews {
		ts = append(ts, Testimonial{Name: "N", Title: "T", Review: r})
	}
	css, err := buildStylesheet(sheetInput{id: "m", opts: opts, geometry: g, params: g.Params(len(ts), opts.Direction, opts.Speed)})
	if err != nil {
		t.Fatalf("buildStylesheet: %v", err)
	}
	c := newClassNames("m")
	s := buildStrip(c, ts, css)
	metrics, err := LayoutMeasurer{}.Measure(context.Background(), Snapshot{
		ID:             "m",
		Markup:         RenderHTML(s.container),
		ReviewSelector: "." + c.review,
		CardHeight:     opts.CardHeight,
	})
	if err != nil {
		t.Fatalf("Measure: %v", err)
	}
	return metrics
}

func TestLayoutMeasurer(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		props    Properties
		expected BoxMetrics
		lines    int
	}{
		{"default_card", nil, BoxMetrics{Height: 98, LineHeight: 21}, 4},
		{"tall_card", Properties{PropCardHeight: 300}, BoxMetrics{Height: 198, LineHeight: 21}, 9},
		{"short_card", Properties{PropCardHeight: 80}, BoxMetrics{Height: 0, LineHeight: 21}, 0},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			metrics := measureStrip(t, tc.props, strings.Repeat("long review ", 40), "short")
			if len(metrics) != 2 {
				t.Fatalf("metrics = %d, expected 2", len(metrics))
			}
			for _, m := range metrics {
				if diff := cmp.Diff(tc.expected, m); diff != "" {
					t.Fatalf("metrics mismatch (-want +got):\n%s", diff)
				}
				if m.Lines() != tc.lines {
					t.Fatalf("Lines() = %d, expected %d", m.Lines(), tc.lines)
				}
			}
		})
	}
}

func TestLayoutMeasurerErrors(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := (LayoutMeasurer{}).Measure(ctx, Snapshot{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("cancelled measure error = %v", err)
	}
	if _, err := (LayoutMeasurer{}).Measure(context.Background(), Snapshot{Markup: "<div></div>", ReviewSelector: "[["}); err == nil {
		t.Fatal("expected selector error")
	}
}

func TestBoxMetricsLines(t *testing.T) {
	t.Parallel()
	tests := []struct {
		m     BoxMetrics
		lines int
	}{
		{BoxMetrics{Height: 63, LineHeight: 21}, 3},
		{BoxMetrics{Height: 62.9, LineHeight: 21}, 2},
		{BoxMetrics{Height: 10, LineHeight: 0}, 0},
		{BoxMetrics{Height: -5, LineHeight: 21}, 0},
	}
	for _, tc := range tests {
		if got := tc.m.Lines(); got != tc.lines {
			t.Fatalf("%+v.Lines() = %d, expected %d", tc.m, got, tc.lines)
		}
	}
}

func TestApplyClamp(t *testing.T) {
	t.Parallel()
	c := newClassNames("a")
	s := buildStrip(c, []Testimonial{{Review: "a"}, {Review: "b"}, {Review: "c"}}, "")
	setStyleProperty(s.reviews[0], "color", "red")
	n := applyClamp(s.reviews, []BoxMetrics{{Height: 98, LineHeight: 21}, {Height: 0, LineHeight: 21}})
	if n != 1 {
		t.Fatalf("clamped = %d, expected 1", n)
	}
	if got := GetAttr(s.reviews[0], "style"); got != "color:red;-webkit-line-clamp:4" {
		t.Fatalf("style = %q", got)
	}
	if got := GetAttr(s.reviews[1], "style"); got != "" {
		t.Fatalf("unmeasurable review got style %q", got)
	}
	applyClamp(s.reviews, []BoxMetrics{{Height: 42, LineHeight: 21}})
	if got := GetAttr(s.reviews[0], "style"); got != "color:red;-webkit-line-clamp:2" {
		t.Fatalf("re-clamped style = %q", got)
	}
}

func TestClampedReviewComputedStyle(t *testing.T) {
	t.Parallel()
	g := DefaultGeometry()
	css, err := buildStylesheet(sheetInput{id: "a", opts: DefaultOptions(), geometry: g, params: g.Params(1, DirectionLeft, DefaultSpeed)})
	if err != nil {
		t.Fatalf("buildStylesheet: %v", err)
	}
	ss, err := ParseStylesheet(css)
	if err != nil {
		t.Fatalf("ParseStylesheet: %v", err)
	}
	s := buildStrip(newClassNames("a"), []Testimonial{{Name: "Ann", Review: "long review"}}, css)
	if got := ComputeStyle(s.reviews[0], ss)["-webkit-line-clamp"]; got != "unset" {
		t.Fatalf("line clamp before measuring = %q, expected unset", got)
	}
	applyClamp(s.reviews, []BoxMetrics{{Height: 98, LineHeight: 21}})
	got := ComputeStyle(s.reviews[0], ss)
	if got["-webkit-line-clamp"] != "4" {
		t.Fatalf("line clamp after measuring = %q, expected 4", got["-webkit-line-clamp"])
	}
	if got["line-height"] != "1.5" {
		t.Fatalf("sheet declarations lost: line-height = %q", got["line-height"])
	}
}
