package marquee

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func TestBuildStrip(t *testing.T) {
	t.Parallel()
	c := newClassNames("r1")
	display := Duplicate([]Testimonial{
		{Avatar: "//cdn.example.com/a.png", Name: "Ann", Title: "CTO", Review: "Line one\nLine two"},
		{Review: "No name here"},
	}, LoopFactor)
	s := buildStrip(c, display, ".x{color:red}")

	doc := goquery.NewDocumentFromNode(s.container)
	if got := doc.Find(".testimonial-card-r1").Length(); got != 6 {
		t.Fatalf("card count = %d, expected 6", got)
	}
	if got := len(s.reviews); got != 6 {
		t.Fatalf("review handles = %d, expected 6", got)
	}
	track := doc.Find(".testimonial-slider-wrapper-r1 > .testimonial-slider-track-r1")
	if track.Length() != 1 || track.Get(0) != s.track {
		t.Fatal("track is not nested in the wrapper")
	}
	if style := doc.Find("style").Text(); style != ".x{color:red}" {
		t.Fatalf("style text = %q", style)
	}

	first := doc.Find(".testimonial-card-r1").First()
	img := first.Find("img.testimonial-avatar-r1")
	if src, _ := img.Attr("src"); src != "https://cdn.example.com/a.png" {
		t.Fatalf("avatar src = %q", src)
	}
	if alt, _ := img.Attr("alt"); alt != "Ann" {
		t.Fatalf("avatar alt = %q", alt)
	}
	if name := first.Find(".testimonial-header-content-r1 .testimonial-name-r1").Text(); name != "Ann" {
		t.Fatalf("name = %q", name)
	}
	if n := first.Find(".testimonial-review-r1 br").Length(); n != 1 {
		t.Fatalf("review line breaks = %d, expected 1", n)
	}

	second := doc.Find(".testimonial-card-r1").Eq(1)
	if alt, _ := second.Find("img").Attr("alt"); alt != "Avatar" {
		t.Fatalf("nameless alt = %q, expected Avatar", alt)
	}
	if src, _ := second.Find("img").Attr("src"); src != DefaultAvatarURL {
		t.Fatalf("blank avatar src = %q", src)
	}

	names := doc.Find(".testimonial-name-r1").Map(func(_ int, s *goquery.Selection) string { return s.Text() })
	if strings.Join(names, ",") != "Ann,,Ann,,Ann," {
		t.Fatalf("display order = %v", names)
	}
}

func TestReviewNodesSanitized(t *testing.T) {
	t.Parallel()
	c := newClassNames("s")
	s := buildStrip(c, []Testimonial{{
		Name:   "Mallory",
		Review: `Nice <b>bold</b> <script>alert(1)</script><img src=x onerror=alert(1)> "quoted" & done`,
	}}, "")
	out := RenderHTML(s.reviews[0])
	for _, bad := range []string{"<script", "onerror", "<img"} {
		if strings.Contains(out, bad) {
			t.Fatalf("review markup kept %q: %s", bad, out)
		}
	}
	doc := goquery.NewDocumentFromNode(s.reviews[0])
	if doc.Find("b").Text() != "bold" {
		t.Fatalf("inline emphasis lost: %s", out)
	}
	if text := doc.Text(); !strings.Contains(text, `"quoted" & done`) {
		t.Fatalf("review text = %q", text)
	}
}

func TestBuildPlaceholder(t *testing.T) {
	t.Parallel()
	n := buildPlaceholder()
	doc := goquery.NewDocumentFromNode(n)
	if doc.Text() != PlaceholderText {
		t.Fatalf("placeholder text = %q", doc.Text())
	}
	if style, _ := doc.Attr("style"); !strings.Contains(style, "justify-content:center") {
		t.Fatalf("placeholder style = %q", style)
	}
}
