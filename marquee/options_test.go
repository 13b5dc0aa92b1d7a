package marquee

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFromPropertiesDefaults(t *testing.T) {
	t.Parallel()
	for _, p := range []Properties{nil, {}} {
		if diff := cmp.Diff(DefaultOptions(), FromProperties(p)); diff != "" {
			t.Fatalf("FromProperties(%v) mismatch (-want +got):\n%s", p, diff)
		}
	}
}

func TestFromProperties(t *testing.T) {
	t.Parallel()
	p := Properties{
		PropTestimonials:    `[]`,
		PropScrollSpeed:     "7",
		PropCardHeight:      json.Number("260"),
		PropBackgroundColor: "rgb(10, 20, 30)",
		PropColorName:       "red",
		PropColorTitle:      "#abc",
		PropColorReview:     "red; background: url(x)",
		PropScrollDirection: "right",
		PropRoundness:       0,
		PropStopOnHover:     "off",
		PropNameField:       "author",
		PropReviewField:     " ",
	}
	want := Options{
		Data:          `[]`,
		Speed:         7,
		CardHeight:    260,
		Background:    "rgb(10, 20, 30)",
		NameColor:     "red",
		TitleColor:    "#abc",
		ReviewColor:   DefaultReviewColor,
		Direction:     DirectionRight,
		Roundness:     0,
		StopOnHover:   false,
		Fields:        FieldMap{Avatar: "avatar", Name: "author", Title: "title", Review: "review"},
		DefaultAvatar: DefaultAvatarURL,
	}
	if diff := cmp.Diff(want, FromProperties(p)); diff != "" {
		t.Fatalf("FromProperties mismatch (-want +got):\n%s", diff)
	}
}

func TestFromPropertiesFallbacks(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		props Properties
		check func(Options) bool
	}{
		{"speed_zero", Properties{PropScrollSpeed: 0}, func(o Options) bool { return o.Speed == DefaultSpeed }},
		{"speed_too_fast", Properties{PropScrollSpeed: 11.0}, func(o Options) bool { return o.Speed == DefaultSpeed }},
		{"speed_nan", Properties{PropScrollSpeed: math.NaN()}, func(o Options) bool { return o.Speed == DefaultSpeed }},
		{"speed_fractional", Properties{PropScrollSpeed: 2.5}, func(o Options) bool { return o.Speed == 2.5 }},
		{"card_height_negative", Properties{PropCardHeight: -5}, func(o Options) bool { return o.CardHeight == DefaultCardHeight }},
		{"card_height_garbage", Properties{PropCardHeight: "tall"}, func(o Options) bool { return o.CardHeight == DefaultCardHeight }},
		{"roundness_negative", Properties{PropRoundness: -1}, func(o Options) bool { return o.Roundness == DefaultRoundness }},
		{"roundness_inf", Properties{PropRoundness: math.Inf(1)}, func(o Options) bool { return o.Roundness == DefaultRoundness }},
		{"stop_on_hover_false", Properties{PropStopOnHover: false}, func(o Options) bool { return !o.StopOnHover }},
		{"stop_on_hover_missing", Properties{PropStopOnHover: nil}, func(o Options) bool { return o.StopOnHover }},
		{"stop_on_hover_odd_string", Properties{PropStopOnHover: "maybe"}, func(o Options) bool { return o.StopOnHover }},
		{"direction_unknown", Properties{PropScrollDirection: "up"}, func(o Options) bool { return o.Direction == DirectionLeft }},
		{"color_injection", Properties{PropBackgroundColor: "#000}</style><script>"}, func(o Options) bool { return o.Background == DefaultBackground }},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if o := FromProperties(tc.props); !tc.check(o) {
				t.Fatalf("FromProperties(%v) = %+v", tc.props, o)
			}
		})
	}
}

func TestParseDirection(t *testing.T) {
	t.Parallel()
	tests := map[string]Direction{
		"Right":    DirectionRight,
		" RIGHT":   DirectionRight,
		"Left":     DirectionLeft,
		"":         DirectionLeft,
		"sideways": DirectionLeft,
	}
	for in, want := range tests {
		if got := ParseDirection(in); got != want {
			t.Fatalf("ParseDirection(%q) = %s, expected %s", in, got, want)
		}
	}
}
