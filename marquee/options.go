package marquee

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Properties is the host's option bag, keyed by property name.
type Properties map[string]any

// Property names understood by FromProperties.
const (
	PropTestimonials    = "testimonials_json"
	PropScrollSpeed     = "scroll_speed"
	PropCardHeight      = "card_height"
	PropBackgroundColor = "background_color"
	PropColorName       = "color_name"
	PropColorTitle      = "color_title"
	PropColorReview     = "color_review"
	PropScrollDirection = "scroll_direction"
	PropRoundness       = "roundness"
	PropStopOnHover     = "stop_on_hover"
	PropAvatarField     = "avatar_field"
	PropNameField       = "name_field"
	PropTitleField      = "title_field"
	PropReviewField     = "review_field"
)

// Defaults for every option.
const (
	DefaultSpeed       = 3
	DefaultCardHeight  = 200
	DefaultBackground  = "#1a1a1a"
	DefaultNameColor   = "#ffffff"
	DefaultTitleColor  = "#999999"
	DefaultReviewColor = "#cccccc"
	DefaultRoundness   = 12
)

// Direction is the scroll direction of the strip.
type Direction int

const (
	// DirectionLeft scrolls content towards the left (forward keyframes).
	DirectionLeft Direction = iota
	// DirectionRight scrolls content towards the right (reverse keyframes).
	DirectionRight
)

func (d Direction) String() string {
	if d == DirectionRight {
		return "Right"
	}
	return "Left"
}

// ParseDirection accepts "Right" in any case; everything else is Left.
func ParseDirection(s string) Direction {
	if strings.EqualFold(strings.TrimSpace(s), "right") {
		return DirectionRight
	}
	return DirectionLeft
}

// Options is the validated configuration of one render pass.
type Options struct {
	Data          any
	Speed         float64
	CardHeight    float64
	Background    string
	NameColor     string
	TitleColor    string
	ReviewColor   string
	Direction     Direction
	Roundness     float64
	StopOnHover   bool
	Fields        FieldMap
	DefaultAvatar string
}

// DefaultOptions returns the options used when no property is set.
func DefaultOptions() Options {
	return Options{
		Speed:         DefaultSpeed,
		CardHeight:    DefaultCardHeight,
		Background:    DefaultBackground,
		NameColor:     DefaultNameColor,
		TitleColor:    DefaultTitleColor,
		ReviewColor:   DefaultReviewColor,
		Direction:     DirectionLeft,
		Roundness:     DefaultRoundness,
		StopOnHover:   true,
		Fields:        DefaultFieldMap(),
		DefaultAvatar: DefaultAvatarURL,
	}
}

// FromProperties reads host properties. Missing, zero and unusable values
// fall back to defaults silently; roundness accepts an explicit 0.
func FromProperties(p Properties) Options {
	o := DefaultOptions()
	if p == nil {
		return o
	}
	o.Data = p[PropTestimonials]
	if v, ok := numberProp(p, PropScrollSpeed); ok {
		o.Speed = Speed(v)
	}
	if v, ok := numberProp(p, PropCardHeight); ok && v > 0 {
		o.CardHeight = v
	}
	if v, ok := numberProp(p, PropRoundness); ok && v >= 0 {
		o.Roundness = v
	}
	o.Background = SafeColor(stringProp(p, PropBackgroundColor), DefaultBackground)
	o.NameColor = SafeColor(stringProp(p, PropColorName), DefaultNameColor)
	o.TitleColor = SafeColor(stringProp(p, PropColorTitle), DefaultTitleColor)
	o.ReviewColor = SafeColor(stringProp(p, PropColorReview), DefaultReviewColor)
	o.Direction = ParseDirection(stringProp(p, PropScrollDirection))
	o.StopOnHover = !isExplicitFalse(p[PropStopOnHover])
	o.Fields = FieldMap{
		Avatar: stringProp(p, PropAvatarField),
		Name:   stringProp(p, PropNameField),
		Title:  stringProp(p, PropTitleField),
		Review: stringProp(p, PropReviewField),
	}.withDefaults()
	return o
}

func stringProp(p Properties, key string) string {
	switch v := p[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case nil:
		return ""
	default:
		if s := coerceString(v); s != "" {
			return s
		}
	}
	return ""
}

// numberProp reads a finite number from any numeric shape hosts send.
func numberProp(p Properties, key string) (float64, bool) {
	v, ok := rawNumber(p[key])
	if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func rawNumber(raw any) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case int32:
		return float64(v), true
	case uint64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	}
	return 0, false
}

func isExplicitFalse(v any) bool {
	switch t := v.(type) {
	case bool:
		return !t
	case string:
		s := strings.ToLower(strings.TrimSpace(t))
		return s == "false" || s == "no" || s == "off"
	}
	return false
}
