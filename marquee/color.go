package marquee

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

type rgbColor struct {
	R uint8
	G uint8
	B uint8
}

func (c rgbColor) hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func (c rgbColor) relativeLuminance() float64 {
	toLinear := func(channel uint8) float64 {
		v := float64(channel) / 255.0
		if v <= 0.03928 {
			return v / 12.92
		}
		return math.Pow((v+0.055)/1.055, 2.4)
	}
	return 0.2126*toLinear(c.R) + 0.7152*toLinear(c.G) + 0.0722*toLinear(c.B)
}

func (c rgbColor) contrastRatio(other rgbColor) float64 {
	la := c.relativeLuminance()
	lb := other.relativeLuminance()
	if la < lb {
		la, lb = lb, la
	}
	return (la + 0.05) / (lb + 0.05)
}

var namedColors = map[string]rgbColor{
	"black":   {},
	"white":   {R: 255, G: 255, B: 255},
	"gray":    {R: 128, G: 128, B: 128},
	"grey":    {R: 128, G: 128, B: 128},
	"silver":  {R: 192, G: 192, B: 192},
	"red":     {R: 255},
	"green":   {G: 128},
	"blue":    {B: 255},
	"yellow":  {R: 255, G: 255},
	"orange":  {R: 255, G: 165},
	"purple":  {R: 128, B: 128},
	"navy":    {B: 128},
	"teal":    {G: 128, B: 128},
	"maroon":  {R: 128},
	"olive":   {R: 128, G: 128},
	"lime":    {G: 255},
	"aqua":    {G: 255, B: 255},
	"fuchsia": {R: 255, B: 255},
}

func parseHexColor(value string) (rgbColor, bool) {
	hex := strings.TrimPrefix(strings.TrimSpace(value), "#")
	if len(hex) != 6 {
		return rgbColor{}, false
	}
	r, errR := strconv.ParseUint(hex[0:2], 16, 8)
	g, errG := strconv.ParseUint(hex[2:4], 16, 8)
	b, errB := strconv.ParseUint(hex[4:6], 16, 8)
	if errR != nil || errG != nil || errB != nil {
		return rgbColor{}, false
	}
	return rgbColor{uint8(r), uint8(g), uint8(b)}, true
}

func parseShorthandHex(value string) (rgbColor, bool) {
	hex := strings.TrimPrefix(strings.TrimSpace(value), "#")
	switch len(hex) {
	case 3, 4:
		exp := []byte{
			hex[0], hex[0],
			hex[1], hex[1],
			hex[2], hex[2],
		}
		return parseHexColor(string(exp))
	case 6, 8:
		return parseHexColor(hex[:6])
	default:
		return rgbColor{}, false
	}
}

func parseCSSColor(input string) (rgbColor, bool) {
	s := strings.TrimSpace(strings.ToLower(input))
	if s == "" || s == "transparent" {
		return rgbColor{}, false
	}
	if col, ok := namedColors[s]; ok {
		return col, true
	}
	if strings.HasPrefix(s, "#") {
		return parseShorthandHex(s)
	}
	if strings.HasPrefix(s, "rgb(") || strings.HasPrefix(s, "rgba(") {
		return parseRGBFunctional(s)
	}
	return rgbColor{}, false
}

func parseRGBFunctional(expr string) (rgbColor, bool) {
	open := strings.IndexByte(expr, '(')
	close := strings.LastIndexByte(expr, ')')
	if open < 0 || close <= open+1 {
		return rgbColor{}, false
	}
	parts := strings.FieldsFunc(expr[open+1:close], func(r rune) bool {
		return r == ',' || r == ' ' || r == '/'
	})
	if len(parts) < 3 {
		return rgbColor{}, false
	}
	toByte := func(component string) (uint8, bool) {
		component = strings.TrimSpace(component)
		pct := strings.HasSuffix(component, "%")
		value, err := strconv.ParseFloat(strings.TrimSuffix(component, "%"), 64)
		if err != nil {
			return 0, false
		}
		if pct {
			value = value * 255.0 / 100.0
		}
		return uint8(math.Max(0, math.Min(255, value))), true
	}
	r, okR := toByte(parts[0])
	g, okG := toByte(parts[1])
	b, okB := toByte(parts[2])
	if !okR || !okG || !okB {
		return rgbColor{}, false
	}
	return rgbColor{R: r, G: g, B: b}, true
}

// CSSToHex converts a CSS color to #rrggbb, or "" when it is not understood.
func CSSToHex(v string) string {
	if col, ok := parseCSSColor(v); ok {
		return col.hex()
	}
	return ""
}

// ContrastRatio is the WCAG contrast ratio of two CSS colors; 1 when either
// cannot be parsed.
func ContrastRatio(a, b string) float64 {
	ca, okA := parseCSSColor(a)
	cb, okB := parseCSSColor(b)
	if !okA || !okB {
		return 1
	}
	return ca.contrastRatio(cb)
}

// SafeColor returns v when it is a color that can be placed in a stylesheet
// as is, otherwise fallback. Functional notations the parser does not model
// (hsl, color-mix...) are kept when they contain no CSS syntax characters.
func SafeColor(v, fallback string) string {
	s := strings.TrimSpace(v)
	if s == "" {
		return fallback
	}
	if strings.ContainsAny(s, ";{}<>\\\"'@!") {
		return fallback
	}
	if _, ok := parseCSSColor(s); ok {
		return s
	}
	lower := strings.ToLower(s)
	for _, fn := range []string{"hsl(", "hsla(", "hwb(", "lab(", "lch(", "oklch(", "oklab(", "color("} {
		if strings.HasPrefix(lower, fn) && strings.HasSuffix(lower, ")") && strings.Count(lower, "(") == strings.Count(lower, ")") {
			return s
		}
	}
	if isCSSKeyword(lower) {
		return s
	}
	return fallback
}

func isCSSKeyword(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if (r < 'a' || r > 'z') && r != '-' {
			return false
		}
	}
	return true
}
