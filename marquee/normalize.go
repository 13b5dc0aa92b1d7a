package marquee

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// DefaultAvatarURL is shown when a testimonial carries no avatar.
const DefaultAvatarURL = "https://avatar.iran.liara.run/public"

// Record is one loosely typed testimonial as it came from the host.
type Record map[string]any

// FieldMap names the record keys holding each testimonial field.
type FieldMap struct {
	Avatar string
	Name   string
	Title  string
	Review string
}

// DefaultFieldMap returns the stock avatar/name/title/review keys.
func DefaultFieldMap() FieldMap {
	return FieldMap{Avatar: "avatar", Name: "name", Title: "title", Review: "review"}
}

func (f FieldMap) keys() []string {
	return []string{f.Avatar, f.Name, f.Title, f.Review}
}

// withDefaults fills blank keys from DefaultFieldMap.
func (f FieldMap) withDefaults() FieldMap {
	def := DefaultFieldMap()
	if strings.TrimSpace(f.Avatar) == "" {
		f.Avatar = def.Avatar
	}
	if strings.TrimSpace(f.Name) == "" {
		f.Name = def.Name
	}
	if strings.TrimSpace(f.Title) == "" {
		f.Title = def.Title
	}
	if strings.TrimSpace(f.Review) == "" {
		f.Review = def.Review
	}
	return f
}

// Testimonial is a normalized, display ready record.
type Testimonial struct {
	Avatar string
	Name   string
	Title  string
	Review string
}

// Normalize maps records through fields into testimonials. Records whose
// name and review are both blank are dropped. Keys are matched exactly.
func Normalize(records []Record, fields FieldMap, defaultAvatar string) []Testimonial {
	fields = fields.withDefaults()
	out := make([]Testimonial, 0, len(records))
	for _, rec := range records {
		if rec == nil {
			continue
		}
		t := Testimonial{
			Avatar: FixAvatarURL(coerceString(rec[fields.Avatar]), defaultAvatar),
			Name:   coerceString(rec[fields.Name]),
			Title:  coerceString(rec[fields.Title]),
			Review: coerceString(rec[fields.Review]),
		}
		if t.Name == "" && t.Review == "" {
			continue
		}
		out = append(out, t)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// FixAvatarURL upgrades protocol relative URLs to https and substitutes
// fallback (or DefaultAvatarURL) for blank input.
func FixAvatarURL(raw, fallback string) string {
	u := strings.TrimSpace(raw)
	if u == "" {
		if fallback = strings.TrimSpace(fallback); fallback != "" {
			u = fallback
		} else {
			u = DefaultAvatarURL
		}
	}
	if strings.HasPrefix(u, "//") {
		return "https:" + u
	}
	return u
}

// coerceString turns a loosely typed field into trimmed text; missing and
// falsy values become "".
func coerceString(v any) string {
	if !truthy(v) {
		return ""
	}
	var s string
	switch t := v.(type) {
	case string:
		s = t
	case json.Number:
		s = t.String()
	case float64:
		s = formatNumber(t)
	case float32:
		s = formatNumber(float64(t))
	case bool:
		s = strconv.FormatBool(t)
	default:
		s = fmt.Sprint(t)
	}
	return strings.TrimSpace(s)
}

func formatNumber(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
