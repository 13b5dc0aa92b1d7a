package marquee

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNormalize(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		records  []Record
		fields   FieldMap
		expected []Testimonial
	}{
		{
			name:    "defaults_and_trimming",
			records: []Record{{"name": "  Ann ", "review": "Great\n", "title": "CTO"}},
			fields:  DefaultFieldMap(),
			expected: []Testimonial{
				{Avatar: DefaultAvatarURL, Name: "Ann", Title: "CTO", Review: "Great"},
			},
		},
		{
			name: "drops_records_without_name_and_review",
			records: []Record{
				{"title": "Only a title"},
				{"name": "", "review": "   "},
				{"review": "Anonymous but kept"},
			},
			fields:   DefaultFieldMap(),
			expected: []Testimonial{{Avatar: DefaultAvatarURL, Review: "Anonymous but kept"}},
		},
		{
			name:     "custom_field_map_exact_keys",
			records:  []Record{{"who": "Bo", "said": "Fine", "Who": "ignored", "pic": "//x/y.png"}},
			fields:   FieldMap{Avatar: "pic", Name: "who", Review: "said"},
			expected: []Testimonial{{Avatar: "https://x/y.png", Name: "Bo", Review: "Fine"}},
		},
		{
			name:     "capitalized_keys_not_matched_for_plain_records",
			records:  []Record{{"Name": "Cap", "Review": "Cap"}},
			fields:   DefaultFieldMap(),
			expected: nil,
		},
		{
			name:     "numbers_and_falsy_values",
			records:  []Record{{"name": 42.0, "review": json.Number("1.5"), "title": false}},
			fields:   DefaultFieldMap(),
			expected: []Testimonial{{Avatar: DefaultAvatarURL, Name: "42", Review: "1.5"}},
		},
		{
			name:     "nil_record_skipped",
			records:  []Record{nil, {"name": "Z"}},
			fields:   DefaultFieldMap(),
			expected: []Testimonial{{Avatar: DefaultAvatarURL, Name: "Z"}},
		},
		{
			name:     "empty",
			records:  nil,
			fields:   DefaultFieldMap(),
			expected: nil,
		},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := Normalize(tc.records, tc.fields, "")
			if diff := cmp.Diff(tc.expected, got); diff != "" {
				t.Fatalf("Normalize mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFixAvatarURL(t *testing.T) {
	t.Parallel()
	tests := []struct {
		raw, fallback, expected string
	}{
		{"", "", DefaultAvatarURL},
		{"   ", "https://example.com/me.png", "https://example.com/me.png"},
		{"", "//cdn.example.com/fallback.png", "https://cdn.example.com/fallback.png"},
		{"//cdn.example.com/a.png", "", "https://cdn.example.com/a.png"},
		{"http://plain.example.com/a.png", "", "http://plain.example.com/a.png"},
		{"/relative/a.png", "", "/relative/a.png"},
	}
	for _, tc := range tests {
		if got := FixAvatarURL(tc.raw, tc.fallback); got != tc.expected {
			t.Fatalf("FixAvatarURL(%q, %q) = %q, expected %q", tc.raw, tc.fallback, got, tc.expected)
		}
	}
}

func TestNormalizeUsesFallbackAvatar(t *testing.T) {
	t.Parallel()
	got := Normalize([]Record{{"name": "A"}}, DefaultFieldMap(), "https://example.com/default.png")
	if len(got) != 1 || got[0].Avatar != "https://example.com/default.png" {
		t.Fatalf("unexpected testimonials: %+v", got)
	}
}
