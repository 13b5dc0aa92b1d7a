package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"slider/marquee"
)

const yamlProps = `
scroll_speed: 5
scroll_direction: Right
stop_on_hover: false
name_field: author
testimonials_json:
  - author: Ann
    review: Great
  - author: Bob
    review: Solid
`

const tomlProps = `
scroll_speed = 5
scroll_direction = "Right"
stop_on_hover = false
name_field = "author"

[[testimonials_json]]
author = "Ann"
review = "Great"

[[testimonials_json]]
author = "Bob"
review = "Solid"
`

const jsonProps = `{
	"scroll_speed": 5,
	"scroll_direction": "Right",
	"stop_on_hover": false,
	"name_field": "author",
	"testimonials_json": "[{\"author\": \"Ann\", \"review\": \"Great\"}, {\"author\": \"Bob\", \"review\": \"Solid\"}]"
}`

func TestLoadPropertiesFormats(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	files := map[string]string{
		"widget.yaml": yamlProps,
		"widget.toml": tomlProps,
		"widget.json": jsonProps,
	}
	for name, content := range files {
		name, content := name, content
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			path := filepath.Join(dir, name)
			if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
				t.Fatal(err)
			}
			props, err := LoadProperties(path)
			if err != nil {
				t.Fatalf("LoadProperties(%s): %v", name, err)
			}
			opts := marquee.FromProperties(props)
			if opts.Speed != 5 || opts.Direction != marquee.DirectionRight || opts.StopOnHover {
				t.Fatalf("options = %+v", opts)
			}
			recs, err := marquee.Parse(opts.Data, opts.Fields)
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			got := marquee.Normalize(recs, opts.Fields, "")
			if len(got) != 2 || got[0].Name != "Ann" || got[1].Review != "Solid" {
				t.Fatalf("testimonials = %+v", got)
			}
		})
	}
}

func TestDecodePropertiesJSONNumbers(t *testing.T) {
	t.Parallel()
	props, err := DecodeProperties([]byte(`{"card_height": 240}`), FormatJSON)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := props["card_height"].(json.Number); !ok {
		t.Fatalf("card_height decoded as %T", props["card_height"])
	}
	if h := marquee.FromProperties(props).CardHeight; h != 240 {
		t.Fatalf("card height = %v", h)
	}
}

func TestDecodePropertiesErrors(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		data   string
		format Format
		empty  bool
	}{
		{"blank", "  \n", FormatYAML, true},
		{"empty_object", "{}", FormatJSON, true},
		{"bad_json", "{", FormatJSON, false},
		{"bad_yaml", "a: [1, 2", FormatYAML, false},
		{"bad_toml", "a = ", FormatTOML, false},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := DecodeProperties([]byte(tc.data), tc.format)
			if err == nil {
				t.Fatal("expected error")
			}
			if errors.Is(err, ErrEmptyProperties) != tc.empty {
				t.Fatalf("error = %v, empty expected %v", err, tc.empty)
			}
		})
	}
}

func TestFormatDetection(t *testing.T) {
	t.Parallel()
	paths := map[string]Format{
		"a.yml":        FormatYAML,
		"a.YAML":       FormatYAML,
		"a.toml":       FormatTOML,
		"a.json":       FormatJSON,
		"no_extension": FormatJSON,
	}
	for p, want := range paths {
		if got := FormatForPath(p); got != want {
			t.Fatalf("FormatForPath(%q) = %s, expected %s", p, got, want)
		}
	}
	types := map[string]Format{
		"application/x-yaml":              FormatYAML,
		"text/yaml; charset=utf-8":        FormatYAML,
		"application/toml":                FormatTOML,
		"application/json; charset=utf-8": FormatJSON,
		"":                                FormatJSON,
	}
	for ct, want := range types {
		if got := FormatForContentType(ct); got != want {
			t.Fatalf("FormatForContentType(%q) = %s, expected %s", ct, got, want)
		}
	}
}

func TestShippedPresets(t *testing.T) {
	t.Parallel()
	want := map[string]int{
		"default.yaml":       3,
		"light-reverse.toml": 2,
		"custom-fields.json": 1,
	}
	for name, n := range want {
		props, err := LoadProperties(filepath.Join("..", "..", "config", "presets", name))
		if err != nil {
			t.Fatalf("LoadProperties(%q): %v", name, err)
		}
		opts := marquee.FromProperties(props)
		recs, err := marquee.Parse(opts.Data, opts.Fields)
		if err != nil {
			t.Fatalf("%s: Parse: %v", name, err)
		}
		if got := len(marquee.Normalize(recs, opts.Fields, opts.DefaultAvatar)); got != n {
			t.Fatalf("%s: %d testimonials, expected %d", name, got, n)
		}
	}
}
