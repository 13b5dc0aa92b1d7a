package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"slider/marquee"
)

// Format is the encoding of a property file.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// ErrEmptyProperties is returned for files holding no properties at all.
var ErrEmptyProperties = errors.New("config: empty properties")

// Extensions lists the property file extensions tried for a preset name,
// in lookup order.
var Extensions = []string{".yaml", ".yml", ".toml", ".json"}

// FormatForPath picks the format from the file extension; anything unknown
// is read as JSON.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".toml":
		return FormatTOML
	}
	return FormatJSON
}

// FormatForContentType maps a request Content-Type to a format.
func FormatForContentType(ct string) Format {
	mt, _, err := mime.ParseMediaType(ct)
	if err != nil {
		mt = strings.ToLower(strings.TrimSpace(ct))
	}
	switch mt {
	case "application/yaml", "application/x-yaml", "text/yaml", "text/x-yaml":
		return FormatYAML
	case "application/toml", "text/toml":
		return FormatTOML
	}
	return FormatJSON
}

// LoadProperties reads widget properties from path.
func LoadProperties(path string) (marquee.Properties, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	props, err := DecodeProperties(data, FormatForPath(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return props, nil
}

// DecodeProperties decodes a property document. JSON numbers are kept as
// json.Number; the widget accepts every numeric shape.
func DecodeProperties(data []byte, format Format) (marquee.Properties, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmptyProperties
	}
	props := map[string]any{}
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &props); err != nil {
			return nil, fmt.Errorf("decode yaml properties: %w", err)
		}
	case FormatTOML:
		if _, err := toml.Decode(string(data), &props); err != nil {
			return nil, fmt.Errorf("decode toml properties: %w", err)
		}
	default:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(&props); err != nil {
			return nil, fmt.Errorf("decode json properties: %w", err)
		}
	}
	if len(props) == 0 {
		return nil, ErrEmptyProperties
	}
	return marquee.Properties(props), nil
}
