// Package config reads runtime settings from the environment and widget
// property files from disk.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultAddr       = ":8081"
	defaultPresetsDir = "config/presets"
	defaultCacheTTL   = 10 * time.Minute
)

// Settings is the runtime configuration shared by the preview server and
// the CLI. Flags override it.
type Settings struct {
	Addr       string
	ChromePath string
	UseChrome  bool
	PresetsDir string
	CacheTTL   time.Duration
	Debug      bool
	// AllowPrivateAvatars lets the avatar proxy reach loopback and private
	// network hosts.
	AllowPrivateAvatars bool
}

// FromEnv populates Settings from environment variables.
//
//	SLIDER_ADDR         listen address (PORT, when set, wins as ":$PORT")
//	SLIDER_CHROME       "1"/"true" to measure in headless Chrome, or a path
//	                    to the Chrome binary
//	SLIDER_PRESETS_DIR  directory holding preset property files
//	SLIDER_CACHE_TTL    page cache lifetime, e.g. "5m"; "0" disables caching
//	SLIDER_DEBUG        enables debug logging
//	SLIDER_AVATAR_PRIVATE  lets /avatar fetch loopback and private hosts
func FromEnv() Settings {
	return fromLookup(os.Getenv)
}

func fromLookup(getenv func(string) string) Settings {
	s := Settings{
		Addr:       strings.TrimSpace(getenv("SLIDER_ADDR")),
		PresetsDir: strings.TrimSpace(getenv("SLIDER_PRESETS_DIR")),
		CacheTTL:   defaultCacheTTL,
	}
	if s.Addr == "" {
		s.Addr = defaultAddr
	}
	if port := strings.TrimSpace(getenv("PORT")); port != "" {
		s.Addr = ":" + port
	}
	if s.PresetsDir == "" {
		s.PresetsDir = defaultPresetsDir
	}
	switch chrome := strings.TrimSpace(getenv("SLIDER_CHROME")); strings.ToLower(chrome) {
	case "", "0", "false", "off", "no":
	case "1", "true", "on", "yes":
		s.UseChrome = true
	default:
		s.UseChrome = true
		s.ChromePath = chrome
	}
	if raw := strings.TrimSpace(getenv("SLIDER_CACHE_TTL")); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil && d >= 0 {
			s.CacheTTL = d
		} else if n, err := strconv.Atoi(raw); err == nil && n >= 0 {
			s.CacheTTL = time.Duration(n) * time.Second
		}
	}
	s.Debug = parseBool(getenv("SLIDER_DEBUG"))
	s.AllowPrivateAvatars = parseBool(getenv("SLIDER_AVATAR_PRIVATE"))
	return s
}

func parseBool(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "on", "yes":
		return true
	}
	return false
}
