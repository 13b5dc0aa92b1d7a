package preview

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"slider/internal/config"
	"slider/marquee"
)

const (
	htmlContentType = "text/html; charset=utf-8"
	pngContentType  = "image/png"
	cacheHeader     = "X-Slider-Cache"
)

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", htmlContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(s.cfg.IndexHTML)))
	io.WriteString(w, s.cfg.IndexHTML)
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	data, format, err := readProperties(r)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, "properties too large", http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	props, err := config.DecodeProperties(data, format)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.servePage(w, "render", props)
}

// readProperties takes the property document from a form field or from the
// raw body, whose format follows ?format= or the Content-Type.
func readProperties(r *http.Request) ([]byte, config.Format, error) {
	mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mt == "application/x-www-form-urlencoded" || mt == "multipart/form-data" {
		if err := r.ParseForm(); err != nil {
			return nil, "", err
		}
		return []byte(r.PostFormValue("props")), formatParam(r.PostFormValue("format"), config.FormatJSON), nil
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, "", err
	}
	return body, formatParam(r.URL.Query().Get("format"), config.FormatForContentType(r.Header.Get("Content-Type"))), nil
}

func formatParam(v string, fallback config.Format) config.Format {
	switch f := config.Format(strings.ToLower(strings.TrimSpace(v))); f {
	case config.FormatJSON, config.FormatYAML, config.FormatTOML:
		return f
	case "yml":
		return config.FormatYAML
	}
	return fallback
}

func (s *Server) handlePreset(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	props, err := s.presets.Find(name)
	switch {
	case errors.Is(err, errPresetName):
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	case errors.Is(err, errPresetNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	case err != nil:
		s.logger.Warn("preset unreadable", zap.String("preset", name), zap.Error(err))
		http.Error(w, "preset unreadable", http.StatusInternalServerError)
		return
	}
	s.servePage(w, "preset:"+name, props)
}

func (s *Server) handlePresetList(w http.ResponseWriter, _ *http.Request) {
	names, err := s.presets.Names()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if names == nil {
		names = []string{}
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(struct {
		Presets []string `json:"presets"`
	}{names})
}

func (s *Server) servePage(w http.ResponseWriter, kind string, props marquee.Properties) {
	key, cacheable := propsKey(kind, props)
	if cacheable {
		if data, ct, ok := s.cache.Select(key); ok {
			w.Header().Set(cacheHeader, "hit")
			writeBody(w, ct, data)
			return
		}
	}
	doc, err := RenderDocument(props, RenderOptions{
		Measurer:    s.cfg.Measurer,
		Logger:      s.logger,
		AvatarProxy: "/avatar",
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if doc.State != nil {
		w.Header().Set("X-Slider-Instance", doc.State.ID)
	}
	if cacheable {
		s.cache.Store(key, htmlContentType, doc.HTML)
	}
	w.Header().Set(cacheHeader, "miss")
	writeBody(w, htmlContentType, doc.HTML)
}

func (s *Server) handleAvatar(w http.ResponseWriter, r *http.Request) {
	target, err := avatarTarget(r.URL.Query().Get("url"), s.cfg.AllowPrivateAvatars)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	key := "avatar:" + target.String()
	if data, ct, ok := s.cache.Select(key); ok {
		w.Header().Set(cacheHeader, "hit")
		w.Header().Set("Cache-Control", "public, max-age=86400")
		writeBody(w, ct, data)
		return
	}
	img, err := fetchAvatar(r.Context(), s.client, target)
	if err != nil {
		s.logger.Debug("avatar fetch failed", zap.String("url", target.String()), zap.Error(err))
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	data, err := encodeThumbnail(img)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.cache.Store(key, pngContentType, data)
	w.Header().Set(cacheHeader, "miss")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	writeBody(w, pngContentType, data)
}

func (s *Server) handlePing(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, "pong\n")
}

func writeBody(w http.ResponseWriter, contentType string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
