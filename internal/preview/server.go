package preview

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"slider/internal/config"
	"slider/marquee"
)

const defaultIndexHTML = `<!DOCTYPE html>
<html><body>
<h1>Testimonial Slider Preview</h1>
<form action="/render" method="post">
<h3>Render widget properties</h3>
<textarea name="props" rows="16" cols="80">{"testimonials_json": "[{\"name\": \"Ann\", \"title\": \"CTO\", \"review\": \"Great product!\"}]"}</textarea><br>
Format: <select name="format"><option>json</option><option>yaml</option><option>toml</option></select><br>
<button type="submit">Render</button>
</form>
<p><a href="/presets">Presets</a></p>
</body></html>`

const (
	defaultMaxBodyBytes = 1 << 20
	defaultFetchTimeout = 10 * time.Second
)

// Config describes server wiring and runtime behaviour.
type Config struct {
	IndexHTML    string
	PresetsDir   string
	CacheTTL     time.Duration
	MaxBodyBytes int64
	// Measurer replaces the static layout measurer, e.g. a BrowserMeasurer.
	Measurer   marquee.Measurer
	HTTPClient *http.Client
	// AllowPrivateAvatars lets /avatar fetch loopback and private network
	// hosts, for previews run against a local asset server.
	AllowPrivateAvatars bool
	Logger              *zap.Logger
	Clock               func() time.Time
}

// DefaultConfig populates configuration from environment variables.
func DefaultConfig() Config {
	env := config.FromEnv()
	return Config{
		IndexHTML:           defaultIndexHTML,
		PresetsDir:          env.PresetsDir,
		CacheTTL:            env.CacheTTL,
		MaxBodyBytes:        defaultMaxBodyBytes,
		AllowPrivateAvatars: env.AllowPrivateAvatars,
		Logger:              zap.L(),
		Clock:               time.Now,
	}
}

// Server exposes the preview HTTP handlers.
type Server struct {
	cfg     Config
	router  chi.Router
	handler http.Handler
	logger  *zap.Logger
	cache   *pageCache
	presets *presetStore
	client  *http.Client
	clock   func() time.Time
}

// New wires a preview server with the provided configuration.
func New(cfg Config) *Server {
	if cfg.IndexHTML == "" {
		cfg.IndexHTML = defaultIndexHTML
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = defaultMaxBodyBytes
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = newAvatarClient(defaultFetchTimeout, cfg.AllowPrivateAvatars)
	}
	s := &Server{
		cfg:     cfg,
		router:  chi.NewRouter(),
		logger:  cfg.Logger,
		cache:   newPageCache(cfg.Clock, cfg.CacheTTL),
		presets: newPresetStore(cfg.PresetsDir),
		client:  cfg.HTTPClient,
		clock:   cfg.Clock,
	}
	s.registerRoutes()
	s.handler = s.router
	return s
}

// Handler exposes the HTTP handler with middleware applied.
func (s *Server) Handler() http.Handler { return s }

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// SweepCache drops expired cache entries.
func (s *Server) SweepCache() int { return s.cache.Sweep() }

func (s *Server) registerRoutes() {
	s.router.Use(middleware.RequestID)
	s.router.Use(withLogging(s.logger))
	s.router.Use(middleware.Recoverer)

	s.router.Get("/", s.handleRoot)
	s.router.Post("/render", s.handleRender)
	s.router.Get("/presets", s.handlePresetList)
	s.router.Get("/presets/{name}", s.handlePreset)
	s.router.Get("/avatar", s.handleAvatar)
	s.router.Get("/ping", s.handlePing)
}
