package cli

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"slider/internal/preview"
)

const shutdownGrace = 10 * time.Second

func newServeCmd(o *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the preview server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := o.logger()
			if err != nil {
				return err
			}
			defer logger.Sync()

			cfg := preview.DefaultConfig()
			cfg.PresetsDir = o.settings.PresetsDir
			cfg.CacheTTL = o.settings.CacheTTL
			cfg.AllowPrivateAvatars = o.settings.AllowPrivateAvatars
			cfg.Logger = logger
			if o.settings.UseChrome || o.settings.ChromePath != "" {
				b := preview.NewBrowserMeasurer(o.settings.ChromePath, logger.Named("chrome"))
				defer b.Close()
				cfg.Measurer = b
			}
			return serve(cmd.Context(), o.settings.Addr, preview.New(cfg), logger)
		},
	}
	f := cmd.Flags()
	f.StringVar(&o.settings.Addr, "addr", o.settings.Addr, "listen address, e.g. :8081 or 0.0.0.0:8081")
	f.StringVar(&o.settings.PresetsDir, "presets", o.settings.PresetsDir, "directory of preset property files")
	f.DurationVar(&o.settings.CacheTTL, "cache-ttl", o.settings.CacheTTL, "lifetime of cached pages and avatars (0 disables)")
	f.BoolVar(&o.settings.AllowPrivateAvatars, "allow-private-avatars", o.settings.AllowPrivateAvatars, "let /avatar fetch loopback and private network hosts")
	f.BoolVar(&o.settings.UseChrome, "chrome", o.settings.UseChrome, "measure reviews in headless Chrome")
	f.StringVar(&o.settings.ChromePath, "chrome-path", o.settings.ChromePath, "Chrome binary used with --chrome")
	return cmd
}

func serve(ctx context.Context, addr string, s *preview.Server, logger *zap.Logger) error {
	srv := &http.Server{
		Addr:    addr,
		Handler: s.Handler(),
		// Conservative timeouts against slowloris and leaked connections
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      2 * time.Minute,
		IdleTimeout:       60 * time.Second,
		ErrorLog:          zap.NewStdLog(logger.Named("http")),
		ConnState: func(c net.Conn, st http.ConnState) {
			logger.Debug("CONN", zap.String("state", st.String()), zap.String("remote", c.RemoteAddr().String()))
		},
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	logger.Info("listening", zap.String("addr", ln.Addr().String()))

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := context.WithCancel(ctx)
	defer stop()
	go sweepLoop(ctx, s, logger)

	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func sweepLoop(ctx context.Context, s *preview.Server, logger *zap.Logger) {
	t := time.NewTicker(time.Minute)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := s.SweepCache(); n > 0 {
				logger.Debug("cache swept", zap.Int("expired", n))
			}
		}
	}
}
