// Package cli wires the slider commands.
package cli

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"slider/internal/config"
)

// rootOptions carries settings shared by every subcommand. Environment
// values are the defaults; flags override them.
type rootOptions struct {
	settings config.Settings
}

func (o *rootOptions) logger() (*zap.Logger, error) {
	if o.settings.Debug {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.EncoderConfig = zap.NewDevelopmentEncoderConfig()
	return cfg.Build()
}

// NewRootCmd builds the slider command tree.
func NewRootCmd() *cobra.Command {
	o := &rootOptions{settings: config.FromEnv()}
	root := &cobra.Command{
		Use:   "slider",
		Short: "Render and preview auto-scrolling testimonial strips",
		Long: `Slider renders testimonial data into an auto-scrolling card strip.
It can serve live previews, export standalone HTML pages and inspect how a
property file will be interpreted.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().BoolVar(&o.settings.Debug, "debug", o.settings.Debug, "enable debug logging")
	root.AddCommand(newServeCmd(o), newRenderCmd(o), newInspectCmd(o))
	return root
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}
