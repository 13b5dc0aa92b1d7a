package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"slider/internal/config"
	"slider/internal/preview"
	"slider/marquee"
)

type renderFlags struct {
	output string
	format string
	title  string
	height int
}

func newRenderCmd(o *rootOptions) *cobra.Command {
	var rf renderFlags
	cmd := &cobra.Command{
		Use:   "render [properties-file]",
		Short: "Export a standalone HTML page",
		Long: `Render reads widget properties (YAML, TOML or JSON, chosen by extension)
and writes a standalone HTML page with the strip mounted and animating.
Without a file, or with "-", properties are read from stdin in --format.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			props, err := readPropsArg(cmd.InOrStdin(), args, rf.format)
			if err != nil {
				return err
			}
			logger := zap.NewNop()
			if o.settings.Debug {
				if logger, err = o.logger(); err != nil {
					return err
				}
				defer logger.Sync()
			}
			opt := preview.RenderOptions{Title: rf.title, FrameHeight: rf.height, Logger: logger}
			if o.settings.UseChrome || o.settings.ChromePath != "" {
				b := preview.NewBrowserMeasurer(o.settings.ChromePath, logger)
				defer b.Close()
				opt.Measurer = b
			}
			doc, err := preview.RenderDocument(props, opt)
			if err != nil {
				return err
			}
			if doc.State == nil {
				fmt.Fprintln(cmd.ErrOrStderr(), "warning: no displayable testimonials, rendered the placeholder")
			}
			if rf.output == "" || rf.output == "-" {
				_, err = cmd.OutOrStdout().Write(doc.HTML)
				return err
			}
			return os.WriteFile(rf.output, doc.HTML, 0o644)
		},
	}
	f := cmd.Flags()
	f.StringVarP(&rf.output, "output", "o", "", "output file (default stdout)")
	f.StringVar(&rf.format, "format", string(config.FormatJSON), "format of properties read from stdin: json, yaml or toml")
	f.StringVar(&rf.title, "title", "", "page title")
	f.IntVar(&rf.height, "height", 0, "height of the host frame in px")
	f.BoolVar(&o.settings.UseChrome, "chrome", o.settings.UseChrome, "measure reviews in headless Chrome")
	f.StringVar(&o.settings.ChromePath, "chrome-path", o.settings.ChromePath, "Chrome binary used with --chrome")
	return cmd
}

// readPropsArg loads properties from the file named in args, or from stdin.
func readPropsArg(stdin io.Reader, args []string, format string) (marquee.Properties, error) {
	if len(args) == 1 && args[0] != "-" {
		return config.LoadProperties(args[0])
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return nil, err
	}
	f := formatFlag(format)
	props, err := config.DecodeProperties(data, f)
	if err != nil {
		return nil, fmt.Errorf("stdin: %w", err)
	}
	return props, nil
}

func formatFlag(v string) config.Format {
	switch v {
	case "yaml", "yml":
		return config.FormatYAML
	case "toml":
		return config.FormatTOML
	}
	return config.FormatJSON
}
