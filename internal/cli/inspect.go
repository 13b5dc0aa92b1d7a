package cli

import (
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"slider/marquee"
)

// minContrast is the WCAG AA threshold for normal text.
const minContrast = 4.5

type inspectFlags struct {
	format   string
	viewport float64
	width    int
	noColor  bool
}

// recordLine is one parsed record and whether it survived normalization.
type recordLine struct {
	index       int
	kept        bool
	testimonial marquee.Testimonial
}

// report is everything inspect prints about a property set.
type report struct {
	opts     marquee.Options
	params   marquee.AnimationParameters
	parseErr error
	records  []recordLine
	kept     int
	warnings []string
}

func buildReport(props marquee.Properties, viewport float64) report {
	opts := marquee.FromProperties(props)
	r := report{opts: opts}
	recs, err := marquee.Parse(opts.Data, opts.Fields)
	r.parseErr = err
	for i, rec := range recs {
		line := recordLine{index: i + 1}
		if ts := marquee.Normalize([]marquee.Record{rec}, opts.Fields, opts.DefaultAvatar); len(ts) == 1 {
			line.kept = true
			line.testimonial = ts[0]
			r.kept++
		}
		r.records = append(r.records, line)
	}
	g := marquee.DefaultGeometry()
	r.params = g.Params(r.kept, opts.Direction, opts.Speed)

	for _, c := range []struct{ what, fg string }{
		{"name", opts.NameColor},
		{"title", opts.TitleColor},
		{"review", opts.ReviewColor},
	} {
		if cr := marquee.ContrastRatio(c.fg, opts.Background); cr < minContrast && marquee.CSSToHex(c.fg) != "" && marquee.CSSToHex(opts.Background) != "" {
			r.warnings = append(r.warnings, fmt.Sprintf("%s color %s on %s has contrast %.2f, below %.1f", c.what, c.fg, opts.Background, cr, minContrast))
		}
	}
	if r.kept > 0 && viewport > 0 {
		if need := g.MinLoopCopies(r.kept, viewport); need > marquee.LoopFactor {
			r.warnings = append(r.warnings, fmt.Sprintf("a %gpx viewport needs %d copies of %d cards, the track holds %d; the loop seam may show", viewport, need, r.kept, marquee.LoopFactor))
		}
	}
	return r
}

func newInspectCmd(o *rootOptions) *cobra.Command {
	var inf inspectFlags
	cmd := &cobra.Command{
		Use:   "inspect [properties-file]",
		Short: "Show how properties and testimonial data are interpreted",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			props, err := readPropsArg(cmd.InOrStdin(), args, inf.format)
			if err != nil {
				return err
			}
			if inf.noColor {
				color.NoColor = true
			}
			width := inf.width
			if width <= 0 {
				width = terminalWidth()
			}
			printReport(cmd.OutOrStdout(), buildReport(props, inf.viewport), width)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&inf.format, "format", "json", "format of properties read from stdin: json, yaml or toml")
	f.Float64Var(&inf.viewport, "viewport", 1920, "host viewport width in px used for the loop coverage check")
	f.IntVar(&inf.width, "width", 0, "output width (default terminal width)")
	f.BoolVar(&inf.noColor, "no-color", false, "disable colored output")
	return cmd
}

func terminalWidth() int {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return 100
	}
	width, _, err := term.GetSize(fd)
	if err != nil || width <= 0 {
		return 80
	}
	return width
}

func printReport(w io.Writer, r report, width int) {
	head := color.New(color.FgCyan, color.Bold)
	ok := color.New(color.FgGreen)
	dropped := color.New(color.FgHiBlack)
	warn := color.New(color.FgYellow)
	bad := color.New(color.FgRed)

	o := r.opts
	head.Fprintln(w, "Options")
	linef(w, width, "  speed %s, loop %s, direction %s", strconv.FormatFloat(o.Speed, 'f', -1, 64), r.params.Duration, o.Direction)
	linef(w, width, "  card height %gpx, roundness %gpx", o.CardHeight, o.Roundness)
	linef(w, width, "  pause on hover %v", o.StopOnHover)
	linef(w, width, "  background %s", o.Background)
	linef(w, width, "  name %s, title %s, review %s", o.NameColor, o.TitleColor, o.ReviewColor)
	linef(w, width, "  fields avatar=%s name=%s title=%s review=%s", o.Fields.Avatar, o.Fields.Name, o.Fields.Title, o.Fields.Review)

	fmt.Fprintln(w)
	head.Fprintln(w, "Records")
	if r.parseErr != nil {
		bad.Fprintln(w, truncate("  data discarded: "+r.parseErr.Error(), width))
	}
	linef(w, width, "  parsed %d, kept %d, dropped %d", len(r.records), r.kept, len(r.records)-r.kept)
	for _, line := range r.records {
		if !line.kept {
			dropped.Fprintln(w, truncate(fmt.Sprintf("  %d. dropped: no name and no review", line.index), width))
			continue
		}
		t := line.testimonial
		text := fmt.Sprintf("  %d. %s", line.index, displayName(t))
		if t.Review != "" {
			text += ": " + strings.Join(strings.Fields(t.Review), " ")
		}
		ok.Fprintln(w, truncate(text, width))
	}
	if r.kept > 0 {
		linef(w, width, "  track: %d cards, %gpx per cycle", r.kept*marquee.LoopFactor, math.Abs(r.params.Distance))
	}

	if len(r.warnings) == 0 {
		return
	}
	fmt.Fprintln(w)
	head.Fprintln(w, "Warnings")
	for _, msg := range r.warnings {
		warn.Fprintln(w, truncate("  - "+msg, width))
	}
}

func linef(w io.Writer, width int, format string, args ...any) {
	fmt.Fprintln(w, truncate(fmt.Sprintf(format, args...), width))
}

func displayName(t marquee.Testimonial) string {
	name := t.Name
	if name == "" {
		name = "(anonymous)"
	}
	if t.Title != "" {
		name += " (" + t.Title + ")"
	}
	return name
}

// truncate cuts s to width runes, marking the cut with "...".
func truncate(s string, width int) string {
	if width <= 0 || utf8.RuneCountInString(s) <= width {
		return s
	}
	if width <= 3 {
		return string([]rune(s)[:width])
	}
	return string([]rune(s)[:width-3]) + "..."
}
