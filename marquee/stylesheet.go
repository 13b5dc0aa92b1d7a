package marquee

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/aymerick/douceur/parser"
)

// FontImport is the webfont stylesheet pulled in by every strip.
const FontImport = "https://fonts.googleapis.com/css2?family=Satoshi:wght@300;400;500;600;700;800;900&display=swap"

// Class names toggled on the track by the Animator.
const (
	ClassAnimating = "animating"
	ClassPaused    = "paused"
)

// classNames namespaces every class with the instance id so several strips
// can share a page.
type classNames struct {
	container     string
	wrapper       string
	track         string
	card          string
	header        string
	avatar        string
	headerContent string
	name          string
	title         string
	review        string
}

func newClassNames(id string) classNames {
	return classNames{
		container:     "testimonial-slider-container-" + id,
		wrapper:       "testimonial-slider-wrapper-" + id,
		track:         "testimonial-slider-track-" + id,
		card:          "testimonial-card-" + id,
		header:        "testimonial-header-" + id,
		avatar:        "testimonial-avatar-" + id,
		headerContent: "testimonial-header-content-" + id,
		name:          "testimonial-name-" + id,
		title:         "testimonial-title-" + id,
		review:        "testimonial-review-" + id,
	}
}

func keyframeName(id string, dir Direction) string {
	if dir == DirectionRight {
		return "scroll-" + id + "-reverse"
	}
	return "scroll-" + id
}

func px(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64) + "px"
}

func seconds(p AnimationParameters) string {
	return strconv.FormatFloat(p.Duration.Seconds(), 'f', -1, 64) + "s"
}

// sheetInput is everything the scoped stylesheet depends on.
type sheetInput struct {
	id       string
	opts     Options
	geometry Geometry
	params   AnimationParameters
	// hoverRules adds CSS-only pausing for exports that have no event
	// handlers attached.
	hoverRules bool
}

// buildStylesheet renders the scoped sheet and checks that it parses.
func buildStylesheet(in sheetInput) (string, error) {
	c := newClassNames(in.id)
	o := in.opts
	p := in.params
	width := px(in.geometry.CardWidth)
	fwd := AnimationParameters{Direction: DirectionLeft, Distance: -math.Abs(p.Distance)}
	rev := AnimationParameters{Direction: DirectionRight, Distance: math.Abs(p.Distance)}
	fwdFrom, fwdTo := fwd.Keyframes()
	revFrom, revTo := rev.Keyframes()

	var b strings.Builder
	w := func(format string, args ...any) {
		fmt.Fprintf(&b, format, args...)
		b.WriteByte('\n')
	}
	w("@import url('%s');", FontImport)
	w(".%s{width:100%%;height:100%%;overflow:hidden;position:relative;font-family:'Satoshi',-apple-system,BlinkMacSystemFont,'Segoe UI',Roboto,Oxygen,Ubuntu,Cantarell,sans-serif;color:inherit;background-color:transparent;padding:0;margin:0}", c.container)
	w(".%s{width:100%%;height:100%%;overflow:hidden;position:relative}", c.wrapper)
	w(".%s{display:flex;gap:%s;position:absolute;left:0;top:50%%;transform:translateY(-50%%);will-change:transform;transition:animation-play-state .3s ease}", c.track, px(in.geometry.Gap))
	w(".%s{width:%s;min-width:%s;height:%s;background:%s;border-radius:%s;padding:20px;display:flex;flex-direction:column;gap:12px;box-sizing:border-box;flex-shrink:0}", c.card, width, width, px(o.CardHeight), o.Background, px(o.Roundness))
	w(".%s{display:flex;flex-direction:row;gap:12px;align-items:center;flex-shrink:0}", c.header)
	w(".%s{width:50px;height:50px;border-radius:50%%;object-fit:cover;flex-shrink:0}", c.avatar)
	w(".%s{display:flex;flex-direction:column;gap:2px;flex:1;overflow:hidden;min-width:0}", c.headerContent)
	w(".%s{font-size:16px;font-weight:600;color:%s;white-space:nowrap;overflow:hidden;text-overflow:ellipsis}", c.name, o.NameColor)
	w(".%s{font-size:14px;color:%s;white-space:nowrap;overflow:hidden;text-overflow:ellipsis}", c.title, o.TitleColor)
	w(".%s{font-size:14px;color:%s;line-height:1.5;overflow:hidden;text-overflow:ellipsis;width:100%%;box-sizing:border-box;flex:1;display:-webkit-box;-webkit-box-orient:vertical;-webkit-line-clamp:unset;word-break:break-word}", c.review, o.ReviewColor)
	w("@keyframes %s{0%%{transform:translateX(%s) translateY(-50%%)}100%%{transform:translateX(%s) translateY(-50%%)}}", keyframeName(in.id, DirectionLeft), px(fwdFrom), px(fwdTo))
	w("@keyframes %s{0%%{transform:translateX(%s) translateY(-50%%)}100%%{transform:translateX(%s) translateY(-50%%)}}", keyframeName(in.id, DirectionRight), px(revFrom), px(revTo))
	w(".%s.%s{animation:%s %s linear infinite}", c.track, ClassAnimating, keyframeName(in.id, p.Direction), seconds(p))
	w(".%s.%s{animation-play-state:paused}", c.track, ClassPaused)
	if in.hoverRules && o.StopOnHover {
		w(".%s:hover .%s,.%s:active .%s{animation-play-state:paused}", c.container, c.track, c.container, c.track)
	}
	css := b.String()
	if _, err := parser.Parse(css); err != nil {
		return "", fmt.Errorf("generated stylesheet: %w", err)
	}
	return css, nil
}
