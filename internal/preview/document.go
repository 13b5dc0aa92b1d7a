package preview

import (
	"bytes"
	"html/template"
	"net/url"
	"strings"

	"github.com/andybalholm/cascadia"
	"go.uber.org/zap"
	"golang.org/x/net/html"

	"slider/marquee"
)

const (
	defaultTitle       = "Testimonial slider"
	defaultFrameHeight = 280
)

// RenderOptions controls how a property set becomes a standalone page.
type RenderOptions struct {
	Title string
	// FrameHeight is the height of the host frame the strip fills, in px.
	FrameHeight int
	Measurer    marquee.Measurer
	Logger      *zap.Logger
	// AvatarProxy, when set, rewrites remote avatar sources to
	// AvatarProxy?url=<src>.
	AvatarProxy string
}

// Document is a rendered page.
type Document struct {
	HTML []byte
	// State is nil when the placeholder was rendered.
	State   *marquee.RenderState
	Clamped int
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<style>html,body{margin:0;padding:0;background:#0d0d0d}.slider-frame{width:100%;height:{{.Height}}px}</style>
</head>
<body>
<div class="slider-frame">{{.Widget}}</div>
</body>
</html>
`))

var avatarSelector = cascadia.MustCompile(`img[class^="testimonial-avatar-"]`)

// RenderDocument mounts the widget on a detached canvas, runs its deferred
// clamp and start on a manual clock and serializes the result. The page has
// no script; pausing on hover comes from CSS rules.
func RenderDocument(props marquee.Properties, opt RenderOptions) (Document, error) {
	logger := opt.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	canvas := marquee.NewNodeCanvas()
	sched := marquee.NewManualScheduler()
	wopts := []marquee.WidgetOption{
		marquee.WithScheduler(sched),
		marquee.WithLogger(logger),
		marquee.WithHoverRules(true),
	}
	if opt.Measurer != nil {
		wopts = append(wopts, marquee.WithMeasurer(opt.Measurer))
	}
	w := marquee.NewWidget(canvas, wopts...)
	defer w.Destroy()

	w.Update(props)
	sched.Advance(marquee.StartDelay)

	if opt.AvatarProxy != "" {
		rewriteAvatars(canvas.Root, opt.AvatarProxy)
	}

	title := strings.TrimSpace(opt.Title)
	if title == "" {
		title = defaultTitle
	}
	height := opt.FrameHeight
	if height <= 0 {
		height = defaultFrameHeight
	}
	var buf bytes.Buffer
	err := pageTemplate.Execute(&buf, struct {
		Title  string
		Height int
		Widget template.HTML
	}{title, height, template.HTML(canvas.HTML())})
	if err != nil {
		return Document{}, err
	}
	return Document{HTML: buf.Bytes(), State: w.State(), Clamped: w.Clamped()}, nil
}

func rewriteAvatars(root *html.Node, proxy string) {
	for _, img := range avatarSelector.MatchAll(root) {
		for i, a := range img.Attr {
			if a.Key != "src" {
				continue
			}
			u, err := url.Parse(a.Val)
			if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
				continue
			}
			img.Attr[i].Val = proxy + "?url=" + url.QueryEscape(a.Val)
		}
	}
}
