package marquee

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
	"golang.org/x/net/html"
)

// Canvas is the host mount point.
type Canvas interface {
	Empty()
	Append(nodes ...*html.Node)
}

// NodeCanvas is a Canvas backed by a detached <div>.
type NodeCanvas struct {
	Root *html.Node
}

// NewNodeCanvas returns an empty canvas.
func NewNodeCanvas() *NodeCanvas {
	return &NodeCanvas{Root: element("div", "")}
}

func (c *NodeCanvas) Empty() {
	for n := c.Root.FirstChild; n != nil; n = c.Root.FirstChild {
		c.Root.RemoveChild(n)
	}
}

func (c *NodeCanvas) Append(nodes ...*html.Node) {
	for _, n := range nodes {
		c.Root.AppendChild(n)
	}
}

// HTML serializes the canvas content.
func (c *NodeCanvas) HTML() string { return RenderChildren(c.Root) }

const defaultMeasureTimeout = 10 * time.Second

// Widget renders and animates one testimonial strip on a Canvas. All
// methods are safe to call from event handlers and timers concurrently; the
// widget serializes them.
type Widget struct {
	mu             sync.Mutex
	canvas         Canvas
	sched          Scheduler
	measurer       Measurer
	logger         *zap.Logger
	geometry       Geometry
	startDelay     time.Duration
	measureTimeout time.Duration
	hoverRules     bool
	newID          func() string

	gen   uint64
	state *RenderState
}

// RenderState is the mutable state of the current render pass.
type RenderState struct {
	ID           string
	Options      Options
	Testimonials []Testimonial
	// Display is Testimonials repeated LoopFactor times.
	Display []Testimonial
	Params  AnimationParameters
	CSS     string

	animator *Animator
	classes  classNames
	strip    strip
	timers   []Timer
	cancel   context.CancelFunc
	clamped  int
}

// WidgetOption configures a Widget.
type WidgetOption func(*Widget)

// WithScheduler replaces the system timer scheduler.
func WithScheduler(s Scheduler) WidgetOption { return func(w *Widget) { w.sched = s } }

// WithMeasurer replaces the static LayoutMeasurer.
func WithMeasurer(m Measurer) WidgetOption { return func(w *Widget) { w.measurer = m } }

// WithLogger sets the debug logger; swallowed failures are logged here.
func WithLogger(l *zap.Logger) WidgetOption { return func(w *Widget) { w.logger = l } }

// WithGeometry overrides the card geometry.
func WithGeometry(g Geometry) WidgetOption { return func(w *Widget) { w.geometry = g } }

// WithStartDelay overrides StartDelay.
func WithStartDelay(d time.Duration) WidgetOption { return func(w *Widget) { w.startDelay = d } }

// WithHoverRules emits CSS-only pause rules, for markup exported without
// event handlers.
func WithHoverRules(on bool) WidgetOption { return func(w *Widget) { w.hoverRules = on } }

// WithIDGenerator replaces the ULID instance ids.
func WithIDGenerator(fn func() string) WidgetOption { return func(w *Widget) { w.newID = fn } }

// NewWidget binds a widget to canvas.
func NewWidget(canvas Canvas, opts ...WidgetOption) *Widget {
	w := &Widget{
		canvas:         canvas,
		sched:          SystemScheduler(),
		measurer:       LayoutMeasurer{},
		logger:         zap.NewNop(),
		geometry:       DefaultGeometry(),
		startDelay:     StartDelay,
		measureTimeout: defaultMeasureTimeout,
		newID:          newInstanceID,
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.logger == nil {
		w.logger = zap.NewNop()
	}
	return w
}

func newInstanceID() string {
	return strings.ToLower(ulid.Make().String())
}

// Update discards the previous render and rebuilds from p. It never fails:
// unusable data renders the placeholder. It reports whether a strip (rather
// than the placeholder) was mounted.
func (w *Widget) Update(p Properties) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.teardownLocked()
	w.canvas.Empty()

	opts := FromProperties(p)
	records := ParseRecords(opts.Data, opts.Fields, w.logger)
	testimonials := Normalize(records, opts.Fields, opts.DefaultAvatar)
	if len(testimonials) == 0 {
		w.logger.Debug("rendering placeholder", zap.Error(ErrNoContent), zap.Int("records", len(records)))
		w.canvas.Append(buildPlaceholder())
		return false
	}

	id := w.newID()
	params := w.geometry.Params(len(testimonials), opts.Direction, opts.Speed)
	css, err := buildStylesheet(sheetInput{id: id, opts: opts, geometry: w.geometry, params: params, hoverRules: w.hoverRules})
	if err != nil {
		w.logger.Debug("stylesheet rejected", zap.Error(err))
		w.canvas.Append(buildPlaceholder())
		return false
	}

	st := &RenderState{
		ID:           id,
		Options:      opts,
		Testimonials: testimonials,
		Display:      Duplicate(testimonials, LoopFactor),
		Params:       params,
		CSS:          css,
		classes:      newClassNames(id),
	}
	st.strip = buildStrip(st.classes, st.Display, css)
	st.animator = NewAnimator(opts.StopOnHover, func(ph Phase) {
		setClasses(st.strip.track, st.classes.track,
			classFlag{ClassAnimating, ph != PhaseIdle},
			classFlag{ClassPaused, ph == PhasePaused},
		)
	})
	w.state = st
	w.canvas.Append(st.strip.container)

	gen := w.gen
	st.timers = append(st.timers,
		w.sched.After(MeasureDelay, func() { w.measure(gen) }),
		w.sched.After(w.startDelay, func() { w.start(gen) }),
	)
	w.logger.Debug("strip mounted",
		zap.String("id", id),
		zap.Int("testimonials", len(testimonials)),
		zap.Duration("duration", params.Duration),
		zap.Float64("distance", params.Distance),
	)
	return true
}

func (w *Widget) start(gen uint64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if gen != w.gen || w.state == nil {
		return
	}
	w.state.animator.Handle(EventStart)
}

// measure snapshots the strip, measures it without holding the lock and
// applies the clamp only if the strip is still the live one.
func (w *Widget) measure(gen uint64) {
	w.mu.Lock()
	if gen != w.gen || w.state == nil {
		w.mu.Unlock()
		return
	}
	st := w.state
	snap := Snapshot{
		ID:             st.ID,
		Markup:         RenderHTML(st.strip.container),
		ReviewSelector: "." + st.classes.review,
		CardHeight:     st.Options.CardHeight,
	}
	ctx, cancel := context.WithTimeout(context.Background(), w.measureTimeout)
	st.cancel = cancel
	measurer := w.measurer
	w.mu.Unlock()

	metrics, err := measurer.Measure(ctx, snap)
	cancel()

	w.mu.Lock()
	defer w.mu.Unlock()
	if gen != w.gen || w.state != st {
		return
	}
	if err != nil {
		w.logger.Debug("review measurement failed", zap.String("id", st.ID), zap.Error(err))
		return
	}
	st.clamped = applyClamp(st.strip.reviews, metrics)
}

// Dispatch feeds a pointer or touch event to the strip's animator and
// reports whether the phase changed.
func (w *Widget) Dispatch(ev Event) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state == nil || ev == EventStart {
		return false
	}
	return w.state.animator.Handle(ev)
}

// Phase reports the animation phase; PhaseIdle when nothing is mounted.
func (w *Widget) Phase() Phase {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state == nil {
		return PhaseIdle
	}
	return w.state.animator.Phase()
}

// State returns a copy of the current render state, or nil when only the
// placeholder (or nothing) is mounted.
func (w *Widget) State() *RenderState {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state == nil {
		return nil
	}
	cp := *w.state
	cp.Testimonials = append([]Testimonial(nil), w.state.Testimonials...)
	cp.Display = append([]Testimonial(nil), w.state.Display...)
	cp.timers = nil
	cp.cancel = nil
	return &cp
}

// Clamped reports how many reviews received a line clamp.
func (w *Widget) Clamped() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state == nil {
		return 0
	}
	return w.state.clamped
}

// Destroy cancels pending work and empties the canvas.
func (w *Widget) Destroy() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.teardownLocked()
	w.canvas.Empty()
}

func (w *Widget) teardownLocked() {
	w.gen++
	if w.state == nil {
		return
	}
	for _, t := range w.state.timers {
		if t != nil {
			t.Stop()
		}
	}
	if w.state.cancel != nil {
		w.state.cancel()
	}
	w.state = nil
}
