package marquee

import (
	"math"
	"time"
)

// Fixed card geometry of the strip, in CSS pixels.
const (
	CardWidth = 320
	CardGap   = 16
	// LoopFactor is how many consecutive copies of the sequence the track
	// holds so the visible window never runs out before the loop seam.
	LoopFactor = 3
)

// Speed clamps a 1..10 speed. Anything outside the scale, including an unset
// zero, becomes DefaultSpeed.
func Speed(v float64) float64 {
	if !(v >= 1 && v <= 10) {
		return DefaultSpeed
	}
	return v
}

// DurationFor maps the speed scale linearly and inverted onto a loop
// duration: 1 is 190s, 10 is 10s.
func DurationFor(speed float64) time.Duration {
	seconds := 210 - 20*Speed(speed)
	return time.Duration(seconds * float64(time.Second))
}

// Duplicate returns factor consecutive copies of seq, order preserved.
func Duplicate[T any](seq []T, factor int) []T {
	if factor <= 0 || len(seq) == 0 {
		return nil
	}
	out := make([]T, 0, len(seq)*factor)
	for i := 0; i < factor; i++ {
		out = append(out, seq...)
	}
	return out
}

// Geometry is the horizontal footprint of one card.
type Geometry struct {
	CardWidth float64
	Gap       float64
}

// DefaultGeometry is the 320px card with a 16px gap.
func DefaultGeometry() Geometry {
	return Geometry{CardWidth: CardWidth, Gap: CardGap}
}

// Stride is the distance between the left edges of neighbouring cards.
func (g Geometry) Stride() float64 { return g.CardWidth + g.Gap }

// SequenceWidth is the width of n cards including their trailing gaps.
func (g Geometry) SequenceWidth(n int) float64 { return g.Stride() * float64(n) }

// AnimationParameters is derived per render and never stored by the host.
type AnimationParameters struct {
	Duration  time.Duration
	Direction Direction
	// Distance is the signed translation of one cycle: one sequence width,
	// negative when scrolling left.
	Distance float64
}

// Params derives the animation of n original (not duplicated) testimonials.
func (g Geometry) Params(n int, dir Direction, speed float64) AnimationParameters {
	d := g.SequenceWidth(n)
	if dir == DirectionLeft {
		d = -d
	}
	return AnimationParameters{Duration: DurationFor(speed), Direction: dir, Distance: d}
}

// Keyframes returns the translateX endpoints in px. Forward runs 0 -> -W*N,
// reverse runs the mirror -W*N -> 0.
func (p AnimationParameters) Keyframes() (from, to float64) {
	w := math.Abs(p.Distance)
	if p.Direction == DirectionRight {
		return -w, 0
	}
	return 0, -w
}

// MinLoopCopies is the number of sequence copies needed so that a viewport
// of the given width stays covered during a full cycle. The track always
// uses LoopFactor; this exists to check short sequences against wide hosts.
func (g Geometry) MinLoopCopies(n int, viewport float64) int {
	seq := g.SequenceWidth(n)
	if seq <= 0 {
		return 0
	}
	// one copy scrolls out while the rest must still span the viewport
	return 1 + int(math.Ceil(viewport/seq))
}
