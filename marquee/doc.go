// Package marquee renders an auto-scrolling testimonial strip.
//
// Host data goes through three stages. Parse accepts JSON text (including
// text whose smart quotes were collapsed into bare quotes by an editor),
// native slices and lazy host lists, and yields loosely typed records.
// Normalize maps those records through a FieldMap into Testimonials. A
// Widget then mounts a card strip onto a Canvas as an x/net/html tree with a
// scoped stylesheet, repeats the sequence LoopFactor times so the CSS loop
// never shows a seam, and drives the Idle -> Animating <-> Paused machine from
// deferred timers and pointer/touch events.
//
// Failures in host data never surface as errors from Widget.Update; they
// render a placeholder and are reported only to the optional debug logger.
package marquee
