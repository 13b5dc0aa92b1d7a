package marquee

// Phase is the animation state of a mounted strip.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseAnimating
	PhasePaused
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseAnimating:
		return "animating"
	case PhasePaused:
		return "paused"
	}
	return "unknown"
}

// Event is an input to the Animator.
type Event int

const (
	// EventStart is fired once by the deferred start after mounting.
	EventStart Event = iota
	EventPointerEnter
	EventPointerLeave
	EventTouchStart
	EventTouchEnd
)

func (e Event) String() string {
	switch e {
	case EventStart:
		return "start"
	case EventPointerEnter:
		return "pointerenter"
	case EventPointerLeave:
		return "pointerleave"
	case EventTouchStart:
		return "touchstart"
	case EventTouchEnd:
		return "touchend"
	}
	return "unknown"
}

type transition struct {
	from Phase
	on   Event
}

var transitions = map[transition]Phase{
	{PhaseIdle, EventStart}:             PhaseAnimating,
	{PhaseAnimating, EventPointerEnter}: PhasePaused,
	{PhaseAnimating, EventTouchStart}:   PhasePaused,
	{PhasePaused, EventPointerLeave}:    PhaseAnimating,
	{PhasePaused, EventTouchEnd}:        PhaseAnimating,
}

// Animator is the Idle -> Animating <-> Paused machine of one strip. It is not
// safe for concurrent use; the owning Widget serializes access.
type Animator struct {
	phase        Phase
	pauseOnHover bool
	onChange     func(Phase)
}

// NewAnimator returns an idle machine. onChange, when set, runs after every
// effective transition.
func NewAnimator(pauseOnHover bool, onChange func(Phase)) *Animator {
	return &Animator{pauseOnHover: pauseOnHover, onChange: onChange}
}

// Phase reports the current phase.
func (a *Animator) Phase() Phase { return a.phase }

// Handle applies ev and reports whether the phase changed.
func (a *Animator) Handle(ev Event) bool {
	if ev != EventStart && !a.pauseOnHover {
		return false
	}
	next, ok := transitions[transition{a.phase, ev}]
	if !ok {
		return false
	}
	a.phase = next
	if a.onChange != nil {
		a.onChange(next)
	}
	return true
}
