package marquee

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedInput is reported when testimonial text survives neither
	// the strict decoder nor the lenient grammar.
	ErrMalformedInput = errors.New("marquee: malformed input")
	// ErrNotAList is reported when the decoded value is not a list shape.
	ErrNotAList = errors.New("marquee: testimonials data is not a list")
	// ErrNoContent signals that nothing displayable survived normalization.
	ErrNoContent = errors.New("marquee: no displayable testimonials")
)

// MalformedInputError keeps both decoder failures for debugging.
type MalformedInputError struct {
	Strict  error
	Lenient error
}

func (e *MalformedInputError) Error() string {
	return fmt.Sprintf("marquee: malformed input: strict: %v; lenient: %v", e.Strict, e.Lenient)
}

func (e *MalformedInputError) Is(target error) bool { return target == ErrMalformedInput }

func (e *MalformedInputError) Unwrap() error { return e.Lenient }
