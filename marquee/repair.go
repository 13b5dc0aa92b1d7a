package marquee

import "strings"

// repairState is the scanner state of Repair.
type repairState int

const (
	// stateStructure copies structural text between string values.
	stateStructure repairState = iota
	// stateValue collects string value content up to its true closing quote.
	stateValue
)

// Repair rewrites near-JSON whose string values were corrupted by editors
// collapsing smart quotes, as in `"review": ""Great product!""`.
//
// A value starts at `: "`. Inside a value a quote only closes it when the
// next non-blank character is `,`, `}` or `]`; every other quote becomes an
// escaped quote. Newlines, tabs and stray backslashes inside values are
// escaped so the result is acceptable to a strict decoder.
func Repair(s string) string {
	var b strings.Builder
	b.Grow(len(s) + len(s)/8)

	state := stateStructure
	for i := 0; i < len(s); {
		c := s[i]
		switch state {
		case stateStructure:
			if valueStartsAt(s, i) {
				b.WriteString(`: "`)
				i += 3
				state = stateValue
				continue
			}
			if c != '\r' {
				b.WriteByte(c)
			}
			i++

		case stateValue:
			switch {
			case c == '"':
				if closesValue(s, i+1) {
					b.WriteByte('"')
					state = stateStructure
				} else {
					b.WriteString(`\"`)
				}
				i++
			case c == '\\' && i+1 < len(s) && s[i+1] == '"':
				b.WriteString(`\"`)
				i += 2
			case c == '\\':
				b.WriteString(`\\`)
				i++
			case c == '\n':
				b.WriteString(`\n`)
				i++
			case c == '\r':
				i++
			case c == '\t':
				b.WriteByte(' ')
				i++
			default:
				b.WriteByte(c)
				i++
			}
		}
	}
	return b.String()
}

// valueStartsAt reports a `: "` marker with at least one byte after it.
func valueStartsAt(s string, i int) bool {
	return i+3 < len(s) && s[i] == ':' && s[i+1] == ' ' && s[i+2] == '"'
}

// closesValue looks past blanks from i for a structural delimiter.
func closesValue(s string, i int) bool {
	for i < len(s) {
		switch s[i] {
		case ' ', '\t', '\r', '\n':
			i++
			continue
		case ',', '}', ']':
			return true
		}
		return false
	}
	return false
}
