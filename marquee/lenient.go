package marquee

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf16"
	"unicode/utf8"
)

// The lenient grammar is JSON plus the object-literal conveniences editors
// tend to produce: unquoted keys, single quoted strings, trailing commas,
// comments, undefined/NaN/Infinity, hex numbers and a leading plus sign.
// Nothing is ever evaluated.

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokLBrace
	tokRBrace
	tokLBracket
	tokRBracket
	tokColon
	tokComma
	tokString
	tokNumber
	tokIdent
)

func (k tokenKind) String() string {
	switch k {
	case tokEOF:
		return "end of input"
	case tokLBrace:
		return "'{'"
	case tokRBrace:
		return "'}'"
	case tokLBracket:
		return "'['"
	case tokRBracket:
		return "']'"
	case tokColon:
		return "':'"
	case tokComma:
		return "','"
	case tokString:
		return "string"
	case tokNumber:
		return "number"
	case tokIdent:
		return "identifier"
	}
	return "token"
}

type token struct {
	kind tokenKind
	text string
	num  float64
	pos  int
}

// SyntaxError locates a lenient grammar failure.
type SyntaxError struct {
	Offset int
	Msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("lenient json: %s at offset %d", e.Msg, e.Offset)
}

type lexer struct {
	src string
	pos int
}

func (lx *lexer) errorf(pos int, format string, args ...any) error {
	return &SyntaxError{Offset: pos, Msg: fmt.Sprintf(format, args...)}
}

func (lx *lexer) skipBlank() error {
	for lx.pos < len(lx.src) {
		r, size := utf8.DecodeRuneInString(lx.src[lx.pos:])
		switch {
		case r == '\uFEFF' || unicode.IsSpace(r):
			lx.pos += size
		case strings.HasPrefix(lx.src[lx.pos:], "//"):
			end := strings.IndexByte(lx.src[lx.pos:], '\n')
			if end < 0 {
				lx.pos = len(lx.src)
			} else {
				lx.pos += end + 1
			}
		case strings.HasPrefix(lx.src[lx.pos:], "/*"):
			end := strings.Index(lx.src[lx.pos+2:], "*/")
			if end < 0 {
				return lx.errorf(lx.pos, "unterminated comment")
			}
			lx.pos += end + 4
		default:
			return nil
		}
	}
	return nil
}

func (lx *lexer) next() (token, error) {
	if err := lx.skipBlank(); err != nil {
		return token{}, err
	}
	start := lx.pos
	if lx.pos >= len(lx.src) {
		return token{kind: tokEOF, pos: start}, nil
	}
	c := lx.src[lx.pos]
	switch c {
	case '{':
		lx.pos++
		return token{kind: tokLBrace, pos: start}, nil
	case '}':
		lx.pos++
		return token{kind: tokRBrace, pos: start}, nil
	case '[':
		lx.pos++
		return token{kind: tokLBracket, pos: start}, nil
	case ']':
		lx.pos++
		return token{kind: tokRBracket, pos: start}, nil
	case ':':
		lx.pos++
		return token{kind: tokColon, pos: start}, nil
	case ',':
		lx.pos++
		return token{kind: tokComma, pos: start}, nil
	case '"', '\'':
		s, err := lx.readString(c)
		if err != nil {
			return token{}, err
		}
		return token{kind: tokString, text: s, pos: start}, nil
	}
	if c == '-' || c == '+' || c == '.' || (c >= '0' && c <= '9') {
		return lx.readNumber()
	}
	r, _ := utf8.DecodeRuneInString(lx.src[lx.pos:])
	if isIdentStart(r) {
		return token{kind: tokIdent, text: lx.readIdent(), pos: start}, nil
	}
	return token{}, lx.errorf(start, "unexpected character %q", r)
}

func isIdentStart(r rune) bool {
	return r == '_' || r == '$' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || unicode.IsDigit(r)
}

func (lx *lexer) readIdent() string {
	start := lx.pos
	for lx.pos < len(lx.src) {
		r, size := utf8.DecodeRuneInString(lx.src[lx.pos:])
		if !isIdentPart(r) {
			break
		}
		lx.pos += size
	}
	return lx.src[start:lx.pos]
}

func (lx *lexer) readNumber() (token, error) {
	start := lx.pos
	sign := 1.0
	if c := lx.src[lx.pos]; c == '-' || c == '+' {
		if c == '-' {
			sign = -1
		}
		lx.pos++
	}
	rest := lx.src[lx.pos:]
	switch {
	case strings.HasPrefix(rest, "Infinity"):
		lx.pos += len("Infinity")
		return token{kind: tokNumber, num: sign * math.Inf(1), pos: start}, nil
	case strings.HasPrefix(rest, "NaN"):
		lx.pos += len("NaN")
		return token{kind: tokNumber, num: math.NaN(), pos: start}, nil
	case strings.HasPrefix(rest, "0x") || strings.HasPrefix(rest, "0X"):
		lx.pos += 2
		digits := lx.pos
		for lx.pos < len(lx.src) && isHexDigit(lx.src[lx.pos]) {
			lx.pos++
		}
		v, err := strconv.ParseUint(lx.src[digits:lx.pos], 16, 64)
		if err != nil {
			return token{}, lx.errorf(start, "bad hex number")
		}
		return token{kind: tokNumber, num: sign * float64(v), pos: start}, nil
	}
	digits := lx.pos
	for lx.pos < len(lx.src) {
		c := lx.src[lx.pos]
		if (c >= '0' && c <= '9') || c == '.' || c == 'e' || c == 'E' {
			lx.pos++
			continue
		}
		if (c == '+' || c == '-') && (lx.src[lx.pos-1] == 'e' || lx.src[lx.pos-1] == 'E') {
			lx.pos++
			continue
		}
		break
	}
	text := lx.src[digits:lx.pos]
	v, err := strconv.ParseFloat(text, 64)
	if err != nil || text == "" {
		return token{}, lx.errorf(start, "bad number %q", lx.src[start:lx.pos])
	}
	return token{kind: tokNumber, num: sign * v, pos: start}, nil
}

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func (lx *lexer) readString(quote byte) (string, error) {
	start := lx.pos
	lx.pos++
	var b strings.Builder
	for lx.pos < len(lx.src) {
		c := lx.src[lx.pos]
		switch {
		case c == quote:
			lx.pos++
			return b.String(), nil
		case c == '\n':
			return "", lx.errorf(lx.pos, "newline in string")
		case c == '\\':
			if err := lx.readEscape(&b); err != nil {
				return "", err
			}
		default:
			b.WriteByte(c)
			lx.pos++
		}
	}
	return "", lx.errorf(start, "unterminated string")
}

func (lx *lexer) readEscape(b *strings.Builder) error {
	at := lx.pos
	lx.pos++
	if lx.pos >= len(lx.src) {
		return lx.errorf(at, "unterminated escape")
	}
	c := lx.src[lx.pos]
	lx.pos++
	switch c {
	case 'n':
		b.WriteByte('\n')
	case 't':
		b.WriteByte('\t')
	case 'r':
		b.WriteByte('\r')
	case 'b':
		b.WriteByte('\b')
	case 'f':
		b.WriteByte('\f')
	case 'v':
		b.WriteByte('\v')
	case '0':
		b.WriteByte(0)
	case '\n':
		// line continuation
	case 'x':
		v, ok := lx.hex(2)
		if !ok {
			return lx.errorf(at, "bad \\x escape")
		}
		b.WriteRune(rune(v))
	case 'u':
		v, ok := lx.hex(4)
		if !ok {
			return lx.errorf(at, "bad \\u escape")
		}
		r := rune(v)
		if utf16.IsSurrogate(r) && strings.HasPrefix(lx.src[lx.pos:], `\u`) {
			save := lx.pos
			lx.pos += 2
			if lo, ok := lx.hex(4); ok {
				if dec := utf16.DecodeRune(r, rune(lo)); dec != unicode.ReplacementChar {
					b.WriteRune(dec)
					return nil
				}
			}
			lx.pos = save
		}
		b.WriteRune(r)
	default:
		// unknown escapes keep the escaped character
		lx.pos--
		r, size := utf8.DecodeRuneInString(lx.src[lx.pos:])
		b.WriteRune(r)
		lx.pos += size
	}
	return nil
}

func (lx *lexer) hex(n int) (uint64, bool) {
	if lx.pos+n > len(lx.src) {
		return 0, false
	}
	v, err := strconv.ParseUint(lx.src[lx.pos:lx.pos+n], 16, 32)
	if err != nil {
		return 0, false
	}
	lx.pos += n
	return v, true
}

type lenientParser struct {
	lx  lexer
	tok token
}

// parseLenient decodes s with the lenient grammar into the same shapes
// encoding/json produces for an `any` target.
func parseLenient(s string) (any, error) {
	p := &lenientParser{lx: lexer{src: s}}
	if err := p.advance(); err != nil {
		return nil, err
	}
	v, err := p.value(0)
	if err != nil {
		return nil, err
	}
	if p.tok.kind != tokEOF {
		return nil, p.lx.errorf(p.tok.pos, "unexpected %s after value", p.tok.kind)
	}
	return v, nil
}

const maxLenientDepth = 256

func (p *lenientParser) advance() error {
	t, err := p.lx.next()
	if err != nil {
		return err
	}
	p.tok = t
	return nil
}

func (p *lenientParser) value(depth int) (any, error) {
	if depth > maxLenientDepth {
		return nil, p.lx.errorf(p.tok.pos, "nesting too deep")
	}
	t := p.tok
	switch t.kind {
	case tokLBrace:
		return p.object(depth + 1)
	case tokLBracket:
		return p.array(depth + 1)
	case tokString:
		return t.text, p.advance()
	case tokNumber:
		return t.num, p.advance()
	case tokIdent:
		switch t.text {
		case "true":
			return true, p.advance()
		case "false":
			return false, p.advance()
		case "null", "undefined":
			return nil, p.advance()
		case "NaN":
			return math.NaN(), p.advance()
		case "Infinity":
			return math.Inf(1), p.advance()
		}
		return nil, p.lx.errorf(t.pos, "unknown identifier %q", t.text)
	}
	return nil, p.lx.errorf(t.pos, "unexpected %s", t.kind)
}

func (p *lenientParser) object(depth int) (any, error) {
	out := map[string]any{}
	if err := p.advance(); err != nil {
		return nil, err
	}
	for p.tok.kind != tokRBrace {
		var key string
		switch p.tok.kind {
		case tokString, tokIdent:
			key = p.tok.text
		case tokNumber:
			key = strconv.FormatFloat(p.tok.num, 'f', -1, 64)
		default:
			return nil, p.lx.errorf(p.tok.pos, "expected key, got %s", p.tok.kind)
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		if p.tok.kind != tokColon {
			return nil, p.lx.errorf(p.tok.pos, "expected ':' after key %q", key)
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		v, err := p.value(depth)
		if err != nil {
			return nil, err
		}
		out[key] = v
		if p.tok.kind == tokComma {
			if err := p.advance(); err != nil {
				return nil, err
			}
			continue
		}
		if p.tok.kind != tokRBrace {
			return nil, p.lx.errorf(p.tok.pos, "expected ',' or '}', got %s", p.tok.kind)
		}
	}
	return out, p.advance()
}

func (p *lenientParser) array(depth int) (any, error) {
	out := []any{}
	if err := p.advance(); err != nil {
		return nil, err
	}
	for p.tok.kind != tokRBracket {
		v, err := p.value(depth)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
		if p.tok.kind == tokComma {
			if err := p.advance(); err != nil {
				return nil, err
			}
			continue
		}
		if p.tok.kind != tokRBracket {
			return nil, p.lx.errorf(p.tok.pos, "expected ',' or ']', got %s", p.tok.kind)
		}
	}
	return out, p.advance()
}
