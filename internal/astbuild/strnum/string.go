package strnum

import (
	"fmt"
	"strings"
)

// StringValue is the decoded payload of a STRING/FSTRING token: either
// Text (kind_unicode) or Bytes (bytesmode), never both, plus whether a
// literal `u` prefix was present (spec.md §4.6: "kind field is the
// literal \"u\" when a u-prefixed piece is present").
type StringValue struct {
	Text      string
	Bytes     []byte
	IsBytes   bool
	UPrefixed bool
	IsFString bool // recognized but not independently re-parsed (spec.md §9)
}

// InvalidEscape is returned alongside a successfully decoded value when
// the source contains a deprecated invalid escape sequence, so the
// caller can choose whether to promote it to a syntax error (spec.md
// §7 InvalidEscape).
type InvalidEscape struct {
	Char byte
}

func (e *InvalidEscape) Error() string {
	return fmt.Sprintf("invalid escape sequence '\\%c'", e.Char)
}

// String decodes a STRING/FSTRING token's raw lexeme (quotes, prefixes,
// and all) into a StringValue. Grounded on original_source/pegen/pegen.c's
// parsestr: scan b/B,u/U,r/R,f/F prefixes (any case, combinable except
// b+f), strip the bracketing quote style (single or triple), branch on
// raw-vs-escaped and bytes-vs-text, and for f-strings return the body
// unparsed (this runtime materializes it as a placeholder constant one
// layer up, per spec.md §4.6 and §9).
//
// literal may optionally carry a trailing invalid-escape warning as a
// non-nil, non-fatal *InvalidEscape alongside a non-nil value: the
// caller decides whether the deprecation warning is promoted to a
// syntax error (spec.md §7).
func String(literal string) (*StringValue, error) {
	s := literal
	var bytesMode, rawMode, uPrefixed, fMode bool

	for len(s) > 0 {
		switch s[0] {
		case 'b', 'B':
			bytesMode = true
		case 'u', 'U':
			uPrefixed = true
		case 'r', 'R':
			rawMode = true
		case 'f', 'F':
			fMode = true
		default:
			goto prefixDone
		}
		s = s[1:]
	}
prefixDone:

	if fMode && bytesMode {
		return nil, fmt.Errorf("string literal cannot combine 'b' and 'f' prefixes")
	}
	if len(s) == 0 {
		return nil, fmt.Errorf("empty string literal %q", literal)
	}

	quote := s[0]
	if quote != '\'' && quote != '"' {
		return nil, fmt.Errorf("malformed string literal %q: expected quote, got %q", literal, quote)
	}

	triple := len(s) >= 6 && s[1] == quote && s[2] == quote
	var body string
	if triple {
		if len(s) < 6 || s[len(s)-1] != quote || s[len(s)-2] != quote || s[len(s)-3] != quote {
			return nil, fmt.Errorf("malformed triple-quoted string literal %q", literal)
		}
		body = s[3 : len(s)-3]
	} else {
		if len(s) < 2 || s[len(s)-1] != quote {
			return nil, fmt.Errorf("malformed string literal %q", literal)
		}
		body = s[1 : len(s)-1]
	}

	if fMode {
		return &StringValue{Text: body, UPrefixed: uPrefixed, IsFString: true}, nil
	}

	// "Avoid invoking escape decoding routines if possible" (pegen.c).
	if !rawMode && !strings.Contains(body, "\\") {
		rawMode = true
	}

	if bytesMode {
		for i := 0; i < len(body); i++ {
			if body[i] >= 0x80 {
				return nil, fmt.Errorf("bytes can only contain ASCII literal characters")
			}
		}
		if rawMode {
			return &StringValue{Bytes: []byte(body), IsBytes: true}, nil
		}
		decoded, invalid, err := decodeEscapes(body, true)
		if err != nil {
			return nil, err
		}
		return &StringValue{Bytes: []byte(decoded), IsBytes: true}, wrapInvalid(invalid)
	}

	if rawMode {
		return &StringValue{Text: body, UPrefixed: uPrefixed}, nil
	}
	decoded, invalid, err := decodeEscapes(body, false)
	if err != nil {
		return nil, err
	}
	return &StringValue{Text: decoded, UPrefixed: uPrefixed}, wrapInvalid(invalid)
}

func wrapInvalid(invalid byte) error {
	if invalid == 0 {
		return nil
	}
	return &InvalidEscape{Char: invalid}
}

// decodeEscapes implements the Unicode/bytes escape table that
// decode_unicode_with_escapes / decode_bytes_with_escapes delegate to
// CPython's codec layer for, restated directly: \n \t \\ \' \" etc.,
// \xHH, \ooo (bytes/text), \uXXXX, \UXXXXXXXX (text only). \N{...} is
// not decoded: it is kept literally and reported as an invalid escape.
// Returns the decoded string, the first byte of any unrecognized
// escape encountered (0 if none — spec.md's "invalid escape" warning
// is non-fatal, so decoding continues past it, passing the backslash
// and following character through literally, matching CPython's own
// behavior for unrecognized escapes), and a hard error only for
// truncated/malformed escapes that CPython itself rejects outright.
func decodeEscapes(s string, bytesMode bool) (string, byte, error) {
	var sb strings.Builder
	var firstInvalid byte
	i := 0
	for i < len(s) {
		c := s[i]
		if c != '\\' {
			sb.WriteByte(c)
			i++
			continue
		}
		if i+1 >= len(s) {
			sb.WriteByte('\\')
			i++
			continue
		}
		esc := s[i+1]
		switch esc {
		case '\n':
			i += 2 // line continuation: swallowed
		case '\\':
			sb.WriteByte('\\')
			i += 2
		case '\'':
			sb.WriteByte('\'')
			i += 2
		case '"':
			sb.WriteByte('"')
			i += 2
		case 'a':
			sb.WriteByte('\a')
			i += 2
		case 'b':
			sb.WriteByte('\b')
			i += 2
		case 'f':
			sb.WriteByte('\f')
			i += 2
		case 'n':
			sb.WriteByte('\n')
			i += 2
		case 'r':
			sb.WriteByte('\r')
			i += 2
		case 't':
			sb.WriteByte('\t')
			i += 2
		case 'v':
			sb.WriteByte('\v')
			i += 2
		case 'x':
			val, n, ok := hexEscape(s[i+2:], 2)
			if !ok {
				return "", 0, fmt.Errorf("truncated \\x escape")
			}
			if bytesMode {
				sb.WriteByte(byte(val))
			} else {
				sb.WriteRune(rune(val))
			}
			i += 2 + n
		case 'u':
			if bytesMode {
				if firstInvalid == 0 {
					firstInvalid = esc
				}
				sb.WriteByte('\\')
				sb.WriteByte(esc)
				i += 2
				continue
			}
			val, n, ok := hexEscape(s[i+2:], 4)
			if !ok {
				return "", 0, fmt.Errorf("truncated \\u escape")
			}
			sb.WriteRune(rune(val))
			i += 2 + n
		case 'U':
			if bytesMode {
				if firstInvalid == 0 {
					firstInvalid = esc
				}
				sb.WriteByte('\\')
				sb.WriteByte(esc)
				i += 2
				continue
			}
			val, n, ok := hexEscape(s[i+2:], 8)
			if !ok {
				return "", 0, fmt.Errorf("truncated \\U escape")
			}
			sb.WriteRune(rune(val))
			i += 2 + n
		default:
			if esc >= '0' && esc <= '7' {
				val, n := octalEscape(s[i+1:])
				if bytesMode {
					sb.WriteByte(byte(val))
				} else {
					sb.WriteRune(rune(val))
				}
				i += 1 + n
				continue
			}
			if firstInvalid == 0 {
				firstInvalid = esc
			}
			sb.WriteByte('\\')
			sb.WriteByte(esc)
			i += 2
		}
	}
	return sb.String(), firstInvalid, nil
}

func hexEscape(s string, width int) (uint32, int, bool) {
	if len(s) < width {
		return 0, 0, false
	}
	var val uint32
	for i := 0; i < width; i++ {
		d, ok := hexDigit(s[i])
		if !ok {
			return 0, 0, false
		}
		val = val<<4 | uint32(d)
	}
	return val, width, true
}

func hexDigit(c byte) (uint32, bool) {
	switch {
	case c >= '0' && c <= '9':
		return uint32(c - '0'), true
	case c >= 'a' && c <= 'f':
		return uint32(c-'a') + 10, true
	case c >= 'A' && c <= 'F':
		return uint32(c-'A') + 10, true
	default:
		return 0, false
	}
}

func octalEscape(s string) (uint32, int) {
	var val uint32
	n := 0
	for n < 3 && n < len(s) && s[n] >= '0' && s[n] <= '7' {
		val = val<<3 | uint32(s[n]-'0')
		n++
	}
	return val, n
}

// ConcatenateStrings implements the concatenate_strings builder
// (spec.md §4.6): adjacent string literals combine bytes-as-bytes or
// text-as-text; mixing the two is a syntax error. The `u` kind
// propagates if any piece in the run was u-prefixed (matching pegen.c's
// kind_unicode tracking across the concatenation loop).
func ConcatenateStrings(values []*StringValue) (*StringValue, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("concatenate_strings: empty run")
	}
	if len(values) == 1 {
		return values[0], nil
	}

	bytesMode := values[0].IsBytes
	for _, v := range values[1:] {
		if v.IsBytes != bytesMode {
			return nil, fmt.Errorf("cannot mix bytes and nonbytes literals")
		}
	}

	uPrefixed := false
	if bytesMode {
		var buf []byte
		for _, v := range values {
			buf = append(buf, v.Bytes...)
		}
		return &StringValue{Bytes: buf, IsBytes: true}, nil
	}

	var sb strings.Builder
	for _, v := range values {
		sb.WriteString(v.Text)
		uPrefixed = uPrefixed || v.UPrefixed
	}
	return &StringValue{Text: sb.String(), UPrefixed: uPrefixed}, nil
}
