// Package lexer implements a concrete scanner for the Python-like source
// language this runtime parses, and the thin Adapter (spec.md §4.3) that
// the cursor pulls tokens from on demand.
//
// # Unicode and column positions
//
// Like the teacher's DWScript lexer, this scanner tracks column as a
// 0-based byte offset from the start of the current line — not a rune
// count and not a display width — matching CPython's own col_offset
// convention (spec.md §3: "0-based byte column").
package lexer

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/augustgrove/pegparse/pkg/token"
)

// Lexer scans Python-like source text into a stream of tokens, handling
// indentation (INDENT/DEDENT), implicit line joining inside brackets, and
// the lexical forms of names, numbers, and string literals.
type Lexer struct {
	input    string
	filename string

	pos      int // byte offset of ch
	readPos  int // byte offset of next rune
	ch       rune
	line     int
	lineHead int // byte offset of the start of the current physical line

	atLineStart bool
	parenDepth  int
	indents     []int
	pending     []token.Token // INDENT/DEDENT/NEWLINE/ENDMARKER queued ahead of scan position
	emittedEnd  bool

	// lineHasContent is set once a token other than NEWLINE/INDENT/DEDENT
	// has been scanned on the current logical line.
	lineHasContent bool
}

// Option configures a Lexer at construction time, mirroring the teacher's
// functional-options pattern (WithPreserveComments, WithTracing).
type Option func(*Lexer)

// WithFilename sets the filename reported in lexer-fatal diagnostics.
func WithFilename(name string) Option {
	return func(l *Lexer) { l.filename = name }
}

// New creates a Lexer over input, stripping a leading UTF-8 BOM exactly
// as the teacher's lexer does for DWScript sources.
func New(input string, opts ...Option) *Lexer {
	if len(input) >= 3 && input[0] == 0xEF && input[1] == 0xBB && input[2] == 0xBF {
		input = input[3:]
	}

	l := &Lexer{
		input:       input,
		line:        1,
		atLineStart: true,
		indents:     []int{0},
	}
	for _, opt := range opts {
		opt(l)
	}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	if l.readPos >= len(l.input) {
		l.ch = 0
		l.pos = len(l.input)
		return
	}
	r, size := utf8.DecodeRuneInString(l.input[l.readPos:])
	l.ch = r
	l.pos = l.readPos
	l.readPos += size
}

func (l *Lexer) peekChar() rune {
	if l.readPos >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.readPos:])
	return r
}

func (l *Lexer) column() int {
	return l.pos - l.lineHead
}

func (l *Lexer) pposition() token.Position {
	return token.Position{Line: l.line, Column: l.column(), Offset: l.pos}
}

func (l *Lexer) newline() {
	l.line++
	l.readChar()
	l.lineHead = l.pos
}

// NextToken returns the next Token in the stream. Once ENDMARKER has been
// returned, every subsequent call returns ENDMARKER again without further
// scanning (spec.md invariant 6).
func (l *Lexer) NextToken() token.Token {
	if len(l.pending) > 0 {
		t := l.pending[0]
		l.pending = l.pending[1:]
		return t
	}
	if l.emittedEnd {
		return token.NewToken(token.ENDMARKER, "", l.pposition())
	}

	if l.atLineStart && l.parenDepth == 0 {
		l.scanIndentation()
		if len(l.pending) > 0 {
			t := l.pending[0]
			l.pending = l.pending[1:]
			return t
		}
	}

	l.skipSpacesAndComments()

	if l.ch == 0 {
		return l.finish()
	}

	if l.ch == '\n' {
		wasAtStart := !l.lineHasContent
		pos := l.pposition()
		l.newline()
		l.atLineStart = true
		if l.parenDepth > 0 || wasAtStart {
			return l.NextToken()
		}
		l.lineHasContent = false
		tok := token.NewToken(token.NEWLINE, "\n", pos)
		tok.EndPos = l.pposition()
		return tok
	}

	start := l.pposition()
	if l.ch != '#' {
		l.lineHasContent = true
	}

	switch {
	case l.ch == '#':
		l.skipComment()
		return l.NextToken()
	case isIdentStart(l.ch):
		return l.scanIdentifierOrStringPrefix(start)
	case unicode.IsDigit(l.ch):
		return l.scanNumber(start)
	case l.ch == '"' || l.ch == '\'':
		return l.scanString(start, "")
	default:
		return l.scanOperator(start)
	}
}

// finish handles end-of-input: emits a closing NEWLINE (if the last
// logical line had content), a DEDENT per remaining indent level, then
// ENDMARKER, exactly mirroring CPython's tokenizer shutdown sequence.
func (l *Lexer) finish() token.Token {
	pos := l.pposition()
	var queue []token.Token
	if l.lineHasContent {
		l.lineHasContent = false
		queue = append(queue, token.NewToken(token.NEWLINE, "", pos))
	}
	for len(l.indents) > 1 {
		l.indents = l.indents[:len(l.indents)-1]
		queue = append(queue, token.NewToken(token.DEDENT, "", pos))
	}
	queue = append(queue, token.NewToken(token.ENDMARKER, "", pos))
	l.emittedEnd = true
	l.pending = append(l.pending, queue...)
	return l.NextToken()
}

// scanIndentation measures leading whitespace on a fresh logical line and
// queues the resulting INDENT or DEDENT token(s) onto l.pending. A blank
// or comment-only line produces no INDENT/DEDENT, matching Python's
// tokenizer (those lines are invisible to indentation tracking).
func (l *Lexer) scanIndentation() {
	width := 0
	for l.ch == ' ' || l.ch == '\t' {
		if l.ch == '\t' {
			width += 8 - (width % 8)
		} else {
			width++
		}
		l.readChar()
	}
	l.atLineStart = false

	if l.ch == '\n' || l.ch == '#' || l.ch == 0 {
		return
	}

	pos := l.pposition()
	current := l.indents[len(l.indents)-1]

	switch {
	case width > current:
		l.indents = append(l.indents, width)
		l.pending = append(l.pending, token.NewToken(token.INDENT, "", pos))
	case width < current:
		for len(l.indents) > 1 && l.indents[len(l.indents)-1] > width {
			l.indents = l.indents[:len(l.indents)-1]
			l.pending = append(l.pending, token.NewToken(token.DEDENT, "", pos))
		}
	}
}

func (l *Lexer) skipSpacesAndComments() {
	for {
		for l.ch == ' ' || l.ch == '\t' || l.ch == '\r' {
			l.readChar()
		}
		if l.ch == '\\' && l.peekChar() == '\n' {
			l.readChar()
			l.newline()
			continue
		}
		break
	}
}

func (l *Lexer) skipComment() {
	for l.ch != '\n' && l.ch != 0 {
		l.readChar()
	}
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentCont(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// scanIdentifierOrStringPrefix handles both plain NAME tokens and string
// literals whose quote is preceded by a b/r/u/f prefix combination
// (spec.md §4.6 "string()"): "r'...'", "Rb'''...'''", "f\"...\"", etc.
func (l *Lexer) scanIdentifierOrStringPrefix(start token.Position) token.Token {
	startOffset := l.pos
	for isIdentCont(l.ch) {
		l.readChar()
	}
	word := l.input[startOffset:l.pos]

	if (l.ch == '"' || l.ch == '\'') && isStringPrefix(word) {
		return l.scanString(start, word)
	}

	typ := token.LookupIdent(word)
	tok := token.NewToken(typ, word, start)
	tok.EndPos = l.pposition()
	return tok
}

// isStringPrefix reports whether word is a valid string-literal prefix:
// one or two letters drawn from b/r/u/f, no repeats, and never both b and f
// together (bytes and f-strings are mutually exclusive in the grammar).
func isStringPrefix(word string) bool {
	if len(word) == 0 || len(word) > 2 {
		return false
	}
	seen := map[byte]bool{}
	for i := 0; i < len(word); i++ {
		c := word[i] | 0x20 // lowercase
		if c != 'b' && c != 'r' && c != 'u' && c != 'f' {
			return false
		}
		if seen[c] {
			return false
		}
		seen[c] = true
	}
	if seen['b'] && seen['f'] {
		return false
	}
	return true
}

func (l *Lexer) scanNumber(start token.Position) token.Token {
	startOffset := l.pos

	if l.ch == '0' && (l.peekChar() == 'x' || l.peekChar() == 'X' || l.peekChar() == 'o' || l.peekChar() == 'O' || l.peekChar() == 'b' || l.peekChar() == 'B') {
		l.readChar()
		l.readChar()
		for isHexDigitOrSep(l.ch) {
			l.readChar()
		}
		return l.finishNumber(start, startOffset)
	}

	for unicode.IsDigit(l.ch) || l.ch == '_' {
		l.readChar()
	}
	if l.ch == '.' && unicode.IsDigit(l.peekChar()) || (l.ch == '.' && !isIdentStart(l.peekChar()) && l.peekChar() != '.') {
		l.readChar()
		for unicode.IsDigit(l.ch) || l.ch == '_' {
			l.readChar()
		}
	}
	if l.ch == 'e' || l.ch == 'E' {
		// Look ahead before consuming anything: an exponent needs a digit
		// after the optional sign, or "1e" would wrongly swallow a trailing
		// identifier like "1e_name" as the start of an exponent.
		signOffset := 1
		if p := l.peekAt(1); p == '+' || p == '-' {
			signOffset = 2
		}
		if unicode.IsDigit(l.peekAt(signOffset)) {
			l.readChar()
			if l.ch == '+' || l.ch == '-' {
				l.readChar()
			}
			for unicode.IsDigit(l.ch) || l.ch == '_' {
				l.readChar()
			}
		}
	}
	if l.ch == 'j' || l.ch == 'J' {
		l.readChar()
	}
	return l.finishNumber(start, startOffset)
}

func isHexDigitOrSep(r rune) bool {
	return unicode.IsDigit(r) || r == '_' ||
		(r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

func (l *Lexer) finishNumber(start token.Position, startOffset int) token.Token {
	lit := l.input[startOffset:l.pos]
	tok := token.NewToken(token.NUMBER, lit, start)
	tok.EndPos = l.pposition()
	return tok
}

// scanString scans a (possibly triple-quoted) string literal, including
// its prefix. Position spans follow spec.md §3: for multi-line STRING
// tokens, Pos.Line is the anchor ("first_lineno") and EndPos reflects the
// true closing-quote line, while Pos.Column stays relative to the anchor
// line rather than the last physical line.
func (l *Lexer) scanString(start token.Position, prefix string) token.Token {
	startOffset := l.pos - len(prefix)
	quote := l.ch
	triple := false
	l.readChar()
	if l.ch == quote && l.peekChar() == quote {
		triple = true
		l.readChar()
		l.readChar()
	}

	raw := strings.ContainsAny(strings.ToLower(prefix), "r")

	for {
		if l.ch == 0 {
			tok := token.NewToken(token.ERROR, l.input[startOffset:l.pos], start)
			tok.EndPos = l.pposition()
			return tok
		}
		if l.ch == '\\' && !raw {
			l.readChar()
			if l.ch == '\n' {
				l.newline()
			} else if l.ch != 0 {
				l.readChar()
			}
			continue
		}
		if l.ch == '\\' && raw {
			// Raw strings still treat \<quote> as not ending the string,
			// matching CPython: the backslash and quote are both kept.
			l.readChar()
			if l.ch != 0 {
				l.readChar()
			}
			continue
		}
		if l.ch == '\n' && !triple {
			tok := token.NewToken(token.ERROR, l.input[startOffset:l.pos], start)
			tok.EndPos = l.pposition()
			return tok
		}
		if l.ch == '\n' {
			l.newline()
			continue
		}
		if l.ch == quote {
			if !triple {
				l.readChar()
				break
			}
			if l.peekChar() == quote && l.peekAt(2) == quote {
				l.readChar()
				l.readChar()
				l.readChar()
				break
			}
			l.readChar()
			continue
		}
		l.readChar()
	}

	lit := l.input[startOffset:l.pos]
	kind := token.STRING
	if strings.ContainsAny(strings.ToLower(prefix), "f") {
		kind = token.FSTRING
	}
	tok := token.NewToken(kind, lit, start)
	tok.EndPos = l.pposition()
	return tok
}

var singleCharOps = map[rune]token.Type{
	'(': token.LPAREN, ')': token.RPAREN,
	'[': token.LBRACK, ']': token.RBRACK,
	'{': token.LBRACE, '}': token.RBRACE,
	',': token.COMMA, ';': token.SEMICOLON,
	'~': token.TILDE,
}

// scanOperator scans punctuation and operator tokens, handling bracket
// depth (for implicit line joining) and the longest-match rule for
// multi-character operators (**=, //=, ->, :=, ...).
func (l *Lexer) scanOperator(start token.Position) token.Token {
	ch := l.ch
	two := string(ch) + string(l.peekChar())

	switch ch {
	case '(', '[', '{':
		l.parenDepth++
	case ')', ']', '}':
		if l.parenDepth > 0 {
			l.parenDepth--
		}
	}

	if typ, ok := singleCharOps[ch]; ok {
		l.readChar()
		return l.finishOp(start, typ, string(ch))
	}

	three := ""
	if len(l.input) > l.pos+2 {
		three = string(ch) + string(l.peekChar()) + string(l.peekAt(2))
	}
	switch three {
	case "**=":
		l.readChar()
		l.readChar()
		l.readChar()
		return l.finishOp(start, token.DOUBLESTAREQUAL, three)
	case "//=":
		l.readChar()
		l.readChar()
		l.readChar()
		return l.finishOp(start, token.DOUBLESLASHEQUAL, three)
	case "...":
		l.readChar()
		l.readChar()
		l.readChar()
		return l.finishOp(start, token.ELLIPSIS, three)
	}

	switch two {
	case "**":
		l.readChar()
		l.readChar()
		return l.finishOp(start, token.DOUBLESTAR, two)
	case "//":
		l.readChar()
		l.readChar()
		return l.finishOp(start, token.DOUBLESLASH, two)
	case "<<":
		l.readChar()
		l.readChar()
		return l.finishOp(start, token.LSHIFT, two)
	case ">>":
		l.readChar()
		l.readChar()
		return l.finishOp(start, token.RSHIFT, two)
	case "<=":
		l.readChar()
		l.readChar()
		return l.finishOp(start, token.LESSEQUAL, two)
	case ">=":
		l.readChar()
		l.readChar()
		return l.finishOp(start, token.GREATEREQUAL, two)
	case "==":
		l.readChar()
		l.readChar()
		return l.finishOp(start, token.EQEQUAL, two)
	case "!=":
		l.readChar()
		l.readChar()
		return l.finishOp(start, token.NOTEQUAL, two)
	case "->":
		l.readChar()
		l.readChar()
		return l.finishOp(start, token.ARROW, two)
	case ":=":
		l.readChar()
		l.readChar()
		return l.finishOp(start, token.COLONEQUAL, two)
	case "+=":
		l.readChar()
		l.readChar()
		return l.finishOp(start, token.PLUSEQUAL, two)
	case "-=":
		l.readChar()
		l.readChar()
		return l.finishOp(start, token.MINEQUAL, two)
	case "*=":
		l.readChar()
		l.readChar()
		return l.finishOp(start, token.STAREQUAL, two)
	case "/=":
		l.readChar()
		l.readChar()
		return l.finishOp(start, token.SLASHEQUAL, two)
	case "%=":
		l.readChar()
		l.readChar()
		return l.finishOp(start, token.PERCENTEQUAL, two)
	case "&=":
		l.readChar()
		l.readChar()
		return l.finishOp(start, token.AMPEREQUAL, two)
	case "|=":
		l.readChar()
		l.readChar()
		return l.finishOp(start, token.VBAREQUAL, two)
	case "^=":
		l.readChar()
		l.readChar()
		return l.finishOp(start, token.CIRCUMFLEXEQUAL, two)
	case "@=":
		l.readChar()
		l.readChar()
		return l.finishOp(start, token.ATEQUAL, two)
	}

	single := map[rune]token.Type{
		'+': token.PLUS, '-': token.MINUS, '*': token.STAR, '/': token.SLASH,
		'%': token.PERCENT, '&': token.AMPER, '|': token.VBAR,
		'^': token.CIRCUMFLEX, '<': token.LESS, '>': token.GREATER,
		'=': token.EQUAL, '.': token.DOT, ':': token.COLON,
		'@': token.AT,
	}
	if typ, ok := single[ch]; ok {
		l.readChar()
		return l.finishOp(start, typ, string(ch))
	}

	lit := string(ch)
	l.readChar()
	tok := token.NewToken(token.ERROR, lit, start)
	tok.EndPos = l.pposition()
	return tok
}

func (l *Lexer) peekAt(n int) rune {
	off := l.readPos
	var r rune
	for i := 0; i < n; i++ {
		if off >= len(l.input) {
			return 0
		}
		var size int
		r, size = utf8.DecodeRuneInString(l.input[off:])
		off += size
	}
	return r
}

func (l *Lexer) finishOp(start token.Position, typ token.Type, lit string) token.Token {
	tok := token.NewToken(typ, lit, start)
	tok.EndPos = l.pposition()
	return tok
}
