// Package errors formats parser diagnostics with source context and
// implements the error taxonomy of spec.md §7.
//
// Propagation policy: recognizers and builders return nil/zero on any
// error; the first error to set Cursor.LastError wins, and later nil
// returns must never overwrite it (spec.md §7, "Propagation policy").
package errors

import (
	"fmt"
	"strings"

	"github.com/augustgrove/pegparse/pkg/token"
)

// CompilerError is a single diagnostic with position and source context.
// Adapted directly from the teacher's compiler error formatter: same
// caret-under-column rendering, same optional color output.
type CompilerError struct {
	Message string
	Source  string
	File    string
	Pos     token.Position
}

// NewCompilerError constructs a CompilerError.
func NewCompilerError(pos token.Position, message, source, file string) *CompilerError {
	return &CompilerError{Pos: pos, Message: message, Source: source, File: file}
}

// Error implements the error interface.
func (e *CompilerError) Error() string {
	return e.Format(false)
}

// Format renders the error with a single line of source context and a
// caret pointing at the offending column. If color is true, ANSI escapes
// highlight the message and caret.
func (e *CompilerError) Format(color bool) string {
	var sb strings.Builder

	if e.File != "" {
		sb.WriteString(fmt.Sprintf("File \"%s\", line %d\n", e.File, e.Pos.Line))
	} else {
		sb.WriteString(fmt.Sprintf("line %d\n", e.Pos.Line))
	}

	if line := e.sourceLine(e.Pos.Line); line != "" {
		lineNumStr := fmt.Sprintf("%4d | ", e.Pos.Line)
		sb.WriteString(lineNumStr)
		sb.WriteString(line)
		sb.WriteString("\n")

		sb.WriteString(strings.Repeat(" ", len(lineNumStr)+e.Pos.Column))
		if color {
			sb.WriteString("\033[1;31m")
		}
		sb.WriteString("^")
		if color {
			sb.WriteString("\033[0m")
		}
		sb.WriteString("\n")
	}

	if color {
		sb.WriteString("\033[1m")
	}
	sb.WriteString("SyntaxError: ")
	sb.WriteString(e.Message)
	if color {
		sb.WriteString("\033[0m")
	}

	return sb.String()
}

func (e *CompilerError) sourceLine(lineNum int) string {
	if e.Source == "" || lineNum < 1 {
		return ""
	}
	lines := strings.Split(e.Source, "\n")
	if lineNum > len(lines) {
		return ""
	}
	return lines[lineNum-1]
}

// FormatWithContext renders the error with contextLines of surrounding
// source above and below the offending line.
func (e *CompilerError) FormatWithContext(contextLines int, color bool) string {
	if contextLines <= 0 || e.Source == "" {
		return e.Format(color)
	}

	lines := strings.Split(e.Source, "\n")
	start := e.Pos.Line - contextLines
	if start < 1 {
		start = 1
	}
	end := e.Pos.Line + contextLines
	if end > len(lines) {
		end = len(lines)
	}
	if start > len(lines) || start < 1 {
		return e.Format(color)
	}

	var sb strings.Builder
	if e.File != "" {
		sb.WriteString(fmt.Sprintf("File \"%s\", line %d\n", e.File, e.Pos.Line))
	} else {
		sb.WriteString(fmt.Sprintf("line %d\n", e.Pos.Line))
	}

	for i := start; i <= end; i++ {
		lineNumStr := fmt.Sprintf("%4d | ", i)
		sb.WriteString(lineNumStr)
		sb.WriteString(lines[i-1])
		sb.WriteString("\n")
		if i == e.Pos.Line {
			sb.WriteString(strings.Repeat(" ", len(lineNumStr)+e.Pos.Column))
			if color {
				sb.WriteString("\033[1;31m")
			}
			sb.WriteString("^")
			if color {
				sb.WriteString("\033[0m")
			}
			sb.WriteString("\n")
		}
	}

	sb.WriteString("\n")
	if color {
		sb.WriteString("\033[1m")
	}
	sb.WriteString("SyntaxError: ")
	sb.WriteString(e.Message)
	if color {
		sb.WriteString("\033[0m")
	}

	return sb.String()
}

// --- Taxonomy (spec.md §7) ---

// LexerFatalError reports an irrecoverable lexing failure (ERRORTOKEN).
// Terminal: the driver makes no further lex calls once this is set.
type LexerFatalError struct{ *CompilerError }

// NewLexerFatalError builds a LexerFatalError at (lineno, col=0), as
// spec.md §4.3 requires: "no reliable column information for this error"
// (original_source/pegen/pegen.c: PyErr_SyntaxLocationObject(..., 0)).
func NewLexerFatalError(file, source string, line int) *LexerFatalError {
	return &LexerFatalError{NewCompilerError(token.Position{Line: line, Column: 0}, "tokenizer returned error token", source, file)}
}

// OutOfMemoryError reports an arena allocation failure. Terminal,
// surfaced once. In practice a Go bump allocator only fails this way
// under host OOM, but the type exists so callers can propagate it
// uniformly with the rest of the taxonomy.
type OutOfMemoryError struct{ *CompilerError }

func NewOutOfMemoryError(file, source string) *OutOfMemoryError {
	return &OutOfMemoryError{NewCompilerError(token.Position{Line: 1, Column: 0}, "out of memory", source, file)}
}

// ParseFailureError is synthesized by the driver when the start rule
// returns nil with no lexer/OOM error already set: "at last realized
// token, or at line 1 col 1 if none" (spec.md §7).
type ParseFailureError struct{ *CompilerError }

func NewParseFailureError(file, source string, pos token.Position, message string) *ParseFailureError {
	return &ParseFailureError{NewCompilerError(pos, message, source, file)}
}

// SyntaxViolationError reports a semantic constraint caught during AST
// construction (invalid annotated target, mixed bytes/text concat,
// non-ASCII in a bytes literal, bad dotted-import dot count). Reported
// immediately, not deferred.
type SyntaxViolationError struct{ *CompilerError }

func NewSyntaxViolationError(file, source string, pos token.Position, message string) *SyntaxViolationError {
	return &SyntaxViolationError{NewCompilerError(pos, message, source, file)}
}

// InvalidEscapeError is a deprecation warning by default; promoted to a
// syntax error only if the caller configures the warning as an error
// (spec.md §7).
type InvalidEscapeError struct {
	*CompilerError
	Promoted bool
}

func NewInvalidEscapeError(file, source string, pos token.Position, char byte, promoted bool) *InvalidEscapeError {
	msg := fmt.Sprintf("invalid escape sequence '\\%c'", char)
	return &InvalidEscapeError{NewCompilerError(pos, msg, source, file), promoted}
}

// FormatErrors renders multiple CompilerErrors, numbering them when there
// is more than one.
func FormatErrors(errs []*CompilerError, color bool) string {
	if len(errs) == 0 {
		return ""
	}
	if len(errs) == 1 {
		return errs[0].Format(color)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%d errors:\n\n", len(errs))
	for i, e := range errs {
		fmt.Fprintf(&sb, "[%d/%d]\n", i+1, len(errs))
		sb.WriteString(e.Format(color))
		if i < len(errs)-1 {
			sb.WriteString("\n\n")
		}
	}
	return sb.String()
}
