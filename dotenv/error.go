package dotenv

import (
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Predefined errors (sentinel values).
var (
	ErrParse        = NewError("parse error")
	ErrReadInput    = NewError("failed to read input")
	ErrNotFound     = NewError("variable not found")
	ErrExprCompile  = NewError("expression compilation failed")
	ErrExprEvaluate = NewError("expression evaluation failed")
)

// Error represents an error with optional structured logging attributes.
// It implements both error and slog.LogValuer interfaces.
type Error struct {
	msg   string
	err   error       // Wrapped error (for errors.Unwrap)
	attrs []slog.Attr // Attributes for structured logging
}

// NewError creates a new Error with a message.
func NewError(msg string) *Error {
	return &Error{msg: msg}
}

// WrapError wraps a standard error into an Error.
func WrapError(err error) *Error {
	ee := &Error{}
	if errors.As(err, &ee) {
		return ee
	}

	return &Error{err: err}
}

// Error implements the error interface.
func (e *Error) Error() string {
	// Build error message using the first available format,
	// depending on which fields are set:
	//
	//   1. "<msg>: <err>" // base and wrapped error both set
	//   2. "<msg>"        // wrapped error is nil
	//   3. "<err>"        // base error message is empty
	//   4. ""             // no fields are set
	part := make([]string, 0, 2)

	if e.msg != "" {
		part = append(part, e.msg)
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	return strings.Join(part, ": ")
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is an Error with the same message, so values
// derived from a sentinel with Wrap or With still match it.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)

	return ok && t.msg != "" && t.msg == e.msg
}

// LogValue implements slog.LogValuer for rich structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+2)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	return &Error{
		msg:   e.msg,
		err:   err,
		attrs: e.attrs, // Share attrs
	}
}

// With adds attributes to the error for structured logging.
// This creates a new Error instance to maintain immutability.
func (e *Error) With(attrs ...slog.Attr) *Error {
	newAttrs := make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(newAttrs, e.attrs)
	copy(newAttrs[len(e.attrs):], attrs)

	return &Error{
		msg:   e.msg,
		err:   e.err,
		attrs: newAttrs,
	}
}

// ParseError describes malformed source text.
type ParseError struct {
	Offset   int    // byte offset of the offending character
	Line     int    // 1-based line of Offset
	Column   int    // 1-based byte column of Offset
	Char     rune   // offending character; zero when EOF is set
	EOF      bool   // input ended while Expected was required
	Expected string // description of what was required, if anything
	Reason   string // overrides the generated description when set
	Source   string // the source text being parsed
}

func newParseError(src string, offset int, expected string) *ParseError {
	pe := &ParseError{
		Offset:   offset,
		Expected: expected,
		Source:   src,
	}

	if offset >= len(src) {
		pe.EOF = true
	} else {
		pe.Char, _ = utf8.DecodeRuneInString(src[offset:])
	}

	pe.Line, pe.Column = position(src, offset)

	return pe
}

// position converts a byte offset into 1-based line and column numbers.
func position(src string, offset int) (line, col int) {
	offset = min(offset, len(src))
	head := src[:offset]
	line = strings.Count(head, "\n") + 1
	col = offset - (strings.LastIndexByte(head, '\n') + 1) + 1

	return line, col
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	var buf strings.Builder

	buf.WriteString("parse error at line ")
	buf.WriteString(strconv.Itoa(e.Line))
	buf.WriteString(", column ")
	buf.WriteString(strconv.Itoa(e.Column))
	buf.WriteString(" (offset ")
	buf.WriteString(strconv.Itoa(e.Offset))
	buf.WriteString("): ")
	buf.WriteString(e.describe())

	if snippet := e.snippet(); snippet != "" {
		buf.WriteByte('\n')
		buf.WriteString(snippet)
	}

	return buf.String()
}

// Is reports whether target is [ErrParse].
func (e *ParseError) Is(target error) bool { return errors.Is(ErrParse, target) }

// LogValue implements slog.LogValuer.
func (e *ParseError) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("error", e.describe()),
		slog.Int("offset", e.Offset),
		slog.Int("line", e.Line),
		slog.Int("column", e.Column),
	}

	if e.Expected != "" {
		attrs = append(attrs, slog.String("expected", e.Expected))
	}

	return slog.GroupValue(attrs...)
}

func (e *ParseError) describe() string {
	var msg string

	switch {
	case e.Reason != "":
		msg = e.Reason
	case e.EOF:
		msg = "unexpected end of input"
	default:
		msg = "unexpected character " + strconv.QuoteRune(e.Char)
	}

	if e.Expected != "" {
		msg += " while expecting " + e.Expected
	}

	return msg
}

// snippet renders the offending line with a caret under the error column.
func (e *ParseError) snippet() string {
	lines := strings.Split(e.Source, "\n")
	if e.Line < 1 || e.Line > len(lines) {
		return ""
	}

	var src strings.Builder

	// Print the line with line number
	src.WriteString("  ")
	src.WriteString(strconv.Itoa(e.Line))
	src.WriteString(" | ")
	src.WriteString(strings.TrimSuffix(lines[e.Line-1], "\r"))
	src.WriteRune('\n')

	// +5 accounts for: 2 leading spaces + " | " (3 chars)
	padding := strings.Repeat(" ", len(strconv.Itoa(e.Line))+5)

	if e.Column > 0 {
		padding += strings.Repeat(" ", e.Column-1)
	}

	src.WriteString(padding + "^")

	return src.String()
}
