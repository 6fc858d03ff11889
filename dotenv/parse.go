package dotenv

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/klauspost/readahead"

	"github.com/ardnew/denv/log"
)

// Characters with structural meaning.
const (
	newLine     = '\n'
	escapeChar  = '\\'
	doubleQuote = '"'
	singleQuote = '\''
	commentChar = '#'
	equalChar   = '='
)

// Interpolation placeholder delimiters.
const (
	interpolateBegin = "${"
	interpolateEnd   = "}"
)

// ParseString parses environment file content from a string.
func ParseString(ctx context.Context, s string, opts ...Option) (*Env, error) {
	env := newEnv(opts...)

	err := env.load(ctx, s)
	if err != nil {
		return nil, err
	}

	return env, nil
}

// ParseFile reads and parses the environment file at path.
func ParseFile(ctx context.Context, path string, opts ...Option) (*Env, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ErrReadInput.Wrap(err).
			With(slog.String("path", path))
	}

	return ParseString(ctx, string(data), opts...)
}

// ParseReader reads r to completion and parses its content.
func ParseReader(
	ctx context.Context,
	r io.Reader,
	opts ...Option,
) (*Env, error) {
	data, err := readAll(r)
	if err != nil {
		return nil, err
	}

	return ParseString(ctx, data, opts...)
}

// readAll drains r through an asynchronous read-ahead buffer.
func readAll(r io.Reader) (string, error) {
	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return "", ErrReadInput.Wrap(err).
			With(slog.String("source", "reader"))
	}

	return string(data), nil
}

// result is the outcome of one complete parse.
type result struct {
	tokens []Token
	vars   map[string]any
	order  []string
}

// parser holds the state of a single pass over the source.
type parser struct {
	s           *scanner
	castBool    bool
	castNumeric bool
	logger      log.Logger

	tokens []Token
	vars   map[string]any
	order  []string
}

func newParser(src string, castBool, castNumeric bool, logger log.Logger) *parser {
	return &parser{
		s:           newScanner(src),
		castBool:    castBool,
		castNumeric: castNumeric,
		logger:      logger,
		vars:        make(map[string]any),
	}
}

// parse consumes the whole source. On error nothing of the partial result is
// returned.
func (p *parser) parse(ctx context.Context) (*result, error) {
	for {
		c, ok := p.s.peek()
		if !ok {
			break
		}

		switch {
		case c == commentChar:
			p.tokens = append(p.tokens, p.comment())

		case isNameStart(c):
			err := p.assignment()
			if err != nil {
				return nil, err
			}

		case isSpace(c):
			p.tokens = append(p.tokens, p.space())

		default:
			return nil, newParseError(p.s.src, p.s.offset(), "")
		}
	}

	p.logger.TraceContext(ctx, "parse complete",
		slog.Int("token_count", len(p.tokens)),
		slog.Int("var_count", len(p.vars)))

	return &result{tokens: p.tokens, vars: p.vars, order: p.order}, nil
}

// assignment parses NAME [space] '=' VALUE.
func (p *parser) assignment() error {
	name := p.name()
	p.tokens = append(p.tokens, name)

	if p.spaceAhead() {
		p.tokens = append(p.tokens, p.space())
	}

	err := p.expect(equalChar)
	if err != nil {
		return err
	}

	value, err := p.value()
	if err != nil {
		return err
	}

	p.tokens = append(p.tokens, value)

	key, _ := name.Value.(string)
	if _, seen := p.vars[key]; !seen {
		p.order = append(p.order, key)
	}

	p.vars[key] = value.Value

	return nil
}

// expect consumes c as an Equal token or fails.
func (p *parser) expect(c byte) error {
	start := p.s.offset()

	found, ok := p.s.advance()
	if !ok || found != c {
		return newParseError(p.s.src, start, quoteByte(c))
	}

	p.tokens = append(p.tokens, Token{
		Kind:  KindEqual,
		Value: string(c),
		Raw:   string(c),
		Start: start,
		End:   p.s.offset(),
	})

	return nil
}

func (p *parser) comment() Token {
	start := p.s.offset()

	for {
		c, ok := p.s.peek()
		if !ok || c == newLine {
			break
		}

		p.s.advance()
	}

	raw := p.s.slice(start)

	return Token{Kind: KindComment, Value: raw, Raw: raw, Start: start, End: p.s.offset()}
}

func (p *parser) name() Token {
	start := p.s.offset()

	for {
		c, ok := p.s.peek()
		if !ok || !isNameChar(c, p.s.offset() == start) {
			break
		}

		p.s.advance()
	}

	raw := p.s.slice(start)

	return Token{Kind: KindName, Value: raw, Raw: raw, Start: start, End: p.s.offset()}
}

func (p *parser) spaceAhead() bool {
	c, ok := p.s.peek()

	return ok && isSpace(c)
}

func (p *parser) space() Token {
	start := p.s.offset()

	for p.spaceAhead() {
		p.s.advance()
	}

	raw := p.s.slice(start)

	return Token{Kind: KindSpace, Value: raw, Raw: raw, Start: start, End: p.s.offset()}
}

// value reads the value following '='.
func (p *parser) value() (Token, error) {
	start := p.s.offset()

	head, ok := p.s.peek()
	switch {
	case !ok, head == newLine, head == commentChar:
		return Token{Kind: KindValue, Value: "", Start: start, End: start}, nil

	case head == doubleQuote, head == singleQuote:
		return p.quoted(head)

	default:
		return p.unquoted(), nil
	}
}

// unquoted reads up to a comment, newline or the end of input. No escape
// processing takes place.
func (p *parser) unquoted() Token {
	start := p.s.offset()

	for {
		c, ok := p.s.peek()
		if !ok || c == newLine || c == commentChar {
			break
		}

		p.s.advance()
	}

	raw := p.s.slice(start)

	return Token{
		Kind:  KindValue,
		Value: p.cast(raw),
		Raw:   raw,
		Start: start,
		End:   p.s.offset(),
	}
}

// quoted reads a value delimited by quote, decoding escapes. Double-quoted
// values containing "${" are interpolated against the variables assigned so
// far.
func (p *parser) quoted(quote byte) (Token, error) {
	start := p.s.offset()
	p.s.advance() // opening quote

	var (
		sb          strings.Builder
		interpolate bool
	)

	for {
		c, ok := p.s.advance()
		if !ok {
			return Token{}, p.unterminated(start, quote)
		}

		switch {
		case c == quote:
			value := sb.String()
			if interpolate {
				value = Interpolate(value, p.vars, interpolateBegin, interpolateEnd)
			}

			return Token{
				Kind:  KindValue,
				Value: value,
				Raw:   p.s.slice(start),
				Start: start,
				End:   p.s.offset(),
			}, nil

		case c == escapeChar:
			e, ok := p.s.advance()
			if !ok {
				return Token{}, p.unterminated(start, quote)
			}

			sb.WriteByte(unescape(e))

		case c == '$' && quote == doubleQuote:
			if n, ok := p.s.peek(); ok && n == '{' {
				interpolate = true
			}

			sb.WriteByte(c)

		default:
			sb.WriteByte(c)
		}
	}
}

func (p *parser) unterminated(start int, quote byte) *ParseError {
	pe := newParseError(p.s.src, start, "closing "+quoteByte(quote))
	pe.Reason = "unterminated quoted value"

	return pe
}

// unescape maps the character following a backslash to the character it
// denotes. Unrecognized escapes yield the character itself.
func unescape(c byte) byte {
	switch c {
	case 't':
		return '\t'
	case 'n':
		return '\n'
	case 'r':
		return '\r'
	case 'v':
		return '\v'
	case 'f':
		return '\f'
	default:
		return c
	}
}

// ValidName reports whether name can be parsed as a variable name.
func ValidName(name string) bool {
	if name == "" {
		return false
	}

	for i := range len(name) {
		if !isNameChar(name[i], i == 0) {
			return false
		}
	}

	return true
}

func isNameStart(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_'
}

func isNameChar(c byte, first bool) bool {
	return isNameStart(c) || (!first && isDigit(c))
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\r', '\n', '\v', '\f':
		return true
	default:
		return false
	}
}

func quoteByte(c byte) string { return `"` + string(c) + `"` }
