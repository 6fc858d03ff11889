package dotenv

import (
	"context"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/zeebo/xxh3"

	"github.com/ardnew/denv/log"
)

// mergeBanner separates merged content from what precedes it. The verb is
// replaced with the label of the merged source.
const mergeBanner = "\n" +
	"# ----------------------------------------\n" +
	"# merged content from: %s\n" +
	"# ----------------------------------------\n" +
	"\n"

// mergeLabelString labels content merged from a string.
const mergeLabelString = "raw string"

// Env is the parsed form of an environment file: the token sequence that
// reproduces the source text and the typed variables derived from it.
//
// The token sequence is authoritative. The variable map is rebuilt from it on
// every parse and merge, and is never affected by an [Editor].
type Env struct {
	content string
	tokens  []Token
	vars    map[string]any
	order   []string

	castBool    bool
	castNumeric bool
	logger      log.Logger
}

// Option configures an [Env].
type Option func(*Env)

// WithCastBool enables conversion of unquoted true and false to bool.
func WithCastBool(cast bool) Option {
	return func(env *Env) {
		env.castBool = cast
	}
}

// WithCastNumeric enables conversion of unquoted numbers to int64 or float64.
func WithCastNumeric(cast bool) Option {
	return func(env *Env) {
		env.castNumeric = cast
	}
}

// WithLogger sets the structured logger for trace-level debugging.
// If not provided, the logger is zero-valued and all logging is a no-op.
func WithLogger(logger log.Logger) Option {
	return func(env *Env) {
		env.logger = logger
	}
}

func newEnv(opts ...Option) *Env {
	env := &Env{
		castBool:    true,
		castNumeric: true,
		vars:        make(map[string]any),
	}

	for _, opt := range opts {
		opt(env)
	}

	return env
}

// load parses content and, only if that succeeds, replaces the state of env.
func (e *Env) load(ctx context.Context, content string) error {
	e.logger.TraceContext(ctx, "parse begin",
		slog.Int("source_bytes", len(content)),
		slog.Bool("cast_bool", e.castBool),
		slog.Bool("cast_numeric", e.castNumeric))

	res, err := newParser(content, e.castBool, e.castNumeric, e.logger).parse(ctx)
	if err != nil {
		e.logger.DebugContext(ctx, "parse failed", slog.Any("error", err))

		return err
	}

	e.content = content
	e.tokens = res.tokens
	e.vars = res.vars
	e.order = res.order

	return nil
}

// Get returns the value of the named variable.
func (e *Env) Get(name string) (any, bool) {
	v, ok := e.vars[name]

	return v, ok
}

// GetOr returns the value of the named variable, or def if it is not defined.
func (e *Env) GetOr(name string, def any) any {
	if v, ok := e.vars[name]; ok {
		return v
	}

	return def
}

// All returns a copy of every variable.
func (e *Env) All() map[string]any { return maps.Clone(e.vars) }

// Keys returns the variable names in order of first definition.
func (e *Env) Keys() []string { return slices.Clone(e.order) }

// Len returns the number of distinct variables.
func (e *Env) Len() int { return len(e.vars) }

// Vars returns an iterator over the variables in order of first definition.
// Each name yields its final value.
func (e *Env) Vars() iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		for _, name := range e.order {
			if !yield(name, e.vars[name]) {
				return
			}
		}
	}
}

// Tokens returns a copy of the token sequence.
func (e *Env) Tokens() []Token { return slices.Clone(e.tokens) }

// Content returns the source text, merged content included.
func (e *Env) Content() string { return e.content }

// String renders the token sequence.
func (e *Env) String() string { return render(e.tokens) }

// Digest returns a hash of the rendered token sequence.
func (e *Env) Digest() uint64 { return xxh3.HashString(e.String()) }

// Edit returns an editor operating on a snapshot of the token sequence.
func (e *Env) Edit() *Editor {
	return &Editor{tokens: slices.Clone(e.tokens), logger: e.logger}
}

// MergeString appends text to the content under a separator banner and
// parses the combined content from scratch. Later definitions win.
//
// If the combined content fails to parse, env is left unchanged.
func (e *Env) MergeString(ctx context.Context, text string) error {
	return e.merge(ctx, text, mergeLabelString)
}

// MergeFile merges the content of the file at path. See [Env.MergeString].
func (e *Env) MergeFile(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return ErrReadInput.Wrap(err).
			With(slog.String("path", path))
	}

	return e.merge(ctx, string(data), path)
}

// MergeReader merges the content read from r, labeled in the separator
// banner with label. See [Env.MergeString].
func (e *Env) MergeReader(ctx context.Context, r io.Reader, label string) error {
	text, err := readAll(r)
	if err != nil {
		return err
	}

	return e.merge(ctx, text, label)
}

func (e *Env) merge(ctx context.Context, text, label string) error {
	var sb strings.Builder

	sb.Grow(len(e.content) + len(mergeBanner) + len(label) + len(text))
	sb.WriteString(e.content)
	fmt.Fprintf(&sb, mergeBanner, label)
	sb.WriteString(text)

	e.logger.TraceContext(ctx, "merge",
		slog.String("label", label),
		slog.Int("merged_bytes", len(text)))

	return e.load(ctx, sb.String())
}

// render concatenates the rendering of every token.
func render(tokens []Token) string {
	var sb strings.Builder

	for _, t := range tokens {
		sb.WriteString(t.String())
	}

	return sb.String()
}
