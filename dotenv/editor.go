package dotenv

import (
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/ardnew/mung"
	"github.com/zeebo/xxh3"

	"github.com/ardnew/denv/log"
)

// Editor modifies a private copy of a token sequence.
//
// Edits are index-based replacements and insertions; the source is never
// re-parsed, so tokens not targeted by an edit render exactly as before.
type Editor struct {
	tokens []Token
	logger log.Logger
}

// NewEditor returns an editor operating on a copy of tokens.
func NewEditor(tokens []Token) *Editor {
	return &Editor{tokens: slices.Clone(tokens)}
}

// padding is the blank space kept around replaced unquoted values. The
// carriage return of a CRLF line is scanned as part of an unquoted value, so
// it is kept as trailing padding too.
const (
	padding      = " \t"
	trailPadding = padding + "\r"
)

type upsertConfig struct {
	first bool
	quote bool
}

// UpsertOption configures a single [Editor.Upsert].
type UpsertOption func(*upsertConfig)

// FirstOccurrence targets the first assignment of the key instead of the last.
func FirstOccurrence() UpsertOption {
	return func(c *upsertConfig) { c.first = true }
}

// Quote writes the value in double quotes.
func Quote() UpsertOption {
	return func(c *upsertConfig) { c.quote = true }
}

// Upsert sets the value assigned to key.
//
// By default the last assignment of key is changed, matching the variable
// that wins when the file is parsed. If key is not assigned anywhere, a new
// assignment is appended on its own line.
func (ed *Editor) Upsert(key, value string, opts ...UpsertOption) *Editor {
	var cfg upsertConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	tok := newValue(value, cfg.quote)

	at, ok := ed.find(key, cfg.first)
	if !ok {
		ed.append(key, tok)

		return ed
	}

	equal, val := ed.assignment(at)

	switch {
	case val >= 0:
		ed.replace(val, tok)

		ed.logger.Trace("replace value",
			slog.String("key", key),
			slog.Int("index", val))

	case equal >= 0:
		ed.tokens = slices.Insert(ed.tokens, equal+1, tok)

		ed.logger.Trace("insert value",
			slog.String("key", key),
			slog.Int("index", equal+1))

	default:
		ed.tokens = slices.Insert(ed.tokens, at+1, newEqual(), tok)

		ed.logger.Trace("insert assignment",
			slog.String("key", key),
			slog.Int("index", at+1))
	}

	return ed
}

// replace swaps the Value token at index i for tok. Blanks around an
// unquoted value are kept as Space tokens so that aligned columns and
// trailing comments stay in place. A quoted value must directly follow the
// '=', so no blank is kept in front of one.
func (ed *Editor) replace(i int, tok Token) {
	quoted := tok.Quoted() != 0

	if quoted && i > 1 &&
		ed.tokens[i-1].Kind == KindSpace && ed.tokens[i-2].Kind == KindEqual {
		ed.tokens = slices.Delete(ed.tokens, i-1, i)
		i--
	}

	old := ed.tokens[i]
	if old.Quoted() != 0 {
		ed.tokens[i] = tok

		return
	}

	body := strings.TrimLeft(old.Raw, padding)
	lead := old.Raw[:len(old.Raw)-len(body)]
	trail := body[len(strings.TrimRight(body, trailPadding)):]

	repl := make([]Token, 0, 3)
	if lead != "" && !quoted {
		repl = append(repl, newSpace(lead))
	}

	repl = append(repl, tok)
	if trail != "" {
		repl = append(repl, newSpace(trail))
	}

	ed.tokens = slices.Replace(ed.tokens, i, i+1, repl...)
}

// Prepend inserts items at the front of the delimited list assigned to key,
// like PATH. Items already in the list are moved to the front rather than
// repeated. An empty delim uses the OS path list separator.
func (ed *Editor) Prepend(key, delim string, items ...string) *Editor {
	if delim == "" {
		delim = string(os.PathListSeparator)
	}

	var subject []string

	if at, ok := ed.find(key, false); ok {
		if _, val := ed.assignment(at); val >= 0 {
			if current := FormatScalar(ed.tokens[val].Value); current != "" {
				subject = append(subject, current)
			}
		}
	}

	value := mung.Make(
		mung.WithSubjectItems(subject...),
		mung.WithDelim(delim),
		mung.WithPrefixItems(items...),
	).String()

	return ed.Upsert(key, value)
}

// find returns the index of the first or last Name token equal to key.
func (ed *Editor) find(key string, first bool) (int, bool) {
	at := -1

	for i, t := range ed.tokens {
		if t.Kind != KindName || t.Value != key {
			continue
		}

		at = i
		if first {
			break
		}
	}

	return at, at >= 0
}

// assignment returns the indices of the Equal and Value tokens belonging to
// the Name at index at, or -1 for each not present before the next Name.
func (ed *Editor) assignment(at int) (equal, value int) {
	equal, value = -1, -1

	for i := at + 1; i < len(ed.tokens); i++ {
		switch ed.tokens[i].Kind {
		case KindName:
			return equal, value
		case KindEqual:
			if equal < 0 {
				equal = i
			}
		case KindValue:
			return equal, i
		}
	}

	return equal, value
}

// append adds a new assignment line at the end of the sequence, keeping a
// trailing newline if the text had one. New lines end the way the last
// line of the text does.
func (ed *Editor) append(key string, value Token) {
	assign := []Token{newName(key), newEqual(), value}
	eol := ed.lineEnding()

	switch n := len(ed.tokens); {
	case n == 0:
		ed.tokens = append(ed.tokens, assign...)

	case strings.HasSuffix(ed.tokens[n-1].String(), "\n"):
		ed.tokens = append(ed.tokens, assign...)
		ed.tokens = append(ed.tokens, newSpace(eol))

	default:
		ed.tokens = append(ed.tokens, newSpace(eol))
		ed.tokens = append(ed.tokens, assign...)
	}

	ed.logger.Trace("append assignment", slog.String("key", key))
}

// lineEnding returns "\r\n" if the last line break in the text is CRLF,
// and "\n" otherwise.
func (ed *Editor) lineEnding() string {
	text := ed.Render()

	if at := strings.LastIndexByte(text, '\n'); at > 0 && text[at-1] == '\r' {
		return "\r\n"
	}

	return "\n"
}

// Tokens returns a copy of the edited token sequence.
func (ed *Editor) Tokens() []Token { return slices.Clone(ed.tokens) }

// Render returns the text of the edited token sequence.
func (ed *Editor) Render() string { return render(ed.tokens) }

// String implements fmt.Stringer.
func (ed *Editor) String() string { return ed.Render() }

// WriteTo writes the rendered text to w.
func (ed *Editor) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, ed.Render())

	return int64(n), err
}

// Digest returns a hash of the rendered text, comparable with [Env.Digest].
func (ed *Editor) Digest() uint64 { return xxh3.HashString(ed.Render()) }
