package dotenv

import (
	"strconv"
	"strings"
)

// Kind identifies the lexical class of a [Token].
type Kind int

const (
	// KindComment is a '#' through the end of its line, newline excluded.
	KindComment Kind = iota

	// KindName is a variable identifier.
	KindName

	// KindEqual is the '=' separating a name from its value.
	KindEqual

	// KindValue is the value of an assignment, quotes included.
	KindValue

	// KindSpace is a run of whitespace, newlines included.
	KindSpace
)

// String returns the name of the token kind.
func (k Kind) String() string {
	switch k {
	case KindComment:
		return "Comment"
	case KindName:
		return "Name"
	case KindEqual:
		return "Equal"
	case KindValue:
		return "Value"
	case KindSpace:
		return "Space"
	default:
		return "Unknown"
	}
}

// Token is a lexical unit of an environment file.
//
// Start and End delimit the half-open byte range [Start, End) the token was
// scanned from. Tokens synthesized by an [Editor] have both set to -1.
type Token struct {
	Kind  Kind
	Value any    // nil, bool, int64, float64 or string
	Raw   string // literal source text
	Start int
	End   int
}

// String renders the token as it appears in the file.
func (t Token) String() string {
	switch t.Kind {
	case KindComment, KindName, KindEqual, KindValue, KindSpace:
		return t.Raw
	default:
		return ""
	}
}

// Synthesized reports whether the token was created by an edit rather than
// scanned from source.
func (t Token) Synthesized() bool { return t.Start < 0 }

// Quoted reports whether a value token is wrapped in matching quotes.
// It returns the quote character, or 0 if the value is unquoted.
func (t Token) Quoted() byte {
	if t.Kind != KindValue {
		return 0
	}

	if n := len(t.Raw); n >= 2 {
		if q := t.Raw[0]; (q == '"' || q == '\'') && t.Raw[n-1] == q {
			return q
		}
	}

	return 0
}

func newSpace(raw string) Token {
	return Token{Kind: KindSpace, Value: raw, Raw: raw, Start: -1, End: -1}
}

func newName(name string) Token {
	return Token{Kind: KindName, Value: name, Raw: name, Start: -1, End: -1}
}

func newEqual() Token {
	return Token{Kind: KindEqual, Value: "=", Raw: "=", Start: -1, End: -1}
}

// newValue builds a value token holding value. The printable form is derived
// here, once: quoted values have their control characters, backslashes and
// quote escaped; unquoted values that would not read back unchanged are
// quoted automatically.
func newValue(value string, quote bool) Token {
	if !quote && !safeUnquoted(value) {
		quote = true
	}

	raw := value
	if quote {
		raw = `"` + escape(value, '"') + `"`
	}

	return Token{Kind: KindValue, Value: value, Raw: raw, Start: -1, End: -1}
}

// escape backslash-escapes the characters a quoted value cannot contain
// literally.
func escape(s string, quote byte) string {
	var sb strings.Builder

	sb.Grow(len(s))

	for i := range len(s) {
		switch c := s[i]; c {
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		case '\v':
			sb.WriteString(`\v`)
		case '\f':
			sb.WriteString(`\f`)
		case '\\':
			sb.WriteString(`\\`)
		case quote:
			sb.WriteByte('\\')
			sb.WriteByte(c)
		case '$':
			// keep placeholders literal
			if quote == '"' && i+1 < len(s) && s[i+1] == '{' {
				sb.WriteByte('\\')
			}

			sb.WriteByte(c)
		default:
			sb.WriteByte(c)
		}
	}

	return sb.String()
}

// safeUnquoted reports whether s reads back as itself when written unquoted.
func safeUnquoted(s string) bool {
	if s == "" {
		return true
	}

	if s[0] == '"' || s[0] == '\'' || trimValue(s) != s {
		return false
	}

	return !strings.ContainsAny(s, "#\n\r\v\f")
}

// FormatScalar formats a typed value the way it is substituted into
// interpolated strings and printed by the command line tool.
func FormatScalar(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64)
	case int:
		return strconv.Itoa(val)
	default:
		return ""
	}
}
