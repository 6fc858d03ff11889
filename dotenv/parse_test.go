package dotenv

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func mustParse(t *testing.T, input string, opts ...Option) *Env {
	t.Helper()

	env, err := ParseString(context.Background(), input, opts...)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	return env
}

func TestParseString_Values(t *testing.T) {
	tests := []struct {
		name  string
		input string
		key   string
		want  any
	}{
		{name: "unquoted", input: "FOO=bar", key: "FOO", want: "bar"},
		{name: "spaces around equal", input: "FOO = bar", key: "FOO", want: "bar"},
		{name: "tab before equal", input: "FOO\t=bar\n", key: "FOO", want: "bar"},
		{name: "trimmed unquoted", input: "FOO=  bar baz  \n", key: "FOO", want: "bar baz"},
		{name: "empty at eof", input: "FOO=", key: "FOO", want: ""},
		{name: "empty before newline", input: "FOO=\nBAR=1", key: "FOO", want: ""},
		{name: "empty before comment", input: "FOO=# nothing", key: "FOO", want: ""},
		{name: "trailing comment", input: "FOO=bar#note", key: "FOO", want: "bar"},
		{name: "trailing comment with space", input: "FOO=bar # note", key: "FOO", want: "bar"},
		{name: "double quoted", input: `FOO="bar baz"`, key: "FOO", want: "bar baz"},
		{name: "single quoted", input: `FOO='bar baz'`, key: "FOO", want: "bar baz"},
		{name: "quoted hash", input: `FOO="a#b"`, key: "FOO", want: "a#b"},
		{name: "quoted empty", input: `FOO=""`, key: "FOO", want: ""},
		{name: "quoted keeps blanks", input: `FOO="  x  "`, key: "FOO", want: "  x  "},
		{name: "underscore name", input: "_F_1=x", key: "_F_1", want: "x"},
		{name: "quoted newline literal", input: "FOO=\"a\nb\"", key: "FOO", want: "a\nb"},
		{name: "crlf", input: "FOO=bar\r\nBAZ=1\r\n", key: "FOO", want: "bar"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := mustParse(t, tt.input)

			got, ok := env.Get(tt.key)
			if !ok {
				t.Fatalf("%s not defined", tt.key)
			}

			if got != tt.want {
				t.Errorf("%s = %#v, want %#v", tt.key, got, tt.want)
			}
		})
	}
}

func TestParseString_Cast(t *testing.T) {
	tests := []struct {
		name  string
		input string
		opts  []Option
		want  any
	}{
		{name: "true", input: "FOO=true", want: true},
		{name: "false", input: "FOO=false", want: false},
		{name: "true padded", input: "FOO= true ", want: true},
		{name: "capitalized not bool", input: "FOO=True", want: "True"},
		{name: "integer", input: "FOO=12", want: int64(12)},
		{name: "negative integer", input: "FOO=-3", want: int64(-3)},
		{name: "signed integer", input: "FOO=+7", want: int64(7)},
		{name: "float", input: "FOO=12.5", want: 12.5},
		{name: "leading dot", input: "FOO=.5", want: 0.5},
		{name: "trailing dot", input: "FOO=5.", want: 5.0},
		{name: "exponent", input: "FOO=1e3", want: 1000.0},
		{name: "signed exponent", input: "FOO=25E-1", want: 2.5},
		{name: "overflow becomes float", input: "FOO=99999999999999999999", want: 1e20},
		{name: "float overflow stays text", input: "FOO= 1e999 ", want: "1e999"},
		{name: "float underflow is zero", input: "FOO=1e-999", want: 0.0},
		{name: "two dots", input: "FOO=1.2.3", want: "1.2.3"},
		{name: "hex not numeric", input: "FOO=0x10", want: "0x10"},
		{name: "bare sign", input: "FOO=-", want: "-"},
		{name: "bare exponent", input: "FOO=1e", want: "1e"},
		{name: "version", input: "FOO=1.0-beta", want: "1.0-beta"},
		{name: "double quoted true", input: `FOO="true"`, want: "true"},
		{name: "single quoted true", input: `FOO='true'`, want: "true"},
		{name: "quoted number", input: `FOO="12"`, want: "12"},
		{
			name:  "bool cast disabled",
			input: "FOO=true",
			opts:  []Option{WithCastBool(false)},
			want:  "true",
		},
		{
			name:  "numeric cast disabled",
			input: "FOO=12",
			opts:  []Option{WithCastNumeric(false)},
			want:  "12",
		},
		{
			name:  "numeric cast disabled keeps bool",
			input: "FOO=false",
			opts:  []Option{WithCastNumeric(false)},
			want:  false,
		},
		{
			name:  "cast disabled still trims",
			input: "FOO= 12 ",
			opts:  []Option{WithCastBool(false), WithCastNumeric(false)},
			want:  "12",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := mustParse(t, tt.input, tt.opts...)

			got, _ := env.Get("FOO")
			if got != tt.want {
				t.Errorf("FOO = %#v (%T), want %#v (%T)", got, got, tt.want, tt.want)
			}
		})
	}
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		input string
		want  any
		ok    bool
	}{
		{"0", int64(0), true},
		{"-0", int64(0), true},
		{"9223372036854775807", int64(math.MaxInt64), true},
		{"9223372036854775808", 9223372036854775808.0, true},
		{"1.5e2", 150.0, true},
		{"1e999", nil, false},
		{"-1e999", nil, false},
		{"", nil, false},
		{".", nil, false},
		{"+", nil, false},
		{"1 2", nil, false},
		{"e5", nil, false},
		{"NaN", nil, false},
		{"Inf", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := parseNumber(tt.input)
			if ok != tt.ok {
				t.Fatalf("parseNumber(%q) ok = %v, want %v", tt.input, ok, tt.ok)
			}

			if got != tt.want {
				t.Errorf("parseNumber(%q) = %#v, want %#v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseString_Escapes(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "tab", input: `FOO="a\tb"`, want: "a\tb"},
		{name: "newline", input: `FOO="a\nb"`, want: "a\nb"},
		{name: "carriage return", input: `FOO="a\rb"`, want: "a\rb"},
		{name: "vertical tab", input: `FOO="a\vb"`, want: "a\vb"},
		{name: "form feed", input: `FOO="a\fb"`, want: "a\fb"},
		{name: "backslash", input: `FOO="a\\b"`, want: `a\b`},
		{name: "double quote", input: `FOO="a\"b"`, want: `a"b`},
		{name: "single quote in single", input: `FOO='a\'b'`, want: "a'b"},
		{name: "escapes in single quotes", input: `FOO='a\tb'`, want: "a\tb"},
		{name: "other quote unescaped", input: `FOO="it's"`, want: "it's"},
		{name: "unknown escape drops backslash", input: `FOO="a\qb"`, want: "aqb"},
		{name: "unquoted keeps backslash", input: `FOO=a\tb`, want: `a\tb`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := mustParse(t, tt.input)

			got, _ := env.Get("FOO")
			if got != tt.want {
				t.Errorf("FOO = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseString_Interpolation(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "known variable",
			input: "NAME=env\nFOO=\"${NAME}.com\"",
			want:  "env.com",
		},
		{
			name:  "unknown variable",
			input: `FOO="${UNKNOWN}.com"`,
			want:  "${UNKNOWN}.com",
		},
		{
			name:  "later definition not visible",
			input: "FOO=\"${NAME}\"\nNAME=env",
			want:  "${NAME}",
		},
		{
			name:  "single quotes are literal",
			input: "NAME=env\nFOO='${NAME}'",
			want:  "${NAME}",
		},
		{
			name:  "unquoted is literal",
			input: "NAME=env\nFOO=${NAME}",
			want:  "${NAME}",
		},
		{
			name:  "integer",
			input: "PORT=8080\nFOO=\"http://localhost:${PORT}/\"",
			want:  "http://localhost:8080/",
		},
		{
			name:  "bool",
			input: "DEBUG=true\nFOO=\"debug=${DEBUG}\"",
			want:  "debug=true",
		},
		{
			name:  "float",
			input: "RATIO=0.25\nFOO=\"${RATIO}\"",
			want:  "0.25",
		},
		{
			name:  "multiple",
			input: "A=x\nB=y\nFOO=\"${A}-${B}-${A}\"",
			want:  "x-y-x",
		},
		{
			name:  "last definition so far",
			input: "A=1\nA=2\nFOO=\"${A}\"",
			want:  "2",
		},
		{
			name:  "escaped dollar",
			input: "A=x\nFOO=\"\\${A}\"",
			want:  "${A}",
		},
		{
			name:  "dollar without brace",
			input: "A=x\nFOO=\"$A\"",
			want:  "$A",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := mustParse(t, tt.input)

			got, _ := env.Get("FOO")
			if got != tt.want {
				t.Errorf("FOO = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseString_LastWriteWins(t *testing.T) {
	env := mustParse(t, "NAME=a\nOTHER=x\nNAME=b\n")

	if got, _ := env.Get("NAME"); got != "b" {
		t.Errorf("NAME = %v, want b", got)
	}

	keys := env.Keys()
	if len(keys) != 2 || keys[0] != "NAME" || keys[1] != "OTHER" {
		t.Errorf("Keys() = %v, want [NAME OTHER]", keys)
	}
}

func TestParseString_Tokens(t *testing.T) {
	input := "# c\nFOO = bar#x\n"
	env := mustParse(t, input)

	want := []struct {
		kind  Kind
		raw   string
		start int
		end   int
	}{
		{KindComment, "# c", 0, 3},
		{KindSpace, "\n", 3, 4},
		{KindName, "FOO", 4, 7},
		{KindSpace, " ", 7, 8},
		{KindEqual, "=", 8, 9},
		{KindValue, " bar", 9, 13},
		{KindComment, "#x", 13, 15},
		{KindSpace, "\n", 15, 16},
	}

	tokens := env.Tokens()
	if len(tokens) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(tokens), len(want), tokens)
	}

	for i, w := range want {
		tok := tokens[i]
		if tok.Kind != w.kind || tok.Raw != w.raw || tok.Start != w.start || tok.End != w.end {
			t.Errorf("token %d = {%v %q [%d,%d)}, want {%v %q [%d,%d)}",
				i, tok.Kind, tok.Raw, tok.Start, tok.End,
				w.kind, w.raw, w.start, w.end)
		}
	}

	if tokens[5].Value != "bar" {
		t.Errorf("value token Value = %#v, want \"bar\"", tokens[5].Value)
	}
}

func TestParseString_QuotedValueToken(t *testing.T) {
	env := mustParse(t, `FOO="a\tb"`)
	tok := env.Tokens()[2]

	if tok.Kind != KindValue {
		t.Fatalf("token kind = %v, want Value", tok.Kind)
	}

	if tok.Raw != `"a\tb"` {
		t.Errorf("Raw = %q, want %q", tok.Raw, `"a\tb"`)
	}

	if tok.Quoted() != '"' {
		t.Errorf("Quoted() = %q, want '\"'", tok.Quoted())
	}

	if tok.Synthesized() {
		t.Error("parsed token reported as synthesized")
	}
}

func TestParseString_Errors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		offset   int
		line     int
		column   int
		char     rune
		eof      bool
		expected string
	}{
		{
			name:     "missing equal",
			input:    "FOO bar",
			offset:   4,
			line:     1,
			column:   5,
			char:     'b',
			expected: `"="`,
		},
		{
			name:     "name at eof",
			input:    "FOO",
			offset:   3,
			line:     1,
			column:   4,
			eof:      true,
			expected: `"="`,
		},
		{
			name:   "leading equal",
			input:  "=value",
			offset: 0,
			line:   1,
			column: 1,
			char:   '=',
		},
		{
			name:   "digit first",
			input:  "A=1\n1FOO=x",
			offset: 4,
			line:   2,
			column: 1,
			char:   '1',
		},
		{
			name:     "garbage after quoted value",
			input:    "FOO=\"a\"b",
			offset:   8,
			line:     1,
			column:   9,
			eof:      true,
			expected: `"="`,
		},
		{
			name:     "unterminated double quote",
			input:    "FOO=\"abc",
			offset:   4,
			line:     1,
			column:   5,
			char:     '"',
			expected: `closing """`,
		},
		{
			name:     "unterminated after escape",
			input:    "FOO='abc\\",
			offset:   4,
			line:     1,
			column:   5,
			char:     '\'',
			expected: `closing "'"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env, err := ParseString(context.Background(), tt.input)
			if err == nil {
				t.Fatalf("expected error, got env %v", env.All())
			}

			if env != nil {
				t.Error("failed parse returned a non-nil env")
			}

			if !errors.Is(err, ErrParse) {
				t.Errorf("errors.Is(err, ErrParse) = false for %v", err)
			}

			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("error %T is not a *ParseError", err)
			}

			if pe.Offset != tt.offset || pe.Line != tt.line || pe.Column != tt.column {
				t.Errorf("position = offset %d line %d column %d, want %d %d %d",
					pe.Offset, pe.Line, pe.Column, tt.offset, tt.line, tt.column)
			}

			if pe.EOF != tt.eof {
				t.Errorf("EOF = %v, want %v", pe.EOF, tt.eof)
			}

			if !tt.eof && pe.Char != tt.char {
				t.Errorf("Char = %q, want %q", pe.Char, tt.char)
			}

			if pe.Expected != tt.expected {
				t.Errorf("Expected = %q, want %q", pe.Expected, tt.expected)
			}
		})
	}
}

func TestParseError_Message(t *testing.T) {
	_, err := ParseString(context.Background(), "A=1\nFOO bar\n")
	if err == nil {
		t.Fatal("expected error")
	}

	msg := err.Error()

	for _, want := range []string{
		"line 2, column 5",
		"unexpected character 'b'",
		`while expecting "="`,
		"2 | FOO bar",
		"^",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("message %q does not contain %q", msg, want)
		}
	}

	_, err = ParseString(context.Background(), `A="open`)
	if err == nil || !strings.Contains(err.Error(), "unterminated quoted value") {
		t.Errorf("unterminated error = %v", err)
	}
}

func TestParseString_RoundTrip(t *testing.T) {
	inputs := []string{
		"",
		"\n",
		"# only a comment",
		"FOO=bar",
		"FOO=bar\n",
		"# c\nFOO=1\n\nBAR=2\n",
		"FOO = bar # trailing\n",
		"FOO=\nBAR=\n",
		"FOO=\"a\\tb\\n\\\"c\\\"\"\n",
		"FOO='it\\'s'\n",
		"FOO=\"${BAR}\"\n",
		"\t\t  \r\n\v\fFOO=1\r\n",
		"A=1\nA=2\nA=3",
		"FOO=\"multi\nline\"\n",
		"FOO=\"x\" # quoted then comment\n",
		"FOO=#empty with comment\n",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			env := mustParse(t, input)

			if got := env.String(); got != input {
				t.Errorf("render = %q, want %q", got, input)
			}

			if got := env.Edit().Render(); got != input {
				t.Errorf("editor render = %q, want %q", got, input)
			}

			if again := env.String(); again != input {
				t.Errorf("second render = %q, want %q", again, input)
			}

			assertContiguous(t, input, env.Tokens())
		})
	}
}

// assertContiguous checks that token spans cover src exactly, in order.
func assertContiguous(t *testing.T, src string, tokens []Token) {
	t.Helper()

	pos := 0

	for i, tok := range tokens {
		if tok.Start != pos {
			t.Fatalf("token %d starts at %d, want %d", i, tok.Start, pos)
		}

		if tok.End < tok.Start {
			t.Fatalf("token %d has negative span [%d,%d)", i, tok.Start, tok.End)
		}

		if src[tok.Start:tok.End] != tok.Raw {
			t.Fatalf("token %d raw %q does not match source %q",
				i, tok.Raw, src[tok.Start:tok.End])
		}

		pos = tok.End
	}

	if pos != len(src) {
		t.Fatalf("tokens end at %d, source has %d bytes", pos, len(src))
	}
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")

	err := os.WriteFile(path, []byte("HOST=localhost\nPORT=5432\n"), 0o600)
	if err != nil {
		t.Fatalf("write: %v", err)
	}

	env, err := ParseFile(context.Background(), path)
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}

	if got := env.GetOr("PORT", nil); got != int64(5432) {
		t.Errorf("PORT = %#v, want int64(5432)", got)
	}

	_, err = ParseFile(context.Background(), filepath.Join(dir, "missing"))
	if !errors.Is(err, ErrReadInput) {
		t.Errorf("missing file error = %v, want ErrReadInput", err)
	}

	if errors.Is(err, ErrParse) {
		t.Error("read error should not match ErrParse")
	}
}

func TestParseReader(t *testing.T) {
	env, err := ParseReader(context.Background(), strings.NewReader("A=1\nB=two\n"))
	if err != nil {
		t.Fatalf("ParseReader: %v", err)
	}

	if env.Len() != 2 {
		t.Errorf("Len() = %d, want 2", env.Len())
	}

	if env.Content() != "A=1\nB=two\n" {
		t.Errorf("Content() = %q", env.Content())
	}
}

func TestValidName(t *testing.T) {
	tests := map[string]bool{
		"A":        true,
		"_":        true,
		"db_host2": true,
		"":         false,
		"1A":       false,
		"BAD KEY":  false,
		"KEY-NAME": false,
		"A=B":      false,
	}

	for name, want := range tests {
		if got := ValidName(name); got != want {
			t.Errorf("ValidName(%q) = %v, want %v", name, got, want)
		}
	}
}
