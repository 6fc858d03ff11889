package dotenv

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/goccy/go-yaml"
)

// Format writes the token sequence to the writer, reproducing the source.
func (e *Env) Format(_ context.Context, w io.Writer) error {
	_, err := io.WriteString(w, e.String())

	return err
}

// FormatJSON writes the variables as a JSON object to the writer.
func (e *Env) FormatJSON(_ context.Context, w io.Writer, indent int) error {
	jsonData, err := e.MarshalJSON()
	if err != nil {
		return err
	}

	if indent > 0 {
		var buf bytes.Buffer

		err = json.Indent(&buf, jsonData, "", strings.Repeat(" ", indent))
		if err != nil {
			return err
		}

		jsonData = buf.Bytes()
	}

	_, err = fmt.Fprintln(w, string(jsonData))

	return err
}

// FormatYAML writes the variables as a YAML mapping to the writer.
func (e *Env) FormatYAML(ctx context.Context, w io.Writer, indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	yamlData, err := yaml.MarshalContext(ctx, e.ToMapSlice(), opts...)
	if err != nil {
		return err
	}

	_, err = fmt.Fprint(w, string(yamlData))

	return err
}

// FormatShell writes one POSIX shell export statement per variable.
func (e *Env) FormatShell(_ context.Context, w io.Writer) error {
	for name, value := range e.Vars() {
		_, err := fmt.Fprintf(w, "export %s=%s\n", name, shellQuote(FormatScalar(value)))
		if err != nil {
			return err
		}
	}

	return nil
}

// shellQuote wraps s in single quotes, closing and reopening the quotes
// around each embedded single quote.
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// FormatTokens writes one line per token: kind, source span and raw text.
// Colors are used only if w is a terminal that supports them.
func (e *Env) FormatTokens(_ context.Context, w io.Writer) error {
	return writeTokens(w, e.tokens)
}

func writeTokens(w io.Writer, tokens []Token) error {
	r := lipgloss.NewRenderer(w)

	kindStyle := map[Kind]lipgloss.Style{
		KindComment: r.NewStyle().Foreground(lipgloss.Color("8")),
		KindName:    r.NewStyle().Foreground(lipgloss.Color("6")).Bold(true),
		KindEqual:   r.NewStyle().Foreground(lipgloss.Color("5")),
		KindValue:   r.NewStyle().Foreground(lipgloss.Color("2")),
		KindSpace:   r.NewStyle().Foreground(lipgloss.Color("4")),
	}
	spanStyle := r.NewStyle().Foreground(lipgloss.Color("8"))

	width := 0
	for _, t := range tokens {
		width = max(width, len(t.Kind.String()))
	}

	for _, t := range tokens {
		kind := t.Kind.String()
		pad := strings.Repeat(" ", width-len(kind))
		span := "[" + strconv.Itoa(t.Start) + "," + strconv.Itoa(t.End) + ")"

		_, err := fmt.Fprintf(w, "%s%s %s %s\n",
			kindStyle[t.Kind].Render(kind),
			pad,
			spanStyle.Render(span),
			strconv.Quote(t.Raw),
		)
		if err != nil {
			return err
		}
	}

	return nil
}
