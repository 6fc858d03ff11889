package cmd

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ardnew/denv/dotenv"
)

// Find lists the variables whose names fuzzy-match a pattern, best first.
type Find struct {
	Pattern string `arg:"" help:"Characters to match, in order, against variable names."`
	Limit   int    `default:"0" help:"Maximum number of matches to print (0 for all)." short:"n"`
}

// Run executes the find command.
func (f *Find) Run(ctx context.Context) error {
	env, _, err := loadEnv(ctx)
	if err != nil {
		return err
	}

	matches := env.Find(f.Pattern)
	if f.Limit > 0 && len(matches) > f.Limit {
		matches = matches[:f.Limit]
	}

	w := outputFrom(ctx)
	hi := lipgloss.NewRenderer(w).NewStyle().
		Foreground(lipgloss.Color("3")).
		Bold(true)

	for _, m := range matches {
		_, err = fmt.Fprintf(w, "%s=%s\n",
			highlight(m, hi), dotenv.FormatScalar(m.Value))
		if err != nil {
			return ErrWriteOutput.Wrap(err)
		}
	}

	return nil
}

// highlight renders the matched characters of m.Name with style.
func highlight(m dotenv.Match, style lipgloss.Style) string {
	var sb strings.Builder

	for i := range len(m.Name) {
		if slices.Contains(m.Indexes, i) {
			sb.WriteString(style.Render(m.Name[i : i+1]))
		} else {
			sb.WriteByte(m.Name[i])
		}
	}

	return sb.String()
}
