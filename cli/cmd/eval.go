package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ardnew/denv/dotenv"
)

// Eval evaluates an expression with the parsed variables in scope.
//
// Variables are available by name; the process environment is available
// as the map env.
type Eval struct {
	Expr []string `arg:"" help:"Expression to evaluate; multiple arguments are joined with spaces." name:"expr"`
}

// Run executes the eval command.
func (e *Eval) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	env, _, err := loadEnv(ctx)
	if err != nil {
		return err
	}

	source := strings.Join(e.Expr, " ")

	result, err := env.Eval(ctx, source)
	if err != nil {
		return dotenv.WrapError(err).
			With(slog.String("command", "eval"))
	}

	out, err := formatResult(result)
	if err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	_, err = fmt.Fprintln(outputFrom(ctx), out)
	if err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	return nil
}

// formatResult renders scalars as .env values and everything else as JSON.
func formatResult(v any) (string, error) {
	switch v := v.(type) {
	case nil, string, bool, int, int64, float64:
		return dotenv.FormatScalar(v), nil
	default:
		b, err := json.Marshal(v)

		return string(b), err
	}
}
