package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ardnew/denv/dotenv"
)

// Get prints the value of one variable.
type Get struct {
	Name    string `arg:"" help:"Variable name."`
	Default string `help:"Value printed when the variable is not set (non-empty)." short:"d"`
}

// Run executes the get command.
func (g *Get) Run(ctx context.Context) error {
	env, _, err := loadEnv(ctx)
	if err != nil {
		return err
	}

	value, ok := env.Get(g.Name)
	if !ok {
		if g.Default == "" {
			return ErrNotSet.
				With(slog.String("name", g.Name)).
				Wrap(dotenv.ErrNotFound)
		}

		value = g.Default
	}

	_, err = fmt.Fprintln(outputFrom(ctx), dotenv.FormatScalar(value))
	if err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	return nil
}
