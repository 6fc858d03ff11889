package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/denv/dotenv"
)

// Fmt parses the sources and prints them in the chosen format.
type Fmt struct {
	Native Native `cmd:"" default:"withargs" help:"Print the sources exactly as parsed (default)."`
	JSON   JSON   `cmd:""                    help:"Print variables as a JSON object."`
	YAML   YAML   `cmd:""                    help:"Print variables as a YAML mapping."`
	Shell  Shell  `cmd:""                    help:"Print variables as shell export statements."`
	Tokens Tokens `cmd:""                    help:"Print the token sequence with source spans."`
}

// Native prints the sources exactly as parsed, including merge banners.
type Native struct {
	Source []string `arg:"" help:"Additional source files or '-' for stdin." name:"source" optional:""`
}

// Run executes the native command.
func (n *Native) Run(ctx context.Context) error {
	return format(ctx, "native", n.Source, func(env *dotenv.Env) error {
		return env.Format(ctx, outputFrom(ctx))
	})
}

// JSON prints the variables as a JSON object.
type JSON struct {
	Indent int `default:"2" help:"Indent width for JSON output (0 for compact)." short:"i"`

	Source []string `arg:"" help:"Additional source files or '-' for stdin." name:"source" optional:""`
}

// Run executes the json command.
func (j *JSON) Run(ctx context.Context) error {
	return format(ctx, "json", j.Source, func(env *dotenv.Env) error {
		return env.FormatJSON(ctx, outputFrom(ctx), j.Indent)
	})
}

// YAML prints the variables as a YAML mapping.
type YAML struct {
	Indent int `default:"2" help:"Indent width for YAML output (0 for flow style)." short:"i"`

	Source []string `arg:"" help:"Additional source files or '-' for stdin." name:"source" optional:""`
}

// Run executes the yaml command.
func (y *YAML) Run(ctx context.Context) error {
	return format(ctx, "yaml", y.Source, func(env *dotenv.Env) error {
		return env.FormatYAML(ctx, outputFrom(ctx), y.Indent)
	})
}

// Shell prints the variables as shell export statements.
type Shell struct {
	Source []string `arg:"" help:"Additional source files or '-' for stdin." name:"source" optional:""`
}

// Run executes the shell command.
func (s *Shell) Run(ctx context.Context) error {
	return format(ctx, "shell", s.Source, func(env *dotenv.Env) error {
		return env.FormatShell(ctx, outputFrom(ctx))
	})
}

// Tokens prints the token sequence with source spans.
type Tokens struct {
	Source []string `arg:"" help:"Additional source files or '-' for stdin." name:"source" optional:""`
}

// Run executes the tokens command.
func (t *Tokens) Run(ctx context.Context) error {
	return format(ctx, "tokens", t.Source, func(env *dotenv.Env) error {
		return env.FormatTokens(ctx, outputFrom(ctx))
	})
}

func format(
	ctx context.Context,
	name string,
	extra []string,
	write func(*dotenv.Env) error,
) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	env, _, err := loadEnv(ctx, extra...)
	if err != nil {
		return err
	}

	err = write(env)
	if err != nil {
		return ErrWriteOutput.
			With(slog.String("format", name)).
			Wrap(err)
	}

	return nil
}
