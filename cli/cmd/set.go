package cmd

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ardnew/denv/dotenv"
	"github.com/ardnew/denv/log"
)

// Set inserts or updates an assignment and prints the edited source.
//
// Only the assignment is changed; all other text is reproduced exactly.
type Set struct {
	Key   string `arg:"" help:"Variable name."`
	Value string `arg:"" help:"New value."`

	First   bool   `help:"Update the first assignment of KEY instead of the last."`
	Quote   bool   `help:"Always write the value double-quoted."                                      short:"q"`
	Prepend bool   `help:"Prepend VALUE to the delimited list assigned to KEY, like PATH."             short:"p"`
	Delim   string `help:"List delimiter used with --prepend (default: OS path list separator)."`
	Write   bool   `help:"Write the result back to the source file instead of printing it."           short:"w"`
}

// Run executes the set command.
func (s *Set) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	if !dotenv.ValidName(s.Key) {
		return ErrInvalidKey.With(slog.String("key", s.Key))
	}

	env, srcs, err := loadEnv(ctx)
	if err != nil {
		return err
	}

	ed := env.Edit()

	if s.Prepend {
		ed.Prepend(s.Key, s.Delim, s.Value)
	} else {
		var opts []dotenv.UpsertOption

		if s.First {
			opts = append(opts, dotenv.FirstOccurrence())
		}

		if s.Quote {
			opts = append(opts, dotenv.Quote())
		}

		ed.Upsert(s.Key, s.Value, opts...)
	}

	if !s.Write {
		_, err = ed.WriteTo(outputFrom(ctx))
		if err != nil {
			return ErrWriteOutput.Wrap(err)
		}

		return nil
	}

	if len(srcs) != 1 || srcs[0].stdin() {
		return ErrWriteTarget.With(slog.Int("sources", len(srcs)))
	}

	return writeSource(ctx, srcs[0], env, ed)
}

// writeSource replaces the content of src with the editor's output unless
// the edit changed nothing.
func writeSource(
	ctx context.Context,
	src source,
	env *dotenv.Env,
	ed *dotenv.Editor,
) error {
	if ed.Digest() == env.Digest() {
		log.DebugContext(ctx, "source unchanged",
			slog.String("path", src.path),
		)

		return nil
	}

	info, err := os.Stat(src.path)
	if err != nil {
		return ErrWriteSource.With(slog.String("path", src.path)).Wrap(err)
	}

	// Write a sibling file and rename it over the original, so a failed
	// write never truncates the source.
	tmp, err := os.CreateTemp(filepath.Dir(src.path), "."+filepath.Base(src.path)+".*")
	if err != nil {
		return ErrWriteSource.With(slog.String("path", src.path)).Wrap(err)
	}

	defer os.Remove(tmp.Name())

	_, err = ed.WriteTo(tmp)
	if err == nil {
		err = tmp.Chmod(info.Mode().Perm())
	}

	if cerr := tmp.Close(); err == nil {
		err = cerr
	}

	if err == nil {
		err = os.Rename(tmp.Name(), src.path)
	}

	if err != nil {
		return ErrWriteSource.With(slog.String("path", src.path)).Wrap(err)
	}

	log.DebugContext(ctx, "source written",
		slog.String("path", src.path),
		slog.Uint64("digest", ed.Digest()),
	)

	return nil
}
