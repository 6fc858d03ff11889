package cmd

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/ardnew/denv/dotenv"
	"github.com/ardnew/denv/log"
	"github.com/ardnew/denv/pkg"
)

// ContextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

type (
	sourceFilesKey struct{}
	optionsKey     struct{}
	outputKey      struct{}
	inputKey       struct{}
)

// WithSourceFiles returns a new context.Context containing the source paths
// read by commands. A path of "-" reads standard input.
func WithSourceFiles(ctx context.Context, sources []string) context.Context {
	return context.WithValue(ctx, sourceFilesKey{}, slices.Clone(sources))
}

func sourceFilesFrom(ctx context.Context) []string {
	s, _ := ctx.Value(sourceFilesKey{}).([]string)

	return s
}

// WithOptions returns a new context.Context containing the options used to
// parse every source.
func WithOptions(ctx context.Context, opts ...dotenv.Option) context.Context {
	return context.WithValue(ctx, optionsKey{}, opts)
}

func optionsFrom(ctx context.Context) []dotenv.Option {
	opts, _ := ctx.Value(optionsKey{}).([]dotenv.Option)

	return opts
}

// WithOutput returns a new context.Context whose commands write to w.
func WithOutput(ctx context.Context, w io.Writer) context.Context {
	return context.WithValue(ctx, outputKey{}, w)
}

func outputFrom(ctx context.Context) io.Writer {
	if w, ok := ctx.Value(outputKey{}).(io.Writer); ok && w != nil {
		return w
	}

	return os.Stdout
}

// WithInput returns a new context.Context whose commands read the "-"
// source from r.
func WithInput(ctx context.Context, r io.Reader) context.Context {
	return context.WithValue(ctx, inputKey{}, r)
}

func inputFrom(ctx context.Context) io.Reader {
	if r, ok := ctx.Value(inputKey{}).(io.Reader); ok && r != nil {
		return r
	}

	return os.Stdin
}

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// source is one resolved input.
type source struct {
	name string // as given on the command line
	path string // resolved path; empty for stdin
}

func (s source) stdin() bool { return s.path == "" }

// fileKey uniquely identifies a file by its device and inode numbers.
// This handles deduplication across symlinks, absolute/relative paths, and
// special device files.
type fileKey struct {
	dev uint64
	ino uint64
}

// makeFileKey creates a fileKey from os.FileInfo.
// Returns false if the underlying Sys() data is not of type *syscall.Stat_t.
func makeFileKey(info os.FileInfo) (key fileKey, ok bool) {
	if info == nil {
		return key, false
	}

	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return key, false
	}

	return fileKey{dev: uint64(stat.Dev), ino: stat.Ino}, true //nolint:unconvert
}

// resolveSources resolves paths into a list of unique sources.
//
// Duplicates are detected by resolving symlinks and comparing device/inode
// pairs, so the first occurrence of each file wins. All occurrences of "-"
// (or a path naming the same file as stdin) are replaced with a single stdin
// source placed last, so it reads after all regular files.
func resolveSources(paths []string) ([]source, error) {
	srcs := make([]source, 0, len(paths))
	seen := make(map[fileKey]struct{})

	stdinInfo, _ := os.Stdin.Stat()
	stdinKey, hasStdinKey := makeFileKey(stdinInfo)

	hasStdin := false

	for _, path := range paths {
		if path == stdinSource {
			hasStdin = true

			continue
		}

		resolved, err := filepath.EvalSymlinks(path)
		if err == nil {
			resolved, err = filepath.Abs(resolved)
		}

		var info os.FileInfo
		if err == nil {
			info, err = os.Stat(resolved)
		}

		if err != nil {
			return nil, pkg.ErrOpenSource.Wrap(err)
		}

		if key, ok := makeFileKey(info); ok {
			if hasStdinKey && key == stdinKey {
				hasStdin = true

				continue
			}

			if _, dup := seen[key]; dup {
				continue
			}

			seen[key] = struct{}{}
		}

		srcs = append(srcs, source{name: path, path: resolved})
	}

	if hasStdin {
		srcs = append(srcs, source{name: stdinSource})
	}

	return srcs, nil
}

// loadEnv parses the sources stored in ctx followed by extra. The first
// source is parsed and every other source is merged into it.
func loadEnv(ctx context.Context, extra ...string) (*dotenv.Env, []source, error) {
	srcs, err := resolveSources(append(sourceFilesFrom(ctx), extra...))
	if err != nil {
		return nil, nil, ErrLoadSource.Wrap(err)
	}

	if len(srcs) == 0 {
		return nil, nil, ErrLoadSource.Wrap(pkg.ErrNoSource)
	}

	var env *dotenv.Env

	for i, src := range srcs {
		if i == 0 {
			env, err = parseSource(ctx, src)
		} else {
			err = mergeSource(ctx, env, src)
		}

		if err != nil {
			return nil, nil, ErrLoadSource.
				With(slog.String("source", src.name)).
				Wrap(err)
		}

		log.DebugContext(ctx, "loaded source",
			slog.String("source", src.name),
			slog.Bool("merged", i > 0),
			slog.Int("vars", env.Len()),
		)
	}

	return env, srcs, nil
}

func parseSource(ctx context.Context, src source) (*dotenv.Env, error) {
	opts := optionsFrom(ctx)

	if src.stdin() {
		env, err := dotenv.ParseReader(ctx, inputFrom(ctx), opts...)

		return env, stdinError(err)
	}

	return dotenv.ParseFile(ctx, src.path, opts...)
}

func mergeSource(ctx context.Context, env *dotenv.Env, src source) error {
	if src.stdin() {
		return stdinError(env.MergeReader(ctx, inputFrom(ctx), "stdin"))
	}

	return env.MergeFile(ctx, src.name)
}

func stdinError(err error) error {
	if errors.Is(err, dotenv.ErrReadInput) {
		return pkg.ErrReadStdin.Wrap(err)
	}

	return err
}
