package cli

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/denv/cli/cmd"
	"github.com/ardnew/denv/dotenv"
	"github.com/ardnew/denv/log"
)

// resolve returns a [kong.ConfigurationLoader] that reads configuration
// files written as .env files.
//
// It can be used with [kong.Configuration] like this:
//
//	kong.Configuration(resolve(ctx), "/path/to/config.env")
//
// Each assignment names a flag in upper case with '-' replaced by '_':
//
//	LOG_LEVEL=debug
//	LOG_PRETTY=false
//	CAST_NUMERIC=false
//
// Values are passed to kong as written, so kong's own mappers convert them
// to the flag's type. Command-line flags override config file values.
//
// A configuration file that fails to parse is ignored with a warning.
func resolve(ctx context.Context) kong.ConfigurationLoader {
	return func(r io.Reader) (kong.Resolver, error) {
		env, err := dotenv.ParseReader(ctx, r,
			dotenv.WithCastBool(false),
			dotenv.WithCastNumeric(false),
		)
		if err != nil {
			log.WarnContext(ctx, "ignoring configuration file",
				slog.Any("error", err),
			)

			return config{}, nil
		}

		cfg := make(config, env.Len())
		for name, value := range env.Vars() {
			cfg[name] = dotenv.FormatScalar(value)
		}

		return cfg, nil
	}
}

// config implements [kong.Resolver] for .env configuration files.
type config map[string]string

// Validate implements [kong.Resolver].
func (r config) Validate(*kong.Application) error {
	// No validation needed - the config was already parsed successfully
	return nil
}

// Resolve implements [kong.Resolver].
func (r config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	// Prefer the canonical key, but accept the flag name in lower case with
	// underscores.
	for _, key := range []string{
		cmd.ConfigKey(flag.Name),
		strings.ReplaceAll(flag.Name, "-", "_"),
	} {
		if value, ok := r[key]; ok {
			return value, nil
		}
	}

	// Not found - return nil to let Kong use defaults
	return nil, nil //nolint:nilnil
}
