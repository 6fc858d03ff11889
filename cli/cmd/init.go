package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/denv/dotenv"
	"github.com/ardnew/denv/log"
	"github.com/ardnew/denv/pkg"
	"github.com/ardnew/denv/profile"
)

// configFileMode is the permission mode of a created configuration file.
const configFileMode os.FileMode = 0o600

// Init generates a default configuration file with current flag values.
//
// The file is itself a .env file: each flag becomes an assignment whose name
// is the flag name in upper case with '-' replaced by '_'.
type Init struct {
	Force bool `help:"Overwrite existing configuration file" short:"f"`
}

// Run executes the init command.
func (i *Init) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	ktx := kongContextFrom(ctx)

	confPath, ok := ktx.Model.Vars()[ConfigIdentifier]
	if !ok {
		panic("internal error: config path undefined")
	}

	// Check if file exists and force not set
	_, err = os.Stat(confPath)
	if err == nil && !i.Force {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			With(slog.Bool("exists", true)).
			Wrap(ErrFileExists)
	}

	ed, err := i.buildConfig(ctx)
	if err != nil {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			Wrap(err)
	}

	err = os.MkdirAll(filepath.Dir(confPath), 0o700)
	if err == nil {
		err = os.WriteFile(confPath, []byte(ed.Render()), configFileMode)
	}

	if err != nil {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			Wrap(err)
	}

	log.DebugContext(
		ctx,
		"initialized configuration file",
		slog.String("path", confPath),
	)

	return nil
}

// buildConfig edits a commented header into a configuration with one
// assignment per flag that has a value.
func (i *Init) buildConfig(ctx context.Context) (*dotenv.Editor, error) {
	ktx := kongContextFrom(ctx)

	header := fmt.Sprintf("# %s configuration\n# generated by: %s init\n\n",
		pkg.Name, pkg.Name)

	env, err := dotenv.ParseString(ctx, header,
		dotenv.WithCastBool(false),
		dotenv.WithCastNumeric(false),
	)
	if err != nil {
		return nil, err
	}

	ed := env.Edit()
	prefixIgnore := []string{"help", "version", profile.Tag}

	for _, flag := range ktx.Model.Flags {
		if flag.Hidden || slices.ContainsFunc(prefixIgnore, func(s string) bool {
			return strings.HasPrefix(flag.Name, s)
		}) {
			continue
		}

		if val, ok := flagValue(ktx, flag); ok {
			ed.Upsert(ConfigKey(flag.Name), val)
		}
	}

	return ed, nil
}

// ConfigKey returns the configuration file variable name for a flag name.
func ConfigKey(flag string) string {
	return strings.ToUpper(strings.ReplaceAll(flag, "-", "_"))
}

// flagValue returns the configuration text for a flag, or false if unset.
func flagValue(ktx *kong.Context, flag *kong.Flag) (string, bool) {
	val := ktx.FlagValue(flag)
	if val == nil {
		return "", false
	}

	switch v := val.(type) {
	case bool:
		return strconv.FormatBool(v), true

	case string:
		return v, v != ""

	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return fmt.Sprint(v), true

	case []string:
		return strings.Join(v, ","), len(v) > 0

	default:
		s := fmt.Sprint(v)

		return s, s != ""
	}
}
