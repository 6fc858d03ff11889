package pkg

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
)

// Prefix returns the base prefix string used to construct the path to the
// configuration directory and the prefix for environment variable identifiers.
//
// By default, Prefix is the base name of the executable file unless it matches
// one of the following substitution rules:
//   - "__debug_bin" (default output of the dlv debugger): replaced with Name
//   - "*.test" (go test binaries): replaced with Name
//   - "^\.+" (dot-prefixed names): remove the dot prefix
//
//nolint:gochecknoglobals
var Prefix = sync.OnceValue(
	func() string {
		id := os.Args[0]
		exe, err := os.Executable()
		if err == nil {
			id = exe
		}

		ext := filepath.Ext(filepath.Base(id))
		id = strings.TrimSuffix(filepath.Base(id), ext)

		if ext == ".test" {
			return Name
		}

		for rex, rep := range map[*regexp.Regexp]string{
			regexp.MustCompile(`^__debug_bin\d+$`): Name, // default output from dlv
			regexp.MustCompile(`^\.+`):             "",   // remove leading dot(s)
		} {
			id = rex.ReplaceAllString(id, rep)
		}

		if id == "" {
			return Name
		}

		return id
	},
)

// EnvPrefix returns the prefix for environment variables that configure the
// command, e.g. "DENV" for DENV_LOG_LEVEL.
func EnvPrefix() string {
	return strings.ToUpper(strings.Map(
		func(r rune) rune {
			if r == '-' || r == '.' {
				return '_'
			}

			return r
		},
		Prefix(),
	))
}

// ConfigDir returns the configuration directory path.
// The <EnvPrefix>_CONFIG_DIR environment variable overrides the default.
//
//nolint:gochecknoglobals
var ConfigDir = sync.OnceValue(
	func() string {
		if dir := os.Getenv(EnvPrefix() + "_CONFIG_DIR"); dir != "" {
			return dir
		}

		return userDir(os.UserConfigDir, ".config")
	},
)

// CacheDir returns the cache directory path used for transient files.
// The <EnvPrefix>_CACHE_DIR environment variable overrides the default.
//
//nolint:gochecknoglobals
var CacheDir = sync.OnceValue(
	func() string {
		if dir := os.Getenv(EnvPrefix() + "_CACHE_DIR"); dir != "" {
			return dir
		}

		return userDir(os.UserCacheDir, ".cache")
	},
)

// userDir returns the Prefix subdirectory of the directory reported by base,
// falling back to a hidden directory under the user's home, and finally to
// the working directory.
func userDir(base func() (string, error), hidden string) string {
	dir, err := base()
	if err != nil {
		dir, err = os.UserHomeDir()
		if err == nil {
			dir = filepath.Join(dir, hidden)
		} else {
			dir, err = os.Getwd()
			if err != nil {
				dir = "."
			}
		}
	}

	return filepath.Join(dir, Prefix())
}
