// Package cmd implements the denv subcommands.
//
// Commands read their input from the sources stored in the context by
// [WithSourceFiles]: the first source is parsed and each remaining source is
// merged into it, in order. Output goes to the writer stored by [WithOutput],
// which defaults to standard output.
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path to
	// the configuration file.
	ConfigIdentifier = "config"
)
