// Package dotenv parses and edits environment files (.env) without losing
// their formatting.
//
// Source text is scanned into an ordered sequence of [Token]s. The sequence
// is the only authority for text output: concatenating the rendering of every
// token reproduces the source byte for byte. A typed variable map is derived
// from the same pass, and an [Editor] changes values by splicing tokens
// rather than regenerating the file, so comments, blank lines and unrelated
// assignments survive untouched.
//
// # Dialect
//
//	# comment line
//	NAME=value
//	NAME = value            (whitespace around '=' is permitted)
//	NAME="with \n escapes and ${OTHER}"
//	NAME='with \' escape, no interpolation'
//	NAME=unquoted#trailing comment is not part of the value
//	NAME=                   (empty value)
//
// Identifiers match [A-Za-z_][A-Za-z0-9_]*.
//
// Inside either kind of quote a backslash escapes the next character:
// \\, \t, \n, \r, \v, \f and the active quote character are recognized. Any
// other escaped character is kept without its backslash.
//
// Only double-quoted values are interpolated. A ${NAME} placeholder is
// replaced with the value of NAME when NAME was assigned earlier in the same
// content; unknown placeholders are left as written.
//
// Unquoted values are trimmed and, when enabled by [WithCastBool] and
// [WithCastNumeric], the bare words true and false become bool and numeric
// text becomes int64 or float64. Quoting always yields a string.
//
// # Example
//
//	env, err := dotenv.ParseFile(ctx, ".env")
//	if err != nil {
//		return err
//	}
//
//	port, _ := env.Get("PORT") // int64(8080)
//
//	out := env.Edit().
//		Upsert("PORT", "9090").
//		Upsert("GREETING", "hello world", dotenv.Quote()).
//		Render()
package dotenv
