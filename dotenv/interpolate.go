package dotenv

import "strings"

// Interpolate replaces each begin+NAME+end placeholder in s with the value of
// NAME in vars. Placeholders naming unknown variables are left as they are.
//
// Replacement is a single left-to-right pass, so substituted text is never
// itself expanded.
func Interpolate(s string, vars map[string]any, begin, end string) string {
	if len(vars) == 0 || !strings.Contains(s, begin) {
		return s
	}

	pairs := make([]string, 0, 2*len(vars))
	for name, value := range vars {
		pairs = append(pairs, begin+name+end, FormatScalar(value))
	}

	return strings.NewReplacer(pairs...).Replace(s)
}
