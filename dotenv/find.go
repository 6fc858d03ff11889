package dotenv

import "github.com/sahilm/fuzzy"

// Match is a variable whose name matched a fuzzy search pattern.
type Match struct {
	Name    string
	Value   any
	Score   int
	Indexes []int // byte offsets in Name of the matched pattern characters
}

// Find returns the variables whose names fuzzy-match pattern, best match
// first. An empty pattern matches nothing.
func (e *Env) Find(pattern string) []Match {
	if pattern == "" {
		return nil
	}

	matches := fuzzy.Find(pattern, e.order)

	found := make([]Match, 0, len(matches))
	for _, m := range matches {
		found = append(found, Match{
			Name:    m.Str,
			Value:   e.vars[m.Str],
			Score:   m.Score,
			Indexes: m.MatchedIndexes,
		})
	}

	return found
}
