package dotenv

import (
	"bytes"
	"encoding/json"

	"github.com/goccy/go-yaml"
)

// tokenJSON is the encoded form of a [Token].
type tokenJSON struct {
	Type  string `json:"type"`
	Start int    `json:"start"`
	End   int    `json:"end"`
	Value any    `json:"value"`
	Raw   string `json:"raw"`
}

// MarshalJSON implements json.Marshaler for Token.
func (t Token) MarshalJSON() ([]byte, error) {
	return json.Marshal(tokenJSON{
		Type:  t.Kind.String(),
		Start: t.Start,
		End:   t.End,
		Value: t.Value,
		Raw:   t.Raw,
	})
}

// MarshalJSON implements json.Marshaler for Env. Variables are encoded as a
// single object with keys in order of first definition.
func (e *Env) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteByte('{')

	for i, name := range e.order {
		if i > 0 {
			buf.WriteByte(',')
		}

		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}

		val, err := json.Marshal(e.vars[name])
		if err != nil {
			return nil, err
		}

		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}

	buf.WriteByte('}')

	return buf.Bytes(), nil
}

// ToMapSlice returns the variables as an ordered YAML mapping.
func (e *Env) ToMapSlice() yaml.MapSlice {
	ms := make(yaml.MapSlice, 0, len(e.order))

	for name, value := range e.Vars() {
		ms = append(ms, yaml.MapItem{Key: name, Value: value})
	}

	return ms
}
