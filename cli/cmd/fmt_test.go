package cmd

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestFmt(t *testing.T) {
	const input = "# app\nNAME=\"demo app\"\nPORT=8080\nDEBUG=false\n"

	tests := []struct {
		name  string
		run   func(t *testing.T) string
		check func(t *testing.T, out string)
	}{
		{
			name: "native",
			run: func(t *testing.T) string {
				ctx, out := testContext(t, input, stdinSource)
				if err := (&Native{}).Run(ctx); err != nil {
					t.Fatal(err)
				}

				return out.String()
			},
			check: func(t *testing.T, out string) {
				if out != input {
					t.Errorf("native output = %q, want %q", out, input)
				}
			},
		},
		{
			name: "json",
			run: func(t *testing.T) string {
				ctx, out := testContext(t, input, stdinSource)
				if err := (&JSON{Indent: 0}).Run(ctx); err != nil {
					t.Fatal(err)
				}

				return out.String()
			},
			check: func(t *testing.T, out string) {
				want := `{"NAME":"demo app","PORT":8080,"DEBUG":false}` + "\n"
				if out != want {
					t.Errorf("json output = %q, want %q", out, want)
				}

				var m map[string]any
				if err := json.Unmarshal([]byte(out), &m); err != nil {
					t.Errorf("invalid JSON: %v", err)
				}
			},
		},
		{
			name: "yaml",
			run: func(t *testing.T) string {
				ctx, out := testContext(t, input, stdinSource)
				if err := (&YAML{Indent: 2}).Run(ctx); err != nil {
					t.Fatal(err)
				}

				return out.String()
			},
			check: func(t *testing.T, out string) {
				for _, want := range []string{"NAME: demo app", "PORT: 8080", "DEBUG: false"} {
					if !strings.Contains(out, want) {
						t.Errorf("yaml output missing %q:\n%s", want, out)
					}
				}

				if strings.Index(out, "NAME") > strings.Index(out, "DEBUG") {
					t.Errorf("yaml output not in source order:\n%s", out)
				}
			},
		},
		{
			name: "shell",
			run: func(t *testing.T) string {
				ctx, out := testContext(t, input, stdinSource)
				if err := (&Shell{}).Run(ctx); err != nil {
					t.Fatal(err)
				}

				return out.String()
			},
			check: func(t *testing.T, out string) {
				want := "export NAME='demo app'\nexport PORT='8080'\nexport DEBUG='false'\n"
				if out != want {
					t.Errorf("shell output = %q, want %q", out, want)
				}
			},
		},
		{
			name: "tokens",
			run: func(t *testing.T) string {
				ctx, out := testContext(t, input, stdinSource)
				if err := (&Tokens{}).Run(ctx); err != nil {
					t.Fatal(err)
				}

				return out.String()
			},
			check: func(t *testing.T, out string) {
				if !strings.Contains(out, `"# app"`) || !strings.Contains(out, `"\"demo app\""`) {
					t.Errorf("token listing missing raw text:\n%s", out)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, tt.run(t))
		})
	}
}

func TestFmt_PositionalSources(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.env", "A=1\n")
	b := writeFile(t, dir, "b.env", "B=2\n")

	ctx, out := testContext(t, "", a)
	if err := (&JSON{Source: []string{b}, Indent: 2}).Run(ctx); err != nil {
		t.Fatal(err)
	}

	if got, want := out.String(), "{\n  \"A\": 1,\n  \"B\": 2\n}\n"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}
