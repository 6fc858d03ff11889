package dotenv

import (
	"context"
	"fmt"
	"strings"
	"testing"
)

func benchSource(n int) string {
	var sb strings.Builder

	for i := range n {
		fmt.Fprintf(&sb, "# setting %d\n", i)
		fmt.Fprintf(&sb, "KEY_%d=value_%d\n", i, i)
		fmt.Fprintf(&sb, "QUOTED_%d=\"${KEY_%d} with \\\"escapes\\\"\\n\"\n", i, i)
		fmt.Fprintf(&sb, "NUM_%d=%d.5\n", i, i)
	}

	return sb.String()
}

func BenchmarkParseString(b *testing.B) {
	for _, n := range []int{10, 100, 1000} {
		src := benchSource(n)

		b.Run(fmt.Sprintf("vars=%d", 3*n), func(b *testing.B) {
			ctx := context.Background()

			b.SetBytes(int64(len(src)))
			b.ReportAllocs()

			for b.Loop() {
				if _, err := ParseString(ctx, src); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkEditor_Upsert(b *testing.B) {
	env, err := ParseString(context.Background(), benchSource(100))
	if err != nil {
		b.Fatal(err)
	}

	b.ReportAllocs()

	for b.Loop() {
		env.Edit().
			Upsert("KEY_50", "changed").
			Upsert("NEW_KEY", "needs quoting #1").
			Render()
	}
}
