package dotenv

import (
	"context"
	"log/slog"
	"os"
	"reflect"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// processEnvKey names the process environment in expression scope. A
// variable with the same name shadows it.
const processEnvKey = "env"

// Eval compiles and runs an expr-lang expression whose identifiers resolve
// to the variables of env. Values keep their cast types, so arithmetic and
// comparisons work on numeric and boolean variables.
func (e *Env) Eval(ctx context.Context, source string) (any, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return nil, ErrExprCompile.
			With(slog.String("source", source), slog.String("reason", "empty"))
	}

	scope := e.exprEnv()

	program, err := expr.Compile(source, expr.Env(scope))
	if err != nil {
		return nil, ErrExprCompile.Wrap(err).
			With(slog.String("source", source))
	}

	result, err := vm.Run(program, scope)
	if err != nil {
		return nil, ErrExprEvaluate.Wrap(err).
			With(slog.String("source", source))
	}

	e.logger.TraceContext(ctx, "eval",
		slog.String("source", source),
		slog.String("result_type", resultTypeName(result)))

	return result, nil
}

// exprEnv returns the expression scope: the process environment under
// processEnvKey and every variable at the top level.
func (e *Env) exprEnv() map[string]any {
	scope := make(map[string]any, len(e.vars)+1)
	scope[processEnvKey] = processEnvMap(os.Environ())

	for name, value := range e.vars {
		scope[name] = value
	}

	return scope
}

// processEnvMap converts "KEY=VALUE" strings to a map.
func processEnvMap(environ []string) map[string]string {
	m := make(map[string]string, len(environ))

	for _, kv := range environ {
		if k, v, ok := strings.Cut(kv, "="); ok && k != "" {
			m[k] = v
		}
	}

	return m
}

func resultTypeName(value any) string {
	if value == nil {
		return "nil"
	}

	return reflect.TypeOf(value).String()
}
