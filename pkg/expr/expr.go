package expr

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/macropower/pls/pkg/pls"
)

// Protect CEL environment creation and compilation from concurrent access.
var celMutex sync.Mutex

// Variable names available to expressions.
const (
	VarIndex    = "index"
	VarPath     = "path"
	VarTitle    = "title"
	VarHasTitle = "hasTitle"
	VarLength   = "length"
)

var defaultEnv = sync.OnceValues(func() (*Environment, error) {
	return NewEnvironment()
})

// Environment provides a thread-safe wrapper around a [*cel.Env].
type Environment struct {
	env *cel.Env
}

// NewEnvironment creates a new [Environment] declaring the element variables.
func NewEnvironment(opts ...cel.EnvOption) (*Environment, error) {
	env, err := createEnvironment(opts...)
	if err != nil {
		return nil, err
	}

	return &Environment{env: env}, nil
}

func createEnvironment(opts ...cel.EnvOption) (*cel.Env, error) {
	celMutex.Lock()
	defer celMutex.Unlock()

	opts = append(opts,
		cel.Variable(VarIndex, cel.IntType),
		cel.Variable(VarPath, cel.StringType),
		cel.Variable(VarTitle, cel.StringType),
		cel.Variable(VarHasTitle, cel.BoolType),
		cel.Variable(VarLength, cel.IntType),
		cel.Lib(&lib{}),
	)

	celEnv, err := cel.NewEnv(opts...)
	if err != nil {
		return nil, fmt.Errorf("create CEL environment: %w", err)
	}

	return celEnv, nil
}

// Compile compiles expression with the default [Environment].
func Compile(expression string) (*Filter, error) {
	env, err := defaultEnv()
	if err != nil {
		return nil, err
	}

	return env.Compile(expression)
}

// Compile compiles a boolean CEL expression into a [Filter].
func (e *Environment) Compile(expression string) (*Filter, error) {
	celMutex.Lock()
	defer celMutex.Unlock()

	ast, issues := e.env.Compile(expression)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile expression: %w", issues.Err())
	}

	out := ast.OutputType()
	if !out.IsExactType(cel.BoolType) && !out.IsExactType(cel.DynType) {
		return nil, fmt.Errorf("compile expression: %w, got %s", ErrNotBool, out)
	}

	program, err := e.env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("create program: %w", err)
	}

	return &Filter{program: program, Expression: expression}, nil
}

// Activation returns the variables for the element at 1-based index i.
func Activation(i int, e pls.Element) map[string]any {
	return map[string]any{
		VarIndex:    int64(i),
		VarPath:     e.Path,
		VarTitle:    e.TitleOrEmpty(),
		VarHasTitle: e.Title != nil,
		VarLength:   e.Length.Int64(),
	}
}
