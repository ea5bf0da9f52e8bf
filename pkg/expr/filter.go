package expr

import (
	"errors"
	"fmt"

	"github.com/google/cel-go/cel"

	"github.com/macropower/pls/pkg/pls"
)

// ErrNotBool is returned when an expression does not evaluate to a bool.
var ErrNotBool = errors.New("expression must return a bool")

// Filter selects playlist elements with a compiled CEL expression.
type Filter struct {
	program    cel.Program
	Expression string
}

// Match reports whether the element at 1-based index i matches.
func (f *Filter) Match(i int, e pls.Element) (bool, error) {
	result, _, err := f.program.Eval(Activation(i, e))
	if err != nil {
		return false, fmt.Errorf("evaluate %q: %w", f.Expression, err)
	}

	b, ok := result.Value().(bool)
	if !ok {
		return false, fmt.Errorf("evaluate %q: %w, got %T", f.Expression, ErrNotBool, result.Value())
	}

	return b, nil
}

// Apply returns the matching elements in their original order.
func (f *Filter) Apply(elements []pls.Element) ([]pls.Element, error) {
	out := make([]pls.Element, 0, len(elements))

	for i, e := range elements {
		ok, err := f.Match(i+1, e)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i+1, err)
		}
		if ok {
			out = append(out, e)
		}
	}

	return out, nil
}
