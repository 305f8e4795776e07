package members

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/conduit-lang/hostbridge/runtime/hosttype"
	"github.com/conduit-lang/hostbridge/runtime/hosttype/model"
)

// newCalc declares demo.Calc with two add overloads, a single negate method
// and two constructors.
func newCalc() *model.Class {
	calc := model.NewClass("demo.Calc")
	calc.Method("add", model.Int, model.Int, model.Int).Do(func(_ any, args []any) (any, error) {
		return args[0].(int) + args[1].(int), nil
	})
	calc.Method("add", model.Double, model.Double, model.Double).Do(func(_ any, args []any) (any, error) {
		return args[0].(float64) + args[1].(float64), nil
	})
	calc.Method("negate", model.Int, model.Int).Do(func(_ any, args []any) (any, error) {
		return -args[0].(int), nil
	})
	calc.Constructor()
	calc.Constructor(model.Int)
	return calc
}

// newWidget declares demo.Widget with a label bean backed by a closure.
func newWidget() *model.Class {
	var mu sync.Mutex
	var label any = "initial"

	w := model.NewClass("demo.Widget")
	w.Method("getLabel", model.String).Do(func(_ any, _ []any) (any, error) {
		mu.Lock()
		defer mu.Unlock()
		return label, nil
	})
	w.Method("setLabel", nil, model.String).Do(func(_ any, args []any) (any, error) {
		mu.Lock()
		defer mu.Unlock()
		label = args[0]
		return nil, nil
	})
	w.Field("count", model.Int)
	return w
}

// recordingCoercer passes values through and records the requested targets.
type recordingCoercer struct {
	mu      sync.Mutex
	targets []hosttype.Type
}

func (c *recordingCoercer) Coerce(v any, target hosttype.Type) (any, error) {
	c.mu.Lock()
	c.targets = append(c.targets, target)
	c.mu.Unlock()
	return v, nil
}

// failingCoercer rejects every value.
type failingCoercer struct{}

func (failingCoercer) Coerce(v any, target hosttype.Type) (any, error) {
	return nil, errors.New("no conversion")
}

// recordingDispatcher records the groups it is asked to call.
type recordingDispatcher struct {
	groups []*CallableGroup
	args   [][]any
}

func (d *recordingDispatcher) Call(_ Scope, group *CallableGroup, _ any, args []any) (any, error) {
	d.groups = append(d.groups, group)
	d.args = append(d.args, args)
	return nil, nil
}

// taggingWrapper marks wrapped values with their declared type.
type taggingWrapper struct{}

type wrapped struct {
	Value    any
	Declared hosttype.Type
}

func (taggingWrapper) Wrap(_ Scope, v any, declared hosttype.Type) any {
	return wrapped{Value: v, Declared: declared}
}

// deniedField is a writable field whose host refuses every write.
type deniedField struct {
	*model.Field
}

func (deniedField) Set(any, any) error {
	return hosttype.ErrIllegalAccess
}

func build(t *testing.T, opts Options, typ hosttype.Type) *Table {
	t.Helper()
	table, err := NewBuilder(opts).Build(typ)
	require.NoError(t, err)
	return table
}
