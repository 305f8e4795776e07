package interop

import (
	"github.com/conduit-lang/hostbridge/runtime/hosttype/model"
)

func newCalc() *model.Class {
	calc := model.NewClass("demo.Calc")
	calc.Method("add", model.Int, model.Int, model.Int).Do(func(_ any, args []any) (any, error) {
		return args[0].(int) + args[1].(int), nil
	})
	calc.Method("add", model.Double, model.Double, model.Double).Do(func(_ any, args []any) (any, error) {
		return args[0].(float64) + args[1].(float64), nil
	})
	calc.Constructor()
	calc.Constructor(model.Int)
	return calc
}

func newPoint() *model.Class {
	p := model.NewClass("demo.Point")
	p.Field("x", model.Int)
	p.Field("tags", model.Array(model.String, 1))
	p.Field("owner", model.Object)
	return p
}
