package builtins

import (
	"math"

	"xlfp/internal/runtime"
	"xlfp/registry"
	"xlfp/value"
	"xlfp/xlerror"
)

func registerArithmetic(r *registry.Registry) {
	r.Register([]string{"SUM"}, sumFn, registry.Variadic)
	r.Register([]string{"SQRT"}, sqrtFn, registry.Fixed(1))
	r.Register([]string{"IF"}, ifFn, registry.Fixed(3))
}

// sumFn is a reducing function per spec.md §9: a pack of scalars reduces to
// a scalar; a pack containing arrays reduces along the stacking axis,
// producing an array of the shared length (the same stacking rule the
// AVERAGE family uses, with sum instead of mean).
func sumFn(args []value.Value) value.Value {
	if err := firstError(args); err != nil {
		return value.Error(err)
	}
	if len(args) == 0 {
		return value.Number(0)
	}
	return runtime.ReduceStacked(args, func(column []float64) float64 {
		total := 0.0
		for _, n := range column {
			total += n
		}
		return total
	})
}

func sqrtFn(args []value.Value) value.Value {
	if err := firstError(args); err != nil {
		return value.Error(err)
	}
	return runtime.Map1(args[0], func(v value.Value) value.Value {
		n, err := value.ToNumber(v)
		if err != nil {
			return value.Error(err)
		}
		if n < 0 {
			return value.Error(xlerror.ErrNum)
		}
		return value.Number(math.Sqrt(n))
	})
}

func ifFn(args []value.Value) value.Value {
	return runtime.SelectIf(args[0], args[1], args[2])
}
