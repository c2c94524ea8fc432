package builtins

import (
	"math"
	"sort"

	"xlfp/internal/runtime"
	"xlfp/registry"
	"xlfp/value"
)

// registerStatistical wires the statistical leaf set supplemented from
// original_source/hotxlfp/formulas/statistical.py, including its alias
// groups (MODE/MODE.SNGL, VAR/VAR.S, VAR.P/VARP, STDEV/STDEV.S,
// STDEV.P/STDEVP) registered under one evaluator each, the way
// registry.Register's names parameter is meant to be used.
func registerStatistical(r *registry.Registry) {
	r.Register([]string{"AVERAGE"}, averageFn, registry.Variadic)
	r.Register([]string{"AVERAGEA"}, averageAFn, registry.Variadic)
	r.Register([]string{"COUNT"}, countFn, registry.Variadic)
	r.Register([]string{"COUNTA"}, countAFn, registry.Variadic)
	r.Register([]string{"COUNTBLANK"}, countBlankFn, registry.Variadic)
	r.Register([]string{"MAX"}, maxFn, registry.Variadic)
	r.Register([]string{"MAXA"}, maxAFn, registry.Variadic)
	r.Register([]string{"MIN"}, minFn, registry.Variadic)
	r.Register([]string{"MINA"}, minAFn, registry.Variadic)
	r.Register([]string{"MEDIAN"}, medianFn, registry.Variadic)
	r.Register([]string{"MODE", "MODE.SNGL"}, modeFn, registry.Variadic)
	r.Register([]string{"VAR", "VAR.S"}, varSampleFn, registry.Variadic)
	r.Register([]string{"VAR.P", "VARP"}, varPopulationFn, registry.Variadic)
	r.Register([]string{"STDEV", "STDEV.S"}, stdevSampleFn, registry.Variadic)
	r.Register([]string{"STDEV.P", "STDEVP"}, stdevPopulationFn, registry.Variadic)
	r.Register([]string{"GEOMEAN"}, geomeanFn, registry.Variadic)
	r.Register([]string{"HARMEAN"}, harmeanFn, registry.Variadic)
}

func mean(xs []float64) float64 {
	total := 0.0
	for _, x := range xs {
		total += x
	}
	return total / float64(len(xs))
}

func averageFn(args []value.Value) value.Value {
	if err := firstError(args); err != nil {
		return value.Error(err)
	}
	return runtime.ReduceStacked(args, mean)
}

// lenientToNumber is AVERAGEA/MAXA/MINA's coercion: unlike value.ToNumber,
// unparseable text counts as 0 instead of producing VALUE!, matching how
// the "A" suffix family tolerates mixed-type ranges.
func lenientToNumber(v value.Value) float64 {
	n, err := value.ToNumber(v)
	if err != nil {
		return 0
	}
	return n
}

func averageAFn(args []value.Value) value.Value {
	if err := firstError(args); err != nil {
		return value.Error(err)
	}
	return runtime.ReduceStackedValues(args, func(column []value.Value) float64 {
		xs := make([]float64, len(column))
		for i, v := range column {
			xs[i] = lenientToNumber(v)
		}
		return mean(xs)
	})
}

func countFn(args []value.Value) value.Value {
	if err := firstError(args); err != nil {
		return value.Error(err)
	}
	return runtime.ReduceStackedValues(args, func(column []value.Value) float64 {
		n := 0.0
		for _, v := range column {
			if value.IsNumber(v) {
				n++
			}
		}
		return n
	})
}

func countAFn(args []value.Value) value.Value {
	if err := firstError(args); err != nil {
		return value.Error(err)
	}
	return runtime.ReduceStackedValues(args, func(column []value.Value) float64 {
		n := 0.0
		for _, v := range column {
			if !value.IsBlank(v) {
				n++
			}
		}
		return n
	})
}

func countBlankFn(args []value.Value) value.Value {
	if err := firstError(args); err != nil {
		return value.Error(err)
	}
	return runtime.ReduceStackedValues(args, func(column []value.Value) float64 {
		n := 0.0
		for _, v := range column {
			if value.IsBlank(v) {
				n++
			}
		}
		return n
	})
}

func maxFn(args []value.Value) value.Value {
	if err := firstError(args); err != nil {
		return value.Error(err)
	}
	return runtime.ReduceStacked(args, func(xs []float64) float64 { return extremum(xs, false) })
}

func minFn(args []value.Value) value.Value {
	if err := firstError(args); err != nil {
		return value.Error(err)
	}
	return runtime.ReduceStacked(args, func(xs []float64) float64 { return extremum(xs, true) })
}

func maxAFn(args []value.Value) value.Value {
	if err := firstError(args); err != nil {
		return value.Error(err)
	}
	return runtime.ReduceStackedValues(args, func(column []value.Value) float64 {
		return extremum(lenientColumn(column), false)
	})
}

func minAFn(args []value.Value) value.Value {
	if err := firstError(args); err != nil {
		return value.Error(err)
	}
	return runtime.ReduceStackedValues(args, func(column []value.Value) float64 {
		return extremum(lenientColumn(column), true)
	})
}

func lenientColumn(column []value.Value) []float64 {
	xs := make([]float64, len(column))
	for i, v := range column {
		xs[i] = lenientToNumber(v)
	}
	return xs
}

func extremum(xs []float64, wantMin bool) float64 {
	best := xs[0]
	for _, x := range xs[1:] {
		if (wantMin && x < best) || (!wantMin && x > best) {
			best = x
		}
	}
	return best
}

func medianFn(args []value.Value) value.Value {
	if err := firstError(args); err != nil {
		return value.Error(err)
	}
	return runtime.ReduceStacked(args, median)
}

func median(xs []float64) float64 {
	sorted := append([]float64{}, xs...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}

func modeFn(args []value.Value) value.Value {
	if err := firstError(args); err != nil {
		return value.Error(err)
	}
	return runtime.ReduceStacked(args, mode)
}

func mode(xs []float64) float64 {
	counts := make(map[float64]int)
	order := make([]float64, 0, len(xs))
	for _, x := range xs {
		if counts[x] == 0 {
			order = append(order, x)
		}
		counts[x]++
	}
	best, bestCount := order[0], 0
	for _, x := range order {
		if counts[x] > bestCount {
			best, bestCount = x, counts[x]
		}
	}
	return best
}

func varSampleFn(args []value.Value) value.Value {
	if err := firstError(args); err != nil {
		return value.Error(err)
	}
	return runtime.ReduceStacked(args, func(xs []float64) float64 { return variance(xs, true) })
}

func varPopulationFn(args []value.Value) value.Value {
	if err := firstError(args); err != nil {
		return value.Error(err)
	}
	return runtime.ReduceStacked(args, func(xs []float64) float64 { return variance(xs, false) })
}

func variance(xs []float64, sample bool) float64 {
	m := mean(xs)
	total := 0.0
	for _, x := range xs {
		d := x - m
		total += d * d
	}
	denom := float64(len(xs))
	if sample {
		denom--
	}
	if denom <= 0 {
		return 0
	}
	return total / denom
}

func stdevSampleFn(args []value.Value) value.Value {
	if err := firstError(args); err != nil {
		return value.Error(err)
	}
	return runtime.ReduceStacked(args, func(xs []float64) float64 { return math.Sqrt(variance(xs, true)) })
}

func stdevPopulationFn(args []value.Value) value.Value {
	if err := firstError(args); err != nil {
		return value.Error(err)
	}
	return runtime.ReduceStacked(args, func(xs []float64) float64 { return math.Sqrt(variance(xs, false)) })
}

func geomeanFn(args []value.Value) value.Value {
	if err := firstError(args); err != nil {
		return value.Error(err)
	}
	return runtime.ReduceStacked(args, func(xs []float64) float64 {
		product := 1.0
		for _, x := range xs {
			product *= x
		}
		return math.Pow(product, 1/float64(len(xs)))
	})
}

func harmeanFn(args []value.Value) value.Value {
	if err := firstError(args); err != nil {
		return value.Error(err)
	}
	return runtime.ReduceStacked(args, func(xs []float64) float64 {
		sumRecip := 0.0
		for _, x := range xs {
			sumRecip += 1 / x
		}
		return float64(len(xs)) / sumRecip
	})
}
