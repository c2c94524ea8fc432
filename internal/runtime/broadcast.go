// Broadcasting primitives: spec.md §9 calls for "a small internal ArrayView
// with an elementwise map/zip primitive" independent of any tensor library.
// These are that primitive, generalized over value.Value so error values and
// mixed-type array elements (spec.md §9's IF open question) flow through
// naturally instead of forcing everything down to float64 first.
//
// Grounded on the teacher's createMathFunc/createStringFunc wrappers in
// internal/vmregister/stdlib.go, which wrap a scalar Go function into a
// NativeFnObj — the same "wrap a scalar op, let the wrapper handle the
// repetitive plumbing" shape, generalized here to elementwise array ops.
package runtime

import (
	"github.com/samber/lo"

	"xlfp/value"
	"xlfp/xlerror"
)

// ElementOf returns v itself if v is a scalar, or the i'th element if v is
// an Array — the "replicate scalar to shape" half of the broadcast rule.
func ElementOf(v value.Value, i int) value.Value {
	if value.IsArray(v) {
		return value.AsArray(v)[i]
	}
	return v
}

// BroadcastShape determines the target length from a set of operands per
// spec.md §4.4 step 2: the length of the first Array encountered, with every
// other Array operand required to share it. A non-nil err (ErrValue) means a
// length mismatch; length 0 with noArray=true and a nil err means every
// operand was scalar.
func BroadcastShape(operands ...value.Value) (length int, noArray bool, err *xlerror.ErrorValue) {
	length = -1
	for _, op := range operands {
		if !value.IsArray(op) {
			continue
		}
		n := len(value.AsArray(op))
		if length == -1 {
			length = n
			continue
		}
		if n != length {
			return 0, false, xlerror.ErrValue
		}
	}
	if length == -1 {
		return 0, true, nil
	}
	return length, false, nil
}

// Zip2 applies op elementwise across two operands after broadcasting,
// per spec.md §4.4. An error operand short-circuits immediately (the
// leftmost-error propagation policy of spec.md §7); errors arising from op
// itself at a given index are embedded positionally into the result array
// rather than aborting the whole broadcast, matching "IF selects E
// positionally" — the same rule applies to any broadcast op.
func Zip2(l, r value.Value, op func(a, b value.Value) value.Value) value.Value {
	if value.IsError(l) {
		return l
	}
	if value.IsError(r) {
		return r
	}
	length, scalar, err := BroadcastShape(l, r)
	if err != nil {
		return value.Error(err)
	}
	if scalar {
		return op(l, r)
	}
	out := lo.Map(lo.Range(length), func(i int, _ int) value.Value {
		return op(ElementOf(l, i), ElementOf(r, i))
	})
	return value.Array(out)
}

// Map1 lifts a unary scalar op across an Array (or applies it directly to a
// scalar), the broadcasting half of single-argument functions like SQRT.
func Map1(v value.Value, op func(a value.Value) value.Value) value.Value {
	if value.IsError(v) {
		return v
	}
	if !value.IsArray(v) {
		return op(v)
	}
	elems := value.AsArray(v)
	out := lo.Map(elems, func(el value.Value, _ int) value.Value { return op(el) })
	return value.Array(out)
}

// Stack aligns a variadic argument pack to a common length (spec.md §9's
// AVERAGE open question, resolved as "stacking" semantics: a scalar operand
// replicates across whichever length the array operands share; an all-scalar
// pack stays a pack of length-1 rows, signalled by scalar=true so reducing
// built-ins like AVERAGE/SUM can return a bare scalar instead of a length-1
// array). rows[i] is the i'th argument's values at each stacked position;
// cols[j] (computed by the caller by transposing, or by indexing rows by
// position) is the j'th output position across all arguments — built-ins
// reduce across rows per position.
//
// Blank slots coerce to 0 via value.ToNumber before stacking, matching the
// numeric-coercion rule for broadcast arithmetic generally.
func Stack(args []value.Value) (rows [][]float64, scalar bool, err *xlerror.ErrorValue) {
	length, isScalarShape, shapeErr := BroadcastShape(args...)
	if shapeErr != nil {
		return nil, false, shapeErr
	}
	if isScalarShape {
		length = 1
	}
	rows = make([][]float64, len(args))
	for i, a := range args {
		if value.IsError(a) {
			return nil, false, value.AsError(a)
		}
		row := make([]float64, length)
		for j := 0; j < length; j++ {
			n, nerr := value.ToNumber(ElementOf(a, j))
			if nerr != nil {
				return nil, false, nerr
			}
			row[j] = n
		}
		rows[i] = row
	}
	return rows, isScalarShape, nil
}

// StackValues is Stack's uncoerced sibling: it preserves each element as a
// raw value.Value instead of forcing ToNumber, for reducers like COUNT/
// COUNTA/COUNTBLANK that care about a slot's *kind*, not its numeric value.
func StackValues(args []value.Value) (rows [][]value.Value, scalar bool, err *xlerror.ErrorValue) {
	length, isScalarShape, shapeErr := BroadcastShape(args...)
	if shapeErr != nil {
		return nil, false, shapeErr
	}
	if isScalarShape {
		length = 1
	}
	rows = make([][]value.Value, len(args))
	for i, a := range args {
		if value.IsError(a) {
			return nil, false, value.AsError(a)
		}
		row := make([]value.Value, length)
		for j := 0; j < length; j++ {
			row[j] = ElementOf(a, j)
		}
		rows[i] = row
	}
	return rows, isScalarShape, nil
}

// ReduceStackedValues is ReduceStacked's StackValues-backed sibling.
func ReduceStackedValues(args []value.Value, reduce func(column []value.Value) float64) value.Value {
	rows, scalar, err := StackValues(args)
	if err != nil {
		return value.Error(err)
	}
	if len(rows) == 0 {
		return value.Number(0)
	}
	length := len(rows[0])
	results := make([]float64, length)
	for j := 0; j < length; j++ {
		column := make([]value.Value, len(rows))
		for i := range rows {
			column[i] = rows[i][j]
		}
		results[j] = reduce(column)
	}
	if scalar {
		return value.Number(results[0])
	}
	return value.NumberArray(results)
}

// ReduceStacked applies reduce to each stacked column (spec.md §9: AVERAGE
// "aligns them and averages along the stacking axis"), returning a scalar
// if the pack was all-scalar, else an Array of the shared length.
func ReduceStacked(args []value.Value, reduce func(column []float64) float64) value.Value {
	rows, scalar, err := Stack(args)
	if err != nil {
		return value.Error(err)
	}
	if len(rows) == 0 {
		return value.Error(xlerror.ErrValue)
	}
	length := len(rows[0])
	results := make([]float64, length)
	for j := 0; j < length; j++ {
		column := make([]float64, len(rows))
		for i := range rows {
			column[i] = rows[i][j]
		}
		results[j] = reduce(column)
	}
	if scalar {
		return value.Number(results[0])
	}
	return value.NumberArray(results)
}
