package runtime

import (
	"xlfp/value"
)

// SelectIf implements IF(cond, then, else)'s elementwise selection, per
// spec.md §4.4: both branches are already evaluated (IF is not lazy in this
// engine — argument slots reach the registry pre-evaluated), broadcast to
// the shape of the widest operand, and selected positionally. Per spec.md
// §9's open question, the winning branch keeps its own native type at each
// position; only the broadcast machinery itself forces numeric coercion of
// the condition.
func SelectIf(cond, thenBranch, elseBranch value.Value) value.Value {
	if value.IsError(cond) {
		return cond
	}
	length, scalar, err := BroadcastShape(cond, thenBranch, elseBranch)
	if err != nil {
		return value.Error(err)
	}
	if scalar {
		return selectOne(cond, thenBranch, elseBranch)
	}
	out := make([]value.Value, length)
	for i := 0; i < length; i++ {
		out[i] = selectOne(ElementOf(cond, i), ElementOf(thenBranch, i), ElementOf(elseBranch, i))
	}
	return value.Array(out)
}

func selectOne(cond, thenVal, elseVal value.Value) value.Value {
	if value.IsError(cond) {
		return cond
	}
	truthy, err := value.ToBool(cond)
	if err != nil {
		return value.Error(err)
	}
	if truthy {
		return thenVal
	}
	return elseVal
}
