package builtins

import (
	"xlfp/registry"
	"xlfp/value"
	"xlfp/xlerror"
)

func registerLogical(r *registry.Registry) {
	r.Register([]string{"IFERROR"}, ifErrorFn, registry.Fixed(2))
	r.Register([]string{"IFNA"}, ifNAFn, registry.Fixed(2))
}

// ifErrorFn and ifNAFn are the only local-recovery mechanism spec.md §7
// allows: every other error propagates all the way to the Thunk's result.
func ifErrorFn(args []value.Value) value.Value {
	if value.IsError(args[0]) {
		return args[1]
	}
	return args[0]
}

func ifNAFn(args []value.Value) value.Value {
	if value.IsError(args[0]) && value.AsError(args[0]).Code == xlerror.NA {
		return args[1]
	}
	return args[0]
}
