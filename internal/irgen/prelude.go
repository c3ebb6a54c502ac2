package irgen

import "sysyc/internal/types"

type preludeFunc struct {
	name   string
	params []types.Type
	ret    types.Type
}

// prelude is the SysY runtime library, declared ahead of user code.
var prelude = []preludeFunc{
	{name: "getint", ret: types.Int},
	{name: "getch", ret: types.Int},
	{name: "getarray", params: []types.Type{types.PointerTo(nil)}, ret: types.Int},
	{name: "putint", params: []types.Type{types.Int}, ret: types.Int},
	{name: "putch", params: []types.Type{types.Int}, ret: types.Int},
	{name: "putarray", params: []types.Type{types.Int, types.PointerTo(nil)}, ret: types.Int},
	{name: "starttime", ret: types.Int},
	{name: "stoptime", ret: types.Int},
}

// PreludeNames lists the runtime functions in declaration order.
func PreludeNames() []string {
	out := make([]string, len(prelude))
	for i, fn := range prelude {
		out[i] = fn.name
	}
	return out
}
