package interpreter

import "time"

// defineBuiltins installs the one native function the spec requires: clock, arity 0, returning wall-clock seconds
// since the interpreter started.
func defineBuiltins(globals *environment, start time.Time) {
	globals.define("clock", &NativeFn{
		Name:    "clock",
		NumArgs: 0,
		Fn: func(args []Value) Value {
			return time.Since(start).Seconds()
		},
	})
}
