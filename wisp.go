// Package wisp implements the reader and evaluator core of a small
// Scheme-like language: S-expressions plus bracketed array and braced map
// literals, lexically scoped, with tail-call optimization. The package
// has no knowledge of any host (REPL, file loader, transport) — it only
// exposes read/eval/format, per the embedding contract.
package wisp

// NewGlobalEnv constructs a fresh global environment pre-populated with
// every primitive procedure bound to its conventional name, the "global
// environment bootstrap" a host performs once at startup.
func NewGlobalEnv() *Env {
	global := NewEnv(nil)
	for name, fn := range builtinTable() {
		global.Define(name, PrimitiveVal(name, fn))
	}
	global.Define("eval", PrimitiveVal("eval", func(args []Value) (Value, error) {
		if len(args) != 1 {
			return Nil, newArityError("eval", 1, len(args))
		}
		return Eval(args[0], global)
	}))
	return global
}

// EvalSource reads and evaluates every top-level form in text against env,
// returning the value of the last one (Nil if text contains no forms).
// This is the convenience a REPL or file-loading host wraps read+eval
// around; it is not itself part of the three required embedding
// operations.
func EvalSource(text string, env *Env) (Value, error) {
	forms, err := ReadAll(text)
	if err != nil {
		return Nil, err
	}
	result := Nil
	for _, form := range forms {
		result, err = Eval(form, env)
		if err != nil {
			return Nil, err
		}
	}
	return result, nil
}
