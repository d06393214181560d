package wisp

// Eval interprets expr in env and returns its value. It is a trampoline: a
// single loop holds the current (expr, env) pair and rewrites it in place
// whenever a special form or application lands in tail position, so that
// unbounded tail recursion in user code costs O(1) native stack frames
// (spec.md §8's TCO bound) instead of recursing through this function.
func Eval(expr Value, env *Env) (Value, error) {
	for {
		switch expr.Kind {
		case KindInteger, KindBoolean, KindString, KindNil,
			KindArray, KindMap, KindPrimitive, KindLambda:
			return expr, nil

		case KindSymbol:
			return env.Lookup(expr.Str)

		case KindPair:
			elems, proper := ListElems(expr)
			if !proper {
				return Nil, &EvalError{Kind: BadSpecialForm, Message: "cannot evaluate an improper list"}
			}
			if len(elems) == 0 {
				return Nil, &EvalError{Kind: BadSpecialForm, Message: "cannot evaluate the empty list"}
			}

			head := elems[0]
			if head.Kind == KindSymbol {
				switch head.Str {
				case "quote":
					if len(elems) != 2 {
						return Nil, newArityError("quote", 1, len(elems)-1)
					}
					return elems[1], nil

				case "if":
					if len(elems) != 3 && len(elems) != 4 {
						return Nil, &EvalError{Kind: BadSpecialForm, Message: "if: expected (if test then) or (if test then else)"}
					}
					test, err := Eval(elems[1], env)
					if err != nil {
						return Nil, err
					}
					if test.Truthy() {
						expr = elems[2]
					} else if len(elems) == 4 {
						expr = elems[3]
					} else {
						return Nil, nil
					}
					continue // tail position

				case "define":
					if len(elems) != 3 {
						return Nil, &EvalError{Kind: BadSpecialForm, Message: "define: expected (define name expr)"}
					}
					name, ok := symbolName(elems[1])
					if !ok {
						return Nil, newTypeError("symbol", elems[1])
					}
					val, err := Eval(elems[2], env)
					if err != nil {
						return Nil, err
					}
					env.Define(name, val)
					return Nil, nil

				case "set!":
					if len(elems) != 3 {
						return Nil, &EvalError{Kind: BadSpecialForm, Message: "set!: expected (set! name expr)"}
					}
					name, ok := symbolName(elems[1])
					if !ok {
						return Nil, newTypeError("symbol", elems[1])
					}
					val, err := Eval(elems[2], env)
					if err != nil {
						return Nil, err
					}
					if err := env.Set(name, val); err != nil {
						return Nil, err
					}
					return Nil, nil

				case "lambda":
					if len(elems) < 2 {
						return Nil, &EvalError{Kind: BadSpecialForm, Message: "lambda: expected (lambda (params...) body...)"}
					}
					paramElems, ok := ListElems(elems[1])
					if !ok {
						return Nil, newTypeError("list of symbols", elems[1])
					}
					params := make([]string, len(paramElems))
					for i, p := range paramElems {
						name, ok := symbolName(p)
						if !ok {
							return Nil, newTypeError("symbol", p)
						}
						params[i] = name
					}
					body := elems[2:]
					if len(body) == 0 {
						return Nil, &EvalError{Kind: BadSpecialForm, Message: "lambda: empty body"}
					}
					return LambdaVal(params, body, env), nil

				case "begin":
					body := elems[1:]
					if len(body) == 0 {
						return Nil, nil
					}
					for _, e := range body[:len(body)-1] {
						if _, err := Eval(e, env); err != nil {
							return Nil, err
						}
					}
					expr = body[len(body)-1]
					continue // tail position
				}
			}

			// Application: evaluate head and arguments left-to-right.
			proc, err := Eval(head, env)
			if err != nil {
				return Nil, err
			}
			args := make([]Value, len(elems)-1)
			for i, a := range elems[1:] {
				v, err := Eval(a, env)
				if err != nil {
					return Nil, err
				}
				args[i] = v
			}

			switch proc.Kind {
			case KindPrimitive:
				return proc.Prim.Fn(args)

			case KindLambda:
				lam := proc.Lam
				if len(lam.Params) != len(args) {
					return Nil, newArityError("#<procedure>", len(lam.Params), len(args))
				}
				callEnv, err := lam.Env.Extend(lam.Params, args)
				if err != nil {
					return Nil, err
				}
				// Tail-replace with the implicit begin over the body.
				for _, e := range lam.Body[:len(lam.Body)-1] {
					if _, err := Eval(e, callEnv); err != nil {
						return Nil, err
					}
				}
				expr = lam.Body[len(lam.Body)-1]
				env = callEnv
				continue // sole mechanism for unbounded tail recursion

			default:
				return Nil, &EvalError{Kind: NotCallable, Message: "not callable: " + Format(proc)}
			}

		default:
			return Nil, &EvalError{Kind: BadSpecialForm, Message: "cannot evaluate value of kind " + expr.Kind.String()}
		}
	}
}

func symbolName(v Value) (string, bool) {
	if v.Kind != KindSymbol {
		return "", false
	}
	return v.Str, true
}
