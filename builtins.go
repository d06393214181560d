package wisp

import (
	"fmt"
	"os"
	"sort"
)

// builtinTable returns every primitive procedure spec.md §4.4 requires,
// keyed by its conventional name. NewGlobalEnv installs each entry under
// that name; no general dispatch-by-type mechanism is needed because every
// primitive type-checks its own arguments.
func builtinTable() map[string]PrimitiveFn {
	return map[string]PrimitiveFn{
		"+": primAdd,
		"-": primSub,
		"*": primMul,
		"/": primDiv,

		"=":  primNumEq,
		"<":  primLt,
		">":  primGt,
		"<=": primLe,
		">=": primGe,

		"cons":   primCons,
		"car":    primCar,
		"cdr":    primCdr,
		"list":   primList,
		"null?":  primIsNull,
		"list?":  primIsList,

		"make-array":  primMakeArray,
		"array-ref":   primArrayRef,
		"array-set!":  primArraySet,
		"array-length": primArrayLength,
		"array?":      primIsArray,

		"make-map":  primMakeMap,
		"map-ref":   primMapRef,
		"map-set!":  primMapSet,
		"map-keys":  primMapKeys,
		"map?":      primIsMap,

		"integer?":   primIsInteger,
		"boolean?":   primIsBoolean,
		"string?":    primIsString,
		"symbol?":    primIsSymbol,
		"procedure?": primIsProcedure,

		"equal?":  primEqual,
		"display": primDisplay,
		"newline": primNewline,
		// "eval" is installed separately by NewGlobalEnv, since it needs
		// to close over the global environment.
	}
}

func extractInt(name string, v Value) (int64, error) {
	if v.Kind != KindInteger {
		return 0, newTypeError("integer", v)
	}
	return v.Int, nil
}

// --- Arithmetic ---

func primAdd(args []Value) (Value, error) {
	var sum int64
	for _, a := range args {
		n, err := extractInt("+", a)
		if err != nil {
			return Nil, err
		}
		sum += n
	}
	return IntegerVal(sum), nil
}

func primMul(args []Value) (Value, error) {
	prod := int64(1)
	for _, a := range args {
		n, err := extractInt("*", a)
		if err != nil {
			return Nil, err
		}
		prod *= n
	}
	return IntegerVal(prod), nil
}

func primSub(args []Value) (Value, error) {
	if len(args) == 0 {
		return Nil, newArityError("-", 1, 0)
	}
	first, err := extractInt("-", args[0])
	if err != nil {
		return Nil, err
	}
	if len(args) == 1 {
		return IntegerVal(-first), nil
	}
	result := first
	for _, a := range args[1:] {
		n, err := extractInt("-", a)
		if err != nil {
			return Nil, err
		}
		result -= n
	}
	return IntegerVal(result), nil
}

func primDiv(args []Value) (Value, error) {
	if len(args) == 0 {
		return Nil, newArityError("/", 1, 0)
	}
	result, err := extractInt("/", args[0])
	if err != nil {
		return Nil, err
	}
	if len(args) == 1 {
		// A one-element left-fold has nothing to fold into the seed, so
		// it yields the seed unchanged (unlike unary `-`, spec.md §4.4
		// carves out no special one-arg meaning for `/`).
		return IntegerVal(result), nil
	}
	for _, a := range args[1:] {
		n, err := extractInt("/", a)
		if err != nil {
			return Nil, err
		}
		if n == 0 {
			return Nil, &EvalError{Kind: DivisionByZero, Message: "/: division by zero"}
		}
		result /= n
	}
	return IntegerVal(result), nil
}

// --- Comparison ---

func primNumEq(args []Value) (Value, error) {
	if len(args) < 2 {
		return Nil, newArityError("=", 2, len(args))
	}
	first, err := extractInt("=", args[0])
	if err != nil {
		return Nil, err
	}
	for _, a := range args[1:] {
		n, err := extractInt("=", a)
		if err != nil {
			return Nil, err
		}
		if n != first {
			return False, nil
		}
	}
	return True, nil
}

func chainCompare(name string, args []Value, ok func(prev, cur int64) bool) (Value, error) {
	if len(args) < 2 {
		return Nil, newArityError(name, 2, len(args))
	}
	prev, err := extractInt(name, args[0])
	if err != nil {
		return Nil, err
	}
	for _, a := range args[1:] {
		cur, err := extractInt(name, a)
		if err != nil {
			return Nil, err
		}
		if !ok(prev, cur) {
			return False, nil
		}
		prev = cur
	}
	return True, nil
}

func primLt(args []Value) (Value, error) {
	return chainCompare("<", args, func(a, b int64) bool { return a < b })
}
func primGt(args []Value) (Value, error) {
	return chainCompare(">", args, func(a, b int64) bool { return a > b })
}
func primLe(args []Value) (Value, error) {
	return chainCompare("<=", args, func(a, b int64) bool { return a <= b })
}
func primGe(args []Value) (Value, error) {
	return chainCompare(">=", args, func(a, b int64) bool { return a >= b })
}

// --- List ---

func primCons(args []Value) (Value, error) {
	if len(args) != 2 {
		return Nil, newArityError("cons", 2, len(args))
	}
	return PairVal(args[0], args[1]), nil
}

func primCar(args []Value) (Value, error) {
	if len(args) != 1 {
		return Nil, newArityError("car", 1, len(args))
	}
	if args[0].Kind != KindPair {
		return Nil, newTypeError("pair", args[0])
	}
	return args[0].PairVal.Car, nil
}

func primCdr(args []Value) (Value, error) {
	if len(args) != 1 {
		return Nil, newArityError("cdr", 1, len(args))
	}
	if args[0].Kind != KindPair {
		return Nil, newTypeError("pair", args[0])
	}
	return args[0].PairVal.Cdr, nil
}

func primList(args []Value) (Value, error) {
	return ListVal(args...), nil
}

func primIsNull(args []Value) (Value, error) {
	if len(args) != 1 {
		return Nil, newArityError("null?", 1, len(args))
	}
	return BoolVal(args[0].Kind == KindNil), nil
}

func primIsList(args []Value) (Value, error) {
	if len(args) != 1 {
		return Nil, newArityError("list?", 1, len(args))
	}
	v := args[0]
	if v.Kind == KindNil {
		return True, nil
	}
	if v.Kind != KindPair {
		return False, nil
	}
	// Shallow check on the first pair suffices for this dialect
	// (spec.md §4.4): a proper-list tail check, not full traversal.
	return BoolVal(v.PairVal.Cdr.Kind == KindNil || v.PairVal.Cdr.Kind == KindPair), nil
}

// --- Array ---

func primMakeArray(args []Value) (Value, error) {
	if len(args) != 1 && len(args) != 2 {
		return Nil, newArityError("make-array", 2, len(args))
	}
	n, err := extractInt("make-array", args[0])
	if err != nil {
		return Nil, err
	}
	if n < 0 {
		return Nil, &EvalError{Kind: IndexOutOfBounds, Message: "make-array: negative length"}
	}
	fill := Nil
	if len(args) == 2 {
		fill = args[1]
	}
	elems := make([]Value, n)
	for i := range elems {
		elems[i] = fill
	}
	return ArrayVal(elems), nil
}

func primArrayRef(args []Value) (Value, error) {
	if len(args) != 2 {
		return Nil, newArityError("array-ref", 2, len(args))
	}
	if args[0].Kind != KindArray {
		return Nil, newTypeError("array", args[0])
	}
	idx, err := extractInt("array-ref", args[1])
	if err != nil {
		return Nil, err
	}
	arr := args[0].Arr.Elems
	if idx < 0 || int(idx) >= len(arr) {
		return Nil, &EvalError{Kind: IndexOutOfBounds, Message: fmt.Sprintf("array-ref: index %d out of bounds (length %d)", idx, len(arr))}
	}
	return arr[idx], nil
}

func primArraySet(args []Value) (Value, error) {
	if len(args) != 3 {
		return Nil, newArityError("array-set!", 3, len(args))
	}
	if args[0].Kind != KindArray {
		return Nil, newTypeError("array", args[0])
	}
	idx, err := extractInt("array-set!", args[1])
	if err != nil {
		return Nil, err
	}
	arr := args[0].Arr.Elems
	if idx < 0 || int(idx) >= len(arr) {
		return Nil, &EvalError{Kind: IndexOutOfBounds, Message: fmt.Sprintf("array-set!: index %d out of bounds (length %d)", idx, len(arr))}
	}
	arr[idx] = args[2]
	return Nil, nil
}

func primArrayLength(args []Value) (Value, error) {
	if len(args) != 1 {
		return Nil, newArityError("array-length", 1, len(args))
	}
	if args[0].Kind != KindArray {
		return Nil, newTypeError("array", args[0])
	}
	return IntegerVal(int64(len(args[0].Arr.Elems))), nil
}

func primIsArray(args []Value) (Value, error) {
	if len(args) != 1 {
		return Nil, newArityError("array?", 1, len(args))
	}
	return BoolVal(args[0].Kind == KindArray), nil
}

// --- Map ---

func primMakeMap(args []Value) (Value, error) {
	if len(args) != 0 {
		return Nil, newArityError("make-map", 0, len(args))
	}
	return MapValNew(nil), nil
}

func mapKeyName(v Value) (string, error) {
	if v.Kind != KindSymbol {
		return "", newTypeError("symbol", v)
	}
	return v.Str, nil
}

func primMapRef(args []Value) (Value, error) {
	if len(args) != 2 {
		return Nil, newArityError("map-ref", 2, len(args))
	}
	if args[0].Kind != KindMap {
		return Nil, newTypeError("map", args[0])
	}
	key, err := mapKeyName(args[1])
	if err != nil {
		return Nil, err
	}
	if v, ok := args[0].MapVal.Entries[key]; ok {
		return v, nil
	}
	return Nil, nil
}

func primMapSet(args []Value) (Value, error) {
	if len(args) != 3 {
		return Nil, newArityError("map-set!", 3, len(args))
	}
	if args[0].Kind != KindMap {
		return Nil, newTypeError("map", args[0])
	}
	key, err := mapKeyName(args[1])
	if err != nil {
		return Nil, err
	}
	args[0].MapVal.Entries[key] = args[2]
	return Nil, nil
}

func primMapKeys(args []Value) (Value, error) {
	if len(args) != 1 {
		return Nil, newArityError("map-keys", 1, len(args))
	}
	if args[0].Kind != KindMap {
		return Nil, newTypeError("map", args[0])
	}
	// Snapshot keys before returning: spec.md §5 says mutation during
	// map-keys traversal is not defined to be safe.
	keys := make([]string, 0, len(args[0].MapVal.Entries))
	for k := range args[0].MapVal.Entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	elems := make([]Value, len(keys))
	for i, k := range keys {
		elems[i] = SymbolVal(k)
	}
	return ListVal(elems...), nil
}

func primIsMap(args []Value) (Value, error) {
	if len(args) != 1 {
		return Nil, newArityError("map?", 1, len(args))
	}
	return BoolVal(args[0].Kind == KindMap), nil
}

// --- Predicates ---

func primIsInteger(args []Value) (Value, error) {
	if len(args) != 1 {
		return Nil, newArityError("integer?", 1, len(args))
	}
	return BoolVal(args[0].Kind == KindInteger), nil
}
func primIsBoolean(args []Value) (Value, error) {
	if len(args) != 1 {
		return Nil, newArityError("boolean?", 1, len(args))
	}
	return BoolVal(args[0].Kind == KindBoolean), nil
}
func primIsString(args []Value) (Value, error) {
	if len(args) != 1 {
		return Nil, newArityError("string?", 1, len(args))
	}
	return BoolVal(args[0].Kind == KindString), nil
}
func primIsSymbol(args []Value) (Value, error) {
	if len(args) != 1 {
		return Nil, newArityError("symbol?", 1, len(args))
	}
	return BoolVal(args[0].Kind == KindSymbol), nil
}
func primIsProcedure(args []Value) (Value, error) {
	if len(args) != 1 {
		return Nil, newArityError("procedure?", 1, len(args))
	}
	k := args[0].Kind
	return BoolVal(k == KindPrimitive || k == KindLambda), nil
}

// --- General ---

func primEqual(args []Value) (Value, error) {
	if len(args) != 2 {
		return Nil, newArityError("equal?", 2, len(args))
	}
	return BoolVal(Equal(args[0], args[1])), nil
}

func primDisplay(args []Value) (Value, error) {
	for i, a := range args {
		if i > 0 {
			fmt.Fprint(os.Stdout, " ")
		}
		fmt.Fprint(os.Stdout, Display(a))
	}
	return Nil, nil
}

func primNewline(args []Value) (Value, error) {
	if len(args) != 0 {
		return Nil, newArityError("newline", 0, len(args))
	}
	fmt.Fprintln(os.Stdout)
	return Nil, nil
}
