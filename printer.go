package wisp

import (
	"sort"
	"strconv"
	"strings"
)

// Format renders v in the canonical printed form required by spec.md
// §4.4: integers in decimal, booleans as #t/#f, strings double-quoted with
// escapes, symbols as their bare name, Nil as (), Pairs as (e1 e2 …),
// Arrays as [e1, e2, …], and Maps as {k: v, k: v}. Map entries are printed
// in sorted-key order for determinism (spec.md leaves the order
// unspecified; see DESIGN.md).
func Format(v Value) string {
	var b strings.Builder
	writeValue(&b, v)
	return b.String()
}

func writeValue(b *strings.Builder, v Value) {
	switch v.Kind {
	case KindInteger:
		b.WriteString(strconv.FormatInt(v.Int, 10))
	case KindBoolean:
		if v.Bool {
			b.WriteString("#t")
		} else {
			b.WriteString("#f")
		}
	case KindString:
		writeQuotedString(b, v.Str)
	case KindSymbol:
		b.WriteString(v.Str)
	case KindNil:
		b.WriteString("()")
	case KindPair:
		b.WriteByte('(')
		writeValue(b, v.PairVal.Car)
		rest := v.PairVal.Cdr
		for rest.Kind == KindPair {
			b.WriteByte(' ')
			writeValue(b, rest.PairVal.Car)
			rest = rest.PairVal.Cdr
		}
		if rest.Kind != KindNil {
			// Improper list: never produced by the reader or `list`,
			// but `cons` with a non-list second argument builds one.
			b.WriteString(" . ")
			writeValue(b, rest)
		}
		b.WriteByte(')')
	case KindArray:
		b.WriteByte('[')
		for i, e := range v.Arr.Elems {
			if i > 0 {
				b.WriteString(", ")
			}
			writeValue(b, e)
		}
		b.WriteByte(']')
	case KindMap:
		keys := make([]string, 0, len(v.MapVal.Entries))
		for k := range v.MapVal.Entries {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		b.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(k)
			b.WriteString(": ")
			writeValue(b, v.MapVal.Entries[k])
		}
		b.WriteByte('}')
	case KindPrimitive:
		b.WriteString("#<primitive:" + v.Prim.Name + ">")
	case KindLambda:
		b.WriteString("#<procedure:" + strings.Join(v.Lam.Params, " ") + ">")
	default:
		b.WriteString("#<unknown>")
	}
}

func writeQuotedString(b *strings.Builder, s string) {
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
}

// Display renders v the way the `display` builtin does: identical to
// Format, except a top-level String argument is printed without its
// surrounding quotes. Nested strings (inside a list/array/map) are still
// quoted, so the structure round-trips through the printer.
func Display(v Value) string {
	if v.Kind == KindString {
		return v.Str
	}
	return Format(v)
}
