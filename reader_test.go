package wisp

import "testing"

func TestReadAtoms(t *testing.T) {
	cases := map[string]Value{
		"42":     IntegerVal(42),
		"-7":     IntegerVal(-7),
		"#t":     True,
		"#f":     False,
		`"hi"`:   StringVal("hi"),
		"foo":    SymbolVal("foo"),
		"foo:bar": SymbolVal("foo:bar"), // ':' is not a delimiter outside a map literal
		"()":     Nil,
	}
	for input, want := range cases {
		got, err := Read(input)
		if err != nil {
			t.Fatalf("Read(%q): %v", input, err)
		}
		if !Equal(got, want) {
			t.Fatalf("Read(%q) = %s, want %s", input, Format(got), Format(want))
		}
	}
}

func TestReadStringEscapes(t *testing.T) {
	got, err := Read(`"a\nb\tc\\d\"e"`)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	want := "a\nb\tc\\d\"e"
	if got.Str != want {
		t.Fatalf("got %q, want %q", got.Str, want)
	}
}

func TestReadList(t *testing.T) {
	got, err := Read("(1 2 3)")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	want := ListVal(IntegerVal(1), IntegerVal(2), IntegerVal(3))
	if !Equal(got, want) {
		t.Fatalf("got %s, want %s", Format(got), Format(want))
	}
}

func TestReadQuoteSugar(t *testing.T) {
	got, err := Read("'x")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	want := ListVal(SymbolVal("quote"), SymbolVal("x"))
	if !Equal(got, want) {
		t.Fatalf("got %s, want %s", Format(got), Format(want))
	}
}

func TestReadArrayAndTrailingComma(t *testing.T) {
	got, err := Read("[1, 2, 3,]")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got.Kind != KindArray || len(got.Arr.Elems) != 3 {
		t.Fatalf("got %s", Format(got))
	}
}

func TestReadMapLiteral(t *testing.T) {
	got, err := Read("{a: 1, b: 2}")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got.Kind != KindMap {
		t.Fatalf("got %s", Format(got))
	}
	if a, ok := got.MapVal.Entries["a"]; !ok || a.Int != 1 {
		t.Fatalf("bad entry for a: %+v", a)
	}
	if b, ok := got.MapVal.Entries["b"]; !ok || b.Int != 2 {
		t.Fatalf("bad entry for b: %+v", b)
	}
}

func TestReadMapLiteralDistinctHandles(t *testing.T) {
	// Map literals that appear textually identical still produce
	// distinct handles.
	a, err := Read("{a: 1, b: 2}")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	b, err := Read("{a: 1, b: 2}")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if a.MapVal == b.MapVal {
		t.Fatal("expected distinct map handles")
	}
	if !Equal(a, b) {
		t.Fatal("expected structurally equal maps")
	}
}

func TestReadErrors(t *testing.T) {
	bad := []string{
		"(1 2",
		")",
		`"unterminated`,
		"{1: 2}",      // non-symbol key
		"{a 1}",       // missing colon
		"[1 2]",       // missing comma
		"",
	}
	for _, in := range bad {
		if _, err := Read(in); err == nil {
			t.Fatalf("Read(%q): expected error", in)
		}
	}
}

func TestReadIgnoresLineComments(t *testing.T) {
	got, err := Read("(+ 1 2) ; trailing comment")
	if err == nil {
		// "Read" parses exactly one datum and rejects trailing input, so a
		// comment after the datum is fine (comments are trivia, not input).
		want := ListVal(SymbolVal("+"), IntegerVal(1), IntegerVal(2))
		if !Equal(got, want) {
			t.Fatalf("got %s", Format(got))
		}
		return
	}
	t.Fatalf("Read: unexpected error: %v", err)
}

func TestReadAllMultipleForms(t *testing.T) {
	forms, err := ReadAll("(define x 1)\n; comment\n(+ x 1)")
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(forms) != 2 {
		t.Fatalf("expected 2 forms, got %d", len(forms))
	}
}
