package main

import (
	"strings"
	"testing"

	"github.com/rphilander/wisp"
)

func TestEvalLineReturnsLastFormsResult(t *testing.T) {
	env := wisp.NewGlobalEnv()
	out, err := evalLine("(define x 2) (+ x 3)", env)
	if err != nil {
		t.Fatalf("evalLine: %v", err)
	}
	if out != "5" {
		t.Fatalf("got %q", out)
	}
}

func TestEvalLinePersistsDefinitionsAcrossCalls(t *testing.T) {
	env := wisp.NewGlobalEnv()
	if _, err := evalLine("(define counter 0)", env); err != nil {
		t.Fatalf("define: %v", err)
	}
	if _, err := evalLine("(set! counter (+ counter 1))", env); err != nil {
		t.Fatalf("set!: %v", err)
	}
	out, err := evalLine("counter", env)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if out != "1" {
		t.Fatalf("got %q", out)
	}
}

func TestEvalLineParseErrorIsPrefixed(t *testing.T) {
	env := wisp.NewGlobalEnv()
	_, err := evalLine("(+ 1", env)
	if err == nil || !strings.HasPrefix(err.Error(), "Parse Error:") {
		t.Fatalf("got %v", err)
	}
}

func TestEvalLineEvalErrorIsPrefixed(t *testing.T) {
	env := wisp.NewGlobalEnv()
	_, err := evalLine("(unbound-name)", env)
	if err == nil || !strings.HasPrefix(err.Error(), "Error:") {
		t.Fatalf("got %v", err)
	}
}

func TestHistoryPathUnderHomeDir(t *testing.T) {
	path := historyPath()
	if path == "" {
		t.Skip("no home directory available")
	}
	if !strings.HasSuffix(path, ".wisp_history") {
		t.Fatalf("got %q", path)
	}
}
