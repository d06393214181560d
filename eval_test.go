package wisp

import "testing"

func TestSpecialFormQuote(t *testing.T) {
	testEval(t, "(quote (1 2 3))", ListVal(IntegerVal(1), IntegerVal(2), IntegerVal(3)))
	testEval(t, "'(1 2)", ListVal(IntegerVal(1), IntegerVal(2)))
}

func TestSpecialFormIfTruthiness(t *testing.T) {
	// Only #f is false; Nil, 0, "", and () are all truthy.
	testEvalPrinted(t, `(if #f "yes" "no")`, `"no"`)
	testEvalPrinted(t, `(if () "yes" "no")`, `"yes"`)
	testEvalPrinted(t, `(if 0 "yes" "no")`, `"yes"`)
	testEvalPrinted(t, `(if "" "yes" "no")`, `"yes"`)
	testEvalPrinted(t, `(if (list) "yes" "no")`, `"yes"`)
}

func TestSpecialFormDefineReturnsNil(t *testing.T) {
	testEvalPrinted(t, "(define x 1)", "()")
}

func TestSpecialFormSetReturnsNilAndMutates(t *testing.T) {
	testEvalPrinted(t, "(define x 1) (set! x 2)", "()")
	testEvalPrinted(t, "(define x 1) (set! x 2) x", "2")
}

func TestSpecialFormLambdaRequiresBody(t *testing.T) {
	testEvalError(t, "(lambda (x))")
}

func TestSpecialFormBeginSequencesSideEffects(t *testing.T) {
	testEvalPrinted(t, `
		(define log (make-array 2 0))
		(begin
		  (array-set! log 0 1)
		  (array-set! log 1 2))
		log
	`, "[1, 2]")
}

func TestDeeplyTailRecursiveLoopDoesNotOverflowStack(t *testing.T) {
	// spec.md §8: O(1) native stack frames for self-depth up to at least
	// 10,000; this pushes well past that to demonstrate the trampoline,
	// not naive recursion, carries the loop.
	testEvalPrinted(t, `
		(define loop (lambda (n) (if (= n 0) 'done (loop (- n 1)))))
		(loop 200000)
	`, "done")
}

func TestMutuallyExclusiveBranchesDoNotBothEvaluate(t *testing.T) {
	testEvalPrinted(t, `
		(define calls (make-array 1 0))
		(define bump! (lambda () (array-set! calls 0 (+ (array-ref calls 0) 1)) 1))
		(if #t 0 (bump!))
		(array-ref calls 0)
	`, "0")
}

func TestApplyingNonProcedureHeadIsNotCallable(t *testing.T) {
	testEvalError(t, `("not-a-proc" 1 2)`)
}

func TestNestedDefineCreatesLocalBindingNotGlobal(t *testing.T) {
	testEvalPrinted(t, `
		(define f (lambda () (define y 7) y))
		(f)
	`, "7")
	testEvalError(t, `
		(define f (lambda () (define y 7) y))
		(f)
		y
	`)
}
