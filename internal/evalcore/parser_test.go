package evalcore

import (
	"testing"

	"calcstream.dev/calcstream/internal/chunkio"
)

// run feeds expr (already newline-terminated) into a fresh queue in a
// single chunk and runs the parser to completion.
func run(t *testing.T, expr string) (string, *Error) {
	t.Helper()
	q := chunkio.New()
	if err := q.Push([]byte(expr)); err != nil {
		t.Fatalf("Push: %v", err)
	}
	v, err := Run(q)
	if err != nil {
		return "", err
	}
	return v.String(), nil
}

func TestEndToEndScenarios(t *testing.T) {
	cases := []struct {
		expr string
		want string
	}{
		{"1 + 2\n", "3"},
		{"2 * (3 + 4)\n", "14"},
		{"10 / 3\n", "3"},
		{"-5 + 3\n", "-2"},
		{"(1 + 2) * (3 + 4)\n", "21"},
		{"1 + 2 * 3 - 4\n", "3"},
	}
	for _, c := range cases {
		got, err := run(t, c.expr)
		if err != nil {
			t.Errorf("run(%q) error = %v, want result %s", c.expr, err, c.want)
			continue
		}
		if got != c.want {
			t.Errorf("run(%q) = %s, want %s", c.expr, got, c.want)
		}
	}
}

func TestBoundaryCases(t *testing.T) {
	cases := []struct {
		expr string
		want Kind
	}{
		{"(\n", InvalidExpressionEnd},
		{")\n", UnbalancedParentheses},
		{"+\n", OperatorAtSubexpressionStart},
		{"1 +\n", TooFewOperands},
		{"1 + +\n", OperatorAtSubexpressionStart},
		{"(+1)\n", OperatorAtSubexpressionStart},
		{"- - 1\n", InvalidNumber},
		{"1 / 0\n", DivisionByZero},
		{"1 + 2 )\n", UnbalancedParentheses},
		{"1 + 2 * (\n", InvalidExpressionEnd},
		{"()\n", EmptySubexpression},
		{"1))\n", UnbalancedParentheses},
		{"1a\n", InvalidCharacter},
	}
	for _, c := range cases {
		_, err := run(t, c.expr)
		if err == nil {
			t.Errorf("run(%q) succeeded, want Kind %v", c.expr, c.want)
			continue
		}
		if err.Kind != c.want {
			t.Errorf("run(%q) Kind = %v, want %v", c.expr, err.Kind, c.want)
		}
	}
}

func TestSignAfterBinaryOperatorIsUnary(t *testing.T) {
	got, err := run(t, "1 + -2\n")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if got != "-1" {
		t.Fatalf("1 + -2 = %s, want -1", got)
	}
}

func TestDivTruncatesTowardZero(t *testing.T) {
	got, err := run(t, "-7 / 2\n")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if got != "-3" {
		t.Fatalf("-7 / 2 = %s, want -3", got)
	}
}

func TestParenthesizationChangesResult(t *testing.T) {
	a, err := run(t, "2 + 3 * 4\n")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if a != "14" {
		t.Fatalf("2 + 3 * 4 = %s, want 14", a)
	}
	b, err := run(t, "(2 + 3) * 4\n")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if b != "20" {
		t.Fatalf("(2 + 3) * 4 = %s, want 20", b)
	}
}

func TestWhitespaceInvariance(t *testing.T) {
	a, errA := run(t, "1+2*3\n")
	b, errB := run(t, "1 +   2 *  3\n")
	if errA != nil || errB != nil {
		t.Fatalf("unexpected errors: %v, %v", errA, errB)
	}
	if a != b {
		t.Fatalf("whitespace changed result: %s vs %s", a, b)
	}
}

func TestStreamingAcrossChunkBoundaries(t *testing.T) {
	q := chunkio.New()
	chunks := []string{"1", "2", " + ", "3", "4", "\n"}
	done := make(chan struct {
		v   string
		err *Error
	}, 1)
	go func() {
		v, err := Run(q)
		if err != nil {
			done <- struct {
				v   string
				err *Error
			}{"", err}
			return
		}
		done <- struct {
			v   string
			err *Error
		}{v.String(), nil}
	}()

	for _, c := range chunks {
		if err := q.Push([]byte(c)); err != nil {
			t.Fatalf("Push: %v", err)
		}
	}

	result := <-done
	if result.err != nil {
		t.Fatalf("Run error: %v", result.err)
	}
	if result.v != "46" {
		t.Fatalf("streamed 12 + 34 = %s, want 46", result.v)
	}
}

func TestAbortUnblocksRun(t *testing.T) {
	q := chunkio.New()
	done := make(chan *Error, 1)
	go func() {
		_, err := Run(q)
		done <- err
	}()

	q.Push([]byte("1 +"))
	q.SignalAbort()

	err := <-done
	if err == nil || err.Kind != Aborted {
		t.Fatalf("Run() error = %v, want Aborted", err)
	}
}

func TestDeeplyNestedParentheses(t *testing.T) {
	got, err := run(t, "((((1))))\n")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if got != "1" {
		t.Fatalf("((((1)))) = %s, want 1", got)
	}
}

func TestLargeIntegerArithmetic(t *testing.T) {
	got, err := run(t, "99999999999999999999 + 1\n")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if got != "100000000000000000000" {
		t.Fatalf("got %s, want 100000000000000000000", got)
	}
}
