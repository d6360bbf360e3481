package genexpr

import (
	"strings"
	"testing"

	"calcstream.dev/calcstream/internal/chunkio"
	"calcstream.dev/calcstream/internal/evalcore"
)

func baseSpec(seed int64) GeneratorSpec {
	return GeneratorSpec{
		MaxDepth:  3,
		MaxTerms:  4,
		MaxDigits: 6,
		Seed:      seed,
	}
}

func TestGenerateWellFormedParses(t *testing.T) {
	for seed := int64(0); seed < 50; seed++ {
		spec := baseSpec(seed)
		expr := Generate(spec)
		if !strings.HasSuffix(expr, "\n") {
			t.Fatalf("Generate(seed=%d) = %q, want trailing newline", seed, expr)
		}
		q := chunkio.New()
		if err := q.Push([]byte(expr)); err != nil {
			t.Fatalf("Push: %v", err)
		}
		if _, err := evalcore.Run(q); err != nil {
			t.Errorf("Generate(seed=%d) = %q produced a parse error: %v", seed, expr, err)
		}
	}
}

func TestGenerateMalformedIsRejected(t *testing.T) {
	spec := baseSpec(1)
	spec.MalformedRate = 1
	sawError := false
	for seed := int64(0); seed < 30; seed++ {
		spec.Seed = seed
		expr := Generate(spec)
		q := chunkio.New()
		if err := q.Push([]byte(expr)); err != nil {
			t.Fatalf("Push: %v", err)
		}
		if _, err := evalcore.Run(q); err != nil {
			sawError = true
		}
	}
	if !sawError {
		t.Errorf("MalformedRate=1 never produced a rejected expression across 30 seeds")
	}
}

func TestGenerateDeterministicForSameSeed(t *testing.T) {
	spec := baseSpec(42)
	a := Generate(spec)
	b := Generate(spec)
	if a != b {
		t.Errorf("same seed produced different output: %q vs %q", a, b)
	}
}

func TestGenerateRespectsMaxDepthZero(t *testing.T) {
	spec := baseSpec(7)
	spec.MaxDepth = 0
	expr := Generate(spec)
	if strings.ContainsAny(expr, "()") {
		t.Errorf("MaxDepth=0 still produced parens: %q", expr)
	}
}
