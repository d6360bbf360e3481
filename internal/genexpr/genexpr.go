// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package genexpr generates random expression strings obeying the
// evaluator's grammar (an optionally-signed digit run, or a
// parenthesized subexpression, joined by +-*/), for use by cmd/calcgen
// and by property-based tests that would otherwise need to hand
// enumerate cases. It can also inject one of a handful of malformed
// mutations so generated traffic exercises the error taxonomy, not
// just the happy path.
package genexpr

import "math/rand"

// GeneratorSpec configures Generate.
type GeneratorSpec struct {
	// MaxDepth bounds how many levels of parenthesized nesting a
	// generated expression may contain. A factor at depth MaxDepth is
	// always a plain (optionally signed) digit run, never a
	// subexpression, so generation terminates.
	MaxDepth int

	// MaxTerms bounds how many factors a subexpr joins with operators.
	// Must be >= 1.
	MaxTerms int

	// MaxDigits bounds how many digits a generated number has.
	// Must be >= 1.
	MaxDigits int

	// NegativeRate is the probability, in [0,1], that a generated
	// factor carries a leading '-'.
	NegativeRate float64

	// MalformedRate is the probability, in [0,1], that the returned
	// string is one of the boundary-case mutations (an unmatched
	// close or open paren, a bare operator, a trailing operator, an
	// empty subexpression, or an injected invalid character) instead
	// of a well-formed expression.
	MalformedRate float64

	// Rand supplies randomness. If nil, each Generate call uses a fresh
	// source seeded from Seed.
	Rand *rand.Rand

	// Seed seeds the fresh per-call source when Rand is nil.
	Seed int64
}

func (s GeneratorSpec) rng() *rand.Rand {
	if s.Rand != nil {
		return s.Rand
	}
	return rand.New(rand.NewSource(s.Seed))
}

func (s GeneratorSpec) normalized() GeneratorSpec {
	if s.MaxDepth < 0 {
		s.MaxDepth = 0
	}
	if s.MaxTerms < 1 {
		s.MaxTerms = 1
	}
	if s.MaxDigits < 1 {
		s.MaxDigits = 1
	}
	return s
}

// Generate builds one expression string, including its trailing
// newline terminator, per spec.
func Generate(spec GeneratorSpec) string {
	spec = spec.normalized()
	r := spec.rng()

	if r.Float64() < spec.MalformedRate {
		return malformed(spec, r)
	}
	return subexpr(spec, r, spec.MaxDepth) + "\n"
}

var operators = []byte{'+', '-', '*', '/'}

func subexpr(spec GeneratorSpec, r *rand.Rand, depth int) string {
	terms := 1 + r.Intn(spec.MaxTerms)
	s := factor(spec, r, depth)
	for i := 1; i < terms; i++ {
		op := operators[r.Intn(len(operators))]
		// A divisor is always a plain number: its leading digit is never
		// 0, whereas a parenthesized divisor can truncate to zero.
		factorDepth := depth
		if op == '/' {
			factorDepth = 0
		}
		s += " " + string(op) + " " + factor(spec, r, factorDepth)
	}
	return s
}

func factor(spec GeneratorSpec, r *rand.Rand, depth int) string {
	if depth > 0 && r.Intn(2) == 0 {
		return "(" + subexpr(spec, r, depth-1) + ")"
	}
	sign := ""
	if r.Float64() < spec.NegativeRate {
		sign = "-"
	}
	return sign + digits(spec, r)
}

func digits(spec GeneratorSpec, r *rand.Rand) string {
	n := 1 + r.Intn(spec.MaxDigits)
	b := make([]byte, n)
	b[0] = byte('1' + r.Intn(9)) // leading digit never 0, to avoid ambiguity-free but ugly "007"
	for i := 1; i < n; i++ {
		b[i] = byte('0' + r.Intn(10))
	}
	return string(b)
}

// malformed returns one of the boundary-case mutations the core's
// error taxonomy is meant to catch.
func malformed(spec GeneratorSpec, r *rand.Rand) string {
	body := subexpr(spec, r, spec.MaxDepth)
	switch r.Intn(6) {
	case 0:
		return body + ")\n" // unmatched close paren
	case 1:
		return "(" + body + "\n" // unmatched open paren
	case 2:
		return "+\n" // bare operator, nothing to apply it to
	case 3:
		return body + " +\n" // trailing operator
	case 4:
		return "()\n" // empty subexpression
	default:
		return body + " @\n" // invalid character
	}
}
