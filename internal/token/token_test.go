package token

import "testing"

func TestClassify(t *testing.T) {
	cases := []struct {
		b    byte
		kind Kind
		ok   bool
	}{
		{'0', Digit, true},
		{'9', Digit, true},
		{'+', Math, true},
		{'-', Math, true},
		{'*', Math, true},
		{'/', Math, true},
		{'(', Open, true},
		{')', Close, true},
		{'\n', Terminator, true},
		{' ', Whitespace, true},
		{'\t', 0, false},
		{'a', 0, false},
		{',', 0, false},
	}
	for _, c := range cases {
		kind, ok := Classify(c.b)
		if ok != c.ok || (ok && kind != c.kind) {
			t.Errorf("Classify(%q) = (%v, %v), want (%v, %v)", c.b, kind, ok, c.kind, c.ok)
		}
	}
}

func TestPrecedenceOrdering(t *testing.T) {
	if !(Precedence(SubexprStart) < Precedence(SentinelEnd)) {
		t.Errorf("SubexprStart must be lower precedence than SentinelEnd")
	}
	if !(Precedence(SubexprHasOperand) < Precedence(SentinelEnd)) {
		t.Errorf("SubexprHasOperand must be lower precedence than SentinelEnd")
	}
	if !(Precedence(SentinelEnd) < Precedence(Add)) {
		t.Errorf("SentinelEnd must be lower precedence than Add")
	}
	if !(Precedence(Add) < Precedence(Mul)) {
		t.Errorf("Add must be lower precedence than Mul")
	}
	if Precedence(Add) != Precedence(Sub) {
		t.Errorf("Add and Sub must share precedence")
	}
	if Precedence(Mul) != Precedence(Div) {
		t.Errorf("Mul and Div must share precedence")
	}
}

func TestFromMathByte(t *testing.T) {
	cases := map[byte]Op{'+': Add, '-': Sub, '*': Mul, '/': Div}
	for b, want := range cases {
		if got := FromMathByte(b); got != want {
			t.Errorf("FromMathByte(%q) = %v, want %v", b, got, want)
		}
	}
}

func TestIsMarker(t *testing.T) {
	if !SubexprStart.IsMarker() || !SubexprHasOperand.IsMarker() {
		t.Errorf("markers must report IsMarker() == true")
	}
	if Add.IsMarker() || SentinelEnd.IsMarker() {
		t.Errorf("non-markers must report IsMarker() == false")
	}
}
