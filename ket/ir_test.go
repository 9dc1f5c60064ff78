package ket

import (
	"strings"
	"testing"
)

// TestWGSLLowering pins the lowered forms gate bodies rely on.
func TestWGSLLowering(t *testing.T) {
	tests := []struct {
		name string
		expr Expr
		want string
	}{
		{"const", C(5), "5.0"},
		{"fractional const", C(0.5), "0.5"},
		{"local ref", OutID(), "out_id"},
		{"uniform ref", R("span"), "params.span"},
		{"add", Add(OutID(), C(1)), "(out_id + 1.0)"},
		{"mod", Mod(OutID(), R("span")), "qmod(out_id, params.span)"},
		{"floor div", Floor(Div(FullOutID(), R("row"))), "floor((full_out_id / params.row))"},
		{"compare", Compare(CmpLt, OutID(), C(3)), "select(0.0, 1.0, out_id < 3.0)"},
		{
			"select",
			Select(Compare(CmpEq, OutID(), C(0)), C(1), C(2)),
			"select(2.0, 1.0, select(0.0, 1.0, out_id == 0.0) != 0.0)",
		},
		{
			"extract bits",
			ExtractBits(FullOutID(), "offset_a", "span_a"),
			"qmod(floor((full_out_id / params.offset_a)), params.span_a)",
		},
	}
	for _, tt := range tests {
		if got := WGSL(tt.expr); got != tt.want {
			t.Errorf("%s: got %q, want %q", tt.name, got, tt.want)
		}
	}
}

// TestEval checks host interpretation, including the floored modulus on
// negative operands.
func TestEval(t *testing.T) {
	vars := map[string]float64{"out_id": 6, "span": 8}
	tests := []struct {
		name string
		expr Expr
		want float64
	}{
		{"mod wraps negatives", Mod(Sub(OutID(), C(7)), R("span")), 7},
		{"mod in range", Mod(Add(OutID(), C(3)), R("span")), 1},
		{"compare true", Compare(CmpGe, OutID(), C(6)), 1},
		{"compare false", Compare(CmpGt, OutID(), C(6)), 0},
		{"select", Select(Compare(CmpLt, OutID(), C(10)), Mul(OutID(), C(2)), C(0)), 12},
	}
	for _, tt := range tests {
		got, err := Eval(tt.expr, vars)
		if err != nil {
			t.Fatalf("%s: %v", tt.name, err)
		}
		if got != tt.want {
			t.Errorf("%s: got %v, want %v", tt.name, got, tt.want)
		}
	}
}

// TestEvalUnboundName checks that a dangling reference is an error, not a
// silent zero.
func TestEvalUnboundName(t *testing.T) {
	_, err := Eval(Add(OutID(), R("mystery")), map[string]float64{"out_id": 1})
	if err == nil || !strings.Contains(err.Error(), "mystery") {
		t.Errorf("got %v, want unbound-name error naming mystery", err)
	}
}

// TestExtractBitsWorkedExample checks the documented identity: for
// full_out_id = 0b10110 and a range at offset 1 of length 3, the
// extracted value is mod(floor(22/2), 8) = 3.
func TestExtractBitsWorkedExample(t *testing.T) {
	vars := map[string]float64{
		"full_out_id": 22,
		"offset_a":    2, // 2^1
		"span_a":      8, // 2^3
	}
	got, err := Eval(ExtractBits(FullOutID(), "offset_a", "span_a"), vars)
	if err != nil {
		t.Fatal(err)
	}
	if got != 3 {
		t.Errorf("extracted %v, want 3", got)
	}
}
