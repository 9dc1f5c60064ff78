// Package ket synthesizes GPU programs that evolve a quantum state
// vector. A gate supplies a small arithmetic body over basis-state
// indices; ket lowers it into one of three canonical compute-program
// shapes and binds every argument a dispatcher needs. The same body is
// interpreted host-side, so every synthesized program can be executed
// and verified without a GPU.
package ket

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Expr is a pure arithmetic expression over basis-state indices and
// bound uniforms. All values are floats; integer index math stays exact
// because the engine caps the qubit space well below 2^24.
//
// Two builtin references exist inside a gate body:
//   - "out_id": the gate-local index, in [0, 2^span)
//   - "full_out_id": the global basis-state index
//
// plus the implicit uniforms "span" (2^span) and "row" (2^row) and any
// custom uniforms the gate binds.
type Expr interface {
	// wgsl appends the lowered WGSL form.
	wgsl(b *strings.Builder)

	// eval interprets the expression under an environment.
	eval(env *env) float64
}

// env resolves references during host evaluation. Missing names are
// recorded instead of aborting mid-expression; the caller checks after.
type env struct {
	vars    map[string]float64
	missing []string
}

func (e *env) lookup(name string) float64 {
	if v, ok := e.vars[name]; ok {
		return v
	}
	e.missing = append(e.missing, name)
	return 0
}

// localRefs are resolved as locals of the generated outputFor function;
// every other reference reads a params-struct uniform.
var localRefs = map[string]bool{
	"out_id":      true,
	"full_out_id": true,
}

type constExpr float64

func (c constExpr) wgsl(b *strings.Builder) { b.WriteString(formatConst(float64(c))) }
func (c constExpr) eval(*env) float64       { return float64(c) }

// formatConst renders a float as a WGSL literal, keeping a decimal point
// so the literal stays typed f32.
func formatConst(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return strconv.FormatFloat(v, 'f', 1, 64)
	}
	s := strconv.FormatFloat(v, 'g', -1, 64)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}

type refExpr string

func (r refExpr) wgsl(b *strings.Builder) {
	if localRefs[string(r)] {
		b.WriteString(string(r))
		return
	}
	b.WriteString("params.")
	b.WriteString(string(r))
}
func (r refExpr) eval(e *env) float64 { return e.lookup(string(r)) }

// BinOp enumerates the binary operators gate bodies use.
type BinOp int

const (
	OpAdd BinOp = iota + 1
	OpSub
	OpMul
	OpDiv

	// OpMod is the floored modulus: x - y*floor(x/y), always in [0, y)
	// for positive y. Lowered to the qmod helper, not the WGSL % operator,
	// which truncates.
	OpMod
)

type binExpr struct {
	op   BinOp
	x, y Expr
}

func (n binExpr) wgsl(b *strings.Builder) {
	if n.op == OpMod {
		b.WriteString("qmod(")
		n.x.wgsl(b)
		b.WriteString(", ")
		n.y.wgsl(b)
		b.WriteString(")")
		return
	}
	var op string
	switch n.op {
	case OpAdd:
		op = " + "
	case OpSub:
		op = " - "
	case OpMul:
		op = " * "
	case OpDiv:
		op = " / "
	}
	b.WriteString("(")
	n.x.wgsl(b)
	b.WriteString(op)
	n.y.wgsl(b)
	b.WriteString(")")
}

func (n binExpr) eval(e *env) float64 {
	x, y := n.x.eval(e), n.y.eval(e)
	switch n.op {
	case OpAdd:
		return x + y
	case OpSub:
		return x - y
	case OpMul:
		return x * y
	case OpDiv:
		return x / y
	case OpMod:
		return x - y*math.Floor(x/y)
	}
	return math.NaN()
}

type floorExpr struct{ x Expr }

func (n floorExpr) wgsl(b *strings.Builder) {
	b.WriteString("floor(")
	n.x.wgsl(b)
	b.WriteString(")")
}
func (n floorExpr) eval(e *env) float64 { return math.Floor(n.x.eval(e)) }

// CmpOp enumerates the comparison operators. A comparison evaluates to
// exactly 1.0 or 0.0.
type CmpOp int

const (
	CmpLt CmpOp = iota + 1
	CmpGt
	CmpLe
	CmpGe
	CmpEq
	CmpNe
)

func (op CmpOp) String() string {
	switch op {
	case CmpLt:
		return "<"
	case CmpGt:
		return ">"
	case CmpLe:
		return "<="
	case CmpGe:
		return ">="
	case CmpEq:
		return "=="
	case CmpNe:
		return "!="
	}
	return "?"
}

type cmpExpr struct {
	op   CmpOp
	x, y Expr
}

func (n cmpExpr) wgsl(b *strings.Builder) {
	b.WriteString("select(0.0, 1.0, ")
	n.x.wgsl(b)
	fmt.Fprintf(b, " %s ", n.op)
	n.y.wgsl(b)
	b.WriteString(")")
}

func (n cmpExpr) eval(e *env) float64 {
	x, y := n.x.eval(e), n.y.eval(e)
	var ok bool
	switch n.op {
	case CmpLt:
		ok = x < y
	case CmpGt:
		ok = x > y
	case CmpLe:
		ok = x <= y
	case CmpGe:
		ok = x >= y
	case CmpEq:
		ok = x == y
	case CmpNe:
		ok = x != y
	}
	if ok {
		return 1
	}
	return 0
}

type selectExpr struct {
	cond, then, els Expr
}

func (n selectExpr) wgsl(b *strings.Builder) {
	b.WriteString("select(")
	n.els.wgsl(b)
	b.WriteString(", ")
	n.then.wgsl(b)
	b.WriteString(", ")
	n.cond.wgsl(b)
	b.WriteString(" != 0.0)")
}

func (n selectExpr) eval(e *env) float64 {
	if n.cond.eval(e) != 0 {
		return n.then.eval(e)
	}
	return n.els.eval(e)
}

// C builds a constant.
func C(v float64) Expr { return constExpr(v) }

// R references a builtin local or a bound uniform by name.
func R(name string) Expr { return refExpr(name) }

// OutID references the gate-local basis-state index.
func OutID() Expr { return refExpr("out_id") }

// FullOutID references the global basis-state index, for bodies that
// read bits outside the gate's own span.
func FullOutID() Expr { return refExpr("full_out_id") }

// Add, Sub, Mul, Div and Mod build binary operations. Mod is the floored
// modulus.
func Add(x, y Expr) Expr { return binExpr{OpAdd, x, y} }
func Sub(x, y Expr) Expr { return binExpr{OpSub, x, y} }
func Mul(x, y Expr) Expr { return binExpr{OpMul, x, y} }
func Div(x, y Expr) Expr { return binExpr{OpDiv, x, y} }
func Mod(x, y Expr) Expr { return binExpr{OpMod, x, y} }

// Floor builds a floor operation.
func Floor(x Expr) Expr { return floorExpr{x} }

// Compare builds a comparison yielding 1.0 or 0.0.
func Compare(op CmpOp, x, y Expr) Expr { return cmpExpr{op, x, y} }

// Select yields then when cond is nonzero, els otherwise.
func Select(cond, then, els Expr) Expr { return selectExpr{cond, then, els} }

// ExtractBits reads an auxiliary bit-range out of x. The range is bound
// as two uniforms holding powers of two: offsetPow = 2^offset and
// lenPow = 2^length. The lowered form is exactly
// mod(floor(x / 2^offset), 2^length); every cross-range gate is built on
// this identity.
func ExtractBits(x Expr, offsetPow, lenPow string) Expr {
	return Mod(Floor(Div(x, R(offsetPow))), R(lenPow))
}

// WGSL lowers an expression to WGSL source.
func WGSL(e Expr) string {
	var b strings.Builder
	e.wgsl(&b)
	return b.String()
}

// Eval interprets an expression under the given variable bindings.
// Referencing an unbound name is an error.
func Eval(e Expr, vars map[string]float64) (float64, error) {
	ev := &env{vars: vars}
	v := e.eval(ev)
	if len(ev.missing) > 0 {
		return 0, fmt.Errorf("ket: expression references unbound names %v", ev.missing)
	}
	return v, nil
}
