// Package forcefn compiles textual force profile expressions into evaluable
// functions of distance x and elapsed time t.
//
// The accepted language follows common calculator notation: + - * / % ^,
// implicit multiplication (2t, 3 sin(x)), the constants pi, e, tau and phi, and
// a small library of elementary functions (see Functions).
package forcefn

import (
	"math"
	"strings"
)

// Profile maps a distance and an elapsed time to a scalar force.
type Profile func(x, t float64) (float64, error)

// Program is a compiled expression. It is immutable and safe for concurrent use.
type Program struct {
	src  string
	root node
}

// Compile parses expr. On failure the returned error is a *ParseError.
func Compile(expr string) (*Program, error) {
	root, err := parse(expr)
	if err != nil {
		return nil, err
	}
	return &Program{src: strings.TrimSpace(expr), root: root}, nil
}

// MustCompile is like Compile but panics on error. Intended for constants.
func MustCompile(expr string) *Program {
	p, err := Compile(expr)
	if err != nil {
		panic(err)
	}
	return p
}

var zero = &Program{src: "0", root: numberNode{v: 0}}

// Zero returns the program that always evaluates to 0.
func Zero() *Program {
	return zero
}

// Source returns the expression text the program was compiled from.
func (p *Program) Source() string {
	return p.src
}

// Constant reports whether the program ignores x and t, returning its value.
func (p *Program) Constant() (float64, bool) {
	if n, ok := p.root.(numberNode); ok {
		return n.v, true
	}
	return 0, false
}

// Eval evaluates the program. Non-finite results are reported as an
// *EvalError wrapping ErrNonFinite.
func (p *Program) Eval(x, t float64) (float64, error) {
	vars := [numSlots]float64{slotX: x, slotT: t}
	v := p.root.eval(&vars)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, &EvalError{Expr: p.src, X: x, T: t, Result: v, Wrapped: ErrNonFinite}
	}
	return v, nil
}

// Profile returns p as a Profile function.
func (p *Program) Profile() Profile {
	return p.Eval
}

func (p *Program) String() string {
	return p.src
}
