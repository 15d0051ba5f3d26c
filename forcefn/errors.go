package forcefn

import (
	"errors"
	"fmt"
)

// ErrNonFinite is returned when an expression evaluates to NaN or ±Inf.
var ErrNonFinite = errors.New("forcefn: non-finite result")

// ParseError describes why an expression could not be compiled.
type ParseError struct {
	Expr string // Source text as submitted
	Pos  int    // Byte offset of the offending token
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("forcefn: %s at position %d in %q", e.Msg, e.Pos, e.Expr)
}

// EvalError describes a failed evaluation of a compiled expression.
type EvalError struct {
	Expr    string
	X, T    float64
	Result  float64
	Wrapped error
}

func (e *EvalError) Error() string {
	return fmt.Sprintf("evaluating %q at x=%g t=%g: %v (got %g)", e.Expr, e.X, e.T, e.Wrapped, e.Result)
}

func (e *EvalError) Unwrap() error {
	return e.Wrapped
}
