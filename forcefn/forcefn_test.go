package forcefn

import (
	"errors"
	"math"
	"testing"
)

func TestCompileEval(t *testing.T) {
	tests := []struct {
		name string
		expr string
		x, t float64
		want float64
	}{
		{"reciprocal", "1 / x", 2, 123, 0.5},
		{"zero", "0", 5, 5, 0},
		{"default radial", "sin(2t - x)", 1, 2, math.Sin(3)},
		{"implicit number ident", "2x", 3, 0, 6},
		{"implicit call", "3 cos(x)", 0, 0, 3},
		{"implicit parens", "(x + 1)(x - 1)", 3, 0, 8},
		{"number division before symbol", "1/2x", 2, 0, 1},
		{"number division before parens", "1/2(x + 2)", 2, 0, 2},
		{"symbol division keeps juxtaposition", "x/2x", 2, 0, 0.5},
		{"number division before power", "1/2^x", 1, 0, 0.5},
		{"power right assoc", "2^3^2", 0, 0, 512},
		{"unary minus binds looser than power", "-2^2", 0, 0, -4},
		{"negative exponent", "2^-1", 0, 0, 0.5},
		{"precedence", "1 + 2 * 3", 0, 0, 7},
		{"modulo sign of divisor", "-7 % 3", 0, 0, 2},
		{"mod function", "mod(7, -3)", 0, 0, -2},
		{"constants", "2 pi", 0, 0, 2 * math.Pi},
		{"exponent literal", "1e-2 x", 100, 0, 1},
		{"e after number", "2e", 0, 0, 2 * math.E},
		{"log base", "log(8, 2)", 0, 0, 3},
		{"variadic max", "max(x, t, 4)", 1, 2, 4},
		{"min two", "min(x, t)", 1, 2, 1},
		{"nested", "exp(-x^2 / 2) sin(t)", 0, math.Pi / 2, 1},
		{"leading dot", ".5x", 4, 0, 2},
		{"unary plus", "+x", 4, 0, 4},
		{"sign", "sign(-3)", 0, 0, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Compile(tt.expr)
			if err != nil {
				t.Fatalf("Compile(%q) failed: %v", tt.expr, err)
			}
			got, err := p.Eval(tt.x, tt.t)
			if err != nil {
				t.Fatalf("Eval failed: %v", err)
			}
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("%q at x=%v t=%v = %v, want %v", tt.expr, tt.x, tt.t, got, tt.want)
			}
		})
	}
}

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		name string
		expr string
		pos  int
	}{
		{"double operator", "x +* 2", 3},
		{"empty", "", 0},
		{"blank", "   ", 0},
		{"unknown symbol", "y + 1", 0},
		{"unknown function", "foo(x)", 0},
		{"unclosed paren", "(x + 1", 6},
		{"trailing operator", "x -", 3},
		{"bad character", "x $ 2", 2},
		{"wrong arity", "sin(x, t)", 0},
		{"missing args", "sin + 1", 0},
		{"stray close", "x)", 1},
		{"empty call", "cos()", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Compile(tt.expr)
			if err == nil {
				t.Fatalf("Compile(%q) = %v, want error", tt.expr, p)
			}
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("expected *ParseError, got %T", err)
			}
			if pe.Expr != tt.expr {
				t.Errorf("error expr = %q, want %q", pe.Expr, tt.expr)
			}
			if tt.name != "blank" && pe.Pos != tt.pos {
				t.Errorf("error pos = %d, want %d (%v)", pe.Pos, tt.pos, pe)
			}
		})
	}
}

func TestEvalNonFinite(t *testing.T) {
	p := MustCompile("1 / x")

	_, err := p.Eval(0, 0)
	if err == nil {
		t.Fatal("expected error for 1/0")
	}
	if !errors.Is(err, ErrNonFinite) {
		t.Errorf("expected ErrNonFinite, got %v", err)
	}

	var ee *EvalError
	if !errors.As(err, &ee) {
		t.Fatalf("expected *EvalError, got %T", err)
	}
	if !math.IsInf(ee.Result, 1) {
		t.Errorf("expected +Inf result recorded, got %v", ee.Result)
	}

	if _, err := MustCompile("sqrt(x)").Eval(-1, 0); !errors.Is(err, ErrNonFinite) {
		t.Errorf("expected NaN to be reported, got %v", err)
	}
}

func TestOutOfRangeLiteral(t *testing.T) {
	p, err := Compile("1e400 x")
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	if _, err := p.Eval(1, 0); !errors.Is(err, ErrNonFinite) {
		t.Errorf("expected ErrNonFinite for an infinite literal, got %v", err)
	}

	p, err = Compile("1e-400 + x")
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	if got, err := p.Eval(2, 0); err != nil || got != 2 {
		t.Errorf("expected underflow to zero, got %v, %v", got, err)
	}
}

func TestConstantFolding(t *testing.T) {
	v, ok := MustCompile("2 * (3 + 4)").Constant()
	if !ok || v != 14 {
		t.Errorf("expected folded constant 14, got %v (ok=%v)", v, ok)
	}
	if _, ok := MustCompile("2x").Constant(); ok {
		t.Error("expression with x must not fold")
	}
}

func TestZeroProfile(t *testing.T) {
	prof := Zero().Profile()
	for _, x := range []float64{0, 1, 1e9} {
		v, err := prof(x, x)
		if err != nil || v != 0 {
			t.Errorf("Zero profile at %v = %v, %v", x, v, err)
		}
	}
	if Zero().Source() != "0" {
		t.Errorf("unexpected zero source %q", Zero().Source())
	}
}

func TestFunctionsListed(t *testing.T) {
	names := Functions()
	if len(names) != len(builtins) {
		t.Fatalf("expected %d names, got %d", len(builtins), len(names))
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] > names[i] {
			t.Fatalf("names not sorted: %v", names)
		}
	}
}
