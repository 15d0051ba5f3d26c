package forcefn

import (
	"math"
	"sort"
)

// builtin describes a library function. Exactly one of f1/f2 is set unless
// both arities are accepted (log).
type builtin struct {
	f1       func(float64) float64
	f2       func(float64, float64) float64
	variadic bool // f2 folded left over 2+ arguments
}

var builtins = map[string]builtin{
	"sin":   {f1: math.Sin},
	"cos":   {f1: math.Cos},
	"tan":   {f1: math.Tan},
	"asin":  {f1: math.Asin},
	"acos":  {f1: math.Acos},
	"atan":  {f1: math.Atan},
	"sinh":  {f1: math.Sinh},
	"cosh":  {f1: math.Cosh},
	"tanh":  {f1: math.Tanh},
	"exp":   {f1: math.Exp},
	"log":   {f1: math.Log, f2: logBase},
	"log2":  {f1: math.Log2},
	"log10": {f1: math.Log10},
	"sqrt":  {f1: math.Sqrt},
	"cbrt":  {f1: math.Cbrt},
	"abs":   {f1: math.Abs},
	"sign":  {f1: sign},
	"floor": {f1: math.Floor},
	"ceil":  {f1: math.Ceil},
	"round": {f1: math.Round},
	"atan2": {f2: math.Atan2},
	"pow":   {f2: math.Pow},
	"mod":   {f2: floorMod},
	"hypot": {f2: math.Hypot},
	"min":   {f2: math.Min, variadic: true},
	"max":   {f2: math.Max, variadic: true},
}

var constants = map[string]float64{
	"pi":  math.Pi,
	"e":   math.E,
	"tau": 2 * math.Pi,
	"phi": math.Phi,
}

// Functions returns the sorted names of the supported library functions.
func Functions() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func logBase(x, base float64) float64 { return math.Log(x) / math.Log(base) }

func sign(x float64) float64 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return x // preserves 0, -0 and NaN
}
