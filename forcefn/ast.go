package forcefn

import "math"

// Variable slots available to expressions.
const (
	slotX = iota // distance
	slotT        // elapsed time
	numSlots
)

// node is an evaluable expression tree node.
type node interface {
	eval(vars *[numSlots]float64) float64
}

type numberNode struct{ v float64 }

func (n numberNode) eval(*[numSlots]float64) float64 { return n.v }

type varNode struct{ slot int }

func (n varNode) eval(vars *[numSlots]float64) float64 { return vars[n.slot] }

type negNode struct{ x node }

func (n negNode) eval(vars *[numSlots]float64) float64 { return -n.x.eval(vars) }

type binaryNode struct {
	op   byte
	l, r node
}

func (n binaryNode) eval(vars *[numSlots]float64) float64 {
	a := n.l.eval(vars)
	b := n.r.eval(vars)
	return applyBinary(n.op, a, b)
}

func applyBinary(op byte, a, b float64) float64 {
	switch op {
	case '+':
		return a + b
	case '-':
		return a - b
	case '*':
		return a * b
	case '/':
		return a / b
	case '%':
		return floorMod(a, b)
	case '^':
		return math.Pow(a, b)
	}
	return math.NaN()
}

type call1Node struct {
	fn func(float64) float64
	a  node
}

func (n call1Node) eval(vars *[numSlots]float64) float64 { return n.fn(n.a.eval(vars)) }

type call2Node struct {
	fn   func(float64, float64) float64
	a, b node
}

func (n call2Node) eval(vars *[numSlots]float64) float64 {
	return n.fn(n.a.eval(vars), n.b.eval(vars))
}

// fold evaluates n once if it has no variable inputs.
func fold(n node) node {
	if isConst(n) {
		return numberNode{v: n.eval(&[numSlots]float64{})}
	}
	return n
}

func isConst(n node) bool {
	switch v := n.(type) {
	case numberNode:
		return true
	case varNode:
		return false
	case negNode:
		return isConst(v.x)
	case binaryNode:
		return isConst(v.l) && isConst(v.r)
	case call1Node:
		return isConst(v.a)
	case call2Node:
		return isConst(v.a) && isConst(v.b)
	}
	return false
}

// floorMod returns a mod b with the sign of b.
func floorMod(a, b float64) float64 {
	if b == 0 {
		return a
	}
	return a - b*math.Floor(a/b)
}
