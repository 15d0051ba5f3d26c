package forcefn

import "fmt"

// parser is a recursive descent parser over the token stream.
//
// Precedence, loosest first:
//
//	additive        + -
//	multiplicative  * / %
//	unary           - +
//	implicit        juxtaposition, e.g. 2t or 2 sin(x)
//	number division n / n before a symbol or '(', so 1/2x is (1/2)x
//	power           ^ (right associative)
//	primary         number, variable, constant, call, parenthesised
type parser struct {
	src  string
	toks []token
	pos  int
}

func parse(src string) (node, error) {
	toks, err := lex(src)
	if err != nil {
		return nil, err
	}
	p := &parser{src: src, toks: toks}

	if p.peek().kind == tokEOF {
		return nil, p.errorf(p.peek(), "empty expression")
	}

	n, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.kind != tokEOF {
		return nil, p.errorf(tok, "unexpected %s", describe(tok))
	}
	return n, nil
}

func (p *parser) peek() token { return p.toks[p.pos] }

// peekAt returns the token k positions ahead, or EOF past the end.
func (p *parser) peekAt(k int) token {
	if i := p.pos + k; i < len(p.toks) {
		return p.toks[i]
	}
	return p.toks[len(p.toks)-1]
}

func (p *parser) next() token {
	tok := p.toks[p.pos]
	if tok.kind != tokEOF {
		p.pos++
	}
	return tok
}

func (p *parser) isOp(ops string) bool {
	tok := p.peek()
	if tok.kind != tokOp {
		return false
	}
	for i := 0; i < len(ops); i++ {
		if tok.text[0] == ops[i] {
			return true
		}
	}
	return false
}

func (p *parser) parseAdditive() (node, error) {
	l, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for p.isOp("+-") {
		op := p.next().text[0]
		r, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		l = fold(binaryNode{op: op, l: l, r: r})
	}
	return l, nil
}

func (p *parser) parseMultiplicative() (node, error) {
	l, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.isOp("*/%") {
		op := p.next().text[0]
		r, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		l = fold(binaryNode{op: op, l: l, r: r})
	}
	return l, nil
}

func (p *parser) parseUnary() (node, error) {
	if p.isOp("+") {
		p.next()
		return p.parseUnary()
	}
	if p.isOp("-") {
		p.next()
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return fold(negNode{x: x}), nil
	}
	return p.parseImplicit()
}

func (p *parser) parseImplicit() (node, error) {
	l, err := p.parseNumberDivision()
	if err != nil {
		return nil, err
	}
	for startsOperand(p.peek()) {
		r, err := p.parseNumberDivision()
		if err != nil {
			return nil, err
		}
		l = fold(binaryNode{op: '*', l: l, r: r})
	}
	return l, nil
}

// parseNumberDivision lets a division of two number literals bind tighter than
// the juxtaposition that follows it: 1/2x is (1/2)x, while x/2y stays x/(2y).
func (p *parser) parseNumberDivision() (node, error) {
	start := p.pos
	l, err := p.parsePower()
	if err != nil {
		return nil, err
	}
	lastIsNumber := p.pos == start+1 && p.toks[start].kind == tokNumber

	for lastIsNumber && p.isOp("/") && p.peekAt(1).kind == tokNumber {
		if after := p.peekAt(2); after.kind != tokIdent && after.kind != tokLParen {
			break
		}
		p.next() // /
		r := numberNode{v: p.next().num}
		l = fold(binaryNode{op: '/', l: l, r: r})
	}
	return l, nil
}

func (p *parser) parsePower() (node, error) {
	base, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	if !p.isOp("^") {
		return base, nil
	}
	p.next()
	exp, err := p.parseExponent()
	if err != nil {
		return nil, err
	}
	return fold(binaryNode{op: '^', l: base, r: exp}), nil
}

// parseExponent accepts a signed power so that 2^-x parses.
func (p *parser) parseExponent() (node, error) {
	if p.isOp("+") {
		p.next()
		return p.parseExponent()
	}
	if p.isOp("-") {
		p.next()
		x, err := p.parseExponent()
		if err != nil {
			return nil, err
		}
		return fold(negNode{x: x}), nil
	}
	return p.parsePower()
}

func (p *parser) parsePrimary() (node, error) {
	tok := p.next()
	switch tok.kind {
	case tokNumber:
		return numberNode{v: tok.num}, nil
	case tokIdent:
		return p.parseIdent(tok)
	case tokLParen:
		n, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		if closing := p.next(); closing.kind != tokRParen {
			return nil, p.errorf(closing, "expected ')' but found %s", describe(closing))
		}
		return n, nil
	}
	return nil, p.errorf(tok, "unexpected %s", describe(tok))
}

func (p *parser) parseIdent(tok token) (node, error) {
	name := tok.text
	if p.peek().kind == tokLParen {
		fn, ok := builtins[name]
		if !ok {
			return nil, p.errorf(tok, "unknown function %q", name)
		}
		return p.parseCall(tok, fn)
	}

	switch name {
	case "x":
		return varNode{slot: slotX}, nil
	case "t":
		return varNode{slot: slotT}, nil
	}
	if v, ok := constants[name]; ok {
		return numberNode{v: v}, nil
	}
	if _, ok := builtins[name]; ok {
		return nil, p.errorf(tok, "function %q needs arguments", name)
	}
	return nil, p.errorf(tok, "unknown symbol %q", name)
}

func (p *parser) parseCall(nameTok token, fn builtin) (node, error) {
	p.next() // (

	var args []node
	if p.peek().kind != tokRParen {
		for {
			arg, err := p.parseAdditive()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if p.peek().kind != tokComma {
				break
			}
			p.next()
		}
	}
	if closing := p.next(); closing.kind != tokRParen {
		return nil, p.errorf(closing, "expected ')' but found %s", describe(closing))
	}

	switch {
	case len(args) == 1 && fn.f1 != nil:
		return fold(call1Node{fn: fn.f1, a: args[0]}), nil
	case len(args) == 2 && fn.f2 != nil:
		return fold(call2Node{fn: fn.f2, a: args[0], b: args[1]}), nil
	case len(args) > 2 && fn.variadic:
		acc := args[0]
		for _, arg := range args[1:] {
			acc = fold(call2Node{fn: fn.f2, a: acc, b: arg})
		}
		return acc, nil
	}
	return nil, p.errorf(nameTok, "%s takes %s, got %d", nameTok.text, arityText(fn), len(args))
}

func (p *parser) errorf(tok token, format string, args ...any) *ParseError {
	return &ParseError{Expr: p.src, Pos: tok.pos, Msg: fmt.Sprintf(format, args...)}
}

// startsOperand reports whether tok can begin an implicitly multiplied operand.
func startsOperand(tok token) bool {
	return tok.kind == tokNumber || tok.kind == tokIdent || tok.kind == tokLParen
}

func describe(tok token) string {
	switch tok.kind {
	case tokOp, tokNumber, tokIdent:
		return fmt.Sprintf("%s %q", tok.kind, tok.text)
	}
	return tok.kind.String()
}

func arityText(fn builtin) string {
	switch {
	case fn.variadic:
		return "2 or more arguments"
	case fn.f1 != nil && fn.f2 != nil:
		return "1 or 2 arguments"
	case fn.f2 != nil:
		return "2 arguments"
	}
	return "1 argument"
}
