package lang

import (
	"log/slog"
)

// Parse parses a single watch expression.
func Parse(src string) (Node, error) {
	toks, err := lex(src)
	if err != nil {
		return nil, err
	}

	p := &parser{src: src, toks: toks}

	n, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	if tok := p.peek(); tok.kind != tokEOF {
		return nil, p.unexpected(tok, "end of input")
	}

	return n, nil
}

// ParseLambda parses src and requires it to be a lambda, possibly wrapped in
// parentheses.
func ParseLambda(src string) (*Lambda, error) {
	n, err := Parse(src)
	if err != nil {
		return nil, err
	}

	for {
		paren, ok := n.(*Paren)
		if !ok {
			break
		}

		n = paren.Inner
	}

	lam, ok := n.(*Lambda)
	if !ok {
		return nil, ErrNotLambda.With(slog.String("kind", Kind(n)))
	}

	return lam, nil
}

// Binary operator precedence, loosest first. Assignment, lambda and the
// conditional operator are handled above this table.
const (
	precNone = iota
	precCoalesce
	precOr
	precAnd
	precBitOr
	precBitXor
	precBitAnd
	precEquality
	precRelational
	precShift
	precAdditive
	precMultiplicative
)

var binaryPrec = map[string]int{
	"??": precCoalesce,
	"||": precOr,
	"&&": precAnd,
	"|":  precBitOr,
	"^":  precBitXor,
	"&":  precBitAnd,
	"==": precEquality,
	"!=": precEquality,
	"<":  precRelational,
	">":  precRelational,
	"<=": precRelational,
	">=": precRelational,
	"is": precRelational,
	"as": precRelational,
	"<<": precShift,
	">>": precShift,
	"+":  precAdditive,
	"-":  precAdditive,
	"*":  precMultiplicative,
	"/":  precMultiplicative,
	"%":  precMultiplicative,
}

var assignOps = map[string]struct{}{
	"=": {}, "+=": {}, "-=": {}, "*=": {}, "/=": {}, "%=": {},
	"&=": {}, "|=": {}, "^=": {}, "<<=": {}, "??=": {},
}

// parser holds the parser state. The token stream is fully scanned up front
// so that ambiguous prefixes (casts, generic arguments) can backtrack by
// resetting pos.
type parser struct {
	src  string
	toks []token
	pos  int
}

// parseExpression parses: Lambda | Conditional [AssignOp Expression].
func (p *parser) parseExpression() (Node, error) {
	if p.atLambda() {
		return p.parseLambda()
	}

	left, err := p.parseConditional()
	if err != nil {
		return nil, err
	}

	op, width := p.assignOp()
	if width == 0 {
		return left, nil
	}

	p.pos += width

	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	return &Assign{span: span{left.Pos()}, Op: op, Target: left, Value: value}, nil
}

// assignOp reports the assignment operator at the cursor and how many tokens
// it spans. A right shift assignment is scanned as > followed by >=.
func (p *parser) assignOp() (string, int) {
	tok := p.peek()
	if tok.kind != tokPunct {
		return "", 0
	}

	if tok.text == ">" {
		if next := p.peekAt(1); next.punct(">=") && next.pos.Offset == tok.end {
			return ">>=", 2
		}

		return "", 0
	}

	if _, ok := assignOps[tok.text]; ok {
		return tok.text, 1
	}

	return "", 0
}

// atLambda reports whether the cursor is at a lambda header: an identifier
// followed by =>, or a balanced parenthesized list followed by =>.
func (p *parser) atLambda() bool {
	tok := p.peek()

	switch {
	case tok.kind == tokIdent:
		return p.peekAt(1).punct("=>")

	case tok.punct("("):
		depth := 0

		for i := p.pos; i < len(p.toks); i++ {
			switch t := p.toks[i]; {
			case t.kind == tokEOF:
				return false
			case t.punct("("):
				depth++
			case t.punct(")"):
				depth--

				if depth == 0 {
					return i+1 < len(p.toks) && p.toks[i+1].punct("=>")
				}
			}
		}
	}

	return false
}

// parseLambda parses: (Identifier | '(' [Param {',' Param}] ')') '=>' Body.
func (p *parser) parseLambda() (Node, error) {
	start := p.peek()
	lam := &Lambda{span: span{start.pos}}

	if start.kind == tokIdent {
		p.advance()

		lam.Params = []Param{{Name: start.text}}
	} else {
		p.advance() // skip '('

		lam.Parens = true

		for !p.peek().punct(")") {
			param, err := p.parseParam()
			if err != nil {
				return nil, err
			}

			lam.Params = append(lam.Params, param)

			if !p.accept(",") {
				break
			}
		}

		if _, err := p.expect(")"); err != nil {
			return nil, err
		}
	}

	if _, err := p.expect("=>"); err != nil {
		return nil, err
	}

	var err error

	if p.peek().punct("{") {
		lam.Body, err = p.parseBlock()
	} else {
		lam.Body, err = p.parseExpression()
	}

	if err != nil {
		return nil, err
	}

	return lam, nil
}

// parseParam parses an implicitly typed (x) or explicitly typed (int x)
// lambda parameter.
func (p *parser) parseParam() (Param, error) {
	tok := p.peek()
	if tok.kind == tokIdent {
		if next := p.peekAt(1); next.punct(",") || next.punct(")") {
			p.advance()

			return Param{Name: tok.text}, nil
		}
	}

	typ, err := p.parseType()
	if err != nil {
		return Param{}, err
	}

	name := p.peek()
	if name.kind != tokIdent {
		return Param{}, p.unexpected(name, "parameter name")
	}

	p.advance()

	return Param{Name: name.text, Type: typ}, nil
}

// parseBlock captures a balanced { ... } statement body as raw text.
func (p *parser) parseBlock() (Node, error) {
	open := p.advance()
	depth := 1

	for {
		tok := p.advance()

		switch {
		case tok.kind == tokEOF:
			return nil, ErrSyntax.WithPosition(open.pos).
				With(slog.String("error", "unterminated block"))
		case tok.punct("{"):
			depth++
		case tok.punct("}"):
			depth--

			if depth == 0 {
				return &Block{
					span:   span{open.pos},
					Source: p.src[open.pos.Offset:tok.end],
				}, nil
			}
		}
	}
}

// parseConditional parses: Binary ['?' Expression ':' Expression].
func (p *parser) parseConditional() (Node, error) {
	cond, err := p.parseBinary(precCoalesce)
	if err != nil {
		return nil, err
	}

	if !p.accept("?") {
		return cond, nil
	}

	then, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(":"); err != nil {
		return nil, err
	}

	els, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	return &Conditional{span: span{cond.Pos()}, Cond: cond, Then: then, Else: els}, nil
}

// binaryOp reports the binary operator at the cursor, how many tokens it
// spans and its precedence. A right shift is scanned as two adjacent >.
func (p *parser) binaryOp() (string, int, int) {
	tok := p.peek()

	switch {
	case tok.keyword("is"), tok.keyword("as"):
		return tok.text, 1, precRelational

	case tok.kind != tokPunct:
		return "", 0, precNone

	case tok.text == ">":
		next := p.peekAt(1)
		if next.pos.Offset == tok.end {
			switch {
			case next.punct(">"):
				return ">>", 2, precShift
			case next.punct(">="):
				return "", 0, precNone // >>= is an assignment
			}
		}
	}

	prec, ok := binaryPrec[tok.text]
	if !ok {
		return "", 0, precNone
	}

	return tok.text, 1, prec
}

// parseBinary parses a chain of binary operators binding at least as tightly
// as minPrec. ?? is right-associative; every other operator is left.
func (p *parser) parseBinary(minPrec int) (Node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	for {
		op, width, prec := p.binaryOp()
		if prec == precNone || prec < minPrec {
			return left, nil
		}

		p.pos += width

		if op == "is" || op == "as" {
			typ, err := p.parseType()
			if err != nil {
				return nil, err
			}

			left = &TypeTest{span: span{left.Pos()}, Op: op, Operand: left, Type: typ}

			continue
		}

		next := prec + 1
		if op == "??" {
			next = prec
		}

		right, err := p.parseBinary(next)
		if err != nil {
			return nil, err
		}

		left = &Binary{span: span{left.Pos()}, Op: op, Left: left, Right: right}
	}
}

// parseUnary parses prefix operators and casts.
func (p *parser) parseUnary() (Node, error) {
	tok := p.peek()

	if tok.kind == tokPunct {
		switch tok.text {
		case "+", "-", "!", "~", "++", "--":
			p.advance()

			operand, err := p.parseUnary()
			if err != nil {
				return nil, err
			}

			return &Unary{span: span{tok.pos}, Op: tok.text, Operand: operand}, nil

		case "(":
			if typ, ok := p.tryCast(); ok {
				operand, err := p.parseUnary()
				if err != nil {
					return nil, err
				}

				return &Cast{span: span{tok.pos}, Type: typ, Operand: operand}, nil
			}
		}
	}

	n, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}

	return p.parsePostfix(n)
}

// tryCast consumes '(' Type ')' if it introduces a cast, and restores the
// cursor otherwise. A parenthesized predefined, generic, nullable or array
// type is always a cast; a parenthesized name is a cast only when followed by
// a token that can start an operand but not a binary operator.
func (p *parser) tryCast() (*TypeName, bool) {
	save := p.pos

	p.advance() // skip '('

	typ, err := p.parseType()
	if err != nil || !p.accept(")") {
		p.pos = save

		return nil, false
	}

	next := p.peek()

	_, predefined := predefinedTypes[typ.Name]
	if predefined || typ.Nullable || len(typ.Args) > 0 || len(typ.Ranks) > 0 {
		if startsOperand(next) || next.punct("+") || next.punct("-") {
			return typ, true
		}
	} else if startsOperand(next) {
		return typ, true
	}

	p.pos = save

	return nil, false
}

func startsOperand(tok token) bool {
	switch tok.kind {
	case tokIdent, tokNumber, tokString, tokChar:
		return true
	case tokKeyword:
		return !tok.keyword("is") && !tok.keyword("as")
	case tokPunct:
		return tok.text == "(" || tok.text == "!" || tok.text == "~"
	default:
		return false
	}
}

// parsePrimary parses literals, names, parenthesized expressions and the
// keyword-introduced forms.
func (p *parser) parsePrimary() (Node, error) {
	tok := p.peek()
	at := span{tok.pos}

	switch tok.kind {
	case tokNumber:
		p.advance()

		return &Literal{span: at, Kind: LiteralNumber, Text: tok.text}, nil

	case tokString:
		p.advance()

		return &Literal{span: at, Kind: LiteralString, Text: tok.text}, nil

	case tokChar:
		p.advance()

		return &Literal{span: at, Kind: LiteralChar, Text: tok.text}, nil

	case tokIdent:
		p.advance()

		if _, ok := predefinedTypes[tok.text]; ok {
			return &TypeExpr{span: at, Type: &TypeName{Name: tok.text}}, nil
		}

		return &Identifier{span: at, Name: tok.text, TypeArgs: p.tryTypeArgs()}, nil

	case tokKeyword:
		return p.parseKeyword()

	case tokPunct:
		if tok.punct("(") {
			p.advance()

			inner, err := p.parseExpression()
			if err != nil {
				return nil, err
			}

			if _, err := p.expect(")"); err != nil {
				return nil, err
			}

			return &Paren{span: at, Inner: inner}, nil
		}
	}

	return nil, p.unexpected(tok, "expression")
}

func (p *parser) parseKeyword() (Node, error) {
	tok := p.advance()
	at := span{tok.pos}

	switch tok.text {
	case "true", "false":
		return &Literal{span: at, Kind: LiteralBool, Text: tok.text}, nil

	case "null":
		return &Literal{span: at, Kind: LiteralNull, Text: tok.text}, nil

	case "this":
		return &This{span: at}, nil

	case "base":
		return &Base{span: at}, nil

	case "typeof", "default":
		typ, err := p.parseParenType()
		if err != nil {
			return nil, err
		}

		if tok.text == "typeof" {
			return &TypeOf{span: at, Type: typ}, nil
		}

		return &Default{span: at, Type: typ}, nil

	case "new":
		return p.parseNew(at)
	}

	return nil, p.unexpected(tok, "expression")
}

func (p *parser) parseParenType() (*TypeName, error) {
	if _, err := p.expect("("); err != nil {
		return nil, err
	}

	typ, err := p.parseType()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(")"); err != nil {
		return nil, err
	}

	return typ, nil
}

// parseNew parses the remainder of an object, array or anonymous object
// creation after the new keyword.
func (p *parser) parseNew(at span) (Node, error) {
	if p.peek().punct("{") {
		fields, err := p.parseList("{", "}")
		if err != nil {
			return nil, err
		}

		return &NewAnonymous{span: at, Fields: fields}, nil
	}

	typ, err := p.parseType()
	if err != nil {
		return nil, err
	}

	switch tok := p.peek(); {
	case tok.punct("("):
		args, err := p.parseList("(", ")")
		if err != nil {
			return nil, err
		}

		return &New{span: at, Type: typ, Args: args}, nil

	case tok.punct("["):
		sizes, err := p.parseList("[", "]")
		if err != nil {
			return nil, err
		}

		arr := &NewArray{span: at, Type: typ, Sizes: sizes}

		if p.peek().punct("{") {
			if arr.Init, err = p.parseInit(); err != nil {
				return nil, err
			}
		}

		return arr, nil

	case tok.punct("{") && len(typ.Ranks) > 0:
		init, err := p.parseInit()
		if err != nil {
			return nil, err
		}

		return &NewArray{span: at, Type: typ, Init: init}, nil

	default:
		return nil, p.unexpected(tok, "( or [")
	}
}

// parseInit parses an array initializer, which is never nil on success.
func (p *parser) parseInit() ([]Node, error) {
	init, err := p.parseList("{", "}")
	if err != nil {
		return nil, err
	}

	if init == nil {
		init = []Node{}
	}

	return init, nil
}

// parseList parses open [Expression {',' Expression} [',']] end. A trailing
// comma is accepted only in braces.
func (p *parser) parseList(open, end string) ([]Node, error) {
	if _, err := p.expect(open); err != nil {
		return nil, err
	}

	var list []Node

	for !p.peek().punct(end) {
		n, err := p.parseExpression()
		if err != nil {
			return nil, err
		}

		list = append(list, n)

		if !p.accept(",") {
			break
		}

		if end != "}" && p.peek().punct(end) {
			return nil, p.unexpected(p.peek(), "expression")
		}
	}

	if _, err := p.expect(end); err != nil {
		return nil, err
	}

	return list, nil
}

// parsePostfix parses member access, invocation, element access and postfix
// increment or decrement applied to n.
func (p *parser) parsePostfix(n Node) (Node, error) {
	for {
		tok := p.peek()

		switch {
		case tok.punct("."):
			p.advance()

			name := p.peek()
			if name.kind != tokIdent {
				return nil, p.unexpected(name, "member name")
			}

			p.advance()

			n = &Member{
				span:     span{n.Pos()},
				Target:   n,
				Name:     name.text,
				TypeArgs: p.tryTypeArgs(),
			}

		case tok.punct("("):
			args, err := p.parseList("(", ")")
			if err != nil {
				return nil, err
			}

			n = &Call{span: span{n.Pos()}, Func: n, Args: args}

		case tok.punct("["):
			args, err := p.parseList("[", "]")
			if err != nil {
				return nil, err
			}

			if len(args) == 0 {
				return nil, p.unexpected(tok, "index")
			}

			n = &Index{span: span{n.Pos()}, Target: n, Args: args}

		case tok.punct("++"), tok.punct("--"):
			p.advance()

			n = &Unary{span: span{n.Pos()}, Op: tok.text, Operand: n, Postfix: true}

		default:
			return n, nil
		}
	}
}

// parseType parses: Name {'.' Name} [TypeArgs] ['?'] {'[' {','} ']'}.
func (p *parser) parseType() (*TypeName, error) {
	tok := p.peek()
	if tok.kind != tokIdent {
		return nil, p.unexpected(tok, "type")
	}

	p.advance()

	typ := &TypeName{Name: tok.text}

	for p.peek().punct(".") && p.peekAt(1).kind == tokIdent {
		p.advance()
		typ.Name += "." + p.advance().text
	}

	if p.peek().punct("<") {
		args, err := p.parseTypeArgs()
		if err != nil {
			return nil, err
		}

		typ.Args = args
	}

	if p.peek().punct("?") && p.nullableMarker() {
		p.advance()

		typ.Nullable = true
	}

	for p.peek().punct("[") {
		i := 1
		for p.peekAt(i).punct(",") {
			i++
		}

		if !p.peekAt(i).punct("]") {
			break
		}

		p.pos += i + 1
		typ.Ranks = append(typ.Ranks, i)
	}

	return typ, nil
}

// nullableMarker reports whether the ? at the cursor belongs to the preceding
// type rather than starting a conditional expression.
func (p *parser) nullableMarker() bool {
	switch next := p.peekAt(1); {
	case next.kind == tokEOF:
		return true
	case next.kind == tokPunct:
		switch next.text {
		case ")", ",", ">", "]", "[":
			return true
		}
	case next.kind == tokIdent:
		// int? x) in a typed lambda parameter list
		after := p.peekAt(2)

		return after.punct(",") || (after.punct(")") && p.peekAt(3).punct("=>"))
	}

	return false
}

// parseTypeArgs parses: '<' Type {',' Type} '>'.
func (p *parser) parseTypeArgs() ([]*TypeName, error) {
	if _, err := p.expect("<"); err != nil {
		return nil, err
	}

	var args []*TypeName

	for {
		arg, err := p.parseType()
		if err != nil {
			return nil, err
		}

		args = append(args, arg)

		if !p.accept(",") {
			break
		}
	}

	if _, err := p.expect(">"); err != nil {
		return nil, err
	}

	return args, nil
}

// tryTypeArgs consumes explicit type arguments following a name when they
// are followed by a token that disambiguates them from a comparison.
func (p *parser) tryTypeArgs() []*TypeName {
	if !p.peek().punct("<") {
		return nil
	}

	save := p.pos

	args, err := p.parseTypeArgs()
	if err == nil {
		switch next := p.peek(); {
		case next.kind == tokEOF:
			return args
		case next.kind == tokPunct:
			switch next.text {
			case "(", ")", "]", ".", ",", ":", ";":
				return args
			}
		}
	}

	p.pos = save

	return nil
}

// Helper methods

func (p *parser) peek() token {
	return p.peekAt(0)
}

func (p *parser) peekAt(n int) token {
	if i := p.pos + n; i < len(p.toks) {
		return p.toks[i]
	}

	return p.toks[len(p.toks)-1]
}

func (p *parser) advance() token {
	tok := p.peek()
	if tok.kind != tokEOF {
		p.pos++
	}

	return tok
}

func (p *parser) accept(text string) bool {
	if p.peek().punct(text) {
		p.advance()

		return true
	}

	return false
}

func (p *parser) expect(text string) (token, error) {
	tok := p.peek()
	if !tok.punct(text) {
		return token{}, p.unexpected(tok, text)
	}

	return p.advance(), nil
}

func (p *parser) unexpected(tok token, expected string) error {
	found := tok.text
	if tok.kind == tokEOF {
		found = tok.kind.String()
	}

	err := ErrSyntax.WithPosition(tok.pos).With(slog.String("unexpected", found))
	if expected != "" {
		err = err.With(slog.String("expected", expected))
	}

	return err
}
