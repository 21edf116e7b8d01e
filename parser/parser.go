package parser

import (
	"github.com/coreos/pkg/capnslog"
	"github.com/pontaoski/homonym/ast"
	"github.com/pontaoski/homonym/errors"
	"github.com/pontaoski/homonym/typeref"
	"github.com/pontaoski/homonym/types"
	"github.com/ztrue/tracerr"
)

var plog = capnslog.NewPackageLogger("github.com/pontaoski/homonym", "parser")

func recoverInto(err *error) {
	if r := recover(); r != nil {
		rerr, ok := r.(error)
		if ok {
			*err = tracerr.Wrap(rerr)
		} else {
			panic(r)
		}
	}
}

var openerOf = map[types.TokenKind]types.TokenKind{
	types.RPAREN: types.LPAREN,
	types.RBRACK: types.LBRACK,
	types.RBRACE: types.LBRACE,
}

// CheckBalanced verifies that (), [] and {} nest properly.
func CheckBalanced(tokens []types.Token) error {
	var open []types.Token
	for _, tok := range tokens {
		switch tok.Kind {
		case types.LPAREN, types.LBRACK, types.LBRACE:
			open = append(open, tok)
		case types.RPAREN, types.RBRACK, types.RBRACE:
			if len(open) == 0 {
				return errors.UnbalancedBracket{Got: tok.Kind, Open: types.EOF, Location: tok.Location}
			}
			top := open[len(open)-1]
			open = open[:len(open)-1]
			if top.Kind != openerOf[tok.Kind] {
				return errors.UnbalancedBracket{Got: tok.Kind, Open: top.Kind, Location: tok.Location}
			}
		}
	}
	if len(open) > 0 {
		top := open[len(open)-1]
		return errors.UnclosedBracket{Open: top.Kind, Location: top.Location}
	}
	return nil
}

// Parse parses tokens holding exactly one statement. A trailing semicolon is
// allowed.
func Parse(tokens []types.Token) (expr ast.Expression, err error) {
	stmts, err := ParseProgram(tokens)
	if err != nil {
		return nil, err
	}

	switch len(stmts) {
	case 0:
		return nil, tracerr.Wrap(errors.EmptyExpression{Location: spanOf(tokens, types.Span{})})
	case 1:
		return stmts[0], nil
	}
	return nil, tracerr.Wrap(errors.ExpectedKindGotKind{
		Expected: types.EOF,
		Got:      types.SEMICOLON,
		Location: ast.PosOf(stmts[1]),
	})
}

// ParseProgram parses a sequence of statements separated by semicolons.
func ParseProgram(tokens []types.Token) (stmts []ast.Expression, err error) {
	defer recoverInto(&err)

	if err := CheckBalanced(tokens); err != nil {
		return nil, tracerr.Wrap(err)
	}

	p := &parser{}
	return p.block(tokens), nil
}

type parser struct{}

func spanOf(toks []types.Token, fallback types.Span) types.Span {
	if len(toks) == 0 {
		return fallback
	}
	return types.Join(toks[0].Location, toks[len(toks)-1].Location)
}

func opens(k types.TokenKind) bool {
	return k == types.LPAREN || k == types.LBRACK || k == types.LBRACE
}

func closes(k types.TokenKind) bool {
	return k == types.RPAREN || k == types.RBRACK || k == types.RBRACE
}

// matching returns the index of the bracket closing toks[i]. Input has
// passed CheckBalanced.
func matching(toks []types.Token, i int) int {
	depth := 0
	for j := i; j < len(toks); j++ {
		switch {
		case opens(toks[j].Kind):
			depth++
		case closes(toks[j].Kind):
			depth--
			if depth == 0 {
				return j
			}
		}
	}
	return -1
}

func startsBlockStatement(k types.TokenKind) bool {
	return k == types.IF || k == types.WHILE || k == types.FUNCTION
}

// splitStatements cuts toks at top-level semicolons. A closing brace that
// ends an if, while or function statement also ends the statement unless an
// else follows.
func splitStatements(toks []types.Token) [][]types.Token {
	var ret [][]types.Token
	start := 0
	depth := 0

	cut := func(end int) {
		if end > start {
			ret = append(ret, toks[start:end])
		}
	}

	for i, tok := range toks {
		switch {
		case opens(tok.Kind):
			depth++
		case closes(tok.Kind):
			depth--
			if depth == 0 && tok.Kind == types.RBRACE && startsBlockStatement(toks[start].Kind) {
				if i+1 < len(toks) && toks[i+1].Kind != types.ELSE && toks[i+1].Kind != types.SEMICOLON {
					cut(i + 1)
					start = i + 1
				}
			}
		case tok.Kind == types.SEMICOLON && depth == 0:
			cut(i)
			start = i + 1
		}
	}
	cut(len(toks))

	return ret
}

func (p *parser) block(toks []types.Token) []ast.Expression {
	var stmts []ast.Expression
	for _, stmt := range splitStatements(toks) {
		stmts = append(stmts, p.statement(stmt))
	}
	return stmts
}

func (p *parser) statement(toks []types.Token) ast.Expression {
	plog.Tracef("statement starting with %s at %s", toks[0].Kind, toks[0].Location)

	c := &cursor{toks: toks, end: toks[len(toks)-1].Location}

	switch toks[0].Kind {
	case types.LET:
		return p.let(c)
	case types.RETURN:
		return p.ret(c)
	case types.IF:
		return p.ifStatement(c)
	case types.WHILE:
		return p.while(c)
	case types.FUNCTION:
		return p.function(c)
	}

	return p.expr(toks, "", toks[0].Location)
}

// let NAME the TYPE = EXPR
func (p *parser) let(c *cursor) ast.Expression {
	start := c.expecting(types.LET)
	name := c.expecting(types.TEXT)
	c.expecting(types.THE)
	kind := c.typeName()
	eq := c.expecting(types.ASSIGNEQUAL)
	value := c.rest()

	return ast.Let{
		Name:  name.Text,
		Type:  kind.TypeName(),
		Value: p.expr(value, kind.TypeName(), eq.Location),
		Pos:   spanOf(c.toks, start.Location),
	}
}

// return the TYPE EXPR
func (p *parser) ret(c *cursor) ast.Expression {
	start := c.expecting(types.RETURN)
	c.expecting(types.THE)
	kind := c.typeName()

	return ast.Return{
		Type:  kind.TypeName(),
		Value: p.expr(c.rest(), kind.TypeName(), kind.Location),
		Pos:   spanOf(c.toks, start.Location),
	}
}

// if EXPR { ... } [else { ... } | else if ...]
func (p *parser) ifStatement(c *cursor) ast.Expression {
	start := c.expecting(types.IF)
	cond := c.until(types.LBRACE)
	then := p.block(c.group(types.LBRACE, types.RBRACE))

	var elseBranch []ast.Expression
	if c.peekIs(types.ELSE) {
		c.expecting(types.ELSE)
		if c.peekIs(types.IF) {
			rest := c.rest()
			elseBranch = []ast.Expression{p.ifStatement(&cursor{toks: rest, end: c.end})}
		} else {
			elseBranch = p.block(c.group(types.LBRACE, types.RBRACE))
		}
	}
	c.done()

	return ast.If{
		Condition: p.expr(cond, types.BoolType, start.Location),
		Then:      then,
		Else:      elseBranch,
		Pos:       spanOf(c.toks, start.Location),
	}
}

// while EXPR { ... }
func (p *parser) while(c *cursor) ast.Expression {
	start := c.expecting(types.WHILE)
	cond := c.until(types.LBRACE)
	body := p.block(c.group(types.LBRACE, types.RBRACE))
	c.done()

	return ast.While{
		Condition: p.expr(cond, types.BoolType, start.Location),
		Body:      body,
		Pos:       spanOf(c.toks, start.Location),
	}
}

// function NAME(p the T, ...) [the R] { ... }
func (p *parser) function(c *cursor) ast.Expression {
	start := c.expecting(types.FUNCTION)
	name := c.expecting(types.TEXT)

	fn := ast.Function{Name: name.Text}

	seen := map[string]bool{}
	params := &cursor{toks: c.group(types.LPAREN, types.RPAREN), end: c.end}
	for !params.exhausted() {
		pname := params.expecting(types.TEXT)
		params.expecting(types.THE)
		kind := params.typeName()

		if seen[pname.Text] {
			panic(errors.DuplicateParameter{Name: pname.Text, Location: pname.Location})
		}
		seen[pname.Text] = true
		fn.Params = append(fn.Params, ast.Param{Name: pname.Text, Type: kind.TypeName()})

		if !params.exhausted() {
			params.expecting(types.COMMA)
		}
	}

	if c.peekIs(types.THE) {
		c.expecting(types.THE)
		fn.Returns = c.typeName().TypeName()
	}

	fn.Body = p.block(c.group(types.LBRACE, types.RBRACE))
	c.done()
	fn.Pos = spanOf(c.toks, start.Location)

	return fn
}

// priority is how late an operator is applied: the operator with the highest
// priority in a span becomes its root. Zero and 100 are never split points.
func priority(k types.TokenKind) int {
	switch k {
	case types.INTVAL, types.FLTVAL, types.STRINGVAL, types.TEXT, types.TRUE, types.FALSE:
		return 0
	case types.STAR, types.FSLASH, types.PERCENT:
		return 25
	case types.PLUS, types.DASH:
		return 50
	case types.COMPEQUAL, types.LESS, types.GREATER, types.LEQ, types.GEQ:
		return 75
	case types.AND:
		return 85
	case types.OR:
		return 90
	}
	return 100
}

var binaryOperators = map[types.TokenKind]ast.Operator{
	types.PLUS:      ast.Plus,
	types.DASH:      ast.Minus,
	types.STAR:      ast.Times,
	types.FSLASH:    ast.DividedBy,
	types.PERCENT:   ast.Modulo,
	types.COMPEQUAL: ast.Equal,
	types.LESS:      ast.Less,
	types.GREATER:   ast.Greater,
	types.LEQ:       ast.LessEq,
	types.GEQ:       ast.GreaterEq,
	types.AND:       ast.And,
	types.OR:        ast.Or,
}

// splitIndex finds the operator to split toks at, ignoring anything inside
// brackets. Among equal priorities the rightmost wins, so operators of one
// tier group left to right. Returns -1 if there is no operator.
func splitIndex(toks []types.Token) int {
	split := -1
	best := 0
	depth := 0
	for i, tok := range toks {
		switch {
		case opens(tok.Kind):
			depth++
			continue
		case closes(tok.Kind):
			depth--
			continue
		}
		if depth > 0 {
			continue
		}

		prio := priority(tok.Kind)
		if prio == 0 || prio == 100 {
			continue
		}
		if prio >= best {
			best = prio
			split = i
		}
	}
	return split
}

// expr parses an expression span. declared is the type a bare identifier
// leaf is read under, if known from the surrounding annotation.
func (p *parser) expr(toks []types.Token, declared string, near types.Span) ast.Expression {
	if len(toks) == 0 {
		panic(errors.EmptyExpression{Location: near})
	}
	for _, tok := range toks {
		if tok.Kind == types.LET {
			panic(errors.NestedLet{Location: tok.Location})
		}
	}

	if toks[0].Kind == types.LPAREN && matching(toks, 0) == len(toks)-1 {
		return p.expr(toks[1:len(toks)-1], declared, toks[0].Location)
	}

	if len(toks) == 1 {
		return leaf(toks[0], declared)
	}

	if len(toks) == 3 && toks[0].Kind == types.TEXT && toks[1].Kind == types.THE && toks[2].IsTypeName() {
		return ast.Text{Name: toks[0].Text, Type: toks[2].TypeName(), Pos: spanOf(toks, near)}
	}

	if idx := splitIndex(toks); idx >= 0 {
		return p.binary(toks, idx)
	}

	switch {
	case toks[0].Kind == types.NOT:
		return p.not(toks)
	case toks[0].Kind == types.TEXT && toks[1].Kind == types.LPAREN && matching(toks, 1) == len(toks)-1:
		return p.call(toks)
	}

	panic(errors.NoOperator{Location: spanOf(toks, near)})
}

func leaf(tok types.Token, declared string) ast.Expression {
	switch tok.Kind {
	case types.INTVAL:
		return ast.Integer{Value: tok.Int, Pos: tok.Location}
	case types.FLTVAL:
		return ast.Float{Value: tok.Float, Pos: tok.Location}
	case types.STRINGVAL:
		return ast.String{Value: tok.Text, Pos: tok.Location}
	case types.TEXT:
		return ast.Text{Name: tok.Text, Type: declared, Pos: tok.Location}
	case types.TRUE:
		return ast.Boolean{Value: true, Pos: tok.Location}
	case types.FALSE:
		return ast.Boolean{Value: false, Pos: tok.Location}
	}
	panic(errors.NotAnExpression{Got: tok.Kind, Location: tok.Location})
}

// annotation decodes the type reference after the operator at toks[idx],
// requiring exactly want names.
func annotation(toks []types.Token, idx int, want int) []string {
	op := toks[idx]
	if idx+1 >= len(toks) || toks[idx+1].Kind != types.TYPEREF {
		panic(errors.MissingTypeReference{Operator: op.Kind, Location: op.Location})
	}

	names, err := typeref.Decode(toks[idx+1].Text)
	switch e := err.(type) {
	case nil:
	case errors.EmptyTypeReference:
		e.Location = toks[idx+1].Location
		panic(e)
	case errors.MalformedTypeReference:
		e.Location = toks[idx+1].Location
		panic(e)
	default:
		panic(err)
	}
	if len(names) != want {
		panic(errors.TypeReferenceArity{Operator: op.Kind, Want: want, Got: len(names), Location: toks[idx+1].Location})
	}
	return names
}

func (p *parser) binary(toks []types.Token, idx int) ast.Expression {
	op := toks[idx]
	names := annotation(toks, idx, 2)
	plog.Tracef("splitting at %s%s (index %d)", op.Kind, typeref.Encode(names), idx)

	return ast.Binary{
		Op:        binaryOperators[op.Kind],
		LeftType:  names[0],
		RightType: names[1],
		Left:      p.expr(toks[:idx], names[0], op.Location),
		Right:     p.expr(toks[idx+2:], names[1], toks[idx+1].Location),
		Pos:       spanOf(toks, op.Location),
	}
}

// not<T> EXPR
func (p *parser) not(toks []types.Token) ast.Expression {
	names := annotation(toks, 0, 1)
	return ast.Not{
		Type:  names[0],
		Value: p.expr(toks[2:], names[0], toks[1].Location),
		Pos:   spanOf(toks, toks[0].Location),
	}
}

// NAME(arg, ...)
func (p *parser) call(toks []types.Token) ast.Expression {
	call := ast.Call{Function: toks[0].Text, Pos: spanOf(toks, toks[0].Location)}

	inner := toks[2 : len(toks)-1]
	start := 0
	depth := 0
	for i, tok := range inner {
		switch {
		case opens(tok.Kind):
			depth++
		case closes(tok.Kind):
			depth--
		case tok.Kind == types.COMMA && depth == 0:
			call.Args = append(call.Args, p.expr(inner[start:i], "", tok.Location))
			start = i + 1
		}
	}
	if len(inner) > 0 {
		call.Args = append(call.Args, p.expr(inner[start:], "", toks[len(toks)-1].Location))
	}

	return call
}
