package parser

import (
	"github.com/pontaoski/homonym/errors"
	"github.com/pontaoski/homonym/types"
)

// cursor walks the tokens of one keyword-led statement.
type cursor struct {
	toks []types.Token
	i    int
	end  types.Span
}

func (c *cursor) exhausted() bool {
	return c.i >= len(c.toks)
}

func (c *cursor) peek() types.Token {
	if c.exhausted() {
		return types.Token{Kind: types.EOF, Location: c.end}
	}
	return c.toks[c.i]
}

func (c *cursor) peekIs(k ...types.TokenKind) bool {
	tok := c.peek()
	for _, kind := range k {
		if tok.Kind == kind {
			return true
		}
	}
	return false
}

func (c *cursor) expecting(k ...types.TokenKind) types.Token {
	tok := c.peek()
	for _, kind := range k {
		if tok.Kind == kind {
			c.i++
			return tok
		}
	}

	if len(k) == 1 {
		panic(errors.ExpectedKindGotKind{Expected: k[0], Got: tok.Kind, Location: tok.Location})
	}
	panic(errors.ExpectedOneOfKindGotKind{Expected: k, Got: tok.Kind, Location: tok.Location})
}

func (c *cursor) typeName() types.Token {
	return c.expecting(types.INT, types.FLOAT, types.STRING, types.BOOL, types.TEXT)
}

// group consumes a bracketed run and returns what is between the brackets.
func (c *cursor) group(open, closer types.TokenKind) []types.Token {
	c.expecting(open)
	start := c.i - 1
	end := matching(c.toks, start)
	if end < 0 {
		panic(errors.UnclosedBracket{Open: open, Location: c.toks[start].Location})
	}
	if c.toks[end].Kind != closer {
		panic(errors.UnbalancedBracket{Got: c.toks[end].Kind, Open: open, Location: c.toks[end].Location})
	}
	c.i = end + 1
	return c.toks[start+1 : end]
}

// until returns the tokens before the next top-level k without consuming k.
func (c *cursor) until(k types.TokenKind) []types.Token {
	start := c.i
	depth := 0
	for j := c.i; j < len(c.toks); j++ {
		tok := c.toks[j]
		if depth == 0 && tok.Kind == k {
			c.i = j
			return c.toks[start:j]
		}
		switch {
		case opens(tok.Kind):
			depth++
		case closes(tok.Kind):
			depth--
		}
	}
	panic(errors.ExpectedKindGotKind{Expected: k, Got: types.EOF, Location: c.end})
}

func (c *cursor) rest() []types.Token {
	toks := c.toks[c.i:]
	c.i = len(c.toks)
	return toks
}

// done fails if anything is left over.
func (c *cursor) done() {
	if !c.exhausted() {
		tok := c.peek()
		panic(errors.ExpectedKindGotKind{Expected: types.SEMICOLON, Got: tok.Kind, Location: tok.Location})
	}
}
