// Package typeref decodes type-reference annotations such as <int,string>.
package typeref

import (
	"strings"

	"github.com/alecthomas/participle"
	"github.com/alecthomas/participle/lexer"
	"github.com/pontaoski/homonym/errors"
)

type annotation struct {
	Names []string `"<" ( @Ident ","? )+ ">"`
}

var annotationLexer = lexer.Must(lexer.Regexp(
	"(?P<Ident>[`_a-zA-Z][`_a-zA-Z0-9]*)" +
		`|(?P<Punct>[<>,])` +
		`|(\s+)`,
))

var annotationParser = participle.MustBuild(&annotation{}, participle.Lexer(annotationLexer))

// Decode returns the type names listed in raw, left to right.
// An annotation must name at least one type.
func Decode(raw string) ([]string, error) {
	if strings.TrimSpace(strings.Trim(strings.TrimSpace(raw), "<>,")) == "" {
		return nil, errors.EmptyTypeReference{Raw: raw}
	}

	a := &annotation{}
	if err := annotationParser.ParseString(raw, a); err != nil {
		return nil, errors.MalformedTypeReference{Raw: raw, Reason: err.Error()}
	}
	return a.Names, nil
}

// Encode renders names as an annotation; Decode(Encode(n)) == n.
func Encode(names []string) string {
	return "<" + strings.Join(names, ",") + ">"
}
