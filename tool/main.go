// Command tool generates the marker interfaces for sum types described in an
// .adt file:
//
//	type Expression = Boolean | Integer | Call;
//
// becomes an Expression interface with an is_Expression method, implemented by
// each of the listed types.
package main

import (
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/alecthomas/participle"

	. "github.com/dave/jennifer/jen"
)

type TypeDecls struct {
	Declarations []*Declaration `@@*`
}

type Declaration struct {
	Name     string   `"type" @Ident "="`
	Variants []string `@Ident ( "|" @Ident )* ";"`
}

var parser = participle.MustBuild(&TypeDecls{})

func ParseDecls(data []byte) (*TypeDecls, error) {
	decls := &TypeDecls{}
	if err := parser.ParseBytes(data, decls); err != nil {
		return nil, err
	}

	for _, decl := range decls.Declarations {
		seen := map[string]bool{}
		for _, it := range decl.Variants {
			if seen[it] {
				return nil, fmt.Errorf("%s lists %s twice", decl.Name, it)
			}
			seen[it] = true
		}
	}
	return decls, nil
}

func GenerateDecls(source, pkgname string, t *TypeDecls) string {
	f := NewFile(pkgname)
	f.HeaderComment(fmt.Sprintf("Code generated by tool from %s. DO NOT EDIT.", source))

	for _, decl := range t.Declarations {
		f.Type().Id(decl.Name).Interface(
			Id("is_" + decl.Name).Params(),
		)

		for _, it := range decl.Variants {
			f.Func().Params(Id("v").Id(it)).Id("is_" + decl.Name).Params().Block()
		}
	}

	return fmt.Sprintf("%#v", f)
}

func main() {
	if len(os.Args) != 4 {
		fmt.Fprintln(os.Stderr, "usage: tool IN.adt OUT.go PACKAGE")
		os.Exit(2)
	}
	in := os.Args[1]
	out := os.Args[2]
	pkgname := os.Args[3]

	inData, err := ioutil.ReadFile(in)
	if err != nil {
		panic(err)
	}

	decls, err := ParseDecls(inData)
	if err != nil {
		panic(err)
	}

	err = ioutil.WriteFile(out, []byte(GenerateDecls(filepath.Base(in), pkgname, decls)), 0644)
	if err != nil {
		panic(err)
	}
}
