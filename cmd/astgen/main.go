package main

import (
	"flag"
	"fmt"
	"go/format"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

//go:generate go run . -out ../../internal/expr.go Expr
//go:generate go run . -out ../../internal/stmt.go Stmt

var nodes = map[string][]string{
	"Stmt": {
		"Expr: expression expr",
		"Let: name *token, initializer expr",
		"Block: stmts []stmt",
		"If: keyword *token, condition expr, thenBranch stmt, elseBranch stmt",
		"While: keyword *token, condition expr, body stmt",
		"Fn: name *token, params []*token, body []stmt",
		"Class: name *token, superclass *variableExpr, methods []*fnStmt",
		"Return: keyword *token, value expr",
	},
	"Expr": {
		"Assign: name *token, value expr",
		"Binary: left expr, operator *token, right expr",
		"Call: callee expr, paren *token, arguments []expr",
		"Get: object expr, name *token",
		"Grouping: expression expr",
		"Literal: value interface{}",
		"Logical: left expr, operator *token, right expr",
		"Set: object expr, name *token, value expr",
		"Super: keyword *token, method *token",
		"Self: keyword *token",
		"Unary: operator *token, right expr",
		"Variable: name *token",
	},
}

func main() {
	out := flag.String("out", "", "output file (stdout when empty)")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage: astgen [-out file] Expr|Stmt")
		os.Exit(64)
	}

	baseName := flag.Arg(0)
	types, ok := nodes[baseName]
	if !ok {
		logrus.Fatalf("unknown node family %q", baseName)
	}

	src, err := format.Source([]byte(generateAst(baseName, types)))
	if err != nil {
		logrus.Fatal(err)
	}

	if *out == "" {
		fmt.Print(string(src))
		return
	}
	if err := os.WriteFile(*out, src, 0644); err != nil {
		logrus.Fatal(err)
	}
}

func generateAst(baseName string, types []string) string {
	out := "// Code generated by astgen. DO NOT EDIT.\n\n"
	out += "package internal\n\n"

	// Start base interface
	out += "type " + strings.ToLower(baseName) + " interface {\n"
	out += "\taccept(" + strings.ToLower(baseName) + "Visitor) R\n"
	out += "}\n\n"
	// End base interface

	// Start Visitor interface
	out += fmt.Sprintf("type %sVisitor interface {\n", strings.ToLower(baseName))
	for _, t := range types {
		typeDef := strings.Split(t, ":")
		name := strings.TrimSpace(typeDef[0])
		structType := strings.ToLower(string(name[0])) + name[1:] + baseName
		out += "\tvisit" + name + baseName + "(" + strings.ToLower(baseName) + " *" + structType + ") R\n"
	}
	out += "}\n\n"
	// End Visitor interface

	// Start structs
	for _, t := range types {
		typeDef := strings.Split(t, ":")
		structName := strings.TrimSpace(typeDef[0])
		structFields := strings.TrimSpace(typeDef[1])
		out += generateType(baseName, structName, structFields)
	}
	// End structs

	return out
}

func generateType(baseName, name, fields string) string {
	// Start Structure Definition
	structName := strings.ToLower(string(name[0])) + name[1:] + baseName
	out := "type " + structName + " struct {\n"
	fieldArray := strings.Split(fields, ",")
	for _, field := range fieldArray {
		out += "\t" + strings.TrimSpace(field) + "\n"
	}
	out += "}\n\n"
	// End Structure Definition

	// Start Method Definition
	out += "func (s *" + structName + ") accept(visitor " + strings.ToLower(baseName) + "Visitor) R {\n"
	out += "\treturn visitor.visit" + name + baseName + "(s)\n"
	out += "}\n\n"
	// End Method Definition

	return out
}
