package internal

import (
	"fmt"
	"strings"
)

//R generic type
type R interface{}

// printTree renders statements as parenthesized prefix notation, one per line
func printTree(stmts []stmt) string {
	var out strings.Builder
	for _, s := range stmts {
		out.WriteString(s.accept(stringVisitor{}).(string))
		out.WriteString("\n")
	}
	return out.String()
}

type stringVisitor struct{}

func (v stringVisitor) visitExprStmt(stmt *exprStmt) R {
	return fmt.Sprintf("(; %v)", stmt.expression.accept(v))
}

func (v stringVisitor) visitLetStmt(stmt *letStmt) R {
	if stmt.initializer == nil {
		return fmt.Sprintf("(let %s)", stmt.name.lexeme)
	}
	return fmt.Sprintf("(let %s %v)", stmt.name.lexeme, stmt.initializer.accept(v))
}

func (v stringVisitor) visitBlockStmt(stmt *blockStmt) R {
	out := "(block"
	for _, s := range stmt.stmts {
		out += fmt.Sprintf(" %v", s.accept(v))
	}
	return out + ")"
}

func (v stringVisitor) visitIfStmt(stmt *ifStmt) R {
	if stmt.elseBranch == nil {
		return fmt.Sprintf("(if %v %v)", stmt.condition.accept(v), stmt.thenBranch.accept(v))
	}
	return fmt.Sprintf(
		"(if-else %v %v %v)",
		stmt.condition.accept(v),
		stmt.thenBranch.accept(v),
		stmt.elseBranch.accept(v),
	)
}

func (v stringVisitor) visitWhileStmt(stmt *whileStmt) R {
	return fmt.Sprintf("(while %v %v)", stmt.condition.accept(v), stmt.body.accept(v))
}

func (v stringVisitor) visitFnStmt(stmt *fnStmt) R {
	out := "(fun " + stmt.name.lexeme + " ("
	for i, param := range stmt.params {
		if i > 0 {
			out += " "
		}
		out += param.lexeme
	}
	out += ")"
	for _, st := range stmt.body {
		out += fmt.Sprintf(" %v", st.accept(v))
	}
	return out + ")"
}

func (v stringVisitor) visitClassStmt(stmt *classStmt) R {
	out := "(class " + stmt.name.lexeme
	if stmt.superclass != nil {
		out += " < " + stmt.superclass.name.lexeme
	}
	for _, method := range stmt.methods {
		out += fmt.Sprintf(" %v", method.accept(v))
	}
	return out + ")"
}

func (v stringVisitor) visitReturnStmt(stmt *returnStmt) R {
	if stmt.value == nil {
		return "(return)"
	}
	return fmt.Sprintf("(return %v)", stmt.value.accept(v))
}

func (v stringVisitor) visitAssignExpr(expr *assignExpr) R {
	return fmt.Sprintf("(= %s %v)", expr.name.lexeme, expr.value.accept(v))
}

func (v stringVisitor) visitBinaryExpr(expr *binaryExpr) R {
	return fmt.Sprintf("(%s %v %v)", expr.operator.lexeme, expr.left.accept(v), expr.right.accept(v))
}

func (v stringVisitor) visitCallExpr(expr *callExpr) R {
	out := fmt.Sprintf("(call %v", expr.callee.accept(v))
	for _, arg := range expr.arguments {
		out += fmt.Sprintf(" %v", arg.accept(v))
	}
	return out + ")"
}

func (v stringVisitor) visitGetExpr(expr *getExpr) R {
	return fmt.Sprintf("(. %v %s)", expr.object.accept(v), expr.name.lexeme)
}

func (v stringVisitor) visitGroupingExpr(expr *groupingExpr) R {
	return fmt.Sprintf("(group %v)", expr.expression.accept(v))
}

func (v stringVisitor) visitLiteralExpr(expr *literalExpr) R {
	if str, isString := expr.value.(rtString); isString {
		return "\"" + string(str) + "\""
	}
	return stringify(expr.value)
}

func (v stringVisitor) visitLogicalExpr(expr *logicalExpr) R {
	return fmt.Sprintf("(%s %v %v)", expr.operator.lexeme, expr.left.accept(v), expr.right.accept(v))
}

func (v stringVisitor) visitSetExpr(expr *setExpr) R {
	return fmt.Sprintf("(=. %v %s %v)", expr.object.accept(v), expr.name.lexeme, expr.value.accept(v))
}

func (v stringVisitor) visitSuperExpr(expr *superExpr) R {
	return "(super " + expr.method.lexeme + ")"
}

func (v stringVisitor) visitSelfExpr(expr *selfExpr) R {
	return "self"
}

func (v stringVisitor) visitUnaryExpr(expr *unaryExpr) R {
	return fmt.Sprintf("(%s %v)", expr.operator.lexeme, expr.right.accept(v))
}

func (v stringVisitor) visitVariableExpr(expr *variableExpr) R {
	return expr.name.lexeme
}
