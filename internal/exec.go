package internal

import (
	"github.com/sirupsen/logrus"
)

// returnValue travels back from a return statement through blocks and
// loops until the enclosing call picks it up
type returnValue struct {
	value interface{}
}

type exec struct {
	state *state

	globals *env
	env     *env
	locals  map[expr]int

	printer  IPrinter
	depth    int
	maxDepth int
}

func (e *exec) interpret() (err error) {
	defer func() {
		if r := recover(); r != nil {
			runErr, isRuntime := r.(*RuntimeError)
			if !isRuntime {
				panic(r)
			}
			e.env = e.globals
			e.depth = 0
			e.state.log.WithFields(logrus.Fields{
				"phase": "exec",
				"line":  runErr.Line(),
			}).Debug(runErr.Message())
			err = runErr
		}
	}()
	for _, s := range e.state.stmts {
		s.accept(e)
	}
	return nil
}

func (e *exec) visitExprStmt(stmt *exprStmt) R {
	stmt.expression.accept(e)
	return nil
}

func (e *exec) visitLetStmt(stmt *letStmt) R {
	var val interface{}
	if stmt.initializer != nil {
		val = stmt.initializer.accept(e)
	}
	e.env.define(stmt.name.lexeme, val)
	return nil
}

func (e *exec) visitBlockStmt(stmt *blockStmt) R {
	return e.executeBlock(stmt.stmts, newEnv(e.env))
}

// executeBlock runs stmts inside env and stops at the first return
func (e *exec) executeBlock(stmts []stmt, env *env) R {
	previous := e.env
	defer func() {
		e.env = previous
	}()
	e.env = env
	for _, s := range stmts {
		if result := s.accept(e); result != nil {
			return result
		}
	}
	return nil
}

func (e *exec) visitIfStmt(stmt *ifStmt) R {
	if truthy(stmt.condition.accept(e)) {
		return stmt.thenBranch.accept(e)
	}
	if stmt.elseBranch != nil {
		return stmt.elseBranch.accept(e)
	}
	return nil
}

func (e *exec) visitWhileStmt(stmt *whileStmt) R {
	for truthy(stmt.condition.accept(e)) {
		if result := stmt.body.accept(e); result != nil {
			return result
		}
	}
	return nil
}

func (e *exec) visitFnStmt(stmt *fnStmt) R {
	e.env.define(stmt.name.lexeme, &function{
		declaration:   stmt,
		closure:       e.env,
		isInitializer: false,
	})
	return nil
}

func (e *exec) visitClassStmt(stmt *classStmt) R {
	var superclass *class
	if stmt.superclass != nil {
		sc, isClass := stmt.superclass.accept(e).(*class)
		if !isClass {
			e.state.runtimeErr(errSuperclassNotClass, stmt.superclass.name)
		}
		superclass = sc
	}

	e.env.define(stmt.name.lexeme, nil)

	methodsEnv := e.env
	if superclass != nil {
		methodsEnv = newEnv(e.env)
		methodsEnv.define("super", superclass)
	}

	methods := make(map[string]*function, len(stmt.methods))
	for _, method := range stmt.methods {
		methods[method.name.lexeme] = &function{
			declaration:   method,
			closure:       methodsEnv,
			isInitializer: method.name.lexeme == "init",
		}
	}

	e.env.define(stmt.name.lexeme, &class{
		name:       stmt.name.lexeme,
		superclass: superclass,
		methods:    methods,
	})
	return nil
}

func (e *exec) visitReturnStmt(stmt *returnStmt) R {
	var value interface{}
	if stmt.value != nil {
		value = stmt.value.accept(e)
	}
	return &returnValue{value: value}
}

func (e *exec) visitAssignExpr(expr *assignExpr) R {
	val := expr.value.accept(e)
	if distance, ok := e.locals[expr]; ok {
		e.env.assignAt(distance, expr.name, val)
		return val
	}
	if err := e.globals.assign(expr.name, val); err != nil {
		e.state.runtimeErr(err, expr.name)
	}
	return val
}

func (e *exec) visitBinaryExpr(expr *binaryExpr) R {
	left := expr.left.accept(e)
	right := expr.right.accept(e)
	apply, ok := binaryOperations[expr.operator.token]
	if !ok {
		e.state.runtimeErr(errUndefinedOp, expr.operator)
	}
	result, err := apply(left, right)
	if err != nil {
		e.state.runtimeErr(err, expr.operator)
	}
	return result
}

func (e *exec) visitCallExpr(expr *callExpr) R {
	callee := expr.callee.accept(e)
	arguments := make([]interface{}, len(expr.arguments))
	for i := range expr.arguments {
		arguments[i] = expr.arguments[i].accept(e)
	}

	fn, isFn := callee.(callable)
	if !isFn {
		e.state.runtimeErr(errOnlyFunction, expr.paren)
	}

	if len(arguments) != fn.arity() {
		e.state.runtimeErr(arityError{expected: fn.arity(), got: len(arguments)}, expr.paren)
	}

	if e.depth >= e.maxDepth {
		e.state.runtimeErr(errStackOverflow, expr.paren)
	}
	e.depth++
	defer func() {
		e.depth--
	}()

	return fn.call(e, arguments)
}

func (e *exec) visitGetExpr(expr *getExpr) R {
	obj, isInstance := expr.object.accept(e).(*instance)
	if !isInstance {
		e.state.runtimeErr(errExpectedObject, expr.name)
	}
	value, err := obj.get(expr.name)
	if err != nil {
		e.state.runtimeErr(err, expr.name)
	}
	return value
}

func (e *exec) visitSetExpr(expr *setExpr) R {
	obj, isInstance := expr.object.accept(e).(*instance)
	if !isInstance {
		e.state.runtimeErr(errExpectedFields, expr.name)
	}
	value := expr.value.accept(e)
	obj.set(expr.name, value)
	return value
}

func (e *exec) visitSuperExpr(expr *superExpr) R {
	distance := e.locals[expr]
	superclass := e.env.getAt(distance, "super").(*class)
	// self always lives in the scope right inside the one holding super
	object := e.env.getAt(distance-1, "self").(*instance)

	method := superclass.findMethod(expr.method.lexeme)
	if method == nil {
		e.state.runtimeErr(undefinedName(errUndefinedProp, expr.method.lexeme), expr.method)
	}
	return method.bind(object)
}

func (e *exec) visitSelfExpr(expr *selfExpr) R {
	return e.lookUpVariable(expr.keyword, expr)
}

func (e *exec) visitGroupingExpr(expr *groupingExpr) R {
	return expr.expression.accept(e)
}

func (e *exec) visitLiteralExpr(expr *literalExpr) R {
	return expr.value
}

func (e *exec) visitLogicalExpr(expr *logicalExpr) R {
	left := expr.left.accept(e)

	if expr.operator.token == tkOr {
		if truthy(left) {
			return left
		}
	} else if !truthy(left) {
		return left
	}

	return expr.right.accept(e)
}

func (e *exec) visitUnaryExpr(expr *unaryExpr) R {
	value := expr.right.accept(e)
	switch expr.operator.token {
	case tkBang:
		return rtBool(!truthy(value))
	case tkMinus:
		valueNum, ok := value.(rtNumber)
		if !ok {
			e.state.runtimeErr(errOnlyNumber, expr.operator)
		}
		return -valueNum
	default:
		e.state.runtimeErr(errUndefinedOp, expr.operator)
	}
	return nil
}

func (e *exec) visitVariableExpr(expr *variableExpr) R {
	return e.lookUpVariable(expr.name, expr)
}

func (e *exec) lookUpVariable(name *token, expr expr) interface{} {
	if distance, ok := e.locals[expr]; ok {
		return e.env.getAt(distance, name.lexeme)
	}
	value, err := e.globals.get(name)
	if err != nil {
		e.state.runtimeErr(err, name)
	}
	return value
}
