package internal

type functionType int

const (
	fnNone functionType = iota
	fnFunction
	fnInitializer
	fnMethod
)

type classType int

const (
	classNone classType = iota
	classClass
	classSubclass
)

// scope maps a name to whether its initializer already finished
type scope map[string]bool

// resolver computes, for every local variable reference, how many scopes
// away its declaration lives. Globals are left out of locals.
type resolver struct {
	scopes []scope
	locals map[expr]int

	currentFunction functionType
	currentClass    classType

	state *state
}

func newResolver(state *state, locals map[expr]int) *resolver {
	return &resolver{
		scopes:          make([]scope, 0),
		locals:          locals,
		currentFunction: fnNone,
		currentClass:    classNone,
		state:           state,
	}
}

func (r *resolver) resolve(stmts []stmt) {
	for _, s := range stmts {
		s.accept(r)
	}
}

func (r *resolver) resolveExpr(e expr) {
	e.accept(r)
}

func (r *resolver) beginScope() {
	r.scopes = append(r.scopes, make(scope))
}

func (r *resolver) endScope() {
	r.scopes = r.scopes[:len(r.scopes)-1]
}

func (r *resolver) peekScope() scope {
	return r.scopes[len(r.scopes)-1]
}

func (r *resolver) declare(name *token) {
	if len(r.scopes) == 0 {
		return
	}
	sc := r.peekScope()
	if _, ok := sc[name.lexeme]; ok {
		r.state.setError(errAlreadyDeclared, name)
	}
	sc[name.lexeme] = false
}

func (r *resolver) define(name *token) {
	if len(r.scopes) == 0 {
		return
	}
	r.peekScope()[name.lexeme] = true
}

func (r *resolver) resolveLocal(e expr, name *token) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if _, ok := r.scopes[i][name.lexeme]; ok {
			r.locals[e] = len(r.scopes) - 1 - i
			return
		}
	}
}

func (r *resolver) resolveFunction(fn *fnStmt, kind functionType) {
	enclosing := r.currentFunction
	r.currentFunction = kind
	defer func() {
		r.currentFunction = enclosing
	}()

	r.beginScope()
	for _, param := range fn.params {
		r.declare(param)
		r.define(param)
	}
	r.resolve(fn.body)
	r.endScope()
}

func (r *resolver) visitExprStmt(stmt *exprStmt) R {
	r.resolveExpr(stmt.expression)
	return nil
}

func (r *resolver) visitLetStmt(stmt *letStmt) R {
	r.declare(stmt.name)
	if stmt.initializer != nil {
		r.resolveExpr(stmt.initializer)
	}
	r.define(stmt.name)
	return nil
}

func (r *resolver) visitBlockStmt(stmt *blockStmt) R {
	r.beginScope()
	r.resolve(stmt.stmts)
	r.endScope()
	return nil
}

func (r *resolver) visitIfStmt(stmt *ifStmt) R {
	r.resolveExpr(stmt.condition)
	stmt.thenBranch.accept(r)
	if stmt.elseBranch != nil {
		stmt.elseBranch.accept(r)
	}
	return nil
}

func (r *resolver) visitWhileStmt(stmt *whileStmt) R {
	r.resolveExpr(stmt.condition)
	stmt.body.accept(r)
	return nil
}

func (r *resolver) visitFnStmt(stmt *fnStmt) R {
	r.declare(stmt.name)
	r.define(stmt.name)
	r.resolveFunction(stmt, fnFunction)
	return nil
}

func (r *resolver) visitClassStmt(stmt *classStmt) R {
	enclosingClass := r.currentClass
	r.currentClass = classClass
	defer func() {
		r.currentClass = enclosingClass
	}()

	r.declare(stmt.name)
	r.define(stmt.name)

	if stmt.superclass != nil {
		if stmt.superclass.name.lexeme == stmt.name.lexeme {
			r.state.setError(errInheritSelf, stmt.superclass.name)
		}
		r.currentClass = classSubclass
		r.resolveExpr(stmt.superclass)

		r.beginScope()
		r.peekScope()["super"] = true
	}

	r.beginScope()
	r.peekScope()["self"] = true

	for _, method := range stmt.methods {
		kind := fnMethod
		if method.name.lexeme == "init" {
			kind = fnInitializer
		}
		r.resolveFunction(method, kind)
	}

	r.endScope()

	if stmt.superclass != nil {
		r.endScope()
	}
	return nil
}

func (r *resolver) visitReturnStmt(stmt *returnStmt) R {
	if r.currentFunction == fnNone {
		r.state.setError(errTopLevelReturn, stmt.keyword)
	}
	if stmt.value != nil {
		if r.currentFunction == fnInitializer {
			r.state.setError(errInitializerReturn, stmt.keyword)
		}
		r.resolveExpr(stmt.value)
	}
	return nil
}

func (r *resolver) visitAssignExpr(expr *assignExpr) R {
	r.resolveExpr(expr.value)
	r.resolveLocal(expr, expr.name)
	return nil
}

func (r *resolver) visitBinaryExpr(expr *binaryExpr) R {
	r.resolveExpr(expr.left)
	r.resolveExpr(expr.right)
	return nil
}

func (r *resolver) visitCallExpr(expr *callExpr) R {
	r.resolveExpr(expr.callee)
	for _, arg := range expr.arguments {
		r.resolveExpr(arg)
	}
	return nil
}

func (r *resolver) visitGetExpr(expr *getExpr) R {
	r.resolveExpr(expr.object)
	return nil
}

func (r *resolver) visitGroupingExpr(expr *groupingExpr) R {
	r.resolveExpr(expr.expression)
	return nil
}

func (r *resolver) visitLiteralExpr(expr *literalExpr) R {
	return nil
}

func (r *resolver) visitLogicalExpr(expr *logicalExpr) R {
	r.resolveExpr(expr.left)
	r.resolveExpr(expr.right)
	return nil
}

func (r *resolver) visitSetExpr(expr *setExpr) R {
	r.resolveExpr(expr.value)
	r.resolveExpr(expr.object)
	return nil
}

func (r *resolver) visitSuperExpr(expr *superExpr) R {
	switch r.currentClass {
	case classNone:
		r.state.setError(errSuperOutsideClass, expr.keyword)
	case classClass:
		r.state.setError(errSuperWithoutSuperclass, expr.keyword)
	}
	r.resolveLocal(expr, expr.keyword)
	return nil
}

func (r *resolver) visitSelfExpr(expr *selfExpr) R {
	if r.currentClass == classNone {
		r.state.setError(errSelfOutsideClass, expr.keyword)
		return nil
	}
	r.resolveLocal(expr, expr.keyword)
	return nil
}

func (r *resolver) visitUnaryExpr(expr *unaryExpr) R {
	r.resolveExpr(expr.right)
	return nil
}

func (r *resolver) visitVariableExpr(expr *variableExpr) R {
	if len(r.scopes) > 0 {
		if defined, ok := r.peekScope()[expr.name.lexeme]; ok && !defined {
			r.state.setError(errOwnInitializer, expr.name)
		}
	}
	r.resolveLocal(expr, expr.name)
	return nil
}
