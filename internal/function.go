package internal

import "fmt"

type callable interface {
	arity() int
	call(exec *exec, arguments []interface{}) interface{}
}

type function struct {
	declaration   *fnStmt
	closure       *env
	isInitializer bool
}

func (f *function) arity() int {
	return len(f.declaration.params)
}

func (f *function) call(exec *exec, arguments []interface{}) interface{} {
	env := newEnv(f.closure)
	for i, param := range f.declaration.params {
		env.define(param.lexeme, arguments[i])
	}

	result := exec.executeBlock(f.declaration.body, env)

	// Initializers always hand back the instance, even after a bare return
	if f.isInitializer {
		return f.closure.getAt(0, "self")
	}
	if ret, isReturn := result.(*returnValue); isReturn {
		return ret.value
	}
	return nil
}

// bind makes a copy of the method whose closure has self defined
func (f *function) bind(object *instance) *function {
	environment := newEnv(f.closure)
	environment.define("self", object)
	return &function{
		declaration:   f.declaration,
		closure:       environment,
		isInitializer: f.isInitializer,
	}
}

func (f *function) String() string {
	return fmt.Sprintf("<fn %s>", f.declaration.name.lexeme)
}

type nativeFn struct {
	name       string
	arityValue int
	callFn     func(exec *exec, arguments []interface{}) interface{}
}

func (n *nativeFn) arity() int {
	return n.arityValue
}

func (n *nativeFn) call(exec *exec, arguments []interface{}) interface{} {
	return n.callFn(exec, arguments)
}

func (n *nativeFn) String() string {
	return "<native fn>"
}
