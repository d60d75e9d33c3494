package internal

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
)

// Diagnostic is a static error found while scanning, parsing or resolving
type Diagnostic struct {
	Line    int
	Where   string
	Message string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("[line %d] Error%s: %s", d.Line, d.Where, d.Message)
}

// StaticError holds every diagnostic collected before execution
type StaticError struct {
	diagnostics []Diagnostic
}

// Diagnostics returns the collected diagnostics in report order
func (e *StaticError) Diagnostics() []Diagnostic {
	return append([]Diagnostic(nil), e.diagnostics...)
}

func (e *StaticError) Error() string {
	lines := make([]string, len(e.diagnostics))
	for i, d := range e.diagnostics {
		lines[i] = d.String()
	}
	return strings.Join(lines, "\n")
}

// RuntimeError aborts the current run
type RuntimeError struct {
	err   error
	token *token
}

// Line where the error happened
func (e *RuntimeError) Line() int {
	return e.token.line
}

// Lexeme of the offending token
func (e *RuntimeError) Lexeme() string {
	return e.token.lexeme
}

// Message without location information
func (e *RuntimeError) Message() string {
	return e.err.Error()
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("Runtime Error on line %d\n\t%s", e.token.line, e.Message())
}

func (e *RuntimeError) Unwrap() error {
	return e.err
}

type parseError struct {
	err error
}

// state stores everything produced by a single run
type state struct {
	source string
	tokens []token
	stmts  []stmt

	errors       []Diagnostic
	runtimeError *RuntimeError

	log logrus.FieldLogger
}

func newState(source string, log logrus.FieldLogger) *state {
	return &state{
		source: source,
		log:    log,
	}
}

func (s *state) report(line int, where string, err error) {
	s.log.WithFields(logrus.Fields{
		"line":  line,
		"where": where,
	}).Debug(err.Error())
	s.errors = append(s.errors, Diagnostic{
		Line:    line,
		Where:   where,
		Message: err.Error(),
	})
}

func (s *state) setLineError(err error, line int) {
	s.report(line, "", err)
}

func (s *state) setError(err error, tk *token) {
	if tk.token == tkEOF {
		s.report(tk.line, " at end", err)
		return
	}
	s.report(tk.line, " at '"+tk.lexeme+"'", err)
}

func (s *state) fatalError(err error, tk *token) {
	s.setError(err, tk)
	panic(parseError{err: err})
}

func (s *state) runtimeErr(err error, tk *token) {
	s.runtimeError = &RuntimeError{
		err:   err,
		token: tk,
	}
	panic(s.runtimeError)
}

// valid returns true if no static error was reported
func (s *state) valid() bool {
	return len(s.errors) == 0
}

func (s *state) staticError() error {
	if s.valid() {
		return nil
	}
	return &StaticError{diagnostics: s.errors}
}

// Lexer errors
var errIllegalChar = errors.New("Unexpected character.")
var errUnclosedString = errors.New("Unterminated string.")

// Parser errors
var errExpectedExpr = errors.New("Expect expression.")
var errUnclosedParen = errors.New("Expect ')' after expression.")
var errExpectedSemicolon = errors.New("Expect ';' after expression.")
var errExpectedValueSemicolon = errors.New("Expect ';' after value.")
var errExpectedLetSemicolon = errors.New("Expect ';' after variable declaration.")
var errExpectedReturnSemicolon = errors.New("Expect ';' after return value.")
var errExpectedLoopSemicolon = errors.New("Expect ';' after loop condition.")
var errExpectedVarName = errors.New("Expect variable name.")
var errExpectedClassName = errors.New("Expect class name.")
var errExpectedSuperclassName = errors.New("Expect superclass name.")
var errExpectedFunctionName = errors.New("Expect function name.")
var errExpectedParamName = errors.New("Expect parameter name.")
var errExpectedProp = errors.New("Expect property name after '.'.")
var errExpectedSuperDot = errors.New("Expect '.' after 'super'.")
var errExpectedSuperMethod = errors.New("Expect superclass method name.")
var errExpectedOpeningParen = errors.New("Expect '(' here.")
var errExpectedClosingParen = errors.New("Expect ')' here.")
var errExpectedArgsParen = errors.New("Expect ')' after arguments.")
var errExpectedOpeningBrace = errors.New("Expect '{' here.")
var errExpectedClosingBrace = errors.New("Expect '}' after block.")
var errExpectedClassBrace = errors.New("Expect '}' after class body.")
var errInvalidAssignment = errors.New("Invalid assignment target.")
var errMaxArguments = errors.New("Can't have more than 255 arguments.")
var errMaxParameters = errors.New("Can't have more than 255 parameters.")

// Resolver errors
var errOwnInitializer = errors.New("Can't read local variable in its own initializer.")
var errAlreadyDeclared = errors.New("Already a variable with this name in this scope.")
var errTopLevelReturn = errors.New("Can't return from top-level code.")
var errInitializerReturn = errors.New("Can't return a value from an initializer.")
var errSelfOutsideClass = errors.New("Can't use 'self' outside of a class.")
var errSuperOutsideClass = errors.New("Can't use 'super' outside of a class.")
var errSuperWithoutSuperclass = errors.New("Can't use 'super' in a class with no superclass.")
var errInheritSelf = errors.New("A class can't inherit from itself.")

// Runtime errors
var errUndefinedVar = errors.New("Undefined variable")
var errUndefinedProp = errors.New("Undefined property")
var errOnlyNumbers = errors.New("Operands must be numbers.")
var errOnlyNumber = errors.New("Operand must be a number.")
var errNumbersOrStrings = errors.New("Operands must be two numbers or two strings.")
var errUndefinedOp = errors.New("Undefined operator.")
var errOnlyFunction = errors.New("Can only call functions and classes.")
var errInvalidNumberArguments = errors.New("Invalid number of arguments.")
var errExpectedObject = errors.New("Only instances have properties.")
var errExpectedFields = errors.New("Only instances have fields.")
var errSuperclassNotClass = errors.New("Superclass must be a class.")
var errStackOverflow = errors.New("Stack overflow.")

// undefinedName names the missing variable or property, e.g. Undefined variable 'x'.
func undefinedName(err error, name string) error {
	return fmt.Errorf("%w '%s'.", err, name)
}

// arityError reports a call with the wrong number of arguments
type arityError struct {
	expected int
	got      int
}

func (e arityError) Error() string {
	return fmt.Sprintf("Expected %d arguments but got %d.", e.expected, e.got)
}

func (e arityError) Is(target error) bool {
	return target == errInvalidNumberArguments
}
