package internal

import (
	"io"
	"strings"

	"github.com/sirupsen/logrus"
)

// DefaultMaxCallDepth bounds nested calls before a Stack overflow error
const DefaultMaxCallDepth = 1024

// MaxCallDepthLimit is the deepest nesting an interpreter accepts.
// Each interpreted call costs several Go frames, so deeper settings would
// exhaust the goroutine stack instead of raising Stack overflow.
const MaxCallDepthLimit = 10000

// IPrinter printer interface
type IPrinter interface {
	Println(a ...interface{}) (n int, err error)
}

// Option configures an Interpreter
type Option func(*Interpreter)

// WithPrinter sets where print writes to
func WithPrinter(p IPrinter) Option {
	return func(i *Interpreter) {
		i.printer = p
	}
}

// WithLogger sets the logger used to trace each phase of a run
func WithLogger(log logrus.FieldLogger) Option {
	return func(i *Interpreter) {
		i.log = log
	}
}

// WithMaxCallDepth limits how deep calls may nest.
// Values above MaxCallDepthLimit are clamped to it, non positive ones are ignored.
func WithMaxCallDepth(depth int) Option {
	return func(i *Interpreter) {
		switch {
		case depth > MaxCallDepthLimit:
			i.maxDepth = MaxCallDepthLimit
		case depth > 0:
			i.maxDepth = depth
		}
	}
}

// Interpreter runs source units against a shared global environment.
// Definitions made by one Run are visible to the next one.
type Interpreter struct {
	printer  IPrinter
	log      logrus.FieldLogger
	maxDepth int

	globals *env
	locals  map[expr]int
}

// NewInterpreter creates an interpreter with the native globals defined
func NewInterpreter(opts ...Option) *Interpreter {
	discard := logrus.New()
	discard.Out = io.Discard

	i := &Interpreter{
		printer:  nopPrinter{},
		log:      discard,
		maxDepth: DefaultMaxCallDepth,
		globals:  newEnv(nil),
		locals:   make(map[expr]int),
	}
	for _, opt := range opts {
		opt(i)
	}
	defineGlobals(i.globals)
	return i
}

// Run scans, parses, resolves and executes source.
// It returns a *StaticError when the source is not well formed and a
// *RuntimeError when execution failed.
func (i *Interpreter) Run(source string) error {
	state := newState(source, i.log)
	if !i.analyze(state) {
		return state.staticError()
	}

	exec := &exec{
		state:    state,
		globals:  i.globals,
		env:      i.globals,
		locals:   i.locals,
		printer:  i.printer,
		maxDepth: i.maxDepth,
	}
	return exec.interpret()
}

// Check reports static errors without executing anything
func (i *Interpreter) Check(source string) error {
	state := newState(source, i.log)
	i.analyze(state)
	return state.staticError()
}

func (i *Interpreter) analyze(state *state) bool {
	lexer := newLexer(state)
	lexer.scan()
	state.log.WithFields(logrus.Fields{
		"phase":  "scan",
		"tokens": len(state.tokens),
		"errors": len(state.errors),
	}).Debug("source scanned")

	parser := &parser{state: state}
	parser.parse()
	state.log.WithFields(logrus.Fields{
		"phase":      "parse",
		"statements": len(state.stmts),
		"errors":     len(state.errors),
	}).Debug("tokens parsed")

	if !state.valid() {
		return false
	}

	before := len(i.locals)
	resolver := newResolver(state, i.locals)
	resolver.resolve(state.stmts)
	state.log.WithFields(logrus.Fields{
		"phase":  "resolve",
		"locals": len(i.locals) - before,
		"errors": len(state.errors),
	}).Debug("statements resolved")

	return state.valid()
}

// RunSourceWithPrinter runs source code on a fresh interpreter instance
func RunSourceWithPrinter(source string, p IPrinter) error {
	return NewInterpreter(WithPrinter(p)).Run(source)
}

// DumpTokens lists the tokens of source, one per line.
// Only WithLogger is meaningful among opts.
func DumpTokens(source string, opts ...Option) (string, error) {
	state := newState(source, NewInterpreter(opts...).log)
	newLexer(state).scan()
	state.log.WithField("tokens", len(state.tokens)).Debug("source scanned")

	var out strings.Builder
	for _, tk := range state.tokens {
		out.WriteString(tk.String())
		out.WriteByte('\n')
	}
	return out.String(), state.staticError()
}

// DumpTree renders the syntax tree of source
func DumpTree(source string, opts ...Option) (string, error) {
	state := newState(source, NewInterpreter(opts...).log)
	newLexer(state).scan()
	parser := &parser{state: state}
	parser.parse()
	state.log.WithField("statements", len(state.stmts)).Debug("tokens parsed")
	return printTree(state.stmts), state.staticError()
}

type nopPrinter struct{}

func (nopPrinter) Println(a ...interface{}) (n int, err error) {
	return 0, nil
}
