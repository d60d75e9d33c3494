package internal

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/sirupsen/logrus"
)

type testPrinter struct {
	printed string
}

func (t *testPrinter) Println(a ...interface{}) (n int, err error) {
	for i, e := range a {
		if i != 0 {
			t.printed += " "
		}
		t.printed += fmt.Sprintf("%v", e)
	}
	t.printed += "\n"
	return 0, nil
}

func (t *testPrinter) Equals(p string) bool {
	if t.printed == p+"\n" {
		t.Reset()
		return true
	}
	return false
}

func (t *testPrinter) Reset() {
	t.printed = ""
}

func checkExpression(t *testing.T, exp string, result string) {
	t.Helper()
	source := "print(" + exp + ");"
	tp := &testPrinter{}
	if err := RunSourceWithPrinter(source, tp); err != nil {
		t.Errorf("Error on: \n%s\n\tunexpected error %v", exp, err)
		return
	}
	if !tp.Equals(result) {
		t.Errorf(
			"Error on: \n%s\n\tResult should be equal to %s instead of %s",
			exp,
			result,
			tp.printed,
		)
	}
}

func checkErrorMsg(t *testing.T, source string, errorMsg string, line int) {
	t.Helper()
	expected := fmt.Sprintf("Runtime Error on line %d\n\t%s", line, errorMsg)

	tp := &testPrinter{}
	err := RunSourceWithPrinter(source, tp)
	var runErr *RuntimeError
	if !errors.As(err, &runErr) {
		t.Errorf("\nSource:\n----\n%s\n----\nExpected a runtime error, got %v", source, err)
		return
	}
	if runErr.Error() != expected {
		t.Errorf(
			"\nSource:\n----\n%s\n----\nExpected:\n----\n%s\n----\nFound:\n----\n%s\n----",
			source,
			expected,
			runErr.Error(),
		)
	}
}

func checkStatements(t *testing.T, code string, resultVar string, result string) {
	t.Helper()
	source := code + "\nprint(" + resultVar + ");"
	tp := &testPrinter{}
	if err := RunSourceWithPrinter(source, tp); err != nil {
		t.Errorf("Error on: \n%s\n\tunexpected error %v", code, err)
		return
	}
	if !tp.Equals(result) {
		t.Errorf(
			"Error on: \n%s\n\t%s should be equal to %s instead of %s",
			code,
			resultVar,
			result,
			tp.printed,
		)
	}
}

func TestExpressions(t *testing.T) {

	// Arithmethic
	{
		checkExpression(t, "1", "1")
		checkExpression(t, "-1", "-1")
		checkExpression(t, "2.5", "2.5")
		checkExpression(t, "1 + 2 + 3", "6")
		checkExpression(t, "8 - 2", "6")
		checkExpression(t, "10 - 2 - 3", "5")
		checkExpression(t, "1 * 2 * 3", "6")
		checkExpression(t, "12 / 2", "6")
		checkExpression(t, "1 / 4", "0.25")
		checkExpression(t, "7 % 3", "1")
		checkExpression(t, "1 + 2 * 3", "7")
		checkExpression(t, "(1 + 2) * 3", "9")
		checkExpression(t, "--3", "3")
	}

	// Division by zero is not guarded
	{
		checkExpression(t, "1 / 0", "Inf")
		checkExpression(t, "-1 / 0", "-Inf")
		checkExpression(t, "0 / 0", "NaN")
		checkExpression(t, "5 % 0", "NaN")
	}

	// Strings
	{
		checkExpression(t, `"a" + "b"`, "ab")
		checkExpression(t, `'single'`, "single")
		checkExpression(t, `"it's"`, "it's")
		checkExpression(t, `'say "hi"'`, `say "hi"`)
		checkExpression(t, `""`, "")
	}

	// Logical
	{
		checkExpression(t, "true", "true")
		checkExpression(t, "false", "false")
		checkExpression(t, "nil", "nil")

		checkExpression(t, "!true", "false")
		checkExpression(t, "!nil", "true")
		checkExpression(t, "!0", "false")
		checkExpression(t, `!""`, "false")
		checkExpression(t, "!!1", "true")

		checkExpression(t, "1 and 2", "2")
		checkExpression(t, "nil and 2", "nil")
		checkExpression(t, "false and undefinedName", "false")
		checkExpression(t, `false or "x"`, "x")
		checkExpression(t, "1 or undefinedName", "1")
		checkExpression(t, "nil or false", "false")
	}

	// Comparison
	{
		checkExpression(t, "1 < 2", "true")
		checkExpression(t, "2 <= 2", "true")
		checkExpression(t, "3 > 4", "false")
		checkExpression(t, "3 >= 4", "false")
	}

	// Equality
	{
		checkExpression(t, "1 == 1", "true")
		checkExpression(t, `1 == "1"`, "false")
		checkExpression(t, "nil == nil", "true")
		checkExpression(t, "nil == false", "false")
		checkExpression(t, "0 == false", "false")
		checkExpression(t, `"a" == "a"`, "true")
		checkExpression(t, "1 != 2", "true")
		checkExpression(t, "true == true", "true")
		checkExpression(t, "print == print", "true")
	}

	// Natives
	{
		checkExpression(t, "print", "<native fn>")
		checkExpression(t, "clock() > 0", "true")
	}
}

func TestStatements(t *testing.T) {
	// Comments
	{
		checkStatements(t, `
		// This is a "comment"
		let i = 0; /* another
		one */
		`, "i", "0")
	}

	// Blocks and shadowing
	{
		checkStatements(t, `let x = 1; { let x = 2; }`, "x", "1")
		checkStatements(t, `let x = 1; { x = 2; }`, "x", "2")
		checkStatements(t, `let a;`, "a", "nil")
		checkStatements(t, `let a = 1; let a = 2;`, "a", "2")
	}

	// If-else
	{
		checkStatements(t, `
		let i = 0;
		if (i == 0) i = 10; else i = 20;
		`, "i", "10")

		checkStatements(t, `
		let i = 1;
		if (i == 0) i = 10; else i = 20;
		`, "i", "20")

		checkStatements(t, `
		let i = 0;
		if (nil) i = 10;
		`, "i", "0")
	}

	// While loop
	{
		checkStatements(t, `
		let i = 0;
		while (i * 2 < 10) {
			i = i + 1;
		}
		`, "i", "5")
	}

	// For loop
	{
		checkStatements(t, `
		let x = 1;
		for (let i = 1; i <= 8; i = i + 1) {
			x = x * i;
		}`, "x", "40320")

		checkStatements(t, `
		let x = 40320;
		let u = 0;
		for (; u < 10; u = u + 1) x = x - u;
		`, "x", "40275")

		checkStatements(t, `
		let i = 100;
		for (let i = 0; i < 3; i = i + 1) {}
		`, "i", "100")

		checkStatements(t, `
		let i = 0;
		for (i = 5; i < 7;) i = i + 1;
		`, "i", "7")
	}

	// Functions
	{
		checkStatements(t, `
		fun fib(n) {
			if (n < 2) return n;
			return fib(n - 1) + fib(n - 2);
		}
		let r = fib(10);
		`, "r", "55")

		checkStatements(t, `fun f() {} let r = f();`, "r", "nil")
		checkStatements(t, `fun f() { return; } let r = f();`, "r", "nil")
		checkStatements(t, `fun f() {} let r = f;`, "r", "<fn f>")

		checkStatements(t, `
		let r = 0;
		fun f() {
			r = 1;
			return;
			r = 2;
		}
		f();
		`, "r", "1")

		checkStatements(t, `
		fun f() {
			let i = 0;
			while (true) {
				i = i + 1;
				if (i == 3) return "done " + "after loop";
			}
		}
		let r = f();
		`, "r", "done after loop")

		checkStatements(t, `
		fun f() {
			for (let i = 0; i < 10; i = i + 1) {
				{
					if (i == 4) return i;
				}
			}
			return -1;
		}
		let r = f();
		`, "r", "4")
	}

	// Closures
	{
		checkStatements(t, `
		fun counter() {
			let i = 0;
			fun inc() {
				i = i + 1;
				return i;
			}
			return inc;
		}
		let c = counter();
		c();
		let r = c();
		`, "r", "2")

		checkStatements(t, `
		fun counter() {
			let i = 0;
			fun inc() {
				i = i + 1;
				return i;
			}
			return inc;
		}
		let a = counter();
		let b = counter();
		a();
		a();
		let r = a() + b();
		`, "r", "4")

		checkStatements(t, `
		fun makePair() {
			let shared = 0;
			fun set(v) { shared = v; }
			fun get() { return shared; }
			set(41);
			return get;
		}
		let r = makePair()() + 1;
		`, "r", "42")
	}

	// Shadowing after a closure captured a binding
	{
		checkStatements(t, `
		let a = "global";
		let first;
		let second;
		{
			fun showA() {
				return a;
			}
			first = showA();
			let a = "block";
			second = showA();
		}
		let r = first + " " + second;
		`, "r", "global global")

		checkStatements(t, `
		let r;
		{
			let a = "outer";
			{
				fun showA() {
					return a;
				}
				let a = "inner";
				r = showA();
			}
		}
		`, "r", "outer")
	}

	// Classes
	{
		checkStatements(t, `class C {} let r = C;`, "r", "C")
		checkStatements(t, `class C {} let r = C();`, "r", "C instance")

		checkStatements(t, `
		class C {}
		let c = C();
		c.f = 3;
		let r = c.f;
		`, "r", "3")

		checkStatements(t, `
		class C {
			m() { return 1; }
		}
		let c = C();
		c.m = 2;
		let r = c.m;
		`, "r", "2")

		checkStatements(t, `
		class C {
			init() { self.n = 7; }
			get() { return self.n; }
		}
		let m = C().get;
		let r = m();
		`, "r", "7")

		checkStatements(t, `
		class C {
			m() { return 1; }
		}
		let r = C().m;
		`, "r", "<fn m>")

		checkStatements(t, `
		class Counter {
			init(start) { self.count = start; }
			inc() {
				self.count = self.count + 1;
				return self;
			}
		}
		let r = Counter(1).inc().inc().count;
		`, "r", "3")

		checkStatements(t, `
		class Outer {
			method() {
				fun inner() { return self; }
				return inner();
			}
		}
		let o = Outer();
		let r = o.method() == o;
		`, "r", "true")
	}

	// Initializers
	{
		checkStatements(t, `
		class P {
			init() {
				self.x = 1;
				return;
				self.x = 2;
			}
		}
		let r = P().x;
		`, "r", "1")

		checkStatements(t, `
		class P {
			init() {}
		}
		let p = P();
		let r = p.init() == p;
		`, "r", "true")

		checkStatements(t, `
		class P {
			init(a, b) { self.sum = a + b; }
		}
		let r = P(2, 3).sum;
		`, "r", "5")
	}

	// Inheritance
	{
		checkStatements(t, `
		class A {
			init(v) { self.v = v; }
			get() { return self.v; }
		}
		class B extends A {}
		let b = B(5);
		let r = b.get();
		`, "r", "5")

		checkStatements(t, `
		class A {
			name() { return self.kind(); }
			kind() { return "A"; }
		}
		class B extends A {
			kind() { return "B"; }
		}
		let r = B().name();
		`, "r", "B")

		checkStatements(t, `
		class A {
			hi() { return "A"; }
		}
		class B extends A {
			hi() { return "B" + super.hi(); }
		}
		class C extends B {}
		let r = C().hi();
		`, "r", "BA")

		checkStatements(t, `
		class A {
			init(x) { self.x = x; }
		}
		class B extends A {
			init(x, y) {
				super.init(x);
				self.y = y;
			}
		}
		let b = B(1, 2);
		let r = b.x + b.y;
		`, "r", "3")

		checkStatements(t, `
		class A {
			who() { return self.tag; }
		}
		class B extends A {
			init() { self.tag = "b"; }
			who() {
				let m = super.who;
				return m();
			}
		}
		let r = B().who();
		`, "r", "b")
	}
}

func TestPrintOrder(t *testing.T) {
	tp := &testPrinter{}
	err := RunSourceWithPrinter(`
	print(1);
	print("two");
	print(nil);
	print(true);
	`, tp)
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if !tp.Equals("1\ntwo\nnil\ntrue") {
		t.Errorf("unexpected output %q", tp.printed)
	}
}

func TestRuntimeErrors(t *testing.T) {
	// Expression errors
	{
		checkErrorMsg(t, `1 + "a";`, "Operands must be two numbers or two strings.", 1)
		checkErrorMsg(t, `nil + nil;`, "Operands must be two numbers or two strings.", 1)
		checkErrorMsg(t, `"A" - "B";`, "Operands must be numbers.", 1)
		checkErrorMsg(t, `"a" < 1;`, "Operands must be numbers.", 1)
		checkErrorMsg(t, `true % 2;`, "Operands must be numbers.", 1)
		checkErrorMsg(t, `-"B";`, "Operand must be a number.", 1)

		// Call not callable
		checkErrorMsg(t, `"B"();`, "Can only call functions and classes.", 1)

		// Wrong number of arguments
		checkErrorMsg(t, `fun f(a, b) {} f(1);`, "Expected 2 arguments but got 1.", 1)
		checkErrorMsg(t, `class C {} C(1);`, "Expected 0 arguments but got 1.", 1)
		checkErrorMsg(t, `print();`, "Expected 1 arguments but got 0.", 1)

		// Get and set on non-instances
		checkErrorMsg(t, `let n = 1; n.x;`, "Only instances have properties.", 1)
		checkErrorMsg(t, `let n = 1; n.x = 2;`, "Only instances have fields.", 1)

		// Missing property
		checkErrorMsg(t, `class C {} C().missing;`, "Undefined property 'missing'.", 1)
	}

	// Statement errors
	{
		checkErrorMsg(t, `let a = b;`, "Undefined variable 'b'.", 1)
		checkErrorMsg(t, `a = 1;`, "Undefined variable 'a'.", 1)
		checkErrorMsg(t, `let a = a;`, "Undefined variable 'a'.", 1)

		checkErrorMsg(t, `
		let a = 1;
		let b = a + nil;
		`, "Operands must be two numbers or two strings.", 3)

		checkErrorMsg(t, `
		let NotClass = 1;
		class D extends NotClass {}
		`, "Superclass must be a class.", 3)

		checkErrorMsg(t, `
		class A {}
		class B extends A {
			m() { return super.nope(); }
		}
		B().m();
		`, "Undefined property 'nope'.", 4)

		checkErrorMsg(t, `fun f() { return f(); } f();`, "Stack overflow.", 1)
	}
}

func TestRuntimeErrorKinds(t *testing.T) {
	tests := []struct {
		source string
		kind   error
		lexeme string
	}{
		{`missing;`, errUndefinedVar, "missing"},
		{`class C {} C().field;`, errUndefinedProp, "field"},
		{`fun f(a) {} f();`, errInvalidNumberArguments, ")"},
		{`1 < "a";`, errOnlyNumbers, "<"},
	}

	for _, test := range tests {
		err := RunSourceWithPrinter(test.source, &testPrinter{})
		var runErr *RuntimeError
		if !errors.As(err, &runErr) {
			t.Errorf("%s: expected a runtime error, got %v", test.source, err)
			continue
		}
		if !errors.Is(err, test.kind) {
			t.Errorf("%s: expected %v to match %v", test.source, err, test.kind)
		}
		if runErr.Lexeme() != test.lexeme {
			t.Errorf("%s: expected the error at %q, got %q", test.source, test.lexeme, runErr.Lexeme())
		}
	}
}

func TestRuntimeErrorStopsRun(t *testing.T) {
	tp := &testPrinter{}
	err := RunSourceWithPrinter(`print("before"); 1 + "a"; print("after");`, tp)

	var runErr *RuntimeError
	if !errors.As(err, &runErr) {
		t.Fatalf("expected a runtime error, got %v", err)
	}
	if !errors.Is(err, errNumbersOrStrings) {
		t.Errorf("expected %v to wrap %v", err, errNumbersOrStrings)
	}
	if runErr.Lexeme() != "+" || runErr.Line() != 1 {
		t.Errorf("unexpected location %q line %d", runErr.Lexeme(), runErr.Line())
	}
	if !tp.Equals("before") {
		t.Errorf("statements after the error must not run, printed %q", tp.printed)
	}
}

func TestStaticErrorPreventsExecution(t *testing.T) {
	tp := &testPrinter{}
	err := RunSourceWithPrinter(`print("never"); return 1;`, tp)

	var staticErr *StaticError
	if !errors.As(err, &staticErr) {
		t.Fatalf("expected a static error, got %v", err)
	}
	if tp.printed != "" {
		t.Errorf("nothing should run, printed %q", tp.printed)
	}
}

func TestScanAndParseErrorsReportedTogether(t *testing.T) {
	tests := []struct {
		source string
		want   []Diagnostic
	}{
		{
			source: "print(@1);\nprint(;\n",
			want: []Diagnostic{
				{Line: 1, Message: errIllegalChar.Error()},
				{Line: 2, Where: " at ';'", Message: errExpectedExpr.Error()},
			},
		},
		{
			source: "print(1);\n\"open",
			want:   []Diagnostic{{Line: 2, Message: errUnclosedString.Error()}},
		},
	}

	for _, test := range tests {
		tp := &testPrinter{}
		err := RunSourceWithPrinter(test.source, tp)

		var staticErr *StaticError
		if !errors.As(err, &staticErr) {
			t.Fatalf("%q: expected a static error, got %v", test.source, err)
		}
		if diff := cmp.Diff(test.want, staticErr.Diagnostics()); diff != "" {
			t.Errorf("%q: diagnostics mismatch (-want +got):\n%s", test.source, diff)
		}
		if tp.printed != "" {
			t.Errorf("%q: nothing should run, printed %q", test.source, tp.printed)
		}
	}
}

func TestScanErrorsSkipResolver(t *testing.T) {
	err := NewInterpreter().Check("@\nreturn 1;")

	var staticErr *StaticError
	if !errors.As(err, &staticErr) {
		t.Fatalf("expected a static error, got %v", err)
	}
	want := []Diagnostic{{Line: 1, Message: errIllegalChar.Error()}}
	if diff := cmp.Diff(want, staticErr.Diagnostics()); diff != "" {
		t.Errorf("diagnostics mismatch (-want +got):\n%s", diff)
	}
}

func TestMaxCallDepth(t *testing.T) {
	source := `
	fun down(n) {
		if (n == 0) return 0;
		return down(n - 1);
	}
	down(20);
	`
	if err := NewInterpreter(WithMaxCallDepth(50)).Run(source); err != nil {
		t.Errorf("unexpected error %v", err)
	}
	err := NewInterpreter(WithMaxCallDepth(10)).Run(source)
	if !errors.Is(err, errStackOverflow) {
		t.Errorf("expected stack overflow, got %v", err)
	}
}

func TestMaxCallDepthIsClamped(t *testing.T) {
	if got := NewInterpreter(WithMaxCallDepth(1 << 30)).maxDepth; got != MaxCallDepthLimit {
		t.Errorf("expected the depth to be clamped to %d, got %d", MaxCallDepthLimit, got)
	}
	if got := NewInterpreter(WithMaxCallDepth(-1)).maxDepth; got != DefaultMaxCallDepth {
		t.Errorf("expected the default depth, got %d", got)
	}

	err := NewInterpreter(WithMaxCallDepth(1<<30)).Run("fun f(n) { return f(n + 1); } f(0);")
	if !errors.Is(err, errStackOverflow) {
		t.Errorf("expected stack overflow instead of a crash, got %v", err)
	}
}

func TestDumpUsesGivenLogger(t *testing.T) {
	var buf strings.Builder
	log := logrus.New()
	log.Out = &buf
	log.SetLevel(logrus.DebugLevel)

	tokens, err := DumpTokens("let a = 1;", WithLogger(log))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(tokens, "1 EOF \n") {
		t.Errorf("unexpected tokens %q", tokens)
	}
	if !strings.Contains(buf.String(), "source scanned") {
		t.Errorf("expected the scan to be logged, got %q", buf.String())
	}

	buf.Reset()
	tree, err := DumpTree("print(;", WithLogger(log))
	if err == nil {
		t.Errorf("expected a static error, got tree %q", tree)
	}
	if !strings.Contains(buf.String(), "tokens parsed") {
		t.Errorf("expected the parse to be logged, got %q", buf.String())
	}
}

func TestSession(t *testing.T) {
	tp := &testPrinter{}
	interp := NewInterpreter(WithPrinter(tp))

	steps := []struct {
		source  string
		printed string
		fails   bool
	}{
		{source: "let a = 1;"},
		{source: "fun inc(x) { return x + a; }"},
		{source: "print(inc(1));", printed: "2"},
		{source: "a + nil;", fails: true},
		{source: "print(a);", printed: "1"},
		{source: "let = ;", fails: true},
		{source: "class P { init() { self.v = a; } }"},
		{source: "{ let local = P(); print(local.v); }", printed: "1"},
	}

	for _, step := range steps {
		err := interp.Run(step.source)
		if step.fails != (err != nil) {
			t.Errorf("%s: unexpected error state %v", step.source, err)
		}
		want := ""
		if step.printed != "" {
			want = step.printed + "\n"
		}
		if tp.printed != want {
			t.Errorf("%s: printed %q, want %q", step.source, tp.printed, want)
		}
		tp.Reset()
	}
}

func TestRuntimeErrorString(t *testing.T) {
	err := RunSourceWithPrinter("let x = 1;\nx();", &testPrinter{})
	if err == nil {
		t.Fatal("expected an error")
	}
	if !strings.HasPrefix(err.Error(), "Runtime Error on line 2") {
		t.Errorf("unexpected message %q", err.Error())
	}
}
