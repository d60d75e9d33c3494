package internal

import (
	"time"
)

func defineGlobals(e *env) {
	defineIo(e)
	defineClock(e)
}

func defineIo(e *env) {
	e.define("print", &nativeFn{
		name:       "print",
		arityValue: 1,
		callFn: func(exec *exec, arguments []interface{}) interface{} {
			exec.printer.Println(stringify(arguments[0]))
			return nil
		},
	})
}

func defineClock(e *env) {
	e.define("clock", &nativeFn{
		name:       "clock",
		arityValue: 0,
		callFn: func(exec *exec, arguments []interface{}) interface{} {
			return rtNumber(float64(time.Now().UnixNano()) / float64(time.Second))
		},
	})
}
