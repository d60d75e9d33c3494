package internal

import (
	"math"
	"strconv"
)

type rtNumber float64

type rtString string

type rtBool bool

func (n rtNumber) String() string {
	f := float64(n)
	switch {
	case math.IsInf(f, 1):
		return "Inf"
	case math.IsInf(f, -1):
		return "-Inf"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func (s rtString) String() string {
	return string(s)
}

func (b rtBool) String() string {
	return strconv.FormatBool(bool(b))
}

// stringify renders a runtime value the way print shows it
func stringify(value interface{}) string {
	if value == nil {
		return "nil"
	}
	if s, ok := value.(interface{ String() string }); ok {
		return s.String()
	}
	return "<unknown>"
}

// truthy: nil and false are falsy, everything else is truthy
func truthy(value interface{}) bool {
	if value == nil {
		return false
	}
	if b, isBool := value.(rtBool); isBool {
		return bool(b)
	}
	return true
}

// isEqual compares values of the same kind, different kinds are never equal
func isEqual(left, right interface{}) bool {
	return left == right
}
