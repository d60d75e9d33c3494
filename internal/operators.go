package internal

import "math"

type operatorApply func(left, right interface{}) (interface{}, error)

func numberOperation(op func(x, y rtNumber) interface{}) operatorApply {
	return func(left, right interface{}) (interface{}, error) {
		x, ok := left.(rtNumber)
		if !ok {
			return nil, errOnlyNumbers
		}
		y, ok := right.(rtNumber)
		if !ok {
			return nil, errOnlyNumbers
		}
		return op(x, y), nil
	}
}

func add(left, right interface{}) (interface{}, error) {
	switch x := left.(type) {
	case rtNumber:
		if y, ok := right.(rtNumber); ok {
			return x + y, nil
		}
	case rtString:
		if y, ok := right.(rtString); ok {
			return x + y, nil
		}
	}
	return nil, errNumbersOrStrings
}

var binaryOperations = map[tokenType]operatorApply{
	tkPlus: add,
	tkMinus: numberOperation(func(x, y rtNumber) interface{} {
		return x - y
	}),
	tkStar: numberOperation(func(x, y rtNumber) interface{} {
		return x * y
	}),
	// Division and modulo by zero follow IEEE 754: Inf or NaN
	tkSlash: numberOperation(func(x, y rtNumber) interface{} {
		return x / y
	}),
	tkMod: numberOperation(func(x, y rtNumber) interface{} {
		return rtNumber(math.Mod(float64(x), float64(y)))
	}),
	tkGreater: numberOperation(func(x, y rtNumber) interface{} {
		return rtBool(x > y)
	}),
	tkGreaterEqual: numberOperation(func(x, y rtNumber) interface{} {
		return rtBool(x >= y)
	}),
	tkLess: numberOperation(func(x, y rtNumber) interface{} {
		return rtBool(x < y)
	}),
	tkLessEqual: numberOperation(func(x, y rtNumber) interface{} {
		return rtBool(x <= y)
	}),
	tkEqualEqual: func(left, right interface{}) (interface{}, error) {
		return rtBool(isEqual(left, right)), nil
	},
	tkBangEqual: func(left, right interface{}) (interface{}, error) {
		return rtBool(!isEqual(left, right)), nil
	},
}
