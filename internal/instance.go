package internal

type instance struct {
	class  *class
	fields map[string]interface{}
}

func newInstance(c *class) *instance {
	return &instance{
		class:  c,
		fields: make(map[string]interface{}),
	}
}

// get returns a field or, failing that, a method bound to the instance
func (o *instance) get(name *token) (interface{}, error) {
	if val, ok := o.fields[name.lexeme]; ok {
		return val, nil
	}
	if method := o.class.findMethod(name.lexeme); method != nil {
		return method.bind(o), nil
	}
	return nil, undefinedName(errUndefinedProp, name.lexeme)
}

func (o *instance) set(name *token, value interface{}) {
	o.fields[name.lexeme] = value
}

func (o *instance) String() string {
	return o.class.name + " instance"
}
