package internal

type class struct {
	name       string
	superclass *class
	methods    map[string]*function
}

// findMethod looks the method up in the class and then its superclasses
func (c *class) findMethod(name string) *function {
	if method, ok := c.methods[name]; ok {
		return method
	}
	if c.superclass != nil {
		return c.superclass.findMethod(name)
	}
	return nil
}

func (c *class) arity() int {
	if init := c.findMethod("init"); init != nil {
		return init.arity()
	}
	return 0
}

func (c *class) call(exec *exec, arguments []interface{}) interface{} {
	obj := newInstance(c)
	if init := c.findMethod("init"); init != nil {
		init.bind(obj).call(exec, arguments)
	}
	return obj
}

func (c *class) String() string {
	return c.name
}
