package lox

// Class is a runtime class. Methods hold unbound functions; binding happens
// on property access.
type Class struct {
	Name       string
	Superclass *Class
	Methods    map[string]*Function
}

// FindMethod looks name up on the class, then along the superclass chain.
func (c *Class) FindMethod(name string) (*Function, bool) {
	for class := c; class != nil; class = class.Superclass {
		if method, ok := class.Methods[name]; ok {
			return method, true
		}
	}
	return nil, false
}

// Arity is the arity of init, inherited or not, or zero without one.
func (c *Class) Arity() int {
	if init, ok := c.FindMethod("init"); ok {
		return init.Arity()
	}
	return 0
}

// Call instantiates the class and runs init against the new instance.
func (c *Class) Call(in *Interpreter, args []Value) (Value, error) {
	inst := &Instance{Class: c, Fields: make(map[string]Value)}
	if init, ok := c.FindMethod("init"); ok {
		if _, err := init.Bind(inst).Call(in, args); err != nil {
			return Value{}, err
		}
	}
	return NewInstance(inst), nil
}

func (c *Class) String() string { return c.Name }

type Instance struct {
	Class  *Class
	Fields map[string]Value
}

// Get reads a field, falling back to a method bound to the instance.
func (i *Instance) Get(name string) (Value, bool) {
	if val, ok := i.Fields[name]; ok {
		return val, true
	}
	if method, ok := i.Class.FindMethod(name); ok {
		return NewFunction(method.Bind(i)), true
	}
	return Value{}, false
}

func (i *Instance) Set(name string, val Value) {
	i.Fields[name] = val
}

func (i *Instance) String() string { return i.Class.Name + " instance" }
