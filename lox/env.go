package lox

// Env is one lexical scope. Closures and bound methods keep their defining
// Env alive through the parent chain.
type Env struct {
	parent *Env
	values map[string]Value
}

func newEnv(parent *Env) *Env {
	return &Env{parent: parent, values: make(map[string]Value)}
}

// Define binds name in this scope, replacing any existing binding.
func (e *Env) Define(name string, val Value) {
	e.values[name] = val
}

// Get looks name up through the whole chain.
func (e *Env) Get(name string) (Value, bool) {
	for env := e; env != nil; env = env.parent {
		if val, ok := env.values[name]; ok {
			return val, true
		}
	}
	return Value{}, false
}

// Assign updates the nearest existing binding of name. It never creates one.
func (e *Env) Assign(name string, val Value) bool {
	for env := e; env != nil; env = env.parent {
		if _, ok := env.values[name]; ok {
			env.values[name] = val
			return true
		}
	}
	return false
}

// Ancestor returns the scope distance hops up the chain, or nil when the
// chain is shorter than that.
func (e *Env) Ancestor(distance int) *Env {
	env := e
	for i := 0; i < distance && env != nil; i++ {
		env = env.parent
	}
	return env
}

// GetAt reads name from exactly the scope distance hops away.
func (e *Env) GetAt(distance int, name string) (Value, bool) {
	env := e.Ancestor(distance)
	if env == nil {
		return Value{}, false
	}
	val, ok := env.values[name]
	return val, ok
}

// AssignAt writes name in exactly the scope distance hops away.
func (e *Env) AssignAt(distance int, name string, val Value) bool {
	env := e.Ancestor(distance)
	if env == nil {
		return false
	}
	if _, ok := env.values[name]; !ok {
		return false
	}
	env.values[name] = val
	return true
}

// Names returns the names bound directly in this scope.
func (e *Env) Names() []string {
	names := make([]string, 0, len(e.values))
	for name := range e.values {
		names = append(names, name)
	}
	return names
}
