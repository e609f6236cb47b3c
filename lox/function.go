package lox

import "fmt"

// Function is a user-defined function or method closed over the environment
// it was declared in.
type Function struct {
	Decl    *FunctionStmt
	Closure *Env

	isInitializer bool
	source        string
}

func newFunction(decl *FunctionStmt, closure *Env, isInitializer bool) *Function {
	return &Function{Decl: decl, Closure: closure, isInitializer: isInitializer}
}

func (fn *Function) Name() string { return fn.Decl.Name.Lexeme }

func (fn *Function) Arity() int { return len(fn.Decl.Params) }

func (fn *Function) Call(in *Interpreter, args []Value) (Value, error) {
	return in.callFunction(fn, args)
}

// Bind returns a copy of fn whose closure has `this` bound to inst.
func (fn *Function) Bind(inst *Instance) *Function {
	env := newEnv(fn.Closure)
	env.Define("this", NewInstance(inst))
	bound := newFunction(fn.Decl, env, fn.isInitializer)
	bound.source = fn.source
	return bound
}

func (fn *Function) String() string {
	return fmt.Sprintf("<fn %s>", fn.Name())
}
