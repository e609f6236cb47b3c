package lox

import (
	"fmt"
	"io"
	"time"
)

type callFrame struct {
	Function string
	Pos      Position
}

// Interpreter evaluates resolved programs. Globals and the resolution table
// accumulate across Interpret calls, so functions declared by an earlier
// program stay callable from a later one.
type Interpreter struct {
	globals *Env
	locals  Locals
	out     io.Writer
	clock   func() time.Time

	// source is the text the running code was compiled from; it follows
	// calls into functions declared by earlier programs.
	source string

	callStack    []callFrame
	recursionCap int
	quota        int
	steps        int
}

func newInterpreter(cfg Config) *Interpreter {
	in := &Interpreter{
		globals:      newEnv(nil),
		locals:       make(Locals),
		out:          cfg.Stdout,
		clock:        cfg.Clock,
		recursionCap: cfg.RecursionLimit,
		quota:        cfg.StepQuota,
	}
	in.globals.Define("clock", NewNative(&Native{Name: "clock", Fn: nativeClock}))
	return in
}

func nativeClock(in *Interpreter, args []Value) (Value, error) {
	now := in.clock()
	return NewNumber(float64(now.UnixNano()) / float64(time.Second)), nil
}

// Interpret executes stmts in the global environment. It stops at the first
// runtime error and returns it; output produced before the failure stays
// written.
func (in *Interpreter) Interpret(stmts []Stmt, locals Locals) error {
	in.prepare(locals)
	for _, stmt := range stmts {
		if _, _, err := in.execute(stmt, in.globals); err != nil {
			return err
		}
	}
	return nil
}

// evalTopLevel evaluates a single top-level expression and returns its value.
func (in *Interpreter) evalTopLevel(expr Expr, locals Locals) (Value, error) {
	in.prepare(locals)
	if err := in.step(Token{Pos: expr.Pos()}); err != nil {
		return Value{}, err
	}
	return in.evaluate(expr, in.globals)
}

func (in *Interpreter) prepare(locals Locals) {
	for expr, distance := range locals {
		in.locals[expr] = distance
	}
	in.callStack = in.callStack[:0]
	in.steps = 0
}

// Globals returns the global environment.
func (in *Interpreter) Globals() *Env {
	return in.globals
}

func (in *Interpreter) step(tok Token) error {
	in.steps++
	if in.quota > 0 && in.steps > in.quota {
		return in.wrapError(fmt.Errorf("%w (%d)", errStepQuotaExceeded, in.quota), tok)
	}
	return nil
}

func (in *Interpreter) pushFrame(function string, tok Token) error {
	if in.recursionCap > 0 && len(in.callStack) >= in.recursionCap {
		return in.errorAt(tok, "Stack overflow.")
	}
	in.callStack = append(in.callStack, callFrame{Function: function, Pos: tok.Pos})
	return nil
}

func (in *Interpreter) popFrame() {
	if len(in.callStack) == 0 {
		return
	}
	in.callStack = in.callStack[:len(in.callStack)-1]
}

// callValue applies the call protocol: callable check, exact arity, then
// invocation under a new call frame.
func (in *Interpreter) callValue(callee Value, args []Value, paren Token) (Value, error) {
	fn, ok := callee.Callable()
	if !ok {
		return Value{}, in.errorAt(paren, "Can only call functions and classes.")
	}
	if arity := fn.Arity(); len(args) != arity {
		return Value{}, in.errorAt(paren, "Expected %d arguments but got %d.", arity, len(args))
	}

	if err := in.pushFrame(frameName(callee), paren); err != nil {
		return Value{}, err
	}
	result, err := fn.Call(in, args)
	in.popFrame()
	if err != nil {
		return Value{}, in.wrapError(err, paren)
	}
	return result, nil
}

func frameName(callee Value) string {
	switch callee.Kind() {
	case KindFunction:
		return callee.Function().Name()
	case KindNative:
		return callee.Native().Name
	case KindClass:
		return callee.Class().Name
	default:
		return callee.String()
	}
}

func (in *Interpreter) callFunction(fn *Function, args []Value) (Value, error) {
	env := newEnv(fn.Closure)
	for i, param := range fn.Decl.Params {
		env.Define(param.Lexeme, args[i])
	}

	enclosingSource := in.source
	in.source = fn.source
	result, returned, err := in.executeBlock(fn.Decl.Body, env)
	in.source = enclosingSource
	if err != nil {
		return Value{}, err
	}

	if fn.isInitializer {
		this, _ := fn.Closure.GetAt(0, "this")
		return this, nil
	}
	if returned {
		return result, nil
	}
	return NewNil(), nil
}
