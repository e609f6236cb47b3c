package lox

import (
	"fmt"
	"math"
	"strconv"
)

type ValueKind int

const (
	KindNil ValueKind = iota
	KindBool
	KindNumber
	KindString
	KindFunction
	KindNative
	KindClass
	KindInstance
)

// Value is a dynamically typed Lox value. The zero Value is nil.
type Value struct {
	kind ValueKind
	data any
}

// Callable is anything a call expression can invoke.
type Callable interface {
	Arity() int
	Call(in *Interpreter, args []Value) (Value, error)
	String() string
}

// NativeFunc implements a host function exposed to scripts.
type NativeFunc func(in *Interpreter, args []Value) (Value, error)

// Native is a host function bound into the global environment.
type Native struct {
	Name   string
	Params int
	Fn     NativeFunc
}

func (n *Native) Arity() int { return n.Params }

func (n *Native) Call(in *Interpreter, args []Value) (Value, error) {
	return n.Fn(in, args)
}

func (n *Native) String() string { return "<native fn>" }

func NewNil() Value                 { return Value{kind: KindNil} }
func NewBool(b bool) Value          { return Value{kind: KindBool, data: b} }
func NewNumber(n float64) Value     { return Value{kind: KindNumber, data: n} }
func NewString(s string) Value      { return Value{kind: KindString, data: s} }
func NewNative(n *Native) Value     { return Value{kind: KindNative, data: n} }
func NewClass(c *Class) Value       { return Value{kind: KindClass, data: c} }
func NewInstance(i *Instance) Value { return Value{kind: KindInstance, data: i} }

func NewFunction(fn *Function) Value {
	return Value{kind: KindFunction, data: fn}
}

func (v Value) Kind() ValueKind { return v.kind }

func (v Value) IsNil() bool { return v.kind == KindNil }

func (v Value) Bool() bool {
	b, _ := v.data.(bool)
	return b
}

func (v Value) Number() float64 {
	n, _ := v.data.(float64)
	return n
}

func (v Value) Str() string {
	s, _ := v.data.(string)
	return s
}

func (v Value) Function() *Function {
	fn, _ := v.data.(*Function)
	return fn
}

func (v Value) Native() *Native {
	n, _ := v.data.(*Native)
	return n
}

func (v Value) Class() *Class {
	c, _ := v.data.(*Class)
	return c
}

func (v Value) Instance() *Instance {
	i, _ := v.data.(*Instance)
	return i
}

// Callable returns the value as a Callable when it is a function, native or
// class.
func (v Value) Callable() (Callable, bool) {
	switch v.kind {
	case KindFunction:
		return v.Function(), true
	case KindNative:
		return v.Native(), true
	case KindClass:
		return v.Class(), true
	default:
		return nil, false
	}
}

// Truthy reports Lox truthiness: nil and false are falsy, everything else,
// including 0 and "", is truthy.
func (v Value) Truthy() bool {
	switch v.kind {
	case KindNil:
		return false
	case KindBool:
		return v.Bool()
	default:
		return true
	}
}

// Equal compares without coercion. Functions, classes and instances compare
// by identity.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindNil:
		return true
	case KindBool:
		return v.Bool() == other.Bool()
	case KindNumber:
		return v.Number() == other.Number()
	case KindString:
		return v.Str() == other.Str()
	case KindFunction:
		return v.Function() == other.Function()
	case KindNative:
		return v.Native() == other.Native()
	case KindClass:
		return v.Class() == other.Class()
	case KindInstance:
		return v.Instance() == other.Instance()
	default:
		return false
	}
}

func (k ValueKind) String() string {
	switch k {
	case KindNil:
		return "nil"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindFunction:
		return "function"
	case KindNative:
		return "native"
	case KindClass:
		return "class"
	case KindInstance:
		return "instance"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

func (v Value) String() string {
	switch v.kind {
	case KindNil:
		return "nil"
	case KindBool:
		if v.Bool() {
			return "true"
		}
		return "false"
	case KindNumber:
		return formatNumber(v.Number())
	case KindString:
		return v.Str()
	case KindFunction:
		return v.Function().String()
	case KindNative:
		return v.Native().String()
	case KindClass:
		return v.Class().String()
	case KindInstance:
		return v.Instance().String()
	default:
		return fmt.Sprintf("<%s>", v.kind)
	}
}

// formatNumber prints integral values without a fractional part.
func formatNumber(n float64) string {
	switch {
	case math.IsNaN(n):
		return "NaN"
	case math.IsInf(n, 1):
		return "Infinity"
	case math.IsInf(n, -1):
		return "-Infinity"
	}
	return strconv.FormatFloat(n, 'f', -1, 64)
}
