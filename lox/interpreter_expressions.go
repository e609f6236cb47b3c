package lox

func (in *Interpreter) evaluate(expr Expr, env *Env) (Value, error) {
	switch e := expr.(type) {
	case *LiteralExpr:
		return e.Value, nil
	case *GroupingExpr:
		return in.evaluate(e.Inner, env)
	case *UnaryExpr:
		return in.evalUnary(e, env)
	case *BinaryExpr:
		return in.evalBinary(e, env)
	case *LogicalExpr:
		left, err := in.evaluate(e.Left, env)
		if err != nil {
			return Value{}, err
		}
		if e.Operator.Type == tokenOr {
			if left.Truthy() {
				return left, nil
			}
		} else if !left.Truthy() {
			return left, nil
		}
		return in.evaluate(e.Right, env)
	case *VariableExpr:
		return in.lookupVariable(e.Name, e, env)
	case *AssignExpr:
		val, err := in.evaluate(e.Value, env)
		if err != nil {
			return Value{}, err
		}
		if distance, ok := in.locals[e]; ok {
			if env.AssignAt(distance, e.Name.Lexeme, val) {
				return val, nil
			}
		} else if in.globals.Assign(e.Name.Lexeme, val) {
			return val, nil
		}
		return Value{}, in.errorAt(e.Name, "Undefined variable '%s'.", e.Name.Lexeme)
	case *CallExpr:
		callee, err := in.evaluate(e.Callee, env)
		if err != nil {
			return Value{}, err
		}
		args := make([]Value, 0, len(e.Args))
		for _, arg := range e.Args {
			val, err := in.evaluate(arg, env)
			if err != nil {
				return Value{}, err
			}
			args = append(args, val)
		}
		return in.callValue(callee, args, e.Paren)
	case *GetExpr:
		object, err := in.evaluate(e.Object, env)
		if err != nil {
			return Value{}, err
		}
		if object.Kind() != KindInstance {
			return Value{}, in.errorAt(e.Name, "Only instances have properties.")
		}
		if val, ok := object.Instance().Get(e.Name.Lexeme); ok {
			return val, nil
		}
		return Value{}, in.errorAt(e.Name, "Undefined property '%s'.", e.Name.Lexeme)
	case *SetExpr:
		object, err := in.evaluate(e.Object, env)
		if err != nil {
			return Value{}, err
		}
		if object.Kind() != KindInstance {
			return Value{}, in.errorAt(e.Name, "Only instances have fields.")
		}
		val, err := in.evaluate(e.Value, env)
		if err != nil {
			return Value{}, err
		}
		object.Instance().Set(e.Name.Lexeme, val)
		return val, nil
	case *ThisExpr:
		return in.lookupVariable(e.Keyword, e, env)
	case *SuperExpr:
		return in.evalSuper(e, env)
	default:
		return Value{}, in.errorAt(Token{Pos: expr.Pos()}, "unsupported expression %T", expr)
	}
}

// lookupVariable reads a resolved local from its recorded scope, or a global
// by name when the resolver left the reference unresolved.
func (in *Interpreter) lookupVariable(name Token, expr Expr, env *Env) (Value, error) {
	if distance, ok := in.locals[expr]; ok {
		if val, found := env.GetAt(distance, name.Lexeme); found {
			return val, nil
		}
	} else if val, found := in.globals.Get(name.Lexeme); found {
		return val, nil
	}
	return Value{}, in.errorAt(name, "Undefined variable '%s'.", name.Lexeme)
}

func (in *Interpreter) evalUnary(e *UnaryExpr, env *Env) (Value, error) {
	right, err := in.evaluate(e.Right, env)
	if err != nil {
		return Value{}, err
	}
	switch e.Operator.Type {
	case tokenBang:
		return NewBool(!right.Truthy()), nil
	case tokenMinus:
		if right.Kind() != KindNumber {
			return Value{}, in.errorAt(e.Operator, "Operand of '-' must be a number.")
		}
		return NewNumber(-right.Number()), nil
	default:
		return Value{}, in.errorAt(e.Operator, "unsupported unary operator '%s'", e.Operator.Lexeme)
	}
}

func (in *Interpreter) evalBinary(e *BinaryExpr, env *Env) (Value, error) {
	left, err := in.evaluate(e.Left, env)
	if err != nil {
		return Value{}, err
	}
	right, err := in.evaluate(e.Right, env)
	if err != nil {
		return Value{}, err
	}

	switch e.Operator.Type {
	case tokenEQ:
		return NewBool(left.Equal(right)), nil
	case tokenNotEQ:
		return NewBool(!left.Equal(right)), nil
	case tokenPlus:
		switch {
		case left.Kind() == KindNumber && right.Kind() == KindNumber:
			return NewNumber(left.Number() + right.Number()), nil
		case left.Kind() == KindString && right.Kind() == KindString:
			return NewString(left.Str() + right.Str()), nil
		default:
			return Value{}, in.errorAt(e.Operator, "Operands of '+' must be two numbers or two strings.")
		}
	}

	if left.Kind() != KindNumber || right.Kind() != KindNumber {
		return Value{}, in.errorAt(e.Operator, "Operands of '%s' must be numbers.", e.Operator.Lexeme)
	}
	l, r := left.Number(), right.Number()
	switch e.Operator.Type {
	case tokenMinus:
		return NewNumber(l - r), nil
	case tokenStar:
		return NewNumber(l * r), nil
	case tokenSlash:
		return NewNumber(l / r), nil
	case tokenGT:
		return NewBool(l > r), nil
	case tokenGTE:
		return NewBool(l >= r), nil
	case tokenLT:
		return NewBool(l < r), nil
	case tokenLTE:
		return NewBool(l <= r), nil
	default:
		return Value{}, in.errorAt(e.Operator, "unsupported binary operator '%s'", e.Operator.Lexeme)
	}
}

func (in *Interpreter) evalSuper(e *SuperExpr, env *Env) (Value, error) {
	distance, ok := in.locals[e]
	if !ok {
		return Value{}, in.errorAt(e.Keyword, "Can't use 'super' outside of a class.")
	}
	superVal, _ := env.GetAt(distance, "super")
	thisVal, _ := env.GetAt(distance-1, "this")
	superclass, object := superVal.Class(), thisVal.Instance()
	if superclass == nil || object == nil {
		return Value{}, in.errorAt(e.Keyword, "Can't use 'super' outside of a class.")
	}

	method, ok := superclass.FindMethod(e.Method.Lexeme)
	if !ok {
		return Value{}, in.errorAt(e.Method, "Undefined property '%s'.", e.Method.Lexeme)
	}
	return NewFunction(method.Bind(object)), nil
}
