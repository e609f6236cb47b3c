package lox

import "fmt"

// execute runs one statement. The bool result reports an in-flight return,
// in which case the Value is the returned value.
func (in *Interpreter) execute(stmt Stmt, env *Env) (Value, bool, error) {
	if err := in.step(stmtToken(stmt)); err != nil {
		return Value{}, false, err
	}

	switch s := stmt.(type) {
	case *ExprStmt:
		_, err := in.evaluate(s.Expr, env)
		return Value{}, false, err
	case *PrintStmt:
		val, err := in.evaluate(s.Expr, env)
		if err != nil {
			return Value{}, false, err
		}
		if _, err := fmt.Fprintln(in.out, val.String()); err != nil {
			return Value{}, false, in.wrapError(err, stmtToken(s))
		}
		return Value{}, false, nil
	case *VarStmt:
		val := NewNil()
		if s.Initializer != nil {
			var err error
			if val, err = in.evaluate(s.Initializer, env); err != nil {
				return Value{}, false, err
			}
		}
		env.Define(s.Name.Lexeme, val)
		return Value{}, false, nil
	case *BlockStmt:
		return in.executeBlock(s.Statements, newEnv(env))
	case *IfStmt:
		cond, err := in.evaluate(s.Condition, env)
		if err != nil {
			return Value{}, false, err
		}
		if cond.Truthy() {
			return in.execute(s.Then, env)
		}
		if s.Else != nil {
			return in.execute(s.Else, env)
		}
		return Value{}, false, nil
	case *WhileStmt:
		for {
			cond, err := in.evaluate(s.Condition, env)
			if err != nil {
				return Value{}, false, err
			}
			if !cond.Truthy() {
				return Value{}, false, nil
			}
			val, returned, err := in.execute(s.Body, env)
			if err != nil || returned {
				return val, returned, err
			}
		}
	case *FunctionStmt:
		fn := newFunction(s, env, false)
		fn.source = in.source
		env.Define(s.Name.Lexeme, NewFunction(fn))
		return Value{}, false, nil
	case *ReturnStmt:
		val := NewNil()
		if s.Value != nil {
			var err error
			if val, err = in.evaluate(s.Value, env); err != nil {
				return Value{}, false, err
			}
		}
		return val, true, nil
	case *ClassStmt:
		return Value{}, false, in.executeClass(s, env)
	default:
		return Value{}, false, in.errorAt(stmtToken(stmt), "unsupported statement %T", stmt)
	}
}

func (in *Interpreter) executeBlock(stmts []Stmt, env *Env) (Value, bool, error) {
	for _, stmt := range stmts {
		val, returned, err := in.execute(stmt, env)
		if err != nil || returned {
			return val, returned, err
		}
	}
	return Value{}, false, nil
}

func (in *Interpreter) executeClass(s *ClassStmt, env *Env) error {
	var superclass *Class
	if s.Superclass != nil {
		val, err := in.evaluate(s.Superclass, env)
		if err != nil {
			return err
		}
		if val.Kind() != KindClass {
			return in.errorAt(s.Superclass.Name, "Superclass must be a class.")
		}
		superclass = val.Class()
	}

	env.Define(s.Name.Lexeme, NewNil())

	methodEnv := env
	if superclass != nil {
		methodEnv = newEnv(env)
		methodEnv.Define("super", NewClass(superclass))
	}

	methods := make(map[string]*Function, len(s.Methods))
	for _, decl := range s.Methods {
		method := newFunction(decl, methodEnv, decl.Name.Lexeme == "init")
		method.source = in.source
		methods[decl.Name.Lexeme] = method
	}

	class := &Class{Name: s.Name.Lexeme, Superclass: superclass, Methods: methods}
	env.Define(s.Name.Lexeme, NewClass(class))
	return nil
}

// stmtToken returns the token runtime errors about stmt are reported at.
func stmtToken(stmt Stmt) Token {
	switch s := stmt.(type) {
	case *PrintStmt:
		return Token{Type: tokenPrint, Lexeme: "print", Pos: s.Pos()}
	case *VarStmt:
		return s.Name
	case *FunctionStmt:
		return s.Name
	case *ClassStmt:
		return s.Name
	case *ReturnStmt:
		return s.Keyword
	default:
		return Token{Pos: stmt.Pos()}
	}
}
