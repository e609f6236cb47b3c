package lox

import (
	"fmt"
	"strings"
)

// PrintAST renders stmts in a parenthesized prefix form, one top-level
// statement per line. It is a debugging aid; the format is not stable.
func PrintAST(stmts []Stmt) string {
	var b strings.Builder
	for _, stmt := range stmts {
		b.WriteString(printStmt(stmt))
		b.WriteString("\n")
	}
	return b.String()
}

func printStmt(stmt Stmt) string {
	switch s := stmt.(type) {
	case *ExprStmt:
		return parenthesize(";", printExpr(s.Expr))
	case *PrintStmt:
		return parenthesize("print", printExpr(s.Expr))
	case *VarStmt:
		if s.Initializer == nil {
			return parenthesize("var", s.Name.Lexeme)
		}
		return parenthesize("var", s.Name.Lexeme, "=", printExpr(s.Initializer))
	case *BlockStmt:
		return parenthesize("block", printStmts(s.Statements)...)
	case *IfStmt:
		if s.Else == nil {
			return parenthesize("if", printExpr(s.Condition), printStmt(s.Then))
		}
		return parenthesize("if-else", printExpr(s.Condition), printStmt(s.Then), printStmt(s.Else))
	case *WhileStmt:
		return parenthesize("while", printExpr(s.Condition), printStmt(s.Body))
	case *FunctionStmt:
		return printFunction("fun", s)
	case *ReturnStmt:
		if s.Value == nil {
			return "(return)"
		}
		return parenthesize("return", printExpr(s.Value))
	case *ClassStmt:
		parts := []string{s.Name.Lexeme}
		if s.Superclass != nil {
			parts = append(parts, "<", s.Superclass.Name.Lexeme)
		}
		for _, method := range s.Methods {
			parts = append(parts, printFunction("method", method))
		}
		return parenthesize("class", parts...)
	default:
		return fmt.Sprintf("(unknown %T)", stmt)
	}
}

func printStmts(stmts []Stmt) []string {
	out := make([]string, 0, len(stmts))
	for _, stmt := range stmts {
		out = append(out, printStmt(stmt))
	}
	return out
}

func printFunction(label string, fn *FunctionStmt) string {
	params := make([]string, 0, len(fn.Params))
	for _, param := range fn.Params {
		params = append(params, param.Lexeme)
	}
	parts := []string{fn.Name.Lexeme, "(" + strings.Join(params, " ") + ")"}
	parts = append(parts, printStmts(fn.Body)...)
	return parenthesize(label, parts...)
}

func printExpr(expr Expr) string {
	switch e := expr.(type) {
	case *LiteralExpr:
		if e.Value.Kind() == KindString {
			return fmt.Sprintf("%q", e.Value.Str())
		}
		return e.Value.String()
	case *GroupingExpr:
		return parenthesize("group", printExpr(e.Inner))
	case *UnaryExpr:
		return parenthesize(e.Operator.Lexeme, printExpr(e.Right))
	case *BinaryExpr:
		return parenthesize(e.Operator.Lexeme, printExpr(e.Left), printExpr(e.Right))
	case *LogicalExpr:
		return parenthesize(e.Operator.Lexeme, printExpr(e.Left), printExpr(e.Right))
	case *VariableExpr:
		return e.Name.Lexeme
	case *AssignExpr:
		return parenthesize("=", e.Name.Lexeme, printExpr(e.Value))
	case *CallExpr:
		parts := []string{printExpr(e.Callee)}
		for _, arg := range e.Args {
			parts = append(parts, printExpr(arg))
		}
		return parenthesize("call", parts...)
	case *GetExpr:
		return parenthesize(".", printExpr(e.Object), e.Name.Lexeme)
	case *SetExpr:
		return parenthesize("=", printExpr(e.Object), e.Name.Lexeme, printExpr(e.Value))
	case *ThisExpr:
		return "this"
	case *SuperExpr:
		return parenthesize("super", e.Method.Lexeme)
	default:
		return fmt.Sprintf("(unknown %T)", expr)
	}
}

func parenthesize(name string, parts ...string) string {
	if len(parts) == 0 {
		return "(" + name + ")"
	}
	return "(" + name + " " + strings.Join(parts, " ") + ")"
}
