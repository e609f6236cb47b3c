package lox

type Node interface {
	Pos() Position
}

// Expr is the closed set of expression nodes. Every node is a pointer, so the
// resolver can key hop distances by node identity.
type Expr interface {
	Node
	exprNode()
}

type LiteralExpr struct {
	Value    Value
	position Position
}

func (e *LiteralExpr) exprNode()     {}
func (e *LiteralExpr) Pos() Position { return e.position }

type GroupingExpr struct {
	Inner    Expr
	position Position
}

func (e *GroupingExpr) exprNode()     {}
func (e *GroupingExpr) Pos() Position { return e.position }

type UnaryExpr struct {
	Operator Token
	Right    Expr
}

func (e *UnaryExpr) exprNode()     {}
func (e *UnaryExpr) Pos() Position { return e.Operator.Pos }

type BinaryExpr struct {
	Left     Expr
	Operator Token
	Right    Expr
}

func (e *BinaryExpr) exprNode()     {}
func (e *BinaryExpr) Pos() Position { return e.Operator.Pos }

// LogicalExpr is `and`/`or`; unlike BinaryExpr its right operand may never be
// evaluated.
type LogicalExpr struct {
	Left     Expr
	Operator Token
	Right    Expr
}

func (e *LogicalExpr) exprNode()     {}
func (e *LogicalExpr) Pos() Position { return e.Operator.Pos }

type VariableExpr struct {
	Name Token
}

func (e *VariableExpr) exprNode()     {}
func (e *VariableExpr) Pos() Position { return e.Name.Pos }

type AssignExpr struct {
	Name  Token
	Value Expr
}

func (e *AssignExpr) exprNode()     {}
func (e *AssignExpr) Pos() Position { return e.Name.Pos }

type CallExpr struct {
	Callee Expr
	Paren  Token
	Args   []Expr
}

func (e *CallExpr) exprNode()     {}
func (e *CallExpr) Pos() Position { return e.Paren.Pos }

type GetExpr struct {
	Object Expr
	Name   Token
}

func (e *GetExpr) exprNode()     {}
func (e *GetExpr) Pos() Position { return e.Name.Pos }

type SetExpr struct {
	Object Expr
	Name   Token
	Value  Expr
}

func (e *SetExpr) exprNode()     {}
func (e *SetExpr) Pos() Position { return e.Name.Pos }

type ThisExpr struct {
	Keyword Token
}

func (e *ThisExpr) exprNode()     {}
func (e *ThisExpr) Pos() Position { return e.Keyword.Pos }

type SuperExpr struct {
	Keyword Token
	Method  Token
}

func (e *SuperExpr) exprNode()     {}
func (e *SuperExpr) Pos() Position { return e.Keyword.Pos }
