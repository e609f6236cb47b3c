package lox

import (
	"errors"
	"fmt"
)

const maxArgs = 255

// errSyntax unwinds the current declaration after the diagnostic has been
// reported; declaration() catches it and synchronizes.
var errSyntax = errors.New("syntax error")

type parser struct {
	tokens  []Token
	current int
	diags   *Diagnostics
}

// Parse builds statements from tokens. A statement that fails to parse is
// reported to diags and left out of the result.
func Parse(tokens []Token, diags *Diagnostics) []Stmt {
	if len(tokens) == 0 || tokens[len(tokens)-1].Type != tokenEOF {
		tokens = append(tokens, Token{Type: tokenEOF})
	}
	p := &parser{tokens: tokens, diags: diags}

	stmts := []Stmt{}
	for !p.atEnd() {
		if stmt := p.declaration(); stmt != nil {
			stmts = append(stmts, stmt)
		}
	}
	return stmts
}

func (p *parser) declaration() Stmt {
	var (
		stmt Stmt
		err  error
	)
	switch {
	case p.match(tokenClass):
		stmt, err = p.classDeclaration()
	case p.match(tokenFun):
		stmt, err = p.function("function")
	case p.match(tokenVar):
		stmt, err = p.varDeclaration()
	default:
		stmt, err = p.statement()
	}
	if err != nil {
		p.synchronize()
		return nil
	}
	return stmt
}

func (p *parser) classDeclaration() (Stmt, error) {
	name, err := p.consume(tokenIdent, "Expect class name.")
	if err != nil {
		return nil, err
	}

	var superclass *VariableExpr
	if p.match(tokenLT) {
		superName, err := p.consume(tokenIdent, "Expect superclass name.")
		if err != nil {
			return nil, err
		}
		superclass = &VariableExpr{Name: superName}
	}

	if _, err := p.consume(tokenLBrace, "Expect '{' before class body."); err != nil {
		return nil, err
	}

	methods := []*FunctionStmt{}
	for !p.check(tokenRBrace) && !p.atEnd() {
		method, err := p.function("method")
		if err != nil {
			return nil, err
		}
		methods = append(methods, method)
	}

	if _, err := p.consume(tokenRBrace, "Expect '}' after class body."); err != nil {
		return nil, err
	}
	return &ClassStmt{Name: name, Superclass: superclass, Methods: methods}, nil
}

// function parses the shared tail of `fun` declarations and class methods.
func (p *parser) function(kind string) (*FunctionStmt, error) {
	name, err := p.consume(tokenIdent, fmt.Sprintf("Expect %s name.", kind))
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(tokenLParen, fmt.Sprintf("Expect '(' after %s name.", kind)); err != nil {
		return nil, err
	}

	params := []Token{}
	if !p.check(tokenRParen) {
		for {
			if len(params) >= maxArgs {
				p.errorAt(p.peek(), "Can't have more than 255 parameters.")
			}
			param, err := p.consume(tokenIdent, "Expect parameter name.")
			if err != nil {
				return nil, err
			}
			params = append(params, param)
			if !p.match(tokenComma) {
				break
			}
		}
	}
	if _, err := p.consume(tokenRParen, "Expect ')' after parameters."); err != nil {
		return nil, err
	}

	if _, err := p.consume(tokenLBrace, fmt.Sprintf("Expect '{' before %s body.", kind)); err != nil {
		return nil, err
	}
	body, err := p.block()
	if err != nil {
		return nil, err
	}
	return &FunctionStmt{Name: name, Params: params, Body: body}, nil
}

func (p *parser) varDeclaration() (Stmt, error) {
	name, err := p.consume(tokenIdent, "Expect variable name.")
	if err != nil {
		return nil, err
	}

	var initializer Expr
	if p.match(tokenAssign) {
		initializer, err = p.expression()
		if err != nil {
			return nil, err
		}
	}

	if _, err := p.consume(tokenSemicolon, "Expect ';' after variable declaration."); err != nil {
		return nil, err
	}
	return &VarStmt{Name: name, Initializer: initializer}, nil
}

func (p *parser) statement() (Stmt, error) {
	switch {
	case p.match(tokenFor):
		return p.forStatement()
	case p.match(tokenIf):
		return p.ifStatement()
	case p.match(tokenPrint):
		return p.printStatement()
	case p.match(tokenReturn):
		return p.returnStatement()
	case p.match(tokenWhile):
		return p.whileStatement()
	case p.match(tokenLBrace):
		pos := p.previous().Pos
		stmts, err := p.block()
		if err != nil {
			return nil, err
		}
		return &BlockStmt{Statements: stmts, position: pos}, nil
	default:
		return p.expressionStatement()
	}
}

// forStatement desugars `for (init; cond; incr) body` into
// `{ init; while (cond) { body; incr; } }`.
func (p *parser) forStatement() (Stmt, error) {
	pos := p.previous().Pos
	if _, err := p.consume(tokenLParen, "Expect '(' after 'for'."); err != nil {
		return nil, err
	}

	var (
		initializer Stmt
		err         error
	)
	switch {
	case p.match(tokenSemicolon):
	case p.match(tokenVar):
		initializer, err = p.varDeclaration()
	default:
		initializer, err = p.expressionStatement()
	}
	if err != nil {
		return nil, err
	}

	var condition Expr
	if !p.check(tokenSemicolon) {
		if condition, err = p.expression(); err != nil {
			return nil, err
		}
	}
	if _, err := p.consume(tokenSemicolon, "Expect ';' after loop condition."); err != nil {
		return nil, err
	}

	var increment Expr
	if !p.check(tokenRParen) {
		if increment, err = p.expression(); err != nil {
			return nil, err
		}
	}
	if _, err := p.consume(tokenRParen, "Expect ')' after for clauses."); err != nil {
		return nil, err
	}

	body, err := p.statement()
	if err != nil {
		return nil, err
	}

	if increment != nil {
		body = &BlockStmt{Statements: []Stmt{body, &ExprStmt{Expr: increment}}, position: pos}
	}
	if condition == nil {
		condition = &LiteralExpr{Value: NewBool(true), position: pos}
	}
	body = &WhileStmt{Condition: condition, Body: body, position: pos}
	if initializer != nil {
		body = &BlockStmt{Statements: []Stmt{initializer, body}, position: pos}
	}
	return body, nil
}

func (p *parser) ifStatement() (Stmt, error) {
	pos := p.previous().Pos
	if _, err := p.consume(tokenLParen, "Expect '(' after 'if'."); err != nil {
		return nil, err
	}
	condition, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(tokenRParen, "Expect ')' after if condition."); err != nil {
		return nil, err
	}

	thenBranch, err := p.statement()
	if err != nil {
		return nil, err
	}
	var elseBranch Stmt
	if p.match(tokenElse) {
		if elseBranch, err = p.statement(); err != nil {
			return nil, err
		}
	}
	return &IfStmt{Condition: condition, Then: thenBranch, Else: elseBranch, position: pos}, nil
}

func (p *parser) printStatement() (Stmt, error) {
	pos := p.previous().Pos
	value, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(tokenSemicolon, "Expect ';' after value."); err != nil {
		return nil, err
	}
	return &PrintStmt{Expr: value, position: pos}, nil
}

func (p *parser) returnStatement() (Stmt, error) {
	keyword := p.previous()
	var (
		value Expr
		err   error
	)
	if !p.check(tokenSemicolon) {
		if value, err = p.expression(); err != nil {
			return nil, err
		}
	}
	if _, err := p.consume(tokenSemicolon, "Expect ';' after return value."); err != nil {
		return nil, err
	}
	return &ReturnStmt{Keyword: keyword, Value: value}, nil
}

func (p *parser) whileStatement() (Stmt, error) {
	pos := p.previous().Pos
	if _, err := p.consume(tokenLParen, "Expect '(' after 'while'."); err != nil {
		return nil, err
	}
	condition, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(tokenRParen, "Expect ')' after condition."); err != nil {
		return nil, err
	}
	body, err := p.statement()
	if err != nil {
		return nil, err
	}
	return &WhileStmt{Condition: condition, Body: body, position: pos}, nil
}

// block parses declarations up to the closing brace. Errors inside nested
// declarations are recovered there, so only a missing '}' fails the block.
func (p *parser) block() ([]Stmt, error) {
	stmts := []Stmt{}
	for !p.check(tokenRBrace) && !p.atEnd() {
		if stmt := p.declaration(); stmt != nil {
			stmts = append(stmts, stmt)
		}
	}
	if _, err := p.consume(tokenRBrace, "Expect '}' after block."); err != nil {
		return nil, err
	}
	return stmts, nil
}

func (p *parser) expressionStatement() (Stmt, error) {
	expr, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(tokenSemicolon, "Expect ';' after expression."); err != nil {
		return nil, err
	}
	return &ExprStmt{Expr: expr}, nil
}

func (p *parser) synchronize() {
	p.advance()
	for !p.atEnd() {
		if p.previous().Type == tokenSemicolon {
			return
		}
		switch p.peek().Type {
		case tokenClass, tokenFun, tokenVar, tokenFor, tokenIf, tokenWhile, tokenPrint, tokenReturn:
			return
		}
		p.advance()
	}
}

func (p *parser) match(types ...TokenType) bool {
	for _, tt := range types {
		if p.check(tt) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *parser) check(tt TokenType) bool {
	if p.atEnd() {
		return false
	}
	return p.peek().Type == tt
}

func (p *parser) advance() Token {
	if !p.atEnd() {
		p.current++
	}
	return p.previous()
}

func (p *parser) atEnd() bool {
	return p.peek().Type == tokenEOF
}

func (p *parser) peek() Token {
	return p.tokens[p.current]
}

func (p *parser) previous() Token {
	if p.current == 0 {
		return p.tokens[0]
	}
	return p.tokens[p.current-1]
}

func (p *parser) consume(tt TokenType, message string) (Token, error) {
	if p.check(tt) {
		return p.advance(), nil
	}
	return Token{}, p.errorAt(p.peek(), message)
}

func (p *parser) errorAt(tok Token, message string) error {
	p.diags.errorAtToken(PhaseSyntax, tok, message)
	return errSyntax
}
