package lox

func (p *parser) expression() (Expr, error) {
	return p.assignment()
}

func (p *parser) assignment() (Expr, error) {
	expr, err := p.or()
	if err != nil {
		return nil, err
	}

	if !p.match(tokenAssign) {
		return expr, nil
	}
	equals := p.previous()
	value, err := p.assignment()
	if err != nil {
		return nil, err
	}

	switch target := expr.(type) {
	case *VariableExpr:
		return &AssignExpr{Name: target.Name, Value: value}, nil
	case *GetExpr:
		return &SetExpr{Object: target.Object, Name: target.Name, Value: value}, nil
	default:
		// The parser is not confused here, so report without unwinding.
		p.errorAt(equals, "Invalid assignment target.")
		return expr, nil
	}
}

func (p *parser) or() (Expr, error) {
	expr, err := p.and()
	if err != nil {
		return nil, err
	}
	for p.match(tokenOr) {
		operator := p.previous()
		right, err := p.and()
		if err != nil {
			return nil, err
		}
		expr = &LogicalExpr{Left: expr, Operator: operator, Right: right}
	}
	return expr, nil
}

func (p *parser) and() (Expr, error) {
	expr, err := p.equality()
	if err != nil {
		return nil, err
	}
	for p.match(tokenAnd) {
		operator := p.previous()
		right, err := p.equality()
		if err != nil {
			return nil, err
		}
		expr = &LogicalExpr{Left: expr, Operator: operator, Right: right}
	}
	return expr, nil
}

// binary parses a left-associative layer whose operands come from next.
func (p *parser) binary(next func() (Expr, error), operators ...TokenType) (Expr, error) {
	expr, err := next()
	if err != nil {
		return nil, err
	}
	for p.match(operators...) {
		operator := p.previous()
		right, err := next()
		if err != nil {
			return nil, err
		}
		expr = &BinaryExpr{Left: expr, Operator: operator, Right: right}
	}
	return expr, nil
}

func (p *parser) equality() (Expr, error) {
	return p.binary(p.comparison, tokenNotEQ, tokenEQ)
}

func (p *parser) comparison() (Expr, error) {
	return p.binary(p.term, tokenGT, tokenGTE, tokenLT, tokenLTE)
}

func (p *parser) term() (Expr, error) {
	return p.binary(p.factor, tokenMinus, tokenPlus)
}

func (p *parser) factor() (Expr, error) {
	return p.binary(p.unary, tokenSlash, tokenStar)
}

func (p *parser) unary() (Expr, error) {
	if p.match(tokenBang, tokenMinus) {
		operator := p.previous()
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		return &UnaryExpr{Operator: operator, Right: right}, nil
	}
	return p.call()
}

func (p *parser) call() (Expr, error) {
	expr, err := p.primary()
	if err != nil {
		return nil, err
	}

	for {
		switch {
		case p.match(tokenLParen):
			expr, err = p.finishCall(expr)
			if err != nil {
				return nil, err
			}
		case p.match(tokenDot):
			name, err := p.consume(tokenIdent, "Expect property name after '.'.")
			if err != nil {
				return nil, err
			}
			expr = &GetExpr{Object: expr, Name: name}
		default:
			return expr, nil
		}
	}
}

func (p *parser) finishCall(callee Expr) (Expr, error) {
	args := []Expr{}
	if !p.check(tokenRParen) {
		for {
			if len(args) >= maxArgs {
				p.errorAt(p.peek(), "Can't have more than 255 arguments.")
			}
			arg, err := p.expression()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if !p.match(tokenComma) {
				break
			}
		}
	}

	paren, err := p.consume(tokenRParen, "Expect ')' after arguments.")
	if err != nil {
		return nil, err
	}
	return &CallExpr{Callee: callee, Paren: paren, Args: args}, nil
}

func (p *parser) primary() (Expr, error) {
	tok := p.peek()
	switch tok.Type {
	case tokenFalse:
		p.advance()
		return &LiteralExpr{Value: NewBool(false), position: tok.Pos}, nil
	case tokenTrue:
		p.advance()
		return &LiteralExpr{Value: NewBool(true), position: tok.Pos}, nil
	case tokenNil:
		p.advance()
		return &LiteralExpr{Value: NewNil(), position: tok.Pos}, nil
	case tokenNumber:
		p.advance()
		n, _ := tok.Literal.(float64)
		return &LiteralExpr{Value: NewNumber(n), position: tok.Pos}, nil
	case tokenString:
		p.advance()
		s, _ := tok.Literal.(string)
		return &LiteralExpr{Value: NewString(s), position: tok.Pos}, nil
	case tokenSuper:
		p.advance()
		if _, err := p.consume(tokenDot, "Expect '.' after 'super'."); err != nil {
			return nil, err
		}
		method, err := p.consume(tokenIdent, "Expect superclass method name.")
		if err != nil {
			return nil, err
		}
		return &SuperExpr{Keyword: tok, Method: method}, nil
	case tokenThis:
		p.advance()
		return &ThisExpr{Keyword: tok}, nil
	case tokenIdent:
		p.advance()
		return &VariableExpr{Name: tok}, nil
	case tokenLParen:
		p.advance()
		inner, err := p.expression()
		if err != nil {
			return nil, err
		}
		if _, err := p.consume(tokenRParen, "Expect ')' after expression."); err != nil {
			return nil, err
		}
		return &GroupingExpr{Inner: inner, position: tok.Pos}, nil
	default:
		return nil, p.errorAt(tok, "Expect expression.")
	}
}
