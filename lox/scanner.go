package lox

import (
	"strconv"
	"unicode"
	"unicode/utf8"
)

type scanner struct {
	input string
	diags *Diagnostics

	offset int
	width  int

	line   int
	column int

	ch rune
}

// Scan converts source into a token slice terminated by an EOF token. Lexical
// errors are reported to diags and scanning continues past them.
func Scan(source string, diags *Diagnostics) []Token {
	s := newScanner(source, diags)
	tokens := make([]Token, 0, len(source)/4+1)
	for {
		tok, ok := s.nextToken()
		if !ok {
			continue
		}
		tokens = append(tokens, tok)
		if tok.Type == tokenEOF {
			return tokens
		}
	}
}

func newScanner(input string, diags *Diagnostics) *scanner {
	s := &scanner{input: input, diags: diags, line: 1, column: 0}
	s.readRune()
	return s
}

func (s *scanner) readRune() {
	if s.ch == '\n' {
		s.line++
		s.column = 0
	}
	if s.offset >= len(s.input) {
		if s.width != 0 {
			s.column++
		}
		s.width = 0
		s.ch = 0
		return
	}

	r, w := utf8.DecodeRuneInString(s.input[s.offset:])
	s.width = w
	s.offset += w
	s.column++
	s.ch = r
}

func (s *scanner) atEOF() bool {
	return s.width == 0
}

func (s *scanner) peekRune() rune {
	if s.offset >= len(s.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(s.input[s.offset:])
	return r
}

func (s *scanner) currentOffset() int {
	return s.offset - s.width
}

// nextToken returns false when the characters it consumed produced no token,
// which only happens after a lexical error was reported.
func (s *scanner) nextToken() (Token, bool) {
	s.skipWhitespaceAndComments()

	pos := Position{Line: s.line, Column: s.column}
	if s.atEOF() {
		return Token{Type: tokenEOF, Pos: pos}, true
	}

	start := s.currentOffset()
	switch s.ch {
	case '(':
		return s.single(tokenLParen, start, pos), true
	case ')':
		return s.single(tokenRParen, start, pos), true
	case '{':
		return s.single(tokenLBrace, start, pos), true
	case '}':
		return s.single(tokenRBrace, start, pos), true
	case ',':
		return s.single(tokenComma, start, pos), true
	case '.':
		return s.single(tokenDot, start, pos), true
	case '-':
		return s.single(tokenMinus, start, pos), true
	case '+':
		return s.single(tokenPlus, start, pos), true
	case ';':
		return s.single(tokenSemicolon, start, pos), true
	case '*':
		return s.single(tokenStar, start, pos), true
	case '/':
		return s.single(tokenSlash, start, pos), true
	case '!':
		return s.withEquals(tokenBang, tokenNotEQ, start, pos), true
	case '=':
		return s.withEquals(tokenAssign, tokenEQ, start, pos), true
	case '<':
		return s.withEquals(tokenLT, tokenLTE, start, pos), true
	case '>':
		return s.withEquals(tokenGT, tokenGTE, start, pos), true
	case '"':
		return s.readString(start, pos)
	}

	switch {
	case isDigit(s.ch):
		return s.readNumber(start, pos), true
	case isIdentifierStart(s.ch):
		return s.readIdentifier(start, pos), true
	default:
		s.diags.report(PhaseLexical, pos, "", "Unexpected character.")
		s.readRune()
		return Token{}, false
	}
}

func (s *scanner) single(tt TokenType, start int, pos Position) Token {
	s.readRune()
	return s.makeToken(tt, start, pos, nil)
}

func (s *scanner) withEquals(plain, withEq TokenType, start int, pos Position) Token {
	if s.peekRune() == '=' {
		s.readRune()
		s.readRune()
		return s.makeToken(withEq, start, pos, nil)
	}
	s.readRune()
	return s.makeToken(plain, start, pos, nil)
}

func (s *scanner) makeToken(tt TokenType, start int, pos Position, literal any) Token {
	return Token{Type: tt, Lexeme: s.input[start:s.currentOffset()], Literal: literal, Pos: pos}
}

func (s *scanner) skipWhitespaceAndComments() {
	for {
		switch s.ch {
		case ' ', '\t', '\r', '\n':
			s.readRune()
		case '/':
			if s.peekRune() != '/' {
				return
			}
			for !s.atEOF() && s.ch != '\n' {
				s.readRune()
			}
		default:
			return
		}
	}
}

func (s *scanner) readString(start int, pos Position) (Token, bool) {
	s.readRune()
	for !s.atEOF() && s.ch != '"' {
		s.readRune()
	}
	if s.atEOF() {
		s.diags.report(PhaseLexical, Position{Line: s.line, Column: s.column}, "", "Unterminated string.")
		return Token{}, false
	}

	// closing quote
	s.readRune()
	lexeme := s.input[start:s.currentOffset()]
	return Token{Type: tokenString, Lexeme: lexeme, Literal: lexeme[1 : len(lexeme)-1], Pos: pos}, true
}

func (s *scanner) readNumber(start int, pos Position) Token {
	for isDigit(s.ch) {
		s.readRune()
	}
	if s.ch == '.' && isDigit(s.peekRune()) {
		s.readRune()
		for isDigit(s.ch) {
			s.readRune()
		}
	}

	lexeme := s.input[start:s.currentOffset()]
	value, err := strconv.ParseFloat(lexeme, 64)
	if err != nil {
		// only reachable for literals beyond float64 range
		s.diags.report(PhaseLexical, pos, "", "Invalid number literal.")
	}
	return Token{Type: tokenNumber, Lexeme: lexeme, Literal: value, Pos: pos}
}

func (s *scanner) readIdentifier(start int, pos Position) Token {
	for !s.atEOF() && isIdentifierRune(s.ch) {
		s.readRune()
	}
	lexeme := s.input[start:s.currentOffset()]
	return Token{Type: lookupIdent(lexeme), Lexeme: lexeme, Pos: pos}
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isIdentifierStart(r rune) bool {
	return unicode.IsLetter(r) || r == '_'
}

func isIdentifierRune(r rune) bool {
	return isIdentifierStart(r) || isDigit(r)
}
