package parser

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// TokenKind identifies a lexical token.
type TokenKind int

const (
	TokenEOF TokenKind = iota
	TokenNumber
	TokenString
	TokenDate
	TokenBool
	TokenNull
	TokenIdent
	TokenOperator
	TokenLParen
	TokenRParen
	TokenLBracket
	TokenRBracket
	TokenComma
	TokenArrow
)

func (k TokenKind) String() string {
	switch k {
	case TokenEOF:
		return "end of expression"
	case TokenNumber:
		return "number"
	case TokenString:
		return "string"
	case TokenDate:
		return "date"
	case TokenBool:
		return "boolean"
	case TokenNull:
		return "null"
	case TokenIdent:
		return "identifier"
	case TokenOperator:
		return "operator"
	case TokenLParen:
		return "'('"
	case TokenRParen:
		return "')'"
	case TokenLBracket:
		return "'['"
	case TokenRBracket:
		return "']'"
	case TokenComma:
		return "','"
	case TokenArrow:
		return "'->'"
	default:
		return fmt.Sprintf("token(%d)", int(k))
	}
}

// Token is a lexeme with its decoded literal, if any.
type Token struct {
	Kind  TokenKind
	Text  string
	Value any
	Pos   int
}

// SyntaxError points at the 1-based column where scanning or parsing failed.
type SyntaxError struct {
	Pos int
	Msg string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at column %d: %s", e.Pos+1, e.Msg)
}

var dateLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

var keywordOperators = map[string]bool{
	"and": true,
	"or":  true,
	"not": true,
	"mod": true,
}

// Lexer splits an expression into tokens.
type Lexer struct {
	src   string
	start int
	cur   int
}

func NewLexer(src string) *Lexer {
	return &Lexer{src: src}
}

// Tokenize scans the whole source, ending with a TokenEOF.
func Tokenize(src string) ([]Token, error) {
	l := NewLexer(src)
	var tokens []Token
	for {
		tok, err := l.Next()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.Kind == TokenEOF {
			return tokens, nil
		}
	}
}

func (l *Lexer) isAtEnd() bool { return l.cur >= len(l.src) }

func (l *Lexer) peek() byte {
	if l.isAtEnd() {
		return 0
	}
	return l.src[l.cur]
}

func (l *Lexer) peekN(n int) byte {
	if l.cur+n >= len(l.src) {
		return 0
	}
	return l.src[l.cur+n]
}

func (l *Lexer) token(kind TokenKind, value any) Token {
	return Token{Kind: kind, Text: l.src[l.start:l.cur], Value: value, Pos: l.start}
}

func (l *Lexer) errorf(format string, args ...any) error {
	return &SyntaxError{Pos: l.start, Msg: fmt.Sprintf(format, args...)}
}

func (l *Lexer) Next() (Token, error) {
	for !l.isAtEnd() && isSpace(l.peek()) {
		l.cur++
	}
	l.start = l.cur
	if l.isAtEnd() {
		return l.token(TokenEOF, nil), nil
	}
	ch := l.src[l.cur]
	switch {
	case isDigit(ch) || (ch == '.' && isDigit(l.peekN(1))):
		return l.scanNumber()
	case ch == '"' || ch == '\'':
		return l.scanString(ch)
	case ch == '#':
		return l.scanDate()
	case isAlpha(ch):
		return l.scanWord()
	}
	l.cur++
	switch ch {
	case '(':
		return l.token(TokenLParen, nil), nil
	case ')':
		return l.token(TokenRParen, nil), nil
	case '[':
		return l.token(TokenLBracket, nil), nil
	case ']':
		return l.token(TokenRBracket, nil), nil
	case ',':
		return l.token(TokenComma, nil), nil
	case '+', '*', '/', '%':
		return l.token(TokenOperator, nil), nil
	case '-':
		if l.peek() == '>' {
			l.cur++
			return l.token(TokenArrow, nil), nil
		}
		return l.token(TokenOperator, nil), nil
	case '=':
		l.match('=')
		return l.token(TokenOperator, nil), nil
	case '!':
		l.match('=')
		return l.token(TokenOperator, nil), nil
	case '<':
		if !l.match('=') {
			l.match('>')
		}
		return l.token(TokenOperator, nil), nil
	case '>':
		l.match('=')
		return l.token(TokenOperator, nil), nil
	case '&':
		if l.match('&') {
			return l.token(TokenOperator, nil), nil
		}
	case '|':
		if l.match('|') {
			return l.token(TokenOperator, nil), nil
		}
	}
	return Token{}, l.errorf("unexpected character %q", ch)
}

func (l *Lexer) match(want byte) bool {
	if l.peek() != want {
		return false
	}
	l.cur++
	return true
}

func (l *Lexer) scanNumber() (Token, error) {
	for isDigit(l.peek()) {
		l.cur++
	}
	if l.peek() == '.' && isDigit(l.peekN(1)) {
		l.cur++
		for isDigit(l.peek()) {
			l.cur++
		}
	}
	if c := l.peek(); c == 'e' || c == 'E' {
		next := l.peekN(1)
		if isDigit(next) || ((next == '+' || next == '-') && isDigit(l.peekN(2))) {
			l.cur += 2
			for isDigit(l.peek()) {
				l.cur++
			}
		}
	}
	if isAlpha(l.peek()) {
		return Token{}, l.errorf("malformed number %q", l.src[l.start:l.cur+1])
	}
	value, err := strconv.ParseFloat(l.src[l.start:l.cur], 64)
	if err != nil {
		return Token{}, l.errorf("malformed number %q", l.src[l.start:l.cur])
	}
	return l.token(TokenNumber, value), nil
}

func (l *Lexer) scanString(quote byte) (Token, error) {
	l.cur++
	var out strings.Builder
	for !l.isAtEnd() {
		ch := l.src[l.cur]
		l.cur++
		if ch == quote {
			return l.token(TokenString, out.String()), nil
		}
		if ch != '\\' {
			out.WriteByte(ch)
			continue
		}
		if l.isAtEnd() {
			break
		}
		esc := l.src[l.cur]
		l.cur++
		switch esc {
		case 'n':
			out.WriteByte('\n')
		case 't':
			out.WriteByte('\t')
		case 'r':
			out.WriteByte('\r')
		case '\\', '"', '\'':
			out.WriteByte(esc)
		default:
			return Token{}, l.errorf("unknown escape \\%c", esc)
		}
	}
	return Token{}, l.errorf("unterminated string")
}

func (l *Lexer) scanDate() (Token, error) {
	end := strings.IndexByte(l.src[l.cur+1:], '#')
	if end < 0 {
		l.cur = len(l.src)
		return Token{}, l.errorf("unterminated date literal")
	}
	raw := strings.TrimSpace(l.src[l.cur+1 : l.cur+1+end])
	l.cur += end + 2
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, raw, time.UTC); err == nil {
			return l.token(TokenDate, t), nil
		}
	}
	return Token{}, l.errorf("invalid date %q", raw)
}

func (l *Lexer) scanWord() (Token, error) {
	for isAlphaNum(l.peek()) {
		l.cur++
	}
	word := l.src[l.start:l.cur]
	lower := strings.ToLower(word)
	switch {
	case lower == "true" || lower == "false":
		return l.token(TokenBool, lower == "true"), nil
	case lower == "null":
		return l.token(TokenNull, nil), nil
	case keywordOperators[lower]:
		return l.token(TokenOperator, nil), nil
	default:
		return l.token(TokenIdent, word), nil
	}
}

func isSpace(b byte) bool { return b == ' ' || b == '\t' || b == '\n' || b == '\r' }
func isDigit(b byte) bool { return b >= '0' && b <= '9' }
func isAlpha(b byte) bool { return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || b == '_' }
func isAlphaNum(b byte) bool {
	return isAlpha(b) || isDigit(b)
}
