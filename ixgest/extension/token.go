package extension

import (
	"fmt"
	"unicode"
	"unicode/utf8"
)

// TokenKind is the lexical class of a token
type TokenKind int

const (
	TokenEOF TokenKind = iota
	TokenIdent
	TokenLParen
	TokenRParen
	TokenIllegal
)

func (k TokenKind) String() string {
	switch k {
	case TokenEOF:
		return "end of input"
	case TokenIdent:
		return "identifier"
	case TokenLParen:
		return "'('"
	case TokenRParen:
		return "')'"
	case TokenIllegal:
		return "illegal character"
	default:
		return fmt.Sprintf("token(%d)", int(k))
	}
}

// Token is one lexeme of an extension atom. Pos is the byte offset of
// its first character.
type Token struct {
	Kind  TokenKind
	Value string
	Pos   int
}

// Tokenize splits an atom into tokens, always ending with TokenEOF.
// Whitespace separates tokens and is dropped. ',' and '|' are separators
// at the column level, so inside an atom they are illegal.
func Tokenize(s string) []Token {
	var tokens []Token
	i := 0
	for i < len(s) {
		r, size := utf8.DecodeRuneInString(s[i:])
		switch {
		case unicode.IsSpace(r):
			i += size
		case r == '(':
			tokens = append(tokens, Token{Kind: TokenLParen, Value: "(", Pos: i})
			i += size
		case r == ')':
			tokens = append(tokens, Token{Kind: TokenRParen, Value: ")", Pos: i})
			i += size
		case r == ',' || r == '|':
			tokens = append(tokens, Token{Kind: TokenIllegal, Value: string(r), Pos: i})
			i += size
		default:
			start := i
			for i < len(s) {
				r, size = utf8.DecodeRuneInString(s[i:])
				if !isIdentRune(r) {
					break
				}
				i += size
			}
			tokens = append(tokens, Token{Kind: TokenIdent, Value: s[start:i], Pos: start})
		}
	}
	return append(tokens, Token{Kind: TokenEOF, Pos: len(s)})
}

func isIdentRune(r rune) bool {
	switch r {
	case '(', ')', ',', '|':
		return false
	}
	return !unicode.IsSpace(r)
}
