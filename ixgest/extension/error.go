package extension

import (
	"fmt"
	"strings"

	"github.com/pterm/pterm"
)

// ErrorContext selects how a ParseError is rendered
type ErrorContext int

const (
	ErrorContextPlain    ErrorContext = iota // logs, reports, JSON
	ErrorContextTerminal                     // coloured CLI output
)

// ErrorKind categorizes atom parse failures
type ErrorKind string

const (
	ErrorKindSyntax ErrorKind = "syntax" // token sequence is not IDENT ( IDENT )
	ErrorKindEmpty  ErrorKind = "empty"  // nothing to parse
)

// ParseError is a recoverable failure to parse one extension atom.
// The atom is dropped; the rest of the line is unaffected.
type ParseError struct {
	Kind        ErrorKind
	Message     string
	Input       string // the atom text as found in the column
	Position    int    // byte offset into Input, -1 if unknown
	Token       *Token // offending token (optional)
	Suggestions []string
}

// Error implements error
func (e *ParseError) Error() string {
	return e.FormatError(ErrorContextPlain)
}

// FormatError renders the error for ctx
func (e *ParseError) FormatError(ctx ErrorContext) string {
	if ctx == ErrorContextTerminal {
		return e.formatTerminalError()
	}
	return e.formatPlainError()
}

func (e *ParseError) formatPlainError() string {
	msg := fmt.Sprintf("%s in %q", e.Message, e.Input)
	if e.Position >= 0 {
		msg += fmt.Sprintf(" (at offset %d)", e.Position)
	}
	if len(e.Suggestions) > 0 {
		msg += ". Suggestions: " + strings.Join(e.Suggestions, ", ")
	}
	return msg
}

func (e *ParseError) formatTerminalError() string {
	var b strings.Builder
	b.WriteString(pterm.Red(e.Message))
	b.WriteString("\n\n")
	b.WriteString(pterm.LightCyan("Context:"))
	fmt.Fprintf(&b, "\n  %s %s", pterm.Yellow("Atom:"), e.Input)
	if e.Position >= 0 {
		// caret under the offending byte
		fmt.Fprintf(&b, "\n  %s %s%s", pterm.Yellow("     "), strings.Repeat(" ", e.Position), pterm.Red("^"))
	}
	if e.Token != nil && e.Token.Kind != TokenEOF {
		fmt.Fprintf(&b, "\n  %s '%s'", pterm.Yellow("Token:"), e.Token.Value)
	}
	if len(e.Suggestions) > 0 {
		fmt.Fprintf(&b, "\n\n%s", pterm.Green("Suggestions:"))
		for _, s := range e.Suggestions {
			fmt.Fprintf(&b, "\n  - %s", s)
		}
	}
	return b.String()
}

func newSyntaxError(input string, tok Token, expected TokenKind) *ParseError {
	e := &ParseError{
		Kind:     ErrorKindSyntax,
		Message:  fmt.Sprintf("expected %s, found %s", expected, tok.Kind),
		Input:    input,
		Position: tok.Pos,
		Token:    &tok,
	}
	switch {
	case expected == TokenRParen && tok.Kind == TokenLParen:
		e.Suggestions = []string{"nested expressions are not supported, use property(filler)"}
	case expected == TokenEOF:
		e.Suggestions = []string{"an atom holds exactly one property(filler) pair"}
	case tok.Kind == TokenIllegal:
		e.Suggestions = []string{"separate atoms with ',' (and) or '|' (or) at the column level"}
	default:
		e.Suggestions = []string{"atoms have the shape property(filler), e.g. part_of(GO:0005634)"}
	}
	return e
}
