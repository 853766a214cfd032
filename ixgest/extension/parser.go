// Package extension parses annotation extension columns.
//
// A column is a disjunction ('|') of conjunctions (',') of atoms, and every
// atom has the shape property(filler):
//
//	part_of(GO:0005634),occurs_in(CL:0000540)|has_input(UniProtKB:P12345)
//
// Atoms that do not match are reported as *ParseError and left out of
// their disjunct. Parsing never stops early.
package extension

import (
	"strings"

	"github.com/teranos/assocparse/ixgest/types"
)

// ParseAtom parses exactly IDENT '(' IDENT ')'
func ParseAtom(atom string) (types.ExtensionAtom, error) {
	if strings.TrimSpace(atom) == "" {
		return types.ExtensionAtom{}, &ParseError{
			Kind:     ErrorKindEmpty,
			Message:  "empty extension atom",
			Input:    atom,
			Position: -1,
		}
	}

	tokens := Tokenize(atom)
	expected := []TokenKind{TokenIdent, TokenLParen, TokenIdent, TokenRParen, TokenEOF}
	for i, kind := range expected {
		if i >= len(tokens) || tokens[i].Kind != kind {
			tok := tokens[len(tokens)-1]
			if i < len(tokens) {
				tok = tokens[i]
			}
			return types.ExtensionAtom{}, newSyntaxError(atom, tok, kind)
		}
	}
	return types.ExtensionAtom{Property: tokens[0].Value, Filler: tokens[2].Value}, nil
}

// ParseExpression parses a whole extension column. The result holds one
// entry per non-blank disjunct, in column order, even when every atom of
// that disjunct failed. An empty column gives no disjuncts.
func ParseExpression(column string) ([]types.Disjunct, []*ParseError) {
	if column == "" {
		return nil, nil
	}
	var (
		disjuncts []types.Disjunct
		errs      []*ParseError
	)
	for _, group := range strings.Split(column, "|") {
		if strings.TrimSpace(group) == "" {
			continue
		}
		d := types.Disjunct{}
		for _, conjunct := range strings.Split(group, ",") {
			if strings.TrimSpace(conjunct) == "" {
				continue
			}
			atom, err := ParseAtom(conjunct)
			if err != nil {
				errs = append(errs, err.(*ParseError))
				continue
			}
			d = append(d, atom)
		}
		disjuncts = append(disjuncts, d)
	}
	return disjuncts, errs
}
