package extension

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/assocparse/errors"
	"github.com/teranos/assocparse/ixgest/types"
)

func TestTokenize(t *testing.T) {
	got := Tokenize("part_of( GO:0005634 )")
	want := []Token{
		{Kind: TokenIdent, Value: "part_of", Pos: 0},
		{Kind: TokenLParen, Value: "(", Pos: 7},
		{Kind: TokenIdent, Value: "GO:0005634", Pos: 9},
		{Kind: TokenRParen, Value: ")", Pos: 20},
		{Kind: TokenEOF, Pos: 21},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Tokenize mismatch (-want +got):\n%s", diff)
	}
}

func TestParseAtom(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    types.ExtensionAtom
		wantErr bool
	}{
		{"simple", "A(1)", types.ExtensionAtom{Property: "A", Filler: "1"}, false},
		{"curie filler", "occurs_in(CL:0000540)", types.ExtensionAtom{Property: "occurs_in", Filler: "CL:0000540"}, false},
		{"surrounding space", "  part_of(GO:1) ", types.ExtensionAtom{Property: "part_of", Filler: "GO:1"}, false},
		{"missing filler", "part_of()", types.ExtensionAtom{}, true},
		{"missing paren", "part_of GO:1", types.ExtensionAtom{}, true},
		{"unclosed", "part_of(GO:1", types.ExtensionAtom{}, true},
		{"nested", "has_input(f(x))", types.ExtensionAtom{}, true},
		{"trailing garbage", "a(b)c", types.ExtensionAtom{}, true},
		{"bare id", "GO:0001", types.ExtensionAtom{}, true},
		{"empty", "", types.ExtensionAtom{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAtom(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				var pe *ParseError
				assert.True(t, errors.As(err, &pe))
				assert.Equal(t, tt.input, pe.Input)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseAtomErrorDetails(t *testing.T) {
	_, err := ParseAtom("has_input(f(x))")
	var pe *ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, ErrorKindSyntax, pe.Kind)
	assert.Equal(t, 11, pe.Position)
	require.NotNil(t, pe.Token)
	assert.Equal(t, TokenLParen, pe.Token.Kind)
	assert.Contains(t, pe.Suggestions[0], "nested")
	assert.Equal(t,
		`expected ')', found '(' in "has_input(f(x))" (at offset 11). Suggestions: nested expressions are not supported, use property(filler)`,
		pe.Error())

	_, err = ParseAtom("")
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, ErrorKindEmpty, pe.Kind)
	assert.Equal(t, -1, pe.Position)
}

func TestParseExpressionFanOut(t *testing.T) {
	got, errs := ParseExpression("A(1)|B(2),C(3)")
	assert.Empty(t, errs)
	want := []types.Disjunct{
		{{Property: "A", Filler: "1"}},
		{{Property: "B", Filler: "2"}, {Property: "C", Filler: "3"}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ParseExpression mismatch (-want +got):\n%s", diff)
	}
}

func TestParseExpressionDropsBadAtoms(t *testing.T) {
	got, errs := ParseExpression("A(1),broken,B(2)|nope")
	require.Len(t, errs, 2)
	assert.Equal(t, "broken", errs[0].Input)
	assert.Equal(t, "nope", errs[1].Input)

	want := []types.Disjunct{
		{{Property: "A", Filler: "1"}, {Property: "B", Filler: "2"}},
		{},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ParseExpression mismatch (-want +got):\n%s", diff)
	}
}

func TestParseExpressionEmpty(t *testing.T) {
	got, errs := ParseExpression("")
	assert.Nil(t, got)
	assert.Nil(t, errs)

	got, errs = ParseExpression("A(1),,|")
	assert.Empty(t, errs)
	assert.Equal(t, []types.Disjunct{{{Property: "A", Filler: "1"}}}, got)
}

func TestFormatErrorTerminal(t *testing.T) {
	_, err := ParseAtom("part_of GO:1")
	var pe *ParseError
	require.True(t, errors.As(err, &pe))

	out := pe.FormatError(ErrorContextTerminal)
	assert.Contains(t, out, "Context:")
	assert.Contains(t, out, "part_of GO:1")
	assert.Contains(t, out, "Suggestions:")
	assert.Contains(t, out, "GO:1")
}
