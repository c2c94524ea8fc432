package lexer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xlfp/internal/lexer"
	"xlfp/registry"
)

func snapshotWithFixed3(name string) registry.Snapshot {
	r := registry.New()
	r.Register([]string{name}, nil, registry.Fixed(3))
	return r.Snapshot()
}

func typesOf(tokens []lexer.Token) []lexer.TokenType {
	var out []lexer.TokenType
	for _, t := range tokens {
		out = append(out, t.Type)
	}
	return out
}

func TestScientificNotationRequiresDigitBeforeAndSignedNumberAfter(t *testing.T) {
	snap := snapshotWithFixed3("SUBSTITUTE")
	tokens, err := lexer.NewScanner("1e-5", snap).Scan()
	require.Nil(t, err)
	assert.Equal(t, []lexer.TokenType{lexer.TokenNumber, lexer.TokenSciE, lexer.TokenMinus, lexer.TokenNumber, lexer.TokenEOF}, typesOf(tokens))
}

func TestBareFunctionNameFollowedByParenLexesAsFunction(t *testing.T) {
	snap := snapshotWithFixed3("SUBSTITUTE")
	tokens, err := lexer.NewScanner("SUBSTITUTE(1,2,3)", snap).Scan()
	require.Nil(t, err)
	assert.Equal(t, lexer.TokenFunctionFixed3, tokens[0].Type)
}

func TestUnregisteredNameLexesAsVariable(t *testing.T) {
	snap := snapshotWithFixed3("SUBSTITUTE")
	tokens, err := lexer.NewScanner("a1b", snap).Scan()
	require.Nil(t, err)
	assert.Equal(t, lexer.TokenVariable, tokens[0].Type)
}

func TestCellReferenceDisambiguatedFromVariableByTrailingDigits(t *testing.T) {
	snap := snapshotWithFixed3("SUBSTITUTE")
	tokens, err := lexer.NewScanner("A1 + abc", snap).Scan()
	require.Nil(t, err)
	assert.Equal(t, lexer.TokenRelCell, tokens[0].Type)
	assert.Equal(t, lexer.TokenVariable, tokens[2].Type)
}

func TestSeparatorsAndBracesLexIndependently(t *testing.T) {
	snap := snapshotWithFixed3("SUBSTITUTE")
	tokens, err := lexer.NewScanner("{1,2;3}", snap).Scan()
	require.Nil(t, err)
	assert.Equal(t, []lexer.TokenType{
		lexer.TokenLBrace, lexer.TokenNumber, lexer.TokenComma,
		lexer.TokenNumber, lexer.TokenSemicolon, lexer.TokenNumber,
		lexer.TokenRBrace, lexer.TokenEOF,
	}, typesOf(tokens))
}
