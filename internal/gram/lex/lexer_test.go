package lex

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Lexer_Scan_punctuation(t *testing.T) {
	testCases := []struct {
		name   string
		input  string
		expect []Kind
	}{
		{
			name:   "all single-char punctuation",
			input:  `: . | ( ) [ ] { } ' = @ !`,
			expect: []Kind{KindColon, KindDot, KindPipe, KindLParen, KindRParen, KindLBrack, KindRBrack, KindLBrace, KindRBrace, KindQuote, KindEq, KindAt, KindBang, KindEOF},
		},
		{
			name:   "loop delimiters greedily matched",
			input:  `{+ x +} {* y *} { z }`,
			expect: []Kind{KindLOnePlus, KindIdent, KindROnePlus, KindLInf, KindIdent, KindRInf, KindLBrace, KindIdent, KindRBrace, KindEOF},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			toks, err := New(tc.input).Scan()
			if !assert.NoError(err) {
				return
			}

			var kinds []Kind
			for _, tok := range toks {
				kinds = append(kinds, tok.Kind)
			}
			assert.Equal(tc.expect, kinds)
		})
	}
}

func Test_Lexer_Scan_keywords(t *testing.T) {
	assert := assert.New(t)

	toks, err := New(`break continue breaker`).Scan()
	if !assert.NoError(err) {
		return
	}

	assert.Equal(KindBreak, toks[0].Kind)
	assert.Equal(KindContinue, toks[1].Kind)
	assert.Equal(KindIdent, toks[2].Kind)
	assert.Equal("breaker", toks[2].Lexeme)
}

func Test_Lexer_Scan_string(t *testing.T) {
	assert := assert.New(t)

	toks, err := New(`"hello"`).Scan()
	if !assert.NoError(err) {
		return
	}

	assert.Equal(KindString, toks[0].Kind)
	assert.Equal("hello", toks[0].Lexeme)
}

func Test_Lexer_Scan_codeBlocks(t *testing.T) {
	testCases := []struct {
		name   string
		input  string
		expect string
	}{
		{name: "guillemets", input: "«x + 1»", expect: "x + 1"},
		{name: "angle-bracket pairs", input: "<< x + 1 >>", expect: "x + 1"},
		{name: "mathematical angle brackets", input: "⟪x + 1⟫", expect: "x + 1"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			toks, err := New(tc.input).Scan()
			if !assert.NoError(err) {
				return
			}

			if !assert.Equal(KindCode, toks[0].Kind) {
				return
			}
			assert.Equal(tc.expect, toks[0].Lexeme)
		})
	}
}

func Test_Lexer_Scan_commentsAndPragmas(t *testing.T) {
	assert := assert.New(t)

	input := "# a comment\nA : \"a\" . %% [return]\n%% A = \"string\"\n"
	lx := New(input)
	toks, err := lx.Scan()
	if !assert.NoError(err) {
		return
	}

	var kinds []Kind
	for _, tok := range toks {
		kinds = append(kinds, tok.Kind)
	}
	assert.Equal([]Kind{KindIdent, KindColon, KindString, KindDot, KindEOF}, kinds)
	assert.Equal([]string{`[return]`, `A = "string"`}, lx.Pragmas())
}

func Test_Lexer_Scan_unterminatedString(t *testing.T) {
	assert := assert.New(t)

	_, err := New(`"unterminated`).Scan()
	assert.Error(err)
}
