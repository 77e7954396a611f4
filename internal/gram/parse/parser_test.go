package parse

import (
	"os"
	"testing"

	"github.com/dekarrin/grouper/internal/gram"
	"github.com/stretchr/testify/assert"
)

func Test_ParseString_simple(t *testing.T) {
	assert := assert.New(t)

	spec, err := ParseString(`S : "a" B .
B : "b" | .
`)
	if !assert.NoError(err) {
		return
	}

	assert.Equal("S", spec.StartSymbol())
	assert.Len(spec.Productions, 2)

	seq, ok := spec.Productions[0].RHS.(*gram.Sequence)
	if !assert.True(ok, "expected S's rhs to be a Sequence") {
		return
	}
	cons, ok := seq.Seq.(*gram.Cons)
	if !assert.True(ok) {
		return
	}
	sym, ok := cons.Head.(*gram.Sym)
	if !assert.True(ok) {
		return
	}
	assert.Equal("a", sym.Value)
}

func Test_ParseString_epsilonAlternative(t *testing.T) {
	assert := assert.New(t)

	spec, err := ParseString(`S : "a" S | .
`)
	if !assert.NoError(err) {
		return
	}

	alts, ok := spec.Productions[0].RHS.(*gram.Alts)
	if !assert.True(ok, "expected rhs to be an Alts") {
		return
	}
	if !assert.Len(alts.Vals, 2) {
		return
	}
	epsilon, ok := alts.Vals[1].(*gram.Sequence)
	if !assert.True(ok, "expected second alternative to be a Sequence") {
		return
	}
	_, ok = epsilon.Seq.(*gram.Lambda)
	assert.True(ok, "an empty alternative's term list is a bare Lambda, not a one-element Cons chain")
}

func Test_ParseString_mergesSharedLHS(t *testing.T) {
	assert := assert.New(t)

	spec, err := ParseString(`S : "a" .
S : "b" .
`)
	if !assert.NoError(err) {
		return
	}

	assert.Len(spec.Productions, 1)
	alts, ok := spec.Productions[0].RHS.(*gram.Alts)
	if !assert.True(ok, "expected merged rhs to be an Alts") {
		return
	}
	assert.Len(alts.Vals, 2)
}

func Test_ParseString_decorations(t *testing.T) {
	assert := assert.New(t)

	spec, err := ParseString(`S : ="a"'x .
`)
	if !assert.NoError(err) {
		return
	}

	seq := spec.Productions[0].RHS.(*gram.Sequence)
	cons := seq.Seq.(*gram.Cons)
	sym := cons.Head.(*gram.Sym)

	assert.True(sym.Keep)
	assert.Equal("x", sym.Name)
}

func Test_ParseString_loopsAndBreak(t *testing.T) {
	assert := assert.New(t)

	spec, err := ParseString(`S : {* "a" break *} .
`)
	if !assert.NoError(err) {
		return
	}

	seq := spec.Productions[0].RHS.(*gram.Sequence)
	cons := seq.Seq.(*gram.Cons)
	inf, ok := cons.Head.(*gram.Infinite)
	if !assert.True(ok, "expected an Infinite loop") {
		return
	}

	body := inf.E.(*gram.Sequence)
	bodyCons := body.Seq.(*gram.Cons)
	assert.IsType(&gram.Sym{}, bodyCons.Head)

	next, ok := bodyCons.Tail.(*gram.Cons)
	if !assert.True(ok) {
		return
	}
	assert.IsType(&gram.Break{}, next.Head)
}

func Test_ParseString_preambleAndPragma(t *testing.T) {
	assert := assert.New(t)

	spec, err := ParseString("«package grouper»\nS : \"a\" .\n%% [return]\n%% S = \"int\"\n")
	if !assert.NoError(err) {
		return
	}

	assert.Equal([]string{"package grouper"}, spec.Preamble)
	section, ok := spec.Pragmas["return"].(map[string]any)
	if !assert.True(ok) {
		return
	}
	assert.Equal("int", section["S"])
}

func Test_ParseString_syntaxError(t *testing.T) {
	assert := assert.New(t)

	_, err := ParseString(`S : ( "a" .`)
	assert.Error(err)
}

// Test_ParseString_selfDescribingGrammar parses testdata/grouper.ebnf, the
// grammar of grouper's own surface syntax written in that syntax, as a
// human-readable cross-check on this package's hand-written scanner/parser.
func Test_ParseString_selfDescribingGrammar(t *testing.T) {
	assert := assert.New(t)

	src, err := os.ReadFile("testdata/grouper.ebnf")
	if !assert.NoError(err) {
		return
	}

	spec, err := ParseString(string(src))
	if !assert.NoError(err) {
		return
	}

	assert.Equal("Grammar", spec.StartSymbol())
	assert.Len(spec.Productions, 8)
}
