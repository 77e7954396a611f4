package infer

import (
	"testing"

	"github.com/dekarrin/grouper/internal/gram"
	"github.com/dekarrin/grouper/internal/gram/parse"
	"github.com/stretchr/testify/assert"
)

func Test_Infer_keepAndName(t *testing.T) {
	assert := assert.New(t)

	spec, err := parse.ParseString(`S : ="a"'x .
`)
	if !assert.NoError(err) {
		return
	}
	Infer(spec)

	seq := spec.Productions[0].RHS.(*gram.Sequence)
	cons := seq.Seq.(*gram.Cons)
	sym := cons.Head.(*gram.Sym)

	if !assert.True(sym.Keep0, "sole term of a sequence is keep0") {
		return
	}
	if !assert.NotNil(sym.Target) {
		return
	}
	assert.Equal(RootVar("S"), sym.Target.Name)
}

func Test_Infer_epsilonAlternativeDoesNotPanic(t *testing.T) {
	assert := assert.New(t)

	spec, err := parse.ParseString(`S : "a" S | .
`)
	if !assert.NoError(err) {
		return
	}

	assert.NotPanics(func() { Infer(spec) })

	alts := spec.Productions[0].RHS.(*gram.Alts)
	epsilon := alts.Vals[1].(*gram.Sequence)
	_, ok := epsilon.Seq.(*gram.Lambda)
	assert.True(ok, "empty alternative's sequence is a bare Lambda, not a Cons chain")
}

func Test_Infer_nonterminalSynthesizesName(t *testing.T) {
	assert := assert.New(t)

	spec, err := parse.ParseString(`S : B "c" .
B : "b" .
`)
	if !assert.NoError(err) {
		return
	}
	Infer(spec)

	seq := spec.Productions[0].RHS.(*gram.Sequence)
	cons := seq.Seq.(*gram.Cons)
	sym := cons.Head.(*gram.Sym)

	assert.Equal("B", sym.Name)
	assert.Nil(sym.Target)
}

func Test_Infer_loopCollectsIntoElement(t *testing.T) {
	assert := assert.New(t)

	spec, err := parse.ParseString(`S : ={ "a" }'items .
`)
	if !assert.NoError(err) {
		return
	}
	Infer(spec)

	seq := spec.Productions[0].RHS.(*gram.Sequence)
	cons := seq.Seq.(*gram.Cons)
	rep := cons.Head.(*gram.Rep)

	assert.Equal("items_element_", rep.Element)
	assert.NotNil(rep.Target)
	assert.Equal(RootVar("S"), rep.Target.Name)

	body := rep.E.(*gram.Sequence).Seq.(*gram.Cons).Head
	if !assert.NotNil(body.Attrs().Target) {
		return
	}
	assert.Equal("items_element_", body.Attrs().Target.Name)
	assert.Len(body.Attrs().Target.SideEffects, 1)
}

func Test_Infer_simpleLoopDoesNotCollect(t *testing.T) {
	assert := assert.New(t)

	spec, err := parse.ParseString(`S : ={ "a" }!'items .
`)
	if !assert.NoError(err) {
		return
	}
	Infer(spec)

	seq := spec.Productions[0].RHS.(*gram.Sequence)
	cons := seq.Seq.(*gram.Cons)
	rep := cons.Head.(*gram.Rep)

	assert.Empty(rep.Element)
}
