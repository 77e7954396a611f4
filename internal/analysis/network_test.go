package analysis

import (
	"testing"

	"github.com/dekarrin/grouper/internal/gram"
	"github.com/dekarrin/grouper/internal/gram/parse"
	"github.com/stretchr/testify/assert"
)

func Test_Analyze_simpleAlternation(t *testing.T) {
	assert := assert.New(t)

	spec, err := parse.ParseString(`S : "a" B .
B : "b" | .
`)
	if !assert.NoError(err) {
		return
	}

	if !assert.NoError(Analyze(spec)) {
		return
	}

	s := spec.Productions[0].RHS
	assert.False(s.Attrs().Nullable)
	assert.True(s.Attrs().First.Has("a"))
	assert.True(s.Attrs().Follow.Has("EOF"))

	b := spec.Productions[1].RHS
	assert.True(b.Attrs().Nullable)
	assert.True(b.Attrs().First.Has("b"))
	assert.True(b.Attrs().Follow.Has("EOF"))
}

func Test_Analyze_repetitionFollow(t *testing.T) {
	assert := assert.New(t)

	spec, err := parse.ParseString(`S : { "a" } "b" .
`)
	if !assert.NoError(err) {
		return
	}
	if !assert.NoError(Analyze(spec)) {
		return
	}

	assert.True(spec.Productions[0].RHS.Attrs().Predict.Has("a"))
	assert.True(spec.Productions[0].RHS.Attrs().Predict.Has("b"))
}

func Test_Analyze_ambiguousAlternationWarns(t *testing.T) {
	assert := assert.New(t)

	spec, err := parse.ParseString(`S : "a" | "a" "b" .
`)
	if !assert.NoError(err) {
		return
	}
	if !assert.NoError(Analyze(spec)) {
		return
	}

	alts := spec.Productions[0].RHS
	assert.NotEmpty(alts.Attrs().Warnings)
}

func Test_Analyze_nullableRepetitionWarns(t *testing.T) {
	assert := assert.New(t)

	spec, err := parse.ParseString(`S : { B } .
B : "b" | .
`)
	if !assert.NoError(err) {
		return
	}
	if !assert.NoError(Analyze(spec)) {
		return
	}

	rep := spec.Productions[0].RHS.(*gram.Sequence).Seq.(*gram.Cons).Head
	assert.NotEmpty(rep.Attrs().Warnings)
}

func Test_Analyze_breakUsesEnclosingLoopFollow(t *testing.T) {
	assert := assert.New(t)

	spec, err := parse.ParseString(`S : {* "a" break *} "c" .
`)
	if !assert.NoError(err) {
		return
	}
	if !assert.NoError(Analyze(spec)) {
		return
	}

	assert.True(spec.Productions[0].RHS.Attrs().Predict.Has("a"))

	loop := spec.Productions[0].RHS.(*gram.Sequence).Seq.(*gram.Cons).Head.(*gram.Infinite)
	brk := loop.E.(*gram.Sequence).Seq.(*gram.Cons).Tail.(*gram.Cons).Head
	assert.True(brk.Attrs().Predict.Equal(loop.Attrs().Follow))
	assert.True(brk.Attrs().Predict.Has("c"))
}

func Test_Analyze_predictLaw(t *testing.T) {
	assert := assert.New(t)

	spec, err := parse.ParseString(`S : { "a" } B "c" .
B : "b" | .
`)
	if !assert.NoError(err) {
		return
	}
	if !assert.NoError(Analyze(spec)) {
		return
	}

	for _, p := range spec.Productions {
		walk(p.RHS, func(n gram.Expr) {
			switch n.(type) {
			case *gram.Break, *gram.Continue:
				// PREDICT comes from the enclosing loop, not the node's own
				// FIRST/FOLLOW.
				return
			}
			a := n.Attrs()
			want := a.First.Copy()
			if a.Nullable {
				want.AddAll(a.Follow)
			}
			assert.True(want.Equal(a.Predict),
				"%T: predict %s != first∪(nullable?follow) %s", n, a.Predict, want)
		})
	}
}

func Test_Analyze_breakOutsideLoopErrors(t *testing.T) {
	assert := assert.New(t)

	spec, err := parse.ParseString(`S : "a" break .
`)
	if !assert.NoError(err) {
		return
	}

	assert.Error(Analyze(spec))
}

func Test_Analyze_continueOutsideLoopErrors(t *testing.T) {
	assert := assert.New(t)

	spec, err := parse.ParseString(`S : "a" continue .
`)
	if !assert.NoError(err) {
		return
	}

	assert.Error(Analyze(spec))
}
