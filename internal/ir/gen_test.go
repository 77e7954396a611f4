package ir_test

import (
	"testing"

	"github.com/dekarrin/grouper/internal/analysis"
	"github.com/dekarrin/grouper/internal/gram/parse"
	"github.com/dekarrin/grouper/internal/infer"
	"github.com/dekarrin/grouper/internal/ir"
	"github.com/stretchr/testify/assert"
)

func compile(t *testing.T, src string) *ir.Program {
	t.Helper()
	spec, err := parse.ParseString(src)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := analysis.Analyze(spec); err != nil {
		t.Fatalf("analyze: %v", err)
	}
	infer.Infer(spec)
	return ir.Generate(spec, true)
}

func Test_Generate_terminalAndNonTerminal(t *testing.T) {
	assert := assert.New(t)

	prog := compile(t, `S : B .
B : "b" .
`)

	if !assert.Len(prog.Functions, 2) {
		return
	}
	assert.Equal("S", prog.Functions[0].Name)
	assert.Equal("B", prog.Functions[1].Name)
}

func Test_Generate_repetitionEmitsLoop(t *testing.T) {
	assert := assert.New(t)

	prog := compile(t, `S : ={ "a" }'items .
`)

	var sawLoop bool
	var walk func([]ir.Stmt)
	walk = func(stmts []ir.Stmt) {
		for _, s := range stmts {
			switch v := s.(type) {
			case ir.Loop:
				sawLoop = true
				walk(v.Body)
			case ir.Sequence:
				walk(v.Stmts)
			}
		}
	}
	walk(prog.Functions[0].Body)
	assert.True(sawLoop)
}

func Test_Generate_undecoratedOmitsReturn(t *testing.T) {
	assert := assert.New(t)

	spec, err := parse.ParseString(`S : "a" .
`)
	if !assert.NoError(err) {
		return
	}
	if err := analysis.Analyze(spec); !assert.NoError(err) {
		return
	}
	// deliberately skip infer.Infer: undecorated mode never runs it.
	prog := ir.Generate(spec, false)

	if !assert.Len(prog.Functions, 1) {
		return
	}
	fn := prog.Functions[0]
	assert.False(fn.Decorate)
	for _, s := range fn.Body {
		_, isReturn := s.(ir.Return)
		assert.False(isReturn, "undecorated function body must not return a value")
	}
}

// countAppends counts every AppendToList statement reachable in stmts,
// descending into blocks, loop bodies and alternative arms.
func countAppends(stmts []ir.Stmt) int {
	n := 0
	for _, s := range stmts {
		switch v := s.(type) {
		case ir.AppendToList:
			n++
		case ir.Sequence:
			n += countAppends(v.Stmts)
		case ir.Loop:
			n += countAppends(v.Body)
		case ir.SelectAlternative:
			for _, arm := range v.Arms {
				n += countAppends(arm.Body)
			}
		}
	}
	return n
}

func Test_Generate_optLoopBodyAppendsOnce(t *testing.T) {
	assert := assert.New(t)

	prog := compile(t, `S : ={ [ "a" ] }'items .
`)

	assert.Equal(1, countAppends(prog.Functions[0].Body),
		"a collecting loop with an Opt body must append exactly once per iteration")
}

func Test_Generate_parensAltsLoopBodyAppendsOnce(t *testing.T) {
	assert := assert.New(t)

	prog := compile(t, `S : ={ ( "a" | "b" ) }'items .
`)

	assert.Equal(1, countAppends(prog.Functions[0].Body),
		"a collecting loop with a parenthesized alternation body must append exactly once per iteration")
}

func Test_Generate_onePlusLoopBodyAppendsOnce(t *testing.T) {
	assert := assert.New(t)

	prog := compile(t, `S : ={+ ( "a" | "b" ) +}'items .
`)

	assert.Equal(1, countAppends(prog.Functions[0].Body))
}

func Test_Generate_repeatedNonTerminalDeclaredOnce(t *testing.T) {
	assert := assert.New(t)

	prog := compile(t, `S : B B .
B : "b" .
`)

	var seqs []ir.Sequence
	var walk func([]ir.Stmt)
	walk = func(stmts []ir.Stmt) {
		for _, s := range stmts {
			if seq, ok := s.(ir.Sequence); ok {
				seqs = append(seqs, seq)
				walk(seq.Stmts)
			}
		}
	}
	walk(prog.Functions[0].Body)

	for _, seq := range seqs {
		counts := map[string]int{}
		for _, d := range seq.Decls {
			counts[d.Name]++
		}
		for name, n := range counts {
			assert.Equal(1, n, "local %q declared %d times in one block", name, n)
		}
	}
}

func Test_Generate_loopElementIsDeclared(t *testing.T) {
	assert := assert.New(t)

	prog := compile(t, `S : ={ "a" }'items .
`)

	var declared []string
	var walk func([]ir.Stmt)
	walk = func(stmts []ir.Stmt) {
		for _, s := range stmts {
			if seq, ok := s.(ir.Sequence); ok {
				for _, d := range seq.Decls {
					declared = append(declared, d.Name)
				}
				walk(seq.Stmts)
			}
		}
	}
	walk(prog.Functions[0].Body)

	assert.Contains(declared, "items")
	assert.Contains(declared, "items_element_")
}

func Test_Generate_untargetedCodeBlockGetsSideEffectComment(t *testing.T) {
	assert := assert.New(t)

	prog := compile(t, `S : «doSomething()» "a" .
`)

	var commentBeforeCorn bool
	var walk func([]ir.Stmt)
	walk = func(stmts []ir.Stmt) {
		for i, s := range stmts {
			if c, ok := s.(ir.Comment); ok && c.Message == "For side-effects" {
				if i+1 < len(stmts) {
					if _, ok := stmts[i+1].(ir.Corn); ok {
						commentBeforeCorn = true
					}
				}
			}
			if seq, ok := s.(ir.Sequence); ok {
				walk(seq.Stmts)
			}
		}
	}
	walk(prog.Functions[0].Body)
	assert.True(commentBeforeCorn, "untargeted code block should emit a side-effects comment immediately before its Corn statement")
}

func Test_Generate_ambiguousAltEmitsWarning(t *testing.T) {
	assert := assert.New(t)

	prog := compile(t, `S : "a" | "a" "b" .
`)

	var sawWarning bool
	for _, s := range prog.Functions[0].Body {
		if _, ok := s.(ir.Warning); ok {
			sawWarning = true
		}
	}
	assert.True(sawWarning)
}
