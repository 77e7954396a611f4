package analysis_test

import (
	"testing"

	"github.com/dekarrin/grouper/internal/analysis"
	"github.com/dekarrin/grouper/internal/gram/parse"
	"github.com/stretchr/testify/assert"
)

func Test_Report_listsEveryProductionsAttrs(t *testing.T) {
	assert := assert.New(t)

	spec, err := parse.ParseString(`S : "a" B .
B : "b" | .
`)
	if !assert.NoError(err) {
		return
	}
	if !assert.NoError(analysis.Analyze(spec)) {
		return
	}

	out := analysis.Report(spec)
	assert.Contains(out, "SYMBOL")
	assert.Contains(out, "S")
	assert.Contains(out, "B")
	assert.Contains(out, "true")
}
