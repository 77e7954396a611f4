package analysis

import (
	"fmt"

	"github.com/dekarrin/grouper/internal/gram"
	"github.com/dekarrin/rosed"
)

// Report renders a table of every production's left-hand side against its
// NULLABLE/FIRST/FOLLOW, for a --verbose run to show what the fixed point
// actually settled on.
func Report(spec *gram.Spec) string {
	data := [][]string{{"SYMBOL", "NULLABLE", "FIRST", "FOLLOW"}}
	for _, p := range spec.Productions {
		a := p.RHS.Attrs()
		data = append(data, []string{
			p.LHS,
			fmt.Sprintf("%v", a.Nullable),
			a.First.String(),
			a.Follow.String(),
		})
	}

	return rosed.Edit("").
		InsertTableOpts(0, data, 10, rosed.Options{
			TableHeaders:             true,
			NoTrailingLineSeparators: true,
		}).
		String()
}
