package gram

import (
	"strings"

	"github.com/BurntSushi/toml"
)

// ParsePragmas parses the concatenation of every "%%"-prefixed line
// encountered by the scanner as a single TOML fragment. The "%%"
// marker itself has already been stripped by the scanner; lines are joined
// with newlines before handing them to the TOML parser.
//
// Recognized keys ("return", a per-function return-type annotation, and
// "locals", a per-function local-variable-to-type-annotation mapping) are
// consumed by the emitter; any other key is preserved in the
// returned map and passed through without effect.
func ParsePragmas(lines []string) (map[string]any, error) {
	fragment := strings.Join(lines, "\n")
	if strings.TrimSpace(fragment) == "" {
		return map[string]any{}, nil
	}

	var table map[string]any
	if _, err := toml.Decode(fragment, &table); err != nil {
		return nil, err
	}
	if table == nil {
		table = map[string]any{}
	}
	return table, nil
}

// ReturnType looks up the per-function return-type annotation for fn from
// the decoded pragma table, e.g.:
//
//	[return]
//	Expr = "ast.Node"
func ReturnType(pragmas map[string]any, fn string) (string, bool) {
	section, ok := pragmas["return"].(map[string]any)
	if !ok {
		return "", false
	}
	v, ok := section[fn].(string)
	return v, ok
}

// LocalType looks up the declared type annotation for the local variable
// named local within function fn, e.g.:
//
//	[locals.Expr]
//	lhs = "ast.Node"
func LocalType(pragmas map[string]any, fn, local string) (string, bool) {
	locals, ok := pragmas["locals"].(map[string]any)
	if !ok {
		return "", false
	}
	section, ok := locals[fn].(map[string]any)
	if !ok {
		return "", false
	}
	v, ok := section[local].(string)
	return v, ok
}
