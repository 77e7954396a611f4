// Package ierrors holds the error families grouper raises: small structs
// with unexported fields implementing error, built by constructor functions, each carrying
// whatever structured context its family needs in addition to a human
// message.
package ierrors

import (
	"fmt"

	"github.com/dekarrin/rosed"
)

// Token is the minimal shape a scanned token must have to be reported in a
// SyntaxError or ParseError. It mirrors the token contract the generated
// parser's own ParseError expects of the runtime it is embedded in.
type Token struct {
	Kind   string
	Lexeme string
	Line   int
	Column int
}

func (t Token) String() string {
	if t.Kind == "EOF" {
		return fmt.Sprintf("<EOF> (line %d, col %d)", t.Line, t.Column)
	}
	return fmt.Sprintf("%q (%s, line %d, col %d)", t.Lexeme, t.Kind, t.Line, t.Column)
}

// SyntaxError is raised by the grammar-file surface scanner/parser.
// It is fatal: the generator aborts with exit status 1.
type SyntaxError struct {
	msg      string
	token    Token
	expected []string
}

func (e *SyntaxError) Error() string {
	return e.msg
}

// Token returns the offending token.
func (e *SyntaxError) Token() Token { return e.token }

// Expected returns the set of token kinds that would have been acceptable at
// the point of failure.
func (e *SyntaxError) Expected() []string { return e.expected }

// FullMessage renders a multi-line, word-wrapped diagnostic suitable for
// printing to stderr.
func (e *SyntaxError) FullMessage() string {
	msg := fmt.Sprintf("syntax error: %s\nat: %s\nexpected one of: %v", e.msg, e.token, e.expected)
	return rosed.Edit(msg).Wrap(100).String()
}

// NewSyntaxError returns a SyntaxError for the given offending token.
func NewSyntaxError(msg string, tok Token, expected []string) *SyntaxError {
	return &SyntaxError{msg: msg, token: tok, expected: expected}
}

// AnalysisError reports a structural defect found during the analysis or
// inference passes that cannot be reduced to a non-fatal Warning — e.g. a
// Break appearing outside any enclosing loop.
type AnalysisError struct {
	msg  string
	wrap error
}

func (e *AnalysisError) Error() string { return e.msg }
func (e *AnalysisError) Unwrap() error { return e.wrap }

// NewAnalysisError returns an AnalysisError with the given message.
func NewAnalysisError(format string, args ...interface{}) *AnalysisError {
	return &AnalysisError{msg: fmt.Sprintf(format, args...)}
}

// WrapAnalysisError returns an AnalysisError that wraps e with additional
// context.
func WrapAnalysisError(wrapped error, format string, args ...interface{}) *AnalysisError {
	return &AnalysisError{msg: fmt.Sprintf(format, args...), wrap: wrapped}
}

// ParseError is the runtime error family the emitted parser raises.
// This Go-side definition is used by internal/examples' round-trip
// self-check, which interprets the IR directly instead of invoking a
// separately-compiled host-language toolchain.
type ParseError struct {
	msg      string
	token    Token
	expected []string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s at %s (expected one of %v)", e.msg, e.token, e.expected)
}

// Token returns the offending token.
func (e *ParseError) Token() Token { return e.token }

// Expected returns the set of token kinds that would have been acceptable.
func (e *ParseError) Expected() []string { return e.expected }

// NewParseError returns a ParseError for the given offending token.
func NewParseError(msg string, tok Token, expected []string) *ParseError {
	return &ParseError{msg: msg, token: tok, expected: expected}
}
