/*
Grouper turns an EBNF-like grammar file into a generated Go recursive-descent
parser, or into sample sentences the grammar accepts.

Usage:

	grouper <command> [flags]

The commands are:

	create
		Read a grammar and emit generated Go parser source.

		-i, --input PATH
			Grammar file to read. Defaults to stdin.

		-o, --output PATH
			Destination for the generated source. Defaults to stdout.

		--verbose
			Emit VERBOSE IR annotations as comments in the generated source.

		--decorate
			Run target inference so generated functions build and return a
			value, instead of merely recognizing input.

	examples
		Emit a JSON array of randomly generated sentences the grammar accepts.

	shortest
		Emit a JSON array of shortest-first enumerated sentences the grammar
		accepts.

	version
		Print the grouper version and exit.

examples and shortest share:

	-i, --input PATH
		Grammar file to read. Defaults to stdin.

	-o, --output PATH
		Destination for the JSON array. Defaults to stdout.

	-q, --quantity N
		Number of sentences to produce. Defaults to 1.

	-l, --limit N
		Bounds search/recursion depth. Defaults to 100.

Exit status is 0 on success, 1 on any input error.
*/
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/dekarrin/grouper/internal/analysis"
	"github.com/dekarrin/grouper/internal/emit"
	"github.com/dekarrin/grouper/internal/examples"
	"github.com/dekarrin/grouper/internal/gram"
	"github.com/dekarrin/grouper/internal/gram/parse"
	"github.com/dekarrin/grouper/internal/infer"
	"github.com/dekarrin/grouper/internal/ir"
	"github.com/dekarrin/grouper/internal/version"
	"github.com/dekarrin/rosed"
	"github.com/spf13/pflag"
)

const (
	// ExitSuccess indicates a successful program execution.
	ExitSuccess = iota

	// ExitInputError indicates an unsuccessful program execution due to a
	// problem reading, parsing, or analyzing the grammar file.
	ExitInputError
)

var returnCode int = ExitSuccess

func main() {
	defer func() {
		if panicErr := recover(); panicErr != nil {
			panic(fmt.Sprintf("unrecoverable panic occured: %v", panicErr))
		} else {
			os.Exit(returnCode)
		}
	}()

	if len(os.Args) < 2 {
		fail(fmt.Errorf("expected a command: create, examples, or shortest"))
		return
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	var err error
	switch cmd {
	case "create":
		err = runCreate(args)
	case "examples":
		err = runExamples(args, examples.Random)
	case "shortest":
		err = runExamples(args, examples.Shortest)
	case "version", "--version":
		fmt.Println(version.Current)
	default:
		err = fmt.Errorf("unknown command %q: expected create, examples, shortest, or version", cmd)
	}

	if err != nil {
		fail(err)
	}
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "ERROR: %s\n", rosed.Edit(err.Error()).Wrap(100).String())
	returnCode = ExitInputError
}

func openInput(path string) (io.ReadCloser, error) {
	if path == "" {
		return io.NopCloser(os.Stdin), nil
	}
	return os.Open(path)
}

func openOutput(path string) (io.WriteCloser, error) {
	if path == "" {
		return nopWriteCloser{os.Stdout}, nil
	}
	return os.Create(path)
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

func readGrammar(path string) (*gram.Spec, error) {
	in, err := openInput(path)
	if err != nil {
		return nil, err
	}
	defer in.Close()

	src, err := io.ReadAll(in)
	if err != nil {
		return nil, err
	}
	return parse.ParseString(string(src))
}

func runCreate(args []string) error {
	fs := pflag.NewFlagSet("create", pflag.ContinueOnError)
	input := fs.StringP("input", "i", "", "Grammar file to read; defaults to stdin")
	output := fs.StringP("output", "o", "", "Destination for generated source; defaults to stdout")
	verbose := fs.Bool("verbose", false, "Emit VERBOSE IR annotations as comments")
	decorate := fs.Bool("decorate", false, "Run target inference and generate value-returning functions")
	if err := fs.Parse(args); err != nil {
		return err
	}

	spec, err := readGrammar(*input)
	if err != nil {
		return err
	}
	if err := analysis.Analyze(spec); err != nil {
		return err
	}
	if *verbose {
		fmt.Fprintln(os.Stderr, analysis.Report(spec))
	}
	if *decorate {
		infer.Infer(spec)
	}

	prog := ir.Generate(spec, *decorate)
	src := emit.New("parser", *verbose).Emit(prog)

	out, err := openOutput(*output)
	if err != nil {
		return err
	}
	defer out.Close()
	_, err = io.WriteString(out, src)
	return err
}

// generator is the shared shape of examples.Random and examples.Shortest,
// so runExamples can drive either from one flag set.
type generator func(spec *gram.Spec, quantity, limit int) []string

func runExamples(args []string, gen generator) error {
	fs := pflag.NewFlagSet("examples", pflag.ContinueOnError)
	input := fs.StringP("input", "i", "", "Grammar file to read; defaults to stdin")
	output := fs.StringP("output", "o", "", "Destination for the JSON array; defaults to stdout")
	quantity := fs.IntP("quantity", "q", 1, "Number of sentences to produce")
	limit := fs.IntP("limit", "l", 100, "Bounds search/recursion depth")
	if err := fs.Parse(args); err != nil {
		return err
	}

	spec, err := readGrammar(*input)
	if err != nil {
		return err
	}

	sentences := gen(spec, *quantity, *limit)

	payload, err := json.Marshal(sentences)
	if err != nil {
		return err
	}

	out, err := openOutput(*output)
	if err != nil {
		return err
	}
	defer out.Close()
	_, err = out.Write(append(payload, '\n'))
	return err
}
