package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/teris-io/cli"

	"bali.dev/procedure-compiler/pkg/assembly"
	"bali.dev/procedure-compiler/pkg/compiler"
	"bali.dev/procedure-compiler/pkg/tree"
)

var Description = strings.ReplaceAll(`
The Procedure Compiler compiles a parsed procedure syntax tree (given as a JSON fixture,
the stand-in for the out-of-scope document parser) into the canonical assembly text of
its bytecode instructions.
`, "\n", " ")

var ProcedureCompiler = cli.New(Description).
	WithArg(cli.NewArg("input", "The procedure syntax tree (.tree.json) to be compiled")).
	WithOption(cli.NewOption("output", "The compiled assembly output (.basm), defaults to the input's basename").
		WithType(cli.TypeString)).
	WithOption(cli.NewOption("indent", "Number of four-space units to indent every emitted line").
		WithType(cli.TypeString)).
	WithAction(Handler)

func Handler(args []string, options map[string]string) int {
	if len(args) < 1 {
		fmt.Printf("ERROR: Not enough arguments provided, use --help\n")
		return -1
	}

	content, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Printf("ERROR: Unable to open input file: %s\n", err)
		return -1
	}

	procedure, err := tree.DecodeProcedure(content)
	if err != nil {
		fmt.Printf("ERROR: Unable to decode procedure tree: %s\n", err)
		return -1
	}

	types := compiler.NewTypeContext()
	ctx, err := compiler.Compile(procedure, types)
	if err != nil {
		fmt.Printf("ERROR: Unable to complete 'compile' pass: %s\n", err)
		return -1
	}

	indent := 0
	if raw, ok := options["indent"]; ok {
		fmt.Sscanf(raw, "%d", &indent)
	}
	formatted, err := assembly.NewFormatter(indent).Format(ctx.Instructions)
	if err != nil {
		fmt.Printf("ERROR: Unable to complete 'format' pass: %s\n", err)
		return -1
	}

	output := options["output"]
	if output == "" {
		ext := filepath.Ext(args[0])
		output = strings.TrimSuffix(args[0], ext) + ".basm"
	}

	if err := os.WriteFile(output, []byte(formatted), 0644); err != nil {
		fmt.Printf("ERROR: Unable to write output file: %s\n", err)
		return -1
	}

	return 0
}

func main() { os.Exit(ProcedureCompiler.Run(os.Args, os.Stdout)) }
