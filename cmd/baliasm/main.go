package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/teris-io/cli"

	"bali.dev/procedure-compiler/pkg/assembler"
	"bali.dev/procedure-compiler/pkg/compiler"
	"bali.dev/procedure-compiler/pkg/intrinsics"
	"bali.dev/procedure-compiler/pkg/tree"
)

var Description = strings.ReplaceAll(`
The Bali Assembler re-parses canonical assembly text (as emitted by procc, or hand-edited
afterward) and resolves it against a procedure's symbol tables into a packed bytecode
image. It takes both the assembly listing and the procedure's original syntax tree,
since a handful of operand kinds (PUSH CONSTANT/PARAMETER) resolve against tables the
assembly grammar itself carries no values for.
`, "\n", " ")

var BaliAssembler = cli.New(Description).
	WithArg(cli.NewArg("tree", "The procedure syntax tree (.tree.json) the assembly was compiled from")).
	WithArg(cli.NewArg("assembly", "The canonical assembly text (.basm) to be assembled")).
	WithOption(cli.NewOption("output", "The assembled bytecode output (.balibc), defaults to the assembly's basename").
		WithType(cli.TypeString)).
	WithAction(Handler)

func Handler(args []string, options map[string]string) int {
	if len(args) < 2 {
		fmt.Printf("ERROR: Not enough arguments provided, use --help\n")
		return -1
	}

	treeContent, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Printf("ERROR: Unable to open tree file: %s\n", err)
		return -1
	}
	procedure, err := tree.DecodeProcedure(treeContent)
	if err != nil {
		fmt.Printf("ERROR: Unable to decode procedure tree: %s\n", err)
		return -1
	}

	types := compiler.NewTypeContext()
	ctx, err := compiler.Compile(procedure, types)
	if err != nil {
		fmt.Printf("ERROR: Unable to rebuild symbol tables from the syntax tree: %s\n", err)
		return -1
	}

	assemblyContent, err := os.ReadFile(args[1])
	if err != nil {
		fmt.Printf("ERROR: Unable to open assembly file: %s\n", err)
		return -1
	}

	packed, err := assembler.Assemble(assemblyContent, ctx, types, intrinsics.NewTable())
	if err != nil {
		fmt.Printf("ERROR: Unable to complete 'assemble' pass: %s\n", err)
		return -1
	}

	output := options["output"]
	if output == "" {
		ext := filepath.Ext(args[1])
		output = strings.TrimSuffix(args[1], ext) + ".balibc"
	}

	if err := os.WriteFile(output, packed, 0644); err != nil {
		fmt.Printf("ERROR: Unable to write output file: %s\n", err)
		return -1
	}

	return 0
}

func main() { os.Exit(BaliAssembler.Run(os.Args, os.Stdout)) }
