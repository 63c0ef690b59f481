package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/teris-io/cli"

	"bali.dev/procedure-compiler/pkg/assembler"
	"bali.dev/procedure-compiler/pkg/assembly"
	"bali.dev/procedure-compiler/pkg/compiler"
	"bali.dev/procedure-compiler/pkg/intrinsics"
	"bali.dev/procedure-compiler/pkg/tree"
)

var Description = strings.ReplaceAll(`
The Bali Compiler runs the full pipeline end to end: it compiles a procedure syntax tree
(a JSON fixture) straight through to a packed bytecode image, formatting to canonical
assembly text and re-assembling it along the way exactly as procc and baliasm would if
run back to back.
`, "\n", " ")

var BaliCompiler = cli.New(Description).
	WithArg(cli.NewArg("input", "The procedure syntax tree (.tree.json) to be compiled")).
	WithOption(cli.NewOption("output", "The compiled bytecode output (.balibc), defaults to the input's basename").
		WithType(cli.TypeString)).
	WithOption(cli.NewOption("emit-assembly", "Also writes the intermediate canonical assembly text (.basm)").
		WithType(cli.TypeBool)).
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

	formatted, err := assembly.NewFormatter(0).Format(ctx.Instructions)
	if err != nil {
		fmt.Printf("ERROR: Unable to complete 'format' pass: %s\n", err)
		return -1
	}

	ext := filepath.Ext(args[0])
	base := strings.TrimSuffix(args[0], ext)

	if _, enabled := options["emit-assembly"]; enabled {
		if err := os.WriteFile(base+".basm", []byte(formatted), 0644); err != nil {
			fmt.Printf("ERROR: Unable to write intermediate assembly file: %s\n", err)
			return -1
		}
	}

	packed, err := assembler.Assemble([]byte(formatted), ctx, types, intrinsics.NewTable())
	if err != nil {
		fmt.Printf("ERROR: Unable to complete 'assemble' pass: %s\n", err)
		return -1
	}

	output := options["output"]
	if output == "" {
		output = base + ".balibc"
	}

	if err := os.WriteFile(output, packed, 0644); err != nil {
		fmt.Printf("ERROR: Unable to write output file: %s\n", err)
		return -1
	}

	return 0
}

func main() { os.Exit(BaliCompiler.Run(os.Args, os.Stdout)) }
