package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	typecake "github.com/g-plane/TypeCake"
	"github.com/g-plane/TypeCake/internal/outline"
	"github.com/g-plane/TypeCake/pkg/ast"
)

var astCount bool

var astCmd = &cobra.Command{
	Use:   "ast [file]",
	Short: "Print the syntax tree of a TypeCake source",
	Long: `Print the syntax tree of a TypeCake source as an indented outline,
one node per line with its line:column range. Reads stdin when no file is
given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAST,
}

func init() {
	astCmd.Flags().BoolVar(&astCount, "count", false, "Print the number of nodes per kind instead of the outline")
}

func runAST(cmd *cobra.Command, args []string) error {
	name := "<stdin>"
	var (
		data []byte
		err  error
	)
	if len(args) == 0 || args[0] == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		name = args[0]
		data, err = os.ReadFile(name)
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", name, err)
	}

	program, err := typecake.Parse(string(data))
	if err != nil {
		return report(cmd, []compileResult{{name: name, err: err}})
	}

	out := cmd.OutOrStdout()
	if !astCount {
		return outline.Write(out, program)
	}
	counts := outline.Count(program)
	for k := ast.KindProgram; k <= ast.KindTypeOperator; k++ {
		if n := counts[k]; n > 0 {
			fmt.Fprintf(out, "%-28s %d\n", k, n)
		}
	}
	return nil
}
