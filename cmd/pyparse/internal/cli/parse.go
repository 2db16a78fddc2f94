package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	pyast "github.com/gopythonic/pyparse/python/ast"
	"github.com/gopythonic/pyparse/python/parser"
)

func newParseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse <file>",
		Short: "parse a Python source file and print its AST",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := readSource(args[0])
			if err != nil {
				return err
			}
			opts, err := parserOptions()
			if err != nil {
				return err
			}

			mod, sink, err := parser.ParseFile(args[0], src, opts)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			depth := 0
			pyast.Walk(mod,
				func(n pyast.Node) bool {
					fmt.Fprintf(out, "%s%s\n", strings.Repeat("  ", depth), describeNode(n))
					depth++
					return true
				},
				func(pyast.Node) { depth-- },
			)

			printDiagnostics(sink)
			if sink.HasErrors() {
				return errExitSilently
			}
			return nil
		},
	}
}

// describeNode renders one line of AST-dump output for n, the node's type
// name plus whatever scalar field best identifies it.
func describeNode(n pyast.Node) string {
	switch x := n.(type) {
	case *pyast.Name:
		return fmt.Sprintf("Name %q", x.Id)
	case *pyast.Constant:
		return fmt.Sprintf("Constant %#v", x.Value)
	case *pyast.FunctionDef:
		return fmt.Sprintf("FunctionDef %q", x.Name)
	case *pyast.ClassDef:
		return fmt.Sprintf("ClassDef %q", x.Name)
	case *pyast.Attribute:
		return fmt.Sprintf("Attribute .%s", x.Attr)
	case *pyast.BinOp:
		return fmt.Sprintf("BinOp %s", x.Op)
	case *pyast.UnaryOp:
		return fmt.Sprintf("UnaryOp %s", x.Op)
	default:
		return fmt.Sprintf("%T", n)[len("*ast."):]
	}
}
