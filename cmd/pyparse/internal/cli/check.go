package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gopythonic/pyparse/python/errors"
	"github.com/gopythonic/pyparse/python/parser"
)

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <file>",
		Short: "parse a file and report diagnostics without printing the AST",
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

			_, sink, err := parser.ParseFile(args[0], src, opts)
			if err != nil {
				return err
			}

			sink.RemoveMultiples()
			if sink.Len() == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: ok\n", args[0])
				return nil
			}
			errors.Print(os.Stderr, sink.List())
			return errExitSilently
		},
	}
}
