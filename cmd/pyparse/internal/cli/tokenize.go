package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gopythonic/pyparse/python/errors"
	"github.com/gopythonic/pyparse/python/scanner"
	"github.com/gopythonic/pyparse/python/token"
	"github.com/gopythonic/pyparse/python/version"
)

func newTokenizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tokenize <file>",
		Short: "print the token stream for a Python source file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := readSource(args[0])
			if err != nil {
				return err
			}
			v, err := version.Parse(flagLangVersion)
			if err != nil {
				return err
			}

			sink := &errors.Sink{}
			opts := scanner.DefaultOptions()
			opts.LanguageVersion = v
			opts.StubFile = flagStubFile
			opts.Verbatim = flagVerbatim
			opts.VerbatimCommentsAndLineJoins = flagVerbatim

			s := scanner.New(args[0], src, sink, opts)
			out := cmd.OutOrStdout()
			for {
				it := s.Scan()
				fmt.Fprintf(out, "%-12s %-6s %q\n", it.Span.Start, it.Kind, it.Literal)
				if it.Kind == token.EOF {
					break
				}
			}
			printDiagnostics(sink)
			if sink.HasErrors() {
				return errExitSilently
			}
			return nil
		},
	}
}
