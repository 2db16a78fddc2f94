// Package cli assembles the pyparse command tree. Grounded on cmd/cue/cmd's
// root.go: a single cobra.Command with persistent flags shared by every
// subcommand, each subcommand living in its own file with a newXxxCmd
// constructor.
package cli

import (
	goerrors "errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/gopythonic/pyparse/python/errors"
	"github.com/gopythonic/pyparse/python/parser"
	"github.com/gopythonic/pyparse/python/version"
)

// errExitSilently signals that diagnostics have already been printed to
// stderr and main should exit non-zero without printing the error again.
var errExitSilently = goerrors.New("")

var (
	flagLangVersion string
	flagStubFile    bool
	flagVerbatim    bool
)

// New constructs the top-level pyparse command.
func New() *cobra.Command {
	root := &cobra.Command{
		Use:           "pyparse",
		Short:         "tokenize, parse, and check Python source files",
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	root.PersistentFlags().StringVar(&flagLangVersion, "lang-version", version.Default.String(),
		"target Python language version, e.g. \"2.7\" or \"3.8\"")
	root.PersistentFlags().BoolVar(&flagStubFile, "stub", false, "parse as a .pyi stub file")
	root.PersistentFlags().BoolVar(&flagVerbatim, "verbatim", false, "preserve verbatim whitespace/comment images")

	root.AddCommand(newTokenizeCmd())
	root.AddCommand(newParseCmd())
	root.AddCommand(newCheckCmd())

	return root
}

// parserOptions builds a parser.Options from the persistent flags.
func parserOptions() (parser.Options, error) {
	v, err := version.Parse(flagLangVersion)
	if err != nil {
		return parser.Options{}, err
	}
	return parser.Options{
		LanguageVersion:              v,
		StubFile:                     flagStubFile,
		Verbatim:                     flagVerbatim,
		VerbatimCommentsAndLineJoins: flagVerbatim,
	}, nil
}

func readSource(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// printDiagnostics sorts the diagnostics in sink and renders every one of
// them to stderr; it does not remove duplicates.
func printDiagnostics(sink *errors.Sink) {
	sink.Sort()
	errors.Print(os.Stderr, sink.List())
}
