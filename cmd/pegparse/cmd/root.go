// Package cmd implements the pegparse CLI front-end: a Cobra root
// command plus parse/lex/version subcommands, grounded directly on the
// teacher's cmd/dwscript/cmd package (same root/Execute/exitWithError
// shape, same persistent --verbose flag).
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Version information (set by build flags).
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "pegparse",
	Short: "Packrat PEG parser runtime for a Python-like language",
	Long: `pegparse is a runtime support library and CLI for a generated packrat
PEG parser: arena allocation, a demand-filled token buffer, the
memoization cursor, primitive recognizers, and AST builders, wired
around a small reference grammar covering names, numbers, strings,
chained comparisons, dotted imports, and trivial function definitions.

The grammar-generated rule procedures a real deployment would supply
are out of scope for this runtime; the reference grammar exists only to
exercise the runtime end to end.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
}

func exitWithError(msg string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+msg+"\n", args...)
	os.Exit(1)
}
