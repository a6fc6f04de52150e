package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/augustgrove/pegparse/internal/lexer"
	"github.com/augustgrove/pegparse/pkg/token"
)

var (
	lexExpr       string
	lexShowPos    bool
	lexShowType   bool
	lexOnlyErrors bool
)

var lexCmd = &cobra.Command{
	Use:   "lex [file]",
	Short: "Tokenize source code",
	Long: `Tokenize (lex) source code and print the resulting tokens.

This command is useful for debugging the lexer and understanding how
source text is tokenized.

Examples:
  # Tokenize a source file
  pegparse lex script.py

  # Tokenize inline code
  pegparse lex -e "x = 1"

  # Show token types and positions
  pegparse lex --show-type --show-pos script.py

  # Show only error tokens
  pegparse lex --only-errors script.py`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLex,
}

func init() {
	rootCmd.AddCommand(lexCmd)

	lexCmd.Flags().StringVarP(&lexExpr, "eval", "e", "", "tokenize inline code instead of reading from file")
	lexCmd.Flags().BoolVar(&lexShowPos, "show-pos", false, "show token positions (line:column)")
	lexCmd.Flags().BoolVar(&lexShowType, "show-type", false, "show token type names")
	lexCmd.Flags().BoolVar(&lexOnlyErrors, "only-errors", false, "show only error tokens")
}

func runLex(cmd *cobra.Command, args []string) error {
	var input, filename string

	switch {
	case lexExpr != "":
		input, filename = lexExpr, "<eval>"
	case len(args) == 1:
		filename = args[0]
		content, err := os.ReadFile(filename)
		if err != nil {
			return fmt.Errorf("failed to read file %s: %w", filename, err)
		}
		input = string(content)
	default:
		content, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("error reading stdin: %w", err)
		}
		input, filename = string(content), "<stdin>"
	}

	verbose, _ := cmd.Flags().GetBool("verbose")
	if verbose {
		fmt.Printf("Tokenizing: %s\n", filename)
		fmt.Printf("Input length: %d bytes\n", len(input))
		fmt.Println("---")
	}

	adapter := lexer.NewAdapter(input, filename)

	tokenCount, errorCount := 0, 0
	for {
		tok, err := adapter.Next()
		isError := err != nil

		if lexOnlyErrors && !isError {
			if tok.Type == token.ENDMARKER {
				break
			}
			continue
		}

		tokenCount++
		if isError {
			errorCount++
		}
		printToken(tok, isError)

		if tok.Type == token.ENDMARKER || isError {
			break
		}
	}

	if verbose {
		fmt.Println("---")
		fmt.Printf("Total tokens: %d\n", tokenCount)
		if errorCount > 0 {
			fmt.Printf("Errors: %d\n", errorCount)
		}
	}

	if errorCount > 0 {
		return fmt.Errorf("found %d error token(s)", errorCount)
	}

	return nil
}

func printToken(tok token.Token, isError bool) {
	var output string

	if lexShowType {
		output = fmt.Sprintf("[%-12s]", tok.Type)
	}

	switch {
	case tok.Type == token.ENDMARKER:
		output += " ENDMARKER"
	case isError:
		output += fmt.Sprintf(" ERROR: %q", tok.Literal)
	case tok.Literal == "":
		output += fmt.Sprintf(" %s", tok.Type)
	default:
		output += fmt.Sprintf(" %q", tok.Literal)
	}

	if lexShowPos {
		output += fmt.Sprintf(" @%s", tok.Pos)
	}

	fmt.Println(output)
}
