package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/augustgrove/pegparse/ast"
	"github.com/augustgrove/pegparse/internal/minigrammar"
	"github.com/augustgrove/pegparse/parser"
)

var (
	parseExpression bool
	parseDumpAST    bool
)

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Parse source code and display the AST",
	Long: `Parse source code against the reference grammar and display the
resulting Abstract Syntax Tree.

If no file is provided, reads from stdin. Use -e to parse a single
statement from the command line. Use --dump-ast to show the full tree
structure instead of the one-line summary.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().BoolVarP(&parseExpression, "expression", "e", false, "parse a statement from the command line")
	parseCmd.Flags().BoolVar(&parseDumpAST, "dump-ast", false, "dump the full AST structure")
}

func runParse(cmd *cobra.Command, args []string) error {
	input, filename, err := readParseInput(args)
	if err != nil {
		return err
	}

	d := parser.New()
	module, err := d.ParseString(input, filename, minigrammar.StartRule, parser.ModeAST)
	if err != nil {
		return fmt.Errorf("parsing failed: %w", err)
	}

	if parseDumpAST {
		fmt.Println("Module:")
		for _, stmt := range module.Body {
			dumpASTNode(stmt, 1)
		}
	} else {
		fmt.Println(module.String())
	}

	return nil
}

func readParseInput(args []string) (input, filename string, err error) {
	switch {
	case parseExpression:
		if len(args) == 0 {
			return "", "", fmt.Errorf("no statement provided")
		}
		return args[0], "<expression>", nil
	case len(args) > 0:
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", "", fmt.Errorf("error reading file: %w", err)
		}
		return string(data), args[0], nil
	default:
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", "", fmt.Errorf("error reading stdin: %w", err)
		}
		return string(data), "<stdin>", nil
	}
}

func dumpASTNode(node any, indent int) {
	indentStr := ""
	for i := 0; i < indent; i++ {
		indentStr += "  "
	}

	switch n := node.(type) {
	case *ast.FunctionDef:
		fmt.Printf("%sFunctionDef(name=%q)\n", indentStr, n.Name)
		for _, stmt := range n.Body {
			dumpASTNode(stmt, indent+1)
		}
	case *ast.ClassDef:
		fmt.Printf("%sClassDef(name=%q)\n", indentStr, n.Name)
		for _, stmt := range n.Body {
			dumpASTNode(stmt, indent+1)
		}
	case *ast.Assign:
		fmt.Printf("%sAssign\n", indentStr)
		for _, target := range n.Targets {
			dumpASTNode(target, indent+1)
		}
		dumpASTNode(n.Value, indent+1)
	case *ast.ExprStmt:
		fmt.Printf("%sExprStmt\n", indentStr)
		dumpASTNode(n.Value, indent+1)
	case *ast.Import:
		fmt.Printf("%sImport(%s)\n", indentStr, n)
	case *ast.Pass:
		fmt.Printf("%sPass\n", indentStr)
	case *ast.Compare:
		fmt.Printf("%sCompare(%s)\n", indentStr, n)
	case *ast.Tuple:
		fmt.Printf("%sTuple(%s)\n", indentStr, n.Ctx)
		for _, elt := range n.Elts {
			dumpASTNode(elt, indent+1)
		}
	case *ast.Name:
		fmt.Printf("%sName(%q, %s)\n", indentStr, n.Id, n.Ctx)
	case *ast.Constant:
		fmt.Printf("%sConstant(%v)\n", indentStr, n.Value)
	default:
		fmt.Printf("%s%T: %s\n", indentStr, node, node)
	}
}
