package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rcrsr/rill/pkg/rill"
)

var parseExpr string

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Parse a rill script and print its AST",
	Long: `Parse a rill program without executing it and print the AST.

Useful for checking syntax and inspecting how an expression is grouped:

  rill parse -e '1 + 2 * 3 -> log'`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cobraCmd *cobra.Command, args []string) error {
		var input string
		switch {
		case parseExpr != "":
			input = parseExpr
		case len(args) == 1:
			content, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read file %s: %w", args[0], err)
			}
			input = string(content)
		default:
			return fmt.Errorf("either provide a file path or use -e for inline code")
		}

		verbose, _ := cobraCmd.Flags().GetBool("verbose")
		prog, err := rill.Parse(input)
		if err != nil {
			reportError(err, input, verbose)
			return err
		}
		fmt.Println(prog.String())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(parseCmd)
	parseCmd.Flags().StringVarP(&parseExpr, "eval", "e", "", "parse inline code instead of reading from file")
}
