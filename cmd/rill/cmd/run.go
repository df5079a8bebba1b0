package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"

	"github.com/rcrsr/rill/pkg/rill"
)

var (
	evalExpr   string
	varsFile   string
	dumpAST    bool
	showEvents bool
	quiet      bool
)

var (
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	eventStyle = lipgloss.NewStyle().Faint(true)
)

var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Run a rill script file or expression",
	Long: `Execute a rill program from a file, from stdin (-), or inline.

Examples:
  # Run a script file
  rill run pipeline.rill

  # Evaluate an inline expression
  rill run -e '"hello" -> .upper -> log'

  # Seed initial variables from a YAML file
  rill run --vars vars.yaml pipeline.rill

  # Show extension events as they are emitted
  rill run --events pipeline.rill`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScript,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&evalExpr, "eval", "e", "", "evaluate inline code instead of reading from file")
	runCmd.Flags().StringVar(&varsFile, "vars", "", "YAML file with initial script variables")
	runCmd.Flags().BoolVar(&dumpAST, "dump-ast", false, "dump the parsed AST instead of executing")
	runCmd.Flags().BoolVar(&showEvents, "events", false, "print extension events to stderr")
	runCmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "suppress the final result value")
}

func runScript(cobraCmd *cobra.Command, args []string) error {
	input, _, err := readInput(args)
	if err != nil {
		return err
	}
	verbose, _ := cobraCmd.Flags().GetBool("verbose")

	prog, err := rill.Parse(input)
	if err != nil {
		reportError(err, input, verbose)
		return err
	}
	if dumpAST {
		fmt.Println(prog.String())
		return nil
	}

	variables, err := loadVariables()
	if err != nil {
		return fmt.Errorf("failed to load variables from %s: %w", varsFile, err)
	}

	rc := rill.NewContext(rill.Options{
		Variables: variables,
		OnLog: func(v rill.Value) {
			fmt.Println(v.String())
		},
		OnLogEvent: func(event map[string]any) {
			if showEvents {
				fmt.Fprintln(os.Stderr, eventStyle.Render(fmt.Sprintf("%v", event)))
			}
		},
	})

	result, err := rill.Execute(context.Background(), prog, rc)
	if err != nil {
		reportError(err, input, verbose)
		return err
	}
	if !quiet {
		fmt.Println(result.Value.String())
	}
	return nil
}

func readInput(args []string) (input, filename string, err error) {
	switch {
	case evalExpr != "":
		return evalExpr, "<eval>", nil
	case len(args) == 1 && args[0] == "-":
		content, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(content), "<stdin>", nil
	case len(args) == 1:
		content, err := os.ReadFile(args[0])
		if err != nil {
			return "", "", fmt.Errorf("failed to read file %s: %w", args[0], err)
		}
		return string(content), args[0], nil
	}
	return "", "", fmt.Errorf("either provide a file path or use -e for inline code")
}

// loadVariables reads the --vars YAML file and converts its top-level
// mapping into initial script bindings.
func loadVariables() (map[string]rill.Value, error) {
	if varsFile == "" {
		return nil, nil
	}
	content, err := os.ReadFile(varsFile)
	if err != nil {
		return nil, err
	}
	var raw map[string]any
	if err := yaml.Unmarshal(content, &raw); err != nil {
		return nil, err
	}
	variables := make(map[string]rill.Value, len(raw))
	for name, v := range raw {
		converted, err := rill.FromGo(v)
		if err != nil {
			return nil, fmt.Errorf("variable %q: %w", name, err)
		}
		variables[name] = converted
	}
	return variables, nil
}

// reportError prints Error: <message> to stderr; with --verbose it adds
// the source line and a caret at the error location. Stack traces are
// never printed.
func reportError(err error, source string, verbose bool) {
	if rerr, ok := err.(*rill.Error); ok {
		if verbose {
			style := func(s string) string { return errStyle.Render(s) }
			fmt.Fprintln(os.Stderr, rerr.Format(source, style))
			return
		}
	}
	fmt.Fprintf(os.Stderr, "Error: %s\n", err.Error())
}
