package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	// Version information (set by build flags)
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "rill",
	Short: "rill pipeline scripting runtime",
	Long: `rill is a small pipeline-oriented scripting language.

A rill program is a sequence of expressions connected by the pipe
operator: values flow left to right, blocks capture the incoming value
as $, and closures and dict dispatch give the language its expressive
core.

  echo '[1,2,3] -> map { $ * 2 } -> fold(0) { $@ + $ }' | rill run -
`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
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
