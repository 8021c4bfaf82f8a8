// Command fusor evaluates kernel IR scalar expression graphs described
// by TOML manifests: it binds launch parameters, folds what it can, and
// reports the concrete value of each target node.
package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"fusor/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "fusor",
	Short: "Kernel IR scalar expression evaluator",
	Long:  `fusor resolves symbolic launch parameters, loop bounds, and strides into concrete numbers`,
}

func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(evalCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// colorEnabled resolves the --color flag against the output terminal.
func colorEnabled(cmd *cobra.Command) bool {
	mode, err := cmd.Flags().GetString("color")
	if err != nil {
		mode = "auto"
	}
	switch mode {
	case "on":
		return true
	case "off":
		return false
	default:
		return isTerminal(os.Stdout)
	}
}
