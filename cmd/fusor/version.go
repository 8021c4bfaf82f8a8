package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"fusor/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show fusor build fingerprints",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		v := strings.TrimSpace(version.Version)
		if v == "" {
			v = "dev"
		}
		fmt.Fprintf(out, "fusor %s\n", v)
		if commit := strings.TrimSpace(version.GitCommit); commit != "" {
			fmt.Fprintf(out, "commit: %s\n", commit)
		}
		if date := strings.TrimSpace(version.BuildDate); date != "" {
			fmt.Fprintf(out, "built:  %s\n", date)
		}
		return nil
	},
}
