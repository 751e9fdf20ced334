package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// version is stamped at build time with -ldflags "-X main.version=...".
var version = "dev"

func buildVersion() string {
	if v := strings.TrimSpace(version); v != "" {
		return v
	}
	return "dev"
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the mdnotes version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "mdnotes version %s\n", buildVersion())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
