package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is the version of mcest printed by the version command
const Version = "0.1.0"

// VersionCommand returns the command printing the version of mcest
func VersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "print version info",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), Version)
		},
	}
}
