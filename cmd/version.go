package cmd

import (
	"fmt"

	"github.com/idvault/vault-agent/agent/utils"
	"github.com/spf13/cobra"
)

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of vault-agent",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("vault-agent version", utils.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
