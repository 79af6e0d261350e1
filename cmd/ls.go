package cmd

import (
	"os"

	vaultcmd "github.com/idvault/vault-agent/cmds/vault"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
	"github.com/spf13/cobra"
)

// lsCmd represents the vault ls subcommand
var lsCmd = &cobra.Command{
	Use:   "ls",
	Short: "Command for listing vaults",
	Long: `
Command for listing vaults
	`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		defer err2.Handle(&err)
		lc := vaultcmd.LsCmd{}
		try.To(lc.Validate())
		try.To1(lc.Exec(os.Stdout))
		return nil
	},
}

func init() {
	vaultCmd.AddCommand(lsCmd)
}
