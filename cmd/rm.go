package cmd

import (
	"log"
	"os"

	vaultcmd "github.com/idvault/vault-agent/cmds/vault"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
	"github.com/spf13/cobra"
)

var rmEnvs = map[string]string{
	"id": "ID",
}

// rmCmd represents the vault rm subcommand
var rmCmd = &cobra.Command{
	Use:   "rm",
	Short: "Command for deleting a vault",
	Long: `
Command for deleting a vault

Example
	vault-agent vault rm --id alice
	`,
	PreRunE: func(cmd *cobra.Command, args []string) (err error) {
		return BindEnvs(rmEnvs, cmd.Name())
	},
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		defer err2.Handle(&err)
		try.To(rmvCmd.Validate())
		if !rootFlags.dryRun {
			try.To1(rmvCmd.Exec(os.Stdout))
		}
		return nil
	},
}

var rmvCmd = vaultcmd.RmCmd{}

func init() {
	defer err2.Catch(func(err error) error {
		log.Println(err)
		return nil
	})

	flags := rmCmd.Flags()
	flags.StringVar(&rmvCmd.ID, "id", "", flagInfo("vault id or alias", rmCmd.Name(), rmEnvs["id"]))

	vaultCmd.AddCommand(rmCmd)
}
