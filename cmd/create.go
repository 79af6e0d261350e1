package cmd

import (
	"log"
	"os"

	vaultcmd "github.com/idvault/vault-agent/cmds/vault"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
	"github.com/spf13/cobra"
)

var createEnvs = map[string]string{
	"id":    "ID",
	"alias": "ALIAS",
}

// createCmd represents the vault create subcommand
var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Command for creating a new vault",
	Long: `
Command for creating a new vault

Example
	vault-agent vault create --id alice --alias home
	`,
	PreRunE: func(cmd *cobra.Command, args []string) (err error) {
		return BindEnvs(createEnvs, cmd.Name())
	},
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		defer err2.Handle(&err)
		try.To(crCmd.Validate())
		if !rootFlags.dryRun {
			try.To1(crCmd.Exec(os.Stdout))
		}
		return nil
	},
}

var crCmd = vaultcmd.CreateCmd{}

func init() {
	defer err2.Catch(func(err error) error {
		log.Println(err)
		return nil
	})

	flags := createCmd.Flags()
	flags.StringVar(&crCmd.ID, "id", "", flagInfo("vault id, generated when omitted", createCmd.Name(), createEnvs["id"]))
	flags.StringVar(&crCmd.Alias, "alias", "", flagInfo("vault alias", createCmd.Name(), createEnvs["alias"]))

	vaultCmd.AddCommand(createCmd)
}
