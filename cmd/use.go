package cmd

import (
	"log"
	"os"

	vaultcmd "github.com/idvault/vault-agent/cmds/vault"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
	"github.com/spf13/cobra"
)

var useEnvs = map[string]string{
	"id": "ID",
}

// useCmd represents the vault use subcommand
var useCmd = &cobra.Command{
	Use:   "use",
	Short: "Command for activating a vault and seeding its files",
	Long: `
Command for activating a vault and seeding its files

Example
	vault-agent vault use --id alice
	`,
	PreRunE: func(cmd *cobra.Command, args []string) (err error) {
		return BindEnvs(useEnvs, cmd.Name())
	},
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		defer err2.Handle(&err)
		try.To(uCmd.Validate())
		if !rootFlags.dryRun {
			try.To1(uCmd.Exec(os.Stdout))
		}
		return nil
	},
}

var uCmd = vaultcmd.UseCmd{}

func init() {
	defer err2.Catch(func(err error) error {
		log.Println(err)
		return nil
	})

	flags := useCmd.Flags()
	flags.StringVar(&uCmd.ID, "id", "", flagInfo("vault id or alias", useCmd.Name(), useEnvs["id"]))

	vaultCmd.AddCommand(useCmd)
}
