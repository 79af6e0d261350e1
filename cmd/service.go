package cmd

import (
	"log"
	"os"

	"github.com/idvault/vault-agent/agent/utils"
	"github.com/idvault/vault-agent/cmds/service"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
	"github.com/spf13/cobra"
)

var serviceEnvs = map[string]string{
	"enclave-path": "ENCLAVE_PATH",
	"backup-path":  "BACKUP_PATH",
	"backup-time":  "BACKUP_TIME",
}

// serviceCmd represents the service subcommand: the long-running agent mode
var serviceCmd = &cobra.Command{
	Use:   "service",
	Short: "Command for running the vault agent service",
	Long: `
Command for running the vault agent service

The service keeps the enclave open and runs scheduled vault backups until it
receives SIGINT or SIGTERM.

Example
	vault-agent service \
		--backup-path /var/backups/vaults \
		--backup-time 04:30
	`,
	PreRunE: func(cmd *cobra.Command, args []string) (err error) {
		return BindEnvs(serviceEnvs, cmd.Name())
	},
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		defer err2.Handle(&err)
		svcCmd.BaseDir = rootFlags.baseDir
		svcCmd.StoreDir = rootFlags.storeDir
		svcCmd.IndexName = rootFlags.index
		svcCmd.VersionInfo = utils.Version
		try.To(svcCmd.Validate())
		if !rootFlags.dryRun {
			try.To1(svcCmd.Exec(os.Stdout))
		}
		return nil
	},
}

var svcCmd = service.Cmd{}

func init() {
	defer err2.Catch(func(err error) error {
		log.Println(err)
		return nil
	})

	flags := serviceCmd.Flags()
	flags.StringVar(&svcCmd.EnclavePath, "enclave-path", "", flagInfo("sealed box location", serviceCmd.Name(), serviceEnvs["enclave-path"]))
	flags.StringVar(&svcCmd.VaultBackupPath, "backup-path", "", flagInfo("vault backup target dir", serviceCmd.Name(), serviceEnvs["backup-path"]))
	flags.StringVar(&svcCmd.VaultBackupTime, "backup-time", "", flagInfo("daily backup time HH:MM", serviceCmd.Name(), serviceEnvs["backup-time"]))

	rootCmd.AddCommand(serviceCmd)
}
