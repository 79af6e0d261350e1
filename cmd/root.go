package cmd

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/idvault/vault-agent/agent/utils"
	"github.com/idvault/vault-agent/cmds"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const envPrefix = "IDV"

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Version: utils.Version,
	Use:     "vault-agent",
	Short:   "Identity vault agent cli tool",
	Long: `
Identity vault agent cli tool
	`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		cmds.ParseLoggingArgs(rootFlags.logging)
		handleViperFlags(cmd)
		setRuntimeSettings()
	},
}

// Execute root
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// RootCmd returns a current root command which can be used for adding own
// commands in an own repo.
func RootCmd() *cobra.Command {
	return rootCmd
}

// RootFlags are the common flags
type RootFlags struct {
	cfgFile  string
	baseDir  string
	storeDir string
	index    string
	dryRun   bool
	logging  string
}

var rootFlags = RootFlags{}

var rootEnvs = map[string]string{
	"config":    "CONFIG",
	"base-dir":  "BASE_DIR",
	"store-dir": "STORE_DIR",
	"index":     "INDEX",
	"logging":   "LOGGING",
	"dry-run":   "DRY_RUN",
}

func init() {
	defer err2.Catch(func(err error) error {
		log.Println(err)
		return nil
	})

	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&rootFlags.cfgFile, "config", "", flagInfo("configuration file", "", rootEnvs["config"]))
	flags.StringVar(&rootFlags.baseDir, "base-dir", defaultBaseDir(), flagInfo("vault base directory", "", rootEnvs["base-dir"]))
	flags.StringVar(&rootFlags.storeDir, "store-dir", "", flagInfo("canonical record directory", "", rootEnvs["store-dir"]))
	flags.StringVar(&rootFlags.index, "index", "", flagInfo("alias register file", "", rootEnvs["index"]))
	flags.StringVar(&rootFlags.logging, "logging", "-logtostderr=true -v=2", flagInfo("logging startup arguments", "", rootEnvs["logging"]))
	flags.BoolVarP(&rootFlags.dryRun, "dry-run", "n", false, flagInfo("perform a trial run with no changes made", "", rootEnvs["dry-run"]))

	try.To(viper.BindPFlag("base-dir", flags.Lookup("base-dir")))
	try.To(viper.BindPFlag("store-dir", flags.Lookup("store-dir")))
	try.To(viper.BindPFlag("index", flags.Lookup("index")))
	try.To(viper.BindPFlag("logging", flags.Lookup("logging")))
	try.To(viper.BindPFlag("dry-run", flags.Lookup("dry-run")))

	try.To(BindEnvs(rootEnvs, ""))
}

func defaultBaseDir() string {
	return filepath.Join(utils.HomeDir(), ".vault-agent")
}

func setRuntimeSettings() {
	utils.Settings.SetBaseDir(rootFlags.baseDir)
	utils.Settings.SetStoreDir(rootFlags.storeDir)
	utils.Settings.SetIndexName(rootFlags.index)
	utils.Settings.SetVersionInfo(utils.Version)
}

func initConfig() {
	viper.SetEnvPrefix(envPrefix)
	replacer := strings.NewReplacer("-", "_")
	viper.SetEnvKeyReplacer(replacer)
	readConfigFile()
	readBoundRootFlags()
}

func readBoundRootFlags() {
	rootFlags.baseDir = viper.GetString("base-dir")
	rootFlags.storeDir = viper.GetString("store-dir")
	rootFlags.index = viper.GetString("index")
	rootFlags.logging = viper.GetString("logging")
	rootFlags.dryRun = viper.GetBool("dry-run")
}

func readConfigFile() {
	cfgEnv := os.Getenv(getEnvName("", "config"))
	if rootFlags.cfgFile != "" || cfgEnv != "" {
		printInfo := true
		if rootFlags.cfgFile == "" {
			rootFlags.cfgFile = cfgEnv
			printInfo = false
		}
		viper.SetConfigFile(rootFlags.cfgFile)
		// If a config file is found, read it in.
		if err := viper.ReadInConfig(); err == nil && printInfo {
			fmt.Println("Using config file:", viper.ConfigFileUsed())
		}
	}
}

// BindEnvs calls viper.BindEnv with envMap and cmdName which can be empty if
// flag is general.
func BindEnvs(envMap map[string]string, cmdName string) (err error) {
	defer err2.Handle(&err)
	for flagKey, envName := range envMap {
		finalEnvName := getEnvName(cmdName, envName)
		try.To(viper.BindEnv(flagKey, finalEnvName))
	}
	return nil
}

func flagInfo(info, cmdPrefix, envName string) string {
	return info + ", " + getEnvName(cmdPrefix, envName)
}

func getEnvName(cmdName, envName string) string {
	if cmdName == "" {
		return envPrefix + "_" + strings.ToUpper(envName)
	}
	return envPrefix + "_" + strings.ToUpper(cmdName) + "_" + envName
}

func handleViperFlags(cmd *cobra.Command) {
	setRequiredStringFlags(cmd)
	if cmd.HasParent() {
		handleViperFlags(cmd.Parent())
	}
}

func setRequiredStringFlags(cmd *cobra.Command) {
	defer err2.Catch(func(err error) error {
		log.Println(err)
		return nil
	})

	try.To(viper.BindPFlags(cmd.LocalFlags()))
	if cmd.PreRunE != nil {
		try.To(cmd.PreRunE(cmd, nil))
	}
	cmd.LocalFlags().VisitAll(func(f *pflag.Flag) {
		if viper.GetString(f.Name) != "" {
			try.To(cmd.LocalFlags().Set(f.Name, viper.GetString(f.Name)))
		}
	})
}

// SubCmdNeeded prints the help and error messages because the cmd is
// abstract.
func SubCmdNeeded(cmd *cobra.Command) {
	fmt.Println("Subcommand needed!")
	_ = cmd.Help()
	os.Exit(1)
}
