package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/sw33tLie/pmcontacts/internal/utils"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

var cfgFile string

const (
	VERSION = "2.0.0"
	LOGO    = `
	                                   _             _
	 _ __  _ __ ___   ___ ___  _ __ | |_ __ _  ___| |_ ___
	| '_ \| '_ ` + "`" + ` _ \ / __/ _ \| '_ \| __/ _` + "`" + ` |/ __| __/ __|
	| |_) | | | | | | (_| (_) | | | | || (_| | (__| |_\__ \
	| .__/|_| |_| |_|\___\___/|_| |_|\__\__,_|\___|\__|___/
	|_|
`
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "pmcontacts",
	Short: "Add the atom contacts found by plot_contacts to a PyMOL session.",
	Long: LOGO + `pmcontacts reads the contacts CSV of the plot_contacts script (https://github.com/njeanne/plot_contacts),
resolves every atoms pair against the protein structure and draws the distances in a PyMOL session.`,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		var logged *loggedError
		if !errors.As(err, &logged) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.pmcontacts.yaml)")

	// Global flags
	rootCmd.PersistentFlags().String("log-level", "INFO", "Set log level. Available: "+strings.Join(utils.LogLevels, ", "))
	rootCmd.PersistentFlags().String("dbpath", "", "Path to the SQLite history DB file (default: $HOME/.config/pmcontacts/history.sqlite)")
	_ = viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("dbpath", rootCmd.PersistentFlags().Lookup("dbpath"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		viper.AddConfigPath(home)
		viper.SetConfigName(".pmcontacts")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("pmcontacts")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Fprintf(os.Stderr, "Error reading config file: %s\n", err)
			os.Exit(1)
		}
	}

	// Init log library
	if err := utils.SetLogLevel(viper.GetString("log-level")); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
