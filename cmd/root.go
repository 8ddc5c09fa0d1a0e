// Package cmd is for command line interactions with the norg application
package cmd

import (
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var settingsPath string

// RootCmd represents the base command when called without any subcommands.
var RootCmd = &cobra.Command{
	Use: "norg",
	Short: `Find organelle DNA that has inserted into a nuclear genome.
Hits from blastn are filtered against segmental duplications and
chained into consolidated insertion loci`,
	Version: "0.3.0",
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		log.Fatalf("%v", err)
	}
}

func init() {
	cobra.OnInitialize(readSettings)

	RootCmd.PersistentFlags().StringVarP(&settingsPath, "settings", "s", "", "path to a YAML settings file")
}

// readSettings loads the user's settings file, if one was passed,
// on top of the flag-bound defaults
func readSettings() {
	if settingsPath == "" {
		return
	}

	viper.SetConfigFile(settingsPath)
	if err := viper.ReadInConfig(); err != nil {
		log.Fatalf("failed to read settings file %s: %v", settingsPath, err)
	}
}
