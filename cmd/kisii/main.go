// Copyright 2021 Dalarub & Ettrich GmbH - All Rights Reserved
// Unauthorized copying of this file, via any medium is strictly prohibited
// Proprietary and confidential
// info@dalarub.com
//

// Command kisii runs the school backend which proxies the REST api to Airtable.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/relabs-tech/kisii/core/backend"
	"github.com/relabs-tech/kisii/core/configuration"
	"github.com/relabs-tech/kisii/core/logger"
)

// config is loaded from the environment before any command runs
var config *configuration.Configuration

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "kisii",
	Short: "Kisii school backend",
	Long: `Kisii school backend serves the REST api of the school-management application.
Every request is passed on to the tables of an Airtable base. All configuration
is read from the environment.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" {
			return nil
		}
		var err error
		config, err = configuration.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		logger.InitLogger(config.Level())
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), "kisii", backend.Version)
	},
}

func init() {
	// without a subcommand kisii serves
	rootCmd.RunE = serveCmd.RunE
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(tablesCmd)
}
