package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/usersapi/users-api/internal/config"
)

var configFile string

// rootCmd serves HTTP when run without a subcommand.
var rootCmd = &cobra.Command{
	Use:   "users-server",
	Short: "HTTP API for the users table",
	Long:  "Serves create, read, update, delete and list operations on users stored in DynamoDB, PostgreSQL, Redis or memory.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serveCmd.RunE(cmd, args)
	},
	SilenceUsage: true,
}

// Execute runs the root command. It should be invoked from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig reads the configuration once for the command being run.
func loadConfig() (*config.Config, error) {
	if configFile != "" {
		if err := os.Setenv("USERS_API_CONFIG_FILE", configFile); err != nil {
			return nil, err
		}
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile,
		"config", "c", "", "Path to the YAML config file (default users-api.yaml)")
}
