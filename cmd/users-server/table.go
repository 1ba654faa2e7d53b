package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/usersapi/users-api/internal/config"
	"github.com/usersapi/users-api/internal/dynamo"
	"github.com/usersapi/users-api/internal/users"
)

var tableWait time.Duration

var tableCmd = &cobra.Command{
	Use:   "table",
	Short: "Manage the users table",
}

var createTableCmd = &cobra.Command{
	Use:   "create",
	Short: "Create the users table for the configured backend if it does not exist",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		as, err := bootstrap(ctx)
		if err != nil {
			return err
		}
		defer as.Logger.Sync()
		defer as.Close()

		common := as.Config.Common
		switch common.Store.Backend {
		case config.BackendDynamoDB:
			client, err := dynamo.NewClient(ctx, common.DynamoDB)
			if err != nil {
				return err
			}
			created, err := dynamo.EnsureTable(ctx, client, common.Store.Table, tableWait)
			if err != nil {
				return err
			}
			as.Logger.Info("DynamoDB table ready",
				zap.String("table", common.Store.Table),
				zap.Bool("created", created))

		case config.BackendPostgres:
			pg, ok := as.Store.(*users.PostgresStore)
			if !ok {
				return fmt.Errorf("postgres backend without a postgres store")
			}
			if err := pg.CreateTable(ctx); err != nil {
				return err
			}
			as.Logger.Info("PostgreSQL table ready", zap.String("table", common.Store.Table))

		default:
			as.Logger.Info("Backend needs no table", zap.String("backend", common.Store.Backend))
		}
		return nil
	},
}

func init() {
	createTableCmd.Flags().DurationVar(&tableWait,
		"wait", 2*time.Minute, "How long to wait for the table to become active")

	tableCmd.AddCommand(createTableCmd)
	rootCmd.AddCommand(tableCmd)
}
