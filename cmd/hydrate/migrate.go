package main

import (
	"github.com/spf13/cobra"

	"github.com/heartmarshall/grimoire-backend/internal/adapter/postgres"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	RunE: func(cmd *cobra.Command, _ []string) error {
		applied, err := postgres.Migrate(cmd.Context(), cfg.Database.DSN)
		if err != nil {
			return err
		}
		if applied == nil {
			applied = []int64{}
		}
		return printJSON(map[string]any{"applied": applied})
	},
}
