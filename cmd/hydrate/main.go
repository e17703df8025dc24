// Command hydrate populates the AD&D 2e reference tables from the wiki and
// maintains the spell reference list, its hydrated spells and the ledger of
// spells that could not be resolved.
//
// Every command prints a JSON summary on stdout and exits 1 on a fatal error.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/grimoire-backend/internal/app"
	"github.com/heartmarshall/grimoire-backend/internal/config"
)

var (
	cfg    *config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:           "hydrate",
	Short:         "AD&D 2e wiki hydration tools",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}
		logger = app.NewLogger(cfg.Log)
		return nil
	},
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if logger != nil {
			logger.Error("hydrate failed", slog.String("error", err.Error()))
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(runCmd, spellRefCmd, missingCmd, migrateCmd, tokenCmd, hashPasswordCmd)
}

// openInfra connects to the stores configured for the command.
func openInfra(cmd *cobra.Command) (*app.Infra, error) {
	return app.Open(cmd.Context(), cfg, logger)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
