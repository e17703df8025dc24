package main

import (
	"github.com/spf13/cobra"

	"github.com/heartmarshall/grimoire-backend/internal/domain"
	"github.com/heartmarshall/grimoire-backend/internal/service/spellref"
)

var spellRefCmd = &cobra.Command{
	Use:   "spell-ref",
	Short: "Maintain the spell reference list and hydrate spells",
}

var (
	syncPath   string
	syncDryRun bool
)

var spellRefSyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Mirror the spell reference CSV files into the database",
	RunE: func(cmd *cobra.Command, _ []string) error {
		path := syncPath
		if path == "" {
			path = cfg.Hydrate.SpellReferencePath
		}

		infra, err := openInfra(cmd)
		if err != nil {
			return err
		}
		defer infra.Close()

		res, err := infra.Syncer().Sync(cmd.Context(), path, syncDryRun || cfg.Hydrate.DryRun)
		if err != nil {
			return err
		}
		return printJSON(res)
	},
}

var hydrateIn spellref.HydrateInput

var spellRefHydrateCmd = &cobra.Command{
	Use:   "hydrate",
	Short: "Resolve reference rows into full spells",
	Long: `Without --name, hydrates reference rows that have no saved spell.
--retry-missing then fills the remaining batch from the missing ledger and
--retry-only-missing reads the ledger alone.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		in := hydrateIn
		if !cmd.Flags().Changed("limit") {
			in.Limit = cfg.Hydrate.DefaultLimit
		}

		infra, err := openInfra(cmd)
		if err != nil {
			return err
		}
		defer infra.Close()

		hydrator, err := infra.Hydrator()
		if err != nil {
			return err
		}
		res, err := hydrator.Run(cmd.Context(), in)
		if err != nil {
			return err
		}
		return printJSON(map[string]any{
			"processed": res.Processed,
			"missing":   len(res.Missing),
		})
	},
}

func init() {
	spellRefSyncCmd.Flags().StringVar(&syncPath, "path", "", "CSV file or directory (default: hydrate.spell_reference_path)")
	spellRefSyncCmd.Flags().BoolVar(&syncDryRun, "dry-run", false, "compute the delta without applying it")

	f := spellRefHydrateCmd.Flags()
	f.IntVar(&hydrateIn.Limit, "limit", spellref.DefaultLimit, "candidates to process (1-10)")
	f.StringVar(&hydrateIn.Name, "name", "", "hydrate this spell only")
	f.StringVar(&hydrateIn.SpellClass, "class", "", "wizard or priest, narrows --name")
	f.BoolVar(&hydrateIn.RetryMissing, "retry-missing", false, "fill the batch from the missing ledger")
	f.BoolVar(&hydrateIn.RetryOnlyMissing, "retry-only-missing", false, "process missing ledger entries only")
	f.StringVar((*string)(&hydrateIn.RetryOrder), "retry-order", string(domain.RetryOrderOldest), "ledger order: oldest or newest")
	f.BoolVar(&hydrateIn.Force, "force", false, "re-hydrate spells that are already saved")

	spellRefCmd.AddCommand(spellRefSyncCmd, spellRefHydrateCmd)
}
