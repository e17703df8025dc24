package main

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/grimoire-backend/internal/app/hydrate"
)

var (
	runPhases string
	runDryRun bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Hydrate the reference tables from the wiki",
	Long: `Fetch and map every selected phase first, then write them one by one.
A missing required table aborts the run before any write.

Phases: ` + strings.Join(hydrate.AllPhases, ", "),
	RunE: runPipeline,
}

func init() {
	runCmd.Flags().StringVar(&runPhases, "phase", "", "comma-separated phases to run (default: all)")
	runCmd.Flags().BoolVar(&runDryRun, "dry-run", false, "fetch and map without writing to the database")
}

type phaseSummary struct {
	hydrate.PhaseResult
	Error string `json:"error,omitempty"`
}

func runPipeline(cmd *cobra.Command, _ []string) error {
	var phases []string
	for _, p := range strings.Split(runPhases, ",") {
		if p = strings.TrimSpace(p); p != "" {
			phases = append(phases, p)
		}
	}

	infra, err := openInfra(cmd)
	if err != nil {
		return err
	}
	defer infra.Close()

	pipeline := infra.Pipeline(runDryRun)
	if err := pipeline.Run(cmd.Context(), phases); err != nil {
		return err
	}

	summary := make(map[string]phaseSummary, len(pipeline.Results()))
	for name, r := range pipeline.Results() {
		s := phaseSummary{PhaseResult: r}
		if r.Err != nil {
			s.Error = r.Err.Error()
		}
		summary[name] = s
	}
	if err := printJSON(summary); err != nil {
		return err
	}

	if pipeline.HasErrors() {
		return errors.New("pipeline completed with errors")
	}
	return nil
}
