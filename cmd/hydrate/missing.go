package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/heartmarshall/grimoire-backend/internal/domain"
	"github.com/heartmarshall/grimoire-backend/internal/service/spellref"
)

var (
	missingOrder string
	missingLimit int
	missingJSON  bool
)

var missingCmd = &cobra.Command{
	Use:   "missing",
	Short: "List spells the hydrator could not resolve",
	RunE: func(cmd *cobra.Command, _ []string) error {
		order := domain.RetryOrder(missingOrder)
		if !order.IsValid() {
			return domain.NewValidationError("order", "must be oldest or newest")
		}

		infra, err := openInfra(cmd)
		if err != nil {
			return err
		}
		defer infra.Close()

		limit := missingLimit
		if limit <= 0 {
			limit = spellref.LedgerPageSize
		}
		entries, err := infra.Ledger().List(cmd.Context(), order, limit)
		if err != nil {
			return err
		}

		if missingJSON {
			return printJSON(entries)
		}
		printMissing(os.Stdout, entries, time.Now())
		return nil
	},
}

func init() {
	missingCmd.Flags().StringVar(&missingOrder, "order", string(domain.RetryOrderNewest), "oldest or newest")
	missingCmd.Flags().IntVar(&missingLimit, "limit", spellref.LedgerPageSize, "entries to show")
	missingCmd.Flags().BoolVar(&missingJSON, "json", false, "print entries as JSON")
}

func printMissing(w io.Writer, entries []domain.MissingEntry, now time.Time) {
	if len(entries) == 0 {
		fmt.Fprintln(w, color.GreenString("missing ledger is empty"))
		return
	}

	dim := color.New(color.FgHiBlack)
	for _, e := range entries {
		attempts := color.New(color.FgYellow).Sprintf("x%d", e.AttemptCount)
		if e.AttemptCount >= 3 {
			attempts = color.New(color.FgRed).Sprintf("x%d", e.AttemptCount)
		}
		fmt.Fprintf(w, "%s %s %s %s\n",
			color.New(color.Bold).Sprint(e.DisplayName),
			classLabel(e.Class),
			attempts,
			dim.Sprintf("(%s ago)", now.Sub(e.UpdatedAt).Truncate(time.Minute)),
		)
		fmt.Fprintf(w, "    %s\n", e.Reason)
		if e.LastURL != "" {
			fmt.Fprintf(w, "    %s\n", dim.Sprint(e.LastURL))
		}
	}
	fmt.Fprintf(w, "%d entries\n", len(entries))
}

func classLabel(c domain.SpellClass) string {
	switch c {
	case domain.SpellClassWizard:
		return color.New(color.FgHiBlue).Sprint("[wizard]")
	case domain.SpellClassPriest:
		return color.New(color.FgHiGreen).Sprint("[priest]")
	}
	return color.New(color.FgWhite).Sprintf("[%s]", c)
}
