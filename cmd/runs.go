package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/debtlab/loan-cli/internal/model"
	"github.com/debtlab/loan-cli/internal/store"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Inspect saved evaluation runs",
	Long:  "Commands for listing, viewing, and summarizing saved evaluation runs.",
}

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved runs",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		status, _ := cmd.Flags().GetString("status")
		preset, _ := cmd.Flags().GetString("preset")
		limit, _ := cmd.Flags().GetInt("limit")

		filter := store.RunFilter{
			Status: model.RunStatus(status),
			Preset: preset,
			Limit:  limit,
		}

		runs, err := st.ListRuns(ctx, filter)
		if err != nil {
			return eris.Wrap(err, "runs list")
		}

		if len(runs) == 0 {
			fmt.Fprintln(os.Stderr, "No runs found.")
			return nil
		}

		formatRunsList(os.Stdout, runs)
		return nil
	},
}

var runsShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show full details of a run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		run, err := st.GetRun(ctx, args[0])
		if err != nil {
			return eris.Wrap(err, "runs show")
		}

		return printJSON(run)
	},
}

var runsStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show aggregate run statistics",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		since, _ := cmd.Flags().GetDuration("since")
		filter := store.RunFilter{Limit: 10000}
		if since > 0 {
			filter.CreatedAfter = time.Now().Add(-since)
		}

		runs, err := st.ListRuns(ctx, filter)
		if err != nil {
			return eris.Wrap(err, "runs stats")
		}

		formatRunStats(os.Stdout, computeRunStats(runs))
		return nil
	},
}

func init() {
	runsListCmd.Flags().String("status", "", "filter by run status (complete, failed)")
	runsListCmd.Flags().String("preset", "", "filter by preset name")
	runsListCmd.Flags().Int("limit", 50, "max number of runs to display")

	runsStatsCmd.Flags().Duration("since", 0, "time window for stats (e.g. 24h, 168h; 0 means all)")

	runsCmd.AddCommand(runsListCmd)
	runsCmd.AddCommand(runsShowCmd)
	runsCmd.AddCommand(runsStatsCmd)
	rootCmd.AddCommand(runsCmd)
}

// runStats holds aggregate statistics computed from a set of runs.
type runStats struct {
	Total    int
	Complete int
	Failed   int
	Invest   int
	Prepay   int
	Buy      int
	Rent     int
}

func computeRunStats(runs []model.Run) runStats {
	var s runStats
	s.Total = len(runs)

	for _, r := range runs {
		switch r.Status {
		case model.RunStatusComplete:
			s.Complete++
		case model.RunStatusFailed:
			s.Failed++
		}
		if r.Report == nil {
			continue
		}
		switch r.Report.PayoffVsInvest.Verdict {
		case "invest":
			s.Invest++
		case "prepay":
			s.Prepay++
		}
		switch r.Report.BuyVsRent.Verdict {
		case "buy":
			s.Buy++
		case "rent":
			s.Rent++
		}
	}
	return s
}

// formatRunsList writes a tabular list of runs to w.
func formatRunsList(out io.Writer, runs []model.Run) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tPRESET\tSTATUS\tPRINCIPAL\tVERDICTS\tCREATED")
	_, _ = fmt.Fprintln(w, "--\t------\t------\t---------\t--------\t-------")

	for _, r := range runs {
		verdicts := ""
		if r.Report != nil {
			verdicts = fmt.Sprintf("%s/%s", r.Report.PayoffVsInvest.Verdict, r.Report.BuyVsRent.Verdict)
		}

		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%.0f\t%s\t%s\n",
			truncateID(r.ID),
			r.Preset,
			r.Status,
			r.Inputs.Principal,
			verdicts,
			r.CreatedAt.Format("2006-01-02 15:04"),
		)
	}
	_ = w.Flush()
}

// formatRunStats writes the aggregate stats table to w.
func formatRunStats(out io.Writer, s runStats) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "Total runs\t%d\n", s.Total)
	_, _ = fmt.Fprintf(w, "Complete\t%d\n", s.Complete)
	_, _ = fmt.Fprintf(w, "Failed\t%d\n", s.Failed)
	_, _ = fmt.Fprintf(w, "Verdict invest\t%d\n", s.Invest)
	_, _ = fmt.Fprintf(w, "Verdict prepay\t%d\n", s.Prepay)
	_, _ = fmt.Fprintf(w, "Verdict buy\t%d\n", s.Buy)
	_, _ = fmt.Fprintf(w, "Verdict rent\t%d\n", s.Rent)
	_ = w.Flush()
}
