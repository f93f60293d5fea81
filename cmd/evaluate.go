package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/debtlab/loan-cli/internal/engine"
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Run the full decision report",
	Long: "Runs every analysis at once: EMI summary, lump-sum prepayment, " +
		"extra-payment payoff versus investing, buy versus rent, and the " +
		"rate sensitivity sweeps.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		in, presetName, err := resolveInputs(cmd)
		if err != nil {
			return err
		}

		opts := cfg.Options()
		if noGrid, _ := cmd.Flags().GetBool("no-grid"); noGrid {
			opts.IncludeGrid = false
		}

		report, evalErr := engine.Evaluate(in, opts)

		if save, _ := cmd.Flags().GetBool("save"); save {
			st, err := initStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close() //nolint:errcheck
			if err := st.Migrate(ctx); err != nil {
				return err
			}
			run, err := st.CreateRun(ctx, presetName, in, report, evalErr)
			if err != nil {
				return err
			}
			zap.L().Info("run saved", zap.String("run_id", run.ID), zap.String("status", string(run.Status)))
			fmt.Fprintf(os.Stderr, "Saved run %s\n", truncateID(run.ID))
		}

		if evalErr != nil {
			return evalErr
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return printJSON(report)
		}

		formatReport(os.Stdout, report)
		return nil
	},
}

func init() {
	addInputFlags(evaluateCmd)
	addScenarioFlags(evaluateCmd)
	evaluateCmd.Flags().Bool("save", false, "record this run in the history store")
	evaluateCmd.Flags().Bool("no-grid", false, "skip the rate x growth sensitivity grid")
	evaluateCmd.Flags().Bool("json", false, "emit the full report as JSON")
	rootCmd.AddCommand(evaluateCmd)
}

// formatReport renders the human-readable multi-section report.
func formatReport(out io.Writer, rep *engine.Report) {
	fmt.Fprintln(out, "== Loan ==")
	kvTable(out, [][2]string{
		{"Principal", formatINR(rep.Inputs.Principal)},
		{"Rate", formatPercent(rep.Inputs.AnnualRatePercent)},
		{"Tenure", fmt.Sprintf("%d years", rep.Inputs.TenureYears)},
	})

	fmt.Fprintln(out, "\n== EMI ==")
	kvTable(out, [][2]string{
		{"Monthly EMI", formatINR(rep.EMI.Installment)},
		{"Total interest", formatINR(rep.EMI.TotalInterest)},
		{"EMI / salary", fmt.Sprintf("%.1f%% (%s)", rep.EMI.EMIToSalaryRatio*100, rep.EMI.StressBand)},
		{"Interest / principal", fmt.Sprintf("%.1f%% (%s)", rep.EMI.BurdenRatio*100, rep.EMI.BurdenBand)},
	})

	fmt.Fprintln(out, "\n== Lump-sum prepayment ==")
	if rep.Prepayment != nil {
		kvTable(out, [][2]string{
			{"Remaining tenure", fmt.Sprintf("%d months", rep.Prepayment.NewPeriods)},
			{"Months saved", fmt.Sprintf("%d", rep.Prepayment.MonthsSaved)},
			{"Interest saved", formatINR(rep.Prepayment.InterestSaved)},
		})
	} else {
		fmt.Fprintln(out, rep.PrepaymentNote)
	}

	fmt.Fprintln(out, "\n== Extra payments vs investing ==")
	kvTable(out, [][2]string{
		{"Months to payoff", fmt.Sprintf("%d", rep.PayoffVsInvest.MonthsToPayoff)},
		{"Interest saved", formatINR(rep.PayoffVsInvest.InterestSaved)},
		{"Investment FV", formatINR(rep.PayoffVsInvest.InvestmentFutureValue)},
		{"Verdict", string(rep.PayoffVsInvest.Verdict)},
	})

	fmt.Fprintln(out, "\n== Buy vs rent ==")
	kvTable(out, [][2]string{
		{"Net cost of buying", formatINR(rep.BuyVsRent.Differential)},
		{"Verdict", string(rep.BuyVsRent.Verdict)},
	})
}
