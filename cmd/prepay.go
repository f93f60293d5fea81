package main

import (
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/debtlab/loan-cli/internal/engine"
)

var prepayCmd = &cobra.Command{
	Use:   "prepay",
	Short: "Simulate a one-time lump-sum prepayment",
	Long: "Applies a lump-sum prepayment after the given number of years and " +
		"reports the shortened tenure and the interest saved.",
	RunE: func(cmd *cobra.Command, args []string) error {
		in, _, err := resolveInputs(cmd)
		if err != nil {
			return err
		}

		terms := in.Terms()
		am, err := engine.ComputeInstallment(terms)
		if err != nil {
			return err
		}

		outcome, err := engine.ApplyPrepayment(terms, am, in.PrepayAfterYears, in.PrepayAmount)
		if eris.Is(err, engine.ErrPrepaymentInfeasible) {
			fmt.Fprintf(os.Stderr, "Prepayment not feasible: %v\n", err)
			return nil
		}
		if err != nil {
			return err
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return printJSON(outcome)
		}

		kvTable(os.Stdout, [][2]string{
			{"Prepayment", fmt.Sprintf("%s after year %d", formatINR(in.PrepayAmount), in.PrepayAfterYears)},
			{"Balance before", formatINR(outcome.BalanceBefore)},
			{"Balance after", formatINR(outcome.NewBalance)},
			{"Remaining tenure", fmt.Sprintf("%d months", outcome.NewPeriods)},
			{"Months saved", fmt.Sprintf("%d", outcome.MonthsSaved)},
			{"Interest saved", formatINR(outcome.InterestSaved)},
		})
		return nil
	},
}

func init() {
	addInputFlags(prepayCmd)
	addScenarioFlags(prepayCmd)
	prepayCmd.Flags().Bool("json", false, "emit JSON instead of a table")
	rootCmd.AddCommand(prepayCmd)
}
