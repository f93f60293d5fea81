package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/debtlab/loan-cli/internal/engine"
)

var payoffCmd = &cobra.Command{
	Use:   "payoff",
	Short: "Compare paying extra every month against investing it",
	Long: "Simulates adding a fixed extra amount to every installment until the " +
		"loan retires, then weighs the interest saved against the future value " +
		"of a monthly investment of the same amount.",
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

		payoff, err := engine.SimulateExtraPayments(terms, am, in.ExtraMonthlyPayment)
		if err != nil {
			return err
		}
		fv, err := engine.FutureValueOfRecurring(in.ExtraMonthlyPayment, in.ExpectedReturnPercent, am.Periods)
		if err != nil {
			return err
		}

		verdict := engine.VerdictPrepay
		if fv > payoff.InterestSaved {
			verdict = engine.VerdictInvest
		}

		result := engine.PrepayVsInvest{
			MonthsToPayoff:        payoff.MonthsToPayoff,
			YearsSaved:            payoff.YearsSaved,
			InterestSaved:         payoff.InterestSaved,
			InvestmentFutureValue: fv,
			Verdict:               verdict,
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return printJSON(result)
		}

		kvTable(os.Stdout, [][2]string{
			{"Extra per month", formatINR(in.ExtraMonthlyPayment)},
			{"Months to payoff", fmt.Sprintf("%d", result.MonthsToPayoff)},
			{"Years saved", fmt.Sprintf("%.1f", result.YearsSaved)},
			{"Interest saved", formatINR(result.InterestSaved)},
			{"Invested instead", fmt.Sprintf("%s at %s", formatINR(result.InvestmentFutureValue), formatPercent(in.ExpectedReturnPercent))},
			{"Verdict", string(result.Verdict)},
		})
		return nil
	},
}

func init() {
	addInputFlags(payoffCmd)
	addScenarioFlags(payoffCmd)
	payoffCmd.Flags().Bool("json", false, "emit JSON instead of a table")
	rootCmd.AddCommand(payoffCmd)
}
