package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/debtlab/loan-cli/internal/engine"
)

var emiCmd = &cobra.Command{
	Use:   "emi",
	Short: "Show the monthly installment and total interest",
	RunE: func(cmd *cobra.Command, args []string) error {
		in, _, err := resolveInputs(cmd)
		if err != nil {
			return err
		}
		if in.MonthlySalary <= 0 {
			return fmt.Errorf("monthly salary must be positive (got %.2f)", in.MonthlySalary)
		}

		am, err := engine.ComputeInstallment(in.Terms())
		if err != nil {
			return err
		}
		summary := engine.SummarizeEMI(in, am)

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return printJSON(summary)
		}

		kvTable(os.Stdout, [][2]string{
			{"Monthly EMI", formatINR(summary.Installment)},
			{"Tenure", fmt.Sprintf("%d months", summary.Periods)},
			{"Total payment", formatINR(summary.TotalPayment)},
			{"Total interest", formatINR(summary.TotalInterest)},
			{"EMI / salary", fmt.Sprintf("%.1f%% (%s)", summary.EMIToSalaryRatio*100, summary.StressBand)},
			{"Interest / principal", fmt.Sprintf("%.1f%% (%s)", summary.BurdenRatio*100, summary.BurdenBand)},
		})
		return nil
	},
}

func init() {
	addInputFlags(emiCmd)
	addScenarioFlags(emiCmd)
	emiCmd.Flags().Bool("json", false, "emit JSON instead of a table")
	rootCmd.AddCommand(emiCmd)
}
