package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/debtlab/loan-cli/internal/engine"
)

var buyrentCmd = &cobra.Command{
	Use:   "buyrent",
	Short: "Compare buying on this loan against renting",
	Long: "Discounts the EMI stream, the rent stream, and the resale value of " +
		"the property to present value and reports which side wins.",
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

		result := engine.CompareBuyVsRent(terms, am, in)

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return printJSON(result)
		}

		kvTable(os.Stdout, [][2]string{
			{"PV of EMIs", formatINR(result.PVBuy)},
			{"PV of resale", formatINR(result.PVResale)},
			{"PV of rent", formatINR(result.PVRent)},
			{"Net cost of buying", formatINR(result.Differential)},
			{"Verdict", string(result.Verdict)},
		})
		return nil
	},
}

func init() {
	addInputFlags(buyrentCmd)
	addScenarioFlags(buyrentCmd)
	buyrentCmd.Flags().Bool("json", false, "emit JSON instead of a table")
	rootCmd.AddCommand(buyrentCmd)
}
