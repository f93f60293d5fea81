package main

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/debtlab/loan-cli/internal/config"
	"github.com/debtlab/loan-cli/internal/engine"
	"github.com/debtlab/loan-cli/internal/store"
)

// addInputFlags registers the engine input overrides. Any flag left unset
// falls back to the configured defaults (and the preset, if one is named).
func addInputFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.Float64("principal", 0, "loan principal")
	f.Float64("rate", 0, "annual interest rate (percent)")
	f.Int("tenure", 0, "loan tenure (years)")
	f.Float64("salary", 0, "monthly take-home salary")
	f.Int("prepay-year", 0, "year after which the lump-sum prepayment lands")
	f.Float64("prepay-amount", 0, "lump-sum prepayment amount")
	f.Float64("extra", 0, "extra payment added to every installment")
	f.Float64("return", 0, "expected annual investment return (percent)")
	f.Float64("rent", 0, "monthly rent of a comparable home")
	f.Float64("discount", 0, "annual discount rate for NPV (percent)")
	f.Float64("growth", 0, "annual property price growth (percent)")
}

// addScenarioFlags registers the preset and recession-shock switches.
func addScenarioFlags(cmd *cobra.Command) {
	cmd.Flags().String("preset", "", "named loan scenario to start from")
	cmd.Flags().Bool("shock", false, "apply the recession shock to the expected return")
}

// resolveInputs builds the full input record for a command invocation:
// configured defaults, then the preset, then explicit flags, then the
// shock override. Later layers win.
func resolveInputs(cmd *cobra.Command) (engine.Inputs, string, error) {
	in := cfg.Inputs()
	f := cmd.Flags()

	presetName, _ := f.GetString("preset")
	if presetName != "" {
		presets, err := config.LoadPresets(cfg.Presets.File)
		if err != nil {
			return engine.Inputs{}, "", err
		}
		p, ok := presets[presetName]
		if !ok {
			return engine.Inputs{}, "", eris.Errorf("unknown preset %q (available: %s)",
				presetName, strings.Join(config.PresetNames(presets), ", "))
		}
		in = p.Apply(in)
	}

	if f.Changed("principal") {
		in.Principal, _ = f.GetFloat64("principal")
	}
	if f.Changed("rate") {
		in.AnnualRatePercent, _ = f.GetFloat64("rate")
	}
	if f.Changed("tenure") {
		in.TenureYears, _ = f.GetInt("tenure")
	}
	if f.Changed("salary") {
		in.MonthlySalary, _ = f.GetFloat64("salary")
	}
	if f.Changed("prepay-year") {
		in.PrepayAfterYears, _ = f.GetInt("prepay-year")
	}
	if f.Changed("prepay-amount") {
		in.PrepayAmount, _ = f.GetFloat64("prepay-amount")
	}
	if f.Changed("extra") {
		in.ExtraMonthlyPayment, _ = f.GetFloat64("extra")
	}
	if f.Changed("return") {
		in.ExpectedReturnPercent, _ = f.GetFloat64("return")
	}
	if f.Changed("rent") {
		in.MonthlyRent, _ = f.GetFloat64("rent")
	}
	if f.Changed("discount") {
		in.DiscountRatePercent, _ = f.GetFloat64("discount")
	}
	if f.Changed("growth") {
		in.PriceGrowthPercent, _ = f.GetFloat64("growth")
	}

	if shock, _ := f.GetBool("shock"); shock {
		in = in.WithShock(cfg.Defaults.ShockReturnPercent)
	}

	return in, presetName, nil
}

func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "sqlite":
		dsn := cfg.Store.DatabaseURL
		if dsn == "" {
			dsn = "loan.db"
		}
		return store.NewSQLite(dsn)
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL)
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
}
