package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"github.com/tealeg/xlsx/v2"

	"github.com/debtlab/loan-cli/internal/engine"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Sensitivity of the buy-vs-rent differential",
	Long: "Sweeps the buy-vs-rent differential across interest rates, or across " +
		"the full rate x price-growth grid with --grid. Negative cells favor buying.",
	RunE: func(cmd *cobra.Command, args []string) error {
		in, _, err := resolveInputs(cmd)
		if err != nil {
			return err
		}
		opts := cfg.Options()

		format, _ := cmd.Flags().GetString("format")
		outPath, _ := cmd.Flags().GetString("out")
		wantGrid, _ := cmd.Flags().GetBool("grid")

		if format != "table" && format != "csv" && format != "xlsx" {
			return eris.Errorf("unsupported format %q (want table, csv, or xlsx)", format)
		}
		if format == "xlsx" && outPath == "" {
			return eris.New("--out is required with --format xlsx")
		}

		terms := in.Terms()

		if wantGrid {
			grid, err := engine.SweepGrid(terms, in.MonthlyRent, in.DiscountRatePercent,
				opts.GridRates.Samples(), opts.GridGrowths.Samples())
			if err != nil {
				return err
			}
			return writeGrid(grid, format, outPath)
		}

		rates := opts.RateSweep.Samples()
		diffs, err := engine.SweepByRate(terms, in.MonthlyRent, in.DiscountRatePercent,
			in.PriceGrowthPercent, rates)
		if err != nil {
			return err
		}
		return writeRateSweep(engine.RateSweep{Rates: rates, Differentials: diffs}, format, outPath)
	},
}

func init() {
	addInputFlags(sweepCmd)
	addScenarioFlags(sweepCmd)
	sweepCmd.Flags().Bool("grid", false, "sweep the full rate x growth grid")
	sweepCmd.Flags().String("format", "table", "output format: table, csv, or xlsx")
	sweepCmd.Flags().String("out", "", "output file (stdout if empty; required for xlsx)")
	rootCmd.AddCommand(sweepCmd)
}

func openOut(path string) (io.Writer, func() error, error) {
	if path == "" {
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, eris.Wrapf(err, "create %s", path)
	}
	return f, f.Close, nil
}

func writeRateSweep(sweep engine.RateSweep, format, outPath string) error {
	if format == "xlsx" {
		return writeRateSweepXLSX(sweep, outPath)
	}

	out, closeFn, err := openOut(outPath)
	if err != nil {
		return err
	}
	defer closeFn() //nolint:errcheck

	switch format {
	case "csv":
		w := csv.NewWriter(out)
		if err := w.Write([]string{"rate_percent", "differential"}); err != nil {
			return eris.Wrap(err, "write csv header")
		}
		for i, rate := range sweep.Rates {
			record := []string{
				strconv.FormatFloat(rate, 'f', 2, 64),
				strconv.FormatFloat(sweep.Differentials[i], 'f', 2, 64),
			}
			if err := w.Write(record); err != nil {
				return eris.Wrap(err, "write csv row")
			}
		}
		w.Flush()
		return eris.Wrap(w.Error(), "flush csv")
	default:
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		_, _ = fmt.Fprintln(w, "RATE\tDIFFERENTIAL\tFAVORS")
		for i, rate := range sweep.Rates {
			favors := "rent"
			if sweep.Differentials[i] < 0 {
				favors = "buy"
			}
			_, _ = fmt.Fprintf(w, "%.2f%%\t%.0f\t%s\n", rate, sweep.Differentials[i], favors)
		}
		return w.Flush()
	}
}

func writeRateSweepXLSX(sweep engine.RateSweep, path string) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("rate-sweep")
	if err != nil {
		return eris.Wrap(err, "xlsx: add sheet")
	}

	header := sheet.AddRow()
	header.AddCell().SetString("rate_percent")
	header.AddCell().SetString("differential")

	for i, rate := range sweep.Rates {
		row := sheet.AddRow()
		row.AddCell().SetFloat(rate)
		row.AddCell().SetFloat(sweep.Differentials[i])
	}

	return eris.Wrapf(f.Save(path), "xlsx: save %s", path)
}

func writeGrid(grid *engine.SensitivityGrid, format, outPath string) error {
	if format == "xlsx" {
		return writeGridXLSX(grid, outPath)
	}

	out, closeFn, err := openOut(outPath)
	if err != nil {
		return err
	}
	defer closeFn() //nolint:errcheck

	switch format {
	case "csv":
		w := csv.NewWriter(out)
		header := make([]string, 0, len(grid.Rates)+1)
		header = append(header, "growth_percent")
		for _, rate := range grid.Rates {
			header = append(header, strconv.FormatFloat(rate, 'f', 2, 64))
		}
		if err := w.Write(header); err != nil {
			return eris.Wrap(err, "write csv header")
		}
		for gi, growth := range grid.Growths {
			record := make([]string, 0, len(grid.Rates)+1)
			record = append(record, strconv.FormatFloat(growth, 'f', 2, 64))
			for _, cell := range grid.Cells[gi] {
				record = append(record, strconv.FormatFloat(cell, 'f', 2, 64))
			}
			if err := w.Write(record); err != nil {
				return eris.Wrap(err, "write csv row")
			}
		}
		w.Flush()
		return eris.Wrap(w.Error(), "flush csv")
	default:
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		_, _ = fmt.Fprint(w, "GROWTH\\RATE")
		for _, rate := range grid.Rates {
			_, _ = fmt.Fprintf(w, "\t%.1f%%", rate)
		}
		_, _ = fmt.Fprintln(w)
		for gi, growth := range grid.Growths {
			_, _ = fmt.Fprintf(w, "%.1f%%", growth)
			for _, cell := range grid.Cells[gi] {
				_, _ = fmt.Fprintf(w, "\t%.0f", cell)
			}
			_, _ = fmt.Fprintln(w)
		}
		return w.Flush()
	}
}

func writeGridXLSX(grid *engine.SensitivityGrid, path string) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("buy-vs-rent-grid")
	if err != nil {
		return eris.Wrap(err, "xlsx: add sheet")
	}

	header := sheet.AddRow()
	header.AddCell().SetString("growth_percent")
	for _, rate := range grid.Rates {
		header.AddCell().SetFloat(rate)
	}

	for gi, growth := range grid.Growths {
		row := sheet.AddRow()
		row.AddCell().SetFloat(growth)
		for _, cell := range grid.Cells[gi] {
			row.AddCell().SetFloat(cell)
		}
	}

	return eris.Wrapf(f.Save(path), "xlsx: save %s", path)
}
