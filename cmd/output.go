package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// inr prints amounts with Indian digit grouping (lakh/crore).
var inr = message.NewPrinter(language.MustParse("en-IN"))

// formatINR renders a rupee amount for terminal display.
func formatINR(v float64) string {
	return inr.Sprintf("₹ %v", number.Decimal(v,
		number.MaxFractionDigits(2),
		number.MinFractionDigits(0),
	))
}

func formatPercent(v float64) string {
	return fmt.Sprintf("%.1f%%", v)
}

// kvTable writes aligned label/value rows, the common shape of the
// single-section command output.
func kvTable(out io.Writer, rows [][2]string) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, row := range rows {
		_, _ = fmt.Fprintf(w, "%s\t%s\n", row[0], row[1])
	}
	_ = w.Flush()
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// truncateID returns the first 8 characters of a UUID for compact display.
func truncateID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}
