package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/debtlab/loan-cli/internal/engine"
)

func TestFormatReport_Sections(t *testing.T) {
	report, err := engine.Evaluate(testConfigInputs(), engine.Options{
		RateSweep: engine.SweepSpec{Start: 2, Stop: 15, Steps: 3},
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	formatReport(&buf, report)

	out := buf.String()
	for _, section := range []string{"== Loan ==", "== EMI ==", "== Lump-sum prepayment ==",
		"== Extra payments vs investing ==", "== Buy vs rent =="} {
		assert.Contains(t, out, section)
	}
	assert.Contains(t, out, "Monthly EMI")
	assert.Contains(t, out, "Months saved")
	assert.Contains(t, out, "invest")
	assert.Contains(t, out, "buy")
}

func TestFormatReport_InfeasiblePrepaymentNote(t *testing.T) {
	report, err := engine.Evaluate(testConfigInputs(), engine.Options{
		RateSweep: engine.SweepSpec{Start: 2, Stop: 15, Steps: 3},
	})
	require.NoError(t, err)

	report.Prepayment = nil
	report.PrepaymentNote = "prepayment infeasible at current installment"

	var buf bytes.Buffer
	formatReport(&buf, report)

	assert.Contains(t, buf.String(), "prepayment infeasible")
	assert.NotContains(t, buf.String(), "Months saved")
}
