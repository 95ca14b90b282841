package commands

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/khata/internal/cashflow"
	"github.com/MrJamesThe3rd/khata/internal/export"
)

var projectedStyle = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("245"))

func newCashflowCommand() *cobra.Command {
	var (
		refFlag  string
		xlsxPath string
	)

	cmd := &cobra.Command{
		Use:   "cashflow",
		Short: "Show the cash-flow projection around a month",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ref, err := parseRef(refFlag, time.Now())
			if err != nil {
				return err
			}

			a, db, err := connect(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			buckets, err := a.Projector.Collect(cmd.Context(), ref)
			if err != nil {
				return err
			}

			if xlsxPath != "" {
				return writeWorkbook(xlsxPath, buckets)
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderProjection(buckets))

			return nil
		},
	}

	cmd.Flags().StringVar(&refFlag, "ref", "", "reference date, YYYY-MM-DD (default: today)")
	cmd.Flags().StringVar(&xlsxPath, "xlsx", "", "write the projection to this workbook instead of printing it")

	return cmd
}

func parseRef(s string, now time.Time) (time.Time, error) {
	if s == "" {
		return now, nil
	}

	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --ref %q: want YYYY-MM-DD", s)
	}

	return t, nil
}

func writeWorkbook(path string, buckets []cashflow.Bucket) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating workbook: %w", err)
	}

	if err := export.CashflowXLSX(buckets, f); err != nil {
		f.Close()
		return err
	}

	return f.Close()
}

func renderProjection(buckets []cashflow.Bucket) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Month", "Inflow", "Outflow", "Net", "")

	future := make(map[int]bool, len(buckets))

	for i, b := range buckets {
		kind := ""
		if b.IsFuture {
			kind = "projected"
			future[i] = true
		}

		t.Row(
			b.Label+" "+strconv.Itoa(b.Year),
			b.Inflow.StringFixed(2),
			b.Outflow.StringFixed(2),
			b.Net.StringFixed(2),
			kind,
		)
	}

	sum := cashflow.Totals(buckets)
	t.Row("Actual", sum.Actual.Inflow.StringFixed(2), sum.Actual.Outflow.StringFixed(2), sum.Actual.Net.StringFixed(2), "")
	t.Row("Projected", sum.Projected.Inflow.StringFixed(2), sum.Projected.Outflow.StringFixed(2), sum.Projected.Net.StringFixed(2), "")

	t.StyleFunc(func(row, col int) lipgloss.Style {
		style := lipgloss.NewStyle().Padding(0, 1)
		if row == table.HeaderRow {
			return style.Bold(true)
		}

		if future[row] {
			style = projectedStyle.Padding(0, 1)
		}

		if col > 0 && col < 4 {
			style = style.Align(lipgloss.Right)
		}

		return style
	})

	return t.Render()
}
