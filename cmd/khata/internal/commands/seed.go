package commands

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/khata/internal/ledger"
)

func newSeedCommand() *cobra.Command {
	var chartPath string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create the chart of accounts and resolve the payroll accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			chart, err := loadChart(chartPath)
			if err != nil {
				return err
			}

			a, db, err := connect(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			wk, err := a.Seed(cmd.Context(), chart)
			if err != nil {
				return fmt.Errorf("seeding chart: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%-20s %s\n", ledger.CodeSalaries, wk.Salaries)
			fmt.Fprintf(out, "%-20s %s\n", ledger.CodeBank, wk.Bank)

			if wk.DeductionsPayable == uuid.Nil {
				fmt.Fprintf(out, "%-20s not available (no liability group)\n", ledger.CodeDeductionsPayable)
			} else {
				fmt.Fprintf(out, "%-20s %s\n", ledger.CodeDeductionsPayable, wk.DeductionsPayable)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&chartPath, "chart", "", "YAML chart of accounts (default: built-in chart)")

	return cmd
}

func loadChart(path string) (*ledger.Chart, error) {
	if path == "" {
		return ledger.DefaultChart()
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening chart: %w", err)
	}
	defer f.Close()

	return ledger.ParseChart(f)
}
