package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/khata/internal/payroll"
)

func newPayrollCommand() *cobra.Command {
	var (
		period    string
		date      string
		basis     string
		employees []string
		all       bool
	)

	cmd := &cobra.Command{
		Use:   "payroll",
		Short: "Post the salaries of a month to the ledger",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			req, err := payrollRequest(period, date, basis, employees, all)
			if err != nil {
				return err
			}

			a, db, err := connect(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			sum, err := a.Payroll.Post(cmd.Context(), req)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if sum.Empty() {
				fmt.Fprintf(out, "no staff pending payroll for %s\n", sum.Period)
				return nil
			}

			fmt.Fprintf(out, "%s  %d employees  gross %s  deductions %s  net %s\n",
				sum.Voucher.Number, sum.Count,
				sum.Gross.StringFixed(2), sum.Deductions.StringFixed(2), sum.Net.StringFixed(2))

			return nil
		},
	}

	cmd.Flags().StringVar(&period, "period", "", "payroll month, YYYY-MM (default: month of --date)")
	cmd.Flags().StringVar(&date, "date", "", "voucher date, YYYY-MM-DD (default: today)")
	cmd.Flags().StringVar(&basis, "basis", string(payroll.BasisGross), "GROSS or NET")
	cmd.Flags().StringSliceVar(&employees, "employee", nil, "employee id, repeatable")
	cmd.Flags().BoolVar(&all, "all", false, "pay every active employee")
	cmd.MarkFlagsMutuallyExclusive("employee", "all")
	cmd.MarkFlagsOneRequired("employee", "all")

	return cmd
}

func payrollRequest(period, date, basis string, employees []string, all bool) (payroll.Request, error) {
	if all && len(employees) > 0 {
		return payroll.Request{}, fmt.Errorf("--all and --employee cannot be combined")
	}

	req := payroll.Request{Basis: payroll.Basis(strings.ToUpper(basis)), AllActive: all}

	if period != "" {
		t, err := time.Parse("2006-01", period)
		if err != nil {
			return payroll.Request{}, fmt.Errorf("invalid --period %q: want YYYY-MM", period)
		}

		req.Period = payroll.PeriodOf(t)
	}

	if date != "" {
		t, err := time.Parse(time.DateOnly, date)
		if err != nil {
			return payroll.Request{}, fmt.Errorf("invalid --date %q: want YYYY-MM-DD", date)
		}

		req.Date = t
	}

	for _, s := range employees {
		id, err := uuid.Parse(s)
		if err != nil {
			return payroll.Request{}, fmt.Errorf("invalid --employee %q: %w", s, err)
		}

		req.EmployeeIDs = append(req.EmployeeIDs, id)
	}

	return req, nil
}
