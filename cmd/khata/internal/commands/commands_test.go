package commands

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/khata/internal/cashflow"
	"github.com/MrJamesThe3rd/khata/internal/importer"
	"github.com/MrJamesThe3rd/khata/internal/payroll"
	"github.com/MrJamesThe3rd/khata/internal/voucher"
)

func TestParseRef(t *testing.T) {
	now := time.Date(2025, 6, 10, 14, 0, 0, 0, time.UTC)

	got, err := parseRef("", now)
	require.NoError(t, err)
	assert.Equal(t, now, got)

	got, err = parseRef("2025-03-15", now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC), got)

	_, err = parseRef("15/03/2025", now)
	assert.Error(t, err)
}

func TestPayrollRequest(t *testing.T) {
	id := uuid.New()

	type args struct {
		period    string
		date      string
		basis     string
		employees []string
		all       bool
	}

	type testCase struct {
		name    string
		args    args
		want    payroll.Request
		wantErr bool
	}

	tests := []testCase{
		{
			name: "Defaults",
			args: args{basis: "GROSS"},
			want: payroll.Request{Basis: payroll.BasisGross},
		},
		{
			name: "AllActive",
			args: args{basis: "GROSS", all: true},
			want: payroll.Request{Basis: payroll.BasisGross, AllActive: true},
		},
		{name: "AllWithEmployee", args: args{all: true, employees: []string{id.String()}}, wantErr: true},
		{
			name: "Everything",
			args: args{period: "2025-01", date: "2025-01-31", basis: "net", employees: []string{id.String()}},
			want: payroll.Request{
				EmployeeIDs: []uuid.UUID{id},
				Period:      payroll.Period{Year: 2025, Month: time.January},
				Date:        time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC),
				Basis:       payroll.BasisNet,
			},
		},
		{name: "BadPeriod", args: args{period: "Jan 2025"}, wantErr: true},
		{name: "BadDate", args: args{date: "31.01.2025"}, wantErr: true},
		{name: "BadEmployee", args: args{employees: []string{"emp-1"}}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := payrollRequest(tt.args.period, tt.args.date, tt.args.basis, tt.args.employees, tt.args.all)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRenderProjection(t *testing.T) {
	buckets := []cashflow.Bucket{
		{Label: "Mar", Year: 2025, Month: time.March, Inflow: decimal.NewFromInt(1000), Outflow: decimal.NewFromInt(400), Net: decimal.NewFromInt(600)},
		{Label: "Apr", Year: 2025, Month: time.April, Inflow: decimal.NewFromInt(300), Outflow: decimal.NewFromInt(500), Net: decimal.NewFromInt(-200), IsFuture: true},
	}

	out := renderProjection(buckets)

	assert.Contains(t, out, "Mar 2025")
	assert.Contains(t, out, "1000.00")
	assert.Contains(t, out, "-200.00")
	assert.Contains(t, out, "projected")
	assert.Contains(t, out, "Actual")
	assert.Contains(t, out, "Projected")
}

func TestPrintImport(t *testing.T) {
	var buf bytes.Buffer

	printImport(&buf, &importer.Result{
		Posted: []*voucher.Voucher{{Number: "REC-20250115-0001", Reference: "R-1"}},
		Failed: []importer.Failure{{Ref: "R-2", Line: 4, Err: errors.New("unbalanced transaction")}},
	})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "REC-20250115-0001")
	assert.Contains(t, lines[1], "line 4: unbalanced transaction")
	assert.Equal(t, "1 posted, 1 failed", lines[2])
}

func TestTokenCommand(t *testing.T) {
	t.Setenv("JWT_SECRET", "cli-secret")

	var out bytes.Buffer

	cmd := NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"token", "ops@example.com", "--ttl", "1h"})

	require.NoError(t, cmd.Execute())

	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(strings.TrimSpace(out.String()), &claims, func(*jwt.Token) (any, error) {
		return []byte("cli-secret"), nil
	})
	require.NoError(t, err)

	assert.Equal(t, "ops@example.com", claims.Subject)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func TestTokenCommand_NoSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	cmd := NewRootCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"token", "ops"})

	assert.Error(t, cmd.Execute())
}
