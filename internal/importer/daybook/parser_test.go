package daybook_test

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/MrJamesThe3rd/khata/internal/importer/daybook"
	"github.com/MrJamesThe3rd/khata/internal/voucher"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.Truef(t, decimal.RequireFromString(want).Equal(got), "want %s, got %s", want, got)
}

func TestParser_Semicolon(t *testing.T) {
	csv := `Day book;Sharma Traders
Period;01-01-2025 to 31-01-2025

ref;date;type;narration;account;debit;credit;currency;rate;cost_center
PAY-1;2025-01-31;payment;January salaries;SALARIES;1,17,000.00;;;;HO
PAY-1;2025-01-31;payment;;BANK;;1,17,000.00;;;
REC-1;15/01/2025;Receipt;Export order;BANK;8,320.00;;USD;83.20;
REC-1;15/01/2025;Receipt;;SALES;;8320;;;
;;;Totals;;1,25,320.00;1,25,320.00;;;
`

	rows, err := daybook.NewParser().Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, rows, 4)

	first := rows[0]
	assert.NoError(t, first.Err)
	assert.Equal(t, 5, first.Line)
	assert.Equal(t, "PAY-1", first.Ref)
	assert.Equal(t, date(2025, 1, 31), first.Date)
	assert.Equal(t, voucher.TypePayment, first.Type)
	assert.Equal(t, "January salaries", first.Narration)
	assert.Equal(t, "SALARIES", first.Account)
	assertDecimal(t, "117000", first.Debit)
	assertDecimal(t, "0", first.Credit)
	assert.Equal(t, "HO", first.CostCenter)

	assertDecimal(t, "117000", rows[1].Credit)

	usd := rows[2]
	assert.Equal(t, voucher.TypeReceipt, usd.Type)
	assert.Equal(t, date(2025, 1, 15), usd.Date)
	assert.Equal(t, "USD", usd.Currency)
	assertDecimal(t, "83.20", usd.Rate)
	assertDecimal(t, "8320", usd.Debit)
}

func TestParser_Comma(t *testing.T) {
	csv := `Voucher Type,Vch No.,Date,Ledger,Dr,Cr,Narration
Journal,J-7,2-Jan-2025,RENT,"25,000.00",,Office rent
Journal,J-7,2-Jan-2025,BANK,,"25,000.00",
`

	rows, err := daybook.NewParser().Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "J-7", rows[0].Ref)
	assert.Equal(t, voucher.TypeJournal, rows[0].Type)
	assert.Equal(t, date(2025, 1, 2), rows[0].Date)
	assert.Equal(t, "RENT", rows[0].Account)
	assertDecimal(t, "25000", rows[0].Debit)
	assertDecimal(t, "25000", rows[1].Credit)
	assert.Equal(t, "Office rent", rows[0].Narration)
}

func TestParser_Windows1252(t *testing.T) {
	utf8CSV := "ref;date;type;narration;account;debit;credit\nJ1;2025-01-02;JOURNAL;Café supplies;RENT;10.00;\n"

	latin, err := charmap.Windows1252.NewEncoder().Bytes([]byte(utf8CSV))
	require.NoError(t, err)

	rows, err := daybook.NewParser().Parse(strings.NewReader(string(latin)))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Café supplies", rows[0].Narration)
}

func TestParser_BadRowsKeepRef(t *testing.T) {
	csv := `ref;date;type;account;debit;credit
J1;31-02-2025;JOURNAL;RENT;10;
J1;2025-01-02;JOURNAL;BANK;;ten
J2;2025-01-02;JOURNAL;BANK;;10
`

	rows, err := daybook.NewParser().Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "J1", rows[0].Ref)
	assert.ErrorContains(t, rows[0].Err, "date")
	assert.Equal(t, "J1", rows[1].Ref)
	assert.ErrorContains(t, rows[1].Err, "credit")
	assert.NoError(t, rows[2].Err)
}

func TestParser_NoHeader(t *testing.T) {
	_, err := daybook.NewParser().Parse(strings.NewReader("date;amount\n2025-01-01;10\n"))
	assert.ErrorIs(t, err, daybook.ErrNoHeader)

	_, err = daybook.NewParser().Parse(strings.NewReader(""))
	assert.ErrorIs(t, err, daybook.ErrNoHeader)
}

func TestParser_HeaderOnly(t *testing.T) {
	rows, err := daybook.NewParser().Parse(strings.NewReader("ref;date;type;account;debit;credit\n"))
	require.NoError(t, err)
	assert.Empty(t, rows)
}
