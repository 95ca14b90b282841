package daybook

import "strings"

type column int

const (
	colRef column = iota
	colDate
	colType
	colNarration
	colAccount
	colDebit
	colCredit
	colCurrency
	colRate
	colCostCenter
)

// headers maps normalised header names to columns. The day book export writes
// the first name of each; the rest are what hand-made sheets tend to use.
var headers = map[string]column{
	"ref":           colRef,
	"reference":     colRef,
	"voucher":       colRef,
	"vch no":        colRef,
	"date":          colDate,
	"type":          colType,
	"voucher type":  colType,
	"vch type":      colType,
	"narration":     colNarration,
	"description":   colNarration,
	"account":       colAccount,
	"ledger":        colAccount,
	"debit":         colDebit,
	"dr":            colDebit,
	"credit":        colCredit,
	"cr":            colCredit,
	"currency":      colCurrency,
	"rate":          colRate,
	"exchange rate": colRate,
	"cost center":   colCostCenter,
	"cost centre":   colCostCenter,
}

var requiredColumns = []column{colRef, colDate, colType, colAccount, colDebit, colCredit}

// layout is where each column sits in a row; -1 when absent.
type layout [colCostCenter + 1]int

func normalizeHeader(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "_", " ")
	s = strings.TrimSuffix(s, ".")

	return strings.Join(strings.Fields(s), " ")
}

// matchHeader reports whether row is a header naming every required column.
func matchHeader(row []string) (layout, bool) {
	var l layout
	for i := range l {
		l[i] = -1
	}

	for i, cell := range row {
		c, ok := headers[normalizeHeader(cell)]
		if ok && l[c] == -1 {
			l[c] = i
		}
	}

	for _, c := range requiredColumns {
		if l[c] == -1 {
			return l, false
		}
	}

	return l, true
}

func (l layout) cell(row []string, c column) string {
	idx := l[c]
	if idx < 0 || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}
