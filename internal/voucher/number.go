package voucher

import (
	"fmt"
	"strings"
	"time"
)

// Prefix is the first three letters of the type, upper-cased: PAYMENT -> PAY.
func (t Type) Prefix() string {
	s := strings.ToUpper(string(t))
	if len(s) > 3 {
		return s[:3]
	}

	return s
}

// FormatNumber renders a voucher number like PAY-20250115-0001.
func FormatNumber(t Type, date time.Time, seq int64) string {
	return fmt.Sprintf("%s-%s-%04d", t.Prefix(), date.Format("20060102"), seq)
}
