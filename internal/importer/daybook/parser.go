// Package daybook reads voucher lines from a day book CSV: one row per entry,
// rows sharing a ref forming one voucher.
package daybook

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	enc "github.com/MrJamesThe3rd/khata/internal/encoding"
	"github.com/MrJamesThe3rd/khata/internal/voucher"
)

var ErrNoHeader = errors.New("no day book header found: need ref, date, type, account, debit and credit columns")

var dateLayouts = []string{"2006-01-02", "02-01-2006", "02/01/2006", "2-Jan-2006", "2-Jan-06"}

// Row is one entry line. A row that could not be read keeps its Ref and Line
// and carries the problem in Err, so only its own voucher is lost.
type Row struct {
	Line       int
	Ref        string
	Date       time.Time
	Type       voucher.Type
	Narration  string
	Account    string
	Debit      decimal.Decimal
	Credit     decimal.Decimal
	Currency   string
	Rate       decimal.Decimal
	CostCenter string
	Err        error
}

type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

// Parse decodes r to UTF-8, finds the header under any preamble and returns
// the entry rows below it. Both ';' and ',' separated files are accepted.
func (p *Parser) Parse(r io.Reader) ([]Row, error) {
	utf8r, charset, err := enc.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	data, err := io.ReadAll(utf8r)
	if err != nil {
		return nil, fmt.Errorf("read day book: %w", err)
	}

	for _, comma := range []rune{';', ','} {
		records, err := readCSV(data, comma)
		if err != nil {
			continue
		}

		for i, rec := range records {
			l, ok := matchHeader(rec.cells)
			if !ok {
				continue
			}

			slog.Debug("day book header found", "charset", charset, "separator", string(comma), "line", rec.line)

			return parseRows(l, records[i+1:]), nil
		}
	}

	return nil, ErrNoHeader
}

// record is a CSV row and the 1-based line it starts on.
type record struct {
	line  int
	cells []string
}

func readCSV(data []byte, comma rune) ([]record, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = comma
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var records []record

	for {
		cells, err := reader.Read()
		if err == io.EOF {
			return records, nil
		}

		if err != nil {
			return nil, err
		}

		line, _ := reader.FieldPos(0)
		records = append(records, record{line: line, cells: cells})
	}
}

func parseRows(l layout, records []record) []Row {
	var out []Row

	for _, rec := range records {
		ref := l.cell(rec.cells, colRef)
		account := l.cell(rec.cells, colAccount)

		// Blank lines, page footers and totals carry neither.
		if ref == "" || account == "" {
			continue
		}

		out = append(out, parseRow(l, rec.cells, Row{Line: rec.line, Ref: ref, Account: account}))
	}

	return out
}

func parseRow(l layout, cells []string, row Row) Row {
	var err error

	row.Date, err = parseDate(l.cell(cells, colDate))
	if err != nil {
		row.Err = err
		return row
	}

	row.Type = voucher.Type(strings.ToUpper(l.cell(cells, colType)))
	row.Narration = l.cell(cells, colNarration)
	row.Currency = strings.ToUpper(l.cell(cells, colCurrency))
	row.CostCenter = l.cell(cells, colCostCenter)

	if row.Debit, err = parseAmount(l.cell(cells, colDebit)); err != nil {
		row.Err = fmt.Errorf("debit: %w", err)
		return row
	}

	if row.Credit, err = parseAmount(l.cell(cells, colCredit)); err != nil {
		row.Err = fmt.Errorf("credit: %w", err)
		return row
	}

	if row.Rate, err = parseAmount(l.cell(cells, colRate)); err != nil {
		row.Err = fmt.Errorf("rate: %w", err)
		return row
	}

	return row
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, errors.New("missing date")
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognised date %q", s)
}
