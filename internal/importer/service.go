package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/khata/internal/importer/daybook"
	"github.com/MrJamesThe3rd/khata/internal/ledger"
	"github.com/MrJamesThe3rd/khata/internal/voucher"
)

var ErrInconsistentVoucher = errors.New("rows of one voucher disagree on date or type")

type Service struct {
	parsers  map[Format]Parser
	accounts Accounts
	poster   Poster
}

func NewService(accounts Accounts, poster Poster) *Service {
	return &Service{
		parsers: map[Format]Parser{
			FormatDaybook: daybook.NewParser(),
		},
		accounts: accounts,
		poster:   poster,
	}
}

// Import posts every voucher found in r. Each voucher stands alone: one that
// fails to resolve or post is reported in Result.Failed and the rest still go
// through. The error return is for files that cannot be read at all.
func (s *Service) Import(ctx context.Context, format Format, r io.Reader) (*Result, error) {
	parser, ok := s.parsers[format]
	if !ok {
		return nil, fmt.Errorf("unknown import format: %s", format)
	}

	rows, err := parser.Parse(r)
	if err != nil {
		return nil, err
	}

	res := &Result{}
	codes := &resolver{accounts: s.accounts}

	for _, g := range groupByRef(rows) {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		v, err := s.post(ctx, codes, g)
		if err != nil {
			slog.Warn("voucher not imported", "ref", g[0].Ref, "line", g[0].Line, "error", err)
			res.Failed = append(res.Failed, Failure{Ref: g[0].Ref, Line: g[0].Line, Err: err})

			continue
		}

		res.Posted = append(res.Posted, v)
	}

	slog.Info("import finished", "posted", len(res.Posted), "failed", len(res.Failed))

	return res, nil
}

func (s *Service) post(ctx context.Context, codes *resolver, rows []daybook.Row) (*voucher.Voucher, error) {
	head := rows[0]

	in := voucher.Input{
		Date:      head.Date,
		Type:      head.Type,
		Reference: head.Ref,
		Entries:   make([]voucher.EntryInput, 0, len(rows)),
	}

	for _, row := range rows {
		if row.Err != nil {
			return nil, fmt.Errorf("line %d: %w", row.Line, row.Err)
		}

		if !row.Date.Equal(head.Date) || row.Type != head.Type {
			return nil, fmt.Errorf("line %d: %w", row.Line, ErrInconsistentVoucher)
		}

		if in.Narration == "" {
			in.Narration = row.Narration
		}

		account, err := codes.head(ctx, row.Account)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", row.Line, err)
		}

		entry := voucher.EntryInput{
			AccountID:    account,
			Debit:        row.Debit,
			Credit:       row.Credit,
			Currency:     row.Currency,
			ExchangeRate: row.Rate,
		}

		if row.CostCenter != "" {
			cc, err := codes.costCenter(ctx, row.CostCenter)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", row.Line, err)
			}

			entry.CostCenterID = &cc
		}

		in.Entries = append(in.Entries, entry)
	}

	return s.poster.Post(ctx, in)
}

// groupByRef collects rows into vouchers in order of first appearance.
func groupByRef(rows []daybook.Row) [][]daybook.Row {
	var groups [][]daybook.Row

	index := make(map[string]int)

	for _, row := range rows {
		i, ok := index[row.Ref]
		if !ok {
			i = len(groups)
			index[row.Ref] = i
			groups = append(groups, nil)
		}

		groups[i] = append(groups[i], row)
	}

	return groups
}

// resolver caches code lookups for the length of one import.
type resolver struct {
	accounts Accounts
	heads    map[string]uuid.UUID
	centers  map[string]uuid.UUID
}

func (r *resolver) head(ctx context.Context, code string) (uuid.UUID, error) {
	code = strings.ToUpper(code)
	if id, ok := r.heads[code]; ok {
		return id, nil
	}

	h, err := r.accounts.HeadByCode(ctx, code)
	if err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			return uuid.Nil, fmt.Errorf("account %s: %w", code, voucher.ErrUnknownAccount)
		}

		return uuid.Nil, fmt.Errorf("resolving account %s: %w", code, err)
	}

	if r.heads == nil {
		r.heads = make(map[string]uuid.UUID)
	}

	r.heads[code] = h.ID

	return h.ID, nil
}

func (r *resolver) costCenter(ctx context.Context, code string) (uuid.UUID, error) {
	code = strings.ToUpper(code)
	if id, ok := r.centers[code]; ok {
		return id, nil
	}

	cc, err := r.accounts.CostCenterByCode(ctx, code)
	if err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			return uuid.Nil, fmt.Errorf("cost center %s: %w", code, voucher.ErrUnknownAccount)
		}

		return uuid.Nil, fmt.Errorf("resolving cost center %s: %w", code, err)
	}

	if r.centers == nil {
		r.centers = make(map[string]uuid.UUID)
	}

	r.centers[code] = cc.ID

	return cc.ID, nil
}
