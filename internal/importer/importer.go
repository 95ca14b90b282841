package importer

import (
	"context"
	"io"

	"github.com/MrJamesThe3rd/khata/internal/importer/daybook"
	"github.com/MrJamesThe3rd/khata/internal/ledger"
	"github.com/MrJamesThe3rd/khata/internal/voucher"
)

type Format string

const (
	FormatDaybook Format = "daybook"
)

type Parser interface {
	Parse(r io.Reader) ([]daybook.Row, error)
}

// Accounts resolves the codes written in an import file.
type Accounts interface {
	HeadByCode(ctx context.Context, code string) (*ledger.Head, error)
	CostCenterByCode(ctx context.Context, code string) (*ledger.CostCenter, error)
}

type Poster interface {
	Post(ctx context.Context, in voucher.Input) (*voucher.Voucher, error)
}

// Failure is a voucher that was not posted. Line is the first line of its ref.
type Failure struct {
	Ref  string
	Line int
	Err  error
}

type Result struct {
	Posted []*voucher.Voucher
	Failed []Failure
}
