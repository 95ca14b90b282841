package store_test

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/khata/internal/database"
	"github.com/MrJamesThe3rd/khata/internal/ledger"
	ledgerStore "github.com/MrJamesThe3rd/khata/internal/ledger/store"
	"github.com/MrJamesThe3rd/khata/internal/voucher"
	"github.com/MrJamesThe3rd/khata/internal/voucher/store"
)

var (
	jan15 = time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	feb03 = time.Date(2025, 2, 3, 0, 0, 0, 0, time.UTC)
)

// openTestDB migrates a fresh schema on the server named by DATABASE_URL and
// drops it when the test ends.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set")
	}

	admin, err := database.New(dsn)
	require.NoError(t, err)

	schema := "khata_test_" + uuid.NewString()[:8]

	_, err = admin.Exec(`CREATE SCHEMA ` + schema)
	require.NoError(t, err)

	u, err := url.Parse(dsn)
	require.NoError(t, err)

	q := u.Query()
	q.Set("search_path", schema)
	u.RawQuery = q.Encode()

	db, err := database.New(u.String())
	require.NoError(t, err)

	t.Cleanup(func() {
		db.Close()

		_, err := admin.Exec(`DROP SCHEMA ` + schema + ` CASCADE`)
		assert.NoError(t, err)

		admin.Close()
	})

	require.NoError(t, database.Migrate(context.Background(), db))

	return db
}

func setup(t *testing.T) (*voucher.Service, *sql.DB, ledger.WellKnown) {
	t.Helper()

	db := openTestDB(t)

	chart, err := ledger.DefaultChart()
	require.NoError(t, err)

	wk, err := ledger.NewService(ledgerStore.New(db)).Seed(context.Background(), chart)
	require.NoError(t, err)

	return voucher.NewService(store.New(db)), db, wk
}

func payment(wk ledger.WellKnown, date time.Time, amount string) voucher.Input {
	a := decimal.RequireFromString(amount)

	return voucher.Input{
		Date:      date,
		Type:      voucher.TypePayment,
		Narration: "Salaries",
		Entries: []voucher.EntryInput{
			{AccountID: wk.Salaries, Debit: a},
			{AccountID: wk.Bank, Credit: a},
		},
	}
}

func TestStore_Numbering(t *testing.T) {
	svc, _, wk := setup(t)
	ctx := context.Background()

	first, err := svc.Post(ctx, payment(wk, jan15, "100"))
	require.NoError(t, err)
	assert.Equal(t, "PAY-20250115-0001", first.Number)

	second, err := svc.Post(ctx, payment(wk, feb03, "250"))
	require.NoError(t, err)
	assert.Equal(t, "PAY-20250203-0002", second.Number)

	receipt := payment(wk, feb03, "75")
	receipt.Type = voucher.TypeReceipt

	third, err := svc.Post(ctx, receipt)
	require.NoError(t, err)
	assert.Equal(t, "REC-20250203-0001", third.Number)

	got, err := svc.Get(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, second.Number, got.Number)
	require.Len(t, got.Entries, 2)
	assert.True(t, decimal.RequireFromString("250").Equal(got.Entries[0].Debit))
}

func TestStore_ConcurrentPostsGetDistinctNumbers(t *testing.T) {
	svc, _, wk := setup(t)

	const posts = 10

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		numbers = make(map[string]bool, posts)
		errs    []error
	)

	for i := range posts {
		wg.Add(1)

		go func() {
			defer wg.Done()

			v, err := svc.Post(context.Background(), payment(wk, jan15, fmt.Sprintf("%d", 100+i)))

			mu.Lock()
			defer mu.Unlock()

			if err != nil {
				errs = append(errs, err)
				return
			}

			numbers[v.Number] = true
		}()
	}

	wg.Wait()

	require.Empty(t, errs)
	assert.Len(t, numbers, posts)

	for seq := 1; seq <= posts; seq++ {
		assert.True(t, numbers[voucher.FormatNumber(voucher.TypePayment, jan15, int64(seq))], "missing sequence %d", seq)
	}
}

func TestStore_RetriesTakenNumber(t *testing.T) {
	svc, db, wk := setup(t)
	ctx := context.Background()

	_, err := svc.Post(ctx, payment(wk, jan15, "100"))
	require.NoError(t, err)

	// Rewind the counter so the next post lands on a number already on file.
	_, err = db.Exec(`UPDATE voucher_sequences SET last_value = 0 WHERE type = $1`, voucher.TypePayment)
	require.NoError(t, err)

	v, err := svc.Post(ctx, payment(wk, jan15, "200"))
	require.NoError(t, err)
	assert.Equal(t, "PAY-20250115-0002", v.Number)
}

func TestStore_ReverseTwice(t *testing.T) {
	svc, _, wk := setup(t)
	ctx := context.Background()

	orig, err := svc.Post(ctx, payment(wk, jan15, "100"))
	require.NoError(t, err)

	rev, err := svc.Reverse(ctx, orig.ID, feb03, "")
	require.NoError(t, err)
	require.NotNil(t, rev.ReversalOf)
	assert.Equal(t, orig.ID, *rev.ReversalOf)

	_, err = svc.Reverse(ctx, orig.ID, feb03, "")
	assert.ErrorIs(t, err, voucher.ErrAlreadyReversed)

	bal, err := svc.Balance(ctx, wk.Salaries, feb03)
	require.NoError(t, err)
	assert.True(t, bal.Amount.IsZero())
}

func TestStore_JournalIsImmutable(t *testing.T) {
	svc, db, wk := setup(t)

	v, err := svc.Post(context.Background(), payment(wk, jan15, "100"))
	require.NoError(t, err)

	_, err = db.Exec(`UPDATE vouchers SET narration = 'edited' WHERE id = $1`, v.ID)
	assert.ErrorContains(t, err, "immutable")

	_, err = db.Exec(`DELETE FROM voucher_entries WHERE voucher_id = $1`, v.ID)
	assert.ErrorContains(t, err, "immutable")
}

func TestStore_BalanceOfUnknownAccount(t *testing.T) {
	svc, _, _ := setup(t)

	_, err := svc.Balance(context.Background(), uuid.New(), jan15)
	assert.ErrorIs(t, err, ledger.ErrNotFound)
}
