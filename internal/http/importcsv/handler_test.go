package importcsv_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/khata/internal/http/importcsv"
	"github.com/MrJamesThe3rd/khata/internal/importer"
	"github.com/MrJamesThe3rd/khata/internal/voucher"
)

type mockImporter struct {
	ImportFunc func(ctx context.Context, format importer.Format, r io.Reader) (*importer.Result, error)
}

func (m *mockImporter) Import(ctx context.Context, format importer.Format, r io.Reader) (*importer.Result, error) {
	return m.ImportFunc(ctx, format, r)
}

func upload(t *testing.T, fields map[string]string, content string) *http.Request {
	t.Helper()

	var body bytes.Buffer

	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}

	if content != "" {
		fw, err := mw.CreateFormFile("file", "daybook.csv")
		require.NoError(t, err)

		_, err = io.WriteString(fw, content)
		require.NoError(t, err)
	}

	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/import/", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	return req
}

func serve(imp *mockImporter, req *http.Request) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	r.Route("/import", importcsv.NewHandler(imp).Routes)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	return rec
}

func TestHandler_Import(t *testing.T) {
	const csv = "ref;date;type;account;debit;credit\nR-1;15/01/2025;RECEIPT;CASH;500;\nR-1;15/01/2025;RECEIPT;SALES;;500\n"

	t.Run("Mixed", func(t *testing.T) {
		var (
			gotFormat importer.Format
			gotBody   string
		)

		imp := &mockImporter{
			ImportFunc: func(_ context.Context, format importer.Format, r io.Reader) (*importer.Result, error) {
				gotFormat = format
				b, _ := io.ReadAll(r)
				gotBody = string(b)

				return &importer.Result{
					Posted: []*voucher.Voucher{{ID: uuid.New(), Number: "REC-20250115-0001", Reference: "R-1"}},
					Failed: []importer.Failure{{Ref: "R-2", Line: 4, Err: voucher.ErrUnbalanced}},
				}, nil
			},
		}

		rec := serve(imp, upload(t, nil, csv))

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, importer.FormatDaybook, gotFormat)
		assert.Equal(t, csv, gotBody)
		assert.Contains(t, rec.Body.String(), `"imported":1`)
		assert.Contains(t, rec.Body.String(), `{"ref":"R-2","line":4,"error":"unbalanced transaction"}`)
	})

	t.Run("NothingPosted", func(t *testing.T) {
		imp := &mockImporter{
			ImportFunc: func(context.Context, importer.Format, io.Reader) (*importer.Result, error) {
				return &importer.Result{Failed: []importer.Failure{{Ref: "R-1", Line: 2, Err: voucher.ErrUnknownAccount}}}, nil
			},
		}

		rec := serve(imp, upload(t, nil, csv))
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("MissingFile", func(t *testing.T) {
		rec := serve(&mockImporter{}, upload(t, map[string]string{"format": "daybook"}, ""))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Unreadable", func(t *testing.T) {
		imp := &mockImporter{
			ImportFunc: func(context.Context, importer.Format, io.Reader) (*importer.Result, error) {
				return nil, errors.New("no header row found")
			},
		}

		rec := serve(imp, upload(t, nil, "garbage"))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
