package ledger

import (
	"context"
	"io"
	"mime"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/khata/internal/http/respond"
	"github.com/MrJamesThe3rd/khata/internal/ledger"
	"github.com/MrJamesThe3rd/khata/internal/voucher"
)

type Accounts interface {
	CreateGroup(ctx context.Context, params ledger.GroupParams) (*ledger.Group, error)
	ListGroups(ctx context.Context) ([]*ledger.Group, error)
	UpsertHead(ctx context.Context, params ledger.HeadParams) (*ledger.Head, error)
	ListHeads(ctx context.Context) ([]*ledger.Head, error)
	CreateCostCenter(ctx context.Context, params ledger.CostCenterParams) (*ledger.CostCenter, error)
	ListCostCenters(ctx context.Context) ([]*ledger.CostCenter, error)
	Seed(ctx context.Context, chart *ledger.Chart) (ledger.WellKnown, error)
}

// Balances derives account positions from the journal.
type Balances interface {
	Balance(ctx context.Context, accountID uuid.UUID, asOf time.Time) (*voucher.Balance, error)
	TrialBalance(ctx context.Context, asOf time.Time) ([]*voucher.Balance, error)
}

type Handler struct {
	accounts Accounts
	balances Balances
	onSeed   func(ledger.WellKnown)
	now      func() time.Time
}

// NewHandler wires the chart of accounts endpoints. onSeed, when set, receives
// the well-known heads after every successful seed.
func NewHandler(accounts Accounts, balances Balances, onSeed func(ledger.WellKnown)) *Handler {
	return &Handler{
		accounts: accounts,
		balances: balances,
		onSeed:   onSeed,
		now:      time.Now,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/groups", h.listGroups)
	r.Post("/groups", h.createGroup)
	r.Get("/heads", h.listHeads)
	r.Post("/heads", h.createHead)
	r.Get("/cost-centers", h.listCostCenters)
	r.Post("/cost-centers", h.createCostCenter)
	r.Post("/seed", h.seed)
	r.Get("/balances/{id}", h.balance)
	r.Get("/trial-balance", h.trialBalance)
}

type groupResponse struct {
	ID        uuid.UUID        `json:"id"`
	Name      string           `json:"name"`
	Type      ledger.GroupType `json:"type"`
	Side      ledger.Side      `json:"side"`
	ParentID  *uuid.UUID       `json:"parent_id,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
}

type headResponse struct {
	ID        uuid.UUID        `json:"id"`
	Name      string           `json:"name"`
	Code      string           `json:"code,omitempty"`
	GroupID   uuid.UUID        `json:"group_id"`
	Type      ledger.GroupType `json:"type"`
	CreatedAt time.Time        `json:"created_at"`
}

type costCenterResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Code      string    `json:"code"`
	Budget    string    `json:"budget"`
	CreatedAt time.Time `json:"created_at"`
}

type wellKnownResponse struct {
	Salaries          uuid.UUID  `json:"salaries"`
	Bank              uuid.UUID  `json:"bank"`
	DeductionsPayable *uuid.UUID `json:"deductions_payable,omitempty"`
}

type balanceResponse struct {
	AccountID   uuid.UUID   `json:"account_id"`
	AccountName string      `json:"account_name"`
	AccountCode string      `json:"account_code,omitempty"`
	Side        ledger.Side `json:"side"`
	AsOf        string      `json:"as_of"`
	Debit       string      `json:"debit"`
	Credit      string      `json:"credit"`
	Amount      string      `json:"amount"`
}

type trialBalanceResponse struct {
	AsOf        string            `json:"as_of"`
	Accounts    []balanceResponse `json:"accounts"`
	TotalDebit  string            `json:"total_debit"`
	TotalCredit string            `json:"total_credit"`
}

func toGroupResponse(g *ledger.Group) groupResponse {
	return groupResponse{
		ID:        g.ID,
		Name:      g.Name,
		Type:      g.Type,
		Side:      g.Type.NaturalSide(),
		ParentID:  g.ParentID,
		CreatedAt: g.CreatedAt,
	}
}

func toHeadResponse(hd *ledger.Head) headResponse {
	return headResponse{
		ID:        hd.ID,
		Name:      hd.Name,
		Code:      hd.Code,
		GroupID:   hd.GroupID,
		Type:      hd.Type,
		CreatedAt: hd.CreatedAt,
	}
}

func toCostCenterResponse(cc *ledger.CostCenter) costCenterResponse {
	return costCenterResponse{
		ID:        cc.ID,
		Name:      cc.Name,
		Code:      cc.Code,
		Budget:    cc.Budget.StringFixed(2),
		CreatedAt: cc.CreatedAt,
	}
}

func toBalanceResponse(b *voucher.Balance) balanceResponse {
	return balanceResponse{
		AccountID:   b.AccountID,
		AccountName: b.AccountName,
		AccountCode: b.AccountCode,
		Side:        b.Side,
		AsOf:        b.AsOf.Format(time.DateOnly),
		Debit:       b.Debit.StringFixed(2),
		Credit:      b.Credit.StringFixed(2),
		Amount:      b.Amount.StringFixed(2),
	}
}

func (h *Handler) listGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := h.accounts.ListGroups(r.Context())
	if err != nil {
		respond.Error(w, err)
		return
	}

	resp := make([]groupResponse, len(groups))
	for i, g := range groups {
		resp[i] = toGroupResponse(g)
	}

	respond.JSON(w, http.StatusOK, resp)
}

type createGroupRequest struct {
	Name     string           `json:"name" validate:"required,max=100"`
	Type     ledger.GroupType `json:"type" validate:"omitempty,oneof=ASSET LIABILITY INCOME EXPENSE"`
	ParentID *uuid.UUID       `json:"parent_id,omitempty"`
}

func (h *Handler) createGroup(w http.ResponseWriter, r *http.Request) {
	var req createGroupRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	g, err := h.accounts.CreateGroup(r.Context(), ledger.GroupParams{
		Name:     req.Name,
		Type:     req.Type,
		ParentID: req.ParentID,
	})
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toGroupResponse(g))
}

func (h *Handler) listHeads(w http.ResponseWriter, r *http.Request) {
	heads, err := h.accounts.ListHeads(r.Context())
	if err != nil {
		respond.Error(w, err)
		return
	}

	resp := make([]headResponse, len(heads))
	for i, hd := range heads {
		resp[i] = toHeadResponse(hd)
	}

	respond.JSON(w, http.StatusOK, resp)
}

type createHeadRequest struct {
	Name    string    `json:"name" validate:"required,max=100"`
	Code    string    `json:"code" validate:"omitempty,max=32"`
	GroupID uuid.UUID `json:"group_id" validate:"required"`
}

func (h *Handler) createHead(w http.ResponseWriter, r *http.Request) {
	var req createHeadRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	hd, err := h.accounts.UpsertHead(r.Context(), ledger.HeadParams{
		Name:    req.Name,
		Code:    req.Code,
		GroupID: req.GroupID,
	})
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toHeadResponse(hd))
}

func (h *Handler) listCostCenters(w http.ResponseWriter, r *http.Request) {
	centers, err := h.accounts.ListCostCenters(r.Context())
	if err != nil {
		respond.Error(w, err)
		return
	}

	resp := make([]costCenterResponse, len(centers))
	for i, cc := range centers {
		resp[i] = toCostCenterResponse(cc)
	}

	respond.JSON(w, http.StatusOK, resp)
}

type createCostCenterRequest struct {
	Name   string          `json:"name" validate:"required,max=100"`
	Code   string          `json:"code" validate:"required,max=32"`
	Budget decimal.Decimal `json:"budget"`
}

func (h *Handler) createCostCenter(w http.ResponseWriter, r *http.Request) {
	var req createCostCenterRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	if req.Budget.IsNegative() {
		http.Error(w, "budget must not be negative", http.StatusUnprocessableEntity)
		return
	}

	cc, err := h.accounts.CreateCostCenter(r.Context(), ledger.CostCenterParams{
		Name:   req.Name,
		Code:   req.Code,
		Budget: req.Budget,
	})
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toCostCenterResponse(cc))
}

// seed applies a YAML chart sent as the body, or the built-in chart when the
// body is empty.
func (h *Handler) seed(w http.ResponseWriter, r *http.Request) {
	chart, err := h.chart(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	wk, err := h.accounts.Seed(r.Context(), chart)
	if err != nil {
		respond.Error(w, err)
		return
	}

	if h.onSeed != nil {
		h.onSeed(wk)
	}

	resp := wellKnownResponse{Salaries: wk.Salaries, Bank: wk.Bank}
	if wk.DeductionsPayable != uuid.Nil {
		resp.DeductionsPayable = &wk.DeductionsPayable
	}

	respond.JSON(w, http.StatusOK, resp)
}

func (h *Handler) chart(r *http.Request) (*ledger.Chart, error) {
	if r.ContentLength == 0 {
		return ledger.DefaultChart()
	}

	if mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type")); mt != "application/yaml" && mt != "text/yaml" {
		return nil, errUnsupportedChart
	}

	return ledger.ParseChart(io.LimitReader(r.Body, 1<<20))
}

func (h *Handler) balance(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	asOf, ok := h.asOf(w, r)
	if !ok {
		return
	}

	b, err := h.balances.Balance(r.Context(), id, asOf)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, toBalanceResponse(b))
}

func (h *Handler) trialBalance(w http.ResponseWriter, r *http.Request) {
	asOf, ok := h.asOf(w, r)
	if !ok {
		return
	}

	bs, err := h.balances.TrialBalance(r.Context(), asOf)
	if err != nil {
		respond.Error(w, err)
		return
	}

	debit, credit := voucher.TrialTotals(bs)

	resp := trialBalanceResponse{
		AsOf:        asOf.Format(time.DateOnly),
		Accounts:    make([]balanceResponse, len(bs)),
		TotalDebit:  debit.StringFixed(2),
		TotalCredit: credit.StringFixed(2),
	}
	for i, b := range bs {
		resp.Accounts[i] = toBalanceResponse(b)
	}

	respond.JSON(w, http.StatusOK, resp)
}

func (h *Handler) asOf(w http.ResponseWriter, r *http.Request) (time.Time, bool) {
	s := r.URL.Query().Get("as_of")
	if s == "" {
		now := h.now()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), true
	}

	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		http.Error(w, "invalid as_of", http.StatusBadRequest)
		return time.Time{}, false
	}

	return t, true
}
