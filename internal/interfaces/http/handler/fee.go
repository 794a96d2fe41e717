package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	appbilling "github.com/irenerossetti/condominio-backend/internal/application/billing"
	"github.com/irenerossetti/condominio-backend/internal/domain/identity"
	"github.com/irenerossetti/condominio-backend/internal/domain/shared"
	"github.com/irenerossetti/condominio-backend/internal/domain/shared/valueobject"
	"github.com/irenerossetti/condominio-backend/internal/interfaces/http/dto"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// IdempotencyKeyHeader deduplicates payment submissions
const IdempotencyKeyHeader = "Idempotency-Key"

// FeeIssuer issues a period's fees
type FeeIssuer interface {
	IssueFees(ctx context.Context, caller identity.Caller, cmd appbilling.IssueFeesCommand) (*appbilling.IssueFeesResult, error)
}

// FeeReconciler journals payments and reports balances
type FeeReconciler interface {
	RegisterPayment(ctx context.Context, caller identity.Caller, cmd appbilling.RegisterPaymentCommand) (*appbilling.FeeBalanceResponse, error)
	GetBalance(ctx context.Context, caller identity.Caller, feeID uuid.UUID) (*appbilling.FeeBalanceResponse, error)
}

// FeeReader lists and loads fees
type FeeReader interface {
	ListFees(ctx context.Context, caller identity.Caller, query appbilling.ListFeesQuery) (*shared.Paginated[appbilling.FeeResponse], error)
	GetFee(ctx context.Context, caller identity.Caller, id uuid.UUID) (*appbilling.FeeDetailResponse, error)
}

// OverdueMarker runs the overdue sweep
type OverdueMarker interface {
	MarkOverdue(ctx context.Context, caller identity.Caller, asOf time.Time) (*appbilling.MarkOverdueResult, error)
}

// AmountInput accepts an amount written as a JSON string or number and
// keeps its exact text so that no precision is lost before validation
type AmountInput string

// UnmarshalJSON implements json.Unmarshaler
func (a *AmountInput) UnmarshalJSON(b []byte) error {
	raw := strings.TrimSpace(string(b))
	if raw == "null" {
		return nil
	}
	if unquoted, err := strconv.Unquote(raw); err == nil {
		raw = unquoted
	}
	*a = AmountInput(raw)
	return nil
}

// Decimal parses the amount, reporting problems against field
func (a AmountInput) Decimal(field string) (decimal.Decimal, error) {
	m, err := valueobject.NewMoneyFromString(string(a))
	if err != nil {
		return decimal.Zero, shared.NewValidationError(field, err.Error())
	}
	return m.Amount(), nil
}

// IssueFeesRequest is the body of POST /fees/issue
type IssueFeesRequest struct {
	Period        string       `json:"period" binding:"required,period"`
	ExpenseTypeID *string      `json:"expense_type_id" binding:"omitempty,uuid"`
	Amount        *AmountInput `json:"amount"`
	DueDate       *string      `json:"due_date" binding:"omitempty,datetime=2006-01-02"`
}

func (r IssueFeesRequest) toCommand() (appbilling.IssueFeesCommand, error) {
	cmd := appbilling.IssueFeesCommand{
		Period:        r.Period,
		ExpenseTypeID: parseOptionalUUID(r.ExpenseTypeID),
	}
	if r.Amount != nil {
		amount, err := r.Amount.Decimal("amount")
		if err != nil {
			return cmd, err
		}
		cmd.Amount = &amount
	}
	if r.DueDate != nil && *r.DueDate != "" {
		due, err := time.Parse(time.DateOnly, *r.DueDate)
		if err != nil {
			return cmd, shared.NewValidationError("due_date", "due_date must be formatted as YYYY-MM-DD")
		}
		cmd.DueDate = &due
	}
	return cmd, nil
}

// RegisterPaymentRequest is the body of POST /fees/:id/pay
type RegisterPaymentRequest struct {
	Amount AmountInput `json:"amount" binding:"required"`
	Method string      `json:"method" binding:"omitempty,max=30"`
	Note   string      `json:"note"`
}

// MarkOverdueRequest is the optional body of POST /fees/mark-overdue.
// as_of accepts a date or an RFC 3339 timestamp and defaults to now.
type MarkOverdueRequest struct {
	AsOf string `json:"as_of"`
}

func (r MarkOverdueRequest) asOf() (time.Time, error) {
	raw := strings.TrimSpace(r.AsOf)
	if raw == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.DateOnly, raw); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, shared.NewValidationError("as_of", "as_of must be a date (YYYY-MM-DD) or an RFC 3339 timestamp")
	}
	return t, nil
}

// ListFeesParams are the query parameters of GET /fees
type ListFeesParams struct {
	Mine          bool   `form:"mine"`
	Period        string `form:"period" binding:"omitempty,period"`
	ExpenseTypeID string `form:"expense_type_id" binding:"omitempty,uuid"`
	UnitID        string `form:"unit_id" binding:"omitempty,uuid"`
	Status        string `form:"status" binding:"omitempty,oneof=ISSUED PAID OVERDUE issued paid overdue"`
	Page          int    `form:"page" binding:"omitempty,min=1"`
	PageSize      int    `form:"page_size" binding:"omitempty,min=1"`
	OrderBy       string `form:"order_by"`
	OrderDir      string `form:"order_dir" binding:"omitempty,oneof=asc desc ASC DESC"`
}

func (p ListFeesParams) toQuery() appbilling.ListFeesQuery {
	return appbilling.ListFeesQuery{
		Mine:          p.Mine,
		Period:        p.Period,
		ExpenseTypeID: parseOptionalUUID(&p.ExpenseTypeID),
		UnitID:        parseOptionalUUID(&p.UnitID),
		Status:        p.Status,
		Page:          p.Page,
		PageSize:      p.PageSize,
		OrderBy:       p.OrderBy,
		OrderDir:      p.OrderDir,
	}
}

// FeeHandler serves the fee ledger endpoints
type FeeHandler struct {
	BaseHandler
	issuer     FeeIssuer
	reconciler FeeReconciler
	reader     FeeReader
	overdue    OverdueMarker
}

// NewFeeHandler creates a FeeHandler
func NewFeeHandler(issuer FeeIssuer, reconciler FeeReconciler, reader FeeReader, overdue OverdueMarker, logger *zap.Logger) *FeeHandler {
	return &FeeHandler{
		BaseHandler: NewBaseHandler(logger),
		issuer:      issuer,
		reconciler:  reconciler,
		reader:      reader,
		overdue:     overdue,
	}
}

// Issue handles POST /fees/issue
func (h *FeeHandler) Issue(c *gin.Context) {
	caller, ok := h.requireCaller(c)
	if !ok {
		return
	}
	var req IssueFeesRequest
	if !h.bindJSON(c, &req, false) {
		return
	}
	cmd, err := req.toCommand()
	if err != nil {
		h.HandleError(c, err)
		return
	}

	result, err := h.issuer.IssueFees(c.Request.Context(), caller, cmd)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Pay handles POST /fees/:id/pay
func (h *FeeHandler) Pay(c *gin.Context) {
	caller, ok := h.requireCaller(c)
	if !ok {
		return
	}
	feeID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	var req RegisterPaymentRequest
	if !h.bindJSON(c, &req, false) {
		return
	}
	amount, err := req.Amount.Decimal("amount")
	if err != nil {
		h.HandleError(c, err)
		return
	}

	balance, err := h.reconciler.RegisterPayment(c.Request.Context(), caller, appbilling.RegisterPaymentCommand{
		FeeID:          feeID,
		Amount:         amount,
		Method:         req.Method,
		Note:           req.Note,
		IdempotencyKey: strings.TrimSpace(c.GetHeader(IdempotencyKeyHeader)),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, balance)
}

// List handles GET /fees
func (h *FeeHandler) List(c *gin.Context) {
	h.list(c, false)
}

// ListMine handles GET /me/fees
func (h *FeeHandler) ListMine(c *gin.Context) {
	h.list(c, true)
}

func (h *FeeHandler) list(c *gin.Context, mine bool) {
	caller, ok := h.requireCaller(c)
	if !ok {
		return
	}
	var params ListFeesParams
	if !h.bindQuery(c, &params) {
		return
	}
	query := params.toQuery()
	query.Mine = query.Mine || mine

	page, err := h.reader.ListFees(c.Request.Context(), caller, query)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewPageResponse(page))
}

// Get handles GET /fees/:id
func (h *FeeHandler) Get(c *gin.Context) {
	caller, ok := h.requireCaller(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	fee, err := h.reader.GetFee(c.Request.Context(), caller, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, fee)
}

// Balance handles GET /fees/:id/balance
func (h *FeeHandler) Balance(c *gin.Context) {
	caller, ok := h.requireCaller(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	balance, err := h.reconciler.GetBalance(c.Request.Context(), caller, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, balance)
}

// MarkOverdue handles POST /fees/mark-overdue
func (h *FeeHandler) MarkOverdue(c *gin.Context) {
	caller, ok := h.requireCaller(c)
	if !ok {
		return
	}
	var req MarkOverdueRequest
	if !h.bindJSON(c, &req, true) {
		return
	}
	asOf, err := req.asOf()
	if err != nil {
		h.HandleError(c, err)
		return
	}

	result, err := h.overdue.MarkOverdue(c.Request.Context(), caller, asOf)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
