package handler

import (
	"strconv"
	"time"

	"github.com/plakshaa/xrplwallet/internal/adapter/http/dto"
	"github.com/plakshaa/xrplwallet/internal/core/domain"
	"github.com/plakshaa/xrplwallet/internal/core/ports"
	"github.com/plakshaa/xrplwallet/pkg/apperror"
	"github.com/plakshaa/xrplwallet/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentHandler handles payment orchestration endpoints.
type PaymentHandler struct {
	paymentSvc ports.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(paymentSvc ports.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentSvc: paymentSvc}
}

// Create handles POST /api/v1/payments.
func (h *PaymentHandler) Create(c *gin.Context) {
	userID, ok := authedUser(c)
	if !ok {
		return
	}

	var req dto.CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		response.Error(c, apperror.Validation("amount must be a decimal string"))
		return
	}

	walletID, err := uuid.Parse(req.WalletID)
	if err != nil {
		response.Error(c, apperror.Validation("invalid wallet id"))
		return
	}

	svcReq := ports.PaymentRequest{
		UserID:   userID,
		WalletID: walletID,
		Asset:    domain.AssetType(req.Asset),
		Amount:   amount,
		Memo:     req.Memo,
	}
	if req.ToAddress != nil {
		svcReq.ToAddress = *req.ToAddress
	}
	if req.RecipientUserID != nil {
		rid, err := uuid.Parse(*req.RecipientUserID)
		if err != nil {
			response.Error(c, apperror.Validation("invalid recipient user id"))
			return
		}
		svcReq.RecipientUserID = &rid
	}

	payment, err := h.paymentSvc.ProcessPayment(c.Request.Context(), svcReq)
	if err != nil {
		response.Error(c, err)
		return
	}

	// Externally-held wallets submit on their own ledger; the record stays
	// PENDING until the owner confirms.
	if payment.Status == domain.PaymentStatusPending {
		response.Accepted(c, toPaymentResponse(payment))
		return
	}

	response.Created(c, toPaymentResponse(payment))
}

// UpdateStatus handles PATCH /api/v1/payments/:id/status.
func (h *PaymentHandler) UpdateStatus(c *gin.Context) {
	userID, ok := authedUser(c)
	if !ok {
		return
	}

	paymentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("invalid payment id"))
		return
	}

	var req dto.UpdatePaymentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	payment, err := h.paymentSvc.UpdateStatus(c.Request.Context(), ports.StatusUpdateRequest{
		UserID:    userID,
		PaymentID: paymentID,
		Status:    domain.PaymentStatus(req.Status),
		TxRef:     req.TxRef,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, toPaymentResponse(payment))
}

// Get handles GET /api/v1/payments/:id.
func (h *PaymentHandler) Get(c *gin.Context) {
	userID, ok := authedUser(c)
	if !ok {
		return
	}

	paymentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("invalid payment id"))
		return
	}

	payment, err := h.paymentSvc.Get(c.Request.Context(), paymentID)
	if err != nil {
		response.Error(c, err)
		return
	}

	// Visibility: sender or resolved recipient only.
	if payment.UserID != userID &&
		(payment.RecipientUserID == nil || *payment.RecipientUserID != userID) {
		response.Error(c, apperror.ErrTransactionNotFound())
		return
	}

	response.OK(c, toPaymentResponse(payment))
}

// List handles GET /api/v1/payments.
func (h *PaymentHandler) List(c *gin.Context) {
	userID, ok := authedUser(c)
	if !ok {
		return
	}

	params := ports.PaymentListParams{
		UserID:   userID,
		Page:     queryInt(c, "page", 1),
		PageSize: queryInt(c, "page_size", 20),
	}
	if s := c.Query("status"); s != "" {
		status := domain.PaymentStatus(s)
		params.Status = &status
	}

	payments, total, err := h.paymentSvc.ListForUser(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]dto.PaymentResponse, 0, len(payments))
	for i := range payments {
		items = append(items, toPaymentResponse(&payments[i]))
	}

	totalPages := int(total) / params.PageSize
	if int(total)%params.PageSize > 0 {
		totalPages++
	}

	response.OK(c, dto.PaymentListResponse{
		Items:      items,
		Total:      total,
		Page:       params.Page,
		PageSize:   params.PageSize,
		TotalPages: totalPages,
	})
}

func toPaymentResponse(p *domain.Payment) dto.PaymentResponse {
	resp := dto.PaymentResponse{
		ID:          p.ID.String(),
		WalletID:    p.WalletID.String(),
		FromAddress: p.FromAddress,
		ToAddress:   p.ToAddress,
		Asset:       string(p.Asset),
		Amount:      p.Amount.String(),
		LedgerTxRef: p.LedgerTxRef,
		Status:      string(p.Status),
		Memo:        p.Memo,
		CreatedAt:   p.CreatedAt.Format(time.RFC3339),
	}
	if p.RecipientUserID != nil {
		rid := p.RecipientUserID.String()
		resp.RecipientUserID = &rid
	}
	if p.FiatAmount != nil {
		fa := p.FiatAmount.String()
		resp.FiatAmount = &fa
	}
	resp.FiatCurrency = p.FiatCurrency
	if p.Rate != nil {
		r := p.Rate.String()
		resp.Rate = &r
	}
	if p.CompletedAt != nil {
		ca := p.CompletedAt.Format(time.RFC3339)
		resp.CompletedAt = &ca
	}
	return resp
}

func queryInt(c *gin.Context, key string, def int) int {
	n, err := strconv.Atoi(c.Query(key))
	if err != nil || n < 1 {
		return def
	}
	return n
}
