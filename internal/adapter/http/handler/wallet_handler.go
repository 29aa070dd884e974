package handler

import (
	"time"

	"github.com/plakshaa/xrplwallet/internal/adapter/http/dto"
	"github.com/plakshaa/xrplwallet/internal/adapter/http/middleware"
	"github.com/plakshaa/xrplwallet/internal/core/domain"
	"github.com/plakshaa/xrplwallet/internal/core/ports"
	"github.com/plakshaa/xrplwallet/pkg/apperror"
	"github.com/plakshaa/xrplwallet/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// WalletHandler handles wallet custody endpoints.
type WalletHandler struct {
	custodySvc ports.CustodyService
}

// NewWalletHandler creates a new WalletHandler.
func NewWalletHandler(custodySvc ports.CustodyService) *WalletHandler {
	return &WalletHandler{custodySvc: custodySvc}
}

// Provision handles POST /api/v1/wallets.
func (h *WalletHandler) Provision(c *gin.Context) {
	userID, ok := authedUser(c)
	if !ok {
		return
	}

	var req dto.ProvisionWalletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	wallet, err := h.custodySvc.Provision(c.Request.Context(), ports.ProvisionRequest{
		UserID: userID,
		Asset:  domain.AssetType(req.Asset),
		Label:  req.Label,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, toWalletResponse(wallet))
}

// Register handles POST /api/v1/wallets/register.
func (h *WalletHandler) Register(c *gin.Context) {
	userID, ok := authedUser(c)
	if !ok {
		return
	}

	var req dto.RegisterWalletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	wallet, err := h.custodySvc.Register(c.Request.Context(), ports.RegisterWalletRequest{
		UserID:    userID,
		Address:   req.Address,
		Asset:     domain.AssetType(req.Asset),
		PublicKey: req.PublicKey,
		Label:     req.Label,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, toWalletResponse(wallet))
}

// List handles GET /api/v1/wallets.
func (h *WalletHandler) List(c *gin.Context) {
	userID, ok := authedUser(c)
	if !ok {
		return
	}

	wallets, err := h.custodySvc.ListByUser(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]dto.WalletResponse, 0, len(wallets))
	for i := range wallets {
		items = append(items, toWalletResponse(&wallets[i]))
	}
	response.OK(c, items)
}

// Get handles GET /api/v1/wallets/:id.
func (h *WalletHandler) Get(c *gin.Context) {
	userID, ok := authedUser(c)
	if !ok {
		return
	}

	walletID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("invalid wallet id"))
		return
	}

	wallet, err := h.custodySvc.Get(c.Request.Context(), walletID)
	if err != nil {
		response.Error(c, err)
		return
	}
	if wallet.UserID != userID {
		response.Error(c, apperror.ErrWalletNotFound())
		return
	}

	response.OK(c, toWalletResponse(wallet))
}

// Retire handles DELETE /api/v1/wallets/:id.
func (h *WalletHandler) Retire(c *gin.Context) {
	userID, ok := authedUser(c)
	if !ok {
		return
	}

	walletID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("invalid wallet id"))
		return
	}

	if err := h.custodySvc.Retire(c.Request.Context(), userID, walletID); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{"status": string(domain.WalletStatusRetired)})
}

// RefreshBalance handles POST /api/v1/wallets/:id/refresh.
func (h *WalletHandler) RefreshBalance(c *gin.Context) {
	userID, ok := authedUser(c)
	if !ok {
		return
	}

	walletID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("invalid wallet id"))
		return
	}

	wallet, err := h.custodySvc.Get(c.Request.Context(), walletID)
	if err != nil {
		response.Error(c, err)
		return
	}
	if wallet.UserID != userID {
		response.Error(c, apperror.ErrWalletNotFound())
		return
	}

	refreshed, err := h.custodySvc.RefreshBalance(c.Request.Context(), walletID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, toWalletResponse(refreshed))
}

// authedUser extracts the authenticated user ID set by the JWT middleware.
func authedUser(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(middleware.CtxUserID)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return uuid.Nil, false
	}
	userID, ok := v.(uuid.UUID)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return uuid.Nil, false
	}
	return userID, true
}

func toWalletResponse(w *domain.Wallet) dto.WalletResponse {
	return dto.WalletResponse{
		ID:        w.ID.String(),
		Asset:     string(w.Asset),
		Custody:   string(w.Custody),
		Address:   w.Address,
		PublicKey: w.PublicKey,
		Balance:   w.Balance.String(),
		Status:    string(w.Status),
		Label:     w.Label,
		CreatedAt: w.CreatedAt.Format(time.RFC3339),
	}
}
