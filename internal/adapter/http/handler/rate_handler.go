package handler

import (
	"github.com/plakshaa/xrplwallet/internal/adapter/http/dto"
	"github.com/plakshaa/xrplwallet/internal/core/domain"
	"github.com/plakshaa/xrplwallet/internal/core/ports"
	"github.com/plakshaa/xrplwallet/pkg/apperror"
	"github.com/plakshaa/xrplwallet/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// RateHandler handles spot price and conversion endpoints.
type RateHandler struct {
	oracle       ports.RateOracle
	defaultQuote string
}

// NewRateHandler creates a new RateHandler.
func NewRateHandler(oracle ports.RateOracle, defaultQuote string) *RateHandler {
	return &RateHandler{oracle: oracle, defaultQuote: defaultQuote}
}

// SpotPrice handles GET /api/v1/rates/:asset.
func (h *RateHandler) SpotPrice(c *gin.Context) {
	asset := domain.AssetType(c.Param("asset"))
	if !asset.Valid() {
		response.Error(c, apperror.ErrUnsupportedAsset(string(asset)))
		return
	}

	quote := c.DefaultQuery("quote", h.defaultQuote)

	rate, err := h.oracle.SpotPrice(c.Request.Context(), asset, quote)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.SpotPriceResponse{
		Asset: string(asset),
		Quote: quote,
		Rate:  rate.String(),
	})
}

// Convert handles GET /api/v1/rates/convert.
func (h *RateHandler) Convert(c *gin.Context) {
	from := domain.AssetType(c.Query("from"))
	to := domain.AssetType(c.Query("to"))
	if !from.Valid() {
		response.Error(c, apperror.ErrUnsupportedAsset(string(from)))
		return
	}
	if !to.Valid() {
		response.Error(c, apperror.ErrUnsupportedAsset(string(to)))
		return
	}

	amount, err := decimal.NewFromString(c.DefaultQuery("amount", "1"))
	if err != nil || amount.LessThanOrEqual(decimal.Zero) {
		response.Error(c, apperror.Validation("amount must be a positive decimal"))
		return
	}

	conv, err := h.oracle.Convert(c.Request.Context(), from, to, amount)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.ConversionResponse{
		FromAsset:       string(conv.FromAsset),
		ToAsset:         string(conv.ToAsset),
		Amount:          conv.Amount.String(),
		Rate:            conv.Rate.String(),
		ConvertedAmount: conv.ConvertedAmount.String(),
	})
}
