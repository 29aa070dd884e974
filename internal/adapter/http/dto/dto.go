package dto

// ProvisionWalletRequest is the request body for custodied wallet creation.
type ProvisionWalletRequest struct {
	Asset string  `json:"asset" binding:"required"`
	Label *string `json:"label,omitempty" binding:"omitempty,max=100"`
}

// RegisterWalletRequest is the request body for external wallet registration.
type RegisterWalletRequest struct {
	Asset     string  `json:"asset" binding:"required"`
	Address   string  `json:"address" binding:"required,max=128"`
	PublicKey *string `json:"public_key,omitempty" binding:"omitempty,max=256"`
	Label     *string `json:"label,omitempty" binding:"omitempty,max=100"`
}

// WalletResponse is the public view of a wallet. The signing secret never
// appears here in any form.
type WalletResponse struct {
	ID        string  `json:"id"`
	Asset     string  `json:"asset"`
	Custody   string  `json:"custody"`
	Address   string  `json:"address"`
	PublicKey *string `json:"public_key,omitempty"`
	Balance   string  `json:"balance"`
	Status    string  `json:"status"`
	Label     *string `json:"label,omitempty"`
	CreatedAt string  `json:"created_at"`
}

// CreatePaymentRequest is the request body for payment submission. Amount is
// a decimal string to avoid float precision loss in transit.
type CreatePaymentRequest struct {
	WalletID        string  `json:"wallet_id" binding:"required,uuid"`
	ToAddress       *string `json:"to_address,omitempty" binding:"omitempty,max=128"`
	RecipientUserID *string `json:"recipient_user_id,omitempty" binding:"omitempty,uuid"`
	Asset           string  `json:"asset" binding:"required"`
	Amount          string  `json:"amount" binding:"required"`
	Memo            *string `json:"memo,omitempty" binding:"omitempty,max=256"`
}

// UpdatePaymentStatusRequest is the request body for the external
// confirmation path.
type UpdatePaymentStatusRequest struct {
	Status string  `json:"status" binding:"required"`
	TxRef  *string `json:"ledger_tx_ref,omitempty" binding:"omitempty,max=128"`
}

// PaymentResponse is the public view of a payment record.
type PaymentResponse struct {
	ID              string  `json:"id"`
	WalletID        string  `json:"wallet_id"`
	FromAddress     string  `json:"from_address"`
	ToAddress       string  `json:"to_address"`
	RecipientUserID *string `json:"recipient_user_id,omitempty"`
	Asset           string  `json:"asset"`
	Amount          string  `json:"amount"`
	FiatAmount      *string `json:"fiat_amount,omitempty"`
	FiatCurrency    *string `json:"fiat_currency,omitempty"`
	Rate            *string `json:"rate,omitempty"`
	LedgerTxRef     *string `json:"ledger_tx_ref,omitempty"`
	Status          string  `json:"status"`
	Memo            *string `json:"memo,omitempty"`
	CreatedAt       string  `json:"created_at"`
	CompletedAt     *string `json:"completed_at,omitempty"`
}

// PaymentListResponse wraps a paginated payment list.
type PaymentListResponse struct {
	Items      []PaymentResponse `json:"items"`
	Total      int64             `json:"total"`
	Page       int               `json:"page"`
	PageSize   int               `json:"page_size"`
	TotalPages int               `json:"total_pages"`
}

// SpotPriceResponse is the response for a spot rate query.
type SpotPriceResponse struct {
	Asset string `json:"asset"`
	Quote string `json:"quote"`
	Rate  string `json:"rate"`
}

// ConversionResponse is the response for an asset-to-asset quote.
type ConversionResponse struct {
	FromAsset       string `json:"from_asset"`
	ToAsset         string `json:"to_asset"`
	Amount          string `json:"amount"`
	Rate            string `json:"rate"`
	ConvertedAmount string `json:"converted_amount"`
}
