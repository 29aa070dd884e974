package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentStatus is the lifecycle state of an orchestrated payment.
// Transitions are one-directional: PENDING -> {COMPLETED, FAILED} by the
// orchestrator, PENDING -> CANCELLED via the external confirmation path.
// All three terminal states are absorbing.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusCompleted PaymentStatus = "COMPLETED"
	PaymentStatusFailed    PaymentStatus = "FAILED"
	PaymentStatusCancelled PaymentStatus = "CANCELLED"
)

// Payment is the durable record of one orchestration attempt. It is created
// in PENDING before any ledger call and never deleted.
type Payment struct {
	ID              uuid.UUID       `json:"id"`
	WalletID        uuid.UUID       `json:"wallet_id"`
	UserID          uuid.UUID       `json:"user_id"` // sender owner
	FromAddress     string          `json:"from_address"` // immutable snapshot at creation
	ToAddress       string          `json:"to_address"`
	RecipientUserID *uuid.UUID      `json:"recipient_user_id,omitempty"`
	Asset           AssetType       `json:"asset"`
	Amount          decimal.Decimal `json:"amount"`
	FiatAmount      *decimal.Decimal `json:"fiat_amount,omitempty"`
	FiatCurrency    *string         `json:"fiat_currency,omitempty"`
	Rate            *decimal.Decimal `json:"rate,omitempty"`
	LedgerTxRef     *string         `json:"ledger_tx_ref,omitempty"` // unique once set
	Status          PaymentStatus   `json:"status"`
	Memo            *string         `json:"memo,omitempty"`
	Detail          *string         `json:"detail,omitempty"` // raw adapter response or failure detail
	CreatedAt       time.Time       `json:"created_at"`
	CompletedAt     *time.Time      `json:"completed_at,omitempty"`
}

// IsTerminal returns true if the payment is in an absorbing state.
func (p *Payment) IsTerminal() bool {
	return p.Status == PaymentStatusCompleted ||
		p.Status == PaymentStatusFailed ||
		p.Status == PaymentStatusCancelled
}
