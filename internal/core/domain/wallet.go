package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CustodyMode distinguishes wallets whose signing secret this system holds
// from wallets where only the address is known.
type CustodyMode string

const (
	CustodySelf     CustodyMode = "SELF"
	CustodyExternal CustodyMode = "EXTERNAL"
)

// WalletStatus is the wallet lifecycle state. Deletion is logical: a wallet
// transitions to RETIRED and its address is never reused.
type WalletStatus string

const (
	WalletStatusActive  WalletStatus = "ACTIVE"
	WalletStatusRetired WalletStatus = "RETIRED"
)

// Wallet is a custody record for one (user, asset) pair. At most one ACTIVE
// wallet may exist per pair; the ledger address is unique across all wallets
// including retired ones.
type Wallet struct {
	ID              uuid.UUID       `json:"id"`
	UserID          uuid.UUID       `json:"user_id"`
	Asset           AssetType       `json:"asset"`
	Custody         CustodyMode     `json:"custody"`
	Address         string          `json:"address"`
	PublicKey       *string         `json:"public_key,omitempty"`
	EncryptedSecret *string         `json:"-"` // AES-256-GCM at rest, never serialized
	Balance         decimal.Decimal `json:"balance"` // cached hint, not authoritative
	Status          WalletStatus    `json:"status"`
	Label           *string         `json:"label,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// IsActive reports whether the wallet can be used for new operations.
func (w *Wallet) IsActive() bool {
	return w.Status == WalletStatusActive
}

// SelfCustodied reports whether this system holds the wallet's signing secret.
func (w *Wallet) SelfCustodied() bool {
	return w.Custody == CustodySelf
}
