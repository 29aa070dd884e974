package ports

import (
	"context"
	"time"

	"github.com/plakshaa/xrplwallet/internal/core/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// WalletRepository defines persistence operations for wallets.
type WalletRepository interface {
	Create(ctx context.Context, wallet *domain.Wallet) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Wallet, error)
	// GetActiveByUserAndAsset returns the single ACTIVE wallet for the pair,
	// or nil if none exists.
	GetActiveByUserAndAsset(ctx context.Context, userID uuid.UUID, asset domain.AssetType) (*domain.Wallet, error)
	// GetByAddress returns the wallet bound to an address regardless of
	// status (addresses are never reused, even by retired wallets).
	GetByAddress(ctx context.Context, address string) (*domain.Wallet, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Wallet, error)
	UpdateBalance(ctx context.Context, walletID uuid.UUID, balance decimal.Decimal) error
	UpdateStatus(ctx context.Context, walletID uuid.UUID, status domain.WalletStatus) error
}

// PaymentRepository defines persistence operations for payment records.
type PaymentRepository interface {
	Create(ctx context.Context, payment *domain.Payment) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Payment, error)
	GetByLedgerTxRef(ctx context.Context, ref string) (*domain.Payment, error)
	// TransitionFromPending atomically moves a PENDING record to a terminal
	// state, attaching the optional ledger reference, outcome detail and
	// completion timestamp. Returns false when the record was not PENDING,
	// preserving terminal-state monotonicity.
	TransitionFromPending(ctx context.Context, id uuid.UUID, status domain.PaymentStatus, txRef *string, detail *string, completedAt *time.Time) (bool, error)
	List(ctx context.Context, params PaymentListParams) ([]domain.Payment, int64, error)
}

// PaymentListParams holds filter + pagination for listing payments.
// UserID matches records where the user is sender or recipient.
type PaymentListParams struct {
	UserID   uuid.UUID
	Status   *domain.PaymentStatus
	Page     int
	PageSize int
}
