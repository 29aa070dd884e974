package ports

import (
	"context"
	"time"

	"github.com/plakshaa/xrplwallet/internal/core/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// --- Service Ports (Business Logic) ---

// CustodyService manages wallet provisioning, registration and balance state.
// It is the sole writer of wallet balance and status.
type CustodyService interface {
	// Provision creates a self-custodied wallet: key generation is delegated
	// to the matching ledger adapter and the cached balance is seeded with a
	// live read before persisting.
	Provision(ctx context.Context, req ProvisionRequest) (*domain.Wallet, error)
	// Register records an externally-held wallet (address only, no secret).
	Register(ctx context.Context, req RegisterWalletRequest) (*domain.Wallet, error)
	// Retire is an idempotent logical delete. Retiring a retired wallet is a
	// no-op success.
	Retire(ctx context.Context, userID, walletID uuid.UUID) error
	// RefreshBalance reads the live ledger balance and persists it. Assets
	// without a queryable adapter keep the last cached value.
	RefreshBalance(ctx context.Context, walletID uuid.UUID) (*domain.Wallet, error)
	Get(ctx context.Context, walletID uuid.UUID) (*domain.Wallet, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Wallet, error)
	// RevealSecret decrypts and returns the signing secret of a self-custodied
	// wallet. Only the payment orchestrator calls this, on behalf of a
	// validated payment request; no HTTP path exposes it.
	RevealSecret(ctx context.Context, walletID uuid.UUID) (string, error)
}

// ProvisionRequest holds validated input for wallet provisioning.
type ProvisionRequest struct {
	UserID uuid.UUID
	Asset  domain.AssetType
	Label  *string
}

// RegisterWalletRequest holds validated input for external wallet registration.
type RegisterWalletRequest struct {
	UserID    uuid.UUID
	Address   string
	Asset     domain.AssetType
	PublicKey *string
	Label     *string
}

// PaymentService is the orchestrator: it turns a payment request into a
// durable record, validates funds, invokes the ledger adapter and reconciles
// the outcome. It is the sole writer of payment status and outcome fields.
type PaymentService interface {
	ProcessPayment(ctx context.Context, req PaymentRequest) (*domain.Payment, error)
	// UpdateStatus confirms the outcome of a payment from an externally-held
	// wallet. Allowed only from PENDING; terminal records reject the update.
	UpdateStatus(ctx context.Context, req StatusUpdateRequest) (*domain.Payment, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Payment, error)
	ListForUser(ctx context.Context, params PaymentListParams) ([]domain.Payment, int64, error)
}

// PaymentRequest holds validated input for payment orchestration.
type PaymentRequest struct {
	UserID          uuid.UUID
	WalletID        uuid.UUID
	ToAddress       string
	RecipientUserID *uuid.UUID
	Asset           domain.AssetType
	Amount          decimal.Decimal
	Memo            *string
}

// StatusUpdateRequest holds input for the external confirmation path.
type StatusUpdateRequest struct {
	UserID    uuid.UUID
	PaymentID uuid.UUID
	Status    domain.PaymentStatus
	TxRef     *string
}

// RateOracle provides spot prices and asset-to-asset conversion quotes.
type RateOracle interface {
	// SpotPrice returns a positive rate for the asset in the quote currency.
	SpotPrice(ctx context.Context, asset domain.AssetType, quote string) (decimal.Decimal, error)
	// Convert computes a cross rate via each asset's quote-currency price.
	// Identity conversion (rate 1) when from == to.
	Convert(ctx context.Context, from, to domain.AssetType, amount decimal.Decimal) (*Conversion, error)
}

// Conversion is the result of an asset-to-asset quote.
type Conversion struct {
	FromAsset       domain.AssetType `json:"from_asset"`
	ToAsset         domain.AssetType `json:"to_asset"`
	Amount          decimal.Decimal  `json:"amount"`
	Rate            decimal.Decimal  `json:"rate"`
	ConvertedAmount decimal.Decimal  `json:"converted_amount"`
}

// SecretCipher encrypts custodied signing secrets at rest (AES-256-GCM).
type SecretCipher interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(ciphertext string) (string, error)
}

// TokenService validates JWT tokens issued by the external identity provider.
type TokenService interface {
	Validate(tokenString string) (*TokenClaims, error)
}

// TokenClaims holds the parsed JWT claims.
type TokenClaims struct {
	UserID uuid.UUID
}

// WalletLocker serializes the check-then-submit sequence per wallet so two
// concurrent payments cannot both pass the balance check on a stale read.
type WalletLocker interface {
	// Acquire takes the per-wallet lock, returning a release func. It fails
	// rather than blocks when the lock is held past the acquisition window.
	Acquire(ctx context.Context, walletID uuid.UUID) (func(), error)
}

// RateCache is a short-lived cache for oracle rates. Entries are bounded by
// TTL so a conversion never sees a rate older than the staleness window.
type RateCache interface {
	Get(ctx context.Context, key string) (decimal.Decimal, bool, error)
	Set(ctx context.Context, key string, rate decimal.Decimal, ttl time.Duration) error
}
