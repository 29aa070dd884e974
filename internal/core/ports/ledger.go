package ports

import (
	"context"

	"github.com/plakshaa/xrplwallet/internal/core/domain"

	"github.com/shopspring/decimal"
)

// Keypair is a freshly generated ledger identity. The Secret is returned
// exactly once; persisting it safely is the caller's responsibility.
type Keypair struct {
	Address   string
	PublicKey string
	Secret    string
}

// SubmitOutcome is the normalized result of a finalized ledger submission.
type SubmitOutcome string

const (
	OutcomeSucceeded SubmitOutcome = "SUCCEEDED"
	OutcomeRejected  SubmitOutcome = "REJECTED"
)

// SubmitRequest carries one native transfer to be built, signed and submitted.
type SubmitRequest struct {
	FromAddress string
	Secret      string
	ToAddress   string
	Amount      decimal.Decimal // canonical decimal units of the asset
}

// SubmitResult is the outcome of a finalized submission. RejectionCode holds
// the ledger-specific code (e.g. tecUNFUNDED_PAYMENT) when Outcome is REJECTED.
type SubmitResult struct {
	TxRef         string
	Outcome       SubmitOutcome
	RejectionCode string
	Raw           string // raw adapter response, attached to the payment record
}

// LedgerTx is a previously submitted transaction as the ledger currently
// reports it. Used for reconciliation and audit, not on the hot path.
type LedgerTx struct {
	Ref       string
	Validated bool
	Raw       string
}

// LedgerAdapter is the uniform capability surface over one external ledger.
// Implementations own their connection lifecycle per call, retry a failed
// connection at most once internally, and bound every call with a timeout.
type LedgerAdapter interface {
	// GenerateKeypair produces a new address, public key and signing secret.
	// The secret is never logged or persisted by the adapter. Test-network
	// adapters may opportunistically request faucet funding; a faucet failure
	// is logged and non-fatal.
	GenerateKeypair(ctx context.Context) (*Keypair, error)

	// Balance returns the authoritative current balance in the asset's
	// canonical decimal representation.
	Balance(ctx context.Context, address string) (decimal.Decimal, error)

	// SubmitPayment deterministically builds, signs and submits a single
	// native transfer, then waits for the ledger's definition of finality.
	SubmitPayment(ctx context.Context, req SubmitRequest) (*SubmitResult, error)

	// Transaction fetches a previously submitted transaction's current record.
	Transaction(ctx context.Context, ref string) (*LedgerTx, error)
}

// AdapterRegistry resolves the ledger adapter for an asset type. Assets
// without a queryable ledger (registration-only assets) resolve to no adapter.
type AdapterRegistry interface {
	ForAsset(asset domain.AssetType) (LedgerAdapter, bool)
}
