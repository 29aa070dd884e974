package solana

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/plakshaa/xrplwallet/config"
	"github.com/plakshaa/xrplwallet/internal/core/ports"
	"github.com/plakshaa/xrplwallet/pkg/apperror"

	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const solDecimals = 9 // 1 SOL = 10^9 lamports

const confirmationPollInterval = 2 * time.Second

// airdropLamports is the devnet funding amount requested for new keypairs.
const airdropLamports = 1_000_000_000

// Adapter implements ports.LedgerAdapter for Solana. Keypairs are generated
// and transactions signed locally with ed25519; the node only ever sees the
// signed wire payload.
type Adapter struct {
	rpc           *rpcClient
	commitment    string
	airdrop       bool
	submitTimeout time.Duration
	log           zerolog.Logger
}

// New creates a Solana adapter from configuration.
func New(cfg config.SolanaConfig, log zerolog.Logger) *Adapter {
	commitment := cfg.Commitment
	if commitment == "" {
		commitment = "confirmed"
	}
	return &Adapter{
		rpc:           newRPCClient(cfg.RPCURL, cfg.RequestTimeout),
		commitment:    commitment,
		airdrop:       cfg.Airdrop,
		submitTimeout: cfg.SubmitTimeout,
		log:           log.With().Str("ledger", "solana").Logger(),
	}
}

// GenerateKeypair creates a local ed25519 keypair. The secret is the
// standard Solana encoding: base58 of the 64-byte private key. On devnet an
// airdrop is requested so the account can pay fees; failure is non-fatal.
func (a *Adapter) GenerateKeypair(ctx context.Context) (*ports.Keypair, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("generate ed25519 keypair: %w", err))
	}

	address := base58.Encode(pub)

	if a.airdrop {
		var sig string
		err := a.rpc.call(ctx, "requestAirdrop", []any{address, airdropLamports}, &sig)
		if err != nil {
			a.log.Warn().Err(err).Str("address", address).Msg("airdrop request failed, account unfunded")
		}
	}

	return &ports.Keypair{
		Address:   address,
		PublicKey: address, // a Solana address is its ed25519 public key
		Secret:    base58.Encode(priv),
	}, nil
}

type balanceResult struct {
	Value uint64 `json:"value"`
}

// Balance returns the account balance converted from lamports to SOL. An
// account the cluster has never seen simply reports zero, which matches
// Solana semantics: accounts exist implicitly at balance 0.
func (a *Adapter) Balance(ctx context.Context, address string) (decimal.Decimal, error) {
	if _, err := decodePubkey(address); err != nil {
		return decimal.Zero, apperror.ErrUnknownAddress(address)
	}

	var result balanceResult
	err := a.rpc.call(ctx, "getBalance", []any{address, map[string]string{"commitment": a.commitment}}, &result)
	if err != nil {
		var rpcErr *rpcError
		if errors.As(err, &rpcErr) {
			return decimal.Zero, apperror.ErrSubmissionFailed(rpcErr)
		}
		return decimal.Zero, apperror.ErrLedgerUnavailable(err)
	}

	return decimal.NewFromUint64(result.Value).Shift(-solDecimals), nil
}

type blockhashResult struct {
	Value struct {
		Blockhash string `json:"blockhash"`
	} `json:"value"`
}

// SubmitPayment signs and submits a system transfer, then polls signature
// status until the configured commitment level is reached. The decoded
// private key lives only on this call's stack.
func (a *Adapter) SubmitPayment(ctx context.Context, req ports.SubmitRequest) (*ports.SubmitResult, error) {
	raw := base58.Decode(req.Secret)
	if len(raw) != ed25519.PrivateKeySize {
		return nil, apperror.ErrInvalidSignature()
	}
	priv := ed25519.PrivateKey(raw)

	// The address must be derivable from the secret; anything else means the
	// caller paired the wrong secret with this wallet.
	derived := base58.Encode(priv.Public().(ed25519.PublicKey))
	if derived != req.FromAddress {
		return nil, apperror.ErrInvalidSignature()
	}

	lamports := req.Amount.Shift(solDecimals)
	if !lamports.IsInteger() {
		return nil, apperror.ErrSubmissionFailed(fmt.Errorf("amount %s has sub-lamport precision", req.Amount))
	}

	var bh blockhashResult
	if err := a.rpc.call(ctx, "getLatestBlockhash", []any{map[string]string{"commitment": a.commitment}}, &bh); err != nil {
		return nil, a.mapTransportErr(err)
	}

	wire, _, err := buildTransferTx(priv, req.ToAddress, lamports.BigInt().Uint64(), bh.Value.Blockhash)
	if err != nil {
		return nil, apperror.ErrSubmissionFailed(err)
	}

	var signature string
	err = a.rpc.call(ctx, "sendTransaction", []any{
		base64.StdEncoding.EncodeToString(wire),
		map[string]string{"encoding": "base64", "preflightCommitment": a.commitment},
	}, &signature)
	if err != nil {
		var rpcErr *rpcError
		if errors.As(err, &rpcErr) {
			// Preflight simulation failures are ledger-level rejections
			// (insufficient lamports, bad program input), not transport noise.
			return &ports.SubmitResult{
				Outcome:       ports.OutcomeRejected,
				RejectionCode: fmt.Sprintf("%d", rpcErr.Code),
				Raw:           rpcErr.Message,
			}, nil
		}
		return nil, apperror.ErrLedgerUnavailable(err)
	}

	if err := a.waitForCommitment(ctx, signature); err != nil {
		return nil, err
	}

	return &ports.SubmitResult{
		TxRef:   signature,
		Outcome: ports.OutcomeSucceeded,
		Raw:     fmt.Sprintf(`{"signature":%q,"commitment":%q}`, signature, a.commitment),
	}, nil
}

type signatureStatusResult struct {
	Value []*struct {
		ConfirmationStatus string          `json:"confirmationStatus"`
		Err                json.RawMessage `json:"err"`
	} `json:"value"`
}

// Transaction fetches a confirmed transaction by signature.
func (a *Adapter) Transaction(ctx context.Context, ref string) (*ports.LedgerTx, error) {
	var result json.RawMessage
	err := a.rpc.call(ctx, "getTransaction", []any{ref, map[string]string{"encoding": "json", "commitment": a.commitment}}, &result)
	if err != nil {
		return nil, a.mapTransportErr(err)
	}
	if len(result) == 0 || string(result) == "null" {
		return nil, apperror.ErrTransactionNotFound()
	}

	return &ports.LedgerTx{
		Ref:       ref,
		Validated: true, // getTransaction only returns finalized-or-better data
		Raw:       string(result),
	}, nil
}

// waitForCommitment polls getSignatureStatuses until the transaction reaches
// the adapter's commitment level, the cluster reports an execution error, or
// the submit timeout elapses.
func (a *Adapter) waitForCommitment(ctx context.Context, signature string) error {
	deadline := time.NewTimer(a.submitTimeout)
	defer deadline.Stop()
	tick := time.NewTicker(confirmationPollInterval)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			return apperror.ErrSubmissionFailed(ctx.Err())
		case <-deadline.C:
			return apperror.ErrSubmissionFailed(fmt.Errorf("signature %s not %s within %s", signature, a.commitment, a.submitTimeout))
		case <-tick.C:
			var result signatureStatusResult
			err := a.rpc.call(ctx, "getSignatureStatuses", []any{[]string{signature}, map[string]bool{"searchTransactionHistory": true}}, &result)
			if err != nil {
				a.log.Warn().Err(err).Str("signature", signature).Msg("status poll failed")
				continue
			}
			if len(result.Value) == 0 || result.Value[0] == nil {
				continue
			}
			status := result.Value[0]
			if len(status.Err) > 0 && string(status.Err) != "null" {
				return apperror.ErrSubmissionFailed(fmt.Errorf("transaction failed on chain: %s", status.Err))
			}
			if status.ConfirmationStatus == a.commitment || status.ConfirmationStatus == "finalized" {
				return nil
			}
		}
	}
}

func (a *Adapter) mapTransportErr(err error) error {
	var rpcErr *rpcError
	if errors.As(err, &rpcErr) {
		return apperror.ErrSubmissionFailed(rpcErr)
	}
	return apperror.ErrLedgerUnavailable(err)
}
