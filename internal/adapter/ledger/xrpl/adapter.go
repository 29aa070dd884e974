package xrpl

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/plakshaa/xrplwallet/config"
	"github.com/plakshaa/xrplwallet/internal/core/ports"
	"github.com/plakshaa/xrplwallet/pkg/apperror"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const xrpDecimals = 6 // 1 XRP = 10^6 drops

// validationPollInterval is how often a submitted transaction is re-checked
// while waiting for ledger validation.
const validationPollInterval = 2 * time.Second

// Adapter implements ports.LedgerAdapter for the XRP Ledger via rippled
// JSON-RPC. Key generation and signing are delegated to rippled's own
// routines (wallet_propose and sign-and-submit mode).
type Adapter struct {
	rpc           *rpcClient
	faucetURL     string
	faucetClient  *http.Client
	submitTimeout time.Duration
	log           zerolog.Logger
}

// New creates an XRPL adapter from configuration.
func New(cfg config.XRPLConfig, log zerolog.Logger) *Adapter {
	return &Adapter{
		rpc:           newRPCClient(cfg.RPCURL, cfg.RequestTimeout),
		faucetURL:     cfg.FaucetURL,
		faucetClient:  &http.Client{Timeout: cfg.RequestTimeout},
		submitTimeout: cfg.SubmitTimeout,
		log:           log.With().Str("ledger", "xrpl").Logger(),
	}
}

type walletProposeParams struct {
	KeyType string `json:"key_type"`
	Seed    string `json:"seed,omitempty"`
}

type walletProposeResult struct {
	AccountID  string `json:"account_id"`
	PublicKey  string `json:"public_key"`
	MasterSeed string `json:"master_seed"`
}

// GenerateKeypair asks rippled to propose a fresh ed25519 keypair. On test
// networks the new account is opportunistically funded through the faucet so
// it clears the base reserve; a faucet failure never fails the operation.
func (a *Adapter) GenerateKeypair(ctx context.Context) (*ports.Keypair, error) {
	var result walletProposeResult
	if err := a.rpc.call(ctx, "wallet_propose", walletProposeParams{KeyType: "ed25519"}, &result); err != nil {
		return nil, a.mapTransportErr(err)
	}

	if a.faucetURL != "" {
		if err := a.fundFromFaucet(ctx, result.AccountID); err != nil {
			a.log.Warn().Err(err).Str("address", result.AccountID).Msg("faucet funding failed, account not activated")
		}
	}

	return &ports.Keypair{
		Address:   result.AccountID,
		PublicKey: result.PublicKey,
		Secret:    result.MasterSeed,
	}, nil
}

type accountInfoParams struct {
	Account     string `json:"account"`
	LedgerIndex string `json:"ledger_index"`
}

type accountInfoResult struct {
	AccountData struct {
		Balance string `json:"Balance"` // drops, as a string
	} `json:"account_data"`
}

// Balance returns the validated-ledger balance converted from drops to XRP.
// An account below the base reserve has never been activated and surfaces as
// UnknownAddress rather than zero.
func (a *Adapter) Balance(ctx context.Context, address string) (decimal.Decimal, error) {
	var result accountInfoResult
	err := a.rpc.call(ctx, "account_info", accountInfoParams{Account: address, LedgerIndex: "validated"}, &result)
	if err != nil {
		var rpcErr *rpcError
		if errors.As(err, &rpcErr) && rpcErr.Code == "actNotFound" {
			return decimal.Zero, apperror.ErrUnknownAddress(address)
		}
		return decimal.Zero, a.mapTransportErr(err)
	}

	drops, err := decimal.NewFromString(result.AccountData.Balance)
	if err != nil {
		return decimal.Zero, apperror.ErrSubmissionFailed(fmt.Errorf("malformed balance %q: %w", result.AccountData.Balance, err))
	}
	return drops.Shift(-xrpDecimals), nil
}

type submitParams struct {
	Secret string         `json:"secret"`
	TxJSON map[string]any `json:"tx_json"`
}

type submitResult struct {
	EngineResult        string `json:"engine_result"`
	EngineResultMessage string `json:"engine_result_message"`
	TxJSON              struct {
		Hash string `json:"hash"`
	} `json:"tx_json"`
}

// SubmitPayment builds and signs a Payment transaction in rippled
// sign-and-submit mode, then polls until the transaction appears in a
// validated ledger. The secret travels only for the duration of this call.
func (a *Adapter) SubmitPayment(ctx context.Context, req ports.SubmitRequest) (*ports.SubmitResult, error) {
	// Defense against secret/address mismatch: wallet_propose derives
	// deterministically from a seed, so re-deriving and comparing catches a
	// wrong secret before anything reaches the ledger.
	var derived walletProposeResult
	if err := a.rpc.call(ctx, "wallet_propose", walletProposeParams{KeyType: "ed25519", Seed: req.Secret}, &derived); err != nil {
		var rpcErr *rpcError
		if errors.As(err, &rpcErr) {
			return nil, apperror.ErrInvalidSignature()
		}
		return nil, a.mapTransportErr(err)
	}
	if derived.AccountID != req.FromAddress {
		return nil, apperror.ErrInvalidSignature()
	}

	drops := req.Amount.Shift(xrpDecimals)
	if !drops.IsInteger() {
		return nil, apperror.ErrSubmissionFailed(fmt.Errorf("amount %s has sub-drop precision", req.Amount))
	}

	params := submitParams{
		Secret: req.Secret,
		TxJSON: map[string]any{
			"TransactionType": "Payment",
			"Account":         req.FromAddress,
			"Destination":     req.ToAddress,
			"Amount":          drops.String(),
		},
	}

	var result submitResult
	if err := a.rpc.call(ctx, "submit", params, &result); err != nil {
		var rpcErr *rpcError
		if errors.As(err, &rpcErr) {
			if rpcErr.Code == "badSecret" || rpcErr.Code == "badSeed" {
				return nil, apperror.ErrInvalidSignature()
			}
			return nil, apperror.ErrSubmissionFailed(rpcErr)
		}
		return nil, apperror.ErrLedgerUnavailable(err)
	}

	raw, _ := json.Marshal(result)

	// Anything but a tes preliminary result is a ledger-level rejection.
	if !strings.HasPrefix(result.EngineResult, "tes") {
		return &ports.SubmitResult{
			TxRef:         result.TxJSON.Hash,
			Outcome:       ports.OutcomeRejected,
			RejectionCode: result.EngineResult,
			Raw:           string(raw),
		}, nil
	}

	if err := a.waitForValidation(ctx, result.TxJSON.Hash); err != nil {
		return nil, err
	}

	return &ports.SubmitResult{
		TxRef:   result.TxJSON.Hash,
		Outcome: ports.OutcomeSucceeded,
		Raw:     string(raw),
	}, nil
}

type txParams struct {
	Transaction string `json:"transaction"`
	Binary      bool   `json:"binary"`
}

type txResult struct {
	Hash      string `json:"hash"`
	Validated bool   `json:"validated"`
}

// Transaction fetches a submitted transaction's current ledger record.
func (a *Adapter) Transaction(ctx context.Context, ref string) (*ports.LedgerTx, error) {
	var envelope json.RawMessage
	if err := a.rpc.call(ctx, "tx", txParams{Transaction: ref}, &envelope); err != nil {
		var rpcErr *rpcError
		if errors.As(err, &rpcErr) && rpcErr.Code == "txnNotFound" {
			return nil, apperror.ErrTransactionNotFound()
		}
		return nil, a.mapTransportErr(err)
	}

	var result txResult
	if err := json.Unmarshal(envelope, &result); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("decode tx result: %w", err))
	}

	return &ports.LedgerTx{
		Ref:       result.Hash,
		Validated: result.Validated,
		Raw:       string(envelope),
	}, nil
}

// waitForValidation polls the tx method until the transaction is included in
// a validated ledger. XRPL finality is validation: once validated, the
// transfer is irreversible.
func (a *Adapter) waitForValidation(ctx context.Context, hash string) error {
	deadline := time.NewTimer(a.submitTimeout)
	defer deadline.Stop()
	tick := time.NewTicker(validationPollInterval)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			return apperror.ErrSubmissionFailed(ctx.Err())
		case <-deadline.C:
			return apperror.ErrSubmissionFailed(fmt.Errorf("transaction %s not validated within %s", hash, a.submitTimeout))
		case <-tick.C:
			var result txResult
			err := a.rpc.call(ctx, "tx", txParams{Transaction: hash}, &result)
			if err != nil {
				var rpcErr *rpcError
				if errors.As(err, &rpcErr) {
					// txnNotFound is expected until the tx reaches a ledger.
					continue
				}
				a.log.Warn().Err(err).Str("hash", hash).Msg("validation poll failed")
				continue
			}
			if result.Validated {
				return nil
			}
		}
	}
}

// fundFromFaucet asks the testnet faucet to activate a freshly generated
// account. Best effort only.
func (a *Adapter) fundFromFaucet(ctx context.Context, address string) error {
	body, err := json.Marshal(map[string]string{"destination": address})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.faucetURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.faucetClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("faucet returned HTTP %d", resp.StatusCode)
	}
	return nil
}

// mapTransportErr normalizes transport-level failures to LedgerUnavailable;
// ledger-level rpc errors pass through as submission failures.
func (a *Adapter) mapTransportErr(err error) error {
	var rpcErr *rpcError
	if errors.As(err, &rpcErr) {
		return apperror.ErrSubmissionFailed(rpcErr)
	}
	return apperror.ErrLedgerUnavailable(err)
}
