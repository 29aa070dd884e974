package xrpl

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/plakshaa/xrplwallet/config"
	"github.com/plakshaa/xrplwallet/internal/core/ports"
	"github.com/plakshaa/xrplwallet/pkg/apperror"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRippled dispatches JSON-RPC calls to per-method handlers and returns
// the handler's result object inside the rippled envelope.
type fakeRippled struct {
	handlers map[string]func(params map[string]any) map[string]any
}

func (f *fakeRippled) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Method string           `json:"method"`
		Params []map[string]any `json:"params"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	handler, ok := f.handlers[req.Method]
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	var params map[string]any
	if len(req.Params) > 0 {
		params = req.Params[0]
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"result": handler(params)})
}

func newTestAdapter(t *testing.T, fake *fakeRippled) *Adapter {
	t.Helper()
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	return New(config.XRPLConfig{
		RPCURL:         srv.URL,
		RequestTimeout: 2 * time.Second,
		SubmitTimeout:  10 * time.Second,
	}, zerolog.Nop())
}

func appErrCode(t *testing.T, err error) string {
	t.Helper()
	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %v", err)
	return appErr.Code
}

func TestGenerateKeypair_Success(t *testing.T) {
	fake := &fakeRippled{handlers: map[string]func(map[string]any) map[string]any{
		"wallet_propose": func(params map[string]any) map[string]any {
			assert.Equal(t, "ed25519", params["key_type"])
			return map[string]any{
				"status":      "success",
				"account_id":  "rTestAddr123",
				"public_key":  "EDPUBKEY",
				"master_seed": "sEdSecret",
			}
		},
	}}

	kp, err := newTestAdapter(t, fake).GenerateKeypair(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "rTestAddr123", kp.Address)
	assert.Equal(t, "EDPUBKEY", kp.PublicKey)
	assert.Equal(t, "sEdSecret", kp.Secret)
}

func TestBalance_ConvertsDrops(t *testing.T) {
	fake := &fakeRippled{handlers: map[string]func(map[string]any) map[string]any{
		"account_info": func(params map[string]any) map[string]any {
			assert.Equal(t, "rTestAddr123", params["account"])
			assert.Equal(t, "validated", params["ledger_index"])
			return map[string]any{
				"status": "success",
				"account_data": map[string]any{
					"Balance": "25000000",
				},
			}
		},
	}}

	balance, err := newTestAdapter(t, fake).Balance(context.Background(), "rTestAddr123")
	require.NoError(t, err)
	assert.True(t, balance.Equal(decimal.NewFromInt(25)), "got %s", balance)
}

func TestBalance_UnactivatedAccount(t *testing.T) {
	fake := &fakeRippled{handlers: map[string]func(map[string]any) map[string]any{
		"account_info": func(map[string]any) map[string]any {
			return map[string]any{
				"status":        "error",
				"error":         "actNotFound",
				"error_message": "Account not found.",
			}
		},
	}}

	_, err := newTestAdapter(t, fake).Balance(context.Background(), "rGhostAddr")
	assert.Equal(t, "LGR_004", appErrCode(t, err))
}

func TestSubmitPayment_Success(t *testing.T) {
	fake := &fakeRippled{handlers: map[string]func(map[string]any) map[string]any{
		"wallet_propose": func(params map[string]any) map[string]any {
			assert.Equal(t, "sEdSecret", params["seed"])
			return map[string]any{
				"status":     "success",
				"account_id": "rSender",
			}
		},
		"submit": func(params map[string]any) map[string]any {
			txJSON := params["tx_json"].(map[string]any)
			assert.Equal(t, "Payment", txJSON["TransactionType"])
			assert.Equal(t, "rSender", txJSON["Account"])
			assert.Equal(t, "rRecipient", txJSON["Destination"])
			assert.Equal(t, "10500000", txJSON["Amount"])
			return map[string]any{
				"status":        "success",
				"engine_result": "tesSUCCESS",
				"tx_json":       map[string]any{"hash": "HASH123"},
			}
		},
		"tx": func(params map[string]any) map[string]any {
			return map[string]any{
				"status":    "success",
				"hash":      "HASH123",
				"validated": true,
			}
		},
	}}

	result, err := newTestAdapter(t, fake).SubmitPayment(context.Background(), ports.SubmitRequest{
		FromAddress: "rSender",
		ToAddress:   "rRecipient",
		Amount:      decimal.RequireFromString("10.5"),
		Secret:      "sEdSecret",
	})
	require.NoError(t, err)
	assert.Equal(t, "HASH123", result.TxRef)
	assert.Equal(t, ports.OutcomeSucceeded, result.Outcome)
}

func TestSubmitPayment_SecretAddressMismatch(t *testing.T) {
	fake := &fakeRippled{handlers: map[string]func(map[string]any) map[string]any{
		"wallet_propose": func(map[string]any) map[string]any {
			return map[string]any{
				"status":     "success",
				"account_id": "rSomebodyElse",
			}
		},
	}}

	_, err := newTestAdapter(t, fake).SubmitPayment(context.Background(), ports.SubmitRequest{
		FromAddress: "rSender",
		ToAddress:   "rRecipient",
		Amount:      decimal.NewFromInt(1),
		Secret:      "sEdWrongSecret",
	})
	assert.Equal(t, "LGR_003", appErrCode(t, err))
}

func TestSubmitPayment_LedgerRejection(t *testing.T) {
	fake := &fakeRippled{handlers: map[string]func(map[string]any) map[string]any{
		"wallet_propose": func(map[string]any) map[string]any {
			return map[string]any{"status": "success", "account_id": "rSender"}
		},
		"submit": func(map[string]any) map[string]any {
			return map[string]any{
				"status":                "success",
				"engine_result":         "tecUNFUNDED_PAYMENT",
				"engine_result_message": "Insufficient XRP balance to send.",
				"tx_json":               map[string]any{"hash": "HASHREJ"},
			}
		},
	}}

	result, err := newTestAdapter(t, fake).SubmitPayment(context.Background(), ports.SubmitRequest{
		FromAddress: "rSender",
		ToAddress:   "rRecipient",
		Amount:      decimal.NewFromInt(999),
		Secret:      "sEdSecret",
	})
	require.NoError(t, err)
	assert.Equal(t, ports.OutcomeRejected, result.Outcome)
	assert.Equal(t, "tecUNFUNDED_PAYMENT", result.RejectionCode)
	assert.Equal(t, "HASHREJ", result.TxRef)
}

func TestSubmitPayment_SubDropPrecision(t *testing.T) {
	fake := &fakeRippled{handlers: map[string]func(map[string]any) map[string]any{
		"wallet_propose": func(map[string]any) map[string]any {
			return map[string]any{"status": "success", "account_id": "rSender"}
		},
	}}

	_, err := newTestAdapter(t, fake).SubmitPayment(context.Background(), ports.SubmitRequest{
		FromAddress: "rSender",
		ToAddress:   "rRecipient",
		Amount:      decimal.RequireFromString("0.0000001"),
		Secret:      "sEdSecret",
	})
	assert.Equal(t, "LGR_002", appErrCode(t, err))
}

func TestSubmitPayment_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	t.Cleanup(srv.Close)

	adapter := New(config.XRPLConfig{
		RPCURL:         srv.URL,
		RequestTimeout: time.Second,
		SubmitTimeout:  5 * time.Second,
	}, zerolog.Nop())

	_, err := adapter.SubmitPayment(context.Background(), ports.SubmitRequest{
		FromAddress: "rSender",
		ToAddress:   "rRecipient",
		Amount:      decimal.NewFromInt(1),
		Secret:      "sEdSecret",
	})
	assert.Equal(t, "LGR_001", appErrCode(t, err))
}

func TestTransaction_Found(t *testing.T) {
	fake := &fakeRippled{handlers: map[string]func(map[string]any) map[string]any{
		"tx": func(params map[string]any) map[string]any {
			assert.Equal(t, "HASH123", params["transaction"])
			return map[string]any{
				"status":    "success",
				"hash":      "HASH123",
				"validated": true,
			}
		},
	}}

	tx, err := newTestAdapter(t, fake).Transaction(context.Background(), "HASH123")
	require.NoError(t, err)
	assert.Equal(t, "HASH123", tx.Ref)
	assert.True(t, tx.Validated)
}

func TestTransaction_NotFound(t *testing.T) {
	fake := &fakeRippled{handlers: map[string]func(map[string]any) map[string]any{
		"tx": func(map[string]any) map[string]any {
			return map[string]any{
				"status":        "error",
				"error":         "txnNotFound",
				"error_message": "Transaction not found.",
			}
		},
	}}

	_, err := newTestAdapter(t, fake).Transaction(context.Background(), "UNKNOWN")
	assert.Equal(t, "PAY_005", appErrCode(t, err))
}
