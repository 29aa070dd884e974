package xrpl

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// rpcRequest is the rippled JSON-RPC envelope: a method name and a single
// params object wrapped in an array.
type rpcRequest struct {
	Method string `json:"method"`
	Params []any  `json:"params,omitempty"`
}

type rpcEnvelope struct {
	Result json.RawMessage `json:"result"`
}

type rpcStatus struct {
	Status       string `json:"status"`
	Error        string `json:"error"`
	ErrorMessage string `json:"error_message"`
}

// rpcError is a ledger-level error returned inside a well-formed response
// (e.g. actNotFound, badSecret), distinct from transport failures.
type rpcError struct {
	Code    string
	Message string
}

func (e *rpcError) Error() string {
	return fmt.Sprintf("xrpl rpc error %s: %s", e.Code, e.Message)
}

// rpcClient performs JSON-RPC calls against a rippled server. Each call is an
// independent HTTP round trip; a transport failure is retried once before
// being surfaced.
type rpcClient struct {
	url        string
	httpClient *http.Client
}

func newRPCClient(url string, timeout time.Duration) *rpcClient {
	return &rpcClient{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// retryable reports whether a lost response for method can safely be
// re-requested. submit is excluded: rippled signs a fresh transaction with
// the account's current sequence on every call, so re-sending a submit whose
// response was lost can pay twice.
func retryable(method string) bool {
	switch method {
	case "account_info", "tx", "wallet_propose":
		return true
	}
	return false
}

// call invokes method with params and unmarshals the result into out.
// Returns *rpcError for ledger-level errors, a plain error for transport
// failures (retried once for side-effect-free methods).
func (c *rpcClient) call(ctx context.Context, method string, params any, out any) error {
	var payload rpcRequest
	payload.Method = method
	if params != nil {
		payload.Params = []any{params}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s request: %w", method, err)
	}

	raw, err := c.post(ctx, body)
	if err != nil {
		if !retryable(method) {
			return fmt.Errorf("%s round trip: %w", method, err)
		}
		raw, err = c.post(ctx, body)
		if err != nil {
			return fmt.Errorf("%s round trip: %w", method, err)
		}
	}

	var envelope rpcEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return fmt.Errorf("decode %s envelope: %w", method, err)
	}

	var status rpcStatus
	if err := json.Unmarshal(envelope.Result, &status); err != nil {
		return fmt.Errorf("decode %s status: %w", method, err)
	}
	if status.Status == "error" {
		return &rpcError{Code: status.Error, Message: status.ErrorMessage}
	}

	if out != nil {
		if err := json.Unmarshal(envelope.Result, out); err != nil {
			return fmt.Errorf("decode %s result: %w", method, err)
		}
	}
	return nil
}

func (c *rpcClient) post(ctx context.Context, body []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected HTTP status %d", resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, 1<<20))
}
