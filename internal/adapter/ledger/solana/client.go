package solana

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// rpcRequest is a JSON-RPC 2.0 envelope as expected by Solana nodes.
type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int    `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params,omitempty"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
}

// rpcError is a node-level error inside a well-formed JSON-RPC response,
// distinct from transport failures.
type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *rpcError) Error() string {
	return fmt.Sprintf("solana rpc error %d: %s", e.Code, e.Message)
}

// rpcClient performs JSON-RPC 2.0 calls against a Solana node. Each call is
// an independent HTTP round trip; a transport failure is retried once.
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

// call invokes method and unmarshals the result into out. Returns *rpcError
// for node-level errors, a plain error for transport failures.
func (c *rpcClient) call(ctx context.Context, method string, params []any, out any) error {
	body, err := json.Marshal(rpcRequest{JSONRPC: "2.0", ID: 1, Method: method, Params: params})
	if err != nil {
		return fmt.Errorf("marshal %s request: %w", method, err)
	}

	raw, err := c.post(ctx, body)
	if err != nil {
		// Re-sending a signed transaction with the same blockhash is
		// deduplicated by the cluster, so one retry is safe everywhere.
		raw, err = c.post(ctx, body)
		if err != nil {
			return fmt.Errorf("%s round trip: %w", method, err)
		}
	}

	var resp rpcResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return fmt.Errorf("decode %s response: %w", method, err)
	}
	if resp.Error != nil {
		return resp.Error
	}

	if out != nil {
		if err := json.Unmarshal(resp.Result, out); err != nil {
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
