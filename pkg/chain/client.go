package chain

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"strings"
	"sync/atomic"

	"github.com/shopspring/decimal"

	"github.com/aivanahq/aivana-backend/pkg/config"
)

const coinDecimals = 18

// Transaction is the subset of an on-chain transaction the payment flow
// needs. Value is converted from wei into whole-coin units.
type Transaction struct {
	Hash        string
	From        string
	To          string
	Value       decimal.Decimal
	BlockNumber *int64
}

// Confirmed reports whether the transaction has been mined into a block.
func (t *Transaction) Confirmed() bool {
	return t != nil && t.BlockNumber != nil
}

// Client speaks JSON-RPC 2.0 to a chain node.
type Client struct {
	httpClient *http.Client
	rpcURL     string
	nextID     atomic.Int64
}

func New(cfg config.ChainConfig) (*Client, error) {
	if strings.TrimSpace(cfg.RPCURL) == "" {
		return nil, fmt.Errorf("chain rpc url is required")
	}
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		rpcURL:     cfg.RPCURL,
	}, nil
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
	ID      int64  `json:"id"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *rpcError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
}

func (c *Client) call(ctx context.Context, method string, params []any, out any) error {
	body, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		Method:  method,
		Params:  params,
		ID:      c.nextID.Add(1),
	})
	if err != nil {
		return fmt.Errorf("marshal rpc request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.rpcURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build rpc request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", method, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s: unexpected status %d", method, resp.StatusCode)
	}

	var rpcResp rpcResponse
	if err := json.NewDecoder(resp.Body).Decode(&rpcResp); err != nil {
		return fmt.Errorf("%s: decode response: %w", method, err)
	}
	if rpcResp.Error != nil {
		return fmt.Errorf("%s: %w", method, rpcResp.Error)
	}
	if out != nil {
		if err := json.Unmarshal(rpcResp.Result, out); err != nil {
			return fmt.Errorf("%s: decode result: %w", method, err)
		}
	}
	return nil
}

type rawTransaction struct {
	Hash        string  `json:"hash"`
	From        string  `json:"from"`
	To          string  `json:"to"`
	Value       string  `json:"value"`
	BlockNumber *string `json:"blockNumber"`
}

// GetTransactionByHash looks up a transaction. A nil result with nil error
// means the node has never seen the hash.
func (c *Client) GetTransactionByHash(ctx context.Context, hash string) (*Transaction, error) {
	var raw *rawTransaction
	if err := c.call(ctx, "eth_getTransactionByHash", []any{hash}, &raw); err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, nil
	}

	wei, err := parseHexBig(raw.Value)
	if err != nil {
		return nil, fmt.Errorf("parse transaction value: %w", err)
	}

	tx := &Transaction{
		Hash:  raw.Hash,
		From:  raw.From,
		To:    raw.To,
		Value: decimal.NewFromBigInt(wei, -coinDecimals),
	}
	if raw.BlockNumber != nil {
		n, err := parseHexInt64(*raw.BlockNumber)
		if err != nil {
			return nil, fmt.Errorf("parse block number: %w", err)
		}
		tx.BlockNumber = &n
	}
	return tx, nil
}

// GetBalance returns the current balance of a wallet in whole-coin units.
func (c *Client) GetBalance(ctx context.Context, wallet string) (decimal.Decimal, error) {
	var raw string
	if err := c.call(ctx, "eth_getBalance", []any{wallet, "latest"}, &raw); err != nil {
		return decimal.Zero, err
	}
	wei, err := parseHexBig(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse balance: %w", err)
	}
	return decimal.NewFromBigInt(wei, -coinDecimals), nil
}

// BlockNumber returns the latest block height, used as a liveness probe.
func (c *Client) BlockNumber(ctx context.Context) (int64, error) {
	var raw string
	if err := c.call(ctx, "eth_blockNumber", []any{}, &raw); err != nil {
		return 0, err
	}
	return parseHexInt64(raw)
}

func parseHexBig(s string) (*big.Int, error) {
	trimmed := strings.TrimPrefix(strings.TrimSpace(s), "0x")
	if trimmed == "" {
		return big.NewInt(0), nil
	}
	v, ok := new(big.Int).SetString(trimmed, 16)
	if !ok {
		return nil, fmt.Errorf("invalid hex quantity %q", s)
	}
	return v, nil
}

func parseHexInt64(s string) (int64, error) {
	v, err := parseHexBig(s)
	if err != nil {
		return 0, err
	}
	if !v.IsInt64() {
		return 0, fmt.Errorf("hex quantity %q overflows int64", s)
	}
	return v.Int64(), nil
}
