package chain

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/aivanahq/aivana-backend/pkg/config"
)

func decimalOne() decimal.Decimal { return decimal.NewFromInt(1) }

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := New(config.ChainConfig{RPCURL: server.URL, Timeout: 5 * time.Second})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client
}

func rpcResult(t *testing.T, w http.ResponseWriter, result any) {
	t.Helper()
	if err := json.NewEncoder(w).Encode(map[string]any{
		"jsonrpc": "2.0",
		"id":      1,
		"result":  result,
	}); err != nil {
		t.Fatalf("encode response: %v", err)
	}
}

func TestGetTransactionByHash(t *testing.T) {
	block := "0x10"
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req rpcRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Method != "eth_getTransactionByHash" {
			t.Fatalf("unexpected method %s", req.Method)
		}
		if req.Params[0] != "0xabc" {
			t.Fatalf("unexpected hash param %v", req.Params[0])
		}
		rpcResult(t, w, map[string]any{
			"hash":        "0xabc",
			"from":        "0xBuyerWallet",
			"to":          "0xMerchantWallet",
			"value":       "0xde0b6b3a7640000", // 1 coin in wei
			"blockNumber": block,
		})
	})

	tx, err := client.GetTransactionByHash(context.Background(), "0xabc")
	if err != nil {
		t.Fatalf("get transaction: %v", err)
	}
	if tx == nil {
		t.Fatal("expected transaction, got nil")
	}
	if tx.From != "0xBuyerWallet" || tx.To != "0xMerchantWallet" {
		t.Fatalf("unexpected endpoints from=%s to=%s", tx.From, tx.To)
	}
	if !tx.Value.Equal(decimalOne()) {
		t.Fatalf("expected value 1, got %s", tx.Value)
	}
	if !tx.Confirmed() || *tx.BlockNumber != 16 {
		t.Fatalf("expected confirmed at block 16, got %+v", tx.BlockNumber)
	}
}

func TestGetTransactionByHashNotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		rpcResult(t, w, nil)
	})

	tx, err := client.GetTransactionByHash(context.Background(), "0xmissing")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tx != nil {
		t.Fatalf("expected nil transaction, got %+v", tx)
	}
}

func TestRPCErrorPropagates(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"jsonrpc": "2.0",
			"id":      1,
			"error":   map[string]any{"code": -32000, "message": "node unavailable"},
		})
	})

	if _, err := client.GetTransactionByHash(context.Background(), "0xabc"); err == nil {
		t.Fatal("expected rpc error")
	}
}

func TestBlockNumber(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		rpcResult(t, w, "0x2a")
	})

	n, err := client.BlockNumber(context.Background())
	if err != nil {
		t.Fatalf("block number: %v", err)
	}
	if n != 42 {
		t.Fatalf("expected 42, got %d", n)
	}
}

func TestParseHexBigRejectsGarbage(t *testing.T) {
	if _, err := parseHexBig("0xzz"); err == nil {
		t.Fatal("expected error for invalid hex")
	}
}
