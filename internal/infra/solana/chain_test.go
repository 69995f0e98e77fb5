package solana

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type rpcCall struct {
	Method string `json:"method"`
	Params []any  `json:"params"`
}

// newRPCServer は method ごとの result を返す JSON-RPC サーバーです。受け取った呼び出しを記録します。
func newRPCServer(t *testing.T, results map[string]any) (*httptest.Server, *[]rpcCall) {
	t.Helper()
	var calls []rpcCall
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var c rpcCall
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&c))
		calls = append(calls, c)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"jsonrpc": "2.0",
			"id":      1,
			"result":  results[c.Method],
		})
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func commitmentOf(t *testing.T, c rpcCall) string {
	t.Helper()
	require.Len(t, c.Params, 2)
	cfg, ok := c.Params[1].(map[string]any)
	require.True(t, ok, "params[1] = %v", c.Params[1])
	s, _ := cfg["commitment"].(string)
	return s
}

func TestRPCChain_GetBalanceReadsConfirmed(t *testing.T) {
	srv, calls := newRPCServer(t, map[string]any{
		"getBalance": map[string]any{
			"context": map[string]any{"slot": 1},
			"value":   1_500_000_000,
		},
	})

	v, err := NewRPCChain(srv.URL).GetBalance(context.Background(), walletAddr)
	require.NoError(t, err)
	assert.Equal(t, uint64(1_500_000_000), v)

	require.Len(t, *calls, 1)
	assert.Equal(t, "getBalance", (*calls)[0].Method)
	assert.Equal(t, "confirmed", commitmentOf(t, (*calls)[0]))
}

func TestRPCChain_AccountInfoReadsConfirmed(t *testing.T) {
	srv, calls := newRPCServer(t, map[string]any{
		"getAccountInfo": map[string]any{
			"context": map[string]any{"slot": 1},
			"value": map[string]any{
				"data":       []any{"AQID", "base64"},
				"executable": false,
				"lamports":   5,
				"owner":      common.MetaplexTokenMetaProgramID.ToBase58(),
				"rentEpoch":  0,
			},
		},
	})

	info, err := NewRPCChain(srv.URL).AccountInfo(context.Background(), mintA)
	require.NoError(t, err)
	assert.True(t, info.Exists())
	assert.Equal(t, common.MetaplexTokenMetaProgramID, info.Owner)
	assert.Equal(t, []byte{1, 2, 3}, info.Data)

	require.Len(t, *calls, 1)
	assert.Equal(t, "getAccountInfo", (*calls)[0].Method)
	assert.Equal(t, "confirmed", commitmentOf(t, (*calls)[0]))
}

func TestRPCChain_AccountInfoMissing(t *testing.T) {
	srv, _ := newRPCServer(t, map[string]any{
		"getAccountInfo": map[string]any{
			"context": map[string]any{"slot": 1},
			"value":   nil,
		},
	})

	info, err := NewRPCChain(srv.URL).AccountInfo(context.Background(), mintA)
	require.NoError(t, err)
	assert.False(t, info.Exists())
}
