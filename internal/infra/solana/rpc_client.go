// internal/infra/solana/rpc_client.go
package solana

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/blocto/solana-go-sdk/common"
)

const jsonRPCTimeout = 12 * time.Second

var errRPCNotConfigured = errors.New("solana rpc: endpoint not configured")

// TokenAccount は jsonParsed な token account のうち一覧表示に使う項目です。
// Amount は最小単位の整数文字列（NFT なら "1" / "0"）。
type TokenAccount struct {
	Address string
	Mint    string
	Amount  string
}

// RPCClient は OnchainWalletReader が使う RPC です。
type RPCClient interface {
	TokenAccountsByOwner(ctx context.Context, owner string, programID common.PublicKey) ([]TokenAccount, error)
}

// JSONRPCClient は SDK が jsonParsed を返さない呼び出し用の素の JSON-RPC クライアントです。
type JSONRPCClient struct {
	Endpoint string
	HTTP     *http.Client
}

func NewJSONRPCClient(endpoint string) *JSONRPCClient {
	return &JSONRPCClient{
		Endpoint: strings.TrimSpace(endpoint),
		HTTP:     &http.Client{Timeout: jsonRPCTimeout},
	}
}

type jsonRPCRequest struct {
	Version string `json:"jsonrpc"`
	ID      int    `json:"id"`
	Method  string `json:"method"`
	Params  any    `json:"params,omitempty"`
}

type jsonRPCReply struct {
	Result json.RawMessage `json:"result"`
	Error  *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// do は method を 1 回呼び、result を out に入れます。
// 通信・HTTP ステータス・RPC エラーは ChainError になります。
func (c *JSONRPCClient) do(ctx context.Context, method string, params []any, out any) error {
	if c == nil || c.Endpoint == "" || c.HTTP == nil {
		return errRPCNotConfigured
	}

	body, err := json.Marshal(jsonRPCRequest{Version: "2.0", ID: 1, Method: method, Params: params})
	if err != nil {
		return fmt.Errorf("solana rpc %s: encode: %w", method, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("solana rpc %s: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return wrapChain(method, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return wrapChain(method, fmt.Errorf("http status=%d", resp.StatusCode))
	}

	var reply jsonRPCReply
	if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
		return fmt.Errorf("solana rpc %s: decode: %w", method, err)
	}
	if reply.Error != nil {
		return wrapChain(method, fmt.Errorf("error code=%d message=%s", reply.Error.Code, reply.Error.Message))
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(reply.Result, out); err != nil {
		return fmt.Errorf("solana rpc %s: result: %w", method, err)
	}
	return nil
}

// parsedTokenAccounts は getTokenAccountsByOwner (jsonParsed) の result です。
type parsedTokenAccounts struct {
	Value []struct {
		Pubkey  string `json:"pubkey"`
		Account struct {
			Data struct {
				Parsed struct {
					Info struct {
						Mint        string `json:"mint"`
						TokenAmount struct {
							Amount string `json:"amount"`
						} `json:"tokenAmount"`
					} `json:"info"`
				} `json:"parsed"`
			} `json:"data"`
		} `json:"account"`
	} `json:"value"`
}

// TokenAccountsByOwner は owner が持つ programID の token account を confirmed で読みます。
// programID がゼロ値なら SPL Token program を使います。
func (c *JSONRPCClient) TokenAccountsByOwner(ctx context.Context, owner string, programID common.PublicKey) ([]TokenAccount, error) {
	owner = strings.TrimSpace(owner)
	if owner == "" {
		return nil, fmt.Errorf("solana rpc: owner is empty")
	}
	if programID == (common.PublicKey{}) {
		programID = common.TokenProgramID
	}

	params := []any{
		owner,
		map[string]any{"programId": programID.ToBase58()},
		map[string]any{"encoding": "jsonParsed", "commitment": "confirmed"},
	}

	var res parsedTokenAccounts
	if err := c.do(ctx, "getTokenAccountsByOwner", params, &res); err != nil {
		return nil, err
	}

	out := make([]TokenAccount, 0, len(res.Value))
	for _, v := range res.Value {
		info := v.Account.Data.Parsed.Info
		out = append(out, TokenAccount{
			Address: v.Pubkey,
			Mint:    strings.TrimSpace(info.Mint),
			Amount:  strings.TrimSpace(info.TokenAmount.Amount),
		})
	}
	return out, nil
}
