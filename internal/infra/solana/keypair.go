// internal/infra/solana/keypair.go
package solana

import (
	"crypto/ed25519"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/blocto/solana-go-sdk/types"
	"github.com/mr-tron/base58"
)

var (
	ErrKeypairEmpty     = errors.New("keypair: empty")
	ErrKeypairMalformed = errors.New("keypair: malformed")
	ErrKeypairExists    = errors.New("keypair: file already exists")
)

// DefaultKeypairPath は solana-keygen の既定パス（~/.config/solana/id.json）を返します。
func DefaultKeypairPath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return filepath.Join(".config", "solana", "id.json")
	}
	return filepath.Join(home, ".config", "solana", "id.json")
}

// LoadKeypairFile はローカルの keypair ファイルから types.Account を復元します。
// path が空なら DefaultKeypairPath、先頭の "~/" はホームディレクトリに展開します。
func LoadKeypairFile(path string) (types.Account, error) {
	p, err := expandHome(strings.TrimSpace(path))
	if err != nil {
		return types.Account{}, err
	}
	if p == "" {
		p = DefaultKeypairPath()
	}

	data, err := os.ReadFile(p)
	if err != nil {
		return types.Account{}, fmt.Errorf("read keypair file %s: %w", p, err)
	}

	acc, err := ParseKeypair(data)
	if err != nil {
		return types.Account{}, fmt.Errorf("%s: %w", p, err)
	}
	return acc, nil
}

// ParseKeypair は以下の形式を受け付けます。
//   - solana-keygen の keypair JSON（[u8;64]）
//   - 後方互換: [int,...] 形式
//   - Phantom などが出力する base58 の秘密鍵文字列
func ParseKeypair(data []byte) (types.Account, error) {
	s := strings.TrimSpace(string(data))
	if s == "" {
		return types.Account{}, ErrKeypairEmpty
	}

	var keyBytes []byte
	var err error
	if strings.HasPrefix(s, "[") {
		keyBytes, err = decodeKeypairJSON([]byte(s))
	} else {
		keyBytes, err = decodeKeypairBase58(s)
	}
	if err != nil {
		return types.Account{}, err
	}

	acc, err := types.AccountFromBytes(keyBytes)
	if err != nil {
		return types.Account{}, fmt.Errorf("%w: AccountFromBytes: %v", ErrKeypairMalformed, err)
	}
	return acc, nil
}

// decodeKeypairJSON は keypair JSON から 64 バイトの鍵配列を復元します。
// - 正: [u8;64] を []byte で受け取る
// - 互換: [int,...] を []int で受けてから []byte に変換
func decodeKeypairJSON(data []byte) ([]byte, error) {
	var ints []int
	if err := json.Unmarshal(data, &ints); err != nil {
		return nil, fmt.Errorf("%w: unmarshal keypair json: %v", ErrKeypairMalformed, err)
	}

	if len(ints) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("%w: unexpected secret key length: got %d, want %d", ErrKeypairMalformed, len(ints), ed25519.PrivateKeySize)
	}

	keyBytes := make([]byte, len(ints))
	for i, v := range ints {
		if v < 0 || v > 255 {
			return nil, fmt.Errorf("%w: byte %d out of range: %d", ErrKeypairMalformed, i, v)
		}
		keyBytes[i] = byte(v)
	}
	return keyBytes, nil
}

func decodeKeypairBase58(s string) ([]byte, error) {
	b, err := base58.Decode(s)
	if err != nil {
		return nil, fmt.Errorf("%w: base58: %v", ErrKeypairMalformed, err)
	}
	if len(b) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("%w: unexpected secret key length: got %d, want %d", ErrKeypairMalformed, len(b), ed25519.PrivateKeySize)
	}
	return b, nil
}

// WriteKeypairFile は Solana CLI 互換の JSON 配列として秘密鍵を保存します（0600）。
// force=false の場合、既存ファイルは上書きしません。
func WriteKeypairFile(path string, acc types.Account, force bool) error {
	p, err := expandHome(strings.TrimSpace(path))
	if err != nil {
		return err
	}
	if p == "" {
		return fmt.Errorf("keypair: output path is empty")
	}
	if !force {
		if _, err := os.Stat(p); err == nil {
			return fmt.Errorf("%w: %s", ErrKeypairExists, p)
		}
	}

	secret := make([]int, len(acc.PrivateKey))
	for i, b := range acc.PrivateKey {
		secret[i] = int(b)
	}
	data, err := json.Marshal(secret)
	if err != nil {
		return fmt.Errorf("marshal secret key json: %w", err)
	}

	if dir := filepath.Dir(p); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("create keypair dir: %w", err)
		}
	}
	if err := os.WriteFile(p, data, 0o600); err != nil {
		return fmt.Errorf("write %s: %w", p, err)
	}
	return nil
}

func expandHome(p string) (string, error) {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~")), nil
}
