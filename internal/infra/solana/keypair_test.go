package solana

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/blocto/solana-go-sdk/types"
	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteAndLoadKeypairFile(t *testing.T) {
	acc := types.NewAccount()
	path := filepath.Join(t.TempDir(), "wallet", "id.json")

	require.NoError(t, WriteKeypairFile(path, acc, false))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	got, err := LoadKeypairFile(path)
	require.NoError(t, err)
	assert.Equal(t, acc.PublicKey.ToBase58(), got.PublicKey.ToBase58())
}

func TestWriteKeypairFile_RefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "id.json")
	require.NoError(t, WriteKeypairFile(path, types.NewAccount(), false))

	err := WriteKeypairFile(path, types.NewAccount(), false)
	require.ErrorIs(t, err, ErrKeypairExists)

	require.NoError(t, WriteKeypairFile(path, types.NewAccount(), true))
}

func TestParseKeypair_Formats(t *testing.T) {
	acc := types.NewAccount()
	want := acc.PublicKey.ToBase58()

	ints := make([]int, len(acc.PrivateKey))
	for i, b := range acc.PrivateKey {
		ints[i] = int(b)
	}
	jsonInts, err := json.Marshal(ints)
	require.NoError(t, err)

	t.Run("json array", func(t *testing.T) {
		got, err := ParseKeypair(jsonInts)
		require.NoError(t, err)
		assert.Equal(t, want, got.PublicKey.ToBase58())
	})

	t.Run("json array with whitespace", func(t *testing.T) {
		got, err := ParseKeypair(append([]byte("\n  "), append(jsonInts, '\n')...))
		require.NoError(t, err)
		assert.Equal(t, want, got.PublicKey.ToBase58())
	})

	t.Run("base58 secret", func(t *testing.T) {
		got, err := ParseKeypair([]byte(base58.Encode(acc.PrivateKey)))
		require.NoError(t, err)
		assert.Equal(t, want, got.PublicKey.ToBase58())
	})
}

func TestParseKeypair_Rejects(t *testing.T) {
	tests := []struct {
		name string
		data string
		want error
	}{
		{"empty", "  ", ErrKeypairEmpty},
		{"short array", "[1,2,3]", ErrKeypairMalformed},
		{"not json", "[1,2,", ErrKeypairMalformed},
		{"out of range", "[" + repeatInts(63, "1") + ",256]", ErrKeypairMalformed},
		{"bad base58", "0OIl", ErrKeypairMalformed},
		{"short base58", base58.Encode([]byte{1, 2, 3}), ErrKeypairMalformed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseKeypair([]byte(tt.data))
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestLoadKeypairFile_Missing(t *testing.T) {
	_, err := LoadKeypairFile(filepath.Join(t.TempDir(), "nope.json"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	got, err := expandHome("~/.config/solana/id.json")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".config", "solana", "id.json"), got)

	got, err = expandHome("/abs/id.json")
	require.NoError(t, err)
	assert.Equal(t, "/abs/id.json", got)
}

func repeatInts(n int, v string) string {
	out := v
	for i := 1; i < n; i++ {
		out += "," + v
	}
	return out
}
