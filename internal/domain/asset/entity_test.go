package asset

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testCollection = "4WNs33R39LknmsPMUFQXyQcVNDvRXNpwhzvGZPJE8U7h"
	testNFT        = "4zd9esYcgAzAh49Gt836U3Bfak8pbAbLAuLAhKrMErtw"
)

func TestCreateInput_Normalize(t *testing.T) {
	in := CreateInput{
		Name:           "  Yochi ",
		Symbol:         " YCH",
		URI:            " https://example.com/meta.json ",
		CollectionMint: " " + testCollection + " ",
	}

	got, err := in.Normalize()
	require.NoError(t, err)
	assert.Equal(t, "Yochi", got.Name)
	assert.Equal(t, "YCH", got.Symbol)
	assert.Equal(t, "https://example.com/meta.json", got.URI)
	assert.Equal(t, testCollection, got.CollectionMint)
}

func TestCreateInput_NormalizeRejects(t *testing.T) {
	valid := CreateInput{Name: "Yochi", Symbol: "YCH", URI: "https://example.com/m.json"}

	tests := []struct {
		name   string
		mutate func(*CreateInput)
		want   error
	}{
		{"empty name", func(in *CreateInput) { in.Name = " " }, ErrInvalidName},
		{"long name", func(in *CreateInput) { in.Name = strings.Repeat("a", MaxNameLen+1) }, ErrInvalidName},
		{"long symbol", func(in *CreateInput) { in.Symbol = strings.Repeat("S", MaxSymbolLen+1) }, ErrInvalidSymbol},
		{"empty uri", func(in *CreateInput) { in.URI = "" }, ErrInvalidURI},
		{"fee over 100%", func(in *CreateInput) { in.SellerFeeBasisPoints = MaxFeeBps + 1 }, ErrInvalidSellerFee},
		{"collection referencing collection", func(in *CreateInput) {
			in.IsCollection = true
			in.CollectionMint = testCollection
		}, ErrCollectionConflict},
		{"bad collection address", func(in *CreateInput) { in.CollectionMint = "0OIl" }, ErrInvalidAddress},
		{"bad owner", func(in *CreateInput) { in.Owner = "not-a-key" }, ErrInvalidAddress},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.mutate(&in)
			_, err := in.Normalize()
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestIsValidAddress(t *testing.T) {
	assert.True(t, IsValidAddress(testCollection))
	assert.True(t, IsValidAddress("11111111111111111111111111111111"))
	assert.False(t, IsValidAddress(""))
	assert.False(t, IsValidAddress("short"))
	// '0' is not in the base58 alphabet
	assert.False(t, IsValidAddress("0WNs33R39LknmsPMUFQXyQcVNDvRXNpwhzvGZPJE8U7h"))
}

func TestDigitalAsset_IsVerifiedMemberOf(t *testing.T) {
	a := DigitalAsset{}
	assert.False(t, a.IsVerifiedMemberOf(testCollection))

	a.Metadata.Collection = &CollectionRef{Key: testCollection, Verified: false}
	assert.False(t, a.IsVerifiedMemberOf(testCollection))

	a.Metadata.Collection.Verified = true
	assert.True(t, a.IsVerifiedMemberOf(testCollection))
	assert.False(t, a.IsVerifiedMemberOf(testNFT))
}

func TestMintRecord_Validate(t *testing.T) {
	r := MintRecord{Kind: KindNFT, Mint: testNFT, Collection: testCollection, Signature: "sig"}
	require.NoError(t, r.Validate())

	bad := r
	bad.Kind = "burn"
	require.ErrorIs(t, bad.Validate(), ErrInvalidRecordKind)

	bad = r
	bad.Signature = " "
	require.ErrorIs(t, bad.Validate(), ErrInvalidSignature)

	bad = r
	bad.Mint = "x"
	require.ErrorIs(t, bad.Validate(), ErrInvalidAddress)
}
