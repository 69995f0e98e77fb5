package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	mintapp "narratives-nft/internal/application/mint"
	assetdom "narratives-nft/internal/domain/asset"
	solanainfra "narratives-nft/internal/infra/solana"
	"narratives-nft/internal/platform/di"
)

type fakeService struct {
	createReq  []mintapp.CreateRequest
	verifyArgs [2]string
	listOwner  string
	err        error
}

func (f *fakeService) CreateCollection(_ context.Context, req mintapp.CreateRequest) (mintapp.Result, error) {
	f.createReq = append(f.createReq, req)
	return f.result(), f.err
}

func (f *fakeService) CreateNFT(_ context.Context, req mintapp.CreateRequest) (mintapp.Result, error) {
	f.createReq = append(f.createReq, req)
	return f.result(), f.err
}

func (f *fakeService) VerifyNFT(_ context.Context, nft, col string) (mintapp.Result, error) {
	f.verifyArgs = [2]string{nft, col}
	return f.result(), f.err
}

func (f *fakeService) ListNFTs(_ context.Context, owner string) ([]string, error) {
	f.listOwner = owner
	if f.err != nil {
		return nil, f.err
	}
	return []string{DefaultNFTMint}, nil
}

func (f *fakeService) result() mintapp.Result {
	if f.err != nil {
		return mintapp.Result{}
	}
	return mintapp.Result{
		Asset:       &assetdom.DigitalAsset{Mint: assetdom.Mint{Address: DefaultNFTMint, Supply: 1}},
		Signature:   "sig-1",
		ExplorerURL: "https://explorer.solana.com/address/" + DefaultNFTMint + "?cluster=devnet",
	}
}

// useFakeSession は openSession を差し替え、渡された Overrides を記録します。
func useFakeSession(t *testing.T, svc *fakeService) (*di.Overrides, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	var got di.Overrides

	orig := openSession
	openSession = func(_ context.Context, ov di.Overrides) (*session, error) {
		got = ov
		return &session{svc: svc, log: zap.New(core), close: func() error { return nil }}, nil
	}
	t.Cleanup(func() { openSession = orig })
	return &got, logs
}

func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	if args == nil {
		args = []string{}
	}
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCreateCollectionCmd_Defaults(t *testing.T) {
	svc := &fakeService{}
	ov, _ := useFakeSession(t, svc)

	out, err := execute(t, NewCreateCollectionCmd(), "--network", "devnet", "--keypair", "/tmp/id.json")
	require.NoError(t, err)

	require.Len(t, svc.createReq, 1)
	in := svc.createReq[0].Input
	assert.Equal(t, DefaultName, in.Name)
	assert.Equal(t, DefaultSymbol, in.Symbol)
	assert.Equal(t, DefaultURI, in.URI)
	assert.Equal(t, uint16(0), in.SellerFeeBasisPoints)
	assert.Empty(t, in.CollectionMint)
	assert.Nil(t, svc.createReq[0].MetadataJSON)

	assert.Equal(t, "devnet", ov.Network)
	assert.Equal(t, "/tmp/id.json", ov.KeypairPath)

	assert.Contains(t, out, "Transaction confirmed: sig-1")
	assert.Contains(t, out, "Collection created: https://explorer.solana.com/address/"+DefaultNFTMint)
	assert.Contains(t, out, "Collection details:")
}

func TestCreateNFTCmd_CollectionDefaultAndOverride(t *testing.T) {
	svc := &fakeService{}
	useFakeSession(t, svc)

	_, err := execute(t, NewCreateNFTCmd())
	require.NoError(t, err)
	assert.Equal(t, DefaultCollectionMint, svc.createReq[0].Input.CollectionMint)

	other := "9xQeWvG816bUx9EPjHmaT23yvVM2ZWbrrpZb9PusVFin"
	out, err := execute(t, NewCreateNFTCmd(), "--collection", other, "--name", "Other", "--seller-fee-bps", "500")
	require.NoError(t, err)
	require.Len(t, svc.createReq, 2)
	assert.Equal(t, other, svc.createReq[1].Input.CollectionMint)
	assert.Equal(t, "Other", svc.createReq[1].Input.Name)
	assert.Equal(t, uint16(500), svc.createReq[1].Input.SellerFeeBasisPoints)
	assert.Contains(t, out, "NFT created:")
}

func TestCreateNFTCmd_MetadataFile(t *testing.T) {
	svc := &fakeService{}
	useFakeSession(t, svc)

	p := filepath.Join(t.TempDir(), "meta.json")
	require.NoError(t, os.WriteFile(p, []byte(`{"name":"Yochi"}`), 0o600))

	_, err := execute(t, NewCreateNFTCmd(), "--metadata-file", p)
	require.NoError(t, err)
	assert.Equal(t, `{"name":"Yochi"}`, string(svc.createReq[0].MetadataJSON))
}

func TestCreateNFTCmd_MissingMetadataFile(t *testing.T) {
	svc := &fakeService{}
	useFakeSession(t, svc)

	_, err := execute(t, NewCreateNFTCmd(), "--metadata-file", filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
	assert.Empty(t, svc.createReq)
}

func TestVerifyNFTCmd(t *testing.T) {
	svc := &fakeService{}
	useFakeSession(t, svc)

	out, err := execute(t, NewVerifyNFTCmd())
	require.NoError(t, err)
	assert.Equal(t, [2]string{DefaultNFTMint, DefaultCollectionMint}, svc.verifyArgs)
	assert.Contains(t, out, "NFT "+DefaultNFTMint+" verified as member of collection "+DefaultCollectionMint+"!")
	assert.Contains(t, out, "See explorer at: https://explorer.solana.com/address/")
}

func TestListNFTsCmd(t *testing.T) {
	svc := &fakeService{}
	useFakeSession(t, svc)

	out, err := execute(t, NewListNFTsCmd(), "--owner", DefaultCollectionMint)
	require.NoError(t, err)
	assert.Equal(t, DefaultCollectionMint, svc.listOwner)
	assert.Equal(t, DefaultNFTMint+"\n", out)
}

func TestCmd_ChainErrorIsLoggedAsChainError(t *testing.T) {
	svc := &fakeService{err: &solanainfra.ChainError{Op: "SendTransaction", Err: errors.New("blockhash not found")}}
	_, logs := useFakeSession(t, svc)

	_, err := execute(t, NewCreateNFTCmd())
	require.Error(t, err)
	assert.Equal(t, 1, logs.FilterMessage("Error creating NFT").Len())
	assert.Equal(t, 1, logs.FilterMessage("chain error details").Len())
	assert.Equal(t, 0, logs.FilterMessage("error details").Len())
}

func TestCmd_GenericErrorIsLoggedAsErrorDetails(t *testing.T) {
	svc := &fakeService{err: assetdom.ErrNotVerified}
	_, logs := useFakeSession(t, svc)

	_, err := execute(t, NewVerifyNFTCmd())
	require.ErrorIs(t, err, assetdom.ErrNotVerified)
	assert.Equal(t, 1, logs.FilterMessage("error details").Len())
	assert.Equal(t, 0, logs.FilterMessage("chain error details").Len())
}

func TestCmd_SessionErrorPropagates(t *testing.T) {
	orig := openSession
	openSession = func(context.Context, di.Overrides) (*session, error) {
		return nil, errors.New("keypair not found")
	}
	t.Cleanup(func() { openSession = orig })

	_, err := execute(t, NewListNFTsCmd())
	assert.EqualError(t, err, "keypair not found")
}

func TestCmd_RejectsPositionalArgs(t *testing.T) {
	useFakeSession(t, &fakeService{})
	_, err := execute(t, NewVerifyNFTCmd(), "extra")
	assert.Error(t, err)
}

func TestGenerateWalletCmd(t *testing.T) {
	p := filepath.Join(t.TempDir(), "wallet.json")

	out, err := execute(t, NewGenerateWalletCmd(), "--out", p)
	require.NoError(t, err)

	acc, err := solanainfra.LoadKeypairFile(p)
	require.NoError(t, err)
	assert.Contains(t, out, acc.PublicKey.ToBase58())

	_, err = execute(t, NewGenerateWalletCmd(), "--out", p)
	assert.ErrorIs(t, err, solanainfra.ErrKeypairExists)

	_, err = execute(t, NewGenerateWalletCmd(), "--out", p, "--force")
	assert.NoError(t, err)
}

func TestRun_ExitCodes(t *testing.T) {
	useFakeSession(t, &fakeService{})
	var stderr bytes.Buffer

	cmd := NewListNFTsCmd()
	cmd.SetOut(&bytes.Buffer{})
	assert.Equal(t, 0, run(cmd, nil, &stderr))

	failing := NewListNFTsCmd()
	failing.SetOut(&bytes.Buffer{})
	assert.Equal(t, 1, run(failing, []string{"--bogus"}, &stderr))
	assert.Contains(t, stderr.String(), "list-nfts:")
}
