package solana

import (
	"context"
	"errors"
	"fmt"
	"strings"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	smpb "cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"github.com/blocto/solana-go-sdk/types"
	"github.com/googleapis/gax-go/v2"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var (
	ErrWalletSecretNotConfigured = errors.New("wallet_secret_provider: not configured")
	ErrWalletSecretNotFound      = errors.New("wallet_secret_provider: secret not found")
)

// secretVersionAccessor is the subset of *secretmanager.Client we call.
type secretVersionAccessor interface {
	AccessSecretVersion(ctx context.Context, req *smpb.AccessSecretVersionRequest, opts ...gax.CallOption) (*smpb.AccessSecretVersionResponse, error)
}

// WalletSecretProviderSM loads a wallet keypair stored in GCP Secret Manager.
// The payload uses the same formats as a local keypair file (JSON byte array or base58).
type WalletSecretProviderSM struct {
	client secretVersionAccessor
	closer func() error
}

// NewWalletSecretProviderSM opens a Secret Manager client.
// opts are passed through (e.g. option.WithCredentialsFile for local dev).
func NewWalletSecretProviderSM(ctx context.Context, opts ...option.ClientOption) (*WalletSecretProviderSM, error) {
	c, err := secretmanager.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("secretmanager.NewClient: %w", err)
	}
	return &WalletSecretProviderSM{client: c, closer: c.Close}, nil
}

// LoadWallet reads the secret version and restores the account.
//
// secretName is a full version name:
//
//	"projects/<PROJECT_ID>/secrets/<SECRET_ID>/versions/latest"
//
// A bare "projects/<p>/secrets/<s>" gets "/versions/latest" appended.
func (p *WalletSecretProviderSM) LoadWallet(ctx context.Context, secretName string) (types.Account, error) {
	if p == nil || p.client == nil {
		return types.Account{}, ErrWalletSecretNotConfigured
	}

	name := normalizeSecretVersionName(secretName)
	if name == "" {
		return types.Account{}, fmt.Errorf("%w: secret name is empty", ErrWalletSecretNotConfigured)
	}

	res, err := p.client.AccessSecretVersion(ctx, &smpb.AccessSecretVersionRequest{Name: name})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return types.Account{}, fmt.Errorf("%w: %s", ErrWalletSecretNotFound, name)
		}
		return types.Account{}, fmt.Errorf("AccessSecretVersion %s: %w", name, err)
	}
	if res == nil || res.GetPayload() == nil || len(res.GetPayload().GetData()) == 0 {
		return types.Account{}, fmt.Errorf("%w: empty payload: %s", ErrWalletSecretNotFound, name)
	}

	acc, err := ParseKeypair(res.GetPayload().GetData())
	if err != nil {
		return types.Account{}, fmt.Errorf("secret %s: %w", name, err)
	}
	return acc, nil
}

func (p *WalletSecretProviderSM) Close() error {
	if p == nil || p.closer == nil {
		return nil
	}
	return p.closer()
}

func normalizeSecretVersionName(s string) string {
	s = strings.Trim(strings.TrimSpace(s), "/")
	if s == "" {
		return ""
	}
	if !strings.Contains(s, "/versions/") {
		s += "/versions/latest"
	}
	return s
}
