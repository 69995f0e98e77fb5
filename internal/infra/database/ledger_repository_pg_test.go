package database

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	assetdom "narratives-nft/internal/domain/asset"
)

type execCall struct {
	query string
	args  []any
}

type fakeExecer struct {
	calls []execCall
	err   error
}

func (f *fakeExecer) ExecContext(_ context.Context, query string, args ...any) (sql.Result, error) {
	f.calls = append(f.calls, execCall{query: query, args: args})
	if f.err != nil {
		return nil, f.err
	}
	return driverResult{}, nil
}

type driverResult struct{}

func (driverResult) LastInsertId() (int64, error) { return 0, nil }
func (driverResult) RowsAffected() (int64, error) { return 1, nil }

func newTestRepo(ex execer) *LedgerRepositoryPG {
	return &LedgerRepositoryPG{
		DB:    ex,
		newID: func() string { return "11111111-2222-3333-4444-555555555555" },
		now:   func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) },
	}
}

func validRecord() assetdom.MintRecord {
	return assetdom.MintRecord{
		Kind:        assetdom.KindVerify,
		Mint:        "4zd9esYcgAzAh49Gt836U3Bfak8pbAbLAuLAhKrMErtw",
		Collection:  "4WNs33R39LknmsPMUFQXyQcVNDvRXNpwhzvGZPJE8U7h",
		Signature:   "5sig",
		Cluster:     "devnet",
		ExplorerURL: "https://explorer.solana.com/tx/5sig?cluster=devnet",
	}
}

func TestLedgerRepositoryPG_Save(t *testing.T) {
	ex := &fakeExecer{}
	repo := newTestRepo(ex)

	got, err := repo.Save(context.Background(), validRecord())
	require.NoError(t, err)

	assert.Equal(t, "11111111-2222-3333-4444-555555555555", got.ID)
	assert.Equal(t, time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC), got.CreatedAt)

	require.Len(t, ex.calls, 1)
	c := ex.calls[0]
	assert.True(t, strings.Contains(c.query, "INSERT INTO nft_mints"))
	require.Len(t, c.args, 8)
	assert.Equal(t, got.ID, c.args[0])
	assert.Equal(t, "verify", c.args[1])
	assert.Equal(t, got.Mint, c.args[2])
	assert.Equal(t, got.Collection, c.args[3])
	assert.Equal(t, "5sig", c.args[4])
}

func TestLedgerRepositoryPG_KeepsGivenID(t *testing.T) {
	ex := &fakeExecer{}
	rec := validRecord()
	rec.ID = "given"

	got, err := newTestRepo(ex).Save(context.Background(), rec)
	require.NoError(t, err)
	assert.Equal(t, "given", got.ID)
}

func TestLedgerRepositoryPG_ValidationStopsInsert(t *testing.T) {
	ex := &fakeExecer{}
	rec := validRecord()
	rec.Signature = " "

	_, err := newTestRepo(ex).Save(context.Background(), rec)
	assert.ErrorIs(t, err, assetdom.ErrInvalidSignature)
	assert.Empty(t, ex.calls)
}

func TestLedgerRepositoryPG_ExecError(t *testing.T) {
	ex := &fakeExecer{err: errors.New("connection refused")}

	_, err := newTestRepo(ex).Save(context.Background(), validRecord())
	assert.EqualError(t, err, "connection refused")
}

func TestLedgerRepositoryPG_EnsureSchema(t *testing.T) {
	ex := &fakeExecer{}
	require.NoError(t, newTestRepo(ex).EnsureSchema(context.Background()))
	require.Len(t, ex.calls, 1)
	assert.Contains(t, ex.calls[0].query, "CREATE TABLE IF NOT EXISTS nft_mints")
}

func TestNopLedger(t *testing.T) {
	got, err := NopLedger{}.Save(context.Background(), validRecord())
	require.NoError(t, err)
	assert.Equal(t, validRecord(), got)

	_, err = NopLedger{}.Save(context.Background(), assetdom.MintRecord{})
	assert.Error(t, err)
}

func TestNewConnection_EmptyDSN(t *testing.T) {
	_, err := NewConnection(context.Background(), " ")
	assert.Error(t, err)
}
