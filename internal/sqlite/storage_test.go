package sqlite_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guilherme-santos/calendarposter/internal"
	"github.com/guilherme-santos/calendarposter/internal/sqlite"
)

func newStorage(t *testing.T) *sqlite.Storage {
	t.Helper()

	db, err := sql.Open(sqlite.DriverName, filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return sqlite.NewStorage(db)
}

func TestStorage_Account(t *testing.T) {
	ctx := context.Background()
	storage := newStorage(t)

	acc := &internal.Account{Platform: "google", Name: "default", Auth: `{"access_token":"a"}`}
	require.NoError(t, storage.AddAccount(ctx, acc))

	got, err := storage.Account(ctx, "google/default")
	require.NoError(t, err)
	assert.Equal(t, acc, got)
}

func TestStorage_AddAccountReplacesAuth(t *testing.T) {
	ctx := context.Background()
	storage := newStorage(t)

	acc := &internal.Account{Platform: "google", Name: "default", Auth: "old"}
	require.NoError(t, storage.AddAccount(ctx, acc))
	acc.Auth = "new"
	require.NoError(t, storage.AddAccount(ctx, acc))

	got, err := storage.Account(ctx, acc.ID())
	require.NoError(t, err)
	assert.Equal(t, "new", got.Auth)
}

func TestStorage_AccountNotFound(t *testing.T) {
	storage := newStorage(t)

	_, err := storage.Account(context.Background(), "google/nobody")
	assert.ErrorIs(t, err, sqlite.ErrAccountNotFound)
}

func TestStorage_DeleteAccount(t *testing.T) {
	ctx := context.Background()
	storage := newStorage(t)

	acc := &internal.Account{Platform: "google", Name: "default", Auth: "x"}
	require.NoError(t, storage.AddAccount(ctx, acc))
	require.NoError(t, storage.DeleteAccount(ctx, acc.ID()))

	_, err := storage.Account(ctx, acc.ID())
	assert.ErrorIs(t, err, sqlite.ErrAccountNotFound)
}
