package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/guilherme-santos/calendarposter/internal"
	"github.com/jmoiron/sqlx"
)

const DriverName = "sqlite3"

var ErrAccountNotFound = errors.New("sqlite: account not found")

type Storage struct {
	db *sqlx.DB
}

func NewStorage(db *sql.DB) *Storage {
	s := &Storage{
		db: sqlx.NewDb(db, DriverName),
	}
	err := s.RunMigrations()
	if err != nil {
		panic(fmt.Sprintf("sqlite: running migrations: %v", err))
	}
	return s
}

func (s Storage) AddAccount(ctx context.Context, account *internal.Account) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO accounts (id, auth) VALUES (?, ?)
		ON CONFLICT(id) DO UPDATE SET auth=?, updated_at=CURRENT_TIMESTAMP;
	`, account.ID(), account.Auth, account.Auth)
	return err
}

// Account returns the stored credentials for id (platform/name).
func (s Storage) Account(ctx context.Context, id string) (*internal.Account, error) {
	var acc Account
	err := s.db.GetContext(ctx, &acc, `
		SELECT id, auth
		FROM accounts
		WHERE id = ?
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}
	return acc.Convert(), nil
}

func (s Storage) DeleteAccount(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM accounts WHERE id = ?`, id)
	return err
}
