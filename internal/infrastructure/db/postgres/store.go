package postgres

import (
	"context"
	"database/sql"

	"github.com/initiatives-platform/identity/internal/core/ports"
	"github.com/initiatives-platform/identity/internal/pkg/dbx"
)

// Store scopes repository access to a single transaction: Read uses a
// read-only transaction, Write a read-write one. The repositories handed
// to the callback are bound to that transaction.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Read(ctx context.Context, fn func(ctx context.Context, r ports.Repositories) error) error {
	return dbx.WithTx(ctx, s.db, &sql.TxOptions{ReadOnly: true}, func(ctx context.Context, tx dbx.DBTX) error {
		return fn(ctx, repositories{tx: tx})
	})
}

func (s *Store) Write(ctx context.Context, fn func(ctx context.Context, r ports.Repositories) error) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return fn(ctx, repositories{tx: tx})
	})
}

type repositories struct {
	tx dbx.DBTX
}

func (r repositories) Users() ports.UserRepository {
	return NewUserRepository(r.tx)
}

func (r repositories) Authorities() ports.AuthorityRepository {
	return NewAuthorityRepository(r.tx)
}
