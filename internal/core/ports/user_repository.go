package ports

import (
	"context"

	"github.com/initiatives-platform/identity/internal/core/domain"
)

// UserRepository defines persistence for users and their authority bindings.
// Every returned user has its authority set fully materialized; callers never
// see a half-loaded association. Implementations run against the transaction
// handle supplied by the enclosing Store callback.
type UserRepository interface {
	FindAll(ctx context.Context) ([]domain.User, error)
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	// FindByIDForUpdate locks the user row so check-then-act sequences
	// serialize against concurrent writers.
	FindByIDForUpdate(ctx context.Context, id int64) (*domain.User, error)
	// FindByUsername matches case-insensitively.
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) (*domain.User, error)
	Delete(ctx context.Context, id int64) error
	Authorities(ctx context.Context, userID int64) ([]domain.Authority, error)
	AddAuthority(ctx context.Context, userID, authorityID int64) error
	RemoveAuthority(ctx context.Context, userID, authorityID int64) error
	ClearAuthorities(ctx context.Context, userID int64) error
}
