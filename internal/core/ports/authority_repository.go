package ports

import (
	"context"

	"github.com/initiatives-platform/identity/internal/core/domain"
)

// AuthorityRepository defines persistence for authorities.
type AuthorityRepository interface {
	FindAll(ctx context.Context) ([]domain.Authority, error)
	FindByID(ctx context.Context, id int64) (*domain.Authority, error)
	FindByName(ctx context.Context, name string) (*domain.Authority, error)
	Create(ctx context.Context, authority *domain.Authority) (*domain.Authority, error)
	// CreateIfAbsent inserts the named authority unless it already exists,
	// relying on the unique name index so concurrent creations cannot both
	// insert.
	CreateIfAbsent(ctx context.Context, name string) error
}
