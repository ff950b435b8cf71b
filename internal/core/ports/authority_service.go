package ports

import (
	"context"

	"github.com/initiatives-platform/identity/internal/core/domain"
)

type AuthorityService interface {
	FindAll(ctx context.Context) ([]domain.Authority, error)
	FindByID(ctx context.Context, id int64) (*domain.Authority, error)
	Create(ctx context.Context, authority *domain.Authority) (*domain.Authority, error)
	// FindDefaultOrCreate returns the configured default authority, creating
	// it on first demand.
	FindDefaultOrCreate(ctx context.Context) (*domain.Authority, error)
}
