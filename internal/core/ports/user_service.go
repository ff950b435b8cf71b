package ports

import (
	"context"

	"github.com/initiatives-platform/identity/internal/core/domain"
)

type UserService interface {
	FindAll(ctx context.Context) ([]domain.User, error)
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	Edit(ctx context.Context, id int64, user *domain.User) (*domain.User, error)
	Delete(ctx context.Context, id int64) error
	FindAuthorities(ctx context.Context, userID int64) ([]domain.Authority, error)
	AddAuthority(ctx context.Context, userID, authorityID int64) (*domain.User, error)
	RemoveAuthority(ctx context.Context, userID, authorityID int64) (*domain.User, error)
	// LoadUserByUsername is the hook the authentication layer consumes.
	LoadUserByUsername(ctx context.Context, username string) (*domain.Principal, error)
}
