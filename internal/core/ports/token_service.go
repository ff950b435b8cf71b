package ports

import (
	"context"

	"github.com/initiatives-platform/identity/internal/core/domain"
)

// TokenService obtains an OAuth2 access token for an authenticated user by
// calling the token endpoint out of band. Every failure, upstream or
// transport, collapses into a 401 result; the call is never retried.
type TokenService interface {
	Authorize(ctx context.Context, user domain.User, requestURL string) domain.TokenResult
}
