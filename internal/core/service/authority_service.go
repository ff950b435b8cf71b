package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/initiatives-platform/identity/internal/core/domain"
	"github.com/initiatives-platform/identity/internal/core/ports"
)

// AuthorityService owns authority lookup and creation. The default
// authority is created lazily on first demand; authorities are never
// deleted.
type AuthorityService struct {
	store       ports.Store
	defaultName string
	log         zerolog.Logger
}

func NewAuthorityService(store ports.Store, defaultName string, log zerolog.Logger) *AuthorityService {
	if defaultName == "" {
		defaultName = domain.RoleUser
	}
	return &AuthorityService{store: store, defaultName: defaultName, log: log}
}

func (s *AuthorityService) FindAll(ctx context.Context) ([]domain.Authority, error) {
	s.log.Debug().Msg("searching all authorities")
	var authorities []domain.Authority
	err := s.store.Read(ctx, func(ctx context.Context, r ports.Repositories) error {
		var err error
		authorities, err = r.Authorities().FindAll(ctx)
		return err
	})
	return authorities, err
}

func (s *AuthorityService) FindByID(ctx context.Context, id int64) (*domain.Authority, error) {
	s.log.Debug().Int64("id", id).Msg("searching authority by id")
	var authority *domain.Authority
	err := s.store.Read(ctx, func(ctx context.Context, r ports.Repositories) error {
		var err error
		authority, err = r.Authorities().FindByID(ctx, id)
		return err
	})
	return authority, err
}

func (s *AuthorityService) Create(ctx context.Context, authority *domain.Authority) (*domain.Authority, error) {
	s.log.Info().Str("name", authority.Name).Msg("creating authority")
	var created *domain.Authority
	err := s.store.Write(ctx, func(ctx context.Context, r ports.Repositories) error {
		var err error
		created, err = r.Authorities().Create(ctx, authority)
		return err
	})
	return created, err
}

// FindDefaultOrCreate returns the configured default authority, creating it
// on first demand inside a write transaction.
func (s *AuthorityService) FindDefaultOrCreate(ctx context.Context) (*domain.Authority, error) {
	var authority *domain.Authority
	err := s.store.Write(ctx, func(ctx context.Context, r ports.Repositories) error {
		var err error
		authority, err = s.defaultOrCreate(ctx, r.Authorities())
		return err
	})
	return authority, err
}

// defaultOrCreate runs within the caller's transaction. The insert goes
// through CreateIfAbsent so two concurrent creations of the default cannot
// both succeed; the loser re-reads the winner's row.
func (s *AuthorityService) defaultOrCreate(ctx context.Context, repo ports.AuthorityRepository) (*domain.Authority, error) {
	authority, err := repo.FindByName(ctx, s.defaultName)
	if err == nil {
		return authority, nil
	}
	if !errors.Is(err, domain.ErrAuthorityNotFound) {
		return nil, err
	}
	s.log.Info().Str("name", s.defaultName).Msg("creating default authority")
	if err := repo.CreateIfAbsent(ctx, s.defaultName); err != nil {
		return nil, err
	}
	return repo.FindByName(ctx, s.defaultName)
}
