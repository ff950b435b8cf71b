package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/initiatives-platform/identity/internal/api/metrics"
	"github.com/initiatives-platform/identity/internal/core/domain"
	"github.com/initiatives-platform/identity/internal/core/ports"
)

// UserService implements the user store: lookups, CRUD and authority
// bindings. Every public operation runs in a single storage transaction;
// reads use a read-only one so the authority set is materialized against a
// consistent snapshot.
type UserService struct {
	store       ports.Store
	authorities *AuthorityService
	log         zerolog.Logger
}

func NewUserService(store ports.Store, authorities *AuthorityService, log zerolog.Logger) *UserService {
	return &UserService{store: store, authorities: authorities, log: log}
}

func (s *UserService) FindAll(ctx context.Context) ([]domain.User, error) {
	s.log.Debug().Msg("searching all users")
	var users []domain.User
	err := s.store.Read(ctx, func(ctx context.Context, r ports.Repositories) error {
		var err error
		users, err = r.Users().FindAll(ctx)
		return err
	})
	return users, err
}

func (s *UserService) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	s.log.Debug().Int64("id", id).Msg("searching user by id")
	var user *domain.User
	err := s.store.Read(ctx, func(ctx context.Context, r ports.Repositories) error {
		var err error
		user, err = r.Users().FindByID(ctx, id)
		return err
	})
	return user, err
}

func (s *UserService) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	s.log.Debug().Str("username", username).Msg("searching user by username")
	var user *domain.User
	err := s.store.Read(ctx, func(ctx context.Context, r ports.Repositories) error {
		var err error
		user, err = r.Users().FindByUsername(ctx, username)
		return err
	})
	return user, err
}

// Create persists a new user with the default authority attached. The
// username-availability check and the default-authority lookup happen in
// the same transaction as the insert; the unique index on the folded
// username is the backstop for concurrent creations.
func (s *UserService) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	s.log.Info().Str("username", user.Username).Msg("creating user")
	var created *domain.User
	err := s.store.Write(ctx, func(ctx context.Context, r ports.Repositories) error {
		if err := checkUsernameAvailable(ctx, r.Users(), user); err != nil {
			return err
		}
		def, err := s.authorities.defaultOrCreate(ctx, r.Authorities())
		if err != nil {
			return err
		}
		created, err = r.Users().Create(ctx, user)
		if err != nil {
			return err
		}
		if err := r.Users().AddAuthority(ctx, created.ID, def.ID); err != nil {
			return err
		}
		created.Authorities = []domain.Authority{*def}
		return nil
	})
	if err != nil {
		return nil, err
	}
	metrics.UsersWrittenTotal.WithLabelValues("create").Inc()
	return created, nil
}

// Edit rebinds the submitted user to id and persists it. A blank password
// keeps the stored credential. The authority set is not touched.
func (s *UserService) Edit(ctx context.Context, id int64, user *domain.User) (*domain.User, error) {
	s.log.Info().Int64("id", id).Str("username", user.Username).Msg("updating user")
	var updated *domain.User
	err := s.store.Write(ctx, func(ctx context.Context, r ports.Repositories) error {
		current, err := r.Users().FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		user.ID = id
		if user.Password == "" {
			user.Password = current.Password
		}
		if err := checkUsernameAvailable(ctx, r.Users(), user); err != nil {
			return err
		}
		updated, err = r.Users().Update(ctx, user)
		if err != nil {
			return err
		}
		updated.Authorities = current.Authorities
		return nil
	})
	if err != nil {
		return nil, err
	}
	metrics.UsersWrittenTotal.WithLabelValues("edit").Inc()
	return updated, nil
}

// Delete removes the user after emptying its authority bindings; both steps
// run in one transaction so concurrent readers never observe a half-deleted
// row. The authorities themselves survive.
func (s *UserService) Delete(ctx context.Context, id int64) error {
	err := s.store.Write(ctx, func(ctx context.Context, r ports.Repositories) error {
		user, err := r.Users().FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		s.log.Info().Int64("id", id).Str("username", user.Username).Msg("deleting user")
		if err := r.Users().ClearAuthorities(ctx, id); err != nil {
			return err
		}
		return r.Users().Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	metrics.UsersWrittenTotal.WithLabelValues("delete").Inc()
	return nil
}

// FindAuthorities returns the user's authority set, fully materialized
// inside the read transaction.
func (s *UserService) FindAuthorities(ctx context.Context, userID int64) ([]domain.Authority, error) {
	s.log.Debug().Int64("user_id", userID).Msg("searching user authorities")
	var authorities []domain.Authority
	err := s.store.Read(ctx, func(ctx context.Context, r ports.Repositories) error {
		if _, err := r.Users().FindByID(ctx, userID); err != nil {
			return err
		}
		var err error
		authorities, err = r.Users().Authorities(ctx, userID)
		return err
	})
	return authorities, err
}

func (s *UserService) AddAuthority(ctx context.Context, userID, authorityID int64) (*domain.User, error) {
	var user *domain.User
	err := s.store.Write(ctx, func(ctx context.Context, r ports.Repositories) error {
		var err error
		user, err = r.Users().FindByIDForUpdate(ctx, userID)
		if err != nil {
			return err
		}
		authority, err := r.Authorities().FindByID(ctx, authorityID)
		if err != nil {
			return err
		}
		if user.HasAuthority(authority.ID) {
			return domain.ErrAuthorityPresent
		}
		s.log.Info().Int64("user_id", userID).Str("authority", authority.Name).Msg("adding authority to user")
		if err := r.Users().AddAuthority(ctx, userID, authorityID); err != nil {
			return err
		}
		user.Authorities = append(user.Authorities, *authority)
		return nil
	})
	if err != nil {
		return nil, err
	}
	metrics.UsersWrittenTotal.WithLabelValues("add_authority").Inc()
	return user, nil
}

func (s *UserService) RemoveAuthority(ctx context.Context, userID, authorityID int64) (*domain.User, error) {
	var user *domain.User
	err := s.store.Write(ctx, func(ctx context.Context, r ports.Repositories) error {
		var err error
		user, err = r.Users().FindByIDForUpdate(ctx, userID)
		if err != nil {
			return err
		}
		authority, err := r.Authorities().FindByID(ctx, authorityID)
		if err != nil {
			return err
		}
		if !user.HasAuthority(authority.ID) {
			return domain.ErrAuthorityAbsent
		}
		s.log.Info().Int64("user_id", userID).Str("authority", authority.Name).Msg("removing authority from user")
		if err := r.Users().RemoveAuthority(ctx, userID, authorityID); err != nil {
			return err
		}
		kept := user.Authorities[:0]
		for _, a := range user.Authorities {
			if a.ID != authority.ID {
				kept = append(kept, a)
			}
		}
		user.Authorities = kept
		return nil
	})
	if err != nil {
		return nil, err
	}
	metrics.UsersWrittenTotal.WithLabelValues("remove_authority").Inc()
	return user, nil
}

// LoadUserByUsername projects the user as a principal for the
// authentication layer: username, stored credential and authority names.
func (s *UserService) LoadUserByUsername(ctx context.Context, username string) (*domain.Principal, error) {
	var principal *domain.Principal
	err := s.store.Read(ctx, func(ctx context.Context, r ports.Repositories) error {
		user, err := r.Users().FindByUsername(ctx, username)
		if err != nil {
			return err
		}
		principal = &domain.Principal{
			Username:    user.Username,
			Password:    user.Password,
			Authorities: user.AuthorityNames(),
		}
		return nil
	})
	return principal, err
}

// checkUsernameAvailable accepts the candidate only when no user owns the
// username under case-folded comparison, or when the owner is the candidate
// itself.
func checkUsernameAvailable(ctx context.Context, repo ports.UserRepository, user *domain.User) error {
	existing, err := repo.FindByUsername(ctx, user.Username)
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if existing.ID != user.ID {
		return domain.ErrUsernameTaken
	}
	return nil
}
