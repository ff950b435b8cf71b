package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/initiatives-platform/identity/internal/core/domain"
	"github.com/initiatives-platform/identity/internal/pkg/dbx"
)

type AuthorityRepository struct {
	db dbx.DBTX
}

func NewAuthorityRepository(db dbx.DBTX) *AuthorityRepository {
	return &AuthorityRepository{db: db}
}

func (r *AuthorityRepository) FindAll(ctx context.Context) ([]domain.Authority, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM authorities ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("select authorities: %w", err)
	}
	defer rows.Close()

	var authorities []domain.Authority
	for rows.Next() {
		var a domain.Authority
		if err := rows.Scan(&a.ID, &a.Name); err != nil {
			return nil, fmt.Errorf("scan authority: %w", err)
		}
		authorities = append(authorities, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("select authorities: %w", err)
	}
	return authorities, nil
}

func (r *AuthorityRepository) FindByID(ctx context.Context, id int64) (*domain.Authority, error) {
	return r.findOne(ctx, `SELECT id, name FROM authorities WHERE id = $1`, id)
}

func (r *AuthorityRepository) FindByName(ctx context.Context, name string) (*domain.Authority, error) {
	return r.findOne(ctx, `SELECT id, name FROM authorities WHERE name = $1`, name)
}

func (r *AuthorityRepository) findOne(ctx context.Context, query string, arg any) (*domain.Authority, error) {
	var a domain.Authority
	err := r.db.QueryRowContext(ctx, query, arg).Scan(&a.ID, &a.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrAuthorityNotFound
		}
		return nil, fmt.Errorf("select authority: %w", err)
	}
	return &a, nil
}

func (r *AuthorityRepository) Create(ctx context.Context, authority *domain.Authority) (*domain.Authority, error) {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO authorities (name) VALUES ($1) RETURNING id`, authority.Name).
		Scan(&authority.ID)
	if err != nil {
		if isUniqueViolation(err, "authorities_name_idx") {
			return nil, domain.ErrAuthorityNameTaken
		}
		return nil, fmt.Errorf("insert authority: %w", err)
	}
	return authority, nil
}

// CreateIfAbsent inserts the named authority, letting the unique name index
// absorb the race when two transactions create it concurrently.
func (r *AuthorityRepository) CreateIfAbsent(ctx context.Context, name string) error {
	if _, err := r.db.ExecContext(ctx,
		`INSERT INTO authorities (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`, name); err != nil {
		return fmt.Errorf("insert authority: %w", err)
	}
	return nil
}
