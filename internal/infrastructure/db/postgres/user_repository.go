package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/initiatives-platform/identity/internal/core/domain"
	"github.com/initiatives-platform/identity/internal/pkg/dbx"
)

// UserRepository persists users and their authority bindings. Lookups
// attach the authority set before returning so callers never observe a
// half-loaded user.
type UserRepository struct {
	db dbx.DBTX
}

func NewUserRepository(db dbx.DBTX) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = "id, username, password, first_name, last_name, email"

type userRow struct {
	id        int64
	username  string
	password  string
	firstName sql.NullString
	lastName  sql.NullString
	email     sql.NullString
}

func (r *userRow) toDomain() *domain.User {
	return &domain.User{
		ID:        r.id,
		Username:  r.username,
		Password:  r.password,
		FirstName: r.firstName.String,
		LastName:  r.lastName.String,
		Email:     r.email.String,
	}
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func (r *UserRepository) FindAll(ctx context.Context) ([]domain.User, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("select users: %w", err)
	}
	defer rows.Close()

	var users []domain.User
	index := make(map[int64]int)
	for rows.Next() {
		var row userRow
		if err := rows.Scan(&row.id, &row.username, &row.password, &row.firstName, &row.lastName, &row.email); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		index[row.id] = len(users)
		users = append(users, *row.toDomain())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("select users: %w", err)
	}

	bindings, err := r.db.QueryContext(ctx,
		`SELECT ua.user_id, a.id, a.name
		 FROM user_authority ua
		 JOIN authorities a ON a.id = ua.authority_id`)
	if err != nil {
		return nil, fmt.Errorf("select user authorities: %w", err)
	}
	defer bindings.Close()

	for bindings.Next() {
		var userID int64
		var authority domain.Authority
		if err := bindings.Scan(&userID, &authority.ID, &authority.Name); err != nil {
			return nil, fmt.Errorf("scan user authority: %w", err)
		}
		if i, ok := index[userID]; ok {
			users[i].Authorities = append(users[i].Authorities, authority)
		}
	}
	if err := bindings.Err(); err != nil {
		return nil, fmt.Errorf("select user authorities: %w", err)
	}

	return users, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

// FindByIDForUpdate locks the user row for the rest of the transaction.
func (r *UserRepository) FindByIDForUpdate(ctx context.Context, id int64) (*domain.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1 FOR UPDATE`, id)
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE LOWER(username) = LOWER($1)`, username)
}

func (r *UserRepository) findOne(ctx context.Context, query string, arg any) (*domain.User, error) {
	var row userRow
	err := r.db.QueryRowContext(ctx, query, arg).
		Scan(&row.id, &row.username, &row.password, &row.firstName, &row.lastName, &row.email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("select user: %w", err)
	}

	user := row.toDomain()
	user.Authorities, err = r.Authorities(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO users (username, password, first_name, last_name, email)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`,
		user.Username, user.Password, nullable(user.FirstName), nullable(user.LastName), nullable(user.Email)).
		Scan(&user.ID)
	if err != nil {
		if isUniqueViolation(err, "users_username_lower_idx") {
			return nil, domain.ErrUsernameTaken
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return user, nil
}

func (r *UserRepository) Update(ctx context.Context, user *domain.User) (*domain.User, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users
		 SET username = $2, password = $3, first_name = $4, last_name = $5, email = $6
		 WHERE id = $1`,
		user.ID, user.Username, user.Password, nullable(user.FirstName), nullable(user.LastName), nullable(user.Email))
	if err != nil {
		if isUniqueViolation(err, "users_username_lower_idx") {
			return nil, domain.ErrUsernameTaken
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	if n == 0 {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if n == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) Authorities(ctx context.Context, userID int64) ([]domain.Authority, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT a.id, a.name
		 FROM authorities a
		 JOIN user_authority ua ON ua.authority_id = a.id
		 WHERE ua.user_id = $1`, userID)
	if err != nil {
		return nil, fmt.Errorf("select user authorities: %w", err)
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
		return nil, fmt.Errorf("select user authorities: %w", err)
	}
	return authorities, nil
}

func (r *UserRepository) AddAuthority(ctx context.Context, userID, authorityID int64) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO user_authority (user_id, authority_id) VALUES ($1, $2)`, userID, authorityID)
	if err != nil {
		if isUniqueViolation(err, "user_authority_pkey") {
			return domain.ErrAuthorityPresent
		}
		return fmt.Errorf("insert user authority: %w", err)
	}
	return nil
}

func (r *UserRepository) RemoveAuthority(ctx context.Context, userID, authorityID int64) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM user_authority WHERE user_id = $1 AND authority_id = $2`, userID, authorityID)
	if err != nil {
		return fmt.Errorf("delete user authority: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete user authority: %w", err)
	}
	if n == 0 {
		return domain.ErrAuthorityAbsent
	}
	return nil
}

func (r *UserRepository) ClearAuthorities(ctx context.Context, userID int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM user_authority WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("clear user authorities: %w", err)
	}
	return nil
}
