package postgres

import (
	"context"
	"time"

	"docvault/internal/model"
	"docvault/internal/repository"
)

const userColumns = `id, username, email, password_hash, password_salt, first_name, last_name,
		is_active, is_admin, last_login_at, created_at, updated_at`

// UserPostgres is a PostgreSQL implementation of repository.UserRepository.
type UserPostgres struct {
	db repository.DBTX
}

// NewUserPostgres creates a new UserPostgres repository.
func NewUserPostgres(db repository.DBTX) *UserPostgres {
	return &UserPostgres{db: db}
}

var _ repository.UserRepository = (*UserPostgres)(nil)

func scanUser(rs rowScanner) (model.User, error) {
	var u model.User
	err := rs.Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.PasswordHash,
		&u.PasswordSalt,
		&u.FirstName,
		&u.LastName,
		&u.IsActive,
		&u.IsAdmin,
		&u.LastLoginAt,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	return u, err
}

// Create inserts a new user row and returns the stored record.
func (r *UserPostgres) Create(ctx context.Context, u *model.User) (*model.User, error) {
	const q = `
		INSERT INTO users (id, username, email, password_hash, password_salt, first_name, last_name,
			is_active, is_admin, last_login_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING ` + userColumns
	row := r.db.QueryRowContext(ctx, q,
		u.ID,
		u.Username,
		u.Email,
		u.PasswordHash,
		u.PasswordSalt,
		u.FirstName,
		u.LastName,
		u.IsActive,
		u.IsAdmin,
		u.LastLoginAt,
		u.CreatedAt,
		u.UpdatedAt,
	)
	out, err := scanUser(row)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// FindByID fetches a user by ID.
func (r *UserPostgres) FindByID(ctx context.Context, id string) (*model.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	u, err := scanUser(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// FindByUsername fetches a user by unique username.
func (r *UserPostgres) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	u, err := scanUser(r.db.QueryRowContext(ctx, q, username))
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// FindByEmail fetches a user by unique email.
func (r *UserPostgres) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	u, err := scanUser(r.db.QueryRowContext(ctx, q, email))
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Update replaces the profile and status fields of a user.
func (r *UserPostgres) Update(ctx context.Context, u *model.User) (*model.User, error) {
	const q = `
		UPDATE users
		SET email = $1, first_name = $2, last_name = $3, is_active = $4, is_admin = $5, updated_at = $6
		WHERE id = $7
		RETURNING ` + userColumns
	row := r.db.QueryRowContext(ctx, q,
		u.Email,
		u.FirstName,
		u.LastName,
		u.IsActive,
		u.IsAdmin,
		u.UpdatedAt,
		u.ID,
	)
	out, err := scanUser(row)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// SetLastLogin stamps the last successful login time.
func (r *UserPostgres) SetLastLogin(ctx context.Context, id string, at time.Time) (bool, error) {
	const q = `UPDATE users SET last_login_at = $1, updated_at = $1 WHERE id = $2`
	res, err := r.db.ExecContext(ctx, q, at, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// List returns users ordered by username.
func (r *UserPostgres) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.User], error) {
	const qCount = `SELECT COUNT(*) FROM users`
	var total int
	if err := r.db.QueryRowContext(ctx, qCount).Scan(&total); err != nil {
		return nil, err
	}

	const qList = `
		SELECT ` + userColumns + `
		FROM users
		ORDER BY username ASC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.QueryContext(ctx, qList, pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.User]{Items: items, Total: total}, nil
}
