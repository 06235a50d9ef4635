package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/keyguard/internal/common"
)

// SQLRepository implements Repository on database/sql. The same queries work
// for the postgres (pgx) and sqlite drivers; only the placeholder style
// differs, which rebind takes care of.
type SQLRepository struct {
	db       *sql.DB
	postgres bool
}

func NewPostgresRepository(db *sql.DB) *SQLRepository {
	return &SQLRepository{db: db, postgres: true}
}

func NewSQLiteRepository(db *sql.DB) *SQLRepository {
	return &SQLRepository{db: db, postgres: false}
}

// rebind rewrites ? placeholders to $1..$n for postgres.
func (r *SQLRepository) rebind(query string) string {
	if !r.postgres {
		return query
	}
	out := make([]byte, 0, len(query)+8)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			out = append(out, fmt.Sprintf("$%d", n)...)
			continue
		}
		out = append(out, query[i])
	}
	return string(out)
}

func (r *SQLRepository) Get(ctx context.Context, email string) (*User, error) {
	query := r.rebind(
		`SELECT email, salt, password_hash, two_factor, public_key, created_at
		 FROM users
		 WHERE email = ?`)

	user := &User{}
	err := r.db.QueryRowContext(ctx, query, email).
		Scan(&user.Email, &user.Salt, &user.PasswordHash, &user.TwoFactor, &user.PublicKey, &user.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}

	return user, nil
}

func (r *SQLRepository) Create(ctx context.Context, user *User) error {
	// ON CONFLICT DO NOTHING makes the existence check and the insert one
	// atomic statement, so concurrent registrations cannot both succeed.
	query := r.rebind(
		`INSERT INTO users (email, salt, password_hash, two_factor, public_key)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (email) DO NOTHING`)

	res, err := r.db.ExecContext(ctx, query,
		user.Email, user.Salt, user.PasswordHash, user.TwoFactor, user.PublicKey)
	if err != nil {
		return fmt.Errorf("error performing sql request: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error reading result: %w", err)
	}
	if affected == 0 {
		return common.ErrAlreadyExists
	}
	return nil
}

func (r *SQLRepository) Update(ctx context.Context, user *User) error {
	query := r.rebind(
		`UPDATE users
		 SET salt = ?, password_hash = ?, two_factor = ?, public_key = ?
		 WHERE email = ?`)

	res, err := r.db.ExecContext(ctx, query,
		user.Salt, user.PasswordHash, user.TwoFactor, user.PublicKey, user.Email)
	if err != nil {
		return fmt.Errorf("error performing sql request: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error reading result: %w", err)
	}
	if affected == 0 {
		return common.ErrNotFound
	}
	return nil
}
