package identity

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ariefcatur/artisan-market/internal/apperr"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

type Repo struct{ DB *pgxpool.Pool }

const userColumns = `id, email, name, password_hash, is_active, is_staff, created_at, updated_at`

func scanUser(row pgx.Row) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.IsActive, &u.IsStaff, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *Repo) Create(ctx context.Context, email, name, passwordHash string) (*User, error) {
	id := uuid.NewString()
	row := r.DB.QueryRow(ctx, `
		INSERT INTO users(id, email, name, password_hash)
		VALUES ($1, $2, $3, $4)
		RETURNING `+userColumns, id, email, name, passwordHash)
	u, err := scanUser(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, apperr.Wrap(apperr.KindConflict, ErrEmailTaken)
		}
		return nil, err
	}
	return u, nil
}

func (r *Repo) GetByEmail(ctx context.Context, email string) (*User, error) {
	row := r.DB.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email=$1`, email)
	u, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.Wrap(apperr.KindNotFound, ErrUserNotFound)
	}
	return u, err
}

func (r *Repo) GetByID(ctx context.Context, id string) (*User, error) {
	row := r.DB.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id=$1`, id)
	u, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.Wrap(apperr.KindNotFound, ErrUserNotFound)
	}
	return u, err
}

// Authenticate resolves email+password to an active user. The same error is
// returned for unknown email and wrong password.
func (r *Repo) Authenticate(ctx context.Context, email, password string) (*User, error) {
	u, err := r.GetByEmail(ctx, email)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindUnauthorized, ErrInvalidCredentials)
	}
	if !u.IsActive || !CheckPassword(u.PasswordHash, password) {
		return nil, apperr.Wrap(apperr.KindUnauthorized, ErrInvalidCredentials)
	}
	return u, nil
}
