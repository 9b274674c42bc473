package registration

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/willvault/registry/pkg/tiers"
)

var (
	// ErrEmailTaken is returned when the email is already registered.
	ErrEmailTaken = errors.New("email is already registered")
	// ErrUsernameTaken is returned when the username is already registered.
	ErrUsernameTaken = errors.New("username is already taken")
	// ErrAccountNotFound is returned when no account matches the lookup.
	ErrAccountNotFound = errors.New("account not found")
	// ErrFailedToCreateAccount wraps unexpected insert failures.
	ErrFailedToCreateAccount = errors.New("failed to create account")
)

// Account is a stored user account.
type Account struct {
	ID           uuid.UUID
	AuthID       uuid.UUID
	Email        string
	Username     string
	PasswordHash string
	FirstName    string
	LastName     string
	Level        tiers.Level
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// AccountStore persists accounts created by the registration flow.
type AccountStore interface {
	Create(ctx context.Context, account *Account) error
	EmailExists(ctx context.Context, email string) (bool, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	GetByAuthID(ctx context.Context, authID uuid.UUID) (*Account, error)
	UpdateLevel(ctx context.Context, authID uuid.UUID, level tiers.Level) error
}

// PgAccountStore is the pgx-backed AccountStore.
type PgAccountStore struct {
	pool *pgxpool.Pool
}

// NewPgAccountStore returns an AccountStore over the given pool.
func NewPgAccountStore(pool *pgxpool.Pool) *PgAccountStore {
	return &PgAccountStore{pool: pool}
}

// Create inserts the account and fills in its timestamps. Unique
// conflicts map to ErrEmailTaken and ErrUsernameTaken.
func (s *PgAccountStore) Create(ctx context.Context, account *Account) error {
	row := s.pool.QueryRow(ctx, `
		INSERT INTO accounts (id, auth_id, email, username, password_hash, first_name, last_name, level)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at`,
		account.ID, account.AuthID, account.Email, account.Username,
		account.PasswordHash, account.FirstName, account.LastName, string(account.Level),
	)
	if err := row.Scan(&account.CreatedAt, &account.UpdatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			switch pgErr.ConstraintName {
			case "accounts_email_key":
				return ErrEmailTaken
			case "accounts_username_key":
				return ErrUsernameTaken
			}
		}
		return errors.Join(ErrFailedToCreateAccount, err)
	}
	return nil
}

// EmailExists reports whether an account with the email exists.
func (s *PgAccountStore) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM accounts WHERE email = $1)`, email,
	).Scan(&exists)
	return exists, err
}

// UsernameExists reports whether an account with the username exists.
func (s *PgAccountStore) UsernameExists(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM accounts WHERE username = $1)`, username,
	).Scan(&exists)
	return exists, err
}

// UpdateLevel moves the account identified by its auth id to a new
// subscription level.
func (s *PgAccountStore) UpdateLevel(ctx context.Context, authID uuid.UUID, level tiers.Level) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE accounts SET level = $1, updated_at = now() WHERE auth_id = $2`,
		string(level), authID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrAccountNotFound
	}
	return nil
}

// GetByAuthID loads an account by its auth id.
func (s *PgAccountStore) GetByAuthID(ctx context.Context, authID uuid.UUID) (*Account, error) {
	var a Account
	var level string
	err := s.pool.QueryRow(ctx, `
		SELECT id, auth_id, email, username, password_hash, first_name, last_name, level, created_at, updated_at
		FROM accounts WHERE auth_id = $1`, authID,
	).Scan(&a.ID, &a.AuthID, &a.Email, &a.Username, &a.PasswordHash,
		&a.FirstName, &a.LastName, &level, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	a.Level = tiers.Level(level)
	return &a, nil
}
