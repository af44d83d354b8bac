package session

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrNoCredential means no token has been saved for this installation.
	ErrNoCredential = errors.New("no stored credential")
	// ErrExpiredCredential means the stored token's exp claim is in the past
	// and the user must authenticate again.
	ErrExpiredCredential = errors.New("stored credential has expired")
)

// Repository persists the bearer credential between runs. It implements the
// token source consumed by the API client.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new Repository instance.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// SaveToken stores the credential, replacing any previous one.
func (r *Repository) SaveToken(ctx context.Context, token string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO credentials (id, token, saved_at) VALUES (1, ?, ?)
		ON CONFLICT (id) DO UPDATE SET token = excluded.token, saved_at = excluded.saved_at`,
		token, time.Now().UTC())
	return err
}

// Clear removes the stored credential.
func (r *Repository) Clear(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM credentials WHERE id = 1`)
	return err
}

// Token returns the stored credential. Missing or locally-expired tokens
// return an error so callers can surface an auth failure before spending a
// network round trip.
func (r *Repository) Token(ctx context.Context) (string, error) {
	var token string
	err := r.db.QueryRowContext(ctx, `SELECT token FROM credentials WHERE id = 1`).Scan(&token)
	if err == sql.ErrNoRows {
		return "", ErrNoCredential
	}
	if err != nil {
		return "", err
	}
	if expired(token, time.Now()) {
		return "", ErrExpiredCredential
	}
	return token, nil
}

// expired inspects the token's exp claim without verifying the signature;
// verification is the server's job. Opaque tokens and tokens without an exp
// claim pass through untouched.
func expired(token string, now time.Time) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(now)
}
