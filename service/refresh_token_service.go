package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"database/sql"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"go-project-api/logger"
	"go-project-api/model"
	"go-project-api/repository"
	"time"
)

var (
	ErrRefreshTokenNotFound = errors.New("refresh token not found")
	ErrRefreshTokenExpired  = errors.New("refresh token expired, please login again")
)

// IRefreshTokenService manages the durable, single-live-token-per-user
// refresh credentials.
type IRefreshTokenService interface {
	Issue(ctx context.Context, userID int) (string, *model.RefreshToken, error)
	Lookup(rawToken string) (*model.RefreshToken, error)
	VerifyNotExpired(token *model.RefreshToken) error
	RevokeAllForUser(userID int) error
}

// RefreshTokenService implements IRefreshTokenService on top of Postgres.
// Only the SHA-256 hash of a token ever reaches the database.
type RefreshTokenService struct {
	db   *sql.DB
	repo repository.ITokenRepository
	ttl  time.Duration
}

func NewRefreshTokenService(db *sql.DB, repo repository.ITokenRepository, ttl time.Duration) *RefreshTokenService {
	return &RefreshTokenService{db: db, repo: repo, ttl: ttl}
}

// HashToken derives the storage key for a raw refresh token.
func HashToken(rawToken string) string {
	sum := sha256.Sum256([]byte(rawToken))
	return hex.EncodeToString(sum[:])
}

func generateTokenString() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("could not generate refresh token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// Issue creates a fresh refresh token for the user. Deleting any existing
// tokens and inserting the new one happen in a single transaction keyed on
// the user id, so concurrent logins or refreshes for the same user cannot
// leave two live tokens behind.
func (s *RefreshTokenService) Issue(ctx context.Context, userID int) (string, *model.RefreshToken, error) {
	rawToken, err := generateTokenString()
	if err != nil {
		return "", nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", nil, fmt.Errorf("could not begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.repo.DeleteByUserIDTx(tx, userID); err != nil {
		return "", nil, fmt.Errorf("could not delete previous refresh tokens: %w", err)
	}

	token := &model.RefreshToken{
		UserID:    userID,
		TokenHash: HashToken(rawToken),
		ExpiresAt: time.Now().Add(s.ttl),
	}
	if err := s.repo.Create(tx, token); err != nil {
		return "", nil, fmt.Errorf("could not create refresh token: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", nil, fmt.Errorf("could not commit transaction: %w", err)
	}

	return rawToken, token, nil
}

// Lookup resolves a presented raw token to its stored row.
func (s *RefreshTokenService) Lookup(rawToken string) (*model.RefreshToken, error) {
	token, err := s.repo.GetByTokenHash(HashToken(rawToken))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrRefreshTokenNotFound
		}
		return nil, err
	}
	return token, nil
}

// VerifyNotExpired fails for a token past its expiry and deletes the stale
// row as a side effect; the caller must re-authenticate.
func (s *RefreshTokenService) VerifyNotExpired(token *model.RefreshToken) error {
	if time.Now().Before(token.ExpiresAt) {
		return nil
	}

	if err := s.repo.DeleteByID(token.ID); err != nil {
		logger.Log.WithField("token_id", token.ID).WithError(err).Error("Failed to delete expired refresh token")
	}
	return ErrRefreshTokenExpired
}

// RevokeAllForUser deletes every refresh token of the user (logout).
func (s *RefreshTokenService) RevokeAllForUser(userID int) error {
	return s.repo.DeleteByUserID(userID)
}
