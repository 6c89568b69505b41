package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/fingestao/fingestao-api/utils"
)

// TokenService mints, rotates and revokes authentication credentials.
// Access tokens are self-contained; refresh tokens are additionally
// persisted one row per live token.
type TokenService struct {
	db *sql.DB
}

func NewTokenService(db *sql.DB) *TokenService {
	return &TokenService{db: db}
}

// IssuePair mints an access/refresh token pair and persists the refresh
// token record.
func (s *TokenService) IssuePair(ctx context.Context, userID string) (string, string, error) {
	accessToken, err := utils.GenerateAccessToken(userID)
	if err != nil {
		return "", "", fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := utils.GenerateRefreshToken(userID)
	if err != nil {
		return "", "", fmt.Errorf("failed to generate refresh token: %w", err)
	}

	if err := s.storeRefreshToken(ctx, userID, refreshToken); err != nil {
		return "", "", err
	}

	return accessToken, refreshToken, nil
}

// Rotate exchanges a refresh token for a new pair. Refresh tokens are
// single-use: the old record is deleted before the new one is inserted, so
// of two concurrent refreshes at most one succeeds and the loser gets
// ErrInvalidToken.
func (s *TokenService) Rotate(ctx context.Context, refreshToken string) (string, string, string, error) {
	userID, err := utils.ParseToken(refreshToken, utils.TokenTypeRefresh)
	if err != nil {
		return "", "", "", err
	}

	var storedID string
	err = s.db.QueryRowContext(ctx,
		`SELECT id FROM refresh_tokens WHERE token = $1 AND user_id = $2`,
		refreshToken, userID,
	).Scan(&storedID)
	if err == sql.ErrNoRows {
		return "", "", "", utils.ErrInvalidToken
	}
	if err != nil {
		return "", "", "", fmt.Errorf("failed to look up refresh token: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, `DELETE FROM refresh_tokens WHERE token = $1`, refreshToken); err != nil {
		return "", "", "", fmt.Errorf("failed to delete refresh token: %w", err)
	}

	accessToken, newRefreshToken, err := s.IssuePair(ctx, userID)
	if err != nil {
		return "", "", "", err
	}

	return userID, accessToken, newRefreshToken, nil
}

// Revoke deletes the matching refresh token record. Idempotent: revoking an
// unknown token is not an error.
func (s *TokenService) Revoke(ctx context.Context, refreshToken string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM refresh_tokens WHERE token = $1`, refreshToken)
	return err
}

// SweepExpired removes refresh token rows past their expiry.
func (s *TokenService) SweepExpired(ctx context.Context) (int64, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM refresh_tokens WHERE expires_at < NOW()`)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (s *TokenService) storeRefreshToken(ctx context.Context, userID, token string) error {
	now := time.Now().UTC()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO refresh_tokens (id, user_id, token, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5)
	`, uuid.New().String(), userID, token, now, now.Add(utils.RefreshTokenTTL))
	if err != nil {
		return fmt.Errorf("failed to store refresh token: %w", err)
	}
	return nil
}
