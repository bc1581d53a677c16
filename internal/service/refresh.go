package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/Skotchmaster/electronics_store/internal/models"
	"github.com/Skotchmaster/electronics_store/internal/repo"
	"github.com/Skotchmaster/electronics_store/pkg/tokens"
)

// RefreshService keeps at most one refresh token per user.
type RefreshService struct {
	Repo *repo.GormRepo
	TTL  time.Duration
	Now  func() time.Time
}

func (s *RefreshService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// Issue resolves the user by email and rotates its refresh token.
func (s *RefreshService) Issue(ctx context.Context, email string) (*models.RefreshToken, error) {
	user, err := s.Repo.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, notFoundOr(err, "user not found with email %s", email)
	}
	return s.IssueForUser(ctx, user.ID)
}

// IssueForUser rotates the user's token row in place, creating it on first use.
func (s *RefreshService) IssueForUser(ctx context.Context, userID string) (*models.RefreshToken, error) {
	value, exp := tokens.NewRefreshToken(s.now(), s.TTL)

	var rt *models.RefreshToken
	err := s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		existing, err := tx.FindRefreshByUser(ctx, userID)
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			rt = &models.RefreshToken{UserID: userID, Token: value, ExpiresAt: exp}
			return tx.CreateRefresh(ctx, rt)
		case err != nil:
			return err
		}
		existing.Token = value
		existing.ExpiresAt = exp
		rt = existing
		return tx.SaveRefresh(ctx, rt)
	})
	if err != nil {
		return nil, fmt.Errorf("issue refresh token: %w", err)
	}
	return rt, nil
}

func (s *RefreshService) FindByToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	rt, err := s.Repo.FindRefreshByToken(ctx, token)
	if err != nil {
		return nil, notFoundOr(err, "refresh token not found")
	}
	return rt, nil
}

// Verify rejects an expired token and deletes it so it cannot be retried.
func (s *RefreshService) Verify(ctx context.Context, rt *models.RefreshToken) (*models.RefreshToken, error) {
	if rt.ExpiresAt.After(s.now()) {
		return rt, nil
	}
	if err := s.Repo.DeleteRefresh(ctx, rt.ID); err != nil {
		return nil, fmt.Errorf("delete expired refresh token: %w", err)
	}
	return nil, unauthorized("refresh token expired, sign in again")
}
