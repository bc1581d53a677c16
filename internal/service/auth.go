package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/electronics_store/internal/google"
	"github.com/Skotchmaster/electronics_store/internal/models"
	"github.com/Skotchmaster/electronics_store/internal/repo"
	"github.com/Skotchmaster/electronics_store/pkg/hash"
	"github.com/Skotchmaster/electronics_store/pkg/tokens"
)

type IdentityVerifier interface {
	Verify(ctx context.Context, idToken string) (*google.Identity, error)
}

type AuthService struct {
	Repo    *repo.GormRepo
	Users   *UserService
	Refresh *RefreshService
	Tokens  *tokens.Issuer
	Google  IdentityVerifier
}

type LoginResult struct {
	AccessToken string
	AccessExp   time.Time
	User        *models.User
	Refresh     *models.RefreshToken
}

const badCredentials = "invalid username or password"

func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.Repo.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, unauthorized(badCredentials)
		}
		return nil, fmt.Errorf("load user: %w", err)
	}
	if !hash.CheckPassword(user.Password, password) {
		return nil, unauthorized(badCredentials)
	}
	return s.signIn(ctx, user)
}

// LoginWithGoogle signs in the owner of a verified Google ID token,
// registering an account on first sign-in.
func (s *AuthService) LoginWithGoogle(ctx context.Context, idToken string) (*LoginResult, error) {
	if s.Google == nil {
		return nil, badRequest("google sign-in is not configured")
	}
	id, err := s.Google.Verify(ctx, idToken)
	if errors.Is(err, google.ErrInvalidIDToken) {
		return nil, badRequest("Invalid Google user")
	}
	if err != nil {
		return nil, fmt.Errorf("verify google token: %w", err)
	}

	email := normalizeEmail(id.Email)
	user, _, err := s.Users.findOrCreateByEmail(ctx, email, func() (*models.User, error) {
		// the account has no usable password until the user sets one
		hashed, err := hash.HashPassword(uuid.NewString())
		if err != nil {
			return nil, err
		}
		name := strings.TrimSpace(id.Name)
		if name == "" {
			name = email
		}
		// id.Picture is a remote URL, not a stored image name.
		return &models.User{
			FullName: name,
			Email:    email,
			Password: hashed,
			About:    "signed up with google",
		}, nil
	})
	if err != nil {
		return nil, err
	}
	return s.signIn(ctx, user)
}

// Regenerate exchanges a valid refresh token for a new access token.
// The refresh token itself is returned unchanged.
func (s *AuthService) Regenerate(ctx context.Context, refreshToken string) (*LoginResult, error) {
	rt, err := s.Refresh.FindByToken(ctx, refreshToken)
	if err != nil {
		return nil, err
	}
	rt, err = s.Refresh.Verify(ctx, rt)
	if err != nil {
		return nil, err
	}

	user, err := s.Repo.GetUser(ctx, rt.UserID)
	if err != nil {
		return nil, notFoundOr(err, "user not found with id %s", rt.UserID)
	}

	access, exp, err := s.Tokens.SignAccess(user.Email, user.ID, roleNames(user))
	if err != nil {
		return nil, err
	}
	return &LoginResult{AccessToken: access, AccessExp: exp, User: user, Refresh: rt}, nil
}

func (s *AuthService) signIn(ctx context.Context, user *models.User) (*LoginResult, error) {
	access, exp, err := s.Tokens.SignAccess(user.Email, user.ID, roleNames(user))
	if err != nil {
		return nil, err
	}
	rt, err := s.Refresh.IssueForUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return &LoginResult{AccessToken: access, AccessExp: exp, User: user, Refresh: rt}, nil
}

func roleNames(u *models.User) []string {
	out := make([]string, len(u.Roles))
	for i, r := range u.Roles {
		out[i] = r.Name
	}
	return out
}
