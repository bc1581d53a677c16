package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gorm.io/gorm"

	"github.com/Skotchmaster/electronics_store/internal/domain"
	"github.com/Skotchmaster/electronics_store/internal/events"
	"github.com/Skotchmaster/electronics_store/internal/models"
	"github.com/Skotchmaster/electronics_store/internal/repo"
	"github.com/Skotchmaster/electronics_store/internal/storage"
	"github.com/Skotchmaster/electronics_store/internal/transport"
	"github.com/Skotchmaster/electronics_store/internal/util"
	"github.com/Skotchmaster/electronics_store/pkg/hash"
)

type UserService struct {
	Repo   *repo.GormRepo
	Images *storage.ImageStore
	Events events.Publisher
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *UserService) Create(ctx context.Context, req transport.CreateUserRequest) (*models.User, error) {
	email := normalizeEmail(req.Email)

	taken, err := s.Repo.EmailTaken(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if taken {
		return nil, newError(ErrConflict, "user with email %s already exists", email)
	}

	hashed, err := hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		FullName:  strings.TrimSpace(req.FullName),
		Email:     email,
		Password:  hashed,
		Gender:    req.Gender,
		About:     req.About,
		ImageName: req.ImageName,
	}
	if err := s.createWithDefaultRole(ctx, user); err != nil {
		return nil, err
	}

	publish(ctx, s.Events, events.TopicUsers, events.NewEvent("user_created", user.ID, map[string]string{"email": user.Email}))
	return user, nil
}

func hashPassword(password string) (string, error) {
	hashed, err := hash.HashPassword(password)
	switch {
	case errors.Is(err, hash.ErrEmptyPassword):
		return "", badRequest("password is required")
	case errors.Is(err, hash.ErrPasswordTooLong):
		return "", badRequest("password must be at most 72 bytes")
	case err != nil:
		return "", fmt.Errorf("hash password: %w", err)
	}
	return hashed, nil
}

func (s *UserService) createWithDefaultRole(ctx context.Context, user *models.User) error {
	role, err := s.Repo.EnsureRole(ctx, string(domain.DefaultRole))
	if err != nil {
		return fmt.Errorf("load default role: %w", err)
	}
	user.Roles = []models.Role{*role}
	if err := s.Repo.CreateUser(ctx, user); err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (s *UserService) Update(ctx context.Context, id string, req transport.UpdateUserRequest) (*models.User, error) {
	user, err := s.Repo.GetUser(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "user not found with id %s", id)
	}

	user.FullName = strings.TrimSpace(req.FullName)
	user.Gender = req.Gender
	user.About = req.About
	if req.ImageName != "" {
		user.ImageName = req.ImageName
	}
	if req.Password != "" {
		hashed, err := hashPassword(req.Password)
		if err != nil {
			return nil, err
		}
		user.Password = hashed
	}

	if err := s.Repo.SaveUser(ctx, user); err != nil {
		return nil, fmt.Errorf("save user: %w", err)
	}
	return user, nil
}

// Delete removes the user with its refresh token, roles, cart and orders.
// The profile image is removed best effort after the rows are gone.
func (s *UserService) Delete(ctx context.Context, id string) error {
	user, err := s.Repo.GetUser(ctx, id)
	if err != nil {
		return notFoundOr(err, "user not found with id %s", id)
	}

	err = s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		return tx.DeleteUserCascade(ctx, user)
	})
	if err != nil {
		return notFoundOr(err, "user not found with id %s", id)
	}

	removeImage(ctx, s.Images, storage.KindUser, user.ImageName)
	publish(ctx, s.Events, events.TopicUsers, events.NewEvent("user_deleted", user.ID, nil))
	return nil
}

func (s *UserService) Get(ctx context.Context, id string) (*models.User, error) {
	user, err := s.Repo.GetUser(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "user not found with id %s", id)
	}
	return user, nil
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	email = normalizeEmail(email)
	user, err := s.Repo.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, notFoundOr(err, "user not found with email %s", email)
	}
	return user, nil
}

func (s *UserService) List(ctx context.Context, p util.PageRequest) ([]models.User, int64, error) {
	return s.Repo.ListUsers(ctx, p)
}

func (s *UserService) Search(ctx context.Context, keyword string, p util.PageRequest) ([]models.User, int64, error) {
	return s.Repo.SearchUsers(ctx, keyword, p)
}

// UploadImage stores a new profile image and replaces the previous one.
func (s *UserService) UploadImage(ctx context.Context, id, filename string, r io.Reader) (string, error) {
	user, err := s.Repo.GetUser(ctx, id)
	if err != nil {
		return "", notFoundOr(err, "user not found with id %s", id)
	}

	name, err := saveImage(s.Images, storage.KindUser, filename, r)
	if err != nil {
		return "", err
	}

	old := user.ImageName
	user.ImageName = name
	if err := s.Repo.SaveUser(ctx, user); err != nil {
		removeImage(ctx, s.Images, storage.KindUser, name)
		return "", fmt.Errorf("save user image: %w", err)
	}
	removeImage(ctx, s.Images, storage.KindUser, old)
	return name, nil
}

func (s *UserService) OpenImage(ctx context.Context, id string) (*os.File, string, error) {
	user, err := s.Repo.GetUser(ctx, id)
	if err != nil {
		return nil, "", notFoundOr(err, "user not found with id %s", id)
	}
	return openImage(s.Images, storage.KindUser, user.ImageName)
}

// findOrCreateByEmail is used by federated sign-in.
func (s *UserService) findOrCreateByEmail(ctx context.Context, email string, build func() (*models.User, error)) (*models.User, bool, error) {
	user, err := s.Repo.GetUserByEmail(ctx, email)
	if err == nil {
		return user, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, fmt.Errorf("load user: %w", err)
	}

	user, err = build()
	if err != nil {
		return nil, false, err
	}
	if err := s.createWithDefaultRole(ctx, user); err != nil {
		return nil, false, err
	}
	publish(ctx, s.Events, events.TopicUsers, events.NewEvent("user_created", user.ID, map[string]string{"email": user.Email, "source": "google"}))
	return user, true, nil
}
