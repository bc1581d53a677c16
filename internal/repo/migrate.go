package repo

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/Skotchmaster/electronics_store/internal/domain"
	"github.com/Skotchmaster/electronics_store/internal/models"
)

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

// SeedRoles makes sure every known role has a row.
func (r *GormRepo) SeedRoles(ctx context.Context) error {
	for _, role := range []domain.Role{domain.RoleAdmin, domain.RoleUser} {
		if _, err := r.EnsureRole(ctx, string(role)); err != nil {
			return fmt.Errorf("seed role %s: %w", role, err)
		}
	}
	return nil
}

// SeedAdmin creates an ADMIN+USER account for email unless one already exists.
// passwordHash must already be hashed.
func (r *GormRepo) SeedAdmin(ctx context.Context, fullName, email, passwordHash string) (bool, error) {
	created := false
	err := r.Transaction(ctx, func(tx *GormRepo) error {
		if _, err := tx.GetUserByEmail(ctx, email); err == nil {
			return nil
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		admin, err := tx.EnsureRole(ctx, string(domain.RoleAdmin))
		if err != nil {
			return err
		}
		user, err := tx.EnsureRole(ctx, string(domain.RoleUser))
		if err != nil {
			return err
		}
		created = true
		return tx.CreateUser(ctx, &models.User{
			FullName: fullName,
			Email:    email,
			Password: passwordHash,
			About:    "administrator",
			Roles:    []models.Role{*admin, *user},
		})
	})
	return created, err
}
