package repo

import (
	"context"

	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/electronics_store/internal/models"
)

func (r *GormRepo) FindRefreshByUser(ctx context.Context, userID string) (*models.RefreshToken, error) {
	var rt models.RefreshToken
	if err := r.DB.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).Where("user_id = ?", userID).First(&rt).Error; err != nil {
		return nil, err
	}
	return &rt, nil
}

func (r *GormRepo) FindRefreshByToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	var rt models.RefreshToken
	if err := r.DB.WithContext(ctx).Where("token = ?", token).First(&rt).Error; err != nil {
		return nil, err
	}
	return &rt, nil
}

func (r *GormRepo) CreateRefresh(ctx context.Context, rt *models.RefreshToken) error {
	return r.DB.WithContext(ctx).Create(rt).Error
}

func (r *GormRepo) SaveRefresh(ctx context.Context, rt *models.RefreshToken) error {
	return r.DB.WithContext(ctx).Save(rt).Error
}

func (r *GormRepo) DeleteRefresh(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Delete(&models.RefreshToken{}, "id = ?", id).Error
}
