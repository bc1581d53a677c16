package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/Skotchmaster/electronics_store/internal/models"
	"github.com/Skotchmaster/electronics_store/internal/util"
)

var categorySort = sortColumns{
	"title": "title",
}

func (r *GormRepo) CreateCategory(ctx context.Context, c *models.Category) error {
	return r.DB.WithContext(ctx).Create(c).Error
}

func (r *GormRepo) SaveCategory(ctx context.Context, c *models.Category) error {
	return r.DB.WithContext(ctx).Save(c).Error
}

func (r *GormRepo) GetCategory(ctx context.Context, id string) (*models.Category, error) {
	var c models.Category
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *GormRepo) ListCategories(ctx context.Context, p util.PageRequest) ([]models.Category, int64, error) {
	var items []models.Category
	total, err := paginate(r.DB.WithContext(ctx).Model(&models.Category{}), p, categorySort.orderBy(p, "title"), &items)
	return items, total, err
}

func (r *GormRepo) SearchCategories(ctx context.Context, keyword string, p util.PageRequest) ([]models.Category, int64, error) {
	var items []models.Category
	q := r.DB.WithContext(ctx).Model(&models.Category{}).Where("LOWER(title) LIKE ?", likePattern(keyword))
	total, err := paginate(q, p, categorySort.orderBy(p, "title"), &items)
	return items, total, err
}

// ProductIDsByCategory lists the ids of the products filed under a category.
func (r *GormRepo) ProductIDsByCategory(ctx context.Context, categoryID string) ([]string, error) {
	var ids []string
	err := r.DB.WithContext(ctx).Model(&models.Product{}).
		Where("category_id = ?", categoryID).
		Order("id ASC").
		Pluck("id", &ids).Error
	return ids, err
}

// DeleteCategory detaches the category's products and removes the category row.
func (r *GormRepo) DeleteCategory(ctx context.Context, id string) error {
	db := r.DB.WithContext(ctx)

	if err := db.Model(&models.Product{}).Where("category_id = ?", id).Update("category_id", nil).Error; err != nil {
		return err
	}
	res := db.Delete(&models.Category{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
