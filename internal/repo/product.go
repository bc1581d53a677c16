package repo

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/electronics_store/internal/models"
	"github.com/Skotchmaster/electronics_store/internal/util"
)

var productSort = sortColumns{
	"title":           "title",
	"price":           "price",
	"discountedPrice": "discounted_price",
	"addedDate":       "added_date",
	"quantity":        "quantity",
}

func (r *GormRepo) CreateProduct(ctx context.Context, p *models.Product) error {
	return r.DB.WithContext(ctx).Omit(clause.Associations).Create(p).Error
}

func (r *GormRepo) SaveProduct(ctx context.Context, p *models.Product) error {
	return r.DB.WithContext(ctx).Omit(clause.Associations).Save(p).Error
}

func (r *GormRepo) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	var p models.Product
	if err := r.DB.WithContext(ctx).Preload("Category").Where("id = ?", id).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// GetProductsByIDs returns the products in the order of ids, skipping missing ones.
func (r *GormRepo) GetProductsByIDs(ctx context.Context, ids []string) ([]models.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var found []models.Product
	if err := r.DB.WithContext(ctx).Preload("Category").Where("id IN ?", ids).Find(&found).Error; err != nil {
		return nil, err
	}
	byID := make(map[string]models.Product, len(found))
	for _, p := range found {
		byID[p.ID] = p
	}
	out := make([]models.Product, 0, len(found))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *GormRepo) ListProducts(ctx context.Context, p util.PageRequest) ([]models.Product, int64, error) {
	return r.listProducts(r.DB.WithContext(ctx).Model(&models.Product{}), p)
}

func (r *GormRepo) ListLiveProducts(ctx context.Context, p util.PageRequest) ([]models.Product, int64, error) {
	return r.listProducts(r.DB.WithContext(ctx).Model(&models.Product{}).Where("live = ?", true), p)
}

func (r *GormRepo) ListProductsByCategory(ctx context.Context, categoryID string, p util.PageRequest) ([]models.Product, int64, error) {
	return r.listProducts(r.DB.WithContext(ctx).Model(&models.Product{}).Where("category_id = ?", categoryID), p)
}

func (r *GormRepo) SearchProducts(ctx context.Context, keyword string, p util.PageRequest) ([]models.Product, int64, error) {
	q := r.DB.WithContext(ctx).Model(&models.Product{}).Where("LOWER(title) LIKE ?", likePattern(keyword))
	return r.listProducts(q, p)
}

func (r *GormRepo) listProducts(q *gorm.DB, p util.PageRequest) ([]models.Product, int64, error) {
	var items []models.Product
	total, err := paginate(q, p, productSort.orderBy(p, "title"), &items, "Category")
	return items, total, err
}

// DeleteProduct drops cart lines pointing at the product, then the product.
// Order items keep their snapshot and product id.
func (r *GormRepo) DeleteProduct(ctx context.Context, id string) error {
	db := r.DB.WithContext(ctx)

	if err := db.Where("product_id = ?", id).Delete(&models.CartItem{}).Error; err != nil {
		return err
	}
	res := db.Delete(&models.Product{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
