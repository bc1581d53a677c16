package repo

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/electronics_store/internal/models"
)

// GetCartByUser loads the user's cart with its items and their products.
func (r *GormRepo) GetCartByUser(ctx context.Context, userID string) (*models.Cart, error) {
	var cart models.Cart
	err := r.DB.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Items.Product").
		Where("user_id = ?", userID).
		First(&cart).Error
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// LockCartByUser selects the cart row FOR UPDATE and loads its items.
func (r *GormRepo) LockCartByUser(ctx context.Context, userID string) (*models.Cart, error) {
	var cart models.Cart
	db := r.DB.WithContext(ctx)
	if err := db.Clauses(clause.Locking{Strength: "UPDATE"}).Where("user_id = ?", userID).First(&cart).Error; err != nil {
		return nil, err
	}
	if err := db.Where("cart_id = ?", cart.ID).Order("id ASC").Find(&cart.Items).Error; err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *GormRepo) CreateCart(ctx context.Context, cart *models.Cart) error {
	return r.DB.WithContext(ctx).Omit(clause.Associations).Create(cart).Error
}

func (r *GormRepo) CreateCartItem(ctx context.Context, item *models.CartItem) error {
	return r.DB.WithContext(ctx).Omit(clause.Associations).Create(item).Error
}

func (r *GormRepo) UpdateCartItem(ctx context.Context, item *models.CartItem) error {
	return r.DB.WithContext(ctx).Model(&models.CartItem{}).
		Where("id = ?", item.ID).
		Updates(map[string]any{"quantity": item.Quantity, "price": item.Price}).Error
}

// CartItemOwner returns the id of the user whose cart holds the item.
func (r *GormRepo) CartItemOwner(ctx context.Context, itemID uint) (string, error) {
	var row struct{ UserID string }
	res := r.DB.WithContext(ctx).Model(&models.CartItem{}).
		Select("carts.user_id AS user_id").
		Joins("JOIN carts ON carts.id = cart_items.cart_id").
		Where("cart_items.id = ?", itemID).
		Limit(1).
		Scan(&row)
	if res.Error != nil {
		return "", res.Error
	}
	if res.RowsAffected == 0 {
		return "", gorm.ErrRecordNotFound
	}
	return row.UserID, nil
}

func (r *GormRepo) DeleteCartItem(ctx context.Context, id uint) error {
	res := r.DB.WithContext(ctx).Delete(&models.CartItem{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormRepo) ClearCart(ctx context.Context, cartID string) error {
	return r.DB.WithContext(ctx).Where("cart_id = ?", cartID).Delete(&models.CartItem{}).Error
}
