package repo

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/electronics_store/internal/models"
	"github.com/Skotchmaster/electronics_store/internal/util"
)

var orderSort = sortColumns{
	"orderDate":   "order_date",
	"orderAmount": "amount",
	"orderStatus": "status",
}

// CreateOrder inserts the order and its items. Product rows are never touched.
func (r *GormRepo) CreateOrder(ctx context.Context, o *models.Order) error {
	db := r.DB.WithContext(ctx)
	if err := db.Omit(clause.Associations).Create(o).Error; err != nil {
		return err
	}
	if len(o.Items) == 0 {
		return nil
	}
	for i := range o.Items {
		o.Items[i].OrderID = o.ID
	}
	return db.Omit(clause.Associations).Create(&o.Items).Error
}

func (r *GormRepo) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	var o models.Order
	if err := r.DB.WithContext(ctx).Preload("Items.Product").Where("id = ?", id).First(&o).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *GormRepo) ListOrdersByUser(ctx context.Context, userID string) ([]models.Order, error) {
	var orders []models.Order
	err := r.DB.WithContext(ctx).
		Preload("Items.Product").
		Where("user_id = ?", userID).
		Order("order_date DESC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *GormRepo) ListOrders(ctx context.Context, p util.PageRequest) ([]models.Order, int64, error) {
	var orders []models.Order
	q := r.DB.WithContext(ctx).Model(&models.Order{})
	total, err := paginate(q, p, orderSort.orderBy(p, "orderDate"), &orders, "Items.Product")
	return orders, total, err
}

// DeleteOrder removes the order and its items. Must run inside a transaction.
func (r *GormRepo) DeleteOrder(ctx context.Context, id string) error {
	db := r.DB.WithContext(ctx)
	if err := db.Where("order_id = ?", id).Delete(&models.OrderItem{}).Error; err != nil {
		return err
	}
	res := db.Delete(&models.Order{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
