package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/Skotchmaster/electronics_store/internal/models"
	"github.com/Skotchmaster/electronics_store/internal/util"
)

var userSort = sortColumns{
	"fullName":  "full_name",
	"email":     "email",
	"createdAt": "created_at",
}

// EnsureRole returns the role row with the given name, creating it when absent.
func (r *GormRepo) EnsureRole(ctx context.Context, name string) (*models.Role, error) {
	role := models.Role{Name: name}
	if err := r.DB.WithContext(ctx).Where("name = ?", name).FirstOrCreate(&role).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *GormRepo) EmailTaken(ctx context.Context, email string) (bool, error) {
	var n int64
	if err := r.DB.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *GormRepo) CreateUser(ctx context.Context, u *models.User) error {
	return r.DB.WithContext(ctx).Create(u).Error
}

func (r *GormRepo) SaveUser(ctx context.Context, u *models.User) error {
	return r.DB.WithContext(ctx).Omit("Roles").Save(u).Error
}

func (r *GormRepo) GetUser(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	if err := r.DB.WithContext(ctx).Preload("Roles").Where("id = ?", id).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *GormRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := r.DB.WithContext(ctx).Preload("Roles").Where("email = ?", email).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *GormRepo) UserExists(ctx context.Context, id string) error {
	var n int64
	if err := r.DB.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormRepo) ListUsers(ctx context.Context, p util.PageRequest) ([]models.User, int64, error) {
	var users []models.User
	q := r.DB.WithContext(ctx).Model(&models.User{})
	total, err := paginate(q, p, userSort.orderBy(p, "fullName"), &users, "Roles")
	return users, total, err
}

func (r *GormRepo) SearchUsers(ctx context.Context, keyword string, p util.PageRequest) ([]models.User, int64, error) {
	var users []models.User
	q := r.DB.WithContext(ctx).Model(&models.User{}).Where("LOWER(full_name) LIKE ?", likePattern(keyword))
	total, err := paginate(q, p, userSort.orderBy(p, "fullName"), &users, "Roles")
	return users, total, err
}

// DeleteUserCascade removes the user together with everything it owns.
// Must run inside a transaction.
func (r *GormRepo) DeleteUserCascade(ctx context.Context, u *models.User) error {
	db := r.DB.WithContext(ctx)

	if err := db.Where("user_id = ?", u.ID).Delete(&models.RefreshToken{}).Error; err != nil {
		return err
	}
	if err := db.Model(u).Association("Roles").Clear(); err != nil {
		return err
	}

	cartIDs := db.Model(&models.Cart{}).Select("id").Where("user_id = ?", u.ID)
	if err := db.Where("cart_id IN (?)", cartIDs).Delete(&models.CartItem{}).Error; err != nil {
		return err
	}
	if err := db.Where("user_id = ?", u.ID).Delete(&models.Cart{}).Error; err != nil {
		return err
	}

	orderIDs := db.Model(&models.Order{}).Select("id").Where("user_id = ?", u.ID)
	if err := db.Where("order_id IN (?)", orderIDs).Delete(&models.OrderItem{}).Error; err != nil {
		return err
	}
	if err := db.Where("user_id = ?", u.ID).Delete(&models.Order{}).Error; err != nil {
		return err
	}

	res := db.Delete(&models.User{}, "id = ?", u.ID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
