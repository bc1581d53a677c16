package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Role struct {
	ID   string `gorm:"primaryKey;type:varchar(36)"          json:"roleId"`
	Name string `gorm:"uniqueIndex;size:32;not null"         json:"roleName"`
}

type User struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)"    json:"userId"`
	FullName  string    `gorm:"size:100;not null"              json:"fullName"`
	Email     string    `gorm:"uniqueIndex;size:255;not null"  json:"email"`
	Password  string    `gorm:"not null"                       json:"-"`
	Gender    string    `gorm:"size:10"                        json:"gender"`
	About     string    `gorm:"size:1000"                      json:"about"`
	ImageName string    `gorm:"size:255"                       json:"userImageName"`
	Roles     []Role    `gorm:"many2many:user_roles"           json:"roles"`
	Orders    []Order   `gorm:"foreignKey:UserID"              json:"-"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"-"`
}

type Category struct {
	ID          string `gorm:"primaryKey;type:varchar(36)"  json:"categoryId"`
	Title       string `gorm:"size:255;not null"            json:"title"`
	Description string `gorm:"type:text"                    json:"description"`
	CoverImage  string `gorm:"size:255"                     json:"coverImage"`
}

type Product struct {
	ID              string    `gorm:"primaryKey;type:varchar(36)"  json:"productId"`
	Title           string    `gorm:"size:255;not null"            json:"title"`
	Description     string    `gorm:"type:text"                    json:"description"`
	Price           int64     `gorm:"not null"                     json:"price"`
	DiscountedPrice int64     `gorm:"not null"                     json:"discountedPrice"`
	Quantity        int       `gorm:"not null"                     json:"quantity"`
	AddedDate       time.Time `json:"addedDate"`
	Live            bool      `gorm:"index"                        json:"live"`
	Stock           bool      `json:"stock"`
	ImageName       string    `gorm:"size:255"                     json:"productImageName"`
	CategoryID      *string   `gorm:"index;type:varchar(36)"       json:"categoryId,omitempty"`
	Category        *Category `gorm:"foreignKey:CategoryID"        json:"category,omitempty"`
}

type Cart struct {
	ID        string     `gorm:"primaryKey;type:varchar(36)"          json:"cartId"`
	UserID    string     `gorm:"uniqueIndex;type:varchar(36);not null" json:"userId"`
	CreatedAt time.Time  `json:"createdAt"`
	Items     []CartItem `gorm:"foreignKey:CartID"                    json:"items"`
}

type CartItem struct {
	ID        uint    `gorm:"primaryKey;autoIncrement"         json:"cartItemId"`
	CartID    string  `gorm:"index;type:varchar(36);not null"  json:"-"`
	ProductID string  `gorm:"index;type:varchar(36);not null"  json:"-"`
	Product   Product `gorm:"foreignKey:ProductID"             json:"product"`
	Quantity  int     `gorm:"not null"                         json:"quantity"`
	Price     int64   `gorm:"not null"                         json:"totalPrice"`
}

type Order struct {
	ID             string      `gorm:"primaryKey;type:varchar(36)"          json:"orderId"`
	UserID         string      `gorm:"index;type:varchar(36);not null"      json:"userId"`
	Status         string      `gorm:"size:32;not null"                     json:"orderStatus"`
	PaymentStatus  string      `gorm:"size:32;not null"                     json:"paymentStatus"`
	Amount         int64       `gorm:"not null"                             json:"orderAmount"`
	BillingName    string      `gorm:"size:255;not null"                    json:"billingName"`
	BillingPhone   string      `gorm:"size:32;not null"                     json:"billingPhone"`
	BillingAddress string      `gorm:"size:1000;not null"                   json:"billingAddress"`
	OrderDate      time.Time   `gorm:"index"                                json:"orderedDate"`
	DeliveredDate  *time.Time  `json:"deliveredDate,omitempty"`
	Items          []OrderItem `gorm:"foreignKey:OrderID"                   json:"orderItems"`
}

type OrderItem struct {
	ID        uint    `gorm:"primaryKey;autoIncrement"         json:"orderItemId"`
	OrderID   string  `gorm:"index;type:varchar(36);not null"  json:"-"`
	ProductID string  `gorm:"index;type:varchar(36);not null"  json:"-"`
	Product   Product `gorm:"foreignKey:ProductID"             json:"product"`
	Quantity  int     `gorm:"not null"                         json:"quantity"`
	Price     int64   `gorm:"not null"                         json:"totalPrice"`
}

type RefreshToken struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"              json:"-"`
	Token     string    `gorm:"uniqueIndex;size:64;not null"          json:"token"`
	ExpiresAt time.Time `gorm:"not null"                              json:"expiresAt"`
	UserID    string    `gorm:"uniqueIndex;type:varchar(36);not null" json:"-"`
}

func newID(id *string) {
	if *id == "" {
		*id = uuid.NewString()
	}
}

func (r *Role) BeforeCreate(*gorm.DB) error     { newID(&r.ID); return nil }
func (u *User) BeforeCreate(*gorm.DB) error     { newID(&u.ID); return nil }
func (c *Category) BeforeCreate(*gorm.DB) error { newID(&c.ID); return nil }
func (c *Cart) BeforeCreate(*gorm.DB) error     { newID(&c.ID); return nil }
func (o *Order) BeforeCreate(*gorm.DB) error    { newID(&o.ID); return nil }

func (p *Product) BeforeCreate(*gorm.DB) error {
	newID(&p.ID)
	if p.AddedDate.IsZero() {
		p.AddedDate = time.Now().UTC()
	}
	return nil
}

// All lists every model in migration order.
func All() []any {
	return []any{
		&Role{}, &User{}, &Category{}, &Product{},
		&Cart{}, &CartItem{}, &Order{}, &OrderItem{}, &RefreshToken{},
	}
}
