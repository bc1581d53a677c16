package transport

import (
	"time"
)

type CreateUserRequest struct {
	FullName  string `json:"fullName"      validate:"required,min=3,max=25"`
	Email     string `json:"email"         validate:"required,email"`
	Password  string `json:"password"      validate:"required"`
	Gender    string `json:"gender"        validate:"omitempty,min=4,max=6"`
	About     string `json:"about"         validate:"required"`
	ImageName string `json:"userImageName"`
}

// UpdateUserRequest keeps the current password when Password is empty.
type UpdateUserRequest struct {
	FullName  string `json:"fullName"      validate:"required,min=3,max=25"`
	Password  string `json:"password"`
	Gender    string `json:"gender"        validate:"omitempty,min=4,max=6"`
	About     string `json:"about"         validate:"required"`
	ImageName string `json:"userImageName"`
}

type CategoryRequest struct {
	Title       string `json:"title"       validate:"required,min=4"`
	Description string `json:"description" validate:"required"`
	CoverImage  string `json:"coverImage"`
}

type ProductRequest struct {
	Title           string `json:"title"            validate:"required"`
	Description     string `json:"description"`
	Price           int64  `json:"price"            validate:"gte=0"`
	DiscountedPrice int64  `json:"discountedPrice"  validate:"gte=0"`
	Quantity        int    `json:"quantity"         validate:"gte=0"`
	Live            bool   `json:"live"`
	Stock           bool   `json:"stock"`
	ImageName       string `json:"productImageName"`
}

type AddCartItemRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity"`
}

type CreateOrderRequest struct {
	UserID         string `json:"userId"         validate:"required"`
	OrderStatus    string `json:"orderStatus"    validate:"omitempty,oneof=PENDING DISPATCHED DELIVERED CANCELLED"`
	PaymentStatus  string `json:"paymentStatus"  validate:"omitempty,oneof=NOT_PAID PAID"`
	BillingName    string `json:"billingName"    validate:"required"`
	BillingPhone   string `json:"billingPhone"   validate:"required"`
	BillingAddress string `json:"billingAddress" validate:"required"`
}

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type GoogleLoginRequest struct {
	IDToken string `json:"idToken" validate:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

type RefreshTokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type JwtResponse struct {
	JwtToken     string               `json:"jwtToken"`
	ExpiresAt    time.Time            `json:"expiresAt"`
	User         any                  `json:"user"`
	RefreshToken RefreshTokenResponse `json:"refreshToken"`
}

type APIResponse struct {
	Message string `json:"message"`
	Success bool   `json:"success"`
	Status  string `json:"status"`
}

type ImageResponse struct {
	ImageName string `json:"imageName"`
	APIResponse
}
