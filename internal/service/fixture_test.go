package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/electronics_store/internal/events"
	"github.com/Skotchmaster/electronics_store/internal/models"
	"github.com/Skotchmaster/electronics_store/internal/repo"
	"github.com/Skotchmaster/electronics_store/internal/storage"
	"github.com/Skotchmaster/electronics_store/internal/testutil"
	"github.com/Skotchmaster/electronics_store/internal/transport"
	"github.com/Skotchmaster/electronics_store/pkg/tokens"
)

type fixture struct {
	repo       *repo.GormRepo
	events     *events.Recorder
	images     *storage.ImageStore
	users      *UserService
	categories *CategoryService
	products   *ProductService
	carts      *CartService
	orders     *OrderService
	refresh    *RefreshService
	auth       *AuthService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	r := testutil.NewRepo(t)
	rec := &events.Recorder{}
	images := &storage.ImageStore{Root: t.TempDir()}

	f := &fixture{repo: r, events: rec, images: images}
	f.users = &UserService{Repo: r, Images: images, Events: rec}
	f.products = &ProductService{Repo: r, Images: images, Events: rec}
	f.categories = &CategoryService{Repo: r, Images: images, Events: rec, Products: f.products}
	f.carts = &CartService{Repo: r, Events: rec}
	f.orders = &OrderService{Repo: r, Events: rec}
	f.refresh = &RefreshService{Repo: r, TTL: 5 * 24 * time.Hour}
	f.auth = &AuthService{
		Repo:    r,
		Users:   f.users,
		Refresh: f.refresh,
		Tokens:  &tokens.Issuer{Secret: []byte("test-jwt-secret"), Name: "test", TTL: 15 * time.Minute},
	}
	return f
}

func (f *fixture) user(t *testing.T, email string) *models.User {
	t.Helper()
	u, err := f.users.Create(context.Background(), transport.CreateUserRequest{
		FullName: "Test User",
		Email:    email,
		Password: "password",
		Gender:   "male",
		About:    "about me",
	})
	require.NoError(t, err)
	return u
}

func (f *fixture) product(t *testing.T, title string, discounted int64) *models.Product {
	t.Helper()
	p, err := f.products.Create(context.Background(), transport.ProductRequest{
		Title:           title,
		Description:     title + " description",
		Price:           discounted + 50,
		DiscountedPrice: discounted,
		Quantity:        10,
		Live:            true,
		Stock:           true,
	})
	require.NoError(t, err)
	return p
}

func (f *fixture) cartItemCount(t *testing.T, userID string) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.repo.DB.Model(&models.CartItem{}).
		Joins("JOIN carts ON carts.id = cart_items.cart_id").
		Where("carts.user_id = ?", userID).
		Count(&n).Error)
	return n
}
