package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/Skotchmaster/electronics_store/internal/domain"
	"github.com/Skotchmaster/electronics_store/internal/events"
	"github.com/Skotchmaster/electronics_store/internal/models"
	"github.com/Skotchmaster/electronics_store/internal/repo"
	"github.com/Skotchmaster/electronics_store/internal/transport"
)

type CartService struct {
	Repo   *repo.GormRepo
	Events events.Publisher
}

func (s *CartService) Get(ctx context.Context, userID string) (*models.Cart, error) {
	if err := s.Repo.UserExists(ctx, userID); err != nil {
		return nil, notFoundOr(err, "user not found with id %s", userID)
	}
	cart, err := s.Repo.GetCartByUser(ctx, userID)
	if err != nil {
		return nil, notFoundOr(err, "cart of user %s not found", userID)
	}
	return cart, nil
}

// AddItem sets the line for req.ProductID to exactly req.Quantity, creating
// the cart on first use. An existing line is overwritten, not incremented.
func (s *CartService) AddItem(ctx context.Context, userID string, req transport.AddCartItemRequest) (*models.Cart, error) {
	if req.Quantity <= 0 {
		return nil, badRequest("requested quantity is not valid: %d", req.Quantity)
	}

	var line models.CartItem
	err := s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		product, err := tx.GetProduct(ctx, req.ProductID)
		if err != nil {
			return notFoundOr(err, "product not found with id %s", req.ProductID)
		}
		if err := tx.UserExists(ctx, userID); err != nil {
			return notFoundOr(err, "user not found with id %s", userID)
		}

		cart, err := tx.LockCartByUser(ctx, userID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			cart = &models.Cart{UserID: userID}
			err = tx.CreateCart(ctx, cart)
		}
		if err != nil {
			return fmt.Errorf("load cart: %w", err)
		}

		price, ok := domain.LinePrice(req.Quantity, product.DiscountedPrice)
		if !ok {
			return badRequest("requested quantity is not valid: %d", req.Quantity)
		}
		for i := range cart.Items {
			if cart.Items[i].ProductID == product.ID {
				line = cart.Items[i]
				line.Quantity = req.Quantity
				line.Price = price
				return tx.UpdateCartItem(ctx, &line)
			}
		}

		line = models.CartItem{CartID: cart.ID, ProductID: product.ID, Quantity: req.Quantity, Price: price}
		return tx.CreateCartItem(ctx, &line)
	})
	if err != nil {
		return nil, err
	}

	publish(ctx, s.Events, events.TopicCarts, events.NewEvent("cart_item_set", userID, map[string]any{
		"product_id": line.ProductID,
		"quantity":   line.Quantity,
		"price":      line.Price,
	}))
	return s.Get(ctx, userID)
}

// ItemOwner returns the id of the user whose cart holds the line.
func (s *CartService) ItemOwner(ctx context.Context, itemID uint) (string, error) {
	owner, err := s.Repo.CartItemOwner(ctx, itemID)
	if err != nil {
		return "", notFoundOr(err, "cart item not found with id %d", itemID)
	}
	return owner, nil
}

func (s *CartService) RemoveItem(ctx context.Context, itemID uint) error {
	if err := s.Repo.DeleteCartItem(ctx, itemID); err != nil {
		return notFoundOr(err, "cart item not found with id %d", itemID)
	}
	publish(ctx, s.Events, events.TopicCarts, events.NewEvent("cart_item_removed", fmt.Sprint(itemID), nil))
	return nil
}

func (s *CartService) Clear(ctx context.Context, userID string) error {
	if err := s.Repo.UserExists(ctx, userID); err != nil {
		return notFoundOr(err, "user not found with id %s", userID)
	}
	cart, err := s.Repo.GetCartByUser(ctx, userID)
	if err != nil {
		return notFoundOr(err, "cart of user %s not found", userID)
	}
	if err := s.Repo.ClearCart(ctx, cart.ID); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	publish(ctx, s.Events, events.TopicCarts, events.NewEvent("cart_cleared", userID, nil))
	return nil
}
