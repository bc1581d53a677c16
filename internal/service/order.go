package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Skotchmaster/electronics_store/internal/domain"
	"github.com/Skotchmaster/electronics_store/internal/events"
	"github.com/Skotchmaster/electronics_store/internal/models"
	"github.com/Skotchmaster/electronics_store/internal/repo"
	"github.com/Skotchmaster/electronics_store/internal/transport"
	"github.com/Skotchmaster/electronics_store/internal/util"
)

type OrderService struct {
	Repo   *repo.GormRepo
	Events events.Publisher
}

// Create converts the user's cart into an order and empties the cart in the
// same transaction. Line prices are copied from the cart, not recomputed.
func (s *OrderService) Create(ctx context.Context, req transport.CreateOrderRequest) (*models.Order, error) {
	status := req.OrderStatus
	if status == "" {
		status = string(domain.OrderPending)
	}
	payment := req.PaymentStatus
	if payment == "" {
		payment = string(domain.PaymentNotPaid)
	}

	var order *models.Order
	err := s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		if err := tx.UserExists(ctx, req.UserID); err != nil {
			return notFoundOr(err, "user not found with id %s", req.UserID)
		}
		cart, err := tx.LockCartByUser(ctx, req.UserID)
		if err != nil {
			return notFoundOr(err, "cart of user %s not found", req.UserID)
		}
		if len(cart.Items) == 0 {
			return badRequest("invalid number of items in cart")
		}

		items := make([]models.OrderItem, 0, len(cart.Items))
		prices := make([]int64, 0, len(cart.Items))
		for _, ci := range cart.Items {
			items = append(items, models.OrderItem{
				ProductID: ci.ProductID,
				Quantity:  ci.Quantity,
				Price:     ci.Price,
			})
			prices = append(prices, ci.Price)
		}
		total, ok := domain.OrderTotal(prices)
		if !ok {
			return badRequest("order total is out of range")
		}

		order = &models.Order{
			UserID:         req.UserID,
			Status:         status,
			PaymentStatus:  payment,
			Amount:         total,
			BillingName:    req.BillingName,
			BillingPhone:   req.BillingPhone,
			BillingAddress: req.BillingAddress,
			OrderDate:      time.Now().UTC(),
			Items:          items,
		}
		if err := tx.CreateOrder(ctx, order); err != nil {
			return fmt.Errorf("create order: %w", err)
		}
		if err := tx.ClearCart(ctx, cart.ID); err != nil {
			return fmt.Errorf("clear cart: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	publish(ctx, s.Events, events.TopicOrders, events.NewEvent("order_created", order.ID, map[string]any{
		"user_id": order.UserID,
		"amount":  order.Amount,
		"items":   len(order.Items),
	}))

	created, err := s.Repo.GetOrder(ctx, order.ID)
	if err != nil {
		return nil, fmt.Errorf("reload order: %w", err)
	}
	return created, nil
}

func (s *OrderService) Remove(ctx context.Context, id string) error {
	err := s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		return tx.DeleteOrder(ctx, id)
	})
	if err != nil {
		return notFoundOr(err, "order not found with id %s", id)
	}
	publish(ctx, s.Events, events.TopicOrders, events.NewEvent("order_deleted", id, nil))
	return nil
}

func (s *OrderService) ListByUser(ctx context.Context, userID string) ([]models.Order, error) {
	if err := s.Repo.UserExists(ctx, userID); err != nil {
		return nil, notFoundOr(err, "user not found with id %s", userID)
	}
	orders, err := s.Repo.ListOrdersByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	if orders == nil {
		orders = []models.Order{}
	}
	return orders, nil
}

func (s *OrderService) List(ctx context.Context, p util.PageRequest) ([]models.Order, int64, error) {
	return s.Repo.ListOrders(ctx, p)
}
