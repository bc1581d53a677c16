package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/electronics_store/internal/middleware/auth"
	"github.com/Skotchmaster/electronics_store/internal/service"
	"github.com/Skotchmaster/electronics_store/internal/transport"
	"github.com/Skotchmaster/electronics_store/pkg/logging"
)

type OrderHTTP struct {
	Svc *service.OrderService
}

func (h *OrderHTTP) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.create")

	var req transport.CreateOrderRequest
	if err := bindValid(c, &req); err != nil {
		return fail(l, "create_order_failed", err)
	}
	if p, ok := auth.PrincipalFrom(ctx); ok && !p.CanActFor(req.UserID) {
		return fail(l, "create_order_failed", echo.NewHTTPError(http.StatusForbidden, "you can only order for your own account"))
	}

	order, err := h.Svc.Create(ctx, req)
	if err != nil {
		return fail(l, "create_order_failed", err)
	}

	l.Info("create_order_success", "order_id", order.ID, "amount", order.Amount)
	return c.JSON(http.StatusCreated, order)
}

func (h *OrderHTTP) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.delete")

	id, err := pathID(c, "id")
	if err != nil {
		return fail(l, "delete_order_failed", err)
	}
	if err := h.Svc.Remove(ctx, id); err != nil {
		return fail(l, "delete_order_failed", err)
	}

	l.Info("delete_order_success", "order_id", id)
	return c.JSON(http.StatusOK, apiResponse(http.StatusOK, "order is removed", true))
}

func (h *OrderHTTP) ListByUser(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.list_by_user")

	userID, err := pathID(c, "id")
	if err != nil {
		return fail(l, "list_orders_failed", err)
	}
	orders, err := h.Svc.ListByUser(ctx, userID)
	if err != nil {
		return fail(l, "list_orders_failed", err)
	}
	return c.JSON(http.StatusOK, orders)
}

func (h *OrderHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.list")

	p := pageRequest(c)
	orders, total, err := h.Svc.List(ctx, p)
	if err != nil {
		return fail(l, "list_orders_failed", err)
	}
	return c.JSON(http.StatusOK, transport.NewPage(orders, total, p))
}
