package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/electronics_store/internal/middleware/auth"
	"github.com/Skotchmaster/electronics_store/internal/service"
	"github.com/Skotchmaster/electronics_store/internal/transport"
	"github.com/Skotchmaster/electronics_store/pkg/logging"
)

type CartHTTP struct {
	Svc *service.CartService
}

func (h *CartHTTP) Get(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.get")

	userID, err := pathID(c, "id")
	if err != nil {
		return fail(l, "get_cart_failed", err)
	}
	cart, err := h.Svc.Get(ctx, userID)
	if err != nil {
		return fail(l, "get_cart_failed", err)
	}
	return c.JSON(http.StatusOK, cart)
}

func (h *CartHTTP) AddItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.add_item")

	userID, err := pathID(c, "id")
	if err != nil {
		return fail(l, "add_cart_item_failed", err)
	}
	var req transport.AddCartItemRequest
	if err := bindValid(c, &req); err != nil {
		return fail(l, "add_cart_item_failed", err)
	}
	cart, err := h.Svc.AddItem(ctx, userID, req)
	if err != nil {
		return fail(l, "add_cart_item_failed", err)
	}

	l.Info("add_cart_item_success", "product_id", req.ProductID, "quantity", req.Quantity)
	return c.JSON(http.StatusOK, cart)
}

func (h *CartHTTP) RemoveItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.remove_item")

	itemID, err := pathUint(c, "id")
	if err != nil {
		return fail(l, "remove_cart_item_failed", err)
	}
	owner, err := h.Svc.ItemOwner(ctx, itemID)
	if err != nil {
		return fail(l, "remove_cart_item_failed", err)
	}
	if p, ok := auth.PrincipalFrom(ctx); !ok || !p.CanActFor(owner) {
		return fail(l, "remove_cart_item_failed", echo.NewHTTPError(http.StatusForbidden, "you can only change your own cart"))
	}
	if err := h.Svc.RemoveItem(ctx, itemID); err != nil {
		return fail(l, "remove_cart_item_failed", err)
	}
	return c.JSON(http.StatusOK, apiResponse(http.StatusOK, "item is removed from cart", true))
}

func (h *CartHTTP) Clear(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.clear")

	userID, err := pathID(c, "id")
	if err != nil {
		return fail(l, "clear_cart_failed", err)
	}
	if err := h.Svc.Clear(ctx, userID); err != nil {
		return fail(l, "clear_cart_failed", err)
	}

	l.Info("clear_cart_success")
	return c.JSON(http.StatusOK, apiResponse(http.StatusOK, "cart is cleared", true))
}
