package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/electronics_store/internal/service"
	"github.com/Skotchmaster/electronics_store/internal/transport"
	"github.com/Skotchmaster/electronics_store/pkg/logging"
)

type ProductHTTP struct {
	Svc *service.ProductService
}

func (h *ProductHTTP) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.create")

	var req transport.ProductRequest
	if err := bindValid(c, &req); err != nil {
		return fail(l, "create_product_failed", err)
	}
	p, err := h.Svc.Create(ctx, req)
	if err != nil {
		return fail(l, "create_product_failed", err)
	}

	l.Info("create_product_success", "product_id", p.ID)
	return c.JSON(http.StatusCreated, p)
}

func (h *ProductHTTP) Update(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.update")

	id, err := pathID(c, "id")
	if err != nil {
		return fail(l, "update_product_failed", err)
	}
	var req transport.ProductRequest
	if err := bindValid(c, &req); err != nil {
		return fail(l, "update_product_failed", err)
	}
	p, err := h.Svc.Update(ctx, id, req)
	if err != nil {
		return fail(l, "update_product_failed", err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *ProductHTTP) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.delete")

	id, err := pathID(c, "id")
	if err != nil {
		return fail(l, "delete_product_failed", err)
	}
	if err := h.Svc.Delete(ctx, id); err != nil {
		return fail(l, "delete_product_failed", err)
	}

	l.Info("delete_product_success", "product_id", id)
	return c.JSON(http.StatusOK, apiResponse(http.StatusOK, "product is deleted successfully", true))
}

func (h *ProductHTTP) Get(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get")

	id, err := pathID(c, "id")
	if err != nil {
		return fail(l, "get_product_failed", err)
	}
	p, err := h.Svc.Get(ctx, id)
	if err != nil {
		return fail(l, "get_product_failed", err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *ProductHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.list")

	p := pageRequest(c)
	items, total, err := h.Svc.List(ctx, p)
	if err != nil {
		return fail(l, "list_products_failed", err)
	}
	return c.JSON(http.StatusOK, transport.NewPage(items, total, p))
}

func (h *ProductHTTP) ListLive(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.list_live")

	p := pageRequest(c)
	items, total, err := h.Svc.ListLive(ctx, p)
	if err != nil {
		return fail(l, "list_products_failed", err)
	}
	return c.JSON(http.StatusOK, transport.NewPage(items, total, p))
}

func (h *ProductHTTP) Search(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.search")

	p := pageRequest(c)
	items, total, err := h.Svc.Search(ctx, c.Param("keyword"), p)
	if err != nil {
		return fail(l, "search_products_failed", err)
	}
	return c.JSON(http.StatusOK, transport.NewPage(items, total, p))
}

func (h *ProductHTTP) UploadImage(c echo.Context) error {
	return uploadImage(c, "product.upload_image", "productImage", h.Svc.UploadImage)
}

func (h *ProductHTTP) ServeImage(c echo.Context) error {
	return serveImage(c, "product.serve_image", h.Svc.OpenImage)
}
