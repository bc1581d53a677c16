package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/electronics_store/internal/service"
	"github.com/Skotchmaster/electronics_store/internal/transport"
	"github.com/Skotchmaster/electronics_store/pkg/logging"
)

type CategoryHTTP struct {
	Svc      *service.CategoryService
	Products *service.ProductService
}

func (h *CategoryHTTP) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "category.create")

	var req transport.CategoryRequest
	if err := bindValid(c, &req); err != nil {
		return fail(l, "create_category_failed", err)
	}
	cat, err := h.Svc.Create(ctx, req)
	if err != nil {
		return fail(l, "create_category_failed", err)
	}

	l.Info("create_category_success", "category_id", cat.ID)
	return c.JSON(http.StatusCreated, cat)
}

func (h *CategoryHTTP) Update(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "category.update")

	id, err := pathID(c, "id")
	if err != nil {
		return fail(l, "update_category_failed", err)
	}
	var req transport.CategoryRequest
	if err := bindValid(c, &req); err != nil {
		return fail(l, "update_category_failed", err)
	}
	cat, err := h.Svc.Update(ctx, id, req)
	if err != nil {
		return fail(l, "update_category_failed", err)
	}
	return c.JSON(http.StatusOK, cat)
}

func (h *CategoryHTTP) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "category.delete")

	id, err := pathID(c, "id")
	if err != nil {
		return fail(l, "delete_category_failed", err)
	}
	if err := h.Svc.Delete(ctx, id); err != nil {
		return fail(l, "delete_category_failed", err)
	}

	l.Info("delete_category_success", "category_id", id)
	return c.JSON(http.StatusOK, apiResponse(http.StatusOK, "category is deleted successfully", true))
}

func (h *CategoryHTTP) Get(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "category.get")

	id, err := pathID(c, "id")
	if err != nil {
		return fail(l, "get_category_failed", err)
	}
	cat, err := h.Svc.Get(ctx, id)
	if err != nil {
		return fail(l, "get_category_failed", err)
	}
	return c.JSON(http.StatusOK, cat)
}

func (h *CategoryHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "category.list")

	p := pageRequest(c)
	items, total, err := h.Svc.List(ctx, p)
	if err != nil {
		return fail(l, "list_categories_failed", err)
	}
	return c.JSON(http.StatusOK, transport.NewPage(items, total, p))
}

func (h *CategoryHTTP) Search(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "category.search")

	p := pageRequest(c)
	items, total, err := h.Svc.Search(ctx, c.Param("keyword"), p)
	if err != nil {
		return fail(l, "search_categories_failed", err)
	}
	return c.JSON(http.StatusOK, transport.NewPage(items, total, p))
}

func (h *CategoryHTTP) UploadImage(c echo.Context) error {
	return uploadImage(c, "category.upload_image", "categoryImage", h.Svc.UploadImage)
}

func (h *CategoryHTTP) ServeImage(c echo.Context) error {
	return serveImage(c, "category.serve_image", h.Svc.OpenImage)
}

func (h *CategoryHTTP) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "category.create_product")

	id, err := pathID(c, "id")
	if err != nil {
		return fail(l, "create_product_failed", err)
	}
	var req transport.ProductRequest
	if err := bindValid(c, &req); err != nil {
		return fail(l, "create_product_failed", err)
	}
	p, err := h.Products.CreateInCategory(ctx, id, req)
	if err != nil {
		return fail(l, "create_product_failed", err)
	}

	l.Info("create_product_success", "product_id", p.ID, "category_id", id)
	return c.JSON(http.StatusCreated, p)
}

func (h *CategoryHTTP) AssignProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "category.assign_product")

	id, err := pathID(c, "id")
	if err != nil {
		return fail(l, "assign_product_failed", err)
	}
	productID, err := pathID(c, "productId")
	if err != nil {
		return fail(l, "assign_product_failed", err)
	}
	p, err := h.Products.AssignCategory(ctx, id, productID)
	if err != nil {
		return fail(l, "assign_product_failed", err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *CategoryHTTP) ListProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "category.list_products")

	id, err := pathID(c, "id")
	if err != nil {
		return fail(l, "list_products_failed", err)
	}
	p := pageRequest(c)
	items, total, err := h.Products.ListByCategory(ctx, id, p)
	if err != nil {
		return fail(l, "list_products_failed", err)
	}
	return c.JSON(http.StatusOK, transport.NewPage(items, total, p))
}
