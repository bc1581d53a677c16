package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/electronics_store/internal/service"
	"github.com/Skotchmaster/electronics_store/internal/transport"
	"github.com/Skotchmaster/electronics_store/pkg/logging"
)

type UserHTTP struct {
	Svc *service.UserService
}

func (h *UserHTTP) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.create")

	var req transport.CreateUserRequest
	if err := bindValid(c, &req); err != nil {
		return fail(l, "create_user_failed", err)
	}
	user, err := h.Svc.Create(ctx, req)
	if err != nil {
		return fail(l, "create_user_failed", err)
	}

	l.Info("create_user_success", "user_id", user.ID)
	return c.JSON(http.StatusCreated, user)
}

func (h *UserHTTP) Update(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.update")

	id, err := pathID(c, "id")
	if err != nil {
		return fail(l, "update_user_failed", err)
	}
	var req transport.UpdateUserRequest
	if err := bindValid(c, &req); err != nil {
		return fail(l, "update_user_failed", err)
	}
	user, err := h.Svc.Update(ctx, id, req)
	if err != nil {
		return fail(l, "update_user_failed", err)
	}

	l.Info("update_user_success", "user_id", id)
	return c.JSON(http.StatusOK, user)
}

func (h *UserHTTP) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.delete")

	id, err := pathID(c, "id")
	if err != nil {
		return fail(l, "delete_user_failed", err)
	}
	if err := h.Svc.Delete(ctx, id); err != nil {
		return fail(l, "delete_user_failed", err)
	}

	l.Info("delete_user_success", "user_id", id)
	return c.JSON(http.StatusOK, apiResponse(http.StatusOK, "user is deleted successfully", true))
}

func (h *UserHTTP) Get(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.get")

	id, err := pathID(c, "id")
	if err != nil {
		return fail(l, "get_user_failed", err)
	}
	user, err := h.Svc.Get(ctx, id)
	if err != nil {
		return fail(l, "get_user_failed", err)
	}
	return c.JSON(http.StatusOK, user)
}

func (h *UserHTTP) GetByEmail(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.get_by_email")

	email, err := pathID(c, "email")
	if err != nil {
		return fail(l, "get_user_failed", err)
	}
	user, err := h.Svc.GetByEmail(ctx, email)
	if err != nil {
		return fail(l, "get_user_failed", err)
	}
	return c.JSON(http.StatusOK, user)
}

func (h *UserHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.list")

	p := pageRequest(c)
	users, total, err := h.Svc.List(ctx, p)
	if err != nil {
		return fail(l, "list_users_failed", err)
	}
	return c.JSON(http.StatusOK, transport.NewPage(users, total, p))
}

func (h *UserHTTP) Search(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.search")

	p := pageRequest(c)
	users, total, err := h.Svc.Search(ctx, c.Param("keyword"), p)
	if err != nil {
		return fail(l, "search_users_failed", err)
	}
	return c.JSON(http.StatusOK, transport.NewPage(users, total, p))
}

func (h *UserHTTP) UploadImage(c echo.Context) error {
	return uploadImage(c, "user.upload_image", "userImage", h.Svc.UploadImage)
}

func (h *UserHTTP) ServeImage(c echo.Context) error {
	return serveImage(c, "user.serve_image", h.Svc.OpenImage)
}
