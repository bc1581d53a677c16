package httpserver

import (
	"context"
	"io"
	"net/http"
	"os"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/electronics_store/internal/transport"
	"github.com/Skotchmaster/electronics_store/pkg/logging"
)

type (
	uploadFunc func(ctx context.Context, id, filename string, r io.Reader) (string, error)
	openFunc   func(ctx context.Context, id string) (*os.File, string, error)
)

// uploadImage reads the multipart file in field and hands it to upload.
func uploadImage(c echo.Context, handler, field string, upload uploadFunc) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", handler)

	id, err := pathID(c, "id")
	if err != nil {
		return fail(l, "upload_image_failed", err)
	}
	fh, err := c.FormFile(field)
	if err != nil {
		return fail(l, "upload_image_failed", echo.NewHTTPError(http.StatusBadRequest, "multipart field "+field+" is required"))
	}
	src, err := fh.Open()
	if err != nil {
		return fail(l, "upload_image_failed", err)
	}
	defer src.Close()

	name, err := upload(ctx, id, fh.Filename, src)
	if err != nil {
		return fail(l, "upload_image_failed", err)
	}

	l.Info("upload_image_success", "image", name)
	return c.JSON(http.StatusCreated, transport.ImageResponse{
		ImageName:   name,
		APIResponse: apiResponse(http.StatusCreated, "image is uploaded successfully", true),
	})
}

func serveImage(c echo.Context, handler string, open openFunc) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", handler)

	id, err := pathID(c, "id")
	if err != nil {
		return fail(l, "serve_image_failed", err)
	}
	f, ctype, err := open(ctx, id)
	if err != nil {
		return fail(l, "serve_image_failed", err)
	}
	defer f.Close()

	return c.Stream(http.StatusOK, ctype, f)
}
