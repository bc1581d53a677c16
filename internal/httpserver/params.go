package httpserver

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/electronics_store/internal/util"
)

func pageRequest(c echo.Context) util.PageRequest {
	return util.NewPageRequest(
		util.ParseIntDefault(c.QueryParam("pageNumber"), 0),
		util.ParseIntDefault(c.QueryParam("pageSize"), util.DefaultPageSize),
		c.QueryParam("sortBy"),
		c.QueryParam("sortDir"),
	)
}

// bindValid decodes the request body into dst and runs the registered validator.
func bindValid(c echo.Context, dst any) error {
	if err := c.Bind(dst); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	return c.Validate(dst)
}

func pathID(c echo.Context, name string) (string, error) {
	id := strings.TrimSpace(c.Param(name))
	if id == "" {
		return "", echo.NewHTTPError(http.StatusBadRequest, name+" is required")
	}
	return id, nil
}

func pathUint(c echo.Context, name string) (uint, error) {
	n, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, name+" must be a positive integer")
	}
	return uint(n), nil
}
