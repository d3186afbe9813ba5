package server

import (
	"net/http"

	"framebrowse/pkg/log"

	"github.com/labstack/echo/v4"
)

type healthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Search  string `json:"search"`
}

// getHealth reports liveness. A dead catalog is fatal for every endpoint and
// yields 503; a dead search backend only degrades /api/search, so it is
// reported but does not fail the check.
func (bs *BrowseServer) getHealth(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	if err := bs.catalog.Ping(reqCtx); err != nil {
		log.Error().Err(err).Msg("Catalog ping failed")
		return ctx.JSON(http.StatusServiceUnavailable, healthResponse{
			Status:  "down",
			Version: bs.version,
			Search:  "unknown",
		})
	}

	searchStatus := "up"
	if bs.search == nil {
		searchStatus = "disabled"
	} else if err := bs.search.Healthy(reqCtx); err != nil {
		log.Warn().Err(err).Msg("Search backend health check failed")
		searchStatus = "down"
	}

	return ctx.JSON(http.StatusOK, healthResponse{
		Status:  "ok",
		Version: bs.version,
		Search:  searchStatus,
	})
}
