package server

import (
	"net/http"

	"framebrowse/pkg/browse"
	"framebrowse/pkg/models"

	"github.com/labstack/echo/v4"
)

type neighborsResponse struct {
	Frames []models.FrameDescriptor `json:"frames"`
}

// getNeighbors returns the frames surrounding one target frame in its video,
// half the limit on each side, clipped at the video boundaries.
func (bs *BrowseServer) getNeighbors(ctx echo.Context) error {
	key := ctx.QueryParam("key")
	if key == "" {
		return ctx.JSON(http.StatusBadRequest, map[string]string{
			"error": "missing key parameter",
		})
	}
	limit, err := queryInt(ctx, "limit", browse.DefaultNeighborLimit)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, map[string]string{
			"error": "malformed limit parameter",
		})
	}

	frames, err := bs.browser.Neighbors(ctx.Request().Context(), key, limit)
	if err != nil {
		return browseError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, neighborsResponse{Frames: frames})
}
