package server

import (
	"net/http"

	"framebrowse/pkg/models"

	"github.com/labstack/echo/v4"
)

// maxLookupKeys bounds one lookup request.
const maxLookupKeys = 1000

type lookupRequest struct {
	Keys []string `json:"keys"`
}

type lookupResponse struct {
	Frames  []models.FrameDescriptor `json:"frames"`
	Skipped int                      `json:"skipped"`
}

// lookupFrames resolves record keys to frame descriptors in request order as
// far as the catalog allows. Keys with no record are simply absent from the
// result; stored records whose keys no longer parse are counted as skipped.
func (bs *BrowseServer) lookupFrames(ctx echo.Context) error {
	var req lookupRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, map[string]string{
			"error": "malformed request body",
		})
	}
	if len(req.Keys) == 0 {
		return ctx.JSON(http.StatusBadRequest, map[string]string{
			"error": "no keys given",
		})
	}
	if len(req.Keys) > maxLookupKeys {
		return ctx.JSON(http.StatusBadRequest, map[string]string{
			"error": "too many keys",
		})
	}

	frames, skipped, err := bs.browser.Lookup(ctx.Request().Context(), req.Keys)
	if err != nil {
		return browseError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, lookupResponse{Frames: frames, Skipped: skipped})
}
