package server

import (
	"context"
	"fmt"
	"net/http"

	"framebrowse/pkg/browse"
	"framebrowse/pkg/models"
	"framebrowse/pkg/tree"

	"github.com/labstack/echo/v4"
)

func framesKey(group, video string, page, pageSize int, sortBy tree.Sort) string {
	return fmt.Sprintf("%s/%s:p=%d:s=%d:sort=%s", group, video, page, pageSize, sortBy)
}

func (bs *BrowseServer) listFrames(ctx echo.Context) error {
	group := ctx.Param("group")
	video := ctx.Param("video")
	sortBy := tree.Sort(ctx.QueryParam("sort"))
	if sortBy == "" {
		sortBy = tree.SortFrame
	}
	page, err := queryInt(ctx, "page", 1)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, map[string]string{
			"error": "malformed page parameter",
		})
	}
	pageSize, err := queryInt(ctx, "limit", browse.DefaultPageSize)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, map[string]string{
			"error": "malformed limit parameter",
		})
	}

	result, err := bs.framesCache.Get(ctx.Request().Context(), framesKey(group, video, page, pageSize, sortBy),
		func(loadCtx context.Context) (*models.FramesResult, error) {
			return bs.browser.ListFrames(loadCtx, group, video, page, pageSize, sortBy)
		})
	if err != nil {
		return browseError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, result)
}
