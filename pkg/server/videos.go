package server

import (
	"context"
	"fmt"
	"net/http"

	"framebrowse/pkg/models"
	"framebrowse/pkg/tree"

	"github.com/labstack/echo/v4"
)

func videosKey(group string, sortBy tree.Sort, sample bool) string {
	return fmt.Sprintf("%s:sort=%s:sample=%t", group, sortBy, sample)
}

func (bs *BrowseServer) listVideos(ctx echo.Context) error {
	group := ctx.Param("group")
	sortBy := tree.Sort(ctx.QueryParam("sort"))
	if sortBy == "" {
		sortBy = tree.SortName
	}
	// Sample thumbnails are part of the normal listing; sample=false is the
	// opt-out for clients that only need the counts.
	sample := ctx.QueryParam("sample") != "false"

	result, err := bs.videosCache.Get(ctx.Request().Context(), videosKey(group, sortBy, sample),
		func(loadCtx context.Context) (*models.VideosResult, error) {
			return bs.browser.ListVideos(loadCtx, group, sortBy, sample)
		})
	if err != nil {
		return browseError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, result)
}
