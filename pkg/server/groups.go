package server

import (
	"context"
	"fmt"
	"net/http"

	"framebrowse/pkg/models"
	"framebrowse/pkg/tree"

	"github.com/labstack/echo/v4"
)

func groupsKey(sortBy tree.Sort, limit int) string {
	return fmt.Sprintf("all:sort=%s:limit=%d", sortBy, limit)
}

func (bs *BrowseServer) listGroups(ctx echo.Context) error {
	sortBy := tree.Sort(ctx.QueryParam("sort"))
	if sortBy == "" {
		sortBy = tree.SortName
	}
	limit, err := queryInt(ctx, "limit", 0)
	if err != nil {
		return ctx.JSON(http.StatusBadRequest, map[string]string{
			"error": "malformed limit parameter",
		})
	}

	result, err := bs.groupsCache.Get(ctx.Request().Context(), groupsKey(sortBy, limit),
		func(loadCtx context.Context) (*models.GroupsResult, error) {
			return bs.browser.ListGroups(loadCtx, sortBy, limit)
		})
	if err != nil {
		return browseError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, result)
}
