package server

import (
	"context"
	"net/http"

	"framebrowse/pkg/browse"
	"framebrowse/pkg/keys"
	"framebrowse/pkg/log"
	"framebrowse/pkg/models"
	"framebrowse/pkg/tree"

	"github.com/labstack/echo/v4"
)

// prefetchGroup warms the video tier for one group ahead of the user opening
// it. The response is 202: the load runs in the background and failures never
// reach the client.
func (bs *BrowseServer) prefetchGroup(ctx echo.Context) error {
	group := ctx.Param("group")
	if !keys.ValidateID(group) {
		return ctx.JSON(http.StatusBadRequest, map[string]string{
			"error": "malformed group id",
		})
	}

	log.Debug().Str("group", group).Msg("Prefetch group requested")
	bs.videosCache.Prefetch(videosKey(group, tree.SortName, true),
		func(loadCtx context.Context) (*models.VideosResult, error) {
			return bs.browser.ListVideos(loadCtx, group, tree.SortName, true)
		})

	return ctx.JSON(http.StatusAccepted, map[string]string{
		"status": "scheduled",
	})
}

// prefetchVideo warms the first frame page of one video.
func (bs *BrowseServer) prefetchVideo(ctx echo.Context) error {
	group := ctx.Param("group")
	video := ctx.Param("video")
	if !keys.ValidateID(group) || !keys.ValidateID(video) {
		return ctx.JSON(http.StatusBadRequest, map[string]string{
			"error": "malformed group or video id",
		})
	}

	log.Debug().Str("group", group).Str("video", video).Msg("Prefetch video requested")
	bs.framesCache.Prefetch(framesKey(group, video, 1, browse.DefaultPageSize, tree.SortFrame),
		func(loadCtx context.Context) (*models.FramesResult, error) {
			return bs.browser.ListFrames(loadCtx, group, video, 1, browse.DefaultPageSize, tree.SortFrame)
		})

	return ctx.JSON(http.StatusAccepted, map[string]string{
		"status": "scheduled",
	})
}
