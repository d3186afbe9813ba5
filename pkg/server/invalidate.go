package server

import (
	"net/http"

	"framebrowse/pkg/keys"
	"framebrowse/pkg/log"

	"github.com/labstack/echo/v4"
)

type invalidateRequest struct {
	Group string `json:"group"`
	Video string `json:"video"`
}

// invalidate drops cached results after ingest changed the underlying data.
// Scope narrows with the request: no fields clears every tier, a group clears
// that group's videos and frames, a group+video clears that video's frame
// pages plus the parent video listing whose rollups changed. The groups
// overview aggregates everything, so it is dropped in all three cases.
func (bs *BrowseServer) invalidate(ctx echo.Context) error {
	var req invalidateRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, map[string]string{
			"error": "malformed request body",
		})
	}
	if req.Group != "" && !keys.ValidateID(req.Group) {
		return ctx.JSON(http.StatusBadRequest, map[string]string{
			"error": "malformed group id",
		})
	}
	if req.Video != "" {
		if !keys.ValidateID(req.Video) {
			return ctx.JSON(http.StatusBadRequest, map[string]string{
				"error": "malformed video id",
			})
		}
		if req.Group == "" {
			return ctx.JSON(http.StatusBadRequest, map[string]string{
				"error": "video requires a group",
			})
		}
	}

	reqCtx := ctx.Request().Context()
	var err error
	switch {
	case req.Group == "":
		err = firstErr(
			bs.groupsCache.InvalidatePrefix(reqCtx, ""),
			bs.videosCache.InvalidatePrefix(reqCtx, ""),
			bs.framesCache.InvalidatePrefix(reqCtx, ""),
		)
	case req.Video == "":
		err = firstErr(
			bs.groupsCache.InvalidatePrefix(reqCtx, ""),
			bs.videosCache.InvalidatePrefix(reqCtx, req.Group+":"),
			bs.framesCache.InvalidatePrefix(reqCtx, req.Group+"/"),
		)
	default:
		err = firstErr(
			bs.groupsCache.InvalidatePrefix(reqCtx, ""),
			bs.videosCache.InvalidatePrefix(reqCtx, req.Group+":"),
			bs.framesCache.InvalidatePrefix(reqCtx, req.Group+"/"+req.Video+":"),
		)
	}
	if err != nil {
		log.Error().Err(err).Str("group", req.Group).Str("video", req.Video).Msg("Cache invalidation failed")
		return ctx.JSON(http.StatusServiceUnavailable, map[string]string{
			"error": "cache backend unavailable",
		})
	}

	log.Info().Str("group", req.Group).Str("video", req.Video).Msg("Cache invalidated")
	return ctx.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}

func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
