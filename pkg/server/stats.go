package server

import (
	"net/http"

	"framebrowse/pkg/log"

	"github.com/dustin/go-humanize"
	"github.com/labstack/echo/v4"
)

type statsResponse struct {
	Version        string `json:"version"`
	Groups         int    `json:"groups"`
	Videos         int    `json:"videos"`
	Frames         int64  `json:"frames"`
	TotalSize      int64  `json:"total_size"`
	TotalSizeHuman string `json:"total_size_human"`
	Unparseable    int64  `json:"unparseable"`
}

// getStats is the operator view of the catalog: collection-wide totals read
// straight from the store, bypassing the tier caches.
func (bs *BrowseServer) getStats(ctx echo.Context) error {
	rollups, unparseable, err := bs.catalog.AggregateGroups(ctx.Request().Context())
	if err != nil {
		log.Error().Err(err).Msg("Stats aggregation failed")
		return ctx.JSON(http.StatusServiceUnavailable, map[string]string{
			"error": "catalog unavailable",
		})
	}

	resp := statsResponse{
		Version:     bs.version,
		Groups:      len(rollups),
		Unparseable: unparseable,
	}
	for _, r := range rollups {
		resp.Videos += r.VideoCount
		resp.Frames += r.FrameCount
		resp.TotalSize += r.TotalSize
	}
	resp.TotalSizeHuman = humanize.Bytes(uint64(resp.TotalSize))

	return ctx.JSON(http.StatusOK, resp)
}
