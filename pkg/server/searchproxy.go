package server

import (
	"errors"
	"net/http"

	"framebrowse/pkg/log"
	"framebrowse/pkg/models"
	"framebrowse/pkg/search"

	"github.com/labstack/echo/v4"
)

const defaultSearchLimit = 100

type searchProxyRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit"`
}

type searchProxyResponse struct {
	Results []models.ScoredFrame `json:"results"`
	Dropped int                  `json:"dropped"`
}

// searchFrames forwards a text query to the search backend and resolves the
// returned keys against the catalog. Hits the catalog no longer holds are
// dropped and counted; the backend's score ordering is preserved.
func (bs *BrowseServer) searchFrames(ctx echo.Context) error {
	if bs.search == nil {
		return ctx.JSON(http.StatusServiceUnavailable, map[string]string{
			"error": "search disabled",
		})
	}

	var req searchProxyRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, map[string]string{
			"error": "malformed request body",
		})
	}
	if req.Query == "" {
		return ctx.JSON(http.StatusBadRequest, map[string]string{
			"error": "empty query",
		})
	}
	if req.Limit <= 0 {
		req.Limit = defaultSearchLimit
	}

	hits, err := bs.search.Search(ctx.Request().Context(), req.Query, req.Limit)
	if err != nil {
		if errors.Is(err, search.ErrUnavailable) {
			log.Error().Err(err).Msg("Search backend unavailable")
			return ctx.JSON(http.StatusServiceUnavailable, map[string]string{
				"error": "search backend unavailable",
			})
		}
		return browseError(ctx, err)
	}
	if len(hits) == 0 {
		return ctx.JSON(http.StatusOK, searchProxyResponse{Results: []models.ScoredFrame{}})
	}

	hitKeys := make([]string, 0, len(hits))
	for _, hit := range hits {
		hitKeys = append(hitKeys, hit.Key)
	}
	frames, skipped, err := bs.browser.Lookup(ctx.Request().Context(), hitKeys)
	if err != nil {
		return browseError(ctx, err)
	}

	byKey := make(map[string]models.FrameDescriptor, len(frames))
	for _, frame := range frames {
		byKey[frame.Key] = frame
	}

	results := make([]models.ScoredFrame, 0, len(hits))
	dropped := skipped
	for _, hit := range hits {
		frame, ok := byKey[hit.Key]
		if !ok {
			dropped++
			continue
		}
		results = append(results, models.ScoredFrame{FrameDescriptor: frame, Score: hit.Score})
	}
	if dropped > 0 {
		log.Warn().Int("dropped", dropped).Str("query", req.Query).
			Msg("Search hits without catalog records")
	}

	return ctx.JSON(http.StatusOK, searchProxyResponse{Results: results, Dropped: dropped})
}
