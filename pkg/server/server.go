package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"framebrowse/pkg/browse"
	"framebrowse/pkg/cache"
	"framebrowse/pkg/catalog"
	"framebrowse/pkg/keys"
	"framebrowse/pkg/log"
	"framebrowse/pkg/models"
	"framebrowse/pkg/search"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

const shutdownTimeout = 10

// Windows bundles the per-tier cache freshness policies.
type Windows struct {
	Groups cache.Window
	Videos cache.Window
	Frames cache.Window
}

// DefaultWindows returns the stock policy for all three tiers.
func DefaultWindows() Windows {
	return Windows{
		Groups: cache.DefaultWindow(cache.TierGroups),
		Videos: cache.DefaultWindow(cache.TierVideos),
		Frames: cache.DefaultWindow(cache.TierFrames),
	}
}

type BrowseServer struct {
	echo    *echo.Echo
	version string

	browser *browse.Browser
	catalog catalog.Catalog
	search  *search.Client

	groupsCache *cache.Cache[*models.GroupsResult]
	videosCache *cache.Cache[*models.VideosResult]
	framesCache *cache.Cache[*models.FramesResult]
}

func NewBrowseServer(version string, cat catalog.Catalog, searchClient *search.Client, backend cache.Backend, windows Windows) *BrowseServer {
	// Caller errors can never succeed on retry; only backend trouble is
	// worth another attempt.
	retryable := cache.Retryable(func(err error) bool {
		return errors.Is(err, browse.ErrBackendUnavailable)
	})

	return &BrowseServer{
		echo:    echo.New(),
		version: version,
		browser: browse.New(cat),
		catalog: cat,
		search:  searchClient,
		groupsCache: cache.New(backend, cache.TierGroups, windows.Groups,
			cache.WithRetryable[*models.GroupsResult](retryable)),
		videosCache: cache.New(backend, cache.TierVideos, windows.Videos,
			cache.WithRetryable[*models.VideosResult](retryable)),
		framesCache: cache.New(backend, cache.TierFrames, windows.Frames,
			cache.WithRetryable[*models.FramesResult](retryable)),
	}
}

func (bs *BrowseServer) Start(addr string) error {
	bs.setupRoutes()

	// Start server in a goroutine
	go func() {
		log.Info().
			Str("addr", addr).
			Str("version", bs.version).
			Msg("Starting browse server")

		if err := bs.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server startup failed")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	return bs.Shutdown()
}

func (bs *BrowseServer) Shutdown() error {
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout*time.Second)
	defer cancel()

	if err := bs.echo.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server shutdown failed")
		return err
	}

	if err := bs.catalog.Close(); err != nil {
		log.Warn().Err(err).Msg("Catalog close failed")
	}

	log.Info().Msg("Server gracefully stopped")
	return nil
}

func (bs *BrowseServer) setupRoutes() {
	bs.echo.HideBanner = true
	bs.echo.HidePort = true

	bs.echo.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${time_rfc3339} ${status} ${method} ${uri} (${latency_human})\n",
	}))
	bs.echo.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	bs.echo.Use(middleware.Recover())

	bs.echo.GET("/health", bs.getHealth)
	bs.echo.GET("/api/stats", bs.getStats)

	bs.echo.GET("/api/groups", bs.listGroups)
	bs.echo.GET("/api/groups/:group/videos", bs.listVideos)
	bs.echo.GET("/api/groups/:group/videos/:video/frames", bs.listFrames)

	bs.echo.POST("/api/groups/:group/prefetch", bs.prefetchGroup)
	bs.echo.POST("/api/groups/:group/videos/:video/prefetch", bs.prefetchVideo)
	bs.echo.POST("/api/invalidate", bs.invalidate)

	bs.echo.POST("/api/frames/lookup", bs.lookupFrames)
	bs.echo.GET("/api/frames/neighbors", bs.getNeighbors)
	bs.echo.POST("/api/search", bs.searchFrames)
}

// browseError renders a browse-layer failure with the matching status code.
func browseError(ctx echo.Context, err error) error {
	var parseErr keys.ParseError
	switch {
	case errors.Is(err, browse.ErrInvalidArgument) || errors.As(err, &parseErr):
		return ctx.JSON(http.StatusBadRequest, map[string]string{
			"error": err.Error(),
		})
	case errors.Is(err, browse.ErrNotFound):
		return ctx.JSON(http.StatusNotFound, map[string]string{
			"error": err.Error(),
		})
	case errors.Is(err, browse.ErrBackendUnavailable):
		log.Error().Err(err).Msg("Catalog unavailable")
		return ctx.JSON(http.StatusServiceUnavailable, map[string]string{
			"error": "catalog unavailable",
		})
	default:
		log.Error().Err(err).Msg("Request failed")
		return ctx.JSON(http.StatusInternalServerError, map[string]string{
			"error": "internal error",
		})
	}
}

// queryInt reads an integer query parameter, falling back to def when the
// parameter is absent. A present-but-malformed value returns an error so the
// handler can reject the request instead of silently using the default.
func queryInt(ctx echo.Context, name string, def int) (int, error) {
	raw := ctx.QueryParam(name)
	if raw == "" {
		return def, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, err
	}
	return value, nil
}
