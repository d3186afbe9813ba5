package main

import (
	"context"
	_ "embed"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"framebrowse/pkg/cache"
	"framebrowse/pkg/catalog"
	"framebrowse/pkg/config"
	"framebrowse/pkg/log"
	"framebrowse/pkg/search"
	"framebrowse/pkg/server"
)

const dbDirPerm = 0750

//go:embed VERSION
var Version string

func main() {
	// Initialize logger first
	_ = log.Logger

	cfg := config.Load()

	addr := flag.String("addr", cfg.Addr, "Listen address")
	dbPath := flag.String("db", cfg.DBPath, "Catalog database path")
	searchURL := flag.String("search", cfg.SearchBackendURL, "Search backend URL (empty disables search)")
	debug := flag.Bool("debug", cfg.Debug, "Enable debug logging")
	flag.Parse()

	if *debug {
		log.SetDebugMode()
	}

	if err := os.MkdirAll(filepath.Dir(*dbPath), dbDirPerm); err != nil {
		log.Fatal().Err(err).Str("db_path", *dbPath).Msg("Failed to create database directory")
	}

	cat, err := catalog.NewSQLite(*dbPath)
	if err != nil {
		log.Fatal().Err(err).Str("db_path", *dbPath).Msg("Failed to open catalog")
	}

	backend, err := newCacheBackend(cfg)
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.CacheBackend).Msg("Failed to create cache backend")
	}

	var searchClient *search.Client
	if *searchURL != "" {
		searchClient = search.NewClient(*searchURL, cfg.SearchTimeout)
	}

	windows := server.Windows{
		Groups: cache.Window{Fresh: cfg.GroupsFresh, Expire: cfg.GroupsExpire, Timeout: 2 * time.Second},
		Videos: cache.Window{Fresh: cfg.VideosFresh, Expire: cfg.VideosExpire, Timeout: 3 * time.Second},
		Frames: cache.Window{Fresh: cfg.FramesFresh, Expire: cfg.FramesExpire, Timeout: 5 * time.Second},
	}

	srv := server.NewBrowseServer(strings.TrimSpace(Version), cat, searchClient, backend, windows)

	if err := srv.Start(*addr); err != nil {
		log.Fatal().Err(err).Msg("Server failed to start")
	}

	os.Exit(0)
}

func newCacheBackend(cfg *config.Config) (cache.Backend, error) {
	if cfg.CacheBackend != config.CacheBackendRedis {
		return cache.NewMemoryBackend(cfg.CacheMaxEntries)
	}

	client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	log.Info().Str("addr", cfg.RedisAddr).Msg("Using redis cache backend")
	return cache.NewRedisBackend(client, cfg.RedisKeyPrefix), nil
}
