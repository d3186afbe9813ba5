// framebrowse-seed loads a JSON-lines manifest of frame records into the
// catalog, one FileRecord object per line, and optionally tells a running
// server to drop its caches afterwards.
package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/dustin/go-humanize"

	"framebrowse/pkg/catalog"
	"framebrowse/pkg/log"
	"framebrowse/pkg/models"
)

const (
	batchSize     = 500
	ingestTimeout = 10 * time.Minute
	notifyTimeout = 10 * time.Second
)

func main() {
	_ = log.Logger

	dbPath := flag.String("db", "build/catalog.db", "Catalog database path")
	manifest := flag.String("manifest", "", "JSON-lines manifest file (default stdin)")
	serverURL := flag.String("server", "", "Running server to notify after ingest (empty skips)")
	flag.Parse()

	input := os.Stdin
	if *manifest != "" {
		f, err := os.Open(*manifest)
		if err != nil {
			log.Fatal().Err(err).Str("manifest", *manifest).Msg("Failed to open manifest")
		}
		defer f.Close()
		input = f
	}

	cat, err := catalog.NewSQLite(*dbPath)
	if err != nil {
		log.Fatal().Err(err).Str("db_path", *dbPath).Msg("Failed to open catalog")
	}
	defer cat.Close()

	ctx, cancel := context.WithTimeout(context.Background(), ingestTimeout)
	defer cancel()

	stats, totalSize, err := ingest(ctx, cat, input)
	if err != nil {
		log.Fatal().Err(err).Msg("Ingest failed")
	}

	log.Info().
		Int("stored", stats.Stored).
		Int("unparseable", stats.Unparseable).
		Str("total_size", humanize.Bytes(uint64(totalSize))).
		Msg("Ingest complete")

	if *serverURL != "" {
		if err := notifyServer(*serverURL); err != nil {
			log.Warn().Err(err).Str("server", *serverURL).Msg("Cache invalidation request failed")
		} else {
			log.Info().Str("server", *serverURL).Msg("Server caches invalidated")
		}
	}
}

func ingest(ctx context.Context, cat catalog.Catalog, input *os.File) (*catalog.IngestStats, int64, error) {
	scanner := bufio.NewScanner(input)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	total := &catalog.IngestStats{}
	var totalSize int64
	batch := make([]models.FileRecord, 0, batchSize)
	line := 0

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		stats, err := cat.PutBatch(ctx, batch)
		if err != nil {
			return err
		}
		total.Stored += stats.Stored
		total.Unparseable += stats.Unparseable
		batch = batch[:0]
		return nil
	}

	for scanner.Scan() {
		line++
		raw := bytes.TrimSpace(scanner.Bytes())
		if len(raw) == 0 {
			continue
		}

		var rec models.FileRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil, 0, fmt.Errorf("manifest line %d: %w", line, err)
		}
		if rec.Key == "" {
			return nil, 0, fmt.Errorf("manifest line %d: missing key", line)
		}
		totalSize += rec.Size

		batch = append(batch, rec)
		if len(batch) == batchSize {
			if err := flush(); err != nil {
				return nil, 0, err
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, 0, err
	}
	if err := flush(); err != nil {
		return nil, 0, err
	}

	return total, totalSize, nil
}

func notifyServer(serverURL string) error {
	ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, serverURL+"/api/invalidate", bytes.NewReader([]byte(`{}`)))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("server returned %d", resp.StatusCode)
	}
	return nil
}
