// Package browse implements the three tier query services of the
// progressive browser: groups overview, videos of one group, frames of one
// video. Each operation is a pure projection of the catalog and safe to
// invoke concurrently; caching sits above this package, never inside it.
package browse

import (
	"context"
	"errors"
	"fmt"

	"framebrowse/pkg/catalog"
	"framebrowse/pkg/keys"
	"framebrowse/pkg/log"
	"framebrowse/pkg/models"
	"framebrowse/pkg/tree"
)

const (
	// MinPageSize and MaxPageSize bound the frame-tier page size.
	MinPageSize = 1
	MaxPageSize = 200

	// DefaultPageSize is the frame-tier page size when the caller omits one.
	DefaultPageSize = 50

	// DefaultNeighborLimit is the neighbor-window size when the caller
	// omits one.
	DefaultNeighborLimit = 20
)

// Browser serves the three browsing tiers from a catalog.
type Browser struct {
	catalog catalog.Catalog
}

// New creates a Browser over a catalog.
func New(cat catalog.Catalog) *Browser {
	return &Browser{catalog: cat}
}

// storeErr converts catalog failures into the backend-unavailable class so
// the cache layer can tell them apart from caller errors.
func storeErr(err error) error {
	if errors.Is(err, catalog.ErrDatabaseError) {
		return fmt.Errorf("%w: %w", ErrBackendUnavailable, err)
	}
	return err
}

// ListGroups returns the groups-tier overview: one summary per group plus
// collection-wide totals. No per-video or per-frame detail is included.
// limit <= 0 returns all groups.
func (b *Browser) ListGroups(ctx context.Context, sortBy tree.Sort, limit int) (*models.GroupsResult, error) {
	if sortBy == "" {
		sortBy = tree.SortName
	}
	if !tree.GroupSortValid(sortBy) {
		return nil, fmt.Errorf("%w: unknown sort %q", ErrInvalidArgument, sortBy)
	}

	rollups, unparseable, err := b.catalog.AggregateGroups(ctx)
	if err != nil {
		return nil, storeErr(err)
	}
	if unparseable > 0 {
		log.Warn().Int64("unparseable", unparseable).Msg("Catalog holds records excluded from aggregation")
	}

	result := &models.GroupsResult{Groups: make([]models.GroupSummary, 0, len(rollups))}
	for _, r := range rollups {
		result.Groups = append(result.Groups, models.GroupSummary{
			ID:          r.Group,
			VideoCount:  r.VideoCount,
			TotalFrames: r.FrameCount,
			TotalSize:   r.TotalSize,
			DateRange:   models.DateRange{Start: r.First, End: r.Last},
		})
		result.TotalVideos += r.VideoCount
		result.TotalFrames += r.FrameCount
		result.TotalSize += r.TotalSize
	}
	result.TotalGroups = len(result.Groups)

	tree.SortGroups(result.Groups, sortBy)
	if limit > 0 && len(result.Groups) > limit {
		result.Groups = result.Groups[:limit]
	}

	return result, nil
}

// ListVideos returns the video-tier listing for one group. With
// includeSample, each video carries its lowest-numbered frame as a
// thumbnail preview regardless of the requested sort; the rule is fixed so
// previews do not change when the ordering does.
func (b *Browser) ListVideos(ctx context.Context, groupID string, sortBy tree.Sort, includeSample bool) (*models.VideosResult, error) {
	if !keys.ValidateID(groupID) {
		return nil, fmt.Errorf("%w: malformed group id %q", ErrInvalidArgument, groupID)
	}
	if sortBy == "" {
		sortBy = tree.SortName
	}
	if !tree.VideoSortValid(sortBy) {
		return nil, fmt.Errorf("%w: unknown sort %q", ErrInvalidArgument, sortBy)
	}

	rollups, err := b.catalog.AggregateVideos(ctx, groupID)
	if err != nil {
		return nil, storeErr(err)
	}
	if len(rollups) == 0 {
		return nil, fmt.Errorf("%w: group %q", ErrNotFound, groupID)
	}

	var samples map[string]models.FrameDescriptor
	if includeSample {
		samples, err = b.sampleFrames(ctx, groupID)
		if err != nil {
			return nil, err
		}
	}

	result := &models.VideosResult{
		Group:  models.GroupRef{ID: groupID, Name: groupID},
		Videos: make([]models.VideoSummary, 0, len(rollups)),
	}
	for _, r := range rollups {
		summary := models.VideoSummary{
			ID:         r.Video,
			FrameCount: r.FrameCount,
			TotalSize:  r.TotalSize,
			DateRange:  models.DateRange{Start: r.First, End: r.Last},
		}
		if r.FrameCount > 0 {
			summary.AverageFrameSize = r.TotalSize / r.FrameCount
		}
		if sample, ok := samples[r.Video]; ok {
			sampleCopy := sample
			summary.SampleFrame = &sampleCopy
		}
		result.Videos = append(result.Videos, summary)
		result.TotalFrames += r.FrameCount
		result.TotalSize += r.TotalSize
	}
	result.TotalVideos = len(result.Videos)

	tree.SortVideos(result.Videos, sortBy)
	return result, nil
}

func (b *Browser) sampleFrames(ctx context.Context, groupID string) (map[string]models.FrameDescriptor, error) {
	records, err := b.catalog.ListByGroup(ctx, groupID)
	if err != nil {
		return nil, storeErr(err)
	}

	samples := make(map[string]models.FrameDescriptor)
	for _, rec := range records {
		parsed, err := keys.Parse(rec.Key)
		if err != nil {
			continue
		}
		desc := tree.Descriptor(rec, parsed)
		current, ok := samples[parsed.Video]
		if !ok || desc.FrameNumber < current.FrameNumber ||
			(desc.FrameNumber == current.FrameNumber && desc.Key < current.Key) {
			samples[parsed.Video] = desc
		}
	}
	return samples, nil
}

// ListFrames returns one page of the frame tier, the only tier with full
// per-item payloads. page starts at 1; pageSize must lie in
// [MinPageSize, MaxPageSize].
func (b *Browser) ListFrames(ctx context.Context, groupID, videoID string, page, pageSize int, sortBy tree.Sort) (*models.FramesResult, error) {
	if !keys.ValidateID(groupID) {
		return nil, fmt.Errorf("%w: malformed group id %q", ErrInvalidArgument, groupID)
	}
	if !keys.ValidateID(videoID) {
		return nil, fmt.Errorf("%w: malformed video id %q", ErrInvalidArgument, videoID)
	}
	if page < 1 {
		return nil, fmt.Errorf("%w: page %d", ErrInvalidArgument, page)
	}
	if pageSize < MinPageSize || pageSize > MaxPageSize {
		return nil, fmt.Errorf("%w: page size %d", ErrInvalidArgument, pageSize)
	}
	if sortBy == "" {
		sortBy = tree.SortFrame
	}
	if !tree.FrameSortValid(sortBy) {
		return nil, fmt.Errorf("%w: unknown sort %q", ErrInvalidArgument, sortBy)
	}

	records, err := b.catalog.ListByVideo(ctx, groupID, videoID)
	if err != nil {
		return nil, storeErr(err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: video %s_%s", ErrNotFound, groupID, videoID)
	}

	frames := make([]models.FrameDescriptor, 0, len(records))
	lastFrame := -1
	duplicates := 0
	for _, rec := range records {
		parsed, err := keys.Parse(rec.Key)
		if err != nil {
			// The catalog only matches parseable rows on (group, video);
			// anything else here is a store inconsistency worth surfacing.
			log.Error().Str("key", rec.Key).Msg("Unparseable key in video listing")
			continue
		}
		if parsed.Frame == lastFrame {
			duplicates++
		}
		lastFrame = parsed.Frame
		frames = append(frames, tree.Descriptor(rec, parsed))
	}
	if duplicates > 0 {
		log.Warn().
			Str("group", groupID).
			Str("video", videoID).
			Int("duplicates", duplicates).
			Msg("Duplicate frame numbers in video; upstream data error")
	}

	tree.SortFrameList(frames, sortBy)

	total := int64(len(frames))
	pagination := models.NewPagination(page, pageSize, total)

	start := (page - 1) * pageSize
	end := start + pageSize
	if start > len(frames) {
		start = len(frames)
	}
	if end > len(frames) {
		end = len(frames)
	}

	videoKey := keys.ParsedKey{Group: groupID, Video: videoID}
	return &models.FramesResult{
		Video: models.VideoRef{
			GroupID: groupID,
			VideoID: videoID,
			Name:    videoKey.VideoName(),
		},
		Frames:     frames[start:end],
		Pagination: pagination,
	}, nil
}

// Lookup fetches frame descriptors by exact record key. Missing keys are
// skipped; stored records whose keys do not parse are skipped and counted.
func (b *Browser) Lookup(ctx context.Context, recordKeys []string) ([]models.FrameDescriptor, int, error) {
	records, err := b.catalog.GetByKeys(ctx, recordKeys)
	if err != nil {
		return nil, 0, storeErr(err)
	}

	frames := make([]models.FrameDescriptor, 0, len(records))
	skipped := 0
	for _, rec := range records {
		parsed, err := keys.Parse(rec.Key)
		if err != nil {
			skipped++
			continue
		}
		frames = append(frames, tree.Descriptor(rec, parsed))
	}
	return frames, skipped, nil
}

// Neighbors returns a window of frames around one target frame within its
// video: half the limit on each side, clipped at the video edges. The
// target itself is included.
func (b *Browser) Neighbors(ctx context.Context, recordKey string, limit int) ([]models.FrameDescriptor, error) {
	parsed, err := keys.Parse(recordKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}
	if limit <= 0 {
		limit = DefaultNeighborLimit
	}

	records, err := b.catalog.ListByVideo(ctx, parsed.Group, parsed.Video)
	if err != nil {
		return nil, storeErr(err)
	}

	frames := make([]models.FrameDescriptor, 0, len(records))
	targetIdx := -1
	for _, rec := range records {
		recParsed, err := keys.Parse(rec.Key)
		if err != nil {
			continue
		}
		if rec.Key == recordKey {
			targetIdx = len(frames)
		}
		frames = append(frames, tree.Descriptor(rec, recParsed))
	}
	if targetIdx < 0 {
		return nil, fmt.Errorf("%w: frame %q", ErrNotFound, recordKey)
	}

	half := limit / 2
	start := targetIdx - half
	if start < 0 {
		start = 0
	}
	end := targetIdx + half + 1
	if end > len(frames) {
		end = len(frames)
	}
	return frames[start:end], nil
}
