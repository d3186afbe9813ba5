// Package tree derives the Group -> Video -> Frame hierarchy from a flat
// sequence of frame records. It is the application-side equivalent of the
// catalog's server-side rollups, used wherever the backing store cannot
// aggregate (and as the reference the rollup tests check the store against).
package tree

import (
	"sort"

	"framebrowse/pkg/keys"
	"framebrowse/pkg/log"
	"framebrowse/pkg/models"
)

// VideoNode is a video summary with its ordered frames attached.
type VideoNode struct {
	models.VideoSummary
	Frames []models.FrameDescriptor `json:"frames,omitempty"`
}

// GroupNode is a group summary with its videos attached.
type GroupNode struct {
	models.GroupSummary
	Videos []VideoNode `json:"videos,omitempty"`
}

// Result is the aggregated tree plus the per-batch error counts. Skipped
// records and duplicate frame numbers are surfaced here, never raised as
// request errors.
type Result struct {
	Groups        []GroupNode `json:"groups"`
	Skipped       int         `json:"skipped"`
	DuplicateKeys []string    `json:"duplicate_keys,omitempty"`
}

// Descriptor builds the leaf-tier payload for one record.
func Descriptor(rec models.FileRecord, parsed keys.ParsedKey) models.FrameDescriptor {
	return models.FrameDescriptor{
		ID:          parsed.FrameID(),
		FrameNumber: parsed.Frame,
		URL:         rec.URL,
		Size:        rec.Size,
		UploadedAt:  rec.UploadedAt,
		Key:         rec.Key,
		Hash:        rec.Hash,
	}
}

type frameEntry struct {
	parsed keys.ParsedKey
	rec    models.FileRecord
}

// Aggregate builds the full tree from a flat record sequence in a single
// grouping pass. Frame ordering within a video is by frame number ascending
// with key as tiebreak, so identical input always yields an identical tree.
// Unparseable records are skipped and counted; the first offending key is
// logged once per batch.
func Aggregate(records []models.FileRecord) *Result {
	byGroup := make(map[string]map[string][]frameEntry)

	result := &Result{}
	firstBadKey := ""
	for _, rec := range records {
		parsed, err := keys.Parse(rec.Key)
		if err != nil {
			result.Skipped++
			if firstBadKey == "" {
				firstBadKey = rec.Key
			}
			continue
		}

		videos, ok := byGroup[parsed.Group]
		if !ok {
			videos = make(map[string][]frameEntry)
			byGroup[parsed.Group] = videos
		}
		videos[parsed.Video] = append(videos[parsed.Video], frameEntry{parsed: parsed, rec: rec})
	}

	if result.Skipped > 0 {
		log.Warn().
			Int("skipped", result.Skipped).
			Str("first_key", firstBadKey).
			Msg("Skipped unparseable record keys during aggregation")
	}

	groupIDs := make([]string, 0, len(byGroup))
	for id := range byGroup {
		groupIDs = append(groupIDs, id)
	}
	sort.Strings(groupIDs)

	for _, groupID := range groupIDs {
		node := buildGroup(groupID, byGroup[groupID], result)
		result.Groups = append(result.Groups, node)
	}

	return result
}

func buildGroup(groupID string, videos map[string][]frameEntry, result *Result) GroupNode {
	node := GroupNode{GroupSummary: models.GroupSummary{ID: groupID}}

	videoIDs := make([]string, 0, len(videos))
	for id := range videos {
		videoIDs = append(videoIDs, id)
	}
	sort.Strings(videoIDs)

	for _, videoID := range videoIDs {
		videoNode := buildVideo(videoID, videos[videoID], result)
		node.Videos = append(node.Videos, videoNode)

		// Group rollups are derived from the video rollups, never recomputed
		// from the leaves, so the tiers cannot drift apart.
		node.VideoCount++
		node.TotalFrames += videoNode.FrameCount
		node.TotalSize += videoNode.TotalSize
		node.DateRange.Merge(videoNode.DateRange)
	}

	return node
}

func buildVideo(videoID string, entries []frameEntry, result *Result) VideoNode {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].parsed.Frame != entries[j].parsed.Frame {
			return entries[i].parsed.Frame < entries[j].parsed.Frame
		}
		return entries[i].rec.Key < entries[j].rec.Key
	})

	node := VideoNode{VideoSummary: models.VideoSummary{ID: videoID}}
	lastFrame := -1
	for _, entry := range entries {
		if entry.parsed.Frame == lastFrame {
			// Duplicate frame numbers indicate an upstream data error.
			// Report the colliding key, keep both records.
			result.DuplicateKeys = append(result.DuplicateKeys, entry.rec.Key)
		}
		lastFrame = entry.parsed.Frame

		node.Frames = append(node.Frames, Descriptor(entry.rec, entry.parsed))
		node.FrameCount++
		node.TotalSize += entry.rec.Size
		node.DateRange.Extend(entry.rec.UploadedAt)
	}

	if node.FrameCount > 0 {
		node.AverageFrameSize = node.TotalSize / node.FrameCount
	}

	return node
}
