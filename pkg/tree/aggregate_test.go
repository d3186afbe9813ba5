package tree

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"framebrowse/pkg/models"
)

var baseTS = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func record(key string, size int64, offset time.Duration) models.FileRecord {
	return models.FileRecord{
		Key:        key,
		Bucket:     "vbs-frames",
		Hash:       "cafe" + key,
		Size:       size,
		URL:        "https://cdn.example.com/" + key,
		UploadedAt: baseTS.Add(offset),
	}
}

func TestAggregateBuildsTree(t *testing.T) {
	records := []models.FileRecord{
		record("L21_V001/001.jpg", 100, 0),
		record("L21_V001/002.jpg", 200, time.Minute),
		record("L21_V002/001.jpg", 300, 2*time.Minute),
	}

	result := Aggregate(records)
	require.Len(t, result.Groups, 1)
	assert.Zero(t, result.Skipped)
	assert.Empty(t, result.DuplicateKeys)

	group := result.Groups[0]
	assert.Equal(t, "L21", group.ID)
	assert.Equal(t, 2, group.VideoCount)
	assert.Equal(t, int64(3), group.TotalFrames)
	assert.Equal(t, int64(600), group.TotalSize)

	require.Len(t, group.Videos, 2)
	v001 := group.Videos[0]
	assert.Equal(t, "V001", v001.ID)
	assert.Equal(t, int64(2), v001.FrameCount)
	assert.Equal(t, int64(300), v001.TotalSize)
	assert.Equal(t, int64(150), v001.AverageFrameSize)
	require.Len(t, v001.Frames, 2)
	assert.Equal(t, 1, v001.Frames[0].FrameNumber)
	assert.Equal(t, 2, v001.Frames[1].FrameNumber)

	v002 := group.Videos[1]
	assert.Equal(t, "V002", v002.ID)
	assert.Equal(t, int64(1), v002.FrameCount)
}

func TestAggregateFrameOrdering(t *testing.T) {
	// Input order must not matter; frames come back numerically ordered.
	records := []models.FileRecord{
		record("L21_V001/010.jpg", 10, 0),
		record("L21_V001/002.jpg", 2, 0),
		record("L21_V001/100.jpg", 100, 0),
		record("L21_V001/001.jpg", 1, 0),
	}

	result := Aggregate(records)
	require.Len(t, result.Groups, 1)
	frames := result.Groups[0].Videos[0].Frames
	require.Len(t, frames, 4)

	numbers := []int{}
	for _, f := range frames {
		numbers = append(numbers, f.FrameNumber)
	}
	assert.Equal(t, []int{1, 2, 10, 100}, numbers)
}

func TestAggregateSkipsUnparseable(t *testing.T) {
	records := []models.FileRecord{
		record("L21_V001/001.jpg", 100, 0),
		record("L21V001/001.jpg", 100, 0), // missing underscore
		record("thumbnail.png", 100, 0),
	}

	result := Aggregate(records)
	assert.Equal(t, 2, result.Skipped)
	require.Len(t, result.Groups, 1)
	assert.Equal(t, int64(1), result.Groups[0].TotalFrames)
}

func TestAggregateOmitsEmptyGroups(t *testing.T) {
	// A group whose only records are unparseable never appears.
	records := []models.FileRecord{
		record("L21_V001/001.jpg", 100, 0),
		record("L22_V001_001.jpg", 100, 0),
	}

	result := Aggregate(records)
	require.Len(t, result.Groups, 1)
	assert.Equal(t, "L21", result.Groups[0].ID)
}

func TestAggregateEmptyInput(t *testing.T) {
	result := Aggregate(nil)
	assert.Empty(t, result.Groups)
	assert.Zero(t, result.Skipped)
}

func TestAggregateReportsDuplicates(t *testing.T) {
	// 042.jpg and 42.jpg both parse to frame 42 within the same video.
	records := []models.FileRecord{
		record("L21_V001/042.jpg", 100, 0),
		record("L21_V001/42.jpg", 100, 0),
		record("L21_V001/043.jpg", 100, 0),
	}

	result := Aggregate(records)
	require.Len(t, result.DuplicateKeys, 1)
	assert.Equal(t, "L21_V001/42.jpg", result.DuplicateKeys[0])

	// Duplicates are reported, not merged.
	assert.Equal(t, int64(3), result.Groups[0].Videos[0].FrameCount)
}

func TestAggregateIdempotent(t *testing.T) {
	records := []models.FileRecord{
		record("L21_V001/002.jpg", 200, time.Minute),
		record("L21_V001/001.jpg", 100, 0),
		record("L21_V002/001.jpg", 300, 2*time.Minute),
		record("L20_V009/005.jpg", 50, 3*time.Minute),
		record("broken", 1, 0),
	}

	first := Aggregate(records)
	second := Aggregate(records)
	assert.Equal(t, first, second)
}

func TestAggregateRollupConsistency(t *testing.T) {
	records := []models.FileRecord{
		record("L21_V001/001.jpg", 100, 0),
		record("L21_V001/002.jpg", 250, time.Minute),
		record("L21_V002/001.jpg", 300, 2*time.Minute),
		record("L22_V003/007.jpg", 400, -time.Hour),
	}

	result := Aggregate(records)
	for _, group := range result.Groups {
		var frames, size int64
		dateRange := models.DateRange{}
		for _, video := range group.Videos {
			assert.Equal(t, video.FrameCount, int64(len(video.Frames)))
			assert.Positive(t, video.FrameCount)
			assert.Equal(t, video.AverageFrameSize, video.TotalSize/video.FrameCount)
			frames += video.FrameCount
			size += video.TotalSize
			dateRange.Merge(video.DateRange)
		}
		assert.Equal(t, group.TotalFrames, frames, group.ID)
		assert.Equal(t, group.TotalSize, size, group.ID)
		assert.Equal(t, group.DateRange, dateRange, group.ID)
	}
}

func TestAggregateDateRange(t *testing.T) {
	records := []models.FileRecord{
		record("L21_V001/001.jpg", 1, 2*time.Hour),
		record("L21_V001/002.jpg", 1, -time.Hour),
		record("L21_V001/003.jpg", 1, time.Minute),
	}

	result := Aggregate(records)
	dr := result.Groups[0].DateRange
	assert.True(t, dr.Start.Equal(baseTS.Add(-time.Hour)))
	assert.True(t, dr.End.Equal(baseTS.Add(2*time.Hour)))
}
