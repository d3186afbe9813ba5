package tree

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"framebrowse/pkg/models"
)

func groupSummary(id string, frames, size int64, start time.Time) models.GroupSummary {
	return models.GroupSummary{
		ID:          id,
		TotalFrames: frames,
		TotalSize:   size,
		DateRange:   models.DateRange{Start: start, End: start},
	}
}

func TestSortGroupsByName(t *testing.T) {
	groups := []models.GroupSummary{
		groupSummary("L22", 1, 1, baseTS),
		groupSummary("L03", 1, 1, baseTS),
		groupSummary("L21", 1, 1, baseTS),
	}
	SortGroups(groups, SortName)
	assert.Equal(t, "L03", groups[0].ID)
	assert.Equal(t, "L21", groups[1].ID)
	assert.Equal(t, "L22", groups[2].ID)
}

func TestSortGroupsByDateNewestFirst(t *testing.T) {
	groups := []models.GroupSummary{
		groupSummary("L01", 1, 1, baseTS),
		groupSummary("L02", 1, 1, baseTS.Add(time.Hour)),
	}
	SortGroups(groups, SortDate)
	assert.Equal(t, "L02", groups[0].ID)
}

func TestSortGroupsBySizeDescending(t *testing.T) {
	groups := []models.GroupSummary{
		groupSummary("L01", 1, 10, baseTS),
		groupSummary("L02", 1, 30, baseTS),
		groupSummary("L03", 1, 20, baseTS),
	}
	SortGroups(groups, SortSize)
	assert.Equal(t, "L02", groups[0].ID)
	assert.Equal(t, "L03", groups[1].ID)
	assert.Equal(t, "L01", groups[2].ID)
}

func TestSortGroupsByFramesTieBreaksOnID(t *testing.T) {
	groups := []models.GroupSummary{
		groupSummary("L22", 5, 1, baseTS),
		groupSummary("L21", 5, 1, baseTS),
		groupSummary("L01", 9, 1, baseTS),
	}
	SortGroups(groups, SortFrames)
	assert.Equal(t, "L01", groups[0].ID)
	assert.Equal(t, "L21", groups[1].ID)
	assert.Equal(t, "L22", groups[2].ID)
}

func TestSortVideosByFrames(t *testing.T) {
	videos := []models.VideoSummary{
		{ID: "V002", FrameCount: 1},
		{ID: "V001", FrameCount: 2},
	}
	SortVideos(videos, SortFrames)
	assert.Equal(t, "V001", videos[0].ID)
	assert.Equal(t, "V002", videos[1].ID)
}

func TestSortFrameListDefault(t *testing.T) {
	frames := []models.FrameDescriptor{
		{Key: "L21_V001/003.jpg", FrameNumber: 3},
		{Key: "L21_V001/001.jpg", FrameNumber: 1},
		{Key: "L21_V001/002.jpg", FrameNumber: 2},
	}
	SortFrameList(frames, SortFrame)
	assert.Equal(t, 1, frames[0].FrameNumber)
	assert.Equal(t, 3, frames[2].FrameNumber)
}

func TestSortFrameListBySize(t *testing.T) {
	frames := []models.FrameDescriptor{
		{Key: "a", FrameNumber: 1, Size: 10},
		{Key: "b", FrameNumber: 2, Size: 30},
	}
	SortFrameList(frames, SortSize)
	assert.Equal(t, "b", frames[0].Key)
}

func TestSortValidation(t *testing.T) {
	assert.True(t, GroupSortValid(SortName))
	assert.True(t, GroupSortValid(SortFrames))
	assert.False(t, GroupSortValid(SortFrame))
	assert.False(t, GroupSortValid(Sort("bogus")))

	assert.True(t, VideoSortValid(SortDate))

	assert.True(t, FrameSortValid(SortFrame))
	assert.True(t, FrameSortValid(SortDate))
	assert.False(t, FrameSortValid(SortFrames))
	assert.False(t, FrameSortValid(SortName))
}
