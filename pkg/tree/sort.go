package tree

import (
	"sort"

	"framebrowse/pkg/models"
)

// Sort names one of the shared ordering policies. name is ascending on the
// identifier; date, size and frames are descending on the aggregate; frame
// is ascending on the numeric frame number (frame tier only). All sorts are
// stable with the identifier as tiebreak.
type Sort string

const (
	SortName   Sort = "name"
	SortDate   Sort = "date"
	SortSize   Sort = "size"
	SortFrames Sort = "frames"
	SortFrame  Sort = "frame"
)

// GroupSortValid reports whether s is accepted at the groups tier.
func GroupSortValid(s Sort) bool {
	switch s {
	case SortName, SortDate, SortSize, SortFrames:
		return true
	}
	return false
}

// VideoSortValid reports whether s is accepted at the video tier.
func VideoSortValid(s Sort) bool {
	return GroupSortValid(s)
}

// FrameSortValid reports whether s is accepted at the frame tier.
func FrameSortValid(s Sort) bool {
	switch s {
	case SortFrame, SortDate, SortSize:
		return true
	}
	return false
}

// SortGroups orders group summaries in place by the given policy.
func SortGroups(groups []models.GroupSummary, by Sort) {
	sort.SliceStable(groups, func(i, j int) bool {
		a, b := groups[i], groups[j]
		switch by {
		case SortDate:
			if !a.DateRange.Start.Equal(b.DateRange.Start) {
				return a.DateRange.Start.After(b.DateRange.Start)
			}
		case SortSize:
			if a.TotalSize != b.TotalSize {
				return a.TotalSize > b.TotalSize
			}
		case SortFrames:
			if a.TotalFrames != b.TotalFrames {
				return a.TotalFrames > b.TotalFrames
			}
		}
		return a.ID < b.ID
	})
}

// SortVideos orders video summaries in place by the given policy.
func SortVideos(videos []models.VideoSummary, by Sort) {
	sort.SliceStable(videos, func(i, j int) bool {
		a, b := videos[i], videos[j]
		switch by {
		case SortDate:
			if !a.DateRange.Start.Equal(b.DateRange.Start) {
				return a.DateRange.Start.After(b.DateRange.Start)
			}
		case SortSize:
			if a.TotalSize != b.TotalSize {
				return a.TotalSize > b.TotalSize
			}
		case SortFrames:
			if a.FrameCount != b.FrameCount {
				return a.FrameCount > b.FrameCount
			}
		}
		return a.ID < b.ID
	})
}

// SortFrameList orders frame descriptors in place by the given policy.
func SortFrameList(frames []models.FrameDescriptor, by Sort) {
	sort.SliceStable(frames, func(i, j int) bool {
		a, b := frames[i], frames[j]
		switch by {
		case SortDate:
			if !a.UploadedAt.Equal(b.UploadedAt) {
				return a.UploadedAt.After(b.UploadedAt)
			}
		case SortSize:
			if a.Size != b.Size {
				return a.Size > b.Size
			}
		default:
			if a.FrameNumber != b.FrameNumber {
				return a.FrameNumber < b.FrameNumber
			}
		}
		return a.Key < b.Key
	})
}
