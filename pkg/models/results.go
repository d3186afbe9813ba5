package models

// Pagination describes one page of a frame listing.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
}

// NewPagination computes page metadata for a total item count.
func NewPagination(page, pageSize int, total int64) Pagination {
	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	return Pagination{
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
}

// GroupRef identifies a group in a response envelope.
type GroupRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// VideoRef identifies a video in a response envelope.
type VideoRef struct {
	GroupID string `json:"group_id"`
	VideoID string `json:"video_id"`
	Name    string `json:"name"`
}

// GroupsResult is the groups-tier response: summaries only, no per-video or
// per-frame detail.
type GroupsResult struct {
	Groups      []GroupSummary `json:"groups"`
	TotalGroups int            `json:"total_groups"`
	TotalVideos int            `json:"total_videos"`
	TotalFrames int64          `json:"total_frames"`
	TotalSize   int64          `json:"total_size"`
}

// VideosResult is the video-tier response for one group.
type VideosResult struct {
	Group       GroupRef       `json:"group"`
	Videos      []VideoSummary `json:"videos"`
	TotalVideos int            `json:"total_videos"`
	TotalFrames int64          `json:"total_frames"`
	TotalSize   int64          `json:"total_size"`
}

// FramesResult is the frame-tier response: the only tier with full per-item
// payloads and pagination metadata.
type FramesResult struct {
	Video      VideoRef          `json:"video"`
	Frames     []FrameDescriptor `json:"frames"`
	Pagination Pagination        `json:"pagination"`
}
