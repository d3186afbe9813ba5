// Package navstate maps the browsing position (group, video, page, view
// options) to and from its canonical URL query string, so every reachable
// state is bookmarkable and a shared URL reproduces it exactly.
package navstate

import (
	"fmt"
	"net/url"
	"strconv"

	"framebrowse/pkg/keys"
)

// View is the presentation mode carried in the URL.
type View string

// ThumbSize is the thumbnail size carried in the URL.
type ThumbSize string

const (
	ViewGrid View = "grid"
	ViewList View = "list"

	ThumbSmall  ThumbSize = "small"
	ThumbMedium ThumbSize = "medium"
	ThumbLarge  ThumbSize = "large"

	// DefaultPageSize is the page size encoded as an absent limit parameter.
	DefaultPageSize = 50
)

// PageSizes are the page sizes the URL contract admits.
var PageSizes = []int{25, 50, 100}

// Phase is the coarse position in the browsing hierarchy.
type Phase int

const (
	Root Phase = iota
	GroupSelected
	VideoSelected
)

// State is one browsing position. The zero value is not valid; use Default.
type State struct {
	Group     string
	Video     string
	Page      int
	View      View
	ThumbSize ThumbSize
	PageSize  int
}

// Default is the canonical root state: no selection, first page, default
// presentation. It encodes to the empty query string.
func Default() State {
	return State{
		Page:      1,
		View:      ViewGrid,
		ThumbSize: ThumbMedium,
		PageSize:  DefaultPageSize,
	}
}

// Phase reports where in the hierarchy the state sits.
func (s State) Phase() Phase {
	switch {
	case s.Group == "":
		return Root
	case s.Video == "":
		return GroupSelected
	default:
		return VideoSelected
	}
}

// Encode renders the canonical query string, without the leading "?". Every
// parameter equal to its default is omitted, so the default state encodes to
// the empty string. Parameter order is fixed: group, video, page, view,
// size, limit.
func (s State) Encode() string {
	var query []byte
	add := func(key, value string) {
		if len(query) > 0 {
			query = append(query, '&')
		}
		query = append(query, key...)
		query = append(query, '=')
		query = append(query, url.QueryEscape(value)...)
	}

	if s.Group != "" {
		add("group", s.Group)
	}
	if s.Video != "" {
		add("video", s.Video)
	}
	if s.Page > 1 {
		add("page", strconv.Itoa(s.Page))
	}
	if s.View != ViewGrid {
		add("view", string(s.View))
	}
	if s.ThumbSize != ThumbMedium {
		add("size", string(s.ThumbSize))
	}
	if s.PageSize != DefaultPageSize {
		add("limit", strconv.Itoa(s.PageSize))
	}
	return string(query)
}

// Parse is the inverse of Encode: it reconstructs the state a query string
// encodes. Unknown parameters are ignored; invalid values for known
// parameters are errors, as is a video without a group (an unreachable
// state). Parse(s.Encode()) == s holds for every reachable state.
func Parse(query string) (State, error) {
	values, err := url.ParseQuery(query)
	if err != nil {
		return State{}, fmt.Errorf("malformed query string: %w", err)
	}

	s := Default()

	if group := values.Get("group"); group != "" {
		if !keys.ValidateID(group) {
			return State{}, fmt.Errorf("malformed group id %q", group)
		}
		s.Group = group
	}
	if video := values.Get("video"); video != "" {
		if !keys.ValidateID(video) {
			return State{}, fmt.Errorf("malformed video id %q", video)
		}
		if s.Group == "" {
			return State{}, fmt.Errorf("video %q selected without a group", video)
		}
		s.Video = video
	}
	if page := values.Get("page"); page != "" {
		n, err := strconv.Atoi(page)
		if err != nil || n < 1 {
			return State{}, fmt.Errorf("invalid page %q", page)
		}
		s.Page = n
	}
	if view := values.Get("view"); view != "" {
		switch View(view) {
		case ViewGrid, ViewList:
			s.View = View(view)
		default:
			return State{}, fmt.Errorf("invalid view %q", view)
		}
	}
	if size := values.Get("size"); size != "" {
		switch ThumbSize(size) {
		case ThumbSmall, ThumbMedium, ThumbLarge:
			s.ThumbSize = ThumbSize(size)
		default:
			return State{}, fmt.Errorf("invalid thumbnail size %q", size)
		}
	}
	if limit := values.Get("limit"); limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil || !validPageSize(n) {
			return State{}, fmt.Errorf("invalid limit %q", limit)
		}
		s.PageSize = n
	}

	return s, nil
}

func validPageSize(n int) bool {
	for _, allowed := range PageSizes {
		if n == allowed {
			return true
		}
	}
	return false
}
