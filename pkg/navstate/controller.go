package navstate

import "sync"

// Controller is the navigation state machine. Every transition bumps an
// epoch counter; asynchronous tier fetches are tagged with the epoch that
// issued them, and a result arriving under an older epoch is discarded
// instead of applied. All methods are safe for concurrent use.
type Controller struct {
	mu         sync.Mutex
	state      State
	epoch      uint64
	totalPages int
}

// NewController starts at the default root state.
func NewController() *Controller {
	return &Controller{state: Default()}
}

// State returns the current browsing state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Epoch returns the current navigation epoch.
func (c *Controller) Epoch() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.epoch
}

// StillCurrent reports whether a result issued under epoch may be applied.
func (c *Controller) StillCurrent(epoch uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.epoch == epoch
}

// URL returns the canonical query string for the current state.
func (c *Controller) URL() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Encode()
}

func (c *Controller) transition(mutate func(*State)) (State, uint64) {
	return c.transitionIf(nil, mutate)
}

// transitionIf applies mutate only when ok accepts the current state. The
// check and the mutation happen under one lock acquisition, so no other
// transition can slip in between.
func (c *Controller) transitionIf(ok func(State) bool, mutate func(*State)) (State, uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if ok != nil && !ok(c.state) {
		return c.state, c.epoch
	}
	mutate(&c.state)
	c.epoch++
	return c.state, c.epoch
}

// SelectGroup moves to a group, resetting video and page. An empty group
// returns to the root. The pending page count no longer applies.
func (c *Controller) SelectGroup(group string) (State, uint64) {
	return c.transition(func(s *State) {
		s.Group = group
		s.Video = ""
		s.Page = 1
		c.totalPages = 0
	})
}

// SelectVideo moves to a video within the current group, starting at page 1.
// Without a current group the call is a no-op: the transition is unreachable
// from the root.
func (c *Controller) SelectVideo(video string) (State, uint64) {
	return c.transitionIf(
		func(s State) bool { return s.Group != "" },
		func(s *State) {
			s.Video = video
			s.Page = 1
			c.totalPages = 0
		})
}

// SetTotalPages records the page count of the current video's frame listing,
// which SelectPage clamps against.
func (c *Controller) SetTotalPages(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.totalPages = n
}

// SelectPage moves to a page of the current video. Outside VideoSelected it
// is a no-op. An out-of-range page is clamped into [1, totalPages] rather
// than rejected; with no page count recorded yet, any page >= 1 is accepted.
func (c *Controller) SelectPage(page int) (State, uint64) {
	return c.transitionIf(
		func(s State) bool { return s.Phase() == VideoSelected },
		func(s *State) {
			if page < 1 {
				page = 1
			}
			if c.totalPages > 0 && page > c.totalPages {
				page = c.totalPages
			}
			s.Page = page
		})
}

// SetView changes the presentation mode without moving in the hierarchy.
func (c *Controller) SetView(view View) (State, uint64) {
	return c.transition(func(s *State) {
		s.View = view
	})
}

// SetThumbSize changes the thumbnail size.
func (c *Controller) SetThumbSize(size ThumbSize) (State, uint64) {
	return c.transition(func(s *State) {
		s.ThumbSize = size
	})
}

// SetPageSize changes the page size and resets to the first page, since the
// old page number refers to a different pagination.
func (c *Controller) SetPageSize(pageSize int) (State, uint64) {
	if !validPageSize(pageSize) {
		c.mu.Lock()
		state, epoch := c.state, c.epoch
		c.mu.Unlock()
		return state, epoch
	}
	return c.transition(func(s *State) {
		s.PageSize = pageSize
		s.Page = 1
	})
}

// Restore replaces the state with the one a query string encodes, as when
// the browser loads a shared URL.
func (c *Controller) Restore(query string) error {
	state, err := Parse(query)
	if err != nil {
		return err
	}
	c.transition(func(s *State) {
		*s = state
		c.totalPages = 0
	})
	return nil
}
