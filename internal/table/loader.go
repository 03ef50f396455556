package table

// LoadController signals "load the next page" when the sentinel (last
// rendered) row comes into view. It fires at most once per armed sentinel;
// arming a new sentinel tears down the previous one first, so two rows are
// never watched at the same time and the same row can never double-fire.
//
// The in-flight and has-more guards are the controller's own responsibility
// and are re-checked at fire time, not at arm time: a load finishing between
// arming and a queued observation must not be able to sneak a duplicate
// through.
type LoadController struct {
	sentinel   int // row index being watched, -1 when disarmed
	fired      bool
	closed     bool
	margin     int // rows of pre-trigger margin below the viewport
	loading    func() bool
	hasMore    func() bool
	onLoadMore func()
}

// NewLoadController creates a controller with a pre-trigger margin of rows.
// loading and hasMore are consulted every time the sentinel is seen.
func NewLoadController(margin int, loading, hasMore func() bool, onLoadMore func()) *LoadController {
	if margin < 0 {
		margin = 0
	}
	return &LoadController{
		sentinel:   -1,
		margin:     margin,
		loading:    loading,
		hasMore:    hasMore,
		onLoadMore: onLoadMore,
	}
}

// Arm watches sentinelIndex as the new last row, releasing any previous
// watch. A negative index disarms the controller.
func (c *LoadController) Arm(sentinelIndex int) {
	if c.closed {
		return
	}
	c.sentinel = sentinelIndex
	c.fired = false
}

// Observe reports the rows currently in the viewport, inclusive on both
// ends. The sentinel counts as visible slightly before it enters the
// viewport (the margin), but a sentinel far below the bottom edge does not
// trigger a load.
func (c *LoadController) Observe(viewTop, viewBottom int) {
	if c.closed || c.fired || c.sentinel < 0 {
		return
	}
	if c.sentinel < viewTop || c.sentinel > viewBottom+c.margin {
		return
	}
	// Guards are checked now, at fire time.
	if c.loading() || !c.hasMore() {
		return
	}
	c.fired = true
	c.onLoadMore()
}

// Close releases the watch for good; further Arm and Observe calls are no-ops.
func (c *LoadController) Close() {
	c.closed = true
	c.sentinel = -1
}
