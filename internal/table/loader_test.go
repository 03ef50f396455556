package table

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type loaderFixture struct {
	loading bool
	hasMore bool
	fires   int
	ctrl    *LoadController
}

func newLoaderFixture(margin int) *loaderFixture {
	f := &loaderFixture{hasMore: true}
	f.ctrl = NewLoadController(margin,
		func() bool { return f.loading },
		func() bool { return f.hasMore },
		func() { f.fires++ })
	return f
}

func TestLoaderFiresOncePerSentinel(t *testing.T) {
	f := newLoaderFixture(0)
	f.ctrl.Arm(9)

	// A rapid double observation of the same sentinel, as when two
	// visibility events land in one frame.
	f.ctrl.Observe(0, 9)
	f.ctrl.Observe(0, 9)
	require.Equal(t, 1, f.fires)
}

func TestLoaderRearmsForNewSentinel(t *testing.T) {
	f := newLoaderFixture(0)
	f.ctrl.Arm(9)
	f.ctrl.Observe(0, 9)
	require.Equal(t, 1, f.fires)

	// New page appended; the old watch is torn down and the new last row
	// can fire exactly once more.
	f.ctrl.Arm(19)
	f.ctrl.Observe(0, 9)
	require.Equal(t, 1, f.fires, "new sentinel not visible yet")
	f.ctrl.Observe(10, 19)
	f.ctrl.Observe(10, 19)
	require.Equal(t, 2, f.fires)
}

func TestLoaderPreTriggerMargin(t *testing.T) {
	f := newLoaderFixture(3)
	f.ctrl.Arm(12)

	f.ctrl.Observe(0, 8)
	require.Equal(t, 0, f.fires, "sentinel beyond margin")

	f.ctrl.Observe(0, 9)
	require.Equal(t, 1, f.fires, "sentinel within margin of the bottom edge")
}

func TestLoaderGuardsCheckedAtFireTime(t *testing.T) {
	f := newLoaderFixture(0)
	f.loading = true
	f.ctrl.Arm(5)

	f.ctrl.Observe(0, 9)
	require.Equal(t, 0, f.fires, "no fire while a load is in flight")

	// Load finishes after the observation was queued; the next observation
	// sees the fresh flag value.
	f.loading = false
	f.ctrl.Observe(0, 9)
	require.Equal(t, 1, f.fires)
}

func TestLoaderRespectsHasMore(t *testing.T) {
	f := newLoaderFixture(0)
	f.hasMore = false
	f.ctrl.Arm(5)
	f.ctrl.Observe(0, 9)
	require.Equal(t, 0, f.fires)
}

func TestLoaderClosedIsInert(t *testing.T) {
	f := newLoaderFixture(0)
	f.ctrl.Arm(5)
	f.ctrl.Close()
	f.ctrl.Observe(0, 9)
	f.ctrl.Arm(7)
	f.ctrl.Observe(0, 9)
	require.Equal(t, 0, f.fires)
}
