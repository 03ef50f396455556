package table

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

// Five visible columns with two hidden ones interleaved, so visible indices
// and full-order indices disagree.
var (
	fullFixture    = []string{"A", "h1", "B", "C", "h2", "D", "E"}
	visibleFixture = []string{"A", "B", "C", "D", "E"}
)

func TestReorderLeftward(t *testing.T) {
	// Drag visible position 3 (D) onto visible position 1 (B): D lands
	// immediately before B in the full order.
	got := Reorder(fullFixture, visibleFixture, 3, 1)
	want := []string{"A", "h1", "D", "B", "C", "h2", "E"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("leftward reorder mismatch (-want +got):\n%s", diff)
	}
}

func TestReorderRightward(t *testing.T) {
	// Drag visible position 1 (B) onto visible position 3 (D): removal of B
	// shifts everything left, so B lands immediately after D.
	got := Reorder(fullFixture, visibleFixture, 1, 3)
	want := []string{"A", "h1", "C", "h2", "D", "B", "E"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("rightward reorder mismatch (-want +got):\n%s", diff)
	}
}

func TestReorderAsymmetry(t *testing.T) {
	// The two directions around the same pair of slots must not be inverses
	// of each other; both need the shifted-index correction.
	left := Reorder(fullFixture, visibleFixture, 3, 1)
	right := Reorder(fullFixture, visibleFixture, 1, 3)
	require.NotEqual(t, left, right)
}

func TestReorderPastLastVisibleColumn(t *testing.T) {
	got := Reorder(fullFixture, visibleFixture, 0, 9)
	want := []string{"h1", "B", "C", "h2", "D", "E", "A"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("overflow reorder mismatch (-want +got):\n%s", diff)
	}
}

func TestReorderDroppedInPlaceIsNoOp(t *testing.T) {
	got := Reorder(fullFixture, visibleFixture, 2, 2)
	require.Equal(t, fullFixture, got)

	// Dragging the last visible column past the end resolves the target to
	// the dragged column itself; the order must survive unchanged.
	got = Reorder(fullFixture, visibleFixture, 4, 9)
	require.Equal(t, fullFixture, got)
}

func TestReorderDoesNotMutateInput(t *testing.T) {
	full := append([]string(nil), fullFixture...)
	_ = Reorder(full, visibleFixture, 3, 1)
	require.Equal(t, fullFixture, full)
}

func TestReorderOutOfRangeSource(t *testing.T) {
	require.Equal(t, fullFixture, Reorder(fullFixture, visibleFixture, 7, 1))
	require.Equal(t, fullFixture, Reorder(fullFixture, visibleFixture, -1, 1))
}
