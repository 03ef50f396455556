package table

// Reorder applies a drag of the column at visible position sourceIndex to
// visible position destIndex, returning the new full column order. The full
// order may contain keys that are hidden or stale; only visible positions
// move, so the destination is resolved to the key occupying that visible
// slot before splicing the full order.
//
// Removal of the dragged key shifts every index after it, which is why the
// two directions insert differently: dragging leftward inserts immediately
// before the target key, dragging rightward immediately after it. A drop
// past the last visible column appends to the end of the full order, and a
// drop onto the dragged column's own slot leaves the order unchanged.
func Reorder(fullOrder, visibleOrder []string, sourceIndex, destIndex int) []string {
	out := append([]string(nil), fullOrder...)
	if sourceIndex < 0 || sourceIndex >= len(visibleOrder) || destIndex < 0 {
		return out
	}
	if sourceIndex == destIndex {
		return out
	}

	draggedKey := visibleOrder[sourceIndex]

	targetKey := visibleOrder[len(visibleOrder)-1]
	if destIndex < len(visibleOrder) {
		targetKey = visibleOrder[destIndex]
	}
	if targetKey == draggedKey {
		return out
	}

	if i := indexOf(out, draggedKey); i >= 0 {
		out = append(out[:i], out[i+1:]...)
	}

	targetIndex := indexOf(out, targetKey)
	if targetIndex < 0 {
		return append(out, draggedKey)
	}

	insertAt := targetIndex
	if destIndex > sourceIndex {
		insertAt = targetIndex + 1
	}
	out = append(out, "")
	copy(out[insertAt+1:], out[insertAt:])
	out[insertAt] = draggedKey
	return out
}

func indexOf(keys []string, key string) int {
	for i, k := range keys {
		if k == key {
			return i
		}
	}
	return -1
}
