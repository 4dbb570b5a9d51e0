package planner

// MinHeap is an array-backed binary min-heap keyed by a float64 priority.
// The parent of node i sits at (i-1)/2, its children at 2i+1 and 2i+2.
// When two entries carry the same key the extraction order depends on
// insertion order and heap shape; callers must not rely on it.
type MinHeap[T any] struct {
	nodes []heapNode[T]
}

type heapNode[T any] struct {
	key     float64
	payload T
}

// Len reports the number of queued entries.
func (h *MinHeap[T]) Len() int {
	return len(h.nodes)
}

// Insert queues a payload under the given key in O(log n).
func (h *MinHeap[T]) Insert(key float64, payload T) {
	h.nodes = append(h.nodes, heapNode[T]{key: key, payload: payload})
	i := len(h.nodes) - 1
	for i > 0 {
		parent := (i - 1) / 2
		if h.nodes[parent].key <= h.nodes[i].key {
			break
		}
		h.nodes[parent], h.nodes[i] = h.nodes[i], h.nodes[parent]
		i = parent
	}
}

// ExtractMin removes and returns the payload with the smallest key.
// The second return value is false when the heap is empty.
func (h *MinHeap[T]) ExtractMin() (T, bool) {
	if len(h.nodes) == 0 {
		var zero T
		return zero, false
	}

	root := h.nodes[0].payload
	last := len(h.nodes) - 1
	h.nodes[0] = h.nodes[last]
	h.nodes[last] = heapNode[T]{} // allow GC
	h.nodes = h.nodes[:last]

	i := 0
	for {
		left := 2*i + 1
		right := 2*i + 2
		smallest := i
		if left < len(h.nodes) && h.nodes[left].key < h.nodes[smallest].key {
			smallest = left
		}
		if right < len(h.nodes) && h.nodes[right].key < h.nodes[smallest].key {
			smallest = right
		}
		if smallest == i {
			break
		}
		h.nodes[i], h.nodes[smallest] = h.nodes[smallest], h.nodes[i]
		i = smallest
	}

	return root, true
}
