package dbscan

import "container/heap"

// reachItem is a point waiting in the OPTICS seed queue.
type reachItem struct {
	point int
	reach float64
	index int // position in the heap, -1 once popped
}

// reachHeap orders items by (reach, point) ascending.
type reachHeap []*reachItem

func (h reachHeap) Len() int { return len(h) }

func (h reachHeap) Less(i, j int) bool {
	if h[i].reach != h[j].reach {
		return h[i].reach < h[j].reach
	}
	return h[i].point < h[j].point
}

func (h reachHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *reachHeap) Push(x any) {
	item := x.(*reachItem)
	item.index = len(*h)
	*h = append(*h, item)
}

func (h *reachHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.index = -1
	*h = old[:n-1]
	return item
}

// reachQueue is an indexed min-priority queue of point ids keyed by
// reachability distance, supporting decrease-key in O(log n).
type reachQueue struct {
	h     reachHeap
	items []*reachItem // by point id; nil if the point is not queued
}

func newReachQueue(n int) *reachQueue {
	return &reachQueue{
		h:     make(reachHeap, 0, n),
		items: make([]*reachItem, n),
	}
}

func (q *reachQueue) Len() int { return q.h.Len() }

// Contains reports whether point is currently queued.
func (q *reachQueue) Contains(point int) bool {
	return q.items[point] != nil
}

// Push inserts point with the given reachability. The point must not be queued.
func (q *reachQueue) Push(point int, reach float64) {
	item := &reachItem{point: point, reach: reach}
	q.items[point] = item
	heap.Push(&q.h, item)
}

// Decrease lowers the key of a queued point. It reports false and leaves the
// queue untouched when reach is not smaller than the current key.
func (q *reachQueue) Decrease(point int, reach float64) bool {
	item := q.items[point]
	if reach >= item.reach {
		return false
	}
	item.reach = reach
	heap.Fix(&q.h, item.index)
	return true
}

// Pop removes and returns the point with the smallest reachability, ties
// broken by the smaller point id.
func (q *reachQueue) Pop() (point int, reach float64) {
	item := heap.Pop(&q.h).(*reachItem)
	q.items[item.point] = nil
	return item.point, item.reach
}
