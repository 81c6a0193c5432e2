package search

import (
	"container/heap"

	"github.com/crow-router/crow/internal/domain/routing"
)

type frontierItem struct {
	priority float64
	seq      uint64
	path     routing.Route
	index    int
}

type frontierQueue []*frontierItem

func (q frontierQueue) Len() int { return len(q) }

// Less orders by priority, then by insertion order
func (q frontierQueue) Less(i, j int) bool {
	if q[i].priority != q[j].priority {
		return q[i].priority < q[j].priority
	}
	return q[i].seq < q[j].seq
}

func (q frontierQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *frontierQueue) Push(x any) {
	item := x.(*frontierItem)
	item.index = len(*q)
	*q = append(*q, item)
}

func (q *frontierQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return item
}

// Frontier is the min-heap of partial paths awaiting expansion.
// Duplicate entries for one system are allowed; the search discards stale ones on pop.
type Frontier struct {
	queue frontierQueue
	seq   uint64
}

// NewFrontier creates an empty frontier
func NewFrontier() *Frontier {
	f := &Frontier{}
	heap.Init(&f.queue)
	return f
}

// Push adds a path keyed by priority
func (f *Frontier) Push(priority float64, path routing.Route) {
	f.seq++
	heap.Push(&f.queue, &frontierItem{priority: priority, seq: f.seq, path: path})
}

// Pop removes the lowest-priority path
func (f *Frontier) Pop() (routing.Route, float64, bool) {
	if f.queue.Len() == 0 {
		return routing.Route{}, 0, false
	}
	item := heap.Pop(&f.queue).(*frontierItem)
	return item.path, item.priority, true
}

// Len returns the number of queued paths
func (f *Frontier) Len() int {
	return f.queue.Len()
}
