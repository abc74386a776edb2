package astar

import "github.com/vovakirdan/gridpath/internal/core"

// frontierItem is one pending expansion. A coordinate may have several items
// when a cheaper route is found later; the closed set discards the stale ones.
type frontierItem struct {
	Node  core.Coord
	G     int
	F     int
	Order int // insertion sequence, breaks f ties first-in first-out
}

// frontier is a binary min-heap of frontierItem ordered by (F, Order).
// It implements heap.Interface.
type frontier []frontierItem

func (q frontier) Len() int { return len(q) }

func (q frontier) Less(i, j int) bool {
	if q[i].F != q[j].F {
		return q[i].F < q[j].F
	}
	return q[i].Order < q[j].Order
}

func (q frontier) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *frontier) Push(x any) {
	*q = append(*q, x.(frontierItem))
}

func (q *frontier) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}
