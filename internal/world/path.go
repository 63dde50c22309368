package world

import (
	"container/heap"
	"math"
)

// Path is an ordered list of hexes from start to end, both included, with
// the summed cost of entering every hex after the start.
type Path struct {
	Hexes []HexCoord `json:"hexes"`
	Cost  float64    `json:"cost"`
}

// FindPath runs A* over the hex grid using terrain entry costs. It returns
// false when either endpoint is missing or impassable, or no route exists.
// A path from a hex to itself has a single entry and zero cost.
func FindPath(from, to HexCoord, m *Map) (Path, bool) {
	start, goal := m.Get(from), m.Get(to)
	if start == nil || goal == nil || !goal.Terrain.Passable() {
		return Path{}, false
	}
	if from == to {
		return Path{Hexes: []HexCoord{from}}, true
	}

	open := &pathQueue{}
	heap.Push(open, &pathNode{coord: from, priority: 0})
	cameFrom := map[HexCoord]HexCoord{}
	cost := map[HexCoord]float64{from: 0}
	closed := map[HexCoord]bool{}

	for open.Len() > 0 {
		current := heap.Pop(open).(*pathNode).coord
		if current == to {
			return Path{Hexes: reconstruct(cameFrom, from, to), Cost: cost[to]}, true
		}
		if closed[current] {
			continue
		}
		closed[current] = true

		for _, next := range current.Neighbors() {
			h := m.Get(next)
			if h == nil || !h.Terrain.Passable() || closed[next] {
				continue
			}
			g := cost[current] + h.Terrain.MovementCost()
			if old, seen := cost[next]; seen && g >= old {
				continue
			}
			cost[next] = g
			cameFrom[next] = current
			// Cheapest terrain costs 1, so hex distance never overestimates.
			heap.Push(open, &pathNode{coord: next, priority: g + float64(Distance(next, to))})
		}
	}
	return Path{}, false
}

// TravelTurns converts a path cost into whole turns at the given speed
// multiplier. The result is at least 1.
func TravelTurns(cost, speed float64) int {
	if speed <= 0 {
		speed = 1
	}
	turns := int(math.Ceil(cost / speed))
	if turns < 1 {
		turns = 1
	}
	return turns
}

func reconstruct(cameFrom map[HexCoord]HexCoord, from, to HexCoord) []HexCoord {
	path := []HexCoord{to}
	for c := to; c != from; {
		c = cameFrom[c]
		path = append(path, c)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

type pathNode struct {
	coord    HexCoord
	priority float64
}

type pathQueue []*pathNode

func (q pathQueue) Len() int { return len(q) }
func (q pathQueue) Less(i, j int) bool {
	if q[i].priority == q[j].priority {
		return q[i].coord.Key() < q[j].coord.Key()
	}
	return q[i].priority < q[j].priority
}
func (q pathQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }
func (q *pathQueue) Push(x any)   { *q = append(*q, x.(*pathNode)) }
func (q *pathQueue) Pop() any {
	old := *q
	n := old[len(old)-1]
	*q = old[:len(old)-1]
	return n
}
