package polygon

import (
	"sort"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

type segment struct {
	index                  int
	minX, minY, maxX, maxY int
}

// simpleRing reports whether a closed, axis-aligned pixel-space ring has at
// least three distinct corners and no two non-adjacent segments sharing a
// point.
func simpleRing(ring []vertex) bool {
	if len(ring) < 4 || ring[0] != ring[len(ring)-1] {
		return false
	}

	n := len(ring) - 1
	segs := make([]segment, n)
	for i := 0; i < n; i++ {
		a, b := ring[i], ring[i+1]
		if a.X != b.X && a.Y != b.Y {
			return false
		}
		segs[i] = segment{
			index: i,
			minX:  min(a.X, b.X),
			minY:  min(a.Y, b.Y),
			maxX:  max(a.X, b.X),
			maxY:  max(a.Y, b.Y),
		}
	}

	adjacent := func(i, j int) bool {
		d := i - j
		if d < 0 {
			d = -d
		}
		return d <= 1 || d == n-1
	}

	// Axis-aligned segments touch exactly when their bounds overlap.
	sort.Slice(segs, func(i, j int) bool { return segs[i].minX < segs[j].minX })
	for i, a := range segs {
		for _, b := range segs[i+1:] {
			if b.minX > a.maxX {
				break
			}
			if b.minY > a.maxY || a.minY > b.maxY {
				continue
			}
			if !adjacent(a.index, b.index) {
				return false
			}
		}
	}
	return true
}

// validPolygon checks a traced polygon. Rings must be simple in pixel space
// and the mapped rings must enclose a nonzero area. Invalid polygons are
// dropped, never repaired.
func validPolygon(pixelRings [][]vertex, poly orb.Polygon) bool {
	if len(poly) == 0 || len(pixelRings) != len(poly) {
		return false
	}
	for i, ring := range pixelRings {
		if !simpleRing(ring) {
			return false
		}
		if len(poly[i]) != len(ring) || !poly[i].Closed() || planar.Area(poly[i]) == 0 {
			return false
		}
	}
	return planar.Area(poly) > 0
}
