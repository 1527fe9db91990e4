package polygon

import "sort"

// Boundary directions in pixel space, y pointing down.
const (
	east = iota
	south
	west
	north
)

var (
	stepX = [4]int{1, 0, -1, 0}
	stepY = [4]int{0, 1, 0, -1}
)

// vertex is a pixel corner; (x, y) is the top-left corner of pixel (x, y).
type vertex struct {
	X, Y int
}

// edgeSet holds the directed unit boundary edges of one component, keyed by
// start corner with one bit per direction. Edges run with the component on
// their right-hand side.
type edgeSet struct {
	stride int
	edges  map[int]uint8
}

func (s *edgeSet) add(x, y, dir int) {
	s.edges[y*s.stride+x] |= 1 << dir
}

func (s *edgeSet) has(key, dir int) bool {
	return s.edges[key]&(1<<dir) != 0
}

func (s *edgeSet) remove(key, dir int) {
	s.edges[key] &^= 1 << dir
	if s.edges[key] == 0 {
		delete(s.edges, key)
	}
}

func (s *edgeSet) vertex(key int) vertex {
	return vertex{X: key % s.stride, Y: key / s.stride}
}

// boundary collects the boundary edges of the component made of pixels,
// where inside reports membership of a pixel in that component.
func boundary(pixels []int, width, height int, inside func(x, y int) bool) *edgeSet {
	set := &edgeSet{stride: width + 1, edges: make(map[int]uint8)}
	for _, p := range pixels {
		x, y := p%width, p/width
		if !inside(x, y-1) {
			set.add(x, y, east)
		}
		if !inside(x+1, y) {
			set.add(x+1, y, south)
		}
		if !inside(x, y+1) {
			set.add(x+1, y+1, west)
		}
		if !inside(x-1, y) {
			set.add(x, y+1, north)
		}
	}
	return set
}

// turn picks the edge leaving key after arriving with direction dir. Where
// two boundaries meet at a corner, left is preferred over straight and right,
// so every ring stays simple and diagonal contacts split rings at that point.
func turn(all *edgeSet, key, dir int) int {
	for _, t := range [3]int{3, 0, 1} {
		next := (dir + t) % 4
		if all.has(key, next) {
			return next
		}
	}
	return -1
}

// traceRings walks every boundary edge exactly once and returns the closed
// rings in pixel space. Only corners are kept; collinear runs are merged. The
// first ring starts at the top edge of the component's first pixel, so it is
// the outer ring.
func traceRings(all *edgeSet, first vertex) [][]vertex {
	unused := &edgeSet{stride: all.stride, edges: make(map[int]uint8, len(all.edges))}
	for k, v := range all.edges {
		unused.edges[k] = v
	}

	var rings [][]vertex
	startKey, startDir := first.Y*all.stride+first.X, east
	for {
		ring := traceRing(all, unused, startKey, startDir)
		if len(ring) > 0 {
			rings = append(rings, ring)
		}
		if len(unused.edges) == 0 {
			break
		}
		startKey, startDir = lowestEdge(unused)
	}
	return rings
}

func traceRing(all, unused *edgeSet, startKey, startDir int) []vertex {
	var corners []vertex
	key, dir := startKey, startDir
	for steps := 0; ; steps++ {
		unused.remove(key, dir)
		v := all.vertex(key)
		key = (v.Y+stepY[dir])*all.stride + v.X + stepX[dir]

		next := turn(all, key, dir)
		if next < 0 || steps > len(all.edges)*4 {
			// Unreachable for edge sets built by boundary.
			return nil
		}
		if next != dir {
			corners = append(corners, all.vertex(key))
		}
		if key == startKey && next == startDir {
			break
		}
		dir = next
	}

	if len(corners) == 0 {
		return nil
	}
	return append(corners, corners[0])
}

// lowestEdge returns the unused edge with the smallest start corner key and
// direction, so hole tracing does not depend on map order.
func lowestEdge(s *edgeSet) (int, int) {
	keys := make([]int, 0, len(s.edges))
	for k := range s.edges {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	for dir := 0; dir < 4; dir++ {
		if s.has(keys[0], dir) {
			return keys[0], dir
		}
	}
	return keys[0], east
}

// signedArea2 is twice the shoelace area of a closed pixel-space ring. Outer
// rings are positive, holes negative.
func signedArea2(ring []vertex) int {
	area := 0
	for i := 0; i+1 < len(ring); i++ {
		area += ring[i].X*ring[i+1].Y - ring[i+1].X*ring[i].Y
	}
	return area
}
