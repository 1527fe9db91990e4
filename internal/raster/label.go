package raster

// Connectivity selects which neighbours join a component.
type Connectivity int

const (
	// Four joins pixels sharing an edge.
	Four Connectivity = 4
	// Eight also joins pixels touching at a corner (queen's move).
	Eight Connectivity = 8
)

var (
	fourSteps  = [][2]int{{0, -1}, {1, 0}, {0, 1}, {-1, 0}}
	eightSteps = [][2]int{
		{0, -1}, {1, -1}, {1, 0}, {1, 1},
		{0, 1}, {-1, 1}, {-1, 0}, {-1, -1},
	}
)

// Components is the result of connected-component labeling. Ids are scratch
// values assigned in row-major order of each component's first pixel.
type Components struct {
	Grid Grid
	// Labels holds the component id per pixel, 0 for background.
	Labels []int32
	// Pixels lists the flat pixel indexes of component id at Pixels[id-1].
	// The first entry is the component's first pixel in row-major order.
	Pixels [][]int
}

// Count is the number of components.
func (c *Components) Count() int {
	return len(c.Pixels)
}

// Size returns the pixel count of component id.
func (c *Components) Size(id int) int {
	return len(c.Pixels[id-1])
}

// Label finds the connected runs of pixels equal to value.
func Label(m *Mask, value uint8, conn Connectivity) *Components {
	width, height := m.Grid.Width, m.Grid.Height
	steps := fourSteps
	if conn == Eight {
		steps = eightSteps
	}

	comps := &Components{Grid: m.Grid, Labels: make([]int32, len(m.Data))}
	var stack []int

	for start, v := range m.Data {
		if v != value || comps.Labels[start] != 0 {
			continue
		}

		id := int32(len(comps.Pixels) + 1)
		comps.Labels[start] = id
		pixels := []int{start}
		stack = append(stack[:0], start)

		for len(stack) > 0 {
			p := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			x, y := p%width, p/width

			for _, step := range steps {
				nx, ny := x+step[0], y+step[1]
				if nx < 0 || nx >= width || ny < 0 || ny >= height {
					continue
				}
				n := ny*width + nx
				if m.Data[n] != value || comps.Labels[n] != 0 {
					continue
				}
				comps.Labels[n] = id
				pixels = append(pixels, n)
				stack = append(stack, n)
			}
		}

		comps.Pixels = append(comps.Pixels, pixels)
	}

	return comps
}
