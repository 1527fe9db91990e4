package raster

import (
	"fmt"
	"math"
)

// Float is a row-major floating point raster. NaN marks no-data.
type Float struct {
	Grid Grid
	Data []float64
}

func NewFloat(g Grid) *Float {
	return &Float{Grid: g, Data: make([]float64, g.Size())}
}

// NewFloatFilled returns a raster with every pixel set to v.
func NewFloatFilled(g Grid, v float64) *Float {
	r := NewFloat(g)
	for i := range r.Data {
		r.Data[i] = v
	}
	return r
}

// FloatFromRows builds a raster from [y][x] rows, the layout GDAL band reads are split into.
func FloatFromRows(g Grid, rows [][]float64) (*Float, error) {
	if len(rows) != g.Height {
		return nil, fmt.Errorf("%w: %d rows for grid height %d", ErrInputShapeMismatch, len(rows), g.Height)
	}
	r := NewFloat(g)
	for y, row := range rows {
		if len(row) != g.Width {
			return nil, fmt.Errorf("%w: row %d has %d values for grid width %d", ErrInputShapeMismatch, y, len(row), g.Width)
		}
		copy(r.Data[y*g.Width:], row)
	}
	return r, nil
}

func (r *Float) At(x, y int) float64 {
	return r.Data[y*r.Grid.Width+x]
}

func (r *Float) Set(x, y int, v float64) {
	r.Data[y*r.Grid.Width+x] = v
}

// ValidCount is the number of non-NaN pixels.
func (r *Float) ValidCount() int {
	count := 0
	for _, v := range r.Data {
		if !math.IsNaN(v) {
			count++
		}
	}
	return count
}

func (r *Float) Clone() *Float {
	data := make([]float64, len(r.Data))
	copy(data, r.Data)
	return &Float{Grid: r.Grid, Data: data}
}

// Mask is a row-major unsigned raster used for binary and ordinal class masks.
type Mask struct {
	Grid Grid
	Data []uint8
}

func NewMask(g Grid) *Mask {
	return &Mask{Grid: g, Data: make([]uint8, g.Size())}
}

func MaskFromRows(g Grid, rows [][]uint8) (*Mask, error) {
	if len(rows) != g.Height {
		return nil, fmt.Errorf("%w: %d rows for grid height %d", ErrInputShapeMismatch, len(rows), g.Height)
	}
	m := NewMask(g)
	for y, row := range rows {
		if len(row) != g.Width {
			return nil, fmt.Errorf("%w: row %d has %d values for grid width %d", ErrInputShapeMismatch, y, len(row), g.Width)
		}
		copy(m.Data[y*g.Width:], row)
	}
	return m, nil
}

func (m *Mask) At(x, y int) uint8 {
	return m.Data[y*m.Grid.Width+x]
}

func (m *Mask) Set(x, y int, v uint8) {
	m.Data[y*m.Grid.Width+x] = v
}

// Count returns how many pixels hold v.
func (m *Mask) Count(v uint8) int {
	count := 0
	for _, p := range m.Data {
		if p == v {
			count++
		}
	}
	return count
}

func (m *Mask) Clone() *Mask {
	data := make([]uint8, len(m.Data))
	copy(data, m.Data)
	return &Mask{Grid: m.Grid, Data: data}
}

// Equal reports whether both masks share grid and pixel values.
func (m *Mask) Equal(o *Mask) bool {
	if m.Grid.Check(o.Grid) != nil {
		return false
	}
	for i := range m.Data {
		if m.Data[i] != o.Data[i] {
			return false
		}
	}
	return true
}
