package raster

import "errors"

var (
	// ErrInputShapeMismatch is returned when raster operands do not share a grid.
	ErrInputShapeMismatch = errors.New("input shape mismatch")
	// ErrEmptyInput is returned when a raster has no usable pixels.
	ErrEmptyInput = errors.New("empty input")
	// ErrInsufficientData is returned by strict clustering when the requested
	// number of clusters cannot be formed.
	ErrInsufficientData = errors.New("insufficient data")
)
