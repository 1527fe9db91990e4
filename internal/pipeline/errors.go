package pipeline

import (
	"errors"
	"fmt"
)

type Stage string

const (
	StageIndex    Stage = "index"
	StageBurn     Stage = "burn"
	StageRecovery Stage = "recovery"
)

// ErrTooFewScenes is returned when a run lacks the pre-fire scene or the
// post-fire dates it needs.
var ErrTooFewScenes = errors.New("too few scenes")

// StageError tells which stage, date and raster failed. The raster error kind
// is available through errors.Is.
type StageError struct {
	Stage  Stage
	Date   string
	Raster string
	Err    error
}

func (e *StageError) Error() string {
	if e.Raster == "" {
		return fmt.Sprintf("%s stage failed for %s: %v", e.Stage, e.Date, e.Err)
	}
	return fmt.Sprintf("%s stage failed for %s (%s): %v", e.Stage, e.Date, e.Raster, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}
