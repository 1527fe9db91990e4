package pipeline

import (
	"context"
	"fmt"

	"github.com/forest-guardian/burn-recovery-cli/internal/burn"
	"github.com/forest-guardian/burn-recovery-cli/internal/index"
	"github.com/forest-guardian/burn-recovery-cli/internal/logger"
	"github.com/forest-guardian/burn-recovery-cli/internal/polygon"
	"github.com/forest-guardian/burn-recovery-cli/internal/recovery"
	"github.com/forest-guardian/burn-recovery-cli/internal/scene"
	"golang.org/x/sync/errgroup"
)

// Baseline selects the NDVI raster later dates are compared against.
type Baseline string

const (
	// BaselinePreFire compares every post-fire date with the pre-fire scene.
	BaselinePreFire Baseline = "pre"
	// BaselinePostFire compares later dates with the first post-fire scene,
	// the one the burn mask was detected on.
	BaselinePostFire Baseline = "post"
)

type Config struct {
	Burn       burn.Options
	Thresholds recovery.Thresholds
	KMeans     recovery.KMeansOptions
	Methods    []recovery.Method
	Baseline   Baseline
}

func DefaultConfig() Config {
	return Config{
		Burn:       burn.DefaultOptions(),
		Thresholds: recovery.DefaultThresholds(),
		KMeans:     recovery.DefaultKMeansOptions(),
		Methods:    []recovery.Method{recovery.MethodThreshold, recovery.MethodKMeans},
		Baseline:   BaselinePreFire,
	}
}

// Strategies builds the classification strategies in the configured order.
func (c Config) Strategies() ([]recovery.Strategy, error) {
	strategies := make([]recovery.Strategy, 0, len(c.Methods))
	for _, m := range c.Methods {
		switch m {
		case recovery.MethodThreshold:
			strategies = append(strategies, recovery.ThresholdStrategy{Thresholds: c.Thresholds})
		case recovery.MethodKMeans:
			strategies = append(strategies, recovery.KMeansStrategy{Options: c.KMeans})
		default:
			return nil, fmt.Errorf("unknown recovery method %q", m)
		}
	}
	if len(strategies) == 0 {
		return nil, fmt.Errorf("no recovery method configured")
	}
	return strategies, nil
}

// Recovery is the classification of one date with one method.
type Recovery struct {
	Scene  scene.Scene
	Result *recovery.Result
	Layer  *polygon.Layer
}

type Result struct {
	// Scenes are the inputs with nbr and ndvi attached, in time order.
	Scenes    []scene.Scene
	Pre       scene.Scene
	Post      scene.Scene
	Baseline  scene.Scene
	Burn      *burn.Result
	BurnLayer *polygon.Layer
	// Recovery is ordered by date, then by configured method.
	Recovery []Recovery
}

// Dates lists the classified dates in order.
func (r *Result) Dates() []string {
	var dates []string
	for _, rec := range r.Recovery {
		if len(dates) == 0 || dates[len(dates)-1] != rec.Scene.Date() {
			dates = append(dates, rec.Scene.Date())
		}
	}
	return dates
}

type Pipeline struct {
	cfg Config
	log logger.ILogger
}

func New(cfg Config, log logger.ILogger) *Pipeline {
	if log == nil {
		log = &logger.NullLogger{}
	}
	return &Pipeline{cfg: cfg, log: log}
}

// Run analyses one fire. The earliest scene is the pre-fire acquisition, the
// next one is the post-fire acquisition the burn mask is detected on. Every
// date after the baseline is classified with each configured method. Input
// scenes and their rasters are not modified.
func (p *Pipeline) Run(ctx context.Context, scenes []scene.Scene) (*Result, error) {
	strategies, err := p.cfg.Strategies()
	if err != nil {
		return nil, err
	}

	ordered := scene.SortByTime(scenes)
	minScenes := 3
	if p.cfg.Baseline == BaselinePostFire {
		minScenes = 4
	}
	if len(ordered) < minScenes {
		return nil, fmt.Errorf("%w: %d scenes, %s baseline needs %d", ErrTooFewScenes, len(ordered), p.cfg.Baseline, minScenes)
	}

	derived, err := p.deriveIndices(ctx, ordered)
	if err != nil {
		return nil, err
	}

	result := &Result{Scenes: derived, Pre: derived[0], Post: derived[1]}
	if err := p.detectBurn(result); err != nil {
		return nil, err
	}

	later := derived[1:]
	result.Baseline = result.Pre
	if p.cfg.Baseline == BaselinePostFire {
		result.Baseline = result.Post
		later = derived[2:]
	}

	result.Recovery, err = p.classify(ctx, result.Baseline, later, result.Burn, strategies)
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (p *Pipeline) deriveIndices(ctx context.Context, scenes []scene.Scene) ([]scene.Scene, error) {
	derived := make([]scene.Scene, len(scenes))
	g, ctx := errgroup.WithContext(ctx)
	for i, s := range scenes {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			d, err := index.Derive(s)
			if err != nil {
				return &StageError{Stage: StageIndex, Date: s.Date(), Err: err}
			}
			derived[i] = d
			p.log.Debugf("derived nbr and ndvi for scene %s", s.ID)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return derived, nil
}

func (p *Pipeline) detectBurn(result *Result) error {
	preNBR, err := result.Pre.MustBand(scene.BandNBR)
	if err != nil {
		return &StageError{Stage: StageBurn, Date: result.Pre.Date(), Raster: scene.BandNBR, Err: err}
	}
	postNBR, err := result.Post.MustBand(scene.BandNBR)
	if err != nil {
		return &StageError{Stage: StageBurn, Date: result.Post.Date(), Raster: scene.BandNBR, Err: err}
	}

	detected, err := burn.Detect(preNBR, postNBR, p.cfg.Burn)
	if err != nil {
		return &StageError{Stage: StageBurn, Date: result.Post.Date(), Raster: scene.BandNBR, Err: err}
	}

	result.Burn = detected
	result.BurnLayer = polygon.Polygonize(detected.Mask, []uint8{1})
	p.log.Infof("burn mask %s: %d pixels in %d of %d components (threshold %v, min cluster %d)",
		result.Post.Date(), detected.PixelCount, detected.Kept, detected.Components,
		p.cfg.Burn.Threshold, p.cfg.Burn.MinClusterSize)
	if detected.PixelCount == 0 {
		p.log.Infof("no burned area found, recovery classes will be empty")
	}
	return nil
}

func (p *Pipeline) classify(ctx context.Context, baseline scene.Scene, later []scene.Scene, detected *burn.Result, strategies []recovery.Strategy) ([]Recovery, error) {
	baseNDVI, err := baseline.MustBand(scene.BandNDVI)
	if err != nil {
		return nil, &StageError{Stage: StageRecovery, Date: baseline.Date(), Raster: scene.BandNDVI, Err: err}
	}

	results := make([]Recovery, len(later)*len(strategies))
	g, ctx := errgroup.WithContext(ctx)
	for i, s := range later {
		for j, strategy := range strategies {
			g.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}
				ndvi, err := s.MustBand(scene.BandNDVI)
				if err != nil {
					return &StageError{Stage: StageRecovery, Date: s.Date(), Raster: scene.BandNDVI, Err: err}
				}

				classified, err := recovery.Classify(s.ID, baseNDVI, ndvi, detected.Mask, strategy)
				if err != nil {
					return &StageError{Stage: StageRecovery, Date: s.Date(), Raster: string(strategy.Method()), Err: err}
				}

				layer := polygon.Polygonize(classified.Classes, recovery.Classes)
				if layer.Discarded > 0 {
					p.log.Infof("%s %s: discarded %d invalid polygons", strategy.Method(), s.Date(), layer.Discarded)
				}
				p.log.Infof("%s %s: %d polygons, centers %v", strategy.Method(), s.Date(), len(layer.Features), classified.Centers)

				results[i*len(strategies)+j] = Recovery{Scene: s, Result: classified, Layer: layer}
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
