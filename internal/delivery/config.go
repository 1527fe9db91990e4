package delivery

import (
	"fmt"

	"github.com/forest-guardian/burn-recovery-cli/internal/pipeline"
	"github.com/forest-guardian/burn-recovery-cli/internal/properties"
	"github.com/forest-guardian/burn-recovery-cli/internal/recovery"
)

// LoadPipelineConfig reads the analysis parameters. Unset variables keep
// their defaults; a value that does not parse is an error naming it.
func LoadPipelineConfig() (pipeline.Config, error) {
	cfg := pipeline.DefaultConfig()
	var err error

	if cfg.Burn.Threshold, err = properties.FloatEnv("BURN_THRESHOLD", cfg.Burn.Threshold); err != nil {
		return cfg, err
	}
	if cfg.Burn.MinClusterSize, err = properties.IntEnv("MIN_CLUSTER_SIZE", cfg.Burn.MinClusterSize); err != nil {
		return cfg, err
	}
	if cfg.Burn.MinClusterSize < 0 {
		return cfg, fmt.Errorf("MIN_CLUSTER_SIZE must not be negative, got %d", cfg.Burn.MinClusterSize)
	}
	if cfg.Thresholds.Low, err = properties.FloatEnv("RECOVERY_LOW_THRESHOLD", cfg.Thresholds.Low); err != nil {
		return cfg, err
	}
	if cfg.Thresholds.High, err = properties.FloatEnv("RECOVERY_HIGH_THRESHOLD", cfg.Thresholds.High); err != nil {
		return cfg, err
	}
	if err := cfg.Thresholds.Validate(); err != nil {
		return cfg, err
	}

	if cfg.KMeans.Seed, err = properties.Uint64Env("KMEANS_SEED", cfg.KMeans.Seed); err != nil {
		return cfg, err
	}
	if cfg.KMeans.Runs, err = properties.IntEnv("KMEANS_RUNS", cfg.KMeans.Runs); err != nil {
		return cfg, err
	}
	if cfg.KMeans.MaxIter, err = properties.IntEnv("KMEANS_MAX_ITER", cfg.KMeans.MaxIter); err != nil {
		return cfg, err
	}
	if cfg.KMeans.Strict, err = properties.BoolEnv("KMEANS_STRICT", cfg.KMeans.Strict); err != nil {
		return cfg, err
	}

	if methods := properties.ListEnv("RECOVERY_METHODS", nil); len(methods) > 0 {
		cfg.Methods = cfg.Methods[:0:0]
		for _, m := range methods {
			cfg.Methods = append(cfg.Methods, recovery.Method(m))
		}
	}
	if _, err := cfg.Strategies(); err != nil {
		return cfg, fmt.Errorf("RECOVERY_METHODS: %w", err)
	}

	switch baseline := pipeline.Baseline(properties.StringEnv("RECOVERY_BASELINE", string(cfg.Baseline))); baseline {
	case pipeline.BaselinePreFire, pipeline.BaselinePostFire:
		cfg.Baseline = baseline
	default:
		return cfg, fmt.Errorf("RECOVERY_BASELINE must be %q or %q, got %q", pipeline.BaselinePreFire, pipeline.BaselinePostFire, baseline)
	}

	return cfg, nil
}
