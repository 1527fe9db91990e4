package properties

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/forest-guardian/burn-recovery-cli/internal/logger"
	"github.com/forest-guardian/burn-recovery-cli/internal/raster"
)

// Northern Portugal, the area the fire analysis was first run on.
var defaultAreaExtent = [4]float64{-8.24721, 41.06626, -7.48991, 41.48443}

func RootPath() string {
	return os.Getenv("ROOT_PATH")
}

func ScenesPath() string {
	return filepath.Join(RootPath(), "data", "scenes")
}

func ResultPath() string {
	return filepath.Join(RootPath(), "data", "result")
}

func LogLevel() logger.LogLevel {
	return logger.ParseLevel(os.Getenv("LOG_LEVEL"))
}

// SceneBands is the band order inside a scene GeoTIFF.
func SceneBands() []string {
	return ListEnv("SCENE_BANDS", []string{"B04", "B08", "B12"})
}

func AreaCRS() string {
	return StringEnv("AREA_CRS", "EPSG:4326")
}

// AreaExtent is minx, miny, maxx, maxy of the analysed area in AreaCRS.
func AreaExtent() ([4]float64, error) {
	raw := os.Getenv("AREA_EXTENT")
	if raw == "" {
		return defaultAreaExtent, nil
	}
	parts := strings.Split(raw, ",")
	if len(parts) != 4 {
		return [4]float64{}, fmt.Errorf("AREA_EXTENT must be minx,miny,maxx,maxy, got %q", raw)
	}
	var extent [4]float64
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return [4]float64{}, fmt.Errorf("AREA_EXTENT: %w", err)
		}
		extent[i] = v
	}
	if extent[0] >= extent[2] || extent[1] >= extent[3] {
		return [4]float64{}, fmt.Errorf("AREA_EXTENT %q is empty", raw)
	}
	return extent, nil
}

// AreaGrid is the common grid scenes are requested and analysed on.
func AreaGrid() (raster.Grid, error) {
	width, err := IntEnv("GRID_WIDTH", 1000)
	if err != nil {
		return raster.Grid{}, err
	}
	height, err := IntEnv("GRID_HEIGHT", 1000)
	if err != nil {
		return raster.Grid{}, err
	}
	if width <= 0 || height <= 0 {
		return raster.Grid{}, fmt.Errorf("grid size %dx%d must be positive", width, height)
	}
	extent, err := AreaExtent()
	if err != nil {
		return raster.Grid{}, err
	}
	return raster.NewGrid(width, height, extent[0], extent[1], extent[2], extent[3], AreaCRS()), nil
}

func CopernicusClientIDs() []string {
	return ListEnv("COPERNICUS_CLIENT_ID", nil)
}

func CopernicusClientSecrets() []string {
	return ListEnv("COPERNICUS_CLIENT_SECRET", nil)
}

func CopernicusTokenURL() string {
	return os.Getenv("COPERNICUS_TOKEN_URL")
}

func CopernicusProcessURL() string {
	return StringEnv("COPERNICUS_PROCESS_URL", "https://sh.dataspace.copernicus.eu/api/v1/process")
}

func DiscordErrorNotificationUrl() string {
	return os.Getenv("DISCORD_ERROR_NOTIFICATION_URL")
}

func DiscordSuccessNotificationUrl() string {
	return os.Getenv("DISCORD_SUCCESS_NOTIFICATION_URL")
}

// StringEnv returns the trimmed value of key, or def when it is unset.
func StringEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

// ListEnv splits a comma separated variable, dropping empty items.
func ListEnv(key string, def []string) []string {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	var values []string
	for _, v := range strings.Split(raw, ",") {
		if v = strings.TrimSpace(v); v != "" {
			values = append(values, v)
		}
	}
	return values
}

// FloatEnv parses key as a finite float. NaN and infinities are rejected
// because every comparison against them is false.
func FloatEnv(key string, def float64) (float64, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return def, fmt.Errorf("%s: %w", key, err)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return def, fmt.Errorf("%s must be a finite number, got %q", key, raw)
	}
	return v, nil
}

func IntEnv(key string, def int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def, fmt.Errorf("%s: %w", key, err)
	}
	return v, nil
}

func Uint64Env(key string, def uint64) (uint64, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return def, fmt.Errorf("%s: %w", key, err)
	}
	return v, nil
}

func BoolEnv(key string, def bool) (bool, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return def, fmt.Errorf("%s: %w", key, err)
	}
	return v, nil
}
