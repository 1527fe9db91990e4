package output

import (
	"fmt"
	"math"

	"github.com/airbusgeo/godal"
	"github.com/forest-guardian/burn-recovery-cli/internal/raster"
	"github.com/forest-guardian/burn-recovery-cli/internal/utils"
)

// WriteMaskGeoTIFF writes a class or burn mask as a single band Byte GeoTIFF.
func WriteMaskGeoTIFF(path string, m *raster.Mask) error {
	return writeGeoTIFF(path, m.Grid, godal.Byte, m.Data, nil)
}

// WriteFloatGeoTIFF writes an index or difference raster as Float32 with NaN no-data.
func WriteFloatGeoTIFF(path string, r *raster.Float) error {
	nodata := math.NaN()
	return writeGeoTIFF(path, r.Grid, godal.Float32, r.Data, &nodata)
}

func writeGeoTIFF(path string, g raster.Grid, dtype godal.DataType, data interface{}, nodata *float64) error {
	var err error
	utils.ExecuteWithMutex(func() {
		err = createGeoTIFF(path, g, dtype, data, nodata)
	})
	return err
}

func createGeoTIFF(path string, g raster.Grid, dtype godal.DataType, data interface{}, nodata *float64) error {
	ds, err := godal.Create(godal.GTiff, path, 1, dtype, g.Width, g.Height, godal.CreationOption("COMPRESS=DEFLATE"))
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	if err := ds.SetGeoTransform(g.Transform); err != nil {
		ds.Close()
		return fmt.Errorf("failed to set geotransform of %s: %w", path, err)
	}
	if g.CRS != "" {
		sr, err := godal.NewSpatialRef(g.CRS)
		if err != nil {
			ds.Close()
			return fmt.Errorf("invalid crs %q: %w", g.CRS, err)
		}
		err = ds.SetSpatialRef(sr)
		sr.Close()
		if err != nil {
			ds.Close()
			return fmt.Errorf("failed to set crs of %s: %w", path, err)
		}
	}

	band := ds.Bands()[0]
	if nodata != nil {
		if err := band.SetNoData(*nodata); err != nil {
			ds.Close()
			return err
		}
	}
	if err := band.Write(0, 0, data, g.Width, g.Height); err != nil {
		ds.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return ds.Close()
}
