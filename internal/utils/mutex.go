package utils

import "sync"

var gdalMu sync.Mutex

// ExecuteWithMutex serialises GDAL dataset open and create calls.
func ExecuteWithMutex(fn func()) {
	gdalMu.Lock()
	defer gdalMu.Unlock()
	fn()
}
