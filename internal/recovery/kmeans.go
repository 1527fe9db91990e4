package recovery

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sort"

	"github.com/forest-guardian/burn-recovery-cli/internal/raster"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// KMeansOptions configures the clustering strategy.
type KMeansOptions struct {
	Clusters  int     // requested cluster count
	Seed      uint64  // seed of the k-means++ initialisation
	Runs      int     // initialisations tried, lowest inertia wins
	MaxIter   int     // Lloyd iterations per run
	Tolerance float64 // relative to the sample variance
	Strict    bool    // fail instead of degrading when clusters cannot be formed
}

func DefaultKMeansOptions() KMeansOptions {
	return KMeansOptions{
		Clusters:  3,
		Seed:      42,
		Runs:      10,
		MaxIter:   300,
		Tolerance: 1e-4,
	}
}

// Fit is a k-means solution over one-dimensional samples. Cluster ids are
// arbitrary; OrdinalClasses ranks them.
type Fit struct {
	Labels     []int
	Centers    []float64
	Inertia    float64
	Iterations int
}

// FitKMeans clusters samples. The result depends only on the multiset of
// sample values and the options, not on sample order.
//
// Fewer samples than clusters is ErrInsufficientData. Fewer distinct values
// than clusters is ErrInsufficientData in strict mode, otherwise one cluster
// per distinct value is fitted.
func FitKMeans(samples []float64, opts KMeansOptions) (*Fit, error) {
	k := opts.Clusters
	if k < 1 {
		return nil, fmt.Errorf("invalid cluster count %d", k)
	}
	if len(samples) < k {
		return nil, fmt.Errorf("%w: %d samples for %d clusters", raster.ErrInsufficientData, len(samples), k)
	}

	sorted := make([]float64, len(samples))
	copy(sorted, samples)
	sort.Float64s(sorted)

	if distinct := countDistinct(sorted); distinct < k {
		if opts.Strict {
			return nil, fmt.Errorf("%w: %d distinct values for %d clusters", raster.ErrInsufficientData, distinct, k)
		}
		k = distinct
	}

	prefix, prefixSq := prefixSums(sorted)
	tol := 0.0
	if len(sorted) > 1 {
		tol = opts.Tolerance * stat.Variance(sorted, nil)
	}

	rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed))
	runs := opts.Runs
	if runs < 1 {
		runs = 1
	}

	var best *Fit
	for run := 0; run < runs; run++ {
		centers := seedCenters(sorted, k, rng)
		centers, iterations := lloyd(sorted, prefix, centers, opts.MaxIter, tol)
		sse := inertia(sorted, prefix, prefixSq, centers)
		if best == nil || sse < best.Inertia {
			best = &Fit{Centers: centers, Inertia: sse, Iterations: iterations}
		}
	}

	best.Labels = assign(samples, best.Centers)
	return best, nil
}

// OrdinalClasses maps each cluster id to a class 1..k by ascending center, so
// the lowest center is class 1. Equal centers keep id order.
func OrdinalClasses(centers []float64) []uint8 {
	sorted := make([]float64, len(centers))
	copy(sorted, centers)
	inds := make([]int, len(centers))
	floats.ArgsortStable(sorted, inds)

	classes := make([]uint8, len(centers))
	for rank, id := range inds {
		classes[id] = uint8(rank + 1)
	}
	return classes
}

// KMeansStrategy classifies by clustering the burned dNDVI values.
type KMeansStrategy struct {
	Options KMeansOptions
}

func (s KMeansStrategy) Method() Method {
	return MethodKMeans
}

func (s KMeansStrategy) Classify(dndvi *raster.Float, burn *raster.Mask) (*raster.Mask, []float64, error) {
	if err := dndvi.Grid.Check(burn.Grid); err != nil {
		return nil, nil, err
	}

	classes := raster.NewMask(dndvi.Grid)
	var samples []float64
	var pixels []int
	for i, v := range dndvi.Data {
		if burn.Data[i] == 1 && !math.IsNaN(v) {
			samples = append(samples, v)
			pixels = append(pixels, i)
		}
	}

	if len(samples) == 0 {
		return classes, nil, nil
	}
	if len(samples) < s.Options.Clusters && !s.Options.Strict {
		return classes, nil, nil
	}

	fit, err := FitKMeans(samples, s.Options)
	if err != nil {
		return nil, nil, err
	}

	ordinal := OrdinalClasses(fit.Centers)
	for i, p := range pixels {
		classes.Data[p] = ordinal[fit.Labels[i]]
	}

	centers := make([]float64, len(fit.Centers))
	copy(centers, fit.Centers)
	sort.Float64s(centers)
	return classes, centers, nil
}

func countDistinct(sorted []float64) int {
	if len(sorted) == 0 {
		return 0
	}
	distinct := 1
	for i := 1; i < len(sorted); i++ {
		if sorted[i] != sorted[i-1] {
			distinct++
		}
	}
	return distinct
}

func prefixSums(sorted []float64) ([]float64, []float64) {
	prefix := make([]float64, len(sorted)+1)
	prefixSq := make([]float64, len(sorted)+1)
	for i, v := range sorted {
		prefix[i+1] = prefix[i] + v
		prefixSq[i+1] = prefixSq[i] + v*v
	}
	return prefix, prefixSq
}

// seedCenters is k-means++ initialisation: each next center is drawn with
// probability proportional to its squared distance from the chosen ones.
func seedCenters(sorted []float64, k int, rng *rand.Rand) []float64 {
	n := len(sorted)
	centers := []float64{sorted[rng.IntN(n)]}

	d2 := make([]float64, n)
	for i, v := range sorted {
		d2[i] = (v - centers[0]) * (v - centers[0])
	}

	for len(centers) < k {
		total := floats.Sum(d2)
		if total == 0 {
			break
		}

		r := rng.Float64() * total
		pick, cum := -1, 0.0
		for i, d := range d2 {
			if d == 0 {
				continue
			}
			pick = i
			cum += d
			if cum > r {
				break
			}
		}

		c := sorted[pick]
		centers = append(centers, c)
		for i, v := range sorted {
			d2[i] = math.Min(d2[i], (v-c)*(v-c))
		}
	}
	return centers
}

// partition returns, per cluster id, the [lo, hi) range of sorted samples
// nearest to its center. Samples on a midpoint go to the lower center.
func partition(sorted []float64, centers []float64) [][2]int {
	order, mids := boundaries(centers)
	ranges := make([][2]int, len(centers))
	lo := 0
	for s, id := range order {
		hi := len(sorted)
		if s < len(mids) {
			mid := mids[s]
			hi = sort.Search(len(sorted), func(i int) bool { return sorted[i] > mid })
			if hi < lo {
				hi = lo
			}
		}
		ranges[id] = [2]int{lo, hi}
		lo = hi
	}
	return ranges
}

// boundaries orders cluster ids by center and returns the midpoints between
// consecutive centers in that order.
func boundaries(centers []float64) ([]int, []float64) {
	sorted := make([]float64, len(centers))
	copy(sorted, centers)
	order := make([]int, len(centers))
	floats.ArgsortStable(sorted, order)

	mids := make([]float64, 0, len(centers)-1)
	for s := 0; s+1 < len(sorted); s++ {
		mids = append(mids, (sorted[s]+sorted[s+1])/2)
	}
	return order, mids
}

func lloyd(sorted, prefix, centers []float64, maxIter int, tol float64) ([]float64, int) {
	iterations := 0
	for iterations < maxIter {
		iterations++
		next := make([]float64, len(centers))
		shift := 0.0
		for id, r := range partition(sorted, centers) {
			count := r[1] - r[0]
			if count == 0 {
				next[id] = centers[id]
				continue
			}
			next[id] = (prefix[r[1]] - prefix[r[0]]) / float64(count)
			shift += (next[id] - centers[id]) * (next[id] - centers[id])
		}
		centers = next
		if shift <= tol {
			break
		}
	}
	return centers, iterations
}

func inertia(sorted, prefix, prefixSq, centers []float64) float64 {
	total := 0.0
	for id, r := range partition(sorted, centers) {
		count := float64(r[1] - r[0])
		sum := prefix[r[1]] - prefix[r[0]]
		sumSq := prefixSq[r[1]] - prefixSq[r[0]]
		c := centers[id]
		total += sumSq - 2*c*sum + count*c*c
	}
	return total
}

// assign labels each sample with the id of its nearest center using the same
// tie rule as partition.
func assign(samples []float64, centers []float64) []int {
	order, mids := boundaries(centers)
	labels := make([]int, len(samples))
	for i, v := range samples {
		s := 0
		for s < len(mids) && v > mids[s] {
			s++
		}
		labels[i] = order[s]
	}
	return labels
}
