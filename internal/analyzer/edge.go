// Package analyzer provides the pixel-level heuristics used for caption
// placement: locating the foreground asset's visual lower boundary and
// sampling perceived brightness under the caption zone.
package analyzer

import "image"

// BottomEdgeDetector locates the row where the foreground asset visually
// ends inside a region of the composed canvas. Implementations return the
// absolute canvas Y of the detected edge, or 0 when nothing is detected.
type BottomEdgeDetector interface {
	DetectBottomEdge(img image.Image, region image.Rectangle) int
}

// ScanlineDetector implements BottomEdgeDetector with a cheap bottom-up
// row scan: each row is sampled at a handful of x positions and compared
// against a reference background color averaged from the region's four
// corner pixels (corners are assumed asset-free). This is a heuristic,
// not segmentation; it only needs to be accurate enough to pick among a
// few coarse caption tiers.
type ScanlineDetector struct {
	RowSamples           int     // Sample points per row
	VarianceThreshold    float64 // Row color variance that marks an edge
	ChannelDiffThreshold int     // Per-sample channel-sum distance from the reference
}

// NewScanlineDetector creates a detector with the default thresholds.
func NewScanlineDetector() *ScanlineDetector {
	return &ScanlineDetector{
		RowSamples:           5,
		VarianceThreshold:    100,
		ChannelDiffThreshold: 30,
	}
}

type rgb struct {
	r, g, b int
}

func pixelAt(img image.Image, x, y int) rgb {
	r, g, b, _ := img.At(x, y).RGBA()
	return rgb{int(r >> 8), int(g >> 8), int(b >> 8)}
}

// DetectBottomEdge scans region rows from the bottom upward and returns
// the absolute Y of the first row whose samples either vary more than the
// variance threshold or differ from the corner-averaged background by more
// than the channel-sum threshold. Returns 0 for uniform regions, empty
// regions, or a region that does not intersect the image.
func (d *ScanlineDetector) DetectBottomEdge(img image.Image, region image.Rectangle) int {
	if img == nil {
		return 0
	}
	region = region.Intersect(img.Bounds())
	if region.Empty() || region.Dx() < d.RowSamples {
		return 0
	}

	ref := cornerAverage(img, region)

	for y := region.Max.Y - 1; y >= region.Min.Y; y-- {
		samples := d.sampleRow(img, region, y)
		if rowVariance(samples) > d.VarianceThreshold {
			return y
		}
		for _, s := range samples {
			if channelDiff(s, ref) > d.ChannelDiffThreshold {
				return y
			}
		}
	}

	return 0
}

// sampleRow picks RowSamples evenly spaced pixels across the region at
// row y, at fractions 1/(n+1) .. n/(n+1) of the region width.
func (d *ScanlineDetector) sampleRow(img image.Image, region image.Rectangle, y int) []rgb {
	samples := make([]rgb, 0, d.RowSamples)
	w := region.Dx()
	for i := 1; i <= d.RowSamples; i++ {
		x := region.Min.X + i*w/(d.RowSamples+1)
		samples = append(samples, pixelAt(img, x, y))
	}
	return samples
}

// cornerAverage averages the region's four corner pixels into the
// reference background color.
func cornerAverage(img image.Image, region image.Rectangle) rgb {
	corners := []rgb{
		pixelAt(img, region.Min.X, region.Min.Y),
		pixelAt(img, region.Max.X-1, region.Min.Y),
		pixelAt(img, region.Min.X, region.Max.Y-1),
		pixelAt(img, region.Max.X-1, region.Max.Y-1),
	}
	var sum rgb
	for _, c := range corners {
		sum.r += c.r
		sum.g += c.g
		sum.b += c.b
	}
	return rgb{sum.r / 4, sum.g / 4, sum.b / 4}
}

// rowVariance is the mean squared deviation from the row's mean color,
// summed over the three channels.
func rowVariance(samples []rgb) float64 {
	n := float64(len(samples))
	if n == 0 {
		return 0
	}

	var mr, mg, mb float64
	for _, s := range samples {
		mr += float64(s.r)
		mg += float64(s.g)
		mb += float64(s.b)
	}
	mr /= n
	mg /= n
	mb /= n

	var sum float64
	for _, s := range samples {
		dr := float64(s.r) - mr
		dg := float64(s.g) - mg
		db := float64(s.b) - mb
		sum += dr*dr + dg*dg + db*db
	}
	return sum / n
}

// channelDiff is the sum of absolute per-channel distances between two
// colors.
func channelDiff(a, b rgb) int {
	return abs(a.r-b.r) + abs(a.g-b.g) + abs(a.b-b.b)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
