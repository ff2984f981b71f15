package analyzer

import (
	"image"
	"math"
)

// NeutralBrightness is returned for every sample when a region cannot be
// sampled, so downstream styling still gets a usable value.
const NeutralBrightness = 128

// BrightnessSample holds the individual grid samples and their mean.
type BrightnessSample struct {
	Samples []int
	Average float64
}

// GridSampler measures perceived brightness over a 3x3 grid at the 1/6,
// 1/2 and 5/6 fractional positions of each axis. It never fails: any
// extraction problem degrades to a neutral result.
type GridSampler struct{}

// NewGridSampler creates a brightness sampler.
func NewGridSampler() *GridSampler {
	return &GridSampler{}
}

// gridFractions are the numerators over 6 for each axis position.
var gridFractions = [3]int{1, 3, 5}

// Sample measures the 9-point brightness grid of region within img.
func (s *GridSampler) Sample(img image.Image, region image.Rectangle) BrightnessSample {
	if img == nil {
		return neutralSample()
	}
	region = region.Intersect(img.Bounds())
	if region.Empty() {
		return neutralSample()
	}

	samples := make([]int, 0, 9)
	sum := 0
	for _, fy := range gridFractions {
		y := region.Min.Y + fy*region.Dy()/6
		for _, fx := range gridFractions {
			x := region.Min.X + fx*region.Dx()/6
			p := pixelAt(img, x, y)
			v := Luma(p.r, p.g, p.b)
			samples = append(samples, v)
			sum += v
		}
	}

	return BrightnessSample{
		Samples: samples,
		Average: float64(sum) / float64(len(samples)),
	}
}

// Luma converts a color to perceived brightness using the standard luma
// weighting, rounded to an integer 0-255.
func Luma(r, g, b int) int {
	return int(math.Round(0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)))
}

func neutralSample() BrightnessSample {
	samples := make([]int, 9)
	for i := range samples {
		samples[i] = NeutralBrightness
	}
	return BrightnessSample{Samples: samples, Average: NeutralBrightness}
}
