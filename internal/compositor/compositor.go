// Package compositor flattens a background and a foreground asset into a
// single story canvas and handles canonical encoding.
package compositor

import (
	"fmt"
	"image"
	"os"

	"github.com/disintegration/imaging"
	"go.uber.org/zap"

	"github.com/ivlev/storyframe/internal/geometry"
)

// Compositor produces flattened story canvases. The zero value is not
// usable; create one with New.
type Compositor struct {
	log *zap.Logger
}

// New creates a compositor.
func New(log *zap.Logger) *Compositor {
	if log == nil {
		log = zap.NewNop()
	}
	return &Compositor{log: log}
}

// Flatten layers the asset over the background on a canvas-sized image.
// The background is cover-fitted (fills the canvas, overflow cropped,
// never letterboxed); the asset is scaled to its aspect-true placement
// and centered in the asset zone. Inputs are expected to be validated by
// the caller; any failure here is a processing error, not a validation
// error.
func (c *Compositor) Flatten(backgroundPath, assetPath string) (*image.NRGBA, error) {
	background, err := imaging.Open(backgroundPath, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode background %s: %w", backgroundPath, err)
	}

	asset, err := imaging.Open(assetPath, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode asset %s: %w", assetPath, err)
	}

	canvas := imaging.Fill(background,
		geometry.CanvasWidth, geometry.CanvasHeight,
		imaging.Center, imaging.Lanczos)

	bounds := asset.Bounds()
	placement := geometry.FitAsset(bounds.Dx(), bounds.Dy())

	// The placement dimensions are already aspect-true, so an exact
	// resize gives contain semantics without distortion.
	scaled := imaging.Resize(asset, placement.Width, placement.Height, imaging.Lanczos)

	c.log.Debug("asset placed",
		zap.Int("src_width", bounds.Dx()),
		zap.Int("src_height", bounds.Dy()),
		zap.Int("width", placement.Width),
		zap.Int("height", placement.Height),
		zap.Int("x", placement.X),
		zap.Int("y", placement.Y),
		zap.Float64("scale", placement.ScaleFactor),
	)

	return imaging.Overlay(canvas, scaled, image.Pt(placement.X, placement.Y), 1.0), nil
}

// WriteCanonical encodes img to path in the engine's canonical format.
// The output is always PNG regardless of the path's extension; callers
// must not rely on extension-based format negotiation.
func (c *Compositor) WriteCanonical(img image.Image, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output %s: %w", path, err)
	}
	defer f.Close()

	if err := imaging.Encode(f, img, imaging.PNG); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return nil
}
