// Package badge overlays an optional QR link badge onto a composite, so
// a story can carry a scannable link above the bottom UI band.
package badge

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/ivlev/storyframe/internal/geometry"
)

// Badge layout defaults.
const (
	DefaultSize   = 140
	DefaultMargin = 24
)

// Apply layers a QR code for url onto the bottom-right corner of base,
// kept clear of the bottom exclusion band. base is never modified.
func Apply(base *image.NRGBA, url string) (*image.NRGBA, error) {
	if url == "" {
		return base, nil
	}

	qr, err := qrcode.New(url, qrcode.Medium)
	if err != nil {
		return nil, fmt.Errorf("encode link QR: %w", err)
	}

	img := qr.Image(DefaultSize)
	pos := image.Pt(
		geometry.CanvasWidth-DefaultSize-DefaultMargin,
		geometry.CanvasHeight-geometry.BottomBandHeight-DefaultSize-DefaultMargin,
	)
	return imaging.Overlay(base, img, pos, 1.0), nil
}
