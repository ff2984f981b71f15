// Package geometry defines the fixed story-canvas layout and the
// aspect-preserving placement math used by every compositing stage.
package geometry

import "image"

// Canvas and layout constants for a vertical story image.
const (
	CanvasWidth  = 1080
	CanvasHeight = 1920

	// Horizontal UI exclusion bands. The top band covers profile/header
	// chrome, the bottom band covers reply/share chrome.
	TopBandHeight    = 250 // 13% of canvas height
	BottomBandHeight = 180 // 9% of canvas height

	// Content rectangle: 70% of each canvas dimension, centered.
	ContentWidth   = CanvasWidth * 7 / 10  // 756
	ContentHeight  = CanvasHeight * 7 / 10 // 1344
	ContentOffsetX = (CanvasWidth - ContentWidth) / 2
	ContentOffsetY = (CanvasHeight - ContentHeight) / 2

	// Asset zone: the square fit box a foreground asset is scaled into.
	// Its side equals the content-rectangle width and it shares the
	// canvas center, so placements stay inside the content rectangle.
	AssetZoneSize    = ContentWidth
	AssetZoneOffsetX = (CanvasWidth - AssetZoneSize) / 2
	AssetZoneOffsetY = (CanvasHeight - AssetZoneSize) / 2
)

// CanvasRect returns the full canvas rectangle.
func CanvasRect() image.Rectangle {
	return image.Rect(0, 0, CanvasWidth, CanvasHeight)
}

// ContentRect returns the centered content rectangle reserved for the
// foreground asset. Edge detection scans this region.
func ContentRect() image.Rectangle {
	return image.Rect(
		ContentOffsetX,
		ContentOffsetY,
		ContentOffsetX+ContentWidth,
		ContentOffsetY+ContentHeight,
	)
}

// AssetZone returns the canvas-centered square fit box for asset scaling.
func AssetZone() image.Rectangle {
	return image.Rect(
		AssetZoneOffsetX,
		AssetZoneOffsetY,
		AssetZoneOffsetX+AssetZoneSize,
		AssetZoneOffsetY+AssetZoneSize,
	)
}

// TopBand returns the top UI exclusion band.
func TopBand() image.Rectangle {
	return image.Rect(0, 0, CanvasWidth, TopBandHeight)
}

// BottomBand returns the bottom UI exclusion band.
func BottomBand() image.Rectangle {
	return image.Rect(0, CanvasHeight-BottomBandHeight, CanvasWidth, CanvasHeight)
}
