package geometry

import "image"

// ScaledPlacement is the fitted size and position of a foreground image
// inside a target rectangle. The placement always preserves the source
// aspect ratio (within 1px of rounding), is fully contained in the target,
// and is centered in it on both axes.
type ScaledPlacement struct {
	Width             int
	Height            int
	X                 int
	Y                 int
	ScaleFactor       float64
	SourceAspectRatio float64
}

// FitAsset fits a source of the given dimensions into the default asset
// zone. Callers must reject zero or negative dimensions before calling.
func FitAsset(srcWidth, srcHeight int) ScaledPlacement {
	return FitInto(srcWidth, srcHeight, AssetZone())
}

// FitInto fits a source of the given dimensions into an arbitrary target
// rectangle. A landscape-leaning source (aspect ratio wider than the
// target's) is fitted by width; otherwise the source is fitted by height,
// deriving the width first and re-deriving the height from the rounded
// width so the pair stays aspect-true after truncation. If a height fit
// still produces a width wider than the target (extreme aspect ratios),
// the fit is clamped back to a width fit.
func FitInto(srcWidth, srcHeight int, target image.Rectangle) ScaledPlacement {
	targetW := target.Dx()
	targetH := target.Dy()
	srcAR := float64(srcWidth) / float64(srcHeight)
	targetAR := float64(targetW) / float64(targetH)

	var w, h int
	if srcAR >= targetAR {
		w, h = fitByWidth(srcWidth, srcHeight, targetW)
	} else {
		w = int(float64(srcWidth) * float64(targetH) / float64(srcHeight))
		if w > targetW {
			w, h = fitByWidth(srcWidth, srcHeight, targetW)
		} else {
			// Re-derive the height from the truncated width so the pair
			// stays aspect-true after rounding.
			h = int(float64(srcHeight) * float64(w) / float64(srcWidth))
		}
	}
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	scale := float64(w) / float64(srcWidth)

	return ScaledPlacement{
		Width:             w,
		Height:            h,
		X:                 target.Min.X + (targetW-w)/2,
		Y:                 target.Min.Y + (targetH-h)/2,
		ScaleFactor:       scale,
		SourceAspectRatio: srcAR,
	}
}

func fitByWidth(srcWidth, srcHeight, targetW int) (w, h int) {
	return targetW, int(float64(srcHeight) * float64(targetW) / float64(srcWidth))
}

// Rect returns the placement as an image.Rectangle in canvas coordinates.
func (p ScaledPlacement) Rect() image.Rectangle {
	return image.Rect(p.X, p.Y, p.X+p.Width, p.Y+p.Height)
}
