package caption

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	"github.com/xo/resvg"
	"go.uber.org/zap"

	"github.com/ivlev/storyframe/internal/analyzer"
	"github.com/ivlev/storyframe/internal/geometry"
)

// Caption styling defaults.
const (
	DefaultFontSize         = 64.0
	DefaultMaxWidth         = 960
	DefaultGlyphWidthFactor = 0.6

	lineHeightFactor = 1.3
	textFill         = "#FFFFFF"
)

// RenderInfo reports what a successful overlay actually rendered, for the
// orchestrator's analytics.
type RenderInfo struct {
	Lines      int
	Shadow     Shadow
	Brightness analyzer.BrightnessSample
}

// Renderer wraps caption text, styles it against the sampled background
// brightness and rasterizes the resulting markup onto a composite.
type Renderer struct {
	FontFamily       string
	FontSize         float64
	MaxWidth         int
	GlyphWidthFactor float64
	Sampler          *analyzer.GridSampler
	Log              *zap.Logger

	rasterize func(svg []byte, width int) (image.Image, error)
}

// NewRenderer creates a caption renderer for the given font family.
func NewRenderer(fontFamily string, log *zap.Logger) *Renderer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Renderer{
		FontFamily:       fontFamily,
		FontSize:         DefaultFontSize,
		MaxWidth:         DefaultMaxWidth,
		GlyphWidthFactor: DefaultGlyphWidthFactor,
		Sampler:          analyzer.NewGridSampler(),
		Log:              log,
		rasterize:        resvgRasterize,
	}
}

// Apply renders text at the given tier baseline over base and returns the
// captioned composite. base is never modified.
func (r *Renderer) Apply(base *image.NRGBA, text string, tierY int) (*image.NRGBA, RenderInfo, error) {
	budget := LineBudget(float64(r.MaxWidth), r.FontSize, r.GlyphWidthFactor)
	lines := Wrap(text, budget)
	if len(lines) == 0 {
		return nil, RenderInfo{}, fmt.Errorf("caption produced no lines")
	}

	box := r.boundingBox(tierY, len(lines))
	brightness := r.Sampler.Sample(base, box)
	shadow := SelectShadow(brightness.Average)

	svg := buildMarkup(markupParams{
		Width:      geometry.CanvasWidth,
		Height:     geometry.CanvasHeight,
		FontFamily: r.FontFamily,
		FontSize:   r.FontSize,
		LineHeight: lineHeightFactor,
		Fill:       textFill,
		Shadow:     shadow,
		Lines:      lines,
		StartY:     tierY,
	})

	layer, err := r.rasterize(svg, geometry.CanvasWidth)
	if err != nil {
		return nil, RenderInfo{}, fmt.Errorf("rasterize caption markup: %w", err)
	}

	r.Log.Debug("caption rendered",
		zap.Int("lines", len(lines)),
		zap.Int("tier_y", tierY),
		zap.String("shadow", shadow.Variant),
		zap.Float64("avg_brightness", brightness.Average),
	)

	out := imaging.Overlay(base, layer, image.Pt(0, 0), 1.0)
	return out, RenderInfo{
		Lines:      len(lines),
		Shadow:     shadow,
		Brightness: brightness,
	}, nil
}

// boundingBox approximates the caption's pixel extent for brightness
// sampling: centered horizontally at the canvas midline, spanning from
// the first line's ascent to the last line's baseline pitch.
func (r *Renderer) boundingBox(tierY, lines int) image.Rectangle {
	top := tierY - int(r.FontSize)
	height := int(float64(lines) * lineHeightFactor * r.FontSize)
	left := (geometry.CanvasWidth - r.MaxWidth) / 2
	return image.Rect(left, top, left+r.MaxWidth, top+height)
}

// resvgRasterize renders SVG bytes to a raster layer at the given width,
// preserving aspect via best-fit scaling.
func resvgRasterize(svg []byte, width int) (image.Image, error) {
	return resvg.Render(svg,
		resvg.WithScaleMode(resvg.ScaleBestFit),
		resvg.WithWidth(width),
	)
}
