// Package engine orchestrates story composition: validation, flattening,
// caption overlay with retry and fallback, and temp-artifact lifecycle.
package engine

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ivlev/storyframe/internal/analyzer"
	"github.com/ivlev/storyframe/internal/badge"
	"github.com/ivlev/storyframe/internal/caption"
	"github.com/ivlev/storyframe/internal/compositor"
	"github.com/ivlev/storyframe/internal/geometry"
)

// Validation failures. These are the only errors Compose returns; every
// post-validation failure is reported through the Result instead.
var (
	ErrInputNotFound     = errors.New("input file not found")
	ErrUnsupportedFormat = errors.New("unsupported input format")
)

// allowedExtensions is the input allow-list. Validation is by extension,
// not content sniffing.
var allowedExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
}

// tempSuffix derives the temporary composite path from the output path.
// Concurrent callers must use distinct output paths to avoid temp-file
// collisions.
const tempSuffix = ".tmp.png"

// Config is the engine's construction-time configuration. The default
// caption lives here explicitly; the engine reads no ambient state.
type Config struct {
	DefaultCaption string
	FontPath       string
}

// Request describes one composition call. Immutable per call.
type Request struct {
	BackgroundPath  string
	AssetPath       string
	OutputPath      string
	IncludeCaption  bool
	CaptionOverride string
	LinkURL         string // optional QR badge
}

// TextOverlayAnalytics records what the caption pipeline did for one
// composition attempt. It is produced once per call and never mutated
// after being returned.
type TextOverlayAnalytics struct {
	Enabled         bool    `yaml:"enabled"`
	Tier            int     `yaml:"tier,omitempty"`
	PositionY       int     `yaml:"position_y,omitempty"`
	Shadow          string  `yaml:"shadow,omitempty"`
	LineCount       int     `yaml:"line_count,omitempty"`
	AvgBrightness   float64 `yaml:"avg_brightness,omitempty"`
	Samples         []int   `yaml:"brightness_samples,omitempty"`
	RenderMs        int64   `yaml:"render_ms,omitempty"`
	RetryCount      int     `yaml:"retry_count"`
	Failed          bool    `yaml:"failed"`
	FallbackApplied bool    `yaml:"fallback_applied"`
	Error           string  `yaml:"error,omitempty"`
}

// Result is the outcome of one composition call. The engine does not
// retain it; persistence belongs to the caller.
type Result struct {
	Success    bool                 `yaml:"success"`
	OutputPath string               `yaml:"output_path"`
	Analytics  TextOverlayAnalytics `yaml:"analytics"`
}

// Captioner renders a caption overlay onto a composite at a tier
// baseline. caption.Renderer is the production implementation.
type Captioner interface {
	Apply(base *image.NRGBA, text string, tierY int) (*image.NRGBA, caption.RenderInfo, error)
}

// Engine composes story images. Collaborators are exported so callers
// (and tests) can substitute implementations behind the same interfaces.
type Engine struct {
	Config     Config
	Compositor *compositor.Compositor
	Detector   analyzer.BottomEdgeDetector
	Captioner  Captioner
	Log        *zap.Logger
}

// New wires an engine with the production pipeline. The caption font is
// parsed here so a bad font path fails construction, not composition.
func New(cfg Config, log *zap.Logger) (*Engine, error) {
	if log == nil {
		log = zap.NewNop()
	}

	family := "sans-serif"
	if cfg.FontPath != "" {
		name, err := caption.FontFamilyName(cfg.FontPath)
		if err != nil {
			return nil, err
		}
		family = name
	}

	return &Engine{
		Config:     cfg,
		Compositor: compositor.New(log),
		Detector:   analyzer.NewScanlineDetector(),
		Captioner:  caption.NewRenderer(family, log),
		Log:        log,
	}, nil
}

// Compose runs one composition: validating -> compositing ->
// [captioning] -> finalizing. Validation failures return an error;
// everything after validation is reported through the Result ("validation
// errors throw, processing errors return"). A caption failure is retried
// once at tier-2 defaults and then silently falls back to the plain
// composite - it never fails the overall composition. Cancellation is not
// supported mid-composition; ctx is accepted for the call contract.
func (e *Engine) Compose(ctx context.Context, req Request) (*Result, error) {
	_ = ctx

	if err := validateInput("background", req.BackgroundPath); err != nil {
		return nil, err
	}
	if err := validateInput("asset", req.AssetPath); err != nil {
		return nil, err
	}
	if req.OutputPath == "" {
		return nil, errors.New("output path is required")
	}

	res := &Result{OutputPath: req.OutputPath}
	res.Analytics.Enabled = req.IncludeCaption

	tempPath := req.OutputPath + tempSuffix
	defer e.cleanupTemp(tempPath)

	canvas, err := e.Compositor.Flatten(req.BackgroundPath, req.AssetPath)
	if err != nil {
		return e.processingFailure(res, err), nil
	}

	// The badge joins the base composite so a caption fallback keeps it.
	// Badge failures are cosmetic: log and continue without it.
	if req.LinkURL != "" {
		withBadge, err := badge.Apply(canvas, req.LinkURL)
		if err != nil {
			e.Log.Warn("link badge skipped", zap.String("url", req.LinkURL), zap.Error(err))
		} else {
			canvas = withBadge
		}
	}

	if err := e.Compositor.WriteCanonical(canvas, tempPath); err != nil {
		return e.processingFailure(res, err), nil
	}

	if !req.IncludeCaption {
		if err := copyFile(tempPath, req.OutputPath); err != nil {
			return e.processingFailure(res, err), nil
		}
		res.Success = true
		return res, nil
	}

	start := time.Now()
	text := req.CaptionOverride
	if text == "" {
		text = e.Config.DefaultCaption
	}

	edgeY := e.Detector.DetectBottomEdge(canvas, geometry.ContentRect())
	tier := caption.TierFor(edgeY)
	e.Log.Debug("caption placement",
		zap.Int("edge_y", edgeY),
		zap.Int("tier", tier.Level),
		zap.Int("tier_y", tier.Y),
	)

	info, err := e.renderCaption(canvas, text, tier, req.OutputPath)
	if err != nil {
		// Retry exactly once at fixed defaults: tier 2 position,
		// brightness and shadow recomputed there, default caption text.
		e.Log.Warn("caption render failed, retrying with defaults", zap.Error(err))
		res.Analytics.RetryCount = 1
		tier = caption.TierAt(2)
		info, err = e.renderCaption(canvas, e.Config.DefaultCaption, tier, req.OutputPath)
	}

	res.Analytics.RenderMs = time.Since(start).Milliseconds()

	if err != nil {
		// Silent fallback: ship the plain composite instead of failing
		// the pipeline over a cosmetic caption.
		e.Log.Warn("caption retry failed, falling back to plain composite", zap.Error(err))
		res.Analytics.Failed = true
		res.Analytics.FallbackApplied = true
		res.Analytics.Error = err.Error()
		if err := copyFile(tempPath, req.OutputPath); err != nil {
			return e.processingFailure(res, err), nil
		}
		res.Success = true
		return res, nil
	}

	res.Analytics.Tier = tier.Level
	res.Analytics.PositionY = tier.Y
	res.Analytics.Shadow = info.Shadow.Variant
	res.Analytics.LineCount = info.Lines
	res.Analytics.AvgBrightness = info.Brightness.Average
	res.Analytics.Samples = info.Brightness.Samples
	res.Success = true
	return res, nil
}

// renderCaption runs one caption attempt end to end: overlay plus the
// final write, so a write failure is retried and falls back like any
// other caption failure.
func (e *Engine) renderCaption(canvas *image.NRGBA, text string, tier caption.Tier, outputPath string) (caption.RenderInfo, error) {
	final, info, err := e.Captioner.Apply(canvas, text, tier.Y)
	if err != nil {
		return info, err
	}
	if err := e.Compositor.WriteCanonical(final, outputPath); err != nil {
		return info, err
	}
	return info, nil
}

func (e *Engine) processingFailure(res *Result, err error) *Result {
	e.Log.Error("composition failed", zap.String("output", res.OutputPath), zap.Error(err))
	res.Success = false
	res.Analytics.Error = err.Error()
	return res
}

// cleanupTemp removes the temporary composite on every exit path.
// Best-effort: failures are logged, never raised.
func (e *Engine) cleanupTemp(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		e.Log.Warn("temp composite cleanup failed", zap.String("path", path), zap.Error(err))
	}
}

// validateInput checks existence and the extension allow-list, with
// distinct errors so callers can give a specific message per problem.
func validateInput(label, path string) error {
	if path == "" {
		return fmt.Errorf("%w: %s path is empty", ErrInputNotFound, label)
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s %q", ErrInputNotFound, label, path)
		}
		return fmt.Errorf("%s %q: %w", label, path, err)
	}
	ext := strings.ToLower(filepath.Ext(path))
	if !allowedExtensions[ext] {
		return fmt.Errorf("%w: %s %q has extension %q", ErrUnsupportedFormat, label, path, ext)
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}
