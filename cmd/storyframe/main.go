package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ivlev/storyframe/internal/batch"
	"github.com/ivlev/storyframe/internal/config"
	"github.com/ivlev/storyframe/internal/engine"
	"github.com/ivlev/storyframe/internal/logger"
	"github.com/ivlev/storyframe/internal/source"
	"github.com/ivlev/storyframe/internal/system"
)

func main() {
	configPtr := flag.String("config", "", "Path to a YAML config file (optional)")
	backgroundPtr := flag.String("background", "", "Background image (default: latest image in input/backgrounds/)")
	assetPtr := flag.String("asset", "", "Asset: image, directory of images, or PDF (default: latest image in input/assets/)")
	outputPtr := flag.String("output", "", "Output path; for multi-asset runs, used as the output directory")
	captionPtr := flag.String("caption", "", "Caption text (default: the configured caption)")
	noCaptionPtr := flag.Bool("no-caption", false, "Compose without a caption")
	linkPtr := flag.String("link", "", "URL rendered as a QR badge (optional)")
	fontPtr := flag.String("font", "", "TTF/OTF font for captions (optional)")
	workersPtr := flag.Int("workers", 0, "Concurrent compositions for multi-asset runs")
	dpiPtr := flag.Int("dpi", 0, "Rasterization DPI for PDF assets")
	debugPtr := flag.Bool("debug", false, "Verbose logging")
	flag.Parse()

	cfg, err := config.Load(*configPtr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	if *fontPtr != "" {
		cfg.FontPath = *fontPtr
	}
	if *captionPtr != "" {
		cfg.DefaultCaption = *captionPtr
	}
	if *linkPtr != "" {
		cfg.LinkURL = *linkPtr
	}
	if *workersPtr > 0 {
		cfg.Workers = *workersPtr
	}
	if *dpiPtr > 0 {
		cfg.PDFDPI = *dpiPtr
	}
	if *debugPtr {
		cfg.Debug = true
	}

	log, err := logger.New(cfg.Debug, cfg.LogPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	system.InitResourceLimits(log)

	for _, d := range []string{cfg.BackgroundDir, cfg.AssetDir, cfg.OutputDir} {
		os.MkdirAll(d, 0755)
	}

	backgroundPath := *backgroundPtr
	if backgroundPath == "" {
		latest, err := system.FindLatestImage(cfg.BackgroundDir)
		if err != nil {
			log.Fatal("no background given and none found",
				zap.String("dir", cfg.BackgroundDir), zap.Error(err))
		}
		backgroundPath = latest
		log.Info("background selected", zap.String("path", backgroundPath))
	}

	assetPath := *assetPtr
	if assetPath == "" {
		latest, err := system.FindLatestImage(cfg.AssetDir)
		if err != nil {
			log.Fatal("no asset given and none found",
				zap.String("dir", cfg.AssetDir), zap.Error(err))
		}
		assetPath = latest
		log.Info("asset selected", zap.String("path", assetPath))
	}

	src, err := source.Open(assetPath, cfg.PDFDPI)
	if err != nil {
		log.Fatal("asset source", zap.String("path", assetPath), zap.Error(err))
	}
	defer src.Close()

	if src.Count() == 0 {
		log.Fatal("asset source holds no assets", zap.String("path", assetPath))
	}

	eng, err := engine.New(engine.Config{
		DefaultCaption: cfg.DefaultCaption,
		FontPath:       cfg.FontPath,
	}, log)
	if err != nil {
		log.Fatal("engine", zap.Error(err))
	}

	includeCaption := !*noCaptionPtr
	captionOverride := *captionPtr
	ctx := context.Background()

	if src.Count() == 1 {
		runSingle(ctx, eng, src, cfg, log, backgroundPath, assetPath, *outputPtr, includeCaption, captionOverride)
		return
	}
	runBatch(ctx, eng, src, cfg, log, backgroundPath, assetPath, *outputPtr, includeCaption, captionOverride)
}

func runSingle(ctx context.Context, eng *engine.Engine, src source.AssetSource, cfg *config.Config, log *zap.Logger, backgroundPath, assetPath, outputPath string, includeCaption bool, captionOverride string) {
	materialized, err := src.Materialize(0, cfg.OutputDir)
	if err != nil {
		log.Fatal("materialize asset", zap.Error(err))
	}

	if outputPath == "" {
		outputPath = filepath.Join(cfg.OutputDir, outputName(assetPath, 0, false))
	}

	res, err := eng.Compose(ctx, engine.Request{
		BackgroundPath:  backgroundPath,
		AssetPath:       materialized,
		OutputPath:      outputPath,
		IncludeCaption:  includeCaption,
		CaptionOverride: captionOverride,
		LinkURL:         cfg.LinkURL,
	})
	if err != nil {
		log.Fatal("composition rejected", zap.Error(err))
	}
	if !res.Success {
		log.Fatal("composition failed", zap.String("error", res.Analytics.Error))
	}

	log.Info("story composed",
		zap.String("output", res.OutputPath),
		zap.Bool("caption", res.Analytics.Enabled),
		zap.Int("tier", res.Analytics.Tier),
	)
	fmt.Printf("Done: %s\n", res.OutputPath)
}

func runBatch(ctx context.Context, eng *engine.Engine, src source.AssetSource, cfg *config.Config, log *zap.Logger, backgroundPath, assetPath, outputDir string, includeCaption bool, captionOverride string) {
	if outputDir == "" {
		outputDir = cfg.OutputDir
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		log.Fatal("output directory", zap.Error(err))
	}

	assetDir := filepath.Join(outputDir, "assets")
	if err := os.MkdirAll(assetDir, 0755); err != nil {
		log.Fatal("asset directory", zap.Error(err))
	}

	jobs := make([]batch.Job, 0, src.Count())
	for i := 0; i < src.Count(); i++ {
		materialized, err := src.Materialize(i, assetDir)
		if err != nil {
			log.Fatal("materialize asset", zap.Int("index", i), zap.Error(err))
		}
		jobs = append(jobs, batch.Job{
			ID: i + 1,
			Request: engine.Request{
				BackgroundPath:  backgroundPath,
				AssetPath:       materialized,
				OutputPath:      filepath.Join(outputDir, outputName(assetPath, i, true)),
				IncludeCaption:  includeCaption,
				CaptionOverride: captionOverride,
				LinkURL:         cfg.LinkURL,
			},
		})
	}

	workers := system.WorkerBudget(cfg.Workers, log)
	started := time.Now()
	outcomes := batch.NewRunner(eng, workers, log).Run(ctx, jobs)

	report := batch.BuildReport(outcomes, started)
	reportPath := filepath.Join(outputDir, fmt.Sprintf("report_%s.yaml", started.Format("2006-01-02_15-04-05")))
	if err := batch.WriteReport(report, reportPath); err != nil {
		log.Error("write report", zap.Error(err))
	}

	log.Info("batch finished",
		zap.Int("total", report.Total),
		zap.Int("succeeded", report.Succeeded),
		zap.Int("failed", report.Failed),
		zap.String("report", reportPath),
	)
	fmt.Printf("Done: %d/%d stories, report: %s\n", report.Succeeded, report.Total, reportPath)

	if report.Failed > 0 {
		os.Exit(1)
	}
}

// outputName derives a story filename from the asset path, timestamped
// so reruns never clobber earlier results.
func outputName(assetPath string, index int, indexed bool) string {
	base := filepath.Base(assetPath)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	name = strings.ReplaceAll(name, " ", "_")
	timestamp := time.Now().Format("2006-01-02_15-04-05")
	if indexed {
		return fmt.Sprintf("%s_story_%03d_%s.png", name, index+1, timestamp)
	}
	return fmt.Sprintf("%s_story_%s.png", name, timestamp)
}
