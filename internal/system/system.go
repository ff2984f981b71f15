// Package system holds host-facing helpers: resource limits, input
// discovery and the worker budget.
package system

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
	"go.uber.org/zap"
)

// workerMemoryEstimate is the per-worker memory ceiling used to size the
// batch. A worker holds a handful of 1080x1920 NRGBA frames plus codec
// scratch, which stays well under 64 MiB.
const workerMemoryEstimate = 64 << 20

// InitResourceLimits raises the open-file limit so wide batches do not
// trip the default soft limit. Failures are logged, never fatal.
func InitResourceLimits(log *zap.Logger) {
	var rLimit syscall.Rlimit
	if err := syscall.Getrlimit(syscall.RLIMIT_NOFILE, &rLimit); err != nil {
		log.Warn("could not read open-file limit", zap.Error(err))
		return
	}

	rLimit.Cur = 2048
	if rLimit.Cur > rLimit.Max {
		rLimit.Cur = rLimit.Max
	}

	if err := syscall.Setrlimit(syscall.RLIMIT_NOFILE, &rLimit); err != nil {
		log.Warn("could not raise open-file limit", zap.Error(err))
	} else {
		log.Debug("open-file limit raised", zap.Uint64("limit", uint64(rLimit.Cur)))
	}
}

// FindLatestImage returns the most recently modified image in dir. If
// path points at a file, its directory is searched.
func FindLatestImage(path string) (string, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return "", err
	}

	searchDir := path
	if !fi.IsDir() {
		searchDir = filepath.Dir(path)
	}

	files, err := os.ReadDir(searchDir)
	if err != nil {
		return "", err
	}

	var latestFile string
	var latestTime time.Time

	for _, f := range files {
		if f.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(f.Name())) {
		case ".png", ".jpg", ".jpeg":
		default:
			continue
		}
		info, err := f.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(latestTime) {
			latestTime = info.ModTime()
			latestFile = filepath.Join(searchDir, f.Name())
		}
	}

	if latestFile == "" {
		return "", fmt.Errorf("no images found in %s", searchDir)
	}

	return latestFile, nil
}

// WorkerBudget clamps the requested worker count to what the host can
// carry: never more than the logical CPU count, never more than the
// available memory divided by the per-worker estimate. If the host
// cannot be probed the request passes through unclamped.
func WorkerBudget(requested int, log *zap.Logger) int {
	if requested < 1 {
		requested = 1
	}
	budget := requested

	if cores, err := cpu.Counts(true); err == nil && cores > 0 && budget > cores {
		budget = cores
	}

	if vm, err := mem.VirtualMemory(); err == nil {
		byMemory := int(vm.Available / workerMemoryEstimate)
		if byMemory < 1 {
			byMemory = 1
		}
		if budget > byMemory {
			budget = byMemory
		}
	}

	if budget != requested {
		log.Info("worker budget clamped",
			zap.Int("requested", requested),
			zap.Int("budget", budget),
		)
	}
	return budget
}
