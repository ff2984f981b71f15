package batch

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ivlev/storyframe/internal/engine"
)

// Report is the persisted record of one batch run.
type Report struct {
	Version   string `yaml:"version"`
	StartedAt string `yaml:"started_at"`
	Total     int    `yaml:"total"`
	Succeeded int    `yaml:"succeeded"`
	Failed    int    `yaml:"failed"`
	Items     []Item `yaml:"items"`
}

// Item is one job's entry in the report.
type Item struct {
	ID         int                         `yaml:"id"`
	Asset      string                      `yaml:"asset"`
	OutputPath string                      `yaml:"output_path"`
	Success    bool                        `yaml:"success"`
	Error      string                      `yaml:"error,omitempty"`
	Analytics  engine.TextOverlayAnalytics `yaml:"analytics"`
}

// ReportVersion tags the report schema.
const ReportVersion = "1.0"

// BuildReport condenses run outcomes into a report.
func BuildReport(outcomes []Outcome, startedAt time.Time) *Report {
	rep := &Report{
		Version:   ReportVersion,
		StartedAt: startedAt.UTC().Format(time.RFC3339),
		Total:     len(outcomes),
		Items:     make([]Item, 0, len(outcomes)),
	}

	for _, o := range outcomes {
		item := Item{
			ID:         o.Job.ID,
			Asset:      o.Job.Request.AssetPath,
			OutputPath: o.Job.Request.OutputPath,
		}
		switch {
		case o.Err != nil:
			item.Error = o.Err.Error()
		case o.Result != nil:
			item.Success = o.Result.Success
			item.Analytics = o.Result.Analytics
		}
		if item.Success {
			rep.Succeeded++
		} else {
			rep.Failed++
		}
		rep.Items = append(rep.Items, item)
	}

	return rep
}

// WriteReport writes a report to a YAML file.
func WriteReport(rep *Report, path string) error {
	data, err := yaml.Marshal(rep)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadReport reads a report from a YAML file.
func ReadReport(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var rep Report
	if err := yaml.Unmarshal(data, &rep); err != nil {
		return nil, err
	}

	return &rep, nil
}
