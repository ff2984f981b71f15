// Package caption turns caption text into a styled, positioned overlay:
// it maps the detected asset extent to one of three fixed vertical tiers,
// wraps the text, and renders it as SVG markup rasterized over the
// composite.
package caption

// Tier is one of the three fixed vertical caption positions. Level is
// 1-based; Y is the absolute canvas baseline of the first line.
type Tier struct {
	Level int
	Y     int
}

var tiers = [3]Tier{
	{Level: 1, Y: 1560},
	{Level: 2, Y: 1520},
	{Level: 3, Y: 1480},
}

// Edge thresholds separating the tiers, in absolute canvas Y.
const (
	tierEdgeLow  = 900
	tierEdgeHigh = 1100
)

// TierFor maps a detected asset bottom edge to a caption tier. An
// undetected edge (0) falls into tier 1.
func TierFor(edgeY int) Tier {
	switch {
	case edgeY < tierEdgeLow:
		return tiers[0]
	case edgeY <= tierEdgeHigh:
		return tiers[1]
	default:
		return tiers[2]
	}
}

// TierAt returns the tier for a 1-based level. It is used by the retry
// path, which pins the caption to tier 2 regardless of detection.
func TierAt(level int) Tier {
	if level < 1 || level > len(tiers) {
		return tiers[1]
	}
	return tiers[level-1]
}
