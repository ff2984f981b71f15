package caption

// Shadow is the drop-shadow styling rendered behind the caption glyphs.
type Shadow struct {
	Variant string // "dark" or "light"
	Color   string // SVG flood color
	Opacity float64
}

var (
	shadowDark  = Shadow{Variant: "dark", Color: "#000000", Opacity: 0.9}
	shadowLight = Shadow{Variant: "light", Color: "#FFFFFF", Opacity: 0.9}
)

// brightnessMidpoint splits "light" backgrounds from "dark" ones.
const brightnessMidpoint = 127.5

// SelectShadow picks the shadow variant for a mean background brightness:
// a light background gets a dark shadow and vice versa, keeping the text
// legible regardless of background luminance.
func SelectShadow(avgBrightness float64) Shadow {
	if avgBrightness > brightnessMidpoint {
		return shadowDark
	}
	return shadowLight
}
