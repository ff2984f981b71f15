package caption

import (
	"fmt"
	"strings"
)

// markupParams describes one caption overlay: a transparent canvas-sized
// SVG layer holding the wrapped lines, center-anchored at the canvas
// midline, with a drop-shadow filter behind the glyphs.
type markupParams struct {
	Width      int
	Height     int
	FontFamily string
	FontSize   float64
	LineHeight float64 // multiple of FontSize between line baselines
	Fill       string
	Shadow     Shadow
	Lines      []string
	StartY     int // baseline of the first line
}

// escapeText escapes caption content for embedding in markup, so caption
// text can never inject elements or attributes.
var escapeText = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
).Replace

// buildMarkup renders the caption layer as SVG bytes.
func buildMarkup(p markupParams) []byte {
	var b strings.Builder

	fmt.Fprintf(&b,
		`<svg width="%d" height="%d" viewBox="0 0 %d %d" xmlns="http://www.w3.org/2000/svg">`+"\n",
		p.Width, p.Height, p.Width, p.Height)

	b.WriteString("<defs>\n")
	fmt.Fprintf(&b,
		`<filter id="captionShadow" x="-20%%" y="-20%%" width="140%%" height="140%%">`+
			`<feDropShadow dx="0" dy="2" stdDeviation="4" flood-color="%s" flood-opacity="%.2f"/>`+
			`</filter>`+"\n",
		p.Shadow.Color, p.Shadow.Opacity)
	b.WriteString("</defs>\n")

	midX := p.Width / 2
	pitch := p.LineHeight * p.FontSize
	for i, line := range p.Lines {
		y := float64(p.StartY) + float64(i)*pitch
		fmt.Fprintf(&b,
			`<text x="%d" y="%.0f" font-family="%s" font-size="%.0f" font-weight="bold" `+
				`fill="%s" text-anchor="middle" filter="url(#captionShadow)">%s</text>`+"\n",
			midX, y, escapeText(p.FontFamily), p.FontSize, p.Fill, escapeText(line))
	}

	b.WriteString("</svg>\n")
	return []byte(b.String())
}
