package caption

import (
	"image"
	"image/color"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestTierFor(t *testing.T) {
	tests := []struct {
		edgeY     int
		wantLevel int
		wantY     int
	}{
		{0, 1, 1560},    // undetected
		{500, 1, 1560},  // asset ends high
		{899, 1, 1560},  // just below the low threshold
		{900, 2, 1520},  // low threshold inclusive
		{1000, 2, 1520}, // middle band
		{1100, 2, 1520}, // high threshold inclusive
		{1101, 3, 1480},
		{1200, 3, 1480}, // asset extends low
	}

	for _, tt := range tests {
		got := TierFor(tt.edgeY)
		if got.Level != tt.wantLevel || got.Y != tt.wantY {
			t.Errorf("TierFor(%d) = tier %d @ %d, want tier %d @ %d",
				tt.edgeY, got.Level, got.Y, tt.wantLevel, tt.wantY)
		}
	}
}

func TestTierAt(t *testing.T) {
	if got := TierAt(2); got.Y != 1520 {
		t.Errorf("TierAt(2).Y = %d, want 1520", got.Y)
	}
	if got := TierAt(99); got.Level != 2 {
		t.Errorf("TierAt(99) = tier %d, want fallback to tier 2", got.Level)
	}
}

func TestSelectShadow(t *testing.T) {
	if s := SelectShadow(200); s.Variant != "dark" {
		t.Errorf("bright background: shadow = %s, want dark", s.Variant)
	}
	if s := SelectShadow(50); s.Variant != "light" {
		t.Errorf("dark background: shadow = %s, want light", s.Variant)
	}
	// Exactly at the midpoint is not "light background".
	if s := SelectShadow(127.5); s.Variant != "light" {
		t.Errorf("midpoint: shadow = %s, want light", s.Variant)
	}
}

func TestLineBudget(t *testing.T) {
	if got := LineBudget(960, 64, 0.6); got != 25 {
		t.Errorf("LineBudget(960, 64, 0.6) = %d, want 25", got)
	}
	if got := LineBudget(756, 54, 0.55); got != 25 {
		t.Errorf("LineBudget(756, 54, 0.55) = %d, want 25", got)
	}
}

func TestWrapBasic(t *testing.T) {
	lines := Wrap("the quick brown fox jumps", 10)
	want := []string{"the quick", "brown fox", "jumps"}
	if len(lines) != len(want) {
		t.Fatalf("lines = %q, want %q", lines, want)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestWrapNeverExceedsThreeLines(t *testing.T) {
	long := strings.Repeat("word ", 200)
	lines := Wrap(long, 10)
	if len(lines) > MaxLines {
		t.Errorf("wrapped %d lines, max is %d", len(lines), MaxLines)
	}
}

func TestWrapBudgetRespected(t *testing.T) {
	inputs := []string{
		"a bb ccc dddd eeeee ffffff",
		"supercalifragilisticexpialidocious",
		"mixed tiny enormouswordthatneverends tail",
	}
	for _, in := range inputs {
		for _, budget := range []int{5, 10, 25} {
			for _, line := range Wrap(in, budget) {
				if n := len([]rune(line)); n > budget {
					t.Errorf("Wrap(%q, %d): line %q has %d chars", in, budget, line, n)
				}
			}
		}
	}
}

func TestWrapHardSplitsLongWords(t *testing.T) {
	lines := Wrap("abcdefghijklmnop", 5)
	want := []string{"abcde", "fghij", "klmno"}
	if len(lines) != 3 {
		t.Fatalf("lines = %q, want 3 chunks", lines)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("chunk %d = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestWrapSoftHyphens(t *testing.T) {
	word := "extra" + string(SoftHyphen) + "ordinary" + string(SoftHyphen) + "ness"
	lines := Wrap(word, 10)

	if len(lines) < 2 {
		t.Fatalf("expected a soft-hyphen break, got %q", lines)
	}
	if !strings.HasSuffix(lines[0], "-") {
		t.Errorf("first segment %q should end with a visible hyphen", lines[0])
	}
	if strings.HasSuffix(lines[len(lines)-1], "-") {
		t.Errorf("final segment %q should not end with a hyphen", lines[len(lines)-1])
	}
	for _, line := range lines {
		if strings.ContainsRune(line, SoftHyphen) {
			t.Errorf("soft hyphen leaked into output line %q", line)
		}
	}
}

func TestWrapStripsSoftHyphensFromShortWords(t *testing.T) {
	lines := Wrap("co"+string(SoftHyphen)+"op works", 25)
	if len(lines) != 1 || lines[0] != "coop works" {
		t.Errorf("lines = %q, want [\"coop works\"]", lines)
	}
}

func TestWrapEmpty(t *testing.T) {
	if lines := Wrap("   ", 10); len(lines) != 0 {
		t.Errorf("blank caption wrapped to %q, want none", lines)
	}
}

func TestBuildMarkupEscapesContent(t *testing.T) {
	svg := string(buildMarkup(markupParams{
		Width:      1080,
		Height:     1920,
		FontFamily: "Test Sans",
		FontSize:   64,
		LineHeight: 1.3,
		Fill:       "#FFFFFF",
		Shadow:     shadowDark,
		Lines:      []string{`<script>"pwn" & 'run'</script>`},
		StartY:     1520,
	}))

	if strings.Contains(svg, "<script>") {
		t.Error("markup injection was not escaped")
	}
	for _, want := range []string{"&lt;script&gt;", "&quot;pwn&quot;", "&amp;", "&apos;run&apos;"} {
		if !strings.Contains(svg, want) {
			t.Errorf("escaped markup missing %q:\n%s", want, svg)
		}
	}
}

func TestBuildMarkupStructure(t *testing.T) {
	svg := string(buildMarkup(markupParams{
		Width:      1080,
		Height:     1920,
		FontFamily: "Test Sans",
		FontSize:   64,
		LineHeight: 1.3,
		Fill:       "#FFFFFF",
		Shadow:     shadowLight,
		Lines:      []string{"first line", "second line"},
		StartY:     1480,
	}))

	for _, want := range []string{
		`viewBox="0 0 1080 1920"`,
		`feDropShadow`,
		`flood-color="#FFFFFF"`,
		`font-family="Test Sans"`,
		`text-anchor="middle"`,
		`x="540" y="1480"`,
		`y="1563"`, // 1480 + 1.3*64, second baseline
	} {
		if !strings.Contains(svg, want) {
			t.Errorf("markup missing %q:\n%s", want, svg)
		}
	}

	if got := strings.Count(svg, "<text"); got != 2 {
		t.Errorf("text runs = %d, want 2", got)
	}
}

func TestRendererApply(t *testing.T) {
	base := image.NewNRGBA(image.Rect(0, 0, 1080, 1920))
	for y := 0; y < 1920; y++ {
		for x := 0; x < 1080; x++ {
			base.SetNRGBA(x, y, color.NRGBA{R: 230, G: 230, B: 230, A: 255})
		}
	}

	r := NewRenderer("Test Sans", zap.NewNop())
	var gotSVG []byte
	r.rasterize = func(svg []byte, width int) (image.Image, error) {
		gotSVG = svg
		return image.NewNRGBA(image.Rect(0, 0, 1080, 1920)), nil
	}

	out, info, err := r.Apply(base, "hello bright world", 1520)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if out == nil || out.Bounds().Dx() != 1080 || out.Bounds().Dy() != 1920 {
		t.Fatalf("unexpected output bounds %v", out.Bounds())
	}
	if info.Lines != 1 {
		t.Errorf("lines = %d, want 1", info.Lines)
	}
	if info.Shadow.Variant != "dark" {
		t.Errorf("shadow = %s, want dark on a bright background", info.Shadow.Variant)
	}
	if info.Brightness.Average != 230 {
		t.Errorf("avg brightness = %f, want 230", info.Brightness.Average)
	}
	if !strings.Contains(string(gotSVG), "hello bright world") {
		t.Errorf("markup does not contain the caption text:\n%s", gotSVG)
	}
}

func TestRendererApplyEmptyCaption(t *testing.T) {
	r := NewRenderer("Test Sans", nil)
	base := image.NewNRGBA(image.Rect(0, 0, 1080, 1920))
	if _, _, err := r.Apply(base, "  ", 1520); err == nil {
		t.Error("expected an error for an empty caption")
	}
}
