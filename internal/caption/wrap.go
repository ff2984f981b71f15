package caption

import (
	"math"
	"strings"
	"unicode/utf8"
)

// SoftHyphen marks preferred break points inside a word. It never appears
// in wrapped output: words break at it (with a visible hyphen) or it is
// stripped.
const SoftHyphen = '\u00ad'

// MaxLines caps the wrapped caption. Words past the cap are silently
// dropped; a fourth line is never produced.
const MaxLines = 3

// LineBudget derives the approximate character budget of one caption line
// from the available pixel width, the font size and the average glyph
// width expressed as a fraction of the font size.
func LineBudget(maxWidth, fontSize, glyphWidthFactor float64) int {
	return int(math.Floor((maxWidth / fontSize) / glyphWidthFactor))
}

// unit is an unbreakable run of characters plus whether the line must end
// after it (hyphenated word segments and hard-split chunks continue on
// the next line rather than sharing one).
type unit struct {
	text       string
	breakAfter bool
}

// Wrap greedily wraps text into at most MaxLines lines of at most budget
// characters each. Words longer than the budget break at soft hyphens
// when present, and are hard-split into budget-sized chunks otherwise.
func Wrap(text string, budget int) []string {
	if budget < 1 {
		budget = 1
	}

	var units []unit
	for _, word := range strings.Fields(text) {
		units = append(units, splitWord(word, budget)...)
	}

	lines := make([]string, 0, MaxLines)
	cur := ""
	flush := func() bool {
		if cur != "" {
			lines = append(lines, cur)
			cur = ""
		}
		return len(lines) < MaxLines
	}

	for _, u := range units {
		switch {
		case cur == "":
			cur = u.text
		case utf8.RuneCountInString(cur)+1+utf8.RuneCountInString(u.text) <= budget:
			cur += " " + u.text
		default:
			if !flush() {
				return lines
			}
			cur = u.text
		}
		if u.breakAfter && !flush() {
			return lines
		}
	}

	if cur != "" && len(lines) < MaxLines {
		lines = append(lines, cur)
	}
	return lines
}

// splitWord turns one whitespace-delimited word into wrap units. Words
// within budget come back as a single unit with any soft hyphens removed.
func splitWord(word string, budget int) []unit {
	plain := strings.ReplaceAll(word, string(SoftHyphen), "")
	if plain == "" {
		return nil
	}
	if utf8.RuneCountInString(plain) <= budget {
		return []unit{{text: plain}}
	}
	if strings.ContainsRune(word, SoftHyphen) {
		return splitSoft(word, budget)
	}
	return hardChunks(plain, budget)
}

// splitSoft breaks an over-budget word at its soft hyphens. Consecutive
// segments are merged while they still fit alongside the visible hyphen;
// every group except the word's final one is emitted with a trailing "-".
func splitSoft(word string, budget int) []unit {
	var parts []string
	for _, seg := range strings.Split(word, string(SoftHyphen)) {
		if seg != "" {
			parts = append(parts, seg)
		}
	}
	if len(parts) == 1 {
		return hardChunks(parts[0], budget)
	}

	groups := []string{parts[0]}
	for _, seg := range parts[1:] {
		last := groups[len(groups)-1]
		if utf8.RuneCountInString(last)+utf8.RuneCountInString(seg)+1 <= budget {
			groups[len(groups)-1] = last + seg
		} else {
			groups = append(groups, seg)
		}
	}

	var units []unit
	for i, g := range groups {
		final := i == len(groups)-1
		text := g
		if !final {
			text += "-"
		}
		if utf8.RuneCountInString(text) > budget {
			units = append(units, hardChunks(text, budget)...)
		} else {
			units = append(units, unit{text: text, breakAfter: !final})
		}
	}
	return units
}

// hardChunks splits s into budget-sized rune chunks; each chunk except
// the last closes its line.
func hardChunks(s string, budget int) []unit {
	runes := []rune(s)
	var units []unit
	for len(runes) > budget {
		units = append(units, unit{text: string(runes[:budget]), breakAfter: true})
		runes = runes[budget:]
	}
	if len(runes) > 0 {
		units = append(units, unit{text: string(runes)})
	}
	return units
}
