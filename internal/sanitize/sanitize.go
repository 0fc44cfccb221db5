// Package sanitize normalizes text pasted from Word, PDF viewers, and other
// rich-text sources into plain text the curriculum parser can work with.
// Symbol-font bullets and smart punctuation would otherwise break the
// dash-prefixed objective detection downstream.
package sanitize

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

var (
	// Smart quotes, dashes, ellipsis, and non-breaking space to ASCII.
	punctuation = strings.NewReplacer(
		"‘", "'", "’", "'", "‚", "'", "‛", "'",
		"“", `"`, "”", `"`, "„", `"`, "‟", `"`,
		"–", "-", "—", "-",
		"…", "...",
		" ", " ",
	)

	// Bullet glyphs become a plain dash so objective lines stay detectable.
	bullets = strings.NewReplacer(
		"•", "- ", "●", "- ", "○", "- ", "▪", "- ",
		"▫", "- ", "‣", "- ", "▶", "- ", "◆", "- ",
	)

	// Wingdings/Symbol fonts map glyphs into the Private Use Area
	// (U+E000-U+F8FF, which contains the Symbol range U+F020-U+F0FF).
	privateUse = runes.Remove(runes.In(unicode.Co))

	spaceRuns   = regexp.MustCompile(`[ \t]+`)
	newlineRuns = regexp.MustCompile(`\n{4,}`)
	blankLines  = regexp.MustCompile(`(?m)^[ \t]+$`)
)

// Clean normalizes raw pasted text. It is total and idempotent:
// Clean(Clean(s)) == Clean(s) for any input.
func Clean(raw string) string {
	text := punctuation.Replace(raw)

	if out, _, err := transform.String(privateUse, text); err == nil {
		text = out
	}

	text = bullets.Replace(text)
	text = stripControl(text)

	// Blank whitespace-only lines before collapsing newline runs: blanking
	// can itself create a 4+-newline run, and collapsing first would leave
	// one behind.
	text = spaceRuns.ReplaceAllString(text, " ")
	text = blankLines.ReplaceAllString(text, "")
	text = newlineRuns.ReplaceAllString(text, "\n\n\n")

	return strings.TrimSpace(text)
}

// stripControl drops control characters except newline and tab. Carriage
// returns are left alone so CRLF input survives unchanged.
func stripControl(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' || r == '\r' {
			return r
		}
		if r < 0x20 || r == 0x7F {
			return -1
		}
		return r
	}, s)
}
