package views

import "github.com/mattn/go-runewidth"

// truncate fits s into width terminal cells, appending an ellipsis when it
// had to cut. Width-aware so wide runes and multibyte text never get split
// mid-character.
func truncate(s string, width int) string {
	if width < 1 {
		width = 1
	}
	return runewidth.Truncate(s, width, "…")
}
