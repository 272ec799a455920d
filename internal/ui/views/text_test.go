package views

import (
	"testing"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/assert"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		width int
		want  string
	}{
		{"fits untouched", "short", 10, "short"},
		{"exact width untouched", "twelve chars", 12, "twelve chars"},
		{"ascii cut", "a longer task title", 8, "a longe…"},
		{"multibyte cut stays valid", "日本語のタイトル", 6, "日本…"},
		{"accented text", "réunion générale du équipe", 10, "réunion g…"},
		{"width floor", "anything", 0, "…"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := truncate(tc.in, tc.width)
			assert.Equal(t, tc.want, got)
			assert.True(t, utf8.ValidString(got))
			assert.LessOrEqual(t, runewidth.StringWidth(got), max(tc.width, 1))
		})
	}
}
