package tui

import (
	"os"
	"strings"
	"unicode/utf8"

	"github.com/dustin/go-humanize"

	"github.com/aalvaropc/teamsort/internal/domain"
)

func clampString(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))

	n := 0
	for _, r := range s {
		if n >= maxLen {
			break
		}
		b.WriteRune(r)
		n++
	}
	return b.String() + "…"
}

// describeFile is the hint shown next to a path input.
func describeFile(f domain.InputFile) string {
	if !f.IsSet() {
		return "not selected"
	}
	info, err := os.Stat(f.Path)
	switch {
	case err != nil:
		return "missing"
	case info.IsDir():
		return "is a directory"
	default:
		return humanize.Bytes(uint64(info.Size()))
	}
}
