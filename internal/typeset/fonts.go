package typeset

import (
	"slices"
	"strings"

	"github.com/alnah/go-repo2pdf/internal/config"
)

// Fonts are the families the preamble and defaults file name.
type Fonts struct {
	Main  string
	Sans  string
	Mono  string
	Emoji []string // tried in order; the first installed one backs the mono font
}

// SystemFonts returns the default families for an operating system as
// reported by runtime.GOOS.
func SystemFonts(goos string) Fonts {
	if goos == "darwin" {
		return Fonts{
			Main:  "Songti SC",
			Sans:  "Heiti SC",
			Mono:  "SF Mono",
			Emoji: []string{"Apple Color Emoji"},
		}
	}
	return Fonts{
		Main:  "Noto Serif CJK SC",
		Sans:  "Noto Sans CJK SC",
		Mono:  "DejaVu Sans Mono",
		Emoji: []string{"Noto Color Emoji"},
	}
}

// ResolveFonts fills unset families in s from the system defaults. Configured
// emoji fonts come first, followed by the system ones not already listed.
func ResolveFonts(s config.PDFSettings, goos string) Fonts {
	sys := SystemFonts(goos)
	f := Fonts{
		Main: fontName(s.MainFont, sys.Main),
		Sans: fontName(s.SansFont, sys.Sans),
		Mono: fontName(s.MonoFont, sys.Mono),
	}
	for _, name := range append(slices.Clone([]string(s.EmojiFont)), sys.Emoji...) {
		name = sanitizeFont(name)
		if name != "" && !slices.Contains(f.Emoji, name) {
			f.Emoji = append(f.Emoji, name)
		}
	}
	return f
}

func fontName(configured, fallback string) string {
	if name := sanitizeFont(configured); name != "" {
		return name
	}
	return fallback
}

// sanitizeFont drops characters that would unbalance a LaTeX group.
func sanitizeFont(name string) string {
	return strings.TrimSpace(strings.NewReplacer("{", "", "}", "", `\`, "").Replace(name))
}
