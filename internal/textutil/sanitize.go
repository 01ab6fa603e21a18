package textutil

import (
	"fmt"
	"strings"
	"unicode"
)

// Short labels for the format characters most often used to disguise names.
var formatRuneLabels = map[rune]string{
	0x061C: "ALM",
	0x200B: "ZWSP",
	0x200C: "ZWNJ",
	0x200D: "ZWJ",
	0x200E: "LRM",
	0x200F: "RLM",
	0x202A: "LRE",
	0x202B: "RLE",
	0x202C: "PDF",
	0x202D: "LRO",
	0x202E: "RLO",
	0x2066: "LRI",
	0x2067: "RLI",
	0x2068: "FSI",
	0x2069: "PDI",
	0x00AD: "SHY",
	0xFEFF: "BOM",
}

// SanitizeTerminalText makes node names safe to draw. Control characters
// become '?', line breaks and tabs become spaces and invisible format
// characters are shown as a bracketed label.
func SanitizeTerminalText(text string) string {
	if !strings.ContainsFunc(text, needsSanitizing) {
		return text
	}
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		switch {
		case r == '\t' || r == '\n' || r == '\r':
			b.WriteByte(' ')
		case unicode.Is(unicode.Cf, r) || r == 0x2028 || r == 0x2029:
			b.WriteString("⟪" + FormatRuneLabel(r) + "⟫")
		case unicode.IsControl(r):
			b.WriteByte('?')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// FormatRuneLabel names an invisible rune, falling back to its code point.
func FormatRuneLabel(r rune) string {
	if label, ok := formatRuneLabels[r]; ok {
		return label
	}
	return fmt.Sprintf("U+%04X", r)
}

func needsSanitizing(r rune) bool {
	return unicode.IsControl(r) || unicode.Is(unicode.Cf, r) || r == 0x2028 || r == 0x2029
}
