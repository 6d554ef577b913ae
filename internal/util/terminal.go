package util

import "fmt"

// MakeHyperlink wraps displayText in an OSC 8 escape so terminals that
// support it (iTerm2, Konsole, GNOME Terminal, Windows Terminal) make it
// clickable. The BEL terminator is understood by more terminals than ST.
func MakeHyperlink(url, displayText string) string {
	if url == "" {
		return displayText
	}
	return fmt.Sprintf("\033]8;;%s\a%s\033]8;;\a", url, displayText)
}

// TruncateText truncates s to maxLen runes, appending "…" if truncated.
func TruncateText(s string, maxLen int) string {
	if maxLen <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen == 1 {
		return "…"
	}
	return string(runes[:maxLen-1]) + "…"
}
