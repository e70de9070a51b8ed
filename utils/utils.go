package utils

import "fmt"

// Str renders an arbitrary decoded JSON value as a string, with nil
// collapsing to "".
func Str(v any) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%v", v)
}

// TrimRunes cuts s to at most n runes, never splitting a multibyte
// character.
func TrimRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
