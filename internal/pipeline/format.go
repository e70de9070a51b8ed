package pipeline

import (
	"fmt"
	"regexp"
	"strings"
)

// MessageLimit is the platform cap on one outbound message.
const MessageLimit = 4096

var urlPattern = regexp.MustCompile(`https?://\S+`)

// trailingPunct is stripped from matched URLs; the pattern is greedy
// and picks up closing punctuation from the surrounding prose.
const trailingPunct = `).,;!?:"'”»`

// ExtractURLs pulls links out of raw search-result text, deduplicated
// in first-seen order.
func ExtractURLs(text string) []string {
	if text == "" {
		return nil
	}
	var out []string
	seen := make(map[string]struct{})
	for _, raw := range urlPattern.FindAllString(text, -1) {
		u := raw
		// Hyperlinked results keep the URL inside href="..."; cut at the
		// closing quote or tag.
		if i := strings.IndexAny(u, `"<`); i != -1 {
			u = u[:i]
		}
		u = strings.TrimRight(u, trailingPunct)
		if u == "" {
			continue
		}
		if _, ok := seen[u]; ok {
			continue
		}
		seen[u] = struct{}{}
		out = append(out, u)
	}
	return out
}

// sourcesMarker detects an answer that already lists its sources;
// injection must be idempotent.
const sourcesMarker = "источники"

// InjectSources appends a numbered source list unless the answer
// already carries one.
func InjectSources(answer string, urls []string) string {
	if len(urls) == 0 {
		return answer
	}
	if strings.Contains(strings.ToLower(answer), sourcesMarker) {
		return answer
	}
	lines := make([]string, 0, len(urls))
	for i, u := range urls {
		lines = append(lines, fmt.Sprintf(`• <a href="%s">Источник %d</a>`, u, i+1))
	}
	return strings.TrimRight(answer, " \n\t") + "\n\n<b>Источники:</b>\n" + strings.Join(lines, "\n")
}

// Split chunks an answer to fit the platform limit. Split points are
// searched backward from the limit: newline first, then space, then a
// hard cut when the nearest separator sits in the first 30% of the
// window. Chunks are trimmed; rejoining them loses only boundary
// whitespace.
func Split(text string, limit int) []string {
	runes := []rune(text)
	if len(runes) <= limit {
		return []string{text}
	}
	var parts []string
	remaining := runes
	for len(remaining) > limit {
		window := remaining[:limit+1]
		cut := lastIndexRune(window, '\n')
		if cut == -1 {
			cut = lastIndexRune(window, ' ')
		}
		if cut == -1 || cut < limit*3/10 {
			cut = limit
		}
		parts = append(parts, strings.TrimSpace(string(remaining[:cut])))
		remaining = trimLeadingSpace(remaining[cut:])
	}
	if len(remaining) > 0 {
		parts = append(parts, strings.TrimSpace(string(remaining)))
	}
	return parts
}

func lastIndexRune(runes []rune, r rune) int {
	for i := len(runes) - 1; i >= 0; i-- {
		if runes[i] == r {
			return i
		}
	}
	return -1
}

func trimLeadingSpace(runes []rune) []rune {
	i := 0
	for i < len(runes) && (runes[i] == ' ' || runes[i] == '\n' || runes[i] == '\t') {
		i++
	}
	return runes[i:]
}
