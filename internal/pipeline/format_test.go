package pipeline

import (
	"strings"
	"testing"
)

func TestExtractURLsDedupesInOrder(t *testing.T) {
	text := `<a href="https://example.ru/a">Первый источник</a>
текст со ссылкой https://example.ru/b, и снова https://example.ru/a.
<a href="https://example.ru/b">Второй</a>`

	got := ExtractURLs(text)
	want := []string{"https://example.ru/a", "https://example.ru/b"}
	if len(got) != len(want) {
		t.Fatalf("ExtractURLs = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("ExtractURLs = %v, want %v", got, want)
		}
	}
}

func TestExtractURLsStripsTrailingPunctuation(t *testing.T) {
	got := ExtractURLs(`см. https://example.ru/doc).`)
	if len(got) != 1 || got[0] != "https://example.ru/doc" {
		t.Fatalf("expected bare URL, got %v", got)
	}
}

func TestExtractURLsEmpty(t *testing.T) {
	if got := ExtractURLs(""); got != nil {
		t.Fatalf("expected nil, got %v", got)
	}
	if got := ExtractURLs("без ссылок"); got != nil {
		t.Fatalf("expected nil, got %v", got)
	}
}

func TestInjectSourcesAppendsNumberedList(t *testing.T) {
	out := InjectSources("Ответ по существу.", []string{"https://a.ru", "https://b.ru"})
	if !strings.Contains(out, "<b>Источники:</b>") {
		t.Fatal("expected sources header")
	}
	if !strings.Contains(out, `<a href="https://a.ru">Источник 1</a>`) ||
		!strings.Contains(out, `<a href="https://b.ru">Источник 2</a>`) {
		t.Fatalf("expected numbered links, got:\n%s", out)
	}
}

func TestInjectSourcesIdempotent(t *testing.T) {
	answer := InjectSources("Ответ.", []string{"https://a.ru"})
	again := InjectSources(answer, []string{"https://a.ru"})
	if again != answer {
		t.Fatal("second injection must be a no-op")
	}
	if strings.Count(again, "Источники") != 1 {
		t.Fatalf("duplicate source list:\n%s", again)
	}
}

func TestInjectSourcesNoURLs(t *testing.T) {
	if out := InjectSources("Ответ.", nil); out != "Ответ." {
		t.Fatalf("expected unchanged answer, got %q", out)
	}
}

func TestSplitShortTextUnchanged(t *testing.T) {
	parts := Split("короткий ответ", MessageLimit)
	if len(parts) != 1 || parts[0] != "короткий ответ" {
		t.Fatalf("expected single unchanged chunk, got %v", parts)
	}
}

func TestSplitPrefersNewline(t *testing.T) {
	text := strings.Repeat("а", 80) + "\n" + strings.Repeat("б", 60)
	parts := Split(text, 100)
	if len(parts) != 2 {
		t.Fatalf("expected 2 chunks, got %d: %v", len(parts), parts)
	}
	if parts[0] != strings.Repeat("а", 80) {
		t.Fatalf("expected cut at the newline, got %q", parts[0])
	}
	if parts[1] != strings.Repeat("б", 60) {
		t.Fatalf("second chunk wrong: %q", parts[1])
	}
}

func TestSplitFallsBackToSpace(t *testing.T) {
	text := strings.Repeat("а", 90) + " " + strings.Repeat("б", 60)
	parts := Split(text, 100)
	if len(parts) != 2 || parts[0] != strings.Repeat("а", 90) {
		t.Fatalf("expected cut at the space, got %v", parts)
	}
}

func TestSplitHardCutWithoutNearbySeparator(t *testing.T) {
	// The only separator sits in the first 30% of the window, so the
	// splitter must hard-cut at the limit instead of emitting a tiny
	// leading chunk.
	text := strings.Repeat("а", 10) + " " + strings.Repeat("б", 200)
	parts := Split(text, 100)
	if len([]rune(parts[0])) != 100 {
		t.Fatalf("expected hard cut at the limit, first chunk has %d runes", len([]rune(parts[0])))
	}
}

func TestSplitBoundsAndLosslessRejoin(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 300; i++ {
		b.WriteString("Строка номер ")
		b.WriteString(strings.Repeat("я", i%17))
		if i%5 == 0 {
			b.WriteString("\n")
		} else {
			b.WriteString(" ")
		}
	}
	text := b.String()

	parts := Split(text, 256)
	for i, p := range parts {
		if n := len([]rune(p)); n > 256 {
			t.Fatalf("chunk %d exceeds limit: %d runes", i, n)
		}
		if p != strings.TrimSpace(p) {
			t.Fatalf("chunk %d not trimmed: %q", i, p)
		}
	}

	strip := func(s string) string {
		return strings.Map(func(r rune) rune {
			if r == ' ' || r == '\n' || r == '\t' {
				return -1
			}
			return r
		}, s)
	}
	if strip(strings.Join(parts, "")) != strip(text) {
		t.Fatal("rejoined chunks lost content beyond boundary whitespace")
	}
}
