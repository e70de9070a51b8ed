package reference

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kgavrilov/pravobot/internal/topic"
)

func newTestCorpus(t *testing.T, maxChars int) (*Corpus, string) {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"tax":   "tax_code.txt",
		"admin": "koap_rf.txt",
	}
	logger := log.New(io.Discard, "", 0)
	return NewCorpus(dir, files, maxChars, logger), dir
}

func TestLookupReadsAndTruncates(t *testing.T) {
	c, dir := newTestCorpus(t, 10)
	content := strings.Repeat("статья ", 5)
	if err := os.WriteFile(filepath.Join(dir, "tax_code.txt"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	got := c.Lookup(topic.Tax)
	if runes := []rune(got); len(runes) != 10 {
		t.Fatalf("expected 10 runes after truncation, got %d", len(runes))
	}
	if !strings.HasPrefix(content, got) {
		t.Fatalf("truncated text is not a prefix of the file: %q", got)
	}
}

func TestLookupMissingFileDegrades(t *testing.T) {
	c, _ := newTestCorpus(t, 100)
	if got := c.Lookup(topic.Admin); got != "" {
		t.Fatalf("expected empty text for missing file, got %q", got)
	}
}

func TestLookupUnknownCategoryFallsBackToTax(t *testing.T) {
	c, dir := newTestCorpus(t, 100)
	if err := os.WriteFile(filepath.Join(dir, "tax_code.txt"), []byte("НК РФ"), 0o644); err != nil {
		t.Fatal(err)
	}
	if got := c.Lookup(topic.Category("unknown")); got != "НК РФ" {
		t.Fatalf("expected tax fallback text, got %q", got)
	}
}
