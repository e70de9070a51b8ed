// Package reference serves the static per-category corpus of statute
// text. Files are plain UTF-8 on disk, read fully and truncated at
// lookup time; there is no indexing.
package reference

import (
	"log"
	"os"
	"path/filepath"

	"github.com/kgavrilov/pravobot/internal/topic"
)

// Corpus resolves a topic category to bounded reference text.
type Corpus struct {
	dataDir  string
	files    map[string]string
	maxChars int
	logger   *log.Logger
}

// NewCorpus wires a corpus over the configured file mapping. maxChars
// bounds the text returned by Lookup.
func NewCorpus(dataDir string, files map[string]string, maxChars int, logger *log.Logger) *Corpus {
	if logger == nil {
		logger = log.New(log.Writer(), "[REFERENCE] ", log.LstdFlags)
	}
	return &Corpus{dataDir: dataDir, files: files, maxChars: maxChars, logger: logger}
}

// Lookup returns the reference text for a category, truncated to the
// configured cap. A missing or unreadable file degrades to an empty
// string; the pipeline never sees an error from here.
func (c *Corpus) Lookup(category topic.Category) string {
	name, ok := c.files[string(category)]
	if !ok {
		name = c.files[string(topic.Tax)]
	}
	if name == "" {
		return ""
	}
	path := filepath.Join(c.dataDir, name)
	data, err := os.ReadFile(path)
	if err != nil {
		c.logger.Printf("reference file %s: %v", path, err)
		return ""
	}
	return truncateRunes(string(data), c.maxChars)
}

// truncateRunes cuts at a rune boundary so a multibyte character is
// never split mid-sequence.
func truncateRunes(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
