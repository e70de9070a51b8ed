// Package web_search retrieves short-lived web context for a query:
// provider selection, query enhancement, topic-specific supplementary
// lookups and rendering of results into a prompt-ready block.
package web_search

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/kgavrilov/pravobot/config"
	"github.com/kgavrilov/pravobot/internal/topic"
	"github.com/kgavrilov/pravobot/tools/web_search/models"
	"github.com/kgavrilov/pravobot/tools/web_search/serper"
	"github.com/kgavrilov/pravobot/tools/web_search/tavily"
	"github.com/kgavrilov/pravobot/utils"
)

// Searcher is the provider-level contract: one query in, a bounded
// ordered result list out.
type Searcher interface {
	Discover(ctx context.Context, q models.Query) ([]models.Result, error)
}

type Provider string

const (
	TavilyProvider Provider = "tavily"
	SerperProvider Provider = "serper"
)

var ErrUnsupportedProvider = errors.New("unsupported search provider")

// NewSearcher builds the configured provider implementation.
func NewSearcher(provider Provider, apiKey string) (Searcher, error) {
	switch provider {
	case TavilyProvider:
		return tavily.Search{ApiKey: apiKey}, nil
	case SerperProvider:
		return serper.Search{ApiKey: apiKey}, nil
	default:
		return nil, ErrUnsupportedProvider
	}
}

const (
	// snippetMaxChars bounds a single rendered result body.
	snippetMaxChars = 1500
	// labelMaxWords bounds the link label derived from a title.
	labelMaxWords = 5
)

// regionQualifier is appended to every outgoing query to keep results
// anchored to the jurisdiction the assistant answers for.
const regionQualifier = "Российская Федерация законодательство"

// currencyQualifier is appended when the query looks like it concerns
// transactions with foreign parties.
const currencyQualifier = "валютный контроль 173-ФЗ"

var currencyHints = []string{"нерезидент", "иностранн", "валют", "зарубеж", "трансгранич"}

// supplementaryQueries adds one extra topical lookup per category where
// the primary query alone tends to miss fresh regulatory material.
var supplementaryQueries = map[topic.Category]struct {
	label string
	text  string
}{
	topic.Trade: {"валютный контроль", "актуальные требования валютного контроля ЦБ РФ"},
	topic.Admin: {"изменения КоАП", "последние изменения КоАП РФ размеры штрафов"},
}

// Service layers retrieval policy over a raw Searcher. Failures degrade
// to an empty context block; the caller never sees a search error.
type Service struct {
	searcher Searcher
	cfg      config.SearchConfig
	logger   *log.Logger
}

// NewService builds the service from configuration.
func NewService(cfg config.SearchConfig, logger *log.Logger) (*Service, error) {
	if logger == nil {
		logger = log.New(log.Writer(), "[SEARCH] ", log.LstdFlags)
	}
	s, err := NewSearcher(Provider(cfg.Provider), cfg.APIKey)
	if err != nil {
		return nil, err
	}
	return &Service{searcher: s, cfg: cfg, logger: logger}, nil
}

// NewServiceWith wires an explicit Searcher; used by tests and by any
// caller that already owns a provider.
func NewServiceWith(searcher Searcher, cfg config.SearchConfig, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(log.Writer(), "[SEARCH] ", log.LstdFlags)
	}
	return &Service{searcher: searcher, cfg: cfg, logger: logger}
}

// Enhance rewrites the user query with qualifier terms that improve
// retrieval precision without user involvement.
func (s *Service) Enhance(query string) string {
	q := strings.TrimSpace(query)
	lower := strings.ToLower(q)
	for _, hint := range currencyHints {
		if strings.Contains(lower, hint) {
			q = q + " " + currencyQualifier
			break
		}
	}
	return q + " " + regionQualifier
}

// Retrieve runs the primary query plus any topic-specific supplementary
// query and renders everything into one prompt-ready block. Provider
// errors and empty result sets both come back as "", never as an error.
func (s *Service) Retrieve(ctx context.Context, query string, category topic.Category) string {
	primary := s.discover(ctx, s.Enhance(query))

	var blocks []string
	if primary != "" {
		blocks = append(blocks, primary)
	}
	if sup, ok := supplementaryQueries[category]; ok {
		if extra := s.discover(ctx, sup.text); extra != "" {
			blocks = append(blocks, "--- Дополнительный поиск: "+sup.label+" ---\n\n"+extra)
		}
	}
	return strings.Join(blocks, "\n\n")
}

func (s *Service) discover(ctx context.Context, text string) string {
	results, err := s.searcher.Discover(ctx, models.Query{
		Text:       text,
		MaxResults: s.cfg.MaxResults,
		Depth:      s.cfg.Depth,
		Country:    s.cfg.Country,
	})
	if err != nil {
		s.logger.Printf("search %q: %v", text, err)
		return ""
	}
	return RenderResults(results)
}

// RenderResults formats hits as hyperlinked labels with trimmed
// snippets. Duplicate URLs across calls are left in place; the source
// list built later deduplicates.
func RenderResults(results []models.Result) string {
	var parts []string
	for _, r := range results {
		if r.URL == "" {
			continue
		}
		var b strings.Builder
		b.WriteString(`<a href="` + r.URL + `">` + labelFromTitle(r.Title) + "</a>\n")
		b.WriteString(strings.TrimSpace(utils.TrimRunes(r.Content, snippetMaxChars)))
		if r.PublishedDate != "" {
			b.WriteString(" (" + r.PublishedDate + ")")
		}
		parts = append(parts, b.String())
	}
	return strings.Join(parts, "\n\n")
}

func labelFromTitle(title string) string {
	words := strings.Fields(title)
	if len(words) == 0 {
		return "Источник"
	}
	if len(words) > labelMaxWords {
		words = words[:labelMaxWords]
	}
	return strings.Join(words, " ")
}
