package web_search

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"
	"testing"

	"github.com/kgavrilov/pravobot/config"
	"github.com/kgavrilov/pravobot/internal/topic"
	"github.com/kgavrilov/pravobot/tools/web_search/models"
)

type stubSearcher struct {
	results map[string][]models.Result
	err     error
	queries []string
}

func (s *stubSearcher) Discover(_ context.Context, q models.Query) ([]models.Result, error) {
	s.queries = append(s.queries, q.Text)
	if s.err != nil {
		return nil, s.err
	}
	for prefix, res := range s.results {
		if strings.HasPrefix(q.Text, prefix) {
			return res, nil
		}
	}
	return nil, nil
}

func testService(searcher Searcher) *Service {
	cfg := config.SearchConfig{Provider: "tavily", MaxResults: 3}
	return NewServiceWith(searcher, cfg, log.New(io.Discard, "", 0))
}

func TestEnhanceAppendsRegionQualifier(t *testing.T) {
	s := testService(&stubSearcher{})
	got := s.Enhance("налог на имущество")
	if !strings.HasSuffix(got, regionQualifier) {
		t.Fatalf("expected region qualifier suffix, got %q", got)
	}
	if strings.Contains(got, currencyQualifier) {
		t.Fatalf("currency qualifier must not fire for a domestic query: %q", got)
	}
}

func TestEnhanceCurrencyControlHeuristic(t *testing.T) {
	s := testService(&stubSearcher{})
	got := s.Enhance("оплата контракта нерезиденту")
	if !strings.Contains(got, currencyQualifier) {
		t.Fatalf("expected currency-control qualifier, got %q", got)
	}
}

func TestRetrieveRendersResults(t *testing.T) {
	stub := &stubSearcher{results: map[string][]models.Result{
		"": {
			{Title: "Налоговый кодекс Российской Федерации часть вторая глава", URL: "https://example.ru/nk", Content: strings.Repeat("т", 2000), PublishedDate: "2026-01-15"},
			{Title: "", URL: "https://example.ru/b", Content: "кратко"},
		},
	}}
	s := testService(stub)

	out := s.Retrieve(context.Background(), "ндс при усн", topic.Tax)
	if !strings.Contains(out, `<a href="https://example.ru/nk">Налоговый кодекс Российской Федерации часть</a>`) {
		t.Fatalf("expected five-word hyperlinked label, got:\n%s", out)
	}
	if !strings.Contains(out, "(2026-01-15)") {
		t.Fatal("expected date suffix on dated result")
	}
	if !strings.Contains(out, `<a href="https://example.ru/b">Источник</a>`) {
		t.Fatal("expected placeholder label for untitled result")
	}
	if strings.Contains(out, strings.Repeat("т", 1501)) {
		t.Fatal("snippet must be trimmed to the configured bound")
	}
}

func TestRetrieveSupplementaryCallForTrade(t *testing.T) {
	stub := &stubSearcher{results: map[string][]models.Result{
		"": {{Title: "Статья", URL: "https://example.ru/a", Content: "x"}},
	}}
	s := testService(stub)

	out := s.Retrieve(context.Background(), "импорт оборудования", topic.Trade)
	if len(stub.queries) != 2 {
		t.Fatalf("expected primary + supplementary call, got %d calls", len(stub.queries))
	}
	if !strings.Contains(out, "--- Дополнительный поиск: валютный контроль ---") {
		t.Fatalf("expected labeled separator, got:\n%s", out)
	}
}

func TestRetrieveProviderErrorDegradesToEmpty(t *testing.T) {
	s := testService(&stubSearcher{err: errors.New("boom")})
	if out := s.Retrieve(context.Background(), "любой запрос", topic.Tax); out != "" {
		t.Fatalf("expected empty block on provider error, got %q", out)
	}
}

func TestNewSearcherUnsupported(t *testing.T) {
	if _, err := NewSearcher(Provider("exa"), "k"); !errors.Is(err, ErrUnsupportedProvider) {
		t.Fatalf("expected ErrUnsupportedProvider, got %v", err)
	}
}
