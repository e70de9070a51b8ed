package tavily

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/kgavrilov/pravobot/tools/web_search/models"
)

const endpoint = "https://api.tavily.com/search"

type Search struct {
	ApiKey string
}

func (s Search) Discover(ctx context.Context, q models.Query) ([]models.Result, error) {
	// https://docs.tavily.com/documentation/api-reference/endpoint/search
	payload := map[string]any{
		"query":       q.Text,
		"max_results": q.MaxResults,
	}
	if q.Depth != "" {
		payload["search_depth"] = q.Depth
	}
	if q.Country != "" {
		payload["country"] = q.Country
	}
	if q.Days > 0 {
		payload["days"] = q.Days
	}
	if len(q.Domains) > 0 {
		payload["include_domains"] = q.Domains
	}

	body, _ := json.Marshal(payload)
	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.ApiKey)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tavily status %d", resp.StatusCode)
	}

	var raw struct {
		Results []struct {
			Title         string `json:"title"`
			URL           string `json:"url"`
			Content       string `json:"content"`
			PublishedDate string `json:"published_date"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, err
	}

	var out []models.Result
	for i, r := range raw.Results {
		if q.MaxResults > 0 && i >= q.MaxResults {
			break
		}
		out = append(out, models.Result{
			Title: r.Title, URL: r.URL, Content: r.Content, PublishedDate: r.PublishedDate,
		})
	}
	return out, nil
}
