package serper

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/kgavrilov/pravobot/tools/web_search/models"
	"github.com/kgavrilov/pravobot/utils"
)

type Search struct {
	ApiKey string
}

func (s Search) Discover(ctx context.Context, q models.Query) ([]models.Result, error) {
	// https://serper.dev/ docs
	payload := map[string]any{"q": q.Text, "num": q.MaxResults}
	if q.Country != "" {
		payload["gl"] = q.Country
	}
	if len(q.Domains) > 0 {
		payload["q"] = q.Text + " site:" + strings.Join(q.Domains, " OR site:")
	}

	body, _ := json.Marshal(payload)
	req, err := http.NewRequestWithContext(ctx, "POST", "https://google.serper.dev/search", strings.NewReader(string(body)))
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-API-KEY", s.ApiKey)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	var raw map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, err
	}

	var out []models.Result
	if items, ok := raw["organic"].([]any); ok {
		for i, it := range items {
			if q.MaxResults > 0 && i >= q.MaxResults {
				break
			}
			m, ok := it.(map[string]any)
			if !ok {
				continue
			}
			out = append(out, models.Result{
				Title: utils.Str(m["title"]), URL: utils.Str(m["link"]),
				Content: utils.Str(m["snippet"]), PublishedDate: utils.Str(m["date"]),
			})
		}
	}
	return out, nil
}
