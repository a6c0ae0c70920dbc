// Package search provides web lookups via the DuckDuckGo Instant Answer
// API. It backs the research role's fallback when document retrieval
// comes up short.
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultBaseURL = "https://api.duckduckgo.com"

// Result is a single web reference.
type Result struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

// Client queries the DuckDuckGo Instant Answer API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient constructs a Client. baseURL may be empty for the public API.
func NewClient(baseURL string) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

type ddgTopic struct {
	FirstURL string     `json:"FirstURL"`
	Text     string     `json:"Text"`
	Name     string     `json:"Name"`
	Topics   []ddgTopic `json:"Topics"`
}

type ddgResponse struct {
	Heading       string     `json:"Heading"`
	AbstractText  string     `json:"AbstractText"`
	AbstractURL   string     `json:"AbstractURL"`
	Results       []ddgTopic `json:"Results"`
	RelatedTopics []ddgTopic `json:"RelatedTopics"`
}

// Search runs a query and returns up to limit results. The instant-answer
// abstract, when present, is always the first result.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]Result, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("query is required")
	}
	if limit <= 0 {
		limit = 5
	}

	endpoint := fmt.Sprintf("%s/?q=%s&format=json&no_html=1&skip_disambig=1", c.baseURL, url.QueryEscape(query))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("duckduckgo request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("duckduckgo status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var payload ddgResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("duckduckgo decode: %w", err)
	}

	results := make([]Result, 0, limit)
	if strings.TrimSpace(payload.AbstractText) != "" {
		results = append(results, Result{
			Title:   payload.Heading,
			URL:     payload.AbstractURL,
			Snippet: payload.AbstractText,
		})
	}
	appendTopics(&results, payload.Results, limit)
	appendTopics(&results, payload.RelatedTopics, limit)

	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// appendTopics flattens topic groups (DuckDuckGo nests disambiguation
// topics one level deep) until the limit is reached.
func appendTopics(results *[]Result, topics []ddgTopic, limit int) {
	for _, topic := range topics {
		if len(*results) >= limit {
			return
		}
		if len(topic.Topics) > 0 {
			appendTopics(results, topic.Topics, limit)
			continue
		}
		if strings.TrimSpace(topic.Text) == "" || strings.TrimSpace(topic.FirstURL) == "" {
			continue
		}
		*results = append(*results, Result{
			Title:   topicTitle(topic.Text),
			URL:     topic.FirstURL,
			Snippet: topic.Text,
		})
	}
}

func topicTitle(text string) string {
	if idx := strings.Index(text, " - "); idx > 0 {
		return text[:idx]
	}
	return text
}
