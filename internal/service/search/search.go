// Package search indexes story lines into Elasticsearch and queries them.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/storyweave/storyweave/internal/config"
	"github.com/storyweave/storyweave/internal/models"
)

func NewClient(cfg *config.Config) (*elasticsearch.Client, error) {
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{cfg.ESURL},
		Username:  cfg.ESUser,
		Password:  cfg.ESPassword,
	})
	if err != nil {
		return nil, fmt.Errorf("elasticsearch client: %w", err)
	}

	res, err := client.Info()
	if err != nil {
		return nil, fmt.Errorf("elasticsearch info: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, fmt.Errorf("elasticsearch error: %s", res.Status())
	}

	return client, nil
}

// IndexLine stores one line document. Callers treat failures as best-effort.
func IndexLine(ctx context.Context, es *elasticsearch.Client, index string, line models.Line) error {
	data, err := json.Marshal(line)
	if err != nil {
		return fmt.Errorf("index line: %w", err)
	}

	res, err := es.Index(index, bytes.NewReader(data),
		es.Index.WithContext(ctx),
		es.Index.WithDocumentID(line.ID),
	)
	if err != nil {
		return fmt.Errorf("index line: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("index line: %s", res.Status())
	}
	return nil
}

// DeleteLine removes a line document, ignoring documents that were never
// indexed.
func DeleteLine(ctx context.Context, es *elasticsearch.Client, index, id string) error {
	res, err := es.Delete(index, id, es.Delete.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("delete line: %w", err)
	}
	defer res.Body.Close()
	return nil
}

func Search(ctx context.Context, es *elasticsearch.Client, index, query string, from, size int) (int64, []models.Line, error) {
	body := map[string]any{
		"query": map[string]any{
			"match": map[string]any{
				"text": map[string]any{
					"query":     query,
					"fuzziness": "AUTO",
				},
			},
		},
		"from": from,
		"size": size,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return 0, nil, fmt.Errorf("search: %w", err)
	}

	res, err := es.Search(
		es.Search.WithContext(ctx),
		es.Search.WithIndex(index),
		es.Search.WithBody(&buf),
	)
	if err != nil {
		return 0, nil, fmt.Errorf("search: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return 0, nil, fmt.Errorf("search: %s", res.Status())
	}

	var r struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source models.Line `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return 0, nil, err
	}

	lines := make([]models.Line, len(r.Hits.Hits))
	for i, hit := range r.Hits.Hits {
		lines[i] = hit.Source
	}
	return r.Hits.Total.Value, lines, nil
}
