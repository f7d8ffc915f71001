// Package search builds the Elasticsearch requests used to mirror and query
// job records.
package search

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"job-tracker/internal/models"

	"github.com/elastic/go-elasticsearch/v8/esapi"
)

var ErrMissingIndex = errors.New("index name is required")

// ErrResultWindowExceeded means the index matched more documents than one
// search may return.
var ErrResultWindowExceeded = errors.New("matches exceed the result window")

// MaxResultWindow is Elasticsearch's default cap on from+size.
const MaxResultWindow = 10000

// IndexMapping keeps the filterable fields as exact-match keywords.
const IndexMapping = `{
  "mappings": {
    "properties": {
      "id":             {"type": "keyword"},
      "company":        {"type": "text", "fields": {"raw": {"type": "keyword"}}},
      "role":           {"type": "text", "fields": {"raw": {"type": "keyword"}}},
      "date_applied":   {"type": "date", "format": "yyyy-MM-dd"},
      "platform":       {"type": "keyword"},
      "interviewed":    {"type": "boolean"},
      "num_interviews": {"type": "integer"},
      "status":         {"type": "keyword"},
      "created_at":     {"type": "date"},
      "updated_at":     {"type": "date"}
    }
  }
}`

// BuildJobQuery turns a filter into a bool query sorted the way the store
// lists records.
func BuildJobQuery(filter models.JobFilter) map[string]interface{} {
	filterClauses := []interface{}{}

	if filter.Status != "" {
		filterClauses = append(filterClauses, map[string]interface{}{
			"term": map[string]interface{}{"status": filter.Status},
		})
	}
	if filter.Platform != "" {
		filterClauses = append(filterClauses, map[string]interface{}{
			"term": map[string]interface{}{"platform": filter.Platform},
		})
	}

	dateRange := map[string]interface{}{}
	if !filter.AppliedFrom.IsZero() {
		dateRange["gte"] = filter.AppliedFrom.String()
	}
	if !filter.AppliedTo.IsZero() {
		dateRange["lte"] = filter.AppliedTo.String()
	}
	if len(dateRange) > 0 {
		dateRange["format"] = "yyyy-MM-dd"
		filterClauses = append(filterClauses, map[string]interface{}{
			"range": map[string]interface{}{"date_applied": dateRange},
		})
	}

	var query map[string]interface{}
	if len(filterClauses) == 0 {
		query = map[string]interface{}{"match_all": map[string]interface{}{}}
	} else {
		query = map[string]interface{}{
			"bool": map[string]interface{}{"filter": filterClauses},
		}
	}

	size := MaxResultWindow
	if filter.Limit > 0 && filter.Limit < size {
		size = filter.Limit
	}

	return map[string]interface{}{
		"query":            query,
		"_source":          false,
		"size":             size,
		"track_total_hits": true,
		"sort": []interface{}{
			map[string]interface{}{"date_applied": map[string]interface{}{"order": "desc"}},
			map[string]interface{}{"created_at": map[string]interface{}{"order": "desc"}},
			map[string]interface{}{"id": map[string]interface{}{"order": "asc"}},
		},
	}
}

// BuildSearchRequest wraps BuildJobQuery in a search request for index.
func BuildSearchRequest(index string, filter models.JobFilter) (*esapi.SearchRequest, error) {
	if index == "" {
		return nil, ErrMissingIndex
	}

	body, err := json.Marshal(BuildJobQuery(filter))
	if err != nil {
		return nil, fmt.Errorf("marshal query: %w", err)
	}

	return &esapi.SearchRequest{
		Index: []string{index},
		Body:  bytes.NewReader(body),
	}, nil
}

// Document is the indexed form of a record.
func Document(job models.Job) (io.Reader, error) {
	body, err := json.Marshal(job)
	if err != nil {
		return nil, fmt.Errorf("marshal document %s: %w", job.ID, err)
	}
	return bytes.NewReader(body), nil
}

type searchResponse struct {
	Hits struct {
		Total struct {
			Value int `json:"value"`
		} `json:"total"`
		Hits []struct {
			ID string `json:"_id"`
		} `json:"hits"`
	} `json:"hits"`
}

// Hits is the id page of a search and the number of documents that matched.
type Hits struct {
	IDs   []string
	Total int
}

// Truncated reports whether more documents matched than were returned for a
// request capped at limit (0 for no cap).
func (h Hits) Truncated(limit int) bool {
	if limit > 0 && len(h.IDs) >= limit {
		return false
	}
	return h.Total > len(h.IDs)
}

// ParseHits reads document ids, in hit order, and the match total from a
// search response body.
func ParseHits(body io.Reader) (Hits, error) {
	var resp searchResponse
	if err := json.NewDecoder(body).Decode(&resp); err != nil {
		return Hits{}, fmt.Errorf("decode search response: %w", err)
	}
	hits := Hits{IDs: make([]string, 0, len(resp.Hits.Hits)), Total: resp.Hits.Total.Value}
	for _, hit := range resp.Hits.Hits {
		hits.IDs = append(hits.IDs, hit.ID)
	}
	return hits, nil
}
