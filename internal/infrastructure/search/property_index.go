package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/oksasatya/farm-registry/internal/domain/entity"
)

const (
	requestTimeout  = 3 * time.Second
	defaultHitCount = 10
	maxHitCount     = 50
)

// PropertyIndex mirrors live properties into an Elasticsearch index for
// free-text lookup by name, city and producer name. Producer documents are
// never indexed.
type PropertyIndex struct {
	es    *elasticsearch.Client
	index string
}

func NewPropertyIndex(es *elasticsearch.Client, index string) *PropertyIndex {
	return &PropertyIndex{es: es, index: index}
}

type propertyDoc struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	City             string    `json:"city"`
	State            string    `json:"state"`
	TotalArea        int       `json:"total_area"`
	AgriculturalArea int       `json:"agricultural_area"`
	VegetationArea   int       `json:"vegetation_area"`
	ProducerID       string    `json:"producer_id"`
	ProducerName     string    `json:"producer_name,omitempty"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (i *PropertyIndex) Index(ctx context.Context, p *entity.Property) error {
	doc := propertyDoc{
		ID:               p.ID,
		Name:             p.Name,
		City:             p.City,
		State:            p.State,
		TotalArea:        p.TotalArea,
		AgriculturalArea: p.AgriculturalArea,
		VegetationArea:   p.VegetationArea,
		ProducerID:       p.ProducerID,
		UpdatedAt:        p.UpdatedAt,
	}
	if p.Producer != nil {
		doc.ProducerName = p.Producer.Name
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	req := esapi.IndexRequest{Index: i.index, DocumentID: p.ID, Body: bytes.NewReader(b), Refresh: "false"}
	res, err := req.Do(c, i.es)
	if err != nil {
		return fmt.Errorf("es index: %w", err)
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return fmt.Errorf("es index: %s", res.Status())
	}
	return nil
}

// Delete removes the document; a missing document is not an error.
func (i *PropertyIndex) Delete(ctx context.Context, id string) error {
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	req := esapi.DeleteRequest{Index: i.index, DocumentID: id}
	res, err := req.Do(c, i.es)
	if err != nil {
		return fmt.Errorf("es delete: %w", err)
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return fmt.Errorf("es delete: %s", res.Status())
	}
	return nil
}

// Search runs a multi_match over name, city and producer name.
func (i *PropertyIndex) Search(ctx context.Context, q string, size int) ([]entity.PropertySearchHit, error) {
	if size <= 0 || size > maxHitCount {
		size = defaultHitCount
	}
	body := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     q,
				"fields":    []string{"name^2", "city", "producer_name"},
				"fuzziness": "AUTO",
			},
		},
		"size": size,
	}
	b, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := i.es.Search(
		i.es.Search.WithContext(c),
		i.es.Search.WithIndex(i.index),
		i.es.Search.WithBody(bytes.NewReader(b)),
	)
	if err != nil {
		return nil, fmt.Errorf("es search: %w", err)
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return nil, fmt.Errorf("es search: %s", res.Status())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				Score  float64     `json:"_score"`
				Source propertyDoc `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("es search decode: %w", err)
	}
	out := make([]entity.PropertySearchHit, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, entity.PropertySearchHit{
			ID:           h.Source.ID,
			Name:         h.Source.Name,
			City:         h.Source.City,
			State:        h.Source.State,
			TotalArea:    h.Source.TotalArea,
			ProducerID:   h.Source.ProducerID,
			ProducerName: h.Source.ProducerName,
			Score:        h.Score,
		})
	}
	return out, nil
}

const propertyMapping = `{
  "mappings": {
    "properties": {
      "id":                {"type": "keyword"},
      "name":              {"type": "text"},
      "city":              {"type": "text"},
      "state":             {"type": "keyword"},
      "total_area":        {"type": "integer"},
      "agricultural_area": {"type": "integer"},
      "vegetation_area":   {"type": "integer"},
      "producer_id":       {"type": "keyword"},
      "producer_name":     {"type": "text"},
      "updated_at":        {"type": "date"}
    }
  }
}`

// EnsureIndex creates the index with its mapping unless it already exists.
func (i *PropertyIndex) EnsureIndex(ctx context.Context) error {
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	exists, err := esapi.IndicesExistsRequest{Index: []string{i.index}}.Do(c, i.es)
	if err != nil {
		return fmt.Errorf("es index exists: %w", err)
	}
	_ = exists.Body.Close()
	if exists.StatusCode == http.StatusOK {
		return nil
	}

	res, err := esapi.IndicesCreateRequest{Index: i.index, Body: strings.NewReader(propertyMapping)}.Do(c, i.es)
	if err != nil {
		return fmt.Errorf("es create index: %w", err)
	}
	defer func() { _ = res.Body.Close() }()
	// another instance may have created it in between
	if res.IsError() && res.StatusCode != http.StatusBadRequest {
		return fmt.Errorf("es create index: %s", res.Status())
	}
	return nil
}
