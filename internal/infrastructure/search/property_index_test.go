package search

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/farm-registry/internal/domain/entity"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func fakeES(t *testing.T, fn func(r *http.Request) (int, string)) *elasticsearch.Client {
	t.Helper()
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{"http://es.test:9200"},
		Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
			status, body := fn(r)
			h := http.Header{}
			h.Set("Content-Type", "application/json")
			h.Set("X-Elastic-Product", "Elasticsearch")
			return &http.Response{
				StatusCode: status,
				Header:     h,
				Body:       io.NopCloser(bytes.NewBufferString(body)),
				Request:    r,
			}, nil
		}),
	})
	require.NoError(t, err)
	return client
}

func TestIndexSendsDocumentWithoutProducerDocument(t *testing.T) {
	var gotPath string
	var gotBody map[string]any
	es := fakeES(t, func(r *http.Request) (int, string) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		return http.StatusCreated, `{"result":"created"}`
	})
	idx := NewPropertyIndex(es, "properties")

	err := idx.Index(context.Background(), &entity.Property{
		ID: "prop-1", Name: "Fazenda", City: "Campinas", State: "SP", TotalArea: 100,
		ProducerID: "p-1", Producer: &entity.Producer{Name: "Ana", CPFCNPJ: "52998224725"},
	})
	require.NoError(t, err)
	assert.Equal(t, "/properties/_doc/prop-1", gotPath)
	assert.Equal(t, "Ana", gotBody["producer_name"])
	assert.NotContains(t, gotBody, "cpf_cnpj")
}

func TestDeleteIgnoresMissingDocument(t *testing.T) {
	es := fakeES(t, func(r *http.Request) (int, string) {
		assert.Equal(t, http.MethodDelete, r.Method)
		return http.StatusNotFound, `{"result":"not_found"}`
	})
	assert.NoError(t, NewPropertyIndex(es, "properties").Delete(context.Background(), "prop-1"))
}

func TestSearchParsesHits(t *testing.T) {
	es := fakeES(t, func(r *http.Request) (int, string) {
		assert.Equal(t, "/properties/_search", r.URL.Path)
		return http.StatusOK, `{"hits":{"hits":[
			{"_score":2.5,"_source":{"id":"prop-1","name":"Fazenda Boa Vista","city":"Campinas","state":"SP","total_area":100,"producer_id":"p-1","producer_name":"Ana"}}
		]}}`
	})

	hits, err := NewPropertyIndex(es, "properties").Search(context.Background(), "boa vista", 0)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, entity.PropertySearchHit{
		ID: "prop-1", Name: "Fazenda Boa Vista", City: "Campinas", State: "SP",
		TotalArea: 100, ProducerID: "p-1", ProducerName: "Ana", Score: 2.5,
	}, hits[0])
}

func TestSearchReportsErrorStatus(t *testing.T) {
	es := fakeES(t, func(*http.Request) (int, string) {
		return http.StatusInternalServerError, `{"error":"boom"}`
	})
	_, err := NewPropertyIndex(es, "properties").Search(context.Background(), "x", 5)
	assert.Error(t, err)
}

func TestEnsureIndexCreatesMissingIndex(t *testing.T) {
	var calls []string
	es := fakeES(t, func(r *http.Request) (int, string) {
		calls = append(calls, r.Method+" "+r.URL.Path)
		if r.Method == http.MethodHead {
			return http.StatusNotFound, ``
		}
		return http.StatusOK, `{"acknowledged":true}`
	})

	require.NoError(t, NewPropertyIndex(es, "properties").EnsureIndex(context.Background()))
	assert.Equal(t, []string{"HEAD /properties", "PUT /properties"}, calls)
}

func TestEnsureIndexKeepsExistingIndex(t *testing.T) {
	var calls int
	es := fakeES(t, func(r *http.Request) (int, string) {
		calls++
		return http.StatusOK, ``
	})

	require.NoError(t, NewPropertyIndex(es, "properties").EnsureIndex(context.Background()))
	assert.Equal(t, 1, calls)
}
