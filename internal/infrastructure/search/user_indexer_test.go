package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/recipes-auth/internal/domain/entity"
)

type recorded struct {
	method string
	path   string
	body   map[string]any
}

func fakeES(t *testing.T, reply string) (*elasticsearch.Client, *[]recorded) {
	t.Helper()
	var calls []recorded
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		rec := recorded{method: r.Method, path: r.URL.Path}
		if len(raw) > 0 {
			_ = json.Unmarshal(raw, &rec.body)
		}
		calls = append(calls, rec)
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, reply)
	}))
	t.Cleanup(srv.Close)

	es, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	return es, &calls
}

func TestUserIndexer_Disabled(t *testing.T) {
	var x *UserIndexer
	assert.NoError(t, x.Index(context.Background(), &entity.User{ID: "u"}))

	hits, err := NewUserIndexer(nil, "users", nil).Search(context.Background(), "ana", 5)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestUserIndexer_Index(t *testing.T) {
	es, calls := fakeES(t, `{"result":"created"}`)
	x := NewUserIndexer(es, "users", nil)

	now := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
	err := x.Index(context.Background(), &entity.User{
		ID: "u-1", Email: "ana@example.com", FirstName: "Ana", LastName: "Lopez", CreatedAt: now, UpdatedAt: now,
	})
	require.NoError(t, err)
	require.Len(t, *calls, 1)

	c := (*calls)[0]
	assert.True(t, strings.HasPrefix(c.path, "/users/_doc/u-1"))
	assert.Equal(t, "Ana Lopez", c.body["name"])
	assert.NotContains(t, c.body, "email")
}

func TestUserIndexer_Search(t *testing.T) {
	es, calls := fakeES(t, `{"hits":{"hits":[
		{"_id":"u-1","_source":{"email":"ana@example.com","first_name":"Ana","last_name":"Lopez","name":"Ana Lopez"}}
	]}}`)
	x := NewUserIndexer(es, "users", nil)

	hits, err := x.Search(context.Background(), "ana", 0)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "u-1", hits[0].ID)
	assert.Equal(t, "Ana Lopez", hits[0].Name)

	// Documents indexed with an email never leak it back out.
	out, err := json.Marshal(hits)
	require.NoError(t, err)
	assert.NotContains(t, string(out), "ana@example.com")

	require.Len(t, *calls, 1)
	body := (*calls)[0].body
	assert.Equal(t, "/users/_search", (*calls)[0].path)
	assert.EqualValues(t, 10, body["size"])
	assert.NotContains(t, body["_source"], "email")
	mm := body["query"].(map[string]any)["multi_match"].(map[string]any)
	assert.ElementsMatch(t, []any{"name^2", "first_name", "last_name"}, mm["fields"])
}

func TestUserIndexer_SearchBlankQuery(t *testing.T) {
	es, calls := fakeES(t, `{}`)
	hits, err := NewUserIndexer(es, "users", nil).Search(context.Background(), "  ", 5)
	require.NoError(t, err)
	assert.Empty(t, hits)
	assert.Empty(t, *calls)
}
