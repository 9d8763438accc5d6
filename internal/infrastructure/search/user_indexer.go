// Package search keeps a denormalised copy of user names in Elasticsearch for the
// name lookup. Email addresses are never indexed or returned.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/recipes-auth/internal/domain/entity"
)

const requestTimeout = 3 * time.Second

// sourceFields limits what a hit may carry back, whatever older documents hold.
var sourceFields = []string{"id", "first_name", "last_name", "name"}

// UserHit is a single search result.
type UserHit struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Name      string `json:"name"`
}

// UserIndexer writes and queries the users index. A nil client or empty index name
// turns every call into a no-op.
type UserIndexer struct {
	es     *elasticsearch.Client
	index  string
	logger *logrus.Logger
}

func NewUserIndexer(es *elasticsearch.Client, index string, logger *logrus.Logger) *UserIndexer {
	return &UserIndexer{es: es, index: index, logger: logger}
}

func (x *UserIndexer) enabled() bool {
	return x != nil && x.es != nil && x.index != ""
}

// Index upserts the user document keyed by user id.
func (x *UserIndexer) Index(ctx context.Context, u *entity.User) error {
	if !x.enabled() {
		return nil
	}
	doc := map[string]any{
		"id":         u.ID,
		"first_name": u.FirstName,
		"last_name":  u.LastName,
		"name":       u.FullName(),
		"created_at": u.CreatedAt.Format(time.RFC3339Nano),
		"updated_at": u.UpdatedAt.Format(time.RFC3339Nano),
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	req := esapi.IndexRequest{Index: x.index, DocumentID: u.ID, Body: bytes.NewReader(b), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := req.Do(c, x.es)
	if err != nil {
		x.warn(err, u.ID, "es index failed")
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		err := fmt.Errorf("search: index %s: %s", u.ID, res.Status())
		x.warn(err, u.ID, "es index response error")
		return err
	}
	return nil
}

// Search runs a multi_match over the name fields.
func (x *UserIndexer) Search(ctx context.Context, q string, size int) ([]UserHit, error) {
	if !x.enabled() || strings.TrimSpace(q) == "" {
		return []UserHit{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"name^2", "first_name", "last_name"},
			},
		},
		"_source": sourceFields,
		"size":    size,
	}
	b, err := json.Marshal(query)
	if err != nil {
		return nil, err
	}

	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	res, err := x.es.Search(x.es.Search.WithContext(c), x.es.Search.WithIndex(x.index), x.es.Search.WithBody(bytes.NewReader(b)))
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return nil, fmt.Errorf("search: query: %s", res.Status())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string  `json:"_id"`
				Source UserHit `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]UserHit, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		hit := h.Source
		if hit.ID == "" {
			hit.ID = h.ID
		}
		out = append(out, hit)
	}
	return out, nil
}

func (x *UserIndexer) warn(err error, userID, msg string) {
	if x.logger == nil {
		return
	}
	x.logger.WithError(err).WithField("user_id", userID).Warn(msg)
}
