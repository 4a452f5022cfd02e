package application

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

	"github.com/oksasatya/academic-bridge/internal/domain/entity"
	"github.com/oksasatya/academic-bridge/pkg/helpers"
)

// UserIndex keeps user profiles searchable in Elasticsearch.
type UserIndex struct {
	ES     *elasticsearch.Client
	Index  string
	Logger *logrus.Logger
}

func NewUserIndex(es *elasticsearch.Client, index string, logger *logrus.Logger) *UserIndex {
	return &UserIndex{ES: es, Index: index, Logger: logger}
}

func (x *UserIndex) Enabled() bool {
	return x != nil && x.ES != nil && x.Index != ""
}

type userDoc struct {
	ID         string   `json:"id"`
	FullName   string   `json:"full_name"`
	Email      string   `json:"email"`
	UserType   string   `json:"user_type"`
	Skills     []string `json:"skills"`
	Bio        string   `json:"bio"`
	IsVerified bool     `json:"is_verified"`
	CreatedAt  string   `json:"created_at"`
}

// Put indexes u. Errors are logged; search falls back to the database.
func (x *UserIndex) Put(ctx context.Context, u *entity.User) {
	if !x.Enabled() {
		return
	}
	b, _ := json.Marshal(userDoc{
		ID:         u.ID,
		FullName:   u.FullName,
		Email:      u.Email,
		UserType:   string(u.UserType),
		Skills:     u.Skills,
		Bio:        u.Bio,
		IsVerified: u.IsVerified,
		CreatedAt:  u.CreatedAt.Format(time.RFC3339Nano),
	})
	req := esapi.IndexRequest{Index: x.Index, DocumentID: u.ID, Body: bytes.NewReader(b), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, x.ES)
	if err != nil {
		helpers.LogWarn(x.Logger, "es index failed", err, logrus.Fields{"user_id": u.ID})
		return
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		helpers.LogWarn(x.Logger, "es index response error", nil, logrus.Fields{"status": res.Status(), "user_id": u.ID})
	}
}

// searchBody matches the name fuzzily OR any listed skill, optionally
// restricted to user types.
func searchBody(q string, skills []string, types []entity.UserType, size int) map[string]any {
	should := make([]any, 0, len(skills)+1)
	if q = strings.TrimSpace(q); q != "" {
		should = append(should, map[string]any{
			"match": map[string]any{"full_name": map[string]any{"query": q, "fuzziness": "AUTO"}},
		})
	}
	for _, s := range skills {
		if s = strings.TrimSpace(s); s != "" {
			should = append(should, map[string]any{"match": map[string]any{"skills": s}})
		}
	}
	boolQ := map[string]any{}
	if len(should) > 0 {
		boolQ["should"] = should
		boolQ["minimum_should_match"] = 1
	}
	if len(types) > 0 {
		ts := make([]string, len(types))
		for i, t := range types {
			ts[i] = string(t)
		}
		boolQ["filter"] = []any{map[string]any{"terms": map[string]any{"user_type": ts}}}
	}
	return map[string]any{
		"query":   map[string]any{"bool": boolQ},
		"size":    size,
		"_source": false,
	}
}

// Search returns matching user ids in relevance order.
func (x *UserIndex) Search(ctx context.Context, q string, skills []string, types []entity.UserType, size int) ([]string, error) {
	b, _ := json.Marshal(searchBody(q, skills, types, size))
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := x.ES.Search(
		x.ES.Search.WithContext(c),
		x.ES.Search.WithIndex(x.Index),
		x.ES.Search.WithBody(bytes.NewReader(b)),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return nil, fmt.Errorf("es search: %s", res.Status())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID string `json:"_id"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		ids = append(ids, h.ID)
	}
	return ids, nil
}
