package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/elastic/go-elasticsearch/v9/esapi"
)

// ProductDoc is the indexed shape of a product.
type ProductDoc struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Live        bool   `json:"live"`
	CategoryID  string `json:"category_id,omitempty"`
}

type ProductIndex struct {
	ES    *elasticsearch.Client
	Index string
}

func (p *ProductIndex) Put(ctx context.Context, doc ProductDoc) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode product doc: %w", err)
	}
	res, err := p.ES.Index(
		p.Index,
		bytes.NewReader(body),
		p.ES.Index.WithDocumentID(doc.ID),
		p.ES.Index.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("index product %s: %w", doc.ID, err)
	}
	return checkResponse(res, "index product")
}

func (p *ProductIndex) Delete(ctx context.Context, id string) error {
	res, err := p.ES.Delete(p.Index, id, p.ES.Delete.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("delete product %s: %w", id, err)
	}
	if res.StatusCode == http.StatusNotFound {
		res.Body.Close()
		return nil
	}
	return checkResponse(res, "delete product")
}

// Search returns matching product ids in relevance order and the total hit count.
func (p *ProductIndex) Search(ctx context.Context, query string, from, size int) ([]string, int64, error) {
	body := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     query,
				"fields":    []string{"title^2", "description"},
				"fuzziness": "AUTO",
			},
		},
		"from":    from,
		"size":    size,
		"_source": []string{"id"},
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, 0, fmt.Errorf("encode search body: %w", err)
	}

	res, err := p.ES.Search(
		p.ES.Search.WithContext(ctx),
		p.ES.Search.WithIndex(p.Index),
		p.ES.Search.WithBody(&buf),
	)
	if err != nil {
		return nil, 0, fmt.Errorf("search products: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		msg, _ := io.ReadAll(res.Body)
		return nil, 0, fmt.Errorf("search products: %s: %s", res.Status(), msg)
	}

	return decodeHits(res.Body)
}

func decodeHits(r io.Reader) ([]string, int64, error) {
	var parsed struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				ID string `json:"_id"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(r).Decode(&parsed); err != nil {
		return nil, 0, fmt.Errorf("decode search response: %w", err)
	}

	ids := make([]string, len(parsed.Hits.Hits))
	for i, h := range parsed.Hits.Hits {
		ids[i] = h.ID
	}
	return ids, parsed.Hits.Total.Value, nil
}

func checkResponse(res *esapi.Response, op string) error {
	defer res.Body.Close()
	if res.IsError() {
		msg, _ := io.ReadAll(res.Body)
		return fmt.Errorf("%s: %s: %s", op, res.Status(), msg)
	}
	return nil
}
