package opensearch

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/BRO3886/user-search/internal/config"
	"github.com/BRO3886/user-search/internal/search"
	external "github.com/opensearch-project/opensearch-go/v2"
	api "github.com/opensearch-project/opensearch-go/v2/opensearchapi"
)

type Store struct {
	client  *external.Client
	refresh string
	logger  *slog.Logger
}

var _ search.Store = (*Store)(nil)

func New(c *config.Config, logger *slog.Logger) (*Store, error) {
	client, err := external.NewClient(external.Config{
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: c.Opensearch.InsecureSkipVerify},
		},
		Addresses:  c.Opensearch.URLs,
		Username:   c.Opensearch.Username,
		Password:   c.Opensearch.Password,
		MaxRetries: c.Opensearch.MaxRetries,
	})
	if err != nil {
		return nil, err
	}

	return &Store{
		client:  client,
		refresh: c.Opensearch.Refresh,
		logger:  logger.With("component", "opensearch"),
	}, nil
}

func (s *Store) Ping(ctx context.Context) error {
	resp, err := api.PingRequest{}.Do(ctx, s.client)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.IsError() {
		return fmt.Errorf("ping: %s", resp.Status())
	}
	return nil
}

type getResponse struct {
	Found  bool            `json:"found"`
	Source json.RawMessage `json:"_source"`
}

func (s *Store) Get(ctx context.Context, index, id string) (json.RawMessage, bool, error) {
	req := api.GetRequest{
		Index:      index,
		DocumentID: id,
	}

	resp, err := req.Do(ctx, s.client)
	if err != nil {
		return nil, false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, false, nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, false, err
	}

	if resp.IsError() {
		return nil, false, fmt.Errorf("failed to get document: %s %s", resp.Status(), string(body))
	}

	var doc getResponse
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, false, fmt.Errorf("decode get response: %w", err)
	}
	if !doc.Found {
		return nil, false, nil
	}
	return doc.Source, true, nil
}

type searchResponse struct {
	Hits struct {
		Total struct {
			Value int64 `json:"value"`
		} `json:"total"`
		Hits []search.Hit `json:"hits"`
	} `json:"hits"`
}

func (s *Store) Search(ctx context.Context, index string, r *search.Request) (*search.Result, error) {
	body, err := json.Marshal(r.Body())
	if err != nil {
		return nil, fmt.Errorf("marshal query: %w", err)
	}

	ignoreUnavailable := true
	req := api.SearchRequest{
		Index:             []string{index},
		Body:              bytes.NewReader(body),
		IgnoreUnavailable: &ignoreUnavailable,
	}

	resp, err := req.Do(ctx, s.client)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.IsError() {
		return nil, fmt.Errorf("failed to search: %s %s", resp.Status(), string(raw))
	}

	if resp.HasWarnings() {
		s.logger.WarnContext(ctx, "search warnings", "index", index, "warnings", resp.Warnings())
	}

	var result searchResponse
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	return &search.Result{
		Total: result.Hits.Total.Value,
		Hits:  result.Hits.Hits,
	}, nil
}

func (s *Store) Upsert(ctx context.Context, index, id string, doc any) (bool, error) {
	body, err := json.Marshal(doc)
	if err != nil {
		return false, fmt.Errorf("marshal document: %w", err)
	}

	req := api.IndexRequest{
		Index:      index,
		DocumentID: id,
		Body:       bytes.NewReader(body),
		Refresh:    s.refresh,
	}

	resp, err := req.Do(ctx, s.client)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	if resp.IsError() {
		raw, _ := io.ReadAll(resp.Body)
		s.logger.WarnContext(ctx, "document rejected", "index", index, "id", id, "status", resp.Status(), "body", string(raw))
		return false, nil
	}

	s.logger.DebugContext(ctx, "document indexed", "index", index, "id", id)
	return true, nil
}

// Delete treats a missing document as acknowledged.
func (s *Store) Delete(ctx context.Context, index, id string) (bool, error) {
	req := api.DeleteRequest{
		Index:      index,
		DocumentID: id,
		Refresh:    s.refresh,
	}

	resp, err := req.Do(ctx, s.client)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		s.logger.DebugContext(ctx, "document already absent", "index", index, "id", id)
		return true, nil
	}

	if resp.IsError() {
		raw, _ := io.ReadAll(resp.Body)
		s.logger.WarnContext(ctx, "delete rejected", "index", index, "id", id, "status", resp.Status(), "body", string(raw))
		return false, nil
	}

	s.logger.DebugContext(ctx, "document deleted", "index", index, "id", id)
	return true, nil
}
