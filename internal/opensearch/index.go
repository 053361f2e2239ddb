package opensearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	api "github.com/opensearch-project/opensearch-go/v2/opensearchapi"
)

// EnsureIndex creates index with the given settings and mappings unless it
// already exists.
func (s *Store) EnsureIndex(ctx context.Context, index string, mapping map[string]any) error {
	exists := api.IndicesExistsRequest{Index: []string{index}}
	if resp, err := exists.Do(ctx, s.client); err == nil {
		resp.Body.Close()
		// early return if index already exists
		if resp.StatusCode == http.StatusOK {
			return nil
		}
	}

	settings, err := json.Marshal(mapping)
	if err != nil {
		return fmt.Errorf("marshal mapping: %w", err)
	}

	req := api.IndicesCreateRequest{
		Index: index,
		Body:  bytes.NewReader(settings),
	}

	resp, err := req.Do(ctx, s.client)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.IsError() {
		return fmt.Errorf("failed to create index: %s %s", resp.Status(), string(body))
	}

	if resp.HasWarnings() {
		s.logger.WarnContext(ctx, "create index warnings", "index", index, "warnings", resp.Warnings())
	}

	s.logger.InfoContext(ctx, "index created", "index", index)

	return nil
}
