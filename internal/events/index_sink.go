package events

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/elastic/go-elasticsearch/v8"
)

// IndexSink stores each event as a document keyed by event ID, so a
// redelivered event overwrites rather than duplicates.
type IndexSink struct {
	client *elasticsearch.Client
	index  string
}

func NewIndexSink(client *elasticsearch.Client, index string) *IndexSink {
	return &IndexSink{client: client, index: index}
}

func (s *IndexSink) Name() string { return "elasticsearch" }

func (s *IndexSink) Publish(ctx context.Context, evt Event) error {
	body, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	res, err := s.client.Index(
		s.index,
		bytes.NewReader(body),
		s.client.Index.WithDocumentID(evt.ID),
		s.client.Index.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("index %s: %w", s.index, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("index %s: %s", s.index, res.Status())
	}
	return nil
}
