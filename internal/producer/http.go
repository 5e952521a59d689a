package producer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/eventhub/datagen/internal/models"
)

// HTTPProducer requests creative field batches from a text-generation gateway
// over JSON. The gateway wraps whatever model backs it; this client only cares
// about the request/response shape.
type HTTPProducer struct {
	url    string
	client *http.Client
}

func NewHTTPProducer(url string, timeout time.Duration) *HTTPProducer {
	return &HTTPProducer{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

type produceRequest struct {
	EntityType string            `json:"entity_type"`
	Count      int               `json:"count"`
	Context    map[string]string `json:"context,omitempty"`
}

func (p *HTTPProducer) ProduceFields(ctx context.Context, entity models.EntityType, count int, genCtx map[string]string) ([]FieldSet, error) {
	body, err := json.Marshal(produceRequest{
		EntityType: string(entity),
		Count:      count,
		Context:    genCtx,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal produce request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build produce request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: gateway returned %d", ErrUnavailable, resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", ErrUnavailable, err)
	}

	sets, err := parseFieldSets(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if len(sets) > count {
		sets = sets[:count]
	}
	return sets, nil
}

// parseFieldSets decodes a JSON array of field maps. Model-backed gateways
// sometimes wrap the payload in markdown code fences; strip them first.
func parseFieldSets(raw []byte) ([]FieldSet, error) {
	text := strings.TrimSpace(string(raw))
	if i := strings.Index(text, "```json"); i >= 0 {
		text = text[i+len("```json"):]
		if j := strings.Index(text, "```"); j >= 0 {
			text = text[:j]
		}
	} else if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		if j := strings.Index(text, "```"); j >= 0 {
			text = text[:j]
		}
	}

	var sets []FieldSet
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &sets); err != nil {
		return nil, fmt.Errorf("malformed field batch: %v", err)
	}
	return sets, nil
}
