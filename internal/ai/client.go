// internal/ai/client.go
package ai

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/experienceprogram/campaign-backend/internal/dto"
)

// Client is the AI server endpoint family. Generate, Refine and
// PublishKnowledge are invoked from queue continuations; InteractiveBuild is
// the only call the HTTP handler awaits directly.
type Client interface {
	Generate(req dto.CampaignRequest) (*dto.GenerationResponse, error)
	Refine(campaignID uuid.UUID, req dto.RefineAiRequest) (*dto.GenerationResponse, error)
	InteractiveBuild(req dto.CampaignChatRequest) (*dto.CampaignChatResponse, error)
	PublishKnowledge(entry dto.KnowledgeEntry) error
}

// HTTPClient talks JSON to the AI server.
type HTTPClient struct {
	BaseURL string
	HTTP    *http.Client
}

func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		BaseURL: baseURL,
		HTTP:    &http.Client{Timeout: 120 * time.Second},
	}
}

func (c *HTTPClient) postJSON(path string, body any, out any) error {
	b, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request for %s: %w", path, err)
	}

	resp, err := c.HTTP.Post(c.BaseURL+path, "application/json", bytes.NewReader(b))
	if err != nil {
		return fmt.Errorf("AI server call %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("AI server call %s returned %d: %s", path, resp.StatusCode, string(msg))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", path, err)
	}
	return nil
}

func (c *HTTPClient) Generate(req dto.CampaignRequest) (*dto.GenerationResponse, error) {
	var out dto.GenerationResponse
	if err := c.postJSON("/api/generate", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) Refine(campaignID uuid.UUID, req dto.RefineAiRequest) (*dto.GenerationResponse, error) {
	var out dto.GenerationResponse
	path := fmt.Sprintf("/api/campaigns/%s/refine", campaignID)
	if err := c.postJSON(path, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) InteractiveBuild(req dto.CampaignChatRequest) (*dto.CampaignChatResponse, error) {
	var out dto.CampaignChatResponse
	if err := c.postJSON("/api/build-campaign/interactive", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) PublishKnowledge(entry dto.KnowledgeEntry) error {
	return c.postJSON("/api/knowledge", entry, nil)
}

var _ Client = (*HTTPClient)(nil)
