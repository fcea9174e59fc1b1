// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/koortimativa/rgi-engine/internal/httputil"
	"github.com/koortimativa/rgi-engine/pkg/types"
)

// defaultBaseURL is the OpenAI API host. BaseURL in the config overrides
// it for compatible providers.
const defaultBaseURL = "https://api.openai.com"

const chatCompletionsPath = "/v1/chat/completions"

// legacyModelFamily marks model names that still accept a temperature
// parameter. Newer families reject the field, so it is included only for
// matches and omitted entirely otherwise.
const legacyModelFamily = "gpt-4o"

// OpenAIBackend calls the chat-completions API with page images attached
// and the response constrained to the matrícula JSON schema.
type OpenAIBackend struct {
	APIKey     string
	Model      string
	BaseURL    string
	UserAgent  string
	MaxRetries int
	Client     *http.Client
}

// NewOpenAIBackend builds a backend from the extraction config.
func NewOpenAIBackend(cfg types.ExtractionConfig) *OpenAIBackend {
	client := &http.Client{}
	if cfg.Timeout > 0 {
		client.Timeout = cfg.Timeout
	}
	return &OpenAIBackend{
		APIKey:     cfg.APIKey,
		Model:      cfg.Model,
		BaseURL:    cfg.BaseURL,
		UserAgent:  cfg.UserAgent,
		MaxRetries: cfg.MaxRetries,
		Client:     client,
	}
}

// chatRequest is the request body for the chat-completions API.
type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`

	// Temperature is a pointer so the field can be omitted for model
	// families that reject it.
	Temperature *float64 `json:"temperature,omitempty"`
}

// chatMessage is a single message with multimodal content parts.
type chatMessage struct {
	Role    string        `json:"role"`
	Content []contentPart `json:"content"`
}

// contentPart is either a text part or an image part.
type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

// responseFormat constrains the model output to a JSON schema.
type responseFormat struct {
	Type       string          `json:"type"`
	JSONSchema json.RawMessage `json:"json_schema"`
}

// chatResponse is the subset of the response body we consume.
type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Extract sends one batch of page images and decodes the partial document
// from the model's JSON reply. HTTP 429 is retried with backoff inside
// the call; any other failure is returned to the caller, which owns the
// reduced-quality retry.
func (b *OpenAIBackend) Extract(ctx context.Context, pages []PageImage) (*types.Matricula, error) {
	if b.APIKey == "" {
		return nil, fmt.Errorf("missing API key: set OPENAI_API_KEY or .secrets/openai-api-key")
	}

	content := make([]contentPart, 0, 1+2*len(pages))
	content = append(content, contentPart{Type: "text", Text: extractionPrompt})
	for _, p := range pages {
		content = append(content,
			contentPart{Type: "text", Text: fmt.Sprintf(pageLabel, p.Number)},
			contentPart{Type: "image_url", ImageURL: &imageURL{
				URL: "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(p.JPEG),
			}},
		)
	}

	reqBody := chatRequest{
		Model:          b.Model,
		Messages:       []chatMessage{{Role: "user", Content: content}},
		ResponseFormat: &responseFormat{Type: "json_schema", JSONSchema: matriculaSchema},
	}
	if strings.Contains(strings.ToLower(b.Model), legacyModelFamily) {
		zero := 0.0
		reqBody.Temperature = &zero
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	base := b.BaseURL
	if base == "" {
		base = defaultBaseURL
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimSuffix(base, "/")+chatCompletionsPath, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+b.APIKey)
	if b.UserAgent != "" {
		req.Header.Set("User-Agent", b.UserAgent)
	}

	client := b.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := httputil.DoWithRetry(ctx, client, req, b.MaxRetries)
	if err != nil {
		return nil, fmt.Errorf("calling model API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("model API returned %d: %s", resp.StatusCode, string(body))
	}

	var cResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&cResp); err != nil {
		return nil, fmt.Errorf("decoding API response: %w", err)
	}
	if len(cResp.Choices) == 0 {
		return nil, fmt.Errorf("model API returned no choices")
	}

	text := cResp.Choices[0].Message.Content
	if strings.TrimSpace(text) == "" {
		text = "{}"
	}

	var doc types.Matricula
	if err := json.Unmarshal([]byte(text), &doc); err != nil {
		return nil, fmt.Errorf("parsing model JSON: %w", err)
	}
	return &doc, nil
}
