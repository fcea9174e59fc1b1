package extract

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/koortimativa/rgi-engine/pkg/types"
)

// chatStub captures the last request body and replies with content.
type chatStub struct {
	lastBody map[string]any
	status   int
	content  string
}

func (s *chatStub) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		s.lastBody = body

		if s.status != 0 && s.status != http.StatusOK {
			http.Error(w, "boom", s.status)
			return
		}

		resp := map[string]any{
			"choices": []any{
				map[string]any{"message": map[string]any{"content": s.content}},
			},
		}
		json.NewEncoder(w).Encode(resp)
	}
}

func newTestBackend(model string, stub *chatStub) (*OpenAIBackend, *httptest.Server) {
	ts := httptest.NewServer(stub.handler())
	return &OpenAIBackend{
		APIKey:  "test-key",
		Model:   model,
		BaseURL: ts.URL,
		Client:  ts.Client(),
	}, ts
}

func samplePages(t *testing.T) []PageImage {
	t.Helper()
	return []PageImage{
		{Number: 1, JPEG: []byte{0xff, 0xd8, 0xff, 0xd9}},
		{Number: 2, JPEG: []byte{0xff, 0xd8, 0xff, 0xd9}},
	}
}

func TestOpenAIBackendTemperatureRule(t *testing.T) {
	tests := []struct {
		model    string
		wantTemp bool
	}{
		{"gpt-4o", true},
		{"gpt-4o-mini", true},
		{"GPT-4O-MINI", true},
		{"gpt-5", false},
		{"gpt-5-mini", false},
	}

	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			stub := &chatStub{content: "{}"}
			backend, ts := newTestBackend(tt.model, stub)
			defer ts.Close()

			if _, err := backend.Extract(context.Background(), samplePages(t)); err != nil {
				t.Fatalf("Extract: %v", err)
			}

			temp, present := stub.lastBody["temperature"]
			if present != tt.wantTemp {
				t.Fatalf("temperature present = %v, want %v", present, tt.wantTemp)
			}
			if tt.wantTemp && temp != 0.0 {
				t.Errorf("temperature = %v, want 0", temp)
			}
		})
	}
}

func TestOpenAIBackendRequestShape(t *testing.T) {
	stub := &chatStub{content: "{}"}
	backend, ts := newTestBackend("gpt-4o-mini", stub)
	defer ts.Close()

	if _, err := backend.Extract(context.Background(), samplePages(t)); err != nil {
		t.Fatalf("Extract: %v", err)
	}

	if got := stub.lastBody["model"]; got != "gpt-4o-mini" {
		t.Errorf("model = %v", got)
	}

	rf, ok := stub.lastBody["response_format"].(map[string]any)
	if !ok {
		t.Fatal("response_format missing")
	}
	if rf["type"] != "json_schema" {
		t.Errorf("response_format.type = %v, want json_schema", rf["type"])
	}
	schema, ok := rf["json_schema"].(map[string]any)
	if !ok || schema["name"] != "rgi_schema" {
		t.Errorf("json_schema = %v, want rgi_schema constraint", rf["json_schema"])
	}

	msgs, ok := stub.lastBody["messages"].([]any)
	if !ok || len(msgs) != 1 {
		t.Fatalf("messages = %v, want one user message", stub.lastBody["messages"])
	}
	content := msgs[0].(map[string]any)["content"].([]any)
	// Prompt text plus a label and an image per page.
	if len(content) != 1+2*2 {
		t.Fatalf("got %d content parts, want 5", len(content))
	}
	first := content[0].(map[string]any)
	if first["type"] != "text" || !strings.Contains(first["text"].(string), "registros de imóveis") {
		t.Error("first content part is not the instruction prompt")
	}
	img := content[2].(map[string]any)
	url := img["image_url"].(map[string]any)["url"].(string)
	if !strings.HasPrefix(url, "data:image/jpeg;base64,") {
		t.Errorf("image url = %q, want base64 data URL", url)
	}
}

func TestOpenAIBackendDecodesResult(t *testing.T) {
	partial := types.NewMatricula()
	partial.Metadata.Matricula = "98.765"
	partial.Proprietarios = []types.Proprietario{{Nome: "Maria"}}
	content, _ := json.Marshal(partial)

	stub := &chatStub{content: string(content)}
	backend, ts := newTestBackend("gpt-4o-mini", stub)
	defer ts.Close()

	doc, err := backend.Extract(context.Background(), samplePages(t))
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if doc.Metadata.Matricula != "98.765" {
		t.Errorf("matricula = %q", doc.Metadata.Matricula)
	}
	if len(doc.Proprietarios) != 1 || doc.Proprietarios[0].Nome != "Maria" {
		t.Errorf("proprietarios = %+v", doc.Proprietarios)
	}
}

func TestOpenAIBackendEmptyContent(t *testing.T) {
	stub := &chatStub{content: "  "}
	backend, ts := newTestBackend("gpt-4o-mini", stub)
	defer ts.Close()

	doc, err := backend.Extract(context.Background(), samplePages(t))
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if doc.Metadata.Matricula != "" || len(doc.Proprietarios) != 0 {
		t.Errorf("empty content should decode to empty document, got %+v", doc)
	}
}

func TestOpenAIBackendErrorStatus(t *testing.T) {
	stub := &chatStub{status: http.StatusRequestEntityTooLarge}
	backend, ts := newTestBackend("gpt-4o-mini", stub)
	defer ts.Close()

	_, err := backend.Extract(context.Background(), samplePages(t))
	if err == nil {
		t.Fatal("Extract succeeded on 413, want error")
	}
	if !strings.Contains(err.Error(), "413") {
		t.Errorf("error %q does not mention status", err)
	}
}

func TestOpenAIBackendMissingKey(t *testing.T) {
	backend := &OpenAIBackend{Model: "gpt-4o-mini"}
	if _, err := backend.Extract(context.Background(), samplePages(t)); err == nil {
		t.Fatal("Extract succeeded without API key, want configuration error")
	}
}
