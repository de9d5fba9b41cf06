package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"bizplan-backend/internal/llm"
)

func TestIsGPT5(t *testing.T) {
	tests := []struct {
		name  string
		model string
		want  bool
	}{
		{name: "gpt5", model: "gpt-5", want: true},
		{name: "gpt5 variant", model: "gpt-5-mini", want: true},
		{name: "gpt5 uppercase", model: " GPT-5o ", want: true},
		{name: "gpt4", model: "gpt-4o", want: false},
		{name: "empty", model: "", want: false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			if got := isGPT5(tt.model); got != tt.want {
				t.Fatalf("isGPT5(%q) = %v, want %v", tt.model, got, tt.want)
			}
		})
	}
}

func newTestServer(t *testing.T, status int, response string) (*httptest.Server, func() map[string]any) {
	t.Helper()
	var mu sync.Mutex
	var last map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("unexpected authorization header %q", got)
		}
		var payload map[string]any
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decode request: %v", err)
		}
		mu.Lock()
		last = payload
		mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(response))
	}))
	t.Cleanup(server.Close)
	return server, func() map[string]any {
		mu.Lock()
		defer mu.Unlock()
		return last
	}
}

func TestRewriteReturnsContent(t *testing.T) {
	server, lastBody := newTestServer(t, http.StatusOK, `{"choices":[{"message":{"role":"assistant","content":"  {\"ok\":true}  "}}],"usage":{"prompt_tokens":1,"completion_tokens":2,"total_tokens":3}}`)

	client, err := NewClient("test-key", "gpt-4o-mini", server.URL, time.Second)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	hash := &llm.PromptHashSink{}
	ctx := llm.WithPromptHashSink(context.Background(), hash)
	out, err := client.Rewrite(ctx, llm.RewriteInput{Analysis: json.RawMessage(`{"industry":"food"}`), Excerpt: "Fresh Bites catering"})
	if err != nil {
		t.Fatalf("Rewrite: %v", err)
	}
	if out != `{"ok":true}` {
		t.Fatalf("unexpected content %q", out)
	}
	if hash.Value() == "" {
		t.Fatalf("expected prompt hash to be recorded")
	}

	body := lastBody()
	if body["model"] != "gpt-4o-mini" {
		t.Fatalf("unexpected model %v", body["model"])
	}
	if temp, ok := body["temperature"].(float64); !ok || temp < 0.29 || temp > 0.31 {
		t.Fatalf("unexpected temperature %v", body["temperature"])
	}
	if body["max_tokens"] != float64(llm.MaxTokens) {
		t.Fatalf("unexpected max_tokens %v", body["max_tokens"])
	}
	messages, _ := body["messages"].([]any)
	if len(messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(messages))
	}
	user, _ := messages[1].(map[string]any)
	content, _ := user["content"].(string)
	if !strings.Contains(content, "Fresh Bites catering") || !strings.Contains(content, `"industry":"food"`) {
		t.Fatalf("user prompt missing inputs: %s", content)
	}
}

func TestRewriteOmitsTemperatureForGPT5(t *testing.T) {
	server, lastBody := newTestServer(t, http.StatusOK, `{"choices":[{"message":{"content":"{}"}}]}`)

	client, err := NewClient("test-key", "gpt-5-mini", server.URL, time.Second)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if _, err := client.Rewrite(context.Background(), llm.RewriteInput{Analysis: json.RawMessage(`{}`)}); err != nil {
		t.Fatalf("Rewrite: %v", err)
	}
	if _, hasTemp := lastBody()["temperature"]; hasTemp {
		t.Fatalf("expected temperature to be omitted for gpt-5 models")
	}
}

func TestRewriteHTTPError(t *testing.T) {
	server, _ := newTestServer(t, http.StatusTooManyRequests, `{"error":{"message":"slow down","type":"rate_limit"}}`)

	client, err := NewClient("test-key", "gpt-4o-mini", server.URL, time.Second)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	_, err = client.Rewrite(context.Background(), llm.RewriteInput{Analysis: json.RawMessage(`{}`)})
	if err == nil || !strings.Contains(err.Error(), "slow down") {
		t.Fatalf("expected provider error, got %v", err)
	}
}

func TestRewriteMissingChoices(t *testing.T) {
	server, _ := newTestServer(t, http.StatusOK, `{"choices":[]}`)

	client, err := NewClient("test-key", "gpt-4o-mini", server.URL, time.Second)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if _, err := client.Rewrite(context.Background(), llm.RewriteInput{}); err == nil {
		t.Fatalf("expected error for missing choices")
	}
}

func TestNewClientRequiresModelAndKey(t *testing.T) {
	if _, err := NewClient("key", "", "", 0); err == nil {
		t.Fatalf("expected error for missing model")
	}
	if _, err := NewClient("", "gpt-4o", "", 0); err == nil {
		t.Fatalf("expected error for missing key")
	}
}
