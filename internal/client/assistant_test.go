package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"beauty/advisor/internal/config"
	"beauty/advisor/internal/domain"
)

func testAssistantConfig(url string) config.AssistantConfig {
	return config.AssistantConfig{URL: url}
}

func TestAssistantClient_SendsTranscriptWithFixedParameters(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		raw, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(raw, &got); err != nil {
			t.Errorf("unmarshal body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"Use the cleanser first."}}]}`))
	}))
	t.Cleanup(srv.Close)

	c := NewAssistantClient(testAssistantConfig(srv.URL))
	reply, err := c.Complete(context.Background(), []domain.Message{
		{Role: domain.RoleSystem, Content: "persona"},
		{Role: domain.RoleUser, Content: "hi"},
	})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if reply != "Use the cleanser first." {
		t.Fatalf("unexpected reply %q", reply)
	}

	// Not configurable: the endpoint always gets 500 / 0.4 / 0.8
	if got["max_tokens"] != float64(500) || got["temperature"] != 0.4 || got["frequency_penalty"] != 0.8 {
		t.Fatalf("unexpected generation parameters: %v", got)
	}
	if len(got) != 4 {
		t.Fatalf("expected exactly 4 body fields, got %v", got)
	}
	msgs, ok := got["messages"].([]any)
	if !ok || len(msgs) != 2 {
		t.Fatalf("expected 2 messages, got %v", got["messages"])
	}
	first, _ := msgs[0].(map[string]any)
	if first["role"] != "system" || first["content"] != "persona" {
		t.Fatalf("unexpected first message %v", first)
	}
}

func TestAssistantClient_Failures(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
	}{
		{name: "server error", status: http.StatusInternalServerError, body: `{"error":"boom"}`},
		{name: "bad request", status: http.StatusBadRequest, body: `{}`},
		{name: "no choices", status: http.StatusOK, body: `{"choices":[]}`},
		{name: "missing content", status: http.StatusOK, body: `{"choices":[{"message":{}}]}`},
		{name: "not json", status: http.StatusOK, body: `<html>oops</html>`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			t.Cleanup(srv.Close)

			c := NewAssistantClient(testAssistantConfig(srv.URL))
			_, err := c.Complete(context.Background(), []domain.Message{{Role: domain.RoleUser, Content: "hi"}})
			if !errors.Is(err, ErrCompletionFailed) {
				t.Fatalf("expected ErrCompletionFailed, got %v", err)
			}
		})
	}
}

func TestAssistantClient_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := NewAssistantClient(testAssistantConfig(url))
	if _, err := c.Complete(context.Background(), nil); err == nil {
		t.Fatalf("expected network error")
	}
}
