package stream

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestClient_Chat(t *testing.T) {
	var got ChatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != ChatPath {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&got)

		w.Header().Set("Content-Type", "text/event-stream")
		flusher := w.(http.Flusher)
		for _, rec := range []string{
			"data: {\"content\":\"Try \"}\n\n",
			"data: {\"content\":\"the dumplings\"}\n\n",
			"data: [DONE]\n\n",
		} {
			w.Write([]byte(rec))
			flusher.Flush()
		}
	}))
	defer server.Close()

	client := NewClient(server.URL + "/")
	s, err := client.Chat(context.Background(), ChatRequest{Message: "what should I get?", ChatType: "whatToOrder"})
	if err != nil {
		t.Fatalf("Chat() error = %v", err)
	}

	var text strings.Builder
	for ev := range s.Events() {
		text.WriteString(ev.Text())
	}
	if err := s.Wait(); err != nil {
		t.Fatalf("Wait() = %v", err)
	}
	if text.String() != "Try the dumplings" {
		t.Errorf("text = %q", text.String())
	}
	if got.Message != "what should I get?" || got.ChatType != "whatToOrder" {
		t.Errorf("request = %+v", got)
	}
}

func TestClient_StatusError(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		wantMsg   string
		wantResp  string
		wantRetry time.Duration
	}{
		{
			name:    "validation",
			status:  http.StatusBadRequest,
			body:    `{"error":"Invalid input","details":[{"field":"message","message":"Message is required"}]}`,
			wantMsg: "Invalid input",
		},
		{
			name:      "rate limited",
			status:    http.StatusTooManyRequests,
			body:      `{"error":"Too many requests","retryAfter":42}`,
			wantMsg:   "Too many requests",
			wantRetry: 42 * time.Second,
		},
		{
			name:     "upstream fallback",
			status:   http.StatusInternalServerError,
			body:     `{"error":"AI service temporarily unavailable","response":"fallback text","fallback":true}`,
			wantMsg:  "AI service temporarily unavailable",
			wantResp: "fallback text",
		},
		{
			name:    "plain text",
			status:  http.StatusBadGateway,
			body:    "bad gateway\n",
			wantMsg: "bad gateway",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			_, err := NewClient(server.URL).Chat(context.Background(), ChatRequest{Message: "hi"})
			var se *StatusError
			if !errors.As(err, &se) {
				t.Fatalf("Chat() error = %v, want *StatusError", err)
			}
			if se.StatusCode != tt.status || se.Message != tt.wantMsg || se.Response != tt.wantResp || se.RetryAfter != tt.wantRetry {
				t.Errorf("StatusError = %+v", se)
			}
		})
	}
}

func TestClient_CancelMidStream(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("data: {\"content\":\"first\"}\n\n"))
		w.(http.Flusher).Flush()
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}))
	defer server.Close()
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	s, err := NewClient(server.URL).Chat(ctx, ChatRequest{Message: "hi"})
	if err != nil {
		t.Fatalf("Chat() error = %v", err)
	}

	if ev := <-s.Events(); ev.Content != "first" {
		t.Fatalf("first event = %#v", ev)
	}
	cancel()

	for range s.Events() {
	}
	if err := s.Wait(); !errors.Is(err, ErrCanceled) {
		t.Errorf("Wait() = %v, want ErrCanceled", err)
	}
}

func TestClient_Call(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/chat":
			var in ChatRequest
			json.NewDecoder(r.Body).Decode(&in)
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]any{"response": "echo: " + in.Message, "cached": false})
		default:
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"error":"AI service temporarily unavailable","response":"Try somewhere new.","fallback":true}`))
		}
	}))
	defer server.Close()

	client := NewClient(server.URL)

	var out struct {
		Response string `json:"response"`
	}
	if err := client.Call(context.Background(), http.MethodPost, "/api/chat", ChatRequest{Message: "hi"}, &out); err != nil {
		t.Fatalf("Call() error = %v", err)
	}
	if out.Response != "echo: hi" {
		t.Errorf("response = %q", out.Response)
	}

	err := client.Call(context.Background(), http.MethodGet, "/api/broken", nil, &out)
	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("expected *StatusError, got %v", err)
	}
	if se.StatusCode != http.StatusInternalServerError || se.Response != "Try somewhere new." {
		t.Errorf("status error = %+v", se)
	}
}
