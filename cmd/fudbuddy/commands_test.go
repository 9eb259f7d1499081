package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"fud-buddy/gateway/pkg/cli"
	"fud-buddy/gateway/pkg/proxy/types"
)

// execute runs the root command with args and returns its output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cfgFile, serverURL, output = "", DefaultServerURL, string(cli.FormatText)
	chatFlags.chatType, chatFlags.stream = "home", false
	runFlags.listenAddress, runFlags.logLevel, runFlags.dryRun = "", "", false

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetIn(strings.NewReader(""))
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetIn(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.ExecuteContext(context.Background())
	return buf.String(), err
}

// fakeGateway answers the client commands' endpoints.
func fakeGateway(t *testing.T, ollama string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.Method + " " + r.URL.Path {
		case "GET /api/health":
			json.NewEncoder(w).Encode(types.HealthResponse{Status: "ok", Ollama: ollama, CacheSize: 2, Model: "qwen2.5:14b"})
		case "POST /api/cache/clear":
			json.NewEncoder(w).Encode(types.CacheClearResponse{Message: "Cache cleared", Size: 0})
		case "POST /api/chat":
			var body struct {
				Message  string `json:"message"`
				ChatType string `json:"chatType"`
			}
			json.NewDecoder(r.Body).Decode(&body)
			if body.Message == "fail" {
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(types.NewFallbackError("Try a food truck."))
				return
			}
			json.NewEncoder(w).Encode(types.ChatResponse{Response: body.ChatType + ": " + body.Message, Model: "qwen2.5:14b"})
		case "POST /api/chat/stream":
			w.Header().Set("Content-Type", "text/event-stream")
			fmt.Fprint(w, "data: {\"content\":\"Dim \"}\n\n")
			fmt.Fprint(w, "data: {\"content\":\"sum\"}\n\n")
			fmt.Fprint(w, "data: [DONE]\n\n")
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestHealthCommand(t *testing.T) {
	up := fakeGateway(t, types.UpstreamConnected)
	out, err := execute(t, "health", "--server", up.URL)
	if err != nil {
		t.Fatalf("health error = %v", err)
	}
	if !strings.Contains(out, "Ollama connected") || !strings.Contains(out, "Cached replies: 2") {
		t.Errorf("output:\n%s", out)
	}

	down := fakeGateway(t, types.UpstreamDisconnected)
	_, err = execute(t, "health", "--server", down.URL)
	if err == nil {
		t.Fatal("expected error when ollama is disconnected")
	}
	if cli.ExitCode(err) != cli.ExitFailure {
		t.Errorf("exit code = %d", cli.ExitCode(err))
	}
}

func TestCacheClearCommand(t *testing.T) {
	gw := fakeGateway(t, types.UpstreamConnected)

	out, err := execute(t, "cache", "clear", "--server", gw.URL, "-o", "json")
	if err != nil {
		t.Fatalf("cache clear error = %v", err)
	}
	var resp types.CacheClearResponse
	if err := json.Unmarshal([]byte(out), &resp); err != nil {
		t.Fatalf("invalid JSON %q: %v", out, err)
	}
	if resp.Message != "Cache cleared" || resp.Size != 0 {
		t.Errorf("response = %+v", resp)
	}
}

func TestChatCommand(t *testing.T) {
	gw := fakeGateway(t, types.UpstreamConnected)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"plain", []string{"chat", "noodles", "tonight"}, "FUD Buddy: home: noodles tonight"},
		{"typed", []string{"chat", "--type", "whereToGo", "brunch"}, "FUD Buddy: whereToGo: brunch"},
		{"stream", []string{"chat", "--stream", "dumplings"}, "FUD Buddy: Dim sum"},
		{"fallback", []string{"chat", "fail"}, "Try a food truck."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, append(tt.args, "--server", gw.URL)...)
			if err != nil {
				t.Fatalf("chat error = %v", err)
			}
			if !strings.Contains(out, tt.want) {
				t.Errorf("output %q does not contain %q", out, tt.want)
			}
		})
	}
}

func TestChatCommand_InvalidType(t *testing.T) {
	_, err := execute(t, "chat", "--type", "brunch", "eggs")
	if cli.ExitCode(err) != cli.ExitConfig {
		t.Errorf("error = %v, want config error", err)
	}
}

func TestRunDryRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fudbuddy.yaml")
	if err := os.WriteFile(path, []byte("ollama:\n  model: \"llama3:8b\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, "run", "--config", path, "--listen", "0.0.0.0:9000", "--dry-run")
	if err != nil {
		t.Fatalf("run --dry-run error = %v", err)
	}
	for _, want := range []string{"Configuration valid", "Listen: 0.0.0.0:9000", "Model: llama3:8b"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRunDryRun_InvalidOverride(t *testing.T) {
	_, err := execute(t, "run", "--log-level", "loud", "--dry-run")
	if cli.ExitCode(err) != cli.ExitConfig {
		t.Errorf("error = %v, want config error", err)
	}
}
