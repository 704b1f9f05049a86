// Package integration provides end-to-end tests for the aichat client.
//
// Tests load configuration from YAML files, build the settings store and
// stream completions through package assistant against an in-process
// SSE backend started with net/http/httptest.
package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/rhuss/aichat/pkg/config"
)

// testEnv holds the shared backend for all integration tests.
var testEnv *TestEnvironment

// TestEnvironment holds the mock backend and what it observed.
type TestEnvironment struct {
	MockBackend *httptest.Server

	mu       sync.Mutex
	requests []observedRequest
	drops    map[string]bool
}

type observedRequest struct {
	Authorization string
	LastEventID   string
	Body          backendRequest
}

type backendRequest struct {
	Model       string   `json:"model"`
	Temperature *float64 `json:"temperature"`
	MaxTokens   *int     `json:"max_tokens"`
	Stream      bool     `json:"stream"`
	Messages    []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

// TestMain starts the mock backend before running tests.
func TestMain(m *testing.M) {
	testEnv = &TestEnvironment{drops: map[string]bool{}}
	testEnv.MockBackend = httptest.NewServer(http.HandlerFunc(testEnv.handle))
	code := m.Run()
	testEnv.Teardown()
	os.Exit(code)
}

// Teardown stops the backend.
func (env *TestEnvironment) Teardown() {
	if env.MockBackend != nil {
		env.MockBackend.Close()
	}
}

// Endpoint returns the backend's completions URL.
func (env *TestEnvironment) Endpoint() string {
	return env.MockBackend.URL + "/v1/chat/completions"
}

// Requests returns the requests observed for prompt.
func (env *TestEnvironment) Requests(prompt string) []observedRequest {
	env.mu.Lock()
	defer env.mu.Unlock()
	var out []observedRequest
	for _, r := range env.requests {
		if n := len(r.Body.Messages); n > 0 && r.Body.Messages[n-1].Content == prompt {
			out = append(out, r)
		}
	}
	return out
}

// handle streams a fixed reply. Prompts containing "drop" lose the
// connection after the first event on their first attempt; prompts
// containing "fail" are answered with 500.
func (env *TestEnvironment) handle(w http.ResponseWriter, r *http.Request) {
	var body backendRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	var prompt string
	if n := len(body.Messages); n > 0 {
		prompt = body.Messages[n-1].Content
	}

	env.mu.Lock()
	env.requests = append(env.requests, observedRequest{
		Authorization: r.Header.Get("Authorization"),
		LastEventID:   r.Header.Get("Last-Event-ID"),
		Body:          body,
	})
	drop := strings.Contains(prompt, "drop") && !env.drops[prompt]
	if drop {
		env.drops[prompt] = true
	}
	env.mu.Unlock()

	if strings.Contains(prompt, "fail") {
		http.Error(w, "backend exploded", http.StatusInternalServerError)
		return
	}

	tokens := []string{"The", " answer", " is", " 42."}
	start := 0
	if id := r.Header.Get("Last-Event-ID"); id != "" {
		fmt.Sscanf(id, "%d", &start)
	}

	w.Header().Set("Content-Type", "text/event-stream")
	if drop {
		w.Header().Set("Content-Length", "100000")
	}
	w.WriteHeader(http.StatusOK)
	flusher := w.(http.Flusher)

	fmt.Fprint(w, "retry: 10\n\n")
	for i := start; i < len(tokens); i++ {
		data, _ := json.Marshal(map[string]any{
			"choices": []any{map[string]any{"index": 0, "delta": map[string]any{"content": tokens[i]}}},
		})
		fmt.Fprintf(w, "id: %d\ndata: %s\n\n", i+1, data)
		flusher.Flush()
		if drop {
			return
		}
	}
	fmt.Fprint(w, "data: [DONE]\n\n")
	flusher.Flush()
}

// --- Config helpers ---

// loadStore writes yamlBody to a temp config file and loads it.
func loadStore(t *testing.T, yamlBody string) (*config.Config, *config.Store) {
	t.Helper()
	t.Setenv("AICHAT_CONFIG", "")
	t.Setenv("AICHAT_API_KEY", "")
	t.Setenv("AICHAT_VERSION", "")
	t.Setenv("AICHAT_ENDPOINT", "")

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(yamlBody), 0o600); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("config.Load() error: %v", err)
	}
	return cfg, config.NewStore(cfg)
}

// unsetEnv removes key for the duration of the test.
func unsetEnv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	os.Unsetenv(key)
}

// enterpriseConfig returns a YAML config pointing at the mock backend.
func enterpriseConfig(extra string) string {
	return fmt.Sprintf(`
assistant:
  version: enterprise
  api_key: sk-integration
  endpoint: %s
stream:
  max_retries: 2
  retry_interval: 5ms
%s`, testEnv.Endpoint(), extra)
}
