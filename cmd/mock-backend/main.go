// Command mock-backend runs a deterministic Chat Completions server for
// exercising the chat stream client locally. Streaming responses are
// chosen from the last user message:
//
//	"count from 1 to 5"  - streams the numbers 1 to 5
//	"malformed"          - injects an undecodable event between fragments
//	"no done"            - closes the stream without the [DONE] sentinel
//	"unauthorized"       - answers 401 with an OpenAI-style error body
//	"overloaded"         - answers 503
//	"plain json"         - answers 200 with a JSON body instead of a stream
//
// Configuration:
//
//	MOCK_PORT - Listen port (default: 9090)
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rhuss/aichat/pkg/observability"
)

func main() {
	port := os.Getenv("MOCK_PORT")
	if port == "" {
		port = "9090"
	}

	srv := &http.Server{Addr: ":" + port, Handler: newMux()}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("mock backend starting", "port", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("mock backend failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("mock backend shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	srv.Shutdown(shutdownCtx)
}

func newMux() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("POST /v1/chat/completions", observability.MetricsMiddleware(http.HandlerFunc(handleChatCompletions)))
	mux.HandleFunc("GET /v1/models", handleModels)
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok\n"))
	})
	return mux
}

// --- Request types ---

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// --- Handler ---

func handleChatCompletions(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request", "invalid_request_error")
		return
	}
	if !strings.HasPrefix(r.Header.Get("Authorization"), "Bearer ") {
		writeError(w, http.StatusUnauthorized, "missing bearer token", "invalid_request_error")
		return
	}

	model := req.Model
	if model == "" {
		model = "mock-model"
	}
	lastMsg := strings.ToLower(getLastUserMessage(&req))

	switch {
	case strings.Contains(lastMsg, "unauthorized"):
		writeError(w, http.StatusUnauthorized, "Incorrect API key provided", "invalid_request_error")
		return
	case strings.Contains(lastMsg, "overloaded"):
		writeError(w, http.StatusServiceUnavailable, "The server is overloaded", "server_error")
		return
	case strings.Contains(lastMsg, "plain json") || !req.Stream:
		writeCompletion(w, model, strings.Join(tokensFor(lastMsg), ""))
		return
	}

	handleStreaming(w, model, lastMsg)
}

func tokensFor(lastMsg string) []string {
	if strings.Contains(lastMsg, "count from 1 to 5") {
		return []string{"1", ", ", "2", ", ", "3", ", ", "4", ", ", "5"}
	}
	return []string{"Hello", ", ", "nice", " ", "day", "!"}
}

func writeError(w http.ResponseWriter, status int, message, errType string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{"message": message, "type": errType},
	})
}

func writeCompletion(w http.ResponseWriter, model, text string) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"id":     "chatcmpl-mock",
		"object": "chat.completion",
		"model":  model,
		"choices": []any{
			map[string]any{
				"index":         0,
				"message":       map[string]any{"role": "assistant", "content": text},
				"finish_reason": "stop",
			},
		},
	})
}

// --- Streaming ---

func handleStreaming(w http.ResponseWriter, model, lastMsg string) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	tokens := tokensFor(lastMsg)

	// Send role chunk.
	writeSSEChunk(w, 0, model, "", true)
	flusher.Flush()

	for i, token := range tokens {
		if i == 1 && strings.Contains(lastMsg, "malformed") {
			fmt.Fprint(w, "data: {\"choices\": [\n\n")
			flusher.Flush()
		}
		writeSSEChunk(w, i+1, model, token, false)
		flusher.Flush()
	}

	writeFinishChunk(w, model, len(tokens))
	flusher.Flush()

	if strings.Contains(lastMsg, "no done") {
		return
	}

	fmt.Fprintf(w, "data: [DONE]\n\n")
	flusher.Flush()
}

func writeSSEChunk(w http.ResponseWriter, seq int, model, content string, isRole bool) {
	delta := map[string]any{}
	if isRole {
		delta["role"] = "assistant"
	}
	if content != "" {
		delta["content"] = content
	}

	chunk := map[string]any{
		"id":     "chatcmpl-mock-stream",
		"object": "chat.completion.chunk",
		"model":  model,
		"choices": []any{
			map[string]any{
				"index":         0,
				"delta":         delta,
				"finish_reason": nil,
			},
		},
	}

	data, _ := json.Marshal(chunk)
	fmt.Fprintf(w, "id: %d\ndata: %s\n\n", seq, data)
}

func writeFinishChunk(w http.ResponseWriter, model string, tokenCount int) {
	chunk := map[string]any{
		"id":     "chatcmpl-mock-stream",
		"object": "chat.completion.chunk",
		"model":  model,
		"choices": []any{
			map[string]any{
				"index":         0,
				"delta":         map[string]any{},
				"finish_reason": "stop",
			},
		},
		"usage": map[string]any{
			"prompt_tokens":     10,
			"completion_tokens": tokenCount,
			"total_tokens":      10 + tokenCount,
		},
	}

	data, _ := json.Marshal(chunk)
	fmt.Fprintf(w, "data: %s\n\n", data)
}

// --- Models endpoint ---

func handleModels(w http.ResponseWriter, r *http.Request) {
	resp := map[string]any{
		"object": "list",
		"data": []map[string]any{
			{"id": "mock-model", "object": "model", "owned_by": "aichat-mock"},
		},
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// --- Helpers ---

func getLastUserMessage(req *chatRequest) string {
	for i := len(req.Messages) - 1; i >= 0; i-- {
		if req.Messages[i].Role == "user" {
			return req.Messages[i].Content
		}
	}
	return ""
}
