package chatstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/rhuss/aichat/pkg/api"
	"github.com/rhuss/aichat/pkg/debug"
	"github.com/rhuss/aichat/pkg/observability"
)

// DefaultEndpoint is the hosted Chat Completions endpoint used by every
// variant except enterprise.
const DefaultEndpoint = "https://api.openai.com/v1/chat/completions"

// DefaultMaxRetries is the reconnect budget of a session.
const DefaultMaxRetries = 2

// DefaultRetryInterval is the pause before a reconnect unless the server
// sent a retry field.
const DefaultRetryInterval = time.Second

// Config holds configuration for a stream Client.
type Config struct {
	// Endpoint is the full Chat Completions URL.
	Endpoint string

	// APIKey is sent as a bearer token.
	APIKey string

	// MaxRetries is the number of reconnects allowed after transport
	// errors. Used as-is; DefaultConfig sets DefaultMaxRetries.
	MaxRetries int

	// RetryInterval is the fixed pause before each reconnect.
	RetryInterval time.Duration

	// Variant labels metrics. Optional.
	Variant api.Variant

	// HTTPClient overrides the transport. Its Timeout is ignored for
	// streams; the context controls the lifetime.
	HTTPClient *http.Client
}

// DefaultConfig returns a Config for endpoint with the default reconnect
// budget.
func DefaultConfig(endpoint, apiKey string) Config {
	return Config{
		Endpoint:      endpoint,
		APIKey:        apiKey,
		MaxRetries:    DefaultMaxRetries,
		RetryInterval: DefaultRetryInterval,
	}
}

// Request is one chat stream call.
type Request struct {
	// Messages is the conversation, forwarded unmodified. Must not be empty.
	Messages []api.ChatMessage

	// Provider holds optional model settings.
	Provider *api.ProviderConfig

	// OnStream is called once per received fragment with the text
	// accumulated so far and the fragment itself.
	OnStream func(fullText, delta string)

	// OnEnd is called exactly once when the stream closes normally.
	OnEnd func()
}

// Result is the outcome of a completed stream.
type Result struct {
	FullText             string
	CompletionTokenCount int
}

// Client streams completions from one endpoint. It is safe for concurrent
// use; every call gets its own Session.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// New creates a Client. Returns an error if the endpoint is missing.
func New(cfg Config) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("chatstream: Endpoint is required")
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}

	// Streams can legitimately outlive any fixed timeout, so the client
	// never carries one.
	httpClient := &http.Client{}
	if cfg.HTTPClient != nil {
		httpClient = &http.Client{
			Transport:     cfg.HTTPClient.Transport,
			CheckRedirect: cfg.HTTPClient.CheckRedirect,
			Jar:           cfg.HTTPClient.Jar,
		}
	}

	return &Client{cfg: cfg, httpClient: httpClient}, nil
}

// Stream performs one streaming completion. It blocks until the stream
// ends, fails, or ctx is cancelled. Cancelling ctx aborts the connection;
// OnEnd is not called in that case.
//
// On failure the returned Result is nil. Fragments already delivered
// through OnStream are not retracted.
func (c *Client) Stream(ctx context.Context, req Request) (*Result, error) {
	if len(req.Messages) == 0 {
		return nil, &api.InvalidConfigurationError{Param: "messages", Message: "at least one message is required"}
	}

	body, err := json.Marshal(buildRequest(req.Messages, req.Provider))
	if err != nil {
		return nil, fmt.Errorf("marshaling chat request: %w", err)
	}
	debug.Raw("providers", string(body))

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s := newSession(&req, cancel, c.cfg.MaxRetries, c.cfg.RetryInterval)

	observability.StreamingSessions.Inc()
	defer observability.StreamingSessions.Dec()
	start := time.Now()

	attempts := 0
	for {
		attempts++
		s.transition(StateConnecting)

		err := c.connect(ctx, s, body)
		if err == nil {
			s.close()
			c.record(s, "ok", start)
			debug.Log("streaming", "stream closed", "chunks", s.chunks, "attempts", attempts, "sentinel", s.sawSentinel)
			return &Result{FullText: s.Text(), CompletionTokenCount: s.chunks}, nil
		}

		if ctxErr := ctx.Err(); ctxErr != nil {
			s.fail()
			c.record(s, "cancelled", start)
			return nil, fmt.Errorf("chat stream cancelled: %w", ctxErr)
		}

		if !retryable(err) || s.retriesLeft <= 0 {
			s.fail()
			c.record(s, "error", start)
			slog.Error("chat stream failed", "error", err, "attempts", attempts, "model", s.model)
			return nil, finalError(err, attempts)
		}

		s.retriesLeft--
		observability.StreamReconnectsTotal.WithLabelValues(s.model).Inc()
		slog.Warn("chat stream interrupted, reconnecting",
			"error", err,
			"retries_left", s.retriesLeft,
			"interval", s.retryInterval,
		)

		if err := sleepContext(ctx, s.retryInterval); err != nil {
			s.fail()
			c.record(s, "cancelled", start)
			return nil, fmt.Errorf("chat stream cancelled: %w", err)
		}
	}
}

// connect runs one connection attempt. It returns nil when the stream
// ended normally, either by the sentinel or by the server closing it.
func (c *Client) connect(ctx context.Context, s *Session, body []byte) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating HTTP request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "text/event-stream")
	httpReq.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	if s.lastEventID != "" {
		httpReq.Header.Set("Last-Event-ID", s.lastEventID)
	}

	debug.Log("providers", "opening stream", "endpoint", c.cfg.Endpoint, "model", s.model)

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("backend connection error: %w", err)
	}
	defer httpResp.Body.Close()

	if err := checkOpen(httpResp); err != nil {
		return err
	}

	s.transition(StateStreaming)

	dec := newSSEDecoder(httpResp.Body)
	for {
		ev, err := dec.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("stream read error: %w", err)
		}
		if s.handleEvent(ev) {
			return nil
		}
	}
}

// checkOpen validates the response that opens the stream. Anything but a
// 2xx event stream is turned into a TransportError carrying the body.
func checkOpen(resp *http.Response) error {
	contentType := resp.Header.Get("Content-Type")
	if resp.StatusCode >= 200 && resp.StatusCode < 300 && strings.Contains(contentType, "text/event-stream") {
		return nil
	}

	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	return &api.TransportError{
		StatusCode: resp.StatusCode,
		Status:     statusText(resp),
		Body:       string(data),
	}
}

// statusText returns the reason phrase of resp, e.g. "Not Found".
func statusText(resp *http.Response) string {
	if text, ok := strings.CutPrefix(resp.Status, fmt.Sprintf("%d ", resp.StatusCode)); ok && text != "" {
		return text
	}
	return http.StatusText(resp.StatusCode)
}

// retryable reports whether err may be cured by reconnecting.
func retryable(err error) bool {
	var te *api.TransportError
	if errors.As(err, &te) {
		return te.Retryable()
	}
	return true
}

// finalError shapes the error returned once no reconnect is left.
// TransportErrors are returned as-is so callers see the HTTP status.
func finalError(err error, attempts int) error {
	var te *api.TransportError
	if errors.As(err, &te) {
		return te
	}
	return &api.StreamError{Attempts: attempts, Err: err}
}

func (c *Client) record(s *Session, status string, start time.Time) {
	observability.StreamRequestsTotal.WithLabelValues(string(c.cfg.Variant), s.model, status).Inc()
	observability.StreamDuration.WithLabelValues(s.model).Observe(time.Since(start).Seconds())
}

// sleepContext waits for d or until ctx is done.
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
