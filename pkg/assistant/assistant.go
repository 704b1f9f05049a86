package assistant

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/rhuss/aichat/pkg/api"
	"github.com/rhuss/aichat/pkg/chatstream"
	"github.com/rhuss/aichat/pkg/debug"
)

// Store is the read-only settings store consulted on every call.
type Store interface {
	APIKey() string
	Version() api.Variant
	Endpoint() string
}

// Args are the arguments of one ChatStream call.
type Args struct {
	Messages []api.ChatMessage
	Provider *api.ProviderConfig

	// OnStream receives the accumulated text and the newest fragment.
	OnStream func(fullText, delta string)

	// OnEnd fires once when the stream closes normally.
	OnEnd func()
}

// Option configures an Assistant.
type Option func(*Assistant)

// WithRetry sets the reconnect budget and the pause between reconnects.
func WithRetry(maxRetries int, interval time.Duration) Option {
	return func(a *Assistant) {
		a.maxRetries = maxRetries
		a.retryInterval = interval
	}
}

// WithHTTPClient sets the HTTP client used for the stream.
func WithHTTPClient(c *http.Client) Option {
	return func(a *Assistant) {
		a.httpClient = c
	}
}

// Assistant streams chat completions using the settings of a Store.
type Assistant struct {
	store         Store
	maxRetries    int
	retryInterval time.Duration
	httpClient    *http.Client
}

// New creates an Assistant reading its settings from store.
func New(store Store, opts ...Option) *Assistant {
	a := &Assistant{
		store:         store,
		maxRetries:    chatstream.DefaultMaxRetries,
		retryInterval: chatstream.DefaultRetryInterval,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// ChatStream streams a completion for args and returns the full text.
//
// The variant is read from the store once per call. Only full-beta and
// enterprise may reach a backend; any other variant fails with an
// *api.InvalidConfigurationError before a request is sent.
func (a *Assistant) ChatStream(ctx context.Context, args Args) (string, error) {
	variant := a.store.Version()
	if !variant.AllowsLiveCalls() {
		slog.Warn("chat stream refused", "variant", variant)
		return "", api.NewInvalidVersionError(variant)
	}

	endpoint := chatstream.DefaultEndpoint
	if variant == api.VariantEnterprise {
		endpoint = a.store.Endpoint()
		if endpoint == "" {
			return "", &api.InvalidConfigurationError{
				Param:   "endpoint",
				Message: "enterprise variant requires an endpoint",
			}
		}
	}

	debug.Log("providers", "chat stream", "variant", variant, "endpoint", endpoint, "messages", len(args.Messages))

	cfg := chatstream.DefaultConfig(endpoint, a.store.APIKey())
	cfg.MaxRetries = a.maxRetries
	cfg.RetryInterval = a.retryInterval
	cfg.Variant = variant
	cfg.HTTPClient = a.httpClient

	client, err := chatstream.New(cfg)
	if err != nil {
		return "", err
	}

	res, err := client.Stream(ctx, chatstream.Request{
		Messages: args.Messages,
		Provider: args.Provider,
		OnStream: args.OnStream,
		OnEnd:    args.OnEnd,
	})
	if err != nil {
		return "", err
	}
	return res.FullText, nil
}

// ChatStream streams a completion with the default reconnect settings.
func ChatStream(ctx context.Context, store Store, args Args) (string, error) {
	return New(store).ChatStream(ctx, args)
}
