// Package api defines the shared types of the aichat assistant client.
//
// It holds the chat message and provider configuration types passed through
// to the completion backend, the deployment variants that select which
// backend path is used, and the error taxonomy surfaced to callers.
//
// The package has zero external dependencies (Go standard library only) and
// performs no I/O.
//
// Core types:
//   - [ChatMessage]: Role-tagged text entry, passed through unmodified
//   - [ProviderConfig]: Optional model, temperature and max token settings
//   - [Variant]: Deployment variant read from the configuration store
//   - [TransportError], [StreamError], [InvalidConfigurationError]: failure kinds
package api
