// Package chatstream streams chat completions from an OpenAI-compatible
// Chat Completions endpoint over server-sent events.
//
// A [Client] opens one streaming POST per call, assembles the text deltas
// found at choices[0].delta.content, and reports progress through the
// OnStream and OnEnd callbacks of the [Request]. The "[DONE]" sentinel and
// an upstream EOF both end the stream normally. Transport failures are
// retried against a fixed reconnect budget with no backoff; malformed
// events are logged and skipped.
//
// Each call owns a single [Session] that moves through the states
// Connecting, Streaming, Closed and Failed. Sessions are never shared.
package chatstream
