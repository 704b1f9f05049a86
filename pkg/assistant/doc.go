// Package assistant is the entry point for assistant chat completions.
//
// It reads the deployment variant, credential and enterprise endpoint from
// a settings store, refuses variants that may not reach a live backend,
// and delegates the streaming itself to package chatstream.
package assistant
