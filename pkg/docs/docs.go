// Package docs resolves where the product documentation is served from.
package docs

const (
	// LocalURL is the documentation dev server.
	LocalURL = "http://localhost:3000"

	// RemoteURL is the published documentation site.
	RemoteURL = "https://the-low-code-foundation.github.io/code-crusher-docs"
)

// Flags reports whether local documentation is preferred.
type Flags interface {
	UseLocalDocs() bool
}

// Endpoint returns the documentation base URL. The flag is read once per
// call; a nil flags value resolves to the remote site.
func Endpoint(flags Flags) string {
	if flags != nil && flags.UseLocalDocs() {
		return LocalURL
	}
	return RemoteURL
}
