package api

// DefaultModel is used when a ProviderConfig does not name a model.
const DefaultModel = "gpt-3.5-turbo"

// Role identifies the author of a chat message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ChatMessage is a single role-tagged entry of a conversation. The client
// forwards it to the backend exactly as supplied.
type ChatMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// ProviderConfig carries optional inference settings. A nil Temperature or
// MaxTokens is omitted from the request; values are not validated.
type ProviderConfig struct {
	Model       string   `json:"model,omitempty" yaml:"model"`
	Temperature *float64 `json:"temperature,omitempty" yaml:"temperature"`
	MaxTokens   *int     `json:"max_tokens,omitempty" yaml:"max_tokens"`
}

// ModelOrDefault returns the configured model, or DefaultModel when the
// config is nil or names no model.
func (p *ProviderConfig) ModelOrDefault() string {
	if p == nil || p.Model == "" {
		return DefaultModel
	}
	return p.Model
}

// Variant is the deployment variant held by the configuration store. It
// decides whether live calls are allowed and which endpoint is used.
type Variant string

const (
	VariantDisabled    Variant = "disabled"
	VariantLimitedBeta Variant = "limited-beta"
	VariantFullBeta    Variant = "full-beta"
	VariantEnterprise  Variant = "enterprise"
)

// AllowsLiveCalls reports whether the variant may talk to a backend.
func (v Variant) AllowsLiveCalls() bool {
	return v == VariantFullBeta || v == VariantEnterprise
}
