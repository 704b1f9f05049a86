package integration

import (
	"errors"
	"strings"
	"testing"

	"github.com/rhuss/aichat/pkg/api"
)

func TestBackendErrorAfterRetries(t *testing.T) {
	const prompt = "please fail"

	ends := 0
	_, err := chat(t, enterpriseConfig(""), prompt, nil, func() { ends++ })

	var te *api.TransportError
	if !errors.As(err, &te) {
		t.Fatalf("error = %v (%T), want *api.TransportError", err, err)
	}
	if !strings.Contains(err.Error(), "HTTP 500") {
		t.Errorf("error = %q, want it to contain HTTP 500", err.Error())
	}
	if got := len(testEnv.Requests(prompt)); got != 3 {
		t.Errorf("backend saw %d requests, want 3", got)
	}
	if ends != 0 {
		t.Errorf("OnEnd called %d times, want 0", ends)
	}
}

func TestRetryBudgetFromConfig(t *testing.T) {
	const prompt = "fail with zero budget"

	yamlBody := strings.Replace(enterpriseConfig(""), "max_retries: 2", "max_retries: 0", 1)
	if _, err := chat(t, yamlBody, prompt, nil, nil); err == nil {
		t.Fatal("expected error")
	}
	if got := len(testEnv.Requests(prompt)); got != 1 {
		t.Errorf("backend saw %d requests with max_retries 0, want 1", got)
	}
}

func TestDisabledVariantSendsNothing(t *testing.T) {
	const prompt = "disabled variant"

	yamlBody := strings.Replace(enterpriseConfig(""), "version: enterprise", "version: disabled", 1)
	_, err := chat(t, yamlBody, prompt, nil, nil)

	var ice *api.InvalidConfigurationError
	if !errors.As(err, &ice) {
		t.Fatalf("error = %v (%T), want *api.InvalidConfigurationError", err, err)
	}
	if got := len(testEnv.Requests(prompt)); got != 0 {
		t.Errorf("backend saw %d requests, want 0", got)
	}
}
