package llm

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestProxyFunc(t *testing.T) {
	fn, err := proxyFunc("http://proxy.local:3128")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	req := httptest.NewRequest(http.MethodGet, "https://api.openai.com/v1/models", nil)
	u, err := fn(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u == nil || u.Host != "proxy.local:3128" {
		t.Errorf("expected proxy.local:3128, got %v", u)
	}
}

func TestProxyFunc_Invalid(t *testing.T) {
	if _, err := proxyFunc("not a url"); err == nil {
		t.Error("expected error for invalid proxy URL")
	}
}

func TestNewOpenAIProvider_InvalidProxy(t *testing.T) {
	_, err := NewOpenAIProvider(Config{APIKey: "sk-test", Proxy: "::"})
	if err == nil {
		t.Error("expected error for invalid proxy")
	}
}
