package llm

import (
	"fmt"
	"net/http"
	"net/url"
)

// newHTTPClient returns the client used for API calls. A non-empty proxy
// routes every request through it; otherwise the environment decides.
func newHTTPClient(proxy string) (*http.Client, error) {
	proxyFunc, err := proxyFunc(proxy)
	if err != nil {
		return nil, err
	}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.Proxy = proxyFunc
	return &http.Client{Transport: transport}, nil
}

func proxyFunc(proxy string) (func(*http.Request) (*url.URL, error), error) {
	if proxy == "" {
		return http.ProxyFromEnvironment, nil
	}
	u, err := url.Parse(proxy)
	if err != nil || u.Host == "" {
		return nil, fmt.Errorf("invalid LLM proxy URL %q", proxy)
	}
	return http.ProxyURL(u), nil
}
