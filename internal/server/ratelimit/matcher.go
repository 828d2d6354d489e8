package ratelimit

import (
	"net/http"
	"strings"
)

// unlimited is returned for routes that are never rate limited.
var unlimited = &EndpointConfig{}

// MatchEndpoint matches a request path and method to an endpoint configuration.
// Exact matches win over prefix matches; nil means the global default applies.
func MatchEndpoint(path string, method string, configs []EndpointConfig) *EndpointConfig {
	if isExempt(path, method) {
		return unlimited
	}

	for i := range configs {
		if configs[i].Path == path && configs[i].Method == method {
			return &configs[i]
		}
	}

	for i := range configs {
		config := &configs[i]
		if config.Method == method && strings.HasSuffix(config.Path, "/") && strings.HasPrefix(path, config.Path) {
			return config
		}
	}

	return nil
}

// isExempt reports probes and CORS preflights, which must never be throttled.
func isExempt(path, method string) bool {
	if method == http.MethodOptions {
		return true
	}
	return method == http.MethodGet && (path == "/health" || path == "/api/")
}
