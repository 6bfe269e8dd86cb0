package config

import "strings"

// GetListenAddr returns the address the HTTP server binds to.
func GetListenAddr() string {
	return ":" + GetEnvOrDefault("PORT", "8080")
}

// GetAllowedOrigins returns the origins allowed by CORS. Browsers need the
// interaction-id header exposed cross-origin, so the default is permissive
// and deployments are expected to narrow it.
func GetAllowedOrigins() []string {
	raw := GetEnvOrDefault("CORS_ALLOWED_ORIGINS", "*")
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
