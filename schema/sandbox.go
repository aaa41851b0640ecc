package schema

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// SandboxConfig carries the backend settings forwarded to launched
// processes as environment variables. It is supplied on demand by a
// provider; the core never stores it.
type SandboxConfig struct {
	BaseURL    string `json:"baseUrl"`
	APIKey     string `json:"apiKey"`
	ProjectID  string `json:"projectId"`
	LargeModel string `json:"largeModel"`
	SmallModel string `json:"smallModel"`
}

var apiKeyPattern = regexp.MustCompile(`^eliza_[0-9a-f]{64}$`)

// IsZero reports whether no field is set.
func (c SandboxConfig) IsZero() bool {
	return c == SandboxConfig{}
}

// Validate checks the base URL scheme and the API key shape.
func (c SandboxConfig) Validate() error {
	if c.BaseURL != "" {
		parsed, err := url.Parse(c.BaseURL)
		if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
			return fmt.Errorf("%w: baseUrl must be an http(s) URL", ErrInvalidRequest)
		}
	}
	if c.APIKey != "" && !apiKeyPattern.MatchString(c.APIKey) {
		return fmt.Errorf("%w: apiKey must be eliza_ followed by 64 hex characters", ErrInvalidRequest)
	}
	return nil
}

// Env returns the environment variables understood by the launched tool.
func (c SandboxConfig) Env() map[string]string {
	env := map[string]string{
		"NODE_ENV":      "production",
		"ELIZA_DESKTOP": "true",
	}
	if c.BaseURL != "" {
		env["ELIZAOS_BASE_URL"] = c.BaseURL
	}
	if c.APIKey != "" {
		env["ELIZAOS_API_KEY"] = c.APIKey
	}
	if c.ProjectID != "" {
		env["ELIZAOS_PROJECT_ID"] = c.ProjectID
	}
	if c.LargeModel != "" {
		env["ELIZAOS_LARGE_MODEL"] = c.LargeModel
	}
	if c.SmallModel != "" {
		env["ELIZAOS_SMALL_MODEL"] = c.SmallModel
	}
	return env
}

// Redacted returns a copy safe for logging.
func (c SandboxConfig) Redacted() SandboxConfig {
	if c.APIKey != "" {
		key := c.APIKey
		if idx := strings.Index(key, "_"); idx > 0 && len(key) > idx+5 {
			key = key[:idx+5] + "…"
		} else {
			key = "…"
		}
		c.APIKey = key
	}
	return c
}
