package config

import "os"

// GeminiModels defines which Gemini models to use for different tasks
type GeminiModels struct {
	// Analysis is for the full post-submission report (quality over speed)
	Analysis string `json:"analysis"`

	// Probe is for the health-check availability ping (needs to be fast)
	Probe string `json:"probe"`
}

// AIConfig holds all AI-related configuration
type AIConfig struct {
	APIKey  string       `json:"-"` // Never serialize
	BaseURL string       `json:"baseUrl"`
	Models  GeminiModels `json:"models"`

	// AnalysisTimeoutMS bounds the report call; exceeding it falls back
	// to the rule-based strategy.
	AnalysisTimeoutMS int `json:"analysisTimeoutMs"`

	// ProbeTimeoutMS bounds the AI sub-probe of the health check.
	ProbeTimeoutMS int `json:"probeTimeoutMs"`

	// HealthTimeoutMS bounds the whole health check.
	HealthTimeoutMS int `json:"healthTimeoutMs"`
}

// DefaultAIConfig returns the default AI configuration
func DefaultAIConfig() *AIConfig {
	return &AIConfig{
		APIKey:  os.Getenv("GEMINI_API_KEY"),
		BaseURL: "https://generativelanguage.googleapis.com/v1beta/models",
		Models: GeminiModels{
			Analysis: getEnvOrDefault("GEMINI_MODEL_ANALYSIS", "gemini-2.0-flash"),
			Probe:    getEnvOrDefault("GEMINI_MODEL_PROBE", "gemini-2.0-flash"),
		},
		AnalysisTimeoutMS: 30000,
		ProbeTimeoutMS:    5000,
		HealthTimeoutMS:   10000,
	}
}

// IsEnabled returns true if the AI API is configured
func (c *AIConfig) IsEnabled() bool {
	return c.APIKey != ""
}

// ModelEndpoint returns the full generateContent endpoint for a model
func (c *AIConfig) ModelEndpoint(model string) string {
	return c.BaseURL + "/" + model + ":generateContent"
}

func getEnvOrDefault(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}
