package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "pubrank/0.1"). Per prd004-verification R4.2.
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// VerificationConfig holds settings for the CrossRef verification client.
// Per prd004-verification R1.3, R4.1-R4.3.
type VerificationConfig struct {
	HTTPConfig `yaml:",inline"`

	// Mailto is an optional contact email sent with CrossRef requests
	// for polite-pool access.
	Mailto string `json:"mailto,omitempty" yaml:"mailto,omitempty"`

	// RequestsPerSecond caps the outbound request rate (default 5).
	RequestsPerSecond float64 `json:"requests_per_second" yaml:"requests_per_second"`

	// MaxRetries is the retry budget for rate-limited requests (default 2).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// LLMConfig holds settings for the model evaluation stage.
// Per prd002-llm-eval R4.1-R4.5.
type LLMConfig struct {
	HTTPConfig `yaml:",inline"`

	// Model is the inference model identifier. Empty selects the
	// built-in default.
	Model string `json:"model,omitempty" yaml:"model,omitempty"`

	// APIKey authenticates against the inference router. When empty the
	// evaluator returns neutral defaults without making network calls;
	// this is a supported mode, not an error.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// MaxTokens bounds the completion length (default 500).
	MaxTokens int `json:"max_tokens" yaml:"max_tokens"`

	// Temperature is the decoding temperature (default 0.3; kept low so
	// scores are reproducible).
	Temperature float64 `json:"temperature" yaml:"temperature"`

	// MaxConcurrent caps simultaneous in-flight evaluations in batch
	// mode (default 5).
	MaxConcurrent int `json:"max_concurrent" yaml:"max_concurrent"`
}

// ReportConfig holds settings for the ranked-run store.
type ReportConfig struct {
	// ReportsDir is the directory holding the run database (default "reports").
	ReportsDir string `json:"reports_dir" yaml:"reports_dir"`

	// MaxResults is the default maximum number of listed runs (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	Verification VerificationConfig `json:"verification" yaml:"verification"`
	LLM          LLMConfig          `json:"llm" yaml:"llm"`
	Report       ReportConfig       `json:"report" yaml:"report"`
}
