package domain

import (
	"errors"
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// LLMConfig describes one model target a test run executes against. It lives
// only in the test dialog's view state and is never persisted.
type LLMConfig struct {
	Provider    string  `json:"provider"`
	Model       string  `json:"model"`
	Temperature float64 `json:"temperature"`
	MaxTokens   int     `json:"max_tokens"`
	ApiKey      string  `json:"api_key,omitempty"`
}

const llmConfigSchema = `{
	"type": "object",
	"required": ["provider", "model"],
	"properties": {
		"provider": {"type": "string", "minLength": 1},
		"model": {"type": "string", "minLength": 1},
		"temperature": {"type": "number", "minimum": 0, "maximum": 2},
		"max_tokens": {"type": "integer", "minimum": 0},
		"api_key": {"type": "string"}
	}
}`

// Validate checks the config against the backend's accepted shape before it
// is sent with a test run.
func (c LLMConfig) Validate() error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(llmConfigSchema),
		gojsonschema.NewGoLoader(c))

	if err != nil {
		return err
	}

	if !result.Valid() {
		msg := "invalid llm config"
		for _, desc := range result.Errors() {
			msg = fmt.Sprintf("%s: %s", msg, desc.String())
		}
		return errors.New(msg)
	}

	return nil
}

// TestResult is the backend's verdict for one test case of one run.
type TestResult struct {
	TestCaseId    string    `json:"test_case_id"`
	TestCaseName  string    `json:"test_case_name"`
	Passed        bool      `json:"passed"`
	ActualOutput  JSONValue `json:"actual_output"`
	Score         float64   `json:"score"`
	ExecutionMs   int64     `json:"execution_ms"`
	LLMProvider   string    `json:"llm_provider,omitempty"`
	LLMModel      string    `json:"llm_model,omitempty"`
	FailureReason string    `json:"failure_reason,omitempty"`
}

// TestSummary aggregates one run.
type TestSummary struct {
	Total       int     `json:"total"`
	Passed      int     `json:"passed"`
	Failed      int     `json:"failed"`
	AvgScore    float64 `json:"avg_score"`
	TotalTimeMs int64   `json:"total_time_ms"`
}

// TestExecution is the wholesale response of a test run, re-fetched per
// prompt version rather than kept by the console.
type TestExecution struct {
	Results        []TestResult    `json:"results"`
	Summary        TestSummary     `json:"summary"`
	LLMComparisons []LLMComparison `json:"llm_comparisons,omitempty"`
}

// LLMComparison ranks one model target across the run when comparison mode
// was enabled.
type LLMComparison struct {
	Provider string  `json:"provider"`
	Model    string  `json:"model"`
	Passed   int     `json:"passed"`
	AvgScore float64 `json:"avg_score"`
}

// ExecutionSummary is one line of a prompt's stored test history.
type ExecutionSummary struct {
	ExecutedAt string      `json:"executed_at"`
	Version    int         `json:"version"`
	Summary    TestSummary `json:"summary"`
}
