package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLLMConfigValidateAcceptsCompleteConfig(t *testing.T) {
	c := LLMConfig{Provider: "openai", Model: "gpt-4o", Temperature: 0.7, MaxTokens: 1024}

	assert.NoError(t, c.Validate())
}

func TestLLMConfigValidateRejectsMissingFields(t *testing.T) {
	assert.Error(t, LLMConfig{Model: "gpt-4o"}.Validate(), "provider is required")
	assert.Error(t, LLMConfig{Provider: "openai"}.Validate(), "model is required")
}

func TestLLMConfigValidateBoundsTemperature(t *testing.T) {
	assert.NoError(t, LLMConfig{Provider: "openai", Model: "gpt-4o", Temperature: 2}.Validate())
	assert.Error(t, LLMConfig{Provider: "openai", Model: "gpt-4o", Temperature: 2.5}.Validate())
	assert.Error(t, LLMConfig{Provider: "openai", Model: "gpt-4o", Temperature: -0.1}.Validate())
}

func TestLLMConfigValidateRejectsNegativeMaxTokens(t *testing.T) {
	assert.Error(t, LLMConfig{Provider: "openai", Model: "gpt-4o", MaxTokens: -1}.Validate())
}
