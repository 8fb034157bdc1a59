package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSystemPromptDefault(t *testing.T) {
	assert.Equal(t, DefaultSystemPrompt, SystemPromptFromMetadata(""))
}

func TestSystemPromptMetadataOverride(t *testing.T) {
	prompt := SystemPromptFromMetadata(`{"system_prompt":"Answer in French."}`)
	assert.Equal(t, "Answer in French.", prompt)
}

func TestSystemPromptMalformedMetadataFallsBack(t *testing.T) {
	assert.Equal(t, DefaultSystemPrompt, SystemPromptFromMetadata("{not json"))
	assert.Equal(t, DefaultSystemPrompt, SystemPromptFromMetadata(`{"other_key":"x"}`))
	assert.Equal(t, DefaultSystemPrompt, SystemPromptFromMetadata(`{"system_prompt":""}`))
}
