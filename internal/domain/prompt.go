package domain

type PromptType string

const (
	PromptTypeSimple        PromptType = "simple"
	PromptTypeToolAware     PromptType = "tool-aware"
	PromptTypeWorkflowAware PromptType = "workflow-aware"
)

// Prompt is a versioned LLM instruction template. The backend owns the
// record; the console only ever holds the copy returned by the last read.
type Prompt struct {
	Id                   string            `json:"id"`
	Name                 string            `json:"name"`
	Text                 string            `json:"text"`
	Type                 PromptType        `json:"type"`
	Version              int               `json:"version"`
	Tags                 []string          `json:"tags"`
	ToolDependencies     []string          `json:"tool_dependencies"`
	WorkflowDependencies []string          `json:"workflow_dependencies"`
	Metadata             map[string]string `json:"metadata"`
	TestCases            []TestCase        `json:"test_cases"`
}

// VersionSummary is one entry of a prompt's version history listing.
type VersionSummary struct {
	Version   int    `json:"version"`
	CreatedAt string `json:"created_at"`
	Comment   string `json:"comment"`
}

// TestCase pairs an input with the output the prompt is expected to produce.
// Ids are client-generated until the owning prompt is persisted.
type TestCase struct {
	Id             string    `json:"id"`
	Name           string    `json:"name"`
	Input          JSONValue `json:"input"`
	ExpectedOutput JSONValue `json:"expected_output"`
	Enabled        bool      `json:"enabled"`
	ScoringLogic   string    `json:"scoring_logic,omitempty"`
}
