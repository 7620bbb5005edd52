package persistence

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/felixbrock/flowdeck/internal/domain"
)

// PromptProto is the payload for creating or saving a prompt. The backend
// assigns ids and version numbers.
type PromptProto struct {
	Name                 string            `json:"name"`
	Text                 string            `json:"text"`
	Type                 domain.PromptType `json:"type"`
	Tags                 []string          `json:"tags"`
	ToolDependencies     []string          `json:"tool_dependencies"`
	WorkflowDependencies []string          `json:"workflow_dependencies"`
	Metadata             map[string]string `json:"metadata"`
	TestCases            []domain.TestCase `json:"test_cases"`
}

// TestRunProto is the payload of a test run request. Nil TestCaseIds means
// "run everything".
type TestRunProto struct {
	TestCaseIds      []string           `json:"test_case_ids,omitempty"`
	LLMConfigs       []domain.LLMConfig `json:"llm_configs"`
	EnableComparison bool               `json:"enable_comparison"`
}

type PromptRepo struct {
	BaseHeaders []string
	BaseUrl     string
}

func (r PromptRepo) Read(ctx context.Context) (*[]domain.Prompt, error) {
	records, err := request[[]domain.Prompt](ctx, reqConfig{
		Method:  "GET",
		Url:     r.BaseUrl,
		Headers: r.BaseHeaders},
		200)

	if err != nil {
		return nil, err
	}

	return records, nil
}

func (r PromptRepo) Insert(ctx context.Context, proto PromptProto) (*domain.Prompt, error) {
	body, err := json.Marshal(proto)

	if err != nil {
		return nil, err
	}

	record, err := request[domain.Prompt](ctx, reqConfig{
		Method:  "POST",
		Url:     r.BaseUrl,
		Body:    body,
		Headers: append(r.BaseHeaders, "Content-Type:application/json")},
		201)

	if err != nil {
		return nil, err
	}

	return record, nil
}

// Update saves a prompt as a new version.
func (r PromptRepo) Update(ctx context.Context, id string, proto PromptProto) (*domain.Prompt, error) {
	body, err := json.Marshal(proto)

	if err != nil {
		return nil, err
	}

	record, err := request[domain.Prompt](ctx, reqConfig{
		Method:  "PUT",
		Url:     fmt.Sprintf("%s/%s", r.BaseUrl, id),
		Body:    body,
		Headers: append(r.BaseHeaders, "Content-Type:application/json")},
		200)

	if err != nil {
		return nil, err
	}

	return record, nil
}

// UpdateVersion amends one historical version in place instead of creating a
// new one.
func (r PromptRepo) UpdateVersion(ctx context.Context, id string, version int, proto PromptProto) (*domain.Prompt, error) {
	body, err := json.Marshal(proto)

	if err != nil {
		return nil, err
	}

	record, err := request[domain.Prompt](ctx, reqConfig{
		Method:  "PUT",
		Url:     fmt.Sprintf("%s/%s/versions/%d", r.BaseUrl, id, version),
		Body:    body,
		Headers: append(r.BaseHeaders, "Content-Type:application/json")},
		200)

	if err != nil {
		return nil, err
	}

	return record, nil
}

func (r PromptRepo) Delete(ctx context.Context, id string) error {
	_, err := requestRaw(ctx, reqConfig{
		Method:  "DELETE",
		Url:     fmt.Sprintf("%s/%s", r.BaseUrl, id),
		Headers: r.BaseHeaders},
		204)

	if err != nil {
		return err
	}

	return nil
}

func (r PromptRepo) ReadVersions(ctx context.Context, id string) (*[]domain.VersionSummary, error) {
	records, err := request[[]domain.VersionSummary](ctx, reqConfig{
		Method:  "GET",
		Url:     fmt.Sprintf("%s/%s/versions", r.BaseUrl, id),
		Headers: r.BaseHeaders},
		200)

	if err != nil {
		return nil, err
	}

	return records, nil
}

func (r PromptRepo) ReadVersion(ctx context.Context, id string, version int) (*domain.Prompt, error) {
	record, err := request[domain.Prompt](ctx, reqConfig{
		Method:  "GET",
		Url:     fmt.Sprintf("%s/%s/versions/%d", r.BaseUrl, id, version),
		Headers: r.BaseHeaders},
		200)

	if err != nil {
		return nil, err
	}

	return record, nil
}

func (r PromptRepo) RunTests(ctx context.Context, id string, proto TestRunProto) (*domain.TestExecution, error) {
	body, err := json.Marshal(proto)

	if err != nil {
		return nil, err
	}

	record, err := request[domain.TestExecution](ctx, reqConfig{
		Method:  "POST",
		Url:     fmt.Sprintf("%s/%s/test", r.BaseUrl, id),
		Body:    body,
		Headers: append(r.BaseHeaders, "Content-Type:application/json")},
		200)

	if err != nil {
		return nil, err
	}

	return record, nil
}

// ReadTestResults returns the most recent stored execution for a prompt,
// scoped to one version when version > 0.
func (r PromptRepo) ReadTestResults(ctx context.Context, id string, version int) (*domain.TestExecution, error) {
	config := reqConfig{
		Method:  "GET",
		Url:     fmt.Sprintf("%s/%s/test-results", r.BaseUrl, id),
		Headers: r.BaseHeaders}

	if version > 0 {
		config.UrlParams = []string{fmt.Sprintf("version=%d", version)}
	}

	record, err := request[domain.TestExecution](ctx, config, 200)

	if err != nil {
		return nil, err
	}

	return record, nil
}

func (r PromptRepo) ReadTestHistory(ctx context.Context, id string) (*[]domain.ExecutionSummary, error) {
	records, err := request[[]domain.ExecutionSummary](ctx, reqConfig{
		Method:  "GET",
		Url:     fmt.Sprintf("%s/%s/test-history", r.BaseUrl, id),
		Headers: r.BaseHeaders},
		200)

	if err != nil {
		return nil, err
	}

	return records, nil
}
