package screen

import (
	"context"
	"errors"
	"sync"

	"github.com/felixbrock/flowdeck/internal/domain"
	"github.com/felixbrock/flowdeck/internal/persistence"
)

// DialogTab names the three panes of the test dialog. Tabs are plain
// navigation; no order is enforced.
type DialogTab string

const (
	TabLLMConfig     DialogTab = "llm-config"
	TabTestSelection DialogTab = "test-selection"
	TabResults       DialogTab = "results"
)

// TestDialog drives one test run against a prompt version: configure model
// targets, pick test cases, run, inspect results.
type TestDialog struct {
	repo PromptRepo

	mu                sync.Mutex
	prompt            *domain.Prompt
	tab               DialogTab
	selectedTestCases map[string]bool
	llmConfigs        []domain.LLMConfig
	enableComparison  bool
	lastExecution     *domain.TestExecution
	history           []domain.ExecutionSummary
	detail            *domain.TestResult

	Banner Banner
}

func NewTestDialog(repo PromptRepo) *TestDialog {
	return &TestDialog{repo: repo, tab: TabLLMConfig, selectedTestCases: map[string]bool{}}
}

// Open seeds the dialog for a prompt version: selection starts as the set
// of enabled test cases and the most recent stored results and history are
// prefetched. A prompt without stored history is an empty state, not an
// error.
func (d *TestDialog) Open(ctx context.Context, prompt domain.Prompt) {
	d.mu.Lock()
	d.prompt = &prompt
	d.tab = TabLLMConfig
	d.lastExecution = nil
	d.history = nil
	d.detail = nil
	d.Banner.Clear()

	d.selectedTestCases = map[string]bool{}
	for _, tc := range prompt.TestCases {
		if tc.Enabled {
			d.selectedTestCases[tc.Id] = true
		}
	}
	d.mu.Unlock()

	// Results and history are independent reads; one failing must not
	// suppress the other. The first failure becomes the single banner.
	execution, execErr := d.repo.ReadTestResults(ctx, prompt.Id, prompt.Version)
	if errors.Is(execErr, persistence.ErrNotFound) {
		execution, execErr = nil, nil
	}

	history, histErr := d.repo.ReadTestHistory(ctx, prompt.Id)
	if errors.Is(histErr, persistence.ErrNotFound) {
		history, histErr = nil, nil
	}

	switch {
	case execErr != nil:
		d.setBanner(execErr)
	case histErr != nil:
		d.setBanner(histErr)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if execErr == nil {
		d.lastExecution = execution
	}
	if history != nil {
		d.history = *history
	}
}

func (d *TestDialog) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.prompt = nil
	d.detail = nil
}

func (d *TestDialog) SelectTab(tab DialogTab) {
	d.mu.Lock()
	defer d.mu.Unlock()

	switch tab {
	case TabLLMConfig, TabTestSelection, TabResults:
		d.tab = tab
	}
}

func (d *TestDialog) Tab() DialogTab {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.tab
}

func (d *TestDialog) ToggleTestCase(id string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.selectedTestCases[id] {
		delete(d.selectedTestCases, id)
	} else {
		d.selectedTestCases[id] = true
	}
}

func (d *TestDialog) SelectedTestCases() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.selectedTestCaseIdsLocked()
}

func (d *TestDialog) selectedTestCaseIdsLocked() []string {
	if d.prompt == nil {
		return nil
	}

	// Prompt order, not map order.
	var ids []string
	for _, tc := range d.prompt.TestCases {
		if d.selectedTestCases[tc.Id] {
			ids = append(ids, tc.Id)
		}
	}
	return ids
}

// AddLLMConfig validates and appends one model target.
func (d *TestDialog) AddLLMConfig(config domain.LLMConfig) {
	if err := config.Validate(); err != nil {
		d.setBanner(err)
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.llmConfigs = append(d.llmConfigs, config)
}

func (d *TestDialog) RemoveLLMConfig(index int) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if index < 0 || index >= len(d.llmConfigs) {
		return
	}
	d.llmConfigs = append(d.llmConfigs[:index], d.llmConfigs[index+1:]...)
}

func (d *TestDialog) LLMConfigs() []domain.LLMConfig {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.llmConfigs
}

func (d *TestDialog) SetComparison(enabled bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.enableComparison = enabled
}

func (d *TestDialog) ComparisonEnabled() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.enableComparison
}

// Run posts the selected test cases (all of them when none are explicitly
// selected) with the configured model targets. The response is stored
// wholesale; any failure becomes a single banner.
func (d *TestDialog) Run(ctx context.Context) {
	d.mu.Lock()

	if d.prompt == nil {
		d.mu.Unlock()
		d.setBanner(errors.New("no prompt selected for testing"))
		return
	}

	proto := persistence.TestRunProto{
		TestCaseIds:      d.selectedTestCaseIdsLocked(),
		LLMConfigs:       append([]domain.LLMConfig(nil), d.llmConfigs...),
		EnableComparison: d.enableComparison,
	}
	promptId := d.prompt.Id
	d.mu.Unlock()

	execution, err := d.repo.RunTests(ctx, promptId, proto)

	d.mu.Lock()
	defer d.mu.Unlock()

	if err != nil {
		d.Banner.Set(err)
		return
	}

	d.Banner.Clear()
	d.lastExecution = execution
	d.tab = TabResults
}

func (d *TestDialog) LastExecution() *domain.TestExecution {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lastExecution
}

func (d *TestDialog) History() []domain.ExecutionSummary {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.history
}

// OpenDetail opens the secondary inspection dialog for one result row.
func (d *TestDialog) OpenDetail(testCaseId string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.lastExecution == nil {
		return
	}

	for i := range d.lastExecution.Results {
		if d.lastExecution.Results[i].TestCaseId == testCaseId {
			result := d.lastExecution.Results[i]
			d.detail = &result
			return
		}
	}
}

func (d *TestDialog) CloseDetail() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.detail = nil
}

func (d *TestDialog) Detail() *domain.TestResult {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.detail
}

func (d *TestDialog) Prompt() *domain.Prompt {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.prompt
}

func (d *TestDialog) setBanner(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Banner.Set(err)
}
