package component

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"

	"github.com/felixbrock/flowdeck/internal/domain"
	"github.com/felixbrock/flowdeck/internal/screen"
)

// TestDialogView is the render snapshot of the test dialog.
type TestDialogView struct {
	Prompt      *domain.Prompt
	Tab         screen.DialogTab
	SelectedIds []string
	LLMConfigs  []domain.LLMConfig
	Comparison  bool
	Execution   *domain.TestExecution
	History     []domain.ExecutionSummary
	Detail      *domain.TestResult
	Banner      string
}

func TestDialog(view TestDialogView) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if view.Prompt == nil {
			return Banner("no prompt selected for testing").Render(ctx, w)
		}

		if err := Banner(view.Banner).Render(ctx, w); err != nil {
			return err
		}

		_, err := fmt.Fprintf(w, `<section class="dialog test-dialog">
<h1>Test %s (v%d)</h1>
<nav class="tabs">`, esc(view.Prompt.Name), view.Prompt.Version)
		if err != nil {
			return err
		}

		tabs := []struct {
			Id    screen.DialogTab
			Label string
		}{
			{screen.TabLLMConfig, "LLM Configuration"},
			{screen.TabTestSelection, "Test Selection"},
			{screen.TabResults, "Results"},
		}
		for _, tab := range tabs {
			class := ""
			if tab.Id == view.Tab {
				class = ` class="active"`
			}
			_, err = fmt.Fprintf(w, `<button%s hx-post="/prompts/test/tab/%s" hx-target="#screen">%s</button>`,
				class, esc(string(tab.Id)), esc(tab.Label))
			if err != nil {
				return err
			}
		}

		if _, err = io.WriteString(w, "</nav>"); err != nil {
			return err
		}

		switch view.Tab {
		case screen.TabTestSelection:
			err = testSelectionTab(view).Render(ctx, w)
		case screen.TabResults:
			err = resultsTab(view).Render(ctx, w)
		default:
			err = llmConfigTab(view).Render(ctx, w)
		}
		if err != nil {
			return err
		}

		_, err = io.WriteString(w, `<footer>
<button hx-post="/prompts/test/run" hx-target="#screen">Run tests</button>
<button hx-post="/prompts/test/close" hx-target="#screen">Close</button>
</footer>
</section>`)
		if err != nil {
			return err
		}

		if view.Detail != nil {
			return resultDetail(*view.Detail).Render(ctx, w)
		}
		return nil
	})
}

func llmConfigTab(view TestDialogView) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, `<div class="tab-pane"><table>
<tr><th>Provider</th><th>Model</th><th>Temp</th><th>Max tokens</th><th></th></tr>`)
		if err != nil {
			return err
		}

		for i, config := range view.LLMConfigs {
			_, err = fmt.Fprintf(w, `<tr><td>%s</td><td>%s</td><td>%.2f</td><td>%d</td>
<td><button hx-delete="/prompts/test/llm-config/%d" hx-target="#screen">Remove</button></td></tr>`,
				esc(config.Provider), esc(config.Model), config.Temperature, config.MaxTokens, i)
			if err != nil {
				return err
			}
		}

		comparison := ""
		if view.Comparison {
			comparison = " checked"
		}

		_, err = fmt.Fprintf(w, `</table>
<form hx-post="/prompts/test/llm-config" hx-target="#screen">
<input name="provider" placeholder="provider"/>
<input name="model" placeholder="model"/>
<input name="temperature" value="0.7"/>
<input name="max_tokens" value="1024"/>
<input name="api_key" placeholder="API key (optional)" type="password"/>
<button type="submit">Add target</button>
</form>
<label><input type="checkbox" name="comparison" hx-post="/prompts/test/comparison" hx-target="#screen"%s/>Compare models</label>
</div>`, comparison)
		return err
	})
}

func testSelectionTab(view TestDialogView) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		selected := map[string]bool{}
		for _, id := range view.SelectedIds {
			selected[id] = true
		}

		_, err := io.WriteString(w, `<div class="tab-pane"><ul class="test-selection">`)
		if err != nil {
			return err
		}

		for _, tc := range view.Prompt.TestCases {
			checked := ""
			if selected[tc.Id] {
				checked = " checked"
			}
			_, err = fmt.Fprintf(w, `<li><label>
<input type="checkbox"%s hx-post="/prompts/test/select/%s" hx-target="#screen"/>%s</label></li>`,
				checked, esc(tc.Id), esc(tc.Name))
			if err != nil {
				return err
			}
		}

		_, err = io.WriteString(w, "</ul><p>Nothing selected runs every test case.</p></div>")
		return err
	})
}

func resultsTab(view TestDialogView) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, `<div class="tab-pane">`)
		if err != nil {
			return err
		}

		if view.Execution == nil {
			if _, err = io.WriteString(w, "<p>No stored results for this version yet.</p>"); err != nil {
				return err
			}
		} else {
			s := view.Execution.Summary
			_, err = fmt.Fprintf(w, `<p class="summary">%d run · %d passed · %d failed · avg score %.2f · %dms</p><table>
<tr><th>Test</th><th>Verdict</th><th>Score</th><th>Time</th><th></th></tr>`,
				s.Total, s.Passed, s.Failed, s.AvgScore, s.TotalTimeMs)
			if err != nil {
				return err
			}

			for _, result := range view.Execution.Results {
				verdict := "failed"
				if result.Passed {
					verdict = "passed"
				}
				_, err = fmt.Fprintf(w, `<tr class="result-%[2]s"><td>%[1]s</td><td>%[2]s</td><td>%.2[3]f</td><td>%[4]dms</td>
<td><button hx-post="/prompts/test/detail/%[5]s" hx-target="#screen">View details</button></td></tr>`,
					esc(result.TestCaseName), verdict, result.Score, result.ExecutionMs, esc(result.TestCaseId))
				if err != nil {
					return err
				}
			}

			if _, err = io.WriteString(w, "</table>"); err != nil {
				return err
			}

			for _, comparison := range view.Execution.LLMComparisons {
				_, err = fmt.Fprintf(w, `<p class="comparison">%s/%s: %d passed, avg score %.2f</p>`,
					esc(comparison.Provider), esc(comparison.Model), comparison.Passed, comparison.AvgScore)
				if err != nil {
					return err
				}
			}
		}

		// History is prefetched independently of the last execution.
		for _, entry := range view.History {
			_, err = fmt.Fprintf(w, `<p class="history">%s · v%d · %d/%d passed</p>`,
				esc(entry.ExecutedAt), entry.Version, entry.Summary.Passed, entry.Summary.Total)
			if err != nil {
				return err
			}
		}

		_, err = io.WriteString(w, "</div>")
		return err
	})
}

func resultDetail(result domain.TestResult) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, `<section class="dialog result-detail">
<h2>%s</h2>
<dl>
<dt>Model</dt><dd>%s/%s</dd>
<dt>Score</dt><dd>%.2f</dd>
<dt>Actual output</dt><dd><pre>%s</pre></dd>
<dt>Failure reason</dt><dd>%s</dd>
</dl>
<button hx-post="/prompts/test/detail/close" hx-target="#screen">Close</button>
</section>`,
			esc(result.TestCaseName), esc(result.LLMProvider), esc(result.LLMModel),
			result.Score, esc(result.ActualOutput.Text()), esc(result.FailureReason))
		return err
	})
}
