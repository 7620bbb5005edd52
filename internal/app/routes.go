package app

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/felixbrock/flowdeck/internal/component"
	"github.com/felixbrock/flowdeck/internal/diagram"
	"github.com/felixbrock/flowdeck/internal/domain"
	"github.com/felixbrock/flowdeck/internal/screen"
)

// background is the context for work that outlives a single request, like
// pollers and debounced saves.
func (a App) background() context.Context {
	return context.Background()
}

func (a App) routes(mux *http.ServeMux) {
	// Screens.
	mux.Handle("GET /{$}", ComponentHandler(a.dashboard))
	mux.Handle("GET /prompts", ComponentHandler(a.promptList))
	mux.Handle("GET /processes", ComponentHandler(a.processList))
	mux.Handle("GET /analysis", ComponentHandler(a.analysisList))
	mux.HandleFunc("GET /analysis/export.csv", a.analysisExport)
	mux.Handle("GET /workspace", ComponentHandler(a.workspace))

	// Dashboard.
	mux.Handle("POST /dashboard/auto-refresh", ComponentHandler(a.dashboardAutoRefresh))

	// Prompt editing.
	mux.Handle("POST /prompts/new", ComponentHandler(a.promptNew))
	mux.Handle("POST /prompts/{id}/edit", ComponentHandler(a.promptEdit))
	mux.Handle("POST /prompts/save", ComponentHandler(a.promptSave))
	mux.Handle("POST /prompts/cancel-edit", ComponentHandler(a.promptCancelEdit))
	mux.Handle("POST /prompts/{id}/select-version", ComponentHandler(a.promptSelectVersion))
	mux.Handle("DELETE /prompts/{id}", ComponentHandler(a.promptDelete))

	// Test-case authoring inside the open draft.
	mux.Handle("POST /prompts/test-case/add", ComponentHandler(a.testCaseAdd))
	mux.Handle("DELETE /prompts/test-case/{id}", ComponentHandler(a.testCaseRemove))
	mux.Handle("POST /prompts/test-case/{id}/name", ComponentHandler(a.testCaseName))
	mux.Handle("POST /prompts/test-case/{id}/input", ComponentHandler(a.testCaseInput))
	mux.Handle("POST /prompts/test-case/{id}/scoring-logic", ComponentHandler(a.testCaseScoringLogic))
	mux.Handle("POST /prompts/test-case/{id}/expected", ComponentHandler(a.testCaseExpected))
	mux.Handle("POST /prompts/test-case/{id}/toggle", ComponentHandler(a.testCaseToggle))
	mux.Handle("POST /prompts/test-case/{id}/example/{key}", ComponentHandler(a.testCaseExampleConfirm))
	mux.Handle("POST /prompts/test-case/{id}/example/{key}/apply", ComponentHandler(a.testCaseExampleApply))

	// Test dialog.
	mux.Handle("POST /prompts/{id}/test", ComponentHandler(a.testOpen))
	mux.Handle("POST /prompts/test/tab/{tab}", ComponentHandler(a.testTab))
	mux.Handle("POST /prompts/test/select/{id}", ComponentHandler(a.testSelect))
	mux.Handle("POST /prompts/test/llm-config", ComponentHandler(a.testAddLLMConfig))
	mux.Handle("DELETE /prompts/test/llm-config/{index}", ComponentHandler(a.testRemoveLLMConfig))
	mux.Handle("POST /prompts/test/comparison", ComponentHandler(a.testComparison))
	mux.Handle("POST /prompts/test/run", ComponentHandler(a.testRun))
	mux.Handle("POST /prompts/test/detail/{id}", ComponentHandler(a.testDetail))
	mux.Handle("POST /prompts/test/detail/close", ComponentHandler(a.testDetailClose))
	mux.Handle("POST /prompts/test/close", ComponentHandler(a.testClose))

	// Process commands.
	mux.Handle("POST /processes/start/{id}", ComponentHandler(a.processStartForm))
	mux.Handle("POST /processes/instances/start", ComponentHandler(a.processStart))
	mux.Handle("DELETE /processes/instances/{id}", ComponentHandler(a.processDeleteInstance))
	mux.Handle("DELETE /processes/definitions/{id}", ComponentHandler(a.processDeleteDefinition))
	mux.Handle("POST /processes/instances/{id}/troubleshoot", ComponentHandler(a.processTroubleshoot))
	mux.Handle("GET /processes/definitions/{id}/documentation", ComponentHandler(a.processDocumentation))
	mux.Handle("POST /processes/auto-refresh", ComponentHandler(a.processAutoRefresh))

	// Analysis browsing.
	mux.Handle("POST /analysis/filter", ComponentHandler(a.analysisFilter))
	mux.Handle("POST /analysis/page/{direction}", ComponentHandler(a.analysisPage))

	// Diagram workspace.
	mux.Handle("POST /workspace/changed", ComponentHandler(a.workspaceChanged))
	mux.Handle("POST /workspace/dispose", ComponentHandler(a.workspaceDispose))
}

// --- dashboard ---

func (a App) dashboard(w http.ResponseWriter, r *http.Request) *ComponentResponse {
	a.Dashboard.Refresh(r.Context())
	return ok(component.Layout("Dashboard", a.dashboardComponent()))
}

func (a App) dashboardAutoRefresh(w http.ResponseWriter, r *http.Request) *ComponentResponse {
	if r.URL.Query().Get("enabled") == "true" {
		// Poll lifetime is the app's, not the request's.
		a.Dashboard.EnableAutoRefresh(a.background())
	} else {
		a.Dashboard.DisableAutoRefresh()
	}
	return ok(a.dashboardComponent())
}

func (a App) dashboardComponent() component.Component {
	return component.Dashboard(a.Dashboard.Counters(), a.Dashboard.AutoRefreshEnabled(), a.Dashboard.Banner.Message())
}

// --- prompts ---

func (a App) promptList(w http.ResponseWriter, r *http.Request) *ComponentResponse {
	a.Prompts.Refresh(r.Context())
	return ok(component.Layout("Prompts", a.promptComponent()))
}

func (a App) promptComponent() component.Component {
	if draft := a.Prompts.Editing(); draft != nil {
		return component.PromptEditor(*draft, screen.Examples(), a.Prompts.Banner.Message())
	}

	var cards []component.PromptCard
	for _, p := range a.Prompts.Prompts() {
		selected, _ := a.Prompts.SelectedVersion(p.Id)
		cards = append(cards, component.PromptCard{
			Prompt:          p,
			Display:         a.Prompts.DisplayPrompt(p),
			Versions:        a.Prompts.Versions(p.Id),
			SelectedVersion: selected,
		})
	}
	return component.PromptList(cards, a.Prompts.Banner.Message())
}

func (a App) promptNew(w http.ResponseWriter, r *http.Request) *ComponentResponse {
	a.Prompts.OpenCreate()
	return ok(a.promptComponent())
}

func (a App) promptEdit(w http.ResponseWriter, r *http.Request) *ComponentResponse {
	if err := a.Prompts.OpenEdit(r.PathValue("id")); err != nil {
		return errResp(get404(), err)
	}
	return ok(a.promptComponent())
}

func (a App) promptSave(w http.ResponseWriter, r *http.Request) *ComponentResponse {
	if err := r.ParseForm(); err != nil {
		return errResp(get400(), err)
	}

	a.Prompts.UpdateDraftDetails(
		r.PostFormValue("name"),
		domain.PromptType(r.PostFormValue("type")),
		r.PostFormValue("text"),
		r.PostForm["tags"])

	a.Prompts.Save(r.Context())
	return ok(a.promptComponent())
}

func (a App) promptCancelEdit(w http.ResponseWriter, r *http.Request) *ComponentResponse {
	a.Prompts.CloseEdit()
	return ok(a.promptComponent())
}

func (a App) promptSelectVersion(w http.ResponseWriter, r *http.Request) *ComponentResponse {
	id := r.PathValue("id")
	raw := r.PostFormValue("version")

	if raw == "" {
		a.Prompts.ClearVersionSelection(id)
		return ok(a.promptComponent())
	}

	version, err := strconv.Atoi(raw)
	if err != nil {
		return errResp(get400(), err)
	}

	a.Prompts.SelectVersion(r.Context(), id, version)
	a.Prompts.LoadVersions(r.Context(), id)
	return ok(a.promptComponent())
}

func (a App) promptDelete(w http.ResponseWriter, r *http.Request) *ComponentResponse {
	confirmed := r.URL.Query().Get("confirmed") == "true"
	a.Prompts.DeletePrompt(r.Context(), r.PathValue("id"), confirmed)
	return ok(a.promptComponent())
}

// --- test cases ---

func (a App) testCaseAdd(w http.ResponseWriter, r *http.Request) *ComponentResponse {
	a.Prompts.AddTestCase()
	return ok(a.promptComponent())
}

func (a App) testCaseRemove(w http.ResponseWriter, r *http.Request) *ComponentResponse {
	a.Prompts.RemoveTestCase(r.PathValue("id"))
	return ok(a.promptComponent())
}

func (a App) testCaseName(w http.ResponseWriter, r *http.Request) *ComponentResponse {
	id := r.PathValue("id")
	a.Prompts.SetTestCaseName(id, r.PostFormValue(fmt.Sprintf("tc-name-%s", id)))
	return ok(a.promptComponent())
}

func (a App) testCaseScoringLogic(w http.ResponseWriter, r *http.Request) *ComponentResponse {
	id := r.PathValue("id")
	a.Prompts.SetTestCaseScoringLogic(id, r.PostFormValue(fmt.Sprintf("tc-scoring-%s", id)))
	return ok(a.promptComponent())
}

func (a App) testCaseInput(w http.ResponseWriter, r *http.Request) *ComponentResponse {
	id := r.PathValue("id")
	a.Prompts.SetTestCaseInput(id, r.PostFormValue(fmt.Sprintf("tc-input-%s", id)))
	return ok(a.promptComponent())
}

func (a App) testCaseExpected(w http.ResponseWriter, r *http.Request) *ComponentResponse {
	id := r.PathValue("id")
	a.Prompts.SetTestCaseExpectedOutput(id, r.PostFormValue(fmt.Sprintf("tc-expected-%s", id)))
	return ok(a.promptComponent())
}

func (a App) testCaseToggle(w http.ResponseWriter, r *http.Request) *ComponentResponse {
	a.Prompts.ToggleTestCase(r.PathValue("id"))
	return ok(a.promptComponent())
}

func (a App) testCaseExampleConfirm(w http.ResponseWriter, r *http.Request) *ComponentResponse {
	return ok(component.ExampleConfirm(r.PathValue("id"), r.PathValue("key")))
}

func (a App) testCaseExampleApply(w http.ResponseWriter, r *http.Request) *ComponentResponse {
	overwrite := r.URL.Query().Get("overwrite") == "true"

	if err := a.Prompts.ApplyExample(r.PathValue("id"), r.PathValue("key"), overwrite); err != nil {
		return errResp(get400(), err)
	}
	return ok(a.promptComponent())
}

// --- test dialog ---

func (a App) testOpen(w http.ResponseWriter, r *http.Request) *ComponentResponse {
	id := r.PathValue("id")
	prompt, found := a.Prompts.Prompt(id)
	if !found {
		return errResp(get404(), fmt.Errorf("unknown prompt %s", id))
	}

	a.TestDialog.Open(r.Context(), a.Prompts.DisplayPrompt(prompt))
	return ok(a.testDialogComponent())
}

func (a App) testDialogComponent() component.Component {
	return component.TestDialog(component.TestDialogView{
		Prompt:      a.TestDialog.Prompt(),
		Tab:         a.TestDialog.Tab(),
		SelectedIds: a.TestDialog.SelectedTestCases(),
		LLMConfigs:  a.TestDialog.LLMConfigs(),
		Comparison:  a.TestDialog.ComparisonEnabled(),
		Execution:   a.TestDialog.LastExecution(),
		History:     a.TestDialog.History(),
		Detail:      a.TestDialog.Detail(),
		Banner:      a.TestDialog.Banner.Message(),
	})
}

func (a App) testTab(w http.ResponseWriter, r *http.Request) *ComponentResponse {
	a.TestDialog.SelectTab(screen.DialogTab(r.PathValue("tab")))
	return ok(a.testDialogComponent())
}

func (a App) testSelect(w http.ResponseWriter, r *http.Request) *ComponentResponse {
	a.TestDialog.ToggleTestCase(r.PathValue("id"))
	return ok(a.testDialogComponent())
}

func (a App) testAddLLMConfig(w http.ResponseWriter, r *http.Request) *ComponentResponse {
	if err := r.ParseForm(); err != nil {
		return errResp(get400(), err)
	}

	temperature, _ := strconv.ParseFloat(r.PostFormValue("temperature"), 64)
	maxTokens, _ := strconv.Atoi(r.PostFormValue("max_tokens"))

	a.TestDialog.AddLLMConfig(domain.LLMConfig{
		Provider:    r.PostFormValue("provider"),
		Model:       r.PostFormValue("model"),
		Temperature: temperature,
		MaxTokens:   maxTokens,
		ApiKey:      r.PostFormValue("api_key"),
	})
	return ok(a.testDialogComponent())
}

func (a App) testRemoveLLMConfig(w http.ResponseWriter, r *http.Request) *ComponentResponse {
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		return errResp(get400(), err)
	}

	a.TestDialog.RemoveLLMConfig(index)
	return ok(a.testDialogComponent())
}

func (a App) testComparison(w http.ResponseWriter, r *http.Request) *ComponentResponse {
	a.TestDialog.SetComparison(r.PostFormValue("comparison") != "")
	return ok(a.testDialogComponent())
}

func (a App) testRun(w http.ResponseWriter, r *http.Request) *ComponentResponse {
	a.TestDialog.Run(r.Context())
	return ok(a.testDialogComponent())
}

func (a App) testDetail(w http.ResponseWriter, r *http.Request) *ComponentResponse {
	a.TestDialog.OpenDetail(r.PathValue("id"))
	return ok(a.testDialogComponent())
}

func (a App) testDetailClose(w http.ResponseWriter, r *http.Request) *ComponentResponse {
	a.TestDialog.CloseDetail()
	return ok(a.testDialogComponent())
}

func (a App) testClose(w http.ResponseWriter, r *http.Request) *ComponentResponse {
	a.TestDialog.Close()
	return ok(a.promptComponent())
}

// --- processes ---

func (a App) processList(w http.ResponseWriter, r *http.Request) *ComponentResponse {
	a.Processes.Refresh(r.Context())
	return ok(component.Layout("Processes", a.processComponent()))
}

func (a App) processComponent() component.Component {
	return component.ProcessScreen(component.ProcessView{
		Instances:    a.Processes.Instances(),
		Definitions:  a.Processes.Definitions(),
		Troubleshoot: a.Processes.TroubleshootReport(),
		AutoRefresh:  a.Processes.AutoRefreshEnabled(),
		Banner:       a.Processes.Banner.Message(),
	})
}

func (a App) processStartForm(w http.ResponseWriter, r *http.Request) *ComponentResponse {
	id := r.PathValue("id")
	for _, definition := range a.Processes.Definitions() {
		if definition.Id == id {
			return ok(component.StartForm(definition, ""))
		}
	}
	return errResp(get404(), fmt.Errorf("unknown definition %s", id))
}

func (a App) processStart(w http.ResponseWriter, r *http.Request) *ComponentResponse {
	if err := r.ParseForm(); err != nil {
		return errResp(get400(), err)
	}

	a.Processes.Start(r.Context(),
		r.PostFormValue("definition_id"),
		r.PostFormValue("business_key"),
		r.PostFormValue("variables"))
	return ok(a.processComponent())
}

func (a App) processDeleteInstance(w http.ResponseWriter, r *http.Request) *ComponentResponse {
	confirmed := r.URL.Query().Get("confirmed") == "true"
	a.Processes.DeleteInstance(r.Context(), r.PathValue("id"), confirmed)
	return ok(a.processComponent())
}

func (a App) processDeleteDefinition(w http.ResponseWriter, r *http.Request) *ComponentResponse {
	confirmed := r.URL.Query().Get("confirmed") == "true"
	a.Processes.DeleteDefinition(r.Context(), r.PathValue("id"), confirmed)
	return ok(a.processComponent())
}

func (a App) processTroubleshoot(w http.ResponseWriter, r *http.Request) *ComponentResponse {
	a.Processes.Troubleshoot(r.Context(), r.PathValue("id"))
	return ok(a.processComponent())
}

func (a App) processDocumentation(w http.ResponseWriter, r *http.Request) *ComponentResponse {
	id := r.PathValue("id")
	html, err := a.Processes.DocumentationHTML(r.Context(), id)
	if err != nil {
		return ok(component.Layout("Documentation", a.processComponent()))
	}
	return ok(component.Layout("Documentation", component.Documentation(id, html)))
}

func (a App) processAutoRefresh(w http.ResponseWriter, r *http.Request) *ComponentResponse {
	if r.URL.Query().Get("enabled") == "true" {
		a.Processes.EnableAutoRefresh(a.background())
	} else {
		a.Processes.DisableAutoRefresh()
	}
	return ok(a.processComponent())
}

// --- analysis ---

func (a App) analysisList(w http.ResponseWriter, r *http.Request) *ComponentResponse {
	a.Analysis.SetDetailed(r.URL.Query().Get("detailed") == "true")
	if limit, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil {
		a.Analysis.SetLimit(limit)
	}

	a.Analysis.Refresh(r.Context())
	return ok(component.Layout("Analysis", a.analysisComponent()))
}

func (a App) analysisComponent() component.Component {
	records, page, pages := a.Analysis.Page()
	return component.AnalysisScreen(component.AnalysisView{
		Records: records,
		Page:    page,
		Pages:   pages,
		Filter:  a.Analysis.Filter(),
		Banner:  a.Analysis.Banner.Message(),
	})
}

func (a App) analysisFilter(w http.ResponseWriter, r *http.Request) *ComponentResponse {
	a.Analysis.SetFilter(r.PostFormValue("filter"))
	return ok(a.analysisComponent())
}

func (a App) analysisPage(w http.ResponseWriter, r *http.Request) *ComponentResponse {
	switch r.PathValue("direction") {
	case "next":
		a.Analysis.NextPage()
	case "prev":
		a.Analysis.PrevPage()
	}
	return ok(a.analysisComponent())
}

func (a App) analysisExport(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="analysis.csv"`)

	if err := a.Analysis.ExportCSV(w); err != nil {
		http.Error(w, "export failed", http.StatusInternalServerError)
	}
}

// --- workspace ---

func (a App) workspace(w http.ResponseWriter, r *http.Request) *ComponentResponse {
	definitionId := r.URL.Query().Get("definition")
	editable := r.URL.Query().Get("mode") == "edit"

	if definitionId != "" {
		a.Workspace.Open(r.Context(), definitionId, editable)
	}

	return ok(component.Layout("Workspace", component.Workspace(
		a.Workspace.DefinitionId(),
		a.Workspace.Editable(),
		a.Workspace.Warnings(),
		diagram.LoaderScript("diagram-canvas", a.Workspace.Editable()),
		a.Workspace.Banner.Message())))
}

func (a App) workspaceChanged(w http.ResponseWriter, r *http.Request) *ComponentResponse {
	if err := r.ParseForm(); err != nil {
		return errResp(get400(), err)
	}

	// Change events keep flowing after the request ends; the debounced
	// export must not inherit the request's cancellation.
	a.Workspace.Changed(a.background(), r.PostFormValue("xml"))
	return &ComponentResponse{Code: 200, Message: "OK"}
}

func (a App) workspaceDispose(w http.ResponseWriter, r *http.Request) *ComponentResponse {
	a.Workspace.Close()
	return &ComponentResponse{Code: 200, Message: "OK"}
}
