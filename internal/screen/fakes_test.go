package screen

import (
	"context"
	"errors"
	"sync"

	"github.com/felixbrock/flowdeck/internal/domain"
	"github.com/felixbrock/flowdeck/internal/persistence"
)

// fakePromptRepo counts every backend call so tests can assert which
// endpoints a transition touched.
type fakePromptRepo struct {
	mu sync.Mutex

	prompts  []domain.Prompt
	versions map[string]map[int]domain.Prompt
	history  []domain.ExecutionSummary
	results  *domain.TestExecution
	runResp  *domain.TestExecution

	err        error
	historyErr error
	resultsErr error

	reads          int
	inserts        int
	updates        int
	versionUpdates int
	deletes        int
	runs           int

	lastUpdateId      string
	lastUpdateVersion int
	lastRunProto      persistence.TestRunProto
}

func newFakePromptRepo(prompts ...domain.Prompt) *fakePromptRepo {
	return &fakePromptRepo{
		prompts:  prompts,
		versions: map[string]map[int]domain.Prompt{},
	}
}

func (f *fakePromptRepo) Read(ctx context.Context) (*[]domain.Prompt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.reads++
	if f.err != nil {
		return nil, f.err
	}
	prompts := append([]domain.Prompt(nil), f.prompts...)
	return &prompts, nil
}

func (f *fakePromptRepo) Insert(ctx context.Context, proto persistence.PromptProto) (*domain.Prompt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.inserts++
	if f.err != nil {
		return nil, f.err
	}

	created := domain.Prompt{
		Id:        "p-new",
		Name:      proto.Name,
		Text:      proto.Text,
		Type:      proto.Type,
		Version:   1,
		TestCases: proto.TestCases,
	}
	f.prompts = append(f.prompts, created)
	return &created, nil
}

func (f *fakePromptRepo) Update(ctx context.Context, id string, proto persistence.PromptProto) (*domain.Prompt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.updates++
	f.lastUpdateId = id
	if f.err != nil {
		return nil, f.err
	}

	for i := range f.prompts {
		if f.prompts[i].Id == id {
			f.prompts[i].Name = proto.Name
			f.prompts[i].Text = proto.Text
			f.prompts[i].Version++
			f.prompts[i].TestCases = proto.TestCases
			updated := f.prompts[i]
			return &updated, nil
		}
	}
	return nil, errors.New("unknown prompt")
}

func (f *fakePromptRepo) UpdateVersion(ctx context.Context, id string, version int, proto persistence.PromptProto) (*domain.Prompt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.versionUpdates++
	f.lastUpdateId = id
	f.lastUpdateVersion = version
	if f.err != nil {
		return nil, f.err
	}

	amended := domain.Prompt{Id: id, Name: proto.Name, Text: proto.Text, Type: proto.Type, Version: version, TestCases: proto.TestCases}
	if f.versions[id] == nil {
		f.versions[id] = map[int]domain.Prompt{}
	}
	f.versions[id][version] = amended

	for i := range f.prompts {
		if f.prompts[i].Id == id && f.prompts[i].Version == version {
			f.prompts[i] = amended
		}
	}
	return &amended, nil
}

func (f *fakePromptRepo) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.deletes++
	if f.err != nil {
		return f.err
	}

	for i := range f.prompts {
		if f.prompts[i].Id == id {
			f.prompts = append(f.prompts[:i], f.prompts[i+1:]...)
			break
		}
	}
	return nil
}

func (f *fakePromptRepo) ReadVersions(ctx context.Context, id string) (*[]domain.VersionSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var summaries []domain.VersionSummary
	for version := range f.versions[id] {
		summaries = append(summaries, domain.VersionSummary{Version: version})
	}
	return &summaries, nil
}

func (f *fakePromptRepo) ReadVersion(ctx context.Context, id string, version int) (*domain.Prompt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return nil, f.err
	}

	record, ok := f.versions[id][version]
	if !ok {
		return nil, persistence.ErrNotFound
	}
	return &record, nil
}

func (f *fakePromptRepo) RunTests(ctx context.Context, id string, proto persistence.TestRunProto) (*domain.TestExecution, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.runs++
	f.lastRunProto = proto
	if f.err != nil {
		return nil, f.err
	}
	if f.runResp != nil {
		return f.runResp, nil
	}
	return &domain.TestExecution{}, nil
}

func (f *fakePromptRepo) ReadTestResults(ctx context.Context, id string, version int) (*domain.TestExecution, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.resultsErr != nil {
		return nil, f.resultsErr
	}
	return f.results, nil
}

func (f *fakePromptRepo) ReadTestHistory(ctx context.Context, id string) (*[]domain.ExecutionSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.historyErr != nil {
		return nil, f.historyErr
	}
	history := append([]domain.ExecutionSummary(nil), f.history...)
	return &history, nil
}

type fakeProcessRepo struct {
	mu sync.Mutex

	instances   []domain.ProcessInstance
	definitions []domain.ProcessDefinition
	report      *domain.TroubleshootReport
	xml         string
	markdown    string
	err         error

	instanceReads   int
	definitionReads int
	starts          int
	instanceDeletes int
	defDeletes      int

	lastStart persistence.StartInstanceProto
}

func (f *fakeProcessRepo) ReadInstances(ctx context.Context) (*[]domain.ProcessInstance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.instanceReads++
	if f.err != nil {
		return nil, f.err
	}
	instances := append([]domain.ProcessInstance(nil), f.instances...)
	return &instances, nil
}

func (f *fakeProcessRepo) ReadDefinitions(ctx context.Context) (*[]domain.ProcessDefinition, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.definitionReads++
	if f.err != nil {
		return nil, f.err
	}
	definitions := append([]domain.ProcessDefinition(nil), f.definitions...)
	return &definitions, nil
}

func (f *fakeProcessRepo) StartInstance(ctx context.Context, proto persistence.StartInstanceProto) (*domain.ProcessInstance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.starts++
	f.lastStart = proto
	if f.err != nil {
		return nil, f.err
	}
	started := domain.ProcessInstance{Id: "i-new", DefinitionId: proto.DefinitionId, State: "active"}
	f.instances = append(f.instances, started)
	return &started, nil
}

func (f *fakeProcessRepo) DeleteInstance(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.instanceDeletes++
	return f.err
}

func (f *fakeProcessRepo) DeleteDefinition(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.defDeletes++
	return f.err
}

func (f *fakeProcessRepo) Troubleshoot(ctx context.Context, id string) (*domain.TroubleshootReport, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return nil, f.err
	}
	if f.report == nil {
		return &domain.TroubleshootReport{InstanceId: id}, nil
	}
	return f.report, nil
}

func (f *fakeProcessRepo) ReadDocumentation(ctx context.Context, id string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.markdown, f.err
}

func (f *fakeProcessRepo) ReadXml(ctx context.Context, id string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.xml, f.err
}

func (f *fakeProcessRepo) counts() (starts, instanceReads, definitionReads int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.starts, f.instanceReads, f.definitionReads
}

type fakeAnalysisRepo struct {
	mu      sync.Mutex
	records []domain.AnalysisRecord
	err     error
	reads   int
}

func (f *fakeAnalysisRepo) Read(ctx context.Context, limit int, detailed bool) (*[]domain.AnalysisRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.reads++
	if f.err != nil {
		return nil, f.err
	}

	records := f.records
	if limit < len(records) {
		records = records[:limit]
	}
	out := append([]domain.AnalysisRecord(nil), records...)
	return &out, nil
}
