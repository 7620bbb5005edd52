// Package screen holds the per-screen view state of the console. Each
// screen is an explicit state machine over a transient cache of backend
// records; the backend stays the single source of truth, so every mutation
// is followed by a refetch rather than an optimistic patch.
package screen

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/felixbrock/flowdeck/internal/domain"
	"github.com/felixbrock/flowdeck/internal/persistence"
)

type PromptRepo interface {
	Read(ctx context.Context) (*[]domain.Prompt, error)
	Insert(ctx context.Context, proto persistence.PromptProto) (*domain.Prompt, error)
	Update(ctx context.Context, id string, proto persistence.PromptProto) (*domain.Prompt, error)
	UpdateVersion(ctx context.Context, id string, version int, proto persistence.PromptProto) (*domain.Prompt, error)
	Delete(ctx context.Context, id string) error
	ReadVersions(ctx context.Context, id string) (*[]domain.VersionSummary, error)
	ReadVersion(ctx context.Context, id string, version int) (*domain.Prompt, error)
	RunTests(ctx context.Context, id string, proto persistence.TestRunProto) (*domain.TestExecution, error)
	ReadTestResults(ctx context.Context, id string, version int) (*domain.TestExecution, error)
	ReadTestHistory(ctx context.Context, id string) (*[]domain.ExecutionSummary, error)
}

type ProcessRepo interface {
	ReadInstances(ctx context.Context) (*[]domain.ProcessInstance, error)
	ReadDefinitions(ctx context.Context) (*[]domain.ProcessDefinition, error)
	StartInstance(ctx context.Context, proto persistence.StartInstanceProto) (*domain.ProcessInstance, error)
	DeleteInstance(ctx context.Context, id string) error
	DeleteDefinition(ctx context.Context, id string) error
	Troubleshoot(ctx context.Context, id string) (*domain.TroubleshootReport, error)
	ReadDocumentation(ctx context.Context, id string) (string, error)
	ReadXml(ctx context.Context, id string) (string, error)
}

type AnalysisRepo interface {
	Read(ctx context.Context, limit int, detailed bool) (*[]domain.AnalysisRecord, error)
}

// Banner is the single user-visible failure surface of a screen. Every
// caught error lands here; nothing is retried and the screen stays
// interactive. The banner carries its own lock because pollers write it
// while request handlers read it.
type Banner struct {
	mu      sync.Mutex
	message string
}

func (b *Banner) Set(err error) {
	slog.Error(fmt.Sprintf("Error occured: %s", err.Error()))

	b.mu.Lock()
	defer b.mu.Unlock()
	b.message = err.Error()
}

func (b *Banner) SetMsg(msg string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.message = msg
}

func (b *Banner) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.message = ""
}

func (b *Banner) Active() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.message != ""
}

func (b *Banner) Message() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.message
}
