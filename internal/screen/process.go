package screen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/yuin/goldmark"

	"github.com/felixbrock/flowdeck/internal/domain"
	"github.com/felixbrock/flowdeck/internal/persistence"
	"github.com/felixbrock/flowdeck/internal/sched"
)

// autoRefreshInterval drives instance and troubleshoot auto-refresh.
const autoRefreshInterval = 5 * time.Second

// ProcessScreen lists engine instances and definitions and issues the
// start/terminate commands. Lists are always refetched after a mutating
// call; the engine is the sole authority.
type ProcessScreen struct {
	repo ProcessRepo

	mu           sync.Mutex
	instances    []domain.ProcessInstance
	definitions  []domain.ProcessDefinition
	troubleshoot *domain.TroubleshootReport
	poller       *sched.Poller

	Banner Banner
}

func NewProcessScreen(repo ProcessRepo) *ProcessScreen {
	return &ProcessScreen{repo: repo}
}

// Refresh refetches both the instance and the definition list.
func (s *ProcessScreen) Refresh(ctx context.Context) {
	instances, err := s.repo.ReadInstances(ctx)
	if err != nil {
		s.setBanner(err)
		return
	}

	definitions, err := s.repo.ReadDefinitions(ctx)
	if err != nil {
		s.setBanner(err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.Banner.Clear()
	s.instances = *instances
	s.definitions = *definitions
}

func (s *ProcessScreen) Instances() []domain.ProcessInstance {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.instances
}

func (s *ProcessScreen) Definitions() []domain.ProcessDefinition {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.definitions
}

// Start parses the free-text variables field strictly. Malformed JSON
// aborts locally with a banner and issues no request at all.
func (s *ProcessScreen) Start(ctx context.Context, definitionId string, businessKey string, variablesJSON string) {
	variables := map[string]any{}
	if variablesJSON != "" {
		if err := json.Unmarshal([]byte(variablesJSON), &variables); err != nil {
			s.setBanner(fmt.Errorf("variables are not valid JSON: %w", err))
			return
		}
	}

	_, err := s.repo.StartInstance(ctx, persistence.StartInstanceProto{
		DefinitionId: definitionId,
		BusinessKey:  businessKey,
		Variables:    variables,
	})

	if err != nil {
		s.setBanner(err)
		return
	}

	s.Refresh(ctx)
}

// DeleteInstance terminates an instance. Without the explicit confirmation
// no call is issued.
func (s *ProcessScreen) DeleteInstance(ctx context.Context, id string, confirmed bool) {
	if !confirmed {
		return
	}

	if err := s.repo.DeleteInstance(ctx, id); err != nil {
		s.setBanner(err)
		return
	}

	s.Refresh(ctx)
}

func (s *ProcessScreen) DeleteDefinition(ctx context.Context, id string, confirmed bool) {
	if !confirmed {
		return
	}

	if err := s.repo.DeleteDefinition(ctx, id); err != nil {
		s.setBanner(err)
		return
	}

	s.Refresh(ctx)
}

// Troubleshoot loads the diagnostic report for one instance.
func (s *ProcessScreen) Troubleshoot(ctx context.Context, id string) {
	report, err := s.repo.Troubleshoot(ctx, id)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.Banner.Set(err)
		return
	}

	s.troubleshoot = report
}

func (s *ProcessScreen) TroubleshootReport() *domain.TroubleshootReport {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.troubleshoot
}

// DocumentationHTML fetches a definition's markdown documentation and
// renders it to HTML.
func (s *ProcessScreen) DocumentationHTML(ctx context.Context, id string) (string, error) {
	markdown, err := s.repo.ReadDocumentation(ctx, id)

	if err != nil {
		s.setBanner(err)
		return "", err
	}

	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(markdown), &buf); err != nil {
		s.setBanner(err)
		return "", err
	}

	return buf.String(), nil
}

// DiagramXml fetches a definition's BPMN XML for the embedded widget.
func (s *ProcessScreen) DiagramXml(ctx context.Context, id string) (string, error) {
	xml, err := s.repo.ReadXml(ctx, id)

	if err != nil {
		s.setBanner(err)
		return "", err
	}

	return xml, nil
}

// EnableAutoRefresh starts the 5s refresh poller. Enabling twice keeps a
// single poller.
func (s *ProcessScreen) EnableAutoRefresh(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.poller != nil {
		return
	}

	s.poller = sched.StartPoller(ctx, autoRefreshInterval, func(ctx context.Context) {
		s.Refresh(ctx)

		s.mu.Lock()
		report := s.troubleshoot
		s.mu.Unlock()

		if report != nil {
			s.Troubleshoot(ctx, report.InstanceId)
		}
	})
}

// DisableAutoRefresh stops and discards the poller. Safe without one.
func (s *ProcessScreen) DisableAutoRefresh() {
	s.mu.Lock()
	poller := s.poller
	s.poller = nil
	s.mu.Unlock()

	if poller != nil {
		poller.Stop()
	}
}

func (s *ProcessScreen) AutoRefreshEnabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.poller != nil
}

func (s *ProcessScreen) setBanner(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Banner.Set(err)
}
