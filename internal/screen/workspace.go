package screen

import (
	"context"
	"sync"

	"github.com/felixbrock/flowdeck/internal/diagram"
)

// WorkspaceScreen hosts the embedded BPMN widget for one definition. The
// previous widget instance is always disposed before a new definition is
// bound.
type WorkspaceScreen struct {
	repo ProcessRepo

	mu           sync.Mutex
	widget       *diagram.EmbeddedWidget
	binding      *diagram.Binding
	definitionId string
	editable     bool
	warnings     []string
	draft        string

	Banner Banner
}

func NewWorkspaceScreen(repo ProcessRepo) *WorkspaceScreen {
	return &WorkspaceScreen{repo: repo}
}

// Open fetches a definition's XML and binds a fresh widget to it. In edit
// mode, debounced change events land in the screen's draft.
func (s *WorkspaceScreen) Open(ctx context.Context, definitionId string, editable bool) {
	xml, err := s.repo.ReadXml(ctx, definitionId)
	if err != nil {
		s.setBanner(err)
		return
	}

	s.mu.Lock()
	if s.binding != nil {
		s.binding.Close()
	}

	s.widget = diagram.NewEmbeddedWidget()
	s.binding = diagram.Bind(s.widget)
	s.definitionId = definitionId
	s.editable = editable
	s.warnings = nil
	s.draft = ""
	binding := s.binding
	s.mu.Unlock()

	report, err := binding.Load(ctx, xml)

	s.mu.Lock()
	s.warnings = report.Warnings
	s.mu.Unlock()

	if err != nil {
		s.setBanner(err)
		return
	}

	if editable {
		binding.EnableEditing(func(serialized string) {
			s.mu.Lock()
			defer s.mu.Unlock()
			s.draft = serialized
		})
	}
}

// Changed records a change event posted by the page: the widget mirror is
// updated immediately, the draft follows after the debounce window.
func (s *WorkspaceScreen) Changed(ctx context.Context, serialized string) {
	s.mu.Lock()
	widget, binding := s.widget, s.binding
	s.mu.Unlock()

	if widget == nil || binding == nil {
		return
	}

	if err := widget.Apply(serialized); err != nil {
		s.setBanner(err)
		return
	}

	binding.Changed(ctx)
}

func (s *WorkspaceScreen) Draft() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft
}

func (s *WorkspaceScreen) Warnings() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.warnings
}

func (s *WorkspaceScreen) DefinitionId() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.definitionId
}

func (s *WorkspaceScreen) Editable() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.editable
}

// Close disposes the bound widget. Idempotent.
func (s *WorkspaceScreen) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.binding != nil {
		s.binding.Close()
		s.binding = nil
		s.widget = nil
	}
}

func (s *WorkspaceScreen) setBanner(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Banner.Set(err)
}
