package screen

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/felixbrock/flowdeck/internal/domain"
	"github.com/felixbrock/flowdeck/internal/persistence"
)

// EditTarget is the explicit routing decision of a prompt save.
type EditTarget int

const (
	// TargetCreate inserts a brand-new prompt.
	TargetCreate EditTarget = iota
	// TargetNewVersion appends a new version to an existing prompt.
	TargetNewVersion
	// TargetInPlace amends the version that was open for editing.
	TargetInPlace
)

// PromptDraft is the edit dialog's working copy. EditingVersion captures
// which version was on display when the dialog opened; it stays fixed for
// the dialog's lifetime.
type PromptDraft struct {
	PromptId       string
	EditingVersion int
	Proto          persistence.PromptProto
}

// PromptScreen manages the prompt list, the per-prompt version selection
// override and the edit dialog.
type PromptScreen struct {
	repo PromptRepo

	mu               sync.Mutex
	prompts          []domain.Prompt
	selectedVersions map[string]int
	versionCache     map[string]map[int]domain.Prompt
	versionLists     map[string][]domain.VersionSummary
	editing          *PromptDraft

	Banner Banner
}

func NewPromptScreen(repo PromptRepo) *PromptScreen {
	return &PromptScreen{
		repo:             repo,
		selectedVersions: map[string]int{},
		versionCache:     map[string]map[int]domain.Prompt{},
		versionLists:     map[string][]domain.VersionSummary{},
	}
}

// Refresh refetches the prompt list and each prompt's version history so
// the version selector renders without a prior selection. The list is the
// screen's source of truth; it is never patched locally.
func (s *PromptScreen) Refresh(ctx context.Context) {
	records, err := s.repo.Read(ctx)
	if err != nil {
		s.setBanner(err)
		return
	}

	lists := map[string][]domain.VersionSummary{}
	for _, p := range *records {
		summaries, err := s.repo.ReadVersions(ctx, p.Id)
		if err != nil {
			// The card falls back to the last known history; a dead
			// dropdown must not take the whole list down.
			s.mu.Lock()
			if known, ok := s.versionLists[p.Id]; ok {
				lists[p.Id] = known
			}
			s.mu.Unlock()
			continue
		}
		lists[p.Id] = *summaries
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.Banner.Clear()
	s.prompts = *records
	s.versionLists = lists
}

func (s *PromptScreen) Prompts() []domain.Prompt {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.prompts
}

func (s *PromptScreen) Editing() *PromptDraft {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.editing
}

// DisplayPrompt resolves what a prompt card shows: the cached content of an
// explicitly selected non-latest version, or the latest prompt object when
// no selection exists or the selection was never fetched.
func (s *PromptScreen) DisplayPrompt(p domain.Prompt) domain.Prompt {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.displayPromptLocked(p)
}

func (s *PromptScreen) displayPromptLocked(p domain.Prompt) domain.Prompt {
	version, selected := s.selectedVersions[p.Id]
	if !selected {
		return p
	}

	cached, ok := s.versionCache[p.Id][version]
	if !ok {
		return p
	}

	return cached
}

// SelectVersion records an explicit version choice and fetches that
// version's content. A failed fetch keeps the selection; the card falls
// back to the latest version until the cache is filled.
func (s *PromptScreen) SelectVersion(ctx context.Context, promptId string, version int) {
	s.mu.Lock()
	s.selectedVersions[promptId] = version
	s.mu.Unlock()

	record, err := s.repo.ReadVersion(ctx, promptId, version)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.Banner.Set(err)
		return
	}

	if s.versionCache[promptId] == nil {
		s.versionCache[promptId] = map[int]domain.Prompt{}
	}
	s.versionCache[promptId][version] = *record
}

// ClearVersionSelection drops the override so the card shows the latest
// version again.
func (s *PromptScreen) ClearVersionSelection(promptId string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.selectedVersions, promptId)
}

// SelectedVersion reports the explicit selection for a prompt, if any.
func (s *PromptScreen) SelectedVersion(promptId string) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	version, ok := s.selectedVersions[promptId]
	return version, ok
}

// LoadVersions fetches the version history for the selector dropdown.
func (s *PromptScreen) LoadVersions(ctx context.Context, promptId string) {
	records, err := s.repo.ReadVersions(ctx, promptId)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.Banner.Set(err)
		return
	}

	s.versionLists[promptId] = *records
}

func (s *PromptScreen) Versions(promptId string) []domain.VersionSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.versionLists[promptId]
}

// OpenCreate opens the dialog on an empty draft.
func (s *PromptScreen) OpenCreate() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.editing = &PromptDraft{
		Proto: persistence.PromptProto{Type: domain.PromptTypeSimple},
	}
}

// OpenEdit opens the dialog on whichever version the card currently shows
// and pins that version as the edit target candidate.
func (s *PromptScreen) OpenEdit(promptId string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.prompts {
		if p.Id != promptId {
			continue
		}

		display := s.displayPromptLocked(p)
		s.editing = &PromptDraft{
			PromptId:       promptId,
			EditingVersion: display.Version,
			Proto:          protoFrom(display),
		}
		return nil
	}

	return fmt.Errorf("unknown prompt %s", promptId)
}

// UpdateDraftDetails applies the editor's scalar fields to the open draft.
func (s *PromptScreen) UpdateDraftDetails(name string, promptType domain.PromptType, text string, tags []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.editing == nil {
		return
	}

	s.editing.Proto.Name = name
	s.editing.Proto.Type = promptType
	s.editing.Proto.Text = text
	s.editing.Proto.Tags = tags
}

// Prompt returns the latest record of one prompt from the last fetched
// list.
func (s *PromptScreen) Prompt(id string) (domain.Prompt, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.prompts {
		if p.Id == id {
			return p, true
		}
	}
	return domain.Prompt{}, false
}

func (s *PromptScreen) CloseEdit() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.editing = nil
}

// Target reports how a save of the open draft will be routed. A specific
// version is only amended in place when the dialog was opened on a version
// AND an explicit selection exists for the prompt. Opening edit on a card
// that shows the latest version without ever touching the selector
// therefore always creates a new version; that asymmetry matches the shipped
// behavior of the console this replaces.
func (s *PromptScreen) Target() EditTarget {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.targetLocked()
}

func (s *PromptScreen) targetLocked() EditTarget {
	if s.editing == nil || s.editing.PromptId == "" {
		return TargetCreate
	}

	if s.editing.EditingVersion > 0 {
		if _, selected := s.selectedVersions[s.editing.PromptId]; selected {
			return TargetInPlace
		}
	}

	return TargetNewVersion
}

// Save persists the open draft along the resolved edit target and refetches
// whatever the target invalidated. The dialog closes on success and stays
// open showing a banner on failure.
func (s *PromptScreen) Save(ctx context.Context) {
	s.mu.Lock()

	if s.editing == nil {
		s.mu.Unlock()
		s.Banner.Set(errors.New("no prompt edit in progress"))
		return
	}

	draft := *s.editing
	target := s.targetLocked()
	s.mu.Unlock()

	switch target {
	case TargetCreate:
		_, err := s.repo.Insert(ctx, draft.Proto)
		if err != nil {
			s.setBanner(err)
			return
		}

	case TargetNewVersion:
		_, err := s.repo.Update(ctx, draft.PromptId, draft.Proto)
		if err != nil {
			s.setBanner(err)
			return
		}

		// The newly created latest version is what the card should show.
		s.mu.Lock()
		delete(s.selectedVersions, draft.PromptId)
		s.mu.Unlock()

	case TargetInPlace:
		record, err := s.repo.UpdateVersion(ctx, draft.PromptId, draft.EditingVersion, draft.Proto)
		if err != nil {
			s.setBanner(err)
			return
		}

		s.mu.Lock()
		if s.versionCache[draft.PromptId] == nil {
			s.versionCache[draft.PromptId] = map[int]domain.Prompt{}
		}
		s.versionCache[draft.PromptId][draft.EditingVersion] = *record

		refreshList := false
		for _, p := range s.prompts {
			if p.Id == draft.PromptId && p.Version == draft.EditingVersion {
				refreshList = true
			}
		}
		s.mu.Unlock()

		s.CloseEdit()
		if refreshList {
			s.Refresh(ctx)
		}
		return
	}

	s.CloseEdit()
	s.Refresh(ctx)
}

// DeletePrompt issues the destructive call only after an explicit
// confirmation and refetches the list afterwards.
func (s *PromptScreen) DeletePrompt(ctx context.Context, id string, confirmed bool) {
	if !confirmed {
		return
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.setBanner(err)
		return
	}

	s.mu.Lock()
	delete(s.selectedVersions, id)
	delete(s.versionCache, id)
	delete(s.versionLists, id)
	s.mu.Unlock()

	s.Refresh(ctx)
}

func (s *PromptScreen) setBanner(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Banner.Set(err)
}

func protoFrom(p domain.Prompt) persistence.PromptProto {
	return persistence.PromptProto{
		Name:                 p.Name,
		Text:                 p.Text,
		Type:                 p.Type,
		Tags:                 append([]string(nil), p.Tags...),
		ToolDependencies:     append([]string(nil), p.ToolDependencies...),
		WorkflowDependencies: append([]string(nil), p.WorkflowDependencies...),
		Metadata:             cloneMetadata(p.Metadata),
		TestCases:            append([]domain.TestCase(nil), p.TestCases...),
	}
}

func cloneMetadata(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	clone := make(map[string]string, len(m))
	for k, v := range m {
		clone[k] = v
	}
	return clone
}

func tempTestCaseId() string {
	return fmt.Sprintf("tmp-%s", uuid.New().String())
}
