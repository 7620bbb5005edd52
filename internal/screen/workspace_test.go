package screen

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const workspaceXml = `<?xml version="1.0" encoding="UTF-8"?>
<bpmn:definitions xmlns:bpmn="http://www.omg.org/spec/BPMN/20100524/MODEL"
  xmlns:bpmndi="http://www.omg.org/spec/BPMN/20100524/DI">
  <bpmn:process id="invoice" />
  <bpmndi:BPMNDiagram id="d" />
</bpmn:definitions>`

func workspaceFixture() *fakeProcessRepo {
	return &fakeProcessRepo{xml: workspaceXml}
}

func TestWorkspaceOpenBindsDefinition(t *testing.T) {
	s := NewWorkspaceScreen(workspaceFixture())

	s.Open(context.Background(), "d1", false)

	assert.Equal(t, "d1", s.DefinitionId())
	assert.False(t, s.Editable())
	assert.Empty(t, s.Warnings())
	assert.False(t, s.Banner.Active())
}

func TestWorkspaceOpenSurfacesImportWarnings(t *testing.T) {
	repo := workspaceFixture()
	repo.xml = `<bpmn:definitions xmlns:bpmn="http://www.omg.org/spec/BPMN/20100524/MODEL"><bpmn:process id="p"/></bpmn:definitions>`

	s := NewWorkspaceScreen(repo)
	s.Open(context.Background(), "d1", false)

	require.Len(t, s.Warnings(), 1)
	assert.Contains(t, s.Warnings()[0], "diagram interchange")
	assert.False(t, s.Banner.Active(), "warnings are not errors")
}

func TestWorkspaceOpenRejectsMalformedDefinition(t *testing.T) {
	repo := workspaceFixture()
	repo.xml = `<bpmn:definitions><unclosed>`

	s := NewWorkspaceScreen(repo)
	s.Open(context.Background(), "d1", false)

	assert.True(t, s.Banner.Active())
}

func TestWorkspaceChangedLandsInDraftAfterQuietPeriod(t *testing.T) {
	s := NewWorkspaceScreen(workspaceFixture())
	s.Open(context.Background(), "d1", true)

	edited := workspaceXml + "<!-- edited -->"
	s.Changed(context.Background(), edited)

	assert.Empty(t, s.Draft(), "the draft waits out the debounce window")

	assert.Eventually(t, func() bool {
		return s.Draft() == edited
	}, 2*time.Second, 10*time.Millisecond)
}

func TestWorkspaceBurstOfChangesKeepsLastEdit(t *testing.T) {
	s := NewWorkspaceScreen(workspaceFixture())
	s.Open(context.Background(), "d1", true)

	s.Changed(context.Background(), workspaceXml+"<!-- 1 -->")
	s.Changed(context.Background(), workspaceXml+"<!-- 2 -->")
	s.Changed(context.Background(), workspaceXml+"<!-- 3 -->")

	assert.Eventually(t, func() bool {
		return s.Draft() == workspaceXml+"<!-- 3 -->"
	}, 2*time.Second, 10*time.Millisecond)
}

func TestWorkspaceViewModeIgnoresChanges(t *testing.T) {
	s := NewWorkspaceScreen(workspaceFixture())
	s.Open(context.Background(), "d1", false)

	s.Changed(context.Background(), workspaceXml+"<!-- edited -->")

	time.Sleep(400 * time.Millisecond)
	assert.Empty(t, s.Draft())
}

func TestWorkspaceReopenReplacesBinding(t *testing.T) {
	s := NewWorkspaceScreen(workspaceFixture())
	s.Open(context.Background(), "d1", true)
	s.Changed(context.Background(), workspaceXml+"<!-- stale -->")

	// Reopening disposes the old binding; its pending save must never land.
	s.Open(context.Background(), "d2", true)

	time.Sleep(400 * time.Millisecond)
	assert.Empty(t, s.Draft())
	assert.Equal(t, "d2", s.DefinitionId())
}

func TestWorkspaceCloseIsIdempotent(t *testing.T) {
	s := NewWorkspaceScreen(workspaceFixture())
	s.Open(context.Background(), "d1", true)

	s.Close()
	s.Close()

	s.Changed(context.Background(), workspaceXml)
	time.Sleep(400 * time.Millisecond)
	assert.Empty(t, s.Draft())
}
