package screen

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixbrock/flowdeck/internal/domain"
)

func promptFixture() domain.Prompt {
	return domain.Prompt{
		Id:      "p1",
		Name:    "greeting",
		Text:    "Hello {name}",
		Type:    domain.PromptTypeSimple,
		Version: 2,
	}
}

func TestRefreshLoadsVersionHistories(t *testing.T) {
	repo := newFakePromptRepo(promptFixture())
	repo.versions["p1"] = map[int]domain.Prompt{
		1: {Id: "p1", Name: "greeting", Text: "Hi {name}", Version: 1},
		2: promptFixture(),
	}

	s := NewPromptScreen(repo)
	s.Refresh(context.Background())

	assert.Len(t, s.Versions("p1"), 2, "the selector needs history before any selection exists")
}

func TestDisplayPromptFallsBackWithoutSelection(t *testing.T) {
	s := NewPromptScreen(newFakePromptRepo(promptFixture()))
	s.Refresh(context.Background())

	display := s.DisplayPrompt(s.Prompts()[0])

	assert.Equal(t, 2, display.Version)
	assert.Equal(t, "Hello {name}", display.Text)
}

func TestDisplayPromptUsesCachedSelectedVersion(t *testing.T) {
	repo := newFakePromptRepo(promptFixture())
	repo.versions["p1"] = map[int]domain.Prompt{
		1: {Id: "p1", Name: "greeting", Text: "Hi {name}", Version: 1},
	}

	s := NewPromptScreen(repo)
	s.Refresh(context.Background())
	s.SelectVersion(context.Background(), "p1", 1)

	display := s.DisplayPrompt(s.Prompts()[0])

	assert.Equal(t, 1, display.Version)
	assert.Equal(t, "Hi {name}", display.Text)
}

func TestDisplayPromptFallsBackWhenSelectionUncached(t *testing.T) {
	repo := newFakePromptRepo(promptFixture())

	s := NewPromptScreen(repo)
	s.Refresh(context.Background())
	// Version 7 does not exist; the fetch fails but the selection sticks.
	s.SelectVersion(context.Background(), "p1", 7)

	display := s.DisplayPrompt(s.Prompts()[0])

	assert.Equal(t, 2, display.Version)
}

func TestSaveWithoutVersionSelectionCreatesNewVersion(t *testing.T) {
	repo := newFakePromptRepo(promptFixture())

	s := NewPromptScreen(repo)
	s.Refresh(context.Background())

	require.NoError(t, s.OpenEdit("p1"))
	assert.Equal(t, TargetNewVersion, s.Target())

	s.UpdateDraftDetails("greeting", domain.PromptTypeSimple, "Hello there {name}", nil)
	s.Save(context.Background())

	assert.Equal(t, 1, repo.updates)
	assert.Zero(t, repo.versionUpdates)
	assert.Equal(t, 3, s.Prompts()[0].Version)
	_, selected := s.SelectedVersion("p1")
	assert.False(t, selected, "new-version save must clear the override")
	assert.Nil(t, s.Editing(), "dialog closes on success")
}

func TestSaveWithSelectedVersionAmendsInPlace(t *testing.T) {
	repo := newFakePromptRepo(promptFixture())
	repo.versions["p1"] = map[int]domain.Prompt{
		1: {Id: "p1", Name: "greeting", Text: "Hi {name}", Version: 1},
	}

	s := NewPromptScreen(repo)
	s.Refresh(context.Background())
	s.SelectVersion(context.Background(), "p1", 1)
	require.NoError(t, s.OpenEdit("p1"))

	assert.Equal(t, TargetInPlace, s.Target())

	s.UpdateDraftDetails("greeting", domain.PromptTypeSimple, "Howdy {name}", nil)
	s.Save(context.Background())

	assert.Equal(t, 1, repo.versionUpdates)
	assert.Zero(t, repo.updates)
	assert.Equal(t, 1, repo.lastUpdateVersion)

	// Version 2 stays the latest; the historical amendment never touches it.
	assert.Equal(t, 2, s.Prompts()[0].Version)
	display := s.DisplayPrompt(s.Prompts()[0])
	assert.Equal(t, "Howdy {name}", display.Text)
}

func TestSaveInPlaceOnLatestRefreshesList(t *testing.T) {
	repo := newFakePromptRepo(promptFixture())
	repo.versions["p1"] = map[int]domain.Prompt{
		2: promptFixture(),
	}

	s := NewPromptScreen(repo)
	s.Refresh(context.Background())
	s.SelectVersion(context.Background(), "p1", 2)
	require.NoError(t, s.OpenEdit("p1"))

	readsBefore := repo.reads
	s.UpdateDraftDetails("greeting", domain.PromptTypeSimple, "Hello again {name}", nil)
	s.Save(context.Background())

	assert.Equal(t, 1, repo.versionUpdates)
	assert.Equal(t, readsBefore+1, repo.reads, "amending the latest version refetches the list")
	assert.Equal(t, "Hello again {name}", s.Prompts()[0].Text)
}

func TestSaveCreatesPromptAndRefetchesOnce(t *testing.T) {
	repo := newFakePromptRepo()

	s := NewPromptScreen(repo)
	s.Refresh(context.Background())

	s.OpenCreate()
	assert.Equal(t, TargetCreate, s.Target())

	readsBefore := repo.reads
	s.UpdateDraftDetails("greeting", domain.PromptTypeSimple, "Hello {name}", nil)
	s.Save(context.Background())

	assert.Equal(t, 1, repo.inserts)
	assert.Equal(t, readsBefore+1, repo.reads)

	prompts := s.Prompts()
	require.Len(t, prompts, 1)
	assert.Equal(t, 1, prompts[0].Version)
}

func TestSaveFailureKeepsDialogOpen(t *testing.T) {
	repo := newFakePromptRepo(promptFixture())

	s := NewPromptScreen(repo)
	s.Refresh(context.Background())
	require.NoError(t, s.OpenEdit("p1"))

	repo.err = assert.AnError
	s.Save(context.Background())

	assert.NotNil(t, s.Editing())
	assert.True(t, s.Banner.Active())
}

func TestDeletePromptRequiresConfirmation(t *testing.T) {
	repo := newFakePromptRepo(promptFixture())

	s := NewPromptScreen(repo)
	s.Refresh(context.Background())

	s.DeletePrompt(context.Background(), "p1", false)
	assert.Zero(t, repo.deletes)

	s.DeletePrompt(context.Background(), "p1", true)
	assert.Equal(t, 1, repo.deletes)
	assert.Empty(t, s.Prompts())
}
