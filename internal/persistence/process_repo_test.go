package persistence

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessRepoReadDefinitionsIncludesAllVersions(t *testing.T) {
	server, call := backendStub(t, 200, `[{"id": "d1", "key": "invoice", "version": 4}]`)
	repo := ProcessRepo{BaseUrl: server.URL + "/processes"}

	definitions, err := repo.ReadDefinitions(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "/processes/definitions/all-versions", call.path)
	require.Len(t, *definitions, 1)
	assert.Equal(t, 4, (*definitions)[0].Version)
}

func TestProcessRepoStartInstancePayload(t *testing.T) {
	server, call := backendStub(t, 200, `{"id": "i-new", "state": "active"}`)
	repo := ProcessRepo{BaseUrl: server.URL + "/processes"}

	_, err := repo.StartInstance(context.Background(), StartInstanceProto{
		DefinitionId: "d1",
		BusinessKey:  "inv-42",
		Variables:    map[string]any{"amount": 1200.5}})

	require.NoError(t, err)
	assert.Equal(t, "POST", call.method)
	assert.Equal(t, "/processes/instances/start", call.path)

	var sent map[string]any
	require.NoError(t, json.Unmarshal(call.body, &sent))
	assert.Equal(t, "d1", sent["definition_id"])
	assert.Equal(t, map[string]any{"amount": 1200.5}, sent["variables"])
}

func TestProcessRepoStartInstanceOmitsEmptyBusinessKey(t *testing.T) {
	server, call := backendStub(t, 200, `{"id": "i-new"}`)
	repo := ProcessRepo{BaseUrl: server.URL + "/processes"}

	_, err := repo.StartInstance(context.Background(), StartInstanceProto{
		DefinitionId: "d1",
		Variables:    map[string]any{}})

	require.NoError(t, err)
	assert.NotContains(t, string(call.body), "business_key")
}

func TestProcessRepoDeletePaths(t *testing.T) {
	server, call := backendStub(t, 204, "")
	repo := ProcessRepo{BaseUrl: server.URL + "/processes"}

	require.NoError(t, repo.DeleteInstance(context.Background(), "i1"))
	assert.Equal(t, "/processes/instances/i1", call.path)

	require.NoError(t, repo.DeleteDefinition(context.Background(), "d1"))
	assert.Equal(t, "/processes/definitions/d1", call.path)
}

func TestProcessRepoTroubleshoot(t *testing.T) {
	server, call := backendStub(t, 200, `{"instance_id": "i1", "state": "incident", "incidents": [{"id": "inc1", "message": "boom"}]}`)
	repo := ProcessRepo{BaseUrl: server.URL + "/processes"}

	report, err := repo.Troubleshoot(context.Background(), "i1")

	require.NoError(t, err)
	assert.Equal(t, "/processes/instances/i1/troubleshoot", call.path)
	require.Len(t, report.Incidents, 1)
	assert.Equal(t, "boom", report.Incidents[0].Message)
}

func TestProcessRepoReadDocumentationReturnsRawMarkdown(t *testing.T) {
	server, call := backendStub(t, 200, "# Invoice approval\n")
	repo := ProcessRepo{BaseUrl: server.URL + "/processes"}

	markdown, err := repo.ReadDocumentation(context.Background(), "d1")

	require.NoError(t, err)
	assert.Equal(t, "/processes/definitions/d1/documentation", call.path)
	assert.Equal(t, "# Invoice approval\n", markdown)
}

func TestProcessRepoReadXml(t *testing.T) {
	server, call := backendStub(t, 200, `<definitions/>`)
	repo := ProcessRepo{BaseUrl: server.URL + "/processes"}

	xml, err := repo.ReadXml(context.Background(), "d1")

	require.NoError(t, err)
	assert.Equal(t, "/processes/definitions/d1/xml", call.path)
	assert.Equal(t, `<definitions/>`, xml)
}
