package persistence

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/felixbrock/flowdeck/internal/domain"
)

// StartInstanceProto carries a start command. Variables must already be
// parsed; the screen rejects malformed variable JSON before a proto exists.
type StartInstanceProto struct {
	DefinitionId string         `json:"definition_id"`
	BusinessKey  string         `json:"business_key,omitempty"`
	Variables    map[string]any `json:"variables"`
}

type ProcessRepo struct {
	BaseHeaders []string
	BaseUrl     string
}

func (r ProcessRepo) ReadInstances(ctx context.Context) (*[]domain.ProcessInstance, error) {
	records, err := request[[]domain.ProcessInstance](ctx, reqConfig{
		Method:  "GET",
		Url:     fmt.Sprintf("%s/instances", r.BaseUrl),
		Headers: r.BaseHeaders},
		200)

	if err != nil {
		return nil, err
	}

	return records, nil
}

func (r ProcessRepo) ReadDefinitions(ctx context.Context) (*[]domain.ProcessDefinition, error) {
	records, err := request[[]domain.ProcessDefinition](ctx, reqConfig{
		Method:  "GET",
		Url:     fmt.Sprintf("%s/definitions/all-versions", r.BaseUrl),
		Headers: r.BaseHeaders},
		200)

	if err != nil {
		return nil, err
	}

	return records, nil
}

func (r ProcessRepo) StartInstance(ctx context.Context, proto StartInstanceProto) (*domain.ProcessInstance, error) {
	body, err := json.Marshal(proto)

	if err != nil {
		return nil, err
	}

	record, err := request[domain.ProcessInstance](ctx, reqConfig{
		Method:  "POST",
		Url:     fmt.Sprintf("%s/instances/start", r.BaseUrl),
		Body:    body,
		Headers: append(r.BaseHeaders, "Content-Type:application/json")},
		200)

	if err != nil {
		return nil, err
	}

	return record, nil
}

func (r ProcessRepo) DeleteInstance(ctx context.Context, id string) error {
	_, err := requestRaw(ctx, reqConfig{
		Method:  "DELETE",
		Url:     fmt.Sprintf("%s/instances/%s", r.BaseUrl, id),
		Headers: r.BaseHeaders},
		204)

	if err != nil {
		return err
	}

	return nil
}

func (r ProcessRepo) DeleteDefinition(ctx context.Context, id string) error {
	_, err := requestRaw(ctx, reqConfig{
		Method:  "DELETE",
		Url:     fmt.Sprintf("%s/definitions/%s", r.BaseUrl, id),
		Headers: r.BaseHeaders},
		204)

	if err != nil {
		return err
	}

	return nil
}

func (r ProcessRepo) Troubleshoot(ctx context.Context, id string) (*domain.TroubleshootReport, error) {
	record, err := request[domain.TroubleshootReport](ctx, reqConfig{
		Method:  "GET",
		Url:     fmt.Sprintf("%s/instances/%s/troubleshoot", r.BaseUrl, id),
		Headers: r.BaseHeaders},
		200)

	if err != nil {
		return nil, err
	}

	return record, nil
}

// ReadDocumentation returns the definition's documentation as raw markdown.
func (r ProcessRepo) ReadDocumentation(ctx context.Context, id string) (string, error) {
	content, err := requestRaw(ctx, reqConfig{
		Method:  "GET",
		Url:     fmt.Sprintf("%s/definitions/%s/documentation", r.BaseUrl, id),
		Headers: r.BaseHeaders},
		200)

	if err != nil {
		return "", err
	}

	return string(content), nil
}

// ReadXml returns the definition's BPMN XML for the diagram widget.
func (r ProcessRepo) ReadXml(ctx context.Context, id string) (string, error) {
	content, err := requestRaw(ctx, reqConfig{
		Method:  "GET",
		Url:     fmt.Sprintf("%s/definitions/%s/xml", r.BaseUrl, id),
		Headers: r.BaseHeaders},
		200)

	if err != nil {
		return "", err
	}

	return string(content), nil
}
