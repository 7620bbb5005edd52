package persistence

import (
	"context"
	"fmt"

	"github.com/felixbrock/flowdeck/internal/domain"
)

type AnalysisRepo struct {
	BaseHeaders []string
	BaseUrl     string
}

func (r AnalysisRepo) Read(ctx context.Context, limit int, detailed bool) (*[]domain.AnalysisRecord, error) {
	records, err := request[[]domain.AnalysisRecord](ctx, reqConfig{
		Method: "GET",
		Url:    fmt.Sprintf("%s/list", r.BaseUrl),
		UrlParams: []string{
			fmt.Sprintf("limit=%d", limit),
			fmt.Sprintf("detailed=%t", detailed)},
		Headers: r.BaseHeaders},
		200)

	if err != nil {
		return nil, err
	}

	return records, nil
}
