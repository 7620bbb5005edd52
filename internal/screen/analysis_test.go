package screen

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixbrock/flowdeck/internal/domain"
)

func analysisRecords(n int) []domain.AnalysisRecord {
	records := make([]domain.AnalysisRecord, 0, n)
	for i := 0; i < n; i++ {
		status := "completed"
		if i%10 == 0 {
			status = "failed"
		}
		records = append(records, domain.AnalysisRecord{
			Id:      fmt.Sprintf("a%d", i),
			Subject: fmt.Sprintf("case-%d", i),
			Kind:    "valuation",
			Status:  status,
			Score:   0.5,
		})
	}
	return records
}

func TestAnalysisRefreshHonorsLimit(t *testing.T) {
	repo := &fakeAnalysisRepo{records: analysisRecords(60)}

	s := NewAnalysisScreen(repo)
	s.SetLimit(40)
	s.Refresh(context.Background())

	_, _, pages := s.Page()
	assert.Equal(t, 2, pages)

	window, page, _ := s.Page()
	assert.Zero(t, page)
	assert.Len(t, window, analysisPageSize)
}

func TestAnalysisPagination(t *testing.T) {
	repo := &fakeAnalysisRepo{records: analysisRecords(60)}

	s := NewAnalysisScreen(repo)
	s.Refresh(context.Background())

	s.NextPage()
	window, page, pages := s.Page()
	assert.Equal(t, 1, page)
	assert.Equal(t, 3, pages)
	assert.Equal(t, "a25", window[0].Id)

	// The pager never walks past the last page.
	s.NextPage()
	s.NextPage()
	s.NextPage()
	_, page, _ = s.Page()
	assert.Equal(t, 2, page)

	s.PrevPage()
	s.PrevPage()
	s.PrevPage()
	_, page, _ = s.Page()
	assert.Zero(t, page)
}

func TestAnalysisFilterMatchesSubjectKindAndStatus(t *testing.T) {
	repo := &fakeAnalysisRepo{records: []domain.AnalysisRecord{
		{Id: "a1", Subject: "Invoice 42", Kind: "valuation", Status: "completed"},
		{Id: "a2", Subject: "Order 7", Kind: "risk", Status: "failed"},
		{Id: "a3", Subject: "Invoice 99", Kind: "risk", Status: "completed"},
	}}

	s := NewAnalysisScreen(repo)
	s.Refresh(context.Background())

	s.SetFilter("invoice")
	window, _, _ := s.Page()
	require.Len(t, window, 2)

	s.SetFilter("FAILED")
	window, _, _ = s.Page()
	require.Len(t, window, 1)
	assert.Equal(t, "a2", window[0].Id)

	s.SetFilter("")
	window, _, _ = s.Page()
	assert.Len(t, window, 3)
}

func TestAnalysisFilterResetsPage(t *testing.T) {
	repo := &fakeAnalysisRepo{records: analysisRecords(60)}

	s := NewAnalysisScreen(repo)
	s.Refresh(context.Background())
	s.NextPage()

	s.SetFilter("valuation")

	_, page, _ := s.Page()
	assert.Zero(t, page)
}

func TestAnalysisExportCSVCoversAllFilteredPages(t *testing.T) {
	repo := &fakeAnalysisRepo{records: analysisRecords(60)}

	s := NewAnalysisScreen(repo)
	s.Refresh(context.Background())
	s.SetFilter("failed")

	var buf bytes.Buffer
	require.NoError(t, s.ExportCSV(&buf))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, "id,subject,kind,status,score,created_at,finished_at", lines[0])
	assert.Len(t, lines, 7, "header plus every failed row, pagination ignored")
}

func TestAnalysisRefreshFailureSetsBanner(t *testing.T) {
	repo := &fakeAnalysisRepo{err: assert.AnError}

	s := NewAnalysisScreen(repo)
	s.Refresh(context.Background())

	assert.True(t, s.Banner.Active())
	window, _, _ := s.Page()
	assert.Empty(t, window)
}
