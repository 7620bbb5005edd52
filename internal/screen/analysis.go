package screen

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/felixbrock/flowdeck/internal/domain"
)

const (
	defaultAnalysisLimit = 200
	analysisPageSize     = 25
)

// AnalysisScreen browses historical analysis records read-only. Filtering
// and pagination happen client-side over the last fetched slice.
type AnalysisScreen struct {
	repo AnalysisRepo

	mu       sync.Mutex
	records  []domain.AnalysisRecord
	limit    int
	detailed bool
	filter   string
	page     int

	Banner Banner
}

func NewAnalysisScreen(repo AnalysisRepo) *AnalysisScreen {
	return &AnalysisScreen{repo: repo, limit: defaultAnalysisLimit}
}

func (s *AnalysisScreen) Refresh(ctx context.Context) {
	s.mu.Lock()
	limit, detailed := s.limit, s.detailed
	s.mu.Unlock()

	records, err := s.repo.Read(ctx, limit, detailed)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.Banner.Set(err)
		return
	}

	s.Banner.Clear()
	s.records = *records
	s.page = 0
}

func (s *AnalysisScreen) SetDetailed(detailed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.detailed = detailed
}

func (s *AnalysisScreen) SetLimit(limit int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if limit > 0 {
		s.limit = limit
	}
}

// SetFilter narrows the visible rows by substring match over subject, kind
// and status. Changing the filter resets pagination.
func (s *AnalysisScreen) SetFilter(filter string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filter = strings.ToLower(strings.TrimSpace(filter))
	s.page = 0
}

func (s *AnalysisScreen) Filter() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filter
}

func (s *AnalysisScreen) NextPage() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if (s.page+1)*analysisPageSize < len(s.filteredLocked()) {
		s.page++
	}
}

func (s *AnalysisScreen) PrevPage() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.page > 0 {
		s.page--
	}
}

// Page returns the currently visible window plus the page indices for the
// pager control.
func (s *AnalysisScreen) Page() (records []domain.AnalysisRecord, page int, pages int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	filtered := s.filteredLocked()
	pages = (len(filtered) + analysisPageSize - 1) / analysisPageSize
	if pages == 0 {
		pages = 1
	}

	start := s.page * analysisPageSize
	if start >= len(filtered) {
		return nil, s.page, pages
	}

	end := start + analysisPageSize
	if end > len(filtered) {
		end = len(filtered)
	}

	return filtered[start:end], s.page, pages
}

func (s *AnalysisScreen) filteredLocked() []domain.AnalysisRecord {
	if s.filter == "" {
		return s.records
	}

	var filtered []domain.AnalysisRecord
	for _, r := range s.records {
		haystack := strings.ToLower(fmt.Sprintf("%s %s %s", r.Subject, r.Kind, r.Status))
		if strings.Contains(haystack, s.filter) {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

// ExportCSV writes the filtered rows (all pages) as CSV.
func (s *AnalysisScreen) ExportCSV(w io.Writer) error {
	s.mu.Lock()
	filtered := s.filteredLocked()
	s.mu.Unlock()

	writer := csv.NewWriter(w)

	if err := writer.Write([]string{"id", "subject", "kind", "status", "score", "created_at", "finished_at"}); err != nil {
		return err
	}

	for _, r := range filtered {
		record := []string{
			r.Id,
			r.Subject,
			r.Kind,
			r.Status,
			fmt.Sprintf("%.4f", r.Score),
			r.CreatedAt,
			r.FinishedAt,
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}
