package domain

// AnalysisRecord is a read-only row from the analysis daemon's history.
type AnalysisRecord struct {
	Id         string         `json:"id"`
	Subject    string         `json:"subject"`
	Kind       string         `json:"kind"`
	Status     string         `json:"status"`
	Score      float64        `json:"score"`
	CreatedAt  string         `json:"created_at"`
	FinishedAt string         `json:"finished_at,omitempty"`
	Detail     map[string]any `json:"detail,omitempty"`
}
