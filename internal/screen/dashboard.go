package screen

import (
	"context"
	"sync"
	"time"

	"github.com/felixbrock/flowdeck/internal/sched"
)

// Counters are the dashboard's health/status figures, recomputed on every
// poll from the backend lists.
type Counters struct {
	Prompts          int
	Definitions      int
	ActiveInstances  int
	FailedInstances  int
	AnalysisRecords  int
	LastRefreshedUTC string
}

// Dashboard polls the backends and keeps the latest counter snapshot.
type Dashboard struct {
	prompts  PromptRepo
	process  ProcessRepo
	analysis AnalysisRepo

	mu       sync.Mutex
	counters Counters
	poller   *sched.Poller

	Banner Banner
}

func NewDashboard(prompts PromptRepo, process ProcessRepo, analysis AnalysisRepo) *Dashboard {
	return &Dashboard{prompts: prompts, process: process, analysis: analysis}
}

func (d *Dashboard) Refresh(ctx context.Context) {
	var next Counters

	prompts, err := d.prompts.Read(ctx)
	if err != nil {
		d.setBanner(err)
		return
	}
	next.Prompts = len(*prompts)

	definitions, err := d.process.ReadDefinitions(ctx)
	if err != nil {
		d.setBanner(err)
		return
	}
	next.Definitions = len(*definitions)

	instances, err := d.process.ReadInstances(ctx)
	if err != nil {
		d.setBanner(err)
		return
	}
	for _, instance := range *instances {
		switch instance.State {
		case "active", "running":
			next.ActiveInstances++
		case "failed", "incident":
			next.FailedInstances++
		}
	}

	records, err := d.analysis.Read(ctx, defaultAnalysisLimit, false)
	if err != nil {
		d.setBanner(err)
		return
	}
	next.AnalysisRecords = len(*records)

	next.LastRefreshedUTC = time.Now().UTC().Format(time.RFC3339)

	d.mu.Lock()
	defer d.mu.Unlock()
	d.Banner.Clear()
	d.counters = next
}

func (d *Dashboard) Counters() Counters {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.counters
}

func (d *Dashboard) EnableAutoRefresh(ctx context.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.poller != nil {
		return
	}

	d.poller = sched.StartPoller(ctx, autoRefreshInterval, d.Refresh)
}

func (d *Dashboard) AutoRefreshEnabled() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.poller != nil
}

func (d *Dashboard) DisableAutoRefresh() {
	d.mu.Lock()
	poller := d.poller
	d.poller = nil
	d.mu.Unlock()

	if poller != nil {
		poller.Stop()
	}
}

func (d *Dashboard) setBanner(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Banner.Set(err)
}
