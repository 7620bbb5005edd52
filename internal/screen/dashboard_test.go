package screen

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"

	"github.com/felixbrock/flowdeck/internal/domain"
)

func TestDashboardCountsStatesAcrossBackends(t *testing.T) {
	prompts := newFakePromptRepo(promptFixture())
	process := &fakeProcessRepo{
		instances: []domain.ProcessInstance{
			{Id: "i1", State: "active"},
			{Id: "i2", State: "running"},
			{Id: "i3", State: "incident"},
			{Id: "i4", State: "completed"},
		},
		definitions: []domain.ProcessDefinition{{Id: "d1"}, {Id: "d2"}},
	}
	analysis := &fakeAnalysisRepo{records: analysisRecords(3)}

	d := NewDashboard(prompts, process, analysis)
	d.Refresh(context.Background())

	counters := d.Counters()
	assert.Equal(t, 1, counters.Prompts)
	assert.Equal(t, 2, counters.Definitions)
	assert.Equal(t, 2, counters.ActiveInstances)
	assert.Equal(t, 1, counters.FailedInstances)
	assert.Equal(t, 3, counters.AnalysisRecords)
	assert.NotEmpty(t, counters.LastRefreshedUTC)
}

func TestDashboardRefreshFailureKeepsLastSnapshot(t *testing.T) {
	prompts := newFakePromptRepo(promptFixture())
	process := &fakeProcessRepo{}
	analysis := &fakeAnalysisRepo{}

	d := NewDashboard(prompts, process, analysis)
	d.Refresh(context.Background())
	before := d.Counters()

	prompts.err = assert.AnError
	d.Refresh(context.Background())

	assert.True(t, d.Banner.Active())
	assert.Equal(t, before, d.Counters())
}

func TestDashboardAutoRefreshStopsCleanly(t *testing.T) {
	defer goleak.VerifyNone(t)

	d := NewDashboard(newFakePromptRepo(), &fakeProcessRepo{}, &fakeAnalysisRepo{})

	d.EnableAutoRefresh(context.Background())
	d.EnableAutoRefresh(context.Background())
	assert.True(t, d.AutoRefreshEnabled())

	d.DisableAutoRefresh()
	assert.False(t, d.AutoRefreshEnabled())
	d.DisableAutoRefresh()
}
