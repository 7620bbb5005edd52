package component

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"

	"github.com/felixbrock/flowdeck/internal/screen"
)

func Dashboard(counters screen.Counters, autoRefresh bool, banner string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if err := Banner(banner).Render(ctx, w); err != nil {
			return err
		}

		toggleLabel := "Enable auto-refresh"
		toggleUrl := "/dashboard/auto-refresh?enabled=true"
		if autoRefresh {
			toggleLabel = "Disable auto-refresh"
			toggleUrl = "/dashboard/auto-refresh?enabled=false"
		}

		_, err := fmt.Fprintf(w, `<section class="dashboard">
<h1>Platform overview</h1>
<div class="counter-grid">
<div class="counter"><span>%d</span>Prompts</div>
<div class="counter"><span>%d</span>Process definitions</div>
<div class="counter"><span>%d</span>Active instances</div>
<div class="counter counter-failed"><span>%d</span>Failed instances</div>
<div class="counter"><span>%d</span>Analysis records</div>
</div>
<p class="refreshed">Last refreshed: %s</p>
<button hx-post="%s" hx-target="#screen">%s</button>
</section>`,
			counters.Prompts,
			counters.Definitions,
			counters.ActiveInstances,
			counters.FailedInstances,
			counters.AnalysisRecords,
			esc(counters.LastRefreshedUTC),
			esc(toggleUrl),
			esc(toggleLabel))
		return err
	})
}
