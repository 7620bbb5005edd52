package component

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"

	"github.com/felixbrock/flowdeck/internal/domain"
)

type AnalysisView struct {
	Records []domain.AnalysisRecord
	Page    int
	Pages   int
	Filter  string
	Banner  string
}

func AnalysisScreen(view AnalysisView) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if err := Banner(view.Banner).Render(ctx, w); err != nil {
			return err
		}

		_, err := fmt.Fprintf(w, `<section class="analysis">
<header><h1>Analysis history</h1>
<input name="filter" value="%s" placeholder="filter…" hx-post="/analysis/filter" hx-trigger="keyup changed delay:300ms" hx-target="#screen"/>
<a href="/analysis/export.csv">Export CSV</a>
</header>
<table>
<tr><th>Subject</th><th>Kind</th><th>Status</th><th>Score</th><th>Created</th></tr>`, esc(view.Filter))
		if err != nil {
			return err
		}

		for _, record := range view.Records {
			_, err = fmt.Fprintf(w, `<tr><td>%s</td><td>%s</td><td>%s</td><td>%.2f</td><td>%s</td></tr>`,
				esc(record.Subject), esc(record.Kind), esc(record.Status), record.Score, esc(record.CreatedAt))
			if err != nil {
				return err
			}
		}

		_, err = fmt.Fprintf(w, `</table>
<footer class="pager">
<button hx-post="/analysis/page/prev" hx-target="#screen">Prev</button>
<span>%d / %d</span>
<button hx-post="/analysis/page/next" hx-target="#screen">Next</button>
</footer>
</section>`, view.Page+1, view.Pages)
		return err
	})
}

// Workspace embeds the diagram widget container plus the CDN loader
// snippet.
func Workspace(definitionId string, editable bool, warnings []string, loaderScript string, banner string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if err := Banner(banner).Render(ctx, w); err != nil {
			return err
		}

		mode := "view"
		if editable {
			mode = "edit"
		}

		_, err := fmt.Fprintf(w, `<section class="workspace" data-definition="%s" data-mode="%s">
<div id="diagram-canvas"></div>`, esc(definitionId), mode)
		if err != nil {
			return err
		}

		for _, warning := range warnings {
			if _, err = fmt.Fprintf(w, `<p class="diagram-warning">%s</p>`, esc(warning)); err != nil {
				return err
			}
		}

		// Loader snippet is generated server-side, not user input.
		if _, err = fmt.Fprintf(w, "<script>%s</script>", loaderScript); err != nil {
			return err
		}

		_, err = io.WriteString(w, "</section>")
		return err
	})
}
