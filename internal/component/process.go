package component

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"

	"github.com/felixbrock/flowdeck/internal/domain"
)

// ProcessView is the render snapshot of the process screen.
type ProcessView struct {
	Instances    []domain.ProcessInstance
	Definitions  []domain.ProcessDefinition
	Troubleshoot *domain.TroubleshootReport
	AutoRefresh  bool
	Banner       string
}

func ProcessScreen(view ProcessView) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if err := Banner(view.Banner).Render(ctx, w); err != nil {
			return err
		}

		toggleLabel, toggleUrl := "Enable auto-refresh", "/processes/auto-refresh?enabled=true"
		if view.AutoRefresh {
			toggleLabel, toggleUrl = "Disable auto-refresh", "/processes/auto-refresh?enabled=false"
		}

		_, err := fmt.Fprintf(w, `<section class="processes">
<header><h1>Process instances</h1>
<button hx-post="%s" hx-target="#screen">%s</button>
</header>`, esc(toggleUrl), esc(toggleLabel))
		if err != nil {
			return err
		}

		if err = instanceTable(view.Instances).Render(ctx, w); err != nil {
			return err
		}

		if err = definitionTable(view.Definitions).Render(ctx, w); err != nil {
			return err
		}

		if view.Troubleshoot != nil {
			if err = troubleshootPanel(*view.Troubleshoot).Render(ctx, w); err != nil {
				return err
			}
		}

		_, err = io.WriteString(w, "</section>")
		return err
	})
}

func instanceTable(instances []domain.ProcessInstance) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, `<table class="instances">
<tr><th>Instance</th><th>Definition</th><th>State</th><th>Started</th><th></th></tr>`)
		if err != nil {
			return err
		}

		for _, instance := range instances {
			_, err = fmt.Fprintf(w, `<tr><td>%[1]s</td><td>%[2]s</td><td>%[3]s</td><td>%[4]s</td>
<td>
<button hx-post="/processes/instances/%[1]s/troubleshoot" hx-target="#screen">Troubleshoot</button>
<button hx-delete="/processes/instances/%[1]s?confirmed=true" hx-confirm="Terminate instance %[1]s?" hx-target="#screen">Terminate</button>
</td></tr>`,
				esc(instance.Id), esc(instance.DefinitionKey), esc(instance.State), esc(instance.StartedAt))
			if err != nil {
				return err
			}
		}

		_, err = io.WriteString(w, "</table>")
		return err
	})
}

func definitionTable(definitions []domain.ProcessDefinition) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, `<h2>Definitions</h2><table class="definitions">
<tr><th>Key</th><th>Name</th><th>Version</th><th></th></tr>`)
		if err != nil {
			return err
		}

		for _, definition := range definitions {
			_, err = fmt.Fprintf(w, `<tr><td>%[1]s</td><td>%[2]s</td><td>v%[3]d</td>
<td>
<button hx-post="/processes/start/%[4]s" hx-target="#screen">Start</button>
<a href="/workspace?definition=%[4]s">Diagram</a>
<a href="/processes/definitions/%[4]s/documentation">Docs</a>
<button hx-delete="/processes/definitions/%[4]s?confirmed=true" hx-confirm="Delete definition %[1]s?" hx-target="#screen">Delete</button>
</td></tr>`,
				esc(definition.Key), esc(definition.Name), definition.Version, esc(definition.Id))
			if err != nil {
				return err
			}
		}

		_, err = io.WriteString(w, "</table>")
		return err
	})
}

// StartForm collects business key and the free-text JSON variables for a
// start command.
func StartForm(definition domain.ProcessDefinition, banner string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if err := Banner(banner).Render(ctx, w); err != nil {
			return err
		}

		_, err := fmt.Fprintf(w, `<section class="dialog start-form">
<h1>Start %s (v%d)</h1>
<form hx-post="/processes/instances/start" hx-target="#screen">
<input type="hidden" name="definition_id" value="%s"/>
<label>Business key <input name="business_key"/></label>
<label>Variables (JSON) <textarea name="variables" rows="6">{}</textarea></label>
<footer>
<button type="submit">Start</button>
<button hx-get="/processes" hx-target="#screen">Cancel</button>
</footer>
</form>
</section>`, esc(definition.Name), definition.Version, esc(definition.Id))
		return err
	})
}

func troubleshootPanel(report domain.TroubleshootReport) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, `<aside class="troubleshoot">
<h2>Troubleshooting %s</h2>
<p>State: %s · Activity: %s</p>`,
			esc(report.InstanceId), esc(report.State), esc(report.ActivityId))
		if err != nil {
			return err
		}

		for _, incident := range report.Incidents {
			_, err = fmt.Fprintf(w, `<p class="incident">%s · %s: %s</p>`,
				esc(incident.OccurredAt), esc(incident.ActivityId), esc(incident.Message))
			if err != nil {
				return err
			}
		}

		_, err = io.WriteString(w, "</aside>")
		return err
	})
}

// Documentation renders backend-rendered markdown HTML. The backend is
// trusted; its HTML is embedded unescaped.
func Documentation(definitionId string, html string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, `<section class="documentation" data-definition="%s">`, esc(definitionId))
		if err != nil {
			return err
		}

		if _, err = io.WriteString(w, html); err != nil {
			return err
		}

		_, err = io.WriteString(w, "</section>")
		return err
	})
}
