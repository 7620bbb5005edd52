// Package component renders the console's HTML. Components implement the
// templ render contract so handlers can treat full pages and fragments
// uniformly.
package component

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
)

// Component is the render contract shared by pages and fragments.
type Component = templ.Component

func esc(s string) string {
	return templ.EscapeString(s)
}

// Layout wraps screen content in the page shell with the navigation bar.
func Layout(title string, content templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8"/>
<meta name="viewport" content="width=device-width, initial-scale=1"/>
<title>%s · flowdeck</title>
<link rel="stylesheet" href="/static/flowdeck.css"/>
<script src="https://unpkg.com/htmx.org@1.9.10"></script>
</head>
<body>
<nav class="topnav">
<a href="/">Dashboard</a>
<a href="/prompts">Prompts</a>
<a href="/processes">Processes</a>
<a href="/analysis">Analysis</a>
<a href="/workspace">Workspace</a>
</nav>
<main id="screen">`, esc(title))
		if err != nil {
			return err
		}

		if err = content.Render(ctx, w); err != nil {
			return err
		}

		_, err = io.WriteString(w, "</main>\n</body>\n</html>")
		return err
	})
}

// Banner renders the single error surface of a screen. Empty messages
// render nothing.
func Banner(msg string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if msg == "" {
			return nil
		}
		_, err := fmt.Fprintf(w, `<div class="banner banner-error" role="alert">%s</div>`, esc(msg))
		return err
	})
}

func Loading(target string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, `<div class="loading" data-target="%s">Loading…</div>`, esc(target))
		return err
	})
}

// ErrorPage renders the full-page variant used for routing errors.
func ErrorPage(code int, title string, msg string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, `<section class="error-page">
<h1>%d · %s</h1>
<p>%s</p>
<a href="/">Back to the dashboard</a>
</section>`, code, esc(title), esc(msg))
		return err
	})
}
