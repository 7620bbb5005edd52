package component

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"

	"github.com/felixbrock/flowdeck/internal/domain"
	"github.com/felixbrock/flowdeck/internal/screen"
)

// PromptCard is the view model of one prompt list entry: the latest record,
// the resolved display version and the selector state.
type PromptCard struct {
	Prompt          domain.Prompt
	Display         domain.Prompt
	Versions        []domain.VersionSummary
	SelectedVersion int
}

func PromptList(cards []PromptCard, banner string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if err := Banner(banner).Render(ctx, w); err != nil {
			return err
		}

		_, err := io.WriteString(w, `<section class="prompts">
<header><h1>Prompts</h1>
<button hx-post="/prompts/new" hx-target="#screen">New prompt</button>
</header>
<div class="card-grid">`)
		if err != nil {
			return err
		}

		for _, card := range cards {
			if err = promptCard(card).Render(ctx, w); err != nil {
				return err
			}
		}

		_, err = io.WriteString(w, "</div>\n</section>")
		return err
	})
}

func promptCard(card PromptCard) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, `<article class="card" id="prompt-%[1]s">
<h2>%[2]s</h2>
<span class="badge">%[3]s</span>
<span class="badge">v%[4]d</span>`,
			esc(card.Prompt.Id), esc(card.Display.Name), esc(string(card.Display.Type)), card.Display.Version)
		if err != nil {
			return err
		}

		if err = versionSelector(card).Render(ctx, w); err != nil {
			return err
		}

		_, err = fmt.Fprintf(w, `<pre class="prompt-text">%s</pre>
<footer>
<button hx-post="/prompts/%[2]s/edit" hx-target="#screen">Edit</button>
<button hx-post="/prompts/%[2]s/test" hx-target="#screen">Test</button>
<button hx-delete="/prompts/%[2]s?confirmed=true" hx-confirm="Delete prompt %[3]s?" hx-target="#screen">Delete</button>
</footer>
</article>`,
			esc(card.Display.Text), esc(card.Prompt.Id), esc(card.Prompt.Name))
		return err
	})
}

func versionSelector(card PromptCard) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if len(card.Versions) == 0 {
			return nil
		}

		_, err := fmt.Fprintf(w, `<select name="version" hx-post="/prompts/%s/select-version" hx-target="#screen">
<option value="">latest</option>`, esc(card.Prompt.Id))
		if err != nil {
			return err
		}

		for _, v := range card.Versions {
			selected := ""
			if v.Version == card.SelectedVersion {
				selected = " selected"
			}
			if _, err = fmt.Fprintf(w, `<option value="%d"%s>v%d · %s</option>`, v.Version, selected, v.Version, esc(v.CreatedAt)); err != nil {
				return err
			}
		}

		_, err = io.WriteString(w, "</select>")
		return err
	})
}

func PromptEditor(draft screen.PromptDraft, examples []screen.Example, banner string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if err := Banner(banner).Render(ctx, w); err != nil {
			return err
		}

		heading := "New prompt"
		if draft.PromptId != "" {
			heading = fmt.Sprintf("Edit prompt (v%d)", draft.EditingVersion)
		}

		_, err := fmt.Fprintf(w, `<section class="dialog prompt-editor">
<h1>%s</h1>
<form hx-post="/prompts/save" hx-target="#screen">
<label>Name <input name="name" value="%s"/></label>
<label>Type <select name="type">`, esc(heading), esc(draft.Proto.Name))
		if err != nil {
			return err
		}

		for _, t := range []domain.PromptType{domain.PromptTypeSimple, domain.PromptTypeToolAware, domain.PromptTypeWorkflowAware} {
			selected := ""
			if t == draft.Proto.Type {
				selected = " selected"
			}
			if _, err = fmt.Fprintf(w, `<option value="%[1]s"%[2]s>%[1]s</option>`, esc(string(t)), selected); err != nil {
				return err
			}
		}

		_, err = fmt.Fprintf(w, `</select></label>
<label>Template <textarea name="text" rows="8">%s</textarea></label>`, esc(draft.Proto.Text))
		if err != nil {
			return err
		}

		if err = testCaseEditor(draft.Proto.TestCases, examples).Render(ctx, w); err != nil {
			return err
		}

		_, err = io.WriteString(w, `<footer>
<button type="submit">Save</button>
<button hx-post="/prompts/cancel-edit" hx-target="#screen">Cancel</button>
</footer>
</form>
</section>`)
		return err
	})
}

func testCaseEditor(cases []domain.TestCase, examples []screen.Example) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, `<fieldset class="test-cases"><legend>Test cases</legend>`)
		if err != nil {
			return err
		}

		for _, tc := range cases {
			checked := ""
			if tc.Enabled {
				checked = " checked"
			}

			_, err = fmt.Fprintf(w, `<div class="test-case" id="tc-%[1]s">
<input name="tc-name-%[1]s" value="%[2]s" placeholder="name"/>
<label><input type="checkbox" name="tc-enabled-%[1]s"%[3]s/>enabled</label>
<textarea name="tc-input-%[1]s" hx-post="/prompts/test-case/%[1]s/input" hx-trigger="keyup changed delay:200ms">%[4]s</textarea>
<textarea name="tc-expected-%[1]s" hx-post="/prompts/test-case/%[1]s/expected" hx-trigger="keyup changed delay:200ms">%[5]s</textarea>`,
				esc(tc.Id), esc(tc.Name), checked, esc(tc.Input.Text()), esc(tc.ExpectedOutput.Text()))
			if err != nil {
				return err
			}

			for _, example := range examples {
				_, err = fmt.Fprintf(w, `<button hx-post="/prompts/test-case/%s/example/%s" hx-target="#screen">Use %s</button>`,
					esc(tc.Id), esc(example.Key), esc(example.Name))
				if err != nil {
					return err
				}
			}

			if _, err = fmt.Fprintf(w, `<button hx-delete="/prompts/test-case/%s" hx-target="#screen">Remove</button></div>`, esc(tc.Id)); err != nil {
				return err
			}
		}

		_, err = io.WriteString(w, `<button hx-post="/prompts/test-case/add" hx-target="#screen">Add test case</button></fieldset>`)
		return err
	})
}

// ExampleConfirm asks whether the example's suggested template should also
// replace the prompt's own text.
func ExampleConfirm(testCaseId string, exampleKey string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, `<section class="dialog confirm">
<p>Also replace the prompt template with the example's suggested text?</p>
<button hx-post="/prompts/test-case/%[1]s/example/%[2]s/apply?overwrite=true" hx-target="#screen">Replace template</button>
<button hx-post="/prompts/test-case/%[1]s/example/%[2]s/apply?overwrite=false" hx-target="#screen">Keep my template</button>
</section>`, esc(testCaseId), esc(exampleKey))
		return err
	})
}
