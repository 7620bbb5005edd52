// Package diagram wraps the third-party BPMN widget behind a narrow port.
// The concrete library runs in the browser and is loaded from a CDN; the
// console only marshals definitions in and out and owns the binding
// lifecycle.
package diagram

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/felixbrock/flowdeck/internal/sched"
)

// ImportReport carries the widget's non-fatal complaints about a definition.
// Warnings are surfaced to the operator; they never fail the host screen.
type ImportReport struct {
	Warnings []string
}

// Widget is the port every diagram adapter implements.
type Widget interface {
	Import(ctx context.Context, xml string) (ImportReport, error)
	Export(ctx context.Context) (string, error)
	ZoomToFit(ctx context.Context) error
	Dispose()
}

var ErrDisposed = errors.New("diagram binding disposed")

// Binding ties one widget instance to a screen. It guarantees the widget is
// disposed before re-initialization or teardown and attaches the edit-mode
// change listener at most once per instance.
type Binding struct {
	debounce *sched.Debouncer

	mu       sync.Mutex
	widget   Widget
	onSave   func(xml string)
	attached bool
	disposed bool
}

// saveDebounce collapses bursts of widget change events into one export.
const saveDebounce = 300 * time.Millisecond

func Bind(w Widget) *Binding {
	return &Binding{widget: w, debounce: sched.NewDebouncer(saveDebounce)}
}

// Load imports a definition and auto-fits the rendering. Import warnings are
// returned alongside success.
func (b *Binding) Load(ctx context.Context, xml string) (ImportReport, error) {
	b.mu.Lock()
	if b.disposed {
		b.mu.Unlock()
		return ImportReport{}, ErrDisposed
	}
	w := b.widget
	b.mu.Unlock()

	report, err := w.Import(ctx, xml)

	if err != nil {
		return report, err
	}

	if err = w.ZoomToFit(ctx); err != nil {
		return report, err
	}

	return report, nil
}

// EnableEditing registers the save callback for edit mode. Further calls are
// ignored so a re-rendered screen cannot double-emit saves.
func (b *Binding) EnableEditing(onSave func(xml string)) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached || b.disposed {
		return
	}
	b.attached = true
	b.onSave = onSave
}

// Changed is invoked for every change event coming from the widget. The
// serialized definition reaches the save callback once per quiet period.
func (b *Binding) Changed(ctx context.Context) {
	b.mu.Lock()
	if b.disposed || b.onSave == nil {
		b.mu.Unlock()
		return
	}
	w, onSave := b.widget, b.onSave
	b.mu.Unlock()

	b.debounce.Trigger(func() {
		xml, err := w.Export(ctx)
		if err != nil {
			return
		}
		onSave(xml)
	})
}

// Rebind swaps in a fresh widget instance, disposing the previous one first.
// The change listener must be re-enabled by the caller.
func (b *Binding) Rebind(w Widget) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.disposed {
		return
	}

	b.debounce.Stop()
	b.widget.Dispose()
	b.widget = w
	b.attached = false
	b.onSave = nil
}

// Close disposes the widget and cancels any pending save. The binding is
// unusable afterwards.
func (b *Binding) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.disposed {
		return
	}
	b.disposed = true

	b.debounce.Stop()
	b.widget.Dispose()
}
