package diagram

import (
	"context"
	"encoding/xml"
	"errors"
	"io"
	"strings"
	"sync"
)

// EmbeddedWidget is the server-side mirror of the browser widget. Import
// checks the definition for well-formedness and caches it; change events
// posted by the page update the cache so Export always returns the latest
// serialized definition.
type EmbeddedWidget struct {
	mu       sync.Mutex
	xml      string
	fitted   bool
	disposed bool
}

func NewEmbeddedWidget() *EmbeddedWidget {
	return &EmbeddedWidget{}
}

func (w *EmbeddedWidget) Import(ctx context.Context, definition string) (ImportReport, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.disposed {
		return ImportReport{}, ErrDisposed
	}

	var report ImportReport

	if err := checkWellFormed(definition); err != nil {
		return report, err
	}

	if !strings.Contains(definition, "bpmndi:BPMNDiagram") {
		report.Warnings = append(report.Warnings, "definition carries no diagram interchange; layout will be generated")
	}

	w.xml = definition
	w.fitted = false
	return report, nil
}

func (w *EmbeddedWidget) Export(ctx context.Context) (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.disposed {
		return "", ErrDisposed
	}

	return w.xml, nil
}

func (w *EmbeddedWidget) ZoomToFit(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.disposed {
		return ErrDisposed
	}

	w.fitted = true
	return nil
}

// Apply records a serialized definition posted by the page's change event.
func (w *EmbeddedWidget) Apply(definition string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.disposed {
		return ErrDisposed
	}

	w.xml = definition
	return nil
}

func (w *EmbeddedWidget) Dispose() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.disposed = true
	w.xml = ""
}

func checkWellFormed(definition string) error {
	decoder := xml.NewDecoder(strings.NewReader(definition))
	for {
		_, err := decoder.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
	}
}
