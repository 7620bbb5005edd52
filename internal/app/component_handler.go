package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
)

type renderer interface {
	Render(ctx context.Context, w io.Writer) error
}

// ComponentResponse is what every screen handler produces: a component plus
// transport metadata. Errors are logged here and rendered as part of the
// component (the screen keeps working), never as a bare HTTP failure.
type ComponentResponse struct {
	Error       error
	Message     string
	Code        int
	ContentType string
	Component   renderer
}

type ComponentHandler func(http.ResponseWriter, *http.Request) *ComponentResponse

func (ch ComponentHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	resp := ch(w, r)

	if resp == nil {
		return
	}

	if resp.Error != nil {
		slog.Error(fmt.Sprintf(`Error occured: %s`, resp.Error.Error()))
	}

	if resp.ContentType != "" {
		w.Header().Add("Content-Type", resp.ContentType)
	}

	if resp.Code != 0 {
		// Error components still render on the client; only real transport
		// codes pass through.
		if resp.Code != 200 && resp.Code != 201 {
			resp.Code = 200
		}
		w.WriteHeader(resp.Code)
	}

	if resp.Component == nil {
		return
	}

	if err := resp.Component.Render(r.Context(), w); err != nil {
		slog.Error(fmt.Sprintf(`Error occured: %s`, err.Error()))
		http.Error(w, "templ: failed to render template", 500)
	}
}

func ok(c renderer) *ComponentResponse {
	return &ComponentResponse{Component: c, Code: 200, Message: "OK", ContentType: "text/html"}
}
