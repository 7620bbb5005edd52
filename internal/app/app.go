package app

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/felixbrock/flowdeck/internal/screen"
)

// Config carries everything the console needs to reach its backends.
type Config struct {
	Port           string
	PromptApiUrl   string
	ProcessApiUrl  string
	AnalysisApiUrl string
	BackendApiKey  string
	RatePerSecond  float64
	RateBurst      int
}

// App wires the screens to the HTTP surface.
type App struct {
	Prompts    *screen.PromptScreen
	TestDialog *screen.TestDialog
	Processes  *screen.ProcessScreen
	Analysis   *screen.AnalysisScreen
	Dashboard  *screen.Dashboard
	Workspace  *screen.WorkspaceScreen
	Config     Config
}

// Start blocks serving the console until the listener fails.
func (a App) Start() error {
	mux := http.NewServeMux()
	a.routes(mux)

	mux.Handle("/static/",
		http.StripPrefix("/static/", http.FileServer(http.Dir("static"))))

	limiter := rate.NewLimiter(rate.Limit(a.Config.RatePerSecond), a.Config.RateBurst)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", a.Config.Port),
		Handler:           limit(limiter, mux),
		ReadHeaderTimeout: 5 * time.Second,
	}

	slog.Info(fmt.Sprintf("flowdeck listening on %s", a.Config.Port))
	return server.ListenAndServe()
}

func limit(limiter *rate.Limiter, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !limiter.Allow() {
			http.Error(w, "too many requests", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}
