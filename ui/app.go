package ui

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"datalens/adapters/excel"
	"datalens/domain/summary"
	"datalens/internal"
	"datalens/internal/config"
	"datalens/internal/memo"
	"datalens/internal/session"
)

//go:embed templates/* static/*
var embeddedFiles embed.FS

// App is the dashboard web application: the UI shell around the loader and
// the filter/aggregate pipeline.
type App struct {
	router    *chi.Mux
	templates *template.Template
	cfg       *config.Config
	logger    *internal.Logger

	loads    *memo.LoadCache
	exports  *memo.ExportCache
	sessions *session.Store
}

// NewApp wires the dashboard: cached loader, cached exporter, session store,
// templates and routes.
func NewApp(cfg *config.Config) (*App, error) {
	funcMap := template.FuncMap{
		"pct": summary.FormatPercent,
		"add": func(a, b int) int { return a + b },
	}
	templates, err := template.New("").Funcs(funcMap).ParseFS(embeddedFiles, "templates/*.html", "templates/fragments/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	app := &App{
		router:    chi.NewRouter(),
		templates: templates,
		cfg:       cfg,
		logger:    internal.DefaultLogger,
		loads:     memo.NewLoadCache(excel.NewLoader()),
		exports:   memo.NewExportCache(excel.NewWriter()),
		sessions:  session.NewStore(),
	}

	app.setupMiddleware()
	app.setupRoutes()
	app.logger.Debug("application wired: %d routes registered", len(app.router.Routes()))
	return app, nil
}

// setupMiddleware configures HTTP middleware
func (a *App) setupMiddleware() {
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Compress(5))

	staticFS := http.FileServer(http.FS(embeddedFiles))
	a.router.Handle("/static/*", staticFS)
}

// setupRoutes configures the application routes
func (a *App) setupRoutes() {
	// Main pages
	a.router.Get("/", a.handleIndex)
	a.router.Get("/dashboard", a.handleDashboard)
	a.router.Get("/help", a.handleHelp)

	// Upload and the two-phase filter contract: controls stash a pending
	// spec, an explicit apply promotes it.
	a.router.Post("/api/datasets/upload", a.handleUpload)
	a.router.Post("/api/filters", a.handleSaveFilters)
	a.router.Post("/api/filters/apply", a.handleApplyFilters)

	// JSON feeds for the rendering collaborator
	a.router.Get("/api/summary", a.handleSummary)
	a.router.Get("/api/chart", a.handleChart)

	// Spreadsheet downloads
	a.router.Get("/download/filtered.xlsx", a.handleDownloadFiltered)
	a.router.Get("/download/original-summary.xlsx", a.handleDownloadOriginalSummary)
	a.router.Get("/download/filtered-summary.xlsx", a.handleDownloadFilteredSummary)
}

// Router exposes the HTTP handler, mainly for tests.
func (a *App) Router() http.Handler {
	return a.router
}

// Start starts the HTTP server
func (a *App) Start(addr string) error {
	a.logger.Info("Starting datalens server on %s", addr)
	return http.ListenAndServe(addr, a.router)
}

// Template helpers
func (a *App) renderTemplate(w http.ResponseWriter, templateName string, data interface{}) {
	w.Header().Set("Content-Type", "text/html")
	if err := a.templates.ExecuteTemplate(w, templateName, data); err != nil {
		a.logger.Error("template %s: %v", templateName, err)
		http.Error(w, "Template error", http.StatusInternalServerError)
	}
}

// HTMX helpers
func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

func (a *App) renderPartial(w http.ResponseWriter, templateName string, data interface{}) {
	a.renderTemplate(w, templateName, data)
}
