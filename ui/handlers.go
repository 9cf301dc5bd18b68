package ui

import (
	"html/template"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gomarkdown/markdown"

	"datalens/domain/core"
	"datalens/domain/summary"
	"datalens/domain/table"
	"datalens/internal/pipeline"
	"datalens/internal/session"
)

const sessionCookie = "datalens_session"

// tableView is a render-ready slice of a table.
type tableView struct {
	Headers []string
	Rows    [][]string
}

// indexView backs the upload page.
type indexView struct {
	Error string
}

// dashboardView backs the main exploration page.
type dashboardView struct {
	Filename        string
	RawRows         int
	FilteredRows    int
	RawPreview      tableView
	FilteredPreview tableView
	Profiles        []pipeline.ColumnProfile
	Columns         []string
	ChartKind       string
	Target          string
	RawSummary      summary.Distribution
	FilteredSummary summary.Distribution
	Error           string
}

func (a *App) handleIndex(w http.ResponseWriter, r *http.Request) {
	a.renderTemplate(w, "index.html", indexView{})
}

// handleUpload receives the file, parses it through the memoized loader and
// opens a session. A file neither parse attempt accepts is a user-visible
// load failure with no partial result.
func (a *App) handleUpload(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("dataset")
	if err != nil {
		log.Printf("[handleUpload] FAILED - no file uploaded: %v", err)
		w.WriteHeader(http.StatusBadRequest)
		a.renderTemplate(w, "index.html", indexView{Error: "No file uploaded"})
		return
	}
	defer file.Close()

	if header.Size > a.cfg.Upload.MaxFileSize {
		log.Printf("[handleUpload] FAILED - file too large: %d bytes", header.Size)
		w.WriteHeader(http.StatusBadRequest)
		a.renderTemplate(w, "index.html", indexView{Error: "File exceeds the upload size limit"})
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, a.cfg.Upload.MaxFileSize+1))
	if err != nil {
		log.Printf("[handleUpload] FAILED - could not read upload: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		a.renderTemplate(w, "index.html", indexView{Error: "Could not read the uploaded file"})
		return
	}
	if int64(len(data)) > a.cfg.Upload.MaxFileSize {
		w.WriteHeader(http.StatusBadRequest)
		a.renderTemplate(w, "index.html", indexView{Error: "File exceeds the upload size limit"})
		return
	}

	t, err := a.loads.Load(data)
	if err != nil {
		log.Printf("[handleUpload] FAILED - load error for %s: %v", header.Filename, err)
		w.WriteHeader(http.StatusUnprocessableEntity)
		a.renderTemplate(w, "index.html", indexView{Error: "The file could not be read as semicolon-delimited CSV or XLSX"})
		return
	}

	profiles := pipeline.Profile(t)
	sess := a.sessions.Create(header.Filename, t, profiles)
	log.Printf("[handleUpload] session %s created for %s (%d columns, %d rows)",
		sess.ID.String(), header.Filename, t.NumCols(), t.NumRows())

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    sess.ID.String(),
		Path:     "/",
		HttpOnly: true,
	})
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func (a *App) handleDashboard(w http.ResponseWriter, r *http.Request) {
	sess, err := a.currentSession(r)
	if err != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	a.renderTemplate(w, "dashboard.html", a.dashboardViewFor(sess, ""))
}

func (a *App) handleHelp(w http.ResponseWriter, r *http.Request) {
	source, err := embeddedFiles.ReadFile("static/help.md")
	if err != nil {
		log.Printf("[handleHelp] missing help page: %v", err)
		http.Error(w, "help page unavailable", http.StatusInternalServerError)
		return
	}
	a.renderTemplate(w, "help.html", struct{ Body template.HTML }{
		Body: template.HTML(markdown.ToHTML(source, nil, nil)),
	})
}

// currentSession resolves the session cookie.
func (a *App) currentSession(r *http.Request) (*session.Session, error) {
	cookie, err := r.Cookie(sessionCookie)
	if err != nil {
		return nil, core.ErrSessionNotFound
	}
	id, err := core.ParseSessionID(cookie.Value)
	if err != nil {
		return nil, core.ErrSessionNotFound
	}
	return a.sessions.Get(id)
}

func (a *App) dashboardViewFor(sess *session.Session, errMsg string) dashboardView {
	return dashboardView{
		Filename:        sess.Filename,
		RawRows:         sess.Raw.NumRows(),
		FilteredRows:    sess.Filtered.NumRows(),
		RawPreview:      previewOf(sess.Raw, a.cfg.View.PreviewRows),
		FilteredPreview: previewOf(sess.Filtered, a.cfg.View.PreviewRows),
		Profiles:        sess.Profiles,
		Columns:         sess.Raw.Headers(),
		ChartKind:       sess.ChartKind,
		Target:          sess.Target,
		RawSummary:      pipeline.FrequencyPercentage(sess.Raw, sess.Target),
		FilteredSummary: pipeline.FrequencyPercentage(sess.Filtered, sess.Target),
		Error:           errMsg,
	}
}

func previewOf(t *table.Table, n int) tableView {
	head := t.Head(n)
	rows := make([][]string, head.NumRows())
	for i := range rows {
		rows[i] = head.Row(i)
	}
	return tableView{Headers: head.Headers(), Rows: rows}
}

// datasetStem strips the extension from the uploaded filename for download
// naming, e.g. bank.csv -> bank_filtered.xlsx.
func datasetStem(filename string) string {
	base := filepath.Base(filename)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if stem == "" {
		return "dataset"
	}
	return stem
}
