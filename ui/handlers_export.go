package ui

import (
	"fmt"
	"log"
	"net/http"

	"datalens/internal/pipeline"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func (a *App) handleDownloadFiltered(w http.ResponseWriter, r *http.Request) {
	sess, err := a.currentSession(r)
	if err != nil {
		http.Error(w, "no active session", http.StatusUnauthorized)
		return
	}

	data, err := a.exports.TableBytes(sess.Filtered)
	if err != nil {
		log.Printf("[handleDownloadFiltered] FAILED - session %s: %v", sess.ID.String(), err)
		http.Error(w, "export failed", http.StatusInternalServerError)
		return
	}
	serveXLSX(w, fmt.Sprintf("%s_filtered.xlsx", datasetStem(sess.Filename)), data)
}

func (a *App) handleDownloadOriginalSummary(w http.ResponseWriter, r *http.Request) {
	sess, err := a.currentSession(r)
	if err != nil {
		http.Error(w, "no active session", http.StatusUnauthorized)
		return
	}

	dist := pipeline.FrequencyPercentage(sess.Raw, sess.Target)
	data, err := a.exports.DistributionBytes(dist)
	if err != nil {
		log.Printf("[handleDownloadOriginalSummary] FAILED - session %s: %v", sess.ID.String(), err)
		http.Error(w, "export failed", http.StatusInternalServerError)
		return
	}
	serveXLSX(w, fmt.Sprintf("%s_original_%s.xlsx", datasetStem(sess.Filename), sess.Target), data)
}

func (a *App) handleDownloadFilteredSummary(w http.ResponseWriter, r *http.Request) {
	sess, err := a.currentSession(r)
	if err != nil {
		http.Error(w, "no active session", http.StatusUnauthorized)
		return
	}

	dist := pipeline.FrequencyPercentage(sess.Filtered, sess.Target)
	data, err := a.exports.DistributionBytes(dist)
	if err != nil {
		log.Printf("[handleDownloadFilteredSummary] FAILED - session %s: %v", sess.ID.String(), err)
		http.Error(w, "export failed", http.StatusInternalServerError)
		return
	}
	serveXLSX(w, fmt.Sprintf("%s_filtered_%s.xlsx", datasetStem(sess.Filename), sess.Target), data)
}

func serveXLSX(w http.ResponseWriter, filename string, data []byte) {
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", len(data)))
	_, _ = w.Write(data)
}
