package ui

import (
	"net/http"

	"github.com/go-chi/render"

	"datalens/domain/summary"
	"datalens/internal/pipeline"
)

// summaryResponse pairs the original and filtered distributions of the
// target column for side-by-side display.
type summaryResponse struct {
	Column   string               `json:"column"`
	Original summary.Distribution `json:"original"`
	Filtered summary.Distribution `json:"filtered"`
}

// chartSeries is one renderable series; the front-end collaborator decides
// how to draw it.
type chartSeries struct {
	Title  string    `json:"title"`
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
}

type chartResponse struct {
	Kind     string      `json:"kind"`
	Column   string      `json:"column"`
	Original chartSeries `json:"original"`
	Filtered chartSeries `json:"filtered"`
}

func (a *App) handleSummary(w http.ResponseWriter, r *http.Request) {
	sess, err := a.currentSession(r)
	if err != nil {
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, map[string]string{"error": "no active session"})
		return
	}

	render.JSON(w, r, summaryResponse{
		Column:   sess.Target,
		Original: pipeline.FrequencyPercentage(sess.Raw, sess.Target),
		Filtered: pipeline.FrequencyPercentage(sess.Filtered, sess.Target),
	})
}

func (a *App) handleChart(w http.ResponseWriter, r *http.Request) {
	sess, err := a.currentSession(r)
	if err != nil {
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, map[string]string{"error": "no active session"})
		return
	}

	raw := pipeline.FrequencyPercentage(sess.Raw, sess.Target)
	filtered := pipeline.FrequencyPercentage(sess.Filtered, sess.Target)

	render.JSON(w, r, chartResponse{
		Kind:   sess.ChartKind,
		Column: sess.Target,
		Original: chartSeries{
			Title:  "Original",
			Labels: raw.Labels(),
			Values: raw.Percentages(),
		},
		Filtered: chartSeries{
			Title:  "Filtered",
			Labels: filtered.Labels(),
			Values: filtered.Percentages(),
		},
	})
}
