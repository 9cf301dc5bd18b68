package ui

import (
	"fmt"
	"log"
	"net/http"
	"strconv"

	"datalens/domain/filter"
	"datalens/domain/table"
	"datalens/internal/errors"
	"datalens/internal/pipeline"
	"datalens/internal/session"
)

// Form field naming: numeric columns post min_<col>/max_<col>, categorical
// columns post repeated sel_<col> values (possibly including the "all"
// sentinel). chart and target carry the view controls.

// parseFilterSpec builds a FilterSpec from the posted form using the
// session's column profiles, so the predicate variant is chosen from the
// column kind fixed at load time. Columns with no posted control, an empty
// selection or the "all" sentinel stay unrestricted.
func parseFilterSpec(r *http.Request, profiles []pipeline.ColumnProfile) (filter.Spec, error) {
	if err := r.ParseForm(); err != nil {
		return nil, errors.InvalidInput("malformed filter form")
	}

	spec := filter.Spec{}
	for _, p := range profiles {
		switch p.Kind {
		case table.KindNumeric:
			minRaw := r.PostForm.Get("min_" + p.Name)
			maxRaw := r.PostForm.Get("max_" + p.Name)
			if minRaw == "" && maxRaw == "" {
				continue
			}
			rng, err := parseRange(p, minRaw, maxRaw)
			if err != nil {
				return nil, err
			}
			spec[p.Name] = rng
		case table.KindCategorical:
			selected := r.PostForm["sel_"+p.Name]
			if len(selected) == 0 {
				continue
			}
			m := filter.NewMembership(selected)
			if m.Unrestricted() {
				continue
			}
			spec[p.Name] = m
		}
	}
	return spec, nil
}

// parseRange fills a missing bound from the column profile, so a one-sided
// control still yields a closed range.
func parseRange(p pipeline.ColumnProfile, minRaw, maxRaw string) (filter.Range, error) {
	rng := filter.Range{Min: p.Min, Max: p.Max}
	if minRaw != "" {
		v, err := strconv.ParseFloat(minRaw, 64)
		if err != nil {
			return rng, errors.InvalidInput(fmt.Sprintf("invalid lower bound for %s", p.Name))
		}
		rng.Min = v
	}
	if maxRaw != "" {
		v, err := strconv.ParseFloat(maxRaw, 64)
		if err != nil {
			return rng, errors.InvalidInput(fmt.Sprintf("invalid upper bound for %s", p.Name))
		}
		rng.Max = v
	}
	return rng, nil
}

// handleSaveFilters stores the controls' output as the session's pending
// spec. Nothing is filtered until the apply action promotes it.
func (a *App) handleSaveFilters(w http.ResponseWriter, r *http.Request) {
	sess, err := a.currentSession(r)
	if err != nil {
		http.Error(w, "no active session", http.StatusUnauthorized)
		return
	}

	spec, err := parseFilterSpec(r, sess.Profiles)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := a.sessions.SetPending(sess.ID, spec); err != nil {
		http.Error(w, "no active session", http.StatusUnauthorized)
		return
	}
	a.setViewControls(r, sess)

	log.Printf("[handleSaveFilters] session %s pending spec on %d columns", sess.ID.String(), len(spec))
	if isHTMX(r) {
		a.renderPartial(w, "pending.html", struct{ Columns []string }{Columns: spec.Columns()})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleApplyFilters promotes the pending spec to active and recomputes the
// filtered table. A spec that excludes every row is not an error; the
// dashboard renders the empty view.
func (a *App) handleApplyFilters(w http.ResponseWriter, r *http.Request) {
	sess, err := a.currentSession(r)
	if err != nil {
		http.Error(w, "no active session", http.StatusUnauthorized)
		return
	}

	// The apply form posts the full control state, so take it as pending
	// before promotion rather than requiring a prior save.
	if r.PostForm == nil {
		_ = r.ParseForm()
	}
	if len(r.PostForm) > 0 {
		spec, err := parseFilterSpec(r, sess.Profiles)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := a.sessions.SetPending(sess.ID, spec); err != nil {
			http.Error(w, "no active session", http.StatusUnauthorized)
			return
		}
		a.setViewControls(r, sess)
	}

	active, err := a.sessions.Promote(sess.ID)
	if err != nil {
		http.Error(w, "no active session", http.StatusUnauthorized)
		return
	}

	filtered, err := pipeline.ApplyFilters(sess.Raw, active)
	if err != nil {
		log.Printf("[handleApplyFilters] FAILED - session %s: %v", sess.ID.String(), err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := a.sessions.SetFiltered(sess.ID, filtered); err != nil {
		http.Error(w, "no active session", http.StatusUnauthorized)
		return
	}

	log.Printf("[handleApplyFilters] session %s filtered %d -> %d rows",
		sess.ID.String(), sess.Raw.NumRows(), filtered.NumRows())

	if isHTMX(r) {
		a.renderPartial(w, "results.html", a.dashboardViewFor(sess, ""))
		return
	}
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func (a *App) setViewControls(r *http.Request, sess *session.Session) {
	chart := r.PostForm.Get("chart")
	target := r.PostForm.Get("target")
	if chart == "" && target == "" {
		return
	}
	if err := a.sessions.SetView(sess.ID, chart, target); err != nil {
		log.Printf("[setViewControls] session %s: %v", sess.ID.String(), err)
	}
}
