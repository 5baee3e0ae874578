package api

import (
	"fmt"
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"

	"github.com/warecost-io/warecost/pkg/engine"
	"github.com/warecost-io/warecost/pkg/models"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": "warecost",
		"version": s.version,
	})
}

// buildEngine constructs a request-scoped engine from an analyze
// payload. Budgets are applied in sorted team order so alert output
// is deterministic.
func (s *Server) buildEngine(req models.AnalyzeRequest) (*engine.Engine, error) {
	if len(req.Queries) == 0 {
		return nil, fmt.Errorf("queries must contain at least one record")
	}

	price := req.CreditPrice
	if price <= 0 {
		price = s.cfg.CreditPrice
	}

	eng := engine.New(price)
	if _, err := eng.Load(req.Queries); err != nil {
		return nil, fmt.Errorf("invalid query data: %w", err)
	}

	teams := make([]string, 0, len(req.Budgets))
	for team := range req.Budgets {
		teams = append(teams, team)
	}
	sort.Strings(teams)
	for _, team := range teams {
		eng.SetBudget(team, req.Budgets[team])
	}
	return eng, nil
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	req, ok := readAnalyzeRequest(w, r)
	if !ok {
		return
	}
	eng, err := s.buildEngine(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, eng.Summary())
}

func (s *Server) handleAnomalies(w http.ResponseWriter, r *http.Request) {
	req, ok := readAnalyzeRequest(w, r)
	if !ok {
		return
	}
	eng, err := s.buildEngine(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	z := req.ZThreshold
	if z <= 0 {
		z = s.cfg.ZThreshold
	}
	writeJSON(w, http.StatusOK, map[string][]models.Anomaly{
		"anomalies": eng.Anomalies(z),
	})
}

func (s *Server) handleBreakdown(w http.ResponseWriter, r *http.Request) {
	dim := chi.URLParam(r, "dimension")
	if !validDimension(dim) {
		writeError(w, http.StatusBadRequest,
			fmt.Sprintf("invalid dimension %q, valid: %v", dim, engine.Dimensions))
		return
	}

	req, ok := readAnalyzeRequest(w, r)
	if !ok {
		return
	}
	eng, err := s.buildEngine(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	rows, err := eng.Breakdown(dim)
	if err != nil {
		// dimension already validated at the boundary
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, models.Breakdown{Dimension: dim, Rows: rows})
}

func (s *Server) handleBudgetCheck(w http.ResponseWriter, r *http.Request) {
	req, ok := readAnalyzeRequest(w, r)
	if !ok {
		return
	}
	if len(req.Budgets) == 0 {
		writeError(w, http.StatusBadRequest, "no budgets provided, pass budgets: {team: amount}")
		return
	}
	eng, err := s.buildEngine(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string][]models.BudgetAlert{
		"alerts": eng.BudgetAlerts(),
	})
}

func validDimension(dim string) bool {
	for _, d := range engine.Dimensions {
		if d == dim {
			return true
		}
	}
	return false
}
