// Package handlers provides HTTP request handlers for the combination risk
// API endpoints: drug and disease lookups, combination ranking, CSV export,
// health checks, and response formatting with input validation.
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/Icyfire18/sider-prediction/interfaces"
	"github.com/Icyfire18/sider-prediction/logging"
	"github.com/Icyfire18/sider-prediction/metrics"
	"github.com/Icyfire18/sider-prediction/prediction"
	"github.com/Icyfire18/sider-prediction/scheduler"
	"github.com/Icyfire18/sider-prediction/siderparser/entities"
	"github.com/go-chi/chi/v5"
)

// Compile-time check to ensure HTTPHandlerImpl implements HTTPHandler
var _ interfaces.HTTPHandler = (*HTTPHandlerImpl)(nil)

const drugsPageSize = 25

// HTTPHandlerImpl implements the interfaces.HTTPHandler interface
type HTTPHandlerImpl struct {
	dataStore interfaces.DataStore
	validator interfaces.DataValidator
	model     interfaces.SeverityModel
	workers   int

	// One scorer per dataset snapshot; rebuilt lazily after a swap
	mu             sync.Mutex
	scorerSnapshot *entities.Dataset
	scorer         *prediction.Scorer
}

// NewHTTPHandler creates a new HTTP handler with injected dependencies
func NewHTTPHandler(dataStore interfaces.DataStore, validator interfaces.DataValidator, model interfaces.SeverityModel, workers int) *HTTPHandlerImpl {
	return &HTTPHandlerImpl{
		dataStore: dataStore,
		validator: validator,
		model:     model,
		workers:   workers,
	}
}

// ServeHTTP implements the http.Handler interface. Routing is handled by
// chi; this only exists to satisfy the interface.
func (h *HTTPHandlerImpl) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	http.Error(w, "Not implemented", http.StatusNotImplemented)
}

// RespondWithJSON writes a JSON response
func (h *HTTPHandlerImpl) RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		logging.Error("Failed to marshal JSON response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Last-Modified", time.Now().UTC().Format(http.TimeFormat))
	w.WriteHeader(code)
	w.Write(data)
}

// RespondWithError writes a JSON error response
func (h *HTTPHandlerImpl) RespondWithError(w http.ResponseWriter, code int, message string) {
	errorResponse := map[string]interface{}{
		"error":   http.StatusText(code),
		"message": message,
		"code":    code,
	}
	h.RespondWithJSON(w, code, errorResponse)
}

// ServePagedDrugs returns paginated drug profiles
func (h *HTTPHandlerImpl) ServePagedDrugs(w http.ResponseWriter, r *http.Request) {
	pageNumber := chi.URLParam(r, "pageNumber")
	page, err := strconv.Atoi(pageNumber)
	if err != nil || page < 1 {
		logging.Warn("Unusual user input", "pageNumber", pageNumber)
		h.RespondWithError(w, http.StatusBadRequest, "Invalid page number")
		return
	}

	drugs := h.dataStore.GetDrugs()
	start := (page - 1) * drugsPageSize
	end := start + drugsPageSize

	if start >= len(drugs) {
		h.RespondWithError(w, http.StatusNotFound, "Page not found")
		return
	}

	if end > len(drugs) {
		end = len(drugs)
	}

	totalItems := len(drugs)
	maxPage := (totalItems + drugsPageSize - 1) / drugsPageSize

	response := map[string]interface{}{
		"data":       drugs[start:end],
		"page":       page,
		"pageSize":   drugsPageSize,
		"totalItems": totalItems,
		"maxPage":    maxPage,
	}

	h.RespondWithJSON(w, http.StatusOK, response)
}

// FindDrug searches for drugs by name substring
func (h *HTTPHandlerImpl) FindDrug(w http.ResponseWriter, r *http.Request) {
	element := chi.URLParam(r, "name")
	if element == "" {
		h.RespondWithError(w, http.StatusBadRequest, "Missing search term")
		return
	}

	if err := h.validator.ValidateInput(element); err != nil {
		h.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	needle := strings.ToLower(element)

	drugs := h.dataStore.GetDrugs()
	results := []entities.Drug{}

	for _, drug := range drugs {
		if strings.Contains(strings.ToLower(drug.Name), needle) {
			results = append(results, drug)
		}
	}

	// Always return 200 with a results array (empty if no matches)
	h.RespondWithJSON(w, http.StatusOK, results)
}

// FindDrugByName returns the profile of one drug by exact name
func (h *HTTPHandlerImpl) FindDrugByName(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if err := h.validator.ValidateInput(name); err != nil {
		h.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	drug, ok := h.dataStore.GetDrugsByName()[name]
	if !ok {
		h.RespondWithError(w, http.StatusNotFound, fmt.Sprintf("Unknown drug: %s", name))
		return
	}

	h.RespondWithJSON(w, http.StatusOK, drug)
}

// ServeDiseases returns all known diseases
func (h *HTTPHandlerImpl) ServeDiseases(w http.ResponseWriter, r *http.Request) {
	diseaseDrugs := h.dataStore.GetDiseaseDrugs()

	diseases := make([]string, 0, len(diseaseDrugs))
	for disease := range diseaseDrugs {
		diseases = append(diseases, disease)
	}
	sort.Strings(diseases)

	h.RespondWithJSON(w, http.StatusOK, diseases)
}

// FindDrugsByDisease returns the drugs eligible for a disease
func (h *HTTPHandlerImpl) FindDrugsByDisease(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if err := h.validator.ValidateInput(name); err != nil {
		h.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	drugs, ok := h.dataStore.GetDiseaseDrugs()[name]
	if !ok {
		h.RespondWithError(w, http.StatusNotFound, fmt.Sprintf("Unknown disease: %s", name))
		return
	}

	h.RespondWithJSON(w, http.StatusOK, drugs)
}

// currentScorer returns a scorer for the current snapshot, rebuilding the
// side-effect index only when the snapshot changed
func (h *HTTPHandlerImpl) currentScorer() (*prediction.Scorer, error) {
	snapshot := h.dataStore.Snapshot()

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.scorer != nil && h.scorerSnapshot == snapshot {
		return h.scorer, nil
	}

	scorer, err := prediction.NewScorer(snapshot, h.model, h.workers)
	if err != nil {
		return nil, err
	}

	h.scorerSnapshot = snapshot
	h.scorer = scorer
	return scorer, nil
}

// rankForRequest runs a full ranking sweep for the anchor in the URL
func (h *HTTPHandlerImpl) rankForRequest(w http.ResponseWriter, r *http.Request) (*entities.Ranking, bool) {
	anchor := chi.URLParam(r, "drug")
	if err := h.validator.ValidateInput(anchor); err != nil {
		h.RespondWithError(w, http.StatusBadRequest, err.Error())
		return nil, false
	}

	scorer, err := h.currentScorer()
	if err != nil {
		logging.Error("Failed to build scorer", "error", err)
		h.RespondWithError(w, http.StatusServiceUnavailable, "Scoring is not available yet")
		return nil, false
	}

	start := time.Now()
	ranking, err := scorer.Rank(r.Context(), anchor)
	if err != nil {
		switch {
		case errors.Is(err, prediction.ErrUnknownDrug):
			h.RespondWithError(w, http.StatusNotFound, fmt.Sprintf("Unknown drug: %s", anchor))
		case r.Context().Err() != nil:
			// Client went away; chi has nothing to write to
			logging.Warn("Ranking cancelled", "anchor", anchor, "error", err)
		default:
			logging.Error("Ranking failed", "anchor", anchor, "error", err)
			h.RespondWithError(w, http.StatusInternalServerError, "Ranking failed")
		}
		return nil, false
	}

	metrics.CombinationRankingsTotal.Inc()
	metrics.CandidatesScoredTotal.Add(float64(len(ranking.Results)))
	metrics.ModelInferenceFailuresTotal.Add(float64(len(ranking.Failures)))
	metrics.RankingDuration.Observe(time.Since(start).Seconds())

	return ranking, true
}

// RankCombinations returns the full combination ranking for an anchor
// drug, safest first. The optional top query parameter limits the response
// to the N safest candidates; failures are always reported in full.
func (h *HTTPHandlerImpl) RankCombinations(w http.ResponseWriter, r *http.Request) {
	ranking, ok := h.rankForRequest(w, r)
	if !ok {
		return
	}

	if topParam := r.URL.Query().Get("top"); topParam != "" {
		top, err := strconv.Atoi(topParam)
		if err != nil || top < 1 {
			h.RespondWithError(w, http.StatusBadRequest, "Invalid top parameter")
			return
		}
		if top < len(ranking.Results) {
			ranking.Results = ranking.Results[:top]
		}
	}

	h.RespondWithJSON(w, http.StatusOK, ranking)
}

// ExportCombinations streams the full ranking as a CSV download
func (h *HTTPHandlerImpl) ExportCombinations(w http.ResponseWriter, r *http.Request) {
	ranking, ok := h.rankForRequest(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="drug_combinations.csv"`)
	w.WriteHeader(http.StatusOK)

	if err := prediction.WriteCSV(w, ranking.Results); err != nil {
		logging.Error("Failed to write ranking export", "anchor", ranking.Anchor, "error", err)
	}
}

// HealthResponse defines the structure for consistent JSON ordering
type HealthResponse struct {
	Status        string         `json:"status"`
	LastUpdate    string         `json:"last_update"`
	DataAgeHours  float64        `json:"data_age_hours"`
	UptimeSeconds float64        `json:"uptime_seconds"`
	NextUpdate    string         `json:"next_update"`
	Data          map[string]any `json:"data"`
	System        map[string]any `json:"system"`
}

// HealthCheck reports service health based on dataset freshness
func (h *HTTPHandlerImpl) HealthCheck(w http.ResponseWriter, r *http.Request) {
	drugs := h.dataStore.GetDrugs()
	vocabulary := h.dataStore.GetVocabulary()
	lastUpdate := h.dataStore.GetLastUpdated()
	isUpdating := h.dataStore.IsUpdating()

	dataAge := time.Since(lastUpdate)

	var status string
	var httpStatus int
	switch {
	case len(drugs) == 0 || vocabulary.Size() == 0:
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable
	case dataAge > 48*time.Hour:
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable
	default:
		status = "healthy"
		httpStatus = http.StatusOK
	}

	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	response := HealthResponse{
		Status:        status,
		LastUpdate:    lastUpdate.Format(time.RFC3339),
		DataAgeHours:  dataAge.Hours(),
		UptimeSeconds: time.Since(h.dataStore.GetServerStartTime()).Seconds(),
		NextUpdate:    scheduler.CalculateNextUpdate().Format(time.RFC3339),
		Data: map[string]any{
			"drug_count":      len(drugs),
			"vocabulary_size": vocabulary.Size(),
			"disease_count":   len(h.dataStore.GetDiseaseDrugs()),
			"is_updating":     isUpdating,
			"model_classes":   h.model.ClassCount(),
		},
		System: map[string]any{
			"memory_usage_mb": int(m.Alloc / 1024 / 1024),
			"goroutines":      runtime.NumGoroutine(),
		},
	}

	h.RespondWithJSON(w, httpStatus, response)
}
