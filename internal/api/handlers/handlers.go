// Package handlers exposes the read-only query surface over the knowledge
// graph and calibration tracker. All mutation flows through the engine,
// never through HTTP.
package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/XavierBriggs/fortuna/services/handicap-engine/internal/calibration"
	"github.com/XavierBriggs/fortuna/services/handicap-engine/internal/graph"
	"github.com/XavierBriggs/fortuna/services/handicap-engine/internal/ratings"
	"github.com/XavierBriggs/fortuna/services/handicap-engine/internal/registry"
)

const defaultSimilarLimit = 10

// Handler contains dependencies for HTTP handlers
type Handler struct {
	graph    *graph.Graph
	tracker  *calibration.Tracker
	store    *ratings.Store
	registry *registry.Registry
}

// NewHandler creates a new handler
func NewHandler(g *graph.Graph, tracker *calibration.Tracker, store *ratings.Store, reg *registry.Registry) *Handler {
	return &Handler{
		graph:    g,
		tracker:  tracker,
		store:    store,
		registry: reg,
	}
}

// Routes builds the HTTP router
func (h *Handler) Routes() *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/health", h.HealthCheck)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/report", h.CalibrationReport)
		r.Get("/performance", h.Performance)
		r.Get("/recommendations/active", h.ActiveRecommendations)
		r.Get("/ratings/{sportKey}/{teamID}", h.Rating)
		r.Get("/games/{gameID}/evaluations", h.GameEvaluations)
		r.Get("/games/{gameID}/similar", h.SimilarGames)
	})

	return r
}

// HealthCheck returns service health
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "handicap-engine",
	})
}

// CalibrationReport computes the on-demand calibration report for a league
func (h *Handler) CalibrationReport(w http.ResponseWriter, r *http.Request) {
	league := r.URL.Query().Get("league")
	if league == "" {
		respondError(w, http.StatusBadRequest, "league query parameter required")
		return
	}

	windowWeeks := queryInt(r, "window_weeks", 0)
	if windowWeeks < 0 {
		respondError(w, http.StatusBadRequest, "window_weeks must be >= 0")
		return
	}

	report, err := h.tracker.Report(r.Context(), league, windowWeeks)
	if err != nil {
		respondError(w, http.StatusInternalServerError, fmt.Sprintf("report error: %v", err))
		return
	}

	respondJSON(w, http.StatusOK, report)
}

// Performance aggregates graded recommendations, filterable by season/week
func (h *Handler) Performance(w http.ResponseWriter, r *http.Request) {
	season := queryInt(r, "season", 0)
	week := queryInt(r, "week", 0)

	respondJSON(w, http.StatusOK, h.graph.Performance(season, week))
}

// ActiveRecommendations lists open recommendations still clearing the
// lowest registered edge threshold
func (h *Handler) ActiveRecommendations(w http.ResponseWriter, r *http.Request) {
	minEdge := h.lowestMinEdge()

	recs := h.graph.ActiveRecommendations(minEdge)
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":           len(recs),
		"min_edge_pct":    minEdge,
		"recommendations": recs,
	})
}

// Rating returns the current rating snapshot for a team
func (h *Handler) Rating(w http.ResponseWriter, r *http.Request) {
	sportKey := chi.URLParam(r, "sportKey")
	teamID := chi.URLParam(r, "teamID")

	snap, ok := h.store.Snapshot(teamID, sportKey)
	if !ok {
		respondError(w, http.StatusNotFound, fmt.Sprintf("no rating for team %s in %s", teamID, sportKey))
		return
	}

	respondJSON(w, http.StatusOK, snap)
}

// GameEvaluations returns every evaluation recorded for a game,
// oldest first
func (h *Handler) GameEvaluations(w http.ResponseWriter, r *http.Request) {
	gameID := chi.URLParam(r, "gameID")

	if _, ok := h.graph.Game(gameID); !ok {
		respondError(w, http.StatusNotFound, fmt.Sprintf("game not found: %s", gameID))
		return
	}

	evals := h.graph.EvaluationsForGame(gameID)
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"game_id":     gameID,
		"count":       len(evals),
		"evaluations": evals,
	})
}

// SimilarGames ranks historical games by spread similarity to the target
func (h *Handler) SimilarGames(w http.ResponseWriter, r *http.Request) {
	gameID := chi.URLParam(r, "gameID")
	limit := queryInt(r, "limit", defaultSimilarLimit)

	similar, err := h.graph.SimilarMatchups(gameID, limit)
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"game_id": gameID,
		"count":   len(similar),
		"similar": similar,
	})
}

func (h *Handler) lowestMinEdge() float64 {
	minEdge := 0.0
	first := true
	for _, key := range h.registry.Keys() {
		profile, ok := h.registry.Get(key)
		if !ok {
			continue
		}
		if first || profile.MinEdgePct() < minEdge {
			minEdge = profile.MinEdgePct()
			first = false
		}
	}
	return minEdge
}

func queryInt(r *http.Request, key string, defaultValue int) int {
	if value := r.URL.Query().Get(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// respondJSON writes a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError writes a JSON error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
