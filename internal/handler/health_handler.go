package handlers

import (
	"net/http"
)

type HealthResponse struct {
	Status      string `json:"status"`
	CountTables int    `json:"countTables"`
	CountPosts  int    `json:"countPosts"`
}

func (h *Handlers) HealthHandler(w http.ResponseWriter, r *http.Request) {
	countTables, err := h.StatsRepo.CountTablesDB()
	if err != nil {
		WriteError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	countPosts, err := h.StatsRepo.CountPosts()
	if err != nil {
		WriteError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	WriteSuccess(w, HealthResponse{
		Status:      "ok",
		CountTables: countTables,
		CountPosts:  countPosts,
	}, http.StatusOK)
}

func HomeHandler(w http.ResponseWriter, r *http.Request) {
	WriteSuccess(w, map[string]string{
		"service": "PageDraft API",
		"docs":    "/health",
	}, http.StatusOK)
}
