package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/taxism/backend/internal/docstore"
)

const maxDiagCollections = 10

// DiagHandler serves the store diagnostic report used by the frontend
// setup checklist.
type DiagHandler struct {
	logger         *slog.Logger
	client         docstore.Client
	pathConfigured bool
}

// NewDiagHandler constructs a DiagHandler around the given store client.
func NewDiagHandler(logger *slog.Logger, client docstore.Client, pathConfigured bool) *DiagHandler {
	return &DiagHandler{
		logger:         logger,
		client:         client,
		pathConfigured: pathConfigured,
	}
}

type diagResponse struct {
	Backend          string   `json:"backend"`
	Store            string   `json:"store"`
	StorePathSet     bool     `json:"store_path_set"`
	ConnectionStatus string   `json:"connection_status"`
	Collections      []string `json:"collections"`
}

func (h *DiagHandler) handleTest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	resp := diagResponse{
		Backend:          "running",
		Store:            "not available",
		StorePathSet:     h.pathConfigured,
		ConnectionStatus: "not connected",
		Collections:      []string{},
	}

	if h.client == nil {
		respondJSON(w, http.StatusOK, resp)
		return
	}

	if err := h.client.Ping(ctx); err != nil {
		h.logger.Warn("store diagnostic ping failed", "error", err)
		resp.Store = "error: " + truncate(err.Error(), 80)
		respondJSON(w, http.StatusOK, resp)
		return
	}

	resp.Store = "connected"
	resp.ConnectionStatus = "connected"

	collections, err := h.client.Collections(ctx)
	if err != nil {
		h.logger.Warn("store diagnostic collection listing failed", "error", err)
		resp.Store = "connected but error: " + truncate(err.Error(), 80)
		respondJSON(w, http.StatusOK, resp)
		return
	}
	if len(collections) > maxDiagCollections {
		collections = collections[:maxDiagCollections]
	}
	resp.Collections = collections

	respondJSON(w, http.StatusOK, resp)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
