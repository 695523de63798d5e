package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/nomeacao/api/internal/core/domain"
	"github.com/nomeacao/api/internal/core/ports"
)

type ElectionHandler struct {
	service ports.ElectionService
	guard   *RoleGuard
}

func NewElectionHandler(service ports.ElectionService, guard *RoleGuard) *ElectionHandler {
	return &ElectionHandler{
		service: service,
		guard:   guard,
	}
}

type configIDRequest struct {
	ConfigID uuid.UUID `json:"configId"`
}

func (h *ElectionHandler) Start(w http.ResponseWriter, r *http.Request) {
	h.adminTransition(w, r, func(ctx context.Context, configID uuid.UUID) (any, error) {
		return h.service.Start(ctx, configID)
	})
}

func (h *ElectionHandler) AdvancePhase(w http.ResponseWriter, r *http.Request) {
	h.adminTransition(w, r, func(ctx context.Context, configID uuid.UUID) (any, error) {
		return h.service.AdvancePhase(ctx, configID)
	})
}

func (h *ElectionHandler) AdvancePosition(w http.ResponseWriter, r *http.Request) {
	h.adminTransition(w, r, func(ctx context.Context, configID uuid.UUID) (any, error) {
		return h.service.AdvancePosition(ctx, configID)
	})
}

func (h *ElectionHandler) AnnounceResult(w http.ResponseWriter, r *http.Request) {
	h.adminTransition(w, r, func(ctx context.Context, configID uuid.UUID) (any, error) {
		return h.service.AnnounceResult(ctx, configID)
	})
}

func (h *ElectionHandler) ResetVoting(w http.ResponseWriter, r *http.Request) {
	h.adminTransition(w, r, func(ctx context.Context, configID uuid.UUID) (any, error) {
		if err := h.service.ResetVoting(ctx, configID); err != nil {
			return nil, err
		}
		return map[string]string{"status": "ok"}, nil
	})
}

func (h *ElectionHandler) ToggleConfigStatus(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r)
	if !ok {
		writeError(w, domain.ErrUnauthenticated)
		return
	}
	if err := h.guard.requireAdmin(r.Context(), userID); err != nil {
		writeError(w, err)
		return
	}
	configID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid config id", http.StatusBadRequest)
		return
	}
	config, err := h.service.ToggleConfigStatus(r.Context(), configID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, config)
}

// adminTransition wraps the admin phase/position endpoints: same auth, same
// configId payload, same error mapping.
func (h *ElectionHandler) adminTransition(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, configID uuid.UUID) (any, error)) {
	userID, ok := userIDFrom(r)
	if !ok {
		writeError(w, domain.ErrUnauthenticated)
		return
	}
	if err := h.guard.requireAdmin(r.Context(), userID); err != nil {
		writeError(w, err)
		return
	}

	var req configIDRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	result, err := op(r.Context(), req.ConfigID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type voteRequest struct {
	ConfigID    uuid.UUID    `json:"configId"`
	CandidateID uuid.UUID    `json:"candidateId"`
	Phase       domain.Phase `json:"phase"`
}

// Vote records a nomination or a vote depending on the phase the voter acted
// in.
func (h *ElectionHandler) Vote(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r)
	if !ok {
		writeError(w, domain.ErrUnauthenticated)
		return
	}

	var req voteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	err := h.service.Submit(r.Context(), ports.SubmitInput{
		VoterID:     userID,
		ConfigID:    req.ConfigID,
		CandidateID: req.CandidateID,
		Phase:       req.Phase,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"status": "recorded"})
}

func (h *ElectionHandler) ListActive(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r)
	if !ok {
		writeError(w, domain.ErrUnauthenticated)
		return
	}
	elections, err := h.service.ActiveElectionsFor(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	if elections == nil {
		elections = []ports.ActiveElection{}
	}
	writeJSON(w, http.StatusOK, elections)
}

func (h *ElectionHandler) VotingInterface(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r)
	if !ok {
		writeError(w, domain.ErrUnauthenticated)
		return
	}
	configID, err := uuid.Parse(chi.URLParam(r, "configId"))
	if err != nil {
		http.Error(w, "invalid config id", http.StatusBadRequest)
		return
	}
	view, err := h.service.VotingInterfaceFor(r.Context(), configID, userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *ElectionHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r)
	if !ok {
		writeError(w, domain.ErrUnauthenticated)
		return
	}
	if err := h.guard.requireAdmin(r.Context(), userID); err != nil {
		writeError(w, err)
		return
	}
	configID, err := uuid.Parse(chi.URLParam(r, "configId"))
	if err != nil {
		http.Error(w, "invalid config id", http.StatusBadRequest)
		return
	}
	dashboard, err := h.service.DashboardFor(r.Context(), configID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dashboard)
}

func (h *ElectionHandler) ActionLog(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r)
	if !ok {
		writeError(w, domain.ErrUnauthenticated)
		return
	}
	if err := h.guard.requireAdmin(r.Context(), userID); err != nil {
		writeError(w, err)
		return
	}
	configID, err := uuid.Parse(chi.URLParam(r, "configId"))
	if err != nil {
		http.Error(w, "invalid config id", http.StatusBadRequest)
		return
	}
	entries, err := h.service.ActionLog(r.Context(), configID)
	if err != nil {
		writeError(w, err)
		return
	}
	if entries == nil {
		entries = []*domain.ActionLogEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}
