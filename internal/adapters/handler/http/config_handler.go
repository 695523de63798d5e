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

type ConfigHandler struct {
	service ports.ConfigService
	guard   *RoleGuard
}

func NewConfigHandler(service ports.ConfigService, guard *RoleGuard) *ConfigHandler {
	return &ConfigHandler{
		service: service,
		guard:   guard,
	}
}

type createConfigRequest struct {
	ChurchID       uuid.UUID                  `json:"churchId"`
	ChurchName     string                     `json:"churchName"`
	Title          string                     `json:"title"`
	Positions      []string                   `json:"positions"`
	Voters         []uuid.UUID                `json:"voters"`
	Criteria       domain.EligibilityCriteria `json:"criteria"`
	MaxNominations int                        `json:"maxNominations"`
}

func (h *ConfigHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r)
	if !ok {
		writeError(w, domain.ErrUnauthenticated)
		return
	}
	if err := h.guard.requireAdmin(r.Context(), userID); err != nil {
		writeError(w, err)
		return
	}

	var req createConfigRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	config, err := h.service.Create(r.Context(), ports.CreateConfigInput{
		ChurchID:       req.ChurchID,
		ChurchName:     req.ChurchName,
		Title:          req.Title,
		Positions:      req.Positions,
		Voters:         req.Voters,
		Criteria:       req.Criteria,
		MaxNominations: req.MaxNominations,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, config)
}

type updateConfigRequest struct {
	Title          *string                     `json:"title"`
	Positions      []string                    `json:"positions"`
	Voters         []uuid.UUID                 `json:"voters"`
	Criteria       *domain.EligibilityCriteria `json:"criteria"`
	MaxNominations *int                        `json:"maxNominations"`
}

func (h *ConfigHandler) Update(w http.ResponseWriter, r *http.Request) {
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

	var req updateConfigRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	config, err := h.service.Update(r.Context(), configID, ports.UpdateConfigInput{
		Title:          req.Title,
		Positions:      req.Positions,
		Voters:         req.Voters,
		Criteria:       req.Criteria,
		MaxNominations: req.MaxNominations,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, config)
}

func (h *ConfigHandler) Get(w http.ResponseWriter, r *http.Request) {
	if _, ok := userIDFrom(r); !ok {
		writeError(w, domain.ErrUnauthenticated)
		return
	}
	configID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid config id", http.StatusBadRequest)
		return
	}
	config, err := h.service.Get(r.Context(), configID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, config)
}

func (h *ConfigHandler) Delete(w http.ResponseWriter, r *http.Request) {
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
	if err := h.service.Delete(r.Context(), configID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type maxNominationsRequest struct {
	ConfigID       uuid.UUID `json:"configId"`
	MaxNominations int       `json:"maxNominations"`
}

func (h *ConfigHandler) SetMaxNominations(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r)
	if !ok {
		writeError(w, domain.ErrUnauthenticated)
		return
	}
	if err := h.guard.requireAdmin(r.Context(), userID); err != nil {
		writeError(w, err)
		return
	}

	var req maxNominationsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.service.SetMaxNominations(r.Context(), req.ConfigID, req.MaxNominations); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type candidateRemovalRequest struct {
	MemberID uuid.UUID `json:"memberId"`
}

func (h *ConfigHandler) RemoveCandidate(w http.ResponseWriter, r *http.Request) {
	h.mutateRemovedSet(w, r, h.service.RemoveCandidate)
}

func (h *ConfigHandler) RestoreCandidate(w http.ResponseWriter, r *http.Request) {
	h.mutateRemovedSet(w, r, h.service.RestoreCandidate)
}

func (h *ConfigHandler) mutateRemovedSet(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, id, memberID uuid.UUID) error) {
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

	var req candidateRemovalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := op(r.Context(), configID, req.MemberID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
