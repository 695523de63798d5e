package http

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/nomeacao/api/internal/core/domain"
	"github.com/nomeacao/api/internal/core/ports"
)

type MemberHandler struct {
	members ports.MemberRepository
	guard   *RoleGuard
}

func NewMemberHandler(members ports.MemberRepository, guard *RoleGuard) *MemberHandler {
	return &MemberHandler{
		members: members,
		guard:   guard,
	}
}

func (h *MemberHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r)
	if !ok {
		writeError(w, domain.ErrUnauthenticated)
		return
	}
	member, err := h.members.GetByID(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, member)
}

type approveAllRequest struct {
	ChurchID uuid.UUID `json:"churchId"`
}

// ApproveAll flips every pending member of a church to approved. Admin
// utility for after a bulk import.
func (h *MemberHandler) ApproveAll(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r)
	if !ok {
		writeError(w, domain.ErrUnauthenticated)
		return
	}
	if err := h.guard.requireAdmin(r.Context(), userID); err != nil {
		writeError(w, err)
		return
	}

	var req approveAllRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	approved, err := h.members.ApproveAll(r.Context(), req.ChurchID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"approved": approved})
}
