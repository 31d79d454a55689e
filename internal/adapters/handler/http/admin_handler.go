package http

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/sufragio/api/internal/core/ports"
)

type AdminHandler struct {
	service ports.AdminService
}

func NewAdminHandler(service ports.AdminService) *AdminHandler {
	return &AdminHandler{
		service: service,
	}
}

func (h *AdminHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	adminID, ok := r.Context().Value(AdminIDKey).(uuid.UUID)
	if !ok {
		http.Error(w, "Unauthorized: missing admin context", http.StatusUnauthorized)
		return
	}

	admin, err := h.service.GetByID(r.Context(), adminID)
	if err != nil {
		http.Error(w, "Failed to fetch admin: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if admin == nil {
		http.Error(w, "Admin not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(admin)
}
