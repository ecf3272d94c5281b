package handlers

import (
	"net/http"
	"strings"

	"trip-planner-service/internal/api/dto"
	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/services"
)

type SyncHandler struct {
	Sync *services.SyncService
}

// Pull fetches notes and document from the remote endpoint now. An
// unreachable endpoint is reported in the body, not as an HTTP error.
func (h *SyncHandler) Pull(w http.ResponseWriter, r *http.Request) {
	res, err := h.Sync.SyncFromCloud(r.Context())
	if err != nil {
		writeServiceError(w, r, "sync", err)
		return
	}
	writeJSON(w, r, http.StatusOK, res)
}

func (h *SyncHandler) Status(w http.ResponseWriter, r *http.Request) {
	st, err := h.Sync.Status(r.Context())
	if err != nil {
		writeServiceError(w, r, "sync status", err)
		return
	}
	writeJSON(w, r, http.StatusOK, st)
}

func (h *SyncHandler) SetMode(w http.ResponseWriter, r *http.Request) {
	var req dto.ModeRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	var (
		st  services.SyncStatus
		err error
	)
	mode := strings.ToLower(strings.TrimSpace(req.Mode))
	if mode == "" {
		st, err = h.Sync.ToggleMode(r.Context())
	} else {
		st, err = h.Sync.SetMode(r.Context(), domain.SyncMode(mode))
	}
	if err != nil {
		writeServiceError(w, r, "set sync mode", err)
		return
	}
	writeJSON(w, r, http.StatusOK, st)
}

func (h *SyncHandler) SetUser(w http.ResponseWriter, r *http.Request) {
	var req dto.UserRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.UserName) == "" {
		writeError(w, r, http.StatusBadRequest, "user_name is required")
		return
	}
	if err := h.Sync.SetUserName(r.Context(), req.UserName); err != nil {
		writeServiceError(w, r, "set user", err)
		return
	}
	h.Status(w, r)
}
