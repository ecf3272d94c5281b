package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"trip-planner-service/internal/api/dto"
	"trip-planner-service/internal/services"
)

type NotesHandler struct {
	Sync *services.SyncService
	Trip *services.TripService
}

func (h *NotesHandler) List(w http.ResponseWriter, r *http.Request) {
	notes, err := h.Sync.Notes(r.Context())
	if err != nil {
		writeServiceError(w, r, "list notes", err)
		return
	}
	writeJSON(w, r, http.StatusOK, dto.ListNotesResponse{Notes: notes, Count: services.CountNotes(notes)})
}

func (h *NotesHandler) Export(w http.ResponseWriter, r *http.Request) {
	text, err := h.Trip.ExportNotes(r.Context())
	if err != nil {
		writeServiceError(w, r, "export notes", err)
		return
	}
	w.Header().Set("Content-Disposition", `attachment; filename="reise-notizen.txt"`)
	writeText(w, http.StatusOK, text)
}

func (h *NotesHandler) SetFreeText(w http.ResponseWriter, r *http.Request) {
	h.setField(w, r, "freeText")
}

func (h *NotesHandler) SetField(w http.ResponseWriter, r *http.Request) {
	h.setField(w, r, chi.URLParam(r, "field"))
}

func (h *NotesHandler) setField(w http.ResponseWriter, r *http.Request, field string) {
	day := services.NoteDayKey(strings.TrimSpace(chi.URLParam(r, "day")))
	if day == "" {
		writeError(w, r, http.StatusBadRequest, "day is required")
		return
	}

	var req dto.NoteRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	note, err := h.Sync.UpdateNoteField(r.Context(), day, field, req.Value)
	if err != nil {
		writeServiceError(w, r, "update note", err)
		return
	}
	writeJSON(w, r, http.StatusOK, dto.NoteResponse{Day: day, Note: note, Preview: services.PreviewText(note)})
}

func (h *NotesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	day := services.NoteDayKey(strings.TrimSpace(chi.URLParam(r, "day")))
	if err := h.Sync.DeleteNote(r.Context(), day); err != nil {
		writeServiceError(w, r, "delete note", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
