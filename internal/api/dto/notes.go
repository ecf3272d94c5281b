package dto

import "trip-planner-service/internal/domain"

type NoteRequest struct {
	Value string `json:"value"`
}

type NoteResponse struct {
	Day     string      `json:"day"`
	Note    domain.Note `json:"note"`
	Preview string      `json:"preview"`
}

type ListNotesResponse struct {
	Notes map[string]domain.Note `json:"notes"`
	Count int                    `json:"count"`
}
