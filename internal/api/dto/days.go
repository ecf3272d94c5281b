package dto

import "trip-planner-service/internal/domain"

type ListDaysResponse struct {
	Days []domain.TripDay `json:"days"`
}

type ScheduleResponse struct {
	Schedule map[string]*domain.DaySchedule `json:"schedule"`
}

type SubpointsResponse struct {
	Date  string   `json:"date"`
	Lines []string `json:"lines"`
}

type PlaceCacheResponse struct {
	Places map[string]domain.ResolvedPlace `json:"places"`
}
