package domain

import "errors"

var (
	ErrWeatherUnavailable    = errors.New("weather service not configured")
	ErrPlacesUnavailable     = errors.New("places service not configured")
	ErrInvalidParagraphIndex = errors.New("paragraph index out of range")
	ErrUnknownNoteField      = errors.New("unknown note field")
	ErrDayNotFound           = errors.New("day not found")
	ErrSectionNotFound       = errors.New("section not found")
	ErrInvalidSyncMode       = errors.New("invalid sync mode")
)
