package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/platform/logger"
	"trip-planner-service/internal/platform/obs"
	"trip-planner-service/internal/ports"
)

const (
	settingSyncMode = "sync_mode"
	settingUserName = "user_name"
)

// SyncStatus is the connection state shown to clients.
type SyncStatus struct {
	Mode     domain.SyncMode `json:"mode"`
	Online   bool            `json:"online"`
	Syncing  bool            `json:"syncing"`
	LastSync *time.Time      `json:"last_sync,omitempty"`
	UserName string          `json:"user_name"`
}

// SyncResult reports the outcome of one pull from the remote endpoint.
type SyncResult struct {
	OK              bool   `json:"ok"`
	Message         string `json:"message,omitempty"`
	Notes           int    `json:"notes"`
	DocumentUpdated bool   `json:"document_updated"`
}

// SyncService keeps local notes and the document in step with the remote
// endpoint. Pulls replace local state wholesale; pushes are fire-and-report.
type SyncService struct {
	cloud       ports.CloudClient
	notes       ports.NoteRepository
	docs        *DocumentService
	settings    ports.SettingsRepository
	defaultUser string
	now         func() time.Time

	pulls singleflight.Group

	mu       sync.RWMutex
	online   bool
	syncing  bool
	lastSync time.Time
}

func NewSyncService(
	cloud ports.CloudClient,
	notes ports.NoteRepository,
	docs *DocumentService,
	settings ports.SettingsRepository,
	defaultUser string,
) *SyncService {
	return &SyncService{
		cloud:       cloud,
		notes:       notes,
		docs:        docs,
		settings:    settings,
		defaultUser: defaultUser,
		now:         time.Now,
	}
}

// Mode returns the persisted sync mode, cloud by default.
func (s *SyncService) Mode(ctx context.Context) (domain.SyncMode, error) {
	v, ok, err := s.settings.GetSetting(ctx, settingSyncMode)
	if err != nil {
		return "", fmt.Errorf("sync mode: %w", err)
	}
	mode := domain.SyncMode(v)
	if !ok || !mode.Valid() {
		return domain.SyncModeCloud, nil
	}
	return mode, nil
}

// UserName returns the name attached to pushed edits.
func (s *SyncService) UserName(ctx context.Context) (string, error) {
	v, ok, err := s.settings.GetSetting(ctx, settingUserName)
	if err != nil {
		return "", fmt.Errorf("user name: %w", err)
	}
	if !ok || strings.TrimSpace(v) == "" {
		return s.defaultUser, nil
	}
	return v, nil
}

func (s *SyncService) SetUserName(ctx context.Context, name string) error {
	if err := s.settings.SetSetting(ctx, settingUserName, strings.TrimSpace(name)); err != nil {
		return fmt.Errorf("set user name: %w", err)
	}
	return nil
}

// Init checks the connection and pulls once when in cloud mode.
func (s *SyncService) Init(ctx context.Context) error {
	mode, err := s.Mode(ctx)
	if err != nil {
		return fmt.Errorf("init sync: %w", err)
	}
	if mode != domain.SyncModeCloud {
		logger.Info("sync in local mode")
		return nil
	}

	online := s.cloud.CheckConnection(ctx)
	s.setOnline(online)
	if !online {
		logger.Warn("cloud endpoint unreachable, continuing offline")
		return nil
	}

	if _, err := s.SyncFromCloud(ctx); err != nil {
		return fmt.Errorf("init sync: %w", err)
	}
	return nil
}

// SyncFromCloud pulls notes and document. Concurrent calls share one pull.
func (s *SyncService) SyncFromCloud(ctx context.Context) (SyncResult, error) {
	v, err, shared := s.pulls.Do("pull", func() (interface{}, error) {
		return s.pull(ctx)
	})
	if shared {
		logger.Debug("sync pull shared with concurrent caller")
	}
	if err != nil {
		return SyncResult{}, err
	}
	return v.(SyncResult), nil
}

func (s *SyncService) pull(ctx context.Context) (result SyncResult, err error) {
	defer obs.Time(ctx, "sync_from_cloud")(&err)

	s.setSyncing(true)
	defer s.setSyncing(false)

	resp := s.cloud.GetAll(ctx)
	if !resp.Success() {
		s.setOnline(false)
		logger.Warn("sync not successful", map[string]interface{}{
			"status":  resp.Status,
			"message": resp.Message,
		})
		return SyncResult{OK: false, Message: resp.Message}, nil
	}

	if resp.Notes != nil {
		notes := NormalizeNotes(resp.Notes)
		if err := s.notes.ReplaceAll(ctx, notes); err != nil {
			return SyncResult{}, fmt.Errorf("sync from cloud: replace notes: %w", err)
		}
		result.Notes = len(notes)
	}

	if len(resp.Document) > 0 {
		if err := s.docs.Replace(ctx, resp.Document); err != nil {
			return SyncResult{}, fmt.Errorf("sync from cloud: replace document: %w", err)
		}
		result.DocumentUpdated = true
	}

	s.mu.Lock()
	s.online = true
	s.lastSync = s.now()
	s.mu.Unlock()

	result.OK = true
	return result, nil
}

// Status reports mode, connectivity and the last successful pull.
func (s *SyncService) Status(ctx context.Context) (SyncStatus, error) {
	mode, err := s.Mode(ctx)
	if err != nil {
		return SyncStatus{}, err
	}
	user, err := s.UserName(ctx)
	if err != nil {
		return SyncStatus{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	st := SyncStatus{Mode: mode, Online: s.online, Syncing: s.syncing, UserName: user}
	if !s.lastSync.IsZero() {
		t := s.lastSync
		st.LastSync = &t
	}
	return st, nil
}

// ShouldAutoSync reports whether periodic pulls are due: cloud mode and online.
func (s *SyncService) ShouldAutoSync(ctx context.Context) bool {
	mode, err := s.Mode(ctx)
	if err != nil || mode != domain.SyncModeCloud {
		return false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.online
}

// SetMode persists a mode. Switching to cloud triggers an immediate pull.
func (s *SyncService) SetMode(ctx context.Context, mode domain.SyncMode) (SyncStatus, error) {
	if !mode.Valid() {
		return SyncStatus{}, fmt.Errorf("set sync mode %q: %w", mode, domain.ErrInvalidSyncMode)
	}
	if err := s.settings.SetSetting(ctx, settingSyncMode, string(mode)); err != nil {
		return SyncStatus{}, fmt.Errorf("set sync mode: %w", err)
	}
	if mode == domain.SyncModeCloud {
		if _, err := s.SyncFromCloud(ctx); err != nil {
			return SyncStatus{}, fmt.Errorf("set sync mode: %w", err)
		}
	}
	return s.Status(ctx)
}

// ToggleMode flips between cloud and local.
func (s *SyncService) ToggleMode(ctx context.Context) (SyncStatus, error) {
	mode, err := s.Mode(ctx)
	if err != nil {
		return SyncStatus{}, err
	}
	return s.SetMode(ctx, mode.Toggle())
}

// Notes returns all local notes.
func (s *SyncService) Notes(ctx context.Context) (map[string]domain.Note, error) {
	notes, err := s.notes.ListNotes(ctx)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	return notes, nil
}

// UpdateNote sets a day's free text, keeping the other fields.
func (s *SyncService) UpdateNote(ctx context.Context, day, text string) (domain.Note, error) {
	return s.UpdateNoteField(ctx, day, "freeText", text)
}

// UpdateNoteField sets one field of a day's note and pushes the whole note
// in cloud mode.
func (s *SyncService) UpdateNoteField(ctx context.Context, day, field, value string) (note domain.Note, err error) {
	defer obs.Time(ctx, "update_note")(&err)

	if !domain.IsNoteField(field) {
		return domain.Note{}, fmt.Errorf("update note %s: field %q: %w", day, field, domain.ErrUnknownNoteField)
	}

	notes, err := s.notes.ListNotes(ctx)
	if err != nil {
		return domain.Note{}, fmt.Errorf("update note %s: %w", day, err)
	}
	note = notes[day].WithField(field, value)

	if err := s.notes.SaveNote(ctx, day, note); err != nil {
		return domain.Note{}, fmt.Errorf("update note %s: %w", day, err)
	}

	if err := s.pushNote(ctx, day, note); err != nil {
		return note, err
	}
	return note, nil
}

// DeleteNote removes a day's note locally and, in cloud mode, remotely.
func (s *SyncService) DeleteNote(ctx context.Context, day string) error {
	if err := s.notes.DeleteNote(ctx, day); err != nil {
		return fmt.Errorf("delete note %s: %w", day, err)
	}

	mode, err := s.Mode(ctx)
	if err != nil {
		return err
	}
	if mode == domain.SyncModeCloud {
		s.track(s.cloud.DeleteNote(ctx, day))
	}
	return nil
}

// PushDocument sends the current document to the remote endpoint. It
// returns the endpoint's reply; a local-mode call is a no-op.
func (s *SyncService) PushDocument(ctx context.Context) (ports.CloudResponse, error) {
	mode, err := s.Mode(ctx)
	if err != nil {
		return ports.CloudResponse{}, err
	}
	if mode != domain.SyncModeCloud {
		return ports.CloudResponse{Status: "error", Message: "local mode"}, nil
	}

	doc, err := s.docs.Get(ctx)
	if err != nil {
		return ports.CloudResponse{}, fmt.Errorf("push document: %w", err)
	}
	user, err := s.UserName(ctx)
	if err != nil {
		return ports.CloudResponse{}, fmt.Errorf("push document: %w", err)
	}

	resp := s.cloud.SaveDocument(ctx, doc, user)
	s.track(resp)
	return resp, nil
}

func (s *SyncService) pushNote(ctx context.Context, day string, note domain.Note) error {
	mode, err := s.Mode(ctx)
	if err != nil {
		return err
	}
	if mode != domain.SyncModeCloud {
		return nil
	}

	payload, err := json.Marshal(note)
	if err != nil {
		return fmt.Errorf("push note %s: encode: %w", day, err)
	}
	user, err := s.UserName(ctx)
	if err != nil {
		return fmt.Errorf("push note %s: %w", day, err)
	}

	s.track(s.cloud.SaveNote(ctx, day, string(payload), user))
	return nil
}

// track derives connectivity from a push reply.
func (s *SyncService) track(resp ports.CloudResponse) {
	switch resp.Status {
	case "success":
		s.setOnline(true)
	case "error":
		s.setOnline(false)
		logger.Warn("cloud push failed", map[string]interface{}{"message": resp.Message})
	}
}

func (s *SyncService) setOnline(v bool) {
	s.mu.Lock()
	s.online = v
	s.mu.Unlock()
}

func (s *SyncService) setSyncing(v bool) {
	s.mu.Lock()
	s.syncing = v
	s.mu.Unlock()
}
