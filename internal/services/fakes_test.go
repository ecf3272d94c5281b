package services

import (
	"context"
	"sync"

	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/ports"
)

type memPlaceCache struct {
	mu      sync.Mutex
	entries map[string]domain.ResolvedPlace
	puts    int
}

func newMemPlaceCache() *memPlaceCache {
	return &memPlaceCache{entries: map[string]domain.ResolvedPlace{}}
}

func (c *memPlaceCache) GetMany(ctx context.Context, keys []string) (map[string]domain.ResolvedPlace, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := map[string]domain.ResolvedPlace{}
	for _, k := range keys {
		if p, ok := c.entries[k]; ok {
			out[k] = p
		}
	}
	return out, nil
}

func (c *memPlaceCache) PutMany(ctx context.Context, places map[string]domain.ResolvedPlace) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k, p := range places {
		c.entries[k] = p
		c.puts++
	}
	return nil
}

func (c *memPlaceCache) All(ctx context.Context) (map[string]domain.ResolvedPlace, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]domain.ResolvedPlace, len(c.entries))
	for k, p := range c.entries {
		out[k] = p
	}
	return out, nil
}

func (c *memPlaceCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	return nil
}

type memPhotoCache struct {
	mu      sync.Mutex
	entries map[string]domain.CachedPhotos
}

func newMemPhotoCache() *memPhotoCache {
	return &memPhotoCache{entries: map[string]domain.CachedPhotos{}}
}

func (c *memPhotoCache) Get(ctx context.Context, key string) (*domain.CachedPhotos, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return nil, nil
	}
	return &e, nil
}

func (c *memPhotoCache) Put(ctx context.Context, entry domain.CachedPhotos) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[entry.Key] = entry
	return nil
}

type memNotes struct {
	mu    sync.Mutex
	notes map[string]domain.Note
}

func newMemNotes() *memNotes { return &memNotes{notes: map[string]domain.Note{}} }

func (r *memNotes) ListNotes(ctx context.Context) (map[string]domain.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]domain.Note, len(r.notes))
	for k, v := range r.notes {
		out[k] = v
	}
	return out, nil
}

func (r *memNotes) SaveNote(ctx context.Context, day string, note domain.Note) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notes[day] = note
	return nil
}

func (r *memNotes) ReplaceAll(ctx context.Context, notes map[string]domain.Note) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notes = map[string]domain.Note{}
	for k, v := range notes {
		r.notes[k] = v
	}
	return nil
}

func (r *memNotes) DeleteNote(ctx context.Context, day string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.notes, day)
	return nil
}

type memDocs struct {
	mu       sync.Mutex
	original []string
	edited   []string
}

func (r *memDocs) LoadDocument(ctx context.Context) ([]string, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.edited == nil {
		return nil, false, nil
	}
	return append([]string(nil), r.edited...), true, nil
}

func (r *memDocs) SaveDocument(ctx context.Context, paragraphs []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.edited = append([]string{}, paragraphs...)
	return nil
}

func (r *memDocs) ClearDocument(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.edited = nil
	return nil
}

func (r *memDocs) LoadOriginal(ctx context.Context) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string{}, r.original...), nil
}

type memSettings struct {
	mu     sync.Mutex
	values map[string]string
}

func newMemSettings() *memSettings { return &memSettings{values: map[string]string{}} }

func (r *memSettings) GetSetting(ctx context.Context, key string) (string, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.values[key]
	return v, ok, nil
}

func (r *memSettings) SetSetting(ctx context.Context, key, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values[key] = value
	return nil
}

type savedNote struct {
	Day, Note, User string
}

// fakeCloud records pushes and answers pulls with a canned response.
type fakeCloud struct {
	mu        sync.Mutex
	all       ports.CloudResponse
	push      ports.CloudResponse
	online    bool
	pulls     int
	savedNote []savedNote
	savedDocs [][]string
	deleted   []string
	// gate, when set, blocks GetAll until closed.
	gate chan struct{}
}

func newFakeCloud() *fakeCloud {
	return &fakeCloud{
		all:    ports.CloudResponse{Status: "success"},
		push:   ports.CloudResponse{Status: "success"},
		online: true,
	}
}

func (c *fakeCloud) GetAll(ctx context.Context) ports.CloudResponse {
	if c.gate != nil {
		<-c.gate
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pulls++
	return c.all
}

func (c *fakeCloud) GetNotes(ctx context.Context) ports.CloudResponse    { return c.GetAll(ctx) }
func (c *fakeCloud) GetDocument(ctx context.Context) ports.CloudResponse { return c.GetAll(ctx) }

func (c *fakeCloud) SaveNote(ctx context.Context, day, note, user string) ports.CloudResponse {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.savedNote = append(c.savedNote, savedNote{Day: day, Note: note, User: user})
	return c.push
}

func (c *fakeCloud) SaveDocument(ctx context.Context, paragraphs []string, user string) ports.CloudResponse {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.savedDocs = append(c.savedDocs, paragraphs)
	return c.push
}

func (c *fakeCloud) DeleteNote(ctx context.Context, day string) ports.CloudResponse {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deleted = append(c.deleted, day)
	return c.push
}

func (c *fakeCloud) CheckConnection(ctx context.Context) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.online
}

func (c *fakeCloud) pullCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pulls
}
