package service

import (
	"context"
	"errors"
	"sync"

	"school-navigator/internal/models"
)

type fakeStore struct {
	mu       sync.Mutex
	stored   *models.Dataset
	version  int64
	saves    int
	failSave bool
	sessions map[string]*models.Session
}

func newFakeStore() *fakeStore {
	return &fakeStore{sessions: make(map[string]*models.Session)}
}

func (f *fakeStore) Load(ctx context.Context) (models.Dataset, int64, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.stored == nil {
		return models.Dataset{}, 0, false
	}
	return f.stored.Clone(), f.version, true
}

func (f *fakeStore) Save(ctx context.Context, d models.Dataset, version int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failSave {
		return errors.New("disk full")
	}
	clone := d.Clone()
	f.stored = &clone
	f.version = version
	f.saves++
	return nil
}

func (f *fakeStore) LoadSession(ctx context.Context, id string) (*models.Session, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[id]
	if !ok {
		return nil, false
	}
	copied := *s
	return &copied, true
}

func (f *fakeStore) SaveSession(ctx context.Context, s *models.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *s
	f.sessions[s.ID] = &copied
	return nil
}

func (f *fakeStore) DeleteSession(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.sessions, id)
	return nil
}

type auditEntry struct {
	sessionID, action, details string
}

type fakeAudit struct {
	mu      sync.Mutex
	entries []auditEntry
}

func (f *fakeAudit) CreateAuditLog(ctx context.Context, sessionID, action, details string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, auditEntry{sessionID, action, details})
	return nil
}

func (f *fakeAudit) actions() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.entries))
	for _, e := range f.entries {
		out = append(out, e.action)
	}
	return out
}

var (
	viewer = &models.Session{ID: "viewer-session", Role: models.RoleViewer, Method: models.MethodIdentity}
	admin  = &models.Session{ID: "admin-session", Role: models.RoleAdmin, Method: models.MethodPassword}
)
