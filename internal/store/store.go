// Package store persists the navigator dataset and session records as JSON
// documents. Reads fail soft: anything unreadable is reported as absent.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"school-navigator/internal/models"
	"school-navigator/internal/repository"

	"gorm.io/datatypes"
)

const (
	roleKeyPrefix = "sn_role:"
	userKeyPrefix = "sn_user:"
)

// roleRecord is the body stored under the role key of a session
type roleRecord struct {
	Role      models.Role         `json:"role"`
	Method    models.SignInMethod `json:"method"`
	CreatedAt time.Time           `json:"createdAt"`
	ExpiresAt time.Time           `json:"expiresAt"`
}

type Store struct {
	docs       *repository.DocumentRepository
	datasetKey string
}

func New(docs *repository.DocumentRepository, datasetKey string) *Store {
	return &Store{docs: docs, datasetKey: datasetKey}
}

// Load returns the stored dataset and its version. ok is false when nothing
// is stored or the stored body cannot be decoded; the cause is logged.
func (s *Store) Load(ctx context.Context) (d models.Dataset, version int64, ok bool) {
	doc, err := s.docs.GetDocument(ctx, s.datasetKey)
	if err != nil {
		if !errors.Is(err, repository.ErrDocumentNotFound) {
			log.Printf("Warning: failed to read dataset %q: %v", s.datasetKey, err)
		}
		return models.Dataset{}, 0, false
	}

	if err := json.Unmarshal(doc.Body, &d); err != nil {
		log.Printf("Warning: stored dataset %q is malformed: %v", s.datasetKey, err)
		return models.Dataset{}, 0, false
	}
	return d.Clone(), doc.Version, true
}

// Save writes the whole dataset under the dataset key
func (s *Store) Save(ctx context.Context, d models.Dataset, version int64) error {
	body, err := json.Marshal(d.Clone())
	if err != nil {
		return fmt.Errorf("encode dataset: %w", err)
	}
	if err := s.docs.PutDocument(ctx, s.datasetKey, body, version); err != nil {
		return fmt.Errorf("save dataset: %w", err)
	}
	return nil
}

// LoadSession returns the session stored under id. ok is false when the
// session is unknown or its records are unreadable.
func (s *Store) LoadSession(ctx context.Context, id string) (*models.Session, bool) {
	doc, err := s.docs.GetDocument(ctx, roleKeyPrefix+id)
	if err != nil {
		if !errors.Is(err, repository.ErrDocumentNotFound) {
			log.Printf("Warning: failed to read session %s: %v", id, err)
		}
		return nil, false
	}

	var role roleRecord
	if err := json.Unmarshal(doc.Body, &role); err != nil {
		log.Printf("Warning: stored role for session %s is malformed: %v", id, err)
		return nil, false
	}

	session := &models.Session{
		ID:        id,
		Role:      role.Role,
		Method:    role.Method,
		CreatedAt: role.CreatedAt,
		ExpiresAt: role.ExpiresAt,
	}

	if role.Method == models.MethodIdentity {
		userDoc, err := s.docs.GetDocument(ctx, userKeyPrefix+id)
		if err != nil {
			log.Printf("Warning: identity record missing for session %s: %v", id, err)
			return nil, false
		}
		var identity models.Identity
		if err := json.Unmarshal(userDoc.Body, &identity); err != nil {
			log.Printf("Warning: stored identity for session %s is malformed: %v", id, err)
			return nil, false
		}
		session.Identity = &identity
	}

	return session, true
}

// SaveSession writes the role record and, for identity sessions, the identity record
func (s *Store) SaveSession(ctx context.Context, session *models.Session) error {
	roleBody, err := json.Marshal(roleRecord{
		Role:      session.Role,
		Method:    session.Method,
		CreatedAt: session.CreatedAt,
		ExpiresAt: session.ExpiresAt,
	})
	if err != nil {
		return fmt.Errorf("encode session role: %w", err)
	}
	docs := []models.Document{{Key: roleKeyPrefix + session.ID, Body: datatypes.JSON(roleBody)}}

	if session.Identity != nil {
		userBody, err := json.Marshal(session.Identity)
		if err != nil {
			return fmt.Errorf("encode session identity: %w", err)
		}
		docs = append(docs, models.Document{Key: userKeyPrefix + session.ID, Body: datatypes.JSON(userBody)})
	}

	if err := s.docs.PutDocuments(ctx, docs...); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// DeleteSession removes both records of a session
func (s *Store) DeleteSession(ctx context.Context, id string) error {
	if err := s.docs.DeleteDocuments(ctx, roleKeyPrefix+id, userKeyPrefix+id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
