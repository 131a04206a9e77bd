package repository

import (
	"context"
	"errors"

	"school-navigator/internal/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrDocumentNotFound is returned when no document is stored under a key
var ErrDocumentNotFound = errors.New("document not found")

type DocumentRepository struct {
	db *gorm.DB
}

func NewDocumentRepo(db *gorm.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

// GetDocument retrieves the document stored under key
func (r *DocumentRepository) GetDocument(ctx context.Context, key string) (*models.Document, error) {
	var doc models.Document
	err := r.db.WithContext(ctx).Where("`key` = ?", key).First(&doc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDocumentNotFound
		}
		return nil, err
	}
	return &doc, nil
}

// PutDocuments inserts or replaces every given document in one transaction
func (r *DocumentRepository) PutDocuments(ctx context.Context, docs ...models.Document) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range docs {
			err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "key"}},
				DoUpdates: clause.AssignmentColumns([]string{"body", "version", "updated_at"}),
			}).Create(&docs[i]).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// PutDocument inserts or replaces a single document body
func (r *DocumentRepository) PutDocument(ctx context.Context, key string, body []byte, version int64) error {
	return r.PutDocuments(ctx, models.Document{Key: key, Body: datatypes.JSON(body), Version: version})
}

// DeleteDocuments removes the documents stored under the given keys
func (r *DocumentRepository) DeleteDocuments(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Where("`key` IN ?", keys).Delete(&models.Document{}).Error
}
