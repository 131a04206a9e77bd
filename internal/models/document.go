package models

import (
	"time"

	"gorm.io/datatypes"
)

// Document represents the documents table, a key-value store of JSON bodies.
// The dataset and every session record are each held in one row.
type Document struct {
	Key       string         `gorm:"primaryKey;size:191" json:"key"`
	Body      datatypes.JSON `gorm:"not null" json:"body"`
	Version   int64          `gorm:"not null;default:0" json:"version"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// TableName specifies the table name for Document model
func (Document) TableName() string {
	return "documents"
}
