package repository

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"school-navigator/internal/database"
)

func newTestDB(t *testing.T) (*DocumentRepository, *AuditRepository) {
	t.Helper()
	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "repo.db"))
	if err != nil {
		t.Fatalf("OpenSQLite() error = %v", err)
	}
	return NewDocumentRepo(db), NewAuditRepo(db)
}

func TestDocumentRepository(t *testing.T) {
	ctx := context.Background()
	docs, _ := newTestDB(t)

	if _, err := docs.GetDocument(ctx, "missing"); !errors.Is(err, ErrDocumentNotFound) {
		t.Fatalf("GetDocument() error = %v, want ErrDocumentNotFound", err)
	}

	if err := docs.PutDocument(ctx, "k", []byte(`{"a":1}`), 1); err != nil {
		t.Fatalf("PutDocument() error = %v", err)
	}
	if err := docs.PutDocument(ctx, "k", []byte(`{"a":2}`), 2); err != nil {
		t.Fatalf("PutDocument() overwrite error = %v", err)
	}

	doc, err := docs.GetDocument(ctx, "k")
	if err != nil {
		t.Fatalf("GetDocument() error = %v", err)
	}
	if string(doc.Body) != `{"a":2}` || doc.Version != 2 {
		t.Fatalf("document = %s v%d", doc.Body, doc.Version)
	}

	if err := docs.DeleteDocuments(ctx, "k", "other"); err != nil {
		t.Fatalf("DeleteDocuments() error = %v", err)
	}
	if _, err := docs.GetDocument(ctx, "k"); !errors.Is(err, ErrDocumentNotFound) {
		t.Fatalf("GetDocument() after delete error = %v", err)
	}
}

func TestAuditRepository(t *testing.T) {
	ctx := context.Background()
	_, audit := newTestDB(t)

	for _, action := range []string{"room_delete", "import_rooms"} {
		if err := audit.CreateAuditLog(ctx, "s1", action, "details"); err != nil {
			t.Fatalf("CreateAuditLog() error = %v", err)
		}
	}

	logs, err := audit.ListAuditLogs(ctx, 10)
	if err != nil {
		t.Fatalf("ListAuditLogs() error = %v", err)
	}
	if len(logs) != 2 || logs[0].Action != "import_rooms" || logs[1].SessionID != "s1" {
		t.Fatalf("logs = %+v", logs)
	}
}
