package state

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"papercast/internal/document"
	"papercast/internal/textutil"
)

// SaveDocument upserts a document record. Extracted text is truncated to the
// storage budget before it is written.
func (s *Store) SaveDocument(ctx context.Context, doc *document.Document) error {
	if doc == nil || doc.ID == "" {
		return errors.New("document must have an id")
	}
	metadata, err := json.Marshal(doc.Metadata)
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}
	return s.execWithRetry(ctx, `
		INSERT INTO documents (id, filename, content_type, size_bytes, page_count, word_count, extracted_text, metadata_json, extracted_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			filename = excluded.filename,
			content_type = excluded.content_type,
			size_bytes = excluded.size_bytes,
			page_count = excluded.page_count,
			word_count = excluded.word_count,
			extracted_text = excluded.extracted_text,
			metadata_json = excluded.metadata_json,
			extracted_at = excluded.extracted_at`,
		doc.ID, doc.Filename, doc.ContentType, doc.SizeBytes, doc.PageCount, doc.WordCount,
		textutil.TruncateWithNotice(doc.Text, storedTextLimit),
		string(metadata), doc.ExtractedAt.UTC().Format(time.RFC3339Nano))
}

// GetDocument loads one document by id. Returns ErrNotFound when absent.
func (s *Store) GetDocument(ctx context.Context, id string) (*document.Document, error) {
	row := s.db.QueryRowContext(ensureContext(ctx), `
		SELECT id, filename, content_type, size_bytes, page_count, word_count, extracted_text, metadata_json, extracted_at
		FROM documents WHERE id = ?`, id)
	doc, err := scanDocument(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: document %s", ErrNotFound, id)
	}
	return doc, err
}

// ListDocuments returns all stored documents, newest first.
func (s *Store) ListDocuments(ctx context.Context) ([]*document.Document, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx), `
		SELECT id, filename, content_type, size_bytes, page_count, word_count, extracted_text, metadata_json, extracted_at
		FROM documents ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []*document.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

// RemoveDocument deletes one document by id.
func (s *Store) RemoveDocument(ctx context.Context, id string) error {
	return s.execWithRetry(ctx, "DELETE FROM documents WHERE id = ?", id)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (*document.Document, error) {
	var (
		doc         document.Document
		metadata    string
		extractedAt string
	)
	if err := row.Scan(&doc.ID, &doc.Filename, &doc.ContentType, &doc.SizeBytes,
		&doc.PageCount, &doc.WordCount, &doc.Text, &metadata, &extractedAt); err != nil {
		return nil, err
	}
	if metadata != "" {
		if err := json.Unmarshal([]byte(metadata), &doc.Metadata); err != nil {
			return nil, fmt.Errorf("decode metadata: %w", err)
		}
	}
	if extractedAt != "" {
		if parsed, err := time.Parse(time.RFC3339Nano, extractedAt); err == nil {
			doc.ExtractedAt = parsed
		}
	}
	return &doc, nil
}
