// Package postgres is the production DocumentStore driver. Save is a per-key
// upsert, so concurrent pipelines touching different ids never rewrite each
// other's rows the way a whole-collection file rewrite would.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/kirillkom/document-pipeline/internal/core/domain"
)

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func OpenDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return db, nil
}

func (s *Store) EnsureSchema(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Serialize bootstrap DDL across concurrent startups.
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(2026083101)); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const query = `
CREATE TABLE IF NOT EXISTS documents (
	id TEXT PRIMARY KEY,
	status TEXT NOT NULL,
	original_name TEXT NOT NULL,
	file_size BIGINT NOT NULL,
	upload_date TIMESTAMPTZ NOT NULL,
	document_type TEXT NOT NULL,
	extracted_data JSONB NOT NULL DEFAULT '{}'::jsonb,
	extraction_result JSONB,
	error_message TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_documents_status ON documents(status);
CREATE INDEX IF NOT EXISTS idx_documents_created_at ON documents(created_at);
`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}

func (s *Store) Save(ctx context.Context, record domain.DocumentRecord) error {
	dataJSON, err := json.Marshal(record.Metadata.ExtractedData)
	if err != nil {
		return fmt.Errorf("marshal extracted data: %w", err)
	}
	var resultJSON []byte
	if record.Metadata.ExtractionResult != nil {
		resultJSON, err = json.Marshal(record.Metadata.ExtractionResult)
		if err != nil {
			return fmt.Errorf("marshal extraction result: %w", err)
		}
	}

	_, err = s.db.ExecContext(ctx, `
INSERT INTO documents (
	id, status, original_name, file_size, upload_date, document_type,
	extracted_data, extraction_result, error_message, created_at, updated_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
ON CONFLICT (id) DO UPDATE SET
	status = EXCLUDED.status,
	extracted_data = EXCLUDED.extracted_data,
	extraction_result = EXCLUDED.extraction_result,
	error_message = EXCLUDED.error_message,
	updated_at = EXCLUDED.updated_at
`,
		record.ID, string(record.Status), record.Metadata.OriginalName, record.Metadata.FileSize,
		record.Metadata.UploadDate, string(record.Metadata.DocumentType), dataJSON, resultJSON,
		record.ErrorMessage, record.CreatedAt, record.UpdatedAt,
	)
	if err != nil {
		return domain.WrapError(domain.ErrStorageUnavailable, "upsert document", err)
	}
	return nil
}

func (s *Store) GetByID(ctx context.Context, id string) (domain.DocumentRecord, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+` WHERE id = $1`, id)

	record, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.DocumentRecord{}, domain.ErrDocumentNotFound
		}
		return domain.DocumentRecord{}, fmt.Errorf("scan document: %w", err)
	}
	return record, nil
}

func (s *Store) ListAll(ctx context.Context) ([]domain.DocumentRecord, error) {
	rows, err := s.db.QueryContext(ctx, selectColumns+` ORDER BY created_at`)
	if err != nil {
		return nil, domain.WrapError(domain.ErrStorageUnavailable, "list documents", err)
	}
	defer rows.Close()
	return collectRecords(rows)
}

func (s *Store) ListByStatus(ctx context.Context, status domain.DocumentStatus) ([]domain.DocumentRecord, error) {
	rows, err := s.db.QueryContext(ctx, selectColumns+` WHERE status = $1 ORDER BY created_at`, string(status))
	if err != nil {
		return nil, domain.WrapError(domain.ErrStorageUnavailable, "list documents by status", err)
	}
	defer rows.Close()
	return collectRecords(rows)
}

func (s *Store) Delete(ctx context.Context, id string) (bool, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE id = $1`, id)
	if err != nil {
		return false, domain.WrapError(domain.ErrStorageUnavailable, "delete document", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

const selectColumns = `
SELECT id, status, original_name, file_size, upload_date, document_type,
	extracted_data, extraction_result, error_message, created_at, updated_at
FROM documents`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (domain.DocumentRecord, error) {
	var (
		record    domain.DocumentRecord
		status    string
		docType   string
		dataRaw   []byte
		resultRaw []byte
	)

	err := row.Scan(
		&record.ID, &status, &record.Metadata.OriginalName, &record.Metadata.FileSize,
		&record.Metadata.UploadDate, &docType, &dataRaw, &resultRaw,
		&record.ErrorMessage, &record.CreatedAt, &record.UpdatedAt,
	)
	if err != nil {
		return domain.DocumentRecord{}, err
	}

	record.Status = domain.DocumentStatus(status)
	record.Metadata.DocumentID = record.ID
	record.Metadata.DocumentType = domain.DocumentType(docType)

	if err := json.Unmarshal(dataRaw, &record.Metadata.ExtractedData); err != nil {
		return domain.DocumentRecord{}, fmt.Errorf("unmarshal extracted data: %w", err)
	}
	if len(resultRaw) > 0 {
		var result domain.ExtractionResult
		if err := json.Unmarshal(resultRaw, &result); err != nil {
			return domain.DocumentRecord{}, fmt.Errorf("unmarshal extraction result: %w", err)
		}
		record.Metadata.ExtractionResult = &result
	}
	return record, nil
}

func collectRecords(rows *sql.Rows) ([]domain.DocumentRecord, error) {
	out := []domain.DocumentRecord{}
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		out = append(out, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate documents: %w", err)
	}
	return out, nil
}
