package journal

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/dataport/uplink/internal/client/migrations"
	"github.com/dataport/uplink/internal/client/models"
	"github.com/dataport/uplink/internal/dbx"
)

// retention caps the journal size; the oldest rows are pruned on insert.
const retention = 500

// SQLiteRepository stores the journal in a local SQLite database.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Open opens (or creates) the journal database at dsn and applies pending
// migrations.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening journal db: %w", err)
	}

	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return nil, fmt.Errorf("setting goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, "."); err != nil {
		return nil, fmt.Errorf("migrating journal db: %w", err)
	}
	return db, nil
}

func (r *SQLiteRepository) Record(ctx context.Context, rec models.JournalRecord) error {
	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO journal (id, file_id, filename, size_bytes, uploaded_at) VALUES (?, ?, ?, ?, ?)`,
			rec.ID, rec.FileID, rec.Filename, rec.SizeBytes, rec.UploadedAt)
		if err != nil {
			return fmt.Errorf("inserting journal record: %w", err)
		}

		_, err = tx.ExecContext(ctx,
			`DELETE FROM journal WHERE id NOT IN (
			     SELECT id FROM journal ORDER BY uploaded_at DESC LIMIT ?
			 )`, retention)
		if err != nil {
			return fmt.Errorf("pruning journal: %w", err)
		}
		return nil
	})
}

func (r *SQLiteRepository) Recent(ctx context.Context, limit int) ([]models.JournalRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, file_id, filename, size_bytes, uploaded_at FROM journal ORDER BY uploaded_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying journal: %w", err)
	}
	defer rows.Close()

	var out []models.JournalRecord
	for rows.Next() {
		var rec models.JournalRecord
		if err := rows.Scan(&rec.ID, &rec.FileID, &rec.Filename, &rec.SizeBytes, &rec.UploadedAt); err != nil {
			return nil, fmt.Errorf("scanning journal record: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading journal rows: %w", err)
	}
	return out, nil
}
