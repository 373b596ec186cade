package sqlite

import (
	"context"
	"errors"
	"fmt"

	"camstation/internal/logger"
	"camstation/internal/model"
	"camstation/internal/repository"

	sqlite3 "github.com/mattn/go-sqlite3"
)

// CaptureRepository implements repository.SessionLogStore for SQLite.
type CaptureRepository struct {
	db     *DB
	logger *logger.Logger
}

var _ repository.SessionLogStore = (*CaptureRepository)(nil)

// NewCaptureRepository creates a new SQLite capture repository.
func NewCaptureRepository(db *DB, logger *logger.Logger) *CaptureRepository {
	return &CaptureRepository{db: db, logger: logger}
}

// Append adds a new capture record to the database.
func (r *CaptureRepository) Append(ctx context.Context, rec model.CaptureRecord) error {
	if err := rec.Validate(); err != nil {
		return fmt.Errorf("refusing to append invalid record: %w", err)
	}

	r.db.Lock()
	defer r.db.Unlock()

	_, err := r.db.Conn().ExecContext(ctx, `
		INSERT INTO captures (date, time, gender, age, filename)
		VALUES (?, ?, ?, ?, ?)
	`, rec.Date, rec.Time, string(rec.Gender), string(rec.Age), rec.ImageFilename)
	if err != nil {
		return wrapInsertError(err, rec.ImageFilename)
	}
	return nil
}

// AppendBatch adds records in order within a single transaction.
func (r *CaptureRepository) AppendBatch(ctx context.Context, records []model.CaptureRecord) error {
	r.db.Lock()
	defer r.db.Unlock()

	tx, err := r.db.Conn().BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO captures (date, time, gender, age, filename)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		if err := rec.Validate(); err != nil {
			return fmt.Errorf("refusing to append invalid record: %w", err)
		}
		if _, err := stmt.ExecContext(ctx, rec.Date, rec.Time, string(rec.Gender), string(rec.Age), rec.ImageFilename); err != nil {
			return wrapInsertError(err, rec.ImageFilename)
		}
	}

	return tx.Commit()
}

// ReadAll retrieves every record in insertion order. Rows that no longer
// validate are skipped.
func (r *CaptureRepository) ReadAll(ctx context.Context) ([]model.CaptureRecord, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	rows, err := r.db.Conn().QueryContext(ctx, `
		SELECT date, time, gender, age, filename
		FROM captures ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query captures: %w", err)
	}
	defer rows.Close()

	records := []model.CaptureRecord{}
	for rows.Next() {
		var rec model.CaptureRecord
		var gender, age string
		if err := rows.Scan(&rec.Date, &rec.Time, &gender, &age, &rec.ImageFilename); err != nil {
			return nil, fmt.Errorf("failed to scan capture: %w", err)
		}
		rec.Gender = model.Gender(gender)
		rec.Age = model.AgeBracket(age)

		normalized, err := rec.Normalize()
		if err != nil {
			r.logger.Warning("Skipping capture row %s: %v", rec.ImageFilename, err)
			continue
		}
		records = append(records, normalized)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate captures: %w", err)
	}

	return records, nil
}

// Count returns the number of stored records.
func (r *CaptureRepository) Count(ctx context.Context) (int, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	var count int
	if err := r.db.Conn().QueryRowContext(ctx, `SELECT COUNT(*) FROM captures`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count captures: %w", err)
	}
	return count, nil
}

// Remove deletes the record referencing filename.
func (r *CaptureRepository) Remove(ctx context.Context, filename string) error {
	r.db.Lock()
	defer r.db.Unlock()

	result, err := r.db.Conn().ExecContext(ctx, `DELETE FROM captures WHERE filename = ?`, filename)
	if err != nil {
		return fmt.Errorf("failed to delete capture: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete capture: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", repository.ErrNotFound, filename)
	}
	return nil
}

// Close closes the underlying database.
func (r *CaptureRepository) Close() error {
	return r.db.Close()
}

func wrapInsertError(err error, filename string) error {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
		return fmt.Errorf("%w: %s", repository.ErrDuplicate, filename)
	}
	return fmt.Errorf("failed to insert capture: %w", err)
}
