package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/Postmodum37/beacon-dl/internal/services"
)

// ErrDuplicateRecord is returned by Insert when the content identifier is
// already present. Callers must delete-then-insert to update, never silently
// overwrite, so programming mistakes surface instead of masking each other.
var ErrDuplicateRecord = errors.New("duplicate history record")

// Store manages the download ledger backed by SQLite. Every mutating
// operation commits before returning; no operation holds a lock across
// anything slower than local disk.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the ledger database. Failures are tagged
// ErrStorageUnavailable since nothing downstream can work without the ledger.
func Open(dbPath string) (*Store, error) {
	if strings.TrimSpace(dbPath) == "" {
		return nil, services.Wrap(services.ErrStorageUnavailable, "history", "open", "ledger path is empty", nil)
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, services.Wrap(services.ErrStorageUnavailable, "history", "open", "ensure ledger directory", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, services.Wrap(services.ErrStorageUnavailable, "history", "open", "open sqlite db", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, services.Wrap(services.ErrStorageUnavailable, "history", "open", fmt.Sprintf("apply pragma %q", pragma), execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, services.Wrap(services.ErrStorageUnavailable, "history", "open", "initialize schema", err)
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the ledger file location.
func (s *Store) Path() string {
	return s.path
}

// Lookup fetches a record by content identifier. Returns nil when absent.
func (s *Store) Lookup(ctx context.Context, contentID string) (*Record, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+recordColumns+` FROM downloads WHERE content_id = ?`, contentID)
	record, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("lookup record: %w", err)
	}
	return record, nil
}

// LookupFilename fetches a record by its current on-disk filename. Returns
// nil when absent.
func (s *Store) LookupFilename(ctx context.Context, filename string) (*Record, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+recordColumns+` FROM downloads WHERE filename = ?`, filename)
	record, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("lookup record by filename: %w", err)
	}
	return record, nil
}

// Insert persists a completed download. Fails with ErrDuplicateRecord when
// the content identifier already exists.
func (s *Store) Insert(ctx context.Context, record *Record) error {
	if record == nil {
		return errors.New("record is nil")
	}
	if strings.TrimSpace(record.ContentID) == "" {
		return errors.New("record content id is required")
	}
	if record.CompletedAt.IsZero() {
		record.CompletedAt = time.Now().UTC()
	}

	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO downloads (
            content_id, slug, title, filename, content_hash, size_bytes,
            resolution, container, source_tag, completed_at, verified_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(content_id) DO NOTHING`,
		record.ContentID,
		record.Slug,
		record.Title,
		record.Filename,
		nullableString(record.ContentHash),
		record.SizeBytes,
		record.Resolution,
		record.Container,
		record.SourceTag,
		record.CompletedAt.UTC().Format(time.RFC3339Nano),
		nullableTime(record.VerifiedAt),
	)
	if err != nil {
		return fmt.Errorf("insert record: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: content_id %s", ErrDuplicateRecord, record.ContentID)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("last insert id: %w", err)
	}
	record.ID = id
	return nil
}

// Delete removes a record by content identifier. Reports whether a row was
// removed.
func (s *Store) Delete(ctx context.Context, contentID string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM downloads WHERE content_id = ?`, contentID)
	if err != nil {
		return false, fmt.Errorf("delete record: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

// DeleteAll clears every record and returns how many were removed.
// Irreversible; callers confirm upstream.
func (s *Store) DeleteAll(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM downloads`)
	if err != nil {
		return 0, fmt.Errorf("clear history: %w", err)
	}
	return res.RowsAffected()
}

// List returns records ordered newest first by completion time. Ties break
// by rowid descending so pagination stays stable. A limit of 0 or less
// returns everything after the offset.
func (s *Store) List(ctx context.Context, limit, offset int) ([]*Record, error) {
	if limit <= 0 {
		limit = -1
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+recordColumns+` FROM downloads ORDER BY completed_at DESC, id DESC LIMIT ? OFFSET ?`,
		limit,
		offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	defer rows.Close()

	var records []*Record
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// UpdateFilename records a rename. Only the rename engine calls this.
func (s *Store) UpdateFilename(ctx context.Context, contentID, newFilename string) error {
	if strings.TrimSpace(newFilename) == "" {
		return errors.New("new filename is required")
	}
	res, err := s.db.ExecContext(
		ctx,
		`UPDATE downloads SET filename = ? WHERE content_id = ?`,
		newFilename,
		contentID,
	)
	if err != nil {
		return fmt.Errorf("update filename: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("update filename: no record for content_id %s", contentID)
	}
	return nil
}

// MarkVerified stamps the verification time on a record.
func (s *Store) MarkVerified(ctx context.Context, contentID string, at time.Time) error {
	_, err := s.db.ExecContext(
		ctx,
		`UPDATE downloads SET verified_at = ? WHERE content_id = ?`,
		at.UTC().Format(time.RFC3339Nano),
		contentID,
	)
	if err != nil {
		return fmt.Errorf("mark verified: %w", err)
	}
	return nil
}

// Count returns the total number of ledger records.
func (s *Store) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM downloads`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count records: %w", err)
	}
	return count, nil
}

const recordColumns = "id, content_id, slug, title, filename, content_hash, size_bytes, resolution, container, source_tag, completed_at, verified_at"

func scanRecord(scanner interface{ Scan(dest ...any) error }) (*Record, error) {
	var (
		id          int64
		contentID   string
		slug        string
		title       string
		filename    string
		contentHash sql.NullString
		sizeBytes   sql.NullInt64
		resolution  string
		container   string
		sourceTag   string
		completed   string
		verifiedRaw sql.NullString
	)

	if err := scanner.Scan(
		&id,
		&contentID,
		&slug,
		&title,
		&filename,
		&contentHash,
		&sizeBytes,
		&resolution,
		&container,
		&sourceTag,
		&completed,
		&verifiedRaw,
	); err != nil {
		return nil, err
	}

	record := &Record{
		ID:          id,
		ContentID:   contentID,
		Slug:        slug,
		Title:       title,
		Filename:    filename,
		ContentHash: contentHash.String,
		SizeBytes:   sizeBytes.Int64,
		Resolution:  resolution,
		Container:   container,
		SourceTag:   sourceTag,
	}
	if completedAt, err := parseTimeString(completed); err == nil {
		record.CompletedAt = completedAt
	}
	if verifiedRaw.Valid {
		if verifiedAt, err := parseTimeString(verifiedRaw.String); err == nil {
			record.VerifiedAt = &verifiedAt
		}
	}
	return record, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func nullableTime(value *time.Time) any {
	if value == nil {
		return nil
	}
	return value.UTC().Format(time.RFC3339Nano)
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}
