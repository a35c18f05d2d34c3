package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/josephgoksu/flow/models"
	"github.com/josephgoksu/flow/types"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements ItemStore, TagStore and ResourceStore over one
// SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the database at dbPath. Pass ":memory:"
// for an ephemeral store in tests.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("create data directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return s, nil
}

// initSchema creates the tables and indexes if they don't exist.
func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS items (
		id TEXT PRIMARY KEY,
		kind TEXT NOT NULL,
		title TEXT NOT NULL,
		status TEXT NOT NULL,
		tags TEXT,
		parent_id TEXT,
		mode TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT,
		due_date TEXT,
		estimated_duration INTEGER,
		priority INTEGER DEFAULT 0,
		energy TEXT DEFAULT '',
		extra TEXT,
		external_ref TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_items_status_kind ON items(status, kind);
	CREATE INDEX IF NOT EXISTS idx_items_parent ON items(parent_id);
	CREATE INDEX IF NOT EXISTS idx_items_external ON items(external_ref);

	CREATE TABLE IF NOT EXISTS tags (
		name TEXT PRIMARY KEY,
		aliases TEXT,
		usage_count INTEGER DEFAULT 0,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_tags_usage ON tags(usage_count DESC);

	CREATE TABLE IF NOT EXISTS resources (
		id TEXT PRIMARY KEY,
		content_type TEXT NOT NULL,
		source TEXT NOT NULL,
		title TEXT,
		summary TEXT,
		tags TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_resources_created ON resources(created_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// DB exposes the underlying handle so sibling stores can share one database
// file.
func (s *SQLiteStore) DB() *sql.DB {
	return s.db
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// timeLayout pads fractional seconds to nine digits and normalizes to UTC,
// so the TEXT columns sort chronologically and round-trip losslessly.
// RFC3339Nano won't do here: it drops trailing zeros, and a whole-second
// value ("...00Z") would sort after a fractional one ("...00.5Z").
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func timeToDB(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func nullTimeString(t *time.Time) interface{} {
	if t == nil || t.IsZero() {
		return nil
	}
	return timeToDB(*t)
}

func parseTimePtr(s sql.NullString) *time.Time {
	if !s.Valid || s.String == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339Nano, s.String)
	if err != nil {
		return nil
	}
	return &t
}

// CreateItem inserts a new item row.
func (s *SQLiteStore) CreateItem(item models.Item) (models.Item, error) {
	if err := models.ValidateStruct(item); err != nil {
		return models.Item{}, fmt.Errorf("validate item: %w", err)
	}
	tagsJSON, _ := json.Marshal(item.Tags)
	extraJSON, _ := json.Marshal(item.Extra)

	var parentID interface{}
	if item.ParentID != nil {
		parentID = *item.ParentID
	}
	var estimated interface{}
	if item.EstimatedDuration != nil {
		estimated = *item.EstimatedDuration
	}

	_, err := s.db.Exec(`
		INSERT INTO items (
			id, kind, title, status, tags, parent_id, mode,
			created_at, updated_at, due_date, estimated_duration,
			priority, energy, extra, external_ref
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, item.ID, string(item.Kind), item.Title, string(item.Status),
		string(tagsJSON), parentID, string(item.Mode),
		timeToDB(item.CreatedAt), timeToDB(item.UpdatedAt),
		nullTimeString(item.DueDate), estimated,
		item.Priority, item.Energy, string(extraJSON), item.ExternalRef)
	if err != nil {
		return models.Item{}, fmt.Errorf("insert item %s: %w", item.ID, err)
	}
	return item, nil
}

const itemColumns = `id, kind, title, status, tags, parent_id, mode,
	created_at, updated_at, due_date, estimated_duration,
	priority, energy, extra, external_ref`

// GetItem returns one item by id.
func (s *SQLiteStore) GetItem(id string) (models.Item, error) {
	row := s.db.QueryRow(`SELECT `+itemColumns+` FROM items WHERE id = ?`, id)
	item, err := scanItem(row)
	if err == sql.ErrNoRows {
		return models.Item{}, types.NewNotFound(id)
	}
	if err != nil {
		return models.Item{}, fmt.Errorf("get item %s: %w", id, err)
	}
	return item, nil
}

// GetItemByExternalRef returns the item linked to a synchronized reminder.
func (s *SQLiteStore) GetItemByExternalRef(ref string) (models.Item, error) {
	row := s.db.QueryRow(`SELECT `+itemColumns+` FROM items WHERE external_ref = ?`, ref)
	item, err := scanItem(row)
	if err == sql.ErrNoRows {
		return models.Item{}, types.NewNotFound(ref)
	}
	if err != nil {
		return models.Item{}, fmt.Errorf("get item by ref %s: %w", ref, err)
	}
	return item, nil
}

// PutItem replaces an existing row wholesale. Last writer wins.
func (s *SQLiteStore) PutItem(item models.Item) (models.Item, error) {
	if err := models.ValidateStruct(item); err != nil {
		return models.Item{}, fmt.Errorf("validate item: %w", err)
	}
	tagsJSON, _ := json.Marshal(item.Tags)
	extraJSON, _ := json.Marshal(item.Extra)

	var parentID interface{}
	if item.ParentID != nil {
		parentID = *item.ParentID
	}
	var estimated interface{}
	if item.EstimatedDuration != nil {
		estimated = *item.EstimatedDuration
	}
	item.UpdatedAt = time.Now().UTC()

	res, err := s.db.Exec(`
		UPDATE items SET kind=?, title=?, status=?, tags=?, parent_id=?, mode=?,
			created_at=?, updated_at=?, due_date=?, estimated_duration=?,
			priority=?, energy=?, extra=?, external_ref=?
		WHERE id = ?
	`, string(item.Kind), item.Title, string(item.Status), string(tagsJSON),
		parentID, string(item.Mode),
		timeToDB(item.CreatedAt), timeToDB(item.UpdatedAt),
		nullTimeString(item.DueDate), estimated,
		item.Priority, item.Energy, string(extraJSON), item.ExternalRef,
		item.ID)
	if err != nil {
		return models.Item{}, fmt.Errorf("update item %s: %w", item.ID, err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return models.Item{}, types.NewNotFound(item.ID)
	}
	return item, nil
}

// ListItems returns items matching the filter in creation order.
func (s *SQLiteStore) ListItems(filter ItemFilter) ([]models.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE 1=1`
	var args []interface{}
	if filter.Kind != "" {
		query += ` AND kind = ?`
		args = append(args, string(filter.Kind))
	}
	if filter.Status != "" {
		query += ` AND status = ?`
		args = append(args, string(filter.Status))
	}
	if filter.ParentID != nil {
		query += ` AND parent_id = ?`
		args = append(args, *filter.ParentID)
	}
	if !filter.CreatedBefore.IsZero() {
		query += ` AND created_at < ?`
		args = append(args, timeToDB(filter.CreatedBefore))
	}
	if !filter.CreatedAfter.IsZero() {
		query += ` AND created_at > ?`
		args = append(args, timeToDB(filter.CreatedAfter))
	}
	if !filter.UpdatedAfter.IsZero() {
		query += ` AND updated_at > ?`
		args = append(args, timeToDB(filter.UpdatedAfter))
	}
	query += ` ORDER BY created_at ASC, id ASC`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var items []models.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (models.Item, error) {
	var (
		item                          models.Item
		kind, status, createdAt       string
		tags, mode, extra             sql.NullString
		parentID, updatedAt, dueDate  sql.NullString
		estimatedDuration             sql.NullInt64
		priority                      sql.NullInt64
		energy, externalRef           sql.NullString
	)
	err := row.Scan(&item.ID, &kind, &item.Title, &status, &tags, &parentID,
		&mode, &createdAt, &updatedAt, &dueDate, &estimatedDuration,
		&priority, &energy, &extra, &externalRef)
	if err != nil {
		return models.Item{}, err
	}

	item.Kind = models.ItemKind(kind)
	item.Status = models.ItemStatus(status)
	item.Mode = models.ProjectMode(mode.String)
	item.Energy = energy.String
	item.ExternalRef = externalRef.String
	item.Priority = int(priority.Int64)

	if parentID.Valid && parentID.String != "" {
		pid := parentID.String
		item.ParentID = &pid
	}
	if estimatedDuration.Valid {
		d := int(estimatedDuration.Int64)
		item.EstimatedDuration = &d
	}
	if t, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
		item.CreatedAt = t
	}
	if t := parseTimePtr(updatedAt); t != nil {
		item.UpdatedAt = *t
	}
	item.DueDate = parseTimePtr(dueDate)

	item.Tags = []string{}
	if tags.Valid && tags.String != "" {
		_ = json.Unmarshal([]byte(tags.String), &item.Tags)
	}
	item.Extra = map[string]string{}
	if extra.Valid && extra.String != "" {
		_ = json.Unmarshal([]byte(extra.String), &item.Extra)
	}
	return item, nil
}
