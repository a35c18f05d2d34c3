package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/josephgoksu/flow/models"
	"github.com/josephgoksu/flow/types"
)

// IncrementTagUsage bumps the usage counter, creating the tag on first use.
func (s *SQLiteStore) IncrementTagUsage(name string) error {
	res, err := s.db.Exec(`UPDATE tags SET usage_count = usage_count + 1 WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("increment tag %s: %w", name, err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		_, err = s.db.Exec(`INSERT INTO tags (name, aliases, usage_count, created_at) VALUES (?, '[]', 1, ?)`,
			name, time.Now().UTC().Format(time.RFC3339))
		if err != nil {
			return fmt.Errorf("create tag %s: %w", name, err)
		}
	}
	return nil
}

// DecrementTagUsage lowers the counter, never below zero.
func (s *SQLiteStore) DecrementTagUsage(name string) error {
	_, err := s.db.Exec(`UPDATE tags SET usage_count = MAX(0, usage_count - 1) WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("decrement tag %s: %w", name, err)
	}
	return nil
}

// ListTags returns tags ordered by usage count, most used first.
func (s *SQLiteStore) ListTags(limit int) ([]models.Tag, error) {
	rows, err := s.db.Query(`SELECT name, aliases, usage_count, created_at FROM tags
		ORDER BY usage_count DESC, name ASC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var tags []models.Tag
	for rows.Next() {
		var (
			tag       models.Tag
			aliases   sql.NullString
			createdAt string
		)
		if err := rows.Scan(&tag.Name, &aliases, &tag.UsageCount, &createdAt); err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		if aliases.Valid && aliases.String != "" {
			_ = json.Unmarshal([]byte(aliases.String), &tag.Aliases)
		}
		if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
			tag.CreatedAt = t
		}
		tags = append(tags, tag)
	}
	return tags, rows.Err()
}

// TagNames returns all vocabulary names ordered by usage, for oracle prompts.
func (s *SQLiteStore) TagNames() ([]string, error) {
	rows, err := s.db.Query(`SELECT name FROM tags ORDER BY usage_count DESC`)
	if err != nil {
		return nil, fmt.Errorf("tag names: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// MergeTags folds the `from` tag into `to`: every item and resource carrying
// `from` is rewritten to carry `to`, usage counts are summed, and `from`
// survives as an alias of `to`. Merging a tag into itself is a no-op.
func (s *SQLiteStore) MergeTags(from, to string) error {
	if from == to || from == "" || to == "" {
		return nil
	}

	if err := s.rewriteTagColumn("items", from, to); err != nil {
		return err
	}
	if err := s.rewriteTagColumn("resources", from, to); err != nil {
		return err
	}

	var fromCount int
	var fromAliases sql.NullString
	err := s.db.QueryRow(`SELECT usage_count, aliases FROM tags WHERE name = ?`, from).
		Scan(&fromCount, &fromAliases)
	if err == sql.ErrNoRows {
		fromCount = 0
	} else if err != nil {
		return fmt.Errorf("merge tags: read %s: %w", from, err)
	}

	aliases := []string{from}
	if fromAliases.Valid && fromAliases.String != "" {
		var extra []string
		_ = json.Unmarshal([]byte(fromAliases.String), &extra)
		aliases = append(aliases, extra...)
	}

	var toAliases sql.NullString
	var existing []string
	err = s.db.QueryRow(`SELECT aliases FROM tags WHERE name = ?`, to).Scan(&toAliases)
	switch {
	case err == sql.ErrNoRows:
		_, err = s.db.Exec(`INSERT INTO tags (name, aliases, usage_count, created_at) VALUES (?, '[]', 0, ?)`,
			to, time.Now().UTC().Format(time.RFC3339))
		if err != nil {
			return fmt.Errorf("merge tags: create %s: %w", to, err)
		}
	case err != nil:
		return fmt.Errorf("merge tags: read %s: %w", to, err)
	default:
		if toAliases.Valid && toAliases.String != "" {
			_ = json.Unmarshal([]byte(toAliases.String), &existing)
		}
	}
	for _, a := range aliases {
		if a != to && !containsString(existing, a) {
			existing = append(existing, a)
		}
	}
	aliasJSON, _ := json.Marshal(existing)

	_, err = s.db.Exec(`UPDATE tags SET usage_count = usage_count + ?, aliases = ? WHERE name = ?`,
		fromCount, string(aliasJSON), to)
	if err != nil {
		return fmt.Errorf("merge tags: update %s: %w", to, err)
	}
	if _, err := s.db.Exec(`DELETE FROM tags WHERE name = ?`, from); err != nil {
		return fmt.Errorf("merge tags: drop %s: %w", from, err)
	}
	return nil
}

// rewriteTagColumn swaps `from` for `to` inside the JSON tags column of every
// affected row, deduplicating when the row already carried `to`.
func (s *SQLiteStore) rewriteTagColumn(table, from, to string) error {
	rows, err := s.db.Query(fmt.Sprintf(`
		SELECT id, tags FROM %s
		WHERE EXISTS (SELECT 1 FROM json_each(tags) WHERE json_each.value = ?)
	`, table), from)
	if err != nil {
		return fmt.Errorf("merge tags: scan %s: %w", table, err)
	}
	defer func() { _ = rows.Close() }()

	type pending struct {
		id   string
		tags []string
	}
	var updates []pending
	for rows.Next() {
		var id string
		var raw sql.NullString
		if err := rows.Scan(&id, &raw); err != nil {
			return fmt.Errorf("merge tags: scan %s row: %w", table, err)
		}
		var tags []string
		if raw.Valid && raw.String != "" {
			_ = json.Unmarshal([]byte(raw.String), &tags)
		}
		var next []string
		for _, t := range tags {
			if t == from {
				t = to
			}
			if !containsString(next, t) {
				next = append(next, t)
			}
		}
		updates = append(updates, pending{id: id, tags: next})
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for _, u := range updates {
		tagsJSON, _ := json.Marshal(u.tags)
		if _, err := s.db.Exec(fmt.Sprintf(`UPDATE %s SET tags = ? WHERE id = ?`, table),
			string(tagsJSON), u.id); err != nil {
			return fmt.Errorf("merge tags: rewrite %s %s: %w", table, u.id, err)
		}
	}
	return nil
}

func containsString(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}

// CreateResource inserts a saved reference.
func (s *SQLiteStore) CreateResource(r models.Resource) (models.Resource, error) {
	if err := models.ValidateStruct(r); err != nil {
		return models.Resource{}, fmt.Errorf("validate resource: %w", err)
	}
	tagsJSON, _ := json.Marshal(r.Tags)
	_, err := s.db.Exec(`
		INSERT INTO resources (id, content_type, source, title, summary, tags, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, r.ID, string(r.ContentType), r.Source, r.Title, r.Summary,
		string(tagsJSON), r.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return models.Resource{}, fmt.Errorf("insert resource %s: %w", r.ID, err)
	}
	return r, nil
}

// GetResource returns one resource by id.
func (s *SQLiteStore) GetResource(id string) (models.Resource, error) {
	row := s.db.QueryRow(`SELECT id, content_type, source, title, summary, tags, created_at
		FROM resources WHERE id = ?`, id)
	r, err := scanResource(row)
	if err == sql.ErrNoRows {
		return models.Resource{}, types.NewNotFound(id)
	}
	if err != nil {
		return models.Resource{}, fmt.Errorf("get resource %s: %w", id, err)
	}
	return r, nil
}

// FindResourcesByTags returns resources sharing at least one tag with the
// given list, ordered by number of matching tags. Filtering happens in the
// database via json_each; the full table is never loaded.
func (s *SQLiteStore) FindResourcesByTags(tags []string, limit int) ([]models.Resource, error) {
	if len(tags) == 0 {
		return nil, nil
	}
	placeholders := ""
	args := make([]interface{}, 0, 2*len(tags)+1)
	for i, t := range tags {
		if i > 0 {
			placeholders += ","
		}
		placeholders += "?"
		args = append(args, t)
	}
	for _, t := range tags {
		args = append(args, t)
	}
	args = append(args, limit)

	query := fmt.Sprintf(`
		SELECT id, content_type, source, title, summary, tags, created_at FROM resources r
		WHERE (
			SELECT COUNT(*) FROM json_each(r.tags)
			WHERE json_each.value IN (%s)
		) > 0
		ORDER BY (
			SELECT COUNT(*) FROM json_each(r.tags)
			WHERE json_each.value IN (%s)
		) DESC
		LIMIT ?`, placeholders, placeholders)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("find resources by tags: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []models.Resource
	for rows.Next() {
		r, err := scanResource(rows)
		if err != nil {
			return nil, fmt.Errorf("scan resource: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func scanResource(row rowScanner) (models.Resource, error) {
	var (
		r                      models.Resource
		contentType, createdAt string
		title, summary, tags   sql.NullString
	)
	err := row.Scan(&r.ID, &contentType, &r.Source, &title, &summary, &tags, &createdAt)
	if err != nil {
		return models.Resource{}, err
	}
	r.ContentType = models.ContentType(contentType)
	r.Title = title.String
	r.Summary = summary.String
	r.Tags = []string{}
	if tags.Valid && tags.String != "" {
		_ = json.Unmarshal([]byte(tags.String), &r.Tags)
	}
	if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
		r.CreatedAt = t
	}
	return r, nil
}
