// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/meshintel/scribe/pkg/types"
)

// openSQLite opens or creates the scribe database and its schema.
func openSQLite(path string) (*sql.DB, error) {
	if err := ensureDir(path); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return db, nil
}

func createSchema(db *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS research (
			id TEXT PRIMARY KEY,
			original_query TEXT NOT NULL,
			task_plan TEXT NOT NULL,
			mind_map TEXT NOT NULL,
			research_results TEXT NOT NULL,
			outline TEXT NOT NULL,
			written_content TEXT NOT NULL,
			saved_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS versions (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			version_id TEXT NOT NULL UNIQUE,
			research_id TEXT NOT NULL,
			timestamp TEXT NOT NULL,
			content TEXT NOT NULL,
			outline TEXT NOT NULL,
			comment TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_versions_research ON versions(research_id)`,
		`CREATE TABLE IF NOT EXISTS comments (
			id TEXT PRIMARY KEY,
			research_id TEXT NOT NULL,
			position INTEGER NOT NULL,
			text TEXT NOT NULL,
			author TEXT,
			timestamp TEXT NOT NULL,
			resolved INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE INDEX IF NOT EXISTS idx_comments_research ON comments(research_id)`,
	}

	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// --- research ---

type sqliteResearch struct {
	db *sql.DB
}

func (s *sqliteResearch) Save(ctx context.Context, rec types.CompletedResearch) error {
	plan, err := json.Marshal(rec.TaskPlan)
	if err != nil {
		return fmt.Errorf("encoding task plan: %w", err)
	}
	mindMap, err := json.Marshal(rec.MindMapData)
	if err != nil {
		return fmt.Errorf("encoding mind map: %w", err)
	}
	results, err := json.Marshal(rec.ResearchResults)
	if err != nil {
		return fmt.Errorf("encoding research results: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO research
			(id, original_query, task_plan, mind_map, research_results, outline, written_content, saved_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.OriginalQuery, string(plan), string(mindMap), string(results),
		rec.Outline, rec.WrittenContent, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("saving research %s: %w", rec.ID, err)
	}
	return nil
}

func (s *sqliteResearch) List(ctx context.Context) ([]types.CompletedResearch, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, original_query, task_plan, mind_map, research_results, outline, written_content
		FROM research ORDER BY saved_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing research: %w", err)
	}
	defer rows.Close()

	var recs []types.CompletedResearch
	for rows.Next() {
		rec, err := scanResearch(rows)
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

func (s *sqliteResearch) Get(ctx context.Context, id string) (types.CompletedResearch, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, original_query, task_plan, mind_map, research_results, outline, written_content
		FROM research WHERE id = ?`, id)
	rec, err := scanResearch(row)
	if err == sql.ErrNoRows {
		return types.CompletedResearch{}, ErrNotFound
	}
	return rec, err
}

func (s *sqliteResearch) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM research WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting research %s: %w", id, err)
	}
	return nil
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanResearch(row rowScanner) (types.CompletedResearch, error) {
	var rec types.CompletedResearch
	var plan, mindMap, results string
	if err := row.Scan(&rec.ID, &rec.OriginalQuery, &plan, &mindMap, &results,
		&rec.Outline, &rec.WrittenContent); err != nil {
		return types.CompletedResearch{}, err
	}
	if err := json.Unmarshal([]byte(plan), &rec.TaskPlan); err != nil {
		return types.CompletedResearch{}, fmt.Errorf("decoding task plan: %w", err)
	}
	if err := json.Unmarshal([]byte(mindMap), &rec.MindMapData); err != nil {
		return types.CompletedResearch{}, fmt.Errorf("decoding mind map: %w", err)
	}
	if err := json.Unmarshal([]byte(results), &rec.ResearchResults); err != nil {
		return types.CompletedResearch{}, fmt.Errorf("decoding research results: %w", err)
	}
	return rec, nil
}

// --- versions ---

type sqliteVersions struct {
	db *sql.DB
}

func (s *sqliteVersions) Append(ctx context.Context, v types.Version) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO versions (version_id, research_id, timestamp, content, outline, comment)
		VALUES (?, ?, ?, ?, ?, ?)`,
		v.VersionID, v.ResearchID, v.Timestamp.UTC().Format(time.RFC3339Nano),
		v.Content, v.Outline, v.Comment)
	if err != nil {
		return fmt.Errorf("appending version: %w", err)
	}
	return nil
}

func (s *sqliteVersions) List(ctx context.Context, researchID string) ([]types.Version, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT version_id, research_id, timestamp, content, outline, comment
		FROM versions WHERE research_id = ? ORDER BY seq ASC`, researchID)
	if err != nil {
		return nil, fmt.Errorf("listing versions: %w", err)
	}
	defer rows.Close()

	var versions []types.Version
	for rows.Next() {
		v, err := scanVersion(rows)
		if err != nil {
			return nil, err
		}
		versions = append(versions, v)
	}
	return versions, rows.Err()
}

func (s *sqliteVersions) Get(ctx context.Context, researchID, versionID string) (types.Version, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT version_id, research_id, timestamp, content, outline, comment
		FROM versions WHERE research_id = ? AND version_id = ?`, researchID, versionID)
	v, err := scanVersion(row)
	if err == sql.ErrNoRows {
		return types.Version{}, ErrNotFound
	}
	return v, err
}

func scanVersion(row rowScanner) (types.Version, error) {
	var v types.Version
	var ts string
	var comment sql.NullString
	if err := row.Scan(&v.VersionID, &v.ResearchID, &ts, &v.Content, &v.Outline, &comment); err != nil {
		return types.Version{}, err
	}
	t, err := time.Parse(time.RFC3339Nano, ts)
	if err != nil {
		return types.Version{}, fmt.Errorf("decoding version timestamp: %w", err)
	}
	v.Timestamp = t
	v.Comment = comment.String
	return v, nil
}

// --- comments ---

type sqliteComments struct {
	db *sql.DB
}

func (s *sqliteComments) Create(ctx context.Context, c types.Comment) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO comments (id, research_id, position, text, author, timestamp, resolved)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.ResearchID, c.Position, c.Text, c.Author,
		c.Timestamp.UTC().Format(time.RFC3339Nano), boolToInt(c.Resolved))
	if err != nil {
		return fmt.Errorf("creating comment: %w", err)
	}
	return nil
}

func (s *sqliteComments) List(ctx context.Context, researchID string) ([]types.Comment, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, research_id, position, text, author, timestamp, resolved
		FROM comments WHERE research_id = ? ORDER BY timestamp ASC`, researchID)
	if err != nil {
		return nil, fmt.Errorf("listing comments: %w", err)
	}
	defer rows.Close()

	var comments []types.Comment
	for rows.Next() {
		var c types.Comment
		var ts string
		var resolved int
		if err := rows.Scan(&c.ID, &c.ResearchID, &c.Position, &c.Text, &c.Author, &ts, &resolved); err != nil {
			return nil, err
		}
		t, err := time.Parse(time.RFC3339Nano, ts)
		if err != nil {
			return nil, fmt.Errorf("decoding comment timestamp: %w", err)
		}
		c.Timestamp = t
		c.Resolved = resolved != 0
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

func (s *sqliteComments) Resolve(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE comments SET resolved = 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("resolving comment %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *sqliteComments) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM comments WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting comment %s: %w", id, err)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
