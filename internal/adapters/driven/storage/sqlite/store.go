package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/allthriveai/showcase/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/allthriveai/showcase/internal/core/domain"
	"github.com/allthriveai/showcase/internal/core/ports/driven"
)

// Store is the SQLite-backed persistence layer. It owns the database
// connection and exposes the typed store interfaces through accessors.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a SQLite store under the given data directory.
// If dataDir is empty, defaults to ~/.showcase/data/showcase.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".showcase", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "showcase.db")

	// WAL mode for concurrent readers during batch ingestion.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// ProjectStore returns a ProjectStore interface backed by this store.
func (s *Store) ProjectStore() driven.ProjectStore {
	return &projectStore{store: s}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// "001_initial.up.sql" -> 1
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// projectStore implements driven.ProjectStore.
type projectStore struct {
	store *Store
}

var _ driven.ProjectStore = (*projectStore)(nil)

const projectColumns = `id, owner_id, owner_handle, slug, title, description,
	source_url, source_language, stars, tech_stack, categories, topics, tools,
	content, published, showcased, created_at, updated_at`

// Create inserts a new project record. A (owner_id, slug) collision maps to
// domain.ErrUpsertConflict so the upsert service can re-resolve and retry.
func (s *projectStore) Create(ctx context.Context, project *domain.Project) error {
	cols, err := encodeProject(project)
	if err != nil {
		return err
	}

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO projects (`+projectColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, project.ID, project.OwnerID, project.OwnerHandle, project.Slug,
		project.Title, project.Description, project.SourceURL,
		project.SourceLanguage, project.Stars, cols.techStack, cols.categories,
		cols.topics, cols.tools, cols.content, project.Published,
		project.Showcased, project.CreatedAt, project.UpdatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrUpsertConflict
		}
		return fmt.Errorf("inserting project: %w", err)
	}
	return nil
}

// Update rewrites an existing project record by ID.
func (s *projectStore) Update(ctx context.Context, project *domain.Project) error {
	cols, err := encodeProject(project)
	if err != nil {
		return err
	}

	result, err := s.store.db.ExecContext(ctx, `
		UPDATE projects SET
			owner_handle = ?, slug = ?, title = ?, description = ?,
			source_url = ?, source_language = ?, stars = ?, tech_stack = ?,
			categories = ?, topics = ?, tools = ?, content = ?,
			published = ?, showcased = ?, updated_at = ?
		WHERE id = ?
	`, project.OwnerHandle, project.Slug, project.Title, project.Description,
		project.SourceURL, project.SourceLanguage, project.Stars,
		cols.techStack, cols.categories, cols.topics, cols.tools, cols.content,
		project.Published, project.Showcased, project.UpdatedAt, project.ID)

	if err != nil {
		return fmt.Errorf("updating project: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking update result: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// GetBySource returns the owner's project for a source repository URL.
func (s *projectStore) GetBySource(ctx context.Context, ownerID, sourceURL string) (*domain.Project, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT `+projectColumns+` FROM projects
		WHERE owner_id = ? AND source_url = ?
	`, ownerID, sourceURL)

	project, err := scanProject(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return project, nil
}

// SlugTaken reports whether the owner already has a project under slug.
func (s *projectStore) SlugTaken(ctx context.Context, ownerID, slug string) (bool, error) {
	var count int
	row := s.store.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM projects WHERE owner_id = ? AND slug = ?",
		ownerID, slug)
	if err := row.Scan(&count); err != nil {
		return false, fmt.Errorf("checking slug: %w", err)
	}
	return count > 0, nil
}

// ListByOwner returns all of an owner's projects, newest first.
func (s *projectStore) ListByOwner(ctx context.Context, ownerID string) ([]domain.Project, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT `+projectColumns+` FROM projects
		WHERE owner_id = ?
		ORDER BY created_at DESC
	`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("querying projects: %w", err)
	}
	defer rows.Close()

	var projects []domain.Project //nolint:prealloc // size unknown from query
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, *project)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating projects: %w", err)
	}
	return projects, nil
}

// encodedColumns carries the JSON-encoded columns of one project row.
type encodedColumns struct {
	techStack  string
	categories string
	topics     string
	tools      string
	content    string
}

func encodeProject(project *domain.Project) (encodedColumns, error) {
	var cols encodedColumns
	var err error

	if cols.techStack, err = encodeStrings(project.TechStack); err != nil {
		return cols, err
	}
	if cols.categories, err = encodeStrings(project.Categories); err != nil {
		return cols, err
	}
	if cols.topics, err = encodeStrings(project.Topics); err != nil {
		return cols, err
	}
	if cols.tools, err = encodeStrings(project.Tools); err != nil {
		return cols, err
	}

	content, err := json.Marshal(project.Content)
	if err != nil {
		return cols, fmt.Errorf("marshalling content: %w", err)
	}
	cols.content = string(content)
	return cols, nil
}

func encodeStrings(values []string) (string, error) {
	if values == nil {
		values = []string{}
	}
	data, err := json.Marshal(values)
	if err != nil {
		return "", fmt.Errorf("marshalling string list: %w", err)
	}
	return string(data), nil
}

// scanner covers both sql.Row and sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanProject(row scanner) (*domain.Project, error) {
	var (
		project    domain.Project
		techStack  string
		categories string
		topics     string
		tools      string
		content    string
		createdAt  sql.NullTime
		updatedAt  sql.NullTime
	)

	err := row.Scan(&project.ID, &project.OwnerID, &project.OwnerHandle,
		&project.Slug, &project.Title, &project.Description,
		&project.SourceURL, &project.SourceLanguage, &project.Stars,
		&techStack, &categories, &topics, &tools, &content,
		&project.Published, &project.Showcased, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sql.ErrNoRows
		}
		return nil, fmt.Errorf("scanning project: %w", err)
	}

	if err := json.Unmarshal([]byte(techStack), &project.TechStack); err != nil {
		return nil, fmt.Errorf("unmarshaling tech stack: %w", err)
	}
	if err := json.Unmarshal([]byte(categories), &project.Categories); err != nil {
		return nil, fmt.Errorf("unmarshaling categories: %w", err)
	}
	if err := json.Unmarshal([]byte(topics), &project.Topics); err != nil {
		return nil, fmt.Errorf("unmarshaling topics: %w", err)
	}
	if err := json.Unmarshal([]byte(tools), &project.Tools); err != nil {
		return nil, fmt.Errorf("unmarshaling tools: %w", err)
	}
	if err := json.Unmarshal([]byte(content), &project.Content); err != nil {
		return nil, fmt.Errorf("unmarshaling content: %w", err)
	}

	if createdAt.Valid {
		project.CreatedAt = createdAt.Time
	}
	if updatedAt.Valid {
		project.UpdatedAt = updatedAt.Time
	}
	return &project, nil
}

// isUniqueViolation detects a UNIQUE constraint failure from the driver.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
