package sqlstore

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"inkwell/internal/models"
	"inkwell/internal/store"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// DBType represents the type of database
type DBType string

const (
	SQLite   DBType = "sqlite3"
	Postgres DBType = "postgres"
)

// SQLStore implements the Store interface for SQL databases
type SQLStore struct {
	db     *sql.DB
	dbType DBType
}

// New creates a new SQLStore with the given driver and connection string
func New(driver, connStr string) (*SQLStore, error) {
	db, err := sql.Open(driver, connStr)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	s := &SQLStore{
		db:     db,
		dbType: DBType(driver),
	}

	if err := s.initSchema(); err != nil {
		return nil, err
	}

	return s, nil
}

// rebind converts ? placeholders to $1, $2, etc. for PostgreSQL
func (s *SQLStore) rebind(query string) string {
	if s.dbType == SQLite {
		return query
	}
	var result strings.Builder
	argNum := 1
	for _, c := range query {
		if c == '?' {
			result.WriteString(fmt.Sprintf("$%d", argNum))
			argNum++
		} else {
			result.WriteRune(c)
		}
	}
	return result.String()
}

func (s *SQLStore) initSchema() error {
	var createUsersTable, createNotesTable string

	if s.dbType == Postgres {
		createUsersTable = `
		CREATE TABLE IF NOT EXISTS users (
			id SERIAL PRIMARY KEY,
			username TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL
		);`

		createNotesTable = `
		CREATE TABLE IF NOT EXISTS notes (
			id SERIAL PRIMARY KEY,
			user_id INTEGER NOT NULL DEFAULT 0,
			title TEXT NOT NULL,
			content TEXT NOT NULL,
			last_modified TIMESTAMP NOT NULL
		);`
	} else {
		createUsersTable = `
		CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			username TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL
		);`

		createNotesTable = `
		CREATE TABLE IF NOT EXISTS notes (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER NOT NULL DEFAULT 0,
			title TEXT NOT NULL,
			content TEXT NOT NULL,
			last_modified DATETIME NOT NULL
		);`
	}

	for _, stmt := range []string{createUsersTable, createNotesTable} {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}

	return nil
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}

// User functions
func (s *SQLStore) CreateUser(username, passwordHash string) (int, error) {
	if s.dbType == Postgres {
		var id int
		err := s.db.QueryRow(s.rebind("INSERT INTO users (username, password_hash) VALUES (?, ?) RETURNING id"), username, passwordHash).Scan(&id)
		return id, err
	}
	result, err := s.db.Exec(s.rebind("INSERT INTO users (username, password_hash) VALUES (?, ?)"), username, passwordHash)
	if err != nil {
		return 0, err
	}
	id, err := result.LastInsertId()
	return int(id), err
}

func (s *SQLStore) GetUserByUsername(username string) (int, string, error) {
	var id int
	var hash string
	err := s.db.QueryRow(s.rebind("SELECT id, password_hash FROM users WHERE username = ?"), username).Scan(&id, &hash)
	return id, hash, err
}

// Note functions
func (s *SQLStore) CreateNote(ownerID int, title, content string) (models.Note, error) {
	now := time.Now()
	n := models.Note{OwnerID: ownerID, Title: title, Content: content, LastModified: now}

	if s.dbType == Postgres {
		err := s.db.QueryRow(s.rebind("INSERT INTO notes (user_id, title, content, last_modified) VALUES (?, ?, ?, ?) RETURNING id"), ownerID, title, content, now).Scan(&n.ID)
		return n, err
	}
	result, err := s.db.Exec(s.rebind("INSERT INTO notes (user_id, title, content, last_modified) VALUES (?, ?, ?, ?)"), ownerID, title, content, now)
	if err != nil {
		return models.Note{}, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return models.Note{}, err
	}
	n.ID = int(id)
	return n, nil
}

func (s *SQLStore) GetNotes(ownerID int) ([]models.Note, error) {
	var rows *sql.Rows
	var err error
	if ownerID == 0 {
		rows, err = s.db.Query("SELECT id, user_id, title, content, last_modified FROM notes ORDER BY last_modified DESC")
	} else {
		rows, err = s.db.Query(s.rebind("SELECT id, user_id, title, content, last_modified FROM notes WHERE user_id = ? ORDER BY last_modified DESC"), ownerID)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notes []models.Note
	for rows.Next() {
		var n models.Note
		if err := rows.Scan(&n.ID, &n.OwnerID, &n.Title, &n.Content, &n.LastModified); err != nil {
			continue
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}

func (s *SQLStore) GetNote(id int) (models.Note, error) {
	var n models.Note
	err := s.db.QueryRow(s.rebind("SELECT id, user_id, title, content, last_modified FROM notes WHERE id = ?"), id).Scan(&n.ID, &n.OwnerID, &n.Title, &n.Content, &n.LastModified)
	if err == sql.ErrNoRows {
		return models.Note{}, store.ErrNotFound
	}
	return n, err
}

func (s *SQLStore) GetOwnedNote(id, ownerID int) (models.Note, error) {
	if ownerID == 0 {
		return s.GetNote(id)
	}
	var n models.Note
	err := s.db.QueryRow(s.rebind("SELECT id, user_id, title, content, last_modified FROM notes WHERE id = ? AND user_id = ?"), id, ownerID).Scan(&n.ID, &n.OwnerID, &n.Title, &n.Content, &n.LastModified)
	if err == sql.ErrNoRows {
		return models.Note{}, store.ErrNotFound
	}
	return n, err
}

func (s *SQLStore) UpdateNote(id, ownerID int, title, content string) (models.Note, error) {
	now := time.Now()
	var result sql.Result
	var err error
	if ownerID == 0 {
		result, err = s.db.Exec(s.rebind("UPDATE notes SET title = ?, content = ?, last_modified = ? WHERE id = ?"), title, content, now, id)
	} else {
		result, err = s.db.Exec(s.rebind("UPDATE notes SET title = ?, content = ?, last_modified = ? WHERE id = ? AND user_id = ?"), title, content, now, id, ownerID)
	}
	if err != nil {
		return models.Note{}, err
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return models.Note{}, store.ErrNotFound
	}
	return s.GetNote(id)
}

// DeleteNote is idempotent: deleting an absent note is not an error.
func (s *SQLStore) DeleteNote(id, ownerID int) error {
	if ownerID == 0 {
		_, err := s.db.Exec(s.rebind("DELETE FROM notes WHERE id = ?"), id)
		return err
	}
	_, err := s.db.Exec(s.rebind("DELETE FROM notes WHERE id = ? AND user_id = ?"), id, ownerID)
	return err
}
