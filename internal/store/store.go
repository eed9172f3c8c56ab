package store

import (
	"errors"

	"inkwell/internal/models"
)

// ErrNotFound is returned when a note does not exist or does not belong to
// the requesting owner. The two cases are deliberately indistinguishable.
var ErrNotFound = errors.New("note not found")

// Store defines the interface for all persistence operations
type Store interface {
	// Users
	CreateUser(username, passwordHash string) (int, error)
	GetUserByUsername(username string) (int, string, error)

	// Notes. An ownerID of 0 means single-tenant mode: no ownership
	// predicate is applied.
	CreateNote(ownerID int, title, content string) (models.Note, error)
	GetNotes(ownerID int) ([]models.Note, error)
	GetNote(id int) (models.Note, error)
	GetOwnedNote(id, ownerID int) (models.Note, error)
	UpdateNote(id, ownerID int, title, content string) (models.Note, error)
	DeleteNote(id, ownerID int) error

	Close() error
}
