package memstore

import (
	"sort"
	"sync"
	"time"

	"github.com/pkg/errors"

	"inkwell/internal/models"
	"inkwell/internal/store"
)

// MemStore implements the Store interface with in-memory maps. It is the
// default backend when no database is configured and the backing store for
// handler tests. A single mutex serializes all writers; concurrent updates
// to the same note id are last-write-wins.
type MemStore struct {
	mu         sync.RWMutex
	users      map[string]user
	notes      map[int]models.Note
	nextUserID int
	nextNoteID int
}

type user struct {
	id   int
	hash string
}

func New() *MemStore {
	return &MemStore{
		users:      make(map[string]user),
		notes:      make(map[int]models.Note),
		nextUserID: 1,
		nextNoteID: 1,
	}
}

func (m *MemStore) Close() error { return nil }

// User functions
func (m *MemStore) CreateUser(username, passwordHash string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[username]; ok {
		return 0, errors.Errorf("username %q already taken", username)
	}
	id := m.nextUserID
	m.nextUserID++
	m.users[username] = user{id: id, hash: passwordHash}
	return id, nil
}

func (m *MemStore) GetUserByUsername(username string) (int, string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[username]
	if !ok {
		return 0, "", errors.Errorf("user %q not found", username)
	}
	return u.id, u.hash, nil
}

// Note functions
func (m *MemStore) CreateNote(ownerID int, title, content string) (models.Note, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := models.Note{
		ID:           m.nextNoteID,
		OwnerID:      ownerID,
		Title:        title,
		Content:      content,
		LastModified: time.Now(),
	}
	m.nextNoteID++
	m.notes[n.ID] = n
	return n, nil
}

func (m *MemStore) GetNotes(ownerID int) ([]models.Note, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var notes []models.Note
	for _, n := range m.notes {
		if ownerID == 0 || n.OwnerID == ownerID {
			notes = append(notes, n)
		}
	}
	sort.Slice(notes, func(i, j int) bool {
		if notes[i].LastModified.Equal(notes[j].LastModified) {
			return notes[i].ID > notes[j].ID
		}
		return notes[i].LastModified.After(notes[j].LastModified)
	})
	return notes, nil
}

func (m *MemStore) GetNote(id int) (models.Note, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n, ok := m.notes[id]
	if !ok {
		return models.Note{}, store.ErrNotFound
	}
	return n, nil
}

func (m *MemStore) GetOwnedNote(id, ownerID int) (models.Note, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n, ok := m.notes[id]
	if !ok || (ownerID != 0 && n.OwnerID != ownerID) {
		return models.Note{}, store.ErrNotFound
	}
	return n, nil
}

func (m *MemStore) UpdateNote(id, ownerID int, title, content string) (models.Note, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.notes[id]
	if !ok || (ownerID != 0 && n.OwnerID != ownerID) {
		return models.Note{}, store.ErrNotFound
	}
	n.Title = title
	n.Content = content
	n.LastModified = time.Now()
	m.notes[id] = n
	return n, nil
}

// DeleteNote is idempotent: deleting an absent note is not an error.
func (m *MemStore) DeleteNote(id, ownerID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.notes[id]
	if !ok {
		return nil
	}
	if ownerID != 0 && n.OwnerID != ownerID {
		return nil
	}
	delete(m.notes, id)
	return nil
}
