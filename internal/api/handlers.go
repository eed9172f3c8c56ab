package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"inkwell/internal/ai"
	"inkwell/internal/auth"
	"inkwell/internal/models"
	"inkwell/internal/store"
)

// Handlers carries the collaborators every endpoint needs. All of them are
// injected once at startup.
type Handlers struct {
	store    store.Store
	sessions *auth.Sessions
	facade   *ai.Facade
	chat     *ai.ChatSession
}

func NewHandlers(st store.Store, sessions *auth.Sessions, facade *ai.Facade, chat *ai.ChatSession) *Handlers {
	return &Handlers{store: st, sessions: sessions, facade: facade, chat: chat}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (h *Handlers) SignupHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var u models.User
	if err := json.NewDecoder(r.Body).Decode(&u); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if u.Username == "" || u.Password == "" {
		http.Error(w, "Username and password are required", http.StatusBadRequest)
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	if _, err := h.store.CreateUser(u.Username, string(hashedPassword)); err != nil {
		http.Error(w, "Username already taken", http.StatusConflict)
		return
	}

	w.WriteHeader(http.StatusCreated)
}

func (h *Handlers) LoginHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var u models.User
	if err := json.NewDecoder(r.Body).Decode(&u); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	id, hash, err := h.store.GetUserByUsername(u.Username)
	if err != nil {
		http.Error(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(u.Password)); err != nil {
		http.Error(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}

	h.sessions.SetAuthCookie(w, id)
	w.WriteHeader(http.StatusOK)
}

func (h *Handlers) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	h.sessions.ClearAuthCookie(w)
	w.WriteHeader(http.StatusOK)
}

func (h *Handlers) NotesHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	switch r.Method {
	case http.MethodGet:
		if idStr := r.URL.Query().Get("id"); idStr != "" {
			id, err := strconv.Atoi(idStr)
			if err != nil {
				http.Error(w, "Invalid note ID", http.StatusBadRequest)
				return
			}
			note, err := h.store.GetOwnedNote(id, userID)
			if errors.Is(err, store.ErrNotFound) {
				http.Error(w, "Note not found", http.StatusNotFound)
				return
			}
			if err != nil {
				http.Error(w, "Database error", http.StatusInternalServerError)
				return
			}
			writeJSON(w, http.StatusOK, note)
			return
		}

		notes, err := h.store.GetNotes(userID)
		if err != nil {
			http.Error(w, "Database error", http.StatusInternalServerError)
			return
		}
		if notes == nil {
			notes = []models.Note{}
		}
		writeJSON(w, http.StatusOK, notes)

	case http.MethodPost:
		var n models.Note
		if err := json.NewDecoder(r.Body).Decode(&n); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		if n.Title == "" || n.Content == "" {
			http.Error(w, "Title and content are required", http.StatusBadRequest)
			return
		}
		note, err := h.store.CreateNote(userID, n.Title, n.Content)
		if err != nil {
			http.Error(w, "Database error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusCreated, note)

	case http.MethodPut:
		id, err := strconv.Atoi(r.URL.Query().Get("id"))
		if err != nil {
			http.Error(w, "Invalid note ID", http.StatusBadRequest)
			return
		}
		var n models.Note
		if err := json.NewDecoder(r.Body).Decode(&n); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		if n.Title == "" || n.Content == "" {
			http.Error(w, "Title and content are required", http.StatusBadRequest)
			return
		}
		note, err := h.store.UpdateNote(id, userID, n.Title, n.Content)
		if errors.Is(err, store.ErrNotFound) {
			http.Error(w, "Note not found", http.StatusNotFound)
			return
		}
		if err != nil {
			http.Error(w, "Database error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, note)

	case http.MethodDelete:
		id, err := strconv.Atoi(r.URL.Query().Get("id"))
		if err != nil {
			http.Error(w, "Invalid note ID", http.StatusBadRequest)
			return
		}
		if err := h.store.DeleteNote(id, userID); err != nil {
			http.Error(w, "Database error", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// Upper bound on a single backend call. Providers make one attempt; a
// caller that abandons the request cancels the context sooner.
const aiTimeout = 30 * time.Second

type aiRequest struct {
	Text     string `json:"text"`
	Provider string `json:"provider,omitempty"`
}

func (h *Handlers) SummarizeHandler(w http.ResponseWriter, r *http.Request) {
	h.processText(w, r, ai.OpSummarize, "Failed to summarize text")
}

func (h *Handlers) GrammarHandler(w http.ResponseWriter, r *http.Request) {
	h.processText(w, r, ai.OpGrammar, "Failed to correct grammar")
}

func (h *Handlers) ParaphraseHandler(w http.ResponseWriter, r *http.Request) {
	h.processText(w, r, ai.OpParaphrase, "Failed to paraphrase text")
}

func (h *Handlers) processText(w http.ResponseWriter, r *http.Request, op ai.Operation, failureMsg string) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req aiRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), aiTimeout)
	defer cancel()

	result, err := h.facade.Process(ctx, req.Provider, op, req.Text)
	if errors.Is(err, ai.ErrBlankText) {
		http.Error(w, "Text is required", http.StatusBadRequest)
		return
	}
	if err != nil {
		logrus.WithError(err).WithField("operation", string(op)).Error("text operation failed")
		http.Error(w, failureMsg, http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"result": result})
}

func (h *Handlers) ChatHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), aiTimeout)
	defer cancel()

	reply, err := h.chat.Send(ctx, req.Message)
	if errors.Is(err, ai.ErrBlankMessage) {
		http.Error(w, "Message is required", http.StatusBadRequest)
		return
	}
	if err != nil {
		logrus.WithError(err).Error("chat message failed")
		http.Error(w, "Failed to process chat message", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"response": reply})
}
