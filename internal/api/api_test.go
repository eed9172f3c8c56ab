package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inkwell/internal/ai"
	"inkwell/internal/auth"
	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/store/memstore"
)

type stubProvider struct {
	reply string
	err   error
	calls int
}

func (s *stubProvider) Run(ctx context.Context, op ai.Operation, text string) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}

func (s *stubProvider) Chat(ctx context.Context, persona, message string) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}

type testServer struct {
	handler http.Handler
	stub    *stubProvider
	alt     *stubProvider
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	st := memstore.New()
	sessions := auth.New("test-secret")
	stub := &stubProvider{reply: "processed"}
	alt := &stubProvider{reply: "from alt"}
	facade := ai.NewFacade("stub", map[string]ai.Provider{"stub": stub, "alt": alt})
	chat := ai.NewChatSession(stub, "")

	h := NewHandlers(st, sessions, facade, chat)

	mux := http.NewServeMux()
	mux.HandleFunc("/api/signup", h.SignupHandler)
	mux.HandleFunc("/api/login", h.LoginHandler)
	mux.HandleFunc("/api/logout", h.LogoutHandler)
	mux.HandleFunc("/api/notes", h.NotesHandler)
	mux.HandleFunc("/api/ai/summarize", h.SummarizeHandler)
	mux.HandleFunc("/api/ai/grammar", h.GrammarHandler)
	mux.HandleFunc("/api/ai/paraphrase", h.ParaphraseHandler)
	mux.HandleFunc("/api/ai/chat", h.ChatHandler)

	return &testServer{
		handler: middleware.Auth(sessions)(mux),
		stub:    stub,
		alt:     alt,
	}
}

func (ts *testServer) do(method, path, body string, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	ts.handler.ServeHTTP(w, req)
	return w
}

func (ts *testServer) signupAndLogin(t *testing.T, username string) *http.Cookie {
	t.Helper()
	body := fmt.Sprintf(`{"username": %q, "password": "password123"}`, username)
	w := ts.do("POST", "/api/signup", body, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	w = ts.do("POST", "/api/login", body, nil)
	require.Equal(t, http.StatusOK, w.Code)
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)
	return cookies[0]
}

func TestSignupAndLogin(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do("POST", "/api/signup", `{"username": "testuser", "password": "password123"}`, nil)
	assert.Equal(t, http.StatusCreated, w.Code)

	// Duplicate username
	w = ts.do("POST", "/api/signup", `{"username": "testuser", "password": "other"}`, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	// Blank credentials
	w = ts.do("POST", "/api/signup", `{"username": "", "password": ""}`, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.do("POST", "/api/login", `{"username": "testuser", "password": "password123"}`, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Result().Cookies())

	w = ts.do("POST", "/api/login", `{"username": "testuser", "password": "wrong"}`, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestNotesRequireAuth(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do("GET", "/api/notes", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestNotesCRUD(t *testing.T) {
	ts := newTestServer(t)
	cookie := ts.signupAndLogin(t, "noteuser")

	// Create
	w := ts.do("POST", "/api/notes", `{"title": "First", "content": "hello world"}`, cookie)
	require.Equal(t, http.StatusCreated, w.Code)

	var created models.Note
	require.NoError(t, json.NewDecoder(w.Body).Decode(&created))
	assert.NotZero(t, created.ID)
	assert.Equal(t, "First", created.Title)
	assert.False(t, created.LastModified.IsZero())

	// Round trip via single get
	w = ts.do("GET", fmt.Sprintf("/api/notes?id=%d", created.ID), "", cookie)
	require.Equal(t, http.StatusOK, w.Code)
	var got models.Note
	require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
	assert.Equal(t, "First", got.Title)
	assert.Equal(t, "hello world", got.Content)

	// List
	w = ts.do("GET", "/api/notes", "", cookie)
	require.Equal(t, http.StatusOK, w.Code)
	var notes []models.Note
	require.NoError(t, json.NewDecoder(w.Body).Decode(&notes))
	require.Len(t, notes, 1)

	// Update
	w = ts.do("PUT", fmt.Sprintf("/api/notes?id=%d", created.ID), `{"title": "First!", "content": "edited"}`, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	var updated models.Note
	require.NoError(t, json.NewDecoder(w.Body).Decode(&updated))
	assert.Equal(t, "edited", updated.Content)
	assert.False(t, updated.LastModified.Before(created.LastModified))

	// Update of a nonexistent note never creates one
	w = ts.do("PUT", "/api/notes?id=9999", `{"title": "x", "content": "y"}`, cookie)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Delete is idempotent at the HTTP surface too
	w = ts.do("DELETE", fmt.Sprintf("/api/notes?id=%d", created.ID), "", cookie)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = ts.do("DELETE", fmt.Sprintf("/api/notes?id=%d", created.ID), "", cookie)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = ts.do("GET", fmt.Sprintf("/api/notes?id=%d", created.ID), "", cookie)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestNoteValidation(t *testing.T) {
	ts := newTestServer(t)
	cookie := ts.signupAndLogin(t, "validator")

	w := ts.do("POST", "/api/notes", `{"title": "", "content": ""}`, cookie)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.do("POST", "/api/notes", `not json`, cookie)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestNotesOwnershipIsolation(t *testing.T) {
	ts := newTestServer(t)
	aliceCookie := ts.signupAndLogin(t, "alice")
	bobCookie := ts.signupAndLogin(t, "bob")

	w := ts.do("POST", "/api/notes", `{"title": "secret", "content": "alice only"}`, aliceCookie)
	require.Equal(t, http.StatusCreated, w.Code)
	var note models.Note
	require.NoError(t, json.NewDecoder(w.Body).Decode(&note))

	// Bob's list never contains Alice's note.
	w = ts.do("GET", "/api/notes", "", bobCookie)
	require.Equal(t, http.StatusOK, w.Code)
	var notes []models.Note
	require.NoError(t, json.NewDecoder(w.Body).Decode(&notes))
	assert.Empty(t, notes)

	// Direct lookup is indistinguishable from absent.
	w = ts.do("GET", fmt.Sprintf("/api/notes?id=%d", note.ID), "", bobCookie)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = ts.do("PUT", fmt.Sprintf("/api/notes?id=%d", note.ID), `{"title": "x", "content": "y"}`, bobCookie)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Alice still sees her note untouched.
	w = ts.do("GET", fmt.Sprintf("/api/notes?id=%d", note.ID), "", aliceCookie)
	require.Equal(t, http.StatusOK, w.Code)
	var got models.Note
	require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
	assert.Equal(t, "alice only", got.Content)
}

func TestAIOperations(t *testing.T) {
	ts := newTestServer(t)
	cookie := ts.signupAndLogin(t, "aiuser")

	endpoints := []string{"/api/ai/summarize", "/api/ai/grammar", "/api/ai/paraphrase"}

	for _, ep := range endpoints {
		// Blank text: rejected before the provider is invoked.
		before := ts.stub.calls
		w := ts.do("POST", ep, `{"text": ""}`, cookie)
		assert.Equal(t, http.StatusBadRequest, w.Code, ep)
		assert.Equal(t, before, ts.stub.calls, "%s must not reach the provider", ep)

		// Success path.
		w = ts.do("POST", ep, `{"text": "some input"}`, cookie)
		require.Equal(t, http.StatusOK, w.Code, ep)
		var resp map[string]string
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.Equal(t, "processed", resp["result"], ep)
	}
}

func TestAIProviderHint(t *testing.T) {
	ts := newTestServer(t)
	cookie := ts.signupAndLogin(t, "hinter")

	w := ts.do("POST", "/api/ai/summarize", `{"text": "hello", "provider": "alt"}`, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	var resp map[string]string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "from alt", resp["result"])
	assert.Equal(t, 1, ts.alt.calls)

	// Unknown hints fall back to the default provider.
	w = ts.do("POST", "/api/ai/summarize", `{"text": "hello", "provider": "nope"}`, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "processed", resp["result"])
}

func TestAIProviderFailure(t *testing.T) {
	ts := newTestServer(t)
	cookie := ts.signupAndLogin(t, "failuser")

	ts.stub.err = &ai.ProviderError{Provider: "stub", Kind: ai.KindEmptyResponse}
	w := ts.do("POST", "/api/ai/grammar", `{"text": "hello"}`, cookie)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestChat(t *testing.T) {
	ts := newTestServer(t)

	// Chat is public: no cookie required.
	w := ts.do("POST", "/api/ai/chat", `{"message": "hello"}`, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp map[string]string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "processed", resp["response"])

	w = ts.do("POST", "/api/ai/chat", `{"message": "  "}`, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
