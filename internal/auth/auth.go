package auth

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// Context key for user ID
type contextKey string

const UserIDKey contextKey = "userID"

const cookieName = "auth_token"
const cookieTTL = 7 * 24 * time.Hour

// Sessions signs and validates the auth cookie. The signing secret is
// injected at startup; an empty secret falls back to a development default.
type Sessions struct {
	secret []byte
}

func New(secret string) *Sessions {
	if secret == "" {
		// Default key for development (DO NOT use in production)
		secret = "inkwell-dev-secret-key-change-in-prod"
	}
	return &Sessions{secret: []byte(secret)}
}

// CreateSignedCookie creates a signed cookie value containing the user ID and expiration
func (s *Sessions) CreateSignedCookie(userID int) string {
	// Cookie format: userID.expiration.signature
	expiration := time.Now().Add(cookieTTL).Unix()
	data := fmt.Sprintf("%d.%d", userID, expiration)
	signature := s.sign(data)
	return base64.URLEncoding.EncodeToString([]byte(fmt.Sprintf("%s.%s", data, signature)))
}

// ValidateSignedCookie validates the cookie and returns the user ID if valid
func (s *Sessions) ValidateSignedCookie(cookieValue string) (int, error) {
	decoded, err := base64.URLEncoding.DecodeString(cookieValue)
	if err != nil {
		return 0, fmt.Errorf("invalid cookie encoding")
	}

	parts := strings.Split(string(decoded), ".")
	if len(parts) != 3 {
		return 0, fmt.Errorf("invalid cookie format")
	}

	userIDStr, expirationStr, signature := parts[0], parts[1], parts[2]

	// Verify signature
	data := fmt.Sprintf("%s.%s", userIDStr, expirationStr)
	if !hmac.Equal([]byte(s.sign(data)), []byte(signature)) {
		return 0, fmt.Errorf("invalid signature")
	}

	// Check expiration
	expiration, err := strconv.ParseInt(expirationStr, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid expiration")
	}
	if time.Now().Unix() > expiration {
		return 0, fmt.Errorf("cookie expired")
	}

	userID, err := strconv.Atoi(userIDStr)
	if err != nil {
		return 0, fmt.Errorf("invalid user ID")
	}

	return userID, nil
}

func (s *Sessions) sign(data string) string {
	h := hmac.New(sha256.New, s.secret)
	h.Write([]byte(data))
	return base64.URLEncoding.EncodeToString(h.Sum(nil))
}

// SetAuthCookie sets the signed auth cookie on the response
func (s *Sessions) SetAuthCookie(w http.ResponseWriter, userID int) {
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    s.CreateSignedCookie(userID),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(cookieTTL / time.Second),
	})
}

// ClearAuthCookie clears the auth cookie
func (s *Sessions) ClearAuthCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
}

// UserIDFromRequest validates the auth cookie on r and returns the user ID.
func (s *Sessions) UserIDFromRequest(r *http.Request) (int, error) {
	cookie, err := r.Cookie(cookieName)
	if err != nil {
		return 0, fmt.Errorf("missing auth cookie")
	}
	return s.ValidateSignedCookie(cookie.Value)
}

// GetUserIDFromContext retrieves the user ID from the request context
func GetUserIDFromContext(ctx context.Context) (int, bool) {
	userID, ok := ctx.Value(UserIDKey).(int)
	return userID, ok
}
