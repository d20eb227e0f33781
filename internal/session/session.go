// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package session provides Valkey-backed HTTP session management.
// Sessions are identified by a secure cookie and stored as JSON in Valkey
// with automatic TTL expiry. Anonymous visitors get a session only when a
// flash message has to survive a redirect.
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	// CookieName is the name of the session cookie sent to the browser.
	CookieName = "receitas_session"

	// DefaultTTL is how long a session lives in Valkey before automatic expiry.
	DefaultTTL = 24 * time.Hour

	// keyPrefix namespaces session keys in Valkey to avoid collisions.
	keyPrefix = "session:"

	// idLength is the byte length of the random session ID (32 bytes = 64 hex chars).
	idLength = 32
)

// Flash levels understood by the templates.
const (
	FlashSuccess = "success"
	FlashError   = "error"
	FlashInfo    = "info"
)

// Flash is a one-time message shown on the next rendered page.
type Flash struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// Data holds the session payload stored in Valkey: the signed-in author,
// their 2FA completion status, and pending flash messages.
type Data struct {
	UserID    uuid.UUID `json:"user_id"`
	Username  string    `json:"username"`
	FirstName string    `json:"first_name"`
	TwoFADone bool      `json:"two_fa_done"`
	Flashes   []Flash   `json:"flashes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// IsAuthenticated reports whether the session belongs to a signed-in author.
func (d *Data) IsAuthenticated() bool {
	return d != nil && d.UserID != uuid.Nil
}

// DisplayName is the name shown in the navigation bar.
func (d *Data) DisplayName() string {
	if d == nil {
		return ""
	}
	if d.FirstName != "" {
		return d.FirstName
	}
	return d.Username
}

// Store manages session lifecycle in Valkey.
type Store struct {
	client *redis.Client
	ttl    time.Duration
	secure bool
}

// NewStore creates a session store backed by the given Valkey client.
// When secure is true, cookies carry the Secure attribute.
func NewStore(client *redis.Client, secure bool) *Store {
	return &Store{
		client: client,
		ttl:    DefaultTTL,
		secure: secure,
	}
}

// Create generates a new session, stores it in Valkey, and sets the
// session cookie on the response. Returns the session ID.
func (s *Store) Create(ctx context.Context, w http.ResponseWriter, data *Data) (string, error) {
	id, err := generateID()
	if err != nil {
		return "", fmt.Errorf("session create: %w", err)
	}

	data.CreatedAt = time.Now()
	if err := s.save(ctx, id, data); err != nil {
		return "", err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(s.ttl.Seconds()),
	})

	return id, nil
}

// Get retrieves session data from Valkey using the session ID from the
// request cookie. Returns nil if no valid session exists.
func (s *Store) Get(ctx context.Context, r *http.Request) (*Data, error) {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return nil, nil // No cookie = no session (not an error)
	}

	payload, err := s.client.Get(ctx, keyPrefix+cookie.Value).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil // Session expired or doesn't exist
	}
	if err != nil {
		return nil, fmt.Errorf("session get: %w", err)
	}

	var data Data
	if err := json.Unmarshal(payload, &data); err != nil {
		return nil, fmt.Errorf("session unmarshal: %w", err)
	}

	return &data, nil
}

// Update replaces the session data in Valkey without changing the session
// ID or cookie. Resets the TTL.
func (s *Store) Update(ctx context.Context, r *http.Request, data *Data) error {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return fmt.Errorf("session update: no cookie")
	}
	return s.save(ctx, cookie.Value, data)
}

// Destroy removes the session from Valkey and clears the cookie.
func (s *Store) Destroy(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return nil // No cookie, nothing to destroy
	}

	if err := s.client.Del(ctx, keyPrefix+cookie.Value).Err(); err != nil {
		return fmt.Errorf("session destroy: %w", err)
	}

	// Expire the cookie immediately.
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		MaxAge:   -1,
	})

	return nil
}

// Rotate replaces whatever session the request carries with a fresh one
// holding data. Pending flashes of the old session are carried over. Used
// on login so a pre-login session ID is never promoted.
func (s *Store) Rotate(ctx context.Context, w http.ResponseWriter, r *http.Request, data *Data) (string, error) {
	old, err := s.Get(ctx, r)
	if err != nil {
		return "", err
	}
	if old != nil {
		data.Flashes = append(old.Flashes, data.Flashes...)
		if err := s.Destroy(ctx, w, r); err != nil {
			return "", err
		}
	}
	return s.Create(ctx, w, data)
}

// AddFlash queues a message for the next page. A visitor without a session
// gets an anonymous one.
func (s *Store) AddFlash(ctx context.Context, w http.ResponseWriter, r *http.Request, f Flash) error {
	data, err := s.Get(ctx, r)
	if err != nil {
		return err
	}
	if data == nil {
		_, err := s.Create(ctx, w, &Data{Flashes: []Flash{f}})
		return err
	}
	data.Flashes = append(data.Flashes, f)
	return s.Update(ctx, r, data)
}

// PopFlashes returns the pending messages and clears them from the session.
func (s *Store) PopFlashes(ctx context.Context, r *http.Request) ([]Flash, error) {
	data, err := s.Get(ctx, r)
	if err != nil || data == nil || len(data.Flashes) == 0 {
		return nil, err
	}
	flashes := data.Flashes
	data.Flashes = nil
	if err := s.Update(ctx, r, data); err != nil {
		return nil, err
	}
	return flashes, nil
}

func (s *Store) save(ctx context.Context, id string, data *Data) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("session marshal: %w", err)
	}
	if err := s.client.Set(ctx, keyPrefix+id, payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("session store: %w", err)
	}
	return nil
}

// generateID creates a cryptographically random session identifier.
func generateID() (string, error) {
	b := make([]byte, idLength)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
