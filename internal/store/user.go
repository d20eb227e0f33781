// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package store provides database access methods for authors, categories,
// and recipes. Each store struct wraps a *sql.DB and exposes typed query
// methods. Lookups return (nil, nil) when no row matches.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"

	"github.com/LuisFCaretta/site-receitas/internal/models"
)

// Errors returned by Create when a concurrent registration claimed the same
// username or e-mail between the uniqueness check and the insert.
var (
	ErrUsernameTaken = errors.New("username already taken")
	ErrEmailTaken    = errors.New("email already taken")
)

// Unique constraints on the users table.
const (
	usernameConstraint = "users_username_key"
	emailConstraint    = "users_email_lower_key"
)

// UserStore handles all author-related database operations.
type UserStore struct {
	db *sql.DB
}

// NewUserStore creates a new UserStore with the given database connection.
func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

const userColumns = `id, username, first_name, last_name, email, password_hash,
	totp_secret, totp_enabled, created_at, updated_at`

func scanUser(scanner interface{ Scan(...any) error }) (*models.User, error) {
	u := &models.User{}
	err := scanner.Scan(
		&u.ID, &u.Username, &u.FirstName, &u.LastName, &u.Email, &u.PasswordHash,
		&u.TOTPSecret, &u.TOTPEnabled, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return u, nil
}

// NewUser carries the fields accepted by Create.
type NewUser struct {
	Username  string
	FirstName string
	LastName  string
	Email     string
	Password  string
}

// FindByUsername retrieves an author by username. Returns nil if not found.
func (s *UserStore) FindByUsername(username string) (*models.User, error) {
	u, err := scanUser(s.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE username = $1`, username))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user by username: %w", err)
	}
	return u, nil
}

// FindByID retrieves an author by UUID. Returns nil if not found.
func (s *UserStore) FindByID(id uuid.UUID) (*models.User, error) {
	u, err := scanUser(s.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return u, nil
}

// UsernameExists reports whether the username is already taken.
func (s *UserStore) UsernameExists(username string) (bool, error) {
	var exists bool
	err := s.db.QueryRow(`SELECT EXISTS (SELECT 1 FROM users WHERE username = $1)`, username).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check username: %w", err)
	}
	return exists, nil
}

// EmailExists reports whether an account already uses the e-mail address.
// The comparison is case-insensitive, matching the unique index.
func (s *UserStore) EmailExists(email string) (bool, error) {
	var exists bool
	err := s.db.QueryRow(
		`SELECT EXISTS (SELECT 1 FROM users WHERE LOWER(email) = LOWER($1))`,
		strings.TrimSpace(email),
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check email: %w", err)
	}
	return exists, nil
}

// Create inserts a new author with a bcrypt-hashed password.
func (s *UserStore) Create(in NewUser) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u, err := scanUser(s.db.QueryRow(`
		INSERT INTO users (username, first_name, last_name, email, password_hash)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+userColumns,
		in.Username, in.FirstName, in.LastName, strings.TrimSpace(in.Email), string(hash),
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			switch pgErr.ConstraintName {
			case usernameConstraint:
				return nil, ErrUsernameTaken
			case emailConstraint:
				return nil, ErrEmailTaken
			}
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

// SetTOTPSecret saves the TOTP secret for an author (during 2FA setup).
func (s *UserStore) SetTOTPSecret(userID uuid.UUID, secret string) error {
	_, err := s.db.Exec(`
		UPDATE users SET totp_secret = $1, updated_at = NOW() WHERE id = $2
	`, secret, userID)
	if err != nil {
		return fmt.Errorf("set totp secret: %w", err)
	}
	return nil
}

// EnableTOTP marks 2FA as active for an author (after successful code verification).
func (s *UserStore) EnableTOTP(userID uuid.UUID) error {
	_, err := s.db.Exec(`
		UPDATE users SET totp_enabled = TRUE, updated_at = NOW() WHERE id = $1
	`, userID)
	if err != nil {
		return fmt.Errorf("enable totp: %w", err)
	}
	return nil
}

// ResetTOTP clears the TOTP secret and disables 2FA for an author.
func (s *UserStore) ResetTOTP(userID uuid.UUID) error {
	_, err := s.db.Exec(`
		UPDATE users SET totp_secret = NULL, totp_enabled = FALSE, updated_at = NOW() WHERE id = $1
	`, userID)
	if err != nil {
		return fmt.Errorf("reset totp: %w", err)
	}
	return nil
}

// CheckPassword verifies a plaintext password against the user's stored hash.
func (s *UserStore) CheckPassword(user *models.User, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) == nil
}

// Authenticate returns the author matching username and password, or nil
// when either is wrong.
func (s *UserStore) Authenticate(username, password string) (*models.User, error) {
	u, err := s.FindByUsername(username)
	if err != nil || u == nil {
		return nil, err
	}
	if !s.CheckPassword(u, password) {
		return nil, nil
	}
	return u, nil
}
