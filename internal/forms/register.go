// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package forms

import (
	"fmt"
	"net/http"
	"net/mail"
	"strings"
)

// Username length bounds, counted in characters.
const (
	UsernameMinLength = 4
	UsernameMaxLength = 150
)

// Column limits of the users table. PasswordMaxBytes is the bcrypt input
// limit and counts bytes, not characters.
const (
	NameMaxLength    = 150
	EmailMaxLength   = 254
	PasswordMaxBytes = 72
)

// Registration messages.
const (
	MsgUsernameRequired  = "This field must not be empty."
	MsgUsernameTooShort  = "Username must have at least 4 characters."
	MsgUsernameTooLong   = "Username must have less than 150 characters."
	MsgUsernameInvalid   = "Username must have letters, numbers or one of those @.+-_"
	MsgUsernameTaken     = "A user with that username already exists."
	MsgFirstNameRequired = "Write your first name."
	MsgFirstNameTooLong  = "First name must have at most 150 characters."
	MsgLastNameRequired  = "Write your last name."
	MsgLastNameTooLong   = "Last name must have at most 150 characters."
	MsgEmailRequired     = "E-mail is required."
	MsgEmailInvalid      = "The e-mail must be valid."
	MsgEmailTooLong      = "E-mail must have at most 254 characters."
	MsgEmailTaken        = "User e-mail is already in use."
	MsgPasswordRequired  = "Password must not be empty."
	MsgPasswordWeak      = "Password must have at least one uppercase letter, one lowercase letter and one number. The length should be at least 8 characters."
	MsgPasswordTooLong   = "Password must have at most 72 bytes. Accented letters count as two."
	MsgPassword2Required = "Please, repeat your password."
	MsgPasswordMismatch  = "Password and confirm password must be equal."
)

var (
	usernamePattern = mustPattern(`^[\w.@+-]+\z`)
	passwordPattern = mustPattern(`^(?=.*[a-z])(?=.*[A-Z])(?=.*[0-9]).{8,}\z`)
)

// RegisterFields describes the registration inputs in display order.
var RegisterFields = []Field{
	{Name: "first_name", Label: "First name", Placeholder: "Type your first name here.", Type: "text"},
	{Name: "last_name", Label: "Last name", Placeholder: "Type your last name here.", Type: "text"},
	{
		Name: "username", Label: "Username", Placeholder: "Type your username here.", Type: "text",
		HelpText: "Username must have letters, numbers or one of those @.+-_ The length should be between 4 and 150 characters.",
	},
	{
		Name: "email", Label: "E-mail", Placeholder: "Type your e-mail here.", Type: "email",
		HelpText: "The e-mail must be valid.",
	},
	{
		Name: "password", Label: "Password", Placeholder: "Type your password here.", Type: "password",
		HelpText: "Password must have at least one uppercase letter, one lowercase letter and one number. The length should be at least 8 characters.",
	},
	{Name: "password2", Label: "Confirm password", Placeholder: "Repeat your password.", Type: "password"},
}

// UniquenessChecker looks up existing accounts. *store.UserStore satisfies it.
type UniquenessChecker interface {
	UsernameExists(username string) (bool, error)
	EmailExists(email string) (bool, error)
}

// RegisterForm holds a submitted registration.
type RegisterForm struct {
	FirstName string
	LastName  string
	Username  string
	Email     string
	Password  string
	Password2 string
}

// ParseRegisterForm reads the registration fields from a POST body. Text
// inputs are trimmed; passwords are kept verbatim.
func ParseRegisterForm(r *http.Request) RegisterForm {
	return RegisterForm{
		FirstName: clean(r.PostFormValue("first_name")),
		LastName:  clean(r.PostFormValue("last_name")),
		Username:  clean(r.PostFormValue("username")),
		Email:     clean(r.PostFormValue("email")),
		Password:  r.PostFormValue("password"),
		Password2: r.PostFormValue("password2"),
	}
}

// Value returns the submitted value of a text field for re-rendering.
// Password fields are never echoed back.
func (f RegisterForm) Value(field string) string {
	switch field {
	case "first_name":
		return f.FirstName
	case "last_name":
		return f.LastName
	case "username":
		return f.Username
	case "email":
		return f.Email
	}
	return ""
}

// Validate applies the registration rules. Uniqueness lookups only run for
// values that passed the syntactic checks. The error is non-nil only when
// a lookup fails.
func (f RegisterForm) Validate(users UniquenessChecker) (Errors, error) {
	errs := Errors{}

	f.validateUsername(errs)
	switch {
	case f.FirstName == "":
		errs.Add("first_name", MsgFirstNameRequired)
	case runeLen(f.FirstName) > NameMaxLength:
		errs.Add("first_name", MsgFirstNameTooLong)
	}
	switch {
	case f.LastName == "":
		errs.Add("last_name", MsgLastNameRequired)
	case runeLen(f.LastName) > NameMaxLength:
		errs.Add("last_name", MsgLastNameTooLong)
	}
	f.validateEmail(errs)
	f.validatePasswords(errs)

	if users == nil {
		return errs, nil
	}
	if !errs.Has("username") {
		taken, err := users.UsernameExists(f.Username)
		if err != nil {
			return errs, fmt.Errorf("validate username: %w", err)
		}
		if taken {
			errs.Add("username", MsgUsernameTaken)
		}
	}
	if !errs.Has("email") {
		taken, err := users.EmailExists(f.Email)
		if err != nil {
			return errs, fmt.Errorf("validate email: %w", err)
		}
		if taken {
			errs.Add("email", MsgEmailTaken)
		}
	}
	return errs, nil
}

func (f RegisterForm) validateUsername(errs Errors) {
	if f.Username == "" {
		errs.Add("username", MsgUsernameRequired)
		return
	}
	n := runeLen(f.Username)
	if n < UsernameMinLength {
		errs.Add("username", MsgUsernameTooShort)
	}
	if n > UsernameMaxLength {
		errs.Add("username", MsgUsernameTooLong)
	}
	if !matches(usernamePattern, f.Username) {
		errs.Add("username", MsgUsernameInvalid)
	}
}

func (f RegisterForm) validateEmail(errs Errors) {
	if f.Email == "" {
		errs.Add("email", MsgEmailRequired)
		return
	}
	if runeLen(f.Email) > EmailMaxLength {
		errs.Add("email", MsgEmailTooLong)
		return
	}
	if !ValidEmail(f.Email) {
		errs.Add("email", MsgEmailInvalid)
	}
}

func (f RegisterForm) validatePasswords(errs Errors) {
	switch {
	case f.Password == "":
		errs.Add("password", MsgPasswordRequired)
	case len(f.Password) > PasswordMaxBytes:
		errs.Add("password", MsgPasswordTooLong)
	case !StrongPassword(f.Password):
		errs.Add("password", MsgPasswordWeak)
	}
	if f.Password2 == "" {
		errs.Add("password2", MsgPassword2Required)
	}
	if f.Password != "" && f.Password2 != "" && f.Password != f.Password2 {
		errs.Add("password", MsgPasswordMismatch)
		errs.Add("password2", MsgPasswordMismatch)
	}
}

// StrongPassword reports whether p has a lowercase letter, an uppercase
// letter and a digit, and is at least 8 characters long.
func StrongPassword(p string) bool {
	return matches(passwordPattern, p)
}

// ValidEmail reports whether s is a bare address such as "ana@example.com".
// Display-name forms like "Ana <ana@example.com>" and dotless domains are
// rejected.
func ValidEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Name != "" || addr.Address != s {
		return false
	}
	domain := s[strings.LastIndexByte(s, '@')+1:]
	return strings.Contains(domain, ".") &&
		!strings.HasPrefix(domain, ".") &&
		!strings.HasSuffix(domain, ".")
}
