// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package forms

import "net/http"

// MsgInvalidCredentials is the form-level message for a failed login.
const MsgInvalidCredentials = "Invalid username or password."

// LoginFields describes the login inputs in display order.
var LoginFields = []Field{
	{Name: "username", Label: "Username", Placeholder: "Type your username", Type: "text"},
	{Name: "password", Label: "Password", Placeholder: "Type your password", Type: "password"},
}

// LoginForm holds submitted credentials.
type LoginForm struct {
	Username string
	Password string
}

// ParseLoginForm reads the login fields from a POST body.
func ParseLoginForm(r *http.Request) LoginForm {
	return LoginForm{
		Username: clean(r.PostFormValue("username")),
		Password: r.PostFormValue("password"),
	}
}

// Value returns the submitted username for re-rendering.
func (f LoginForm) Value(field string) string {
	if field == "username" {
		return f.Username
	}
	return ""
}

// Validate checks that both fields were filled in.
func (f LoginForm) Validate() Errors {
	errs := Errors{}
	if f.Username == "" {
		errs.Add("username", MsgUsernameRequired)
	}
	if f.Password == "" {
		errs.Add("password", MsgPasswordRequired)
	}
	return errs
}
