// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/LuisFCaretta/site-receitas/internal/forms"
	"github.com/LuisFCaretta/site-receitas/internal/metrics"
	"github.com/LuisFCaretta/site-receitas/internal/middleware"
	"github.com/LuisFCaretta/site-receitas/internal/render"
	"github.com/LuisFCaretta/site-receitas/internal/session"
	"github.com/LuisFCaretta/site-receitas/internal/store"
)

// Flash messages of the authors area.
const (
	msgRegistered  = "Your user is created, please log in."
	msgLoggedIn    = "You are logged in."
	msgLoggedOut   = "Logged out successfully."
	msgInvalidTOTP = "Invalid code. Please try again."
)

// Authors groups registration, login, logout and the two-factor
// authentication pages.
type Authors struct {
	renderer   *render.Renderer
	sessions   Sessions
	userStore  *store.UserStore
	categories CategoryLister
}

// NewAuthors creates a new Authors handler group. categories feeds the
// navigation bar and may be nil.
func NewAuthors(renderer *render.Renderer, sessions Sessions, userStore *store.UserStore, categories CategoryLister) *Authors {
	return &Authors{
		renderer:   renderer,
		sessions:   sessions,
		userStore:  userStore,
		categories: categories,
	}
}

// RegisterPage renders the empty registration form.
func (a *Authors) RegisterPage(w http.ResponseWriter, r *http.Request) {
	a.renderRegister(w, r, forms.RegisterForm{}, forms.Errors{})
}

// RegisterCreate validates a registration and creates the author. Only
// POST is accepted; any other method is answered with 404.
func (a *Authors) RegisterCreate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		a.renderer.NotFound(w, r)
		return
	}

	form := forms.ParseRegisterForm(r)
	errs, err := form.Validate(a.userStore)
	if err != nil {
		metrics.Registration(metrics.ResultError)
		a.renderer.ServerError(w, r, err)
		return
	}
	if !errs.Valid() {
		metrics.Registration(metrics.ResultInvalid)
		a.renderRegister(w, r, form, errs)
		return
	}

	user, err := a.userStore.Create(store.NewUser{
		Username:  form.Username,
		FirstName: form.FirstName,
		LastName:  form.LastName,
		Email:     form.Email,
		Password:  form.Password,
	})
	switch {
	case errors.Is(err, store.ErrUsernameTaken):
		errs.Add("username", forms.MsgUsernameTaken)
	case errors.Is(err, store.ErrEmailTaken):
		errs.Add("email", forms.MsgEmailTaken)
	case err != nil:
		metrics.Registration(metrics.ResultError)
		a.renderer.ServerError(w, r, err)
		return
	}
	if !errs.Valid() {
		metrics.Registration(metrics.ResultInvalid)
		a.renderRegister(w, r, form, errs)
		return
	}

	metrics.Registration(metrics.ResultSuccess)
	slog.Info("author registered", "user_id", user.ID, "username", user.Username)

	flash(a.sessions, w, r, session.FlashSuccess, msgRegistered)
	http.Redirect(w, r, loginPath, http.StatusSeeOther)
}

// LoginPage renders the login form. Authors who are already signed in go
// straight to the dashboard.
func (a *Authors) LoginPage(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess.IsAuthenticated() && sess.TwoFADone {
		http.Redirect(w, r, dashboardPath, http.StatusSeeOther)
		return
	}

	a.renderLogin(w, r, forms.LoginForm{}, forms.Errors{}, safeNext(r.URL.Query().Get("next")))
}

// LoginCreate checks the submitted credentials and signs the author in.
// Only POST is accepted; any other method is answered with 404.
func (a *Authors) LoginCreate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		a.renderer.NotFound(w, r)
		return
	}

	form := forms.ParseLoginForm(r)
	next := safeNext(r.PostFormValue("next"))

	errs := form.Validate()
	if !errs.Valid() {
		metrics.Login(metrics.ResultInvalid)
		a.renderLogin(w, r, form, errs, next)
		return
	}

	user, err := a.userStore.Authenticate(form.Username, form.Password)
	if err != nil {
		metrics.Login(metrics.ResultError)
		a.renderer.ServerError(w, r, err)
		return
	}
	if user == nil {
		metrics.Login(metrics.ResultInvalid)
		slog.Info("login failed", "username", form.Username)
		errs.Add(forms.NonFieldErrors, forms.MsgInvalidCredentials)
		a.renderLogin(w, r, form, errs, next)
		return
	}

	data := &session.Data{
		UserID:    user.ID,
		Username:  user.Username,
		FirstName: user.FirstName,
		TwoFADone: !user.Requires2FA(),
	}
	if data.TwoFADone {
		data.Flashes = []session.Flash{{Type: session.FlashSuccess, Message: msgLoggedIn}}
	}
	if _, err := a.sessions.Rotate(r.Context(), w, r, data); err != nil {
		metrics.Login(metrics.ResultError)
		a.renderer.ServerError(w, r, err)
		return
	}

	metrics.Login(metrics.ResultSuccess)
	slog.Info("author logged in", "user_id", user.ID, "two_factor", user.Requires2FA())

	if !data.TwoFADone {
		http.Redirect(w, r, twoFAVerify, http.StatusSeeOther)
		return
	}
	if next == "" {
		next = dashboardPath
	}
	http.Redirect(w, r, next, http.StatusSeeOther)
}

// Logout destroys the session and sends the visitor back to the login page.
func (a *Authors) Logout(w http.ResponseWriter, r *http.Request) {
	if !middleware.SessionFromCtx(r.Context()).IsAuthenticated() {
		http.Redirect(w, r, loginPath, http.StatusSeeOther)
		return
	}

	if err := a.sessions.Destroy(r.Context(), w, r); err != nil {
		slog.Error("session destroy failed", "error", err)
	}
	flash(a.sessions, w, r, session.FlashSuccess, msgLoggedOut)
	http.Redirect(w, r, loginPath, http.StatusSeeOther)
}

func (a *Authors) renderRegister(w http.ResponseWriter, r *http.Request, form forms.RegisterForm, errs forms.Errors) {
	a.renderer.Page(w, r, http.StatusOK, "register", &render.PageData{
		Title:      "Register",
		Categories: navCategories(a.categories),
		Data: map[string]any{
			"Fields":         render.Fields(forms.RegisterFields, form, errs, nil),
			"NonFieldErrors": errs.Get(forms.NonFieldErrors),
		},
	})
}

func (a *Authors) renderLogin(w http.ResponseWriter, r *http.Request, form forms.LoginForm, errs forms.Errors, next string) {
	a.renderer.Page(w, r, http.StatusOK, "login", &render.PageData{
		Title:      "Login",
		Categories: navCategories(a.categories),
		Data: map[string]any{
			"Fields":         render.Fields(forms.LoginFields, form, errs, nil),
			"NonFieldErrors": errs.Get(forms.NonFieldErrors),
			"Next":           next,
		},
	})
}

// safeNext keeps a post-login redirect target only when it is a local
// absolute path.
func safeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, `/\`) {
		return ""
	}
	u, err := url.Parse(next)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return ""
	}
	return next
}
