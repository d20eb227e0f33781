// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/base64"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/pquerna/otp/totp"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/LuisFCaretta/site-receitas/internal/middleware"
	"github.com/LuisFCaretta/site-receitas/internal/render"
	"github.com/LuisFCaretta/site-receitas/internal/session"
)

// totpIssuer names the site in authenticator apps.
const totpIssuer = "Receitas"

const (
	msgWrongPassword = "Wrong password."
	msgTwoFADisabled = "Two-factor authentication disabled."
)

// TwoFASetupPage generates a new TOTP secret for the signed-in author and
// shows it as a QR code. Authors with 2FA already enabled are sent back to
// the dashboard.
func (a *Authors) TwoFASetupPage(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	user, err := a.userStore.FindByID(sess.UserID)
	if err != nil {
		a.renderer.ServerError(w, r, err)
		return
	}
	if user == nil {
		http.Redirect(w, r, loginPath, http.StatusSeeOther)
		return
	}
	if user.Requires2FA() {
		flash(a.sessions, w, r, session.FlashInfo, "Two-factor authentication is already enabled.")
		http.Redirect(w, r, dashboardPath, http.StatusSeeOther)
		return
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      totpIssuer,
		AccountName: user.Username,
	})
	if err != nil {
		a.renderer.ServerError(w, r, fmt.Errorf("totp generate: %w", err))
		return
	}
	if err := a.userStore.SetTOTPSecret(user.ID, key.Secret()); err != nil {
		a.renderer.ServerError(w, r, err)
		return
	}

	a.renderSetup(w, r, user.Username, key.Secret(), nil)
}

// TwoFASetupSubmit checks the first code from the authenticator app and
// turns 2FA on when it matches the pending secret.
func (a *Authors) TwoFASetupSubmit(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	user, err := a.userStore.FindByID(sess.UserID)
	if err != nil {
		a.renderer.ServerError(w, r, err)
		return
	}
	if user == nil {
		http.Redirect(w, r, loginPath, http.StatusSeeOther)
		return
	}
	if user.TOTPSecret == nil {
		http.Redirect(w, r, twoFASetupPath, http.StatusSeeOther)
		return
	}

	if !totp.Validate(strings.TrimSpace(r.PostFormValue("code")), *user.TOTPSecret) {
		a.renderSetup(w, r, user.Username, *user.TOTPSecret, []string{msgInvalidTOTP})
		return
	}

	if err := a.userStore.EnableTOTP(user.ID); err != nil {
		a.renderer.ServerError(w, r, err)
		return
	}
	slog.Info("two-factor authentication enabled", "user_id", user.ID)

	a.completeTwoFA(w, r, sess, "Two-factor authentication enabled.")
}

// TwoFADisable turns 2FA off after the author confirms their password.
func (a *Authors) TwoFADisable(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	user, err := a.userStore.FindByID(sess.UserID)
	if err != nil {
		a.renderer.ServerError(w, r, err)
		return
	}
	if user == nil {
		http.Redirect(w, r, loginPath, http.StatusSeeOther)
		return
	}
	if !a.userStore.CheckPassword(user, r.PostFormValue("password")) {
		flash(a.sessions, w, r, session.FlashError, msgWrongPassword)
		http.Redirect(w, r, dashboardPath, http.StatusSeeOther)
		return
	}

	if err := a.userStore.ResetTOTP(user.ID); err != nil {
		a.renderer.ServerError(w, r, err)
		return
	}
	slog.Info("two-factor authentication disabled", "user_id", user.ID)

	flash(a.sessions, w, r, session.FlashInfo, msgTwoFADisabled)
	http.Redirect(w, r, dashboardPath, http.StatusSeeOther)
}

// TwoFAVerifyPage renders the code prompt shown after a password login.
func (a *Authors) TwoFAVerifyPage(w http.ResponseWriter, r *http.Request) {
	if middleware.SessionFromCtx(r.Context()).TwoFADone {
		http.Redirect(w, r, dashboardPath, http.StatusSeeOther)
		return
	}
	a.renderVerify(w, r, nil)
}

// TwoFAVerifySubmit validates the TOTP code and completes the login.
func (a *Authors) TwoFAVerifySubmit(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess.TwoFADone {
		http.Redirect(w, r, dashboardPath, http.StatusSeeOther)
		return
	}

	user, err := a.userStore.FindByID(sess.UserID)
	if err != nil {
		a.renderer.ServerError(w, r, err)
		return
	}
	if user == nil {
		http.Redirect(w, r, loginPath, http.StatusSeeOther)
		return
	}

	if user.Requires2FA() && !totp.Validate(strings.TrimSpace(r.PostFormValue("code")), *user.TOTPSecret) {
		slog.Info("two-factor code rejected", "user_id", user.ID)
		a.renderVerify(w, r, []string{msgInvalidTOTP})
		return
	}

	a.completeTwoFA(w, r, sess, msgLoggedIn)
}

// completeTwoFA marks the session as fully authenticated and redirects to
// the dashboard.
func (a *Authors) completeTwoFA(w http.ResponseWriter, r *http.Request, sess *session.Data, msg string) {
	sess.TwoFADone = true
	sess.Flashes = append(sess.Flashes, session.Flash{Type: session.FlashSuccess, Message: msg})
	if err := a.sessions.Update(r.Context(), r, sess); err != nil {
		a.renderer.ServerError(w, r, err)
		return
	}
	http.Redirect(w, r, dashboardPath, http.StatusSeeOther)
}

func (a *Authors) renderSetup(w http.ResponseWriter, r *http.Request, account, secret string, errs []string) {
	png, err := qrcode.Encode(totpURL(account, secret), qrcode.Medium, 256)
	if err != nil {
		a.renderer.ServerError(w, r, fmt.Errorf("qr code: %w", err))
		return
	}

	a.renderer.Page(w, r, http.StatusOK, "2fa_setup", &render.PageData{
		Title: "Two-factor authentication",
		Data: map[string]any{
			"QRCode":         template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(png)),
			"Secret":         secret,
			"NonFieldErrors": errs,
		},
	})
}

func (a *Authors) renderVerify(w http.ResponseWriter, r *http.Request, errs []string) {
	a.renderer.Page(w, r, http.StatusOK, "2fa_verify", &render.PageData{
		Title: "Two-factor authentication",
		Data:  map[string]any{"NonFieldErrors": errs},
	})
}

// totpURL builds the otpauth:// URI encoded in the enrolment QR code.
func totpURL(account, secret string) string {
	u := url.URL{
		Scheme:   "otpauth",
		Host:     "totp",
		Path:     "/" + totpIssuer + ":" + account,
		RawQuery: url.Values{"secret": {secret}, "issuer": {totpIssuer}}.Encode(),
	}
	return u.String()
}
