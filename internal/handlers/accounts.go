// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/base64"
	"net/http"

	"github.com/go-chi/chi/v5"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/pquerna/otp/totp"
	qrcode "github.com/skip2/go-qrcode"

	"lislab/internal/middleware"
	"lislab/internal/models"
	"lislab/internal/store"
	"lislab/internal/token"
)

// Accounts groups registration, login, profile and 2FA handlers.
type Accounts struct {
	users  *store.UserStore
	tokens *token.Store
}

// NewAccounts creates the accounts handler group.
func NewAccounts(users *store.UserStore, tokens *token.Store) *Accounts {
	return &Accounts{users: users, tokens: tokens}
}

type registerRequest struct {
	Username     string `json:"username"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	UserType     string `json:"user_type"`
	Organization string `json:"organization"`
}

func (req *registerRequest) validate() error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Username, validation.Required, validation.Length(2, 50)),
		validation.Field(&req.Email, validation.Required, is.Email),
		validation.Field(&req.Password, validation.Required, validation.Length(8, 128)),
		validation.Field(&req.UserType,
			validation.In("STUDENT", "PROFESSOR", "JOB_SEEKER", "OTHER")),
	)
}

// Register creates a member account and signs it in.
func (a *Accounts) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := req.validate(); err != nil {
		writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}

	if existing, err := a.users.FindByEmail(req.Email); err != nil {
		writeServerError(w, "register lookup failed", err)
		return
	} else if existing != nil {
		writeDetail(w, http.StatusBadRequest, "이미 사용 중인 이메일입니다.")
		return
	}
	if existing, err := a.users.FindByUsername(req.Username); err != nil {
		writeServerError(w, "register lookup failed", err)
		return
	} else if existing != nil {
		writeDetail(w, http.StatusBadRequest, "이미 사용 중인 사용자 이름입니다.")
		return
	}

	userType := models.UserType(req.UserType)
	if req.UserType == "" {
		userType = models.UserTypeOther
	}
	user, err := a.users.Create(req.Username, req.Email, req.Password, userType, req.Organization)
	if err != nil {
		writeServerError(w, "register failed", err)
		return
	}

	a.issueAndRespond(w, r, user, http.StatusCreated)
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login verifies credentials and issues a bearer token. Admin accounts
// with 2FA enabled receive a token that cannot pass admin checks until
// Verify2FA upgrades it.
func (a *Accounts) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeBody(w, r, &req) {
		return
	}

	user, err := a.users.FindByUsername(req.Username)
	if err != nil {
		writeServerError(w, "login lookup failed", err)
		return
	}
	if user == nil || !user.IsActive || !a.users.CheckPassword(user, req.Password) {
		writeDetail(w, http.StatusUnauthorized, "아이디 또는 비밀번호가 올바르지 않습니다.")
		return
	}

	a.issueAndRespond(w, r, user, http.StatusOK)
}

// tokenResponse is the login/register payload.
type tokenResponse struct {
	Token         string       `json:"token"`
	User          *models.User `json:"user"`
	Requires2FA   bool         `json:"requires_2fa"`
	Needs2FASetup bool         `json:"needs_2fa_setup"`
}

func (a *Accounts) issueAndRespond(w http.ResponseWriter, r *http.Request, user *models.User, status int) {
	data := &token.Data{
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
		Role:     user.Role,
		// Non-admins never go through TOTP; their tokens are complete
		// at login.
		TwoFADone: !user.IsAdmin(),
	}

	tok, err := a.tokens.Issue(r.Context(), data)
	if err != nil {
		writeServerError(w, "token issue failed", err)
		return
	}

	writeJSON(w, status, tokenResponse{
		Token:         tok,
		User:          user,
		Requires2FA:   user.IsAdmin() && user.TOTPEnabled,
		Needs2FASetup: user.Needs2FASetup(),
	})
}

// Logout revokes the bearer token.
func (a *Accounts) Logout(w http.ResponseWriter, r *http.Request) {
	a.tokens.Revoke(r.Context(), r)
	writeDetail(w, http.StatusOK, "로그아웃되었습니다.")
}

// Me serves the authenticated member's profile.
func (a *Accounts) Me(w http.ResponseWriter, r *http.Request) {
	viewer := middleware.Viewer(r.Context())

	user, err := a.users.FindByID(viewer.UserID)
	if err != nil {
		writeServerError(w, "profile lookup failed", err)
		return
	}
	if user == nil {
		writeDetail(w, http.StatusUnauthorized, "Authentication credentials were not provided.")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

type profileRequest struct {
	UserType     string  `json:"user_type"`
	Phone        string  `json:"phone"`
	Organization string  `json:"organization"`
	Bio          string  `json:"bio"`
	ProfileImage *string `json:"profile_image"`
}

// UpdateProfile edits the mutable profile fields. Members may only
// edit their own record; the {id} in the path must match the token.
func (a *Accounts) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	viewer := middleware.Viewer(r.Context())

	targetID := viewer.UserID
	if param := chi.URLParam(r, "id"); param != "" {
		id, ok := parseID(param)
		if !ok {
			writeNotFound(w)
			return
		}
		if id != viewer.UserID && !viewer.IsAdmin() {
			writeDetail(w, http.StatusForbidden, "본인의 프로필만 수정할 수 있습니다.")
			return
		}
		targetID = id
	}

	var req profileRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := validation.ValidateStruct(&req,
		validation.Field(&req.UserType,
			validation.In("STUDENT", "PROFESSOR", "JOB_SEEKER", "OTHER")),
		validation.Field(&req.Bio, validation.Length(0, 1000)),
	); err != nil {
		writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}

	userType := models.UserType(req.UserType)
	if req.UserType == "" {
		userType = models.UserTypeOther
	}
	if err := a.users.UpdateProfile(targetID, userType, req.Phone, req.Organization, req.Bio, req.ProfileImage); err != nil {
		writeServerError(w, "profile update failed", err)
		return
	}

	user, err := a.users.FindByID(targetID)
	if err != nil {
		writeServerError(w, "profile reload failed", err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

type completeSignupRequest struct {
	UserType     string `json:"user_type"`
	Organization string `json:"organization"`
}

// CompleteSignup fills in the fields social login cannot provide. The
// client calls it once after a login that reported is_new_user.
func (a *Accounts) CompleteSignup(w http.ResponseWriter, r *http.Request) {
	viewer := middleware.Viewer(r.Context())

	var req completeSignupRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := validation.ValidateStruct(&req,
		validation.Field(&req.UserType, validation.Required,
			validation.In("STUDENT", "PROFESSOR", "JOB_SEEKER", "OTHER")),
	); err != nil {
		writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := a.users.FindByID(viewer.UserID)
	if err != nil || user == nil {
		writeServerError(w, "signup lookup failed", err)
		return
	}

	err = a.users.UpdateProfile(user.ID, models.UserType(req.UserType),
		user.Phone, req.Organization, user.Bio, user.ProfileImage)
	if err != nil {
		writeServerError(w, "signup completion failed", err)
		return
	}

	updated, err := a.users.FindByID(user.ID)
	if err != nil {
		writeServerError(w, "signup reload failed", err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

type passwordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// ChangePassword replaces the member's password after verifying the
// current one. Social accounts have no password to change.
func (a *Accounts) ChangePassword(w http.ResponseWriter, r *http.Request) {
	viewer := middleware.Viewer(r.Context())

	var req passwordRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := validation.ValidateStruct(&req,
		validation.Field(&req.OldPassword, validation.Required),
		validation.Field(&req.NewPassword, validation.Required, validation.Length(8, 128)),
	); err != nil {
		writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := a.users.FindByID(viewer.UserID)
	if err != nil || user == nil {
		writeServerError(w, "password lookup failed", err)
		return
	}
	if user.IsSocial() {
		writeDetail(w, http.StatusBadRequest, "소셜 로그인 계정은 비밀번호를 변경할 수 없습니다.")
		return
	}

	if err := a.users.ChangePassword(user, req.OldPassword, req.NewPassword); err != nil {
		writeDetail(w, http.StatusBadRequest, "현재 비밀번호가 올바르지 않습니다.")
		return
	}
	writeDetail(w, http.StatusOK, "비밀번호가 변경되었습니다.")
}

// Deactivate soft-deletes the member's own account and revokes the token.
func (a *Accounts) Deactivate(w http.ResponseWriter, r *http.Request) {
	viewer := middleware.Viewer(r.Context())

	if err := a.users.Deactivate(viewer.UserID); err != nil {
		writeServerError(w, "deactivate failed", err)
		return
	}
	a.tokens.Revoke(r.Context(), r)
	w.WriteHeader(http.StatusNoContent)
}

// Setup2FA generates a fresh TOTP secret for an admin and returns the
// provisioning QR code as base64 PNG. Repeat calls rotate the secret
// until verification completes.
func (a *Accounts) Setup2FA(w http.ResponseWriter, r *http.Request) {
	viewer := middleware.Viewer(r.Context())
	if viewer.Role != models.RoleAdmin {
		writeDetail(w, http.StatusForbidden, "Admin privileges required.")
		return
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      "LIS Lab",
		AccountName: viewer.Email,
	})
	if err != nil {
		writeServerError(w, "totp generate failed", err)
		return
	}

	if err := a.users.SetTOTPSecret(viewer.UserID, key.Secret()); err != nil {
		writeServerError(w, "totp secret save failed", err)
		return
	}

	qrPNG, err := qrcode.Encode(key.URL(), qrcode.Medium, 256)
	if err != nil {
		writeServerError(w, "qr encode failed", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"secret":  key.Secret(),
		"qr_code": base64.StdEncoding.EncodeToString(qrPNG),
	})
}

type verify2FARequest struct {
	Code string `json:"code"`
}

// Verify2FA validates the TOTP code and upgrades the current token to
// full admin standing. First successful verification completes
// enrollment.
func (a *Accounts) Verify2FA(w http.ResponseWriter, r *http.Request) {
	viewer := middleware.Viewer(r.Context())
	if viewer.Role != models.RoleAdmin {
		writeDetail(w, http.StatusForbidden, "Admin privileges required.")
		return
	}

	var req verify2FARequest
	if !decodeBody(w, r, &req) {
		return
	}

	user, err := a.users.FindByID(viewer.UserID)
	if err != nil || user == nil {
		writeServerError(w, "2fa lookup failed", err)
		return
	}
	if user.TOTPSecret == nil {
		writeDetail(w, http.StatusBadRequest, "2FA has not been set up.")
		return
	}

	if !totp.Validate(req.Code, *user.TOTPSecret) {
		writeDetail(w, http.StatusBadRequest, "인증 코드가 올바르지 않습니다.")
		return
	}

	if !user.TOTPEnabled {
		if err := a.users.EnableTOTP(user.ID); err != nil {
			writeServerError(w, "totp enable failed", err)
			return
		}
	}

	upgraded := *viewer
	upgraded.TwoFADone = true
	if err := a.tokens.Update(r.Context(), r, &upgraded); err != nil {
		writeServerError(w, "token upgrade failed", err)
		return
	}
	writeDetail(w, http.StatusOK, "2단계 인증이 완료되었습니다.")
}
