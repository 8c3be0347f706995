package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"lislab/internal/models"
	"lislab/internal/social"
	"lislab/internal/token"
)

// Social handles the server side of social login: the client completes
// the provider redirect and posts the authorization code here.
type Social struct {
	service *social.Service
	tokens  *token.Store
}

// NewSocial creates the social login handler group.
func NewSocial(service *social.Service, tokens *token.Store) *Social {
	return &Social{service: service, tokens: tokens}
}

type socialLoginRequest struct {
	Code        string `json:"code"`
	RedirectURI string `json:"redirect_uri"`
}

// socialTokenResponse is the social login payload. is_new_user tells
// the client to show the signup completion step (user type and
// organization).
type socialTokenResponse struct {
	Token     string       `json:"token"`
	User      *models.User `json:"user"`
	IsNewUser bool         `json:"is_new_user"`
}

// Login exchanges an authorization code for a member token. The
// provider comes from the URL: /api/auth/{provider}/.
func (h *Social) Login(w http.ResponseWriter, r *http.Request) {
	provider := models.SocialProvider(strings.ToUpper(chi.URLParam(r, "provider")))
	switch provider {
	case models.SocialKakao, models.SocialNaver, models.SocialGoogle:
	default:
		writeNotFound(w)
		return
	}

	var req socialLoginRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := validation.ValidateStruct(&req,
		validation.Field(&req.Code, validation.Required),
		validation.Field(&req.RedirectURI, validation.Required),
	); err != nil {
		writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}

	user, isNew, err := h.service.Authenticate(r.Context(), provider, req.Code, req.RedirectURI)
	if errors.Is(err, social.ErrProviderDisabled) {
		writeDetail(w, http.StatusServiceUnavailable, "이 소셜 로그인은 현재 사용할 수 없습니다.")
		return
	}
	if err != nil {
		writeServerError(w, "social login failed", err)
		return
	}
	if !user.IsActive {
		writeDetail(w, http.StatusUnauthorized, "비활성화된 계정입니다.")
		return
	}

	tok, err := h.tokens.Issue(r.Context(), &token.Data{
		UserID:    user.ID,
		Username:  user.Username,
		Email:     user.Email,
		Role:      user.Role,
		TwoFADone: !user.IsAdmin(),
	})
	if err != nil {
		writeServerError(w, "token issue failed", err)
		return
	}

	writeJSON(w, http.StatusOK, socialTokenResponse{
		Token:     tok,
		User:      user,
		IsNewUser: isNew,
	})
}

// Providers lists which social providers are configured, so the client
// only renders usable buttons.
func (h *Social) Providers(w http.ResponseWriter, r *http.Request) {
	enabled := []string{}
	for _, p := range []models.SocialProvider{models.SocialKakao, models.SocialNaver, models.SocialGoogle} {
		if h.service.Enabled(p) {
			enabled = append(enabled, strings.ToLower(string(p)))
		}
	}
	writeJSON(w, http.StatusOK, map[string][]string{"providers": enabled})
}
