// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package social implements code-grant social login for Kakao, Naver and
// Google. The client obtains an authorization code from the provider and
// posts it here; the server exchanges it, fetches the profile and signs
// the member in, creating the account on first login.
package social

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"lislab/internal/config"
	"lislab/internal/models"
	"lislab/internal/store"
)

// Profile is the provider-neutral identity extracted from a userinfo
// response.
type Profile struct {
	ID           string
	Email        string
	Nickname     string
	ProfileImage string
}

// provider bundles the oauth2 config with the provider-specific
// userinfo fetch.
type provider struct {
	conf    *oauth2.Config
	profile func(ctx context.Context, client *http.Client) (*Profile, error)
}

// Service exchanges authorization codes and resolves them to member
// accounts.
type Service struct {
	users     *store.UserStore
	providers map[models.SocialProvider]provider
}

// NewService wires the configured providers. A provider with no client
// ID is left out and its login attempts fail with ErrProviderDisabled.
func NewService(cfg *config.Config, users *store.UserStore) *Service {
	s := &Service{
		users:     users,
		providers: make(map[models.SocialProvider]provider),
	}

	if cfg.KakaoClientID != "" {
		s.providers[models.SocialKakao] = provider{
			conf: &oauth2.Config{
				ClientID:     cfg.KakaoClientID,
				ClientSecret: cfg.KakaoClientSecret,
				Endpoint: oauth2.Endpoint{
					AuthURL:  "https://kauth.kakao.com/oauth/authorize",
					TokenURL: "https://kauth.kakao.com/oauth/token",
				},
			},
			profile: fetchKakaoProfile,
		}
	}
	if cfg.NaverClientID != "" {
		s.providers[models.SocialNaver] = provider{
			conf: &oauth2.Config{
				ClientID:     cfg.NaverClientID,
				ClientSecret: cfg.NaverClientSecret,
				Endpoint: oauth2.Endpoint{
					AuthURL:  "https://nid.naver.com/oauth2.0/authorize",
					TokenURL: "https://nid.naver.com/oauth2.0/token",
				},
			},
			profile: fetchNaverProfile,
		}
	}
	if cfg.GoogleClientID != "" {
		s.providers[models.SocialGoogle] = provider{
			conf: &oauth2.Config{
				ClientID:     cfg.GoogleClientID,
				ClientSecret: cfg.GoogleClientSecret,
				Scopes:       []string{"openid", "email", "profile"},
				Endpoint: oauth2.Endpoint{
					AuthURL:  "https://accounts.google.com/o/oauth2/v2/auth",
					TokenURL: "https://oauth2.googleapis.com/token",
				},
			},
			profile: fetchGoogleProfile,
		}
	}
	return s
}

// ErrProviderDisabled is returned when the requested provider has no
// credentials configured.
var ErrProviderDisabled = fmt.Errorf("social provider not configured")

// Enabled reports whether the provider can be used.
func (s *Service) Enabled(p models.SocialProvider) bool {
	_, ok := s.providers[p]
	return ok
}

// Authenticate exchanges the authorization code, fetches the provider
// profile and returns the matching member, creating one on first login.
// isNew reports whether this call registered the account; fresh members
// still owe their user type and organization.
func (s *Service) Authenticate(ctx context.Context, p models.SocialProvider, code, redirectURI string) (user *models.User, isNew bool, err error) {
	prov, ok := s.providers[p]
	if !ok {
		return nil, false, ErrProviderDisabled
	}

	tok, err := prov.conf.Exchange(ctx, code, oauth2.SetAuthURLParam("redirect_uri", redirectURI))
	if err != nil {
		return nil, false, fmt.Errorf("exchange %s code: %w", p, err)
	}

	profile, err := prov.profile(ctx, prov.conf.Client(ctx, tok))
	if err != nil {
		return nil, false, fmt.Errorf("fetch %s profile: %w", p, err)
	}
	if profile.ID == "" {
		return nil, false, fmt.Errorf("%s profile has no id", p)
	}

	user, err = s.users.FindBySocialID(p, profile.ID)
	if err != nil {
		return nil, false, err
	}
	if user != nil {
		return user, false, nil
	}

	user, err = s.register(p, profile)
	if err != nil {
		return nil, false, err
	}
	return user, true, nil
}

// register creates an account for a first-time social login. The
// nickname becomes the username; collisions get a random suffix.
func (s *Service) register(p models.SocialProvider, profile *Profile) (*models.User, error) {
	email := profile.Email
	if email == "" {
		// Kakao accounts may withhold the email; synthesize a stable
		// placeholder so the unique constraint holds.
		email = fmt.Sprintf("%s-%s@social.lislab.local", p, profile.ID)
	}

	username := profile.Nickname
	if username == "" {
		username = fmt.Sprintf("%s_%s", p, profile.ID)
	}
	existing, err := s.users.FindByUsername(username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		username = username + "_" + uuid.NewString()[:8]
	}

	var image *string
	if profile.ProfileImage != "" {
		image = &profile.ProfileImage
	}
	return s.users.CreateSocial(username, email, p, profile.ID, image)
}

func fetchJSON(ctx context.Context, client *http.Client, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("userinfo %s: status %d: %s", url, resp.StatusCode, body)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func fetchKakaoProfile(ctx context.Context, client *http.Client) (*Profile, error) {
	var payload struct {
		ID      int64 `json:"id"`
		Account struct {
			Email   string `json:"email"`
			Profile struct {
				Nickname        string `json:"nickname"`
				ProfileImageURL string `json:"profile_image_url"`
			} `json:"profile"`
		} `json:"kakao_account"`
	}
	if err := fetchJSON(ctx, client, "https://kapi.kakao.com/v2/user/me", &payload); err != nil {
		return nil, err
	}
	return &Profile{
		ID:           fmt.Sprintf("%d", payload.ID),
		Email:        payload.Account.Email,
		Nickname:     payload.Account.Profile.Nickname,
		ProfileImage: payload.Account.Profile.ProfileImageURL,
	}, nil
}

func fetchNaverProfile(ctx context.Context, client *http.Client) (*Profile, error) {
	var payload struct {
		Response struct {
			ID           string `json:"id"`
			Email        string `json:"email"`
			Nickname     string `json:"nickname"`
			ProfileImage string `json:"profile_image"`
		} `json:"response"`
	}
	if err := fetchJSON(ctx, client, "https://openapi.naver.com/v1/nid/me", &payload); err != nil {
		return nil, err
	}
	return &Profile{
		ID:           payload.Response.ID,
		Email:        payload.Response.Email,
		Nickname:     payload.Response.Nickname,
		ProfileImage: payload.Response.ProfileImage,
	}, nil
}

func fetchGoogleProfile(ctx context.Context, client *http.Client) (*Profile, error) {
	var payload struct {
		ID      string `json:"id"`
		Email   string `json:"email"`
		Name    string `json:"name"`
		Picture string `json:"picture"`
	}
	if err := fetchJSON(ctx, client, "https://www.googleapis.com/oauth2/v2/userinfo", &payload); err != nil {
		return nil, err
	}
	return &Profile{
		ID:           payload.ID,
		Email:        payload.Email,
		Nickname:     payload.Name,
		ProfileImage: payload.Picture,
	}, nil
}
