// Package router sets up all HTTP routes and middleware chains for the
// LIS Lab API. Routes are grouped by app under /api, with public reads,
// authenticated writes and admin-only management mirrored in the
// middleware stacks.
package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"lislab/internal/handlers"
	"lislab/internal/middleware"
	"lislab/internal/token"
)

// Deps bundles everything the router wires together.
type Deps struct {
	Tokens     *token.Store
	Contents   *handlers.Contents
	Accounts   *handlers.Accounts
	Social     *handlers.Social
	Boards     *handlers.Boards
	Comments   *handlers.Comments
	Mailing    *handlers.Mailing
	Statistics *handlers.Statistics
	Uploads    *handlers.Uploads
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(d Deps) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.LoadToken(d.Tokens))

	// Credential endpoints share one limiter: 10 attempts per minute per IP.
	authLimiter := middleware.NewRateLimiter(10, time.Minute)

	r.Get("/health", healthHandler)

	r.Route("/api", func(r chi.Router) {
		r.Route("/contents", func(r chi.Router) {
			// Public reads. LoadToken has already resolved the viewer,
			// so favorites are marked when a token is present.
			r.Get("/categories/", d.Contents.ListCategories)
			r.Get("/tags/", d.Contents.ListTags)
			r.Get("/contents/", d.Contents.ListContents)
			r.Get("/contents/{slug}/", d.Contents.GetContent)
			r.Get("/contents/{slug}/qr/", d.Contents.QRCode)
			r.Get("/sidebar/", d.Contents.Sidebar)

			// Member actions.
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAuth)
				r.Post("/contents/{slug}/favorite/", d.Contents.ToggleFavorite)
				r.Get("/favorites/", d.Contents.ListFavorites)
			})

			// Content management.
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAuth, middleware.RequireAdmin)
				r.Post("/contents/", d.Contents.CreateContent)
				r.Put("/contents/{slug}/", d.Contents.UpdateContent)
				r.Delete("/contents/{slug}/", d.Contents.DeleteContent)
				r.Get("/contents/{slug}/versions/", d.Contents.ListVersions)
				r.Post("/upload/", d.Uploads.Thumbnail)
			})
		})

		r.Route("/accounts", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(authLimiter.Middleware)
				r.Post("/users/", d.Accounts.Register)
				r.Post("/login/", d.Accounts.Login)
			})

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAuth)
				r.Post("/logout/", d.Accounts.Logout)
				r.Get("/users/me/", d.Accounts.Me)
				r.Put("/users/{id}/", d.Accounts.UpdateProfile)
				r.Post("/users/change_password/", d.Accounts.ChangePassword)
				r.Delete("/users/me/", d.Accounts.Deactivate)
				r.Post("/profile-image/", d.Uploads.ProfileImage)
				r.Get("/mailing-preference/", d.Mailing.Status)
				r.Put("/mailing-preference/", d.Mailing.SetPreference)

				// 2FA sits behind RequireAuth but not RequireAdmin: the
				// token is not fully admin until verification completes.
				r.Post("/2fa/setup/", d.Accounts.Setup2FA)
				r.Post("/2fa/verify/", d.Accounts.Verify2FA)
			})

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAuth, middleware.RequireAdmin)
				r.Get("/statistics/", d.Statistics.Dashboard)
			})
		})

		r.Route("/auth", func(r chi.Router) {
			r.Get("/providers/", d.Social.Providers)

			r.Group(func(r chi.Router) {
				r.Use(authLimiter.Middleware)
				r.Post("/{provider}/", d.Social.Login)
			})

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAuth)
				r.Post("/complete-signup/", d.Accounts.CompleteSignup)
			})
		})

		r.Route("/boards", func(r chi.Router) {
			r.Get("/", d.Boards.ListBoards)
			r.Get("/{board}/posts/", d.Boards.ListPosts)
			r.Get("/posts/{id}/", d.Boards.GetPost)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAuth)
				r.Post("/{board}/posts/", d.Boards.CreatePost)
				r.Put("/posts/{id}/", d.Boards.UpdatePost)
				r.Delete("/posts/{id}/", d.Boards.DeletePost)
				r.Post("/posts/{id}/reply/", d.Boards.CreateReply)
				r.Delete("/posts/{id}/reply/{replyID}/", d.Boards.DeleteReply)
			})

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAuth, middleware.RequireAdmin)
				r.Post("/posts/{id}/status/", d.Boards.SetStatus)
			})
		})

		r.Route("/comments", func(r chi.Router) {
			r.Get("/", d.Comments.ListForContent)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAuth)
				r.Post("/", d.Comments.Create)
				r.Put("/{id}/", d.Comments.Update)
				r.Delete("/{id}/", d.Comments.Delete)
			})

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAuth, middleware.RequireAdmin)
				r.Post("/{id}/hide/", d.Comments.SetHidden)
			})
		})

		r.Route("/mailing", func(r chi.Router) {
			r.Post("/subscribe/", d.Mailing.Subscribe)
			r.Get("/unsubscribe/{token}/", d.Mailing.Unsubscribe)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAuth, middleware.RequireAdmin)
				r.Get("/subscriptions/", d.Mailing.ListSubscriptions)
				r.Post("/campaigns/", d.Mailing.CreateCampaign)
				r.Get("/campaigns/", d.Mailing.ListCampaigns)
				r.Post("/campaigns/{id}/send/", d.Mailing.SendCampaign)
				r.Get("/campaigns/{id}/logs/", d.Mailing.CampaignLogs)
			})
		})
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
