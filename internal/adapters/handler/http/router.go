package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewHandler(
	pollHandler *PollHandler,
	voteHandler *VoteHandler,
	resultsHandler *ResultsHandler,
	authHandler *AuthHandler,
	adminHandler *AdminHandler,
	allowedOrigins []string,
) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(CORS(allowedOrigins))

	r.Route("/api", func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("welcome"))
		})

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", authHandler.Login)
			r.Post("/refresh", authHandler.Refresh)
			r.Post("/logout", authHandler.Logout)
		})

		r.Group(func(r chi.Router) {
			r.Use(AuthMiddleware)
			r.Get("/me", adminHandler.GetMe)
		})

		r.Route("/polls", func(r chi.Router) {
			r.Get("/", pollHandler.ListPolls)
			r.Get("/{id}", pollHandler.GetPoll)
			r.Get("/{id}/results", resultsHandler.GetResults)
			r.Post("/{id}/votes", voteHandler.VoteOnPoll)

			r.Group(func(r chi.Router) {
				r.Use(AuthMiddleware)
				r.Post("/", pollHandler.CreatePoll)
				r.Post("/{id}/activate", pollHandler.ActivatePoll)
				r.Post("/{id}/extend", pollHandler.ExtendPoll)
				r.Post("/{id}/close", pollHandler.ClosePoll)
				r.Delete("/{id}", pollHandler.DeletePoll)
				r.Patch("/{id}/settings", pollHandler.UpdateSettings)
			})
		})
	})

	return r
}
