package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewHandler(
	configHandler *ConfigHandler,
	electionHandler *ElectionHandler,
	memberHandler *MemberHandler,
	auth *AuthMiddleware,
	allowedOrigins []string,
) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(corsMiddleware(allowedOrigins))

	r.Route("/api", func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("welcome"))
		})

		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate)

			r.Route("/elections", func(r chi.Router) {
				r.Get("/", electionHandler.ListActive)
				r.Get("/voting/{configId}", electionHandler.VotingInterface)
				r.Get("/manage/{configId}", electionHandler.Dashboard)
				r.Get("/log/{configId}", electionHandler.ActionLog)
				r.Post("/vote", electionHandler.Vote)

				r.Post("/start", electionHandler.Start)
				r.Post("/advance-phase", electionHandler.AdvancePhase)
				r.Post("/advance-position", electionHandler.AdvancePosition)
				r.Post("/announce-result", electionHandler.AnnounceResult)
				r.Post("/reset-voting", electionHandler.ResetVoting)
				r.Post("/max-nominations", configHandler.SetMaxNominations)

				r.Route("/config", func(r chi.Router) {
					r.Post("/", configHandler.Create)
					r.Get("/{id}", configHandler.Get)
					r.Put("/{id}", configHandler.Update)
					r.Delete("/{id}", configHandler.Delete)
					r.Post("/{id}/toggle", electionHandler.ToggleConfigStatus)
					r.Post("/{id}/remove-candidate", configHandler.RemoveCandidate)
					r.Post("/{id}/restore-candidate", configHandler.RestoreCandidate)
				})
			})

			r.Route("/members", func(r chi.Router) {
				r.Get("/me", memberHandler.GetMe)
				r.Post("/approve-all", memberHandler.ApproveAll)
			})
		})
	})

	return r
}

func corsMiddleware(allowedOrigins []string) func(http.Handler) http.Handler {
	allowed := make(map[string]bool, len(allowedOrigins))
	wildcard := false
	for _, o := range allowedOrigins {
		if o == "*" {
			wildcard = true
		}
		allowed[o] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin != "" && (wildcard || allowed[origin]) {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Credentials", "true")
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			}
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
