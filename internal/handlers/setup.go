package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"promptclub-backend/internal/engine"
	"promptclub-backend/internal/models"
)

var sugar *zap.SugaredLogger
var eng *engine.Engine
var validate = validator.New()

func Setup(isHttps bool, cfg *models.ConfigFile, _sugar *zap.SugaredLogger, _eng *engine.Engine) error {
	sugar = _sugar
	eng = _eng

	r := chi.NewRouter()

	if cfg.PrintHttpRequests {
		r.Use(middleware.Logger)
	}
	if cfg.Cors {
		r.Use(AllowCors)
	}

	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Route("/api", func(api chi.Router) {
		api.Get("/test", Test)

		api.Route("/auth", func(r chi.Router) {
			r.Post("/login", Login)
			r.Get("/logout", Logout)
			r.With(UserVerifier).Get("/newSession", NewSession)
			r.With(UserVerifier).Get("/isLoggedIn", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
		})

		api.Route("/user", func(r chi.Router) {
			r.Use(UserVerifier)
			r.Get("/fetch", GetUserList)
			r.Post("/update", UpdateUser)
			r.Post("/mute", MuteUser)
			r.Post("/unmute", UnmuteUser)
		})

		api.Route("/channel", func(r chi.Router) {
			r.Use(UserVerifier)
			r.Post("/create", CreateChannel)
			r.Get("/fetch", GetChannelList)
		})

		api.Route("/message", func(r chi.Router) {
			r.Use(UserVerifier)
			r.Post("/create", CreateMessage)
			r.With(SessionVerifier).Get("/fetch", GetMessageList)
			r.Post("/delete", DeleteMessage)
		})

		api.Route("/config", func(r chi.Router) {
			r.Use(UserVerifier)
			r.Get("/fetch", GetConfig)
			r.Post("/update", UpdateConfig)
		})
	})

	r.With(UserVerifier).Get("/ws", HandleWebSocket)

	address := fmt.Sprintf("%s:%s", cfg.Address, cfg.Port)

	if isHttps {
		return http.ListenAndServeTLS(address, cfg.TlsCert, cfg.TlsKey, r)
	}
	return http.ListenAndServe(address, r)
}
