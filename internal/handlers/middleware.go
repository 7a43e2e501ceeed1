package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"promptclub-backend/internal/hub"
	"promptclub-backend/internal/jwt"
	"promptclub-backend/internal/keyValue"
	"promptclub-backend/internal/models"
)

type UserIDKeyType struct{}
type SessionIDKeyType struct{}

func AllowCors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Allow-Credentials", "true")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func UserVerifier(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		jwtCookie, err := r.Cookie("JWT")
		if err != nil {
			sugar.Debug(err)
			switch {
			case errors.Is(err, http.ErrNoCookie):
				http.Error(w, "No jwt cookie was provided", http.StatusUnauthorized)
			default:
				http.Error(w, "Couldn't read jwt cookie", http.StatusInternalServerError)
			}
			return
		}

		userToken, err := jwt.VerifyToken(jwtCookie.Value)
		if err != nil {
			sugar.Debug(err)
			http.Error(w, "Couldn't verify JWT", http.StatusBadRequest)
			return
		}

		if time.Now().UTC().After(userToken.ExpiresAt.UTC()) {
			http.Error(w, "Login expired", http.StatusUnauthorized)
			return
		}

		// check if user exists, with a short cache in front of the engine
		key := fmt.Sprintf("user_exists:%d", userToken.UserID)

		userFound := false

		value, err := keyValue.Get(key)
		if err != nil {
			sugar.Error(err)
			http.Error(w, "", http.StatusInternalServerError)
			return
		}

		if value == "" {
			if _, userErr := eng.User(userToken.UserID); userErr == nil {
				userFound = true
				if err := keyValue.Set(key, "y", 15*time.Minute); err != nil {
					sugar.Error(err)
					http.Error(w, "", http.StatusInternalServerError)
					return
				}
			}
		} else {
			userFound = true
		}

		if !userFound {
			http.SetCookie(w, deleteCookiePtr())
			http.Error(w, "", http.StatusUnauthorized)
			return
		}

		// renew the cookie when it has aged
		if time.Now().UTC().Sub(userToken.IssuedAt.Time) >= 15*time.Minute {
			updatedCookie, err := jwt.CreateToken(userToken.UserID)
			if err != nil {
				sugar.Error(err)
				http.Error(w, "Couldn't renew cookie", http.StatusInternalServerError)
				return
			}
			http.SetCookie(w, &updatedCookie)
		}

		ctx := context.WithValue(r.Context(), UserIDKeyType{}, userToken.UserID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func SessionVerifier(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sessionCookie, err := r.Cookie("session")
		if err != nil {
			sugar.Debug(err)
			switch {
			case errors.Is(err, http.ErrNoCookie):
				http.Error(w, "No session cookie was provided", http.StatusUnauthorized)
			default:
				http.Error(w, "Couldn't read session cookie", http.StatusInternalServerError)
			}
			return
		}

		if _, exists := hub.GetClient(sessionCookie.Value); !exists {
			http.Error(w, "You are not connected to websocket", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), SessionIDKeyType{}, sessionCookie.Value)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func deleteCookiePtr() *http.Cookie {
	cookie := jwt.DeleteCookie()
	return &cookie
}

// warnIfNotAdmin logs moderation calls from non-admin users. Authorization
// is advisory at this boundary; the engine executes regardless.
func warnIfNotAdmin(userID int64, action string) {
	user, err := eng.User(userID)
	if err != nil {
		sugar.Error(err)
		return
	}
	if user.Role != models.RoleAdmin {
		sugar.Warnf("User ID [%d] with role [%s] called admin action [%s]", userID, user.Role, action)
	}
}
