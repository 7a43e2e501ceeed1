package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"promptclub-backend/internal/jwt"
)

func Login(w http.ResponseWriter, r *http.Request) {
	type LoginRequest struct {
		DisplayName string `json:"displayName" validate:"required,min=2,max=32"`
	}

	var login LoginRequest
	err := json.NewDecoder(r.Body).Decode(&login)
	if err != nil {
		sugar.Debug(err)
		http.Error(w, "", http.StatusBadRequest)
		return
	}

	err = validate.Struct(login)
	if err != nil {
		var validateErrs validator.ValidationErrors
		if errors.As(err, &validateErrs) {
			loginErrors := make(map[string]string)
			for _, e := range validateErrs {
				loginErrors[e.Field()] = e.Tag()
			}

			w.WriteHeader(http.StatusBadRequest)
			if encodeErr := json.NewEncoder(w).Encode(loginErrors); encodeErr != nil {
				sugar.Error(encodeErr)
			}
			return
		}
		sugar.Error(err)
		http.Error(w, "", http.StatusInternalServerError)
		return
	}

	user, err := eng.Login(login.DisplayName)
	if err != nil {
		sugar.Error(err)
		http.Error(w, "", http.StatusInternalServerError)
		return
	}

	cookie, err := jwt.CreateToken(user.ID)
	if err != nil {
		sugar.Error(err)
		http.Error(w, "", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &cookie)

	if err := json.NewEncoder(w).Encode(user); err != nil {
		sugar.Error(err)
		http.Error(w, "", http.StatusInternalServerError)
		return
	}
}

func Logout(w http.ResponseWriter, r *http.Request) {
	cookie := jwt.DeleteCookie()
	http.SetCookie(w, &cookie)
}

func NewSession(w http.ResponseWriter, r *http.Request) {
	sessionID, err := uuid.NewV7()
	if err != nil {
		sugar.Error(err)
		http.Error(w, "", http.StatusInternalServerError)
		return
	}

	sessionCookie := http.Cookie{
		Name:     "session",
		Value:    sessionID.String(),
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	}
	http.SetCookie(w, &sessionCookie)
}
