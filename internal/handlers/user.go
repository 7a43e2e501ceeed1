package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"promptclub-backend/internal/engine"
)

func GetUserList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := ctx.Value(UserIDKeyType{}).(int64)

	paramUserID := r.URL.Query().Get("userID")
	if paramUserID == "" {
		users, err := eng.Users()
		if err != nil {
			sugar.Error(err)
			http.Error(w, "", http.StatusInternalServerError)
			return
		}

		if err := json.NewEncoder(w).Encode(users); err != nil {
			sugar.Error(err)
			http.Error(w, "", http.StatusInternalServerError)
		}
		return
	}

	requestedUserID := userID
	if paramUserID != "self" {
		var err error
		requestedUserID, err = strconv.ParseInt(paramUserID, 10, 64)
		if err != nil {
			http.Error(w, "", http.StatusBadRequest)
			return
		}
	}

	user, err := eng.User(requestedUserID)
	if err != nil {
		sugar.Debug(err)
		http.Error(w, "", http.StatusNotFound)
		return
	}

	if err := json.NewEncoder(w).Encode(user); err != nil {
		sugar.Error(err)
		http.Error(w, "", http.StatusInternalServerError)
	}
}

func UpdateUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := ctx.Value(UserIDKeyType{}).(int64)

	type UpdateUserRequest struct {
		UserID int64 `json:"userID,string"`
		engine.UserUpdate
	}

	var request UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		sugar.Debug(err)
		http.Error(w, "", http.StatusBadRequest)
		return
	}

	target := request.UserID
	if target == 0 {
		target = userID
	}
	if target != userID {
		warnIfNotAdmin(userID, "user/update")
	}

	user, err := eng.UpdateUser(target, request.UserUpdate)
	if err != nil {
		sugar.Error(err)
		http.Error(w, "", http.StatusInternalServerError)
		return
	}

	if err := json.NewEncoder(w).Encode(user); err != nil {
		sugar.Error(err)
		http.Error(w, "", http.StatusInternalServerError)
	}
}

func MuteUser(w http.ResponseWriter, r *http.Request) {
	muteHandler(w, r, true)
}

func UnmuteUser(w http.ResponseWriter, r *http.Request) {
	muteHandler(w, r, false)
}

func muteHandler(w http.ResponseWriter, r *http.Request, mute bool) {
	ctx := r.Context()
	userID := ctx.Value(UserIDKeyType{}).(int64)

	targetID, err := strconv.ParseInt(r.URL.Query().Get("userID"), 10, 64)
	if err != nil || targetID == 0 {
		http.Error(w, "Invalid user ID", http.StatusBadRequest)
		return
	}

	action := "user/unmute"
	if mute {
		action = "user/mute"
	}
	warnIfNotAdmin(userID, action)

	var user any
	if mute {
		user, err = eng.Mute(targetID)
	} else {
		user, err = eng.Unmute(targetID)
	}
	if err != nil {
		sugar.Error(err)
		http.Error(w, "", http.StatusInternalServerError)
		return
	}

	if err := json.NewEncoder(w).Encode(user); err != nil {
		sugar.Error(err)
		http.Error(w, "", http.StatusInternalServerError)
	}
}
