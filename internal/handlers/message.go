package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"promptclub-backend/internal/engine"
	"promptclub-backend/internal/hub"
	"promptclub-backend/internal/models"
)

func CreateMessage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := ctx.Value(UserIDKeyType{}).(int64)

	type AddMessageRequest struct {
		ChannelID int64  `json:"channelID,string"`
		Content   string `json:"content"`
	}

	var messageRequest AddMessageRequest
	err := json.NewDecoder(r.Body).Decode(&messageRequest)
	if err != nil {
		sugar.Debug(err)
		http.Error(w, "", http.StatusBadRequest)
		return
	}

	msg, err := eng.SendMessage(userID, messageRequest.ChannelID, messageRequest.Content)
	if err != nil {
		if errors.Is(err, engine.ErrMuted) {
			http.Error(w, "You are muted.", http.StatusForbidden)
			return
		}
		sugar.Error(err)
		http.Error(w, "", http.StatusInternalServerError)
		return
	}

	if err := json.NewEncoder(w).Encode(msg); err != nil {
		sugar.Error(err)
		http.Error(w, "", http.StatusInternalServerError)
	}
}

func GetMessageList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := ctx.Value(UserIDKeyType{}).(int64)
	sessionID := ctx.Value(SessionIDKeyType{}).(string)

	channelID, err := strconv.ParseInt(r.URL.Query().Get("channelID"), 10, 64)
	if err != nil || channelID == 0 {
		http.Error(w, "Invalid channel ID", http.StatusBadRequest)
		return
	}

	messages, err := eng.Messages(channelID)
	if err != nil {
		sugar.Error(err)
		http.Error(w, "", http.StatusInternalServerError)
		return
	}

	// deleted messages keep their record but only moderators see the content
	caller, err := eng.User(userID)
	if err != nil {
		sugar.Error(err)
		http.Error(w, "", http.StatusInternalServerError)
		return
	}
	if caller.Role != models.RoleAdmin && caller.Role != models.RoleMod {
		for i := range messages {
			if messages[i].IsDeleted {
				messages[i].Content = ""
			}
		}
	}

	if err := hub.Subscribe(hub.ScopeChannel, channelID, sessionID); err != nil {
		sugar.Error(err)
		http.Error(w, "", http.StatusInternalServerError)
		return
	}

	if err := json.NewEncoder(w).Encode(messages); err != nil {
		sugar.Error(err)
		http.Error(w, "", http.StatusInternalServerError)
	}
}

func DeleteMessage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := ctx.Value(UserIDKeyType{}).(int64)

	messageID, err := strconv.ParseInt(r.URL.Query().Get("messageID"), 10, 64)
	if err != nil || messageID == 0 {
		http.Error(w, "Invalid message ID", http.StatusBadRequest)
		return
	}

	warnIfNotAdmin(userID, "message/delete")

	if err := eng.DeleteMessage(messageID); err != nil {
		sugar.Error(err)
		http.Error(w, "", http.StatusInternalServerError)
	}
}
