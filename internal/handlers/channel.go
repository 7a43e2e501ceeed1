package handlers

import (
	"encoding/json"
	"net/http"
)

func CreateChannel(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := ctx.Value(UserIDKeyType{}).(int64)

	channelName := r.URL.Query().Get("name")
	if channelName == "" {
		channelName = "new-channel"
	}

	warnIfNotAdmin(userID, "channel/create")

	channel, err := eng.CreateChannel(channelName)
	if err != nil {
		sugar.Error(err)
		http.Error(w, "", http.StatusInternalServerError)
		return
	}

	if err := json.NewEncoder(w).Encode(channel); err != nil {
		sugar.Error(err)
		http.Error(w, "", http.StatusInternalServerError)
	}
}

func GetChannelList(w http.ResponseWriter, r *http.Request) {
	channels, err := eng.Channels()
	if err != nil {
		sugar.Error(err)
		http.Error(w, "", http.StatusInternalServerError)
		return
	}

	if err := json.NewEncoder(w).Encode(channels); err != nil {
		sugar.Error(err)
		http.Error(w, "", http.StatusInternalServerError)
	}
}
