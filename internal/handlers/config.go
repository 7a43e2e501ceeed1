package handlers

import (
	"encoding/json"
	"net/http"

	"promptclub-backend/internal/engine"
)

func GetConfig(w http.ResponseWriter, r *http.Request) {
	if err := json.NewEncoder(w).Encode(eng.Config()); err != nil {
		sugar.Error(err)
		http.Error(w, "", http.StatusInternalServerError)
	}
}

func UpdateConfig(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := ctx.Value(UserIDKeyType{}).(int64)

	var update engine.ConfigUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		sugar.Debug(err)
		http.Error(w, "", http.StatusBadRequest)
		return
	}

	warnIfNotAdmin(userID, "config/update")

	config := eng.UpdateConfig(update)

	if err := json.NewEncoder(w).Encode(config); err != nil {
		sugar.Error(err)
		http.Error(w, "", http.StatusInternalServerError)
	}
}
