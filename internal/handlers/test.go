package handlers

import (
	"fmt"
	"net/http"
)

func Test(w http.ResponseWriter, r *http.Request) {
	if _, err := fmt.Fprintln(w, "promptclub backend is running"); err != nil {
		sugar.Error(err)
	}
}
