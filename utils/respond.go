package utils

import (
	"encoding/json"
	"net/http"
)

// JSON writes payload as a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// OK writes a {success: true, ...} envelope. Extra fields are merged in.
func OK(w http.ResponseWriter, payload map[string]interface{}) {
	if payload == nil {
		payload = map[string]interface{}{}
	}
	payload["success"] = true
	JSON(w, http.StatusOK, payload)
}

// Fail writes a {success: false, message} envelope with the given status.
func Fail(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]interface{}{
		"success": false,
		"message": message,
	})
}
