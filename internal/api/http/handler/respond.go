package handler

import (
	"encoding/json"
	"net/http"

	"github.com/equiptrack/equiptrack-server/internal/model"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError renders a taxonomy error: the status comes from the error
// itself, the body carries message, code and details.
func WriteError(w http.ResponseWriter, err *model.Error) {
	writeJSON(w, err.StatusCode, err)
}

// respond maps a Result onto the response: the designated success
// status with the value, or the failure's own status and body.
func respond[T any](w http.ResponseWriter, successStatus int, result model.Result[T]) {
	if !result.IsOk() {
		WriteError(w, result.Err())
		return
	}
	writeJSON(w, successStatus, result.Value())
}
