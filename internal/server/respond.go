package server

import (
	"encoding/json"
	"net/http"
)

// envelope is the common shape of API responses. Payload keys are
// merged in next to the success flag.
type envelope map[string]any

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// respondSuccess writes a 200 with "success": true merged into the
// payload.
func respondSuccess(w http.ResponseWriter, payload envelope) {
	body := envelope{"success": true}
	for k, v := range payload {
		body[k] = v
	}
	writeJSON(w, http.StatusOK, body)
}

// respondError writes a failure envelope with the given status.
func respondError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, envelope{"error": msg})
}

// respondReauth writes the 403 envelope that tells the frontend to
// restart the Google consent flow.
func respondReauth(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusForbidden, envelope{"error": msg, "needs_reauth": true})
}

// decodeBody decodes a JSON request body into dst, answering 400 on
// malformed input.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}
