package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/janwilmake/cloudflare-fs/pkg/vfs/fserrors"
)

// response is the JSON envelope shared by all handler responses.
// It mirrors the top-level api.Response wrapper; handlers keep their own
// copy so the package has no dependency back on the router.
type response struct {
	Status    string      `json:"status"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data,omitempty"`
	Error     string      `json:"error,omitempty"`
	Kind      string      `json:"kind,omitempty"`
}

func okResponse(data interface{}) response {
	return response{Status: "ok", Timestamp: time.Now().UTC(), Data: data}
}

func errorResponse(errMsg string) response {
	return response{Status: "error", Timestamp: time.Now().UTC(), Error: errMsg}
}

func healthyResponse(data interface{}) response {
	return response{Status: "healthy", Timestamp: time.Now().UTC(), Data: data}
}

func unhealthyResponse(errMsg string, data interface{}) response {
	return response{Status: "unhealthy", Timestamp: time.Now().UTC(), Data: data, Error: errMsg}
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, resp response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		http.Error(w, `{"status":"error","error":"failed to encode response"}`, http.StatusInternalServerError)
	}
}

// writeOperationError writes a filesystem operation error, mapping the
// error kind onto an HTTP status code.
func writeOperationError(w http.ResponseWriter, err error) {
	resp := errorResponse(err.Error())
	if code := fserrors.CodeOf(err); code != 0 {
		resp.Kind = code.String()
	}
	writeJSON(w, statusForError(err), resp)
}

// statusForError maps a filesystem error onto an HTTP status code.
func statusForError(err error) int {
	switch fserrors.CodeOf(err) {
	case fserrors.ErrNotFound, fserrors.ErrParentMissing:
		return http.StatusNotFound
	case fserrors.ErrAlreadyExists, fserrors.ErrNotEmpty,
		fserrors.ErrNotAFile, fserrors.ErrNotADirectory:
		return http.StatusConflict
	case fserrors.ErrRecursionRequired, fserrors.ErrUnsupportedDataType:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// decodeJSONBody decodes a JSON request body into the provided pointer.
// Returns true if successful, false if decoding fails (error response is
// written automatically). Oversized bodies rejected by the server's body
// limit surface here as decode errors.
func decodeJSONBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid request body"))
		return false
	}
	return true
}

// requirePathParam extracts the "path" query parameter.
// Writes a 400 response when the parameter is missing.
func requirePathParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	path := r.URL.Query().Get("path")
	if path == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse("missing required query parameter: path"))
		return "", false
	}
	return path, true
}

// boolParam reads a boolean query parameter, treating "true" and "1" as true.
func boolParam(r *http.Request, name string) bool {
	v := r.URL.Query().Get(name)
	return v == "true" || v == "1"
}
