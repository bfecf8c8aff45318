package handlers

import (
	"net/http"

	"github.com/janwilmake/cloudflare-fs/pkg/vfs"
)

// FSHandler exposes the filesystem operations over HTTP.
//
// All endpoints operate on absolute paths passed either in the JSON body
// (mutations) or the "path" query parameter (reads and deletes). Paths are
// normalized by the filesystem itself, so clients may send trailing
// slashes or "." segments.
type FSHandler struct {
	fs *vfs.FS
}

// NewFSHandler creates a new filesystem handler.
func NewFSHandler(fs *vfs.FS) *FSHandler {
	return &FSHandler{fs: fs}
}

// MkdirRequest is the body of POST /v1/directories.
type MkdirRequest struct {
	Path      string `json:"path"`
	Recursive bool   `json:"recursive,omitempty"`
	Mode      uint32 `json:"mode,omitempty"`
}

// WriteFileRequest is the body of PUT /v1/files.
type WriteFileRequest struct {
	Path     string `json:"path"`
	Data     string `json:"data"`
	Encoding string `json:"encoding,omitempty"`
	Mode     uint32 `json:"mode,omitempty"`
}

// CopyRequest is the body of POST /v1/copy.
type CopyRequest struct {
	Source      string `json:"source"`
	Destination string `json:"destination"`
	Recursive   bool   `json:"recursive,omitempty"`
	Force       bool   `json:"force,omitempty"`
}

// RenameRequest is the body of POST /v1/rename.
type RenameRequest struct {
	Source      string `json:"source"`
	Destination string `json:"destination"`
}

// FileResponse is the payload returned by GET /v1/files.
type FileResponse struct {
	Path     string `json:"path"`
	Encoding string `json:"encoding"`
	Data     string `json:"data"`
}

// Mkdir handles POST /v1/directories.
//
// Creates a directory, optionally with missing ancestors. The response
// carries the shallowest directory that was actually created, or "" when
// the directory already existed with recursive set.
func (h *FSHandler) Mkdir(w http.ResponseWriter, r *http.Request) {
	var req MkdirRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if req.Path == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse("missing required field: path"))
		return
	}

	created, err := h.fs.Mkdir(r.Context(), req.Path, vfs.MkdirOptions{
		Recursive: req.Recursive,
		Mode:      req.Mode,
	})
	if err != nil {
		writeOperationError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, okResponse(map[string]string{"created": created}))
}

// ReadDir handles GET /v1/directories.
//
// Lists the direct children of the directory named by the "path" query
// parameter, sorted by name.
func (h *FSHandler) ReadDir(w http.ResponseWriter, r *http.Request) {
	path, ok := requirePathParam(w, r)
	if !ok {
		return
	}

	entries, err := h.fs.ReadDir(r.Context(), path)
	if err != nil {
		writeOperationError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, okResponse(map[string]interface{}{
		"path":    path,
		"entries": entries,
	}))
}

// Stat handles GET /v1/stat.
func (h *FSHandler) Stat(w http.ResponseWriter, r *http.Request) {
	path, ok := requirePathParam(w, r)
	if !ok {
		return
	}

	info, err := h.fs.Stat(r.Context(), path)
	if err != nil {
		writeOperationError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, okResponse(info))
}

// ReadFile handles GET /v1/files.
//
// Returns the file content encoded per the "encoding" query parameter
// ("utf8" by default, "base64" or "hex" for binary content). With
// raw=true the bytes are served directly as application/octet-stream
// instead of the JSON envelope.
func (h *FSHandler) ReadFile(w http.ResponseWriter, r *http.Request) {
	path, ok := requirePathParam(w, r)
	if !ok {
		return
	}

	if boolParam(r, "raw") {
		data, err := h.fs.ReadFile(r.Context(), path)
		if err != nil {
			writeOperationError(w, err)
			return
		}
		w.Header().Set("Content-Type", "application/octet-stream")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
		return
	}

	encoding := r.URL.Query().Get("encoding")
	if encoding == "" {
		encoding = "utf8"
	}

	data, err := h.fs.ReadFileString(r.Context(), path, encoding)
	if err != nil {
		writeOperationError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, okResponse(FileResponse{
		Path:     path,
		Encoding: encoding,
		Data:     data,
	}))
}

// WriteFile handles PUT /v1/files.
//
// Creates or overwrites the file at the given path. The payload string is
// decoded per the request encoding before being stored.
func (h *FSHandler) WriteFile(w http.ResponseWriter, r *http.Request) {
	var req WriteFileRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if req.Path == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse("missing required field: path"))
		return
	}

	err := h.fs.WriteFileString(r.Context(), req.Path, req.Data, vfs.WriteOptions{
		Encoding: req.Encoding,
		Mode:     req.Mode,
	})
	if err != nil {
		writeOperationError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, okResponse(map[string]string{"path": req.Path}))
}

// Copy handles POST /v1/copy.
//
// Copies a file, or a directory tree with recursive set. Without force an
// existing destination file fails the copy.
func (h *FSHandler) Copy(w http.ResponseWriter, r *http.Request) {
	var req CopyRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if req.Source == "" || req.Destination == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse("missing required fields: source, destination"))
		return
	}

	err := h.fs.Cp(r.Context(), req.Source, req.Destination, vfs.CpOptions{
		Recursive: req.Recursive,
		Force:     req.Force,
	})
	if err != nil {
		writeOperationError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, okResponse(map[string]string{
		"source":      req.Source,
		"destination": req.Destination,
	}))
}

// Rename handles POST /v1/rename.
func (h *FSHandler) Rename(w http.ResponseWriter, r *http.Request) {
	var req RenameRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if req.Source == "" || req.Destination == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse("missing required fields: source, destination"))
		return
	}

	if err := h.fs.Rename(r.Context(), req.Source, req.Destination); err != nil {
		writeOperationError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, okResponse(map[string]string{
		"source":      req.Source,
		"destination": req.Destination,
	}))
}

// Remove handles DELETE /v1/entries.
//
// Removes the entry named by the "path" query parameter. Non-empty
// directories need recursive=true; force=true turns a missing path into
// a silent success.
func (h *FSHandler) Remove(w http.ResponseWriter, r *http.Request) {
	path, ok := requirePathParam(w, r)
	if !ok {
		return
	}

	err := h.fs.Rm(r.Context(), path, vfs.RmOptions{
		Recursive: boolParam(r, "recursive"),
		Force:     boolParam(r, "force"),
	})
	if err != nil {
		writeOperationError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, okResponse(map[string]string{"path": path}))
}
