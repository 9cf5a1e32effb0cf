package api

import (
	"net/http"
	"strconv"

	"acrn-configurator/fsops"
)

// Filesystem passthroughs report the OS error text unchanged.

func pathParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	p := r.URL.Query().Get("path")
	if p == "" {
		writeError(w, http.StatusBadRequest, "missing path")
	}
	return p, p != ""
}

func recursiveParam(r *http.Request) bool {
	v, _ := strconv.ParseBool(r.URL.Query().Get("recursive"))
	return v
}

func (h *handler) getHome(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, fsops.Home())
}

func (h *handler) readFile(w http.ResponseWriter, r *http.Request) {
	p, ok := pathParam(w, r)
	if !ok {
		return
	}
	contents, err := h.files.Read(p)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, contents)
}

func (h *handler) writeFile(w http.ResponseWriter, r *http.Request) {
	p, ok := pathParam(w, r)
	if !ok {
		return
	}
	var req struct {
		Contents string `json:"contents"`
	}
	if err := h.decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.files.Write(p, req.Contents); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) removeFile(w http.ResponseWriter, r *http.Request) {
	h.pathOp(w, r, h.files.RemoveFile)
}

func (h *handler) removeDir(w http.ResponseWriter, r *http.Request) {
	h.pathOp(w, r, h.files.RemoveDir)
}

func (h *handler) createDir(w http.ResponseWriter, r *http.Request) {
	recursive := recursiveParam(r)
	h.pathOp(w, r, func(p string) error { return h.files.CreateDir(p, recursive) })
}

func (h *handler) pathOp(w http.ResponseWriter, r *http.Request, op func(string) error) {
	p, ok := pathParam(w, r)
	if !ok {
		return
	}
	if err := op(p); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) isFile(w http.ResponseWriter, r *http.Request) {
	p, ok := pathParam(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, h.files.IsFile(p))
}

func (h *handler) isDir(w http.ResponseWriter, r *http.Request) {
	p, ok := pathParam(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, h.files.IsDir(p))
}

func (h *handler) readDir(w http.ResponseWriter, r *http.Request) {
	p, ok := pathParam(w, r)
	if !ok {
		return
	}
	entries, err := h.files.ReadDir(p, recursiveParam(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (h *handler) rename(w http.ResponseWriter, r *http.Request) {
	var req struct {
		From string `json:"from" validate:"required"`
		To   string `json:"to" validate:"required"`
	}
	if err := h.decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.files.Rename(req.From, req.To); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
