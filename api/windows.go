package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"acrn-configurator/history"
	"acrn-configurator/window"
)

func (h *handler) listWindows(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.windows.List())
}

func (h *handler) openWindow(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusCreated, h.windows.Create())
}

func (h *handler) closeWindow(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.windows.Close(id); err != nil {
		if errors.Is(err, window.ErrNotFound) {
			writeError(w, http.StatusNotFound, "window not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// lookupWindow resolves {id} or writes a 404.
func (h *handler) lookupWindow(w http.ResponseWriter, r *http.Request) (*window.Window, bool) {
	win, ok := h.windows.Get(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "window not found")
	}
	return win, ok
}

func (h *handler) setWorkingFolder(w http.ResponseWriter, r *http.Request) {
	win, ok := h.lookupWindow(w, r)
	if !ok {
		return
	}
	var req struct {
		Path string `json:"path"`
	}
	if err := h.decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	win.SetWorkingFolder(req.Path)
	w.WriteHeader(http.StatusNoContent)
}

type boardRequest struct {
	Name string `json:"name" validate:"required,excludesall=/\\"`
	XML  string `json:"xml"`
}

func (h *handler) writeBoard(w http.ResponseWriter, r *http.Request) {
	win, ok := h.lookupWindow(w, r)
	if !ok {
		return
	}
	var req boardRequest
	if err := h.decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	folder := win.WorkingFolder()
	if err := history.WriteBoard(h.fs, folder, req.Name, req.XML); err != nil {
		if errors.Is(err, history.ErrNoWorkingFolder) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.log.Warnw("write board failed", "folder", folder, "board", req.Name, "err", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
