package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"acrn-configurator/history"
	"acrn-configurator/window"
)

func (h *handler) parseKind(w http.ResponseWriter, r *http.Request) (history.Kind, bool) {
	k, err := history.ParseKind(chi.URLParam(r, "kind"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return 0, false
	}
	return k, true
}

// getHistory returns only entries that still exist on disk.
func (h *handler) getHistory(w http.ResponseWriter, r *http.Request) {
	k, ok := h.parseKind(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, h.store.Existing(k))
}

func (h *handler) addHistory(w http.ResponseWriter, r *http.Request) {
	k, ok := h.parseKind(w, r)
	if !ok {
		return
	}
	var req struct {
		Path string `json:"path" validate:"required"`
	}
	if err := h.decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !h.files.IsDir(req.Path) && !h.files.IsFile(req.Path) {
		writeError(w, http.StatusBadRequest, "Not a validate dir or file path.")
		return
	}
	if err := h.store.Add(k, req.Path); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.windows.Broadcast(window.Event{Type: "history", Kind: k})
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) forceReset(w http.ResponseWriter, r *http.Request) {
	h.store.Reset()
	h.windows.Broadcast(window.Event{Type: "reset"})
	w.WriteHeader(http.StatusNoContent)
}
