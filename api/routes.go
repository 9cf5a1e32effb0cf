package api

import (
	"encoding/json"
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/afero"
	"go.uber.org/zap"

	"acrn-configurator/fsops"
	"acrn-configurator/history"
	"acrn-configurator/window"
)

// Deps are the collaborators the command surface delegates to.
type Deps struct {
	Windows *window.Manager
	Store   *history.Store
	FS      afero.Fs
	Log     *zap.SugaredLogger
}

func RegisterRoutes(d Deps, staticFS fs.FS) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	h := &handler{
		windows:  d.Windows,
		store:    d.Store,
		fs:       d.FS,
		files:    fsops.New(d.FS),
		log:      d.Log,
		validate: validator.New(),
	}

	// Windows
	r.Get("/api/windows", h.listWindows)
	r.Post("/api/windows", h.openWindow)
	r.Delete("/api/windows/{id}", h.closeWindow)
	r.Put("/api/windows/{id}/working-folder", h.setWorkingFolder)
	r.Post("/api/windows/{id}/board", h.writeBoard)
	r.Get("/api/windows/{id}/ws", h.handleWS)

	// History
	r.Post("/api/history/reset", h.forceReset)
	r.Get("/api/history/{kind}", h.getHistory)
	r.Post("/api/history/{kind}", h.addHistory)

	// Filesystem passthroughs
	r.Get("/api/home", h.getHome)
	r.Get("/api/fs/file", h.readFile)
	r.Put("/api/fs/file", h.writeFile)
	r.Delete("/api/fs/file", h.removeFile)
	r.Get("/api/fs/is-file", h.isFile)
	r.Get("/api/fs/is-dir", h.isDir)
	r.Get("/api/fs/dir", h.readDir)
	r.Post("/api/fs/dir", h.createDir)
	r.Delete("/api/fs/dir", h.removeDir)
	r.Post("/api/fs/rename", h.rename)

	// Static sub-FS: strip the "static/" prefix present in the embed.FS.
	// A FS already rooted at the frontend has no static/ directory, so probe
	// index.html to detect that case.
	staticSub, err := fs.Sub(staticFS, "static")
	if err != nil {
		staticSub = staticFS
	} else if _, statErr := fs.Stat(staticSub, "index.html"); statErr != nil {
		staticSub = staticFS
	}

	// Using http.FileServer for "/" would redirect index.html to "./".
	r.Get("/", serveFile(staticSub, "index.html"))

	fileServer := http.FileServer(http.FS(staticSub))
	r.Get("/assets/*", fileServer.ServeHTTP)

	return r
}

// serveFile returns a handler that reads a single file from fsys and sends it.
func serveFile(fsys fs.FS, name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			writeError(w, http.StatusNotFound, "not found")
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(content)
	}
}

type handler struct {
	windows  *window.Manager
	store    *history.Store
	fs       afero.Fs
	files    *fsops.FS
	log      *zap.SugaredLogger
	validate *validator.Validate
}

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError sends msg as the error text the frontend shows to the user.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}

// decode reads a JSON body into v and runs its validate tags.
func (h *handler) decode(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return err
	}
	return h.validate.Struct(v)
}
