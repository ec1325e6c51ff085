package api

import (
	"bytes"
	"errors"
	"net/http"
	"os"
	"path"
	"time"

	"github.com/starford/wizardlink/internal/storage"
)

// FileHandler serves published files below a storage root, the targets of
// "file:" links.
type FileHandler struct {
	store storage.Provider
}

// NewFileHandler creates a handler over store.
func NewFileHandler(store storage.Provider) *FileHandler {
	return &FileHandler{store: store}
}

// ServeFile handles GET <public base>/*.
func (h *FileHandler) ServeFile(w http.ResponseWriter, r *http.Request) {
	name := wildcardPath(r)
	if name == "" {
		http.NotFound(w, r)
		return
	}
	data, err := h.store.Read(name)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			http.NotFound(w, r)
		} else {
			http.Error(w, "invalid path", http.StatusBadRequest)
		}
		return
	}
	http.ServeContent(w, r, path.Base(name), time.Time{}, bytes.NewReader(data))
}
