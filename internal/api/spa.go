package api

import (
	"net/http"
	"os"
)

// spaFileSystem implements http.FileSystem with SPA routing: paths that
// don't exist in the bundle fall back to index.html so client-side routes
// survive a hard reload.
type spaFileSystem struct {
	root http.FileSystem
}

// Open opens the named file, falling back to index.html when it is missing.
func (s *spaFileSystem) Open(name string) (http.File, error) {
	f, err := s.root.Open(name)
	if os.IsNotExist(err) {
		return s.root.Open("index.html")
	}
	if err != nil {
		return nil, err
	}
	return f, nil
}
