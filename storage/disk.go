package storage

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"sync"
)

// DiskHost keeps images on a local drive, they are served by the router under /media/
type DiskHost struct {
	// BasePath is a directory that is writable by the current process
	BasePath   string
	BaseURL    string
	dirCreated bool
	dirMutex   sync.Mutex
}

func NewDiskHost(basePath, baseURL string) *DiskHost {
	return &DiskHost{
		BasePath: basePath,
		BaseURL:  baseURL,
	}
}

func (s *DiskHost) createDir() error {
	s.dirMutex.Lock()
	defer s.dirMutex.Unlock()

	if s.dirCreated {
		return nil
	}
	if err := os.MkdirAll(s.BasePath, 0777); err != nil {
		return err
	}
	s.dirCreated = true
	return nil
}

// getFullPath never leaves BasePath, only the last element of name is used
func (s *DiskHost) getFullPath(name string) string {
	return filepath.Join(s.BasePath, filepath.Base(name))
}

func (s *DiskHost) Upload(ctx context.Context, name, contentType string, reader io.Reader) (Uploaded, error) {
	if err := s.createDir(); err != nil {
		return Uploaded{}, err
	}
	fileName := objectName(name, contentType)
	file, err := os.Create(s.getFullPath(fileName))
	if err != nil {
		return Uploaded{}, err
	}
	_, err = io.Copy(file, reader)
	file.Close()
	if err != nil {
		_ = os.Remove(s.getFullPath(fileName))
		return Uploaded{}, err
	}
	return Uploaded{URL: s.BaseURL + "/" + fileName, DeleteURL: fileName}, nil
}

// Delete removes the file, deleting a missing file is not an error
func (s *DiskHost) Delete(ctx context.Context, deleteRef string) error {
	err := os.Remove(s.getFullPath(deleteRef))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

func (s *DiskHost) Serve(name string, request *http.Request, writer http.ResponseWriter) {
	http.ServeFile(writer, request, s.getFullPath(name))
}
