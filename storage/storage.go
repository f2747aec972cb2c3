// Package storage abstracts where media files live. Each configured media
// root (images, audio) is backed either by a directory on disk or by an S3
// bucket; callers address files by a name relative to the root.
package storage

import (
	"io"
	"net/http"
	"strings"
	"time"
)

type API interface {
	// GetFullPath returns a local filesystem path for the given file. For S3
	// this is a temporary local location, see EnsureLocalFile.
	GetFullPath(path string) string
	Save(path string, reader io.Reader) (int64, error)
	Load(path string, writer io.Writer) (int64, error)
	Delete(path string) error
	// ListMatching returns the names (relative to the root) of all files
	// whose name starts with the given prefix.
	ListMatching(prefix string) ([]string, error)
	// ModTime returns the file's last modification time
	ModTime(path string) (time.Time, error)
	Serve(path string, request *http.Request, writer http.ResponseWriter)
	GetFreeSpace() uint64
}

var (
	imageStorage API
	audioStorage API
)

// Init prepares the two media roots. Must be called before Images/Audio.
func Init(imagesRoot, audioRoot string) {
	imageStorage = FromRoot(imagesRoot)
	audioStorage = FromRoot(audioRoot)
}

func Images() API {
	if imageStorage == nil {
		panic("storage not initialised")
	}
	return imageStorage
}

func Audio() API {
	if audioStorage == nil {
		panic("storage not initialised")
	}
	return audioStorage
}

// FromRoot selects a backend from the root value: "s3://bucket/prefix" is an
// S3 bucket, anything else a local directory.
func FromRoot(root string) API {
	if strings.HasPrefix(root, "s3://") {
		return NewS3Storage(strings.TrimPrefix(root, "s3://"))
	}
	return NewDiskStorage(root)
}
