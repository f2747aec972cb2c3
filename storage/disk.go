package storage

import (
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sys/unix"
)

type DiskStorage struct {
	// BasePath is a directory that is writable by the current process
	BasePath string
}

func NewDiskStorage(basePath string) API {
	if err := os.MkdirAll(basePath, 0777); err != nil {
		panic(err)
	}
	return &DiskStorage{BasePath: basePath}
}

func (s *DiskStorage) GetFullPath(path string) string {
	return filepath.Join(s.BasePath, path)
}

func (s *DiskStorage) Save(path string, reader io.Reader) (int64, error) {
	fileName := s.GetFullPath(path)
	file, err := os.Create(fileName)
	if err != nil {
		return 0, err
	}
	result, err := io.Copy(file, reader)
	file.Close()
	return result, err
}

func (s *DiskStorage) Load(path string, writer io.Writer) (int64, error) {
	file, err := os.Open(s.GetFullPath(path))
	if err != nil {
		return 0, err
	}
	result, err := io.Copy(writer, file)
	file.Close()
	return result, err
}

func (s *DiskStorage) Delete(path string) error {
	return os.Remove(s.GetFullPath(path))
}

func (s *DiskStorage) ListMatching(prefix string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(s.BasePath, prefix+"*"))
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(matches))
	base, _ := filepath.Abs(s.BasePath)
	for _, m := range matches {
		// Only files that really resolve inside the root
		full, err := filepath.Abs(m)
		if err != nil || !strings.HasPrefix(full, base+string(filepath.Separator)) {
			continue
		}
		names = append(names, filepath.Base(m))
	}
	return names, nil
}

func (s *DiskStorage) ModTime(path string) (time.Time, error) {
	info, err := os.Stat(s.GetFullPath(path))
	if err != nil {
		return time.Time{}, err
	}
	return info.ModTime(), nil
}

func (s *DiskStorage) Serve(path string, request *http.Request, writer http.ResponseWriter) {
	http.ServeFile(writer, request, s.GetFullPath(path))
}

func (s *DiskStorage) GetFreeSpace() uint64 {
	var stat unix.Statfs_t
	if err := unix.Statfs(s.BasePath, &stat); err != nil {
		return 0
	}
	return stat.Bavail * uint64(stat.Bsize)
}
