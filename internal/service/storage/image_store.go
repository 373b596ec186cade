package storage

import (
	"errors"
	"fmt"
	"image"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"camstation/internal/logger"

	"github.com/disintegration/imaging"
)

// maxNameAttempts bounds the collision suffixes tried for one capture.
const maxNameAttempts = 100

var (
	// ErrInvalidFilename is returned for names that would escape the image directory.
	ErrInvalidFilename = errors.New("invalid image filename")
	// ErrImageNotFound is returned when the requested image does not exist.
	ErrImageNotFound = errors.New("image not found")
)

// ImageStore writes captured frames as PNG files into one directory.
type ImageStore struct {
	dir    string
	logger *logger.Logger
}

// NewImageStore creates the directory if needed.
func NewImageStore(dir string, logger *logger.Logger) (*ImageStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create image directory: %w", err)
	}
	return &ImageStore{dir: dir, logger: logger}, nil
}

// Dir returns the image directory.
func (s *ImageStore) Dir() string {
	return s.dir
}

// Filename builds the name of the image for face index of a capture taken at at.
func Filename(index int, at time.Time) string {
	local := at.Local()
	return fmt.Sprintf("captured_%d_%s_%09d.png", index, local.Format("20060102150405"), local.Nanosecond())
}

// Save encodes img as PNG under a fresh name and returns that name. An
// existing file is never overwritten; on collision a numeric suffix is added.
func (s *ImageStore) Save(img image.Image, index int, at time.Time) (string, error) {
	base := strings.TrimSuffix(Filename(index, at), ".png")

	for attempt := 0; attempt < maxNameAttempts; attempt++ {
		name := base + ".png"
		if attempt > 0 {
			name = fmt.Sprintf("%s_%d.png", base, attempt)
		}
		path := filepath.Join(s.dir, name)

		file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("failed to create image %s: %w", name, err)
		}

		if err := imaging.Encode(file, img, imaging.PNG); err != nil {
			file.Close()
			os.Remove(path)
			return "", fmt.Errorf("failed to encode image %s: %w", name, err)
		}
		if err := file.Close(); err != nil {
			os.Remove(path)
			return "", fmt.Errorf("failed to close image %s: %w", name, err)
		}
		return name, nil
	}

	return "", fmt.Errorf("failed to find a free name for %s after %d attempts", base, maxNameAttempts)
}

// Path resolves name inside the image directory.
func (s *ImageStore) Path(name string) (string, error) {
	if name == "" || name != filepath.Base(name) || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("%w: %q", ErrInvalidFilename, name)
	}
	return filepath.Join(s.dir, name), nil
}

// Exists reports whether the image file is present.
func (s *ImageStore) Exists(name string) bool {
	path, err := s.Path(name)
	if err != nil {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// Delete removes one image. A missing file reports ErrImageNotFound.
func (s *ImageStore) Delete(name string) error {
	path, err := s.Path(name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrImageNotFound, name)
		}
		return fmt.Errorf("failed to delete image %s: %w", name, err)
	}
	return nil
}

// DirectorySize returns the total size in bytes of the files in the image directory.
func (s *ImageStore) DirectorySize() (int64, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, fmt.Errorf("failed to read image directory: %w", err)
	}

	var total int64
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			s.logger.Warning("Failed to stat %s: %v", entry.Name(), err)
			continue
		}
		total += info.Size()
	}
	return total, nil
}
