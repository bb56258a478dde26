// Package uploads validates and stores files attached to content records.
package uploads

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/dalemusser/waffle/pantry/storage"
	"go.uber.org/zap"

	"github.com/dalemusser/eduhub/internal/app/system/fileutil"
)

// MaxFileSize caps uploads at 100 MiB.
const MaxFileSize = 100 << 20

// FieldName is the multipart form field that carries the file.
const FieldName = "file"

var (
	// ErrTooLarge is returned for uploads over MaxFileSize.
	ErrTooLarge = fmt.Errorf("file too large, maximum size is %s", fileutil.FormatSize(MaxFileSize))

	// ErrUnsupportedType is returned when the extension or MIME type is
	// not on the allow list.
	ErrUnsupportedType = errors.New("file type not allowed")
)

var allowedExtensions = map[string]bool{
	".pdf": true, ".doc": true, ".docx": true, ".ppt": true, ".pptx": true,
	".txt": true, ".jpg": true, ".jpeg": true, ".png": true, ".gif": true,
	".mp4": true, ".mp3": true, ".zip": true, ".rar": true,
}

var allowedMIMETypes = map[string]bool{
	"application/pdf":    true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
	"application/vnd.ms-powerpoint":                                           true,
	"application/vnd.openxmlformats-officedocument.presentationml.presentation": true,
	"image/jpeg":                   true,
	"image/png":                    true,
	"image/gif":                    true,
	"video/mp4":                    true,
	"audio/mpeg":                   true,
	"application/zip":              true,
	"application/x-rar-compressed": true,
	"application/octet-stream":     true,
}

// Allowed checks a filename and declared MIME type against the allow
// lists. Any text/* MIME type is acceptable as long as the extension is.
func Allowed(filename, contentType string) error {
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedExtensions[ext] {
		return ErrUnsupportedType
	}
	mt := strings.ToLower(contentType)
	if i := strings.IndexByte(mt, ';'); i >= 0 {
		mt = strings.TrimSpace(mt[:i])
	}
	if mt == "" || allowedMIMETypes[mt] || strings.HasPrefix(mt, "text/") {
		return nil
	}
	return ErrUnsupportedType
}

// Result describes a stored upload.
type Result struct {
	Path             string
	OriginalFileName string
	FileURL          string
	Type             string
	SizeLabel        string
	Size             int64
}

// Saver writes validated uploads into the file store and derives the
// metadata recorded alongside them.
type Saver struct {
	store  storage.Store
	base   string
	prefix string
	log    *zap.Logger
}

// NewSaver builds a Saver. urlPrefix is the path stored files are served
// under, e.g. "/uploads". baseURL, when non-empty, pins file links to a
// fixed origin such as "https://cdn.example.com"; otherwise links take the
// origin of the request that uploaded them.
func NewSaver(store storage.Store, baseURL, urlPrefix string, logger *zap.Logger) *Saver {
	return &Saver{
		store:  store,
		base:   strings.TrimRight(baseURL, "/"),
		prefix: "/" + strings.Trim(urlPrefix, "/"),
		log:    logger,
	}
}

// Save validates the upload, stores it under a collision-free name, and
// returns the stored path plus derived metadata. requestBase is the
// scheme://host of the uploading request, used for the file link when no
// base URL was configured.
func (s *Saver) Save(ctx context.Context, fh *multipart.FileHeader, requestBase string) (Result, error) {
	if fh.Size > MaxFileSize {
		return Result{}, ErrTooLarge
	}
	contentType := fh.Header.Get("Content-Type")
	if err := Allowed(fh.Filename, contentType); err != nil {
		return Result{}, err
	}

	f, err := fh.Open()
	if err != nil {
		return Result{}, fmt.Errorf("opening upload: %w", err)
	}
	defer f.Close()

	name := fileutil.StorageFilename(FieldName, fh.Filename)
	opts := &storage.PutOptions{ContentType: contentType}
	if err := s.store.Put(ctx, name, f, opts); err != nil {
		return Result{}, fmt.Errorf("storing upload: %w", err)
	}

	s.log.Info("stored upload",
		zap.String("path", name),
		zap.String("original", fh.Filename),
		zap.Int64("size", fh.Size))

	base := s.base
	if base == "" {
		base = strings.TrimRight(requestBase, "/")
	}

	return Result{
		Path:             name,
		OriginalFileName: fh.Filename,
		FileURL:          base + s.prefix + "/" + name,
		Type:             fileutil.TypeForFilename(fh.Filename),
		SizeLabel:        fileutil.FormatSize(fh.Size),
		Size:             fh.Size,
	}, nil
}

// Discard removes a stored upload, logging rather than failing when the
// backing file is already gone.
func (s *Saver) Discard(ctx context.Context, path string) {
	if path == "" {
		return
	}
	if err := s.store.Delete(ctx, path); err != nil {
		s.log.Warn("could not remove stored upload", zap.String("path", path), zap.Error(err))
	}
}
