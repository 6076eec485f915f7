package blob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	bucketName          = "productImages"
	defaultContentType  = "image/jpeg"
	defaultUploadWindow = 30 * time.Second
)

var (
	// ErrNotFound is returned when no blob exists for an id.
	ErrNotFound = errors.New("image not found")

	// ErrUnsupportedMediaType is returned for uploads outside the
	// JPEG/PNG/WEBP allowlist.
	ErrUnsupportedMediaType = errors.New("unsupported image type")

	// ErrEmptyPayload is returned for zero-length uploads.
	ErrEmptyPayload = errors.New("uploaded file is empty")

	// ErrUploadTimeout is returned when an upload exceeds its overall
	// deadline and is abandoned.
	ErrUploadTimeout = errors.New("upload timed out")
)

var allowedTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// Meta describes a stored blob.
type Meta struct {
	ContentType string
	Length      int64
	Filename    string
}

// Store keeps image payloads in a GridFS bucket, addressed by the hex
// form of the file's ObjectID. Every call is a round trip; nothing is
// cached here.
type Store struct {
	bucket       *gridfs.Bucket
	uploadWindow time.Duration
}

func NewStore(db *mongo.Database) (*Store, error) {
	bucket, err := gridfs.NewBucket(db, options.GridFSBucket().SetName(bucketName))
	if err != nil {
		return nil, fmt.Errorf("open gridfs bucket: %w", err)
	}
	return &Store{bucket: bucket, uploadWindow: defaultUploadWindow}, nil
}

// sanitizeFilename strips path components and anything outside the
// character set the original names were stored with.
func sanitizeFilename(name string) string {
	clean := filepath.Base(filepath.Clean(name))
	if clean == "." || clean == ".." {
		return "image"
	}
	var b strings.Builder
	for _, r := range clean {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-':
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "image"
	}
	return b.String()
}

// uploadDeadline is the instant the upload must finish by: the fixed
// window, tightened further when the caller's context expires sooner.
func (s *Store) uploadDeadline(ctx context.Context) time.Time {
	deadline := time.Now().Add(s.uploadWindow)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	return deadline
}

// uploadError maps an abandoned-deadline failure to ErrUploadTimeout
// and wraps everything else.
func uploadError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrUploadTimeout
	}
	return fmt.Errorf("upload image: %w", err)
}

// Store validates and writes one payload, returning the new blob id.
// The whole upload runs under a fixed deadline; past it the write is
// abandoned and reported as ErrUploadTimeout.
func (s *Store) Store(ctx context.Context, r io.Reader, size int64, contentType, filename string) (string, error) {
	if !allowedTypes[contentType] {
		return "", ErrUnsupportedMediaType
	}
	if size == 0 {
		return "", ErrEmptyPayload
	}

	if err := s.bucket.SetWriteDeadline(s.uploadDeadline(ctx)); err != nil {
		return "", fmt.Errorf("set upload deadline: %w", err)
	}

	uniqueName := uuid.New().String() + "-" + sanitizeFilename(filename)
	opts := options.GridFSUpload().SetMetadata(bson.M{
		"contentType":  contentType,
		"originalName": filename,
		"size":         size,
		"uploadedAt":   time.Now().UTC(),
	})

	id, err := s.bucket.UploadFromStream(uniqueName, r, opts)
	if err != nil {
		return "", uploadError(err)
	}
	return id.Hex(), nil
}

// Open returns a stream over the blob's bytes plus its metadata, so
// large images never have to be buffered whole.
func (s *Store) Open(ctx context.Context, id string) (io.ReadCloser, Meta, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, Meta{}, ErrNotFound
	}

	if d, ok := ctx.Deadline(); ok {
		if err := s.bucket.SetReadDeadline(d); err != nil {
			return nil, Meta{}, fmt.Errorf("set read deadline: %w", err)
		}
	}

	ds, err := s.bucket.OpenDownloadStream(oid)
	if err != nil {
		if errors.Is(err, gridfs.ErrFileNotFound) {
			return nil, Meta{}, ErrNotFound
		}
		return nil, Meta{}, fmt.Errorf("open image %s: %w", id, err)
	}

	file := ds.GetFile()
	meta := Meta{
		ContentType: defaultContentType,
		Length:      file.Length,
		Filename:    file.Name,
	}
	if len(file.Metadata) > 0 {
		var md struct {
			ContentType string `bson:"contentType"`
		}
		if err := bson.Unmarshal(file.Metadata, &md); err == nil && md.ContentType != "" {
			meta.ContentType = md.ContentType
		}
	}
	return ds, meta, nil
}

// Delete removes the blob. Callers doing a best-effort cascade treat
// ErrNotFound as a no-op.
func (s *Store) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	if err := s.bucket.DeleteContext(ctx, oid); err != nil {
		if errors.Is(err, gridfs.ErrFileNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete image %s: %w", id, err)
	}
	return nil
}
