package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// PublicPrefix is the path under which stored files are served. References
// handed out by a Store always start with it.
const PublicPrefix = "/uploads/"

var (
	ErrNotFound    = errors.New("file not found")
	ErrInvalidName = errors.New("invalid file name")
)

// Store persists uploaded files under a flat namespace of file names.
type Store interface {
	// Save writes data under name, replacing any existing file, and returns
	// the public reference path.
	Save(ctx context.Context, name, contentType string, data []byte) (string, error)
	// Open returns the stored file for a reference path. The caller closes
	// Body.
	Open(ctx context.Context, reference string) (*Object, error)
	Exists(ctx context.Context, reference string) (bool, error)
}

type Object struct {
	Body        io.ReadCloser
	ContentType string
	Size        int64
}

// Reference returns the public path of a stored file name.
func Reference(name string) string {
	return PublicPrefix + name
}

// NameFromReference is the inverse of Reference. It rejects references that
// point outside the upload namespace.
func NameFromReference(reference string) (string, error) {
	name, ok := strings.CutPrefix(reference, PublicPrefix)
	if !ok {
		return "", fmt.Errorf("%w: reference %q is not under %s", ErrInvalidName, reference, PublicPrefix)
	}
	if err := ValidateName(name); err != nil {
		return "", err
	}
	return name, nil
}
