// Package storage archives CSV exports to object storage.
package storage

import (
	"context"
	"errors"
	"fmt"
	"path"
	"regexp"
	"strings"
	"time"
)

const csvContentType = "text/csv; charset=utf-8"

// ErrEmptyName is returned when an export is archived without a name
var ErrEmptyName = errors.New("storage: export name is required")

// Archiver stores a finished CSV export and returns the key it was stored under
type Archiver interface {
	Archive(ctx context.Context, name string, data []byte) (string, error)
}

var unsafeKeyChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// ExportKey builds the object key for an export: prefix/name-YYYYMMDDTHHMMSSZ.csv.
// Characters outside [a-zA-Z0-9._-] in name become a single dash.
func ExportKey(prefix, name string, at time.Time) (string, error) {
	name = strings.Trim(unsafeKeyChars.ReplaceAllString(strings.TrimSuffix(name, ".csv"), "-"), "-.")
	if name == "" {
		return "", ErrEmptyName
	}
	file := fmt.Sprintf("%s-%s.csv", name, at.UTC().Format("20060102T150405Z"))
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return file, nil
	}
	return path.Join(prefix, file), nil
}
