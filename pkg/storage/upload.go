package storage

import (
	"fmt"
	"mime/multipart"
	"strings"
	"time"

	appErrors "github.com/bibliotecavirtualsenajeg/Bibliotecavirtual/pkg/errors"
)

// Multipart field names recognised by the book endpoints.
const (
	FieldFile  = "file"
	FieldImage = "image"
)

// DefaultMaxFileSize caps each uploaded file at 50MB.
const DefaultMaxFileSize int64 = 50 * 1024 * 1024

// fieldMIMEs maps each accepted field to its MIME allow-list. The check runs
// against the client-declared Content-Type: it is a usability filter, not a
// security boundary (see the upload design notes), so no content sniffing.
var fieldMIMEs = map[string][]string{
	FieldFile:  {"application/pdf"},
	FieldImage: {"image/jpeg", "image/png", "image/gif"},
}

// StoredFile describes one accepted upload.
type StoredFile struct {
	Field        string
	OriginalName string
	StoredName   string
	Size         int64
}

// UploadValidator screens multipart files before anything touches the disk.
type UploadValidator struct {
	maxFileSize int64
	now         func() time.Time
}

// NewUploadValidator builds a validator with the given per-file size ceiling.
func NewUploadValidator(maxFileSize int64) *UploadValidator {
	if maxFileSize <= 0 {
		maxFileSize = DefaultMaxFileSize
	}
	return &UploadValidator{maxFileSize: maxFileSize, now: time.Now}
}

// Accept validates a single multipart file header against the allow-list of
// its field and returns the descriptor under which it should be stored.
// Rejection identifies the offending field so the whole request can fail with
// a 4xx before any database write.
func (v *UploadValidator) Accept(field string, header *multipart.FileHeader) (StoredFile, error) {
	allowed, ok := fieldMIMEs[field]
	if !ok {
		return StoredFile{}, unknownFieldError(field)
	}
	if header == nil {
		return StoredFile{}, appErrors.Clone(appErrors.ErrUploadRejected, fmt.Sprintf("campo %s vacío", field))
	}
	if header.Size > v.maxFileSize {
		return StoredFile{}, appErrors.Clone(appErrors.ErrUploadRejected, fmt.Sprintf("el archivo del campo %s supera el límite de %d bytes", field, v.maxFileSize))
	}

	mimeType := strings.ToLower(strings.TrimSpace(header.Header.Get("Content-Type")))
	if i := strings.Index(mimeType, ";"); i >= 0 {
		mimeType = strings.TrimSpace(mimeType[:i])
	}
	if !contains(allowed, mimeType) {
		return StoredFile{}, appErrors.Clone(appErrors.ErrUploadRejected, fmt.Sprintf("tipo de archivo no válido en el campo %s", field))
	}

	return StoredFile{
		Field:        field,
		OriginalName: header.Filename,
		StoredName:   v.storedName(header.Filename),
		Size:         header.Size,
	}, nil
}

// ScreenFields rejects a request whose multipart form carries a file under
// any field outside the accepted set. Runs before Accept so an unrecognized
// field fails the whole request without writing anything.
func ScreenFields(fields ...string) error {
	for _, field := range fields {
		if _, ok := fieldMIMEs[field]; !ok {
			return unknownFieldError(field)
		}
	}
	return nil
}

func unknownFieldError(field string) error {
	return appErrors.Clone(appErrors.ErrUploadRejected, fmt.Sprintf("tipo de campo de archivo no válido: %s", field))
}

// storedName generates the collision-resistant name files are persisted under:
// current unix milliseconds, a dash, then the original name.
func (v *UploadValidator) storedName(original string) string {
	return fmt.Sprintf("%d-%s", v.now().UnixMilli(), original)
}

func contains(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}
