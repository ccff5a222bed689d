package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/bibliotecavirtualsenajeg/Bibliotecavirtual/internal/dto"
	"github.com/bibliotecavirtualsenajeg/Bibliotecavirtual/internal/models"
	appErrors "github.com/bibliotecavirtualsenajeg/Bibliotecavirtual/pkg/errors"
	"github.com/bibliotecavirtualsenajeg/Bibliotecavirtual/pkg/export"
	"github.com/bibliotecavirtualsenajeg/Bibliotecavirtual/pkg/storage"
)

type bookStore interface {
	List(ctx context.Context) ([]models.Book, error)
	FindByID(ctx context.Context, id string) (*models.Book, error)
	Create(ctx context.Context, book *models.Book) error
	Update(ctx context.Context, book *models.Book) error
	Delete(ctx context.Context, id string) error
}

type bookFileStorage interface {
	SaveStream(filename string, r io.Reader) (string, error)
	Open(filename string) (*os.File, error)
	Delete(filename string) error
}

type bookDownloadSigner interface {
	Generate(bookID, storedName string) (string, time.Time, error)
	Parse(token string) (bookID, storedName string, expiresAt time.Time, err error)
}

// bookListCacheKey stores the serialized catalog listing.
const bookListCacheKey = "books:list"

// BookDownload bundles file reader metadata for streaming.
type BookDownload struct {
	File     *os.File
	Filename string
	Size     int64
}

// BookService manages the book catalog: metadata rows, uploaded files and the
// relation between them (by generated name only).
type BookService struct {
	repo      bookStore
	storage   bookFileStorage
	uploads   *storage.UploadValidator
	signer    bookDownloadSigner
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewBookService constructs the service.
func NewBookService(repo bookStore, files bookFileStorage, uploads *storage.UploadValidator, signer bookDownloadSigner, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *BookService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if uploads == nil {
		uploads = storage.NewUploadValidator(0)
	}
	return &BookService{
		repo:      repo,
		storage:   files,
		uploads:   uploads,
		signer:    signer,
		cache:     cache,
		validator: validate,
		logger:    logger,
	}
}

// List returns all books visible to every authenticated role, served from the
// cache when warm.
func (s *BookService) List(ctx context.Context) ([]models.Book, error) {
	if s.cache.Enabled() {
		var cached []models.Book
		if hit, err := s.cache.Get(ctx, bookListCacheKey, &cached); err == nil && hit {
			return cached, nil
		}
	}

	books, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list books")
	}

	if s.cache.Enabled() {
		if err := s.cache.Set(ctx, bookListCacheKey, books); err != nil {
			s.logger.Warn("failed to cache book list", zap.Error(err))
		}
	}

	return books, nil
}

// Get returns a book by ID.
func (s *BookService) Get(ctx context.Context, id string) (*models.Book, error) {
	book, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "libro no encontrado")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load book")
	}
	return book, nil
}

// Create validates metadata and files, writes the files to disk, then records
// the book. The database insert only happens after a successful PDF write, so
// a stored record never references a missing required PDF.
func (s *BookService) Create(ctx context.Context, req dto.CreateBookRequest, pdf, image *multipart.FileHeader) (*models.Book, error) {
	req.Titulo = strings.TrimSpace(req.Titulo)
	req.Area = strings.TrimSpace(req.Area)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "titulo y area son obligatorios")
	}
	if pdf == nil {
		return nil, appErrors.Clone(appErrors.ErrUploadRejected, "no se ha subido ningún archivo PDF o el tipo de archivo no es válido")
	}

	pdfStored, err := s.uploads.Accept(storage.FieldFile, pdf)
	if err != nil {
		return nil, err
	}
	var imageStored *storage.StoredFile
	if image != nil {
		accepted, err := s.uploads.Accept(storage.FieldImage, image)
		if err != nil {
			return nil, err
		}
		imageStored = &accepted
	}

	if err := s.saveUpload(pdf, pdfStored.StoredName); err != nil {
		return nil, err
	}
	if imageStored != nil {
		if err := s.saveUpload(image, imageStored.StoredName); err != nil {
			s.removeFile(pdfStored.StoredName)
			return nil, err
		}
	}

	book := &models.Book{
		Titulo:   req.Titulo,
		Area:     req.Area,
		FilePath: pdfStored.StoredName,
	}
	if imageStored != nil {
		book.ImagePath = sql.NullString{String: imageStored.StoredName, Valid: true}
	}

	if err := s.repo.Create(ctx, book); err != nil {
		s.removeFile(pdfStored.StoredName)
		if imageStored != nil {
			s.removeFile(imageStored.StoredName)
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create book")
	}

	s.invalidateListCache(ctx)

	return book, nil
}

// Update applies non-empty titulo/area and an optional replacement cover
// image. The old image is removed from disk when replaced; the PDF itself is
// not replaceable through this operation.
func (s *BookService) Update(ctx context.Context, id string, req dto.UpdateBookRequest, image *multipart.FileHeader) (*models.Book, error) {
	book, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if titulo := strings.TrimSpace(req.Titulo); titulo != "" {
		book.Titulo = titulo
	}
	if area := strings.TrimSpace(req.Area); area != "" {
		book.Area = area
	}

	if image != nil {
		accepted, err := s.uploads.Accept(storage.FieldImage, image)
		if err != nil {
			return nil, err
		}
		if err := s.saveUpload(image, accepted.StoredName); err != nil {
			return nil, err
		}
		if book.ImagePath.Valid {
			s.removeFile(book.ImagePath.String)
		}
		book.ImagePath = sql.NullString{String: accepted.StoredName, Valid: true}
	}

	if err := s.repo.Update(ctx, book); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update book")
	}

	s.invalidateListCache(ctx)

	return book, nil
}

// Delete removes the database record first, then attempts best-effort removal
// of the associated files. The database is the source of truth: an orphaned
// file never fails the request.
func (s *BookService) Delete(ctx context.Context, id string) error {
	book, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete book")
	}

	s.removeFile(book.FilePath)
	if book.ImagePath.Valid {
		s.removeFile(book.ImagePath.String)
	}

	s.invalidateListCache(ctx)

	return nil
}

// DownloadURL returns a signed, time-limited link for the book's PDF.
func (s *BookService) DownloadURL(ctx context.Context, id string) (string, error) {
	if s.signer == nil {
		return "", appErrors.Clone(appErrors.ErrInternal, "download signer not configured")
	}
	book, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}
	token, _, err := s.signer.Generate(book.ID, book.FilePath)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign download url")
	}
	return fmt.Sprintf("/api/books/%s/download?token=%s", book.ID, token), nil
}

// Download validates the signed token and opens the referenced PDF.
func (s *BookService) Download(ctx context.Context, id, token string) (*BookDownload, error) {
	if s.signer == nil {
		return nil, appErrors.Clone(appErrors.ErrInternal, "download signer not configured")
	}
	tokenBookID, storedName, _, err := s.signer.Parse(token)
	if err != nil || tokenBookID != id {
		return nil, appErrors.ErrInvalidToken
	}
	book, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if book.FilePath != storedName {
		return nil, appErrors.ErrInvalidToken
	}
	file, err := s.storage.Open(book.FilePath)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrNotFound.Code, appErrors.ErrNotFound.Status, "archivo no encontrado")
	}
	info, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to stat file")
	}
	return &BookDownload{File: file, Filename: book.FilePath, Size: info.Size()}, nil
}

// ExportCatalog renders the full catalog listing as PDF or CSV.
func (s *BookService) ExportCatalog(ctx context.Context, format dto.ExportFormat) ([]byte, string, error) {
	books, err := s.List(ctx)
	if err != nil {
		return nil, "", err
	}

	dataset := export.Dataset{Headers: []string{"Titulo", "Area", "Archivo", "Creado"}}
	for _, book := range books {
		dataset.Rows = append(dataset.Rows, map[string]string{
			"Titulo":  book.Titulo,
			"Area":    book.Area,
			"Archivo": book.FilePath,
			"Creado":  book.CreatedAt.Format("2006-01-02"),
		})
	}

	switch format {
	case dto.ExportCSV:
		out, err := export.NewCSVExporter().Render(dataset)
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return out, "text/csv", nil
	case dto.ExportPDF, "":
		out, err := export.NewPDFExporter().Render(dataset, "Catálogo de libros")
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return out, "application/pdf", nil
	default:
		return nil, "", appErrors.Clone(appErrors.ErrBadRequest, "formato de exportación no válido")
	}
}

func (s *BookService) saveUpload(header *multipart.FileHeader, storedName string) error {
	src, err := header.Open()
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open upload")
	}
	defer src.Close() //nolint:errcheck
	if _, err := s.storage.SaveStream(storedName, src); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist upload")
	}
	return nil
}

// removeFile deletes a stored file, logging anything other than "already
// gone". Cleanup failures are never surfaced to the caller.
func (s *BookService) removeFile(storedName string) {
	if storedName == "" {
		return
	}
	if err := s.storage.Delete(storedName); err != nil {
		s.logger.Error("failed to remove stored file", zap.String("file", storedName), zap.Error(err))
	}
}

func (s *BookService) invalidateListCache(ctx context.Context) {
	if !s.cache.Enabled() {
		return
	}
	if err := s.cache.Invalidate(ctx, bookListCacheKey); err != nil {
		s.logger.Warn("failed to invalidate book list cache", zap.Error(err))
	}
}
