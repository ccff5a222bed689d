package handler

import (
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/bibliotecavirtualsenajeg/Bibliotecavirtual/internal/dto"
	"github.com/bibliotecavirtualsenajeg/Bibliotecavirtual/internal/models"
	"github.com/bibliotecavirtualsenajeg/Bibliotecavirtual/internal/service"
	appErrors "github.com/bibliotecavirtualsenajeg/Bibliotecavirtual/pkg/errors"
	"github.com/bibliotecavirtualsenajeg/Bibliotecavirtual/pkg/response"
	"github.com/bibliotecavirtualsenajeg/Bibliotecavirtual/pkg/storage"
)

type bookService interface {
	List(ctx context.Context) ([]models.Book, error)
	Get(ctx context.Context, id string) (*models.Book, error)
	Create(ctx context.Context, req dto.CreateBookRequest, pdf, image *multipart.FileHeader) (*models.Book, error)
	Update(ctx context.Context, id string, req dto.UpdateBookRequest, image *multipart.FileHeader) (*models.Book, error)
	Delete(ctx context.Context, id string) error
	DownloadURL(ctx context.Context, id string) (string, error)
	Download(ctx context.Context, id, token string) (*service.BookDownload, error)
	ExportCatalog(ctx context.Context, format dto.ExportFormat) ([]byte, string, error)
}

// BookHandler manages the book catalog HTTP endpoints.
type BookHandler struct {
	service bookService
}

// NewBookHandler constructs the handler.
func NewBookHandler(svc bookService) *BookHandler {
	return &BookHandler{service: svc}
}

// Create godoc
// @Summary Upload a new book
// @Tags Books
// @Accept multipart/form-data
// @Produce json
// @Param titulo formData string true "Title"
// @Param area formData string true "Area"
// @Param file formData file true "PDF document"
// @Param image formData file false "Cover image"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /books [post]
func (h *BookHandler) Create(c *gin.Context) {
	var req dto.CreateBookRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid book payload"))
		return
	}
	if err := screenFileFields(c); err != nil {
		response.Error(c, err)
		return
	}

	book, err := h.service.Create(c.Request.Context(), req, formFile(c, storage.FieldFile), formFile(c, storage.FieldImage))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, book)
}

// List godoc
// @Summary List all books
// @Tags Books
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /books [get]
func (h *BookHandler) List(c *gin.Context) {
	books, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, books)
}

// Get godoc
// @Summary Get a book
// @Tags Books
// @Produce json
// @Param id path string true "Book ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /books/{id} [get]
func (h *BookHandler) Get(c *gin.Context) {
	book, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, book)
}

// Update godoc
// @Summary Update a book's title, area or cover image
// @Tags Books
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Book ID"
// @Param titulo formData string false "Title"
// @Param area formData string false "Area"
// @Param image formData file false "Replacement cover image"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /books/{id} [put]
func (h *BookHandler) Update(c *gin.Context) {
	var req dto.UpdateBookRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid book payload"))
		return
	}
	if err := screenFileFields(c); err != nil {
		response.Error(c, err)
		return
	}

	book, err := h.service.Update(c.Request.Context(), c.Param("id"), req, formFile(c, storage.FieldImage))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, book)
}

// Delete godoc
// @Summary Delete a book and its stored files
// @Tags Books
// @Produce json
// @Param id path string true "Book ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /books/{id} [delete]
func (h *BookHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}

	response.Message(c, "libro eliminado exitosamente")
}

// Download godoc
// @Summary Download a book PDF
// @Description Without a token, returns a signed download link; with ?token=, streams the file
// @Tags Books
// @Produce octet-stream
// @Param id path string true "Book ID"
// @Param token query string false "Signed token"
// @Success 200 {file} binary
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /books/{id}/download [get]
func (h *BookHandler) Download(c *gin.Context) {
	id := c.Param("id")
	token := strings.TrimSpace(c.Query("token"))

	if token == "" {
		url, err := h.service.DownloadURL(c.Request.Context(), id)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.JSON(c, http.StatusOK, gin.H{"downloadUrl": url})
		return
	}

	result, err := h.service.Download(c.Request.Context(), id, token)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer result.File.Close() //nolint:errcheck
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", result.Filename))
	c.Header("Cache-Control", "no-store")
	c.DataFromReader(http.StatusOK, result.Size, "application/pdf", result.File, nil)
}

// Export godoc
// @Summary Export the catalog listing
// @Tags Books
// @Produce octet-stream
// @Param format query string false "pdf or csv"
// @Success 200 {file} binary
// @Failure 400 {object} response.Envelope
// @Router /books/export [get]
func (h *BookHandler) Export(c *gin.Context) {
	format := dto.ExportFormat(strings.ToLower(c.DefaultQuery("format", string(dto.ExportPDF))))

	out, contentType, err := h.service.ExportCatalog(c.Request.Context(), format)
	if err != nil {
		response.Error(c, err)
		return
	}

	ext := "pdf"
	if format == dto.ExportCSV {
		ext = "csv"
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"catalogo.%s\"", ext))
	c.Data(http.StatusOK, contentType, out)
}

// screenFileFields fails the request when a file arrives under a field name
// the upload pipeline does not recognize. A request with no multipart form at
// all passes; the required-PDF check belongs to the service.
func screenFileFields(c *gin.Context) error {
	form, err := c.MultipartForm()
	if err != nil || form == nil {
		return nil
	}
	fields := make([]string, 0, len(form.File))
	for field := range form.File {
		fields = append(fields, field)
	}
	return storage.ScreenFields(fields...)
}

// formFile returns the single file uploaded under the given field, or nil
// when the field is absent.
func formFile(c *gin.Context, field string) *multipart.FileHeader {
	header, err := c.FormFile(field)
	if err != nil {
		return nil
	}
	return header
}
