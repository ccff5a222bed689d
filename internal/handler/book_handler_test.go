package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibliotecavirtualsenajeg/Bibliotecavirtual/internal/dto"
	"github.com/bibliotecavirtualsenajeg/Bibliotecavirtual/internal/models"
	"github.com/bibliotecavirtualsenajeg/Bibliotecavirtual/internal/service"
	appErrors "github.com/bibliotecavirtualsenajeg/Bibliotecavirtual/pkg/errors"
)

type mockBookService struct {
	books       []models.Book
	book        *models.Book
	created     *models.Book
	deletedID   string
	downloadURL string
	download    *service.BookDownload
	exportOut   []byte
	exportType  string
	err         error

	gotCreateReq dto.CreateBookRequest
	gotPDF       *multipart.FileHeader
	gotImage     *multipart.FileHeader
	gotFormat    dto.ExportFormat
}

func (m *mockBookService) List(ctx context.Context) ([]models.Book, error) {
	return m.books, m.err
}

func (m *mockBookService) Get(ctx context.Context, id string) (*models.Book, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.book, nil
}

func (m *mockBookService) Create(ctx context.Context, req dto.CreateBookRequest, pdf, image *multipart.FileHeader) (*models.Book, error) {
	m.gotCreateReq = req
	m.gotPDF = pdf
	m.gotImage = image
	if m.err != nil {
		return nil, m.err
	}
	return m.created, nil
}

func (m *mockBookService) Update(ctx context.Context, id string, req dto.UpdateBookRequest, image *multipart.FileHeader) (*models.Book, error) {
	m.gotImage = image
	if m.err != nil {
		return nil, m.err
	}
	return m.book, nil
}

func (m *mockBookService) Delete(ctx context.Context, id string) error {
	m.deletedID = id
	return m.err
}

func (m *mockBookService) DownloadURL(ctx context.Context, id string) (string, error) {
	return m.downloadURL, m.err
}

func (m *mockBookService) Download(ctx context.Context, id, token string) (*service.BookDownload, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.download, nil
}

func (m *mockBookService) ExportCatalog(ctx context.Context, format dto.ExportFormat) ([]byte, string, error) {
	m.gotFormat = format
	if m.err != nil {
		return nil, "", m.err
	}
	return m.exportOut, m.exportType, nil
}

func bookRouter(svc *mockBookService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewBookHandler(svc)
	r := gin.New()
	r.GET("/api/books", h.List)
	r.GET("/api/books/export", h.Export)
	r.GET("/api/books/:id", h.Get)
	r.GET("/api/books/:id/download", h.Download)
	r.POST("/api/books", h.Create)
	r.PUT("/api/books/:id", h.Update)
	r.DELETE("/api/books/:id", h.Delete)
	return r
}

func multipartBody(t *testing.T, fields map[string]string, files map[string][2]string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for name, value := range fields {
		require.NoError(t, w.WriteField(name, value))
	}
	for field, file := range files {
		part, err := w.CreateFormFile(field, file[0])
		require.NoError(t, err)
		_, err = part.Write([]byte(file[1]))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return body, w.FormDataContentType()
}

func TestBookHandlerList(t *testing.T) {
	svc := &mockBookService{books: []models.Book{{ID: "b1", Titulo: "Química", Area: "Ciencias", FilePath: "1-q.pdf"}}}
	r := bookRouter(svc)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/books", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	var envelope struct {
		Data []map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data, 1)
	assert.Equal(t, "Química", envelope.Data[0]["titulo"])
}

func TestBookHandlerGetNotFound(t *testing.T) {
	svc := &mockBookService{err: appErrors.Clone(appErrors.ErrNotFound, "libro no encontrado")}
	r := bookRouter(svc)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/books/missing", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "libro no encontrado")
}

func TestBookHandlerCreatePassesFilesToService(t *testing.T) {
	svc := &mockBookService{created: &models.Book{ID: "b1", Titulo: "Química", Area: "Ciencias", FilePath: "1-q.pdf"}}
	r := bookRouter(svc)

	body, contentType := multipartBody(t,
		map[string]string{"titulo": "Química", "area": "Ciencias"},
		map[string][2]string{"file": {"quimica.pdf", "%PDF"}, "image": {"portada.png", "png"}},
	)
	req := httptest.NewRequest(http.MethodPost, "/api/books", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "Química", svc.gotCreateReq.Titulo)
	require.NotNil(t, svc.gotPDF)
	assert.Equal(t, "quimica.pdf", svc.gotPDF.Filename)
	require.NotNil(t, svc.gotImage)
	assert.Equal(t, "portada.png", svc.gotImage.Filename)
}

func TestBookHandlerCreateWithoutFilesStillCallsService(t *testing.T) {
	svc := &mockBookService{err: appErrors.Clone(appErrors.ErrUploadRejected, "no se ha subido ningún archivo PDF o el tipo de archivo no es válido")}
	r := bookRouter(svc)

	body, contentType := multipartBody(t, map[string]string{"titulo": "Química", "area": "Ciencias"}, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/books", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Nil(t, svc.gotPDF)
	assert.Contains(t, w.Body.String(), "archivo PDF")
}

func TestBookHandlerCreateRejectsUnknownFileField(t *testing.T) {
	svc := &mockBookService{created: &models.Book{ID: "b1"}}
	r := bookRouter(svc)

	body, contentType := multipartBody(t,
		map[string]string{"titulo": "Química", "area": "Ciencias"},
		map[string][2]string{"file": {"quimica.pdf", "%PDF"}, "payload": {"extra.bin", "x"}},
	)
	req := httptest.NewRequest(http.MethodPost, "/api/books", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "payload")
	assert.Nil(t, svc.gotPDF)
}

func TestBookHandlerUpdateRejectsUnknownFileField(t *testing.T) {
	svc := &mockBookService{book: &models.Book{ID: "b1"}}
	r := bookRouter(svc)

	body, contentType := multipartBody(t,
		map[string]string{"titulo": "Nuevo"},
		map[string][2]string{"adjunto": {"extra.bin", "x"}},
	)
	req := httptest.NewRequest(http.MethodPut, "/api/books/b1", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "adjunto")
}

func TestBookHandlerUpdate(t *testing.T) {
	svc := &mockBookService{book: &models.Book{ID: "b1", Titulo: "Nuevo", Area: "Ciencias", FilePath: "1-q.pdf"}}
	r := bookRouter(svc)

	body, contentType := multipartBody(t, map[string]string{"titulo": "Nuevo"}, nil)
	req := httptest.NewRequest(http.MethodPut, "/api/books/b1", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Nuevo")
}

func TestBookHandlerDelete(t *testing.T) {
	svc := &mockBookService{}
	r := bookRouter(svc)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/books/b1", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "b1", svc.deletedID)
	assert.Contains(t, w.Body.String(), "libro eliminado exitosamente")
}

func TestBookHandlerDownloadWithoutTokenReturnsLink(t *testing.T) {
	svc := &mockBookService{downloadURL: "/api/books/b1/download?token=abc"}
	r := bookRouter(svc)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/books/b1/download", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "downloadUrl")
	assert.Contains(t, w.Body.String(), "token=abc")
}

func TestBookHandlerDownloadWithTokenStreamsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "1-quimica.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF contenido"), 0o644))
	file, err := os.Open(path)
	require.NoError(t, err)

	svc := &mockBookService{download: &service.BookDownload{File: file, Filename: "1-quimica.pdf", Size: int64(len("%PDF contenido"))}}
	r := bookRouter(svc)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/books/b1/download?token=abc", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "%PDF contenido", w.Body.String())
	assert.Equal(t, `attachment; filename="1-quimica.pdf"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
}

func TestBookHandlerExportDefaultsToPDF(t *testing.T) {
	svc := &mockBookService{exportOut: []byte("%PDF"), exportType: "application/pdf"}
	r := bookRouter(svc)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/books/export", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, dto.ExportPDF, svc.gotFormat)
	assert.Equal(t, `attachment; filename="catalogo.pdf"`, w.Header().Get("Content-Disposition"))
}

func TestBookHandlerExportCSV(t *testing.T) {
	svc := &mockBookService{exportOut: []byte("Titulo,Area\n"), exportType: "text/csv"}
	r := bookRouter(svc)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/books/export?format=%s", dto.ExportCSV), nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, dto.ExportCSV, svc.gotFormat)
	assert.Equal(t, `attachment; filename="catalogo.csv"`, w.Header().Get("Content-Disposition"))
}
