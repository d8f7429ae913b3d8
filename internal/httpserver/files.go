package httpserver

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/Skotchmaster/docs_gateway/internal/filesapi"
	"github.com/Skotchmaster/docs_gateway/internal/middleware"
	"github.com/Skotchmaster/docs_gateway/internal/transport"
	"github.com/labstack/echo/v4"
)

const (
	MaxUploadBytes = 10 << 20
	pdfMIME        = "application/pdf"
)

type FilesHTTP struct {
	Files *filesapi.Client
}

func (h *FilesHTTP) Upload(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return proxyFail(c, http.StatusBadRequest, "No file uploaded")
	}
	if err := checkDocument(fh); err != nil {
		return proxyFail(c, http.StatusBadRequest, err.Error())
	}

	var form transport.FileForm
	if err := c.Bind(&form); err != nil {
		return proxyFail(c, http.StatusBadRequest, "invalid form")
	}
	if err := form.ValidateUpload(); err != nil {
		return proxyFail(c, http.StatusBadRequest, err.Error())
	}

	doc, closeDoc, err := openDocument(fh)
	if err != nil {
		return err
	}
	defer closeDoc()

	res, err := h.Files.UploadFile(c.Request().Context(), doc, filesapi.FileMeta{
		Description: form.Description,
		UserID:      middleware.Identity(c).UserID,
		CategoryID:  form.CategoryID,
	})
	return forward(c, res, err, "File uploaded successfully", "Failed to upload file")
}

func (h *FilesHTTP) Update(c echo.Context) error {
	fileID := c.QueryParam("file_id")
	if fileID == "" {
		return proxyFail(c, http.StatusBadRequest, "file_id parameter is required")
	}

	var doc filesapi.Document
	if fh, err := c.FormFile("file"); err == nil {
		if err := checkDocument(fh); err != nil {
			return proxyFail(c, http.StatusBadRequest, err.Error())
		}
		d, closeDoc, err := openDocument(fh)
		if err != nil {
			return err
		}
		defer closeDoc()
		doc = d
	} else if !errors.Is(err, http.ErrMissingFile) && !errors.Is(err, http.ErrNotMultipart) {
		return proxyFail(c, http.StatusBadRequest, "invalid form")
	}

	var form transport.FileForm
	if err := c.Bind(&form); err != nil {
		return proxyFail(c, http.StatusBadRequest, "invalid form")
	}

	res, err := h.Files.UpdateFile(c.Request().Context(), fileID, doc, filesapi.FileMeta{
		Description: form.Description,
		UserID:      middleware.Identity(c).UserID,
		CategoryID:  form.CategoryID,
	})
	return forward(c, res, err, "File updated successfully", "Failed to update file")
}

func (h *FilesHTTP) Delete(c echo.Context) error {
	fileID := c.QueryParam("file_id")
	if fileID == "" {
		return proxyFail(c, http.StatusBadRequest, "file_id parameter is required")
	}

	res, err := h.Files.DeleteFile(c.Request().Context(), middleware.Identity(c).UserID, fileID)
	return forward(c, res, err, "File deleted successfully", "Failed to delete file")
}

func (h *FilesHTTP) Get(c echo.Context) error {
	var q transport.FileQuery
	if err := c.Bind(&q); err != nil {
		return proxyFail(c, http.StatusBadRequest, "invalid query")
	}
	if q.FileID == "" || q.Role == "" {
		return proxyFail(c, http.StatusBadRequest, "file_id and role parameters are required")
	}
	role, err := q.FilesRole()
	if err != nil {
		return proxyFail(c, http.StatusBadRequest, err.Error())
	}

	res, err := h.Files.GetFile(c.Request().Context(), q.FileID, role)
	return forward(c, res, err, "File retrieved successfully", "Failed to retrieve file")
}

func (h *FilesHTTP) GetAll(c echo.Context) error {
	var q transport.FileQuery
	if err := c.Bind(&q); err != nil {
		return proxyFail(c, http.StatusBadRequest, "invalid query")
	}
	role, err := q.FilesRole()
	if err != nil {
		return proxyFail(c, http.StatusBadRequest, err.Error())
	}

	res, err := h.Files.ListFiles(c.Request().Context(), role)
	return forward(c, res, err, "Files retrieved successfully", "Failed to retrieve files")
}

func (h *FilesHTTP) GetByUserID(c echo.Context) error {
	res, err := h.Files.ListUserFiles(c.Request().Context(), middleware.Identity(c).UserID)
	return forward(c, res, err, "Files retrieved successfully", "Failed to retrieve files")
}

func checkDocument(fh *multipart.FileHeader) error {
	if fh.Header.Get(echo.HeaderContentType) != pdfMIME {
		return errors.New("Only PDF files are allowed")
	}
	if fh.Size > MaxUploadBytes {
		return fmt.Errorf("file exceeds the %d MB limit", MaxUploadBytes>>20)
	}
	return nil
}

func openDocument(fh *multipart.FileHeader) (filesapi.Document, func(), error) {
	f, err := fh.Open()
	if err != nil {
		return filesapi.Document{}, nil, fmt.Errorf("open upload: %w", err)
	}
	return filesapi.Document{
		Filename:    fh.Filename,
		ContentType: pdfMIME,
		Content:     f,
	}, func() { _ = f.Close() }, nil
}
