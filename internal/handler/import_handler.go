package handler

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"school-navigator/internal/importer"
	"school-navigator/internal/middleware"
	"school-navigator/internal/service"
	"school-navigator/pkg/utils"

	"github.com/gin-gonic/gin"
)

type ImportHandler struct {
	importQueue   *service.ImportQueue
	maxUploadSize int64
}

func NewImportHandler(importQueue *service.ImportQueue, maxUploadSize int64) *ImportHandler {
	return &ImportHandler{
		importQueue:   importQueue,
		maxUploadSize: maxUploadSize,
	}
}

// ImportRooms merges rooms from a CSV upload
func (h *ImportHandler) ImportRooms(c *gin.Context) {
	h.importCSV(c, service.ImportRooms)
}

// ImportSchedule merges lessons from a CSV upload
func (h *ImportHandler) ImportSchedule(c *gin.Context) {
	h.importCSV(c, service.ImportSchedule)
}

func (h *ImportHandler) importCSV(c *gin.Context, kind service.ImportKind) {
	body, ok := h.readUpload(c)
	if !ok {
		return
	}

	rows, err := importer.ReadCSV(bytes.NewReader(body))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	h.submit(c, service.ImportJob{Kind: kind, Rows: rows})
}

// ImportWorkbook merges rooms and schedule from an .xlsx upload
func (h *ImportHandler) ImportWorkbook(c *gin.Context) {
	body, ok := h.readUpload(c)
	if !ok {
		return
	}

	wb, err := importer.ReadWorkbook(bytes.NewReader(body))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	h.submit(c, service.ImportJob{Kind: service.ImportXLSX, Workbook: wb})
}

// ImportJSON replaces the dataset with an uploaded document
func (h *ImportHandler) ImportJSON(c *gin.Context) {
	body, ok := h.readUpload(c)
	if !ok {
		return
	}

	h.submit(c, service.ImportJob{Kind: service.ImportJSON, Document: body})
}

func (h *ImportHandler) submit(c *gin.Context, job service.ImportJob) {
	job.Actor = middleware.CurrentSession(c)

	result, err := h.importQueue.Submit(c.Request.Context(), job)
	if err != nil {
		respondError(c, err, "Failed to import")
		return
	}

	utils.SuccessResponse(c, result)
}

// readUpload returns the uploaded file from the multipart field "file", or
// the raw request body for any other content type
func (h *ImportHandler) readUpload(c *gin.Context) ([]byte, bool) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadSize)

	var r io.Reader = c.Request.Body
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		fh, err := c.FormFile("file")
		if err != nil {
			utils.ErrorResponse(c, http.StatusBadRequest, "File is required in form field 'file'")
			return nil, false
		}
		f, err := fh.Open()
		if err != nil {
			utils.ErrorResponse(c, http.StatusBadRequest, "Failed to open uploaded file")
			return nil, false
		}
		defer f.Close()
		r = f
	}

	body, err := io.ReadAll(r)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			utils.ErrorResponse(c, http.StatusRequestEntityTooLarge, fmt.Sprintf("Upload exceeds %d bytes", h.maxUploadSize))
			return nil, false
		}
		utils.ErrorResponse(c, http.StatusBadRequest, "Failed to read upload")
		return nil, false
	}
	if len(body) == 0 {
		utils.ErrorResponse(c, http.StatusBadRequest, "Upload is empty")
		return nil, false
	}

	return body, true
}
