package handler

import (
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"school-navigator/internal/middleware"
	"school-navigator/internal/service"
	"school-navigator/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// UploadURLPrefix is the path under which uploaded map images are served
const UploadURLPrefix = "/uploads"

var imageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".webp": true,
	".svg":  true,
}

type FloorHandler struct {
	datasetService *service.DatasetService
	uploadDir      string
	maxUploadSize  int64
}

func NewFloorHandler(datasetService *service.DatasetService, uploadDir string, maxUploadSize int64) *FloorHandler {
	return &FloorHandler{
		datasetService: datasetService,
		uploadDir:      uploadDir,
		maxUploadSize:  maxUploadSize,
	}
}

type CreateFloorRequest struct {
	Name string `json:"name" binding:"required"`
}

// GetFloors lists every floor
func (h *FloorHandler) GetFloors(c *gin.Context) {
	floors := h.datasetService.Snapshot().Floors
	utils.SuccessResponse(c, gin.H{
		"floors": floors,
		"count":  len(floors),
	})
}

// GetFloor returns a floor with the rooms placed on it
func (h *FloorHandler) GetFloor(c *gin.Context) {
	snapshot := h.datasetService.Snapshot()
	floor, ok := snapshot.Floor(c.Param("id"))
	if !ok {
		utils.ErrorResponse(c, http.StatusNotFound, "floor not found")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"floor": floor,
		"rooms": snapshot.RoomsOnFloor(floor.ID),
	})
}

// CreateFloor adds a floor with a generated id
func (h *FloorHandler) CreateFloor(c *gin.Context) {
	var req CreateFloorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	floor, err := h.datasetService.AddFloor(c.Request.Context(), middleware.CurrentSession(c), req.Name)
	if err != nil {
		respondError(c, err, "Failed to create floor")
		return
	}

	utils.CreatedResponse(c, floor)
}

// UploadMap stores an uploaded floor plan image and attaches it to the floor
func (h *FloorHandler) UploadMap(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadSize)

	file, err := c.FormFile("image")
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Image file is required in form field 'image'")
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !imageExtensions[ext] {
		utils.ErrorResponse(c, http.StatusBadRequest, "Unsupported image type "+ext)
		return
	}

	if err := os.MkdirAll(h.uploadDir, 0o755); err != nil {
		respondError(c, err, "Failed to store image")
		return
	}

	name := uuid.New().String() + ext
	path := filepath.Join(h.uploadDir, name)
	if err := c.SaveUploadedFile(file, path); err != nil {
		respondError(c, err, "Failed to store image")
		return
	}

	floor, err := h.datasetService.SetFloorMap(c.Request.Context(), middleware.CurrentSession(c), c.Param("id"), UploadURLPrefix+"/"+name)
	if err != nil {
		if rmErr := os.Remove(path); rmErr != nil {
			log.Printf("Warning: failed to remove orphaned upload %s: %v", path, rmErr)
		}
		respondError(c, err, "Failed to update floor map")
		return
	}

	utils.SuccessResponse(c, floor)
}

