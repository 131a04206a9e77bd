package handler

import (
	"net/http"

	"school-navigator/internal/service"
	"school-navigator/pkg/utils"

	"github.com/gin-gonic/gin"
)

const exportFileName = "school_navigator_export.json"

type DatasetHandler struct {
	datasetService *service.DatasetService
}

func NewDatasetHandler(datasetService *service.DatasetService) *DatasetHandler {
	return &DatasetHandler{
		datasetService: datasetService,
	}
}

// GetDataset returns the whole dataset with its version
func (h *DatasetHandler) GetDataset(c *gin.Context) {
	utils.SuccessResponse(c, gin.H{
		"dataset": h.datasetService.Snapshot(),
		"version": h.datasetService.Version(),
	})
}

// Export downloads the dataset as an indented JSON document
func (h *DatasetHandler) Export(c *gin.Context) {
	data, err := h.datasetService.ExportJSON()
	if err != nil {
		respondError(c, err, "Failed to export dataset")
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+exportFileName+`"`)
	c.Data(http.StatusOK, "application/json; charset=utf-8", data)
}
