package handler

import (
	"net/http"

	"school-navigator/internal/models"
	"school-navigator/internal/service"
	"school-navigator/pkg/utils"

	"github.com/gin-gonic/gin"
)

type ScheduleHandler struct {
	datasetService *service.DatasetService
}

func NewScheduleHandler(datasetService *service.DatasetService) *ScheduleHandler {
	return &ScheduleHandler{
		datasetService: datasetService,
	}
}

// GetToday lists today's lessons matching the optional q filter
func (h *ScheduleHandler) GetToday(c *gin.Context) {
	lessons := h.datasetService.TodayLessons(c.Query("q"))
	utils.SuccessResponse(c, gin.H{
		"lessons": lessons,
		"count":   len(lessons),
	})
}

// GetByDay lists the lessons of the requested day, today when day is omitted
func (h *ScheduleHandler) GetByDay(c *gin.Context) {
	day := models.Day(c.Query("day"))
	if day == "" {
		h.GetToday(c)
		return
	}
	if !day.Valid() {
		utils.ErrorResponse(c, http.StatusBadRequest, "day must be one of Mon, Tue, Wed, Thu, Fri, Sat, Sun")
		return
	}

	lessons := h.datasetService.LessonsFor(day, c.Query("q"))
	utils.SuccessResponse(c, gin.H{
		"day":     day,
		"lessons": lessons,
		"count":   len(lessons),
	})
}
