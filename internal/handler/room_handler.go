package handler

import (
	"net/http"

	"school-navigator/internal/dataset"
	"school-navigator/internal/middleware"
	"school-navigator/internal/models"
	"school-navigator/internal/service"
	"school-navigator/pkg/utils"

	"github.com/gin-gonic/gin"
)

type RoomHandler struct {
	datasetService *service.DatasetService
}

func NewRoomHandler(datasetService *service.DatasetService) *RoomHandler {
	return &RoomHandler{
		datasetService: datasetService,
	}
}

type RenameRoomRequest struct {
	Name string `json:"name" binding:"required"`
}

type SizeRequest struct {
	Width  float64 `json:"width" binding:"gte=0"`
	Height float64 `json:"height" binding:"gte=0"`
}

func (r SizeRequest) toSize() dataset.Size {
	return dataset.Size{Width: r.Width, Height: r.Height}
}

type CenterRoomRequest struct {
	Container SizeRequest `json:"container"`
	Viewport  SizeRequest `json:"viewport"`
}

// GetRooms lists rooms, optionally only those on one floor
func (h *RoomHandler) GetRooms(c *gin.Context) {
	rooms := floorRooms(h.datasetService.Snapshot(), c.Query("floor"))
	utils.SuccessResponse(c, gin.H{
		"rooms": rooms,
		"count": len(rooms),
	})
}

// GetRoom returns a room and the lessons held in it
func (h *RoomHandler) GetRoom(c *gin.Context) {
	room, err := h.datasetService.RoomByID(c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to fetch room")
		return
	}

	utils.SuccessResponse(c, room)
}

// PlaceRoom creates or moves a room to the clicked point of a floor map
func (h *RoomHandler) PlaceRoom(c *gin.Context) {
	var req service.PlaceRoomParams
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	room, err := h.datasetService.PlaceRoom(c.Request.Context(), middleware.CurrentSession(c), req)
	if err != nil {
		respondError(c, err, "Failed to place room")
		return
	}

	utils.SuccessResponse(c, room)
}

// RenameRoom changes a room's display name
func (h *RoomHandler) RenameRoom(c *gin.Context) {
	var req RenameRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	room, err := h.datasetService.RenameRoom(c.Request.Context(), middleware.CurrentSession(c), c.Param("id"), req.Name)
	if err != nil {
		respondError(c, err, "Failed to rename room")
		return
	}

	utils.SuccessResponse(c, room)
}

// DeleteRoom removes a room (admin only)
func (h *RoomHandler) DeleteRoom(c *gin.Context) {
	if err := h.datasetService.DeleteRoom(c.Request.Context(), middleware.CurrentSession(c), c.Param("id")); err != nil {
		respondError(c, err, "Failed to delete room")
		return
	}

	utils.MessageResponse(c, "Room deleted successfully")
}

// CenterRoom returns the scroll offsets that bring a room into the middle of the viewport
func (h *RoomHandler) CenterRoom(c *gin.Context) {
	var req CenterRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	left, top, err := h.datasetService.CenterOnRoom(c.Param("id"), req.Container.toSize(), req.Viewport.toSize())
	if err != nil {
		respondError(c, err, "Failed to center room")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"scrollLeft": left,
		"scrollTop":  top,
	})
}

// floorRooms returns every room, or only those on floorID when it is set
func floorRooms(d models.Dataset, floorID string) []models.Room {
	if floorID == "" {
		return d.Rooms
	}
	return d.RoomsOnFloor(floorID)
}
