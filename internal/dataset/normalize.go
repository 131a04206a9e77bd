package dataset

import (
	"math"
	"strconv"
	"strings"

	"school-navigator/internal/models"
)

// DefaultFloorID is assigned to imported rooms without a floor column
const DefaultFloorID = "1"

// NormalizeRoomRows converts imported rows into rooms, preserving row order.
// Rooms whose x or y is missing or not a number are kept and marked Unplaced.
func NormalizeRoomRows(rows []Row) []models.Room {
	rooms := make([]models.Room, 0, len(rows))
	for _, row := range rows {
		room := models.Room{
			ID:      strings.TrimSpace(row.first("id", "room")),
			Name:    strings.TrimSpace(row.first("name", "title", "room")),
			FloorID: row.first("floor"),
		}
		if room.FloorID == "" {
			room.FloorID = DefaultFloorID
		}

		x, okX := parseCoordinate(row["x"])
		y, okY := parseCoordinate(row["y"])
		if okX && okY {
			room.X, room.Y = x, y
		} else {
			room.Unplaced = true
		}
		rooms = append(rooms, room)
	}
	return rooms
}

// NormalizeScheduleRows converts imported rows into lesson slots, preserving row order
func NormalizeScheduleRows(rows []Row) []models.LessonSlot {
	slots := make([]models.LessonSlot, 0, len(rows))
	for _, row := range rows {
		slots = append(slots, models.LessonSlot{
			Day:       models.Day(row.first("day", "Day")),
			TimeStart: row.first("timeStart", "start"),
			TimeEnd:   row.first("timeEnd", "end"),
			Subject:   row.first("subject", "lesson"),
			RoomID:    row.first("roomId", "room", "cabinet"),
			Teacher:   row.first("teacher"),
		})
	}
	return slots
}

func parseCoordinate(raw string) (float64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
