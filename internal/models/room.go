package models

// Room represents a point of interest placed on a floor map by percentage coordinates
type Room struct {
	ID      string  `json:"id" validate:"required"`
	Name    string  `json:"name"`
	X       float64 `json:"x" validate:"gte=0,lte=100"`
	Y       float64 `json:"y" validate:"gte=0,lte=100"`
	FloorID string  `json:"floorId" validate:"required"`

	// Unplaced marks a room whose coordinates could not be read on import.
	// X and Y are zero for such rooms.
	Unplaced bool `json:"unplaced,omitempty"`
}

// RoomWithLessons is a room together with the lessons scheduled in it
type RoomWithLessons struct {
	Room
	Lessons []LessonSlot `json:"lessons"`
}
