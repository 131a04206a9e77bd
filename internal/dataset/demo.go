package dataset

import "school-navigator/internal/models"

// Demo returns the built-in dataset used when nothing has been stored yet
func Demo() models.Dataset {
	return models.Dataset{
		Floors: []models.Floor{
			{ID: "1", Name: "Перший поверх"},
			{ID: "2", Name: "Другий поверх"},
		},
		Rooms: []models.Room{
			{ID: "A101", Name: "Інформатика", X: 22, Y: 36, FloorID: "1"},
			{ID: "A102", Name: "Математика", X: 40, Y: 28, FloorID: "1"},
			{ID: "B201", Name: "Українська", X: 68, Y: 52, FloorID: "2"},
		},
		Schedule: []models.LessonSlot{
			{Day: models.Mon, TimeStart: "08:30", TimeEnd: "09:15", Subject: "Інформатика", RoomID: "A101", Teacher: "Іваненко"},
			{Day: models.Mon, TimeStart: "09:25", TimeEnd: "10:10", Subject: "Математика", RoomID: "A102", Teacher: "Петренко"},
		},
	}
}
