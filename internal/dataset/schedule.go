package dataset

import (
	"slices"
	"strings"

	"golang.org/x/text/cases"

	"school-navigator/internal/models"
)

// LessonsForDay returns the lessons held on day whose subject, teacher or
// room id contains query, ignoring case. An empty query keeps every lesson
// of the day. The result is sorted by timeStart as plain strings, which is
// chronological because times are zero-padded "HH:MM"; equal start times
// keep their input order.
func LessonsForDay(schedule []models.LessonSlot, day models.Day, query string) []models.LessonSlot {
	fold := cases.Fold()
	q := fold.String(query)

	lessons := []models.LessonSlot{}
	for _, s := range schedule {
		if s.Day != day {
			continue
		}
		if q != "" &&
			!strings.Contains(fold.String(s.Subject), q) &&
			!strings.Contains(fold.String(s.Teacher), q) &&
			!strings.Contains(fold.String(s.RoomID), q) {
			continue
		}
		lessons = append(lessons, s)
	}

	slices.SortStableFunc(lessons, func(a, b models.LessonSlot) int {
		return strings.Compare(a.TimeStart, b.TimeStart)
	})
	return lessons
}

// Annotate attaches each lesson's room floor, flagging lessons whose room is missing
func Annotate(lessons []models.LessonSlot, rooms []models.Room) []models.LessonView {
	byID := make(map[string]models.Room, len(rooms))
	for _, r := range rooms {
		byID[r.ID] = r
	}
	views := make([]models.LessonView, 0, len(lessons))
	for _, l := range lessons {
		view := models.LessonView{LessonSlot: l}
		if r, ok := byID[l.RoomID]; ok {
			view.FloorID = r.FloorID
			view.RoomFound = true
		}
		views = append(views, view)
	}
	return views
}
