package models

import "time"

// Day is a weekday code used by the schedule
type Day string

const (
	Mon Day = "Mon"
	Tue Day = "Tue"
	Wed Day = "Wed"
	Thu Day = "Thu"
	Fri Day = "Fri"
	Sat Day = "Sat"
	Sun Day = "Sun"
)

// Days lists the day codes indexed by time.Weekday
var Days = [7]Day{Sun, Mon, Tue, Wed, Thu, Fri, Sat}

// WeekOrder lists the day codes Monday first
var WeekOrder = [7]Day{Mon, Tue, Wed, Thu, Fri, Sat, Sun}

// DayOf returns the day code of t in t's location
func DayOf(t time.Time) Day {
	return Days[t.Weekday()]
}

// Valid reports whether d is one of the seven day codes
func (d Day) Valid() bool {
	for _, day := range Days {
		if d == day {
			return true
		}
	}
	return false
}

// LessonSlot represents a scheduled lesson in a room on a weekday.
// RoomID is a soft reference and may name a room that does not exist.
type LessonSlot struct {
	Day       Day    `json:"day" validate:"oneof=Mon Tue Wed Thu Fri Sat Sun"`
	TimeStart string `json:"timeStart" validate:"clock"`
	TimeEnd   string `json:"timeEnd" validate:"clock"`
	Subject   string `json:"subject"`
	RoomID    string `json:"roomId"`
	Teacher   string `json:"teacher"`
}

// LessonView annotates a lesson with the floor of its room for list display
type LessonView struct {
	LessonSlot
	FloorID   string `json:"floorId,omitempty"`
	RoomFound bool   `json:"roomFound"`
}
