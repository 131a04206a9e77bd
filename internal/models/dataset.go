package models

// Dataset is the persisted document: every floor, room and lesson
type Dataset struct {
	Floors   []Floor      `json:"floors" validate:"unique=ID,dive"`
	Rooms    []Room       `json:"rooms" validate:"unique=ID,dive"`
	Schedule []LessonSlot `json:"schedule" validate:"dive"`
}

// Clone returns a deep copy. The copy never holds nil slices.
func (d Dataset) Clone() Dataset {
	out := Dataset{
		Floors:   make([]Floor, len(d.Floors)),
		Rooms:    make([]Room, len(d.Rooms)),
		Schedule: make([]LessonSlot, len(d.Schedule)),
	}
	copy(out.Floors, d.Floors)
	copy(out.Rooms, d.Rooms)
	copy(out.Schedule, d.Schedule)
	return out
}

// Floor returns the floor with the given id
func (d Dataset) Floor(id string) (Floor, bool) {
	for _, f := range d.Floors {
		if f.ID == id {
			return f, true
		}
	}
	return Floor{}, false
}

// Room returns the room with the given id
func (d Dataset) Room(id string) (Room, bool) {
	for _, r := range d.Rooms {
		if r.ID == id {
			return r, true
		}
	}
	return Room{}, false
}

// RoomsOnFloor returns the rooms placed on the given floor in dataset order
func (d Dataset) RoomsOnFloor(floorID string) []Room {
	rooms := []Room{}
	for _, r := range d.Rooms {
		if r.FloorID == floorID {
			rooms = append(rooms, r)
		}
	}
	return rooms
}
