package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"log"
	"math/big"
	"strings"
	"sync"
	"time"

	"school-navigator/internal/dataset"
	"school-navigator/internal/importer"
	"school-navigator/internal/models"
)

// DatasetStore persists the whole dataset
type DatasetStore interface {
	Load(ctx context.Context) (models.Dataset, int64, bool)
	Save(ctx context.Context, d models.Dataset, version int64) error
}

// AuditLogger records committed changes
type AuditLogger interface {
	CreateAuditLog(ctx context.Context, sessionID, action, details string) error
}

// DatasetService owns the in-memory dataset. Every mutation goes through
// Update, which saves before committing so a failed write changes nothing.
type DatasetService struct {
	store DatasetStore
	audit AuditLogger
	loc   *time.Location
	now   func() time.Time

	mu      sync.RWMutex
	data    models.Dataset
	version int64
}

// ImportResult summarizes an applied import
type ImportResult struct {
	Rooms           int      `json:"rooms"`
	Lessons         int      `json:"lessons"`
	ReplacedRooms   []string `json:"replacedRooms"`
	ReplacedLessons int      `json:"replacedLessons"`
	ScheduleSkipped bool     `json:"scheduleSkipped,omitempty"`
	Version         int64    `json:"version"`
}

// PlaceRoomParams describes a click on a floor map
type PlaceRoomParams struct {
	RoomID   string       `json:"roomId" binding:"required"`
	Name     string       `json:"name"`
	FloorID  string       `json:"floorId" binding:"required"`
	PointerX float64      `json:"pointerX"`
	PointerY float64      `json:"pointerY"`
	Rect     dataset.Rect `json:"rect"`
}

func NewDatasetService(store DatasetStore, audit AuditLogger, loc *time.Location) *DatasetService {
	if loc == nil {
		loc = time.Local
	}
	return &DatasetService{
		store: store,
		audit: audit,
		loc:   loc,
		now:   time.Now,
		data:  dataset.Demo(),
	}
}

// Init loads the stored dataset. When nothing usable is stored the demo
// dataset stays in place and is written on the first mutation.
func (s *DatasetService) Init(ctx context.Context) {
	d, version, ok := s.store.Load(ctx)
	if !ok {
		log.Println("No stored dataset found, starting from demo data")
		return
	}
	if err := dataset.Validate(d); err != nil {
		log.Printf("Warning: stored dataset version %d ignored, it does not validate: %v; starting from demo data", version, err)
		return
	}

	s.mu.Lock()
	s.data = d
	s.version = version
	s.mu.Unlock()
	log.Printf("Loaded dataset version %d (%d floors, %d rooms, %d lessons)",
		version, len(d.Floors), len(d.Rooms), len(d.Schedule))
}

// Snapshot returns a deep copy of the current dataset
func (s *DatasetService) Snapshot() models.Dataset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.Clone()
}

// Version returns the version of the last committed dataset
func (s *DatasetService) Version() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Update applies fn to a copy of the dataset, validates and saves the copy
// and only then commits it. fn returns the details written to the audit log.
func (s *DatasetService) Update(ctx context.Context, actor *models.Session, action string, fn func(d *models.Dataset) (string, error)) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.data.Clone()
	details, err := fn(&next)
	if err != nil {
		return s.version, err
	}
	next = next.Clone()
	if err := dataset.Validate(next); err != nil {
		return s.version, err
	}

	version := s.version + 1
	if err := s.store.Save(ctx, next, version); err != nil {
		log.Printf("Error saving dataset for %s: %v", action, err)
		return s.version, fmt.Errorf("%w: %v", ErrPersist, err)
	}

	s.data = next
	s.version = version

	if s.audit != nil {
		if err := s.audit.CreateAuditLog(ctx, sessionID(actor), action, details); err != nil {
			log.Printf("Warning: failed to write audit log for %s: %v", action, err)
		}
	}
	return version, nil
}

// AddFloor appends a floor with a generated id
func (s *DatasetService) AddFloor(ctx context.Context, actor *models.Session, name string) (models.Floor, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Floor{}, fieldError("name", "is required")
	}

	var floor models.Floor
	_, err := s.Update(ctx, actor, "floor_add", func(d *models.Dataset) (string, error) {
		id, err := newFloorID(d)
		if err != nil {
			return "", err
		}
		floor = models.Floor{ID: id, Name: name}
		d.Floors = append(d.Floors, floor)
		return fmt.Sprintf("Added floor %s (%s)", id, name), nil
	})
	return floor, err
}

// SetFloorMap attaches or replaces the map image reference of a floor
func (s *DatasetService) SetFloorMap(ctx context.Context, actor *models.Session, floorID, ref string) (models.Floor, error) {
	var floor models.Floor
	_, err := s.Update(ctx, actor, "floor_map", func(d *models.Dataset) (string, error) {
		for i := range d.Floors {
			if d.Floors[i].ID == floorID {
				d.Floors[i].MapImageRef = ref
				floor = d.Floors[i]
				return fmt.Sprintf("Set map of floor %s to %s", floorID, ref), nil
			}
		}
		return "", fmt.Errorf("floor %s: %w", floorID, ErrNotFound)
	})
	return floor, err
}

// PlaceRoom moves an existing room to the clicked point, or creates the
// room there when the id is new. A new room without a name is named by its id.
func (s *DatasetService) PlaceRoom(ctx context.Context, actor *models.Session, p PlaceRoomParams) (models.Room, error) {
	id := strings.TrimSpace(p.RoomID)
	if id == "" {
		return models.Room{}, fieldError("roomId", "is required")
	}
	x, y := dataset.PointToPercent(p.PointerX, p.PointerY, p.Rect)
	x, y = dataset.RoundPercent(x), dataset.RoundPercent(y)

	var room models.Room
	_, err := s.Update(ctx, actor, "room_place", func(d *models.Dataset) (string, error) {
		for i := range d.Rooms {
			if d.Rooms[i].ID == id {
				d.Rooms[i].X, d.Rooms[i].Y = x, y
				d.Rooms[i].FloorID = p.FloorID
				d.Rooms[i].Unplaced = false
				room = d.Rooms[i]
				return fmt.Sprintf("Moved room %s to floor %s at (%.2f, %.2f)", id, p.FloorID, x, y), nil
			}
		}

		name := strings.TrimSpace(p.Name)
		if name == "" {
			name = id
		}
		room = models.Room{ID: id, Name: name, X: x, Y: y, FloorID: p.FloorID}
		d.Rooms = append(d.Rooms, room)
		return fmt.Sprintf("Created room %s on floor %s at (%.2f, %.2f)", id, p.FloorID, x, y), nil
	})
	return room, err
}

// RenameRoom changes the display name of a room
func (s *DatasetService) RenameRoom(ctx context.Context, actor *models.Session, id, name string) (models.Room, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Room{}, fieldError("name", "is required")
	}

	var room models.Room
	_, err := s.Update(ctx, actor, "room_rename", func(d *models.Dataset) (string, error) {
		for i := range d.Rooms {
			if d.Rooms[i].ID == id {
				old := d.Rooms[i].Name
				d.Rooms[i].Name = name
				room = d.Rooms[i]
				return fmt.Sprintf("Renamed room %s from %q to %q", id, old, name), nil
			}
		}
		return "", fmt.Errorf("room %s: %w", id, ErrNotFound)
	})
	return room, err
}

// DeleteRoom removes a room. Only admin sessions may delete; lessons held in
// the room are kept and show up as lessons without a room.
func (s *DatasetService) DeleteRoom(ctx context.Context, actor *models.Session, id string) error {
	if !actor.IsAdmin() {
		return ErrPermission
	}

	_, err := s.Update(ctx, actor, "room_delete", func(d *models.Dataset) (string, error) {
		for i := range d.Rooms {
			if d.Rooms[i].ID == id {
				d.Rooms = append(d.Rooms[:i], d.Rooms[i+1:]...)
				return fmt.Sprintf("Deleted room %s", id), nil
			}
		}
		return "", fmt.Errorf("room %s: %w", id, ErrNotFound)
	})
	return err
}

// CenterOnRoom returns the scroll offsets that center the room's marker in the viewport
func (s *DatasetService) CenterOnRoom(id string, container, viewport dataset.Size) (float64, float64, error) {
	s.mu.RLock()
	room, ok := s.data.Room(id)
	s.mu.RUnlock()
	if !ok {
		return 0, 0, fmt.Errorf("room %s: %w", id, ErrNotFound)
	}
	left, top := dataset.PercentToScrollOffset(room.X, room.Y, container, viewport)
	return left, top, nil
}

// RoomByID returns a room with every lesson held in it, ordered by day and start time
func (s *DatasetService) RoomByID(id string) (models.RoomWithLessons, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	room, ok := s.data.Room(id)
	if !ok {
		return models.RoomWithLessons{}, fmt.Errorf("room %s: %w", id, ErrNotFound)
	}

	lessons := []models.LessonSlot{}
	for _, day := range models.WeekOrder {
		for _, l := range dataset.LessonsForDay(s.data.Schedule, day, "") {
			if l.RoomID == id {
				lessons = append(lessons, l)
			}
		}
	}
	return models.RoomWithLessons{Room: room, Lessons: lessons}, nil
}

// TodayLessons returns today's lessons matching query, today being
// evaluated in the service's time zone
func (s *DatasetService) TodayLessons(query string) []models.LessonView {
	return s.LessonsFor(models.DayOf(s.now().In(s.loc)), query)
}

// LessonsFor returns the lessons of day matching query, each annotated with its room's floor
func (s *DatasetService) LessonsFor(day models.Day, query string) []models.LessonView {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return dataset.Annotate(dataset.LessonsForDay(s.data.Schedule, day, query), s.data.Rooms)
}

// ImportRooms merges room rows into the dataset
func (s *DatasetService) ImportRooms(ctx context.Context, actor *models.Session, rows []dataset.Row) (ImportResult, error) {
	rooms := dataset.NormalizeRoomRows(rows)
	var result ImportResult
	version, err := s.Update(ctx, actor, "import_rooms", func(d *models.Dataset) (string, error) {
		result = mergeRooms(d, rooms)
		return result.summary(), nil
	})
	result.Version = version
	return result, err
}

// ImportSchedule merges lesson rows into the dataset
func (s *DatasetService) ImportSchedule(ctx context.Context, actor *models.Session, rows []dataset.Row) (ImportResult, error) {
	lessons := dataset.NormalizeScheduleRows(rows)
	var result ImportResult
	version, err := s.Update(ctx, actor, "import_schedule", func(d *models.Dataset) (string, error) {
		result = mergeSchedule(d, lessons)
		return result.summary(), nil
	})
	result.Version = version
	return result, err
}

// ImportWorkbook merges the rooms and, when present, the schedule of a
// workbook in one update
func (s *DatasetService) ImportWorkbook(ctx context.Context, actor *models.Session, wb *importer.Workbook) (ImportResult, error) {
	rooms := dataset.NormalizeRoomRows(wb.Rooms)
	var lessons []models.LessonSlot
	if wb.HasSchedule {
		lessons = dataset.NormalizeScheduleRows(wb.Schedule)
	}

	var result ImportResult
	version, err := s.Update(ctx, actor, "import_xlsx", func(d *models.Dataset) (string, error) {
		result = mergeRooms(d, rooms)
		if wb.HasSchedule {
			sched := mergeSchedule(d, lessons)
			result.Lessons = sched.Lessons
			result.ReplacedLessons = sched.ReplacedLessons
		} else {
			result.ScheduleSkipped = true
		}
		return result.summary(), nil
	})
	result.Version = version
	return result, err
}

// ImportJSON replaces the whole dataset with a validated document
func (s *DatasetService) ImportJSON(ctx context.Context, actor *models.Session, data []byte) (ImportResult, error) {
	incoming, err := dataset.Decode(data)
	if err != nil {
		return ImportResult{}, err
	}

	var result ImportResult
	version, err := s.Update(ctx, actor, "import_json", func(d *models.Dataset) (string, error) {
		*d = incoming
		result = ImportResult{Rooms: len(incoming.Rooms), Lessons: len(incoming.Schedule), ReplacedRooms: []string{}}
		return fmt.Sprintf("Replaced dataset: %d floors, %d rooms, %d lessons",
			len(incoming.Floors), len(incoming.Rooms), len(incoming.Schedule)), nil
	})
	result.Version = version
	return result, err
}

// ExportJSON renders the current dataset as an indented JSON document
func (s *DatasetService) ExportJSON() ([]byte, error) {
	return dataset.Encode(s.Snapshot())
}

func mergeRooms(d *models.Dataset, rooms []models.Room) ImportResult {
	replaced := dataset.ShadowedRooms(d.Rooms, rooms)
	d.Rooms = dataset.MergeRooms(d.Rooms, rooms)
	return ImportResult{Rooms: len(rooms), ReplacedRooms: replaced}
}

func mergeSchedule(d *models.Dataset, lessons []models.LessonSlot) ImportResult {
	replaced := dataset.ShadowedLessons(d.Schedule, lessons)
	d.Schedule = dataset.MergeSchedule(d.Schedule, lessons)
	return ImportResult{Lessons: len(lessons), ReplacedRooms: []string{}, ReplacedLessons: replaced}
}

func (r ImportResult) summary() string {
	msg := fmt.Sprintf("Imported %d rooms, %d lessons", r.Rooms, r.Lessons)
	if len(r.ReplacedRooms) > 0 {
		msg += fmt.Sprintf("; replaced rooms %s", strings.Join(r.ReplacedRooms, ","))
	}
	if r.ReplacedLessons > 0 {
		msg += fmt.Sprintf("; replaced %d lessons", r.ReplacedLessons)
	}
	return msg
}

const floorIDAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// newFloorID returns a random 6 character id not yet used by a floor
func newFloorID(d *models.Dataset) (string, error) {
	base := big.NewInt(int64(len(floorIDAlphabet)))
	for {
		var b strings.Builder
		for i := 0; i < 6; i++ {
			n, err := rand.Int(rand.Reader, base)
			if err != nil {
				return "", fmt.Errorf("generate floor id: %w", err)
			}
			b.WriteByte(floorIDAlphabet[n.Int64()])
		}
		if _, exists := d.Floor(b.String()); !exists {
			return b.String(), nil
		}
	}
}

func fieldError(field, message string) *dataset.ValidationError {
	return &dataset.ValidationError{FieldErrors: map[string]string{field: message}}
}

func sessionID(s *models.Session) string {
	if s == nil {
		return ""
	}
	return s.ID
}
