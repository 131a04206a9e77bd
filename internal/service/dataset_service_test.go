package service

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"school-navigator/internal/dataset"
	"school-navigator/internal/importer"
	"school-navigator/internal/models"
)

func newTestDatasetService(t *testing.T) (*DatasetService, *fakeStore, *fakeAudit) {
	t.Helper()
	store := newFakeStore()
	audit := &fakeAudit{}
	svc := NewDatasetService(store, audit, time.UTC)
	svc.Init(context.Background())
	return svc, store, audit
}

func TestDatasetServiceInit(t *testing.T) {
	t.Run("falls back to demo data", func(t *testing.T) {
		svc, _, _ := newTestDatasetService(t)
		if !reflect.DeepEqual(svc.Snapshot(), dataset.Demo()) {
			t.Fatalf("Snapshot() = %+v, want demo dataset", svc.Snapshot())
		}
		if svc.Version() != 0 {
			t.Errorf("Version() = %d, want 0", svc.Version())
		}
	})

	t.Run("loads the stored dataset", func(t *testing.T) {
		store := newFakeStore()
		stored := models.Dataset{
			Floors:   []models.Floor{{ID: "9", Name: "Attic"}},
			Rooms:    []models.Room{},
			Schedule: []models.LessonSlot{},
		}
		store.stored = &stored
		store.version = 7

		svc := NewDatasetService(store, nil, time.UTC)
		svc.Init(context.Background())
		if !reflect.DeepEqual(svc.Snapshot(), stored) {
			t.Fatalf("Snapshot() = %+v, want %+v", svc.Snapshot(), stored)
		}
		if svc.Version() != 7 {
			t.Errorf("Version() = %d, want 7", svc.Version())
		}
	})

	t.Run("ignores a stored dataset that does not validate", func(t *testing.T) {
		store := newFakeStore()
		stored := models.Dataset{
			Floors:   []models.Floor{},
			Rooms:    []models.Room{{ID: "A101", X: 1, Y: 1}},
			Schedule: []models.LessonSlot{},
		}
		store.stored = &stored
		store.version = 3

		svc := NewDatasetService(store, nil, time.UTC)
		svc.Init(context.Background())
		if !reflect.DeepEqual(svc.Snapshot(), dataset.Demo()) {
			t.Fatalf("Snapshot() = %+v, want demo dataset", svc.Snapshot())
		}
		if svc.Version() != 0 {
			t.Errorf("Version() = %d, want 0", svc.Version())
		}

		if _, err := svc.AddFloor(context.Background(), viewer, "Second"); err != nil {
			t.Fatalf("AddFloor() after ignored dataset error = %v", err)
		}
		if store.version != 1 {
			t.Errorf("stored version = %d, want 1", store.version)
		}
	})
}

func TestSnapshotIsACopy(t *testing.T) {
	svc, _, _ := newTestDatasetService(t)
	snap := svc.Snapshot()
	snap.Rooms[0].Name = "changed"
	if svc.Snapshot().Rooms[0].Name == "changed" {
		t.Fatal("mutating a snapshot changed the service state")
	}
}

func TestPlaceRoom(t *testing.T) {
	ctx := context.Background()
	rect := dataset.Rect{Left: 100, Top: 50, Width: 300, Height: 200}

	t.Run("creates a new room named by its id", func(t *testing.T) {
		svc, store, audit := newTestDatasetService(t)

		room, err := svc.PlaceRoom(ctx, viewer, PlaceRoomParams{RoomID: " C301 ", FloorID: "2", PointerX: 200, PointerY: 150, Rect: rect})
		if err != nil {
			t.Fatalf("PlaceRoom() error = %v", err)
		}
		want := models.Room{ID: "C301", Name: "C301", X: 33.33, Y: 50, FloorID: "2"}
		if room != want {
			t.Fatalf("PlaceRoom() = %+v, want %+v", room, want)
		}
		if got, _ := svc.Snapshot().Room("C301"); got != want {
			t.Errorf("stored room = %+v, want %+v", got, want)
		}
		if svc.Version() != 1 || store.version != 1 {
			t.Errorf("version = %d (stored %d), want 1", svc.Version(), store.version)
		}
		if got := audit.actions(); !reflect.DeepEqual(got, []string{"room_place"}) {
			t.Errorf("audit actions = %v", got)
		}
	})

	t.Run("moves an existing room and keeps its name", func(t *testing.T) {
		svc, _, _ := newTestDatasetService(t)

		room, err := svc.PlaceRoom(ctx, viewer, PlaceRoomParams{RoomID: "A101", Name: "ignored", FloorID: "2", PointerX: 0, PointerY: 1000, Rect: rect})
		if err != nil {
			t.Fatalf("PlaceRoom() error = %v", err)
		}
		want := models.Room{ID: "A101", Name: "Інформатика", X: 0, Y: 100, FloorID: "2"}
		if room != want {
			t.Fatalf("PlaceRoom() = %+v, want %+v", room, want)
		}
		if n := len(svc.Snapshot().Rooms); n != 3 {
			t.Errorf("room count = %d, want 3", n)
		}
	})

	t.Run("rejects an unknown floor", func(t *testing.T) {
		svc, _, _ := newTestDatasetService(t)

		_, err := svc.PlaceRoom(ctx, viewer, PlaceRoomParams{RoomID: "Z1", FloorID: "nope", Rect: rect})
		var verr *dataset.ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("PlaceRoom() error = %v, want ValidationError", err)
		}
		if svc.Version() != 0 {
			t.Errorf("Version() = %d after rejected placement", svc.Version())
		}
	})
}

func TestAddFloorAndSetFloorMap(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestDatasetService(t)

	floor, err := svc.AddFloor(ctx, viewer, "  Третій поверх ")
	if err != nil {
		t.Fatalf("AddFloor() error = %v", err)
	}
	if len(floor.ID) != 6 || floor.Name != "Третій поверх" {
		t.Fatalf("AddFloor() = %+v", floor)
	}
	for _, c := range floor.ID {
		if !('0' <= c && c <= '9' || 'a' <= c && c <= 'z') {
			t.Fatalf("floor id %q has character %q", floor.ID, c)
		}
	}

	if _, err := svc.AddFloor(ctx, viewer, "  "); err == nil {
		t.Error("AddFloor() with blank name succeeded")
	}

	updated, err := svc.SetFloorMap(ctx, viewer, floor.ID, "/uploads/plan.png")
	if err != nil {
		t.Fatalf("SetFloorMap() error = %v", err)
	}
	if updated.MapImageRef != "/uploads/plan.png" {
		t.Errorf("MapImageRef = %q", updated.MapImageRef)
	}

	if _, err := svc.SetFloorMap(ctx, viewer, "missing", "/uploads/x.png"); !errors.Is(err, ErrNotFound) {
		t.Errorf("SetFloorMap() unknown floor error = %v, want ErrNotFound", err)
	}
}

func TestRenameRoom(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestDatasetService(t)

	room, err := svc.RenameRoom(ctx, viewer, "A102", "Алгебра")
	if err != nil {
		t.Fatalf("RenameRoom() error = %v", err)
	}
	if room.Name != "Алгебра" {
		t.Errorf("Name = %q", room.Name)
	}
	if _, err := svc.RenameRoom(ctx, viewer, "Z9", "x"); !errors.Is(err, ErrNotFound) {
		t.Errorf("RenameRoom() unknown room error = %v, want ErrNotFound", err)
	}
}

func TestDeleteRoom(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		actor   *models.Session
		id      string
		wantErr error
	}{
		{"anonymous", nil, "A101", ErrPermission},
		{"viewer", viewer, "A101", ErrPermission},
		{"admin unknown room", admin, "Z9", ErrNotFound},
		{"admin", admin, "A101", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, _ := newTestDatasetService(t)
			err := svc.DeleteRoom(ctx, tt.actor, tt.id)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("DeleteRoom() error = %v, want %v", err, tt.wantErr)
			}
			_, exists := svc.Snapshot().Room("A101")
			if exists == (tt.wantErr == nil) {
				t.Errorf("room A101 exists = %v after DeleteRoom", exists)
			}
		})
	}

	t.Run("lessons of a deleted room are kept", func(t *testing.T) {
		svc, _, _ := newTestDatasetService(t)
		if err := svc.DeleteRoom(ctx, admin, "A101"); err != nil {
			t.Fatalf("DeleteRoom() error = %v", err)
		}
		views := svc.LessonsFor(models.Mon, "")
		if len(views) != 2 || views[0].RoomFound {
			t.Fatalf("LessonsFor() = %+v, want first lesson without room", views)
		}
	})
}

func TestFailedSaveLeavesStateUnchanged(t *testing.T) {
	ctx := context.Background()
	svc, store, audit := newTestDatasetService(t)
	before := svc.Snapshot()
	store.failSave = true

	_, err := svc.RenameRoom(ctx, viewer, "A101", "Нова назва")
	if !errors.Is(err, ErrPersist) {
		t.Fatalf("RenameRoom() error = %v, want ErrPersist", err)
	}
	if !reflect.DeepEqual(svc.Snapshot(), before) {
		t.Errorf("Snapshot() changed after failed save")
	}
	if svc.Version() != 0 {
		t.Errorf("Version() = %d, want 0", svc.Version())
	}
	if len(audit.actions()) != 0 {
		t.Errorf("audit written for failed save: %v", audit.actions())
	}
}

func TestCenterOnRoom(t *testing.T) {
	svc, _, _ := newTestDatasetService(t)

	left, top, err := svc.CenterOnRoom("B201", dataset.Size{Width: 1000, Height: 500}, dataset.Size{Width: 400, Height: 300})
	if err != nil {
		t.Fatalf("CenterOnRoom() error = %v", err)
	}
	if left != 480 || top != 110 {
		t.Errorf("CenterOnRoom() = (%v, %v), want (480, 110)", left, top)
	}

	if _, _, err := svc.CenterOnRoom("nope", dataset.Size{}, dataset.Size{}); !errors.Is(err, ErrNotFound) {
		t.Errorf("CenterOnRoom() error = %v, want ErrNotFound", err)
	}
}

func TestRoomByID(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestDatasetService(t)

	rows := []dataset.Row{
		{"day": "Fri", "start": "12:00", "end": "12:45", "subject": "Фізика", "room": "A101"},
		{"day": "Mon", "start": "07:45", "end": "08:30", "subject": "Хімія", "room": "A101"},
	}
	if _, err := svc.ImportSchedule(ctx, viewer, rows); err != nil {
		t.Fatalf("ImportSchedule() error = %v", err)
	}

	room, err := svc.RoomByID("A101")
	if err != nil {
		t.Fatalf("RoomByID() error = %v", err)
	}
	var got []string
	for _, l := range room.Lessons {
		got = append(got, string(l.Day)+" "+l.TimeStart)
	}
	want := []string{"Mon 07:45", "Mon 08:30", "Fri 12:00"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("lessons = %v, want %v", got, want)
	}

	if _, err := svc.RoomByID("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("RoomByID() error = %v, want ErrNotFound", err)
	}
}

func TestTodayLessons(t *testing.T) {
	svc, _, _ := newTestDatasetService(t)
	// 2024-01-01 is a Monday
	svc.now = func() time.Time { return time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC) }

	views := svc.TodayLessons("петренко")
	if len(views) != 1 || views[0].RoomID != "A102" || views[0].FloorID != "1" || !views[0].RoomFound {
		t.Fatalf("TodayLessons() = %+v", views)
	}

	svc.now = func() time.Time { return time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC) }
	if views := svc.TodayLessons(""); len(views) != 0 {
		t.Errorf("TodayLessons() on Tuesday = %+v, want none", views)
	}
}

func TestImportRooms(t *testing.T) {
	ctx := context.Background()

	t.Run("merges and reports replaced rooms", func(t *testing.T) {
		svc, _, audit := newTestDatasetService(t)
		rows := []dataset.Row{
			{"id": "A101", "name": "Лабораторія", "x": "10", "y": "20", "floor": "1"},
			{"id": "C1", "name": "Спортзал", "x": "bad", "y": "5", "floor": "2"},
		}

		result, err := svc.ImportRooms(ctx, viewer, rows)
		if err != nil {
			t.Fatalf("ImportRooms() error = %v", err)
		}
		if result.Rooms != 2 || !reflect.DeepEqual(result.ReplacedRooms, []string{"A101"}) || result.Version != 1 {
			t.Fatalf("ImportRooms() = %+v", result)
		}

		snap := svc.Snapshot()
		gotIDs := []string{}
		for _, r := range snap.Rooms {
			gotIDs = append(gotIDs, r.ID)
		}
		if want := []string{"A102", "B201", "A101", "C1"}; !reflect.DeepEqual(gotIDs, want) {
			t.Errorf("room order = %v, want %v", gotIDs, want)
		}
		if c1, _ := snap.Room("C1"); !c1.Unplaced {
			t.Errorf("room C1 = %+v, want unplaced", c1)
		}
		if got := audit.actions(); !reflect.DeepEqual(got, []string{"import_rooms"}) {
			t.Errorf("audit actions = %v", got)
		}
	})

	t.Run("rejects rooms on unknown floors", func(t *testing.T) {
		svc, _, _ := newTestDatasetService(t)
		before := svc.Snapshot()

		_, err := svc.ImportRooms(ctx, viewer, []dataset.Row{{"id": "Q1", "x": "1", "y": "1", "floor": "77"}})
		var verr *dataset.ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("ImportRooms() error = %v, want ValidationError", err)
		}
		if !reflect.DeepEqual(svc.Snapshot(), before) {
			t.Error("dataset changed after rejected import")
		}
	})
}

func TestImportSchedule(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestDatasetService(t)

	rows := []dataset.Row{
		{"Day": "Mon", "timeStart": "08:30", "timeEnd": "09:15", "lesson": "Біологія", "cabinet": "A101", "teacher": "Коваль"},
	}
	result, err := svc.ImportSchedule(ctx, viewer, rows)
	if err != nil {
		t.Fatalf("ImportSchedule() error = %v", err)
	}
	if result.Lessons != 1 || result.ReplacedLessons != 1 {
		t.Fatalf("ImportSchedule() = %+v", result)
	}
	if n := len(svc.Snapshot().Schedule); n != 2 {
		t.Errorf("schedule length = %d, want 2", n)
	}

	_, err = svc.ImportSchedule(ctx, viewer, []dataset.Row{{"day": "Someday", "start": "8:30"}})
	var verr *dataset.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("ImportSchedule() error = %v, want ValidationError", err)
	}
}

func TestImportWorkbook(t *testing.T) {
	ctx := context.Background()

	t.Run("rooms and schedule in one update", func(t *testing.T) {
		svc, store, _ := newTestDatasetService(t)
		wb := &importer.Workbook{
			Rooms:       []dataset.Row{{"id": "D1", "x": "1", "y": "2"}},
			Schedule:    []dataset.Row{{"day": "Tue", "start": "10:00", "end": "10:45", "room": "D1"}},
			HasSchedule: true,
		}
		result, err := svc.ImportWorkbook(ctx, viewer, wb)
		if err != nil {
			t.Fatalf("ImportWorkbook() error = %v", err)
		}
		if result.Rooms != 1 || result.Lessons != 1 || result.ScheduleSkipped {
			t.Fatalf("ImportWorkbook() = %+v", result)
		}
		if store.saves != 1 {
			t.Errorf("saves = %d, want 1", store.saves)
		}
	})

	t.Run("missing schedule sheet is skipped", func(t *testing.T) {
		svc, _, _ := newTestDatasetService(t)
		wb := &importer.Workbook{Rooms: []dataset.Row{{"id": "D1", "x": "1", "y": "2"}}}
		result, err := svc.ImportWorkbook(ctx, viewer, wb)
		if err != nil {
			t.Fatalf("ImportWorkbook() error = %v", err)
		}
		if !result.ScheduleSkipped || len(svc.Snapshot().Schedule) != 2 {
			t.Fatalf("ImportWorkbook() = %+v", result)
		}
	})

	t.Run("an invalid schedule rejects the rooms too", func(t *testing.T) {
		svc, _, _ := newTestDatasetService(t)
		before := svc.Snapshot()
		wb := &importer.Workbook{
			Rooms:       []dataset.Row{{"id": "D1", "x": "1", "y": "2"}},
			Schedule:    []dataset.Row{{"day": "Tue", "start": "25:00", "end": "10:45", "room": "D1"}},
			HasSchedule: true,
		}
		if _, err := svc.ImportWorkbook(ctx, viewer, wb); err == nil {
			t.Fatal("ImportWorkbook() succeeded with invalid schedule")
		}
		if !reflect.DeepEqual(svc.Snapshot(), before) {
			t.Error("dataset changed after rejected workbook")
		}
	})
}

func TestImportJSON(t *testing.T) {
	ctx := context.Background()

	t.Run("replaces the dataset", func(t *testing.T) {
		svc, _, _ := newTestDatasetService(t)
		doc := []byte(`{"floors":[{"id":"f","name":"F"}],"rooms":[{"id":"r","name":"R","x":1,"y":2,"floorId":"f"}],"schedule":[]}`)

		result, err := svc.ImportJSON(ctx, viewer, doc)
		if err != nil {
			t.Fatalf("ImportJSON() error = %v", err)
		}
		if result.Rooms != 1 || result.Version != 1 {
			t.Fatalf("ImportJSON() = %+v", result)
		}
		want := models.Dataset{
			Floors:   []models.Floor{{ID: "f", Name: "F"}},
			Rooms:    []models.Room{{ID: "r", Name: "R", X: 1, Y: 2, FloorID: "f"}},
			Schedule: []models.LessonSlot{},
		}
		if !reflect.DeepEqual(svc.Snapshot(), want) {
			t.Errorf("Snapshot() = %+v, want %+v", svc.Snapshot(), want)
		}
	})

	rejected := []struct {
		name string
		doc  string
	}{
		{"unknown floor", `{"floors":[{"id":"f","name":"F"}],"rooms":[{"id":"r","x":1,"y":2,"floorId":"g"}],"schedule":[]}`},
		{"bad day", `{"floors":[{"id":"f","name":"F"}],"rooms":[],"schedule":[{"day":"Funday","timeStart":"08:00","timeEnd":"09:00","roomId":"r"}]}`},
		{"duplicate room id", `{"floors":[{"id":"f","name":"F"}],"rooms":[{"id":"r","x":1,"y":2,"floorId":"f"},{"id":"r","x":3,"y":4,"floorId":"f"}],"schedule":[]}`},
	}
	for _, tt := range rejected {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, _ := newTestDatasetService(t)
			before := svc.Snapshot()

			_, err := svc.ImportJSON(ctx, viewer, []byte(tt.doc))
			var verr *dataset.ValidationError
			if !errors.As(err, &verr) || !verr.HasErrors() {
				t.Fatalf("ImportJSON() error = %v, want field errors", err)
			}
			if !reflect.DeepEqual(svc.Snapshot(), before) || svc.Version() != 0 {
				t.Error("dataset changed after rejected import")
			}
		})
	}

	t.Run("malformed json", func(t *testing.T) {
		svc, _, _ := newTestDatasetService(t)
		if _, err := svc.ImportJSON(ctx, viewer, []byte(`{"floors":`)); !errors.Is(err, dataset.ErrParse) {
			t.Fatalf("ImportJSON() error = %v, want ErrParse", err)
		}
	})
}

func TestExportJSONRoundTrip(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestDatasetService(t)

	data, err := svc.ExportJSON()
	if err != nil {
		t.Fatalf("ExportJSON() error = %v", err)
	}

	other, _, _ := newTestDatasetService(t)
	if _, err := other.RenameRoom(ctx, viewer, "A101", "tmp"); err != nil {
		t.Fatalf("RenameRoom() error = %v", err)
	}
	if _, err := other.ImportJSON(ctx, viewer, data); err != nil {
		t.Fatalf("ImportJSON() error = %v", err)
	}
	if !reflect.DeepEqual(other.Snapshot(), svc.Snapshot()) {
		t.Errorf("export/import round trip changed the dataset")
	}
}
