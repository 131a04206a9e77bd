package dataset

import "school-navigator/internal/models"

type lessonKey struct {
	roomID    string
	timeStart string
}

func keyOf(s models.LessonSlot) lessonKey {
	return lessonKey{roomID: s.RoomID, timeStart: s.TimeStart}
}

// MergeRooms returns every existing room whose id is absent from incoming,
// followed by the incoming rooms in their own order. A conflicting room is
// replaced whole, never patched field by field. When incoming repeats an id
// only its last occurrence is kept.
func MergeRooms(existing, incoming []models.Room) []models.Room {
	incoming = lastByID(incoming)

	ids := make(map[string]struct{}, len(incoming))
	for _, r := range incoming {
		ids[r.ID] = struct{}{}
	}

	merged := make([]models.Room, 0, len(existing)+len(incoming))
	for _, r := range existing {
		if _, ok := ids[r.ID]; !ok {
			merged = append(merged, r)
		}
	}
	return append(merged, incoming...)
}

// MergeSchedule applies the MergeRooms policy to lessons keyed by (roomId, timeStart)
func MergeSchedule(existing, incoming []models.LessonSlot) []models.LessonSlot {
	keys := make(map[lessonKey]struct{}, len(incoming))
	for _, s := range incoming {
		keys[keyOf(s)] = struct{}{}
	}

	merged := make([]models.LessonSlot, 0, len(existing)+len(incoming))
	for _, s := range existing {
		if _, ok := keys[keyOf(s)]; !ok {
			merged = append(merged, s)
		}
	}
	return append(merged, incoming...)
}

// ShadowedRooms lists the ids of existing rooms that merging incoming would replace
func ShadowedRooms(existing, incoming []models.Room) []string {
	ids := make(map[string]struct{}, len(incoming))
	for _, r := range incoming {
		ids[r.ID] = struct{}{}
	}
	shadowed := []string{}
	for _, r := range existing {
		if _, ok := ids[r.ID]; ok {
			shadowed = append(shadowed, r.ID)
		}
	}
	return shadowed
}

// ShadowedLessons counts the existing lessons that merging incoming would replace
func ShadowedLessons(existing, incoming []models.LessonSlot) int {
	keys := make(map[lessonKey]struct{}, len(incoming))
	for _, s := range incoming {
		keys[keyOf(s)] = struct{}{}
	}
	n := 0
	for _, s := range existing {
		if _, ok := keys[keyOf(s)]; ok {
			n++
		}
	}
	return n
}

// lastByID drops every room that is followed by a later room with the same id
func lastByID(rooms []models.Room) []models.Room {
	seen := make(map[string]struct{}, len(rooms))
	kept := make([]models.Room, 0, len(rooms))
	for i := len(rooms) - 1; i >= 0; i-- {
		if _, ok := seen[rooms[i].ID]; ok {
			continue
		}
		seen[rooms[i].ID] = struct{}{}
		kept = append(kept, rooms[i])
	}
	for i, j := 0, len(kept)-1; i < j; i, j = i+1, j-1 {
		kept[i], kept[j] = kept[j], kept[i]
	}
	return kept
}
