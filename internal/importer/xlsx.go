package importer

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"school-navigator/internal/dataset"
)

const (
	roomsSheetName    = "rooms"
	scheduleSheetName = "schedule"
)

// Workbook holds the rows read from a spreadsheet import.
// HasSchedule is false when the workbook had no schedule sheet.
type Workbook struct {
	RoomsSheet    string        `json:"roomsSheet"`
	ScheduleSheet string        `json:"scheduleSheet,omitempty"`
	Rooms         []dataset.Row `json:"-"`
	Schedule      []dataset.Row `json:"-"`
	HasSchedule   bool          `json:"hasSchedule"`
}

// ReadWorkbook reads room and schedule rows from an .xlsx workbook
func ReadWorkbook(r io.Reader) (*Workbook, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	roomsSheet, scheduleSheet := SelectSheets(f.GetSheetList())
	if roomsSheet == "" {
		return nil, fmt.Errorf("open workbook: no sheets")
	}

	wb := &Workbook{RoomsSheet: roomsSheet, ScheduleSheet: scheduleSheet}

	if wb.Rooms, err = readSheet(f, roomsSheet); err != nil {
		return nil, err
	}
	if scheduleSheet != "" {
		if wb.Schedule, err = readSheet(f, scheduleSheet); err != nil {
			return nil, err
		}
		wb.HasSchedule = true
	}
	return wb, nil
}

// SelectSheets picks the sheets to import. A sheet named "rooms" or
// "schedule" wins; otherwise the first sheet holds rooms and the second
// holds the schedule. schedule is empty when there is no second sheet.
func SelectSheets(names []string) (rooms, schedule string) {
	for _, name := range names {
		switch name {
		case roomsSheetName:
			rooms = name
		case scheduleSheetName:
			schedule = name
		}
	}
	if rooms == "" && len(names) > 0 {
		rooms = names[0]
	}
	if schedule == "" && len(names) > 1 {
		schedule = names[1]
	}
	return rooms, schedule
}

func readSheet(f *excelize.File, sheet string) ([]dataset.Row, error) {
	table, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(table) > 0 {
		for i, name := range table[0] {
			table[0][i] = strings.TrimSpace(name)
		}
	}
	return dataset.RowsFromTable(table), nil
}
