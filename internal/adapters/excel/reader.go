// Package excel reads team schedules from workbooks and writes risk reports.
package excel

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/Jmurp11/hockey-team-scheduler-sub003/internal/domain/model"
)

// ScheduleSheet is the sheet events are read from.
const ScheduleSheet = "Schedule"

// Column headers, matched case-insensitively.
const (
	colID       = "id"
	colKind     = "kind"
	colName     = "name"
	colDate     = "date"
	colStart    = "start"
	colEnd      = "end"
	colEndDate  = "end date"
	colVenue    = "venue"
	colCity     = "city"
	colState    = "state"
	colCountry  = "country"
	colDistance = "distance"
	colHome     = "home"
)

// Spreadsheet tools render dates and clocks in several ways depending on the
// cell format. Values that match none of these are passed through unchanged
// so the engines report the row as malformed.
var (
	dateLayouts  = []string{"2006-01-02", "1/2/2006", "1/2/06", "01-02-06", "2006/01/02"}
	clockLayouts = []string{"15:04", "15:04:05", "3:04 PM", "3:04PM", "3:04 pm"}
)

// ReadEventsFile opens path and reads its schedule sheet.
func ReadEventsFile(path string) ([]model.Event, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()
	return readEvents(f)
}

// ReadEvents reads the schedule sheet of a workbook stream.
func ReadEvents(r io.Reader) ([]model.Event, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()
	return readEvents(f)
}

func readEvents(f *excelize.File) ([]model.Event, error) {
	if idx, err := f.GetSheetIndex(ScheduleSheet); err != nil || idx < 0 {
		return nil, fmt.Errorf("%w: %q", ErrMissingSheet, ScheduleSheet)
	}
	rows, err := f.GetRows(ScheduleSheet)
	if err != nil {
		return nil, fmt.Errorf("reading rows: %w", err)
	}
	if len(rows) == 0 {
		return []model.Event{}, nil
	}

	cols := make(map[string]int, len(rows[0]))
	for i, h := range rows[0] {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, required := range []string{colKind, colDate} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrMissingColumn, required)
		}
	}

	events := make([]model.Event, 0, len(rows)-1)
	for n, row := range rows[1:] {
		cell := func(name string) string {
			i, ok := cols[name]
			if !ok || i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}
		if isBlank(row) {
			continue
		}

		ev := model.Event{
			ID:        cell(colID),
			Kind:      model.EventKind(strings.ToLower(cell(colKind))),
			Name:      cell(colName),
			Date:      normalize(cell(colDate), dateLayouts, "2006-01-02"),
			StartTime: normalize(cell(colStart), clockLayouts, "15:04"),
			EndTime:   normalize(cell(colEnd), clockLayouts, "15:04"),
			EndDate:   normalize(cell(colEndDate), dateLayouts, "2006-01-02"),
			IsHome:    parseBool(cell(colHome)),
			Location: model.Location{
				Name:    cell(colVenue),
				City:    cell(colCity),
				State:   cell(colState),
				Country: cell(colCountry),
			},
		}
		if ev.ID == "" {
			// header is row 1
			ev.ID = "row-" + strconv.Itoa(n+2)
		}
		if d := cell(colDistance); d != "" {
			if miles, err := strconv.ParseFloat(d, 64); err == nil {
				ev.Location.DistanceFromHome = &miles
			}
		}
		events = append(events, ev)
	}
	return events, nil
}

func normalize(v string, layouts []string, out string) string {
	if v == "" {
		return ""
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t.Format(out)
		}
	}
	return v
}

func parseBool(v string) bool {
	switch strings.ToLower(v) {
	case "1", "y", "yes", "true", "x", "home":
		return true
	default:
		return false
	}
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
