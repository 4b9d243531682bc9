package excel

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/xuri/excelize/v2"

	"github.com/Jmurp11/hockey-team-scheduler-sub003/internal/domain/model"
	"github.com/Jmurp11/hockey-team-scheduler-sub003/internal/domain/types"
)

func scheduleWorkbook(t *testing.T, sheet string, rows [][]interface{}) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		t.Fatalf("rename sheet: %v", err)
	}
	for i, row := range rows {
		row := row
		if err := f.SetSheetRow(sheet, cellRef(1, i+1), &row); err != nil {
			t.Fatalf("set row: %v", err)
		}
	}
	path := filepath.Join(t.TempDir(), "schedule.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save: %v", err)
	}
	return path
}

func TestReadEvents(t *testing.T) {
	Convey("Given a schedule workbook", t, func() {
		path := scheduleWorkbook(t, ScheduleSheet, [][]interface{}{
			{"ID", "Kind", "Name", "Date", "Start", "End", "End Date", "Venue", "City", "State", "Distance", "Home"},
			{"g1", "Game", "vs Hawks", "2024-06-01", "18:00", "", "", "Rink X", "Boston", "MA", 0, "yes"},
			{"", "game", "at Owls", "6/1/2024", "9:30 PM", "22:45", "", "Rink Y", "Salem", "MA", 80.5, ""},
			{},
			{"t1", "tournament", "Summer Cup", "2024-07-12", "", "", "2024-07-14", "Arena", "", "", "", "no"},
			{"bad", "scrimmage", "Mystery", "someday"},
		})

		Convey("When it is read", func() {
			events, err := ReadEventsFile(path)
			So(err, ShouldBeNil)

			Convey("Then rows become events in sheet order", func() {
				So(events, ShouldHaveLength, 4)
				So(events[0], ShouldResemble, model.Event{
					ID: "g1", Kind: model.KindGame, Name: "vs Hawks", Date: "2024-06-01", StartTime: "18:00", IsHome: true,
					Location: model.Location{Name: "Rink X", City: "Boston", State: "MA", DistanceFromHome: model.Float64(0)},
				})
			})

			Convey("Then spreadsheet date and clock formats are normalized", func() {
				So(events[1].ID, ShouldEqual, "row-3")
				So(events[1].Date, ShouldEqual, "2024-06-01")
				So(events[1].StartTime, ShouldEqual, "21:30")
				So(events[1].EndTime, ShouldEqual, "22:45")
				So(*events[1].Location.DistanceFromHome, ShouldEqual, 80.5)
				So(events[1].IsHome, ShouldBeFalse)
			})

			Convey("Then tournaments keep their end date and unknown distance", func() {
				So(events[2].Kind, ShouldEqual, model.KindTournament)
				So(events[2].EndDate, ShouldEqual, "2024-07-14")
				So(events[2].Location.DistanceFromHome, ShouldBeNil)
			})

			Convey("Then malformed rows pass through for the engines to skip", func() {
				So(events[3].Kind, ShouldEqual, model.EventKind("scrimmage"))
				So(events[3].Date, ShouldEqual, "someday")
			})
		})
	})

	Convey("Given a workbook without a schedule sheet", t, func() {
		path := scheduleWorkbook(t, "Games", [][]interface{}{{"Kind", "Date"}})
		_, err := ReadEventsFile(path)
		So(errors.Is(err, ErrMissingSheet), ShouldBeTrue)
	})

	Convey("Given a schedule sheet without a date column", t, func() {
		path := scheduleWorkbook(t, ScheduleSheet, [][]interface{}{{"Kind", "Name"}, {"game", "x"}})
		_, err := ReadEventsFile(path)
		So(errors.Is(err, ErrMissingColumn), ShouldBeTrue)
	})

	Convey("Given bytes that are not a workbook", t, func() {
		_, err := ReadEvents(bytes.NewReader([]byte("not a zip")))
		So(err, ShouldNotBeNil)
	})
}

func TestRiskReport(t *testing.T) {
	Convey("Given an evaluation with risks and skipped comparisons", t, func() {
		eval := types.ScheduleRiskEvaluation{
			Risks: []types.ScheduleRisk{
				{
					ID: "r1", RiskType: types.HardTimeConflict, Severity: types.SeverityError,
					AffectedEvents: []types.AffectedEvent{
						{ID: "A", DisplayName: "Game A", Date: "2024-06-01"},
						{ID: "B", DisplayName: "Game B", Date: "2024-06-01"},
					},
					Explanation: "Game A and Game B overlap.",
					Suggestion:  "Reschedule one of them.",
				},
			},
			TotalRisks: 1,
			Skipped:    []types.SkippedComparison{{EventIDs: []string{"C"}, Reason: "invalid date"}},
		}
		path := filepath.Join(t.TempDir(), "report.xlsx")

		Convey("When the report is written", func() {
			So(WriteRiskReport(path, eval), ShouldBeNil)
			f, err := excelize.OpenFile(path)
			So(err, ShouldBeNil)
			defer f.Close()

			Convey("Then the risks sheet lists each risk", func() {
				rows, err := f.GetRows(RisksSheet)
				So(err, ShouldBeNil)
				So(rows, ShouldHaveLength, 2)
				So(rows[0], ShouldResemble, riskHeaders)
				So(rows[1], ShouldResemble, []string{"error", "HARD_TIME_CONFLICT", "2024-06-01", "Game A, Game B", "Game A and Game B overlap.", "Reschedule one of them."})
			})

			Convey("Then the skipped sheet lists each skipped comparison", func() {
				rows, err := f.GetRows(SkippedSheet)
				So(err, ShouldBeNil)
				So(rows, ShouldResemble, [][]string{{"Events", "Reason"}, {"C", "invalid date"}})
			})

			Convey("Then the default sheet is gone", func() {
				idx, err := f.GetSheetIndex("Sheet1")
				So(err, ShouldBeNil)
				So(idx, ShouldEqual, -1)
			})
		})
	})
}
