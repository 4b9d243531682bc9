package schedulefile_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"github.com/Jmurp11/hockey-team-scheduler-sub003/internal/domain/model"
	"github.com/Jmurp11/hockey-team-scheduler-sub003/internal/schedulefile"
)

const yamlDoc = `
team:
  id: home
  name: Ice Dogs
  rating: 5.5
events:
  - id: g1
    kind: game
    name: vs Hawks
    date: "2024-06-01"
    start_time: "18:00"
    is_home: true
    location:
      name: Rink X
      distance_from_home: 0
  - id: t1
    kind: tournament
    name: Summer Cup
    date: "2024-07-12"
    end_date: "2024-07-14"
candidates:
  - id: c1
    kind: tournament
    name: Lakeside Classic
    rating: 6
  - id: c2
    kind: tournament
    name: Summer Showdown
`

const jsonDoc = `{
  "team": {"id": "home", "rating": 5.5},
  "events": [{"id": "g1", "kind": "game", "date": "2024-06-01", "startTime": "18:00", "isHome": true,
              "location": {"name": "Rink X", "distanceFromHome": 0}}]
}`

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	convey.Convey("Given a YAML schedule file", t, func() {
		f, err := schedulefile.Load(writeFile(t, "season.yaml", yamlDoc))
		convey.So(err, convey.ShouldBeNil)

		convey.Convey("Then every section is decoded", func() {
			convey.So(f.Team.Name, convey.ShouldEqual, "Ice Dogs")
			convey.So(*f.Team.Rating, convey.ShouldEqual, 5.5)
			convey.So(f.Events, convey.ShouldHaveLength, 2)
			convey.So(f.Events[0].StartTime, convey.ShouldEqual, "18:00")
			convey.So(f.Events[0].IsHome, convey.ShouldBeTrue)
			convey.So(*f.Events[0].Location.DistanceFromHome, convey.ShouldEqual, 0)
			convey.So(f.Events[1].EndDate, convey.ShouldEqual, "2024-07-14")
			convey.So(f.Candidates, convey.ShouldHaveLength, 2)
			convey.So(f.Candidates[1].Rating, convey.ShouldBeNil)
		})
	})

	convey.Convey("Given the same schedule as JSON", t, func() {
		f, err := schedulefile.Load(writeFile(t, "season.json", jsonDoc))

		convey.Convey("Then it decodes to the same events", func() {
			convey.So(err, convey.ShouldBeNil)
			convey.So(f.Events, convey.ShouldResemble, []model.Event{{
				ID: "g1", Kind: model.KindGame, Date: "2024-06-01", StartTime: "18:00", IsHome: true,
				Location: model.Location{Name: "Rink X", DistanceFromHome: model.Float64(0)},
			}})
		})
	})

	convey.Convey("Given an empty YAML file", t, func() {
		f, err := schedulefile.Load(writeFile(t, "empty.yml", ""))
		convey.So(err, convey.ShouldBeNil)
		convey.So(f.Events, convey.ShouldNotBeNil)
		convey.So(f.Events, convey.ShouldBeEmpty)
	})

	convey.Convey("Given unknown fields", t, func() {
		_, yerr := schedulefile.Load(writeFile(t, "bad.yaml", "evnts: []\n"))
		_, jerr := schedulefile.Load(writeFile(t, "bad.json", `{"evnts": []}`))
		convey.So(yerr, convey.ShouldNotBeNil)
		convey.So(jerr, convey.ShouldNotBeNil)
	})

	convey.Convey("Given an unsupported extension", t, func() {
		_, err := schedulefile.Load(writeFile(t, "season.csv", "id,kind\n"))
		convey.So(errors.Is(err, schedulefile.ErrUnsupportedFormat), convey.ShouldBeTrue)
	})

	convey.Convey("Given a missing file", t, func() {
		_, err := schedulefile.Load(filepath.Join(t.TempDir(), "nope.yaml"))
		convey.So(errors.Is(err, os.ErrNotExist), convey.ShouldBeTrue)
	})
}

func TestFilterCandidates(t *testing.T) {
	convey.Convey("Given named and unnamed candidates", t, func() {
		candidates := []model.Candidate{
			{ID: "c1", Name: "Lakeside Classic"},
			{ID: "c2", Name: "Summer Showdown"},
			{ID: "c3", Name: "Summer Cup"},
			{ID: "summit-open"},
		}

		convey.Convey("When the query is empty", func() {
			convey.So(schedulefile.FilterCandidates(candidates, "  "), convey.ShouldResemble, candidates)
		})

		convey.Convey("When the query matches several names", func() {
			got := schedulefile.FilterCandidates(candidates, "summer")

			convey.Convey("Then the closest match comes first", func() {
				convey.So(got, convey.ShouldHaveLength, 2)
				convey.So(got[0].ID, convey.ShouldEqual, "c3")
				convey.So(got[1].ID, convey.ShouldEqual, "c2")
			})
		})

		convey.Convey("When the query matches an id", func() {
			got := schedulefile.FilterCandidates(candidates, "SUMMIT")
			convey.So(got, convey.ShouldHaveLength, 1)
			convey.So(got[0].ID, convey.ShouldEqual, "summit-open")
		})

		convey.Convey("When nothing matches", func() {
			convey.So(schedulefile.FilterCandidates(candidates, "zzz"), convey.ShouldBeEmpty)
		})
	})
}
