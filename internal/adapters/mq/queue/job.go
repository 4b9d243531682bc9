package queue

import (
	"github.com/Jmurp11/hockey-team-scheduler-sub003/internal/domain/model"
	"github.com/Jmurp11/hockey-team-scheduler-sub003/internal/domain/types"
)

// Job asks a worker to score one candidate against a team's schedule.
// Index is the candidate's position in the caller's batch.
type Job struct {
	Index     int
	Candidate model.Candidate
	Kind      model.CandidateKind
	Team      model.Team
	Events    []model.Event

	// Reply receives exactly one Result. It must be buffered for the whole
	// batch so workers never block on a caller that has gone away.
	Reply chan<- Result
}

// Result carries one scored candidate back to the submitter. Exactly one of
// Tournament or Opponent is set unless Err is non-nil.
type Result struct {
	Index      int
	Tournament *types.TournamentFitEvaluation
	Opponent   *types.OpponentMatch
	Err        error
}
