package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Jmurp11/hockey-team-scheduler-sub003/internal/domain/model"
	"github.com/Jmurp11/hockey-team-scheduler-sub003/internal/domain/types"
	"github.com/Jmurp11/hockey-team-scheduler-sub003/internal/schedulefile"
)

// fitReport is the --json output of the fit command.
type fitReport struct {
	Tournaments []types.TournamentFitEvaluation `json:"tournaments"`
	Opponents   []types.OpponentMatch           `json:"opponents"`
}

func newFitCmd(c *cli) *cobra.Command {
	var (
		schedulePath string
		match        string
		asJSON       bool
	)
	cmd := &cobra.Command{
		Use:   "fit <candidates.{yaml,json}>",
		Short: "Score candidate opponents and tournaments against the team's schedule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			in, err := schedulefile.Load(args[0])
			if err != nil {
				return err
			}
			events := in.Events
			if schedulePath != "" {
				sched, err := schedulefile.Load(schedulePath)
				if err != nil {
					return err
				}
				events = sched.Events
			}

			var tournaments, opponents []model.Candidate
			for _, cand := range schedulefile.FilterCandidates(in.Candidates, match) {
				if cand.Kind == model.CandidateTournament {
					tournaments = append(tournaments, cand)
				} else {
					opponents = append(opponents, cand)
				}
			}

			svc, err := c.startService(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = svc.Stop(ctx) }()

			var report fitReport
			if report.Tournaments, err = svc.ScoreTournaments(ctx, in.Team, tournaments, events); err != nil {
				return err
			}
			if report.Opponents, err = svc.ScoreOpponents(ctx, in.Team, opponents, events); err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			}
			printFit(cmd.OutOrStdout(), report)
			return nil
		},
	}
	cmd.Flags().StringVarP(&schedulePath, "schedule", "s", "", "Schedule file to score against (default: events in the candidates file)")
	cmd.Flags().StringVarP(&match, "match", "m", "", "Only score candidates whose name fuzzy-matches this text")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the scores as JSON")
	return cmd
}

func printFit(w io.Writer, r fitReport) {
	for _, t := range r.Tournaments {
		fmt.Fprintf(w, "%-14s %5.1f  %s\n", t.FitLabel, t.OverallScore, t.Explanation)
	}
	for _, o := range r.Opponents {
		fmt.Fprintf(w, "%-14s %5.1f  %s\n", o.FitLabel, o.Scores.Overall, o.Explanation)
	}
	if len(r.Tournaments)+len(r.Opponents) == 0 {
		fmt.Fprintln(w, "no candidates matched")
	}
}
