package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Jmurp11/hockey-team-scheduler-sub003/internal/adapters/excel"
	"github.com/Jmurp11/hockey-team-scheduler-sub003/internal/domain/risk"
	"github.com/Jmurp11/hockey-team-scheduler-sub003/internal/domain/types"
	"github.com/Jmurp11/hockey-team-scheduler-sub003/internal/schedulefile"
	"github.com/Jmurp11/hockey-team-scheduler-sub003/pkg/logger"
)

func newRisksCmd(c *cli) *cobra.Command {
	var (
		reportPath string
		asJSON     bool
	)
	cmd := &cobra.Command{
		Use:   "risks <schedule.{yaml,json,xlsx}>",
		Short: "Report conflicts, tight turnarounds and travel risks in a schedule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := schedulefile.Load(args[0])
			if err != nil {
				return err
			}
			evaluator, err := risk.NewEvaluator(
				risk.WithConfig(c.cfg.Risk),
				risk.WithLogger(c.log.Named("risk")),
			)
			if err != nil {
				return err
			}
			eval := evaluator.Evaluate(cmd.Context(), f.Events)

			if reportPath != "" {
				if err := excel.WriteRiskReport(reportPath, eval); err != nil {
					return err
				}
				c.log.Info(cmd.Context(), "risk report written", logger.String("path", reportPath))
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(eval)
			}
			printRisks(cmd.OutOrStdout(), eval)
			return nil
		},
	}
	cmd.Flags().StringVarP(&reportPath, "report", "r", "", "Also write an Excel risk report to this path")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the evaluation as JSON")
	return cmd
}

func printRisks(w io.Writer, eval types.ScheduleRiskEvaluation) {
	counts := eval.CountBySeverity
	fmt.Fprintf(w, "%d risks (%d error, %d warning, %d info)\n", eval.TotalRisks, counts.Error, counts.Warning, counts.Info)
	for _, r := range eval.Risks {
		var date string
		if len(r.AffectedEvents) > 0 {
			date = r.AffectedEvents[0].Date
		}
		fmt.Fprintf(w, "\n[%s] %s %s\n  %s\n", r.Severity, r.RiskType, date, r.Explanation)
		if r.Suggestion != "" {
			fmt.Fprintf(w, "  -> %s\n", r.Suggestion)
		}
	}
	if len(eval.Skipped) > 0 {
		fmt.Fprintf(w, "\n%d comparisons skipped:\n", len(eval.Skipped))
		for _, s := range eval.Skipped {
			fmt.Fprintf(w, "  %s: %s\n", strings.Join(s.EventIDs, ", "), s.Reason)
		}
	}
}
