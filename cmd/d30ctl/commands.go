package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/spf13/cobra"

	"github.com/riskibarqy/dirty-thirty/internal/app"
	"github.com/riskibarqy/dirty-thirty/internal/domain/gameday"
	"github.com/riskibarqy/dirty-thirty/internal/domain/leaderboard"
	"github.com/riskibarqy/dirty-thirty/internal/domain/universe"
	"github.com/riskibarqy/dirty-thirty/internal/usecase"
)

func aggregateCmd(jsonOutput *bool) *cobra.Command {
	var date string
	cmd := &cobra.Command{
		Use:   "aggregate",
		Short: "Build the player universe of a game day and print a summary",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWithApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				day, err := resolveDay(date, a.Config.GameDayLocation, time.Now())
				if err != nil {
					return err
				}
				u, err := a.Aggregator.Aggregate(ctx, day)
				if err != nil {
					return err
				}
				snap := u.Snapshot()
				if *jsonOutput {
					return writeJSON(cmd.OutOrStdout(), snap)
				}
				return writeUniverseSummary(cmd.OutOrStdout(), snap)
			})
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "Game day as YYYYMMDD or YYYY-MM-DD (default: today)")
	return cmd
}

func reconcileCmd(jsonOutput *bool) *cobra.Command {
	var date string
	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Aggregate a game day, run one live cycle and refresh saved picks",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWithApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				day, err := resolveDay(date, a.Config.GameDayLocation, time.Now())
				if err != nil {
					return err
				}
				u, err := a.Aggregator.Aggregate(ctx, day)
				if err != nil {
					return err
				}
				report, err := a.Reconciler.Reconcile(ctx, u)
				if err != nil {
					return err
				}
				if *jsonOutput {
					return writeJSON(cmd.OutOrStdout(), report)
				}
				return writeReconcileSummary(cmd.OutOrStdout(), report)
			})
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "Game day as YYYYMMDD or YYYY-MM-DD (default: today)")
	return cmd
}

func standingsCmd(jsonOutput *bool) *cobra.Command {
	var (
		date  string
		final bool
	)
	cmd := &cobra.Command{
		Use:   "standings",
		Short: "Print the ranked standings of a game day",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWithApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				day, err := resolveDay(date, a.Config.GameDayLocation, time.Now())
				if err != nil {
					return err
				}

				var (
					standings []leaderboard.Standing
					winner    *leaderboard.Standing
				)
				if final {
					results, err := a.Leaderboard.Results(ctx, day)
					if err != nil {
						return err
					}
					standings, winner = results.Standings, results.Winner
					if *jsonOutput {
						return writeJSON(cmd.OutOrStdout(), results)
					}
				} else {
					standings, err = a.Leaderboard.Standings(ctx, day)
					if err != nil {
						return err
					}
					if *jsonOutput {
						return writeJSON(cmd.OutOrStdout(), standings)
					}
				}
				return writeStandings(cmd.OutOrStdout(), day, standings, winner)
			})
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "Game day as YYYYMMDD or YYYY-MM-DD (default: today)")
	cmd.Flags().BoolVar(&final, "final", false, "Only rank finished picks and name the winner")
	return cmd
}

func resolveDay(raw string, loc *time.Location, now time.Time) (gameday.Day, error) {
	if strings.TrimSpace(raw) == "" {
		return gameday.FromTime(now, loc), nil
	}
	day, err := gameday.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err)
	}
	return day, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := sonic.ConfigDefault.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeUniverseSummary(w io.Writer, snap universe.Snapshot) error {
	if snap.NoGames {
		_, err := fmt.Fprintf(w, "%s: No games today\n", snap.Day)
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "date\t%s\n", snap.Day)
	fmt.Fprintf(tw, "games\t%d\n", len(snap.Games))
	fmt.Fprintf(tw, "teams\t%d\n", snap.TeamCount)
	fmt.Fprintf(tw, "players\t%d\n", len(snap.Players))
	fmt.Fprintf(tw, "live\t%d\n", snap.LiveCount)
	fmt.Fprintln(tw)
	fmt.Fprintln(tw, "GAME\tSTART\tSTATUS\tMATCHUP")
	for _, g := range snap.Games {
		abbrs := make([]string, 0, len(g.Teams))
		for _, t := range g.Teams {
			abbrs = append(abbrs, t.Abbreviation)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", g.ID, g.ScheduledStart.Format(time.Kitchen), g.Status, strings.Join(abbrs, " vs "))
	}
	return tw.Flush()
}

func writeReconcileSummary(w io.Writer, report usecase.ReconcileReport) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "date\t%s\n", report.Day)
	fmt.Fprintf(tw, "games\t%d requested, %d applied, %d stale, %d failed\n", report.Requested, report.Applied, report.Stale, report.Failed)
	fmt.Fprintf(tw, "live\t%d\n", report.LiveGames)
	fmt.Fprintf(tw, "locked\t%d\n", report.Locked)
	fmt.Fprintf(tw, "players updated\t%d\n", report.UpdatedPlayers)
	fmt.Fprintf(tw, "picks updated\t%d\n", report.UpdatedPicks)
	fmt.Fprintf(tw, "took\t%s\n", report.FinishedAt.Sub(report.StartedAt).Round(time.Millisecond))
	return tw.Flush()
}

func writeStandings(w io.Writer, day gameday.Day, standings []leaderboard.Standing, winner *leaderboard.Standing) error {
	if len(standings) == 0 {
		_, err := fmt.Fprintf(w, "%s: no picks\n", day)
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "POS\tRANK\tUSER\tPICK 1\tPICK 2\tTOTAL\tOUTCOME")
	for _, s := range standings {
		rank := "-"
		if s.Rank > 0 {
			rank = fmt.Sprint(s.Rank)
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			s.Position, rank, s.UserName,
			pickLabel(s.P1Name, s.P1Points), pickLabel(s.P2Name, s.P2Points),
			pointsLabel(s.Total), s.Outcome,
		)
	}
	if winner != nil {
		fmt.Fprintf(tw, "\nwinner\t%s (%s)\n", winner.UserName, pointsLabel(winner.Total))
	}
	return tw.Flush()
}

func pickLabel(name string, points *int) string {
	if name == "" {
		return "-"
	}
	return fmt.Sprintf("%s %s", name, pointsLabel(points))
}

func pointsLabel(points *int) string {
	if points == nil {
		return "--"
	}
	return fmt.Sprint(*points)
}
