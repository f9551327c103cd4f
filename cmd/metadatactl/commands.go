package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/riskibarqy/jersey-metadata/internal/app"
	"github.com/riskibarqy/jersey-metadata/internal/usecase"
)

func newResolveCommand(root *rootOptions) *cobra.Command {
	var input usecase.AutoLinkInput

	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Auto-link free-text club, season and player attributes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(input.ClubText) == "" {
				return fmt.Errorf("--club is required")
			}
			return withServices(cmd, root, func(ctx context.Context, svc *app.Services) error {
				result, err := svc.AutoLink.AutoLink(ctx, input)
				if err != nil {
					return err
				}
				if root.json {
					return writeJSON(cmd.OutOrStdout(), result)
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderAutoLink(result))
				if len(result.Players) > 0 {
					fmt.Fprintln(cmd.OutOrStdout(), renderCandidates(result.Players))
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&input.ClubText, "club", "", "club name as printed on the listing")
	cmd.Flags().StringVar(&input.SeasonText, "season", "", "season text, e.g. 2019/20 or 19/20")
	cmd.Flags().StringVar(&input.PlayerName, "name", "", "player name hint")
	cmd.Flags().StringVar(&input.PlayerNumber, "number", "", "jersey number")
	return cmd
}

func newPlayersCommand(root *rootOptions) *cobra.Command {
	var (
		clubID int64
		season string
		number int
		name   string
	)

	cmd := &cobra.Command{
		Use:   "players",
		Short: "List candidate players for a club season",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			input := usecase.MatchPlayersInput{ClubID: clubID, PlayerNameHint: name}
			if id, err := strconv.ParseInt(strings.TrimSpace(season), 10, 64); err == nil && id > 0 && !looksLikeYear(season) {
				input.SeasonID = id
			} else {
				input.SeasonLabel = season
			}
			if cmd.Flags().Changed("number") {
				input.JerseyNumber = &number
			}
			return withServices(cmd, root, func(ctx context.Context, svc *app.Services) error {
				players, err := svc.Matching.MatchPlayers(ctx, input)
				if err != nil {
					return err
				}
				if root.json {
					return writeJSON(cmd.OutOrStdout(), players)
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderCandidates(players))
				return nil
			})
		},
	}
	cmd.Flags().Int64Var(&clubID, "club-id", 0, "club id")
	cmd.Flags().StringVar(&season, "season", "", "season id or label")
	cmd.Flags().IntVar(&number, "number", 0, "jersey number filter")
	cmd.Flags().StringVar(&name, "name", "", "player name hint")
	_ = cmd.MarkFlagRequired("club-id")
	_ = cmd.MarkFlagRequired("season")
	return cmd
}

func newBackfillCommand(root *rootOptions) *cobra.Command {
	var (
		opts      usecase.BackfillOptions
		playerIDs []string
	)

	cmd := &cobra.Command{
		Use:   "backfill",
		Short: "Fetch a club season roster upstream and store players and contracts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.SeasonID <= 0 && strings.TrimSpace(opts.SeasonLabel) == "" {
				return fmt.Errorf("one of --season-id or --season is required")
			}
			opts.PlayerExternalIDs = playerIDs
			return withServices(cmd, root, func(ctx context.Context, svc *app.Services) error {
				report, err := svc.Backfill.BackfillClubSeason(ctx, opts)
				if err != nil {
					return err
				}
				if root.json {
					return writeJSON(cmd.OutOrStdout(), report)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "club %d season %s (id %d) in %dms\n",
					report.ClubID, report.SeasonLabel, report.SeasonID, report.DurationMs)
				fmt.Fprintln(cmd.OutOrStdout(), renderBackfillReport(report))
				return nil
			})
		},
	}
	cmd.Flags().Int64Var(&opts.ClubID, "club-id", 0, "club id")
	cmd.Flags().Int64Var(&opts.SeasonID, "season-id", 0, "stored season id")
	cmd.Flags().StringVar(&opts.SeasonLabel, "season", "", "season label, created when missing")
	cmd.Flags().StringSliceVar(&playerIDs, "player-ids", nil, "upstream player ids to restrict the roster to")
	_ = cmd.MarkFlagRequired("club-id")
	return cmd
}

func newSeedCommand(root *rootOptions) *cobra.Command {
	var input usecase.SeedInput

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Link a competition season and its clubs, then backfill each club",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withServices(cmd, root, func(ctx context.Context, svc *app.Services) error {
				report, err := svc.Seed.SeedCompetition(ctx, input)
				if err != nil {
					return err
				}
				if root.json {
					return writeJSON(cmd.OutOrStdout(), report)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s (competition %d, season %d)\n",
					report.CompetitionName, report.SeasonLabel, report.CompetitionID, report.SeasonID)
				fmt.Fprintln(cmd.OutOrStdout(), renderSeedReport(report))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&input.CompetitionName, "competition", "", "competition name, e.g. Superliga")
	cmd.Flags().StringVar(&input.SeasonLabel, "season", "", "season label, e.g. 2019/20")
	cmd.Flags().IntVar(&input.MaxConcurrency, "concurrency", 4, "clubs backfilled in parallel")
	cmd.Flags().BoolVar(&input.SkipBackfill, "skip-backfill", false, "only link competition, season and clubs")
	_ = cmd.MarkFlagRequired("competition")
	_ = cmd.MarkFlagRequired("season")
	return cmd
}

// looksLikeYear treats 4-digit values as labels so "2019" is not read as a season id.
func looksLikeYear(raw string) bool {
	raw = strings.TrimSpace(raw)
	if len(raw) != 4 {
		return false
	}
	year, err := strconv.Atoi(raw)
	return err == nil && year >= 1900 && year <= 2100
}
